package amtraker

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

const aberdeenJSON = `{
    "ABE": {
        "name": "Aberdeen",
        "code": "ABE",
        "tz": "America/New_York",
        "lat": 39.508447,
        "lon": -76.16326,
        "address1": "18 East Bel Air Avenue",
        "address2": " ",
        "city": "Aberdeen",
        "state": "MD",
        "zip": "21001",
        "trains": []
    }
}`

func TestUnmarshalStations_SingleStation(t *testing.T) {
	stations, err := UnmarshalStations([]byte(aberdeenJSON))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	if len(stations) != 1 {
		t.Fatalf("expected 1 station, got %d", len(stations))
	}

	station, ok := stations["ABE"]
	if !ok {
		t.Fatal("expected station keyed ABE")
	}

	if station.Name != "Aberdeen" {
		t.Errorf("expected name Aberdeen, got %q", station.Name)
	}
	if station.Code != "ABE" {
		t.Errorf("expected code ABE, got %q", station.Code)
	}
	if station.TZ != "America/New_York" {
		t.Errorf("expected tz America/New_York, got %q", station.TZ)
	}
	if station.Lat != 39.508447 {
		t.Errorf("expected lat 39.508447, got %v", station.Lat)
	}
	if station.Lon != -76.16326 {
		t.Errorf("expected lon -76.16326, got %v", station.Lon)
	}
	if station.Address1 != "18 East Bel Air Avenue" {
		t.Errorf("unexpected address1 %q", station.Address1)
	}
	if station.Address2 != " " {
		t.Errorf("unexpected address2 %q", station.Address2)
	}
	if station.City != "Aberdeen" || station.State != "MD" || station.Zip != "21001" {
		t.Errorf("unexpected city/state/zip: %q %q %q", station.City, station.State, station.Zip)
	}
	if len(station.Trains) != 0 {
		t.Errorf("expected no trains, got %v", station.Trains)
	}
}

func TestUnmarshalStations_EmptyArray(t *testing.T) {
	stations, err := UnmarshalStations([]byte("[]"))
	if err != nil {
		t.Fatalf("empty array should decode to an empty mapping, got error: %v", err)
	}
	if len(stations) != 0 {
		t.Fatalf("expected 0 stations, got %d", len(stations))
	}
}

func TestUnmarshalStations_MissingRequiredField(t *testing.T) {
	payload := `{"ABE": {"name": "Aberdeen", "tz": "America/New_York", "lat": 1, "lon": 2,
		"address1": "a", "address2": "b", "city": "c", "state": "MD", "zip": "21001", "trains": []}}`

	_, err := UnmarshalStations([]byte(payload))
	if err == nil {
		t.Fatal("expected a decode error for a station without a code")
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
	if decodeErr.Path != "" {
		t.Errorf("plain mode should not carry a path, got %q", decodeErr.Path)
	}
	if decodeErr.Response != "" {
		t.Errorf("plain mode should not carry the raw response")
	}
}

func TestUnmarshalStationsDebug_PathNamesField(t *testing.T) {
	payload := `{"ABE": {"name": "Aberdeen", "tz": "America/New_York", "lat": 1, "lon": 2,
		"address1": "a", "address2": "b", "city": "c", "state": "MD", "zip": "21001", "trains": []}}`

	_, err := UnmarshalStationsDebug([]byte(payload))
	if err == nil {
		t.Fatal("expected a decode error for a station without a code")
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
	if decodeErr.Path != "ABE.code" {
		t.Errorf("expected path ABE.code, got %q", decodeErr.Path)
	}
	if decodeErr.Response != payload {
		t.Errorf("expected the raw payload in Response, got %q", decodeErr.Response)
	}
}

func TestUnmarshalStations_Envelope(t *testing.T) {
	enveloped := `{"stations": ` + aberdeenJSON + `}`

	stations, err := UnmarshalStationsEnvelope([]byte(enveloped))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if len(stations) != 1 {
		t.Fatalf("expected 1 station, got %d", len(stations))
	}
	if stations["ABE"].Name != "Aberdeen" {
		t.Errorf("expected Aberdeen, got %q", stations["ABE"].Name)
	}
}

func TestUnmarshalStationsEnvelopeDebug_Path(t *testing.T) {
	enveloped := `{"stations": {"ABE": {"name": "Aberdeen", "tz": "x", "lat": 1, "lon": 2,
		"address1": "a", "address2": "b", "city": "c", "state": "MD", "zip": "21001", "trains": []}}}`

	_, err := UnmarshalStationsEnvelopeDebug([]byte(enveloped))
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
	if decodeErr.Path != "ABE.code" {
		t.Errorf("expected path ABE.code, got %q", decodeErr.Path)
	}
}

func TestStatusFallback(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  TrainStatus
	}{
		{"enroute", "Enroute", StatusEnroute},
		{"at station", "Station", StatusStation},
		{"departed", "Departed", StatusDeparted},
		{"unknown token", "Arrived", StatusUnknown},
		{"empty token", "", StatusUnknown},
		{"lowercase", "enroute", StatusUnknown},
		{"garbage", "???", StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := `{"612": [{"trainID": "612-5", "trainNum": "612", "routeName": "Keystone",
				"origCode": "NYP", "origName": "New York", "destCode": "HAR", "destName": "Harrisburg",
				"stations": [{"code": "PHL", "name": "Philadelphia", "status": "` + tt.token + `"}]}]}`

			trains, err := UnmarshalTrains([]byte(payload))
			if err != nil {
				t.Fatalf("status token %q must never fail the decode: %v", tt.token, err)
			}

			got := trains["612"][0].Stations[0].Status
			if got != tt.want {
				t.Errorf("token %q decoded to %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestUnmarshalTrains_Full(t *testing.T) {
	payload := `{"612": [{
		"trainID": "612-5",
		"trainNum": "612",
		"routeName": "Keystone",
		"origCode": "NYP",
		"origName": "New York Penn",
		"destCode": "HAR",
		"destName": "Harrisburg",
		"lat": 40.1,
		"lon": -75.2,
		"heading": "W",
		"velocity": 88.5,
		"stations": [
			{"code": "NYP", "name": "New York Penn", "status": "Departed",
			 "schDep": "2024-03-01T09:00:00-05:00", "dep": "2024-03-01T09:02:00-05:00"},
			{"code": "PHL", "name": "Philadelphia", "status": "Enroute",
			 "schArr": "2024-03-01T10:20:00-05:00", "arr": "", "dep": ""}
		]
	}]}`

	trains, err := UnmarshalTrains([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	list, ok := trains["612"]
	if !ok || len(list) != 1 {
		t.Fatalf("expected one train under 612, got %v", trains)
	}

	train := list[0]
	if train.TrainID != "612-5" || train.TrainNum != "612" || train.RouteName != "Keystone" {
		t.Errorf("unexpected identity fields: %+v", train)
	}
	if train.OrigCode != "NYP" || train.DestCode != "HAR" {
		t.Errorf("unexpected endpoints: %q -> %q", train.OrigCode, train.DestCode)
	}
	if train.Lat == nil || *train.Lat != 40.1 {
		t.Errorf("expected lat 40.1, got %v", train.Lat)
	}
	if train.Velocity == nil || *train.Velocity != 88.5 {
		t.Errorf("expected velocity 88.5, got %v", train.Velocity)
	}

	if len(train.Stations) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(train.Stations))
	}

	nyp := train.Stations[0]
	if nyp.Status != StatusDeparted {
		t.Errorf("expected NYP departed, got %q", nyp.Status)
	}
	if nyp.SchDep == nil || nyp.Dep == nil {
		t.Fatal("expected NYP scheduled and actual departure present")
	}
	wantDep := time.Date(2024, 3, 1, 9, 2, 0, 0, time.FixedZone("", -5*3600))
	if !nyp.Dep.Equal(wantDep) {
		t.Errorf("expected departure %v, got %v", wantDep, nyp.Dep)
	}
	if nyp.SchArr != nil || nyp.Arr != nil {
		t.Errorf("expected absent arrival timestamps at origin")
	}

	phl := train.Stations[1]
	if phl.Status != StatusEnroute {
		t.Errorf("expected PHL enroute, got %q", phl.Status)
	}
	// Empty-string timestamps count as absent, not as a decode failure.
	if phl.Arr != nil || phl.Dep != nil {
		t.Errorf("expected empty timestamps to decode as absent")
	}
	if phl.SchArr == nil {
		t.Error("expected scheduled arrival present")
	}
}

func TestUnmarshalTrainsDebug_WrongTypePath(t *testing.T) {
	payload := `{"612": [{"trainID": "612-5", "trainNum": "612", "routeName": "Keystone",
		"origCode": "NYP", "origName": "New York", "destCode": "HAR", "destName": "Harrisburg",
		"lat": "not-a-number", "stations": []}]}`

	_, err := UnmarshalTrainsDebug([]byte(payload))
	if err == nil {
		t.Fatal("expected a decode error for a mistyped lat")
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
	if decodeErr.Path != "612.0.lat" {
		t.Errorf("expected path 612.0.lat, got %q", decodeErr.Path)
	}
}

func TestUnmarshalTrainsDebug_StopTimestampPath(t *testing.T) {
	payload := `{"612": [{"trainID": "612-5", "trainNum": "612", "routeName": "Keystone",
		"origCode": "NYP", "origName": "New York", "destCode": "HAR", "destName": "Harrisburg",
		"stations": [
			{"code": "NYP", "name": "New York", "status": "Departed"},
			{"code": "PHL", "name": "Philadelphia", "status": "Enroute", "arr": "yesterday"}
		]}]}`

	_, err := UnmarshalTrainsDebug([]byte(payload))
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
	if decodeErr.Path != "612.0.stations.1.arr" {
		t.Errorf("expected path 612.0.stations.1.arr, got %q", decodeErr.Path)
	}
}

func TestUnmarshalTrains_ErrorEnvelope(t *testing.T) {
	_, err := UnmarshalTrains([]byte(`{"error": "train not found"}`))
	if err == nil {
		t.Fatal("expected a service-reported error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Message != "train not found" {
		t.Errorf("expected the service message verbatim, got %q", apiErr.Message)
	}
}

func TestUnmarshalTrains_EmptyStationsTolerated(t *testing.T) {
	payload := `{"99": [{"trainID": "99-9", "trainNum": "99", "routeName": "Silver Meteor",
		"origCode": "NYP", "origName": "New York", "destCode": "MIA", "destName": "Miami"}]}`

	trains, err := UnmarshalTrains([]byte(payload))
	if err != nil {
		t.Fatalf("a train without a stations list must still decode: %v", err)
	}
	if len(trains["99"][0].Stations) != 0 {
		t.Errorf("expected an empty itinerary, got %v", trains["99"][0].Stations)
	}
}

func TestStationRoundTrip(t *testing.T) {
	stations, err := UnmarshalStations([]byte(aberdeenJSON))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	encoded, err := json.Marshal(stations["ABE"])
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}

	again, err := UnmarshalStations([]byte(`{"ABE": ` + string(encoded) + `}`))
	if err != nil {
		t.Fatalf("re-decode failed: %v", err)
	}

	before, after := stations["ABE"], again["ABE"]
	if before.Code != after.Code || before.Name != after.Name {
		t.Errorf("identity fields not preserved: %+v vs %+v", before, after)
	}
	if before.Lat != after.Lat || before.Lon != after.Lon {
		t.Errorf("coordinates not preserved: %+v vs %+v", before, after)
	}
	if before.Address1 != after.Address1 || before.Address2 != after.Address2 {
		t.Errorf("address fields not preserved: %+v vs %+v", before, after)
	}
}

func TestUnmarshalStations_EnvelopeRejectsMultipleFields(t *testing.T) {
	payload := `{"stations": {}, "meta": {}}`

	_, err := UnmarshalStationsEnvelope([]byte(payload))
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError for a two-field envelope, got %T: %v", err, err)
	}
}
