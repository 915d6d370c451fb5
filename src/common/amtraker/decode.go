package amtraker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var errMissingField = errors.New("missing required field")

// unwrapFunc strips any outer envelope from a payload before entity
// decoding happens. Supporting another wire shape means writing another
// unwrapFunc, not touching the entity decoders.
type unwrapFunc func([]byte) (json.RawMessage, error)

func unwrapBare(data []byte) (json.RawMessage, error) {
	return json.RawMessage(data), nil
}

// unwrapEnvelope handles the historical shape where the keyed mapping sits
// one level inside a single-field envelope object.
func unwrapEnvelope(data []byte) (json.RawMessage, error) {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(data, &outer); err != nil {
		return nil, err
	}
	if len(outer) != 1 {
		return nil, fmt.Errorf("expected a single-field envelope object, got %d fields", len(outer))
	}
	for _, inner := range outer {
		return inner, nil
	}
	return nil, nil
}

// UnmarshalTrains decodes the bare keyed-mapping form of a trains payload.
func UnmarshalTrains(data []byte) (TrainsByNumber, error) {
	return decodeTrains(data, unwrapBare, false)
}

// UnmarshalTrainsDebug is UnmarshalTrains with path-annotated errors that
// also carry the raw payload text.
func UnmarshalTrainsDebug(data []byte) (TrainsByNumber, error) {
	return decodeTrains(data, unwrapBare, true)
}

// UnmarshalTrainsEnvelope decodes the enveloped form of a trains payload.
func UnmarshalTrainsEnvelope(data []byte) (TrainsByNumber, error) {
	return decodeTrains(data, unwrapEnvelope, false)
}

// UnmarshalTrainsEnvelopeDebug is UnmarshalTrainsEnvelope with
// path-annotated errors.
func UnmarshalTrainsEnvelopeDebug(data []byte) (TrainsByNumber, error) {
	return decodeTrains(data, unwrapEnvelope, true)
}

// UnmarshalStations decodes the bare keyed-mapping form of a stations
// payload.
func UnmarshalStations(data []byte) (StationsByCode, error) {
	return decodeStations(data, unwrapBare, false)
}

// UnmarshalStationsDebug is UnmarshalStations with path-annotated errors
// that also carry the raw payload text.
func UnmarshalStationsDebug(data []byte) (StationsByCode, error) {
	return decodeStations(data, unwrapBare, true)
}

// UnmarshalStationsEnvelope decodes the enveloped form of a stations
// payload.
func UnmarshalStationsEnvelope(data []byte) (StationsByCode, error) {
	return decodeStations(data, unwrapEnvelope, false)
}

// UnmarshalStationsEnvelopeDebug is UnmarshalStationsEnvelope with
// path-annotated errors.
func UnmarshalStationsEnvelopeDebug(data []byte) (StationsByCode, error) {
	return decodeStations(data, unwrapEnvelope, true)
}

func decodeTrains(data []byte, unwrap unwrapFunc, debug bool) (TrainsByNumber, error) {
	payload, err := unwrap(data)
	if err != nil {
		return nil, decodeFailure(err, data, debug)
	}
	if isEmptyArray(payload) {
		return TrainsByNumber{}, nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, decodeFailure(typeError(err), data, debug)
	}
	if apiErr := serviceError(entries); apiErr != nil {
		return nil, apiErr
	}

	out := make(TrainsByNumber, len(entries))
	for num, raw := range entries {
		var rawList []json.RawMessage
		if err := json.Unmarshal(raw, &rawList); err != nil {
			return nil, decodeFailure(prefixPath(num, typeError(err)), data, debug)
		}

		trains := make([]Train, 0, len(rawList))
		for i, rawTrain := range rawList {
			train, err := decodeTrain(rawTrain)
			if err != nil {
				return nil, decodeFailure(prefixPath(num, prefixPath(strconv.Itoa(i), err)), data, debug)
			}
			trains = append(trains, train)
		}
		out[num] = trains
	}

	return out, nil
}

func decodeStations(data []byte, unwrap unwrapFunc, debug bool) (StationsByCode, error) {
	payload, err := unwrap(data)
	if err != nil {
		return nil, decodeFailure(err, data, debug)
	}
	// A single-station lookup for an unknown code answers "[]" instead of
	// an empty object.
	if isEmptyArray(payload) {
		return StationsByCode{}, nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, decodeFailure(typeError(err), data, debug)
	}
	if apiErr := serviceError(entries); apiErr != nil {
		return nil, apiErr
	}

	out := make(StationsByCode, len(entries))
	for code, raw := range entries {
		station, err := decodeStation(raw)
		if err != nil {
			return nil, decodeFailure(prefixPath(code, err), data, debug)
		}
		out[code] = station
	}

	return out, nil
}

type rawStation struct {
	Name     *string   `json:"name"`
	Code     *string   `json:"code"`
	TZ       *string   `json:"tz"`
	Lat      *float64  `json:"lat"`
	Lon      *float64  `json:"lon"`
	Address1 *string   `json:"address1"`
	Address2 *string   `json:"address2"`
	City     *string   `json:"city"`
	State    *string   `json:"state"`
	Zip      *string   `json:"zip"`
	Trains   *[]string `json:"trains"`
}

func decodeStation(raw json.RawMessage) (Station, error) {
	var rs rawStation
	if err := json.Unmarshal(raw, &rs); err != nil {
		return Station{}, typeError(err)
	}

	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"name", rs.Name != nil},
		{"code", rs.Code != nil},
		{"tz", rs.TZ != nil},
		{"lat", rs.Lat != nil},
		{"lon", rs.Lon != nil},
		{"address1", rs.Address1 != nil},
		{"address2", rs.Address2 != nil},
		{"city", rs.City != nil},
		{"state", rs.State != nil},
		{"zip", rs.Zip != nil},
		{"trains", rs.Trains != nil},
	} {
		if !f.ok {
			return Station{}, &fieldError{path: []string{f.name}, err: errMissingField}
		}
	}

	return Station{
		Name:     *rs.Name,
		Code:     *rs.Code,
		TZ:       *rs.TZ,
		Lat:      *rs.Lat,
		Lon:      *rs.Lon,
		Address1: *rs.Address1,
		Address2: *rs.Address2,
		City:     *rs.City,
		State:    *rs.State,
		Zip:      *rs.Zip,
		Trains:   *rs.Trains,
	}, nil
}

type rawTrain struct {
	TrainID   *string           `json:"trainID"`
	TrainNum  *string           `json:"trainNum"`
	RouteName *string           `json:"routeName"`
	OrigCode  *string           `json:"origCode"`
	OrigName  *string           `json:"origName"`
	DestCode  *string           `json:"destCode"`
	DestName  *string           `json:"destName"`
	Lat       *float64          `json:"lat"`
	Lon       *float64          `json:"lon"`
	Heading   *string           `json:"heading"`
	Velocity  *float64          `json:"velocity"`
	Stations  []json.RawMessage `json:"stations"`
}

func decodeTrain(raw json.RawMessage) (Train, error) {
	var rt rawTrain
	if err := json.Unmarshal(raw, &rt); err != nil {
		return Train{}, typeError(err)
	}

	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"trainID", rt.TrainID != nil},
		{"trainNum", rt.TrainNum != nil},
		{"routeName", rt.RouteName != nil},
		{"origCode", rt.OrigCode != nil},
		{"origName", rt.OrigName != nil},
		{"destCode", rt.DestCode != nil},
		{"destName", rt.DestName != nil},
	} {
		if !f.ok {
			return Train{}, &fieldError{path: []string{f.name}, err: errMissingField}
		}
	}

	stops := make([]StationStop, 0, len(rt.Stations))
	for i, rawStop := range rt.Stations {
		stop, err := decodeStop(rawStop)
		if err != nil {
			return Train{}, prefixPath("stations", prefixPath(strconv.Itoa(i), err))
		}
		stops = append(stops, stop)
	}

	return Train{
		TrainID:   *rt.TrainID,
		TrainNum:  *rt.TrainNum,
		RouteName: *rt.RouteName,
		OrigCode:  *rt.OrigCode,
		OrigName:  *rt.OrigName,
		DestCode:  *rt.DestCode,
		DestName:  *rt.DestName,
		Lat:       rt.Lat,
		Lon:       rt.Lon,
		Heading:   rt.Heading,
		Velocity:  rt.Velocity,
		Stations:  stops,
	}, nil
}

type rawStop struct {
	Code   *string `json:"code"`
	Name   *string `json:"name"`
	Status *string `json:"status"`
	SchArr *string `json:"schArr"`
	SchDep *string `json:"schDep"`
	Arr    *string `json:"arr"`
	Dep    *string `json:"dep"`
}

func decodeStop(raw json.RawMessage) (StationStop, error) {
	var rs rawStop
	if err := json.Unmarshal(raw, &rs); err != nil {
		return StationStop{}, typeError(err)
	}

	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"code", rs.Code != nil},
		{"name", rs.Name != nil},
		{"status", rs.Status != nil},
	} {
		if !f.ok {
			return StationStop{}, &fieldError{path: []string{f.name}, err: errMissingField}
		}
	}

	stop := StationStop{
		Code:   *rs.Code,
		Name:   *rs.Name,
		Status: statusFromString(*rs.Status),
	}

	var err error
	if stop.SchArr, err = parseTimestamp("schArr", rs.SchArr); err != nil {
		return StationStop{}, err
	}
	if stop.SchDep, err = parseTimestamp("schDep", rs.SchDep); err != nil {
		return StationStop{}, err
	}
	if stop.Arr, err = parseTimestamp("arr", rs.Arr); err != nil {
		return StationStop{}, err
	}
	if stop.Dep, err = parseTimestamp("dep", rs.Dep); err != nil {
		return StationStop{}, err
	}

	return stop, nil
}

// parseTimestamp treats a missing or empty value as absent; a present but
// unparseable value is a decode failure.
func parseTimestamp(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, &fieldError{path: []string{field}, err: fmt.Errorf("invalid timestamp %q", *value)}
	}
	return &t, nil
}

// serviceError recognizes an error envelope returned in place of data, e.g.
// {"error": "no such train"}.
func serviceError(entries map[string]json.RawMessage) *APIError {
	raw, ok := entries["error"]
	if !ok || len(entries) != 1 {
		return nil
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil
	}
	return &APIError{Message: msg}
}

func isEmptyArray(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return false
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(trimmed, &arr); err != nil {
		return false
	}
	return len(arr) == 0
}

// prefixPath pushes a path segment (map key, array index, or field name)
// onto the front of a decode failure's location.
func prefixPath(segment string, err error) error {
	var fe *fieldError
	if errors.As(err, &fe) {
		fe.path = append([]string{segment}, fe.path...)
		return err
	}
	return &fieldError{path: []string{segment}, err: err}
}

// typeError lifts the field path out of a json.UnmarshalTypeError so it can
// be joined with the map-key and index segments the entity decoders track.
func typeError(err error) error {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return &fieldError{
			path: strings.Split(ute.Field, "."),
			err:  fmt.Errorf("expected %s, got JSON %s", ute.Type, ute.Value),
		}
	}
	return err
}

func decodeFailure(err error, body []byte, debug bool) error {
	de := &DecodeError{Err: err}
	var fe *fieldError
	if errors.As(err, &fe) {
		// The path is diagnostic detail; plain mode stays generic.
		de.Err = fe.err
		if debug {
			de.Path = fe.Path()
		}
	}
	if debug {
		de.Response = string(body)
	}
	return de
}
