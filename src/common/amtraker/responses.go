package amtraker

import (
	"encoding/json"
	"time"
)

// TrainStatus describes where a train is relative to one stop on its route.
type TrainStatus string

const (
	StatusEnroute  TrainStatus = "Enroute"
	StatusStation  TrainStatus = "Station"
	StatusDeparted TrainStatus = "Departed"
	StatusUnknown  TrainStatus = "Unknown"
)

// statusFromString maps a wire status token onto the enumeration. Tokens we
// do not recognize resolve to StatusUnknown rather than failing the decode.
func statusFromString(raw string) TrainStatus {
	switch TrainStatus(raw) {
	case StatusEnroute, StatusStation, StatusDeparted:
		return TrainStatus(raw)
	default:
		return StatusUnknown
	}
}

func (s *TrainStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &fieldError{path: []string{"status"}, err: err}
	}
	*s = statusFromString(raw)
	return nil
}

// Station is one fixed stop in the Amtrak network, keyed by its code.
type Station struct {
	Name     string   `json:"name"`
	Code     string   `json:"code"`
	TZ       string   `json:"tz"`
	Lat      float64  `json:"lat"`
	Lon      float64  `json:"lon"`
	Address1 string   `json:"address1"`
	Address2 string   `json:"address2"`
	City     string   `json:"city"`
	State    string   `json:"state"`
	Zip      string   `json:"zip"`
	Trains   []string `json:"trains"`
}

// StationStop is one stop on a train's itinerary. The four timestamps are
// optional on the wire and stay nil when the API omits them.
type StationStop struct {
	Code   string      `json:"code"`
	Name   string      `json:"name"`
	Status TrainStatus `json:"status"`
	SchArr *time.Time  `json:"schArr,omitempty"`
	SchDep *time.Time  `json:"schDep,omitempty"`
	Arr    *time.Time  `json:"arr,omitempty"`
	Dep    *time.Time  `json:"dep,omitempty"`
}

// Train is a single active service run. TrainID is unique per consist
// instance; TrainNum is the route-level number and repeats across days.
type Train struct {
	TrainID   string        `json:"trainID"`
	TrainNum  string        `json:"trainNum"`
	RouteName string        `json:"routeName"`
	OrigCode  string        `json:"origCode"`
	OrigName  string        `json:"origName"`
	DestCode  string        `json:"destCode"`
	DestName  string        `json:"destName"`
	Lat       *float64      `json:"lat,omitempty"`
	Lon       *float64      `json:"lon,omitempty"`
	Heading   *string       `json:"heading,omitempty"`
	Velocity  *float64      `json:"velocity,omitempty"`
	Stations  []StationStop `json:"stations"`
}

// TrainsByNumber is the top-level shape of the /trains endpoints: train
// number to the trains currently running under it. Normally one entry per
// number, but duplicates occur when a number is reused.
type TrainsByNumber map[string][]Train

// StationsByCode is the top-level shape of the /stations endpoints.
type StationsByCode map[string]Station
