package types

import (
	"time"

	"github.com/jack-barr3tt/amtrak-engine/src/common/amtraker"
)

// TrainUpdate is the message shape published to the trains queue and
// stored in redis. It flattens the upstream train record down to what
// the API and consumers actually need.
type TrainUpdate struct {
	TrainID   string     `json:"train_id"`
	TrainNum  string     `json:"train_num"`
	RouteName string     `json:"route_name"`
	OrigCode  string     `json:"orig_code"`
	OrigName  string     `json:"orig_name"`
	DestCode  string     `json:"dest_code"`
	DestName  string     `json:"dest_name"`
	Lat       *float64   `json:"lat,omitempty"`
	Lon       *float64   `json:"lon,omitempty"`
	Heading   *string    `json:"heading,omitempty"`
	Velocity  *float64   `json:"velocity,omitempty"`
	NextCode  string     `json:"next_code,omitempty"`
	NextName  string     `json:"next_name,omitempty"`
	ETA       *time.Time `json:"eta,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewTrainUpdate flattens a train into an update message. The next stop
// is the first station the train has not yet reached.
func NewTrainUpdate(train amtraker.Train, now time.Time) TrainUpdate {
	update := TrainUpdate{
		TrainID:   train.TrainID,
		TrainNum:  train.TrainNum,
		RouteName: train.RouteName,
		OrigCode:  train.OrigCode,
		OrigName:  train.OrigName,
		DestCode:  train.DestCode,
		DestName:  train.DestName,
		Lat:       train.Lat,
		Lon:       train.Lon,
		Heading:   train.Heading,
		Velocity:  train.Velocity,
		UpdatedAt: now,
	}

	for _, stop := range train.Stations {
		if stop.Status != amtraker.StatusEnroute {
			continue
		}
		update.NextCode = stop.Code
		update.NextName = stop.Name
		if stop.Arr != nil {
			update.ETA = stop.Arr
		} else {
			update.ETA = stop.SchArr
		}
		break
	}

	return update
}
