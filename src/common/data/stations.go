package data

import (
	"context"
	"errors"

	"github.com/jack-barr3tt/amtrak-engine/src/common/amtraker"
	"github.com/jackc/pgx/v5"
)

var ErrStationNotFound = errors.New("station not found")

func (d *DataClient) GetAllStations(ctx context.Context) ([]amtraker.Station, error) {
	rows, err := d.pg.Query(ctx, `
		SELECT code, name, tz, lat, lon, address1, address2, city, state, zip, trains
		FROM reference_station
		ORDER BY code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []amtraker.Station
	for rows.Next() {
		var station amtraker.Station
		err := rows.Scan(
			&station.Code,
			&station.Name,
			&station.TZ,
			&station.Lat,
			&station.Lon,
			&station.Address1,
			&station.Address2,
			&station.City,
			&station.State,
			&station.Zip,
			&station.Trains,
		)
		if err != nil {
			return nil, err
		}
		stations = append(stations, station)
	}

	return stations, rows.Err()
}

func (d *DataClient) GetStationByCode(ctx context.Context, code string) (*amtraker.Station, error) {
	var station amtraker.Station
	err := d.pg.QueryRow(ctx, `
		SELECT code, name, tz, lat, lon, address1, address2, city, state, zip, trains
		FROM reference_station
		WHERE code = $1
	`, code).Scan(
		&station.Code,
		&station.Name,
		&station.TZ,
		&station.Lat,
		&station.Lon,
		&station.Address1,
		&station.Address2,
		&station.City,
		&station.State,
		&station.Zip,
		&station.Trains,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStationNotFound
	}
	if err != nil {
		return nil, err
	}

	return &station, nil
}
