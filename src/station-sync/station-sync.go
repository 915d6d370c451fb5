package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jack-barr3tt/amtrak-engine/src/common/amtraker"
	"github.com/jack-barr3tt/amtrak-engine/src/common/utils"
	"github.com/jackc/pgx/v5/pgxpool"
)

func UpdateStations(client *amtraker.Client, pg *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	stations, err := client.Stations(ctx)
	if err != nil {
		return err
	}

	tx, err := pg.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, "TRUNCATE TABLE reference_station"); err != nil {
		return err
	}

	for code, station := range stations {
		_, err := tx.Exec(ctx, `
			INSERT INTO reference_station (code, name, tz, lat, lon, address1, address2, city, state, zip, trains)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, code, station.Name, station.TZ, station.Lat, station.Lon,
			station.Address1, station.Address2, station.City, station.State, station.Zip, station.Trains)
		if err != nil {
			return err
		}
	}

	tx.Exec(ctx, "UPDATE reference_fetch SET last_fetched = NOW() WHERE key = 'stations'")

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	return nil
}

func main() {
	utils.InitLogger()
	defer utils.SyncLogger()
	logger := utils.GetLogger()

	utils.LoadEnv()

	pg, err := utils.NewPostgresConnection()
	if err != nil {
		logger.Fatalw("failed to connect to postgres", "error", err)
	}

	client := amtraker.NewClientWithBaseURL(utils.GetenvDefault("AMTRAKER_BASE_URL", amtraker.DefaultBaseURL))

	for {
		rows, err := pg.Query(context.Background(), "SELECT key FROM reference_fetch WHERE last_fetched + max_age < NOW()")
		if err != nil {
			logger.Fatalw("failed to read fetch schedule", "error", err)
		}

		var key string
		for rows.Next() {
			if err := rows.Scan(&key); err != nil {
				logger.Fatalw("failed to scan fetch schedule", "error", err)
			}

			switch key {
			case "stations":
				logger.Info("Updating stations reference data...")
				err := UpdateStations(client, pg)
				if err != nil {
					logger.Warnw("Error updating stations reference data", "error", err)
				} else {
					logger.Info("Stations reference data updated successfully.")
				}
			default:
				fmt.Printf("Unknown key: %s\n", key)
			}
		}

		rows.Close()

		// Sleep for a while before checking again
		time.Sleep(1 * time.Hour)
	}
}
