package data

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jack-barr3tt/amtrak-engine/src/common/types"
	"github.com/redis/go-redis/v9"
)

// GetAllTrains returns every train update currently held in redis.
func (d *DataClient) GetAllTrains(ctx context.Context) ([]types.TrainUpdate, error) {
	var keys []string
	var cursor uint64
	for {
		batch, next, err := d.rdb.Scan(ctx, cursor, "train:*", 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return []types.TrainUpdate{}, nil
	}

	values, err := d.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	return d.parseUpdates(values), nil
}

// GetTrainsByIdentifier resolves either a train ID or a train number.
// IDs map to a single update, numbers may map to several active runs.
func (d *DataClient) GetTrainsByIdentifier(ctx context.Context, identifier string) ([]types.TrainUpdate, error) {
	raw, err := d.rdb.Get(ctx, "train:"+identifier).Result()
	if err == nil {
		var update types.TrainUpdate
		if err := json.Unmarshal([]byte(raw), &update); err != nil {
			d.logger.Warnw("Discarding malformed train record", "key", identifier, "error", err)
			return []types.TrainUpdate{}, nil
		}
		return []types.TrainUpdate{update}, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	ids, err := d.rdb.SMembers(ctx, "trainnum:"+identifier).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []types.TrainUpdate{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = "train:" + id
	}

	values, err := d.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	return d.parseUpdates(values), nil
}

func (d *DataClient) parseUpdates(values []interface{}) []types.TrainUpdate {
	updates := make([]types.TrainUpdate, 0, len(values))
	for _, value := range values {
		// expired members come back nil from MGET
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var update types.TrainUpdate
		if err := json.Unmarshal([]byte(raw), &update); err != nil {
			d.logger.Warnw("Discarding malformed train record", "error", err)
			continue
		}
		updates = append(updates, update)
	}
	return updates
}
