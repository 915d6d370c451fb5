package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jack-barr3tt/amtrak-engine/src/common/types"
	"github.com/jack-barr3tt/amtrak-engine/src/common/utils"
)

const trainTTL = 2 * time.Hour

func main() {
	utils.InitLogger()
	defer utils.SyncLogger()
	logger := utils.GetLogger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	utils.LoadEnv()

	rdb := utils.NewRedisClient()
	defer rdb.Close()

	conn, channel, err := utils.NewRabbitConnection()
	if err != nil {
		logger.Fatalw("failed to connect to RabbitMQ", "error", err)
	}
	defer conn.Close()
	defer channel.Close()

	queue := utils.GetenvDefault("TRAINS_QUEUE", "trains")

	_, err = channel.QueueDeclare(queue, false, false, false, false, nil)
	if err != nil {
		logger.Fatalw("failed to declare queue", "queue", queue, "error", err)
	}

	msgs, err := channel.Consume(queue, "", true, false, false, false, nil)
	if err != nil {
		logger.Fatalw("failed to consume queue", "queue", queue, "error", err)
	}

	logger.Infow("Tracking train positions", "queue", queue)

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				logger.Warn("consume channel closed")
				return
			}

			var update types.TrainUpdate
			if err := json.Unmarshal(msg.Body, &update); err != nil {
				logger.Warnw("Bad JSON on trains queue", "error", err)
				continue
			}

			key := fmt.Sprintf("train:%s", update.TrainID)

			body, _ := json.Marshal(update)
			if err := rdb.Set(ctx, key, body, trainTTL).Err(); err != nil {
				logger.Warnw("Redis SET error", "key", key, "error", err)
				continue
			}

			// index runs by number so lookups by either identifier work
			numKey := fmt.Sprintf("trainnum:%s", update.TrainNum)
			if err := rdb.SAdd(ctx, numKey, update.TrainID).Err(); err != nil {
				logger.Warnw("Redis SADD error", "key", numKey, "error", err)
			}
			rdb.Expire(ctx, numKey, trainTTL)

			logger.Debugw("Updated Redis", "train", update.TrainID, "next", update.NextCode)
		case <-ctx.Done():
			logger.Info("Shutting down")
			return
		}
	}
}
