package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jack-barr3tt/amtrak-engine/src/common/amtraker"
	"github.com/jack-barr3tt/amtrak-engine/src/common/types"
	"github.com/jack-barr3tt/amtrak-engine/src/common/utils"

	amqp "github.com/rabbitmq/amqp091-go"
)

func classifyError(err error) string {
	var reqErr *amtraker.RequestError
	var decodeErr *amtraker.DecodeError
	var apiErr *amtraker.APIError
	switch {
	case errors.As(err, &reqErr):
		return "request"
	case errors.As(err, &decodeErr):
		return "decode"
	case errors.As(err, &apiErr):
		return "api"
	default:
		return "other"
	}
}

func poll(ctx context.Context, client *amtraker.Client, channel *amqp.Channel, config *Config, metrics *Metrics) {
	logger := utils.GetLogger()

	metrics.Polls.Inc()
	start := time.Now()

	trains, err := client.Trains(ctx)
	metrics.PollDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		kind := classifyError(err)
		metrics.PollErrors.WithLabelValues(kind).Inc()
		logger.Warnw("error fetching trains", "kind", kind, "error", err)
		return
	}

	now := time.Now().UTC()
	active := 0
	for _, list := range trains {
		for _, train := range list {
			active++
			update := types.NewTrainUpdate(train, now)
			body, _ := json.Marshal(update)
			err = channel.Publish(
				"",
				config.TrainsQueue,
				false,
				false,
				amqp.Publishing{
					ContentType: "application/json",
					Body:        body,
				},
			)
			if err != nil {
				metrics.PublishErrors.Inc()
				logger.Warnw("error publishing message to RabbitMQ", "queue", config.TrainsQueue, "error", err)
			} else {
				metrics.Published.Inc()
				logger.Debugw("Published train update", "train", update.TrainID)
			}
		}
	}

	metrics.ActiveTrains.Set(float64(active))
	logger.Infow("Poll complete", "trains", active)
}

func main() {
	utils.InitLogger()
	defer utils.SyncLogger()
	logger := utils.GetLogger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatalw("invalid configuration", "error", err)
	}

	mqConn, channel, err := utils.NewRabbitConnection()
	if err != nil {
		logger.Fatalw("failed to connect to RabbitMQ", "error", err)
	}
	defer mqConn.Close()
	defer channel.Close()

	closeChan := make(chan *amqp.Error)
	mqConn.NotifyClose(closeChan)

	go func() {
		select {
		case err := <-closeChan:
			if err != nil {
				logger.Warnw("RabbitMQ connection closed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}()

	_, err = channel.QueueDeclare(config.TrainsQueue, false, false, false, false, nil)
	if err != nil {
		logger.Fatalw("failed to declare queue", "queue", config.TrainsQueue, "error", err)
	}

	metrics := NewMetrics()
	go func() {
		if err := metrics.Serve(config.MetricsAddr); err != nil {
			logger.Warnw("metrics server stopped", "error", err)
		}
	}()

	client := amtraker.NewClientWithBaseURL(config.BaseURL)

	logger.Infow("Polling for train positions", "interval", config.PollInterval, "base", config.BaseURL)

	ticker := time.NewTicker(config.PollInterval)
	defer ticker.Stop()

	poll(ctx, client, channel, config, metrics)

	for {
		select {
		case <-ticker.C:
			poll(ctx, client, channel, config, metrics)
		case <-ctx.Done():
			logger.Info("Shutting down")
			return
		}
	}
}
