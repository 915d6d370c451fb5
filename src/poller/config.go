package main

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jack-barr3tt/amtrak-engine/src/common/amtraker"
	"github.com/jack-barr3tt/amtrak-engine/src/common/utils"
)

type Config struct {
	BaseURL      string        `validate:"required,url"`
	PollInterval time.Duration `validate:"required,min=10s"`
	TrainsQueue  string        `validate:"required"`
	MetricsAddr  string        `validate:"required"`
}

func LoadConfig() (*Config, error) {
	utils.LoadEnv()

	interval := 60
	if raw := os.Getenv("POLL_INTERVAL_SEC"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		interval = parsed
	}

	config := &Config{
		BaseURL:      utils.GetenvDefault("AMTRAKER_BASE_URL", amtraker.DefaultBaseURL),
		PollInterval: time.Duration(interval) * time.Second,
		TrainsQueue:  utils.GetenvDefault("TRAINS_QUEUE", "trains"),
		MetricsAddr:  utils.GetenvDefault("METRICS_ADDR", ":9091"),
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, err
	}

	return config, nil
}
