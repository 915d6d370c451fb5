package data

import (
	"github.com/jack-barr3tt/amtrak-engine/src/common/utils"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type DataClient struct {
	pg     *pgxpool.Pool
	rdb    *redis.Client
	logger *zap.SugaredLogger
}

func NewDataClient(pg *pgxpool.Pool, rdb *redis.Client) *DataClient {
	return &DataClient{
		pg:     pg,
		rdb:    rdb,
		logger: utils.GetLogger(),
	}
}
