package api

// Type aliases to expose common types in the api package
import "github.com/jack-barr3tt/amtrak-engine/src/common/types"

type (
	ErrorResponse    = types.ErrorResponse
	HealthResponse   = types.HealthResponse
	NotFoundResponse = types.NotFoundResponse
	TrainUpdate      = types.TrainUpdate
)
