package api

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

func (s *APIServer) GetTrains(c *fiber.Ctx) error {
	trains, err := s.Data.GetAllTrains(c.Context())
	if err != nil {
		errStr := err.Error()
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "State error",
			Message: "Failed to retrieve trains",
			Stack:   &errStr,
		})
	}

	// group active runs by train number
	grouped := make(map[string][]TrainUpdate)
	for _, train := range trains {
		grouped[train.TrainNum] = append(grouped[train.TrainNum], train)
	}

	return c.JSON(grouped)
}

func (s *APIServer) GetTrain(c *fiber.Ctx) error {
	id := c.Params("id")

	trains, err := s.Data.GetTrainsByIdentifier(c.Context(), id)
	if err != nil {
		errStr := err.Error()
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "State error",
			Message: "Failed to retrieve train",
			Stack:   &errStr,
		})
	}
	if len(trains) == 0 {
		return c.Status(http.StatusNotFound).JSON(NotFoundResponse{
			Error: "Train not found",
		})
	}

	return c.JSON(trains)
}
