package api

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jack-barr3tt/amtrak-engine/src/common/data"
)

func (s *APIServer) GetStations(c *fiber.Ctx) error {
	stations, err := s.Data.GetAllStations(c.Context())
	if err != nil {
		errStr := err.Error()
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "Database error",
			Message: "Failed to retrieve stations",
			Stack:   &errStr,
		})
	}

	return c.JSON(stations)
}

func (s *APIServer) GetStation(c *fiber.Ctx) error {
	code := c.Params("code")

	station, err := s.Data.GetStationByCode(c.Context(), code)
	if errors.Is(err, data.ErrStationNotFound) {
		return c.Status(http.StatusNotFound).JSON(NotFoundResponse{
			Error: "Station not found",
		})
	}
	if err != nil {
		errStr := err.Error()
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "Database error",
			Message: "Failed to retrieve station",
			Stack:   &errStr,
		})
	}

	return c.JSON(station)
}
