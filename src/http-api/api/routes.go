package api

import "github.com/gofiber/fiber/v2"

func RegisterHandlers(app *fiber.App, server *APIServer) {
	app.Get("/health", server.GetHealth)
	app.Get("/stations", server.GetStations)
	app.Get("/stations/:code", server.GetStation)
	app.Get("/trains", server.GetTrains)
	app.Get("/trains/:id", server.GetTrain)
}
