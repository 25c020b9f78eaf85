package routes

import (
	"github.com/campusmove/moving_marketplace/handlers"
	"github.com/campusmove/moving_marketplace/middleware"
	"github.com/gofiber/fiber/v2"
)

func ServiceRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Browsing is public; mutations carry auth per route so the shared
	// /services prefix stays open for reads.
	api.Get("/services", handlers.ListServices)
	api.Get("/services/:serviceId", handlers.GetService)

	api.Post("/services", middleware.Protected(), middleware.ProviderRequired(), handlers.CreateService)
	api.Put("/services/:serviceId", middleware.Protected(), middleware.ProviderRequired(), handlers.UpdateService)
}
