package routes

import (
	"github.com/campusmove/moving_marketplace/handlers"
	"github.com/campusmove/moving_marketplace/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	admin := app.Group("/api/v1/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Post("/ratings/recalculate", handlers.RecalculateRatings)
	admin.Post("/providers/:userId/verify", handlers.VerifyProvider)
	admin.Get("/users", handlers.GetAllUsers)
}
