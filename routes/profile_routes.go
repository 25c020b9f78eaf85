package routes

import (
	"github.com/campusmove/moving_marketplace/handlers"
	"github.com/campusmove/moving_marketplace/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App) {
	profile := app.Group("/api/v1/profile", middleware.Protected())
	profile.Get("", handlers.GetProfile)
	profile.Put("", handlers.UpdateProfile)

	uploads := app.Group("/api/v1/uploads", middleware.Protected())
	uploads.Post("/signature", handlers.GenerateUploadSignature)
}
