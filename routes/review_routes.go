package routes

import (
	"github.com/campusmove/moving_marketplace/handlers"
	"github.com/campusmove/moving_marketplace/middleware"
	"github.com/gofiber/fiber/v2"
)

func ReviewRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Reads are public; the service/user listing routes share the
	// /reviews prefix, so auth is attached per mutation route.
	api.Post("/reviews", middleware.Protected(), handlers.CreateReview)
	api.Put("/reviews/:reviewId", middleware.Protected(), handlers.UpdateReview)
	api.Delete("/reviews/:reviewId", middleware.Protected(), handlers.DeleteReview)

	api.Get("/reviews/service/:serviceId", handlers.ListServiceReviews)
	api.Get("/reviews/user/:userId", handlers.ListUserReviews)
	api.Get("/users/:userId/rating-summary", handlers.GetRatingSummary)
}
