package routes

import (
	"github.com/campusmove/moving_marketplace/handlers"
	"github.com/campusmove/moving_marketplace/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	booking := app.Group("/api/v1/bookings", middleware.Protected())
	booking.Post("", handlers.CreateBooking)
	booking.Get("/me", handlers.GetMyBookings)
	booking.Get("/calendar", handlers.BookingCalendar)
	booking.Patch("/:bookingId/status", handlers.UpdateBookingStatus)
}
