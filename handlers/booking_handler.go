package handlers

import (
	"strings"
	"time"

	"github.com/campusmove/moving_marketplace/database"
	"github.com/campusmove/moving_marketplace/models"
	"github.com/campusmove/moving_marketplace/notifications"
	"github.com/campusmove/moving_marketplace/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateBookingRequest struct {
	ServiceID       string `json:"service_id" validate:"required,uuid"`
	BookingTime     string `json:"booking_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	PickupLocation  string `json:"pickup_location" validate:"required,max=300"`
	DropoffLocation string `json:"dropoff_location" validate:"required,max=300"`
}

func CreateBooking(c *fiber.Ctx) error {
	studentID := currentUserID(c)

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	serviceID, _ := uuid.Parse(req.ServiceID)
	bookingTime, _ := time.Parse(time.RFC3339, req.BookingTime)

	booking, err := services.RequestBooking(database.DB, studentID, serviceID, bookingTime, req.PickupLocation, req.DropoffLocation)
	if err != nil {
		return serviceError(c, err)
	}

	var full models.Booking
	if err := database.DB.Preload("Student").Preload("Provider").First(&full, "id = ?", booking.ID).Error; err == nil {
		go notifications.NotifyBookingRequested(
			full.Student.FullName, full.Student.Email,
			full.Provider.FullName, full.Provider.Email,
			full.Reference,
		)
	}

	return c.Status(fiber.StatusCreated).JSON(booking)
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

func UpdateBookingStatus(c *fiber.Ctx) error {
	actorID := currentUserID(c)

	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	var req UpdateBookingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := services.UpdateBookingStatus(database.DB, actorID, bookingID, req.Status)
	if err != nil {
		return serviceError(c, err)
	}

	var full models.Booking
	if err := database.DB.Preload("Student").Preload("Provider").First(&full, "id = ?", booking.ID).Error; err == nil {
		go notifications.NotifyBookingStatusChanged(
			full.Student.FullName, full.Student.Email,
			full.Provider.FullName, full.Provider.Email,
			full.Reference, full.Status,
		)
	}

	return c.JSON(booking)
}

func GetMyBookings(c *fiber.Ctx) error {
	userID := currentUserID(c)

	query := database.DB.Preload("Service").Preload("Student").Preload("Provider").
		Where("student_id = ? OR provider_id = ?", userID, userID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if c.QueryBool("upcoming") {
		query = query.Where("booking_time > ?", time.Now())
	}
	if c.QueryBool("past") {
		query = query.Where("booking_time <= ?", time.Now())
	}
	if start := c.Query("start_date"); start != "" {
		if t, err := time.Parse(time.RFC3339, start); err == nil {
			query = query.Where("booking_time >= ?", t)
		}
	}
	if end := c.Query("end_date"); end != "" {
		if t, err := time.Parse(time.RFC3339, end); err == nil {
			query = query.Where("booking_time <= ?", t)
		}
	}

	switch c.Query("sort") {
	case "booking_time_asc":
		query = query.Order("booking_time asc")
	default:
		query = query.Order("booking_time desc")
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query = query.Session(&gorm.Session{})

	var total int64
	query.Model(&models.Booking{}).Count(&total)

	var bookings []models.Booking
	query.Offset((page - 1) * perPage).Limit(perPage).Find(&bookings)

	return c.JSON(fiber.Map{
		"bookings": bookings,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// BookingCalendar lists bookings within a required date range, optionally
// narrowed to one provider, one service or a status set.
func BookingCalendar(c *fiber.Ctx) error {
	start, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_date is required (YYYY-MM-DD)"})
	}
	end, err := time.Parse("2006-01-02", c.Query("end_date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_date is required (YYYY-MM-DD)"})
	}
	if end.Before(start) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_date must not be before start_date"})
	}

	query := database.DB.Preload("Service").
		Where("booking_time >= ? AND booking_time < ?", start, end.Add(24*time.Hour))

	if providerID := c.Query("provider_id"); providerID != "" {
		id, err := uuid.Parse(providerID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid provider_id"})
		}
		query = query.Where("provider_id = ?", id)
	}
	if serviceID := c.Query("service_id"); serviceID != "" {
		id, err := uuid.Parse(serviceID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid service_id"})
		}
		query = query.Where("service_id = ?", id)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status IN ?", strings.Split(status, ","))
	}

	var bookings []models.Booking
	query.Order("booking_time asc").Find(&bookings)

	return c.JSON(fiber.Map{"bookings": bookings})
}
