package handlers

import (
	"github.com/campusmove/moving_marketplace/database"
	"github.com/campusmove/moving_marketplace/models"
	"github.com/campusmove/moving_marketplace/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"required"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty"`
}

func CreateReview(c *fiber.Ctx) error {
	reviewerID := currentUserID(c)

	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	bookingID, _ := uuid.Parse(req.BookingID)
	review, err := services.SubmitReview(database.DB, reviewerID, bookingID, req.Rating, req.Comment)
	if err != nil {
		return reviewError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func UpdateReview(c *fiber.Ctx) error {
	reviewerID := currentUserID(c)

	reviewID, err := uuid.Parse(c.Params("reviewId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Review not found"})
	}

	var req UpdateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	review, err := services.UpdateReview(database.DB, reviewerID, reviewID, req.Rating, req.Comment)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(review)
}

func DeleteReview(c *fiber.Ctx) error {
	reviewerID := currentUserID(c)

	reviewID, err := uuid.Parse(c.Params("reviewId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Review not found"})
	}

	if err := services.DeleteReview(database.DB, reviewerID, reviewID); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListServiceReviews returns the reviews written against one listing's
// bookings, optionally filtered by rating or ordered by it.
func ListServiceReviews(c *fiber.Ctx) error {
	serviceID, err := uuid.Parse(c.Params("serviceId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
	}

	var service models.MovingService
	if err := database.DB.First(&service, "id = ?", serviceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
	}

	query := database.DB.Preload("Reviewer").
		Joins("JOIN bookings ON bookings.id = reviews.booking_id").
		Where("bookings.service_id = ? AND reviews.reviewee_id = bookings.provider_id", serviceID)

	if rating := c.QueryInt("rating"); rating >= 1 && rating <= 5 {
		query = query.Where("reviews.rating = ?", rating)
	}

	switch c.Query("ordering") {
	case "rating":
		query = query.Order("reviews.rating asc")
	case "-rating":
		query = query.Order("reviews.rating desc")
	default:
		query = query.Order("reviews.created_at desc")
	}

	var reviews []models.Review
	query.Find(&reviews)

	return c.JSON(fiber.Map{
		"service_id":     service.ID,
		"rating_average": service.RatingAverage,
		"total_reviews":  service.TotalReviews,
		"reviews":        reviews,
	})
}

// ListUserReviews returns the reviews a user has received, optionally
// scoped to the role they held on the reviewed bookings.
func ListUserReviews(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	query := database.DB.Preload("Reviewer").Preload("Booking").
		Joins("JOIN bookings ON bookings.id = reviews.booking_id").
		Where("reviews.reviewee_id = ?", userID)

	switch c.Query("role") {
	case models.RoleProvider:
		query = query.Where("bookings.provider_id = ?", userID)
	case models.RoleStudent:
		query = query.Where("bookings.student_id = ?", userID)
	case "":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "role must be student or provider"})
	}

	var reviews []models.Review
	query.Order("reviews.created_at desc").Find(&reviews)

	return c.JSON(fiber.Map{"user_id": user.ID, "reviews": reviews})
}

func GetRatingSummary(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	summary, err := services.GetRatingSummary(database.DB, userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(summary)
}
