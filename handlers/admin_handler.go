package handlers

import (
	"github.com/campusmove/moving_marketplace/database"
	"github.com/campusmove/moving_marketplace/models"
	"github.com/campusmove/moving_marketplace/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RecalculateRatings runs the offline rating reconciliation. Query params
// mirror the operational knobs: dry_run, users_only, services_only,
// batch_size.
func RecalculateRatings(c *fiber.Ctx) error {
	opts := services.ReconcileOptions{
		DryRun:       c.QueryBool("dry_run"),
		UsersOnly:    c.QueryBool("users_only"),
		ServicesOnly: c.QueryBool("services_only"),
		BatchSize:    c.QueryInt("batch_size"),
	}
	if opts.UsersOnly && opts.ServicesOnly {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "users_only and services_only are mutually exclusive"})
	}

	report, err := services.ReconcileRatings(database.DB, opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Rating reconciliation failed"})
	}
	return c.JSON(report)
}

func VerifyProvider(c *fiber.Ctx) error {
	providerID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", providerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if !user.IsProvider() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only providers can be verified"})
	}

	user.IsVerified = true
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify provider"})
	}
	return c.JSON(user)
}

func GetAllUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", 50)
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	query := database.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	query.Order("created_at desc").Offset((page - 1) * perPage).Limit(perPage).Find(&users)

	return c.JSON(fiber.Map{
		"users":    users,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}
