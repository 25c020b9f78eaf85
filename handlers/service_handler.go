package handlers

import (
	"github.com/campusmove/moving_marketplace/database"
	"github.com/campusmove/moving_marketplace/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateServiceRequest struct {
	ServiceName string  `json:"service_name" validate:"required,max=200"`
	Description string  `json:"description" validate:"required"`
	BasePrice   float64 `json:"base_price" validate:"required,gt=0"`
}

type UpdateServiceRequest struct {
	ServiceName        *string  `json:"service_name,omitempty" validate:"omitempty,max=200"`
	Description        *string  `json:"description,omitempty"`
	BasePrice          *float64 `json:"base_price,omitempty" validate:"omitempty,gt=0"`
	AvailabilityStatus *bool    `json:"availability_status,omitempty"`
}

func CreateService(c *fiber.Ctx) error {
	providerID := currentUserID(c)

	var req CreateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	service := models.MovingService{
		ProviderID:         providerID,
		ServiceName:        req.ServiceName,
		Description:        req.Description,
		BasePrice:          req.BasePrice,
		AvailabilityStatus: true,
	}
	if err := database.DB.Create(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create service"})
	}
	return c.Status(fiber.StatusCreated).JSON(service)
}

func ListServices(c *fiber.Ctx) error {
	query := database.DB.Preload("Provider")

	if !c.QueryBool("include_unavailable") {
		query = query.Where("availability_status = ?", true)
	}
	if minRating := c.QueryFloat("min_rating"); minRating > 0 {
		query = query.Where("rating_average >= ?", minRating)
	}
	if minPrice := c.QueryFloat("min_price"); minPrice > 0 {
		query = query.Where("base_price >= ?", minPrice)
	}
	if maxPrice := c.QueryFloat("max_price"); maxPrice > 0 {
		query = query.Where("base_price <= ?", maxPrice)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("service_name ILIKE ? OR description ILIKE ?", pattern, pattern)
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
	query.Model(&models.MovingService{}).Count(&total)

	var servicesList []models.MovingService
	query.Order("rating_average desc, created_at desc").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&servicesList)

	return c.JSON(fiber.Map{
		"services": servicesList,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

func GetService(c *fiber.Ctx) error {
	serviceID, err := uuid.Parse(c.Params("serviceId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
	}

	var service models.MovingService
	if err := database.DB.Preload("Provider").First(&service, "id = ?", serviceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
	}
	return c.JSON(service)
}

func UpdateService(c *fiber.Ctx) error {
	providerID := currentUserID(c)

	serviceID, err := uuid.Parse(c.Params("serviceId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
	}

	var service models.MovingService
	if err := database.DB.First(&service, "id = ?", serviceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
	}
	if service.ProviderID != providerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not own this service"})
	}

	var req UpdateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.ServiceName != nil {
		service.ServiceName = *req.ServiceName
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.BasePrice != nil {
		service.BasePrice = *req.BasePrice
	}
	if req.AvailabilityStatus != nil {
		service.AvailabilityStatus = *req.AvailabilityStatus
	}

	if err := database.DB.Save(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update service"})
	}
	return c.JSON(service)
}
