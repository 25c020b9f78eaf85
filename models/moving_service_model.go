package models

import (
	"time"

	"github.com/google/uuid"
)

type MovingService struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProviderID  uuid.UUID `gorm:"not null;index" json:"provider_id"`
	ServiceName string    `gorm:"size:200;not null" json:"service_name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	BasePrice   float64   `gorm:"type:numeric(10,2);not null" json:"base_price"`

	AvailabilityStatus bool `gorm:"default:true;index" json:"availability_status"`

	// Rating caches, written only by the rating engine.
	RatingAverage float64 `gorm:"type:numeric(3,2);default:0.00" json:"rating_average"`
	TotalReviews  int     `gorm:"default:0" json:"total_reviews"`

	Provider User `gorm:"foreignkey:ProviderID" json:"provider,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
