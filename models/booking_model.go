package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// ActiveBookingStatuses are the statuses that count toward conflict
// detection on a provider's schedule.
var ActiveBookingStatuses = []string{BookingStatusPending, BookingStatusConfirmed}

type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Reference  string    `gorm:"size:16;uniqueIndex" json:"reference"`
	StudentID  uuid.UUID `gorm:"not null;index" json:"student_id"`
	ProviderID uuid.UUID `gorm:"not null;index" json:"provider_id"`
	ServiceID  uuid.UUID `gorm:"not null;index" json:"service_id"`

	BookingTime     time.Time `gorm:"not null;index" json:"booking_time"`
	PickupLocation  string    `gorm:"size:300;not null" json:"pickup_location"`
	DropoffLocation string    `gorm:"size:300;not null" json:"dropoff_location"`
	Status          string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	TotalPrice      float64   `gorm:"type:numeric(10,2);not null" json:"total_price"`

	Student  User          `gorm:"foreignkey:StudentID" json:"student,omitempty"`
	Provider User          `gorm:"foreignkey:ProviderID" json:"provider,omitempty"`
	Service  MovingService `gorm:"foreignkey:ServiceID" json:"service,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the booking occupies its provider's schedule.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// IsTerminal reports whether no further status transition is permitted.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}
