package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a post-completion rating of one booking party by the other.
// A booking can carry at most one review per reviewer, so the student and
// the provider may each review the same booking once.
type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BookingID  uuid.UUID `gorm:"not null;uniqueIndex:idx_reviews_booking_reviewer" json:"booking_id"`
	ReviewerID uuid.UUID `gorm:"not null;uniqueIndex:idx_reviews_booking_reviewer;index" json:"reviewer_id"`
	RevieweeID uuid.UUID `gorm:"not null;index" json:"reviewee_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"type:text;not null" json:"comment"`

	Booking  Booking `gorm:"foreignkey:BookingID" json:"booking,omitempty"`
	Reviewer User    `gorm:"foreignkey:ReviewerID" json:"reviewer,omitempty"`
	Reviewee User    `gorm:"foreignkey:RevieweeID" json:"reviewee,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
