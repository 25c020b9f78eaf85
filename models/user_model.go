package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleStudent  = "student"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName       string    `gorm:"size:255;not null" json:"full_name"`
	Email          string    `gorm:"size:255;not null;unique" json:"email"`
	Password       string    `gorm:"not null" json:"-"`
	Role           string    `gorm:"size:20;not null;default:'student'" json:"role"`
	PhoneNumber    *string   `gorm:"size:20" json:"phone_number"`
	UniversityName *string   `gorm:"size:255" json:"university_name"`

	ProfilePictureURL *string `gorm:"size:255" json:"profile_picture_url"`
	IsVerified        bool    `gorm:"default:false" json:"is_verified"`

	// Rating caches, written only by the rating engine.
	AvgRatingAsProvider float64 `gorm:"type:numeric(3,2);default:0.00" json:"avg_rating_as_provider"`
	AvgRatingAsStudent  float64 `gorm:"type:numeric(3,2);default:0.00" json:"avg_rating_as_student"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

func (u *User) IsProvider() bool {
	return u.Role == RoleProvider
}
