package services

import (
	"strings"
	"time"

	"github.com/campusmove/moving_marketplace/models"
	"github.com/campusmove/moving_marketplace/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// MinimumLeadTime is how far in the future a booking must be placed.
	MinimumLeadTime = time.Hour

	// ConflictWindow is the symmetric interval around an active booking
	// within which the same provider cannot take another one.
	ConflictWindow = 2 * time.Hour
)

// leadTimeSatisfied reports whether the booking is placed far enough in
// advance. A booking at exactly now+MinimumLeadTime is admissible.
func leadTimeSatisfied(bookingTime, now time.Time) bool {
	return !bookingTime.Before(now.Add(MinimumLeadTime))
}

// RequestBooking admits a new booking for a student against a service,
// or rejects it. The conflict scan and the insert run in one transaction
// with the provider's user row locked, so two racing requests for
// overlapping slots on the same provider resolve to exactly one success.
func RequestBooking(db *gorm.DB, studentID, serviceID uuid.UUID, bookingTime time.Time, pickup, dropoff string) (*models.Booking, error) {
	if strings.TrimSpace(pickup) == "" {
		return nil, Validation("pickup location cannot be empty")
	}
	if strings.TrimSpace(dropoff) == "" {
		return nil, Validation("dropoff location cannot be empty")
	}

	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		var service models.MovingService
		if err := tx.Preload("Provider").First(&service, "id = ?", serviceID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return NotFound("service not found")
			}
			return err
		}
		if !service.AvailabilityStatus {
			return Validation("this service is currently unavailable")
		}

		var student models.User
		if err := tx.First(&student, "id = ?", studentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return NotFound("student not found")
			}
			return err
		}
		if !student.IsStudent() {
			return Authorization("only students can make bookings")
		}
		if !service.Provider.IsProvider() {
			return Validation("booking provider must be a service provider")
		}
		if student.ID == service.ProviderID {
			return Validation("you cannot book your own service")
		}

		if !leadTimeSatisfied(bookingTime, time.Now()) {
			return Validation("bookings require at least 1 hour advance notice")
		}

		// Serialize admissions per provider. Locking the provider row
		// covers the empty-schedule case where the conflict scan below
		// has no rows to lock.
		var provider models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&provider, "id = ?", service.ProviderID).Error; err != nil {
			return err
		}

		var conflicts int64
		err := tx.Model(&models.Booking{}).
			Where("provider_id = ? AND status IN ?", service.ProviderID, models.ActiveBookingStatuses).
			Where("booking_time > ? AND booking_time < ?",
				bookingTime.Add(-ConflictWindow), bookingTime.Add(ConflictWindow)).
			Count(&conflicts).Error
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return Conflict("the provider already has a booking within 2 hours of this time")
		}

		reference, err := utils.GenerateUniqueBookingReference(tx)
		if err != nil {
			return err
		}

		booking = models.Booking{
			Reference:       reference,
			StudentID:       student.ID,
			ProviderID:      service.ProviderID,
			ServiceID:       service.ID,
			BookingTime:     bookingTime,
			PickupLocation:  pickup,
			DropoffLocation: dropoff,
			Status:          models.BookingStatusPending,
			TotalPrice:      service.BasePrice,
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		if isRetryableDBError(err) {
			return nil, Contention("booking could not be admitted due to contention, try again")
		}
		return nil, err
	}
	return &booking, nil
}
