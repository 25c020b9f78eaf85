package services

import (
	"time"

	"github.com/campusmove/moving_marketplace/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// transitionRule describes one legal edge of the booking state machine:
// which booking parties may trigger it and whether it may only happen
// once the scheduled time has passed.
type transitionRule struct {
	roles            []string
	afterBookingTime bool
}

var bookingTransitions = map[string]map[string]transitionRule{
	models.BookingStatusPending: {
		models.BookingStatusConfirmed: {roles: []string{models.RoleProvider}},
		models.BookingStatusCancelled: {roles: []string{models.RoleStudent, models.RoleProvider}},
	},
	models.BookingStatusConfirmed: {
		models.BookingStatusCompleted: {roles: []string{models.RoleProvider}, afterBookingTime: true},
		models.BookingStatusCancelled: {roles: []string{models.RoleStudent, models.RoleProvider}},
	},
}

// ValidateTransition checks one requested status change against the
// transition table. actorRole is the actor's relation to the booking
// (student or provider), not their account role.
func ValidateTransition(from, to, actorRole string, now, bookingTime time.Time) error {
	if !isKnownStatus(to) {
		return Validation("unknown booking status %q", to)
	}
	if from == models.BookingStatusCompleted {
		return Validation("cannot modify a completed booking")
	}
	if from == models.BookingStatusCancelled {
		return Validation("cannot modify a cancelled booking")
	}
	if from == to {
		return Validation("booking is already %s", to)
	}

	rule, ok := bookingTransitions[from][to]
	if !ok {
		if from == models.BookingStatusPending && to == models.BookingStatusCompleted {
			return Validation("cannot transition from pending to completed, must confirm first")
		}
		return Validation("invalid status transition from %s to %s", from, to)
	}

	allowed := false
	for _, r := range rule.roles {
		if r == actorRole {
			allowed = true
			break
		}
	}
	if !allowed {
		return Authorization("only the provider can move this booking to %s", to)
	}

	if rule.afterBookingTime && now.Before(bookingTime) {
		return Validation("cannot complete a booking before its scheduled time")
	}
	return nil
}

func isKnownStatus(status string) bool {
	switch status {
	case models.BookingStatusPending, models.BookingStatusConfirmed,
		models.BookingStatusCompleted, models.BookingStatusCancelled:
		return true
	}
	return false
}

// UpdateBookingStatus drives one booking through the state machine on
// behalf of actorID. The booking row is locked for the read-check-write,
// so of two racing updates one commits and the other revalidates against
// the committed state.
func UpdateBookingStatus(db *gorm.DB, actorID, bookingID uuid.UUID, newStatus string) (*models.Booking, error) {
	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, "id = ?", bookingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return NotFound("booking not found")
			}
			return err
		}

		var actorRole string
		switch actorID {
		case booking.StudentID:
			actorRole = models.RoleStudent
		case booking.ProviderID:
			actorRole = models.RoleProvider
		default:
			return Authorization("you are not a party to this booking")
		}

		if err := ValidateTransition(booking.Status, newStatus, actorRole, time.Now(), booking.BookingTime); err != nil {
			return err
		}

		booking.Status = newStatus
		return tx.Save(&booking).Error
	})
	if err != nil {
		if isRetryableDBError(err) {
			return nil, Contention("booking status could not be updated due to contention, try again")
		}
		return nil, err
	}
	return &booking, nil
}
