package services

import (
	"testing"
	"time"

	"github.com/campusmove/moving_marketplace/models"
)

func TestValidateTransition_AllowedEdges(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)

	cases := []struct {
		name        string
		from, to    string
		role        string
		bookingTime time.Time
	}{
		{"provider confirms pending", models.BookingStatusPending, models.BookingStatusConfirmed, models.RoleProvider, now.Add(time.Hour)},
		{"student cancels pending", models.BookingStatusPending, models.BookingStatusCancelled, models.RoleStudent, now.Add(time.Hour)},
		{"provider cancels pending", models.BookingStatusPending, models.BookingStatusCancelled, models.RoleProvider, now.Add(time.Hour)},
		{"provider completes confirmed after time", models.BookingStatusConfirmed, models.BookingStatusCompleted, models.RoleProvider, past},
		{"student cancels confirmed", models.BookingStatusConfirmed, models.BookingStatusCancelled, models.RoleStudent, now.Add(time.Hour)},
		{"provider cancels confirmed", models.BookingStatusConfirmed, models.BookingStatusCancelled, models.RoleProvider, now.Add(time.Hour)},
	}
	for _, tc := range cases {
		if err := ValidateTransition(tc.from, tc.to, tc.role, now, tc.bookingTime); err != nil {
			t.Errorf("%s: expected allowed, got %v", tc.name, err)
		}
	}
}

func TestValidateTransition_Closure(t *testing.T) {
	// Every (from, to) pair outside the allowed table must fail.
	statuses := []string{
		models.BookingStatusPending,
		models.BookingStatusConfirmed,
		models.BookingStatusCompleted,
		models.BookingStatusCancelled,
	}
	allowed := map[[2]string]bool{
		{models.BookingStatusPending, models.BookingStatusConfirmed}:   true,
		{models.BookingStatusPending, models.BookingStatusCancelled}:   true,
		{models.BookingStatusConfirmed, models.BookingStatusCompleted}: true,
		{models.BookingStatusConfirmed, models.BookingStatusCancelled}: true,
	}

	now := time.Now()
	past := now.Add(-time.Hour)
	for _, from := range statuses {
		for _, to := range statuses {
			if allowed[[2]string{from, to}] {
				continue
			}
			err := ValidateTransition(from, to, models.RoleProvider, now, past)
			if err == nil {
				t.Errorf("expected %s -> %s to be rejected", from, to)
				continue
			}
			if !IsValidation(err) {
				t.Errorf("%s -> %s: expected validation error, got %v", from, to, err)
			}
		}
	}
}

func TestValidateTransition_RoleAuthorization(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)

	err := ValidateTransition(models.BookingStatusPending, models.BookingStatusConfirmed, models.RoleStudent, now, future)
	if !IsAuthorization(err) {
		t.Fatalf("student confirming: expected authorization error, got %v", err)
	}

	err = ValidateTransition(models.BookingStatusConfirmed, models.BookingStatusCompleted, models.RoleStudent, now, now.Add(-time.Hour))
	if !IsAuthorization(err) {
		t.Fatalf("student completing: expected authorization error, got %v", err)
	}
}

func TestValidateTransition_CompleteBeforeScheduledTime(t *testing.T) {
	now := time.Now()
	err := ValidateTransition(models.BookingStatusConfirmed, models.BookingStatusCompleted, models.RoleProvider, now, now.Add(time.Hour))
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateTransition_CompleteAtScheduledTime(t *testing.T) {
	// Equality counts as "time has arrived".
	now := time.Now()
	if err := ValidateTransition(models.BookingStatusConfirmed, models.BookingStatusCompleted, models.RoleProvider, now, now); err != nil {
		t.Fatalf("expected allowed at exact booking time, got %v", err)
	}
}

func TestValidateTransition_UnknownStatus(t *testing.T) {
	err := ValidateTransition(models.BookingStatusPending, "rescheduled", models.RoleProvider, time.Now(), time.Now())
	if !IsValidation(err) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}
