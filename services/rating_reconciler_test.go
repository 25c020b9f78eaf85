package services

import (
	"testing"

	"github.com/campusmove/moving_marketplace/models"
)

func TestReconcileRatings_RepairsDrift(t *testing.T) {
	db := testDB(t)
	provider := seedUser(t, db, models.RoleProvider)
	service := seedService(t, db, provider.ID)
	student := seedUser(t, db, models.RoleStudent)
	booking := seedCompletedBooking(t, db, student.ID, service)
	if _, err := SubmitReview(db, student.ID, booking.ID, 4, "solid move"); err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}

	// Corrupt the stored aggregates behind the engine's back.
	if err := db.Model(&models.User{}).Where("id = ?", provider.ID).
		Update("avg_rating_as_provider", 1.23).Error; err != nil {
		t.Fatalf("corrupt user: %v", err)
	}
	if err := db.Model(&models.MovingService{}).Where("id = ?", service.ID).
		Updates(map[string]interface{}{"rating_average": 2.50, "total_reviews": 99}).Error; err != nil {
		t.Fatalf("corrupt service: %v", err)
	}

	report, err := ReconcileRatings(db, ReconcileOptions{})
	if err != nil {
		t.Fatalf("ReconcileRatings: %v", err)
	}
	if report.ServicesUpdated < 1 || report.UsersUpdated < 1 {
		t.Fatalf("expected drift repairs, got report %+v", report)
	}

	p := reloadUser(t, db, provider.ID)
	if p.AvgRatingAsProvider != 4.00 {
		t.Fatalf("expected repaired 4.00, got %v", p.AvgRatingAsProvider)
	}
	s := reloadService(t, db, service.ID)
	if s.RatingAverage != 4.00 || s.TotalReviews != 1 {
		t.Fatalf("expected repaired 4.00/1, got %v/%d", s.RatingAverage, s.TotalReviews)
	}
}

func TestReconcileRatings_DryRunWritesNothing(t *testing.T) {
	db := testDB(t)
	provider := seedUser(t, db, models.RoleProvider)
	service := seedService(t, db, provider.ID)
	student := seedUser(t, db, models.RoleStudent)
	booking := seedCompletedBooking(t, db, student.ID, service)
	if _, err := SubmitReview(db, student.ID, booking.ID, 5, "solid move"); err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}

	if err := db.Model(&models.MovingService{}).Where("id = ?", service.ID).
		Update("rating_average", 1.00).Error; err != nil {
		t.Fatalf("corrupt service: %v", err)
	}

	report, err := ReconcileRatings(db, ReconcileOptions{DryRun: true})
	if err != nil {
		t.Fatalf("ReconcileRatings: %v", err)
	}
	if report.ServicesUpdated < 1 {
		t.Fatalf("dry run should still report drift, got %+v", report)
	}

	s := reloadService(t, db, service.ID)
	if s.RatingAverage != 1.00 {
		t.Fatalf("dry run must not write, got %v", s.RatingAverage)
	}
}

func TestReconcileRatings_ScopeFlags(t *testing.T) {
	db := testDB(t)
	provider := seedUser(t, db, models.RoleProvider)
	service := seedService(t, db, provider.ID)
	student := seedUser(t, db, models.RoleStudent)
	booking := seedCompletedBooking(t, db, student.ID, service)
	if _, err := SubmitReview(db, student.ID, booking.ID, 3, "solid move"); err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}

	corrupt := func() {
		if err := db.Model(&models.User{}).Where("id = ?", provider.ID).
			Update("avg_rating_as_provider", 0.10).Error; err != nil {
			t.Fatalf("corrupt user: %v", err)
		}
		if err := db.Model(&models.MovingService{}).Where("id = ?", service.ID).
			Update("rating_average", 0.10).Error; err != nil {
			t.Fatalf("corrupt service: %v", err)
		}
	}

	corrupt()
	if _, err := ReconcileRatings(db, ReconcileOptions{ServicesOnly: true}); err != nil {
		t.Fatalf("services-only: %v", err)
	}
	if s := reloadService(t, db, service.ID); s.RatingAverage != 3.00 {
		t.Fatalf("services-only should repair service, got %v", s.RatingAverage)
	}
	if p := reloadUser(t, db, provider.ID); p.AvgRatingAsProvider != 0.10 {
		t.Fatalf("services-only must not touch users, got %v", p.AvgRatingAsProvider)
	}

	corrupt()
	if _, err := ReconcileRatings(db, ReconcileOptions{UsersOnly: true}); err != nil {
		t.Fatalf("users-only: %v", err)
	}
	if p := reloadUser(t, db, provider.ID); p.AvgRatingAsProvider != 3.00 {
		t.Fatalf("users-only should repair user, got %v", p.AvgRatingAsProvider)
	}
	if s := reloadService(t, db, service.ID); s.RatingAverage != 0.10 {
		t.Fatalf("users-only must not touch services, got %v", s.RatingAverage)
	}
}

func TestReconcileRatings_SmallBatches(t *testing.T) {
	db := testDB(t)
	provider := seedUser(t, db, models.RoleProvider)
	for i := 0; i < 3; i++ {
		service := seedService(t, db, provider.ID)
		student := seedUser(t, db, models.RoleStudent)
		booking := seedCompletedBooking(t, db, student.ID, service)
		if _, err := SubmitReview(db, student.ID, booking.ID, 5, "solid move"); err != nil {
			t.Fatalf("SubmitReview: %v", err)
		}
	}

	report, err := ReconcileRatings(db, ReconcileOptions{BatchSize: 1})
	if err != nil {
		t.Fatalf("ReconcileRatings: %v", err)
	}
	if report.ServicesChecked < 3 {
		t.Fatalf("expected at least 3 services checked, got %d", report.ServicesChecked)
	}
}
