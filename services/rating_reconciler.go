package services

import (
	"log"
	"math"

	"github.com/campusmove/moving_marketplace/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultReconcileBatchSize = 1000

// ReconcileOptions scope a reconciliation run. DryRun reports drift
// without writing; UsersOnly and ServicesOnly restrict which aggregates
// are rebuilt.
type ReconcileOptions struct {
	DryRun       bool
	UsersOnly    bool
	ServicesOnly bool
	BatchSize    int
}

type ReconcileReport struct {
	ServicesChecked int  `json:"services_checked"`
	ServicesUpdated int  `json:"services_updated"`
	UsersChecked    int  `json:"users_checked"`
	UsersUpdated    int  `json:"users_updated"`
	DryRun          bool `json:"dry_run"`
}

// ReconcileRatings recomputes every rating aggregate from the review rows
// and overwrites only the stored values that drifted. It repairs damage
// done outside the rating engine and is not part of the review hot path.
func ReconcileRatings(db *gorm.DB, opts ReconcileOptions) (*ReconcileReport, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultReconcileBatchSize
	}
	report := &ReconcileReport{DryRun: opts.DryRun}

	if !opts.UsersOnly {
		if err := reconcileServices(db, opts, report); err != nil {
			return nil, err
		}
	}
	if !opts.ServicesOnly {
		if err := reconcileUsers(db, opts, report); err != nil {
			return nil, err
		}
	}

	if opts.DryRun {
		log.Printf("Rating reconciliation dry run: %d/%d services and %d/%d users drifted",
			report.ServicesUpdated, report.ServicesChecked, report.UsersUpdated, report.UsersChecked)
	} else {
		log.Printf("Rating reconciliation: updated %d/%d services and %d/%d users",
			report.ServicesUpdated, report.ServicesChecked, report.UsersUpdated, report.UsersChecked)
	}
	return report, nil
}

func reconcileServices(db *gorm.DB, opts ReconcileOptions, report *ReconcileReport) error {
	var services []models.MovingService
	return db.FindInBatches(&services, opts.BatchSize, func(tx *gorm.DB, batch int) error {
		for i := range services {
			service := &services[i]
			report.ServicesChecked++

			avg, total, err := serviceAggregate(db, service.ID)
			if err != nil {
				return err
			}
			if !ratingDiffers(service.RatingAverage, avg) && service.TotalReviews == int(total) {
				continue
			}

			report.ServicesUpdated++
			if opts.DryRun {
				log.Printf("[dry-run] service %s: rating %.2f -> %.2f, reviews %d -> %d",
					service.ID, service.RatingAverage, avg, service.TotalReviews, total)
				continue
			}
			err = db.Model(&models.MovingService{}).Where("id = ?", service.ID).
				Updates(map[string]interface{}{
					"rating_average": avg,
					"total_reviews":  total,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	}).Error
}

func reconcileUsers(db *gorm.DB, opts ReconcileOptions, report *ReconcileReport) error {
	var users []models.User
	return db.FindInBatches(&users, opts.BatchSize, func(tx *gorm.DB, batch int) error {
		for i := range users {
			user := &users[i]
			report.UsersChecked++

			updates := map[string]interface{}{}
			if user.IsProvider() {
				avg, _, err := bucketAverage(db, user.ID, "provider_id")
				if err != nil {
					return err
				}
				if ratingDiffers(user.AvgRatingAsProvider, avg) {
					updates["avg_rating_as_provider"] = avg
				}
			}
			if user.IsStudent() {
				avg, _, err := bucketAverage(db, user.ID, "student_id")
				if err != nil {
					return err
				}
				if ratingDiffers(user.AvgRatingAsStudent, avg) {
					updates["avg_rating_as_student"] = avg
				}
			}
			if len(updates) == 0 {
				continue
			}

			report.UsersUpdated++
			if opts.DryRun {
				log.Printf("[dry-run] user %s: rating drift %v", user.ID, updates)
				continue
			}
			if err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	}).Error
}

// serviceAggregate computes a listing's true average and review count
// straight from the review rows.
func serviceAggregate(db *gorm.DB, serviceID uuid.UUID) (float64, int64, error) {
	var result struct {
		Avg   float64
		Total int64
	}
	err := db.Model(&models.Review{}).
		Joins("JOIN bookings ON bookings.id = reviews.booking_id").
		Where("bookings.service_id = ?", serviceID).
		Select("COALESCE(AVG(reviews.rating), 0) AS avg, COUNT(reviews.id) AS total").
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return roundRating(result.Avg), result.Total, nil
}

func ratingDiffers(stored, computed float64) bool {
	return math.Abs(stored-computed) > 0.001
}
