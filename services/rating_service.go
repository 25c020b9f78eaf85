package services

import (
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/campusmove/moving_marketplace/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxContentionRetries = 3

// roundRating quantizes an average to two decimals, rounding half up.
func roundRating(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// withContentionRetry runs fn in a transaction, retrying a bounded number
// of times with exponential backoff when the database reports a deadlock
// or serialization failure. The last attempt's rollback is final: either
// the whole mutation commits, aggregation included, or none of it does.
func withContentionRetry(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	backoff := 50 * time.Millisecond
	var err error
	for attempt := 0; attempt < maxContentionRetries; attempt++ {
		err = db.Transaction(fn)
		if err == nil || !isRetryableDBError(err) {
			return err
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	return Contention("ratings are being updated concurrently, try again")
}

// SubmitReview creates a review for a completed booking and folds it into
// the reviewee's rating bucket (and the service's aggregate when the
// reviewee acted as provider) in the same transaction.
func SubmitReview(db *gorm.DB, reviewerID, bookingID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, Validation("rating must be between 1 and 5")
	}
	if strings.TrimSpace(comment) == "" {
		return nil, Validation("comment cannot be empty")
	}

	var review models.Review
	err := withContentionRetry(db, func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, "id = ?", bookingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return NotFound("booking not found")
			}
			return err
		}

		var revieweeID uuid.UUID
		switch reviewerID {
		case booking.StudentID:
			revieweeID = booking.ProviderID
		case booking.ProviderID:
			revieweeID = booking.StudentID
		default:
			return Authorization("only the student or provider of this booking can review it")
		}

		if booking.Status != models.BookingStatusCompleted {
			return Validation("only completed bookings can be reviewed")
		}

		var existing int64
		if err := tx.Model(&models.Review{}).
			Where("booking_id = ? AND reviewer_id = ?", bookingID, reviewerID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return Conflict("you have already reviewed this booking")
		}

		review = models.Review{
			BookingID:  booking.ID,
			ReviewerID: reviewerID,
			RevieweeID: revieweeID,
			Rating:     rating,
			Comment:    comment,
		}
		if err := tx.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
				return Conflict("you have already reviewed this booking")
			}
			return err
		}

		return recalculateRatings(tx, &booking, revieweeID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview changes the rating and/or comment of an existing review.
// Only the original reviewer may edit, and the affected aggregates are
// recomputed before the transaction commits.
func UpdateReview(db *gorm.DB, reviewerID, reviewID uuid.UUID, rating *int, comment *string) (*models.Review, error) {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, Validation("rating must be between 1 and 5")
	}
	if comment != nil && strings.TrimSpace(*comment) == "" {
		return nil, Validation("comment cannot be empty")
	}
	if rating == nil && comment == nil {
		return nil, Validation("nothing to update")
	}

	var review models.Review
	err := withContentionRetry(db, func(tx *gorm.DB) error {
		if err := tx.First(&review, "id = ?", reviewID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return NotFound("review not found")
			}
			return err
		}
		if review.ReviewerID != reviewerID {
			return Authorization("only the original reviewer can edit this review")
		}

		var booking models.Booking
		if err := tx.First(&booking, "id = ?", review.BookingID).Error; err != nil {
			return err
		}

		if rating != nil {
			review.Rating = *rating
		}
		if comment != nil {
			review.Comment = *comment
		}
		if err := tx.Save(&review).Error; err != nil {
			return err
		}

		return recalculateRatings(tx, &booking, review.RevieweeID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes a review and recomputes the aggregates over the
// remaining set, converging back to 0.00 when the last one goes.
func DeleteReview(db *gorm.DB, reviewerID, reviewID uuid.UUID) error {
	return withContentionRetry(db, func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, "id = ?", reviewID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return NotFound("review not found")
			}
			return err
		}
		if review.ReviewerID != reviewerID {
			return Authorization("only the original reviewer can delete this review")
		}

		var booking models.Booking
		if err := tx.First(&booking, "id = ?", review.BookingID).Error; err != nil {
			return err
		}

		if err := tx.Delete(&review).Error; err != nil {
			return err
		}

		return recalculateRatings(tx, &booking, review.RevieweeID)
	})
}

// recalculateRatings rebuilds the reviewee's (user, role) bucket from the
// review rows and, when the reviewee acted as provider, the booked
// service's aggregate as well. Rows being rewritten are locked first so
// concurrent submissions against the same reviewee serialize instead of
// losing updates.
func recalculateRatings(tx *gorm.DB, booking *models.Booking, revieweeID uuid.UUID) error {
	var reviewee models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&reviewee, "id = ?", revieweeID).Error; err != nil {
		return err
	}

	if revieweeID == booking.ProviderID {
		avg, _, err := bucketAverage(tx, revieweeID, "provider_id")
		if err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", revieweeID).
			Update("avg_rating_as_provider", avg).Error; err != nil {
			return err
		}
		return recalculateServiceRating(tx, booking.ServiceID)
	}

	avg, _, err := bucketAverage(tx, revieweeID, "student_id")
	if err != nil {
		return err
	}
	return tx.Model(&models.User{}).Where("id = ?", revieweeID).
		Update("avg_rating_as_student", avg).Error
}

// recalculateServiceRating rebuilds one listing's rating_average and
// total_reviews from the reviews of its bookings. The count is always a
// full recount, never an increment.
func recalculateServiceRating(tx *gorm.DB, serviceID uuid.UUID) error {
	var service models.MovingService
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&service, "id = ?", serviceID).Error; err != nil {
		return err
	}

	var result struct {
		Avg   sql.NullFloat64
		Total int64
	}
	err := tx.Model(&models.Review{}).
		Joins("JOIN bookings ON bookings.id = reviews.booking_id").
		Where("bookings.service_id = ?", serviceID).
		Select("AVG(reviews.rating) AS avg, COUNT(reviews.id) AS total").
		Scan(&result).Error
	if err != nil {
		return err
	}

	avg := 0.0
	if result.Avg.Valid {
		avg = roundRating(result.Avg.Float64)
	}
	return tx.Model(&models.MovingService{}).Where("id = ?", serviceID).
		Updates(map[string]interface{}{
			"rating_average": avg,
			"total_reviews":  result.Total,
		}).Error
}

// bucketAverage computes the mean rating over reviews where the user was
// the reviewee and held the given role on the reviewed booking.
// bookingRoleColumn is "provider_id" or "student_id".
func bucketAverage(tx *gorm.DB, userID uuid.UUID, bookingRoleColumn string) (float64, int64, error) {
	var result struct {
		Avg   sql.NullFloat64
		Total int64
	}
	err := tx.Model(&models.Review{}).
		Joins("JOIN bookings ON bookings.id = reviews.booking_id").
		Where("reviews.reviewee_id = ? AND bookings."+bookingRoleColumn+" = ?", userID, userID).
		Select("AVG(reviews.rating) AS avg, COUNT(reviews.id) AS total").
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	if !result.Avg.Valid {
		return 0, 0, nil
	}
	return roundRating(result.Avg.Float64), result.Total, nil
}

// RatingSummary is the read-side view of both reputation buckets.
type RatingSummary struct {
	UserID              uuid.UUID `json:"user_id"`
	AvgRatingAsProvider float64   `json:"avg_rating_as_provider"`
	ReviewsAsProvider   int64     `json:"reviews_as_provider"`
	AvgRatingAsStudent  float64   `json:"avg_rating_as_student"`
	ReviewsAsStudent    int64     `json:"reviews_as_student"`
}

// GetRatingSummary returns a user's stored bucket averages together with
// the live review counts behind them.
func GetRatingSummary(db *gorm.DB, userID uuid.UUID) (*RatingSummary, error) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFound("user not found")
		}
		return nil, err
	}

	_, providerCount, err := bucketAverage(db, userID, "provider_id")
	if err != nil {
		return nil, err
	}
	_, studentCount, err := bucketAverage(db, userID, "student_id")
	if err != nil {
		return nil, err
	}

	return &RatingSummary{
		UserID:              user.ID,
		AvgRatingAsProvider: user.AvgRatingAsProvider,
		ReviewsAsProvider:   providerCount,
		AvgRatingAsStudent:  user.AvgRatingAsStudent,
		ReviewsAsStudent:    studentCount,
	}, nil
}
