package utils

import (
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/campusmove/moving_marketplace/models"
)

const bookingReferenceLength = 8
const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateUniqueBookingReference produces a short human-readable code for a
// booking, retrying until the code is unused. Ambiguous characters (0/O, 1/I)
// are excluded from the alphabet.
func GenerateUniqueBookingReference(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, bookingReferenceLength)
		for i := range b {
			b[i] = referenceAlphabet[seededRand.Intn(len(referenceAlphabet))]
		}
		code := "MV-" + string(b)

		var booking models.Booking
		err := tx.Where("reference = ?", code).First(&booking).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return code, nil
			}
			return "", err
		}
	}
}
