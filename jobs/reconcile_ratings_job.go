package jobs

import (
	"log"

	"github.com/campusmove/moving_marketplace/database"
	"github.com/campusmove/moving_marketplace/services"
)

// ReconcileRatings is the scheduled repair pass over the rating caches.
// Review mutations keep them consistent transactionally; this catches
// drift from anything that slipped past that path.
func ReconcileRatings() {
	log.Println("Running job: ReconcileRatings...")

	report, err := services.ReconcileRatings(database.DB, services.ReconcileOptions{})
	if err != nil {
		log.Printf("Error reconciling ratings: %v", err)
		return
	}

	if report.ServicesUpdated == 0 && report.UsersUpdated == 0 {
		log.Println("No rating drift found.")
	}
}
