package database

import (
	"fmt"

	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
)

// Migrate creates or updates the tables, waiters and reservations schema,
// including the unique active-slot index and the status check.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Table{},
		&models.Waiter{},
		&models.Reservation{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
