package database

import (
	"fmt"

	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedWaiters are the staff members created on a fresh install.
var SeedWaiters = []string{"Alana Rosa", "Gustavo Martin", "Leandro Lima"}

// SeedTables returns tables 1-10: 4 seats for 1-5, 6 for 6-8, 8 for 9-10.
func SeedTables() []models.Table {
	tables := make([]models.Table, 0, 10)
	for n := 1; n <= 10; n++ {
		capacity := 8
		switch {
		case n <= 5:
			capacity = 4
		case n <= 8:
			capacity = 6
		}
		tables = append(tables, models.Table{Number: n, Capacity: capacity})
	}
	return tables
}

// Seed inserts the reference data. Rows that already exist are left alone,
// so running it twice is harmless.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		tables := SeedTables()
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tables).Error; err != nil {
			return fmt.Errorf("seed tables: %w", err)
		}

		waiters := make([]models.Waiter, 0, len(SeedWaiters))
		for _, name := range SeedWaiters {
			waiters = append(waiters, models.Waiter{Name: name})
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&waiters).Error; err != nil {
			return fmt.Errorf("seed waiters: %w", err)
		}

		utils.InfoLogger.Printf("Seeded %d tables and %d waiters", len(tables), len(waiters))
		return nil
	})
}
