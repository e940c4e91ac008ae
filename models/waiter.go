package models

// Waiter is a staff member who can fulfill reservations.
type Waiter struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
}
