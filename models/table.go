package models

// Table is a physical table in the dining room. Rows are seeded at startup
// and never written by the reservation engine.
type Table struct {
	ID       uint `gorm:"primaryKey" json:"-"`
	Number   int  `gorm:"not null;uniqueIndex" json:"number"`
	Capacity int  `gorm:"not null" json:"capacity"`
}
