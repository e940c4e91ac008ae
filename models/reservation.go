package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of Reservation.Date.
const DateLayout = "2006-01-02"

type Reservation struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Date         string   `gorm:"type:varchar(10);not null;index:idx_reservation_lookup" json:"date"`
	Time         TimeSlot `gorm:"type:varchar(5);not null;index:idx_reservation_lookup" json:"time"`
	TableNumber  int      `gorm:"not null;index" json:"table_number"`
	PartySize    int      `gorm:"not null" json:"party_size"`
	CustomerName string   `gorm:"type:varchar(255);not null" json:"customer_name"`
	Status       Status   `gorm:"type:varchar(10);not null;default:'reserved';check:chk_reservation_status,status IN ('reserved','fulfilled','cancelled')" json:"status"`
	FulfilledBy  *uint    `gorm:"index" json:"fulfilled_by"`
	// SlotKey is set only while Status is reserved; the unique index makes
	// the store reject a second active booking for the same slot.
	SlotKey    *string   `gorm:"type:varchar(32);uniqueIndex" json:"-"`
	WaiterName *string   `gorm:"->;-:migration" json:"waiter_name,omitempty"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

// SlotKeyFor builds the uniqueness key of an active booking.
func SlotKeyFor(tableNumber int, date string, slot TimeSlot) string {
	return fmt.Sprintf("%d|%s|%s", tableNumber, date, slot)
}

// ReservationFilter narrows a reservation listing. Zero values mean "any".
type ReservationFilter struct {
	Status      Status
	StartDate   string
	EndDate     string
	TableNumber int
	FulfilledBy uint
}
