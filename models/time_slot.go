package models

import "fmt"

// TimeSlot is one of the hourly seatings the restaurant accepts bookings for.
type TimeSlot string

const (
	FirstSlotHour = 12
	LastSlotHour  = 22
)

// TimeSlots returns every bookable slot, 12:00 through 22:00.
func TimeSlots() []TimeSlot {
	slots := make([]TimeSlot, 0, LastSlotHour-FirstSlotHour+1)
	for h := FirstSlotHour; h <= LastSlotHour; h++ {
		slots = append(slots, TimeSlot(fmt.Sprintf("%02d:00", h)))
	}
	return slots
}

// ParseTimeSlot accepts only the exact "HH:00" spelling of a bookable slot.
func ParseTimeSlot(s string) (TimeSlot, bool) {
	for _, slot := range TimeSlots() {
		if string(slot) == s {
			return slot, true
		}
	}
	return "", false
}

func (t TimeSlot) String() string { return string(t) }
