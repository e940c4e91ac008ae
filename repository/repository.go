package repository

import (
	"context"

	"github.com/yeremiapane/restaurant-reservation/models"
)

// Repository is the set of reads and writes the engine needs. Every method
// honours the transaction it was obtained from.
type Repository interface {
	FindActiveBySlot(ctx context.Context, tableNumber int, date, slot string) (*models.Reservation, error)
	FindTable(ctx context.Context, number int) (*models.Table, error)
	FindWaiter(ctx context.Context, id uint) (*models.Waiter, error)
	FindReservation(ctx context.Context, id uint) (*models.Reservation, error)
	InsertReservation(ctx context.Context, r *models.Reservation) error
	TransitionReservation(ctx context.Context, id uint, from, to models.Status, fulfilledBy *uint) error
	ListTables(ctx context.Context) ([]models.Table, error)
	ListWaiters(ctx context.Context) ([]models.Waiter, error)
	ListReservations(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error)
}

// Store is a Repository that can also run a unit of work atomically.
// If fn returns an error nothing it wrote is kept.
type Store interface {
	Repository
	Atomic(ctx context.Context, fn func(tx Repository) error) error
}
