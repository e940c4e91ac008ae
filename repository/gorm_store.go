package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yeremiapane/restaurant-reservation/models"
	"gorm.io/gorm"
)

// GormStore implements Store on top of gorm. It works with the sqlite,
// mysql and postgres dialectors.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// Atomic runs fn inside a single database transaction.
func (s *GormStore) Atomic(ctx context.Context, fn func(tx Repository) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{DB: tx})
	})
}

func (s *GormStore) FindActiveBySlot(ctx context.Context, tableNumber int, date, slot string) (*models.Reservation, error) {
	var r models.Reservation
	err := s.DB.WithContext(ctx).
		Where("table_number = ? AND date = ? AND time = ? AND status = ?", tableNumber, date, slot, models.StatusReserved).
		Take(&r).Error
	if err != nil {
		return nil, notFound(err, "find active reservation")
	}
	return &r, nil
}

func (s *GormStore) FindTable(ctx context.Context, number int) (*models.Table, error) {
	var t models.Table
	if err := s.DB.WithContext(ctx).Where("number = ?", number).Take(&t).Error; err != nil {
		return nil, notFound(err, "find table")
	}
	return &t, nil
}

func (s *GormStore) FindWaiter(ctx context.Context, id uint) (*models.Waiter, error) {
	var w models.Waiter
	if err := s.DB.WithContext(ctx).Where("id = ?", id).Take(&w).Error; err != nil {
		return nil, notFound(err, "find waiter")
	}
	return &w, nil
}

func (s *GormStore) FindReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	if err := s.withWaiterName(ctx).Where("reservations.id = ?", id).Take(&r).Error; err != nil {
		return nil, notFound(err, "find reservation")
	}
	return &r, nil
}

func (s *GormStore) InsertReservation(ctx context.Context, r *models.Reservation) error {
	if err := s.DB.WithContext(ctx).Create(r).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

// TransitionReservation moves a reservation from one status to another. The
// update only applies while the row is still in `from`; otherwise
// ErrStaleState is returned. Leaving reserved always releases the slot key.
func (s *GormStore) TransitionReservation(ctx context.Context, id uint, from, to models.Status, fulfilledBy *uint) error {
	updates := map[string]interface{}{
		"status":       to,
		"fulfilled_by": fulfilledBy,
	}
	if to != models.StatusReserved {
		updates["slot_key"] = nil
	}

	res := s.DB.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update reservation %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}

func (s *GormStore) ListTables(ctx context.Context) ([]models.Table, error) {
	tables := []models.Table{}
	if err := s.DB.WithContext(ctx).Order("number").Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

func (s *GormStore) ListWaiters(ctx context.Context) ([]models.Waiter, error) {
	waiters := []models.Waiter{}
	if err := s.DB.WithContext(ctx).Order("name").Find(&waiters).Error; err != nil {
		return nil, fmt.Errorf("list waiters: %w", err)
	}
	return waiters, nil
}

// ListReservations returns matching reservations, newest slot first.
func (s *GormStore) ListReservations(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error) {
	q := s.withWaiterName(ctx)
	if filter.Status != "" {
		q = q.Where("reservations.status = ?", filter.Status)
	}
	if filter.StartDate != "" {
		q = q.Where("reservations.date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		q = q.Where("reservations.date <= ?", filter.EndDate)
	}
	if filter.TableNumber != 0 {
		q = q.Where("reservations.table_number = ?", filter.TableNumber)
	}
	if filter.FulfilledBy != 0 {
		q = q.Where("reservations.fulfilled_by = ?", filter.FulfilledBy)
	}

	reservations := []models.Reservation{}
	err := q.Order("reservations.date DESC").
		Order("reservations.time DESC").
		Order("reservations.id DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return reservations, nil
}

func (s *GormStore) withWaiterName(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Model(&models.Reservation{}).
		Select("reservations.*, waiters.name AS waiter_name").
		Joins("LEFT JOIN waiters ON waiters.id = reservations.fulfilled_by")
}

func notFound(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isDuplicate recognises unique violations. TranslateError covers the
// drivers we ship; the message checks catch connections opened without it.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}
