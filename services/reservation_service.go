package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/repository"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

const (
	MinPartySize       = 1
	MaxPartySize       = 8
	MinCustomerNameLen = 2
)

// CreateReservationRequest carries the receptionist's booking form as typed
// by the user. Date and Time are validated by the engine, not by the caller.
type CreateReservationRequest struct {
	Date         string
	Time         string
	TableNumber  int
	PartySize    int
	CustomerName string
}

// ReservationService is the admission engine: it validates and commits
// every reservation state change against the store.
type ReservationService struct {
	store repository.Store
	// Now is the clock used for the past-date rule.
	Now func() time.Time
}

func NewReservationService(store repository.Store) *ReservationService {
	return &ReservationService{store: store, Now: time.Now}
}

// Create admits a new reservation. Checks run in a fixed order and the first
// failure is returned; the check and the insert share one transaction.
func (s *ReservationService) Create(ctx context.Context, req CreateReservationRequest) (*models.Reservation, error) {
	var created *models.Reservation

	err := s.store.Atomic(ctx, func(tx repository.Repository) error {
		existing, err := tx.FindActiveBySlot(ctx, req.TableNumber, req.Date, req.Time)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if existing != nil {
			return reject(KindConflict, "table %d is already reserved at that time", req.TableNumber)
		}

		table, err := tx.FindTable(ctx, req.TableNumber)
		if errors.Is(err, repository.ErrNotFound) {
			return reject(KindNotFound, "table %d does not exist", req.TableNumber)
		}
		if err != nil {
			return err
		}

		if req.PartySize > table.Capacity {
			return reject(KindValidation, "insufficient capacity: table %d seats only %d people", table.Number, table.Capacity)
		}
		if req.PartySize < MinPartySize || req.PartySize > MaxPartySize {
			return reject(KindValidation, "party size must be between %d and %d", MinPartySize, MaxPartySize)
		}

		if err := s.checkDate(req.Date); err != nil {
			return err
		}

		slot, ok := models.ParseTimeSlot(req.Time)
		if !ok {
			return reject(KindValidation, "invalid time slot, choose an hour between %02d:00 and %02d:00", models.FirstSlotHour, models.LastSlotHour)
		}

		name := strings.TrimSpace(req.CustomerName)
		if len([]rune(name)) < MinCustomerNameLen {
			return reject(KindValidation, "customer name must have at least %d characters", MinCustomerNameLen)
		}

		key := models.SlotKeyFor(table.Number, req.Date, slot)
		r := &models.Reservation{
			Date:         req.Date,
			Time:         slot,
			TableNumber:  table.Number,
			PartySize:    req.PartySize,
			CustomerName: name,
			Status:       models.StatusReserved,
			SlotKey:      &key,
			CreatedAt:    s.Now(),
		}
		if err := tx.InsertReservation(ctx, r); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return reject(KindConflict, "table %d is already reserved at that time", req.TableNumber)
			}
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, s.fail("create reservation", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation_id": created.ID,
		"table":          created.TableNumber,
		"date":           created.Date,
		"time":           created.Time,
	}).Info("reservation created")
	return created, nil
}

// Cancel moves a reserved booking to cancelled.
func (s *ReservationService) Cancel(ctx context.Context, id uint) error {
	err := s.store.Atomic(ctx, func(tx repository.Repository) error {
		r, err := s.reservedOrReject(ctx, tx, id, models.StatusCancelled, "cancel")
		if err != nil {
			return err
		}
		return s.transition(ctx, tx, r, models.StatusCancelled, nil, "cancel")
	})
	if err != nil {
		return s.fail("cancel reservation", err)
	}

	utils.InfoLogger.WithField("reservation_id", id).Info("reservation cancelled")
	return nil
}

// Fulfill records that waiterID honoured a reserved booking.
func (s *ReservationService) Fulfill(ctx context.Context, id, waiterID uint) error {
	err := s.store.Atomic(ctx, func(tx repository.Repository) error {
		r, err := s.reservedOrReject(ctx, tx, id, models.StatusFulfilled, "fulfill")
		if err != nil {
			return err
		}

		if _, err := tx.FindWaiter(ctx, waiterID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return reject(KindNotFound, "waiter %d not found", waiterID)
			}
			return err
		}
		return s.transition(ctx, tx, r, models.StatusFulfilled, &waiterID, "fulfill")
	})
	if err != nil {
		return s.fail("fulfill reservation", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation_id": id,
		"waiter_id":      waiterID,
	}).Info("reservation fulfilled")
	return nil
}

// Get returns one reservation with its waiter name, if any.
func (s *ReservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	r, err := s.store.FindReservation(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, reject(KindNotFound, "reservation %d not found", id)
	}
	if err != nil {
		return nil, s.fail("get reservation", err)
	}
	return r, nil
}

// List returns every reservation, latest slot first.
func (s *ReservationService) List(ctx context.Context) ([]models.Reservation, error) {
	return s.list(ctx, models.ReservationFilter{}, "list reservations")
}

// SearchFilter is the manager's status / period report input. Every field
// is optional; dates are inclusive.
type SearchFilter struct {
	Status    string
	StartDate string
	EndDate   string
}

func (s *ReservationService) Search(ctx context.Context, f SearchFilter) ([]models.Reservation, error) {
	filter := models.ReservationFilter{StartDate: f.StartDate, EndDate: f.EndDate}

	if f.Status != "" {
		st, ok := models.ParseStatus(f.Status)
		if !ok {
			return nil, reject(KindValidation, "unknown status %q", f.Status)
		}
		filter.Status = st
	}
	for _, d := range []string{f.StartDate, f.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(models.DateLayout, d); err != nil {
			return nil, reject(KindValidation, "invalid date %q, expected YYYY-MM-DD", d)
		}
	}
	if f.StartDate != "" && f.EndDate != "" && f.StartDate > f.EndDate {
		return nil, reject(KindValidation, "start date must not be after end date")
	}

	return s.list(ctx, filter, "search reservations")
}

// ByTable lists every reservation ever made for a table.
func (s *ReservationService) ByTable(ctx context.Context, tableNumber int) ([]models.Reservation, error) {
	return s.list(ctx, models.ReservationFilter{TableNumber: tableNumber}, "list reservations by table")
}

// ByWaiter lists the reservations a waiter fulfilled.
func (s *ReservationService) ByWaiter(ctx context.Context, waiterID uint) ([]models.Reservation, error) {
	if waiterID == 0 {
		return []models.Reservation{}, nil
	}
	return s.list(ctx, models.ReservationFilter{
		Status:      models.StatusFulfilled,
		FulfilledBy: waiterID,
	}, "list reservations by waiter")
}

func (s *ReservationService) Tables(ctx context.Context) ([]models.Table, error) {
	tables, err := s.store.ListTables(ctx)
	if err != nil {
		return nil, s.fail("list tables", err)
	}
	return tables, nil
}

func (s *ReservationService) Waiters(ctx context.Context) ([]models.Waiter, error) {
	waiters, err := s.store.ListWaiters(ctx)
	if err != nil {
		return nil, s.fail("list waiters", err)
	}
	return waiters, nil
}

func (s *ReservationService) Waiter(ctx context.Context, id uint) (*models.Waiter, error) {
	w, err := s.store.FindWaiter(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, reject(KindNotFound, "waiter %d not found", id)
	}
	if err != nil {
		return nil, s.fail("get waiter", err)
	}
	return w, nil
}

func (s *ReservationService) list(ctx context.Context, filter models.ReservationFilter, op string) ([]models.Reservation, error) {
	rs, err := s.store.ListReservations(ctx, filter)
	if err != nil {
		return nil, s.fail(op, err)
	}
	return rs, nil
}

// checkDate rejects malformed dates and days before today. Time of day is
// ignored.
func (s *ReservationService) checkDate(date string) error {
	now := s.Now()
	day, err := time.ParseInLocation(models.DateLayout, date, now.Location())
	if err != nil {
		return reject(KindValidation, "invalid date %q, expected YYYY-MM-DD", date)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return reject(KindValidation, "reservations cannot be made for past dates")
	}
	return nil
}

func (s *ReservationService) reservedOrReject(ctx context.Context, tx repository.Repository, id uint, to models.Status, verb string) (*models.Reservation, error) {
	r, err := tx.FindReservation(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, reject(KindNotFound, "reservation %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	if !r.Status.CanTransitionTo(to) {
		return nil, terminalRejection(verb, r.Status)
	}
	return r, nil
}

func (s *ReservationService) transition(ctx context.Context, tx repository.Repository, r *models.Reservation, to models.Status, waiterID *uint, verb string) error {
	err := tx.TransitionReservation(ctx, r.ID, models.StatusReserved, to, waiterID)
	if errors.Is(err, repository.ErrStaleState) {
		current, findErr := tx.FindReservation(ctx, r.ID)
		if findErr != nil {
			return findErr
		}
		return terminalRejection(verb, current.Status)
	}
	return err
}

func terminalRejection(verb string, st models.Status) error {
	state := "fulfilled"
	if st == models.StatusCancelled {
		state = "cancelled"
	}
	return reject(KindConflict, "cannot %s a reservation that is already %s", verb, state)
}

// fail passes rejections through untouched and wraps store errors after
// logging them.
func (s *ReservationService) fail(op string, err error) error {
	if KindOf(err) != KindInternal {
		return err
	}
	utils.ErrorLogger.WithError(err).Errorf("%s failed", op)
	return fmt.Errorf("%s: %w", op, err)
}
