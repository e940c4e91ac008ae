package services_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reservation/config"
	"github.com/yeremiapane/restaurant-reservation/database"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/repository"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

var fixedNow = time.Date(2026, time.October, 14, 18, 30, 0, 0, time.Local)

const (
	today    = "2026-10-14"
	tomorrow = "2026-10-15"
)

func TestMain(m *testing.M) {
	utils.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// setupTestDB opens an isolated in-memory sqlite database with the schema
// and reference data in place.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), config.GormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db))
	return db
}

func setupService(t *testing.T) (*services.ReservationService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := services.NewReservationService(repository.NewGormStore(db))
	svc.Now = func() time.Time { return fixedNow }
	return svc, db
}

func validRequest() services.CreateReservationRequest {
	return services.CreateReservationRequest{
		Date:         tomorrow,
		Time:         "19:00",
		TableNumber:  3,
		PartySize:    4,
		CustomerName: "Ana",
	}
}

func requireKind(t *testing.T, err error, kind services.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, services.KindOf(err), "unexpected kind for %q", err)
}

func TestCreateReservationRoundTrip(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	req := validRequest()
	req.CustomerName = "  Ana Souza  "
	created, err := svc.Create(ctx, req)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, tomorrow, got.Date)
	assert.Equal(t, models.TimeSlot("19:00"), got.Time)
	assert.Equal(t, 3, got.TableNumber)
	assert.Equal(t, 4, got.PartySize)
	assert.Equal(t, "Ana Souza", got.CustomerName)
	assert.Equal(t, models.StatusReserved, got.Status)
	assert.Nil(t, got.FulfilledBy)
	assert.Nil(t, got.WaiterName)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreateReservationRejections(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(r *services.CreateReservationRequest)
		kind     services.ErrorKind
		contains string
	}{
		{"unknown table", func(r *services.CreateReservationRequest) { r.TableNumber = 99 }, services.KindNotFound, "does not exist"},
		{"over capacity", func(r *services.CreateReservationRequest) { r.PartySize = 5 }, services.KindValidation, "only 4 people"},
		{"zero party", func(r *services.CreateReservationRequest) { r.PartySize = 0 }, services.KindValidation, "between 1 and 8"},
		{"negative party", func(r *services.CreateReservationRequest) { r.PartySize = -2 }, services.KindValidation, "between 1 and 8"},
		{"party above max on big table", func(r *services.CreateReservationRequest) { r.TableNumber = 10; r.PartySize = 9 }, services.KindValidation, "only 8 people"},
		{"yesterday", func(r *services.CreateReservationRequest) { r.Date = "2026-10-13" }, services.KindValidation, "past dates"},
		{"malformed date", func(r *services.CreateReservationRequest) { r.Date = "15/10/2026" }, services.KindValidation, "invalid date"},
		{"before opening", func(r *services.CreateReservationRequest) { r.Time = "11:00" }, services.KindValidation, "invalid time slot"},
		{"after closing", func(r *services.CreateReservationRequest) { r.Time = "23:00" }, services.KindValidation, "invalid time slot"},
		{"half hour", func(r *services.CreateReservationRequest) { r.Time = "19:30" }, services.KindValidation, "invalid time slot"},
		{"short name", func(r *services.CreateReservationRequest) { r.CustomerName = " A " }, services.KindValidation, "at least 2"},
		{"blank name", func(r *services.CreateReservationRequest) { r.CustomerName = "   " }, services.KindValidation, "at least 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupService(t)
			req := validRequest()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req)
			requireKind(t, err, tt.kind)
			assert.Contains(t, err.Error(), tt.contains)

			all, err := svc.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all, "rejected create must not write")
		})
	}
}

func TestCreateReservationCheckOrder(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	// conflict wins over every later check
	req := validRequest()
	req.PartySize = 50
	req.CustomerName = "x"
	_, err = svc.Create(ctx, req)
	requireKind(t, err, services.KindConflict)
	assert.Contains(t, err.Error(), "already reserved")

	// capacity wins over the past-date and slot checks
	req = validRequest()
	req.Time = "12:00"
	req.PartySize = 6
	req.Date = "2020-01-01"
	_, err = svc.Create(ctx, req)
	requireKind(t, err, services.KindValidation)
	assert.Contains(t, err.Error(), "capacity")

	// date wins over slot
	req = validRequest()
	req.Date = "2020-01-01"
	req.Time = "09:00"
	_, err = svc.Create(ctx, req)
	assert.Contains(t, err.Error(), "past dates")
}

func TestCreateReservationAcceptsToday(t *testing.T) {
	svc, _ := setupService(t)

	req := validRequest()
	req.Date = today
	req.Time = "12:00"
	_, err := svc.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreateReservationDoubleBooking(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	_, err = svc.Create(ctx, validRequest())
	requireKind(t, err, services.KindConflict)

	// other slot, other table and other day are all free
	for _, mutate := range []func(*services.CreateReservationRequest){
		func(r *services.CreateReservationRequest) { r.Time = "20:00" },
		func(r *services.CreateReservationRequest) { r.TableNumber = 4 },
		func(r *services.CreateReservationRequest) { r.Date = "2026-10-16" },
	} {
		req := validRequest()
		mutate(&req)
		_, err := svc.Create(ctx, req)
		assert.NoError(t, err)
	}
}

func TestConcurrentCreateAdmitsOne(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validRequest()
			req.CustomerName = fmt.Sprintf("Guest %d", i)
			_, err := svc.Create(ctx, req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case services.IsRejection(err, services.KindConflict):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, conflicts)
}

func TestStoreRejectsDuplicateActiveSlot(t *testing.T) {
	_, db := setupService(t)
	store := repository.NewGormStore(db)
	ctx := context.Background()

	key := models.SlotKeyFor(3, tomorrow, "19:00")
	first := &models.Reservation{Date: tomorrow, Time: "19:00", TableNumber: 3, PartySize: 2, CustomerName: "Ana", Status: models.StatusReserved, SlotKey: &key, CreatedAt: fixedNow}
	require.NoError(t, store.InsertReservation(ctx, first))

	dupKey := key
	second := &models.Reservation{Date: tomorrow, Time: "19:00", TableNumber: 3, PartySize: 2, CustomerName: "Bia", Status: models.StatusReserved, SlotKey: &dupKey, CreatedAt: fixedNow}
	err := store.InsertReservation(ctx, second)
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	// terminal rows carry no key and never collide
	for i := 0; i < 2; i++ {
		done := &models.Reservation{Date: tomorrow, Time: "19:00", TableNumber: 3, PartySize: 2, CustomerName: "Old", Status: models.StatusCancelled, CreatedAt: fixedNow}
		assert.NoError(t, store.InsertReservation(ctx, done))
	}
}

func TestCancelReservation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, r.ID))

	got, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
	assert.Nil(t, got.FulfilledBy)

	// rejecting a second cancel is stable and mutates nothing
	for i := 0; i < 3; i++ {
		err = svc.Cancel(ctx, r.ID)
		requireKind(t, err, services.KindConflict)
		assert.Equal(t, "cannot cancel a reservation that is already cancelled", err.Error())
	}
	got, err = svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)

	// the slot is free again
	_, err = svc.Create(ctx, validRequest())
	assert.NoError(t, err)
}

func TestCancelUnknownReservation(t *testing.T) {
	svc, _ := setupService(t)
	err := svc.Cancel(context.Background(), 404)
	requireKind(t, err, services.KindNotFound)
}

func TestFulfillReservation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	waiters, err := svc.Waiters(ctx)
	require.NoError(t, err)
	require.Len(t, waiters, 3)
	waiter := waiters[0]

	require.NoError(t, svc.Fulfill(ctx, r.ID, waiter.ID))

	got, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFulfilled, got.Status)
	require.NotNil(t, got.FulfilledBy)
	assert.Equal(t, waiter.ID, *got.FulfilledBy)
	require.NotNil(t, got.WaiterName)
	assert.Equal(t, waiter.Name, *got.WaiterName)

	err = svc.Cancel(ctx, r.ID)
	requireKind(t, err, services.KindConflict)
	assert.Contains(t, err.Error(), "already fulfilled")

	err = svc.Fulfill(ctx, r.ID, waiter.ID)
	requireKind(t, err, services.KindConflict)
	assert.Equal(t, "cannot fulfill a reservation that is already fulfilled", err.Error())
}

func TestFulfillRejections(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	err := svc.Fulfill(ctx, 77, 1)
	requireKind(t, err, services.KindNotFound)
	assert.Contains(t, err.Error(), "reservation")

	r, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	err = svc.Fulfill(ctx, r.ID, 999)
	requireKind(t, err, services.KindNotFound)
	assert.Contains(t, err.Error(), "waiter")

	got, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReserved, got.Status)
	assert.Nil(t, got.FulfilledBy)

	require.NoError(t, svc.Cancel(ctx, r.ID))
	err = svc.Fulfill(ctx, r.ID, 1)
	requireKind(t, err, services.KindConflict)
	assert.Contains(t, err.Error(), "already cancelled")
}

func seedReservations(t *testing.T, svc *services.ReservationService) []*models.Reservation {
	t.Helper()
	ctx := context.Background()
	reqs := []services.CreateReservationRequest{
		{Date: "2026-10-15", Time: "12:00", TableNumber: 1, PartySize: 2, CustomerName: "Ana"},
		{Date: "2026-10-15", Time: "20:00", TableNumber: 2, PartySize: 3, CustomerName: "Bruno"},
		{Date: "2026-10-17", Time: "13:00", TableNumber: 1, PartySize: 4, CustomerName: "Carla"},
		{Date: "2026-10-20", Time: "21:00", TableNumber: 9, PartySize: 8, CustomerName: "Diego"},
	}
	out := make([]*models.Reservation, 0, len(reqs))
	for _, req := range reqs {
		r, err := svc.Create(ctx, req)
		require.NoError(t, err)
		out = append(out, r)
	}
	return out
}

func TestListOrdering(t *testing.T) {
	svc, _ := setupService(t)
	seedReservations(t, svc)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 4)

	names := []string{}
	for _, r := range all {
		names = append(names, r.CustomerName)
	}
	assert.Equal(t, []string{"Diego", "Carla", "Bruno", "Ana"}, names)
}

func TestSearch(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	rs := seedReservations(t, svc)
	require.NoError(t, svc.Fulfill(ctx, rs[0].ID, 2))
	require.NoError(t, svc.Cancel(ctx, rs[2].ID))

	got, err := svc.Search(ctx, services.SearchFilter{Status: "fulfilled", StartDate: "2026-10-15", EndDate: "2026-10-15"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rs[0].ID, got[0].ID)
	require.NotNil(t, got[0].WaiterName)
	assert.Equal(t, "Gustavo Martin", *got[0].WaiterName)

	got, err = svc.Search(ctx, services.SearchFilter{StartDate: "2026-10-15", EndDate: "2026-10-17"})
	require.NoError(t, err)
	assert.Len(t, got, 3, "range is inclusive and empty status matches all")

	got, err = svc.Search(ctx, services.SearchFilter{Status: "reserved"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.Search(ctx, services.SearchFilter{Status: "cancelled", StartDate: "2026-11-01", EndDate: "2026-11-30"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	_, err = svc.Search(ctx, services.SearchFilter{Status: "seated"})
	requireKind(t, err, services.KindValidation)

	_, err = svc.Search(ctx, services.SearchFilter{StartDate: "2026-10-20", EndDate: "2026-10-01"})
	requireKind(t, err, services.KindValidation)

	_, err = svc.Search(ctx, services.SearchFilter{StartDate: "yesterday"})
	requireKind(t, err, services.KindValidation)
}

func TestByTableAndByWaiter(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	rs := seedReservations(t, svc)
	require.NoError(t, svc.Fulfill(ctx, rs[0].ID, 1))
	require.NoError(t, svc.Fulfill(ctx, rs[3].ID, 1))
	require.NoError(t, svc.Fulfill(ctx, rs[1].ID, 3))

	byTable, err := svc.ByTable(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byTable, 2)
	assert.Equal(t, "Carla", byTable[0].CustomerName)

	empty, err := svc.ByTable(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, empty)

	byWaiter, err := svc.ByWaiter(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byWaiter, 2)
	for _, r := range byWaiter {
		assert.Equal(t, models.StatusFulfilled, r.Status)
		require.NotNil(t, r.WaiterName)
		assert.Equal(t, "Alana Rosa", *r.WaiterName)
	}

	none, err := svc.ByWaiter(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReferenceData(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	tables, err := svc.Tables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 10)
	for _, tb := range tables {
		want := 8
		switch {
		case tb.Number <= 5:
			want = 4
		case tb.Number <= 8:
			want = 6
		}
		assert.Equal(t, want, tb.Capacity, "table %d", tb.Number)
	}

	_, err = svc.Waiter(ctx, 42)
	requireKind(t, err, services.KindNotFound)
}

// brokenStore fails every call the engine makes.
type brokenStore struct {
	repository.Store
	err error
}

func (b brokenStore) Atomic(ctx context.Context, fn func(tx repository.Repository) error) error {
	return b.err
}

func (b brokenStore) ListReservations(ctx context.Context, f models.ReservationFilter) ([]models.Reservation, error) {
	return nil, b.err
}

func TestStoreFailuresAreInternal(t *testing.T) {
	down := errors.New("connection refused")
	svc := services.NewReservationService(brokenStore{err: down})
	ctx := context.Background()

	_, err := svc.Create(ctx, validRequest())
	requireKind(t, err, services.KindInternal)
	assert.ErrorIs(t, err, down)

	err = svc.Cancel(ctx, 1)
	requireKind(t, err, services.KindInternal)

	err = svc.Fulfill(ctx, 1, 1)
	requireKind(t, err, services.KindInternal)

	_, err = svc.List(ctx)
	requireKind(t, err, services.KindInternal)
	assert.ErrorIs(t, err, down)
}
