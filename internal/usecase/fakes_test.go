package usecase

import (
	"context"
	"errors"
	"net"
	"sort"
	"sync"
	"time"

	"barbershop-booking/internal/data/directory"
	"barbershop-booking/internal/data/entity"
	"barbershop-booking/internal/data/repository"
	"barbershop-booking/internal/slot"
	"barbershop-booking/pkg/apperror"

	"github.com/google/uuid"
)

// memoryBookings is an in-memory BookingRepository. WithinTx holds one global
// lock, which stands in for the per-day advisory lock.
type memoryBookings struct {
	txMu sync.Mutex

	mu       sync.Mutex
	bookings map[uuid.UUID]entity.Booking
	events   []string
	readErr  error
}

func newMemoryBookings() *memoryBookings {
	return &memoryBookings{bookings: map[uuid.UUID]entity.Booking{}}
}

// seed stores b as is, assigning an id when missing.
func (m *memoryBookings) seed(b entity.Booking) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = entity.BookingStatusPending
	}
	m.bookings[b.ID] = b
	return b.ID
}

func (m *memoryBookings) get(id uuid.UUID) (entity.Booking, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	return b, ok
}

func (m *memoryBookings) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.events...)
}

func (m *memoryBookings) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *memoryBookings) FindByCustomerID(ctx context.Context, customerID int64) ([]*entity.Booking, error) {
	return m.filter(func(b entity.Booking) bool { return b.CustomerID == customerID }, true)
}

func (m *memoryBookings) FindActiveByShopAndDate(ctx context.Context, shopID int64, date time.Time) ([]*entity.Booking, error) {
	return m.filter(func(b entity.Booking) bool {
		return b.ShopID == shopID && b.Date.Equal(entity.DateOnly(date)) && b.IsActive()
	}, false)
}

func (m *memoryBookings) FindActiveByShopAndDateAndEmployee(ctx context.Context, shopID int64, date time.Time, employeeID int64) ([]*entity.Booking, error) {
	return m.filter(func(b entity.Booking) bool {
		return b.ShopID == shopID && b.Date.Equal(entity.DateOnly(date)) && b.IsActive() &&
			(b.EmployeeID == nil || *b.EmployeeID == employeeID)
	}, false)
}

func (m *memoryBookings) filter(keep func(entity.Booking) bool, newestFirst bool) ([]*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}

	var out []*entity.Booking
	for _, b := range m.bookings {
		if keep(b) {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date) != newestFirst
		}
		return (a.StartTime < b.StartTime) != newestFirst
	})
	return out, nil
}

func (m *memoryBookings) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.BookingTx) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapshot := make(map[uuid.UUID]entity.Booking, len(m.bookings))
	for k, v := range m.bookings {
		snapshot[k] = v
	}
	eventCount := len(m.events)
	m.mu.Unlock()

	if err := fn(ctx, &memoryTx{m: m}); err != nil {
		m.mu.Lock()
		m.bookings = snapshot
		m.events = m.events[:eventCount]
		m.mu.Unlock()
		return err
	}
	return nil
}

type memoryTx struct {
	m *memoryBookings
}

func (t *memoryTx) LockDay(ctx context.Context, shopID int64, date time.Time) error {
	return nil
}

func (t *memoryTx) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return t.m.FindByID(ctx, id)
}

func (t *memoryTx) ExistsActiveConflict(ctx context.Context, q repository.ConflictQuery) (bool, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()

	want := slot.NewInterval(q.Start, q.DurationMinutes)
	for id, b := range t.m.bookings {
		if id == q.ExcludeID || !b.IsActive() || b.ShopID != q.ShopID || !b.Date.Equal(entity.DateOnly(q.Date)) {
			continue
		}
		if q.EmployeeID != nil && b.EmployeeID != nil && *b.EmployeeID != *q.EmployeeID {
			continue
		}
		if b.Interval().Overlaps(want) {
			return true, nil
		}
	}
	return false, nil
}

func (t *memoryTx) Insert(ctx context.Context, booking *entity.Booking) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	now := time.Now()
	booking.ID = uuid.New()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	t.m.bookings[booking.ID] = *booking
	return nil
}

func (t *memoryTx) Update(ctx context.Context, booking *entity.Booking) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if _, ok := t.m.bookings[booking.ID]; !ok {
		return apperror.NotFound("booking %s not found", booking.ID)
	}
	booking.UpdatedAt = time.Now()
	t.m.bookings[booking.ID] = *booking
	return nil
}

func (t *memoryTx) AppendEvent(ctx context.Context, eventType string, booking *entity.Booking) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	t.m.events = append(t.m.events, eventType)
	return nil
}

type memoryDirectory struct {
	shops     map[int64]directory.Shop
	services  map[int64]directory.Service
	employees map[int64]directory.Employee
	err       error
}

func newMemoryDirectory() *memoryDirectory {
	return &memoryDirectory{
		shops: map[int64]directory.Shop{
			5: {ID: 5, Name: "Sharp Cuts", Address: "Jl. Merdeka 10", Phone: "021-555-0100", OpeningTime: "09:00", ClosingTime: "18:00"},
			6: {ID: 6, Name: "Broken Hours", OpeningTime: "nine", ClosingTime: "18:00"},
		},
		services: map[int64]directory.Service{
			3:  {ID: 3, ShopID: 5, Name: "Haircut", Duration: 45, Price: "75000.00"},
			4:  {ID: 4, ShopID: 5, Name: "Beard trim", Duration: 30},
			9:  {ID: 9, ShopID: 5, Name: "Misconfigured", Duration: 0},
			10: {ID: 10, ShopID: 6, Name: "Elsewhere", Duration: 30},
		},
		employees: map[int64]directory.Employee{
			7:  {ID: 7, ShopID: 5, Name: "Budi"},
			8:  {ID: 8, ShopID: 5, Name: "Sari"},
			11: {ID: 11, ShopID: 6, Name: "Other"},
		},
	}
}

func (d *memoryDirectory) GetShop(ctx context.Context, shopID int64) (*directory.Shop, error) {
	if d.err != nil {
		return nil, d.err
	}
	s, ok := d.shops[shopID]
	if !ok {
		return nil, apperror.NotFound("shop %d not found", shopID)
	}
	return &s, nil
}

func (d *memoryDirectory) GetService(ctx context.Context, serviceID int64) (*directory.Service, error) {
	if d.err != nil {
		return nil, d.err
	}
	s, ok := d.services[serviceID]
	if !ok {
		return nil, apperror.NotFound("service %d not found", serviceID)
	}
	return &s, nil
}

func (d *memoryDirectory) GetEmployee(ctx context.Context, employeeID int64) (*directory.Employee, error) {
	if d.err != nil {
		return nil, d.err
	}
	e, ok := d.employees[employeeID]
	if !ok {
		return nil, apperror.NotFound("employee %d not found", employeeID)
	}
	return &e, nil
}

// errStoreDown looks like a refused database dial.
var errStoreDown error = &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

// bookingDay is the calendar day most tests book on; testNow is five days earlier.
var (
	bookingDay = time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC)
	testNow    = time.Date(2025, 11, 10, 10, 0, 0, 0, time.UTC)
)

func testOptions() Options {
	return Options{
		SlotGranularityMinutes: 15,
		Location:               time.UTC,
		Now:                    func() time.Time { return testNow },
	}
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }
