package tests

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"rail/internal/domain"
	"rail/internal/redis"
	"rail/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK STORE
// ──────────────────────────────────────────────

// MockStore is an in-memory repository.Store. WithinTx snapshots the state
// and restores it when fn fails.
type MockStore struct {
	mu         sync.RWMutex
	state      *memState
	inTx       bool
	root       *MockStore
	TxCount    int32
	Rollbacks  int32
	SaveError  error
	CountError error
}

type memState struct {
	connections []*domain.Connection
	travellers  map[string]domain.Traveller
	trips       map[string][]string
	bookings    map[string]*domain.Booking
}

func newMemState() *memState {
	return &memState{
		travellers: make(map[string]domain.Traveller),
		trips:      make(map[string][]string),
		bookings:   make(map[string]*domain.Booking),
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	c.connections = append([]*domain.Connection(nil), s.connections...)
	for k, v := range s.travellers {
		c.travellers[k] = v
	}
	for k, v := range s.trips {
		c.trips[k] = append([]string(nil), v...)
	}
	for k, v := range s.bookings {
		c.bookings[k] = cloneBooking(v)
	}
	return c
}

// NewMockStore creates an empty store.
func NewMockStore() *MockStore {
	m := &MockStore{state: newMemState()}
	m.root = m
	return m
}

// AddConnections seeds the connection table.
func (m *MockStore) AddConnections(conns ...*domain.Connection) {
	m.root.mu.Lock()
	defer m.root.mu.Unlock()
	m.root.state.connections = append(m.root.state.connections, conns...)
}

// BookingCount returns the number of stored bookings.
func (m *MockStore) BookingCount() int {
	m.root.mu.RLock()
	defer m.root.mu.RUnlock()
	return len(m.root.state.bookings)
}

// TravellerCount returns the number of stored travellers.
func (m *MockStore) TravellerCount() int {
	m.root.mu.RLock()
	defer m.root.mu.RUnlock()
	return len(m.root.state.travellers)
}

func (m *MockStore) Connections() repository.ConnectionRepository { return mockConnections{m} }
func (m *MockStore) Travellers() repository.TravellerRepository   { return mockTravellers{m} }
func (m *MockStore) Trips() repository.TripRepository             { return mockTrips{m} }
func (m *MockStore) Bookings() repository.BookingRepository       { return mockBookings{m} }

func (m *MockStore) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	if m.inTx {
		return fn(m)
	}
	atomic.AddInt32(&m.TxCount, 1)

	m.mu.Lock()
	snapshot := m.state.clone()
	m.mu.Unlock()

	if err := fn(&MockStore{state: m.state, inTx: true, root: m, SaveError: m.SaveError, CountError: m.CountError}); err != nil {
		atomic.AddInt32(&m.Rollbacks, 1)
		m.mu.Lock()
		m.state = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *MockStore) lock() func() {
	m.root.mu.Lock()
	return m.root.mu.Unlock
}

func (m *MockStore) rlock() func() {
	m.root.mu.RLock()
	return m.root.mu.RUnlock
}

// data returns the live state. Inside a transaction the root state is shared
// until the root restores its snapshot.
func (m *MockStore) data() *memState {
	return m.root.state
}

type mockConnections struct{ m *MockStore }

func (r mockConnections) LoadAll(ctx context.Context, reg *domain.Registry) ([]*domain.Connection, error) {
	defer r.m.rlock()()
	out := make([]*domain.Connection, 0, len(r.m.data().connections))
	for _, c := range r.m.data().connections {
		rebuilt, err := reintern(c, reg)
		if err != nil {
			return nil, err
		}
		out = append(out, rebuilt)
	}
	return out, nil
}

func (r mockConnections) SaveAll(ctx context.Context, conns []*domain.Connection) error {
	if r.m.SaveError != nil {
		return r.m.SaveError
	}
	defer r.m.lock()()
	st := r.m.data()
	for _, c := range conns {
		replaced := false
		for i, old := range st.connections {
			if old.RouteID == c.RouteID {
				st.connections[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			st.connections = append(st.connections, c)
		}
	}
	return nil
}

func (r mockConnections) Count(ctx context.Context) (int, error) {
	if r.m.CountError != nil {
		return 0, r.m.CountError
	}
	defer r.m.rlock()()
	return len(r.m.data().connections), nil
}

func reintern(c *domain.Connection, reg *domain.Registry) (*domain.Connection, error) {
	from, err := reg.City(c.Departure.City.Name)
	if err != nil {
		return nil, err
	}
	to, err := reg.City(c.Arrival.City.Name)
	if err != nil {
		return nil, err
	}
	train, err := reg.TrainType(c.Train.Name)
	if err != nil {
		return nil, err
	}
	return domain.NewConnection(c.RouteID, train, c.Schedule, c.Rates,
		domain.TrainStop{City: from, Time: c.Departure.Time},
		domain.TrainStop{City: to, Time: c.Arrival.Time, NextDay: c.Arrival.NextDay})
}

type mockTravellers struct{ m *MockStore }

func (r mockTravellers) Create(ctx context.Context, t *domain.Traveller) error {
	defer r.m.lock()()
	if _, ok := r.m.data().travellers[t.ID]; ok {
		return ErrMockDBConstraint
	}
	r.m.data().travellers[t.ID] = *t
	return nil
}

func (r mockTravellers) GetByID(ctx context.Context, id string) (*domain.Traveller, error) {
	defer r.m.rlock()()
	t, ok := r.m.data().travellers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

type mockTrips struct{ m *MockStore }

func (r mockTrips) Save(ctx context.Context, trip *domain.Trip) error {
	defer r.m.lock()()
	if _, ok := r.m.data().trips[trip.ID()]; !ok {
		r.m.data().trips[trip.ID()] = trip.RouteIDs()
	}
	return nil
}

func (r mockTrips) RouteIDs(ctx context.Context, tripID string) ([]string, error) {
	defer r.m.rlock()()
	ids, ok := r.m.data().trips[tripID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return append([]string(nil), ids...), nil
}

type mockBookings struct{ m *MockStore }

func (r mockBookings) Create(ctx context.Context, b *domain.Booking) error {
	defer r.m.lock()()
	if _, ok := r.m.data().trips[b.TripID]; !ok {
		return ErrMockDBConstraint
	}
	r.m.data().bookings[b.ID] = cloneBooking(b)
	return nil
}

func (r mockBookings) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	defer r.m.rlock()()
	b, ok := r.m.data().bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r mockBookings) TicketsByTraveller(ctx context.Context, travellerID string) ([]domain.Ticket, error) {
	defer r.m.rlock()()
	var out []domain.Ticket
	for _, b := range r.m.data().bookings {
		for _, t := range b.Tickets {
			if t.TravellerID == travellerID {
				out = append(out, t)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	c := *b
	c.Tickets = append([]domain.Ticket(nil), b.Tickets...)
	c.Travellers = append([]domain.Traveller(nil), b.Travellers...)
	return &c
}

var _ repository.Store = (*MockStore)(nil)

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if expiry, exists := m.locks[name]; exists && time.Now().Before(expiry) {
		return false, nil
	}
	m.locks[name] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseLock(ctx context.Context, name string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, name)
	return nil
}

// IsLocked checks if a lock is held (for test assertions).
func (m *MockLockStore) IsLocked(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks[name]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// MOCK SEARCH CACHE
// ──────────────────────────────────────────────

// MockSearchCache is an in-memory SearchCacheInterface.
type MockSearchCache struct {
	mu      sync.Mutex
	entries map[string]redis.CachedSearch

	GetCallCount int32
	SetCallCount int32
	GetError     error
}

// NewMockSearchCache creates an empty cache.
func NewMockSearchCache() *MockSearchCache {
	return &MockSearchCache{entries: make(map[string]redis.CachedSearch)}
}

func (m *MockSearchCache) GetSearch(ctx context.Context, key string) (*redis.CachedSearch, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *MockSearchCache) SetSearch(ctx context.Context, key string, result *redis.CachedSearch, ttl time.Duration) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = *result
	return nil
}

func (m *MockSearchCache) InvalidateSearches(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.entries)
	m.entries = make(map[string]redis.CachedSearch)
	return n, nil
}

// Len returns the number of cached searches.
func (m *MockSearchCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

var (
	_ redis.SearchCacheInterface = (*MockSearchCache)(nil)
	_ redis.LockStoreInterface   = (*MockLockStore)(nil)
)

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)
