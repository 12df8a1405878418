package board

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests and local runs without Postgres.
type MemoryStore struct {
	mu       sync.Mutex
	now      func() time.Time
	nextID   map[string]int64
	kirtans  []Kirtan
	buses    []BusSeva
	sathis   []SathiRequest
	contacts []ContactMessage
	visits   map[string]int64
}

// NewMemoryStore creates an empty store stamping rows with time.Now.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:    time.Now,
		nextID: make(map[string]int64),
		visits: make(map[string]int64),
	}
}

var _ Store = (*MemoryStore)(nil)

// ids are per table, monotonic and never reused
func (m *MemoryStore) id(table string) int64 {
	m.nextID[table]++
	return m.nextID[table]
}

func (m *MemoryStore) ListKirtans(_ context.Context, from string) ([]Kirtan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []Kirtan
	for _, k := range m.kirtans {
		if k.Date >= from {
			res = append(res, k)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Date < res[j].Date })
	return res, nil
}

func (m *MemoryStore) InsertKirtan(_ context.Context, k Kirtan) (Kirtan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k.ID = m.id(TableKirtans)
	k.CreatedAt = m.now()
	m.kirtans = append(m.kirtans, k)
	return k, nil
}

func (m *MemoryStore) DeleteKirtan(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kirtans = filterOut(m.kirtans, func(k Kirtan) bool { return k.ID == id })
	return nil
}

func (m *MemoryStore) PurgeKirtansBefore(_ context.Context, day string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.kirtans)
	m.kirtans = filterOut(m.kirtans, func(k Kirtan) bool { return k.Date < day })
	return int64(before - len(m.kirtans)), nil
}

func (m *MemoryStore) ListBusSevas(_ context.Context, from string) ([]BusSeva, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []BusSeva
	for _, b := range m.buses {
		if b.DepartureDate >= from {
			res = append(res, b)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].DepartureDate < res[j].DepartureDate })
	return res, nil
}

func (m *MemoryStore) InsertBusSeva(_ context.Context, b BusSeva) (BusSeva, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = m.id(TableBusSeva)
	b.CreatedAt = m.now()
	m.buses = append(m.buses, b)
	return b, nil
}

func (m *MemoryStore) DeleteBusSeva(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buses = filterOut(m.buses, func(b BusSeva) bool { return b.ID == id })
	return nil
}

func (m *MemoryStore) PurgeBusSevasBefore(_ context.Context, day string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.buses)
	m.buses = filterOut(m.buses, func(b BusSeva) bool { return b.DepartureDate < day })
	return int64(before - len(m.buses)), nil
}

func (m *MemoryStore) ListSathiRequests(_ context.Context) ([]SathiRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]SathiRequest, len(m.sathis))
	copy(res, m.sathis)
	sort.SliceStable(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID > res[j].ID
	})
	return res, nil
}

func (m *MemoryStore) InsertSathiRequest(_ context.Context, s SathiRequest) (SathiRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.id(TableSathiConnect)
	s.CreatedAt = m.now()
	m.sathis = append(m.sathis, s)
	return s, nil
}

func (m *MemoryStore) DeleteSathiRequest(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sathis = filterOut(m.sathis, func(s SathiRequest) bool { return s.ID == id })
	return nil
}

func (m *MemoryStore) InsertContactMessage(_ context.Context, msg ContactMessage) (ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = m.id("contact_messages")
	msg.CreatedAt = m.now()
	m.contacts = append(m.contacts, msg)
	return msg, nil
}

func (m *MemoryStore) IncrementVisits(_ context.Context, day string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visits[day]++
	return m.visits[day], nil
}

func (m *MemoryStore) VisitCount(_ context.Context, day string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visits[day], nil
}

// Counts reports rows per table, including rows hidden from listings.
func (m *MemoryStore) Counts() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]int{
		TableKirtans:       len(m.kirtans),
		TableBusSeva:       len(m.buses),
		TableSathiConnect:  len(m.sathis),
		"contact_messages": len(m.contacts),
	}
}

func filterOut[T any](rows []T, drop func(T) bool) []T {
	kept := rows[:0]
	for _, r := range rows {
		if !drop(r) {
			kept = append(kept, r)
		}
	}
	return kept
}
