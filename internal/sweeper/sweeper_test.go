package sweeper

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"bulletin/internal/board"
	"bulletin/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 3, 14, 0, 5, 0, 0, time.Local)

func clock() time.Time { return today }

func seed(t *testing.T, st *board.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	for _, d := range []string{"2026-03-12", "2026-03-13", "2026-03-14", "2026-03-15"} {
		_, err := st.InsertKirtan(ctx, board.Kirtan{Name: "k" + d, Location: "Temple", Date: d, Phone: "1"})
		require.NoError(t, err)
		_, err = st.InsertBusSeva(ctx, board.BusSeva{Name: "b" + d, Origin: "a", Destination: "b", DepartureDate: d, Phone: "1"})
		require.NoError(t, err)
	}
}

func TestRunOncePurgesOnlyPastDates(t *testing.T) {
	st := board.NewMemoryStore()
	seed(t, st)
	m := metrics.New(prometheus.NewRegistry())
	s := New(st, time.Hour, zerolog.Nop(), m, WithClock(clock))

	res, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", res.Day)
	assert.Equal(t, int64(2), res.Kirtans)
	assert.Equal(t, int64(2), res.BusSevas)

	kirtans, err := st.ListKirtans(context.Background(), "0000-00-00")
	require.NoError(t, err)
	require.Len(t, kirtans, 2)
	assert.Equal(t, "2026-03-14", kirtans[0].Date)
	assert.Equal(t, "2026-03-15", kirtans[1].Date)

	buses, err := st.ListBusSevas(context.Background(), "0000-00-00")
	require.NoError(t, err)
	assert.Len(t, buses, 2)

	// a second sweep on the same day finds nothing left to purge
	res, err = s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Kirtans)
	assert.Zero(t, res.BusSevas)
}

type fakeLease struct {
	ok  bool
	err error
}

func (f fakeLease) Acquire(context.Context) (bool, error) { return f.ok, f.err }

func TestRunOnceSkipsWhenLeaseHeld(t *testing.T) {
	st := board.NewMemoryStore()
	seed(t, st)
	s := New(st, time.Hour, zerolog.Nop(), metrics.New(prometheus.NewRegistry()), WithClock(clock), WithLease(fakeLease{ok: false}))

	res, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, 4, st.Counts()[board.TableKirtans])
}

func TestRunOnceLeaseError(t *testing.T) {
	st := board.NewMemoryStore()
	seed(t, st)
	s := New(st, time.Hour, zerolog.Nop(), metrics.New(prometheus.NewRegistry()), WithClock(clock), WithLease(fakeLease{err: errors.New("redis down")}))

	_, err := s.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 4, st.Counts()[board.TableKirtans])
}

type flakyPurger struct {
	calls atomic.Int32
}

func (f *flakyPurger) PurgeKirtansBefore(context.Context, string) (int64, error) {
	if f.calls.Add(1) == 1 {
		return 0, errors.New("database unavailable")
	}
	return 1, nil
}

func (f *flakyPurger) PurgeBusSevasBefore(context.Context, string) (int64, error) {
	return 0, nil
}

func TestRunOnceAttemptsBothTables(t *testing.T) {
	p := &failingKirtans{}
	s := New(p, time.Hour, zerolog.Nop(), metrics.New(prometheus.NewRegistry()), WithClock(clock))

	res, err := s.RunOnce(context.Background())
	assert.Error(t, err)
	assert.True(t, p.busCalled)
	assert.Equal(t, int64(3), res.BusSevas)
}

type failingKirtans struct {
	busCalled bool
}

func (f *failingKirtans) PurgeKirtansBefore(context.Context, string) (int64, error) {
	return 0, errors.New("boom")
}

func (f *failingKirtans) PurgeBusSevasBefore(context.Context, string) (int64, error) {
	f.busCalled = true
	return 3, nil
}

func TestRunContinuesAfterFailure(t *testing.T) {
	p := &flakyPurger{}
	m := metrics.New(prometheus.NewRegistry())
	s := New(p, 10*time.Millisecond, zerolog.Nop(), m, WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return p.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(m.SweepRuns.WithLabelValues("error")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.SweepRuns.WithLabelValues("ok")), float64(2))
}

type panickyPurger struct {
	calls atomic.Int32
}

func (p *panickyPurger) PurgeKirtansBefore(context.Context, string) (int64, error) {
	if p.calls.Add(1) == 1 {
		panic("driver bug")
	}
	return 0, nil
}

func (p *panickyPurger) PurgeBusSevasBefore(context.Context, string) (int64, error) {
	return 0, nil
}

func TestRunRecoversFromPanic(t *testing.T) {
	p := &panickyPurger{}
	s := New(p, 10*time.Millisecond, zerolog.Nop(), metrics.New(prometheus.NewRegistry()), WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	assert.Eventually(t, func() bool { return p.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestLeaseOwnerIsUniquePerProcess(t *testing.T) {
	a, b := LeaseOwner("api"), LeaseOwner("api")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "api/"))
	assert.Len(t, strings.Split(a, "/"), 3)
	assert.True(t, strings.HasPrefix(LeaseOwner("worker"), "worker/"))
}
