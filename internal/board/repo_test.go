package board

import (
	"context"
	"os"
	"testing"
	"time"

	"bulletin/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepository connects to TEST_DATABASE_URL and empties the board tables.
func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := store.NewDB(ctx, url, 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))

	_, err = db.Client.ExecContext(ctx, `TRUNCATE kirtans, bus_seva, sathi_connect, contact_messages, visitor_stats`)
	require.NoError(t, err)
	return NewRepository(db.Client)
}

func TestRepositoryKirtans(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	later, err := repo.InsertKirtan(ctx, Kirtan{Name: "Later", Location: "Hall", Date: "2026-03-20", Phone: "1", Organizer: strPtr("Mandal")})
	require.NoError(t, err)
	assert.NotZero(t, later.ID)
	_, err = repo.InsertKirtan(ctx, Kirtan{Name: "Sooner", Location: "Temple", Date: "2026-03-14", Phone: "2"})
	require.NoError(t, err)
	_, err = repo.InsertKirtan(ctx, Kirtan{Name: "Past", Location: "Temple", Date: "2026-03-13", Phone: "3"})
	require.NoError(t, err)

	list, err := repo.ListKirtans(ctx, "2026-03-14")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Sooner", list[0].Name)
	assert.Equal(t, "2026-03-14", list[0].Date)
	assert.Nil(t, list[0].Image)
	require.NotNil(t, list[1].Organizer)
	assert.Equal(t, "Mandal", *list[1].Organizer)

	purged, err := repo.PurgeKirtansBefore(ctx, "2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	require.NoError(t, repo.DeleteKirtan(ctx, later.ID))
	require.NoError(t, repo.DeleteKirtan(ctx, later.ID))
	list, err = repo.ListKirtans(ctx, "2000-01-01")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRepositoryBusSeva(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	seats := 12

	_, err := repo.InsertBusSeva(ctx, BusSeva{Name: "Yatra", Origin: "Jaipur", Destination: "Khatu", DepartureDate: "2026-03-15", Seats: &seats, Phone: "1"})
	require.NoError(t, err)
	_, err = repo.InsertBusSeva(ctx, BusSeva{Name: "Old", Origin: "Jaipur", Destination: "Khatu", DepartureDate: "2026-03-01", Phone: "1"})
	require.NoError(t, err)

	list, err := repo.ListBusSevas(ctx, "2026-03-14")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Seats)
	assert.Equal(t, 12, *list[0].Seats)

	purged, err := repo.PurgeBusSevasBefore(ctx, "2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestRepositorySathiAndContact(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first, err := repo.InsertSathiRequest(ctx, SathiRequest{Name: "a", Location: "x", Purpose: "p", WhatsApp: "1"})
	require.NoError(t, err)
	second, err := repo.InsertSathiRequest(ctx, SathiRequest{Name: "b", Location: "x", Purpose: "p", WhatsApp: "2"})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	list, err := repo.ListSathiRequests(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Name)

	msg, err := repo.InsertContactMessage(ctx, ContactMessage{Name: "n", Email: "e@example.com", Message: "hi"})
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)
}

func TestRepositoryVisits(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	n, err := repo.VisitCount(ctx, "2026-03-14")
	require.NoError(t, err)
	assert.Zero(t, n)

	for i := 1; i <= 3; i++ {
		n, err = repo.IncrementVisits(ctx, "2026-03-14")
		require.NoError(t, err)
		assert.Equal(t, int64(i), n)
	}
	n, err = repo.VisitCount(ctx, "2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
