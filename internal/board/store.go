package board

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInappropriateLanguage = errors.New("inappropriate language")
	ErrInvalidTable          = errors.New("invalid table")
	ErrInvalidDate           = errors.New("invalid date")
	ErrImageUpload           = errors.New("image upload failed")
)

// DayLayout is the calendar-date format used on the wire and in storage.
const DayLayout = "2006-01-02"

// Store is the data access the board needs. Days are DayLayout strings.
type Store interface {
	ListKirtans(ctx context.Context, from string) ([]Kirtan, error)
	InsertKirtan(ctx context.Context, k Kirtan) (Kirtan, error)
	DeleteKirtan(ctx context.Context, id int64) error
	PurgeKirtansBefore(ctx context.Context, day string) (int64, error)

	ListBusSevas(ctx context.Context, from string) ([]BusSeva, error)
	InsertBusSeva(ctx context.Context, b BusSeva) (BusSeva, error)
	DeleteBusSeva(ctx context.Context, id int64) error
	PurgeBusSevasBefore(ctx context.Context, day string) (int64, error)

	ListSathiRequests(ctx context.Context) ([]SathiRequest, error)
	InsertSathiRequest(ctx context.Context, s SathiRequest) (SathiRequest, error)
	DeleteSathiRequest(ctx context.Context, id int64) error

	InsertContactMessage(ctx context.Context, m ContactMessage) (ContactMessage, error)

	IncrementVisits(ctx context.Context, day string) (int64, error)
	VisitCount(ctx context.Context, day string) (int64, error)
}

// Day formats t as a calendar date in t's own location.
func Day(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay validates a calendar date and returns it normalized.
func ParseDay(s string) (string, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Day(t), nil
}
