package board

import (
	"context"
	"fmt"
	"time"

	"bulletin/internal/filter"
	"bulletin/internal/metrics"
)

// ImageUploader moves an encoded image out of the database and returns where it lives.
type ImageUploader interface {
	UploadImage(ctx context.Context, data string) (string, error)
}

// Service applies the board's rules on top of a Store.
type Service struct {
	store   Store
	images  ImageUploader
	metrics *metrics.Metrics
	now     func() time.Time
	deletes map[string]func(context.Context, int64) error
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the wall clock used to compute today.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithImageUploader offloads kirtan images instead of storing them inline.
func WithImageUploader(u ImageUploader) Option {
	return func(s *Service) { s.images = u }
}

// NewService creates a service backed by a store.
func NewService(store Store, m *metrics.Metrics, opts ...Option) *Service {
	s := &Service{store: store, metrics: m, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.deletes = map[string]func(context.Context, int64) error{
		TableKirtans:      store.DeleteKirtan,
		TableBusSeva:      store.DeleteBusSeva,
		TableSathiConnect: store.DeleteSathiRequest,
	}
	return s
}

// Today is the current calendar date on the server's local clock.
func (s *Service) Today() string {
	return Day(s.now())
}

// ListKirtans returns kirtans that have not yet passed.
func (s *Service) ListKirtans(ctx context.Context) ([]Kirtan, error) {
	return s.store.ListKirtans(ctx, s.Today())
}

// ScreenKirtan runs the content filter over the screened kirtan fields.
func (s *Service) ScreenKirtan(name, location string) error {
	if !filter.AllClean(name, location) {
		s.metrics.Rejected.Inc()
		return ErrInappropriateLanguage
	}
	return nil
}

// CreateKirtan screens name and location, then stores the posting.
func (s *Service) CreateKirtan(ctx context.Context, k Kirtan) (Kirtan, error) {
	if err := s.ScreenKirtan(k.Name, k.Location); err != nil {
		return Kirtan{}, err
	}
	day, err := ParseDay(k.Date)
	if err != nil {
		return Kirtan{}, err
	}
	k.Date = day

	if s.images != nil && k.Image != nil && *k.Image != "" {
		url, err := s.images.UploadImage(ctx, *k.Image)
		if err != nil {
			return Kirtan{}, fmt.Errorf("%w: %v", ErrImageUpload, err)
		}
		k.Image = &url
	}

	created, err := s.store.InsertKirtan(ctx, k)
	if err != nil {
		return Kirtan{}, err
	}
	s.metrics.Created.WithLabelValues(TableKirtans).Inc()
	return created, nil
}

// ListBusSevas returns bus offers that have not yet departed.
func (s *Service) ListBusSevas(ctx context.Context) ([]BusSeva, error) {
	return s.store.ListBusSevas(ctx, s.Today())
}

// CreateBusSeva stores a bus offer.
func (s *Service) CreateBusSeva(ctx context.Context, b BusSeva) (BusSeva, error) {
	day, err := ParseDay(b.DepartureDate)
	if err != nil {
		return BusSeva{}, err
	}
	b.DepartureDate = day

	created, err := s.store.InsertBusSeva(ctx, b)
	if err != nil {
		return BusSeva{}, err
	}
	s.metrics.Created.WithLabelValues(TableBusSeva).Inc()
	return created, nil
}

// ListSathiRequests returns every peer request, newest first.
func (s *Service) ListSathiRequests(ctx context.Context) ([]SathiRequest, error) {
	return s.store.ListSathiRequests(ctx)
}

// CreateSathiRequest stores a peer request.
func (s *Service) CreateSathiRequest(ctx context.Context, r SathiRequest) (SathiRequest, error) {
	created, err := s.store.InsertSathiRequest(ctx, r)
	if err != nil {
		return SathiRequest{}, err
	}
	s.metrics.Created.WithLabelValues(TableSathiConnect).Inc()
	return created, nil
}

// SendContactMessage appends a contact form message.
func (s *Service) SendContactMessage(ctx context.Context, m ContactMessage) (ContactMessage, error) {
	created, err := s.store.InsertContactMessage(ctx, m)
	if err != nil {
		return ContactMessage{}, err
	}
	s.metrics.Created.WithLabelValues("contact_messages").Inc()
	return created, nil
}

// CanDelete reports whether table is on the admin delete allow-list.
func (s *Service) CanDelete(table string) bool {
	_, ok := s.deletes[table]
	return ok
}

// AdminDelete removes one row from an allowed table. Unknown tables are
// rejected before the store is touched; a missing id is a no-op.
func (s *Service) AdminDelete(ctx context.Context, table string, id int64) error {
	del, ok := s.deletes[table]
	if !ok {
		return ErrInvalidTable
	}
	return del(ctx, id)
}

// LogVisit counts one visit against today.
func (s *Service) LogVisit(ctx context.Context) (int64, error) {
	count, err := s.store.IncrementVisits(ctx, s.Today())
	if err != nil {
		return 0, err
	}
	s.metrics.Visits.Inc()
	return count, nil
}

// DailyVisitors returns today's visit count.
func (s *Service) DailyVisitors(ctx context.Context) (int64, error) {
	return s.store.VisitCount(ctx, s.Today())
}
