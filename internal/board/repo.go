package board

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository persists board data in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

var _ Store = (*Repository)(nil)

// ListKirtans returns kirtans dated on or after from, soonest first.
func (r *Repository) ListKirtans(ctx context.Context, from string) ([]Kirtan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, location, to_char(date, 'YYYY-MM-DD'), image, organizer, phone, created_at
		FROM kirtans
		WHERE date >= $1::date
		ORDER BY date ASC, id ASC
	`, from)
	if err != nil {
		return nil, fmt.Errorf("list kirtans: %w", err)
	}
	defer rows.Close()

	var res []Kirtan
	for rows.Next() {
		var k Kirtan
		if err := rows.Scan(&k.ID, &k.Name, &k.Location, &k.Date, &k.Image, &k.Organizer, &k.Phone, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan kirtan: %w", err)
		}
		res = append(res, k)
	}
	return res, rows.Err()
}

// InsertKirtan writes a new kirtan and returns it with its assigned id.
func (r *Repository) InsertKirtan(ctx context.Context, k Kirtan) (Kirtan, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO kirtans (name, location, date, image, organizer, phone)
		VALUES ($1, $2, $3::date, $4, $5, $6)
		RETURNING id, created_at
	`, k.Name, k.Location, k.Date, k.Image, k.Organizer, k.Phone)
	if err := row.Scan(&k.ID, &k.CreatedAt); err != nil {
		return Kirtan{}, fmt.Errorf("insert kirtan: %w", err)
	}
	return k, nil
}

// DeleteKirtan removes a kirtan by id. A missing id is not an error.
func (r *Repository) DeleteKirtan(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kirtans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete kirtan %d: %w", id, err)
	}
	return nil
}

// PurgeKirtansBefore deletes kirtans dated strictly before day.
func (r *Repository) PurgeKirtansBefore(ctx context.Context, day string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM kirtans WHERE date < $1::date`, day)
	if err != nil {
		return 0, fmt.Errorf("purge kirtans: %w", err)
	}
	return res.RowsAffected()
}

// ListBusSevas returns bus offers departing on or after from, soonest first.
func (r *Repository) ListBusSevas(ctx context.Context, from string) ([]BusSeva, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, seva_name, origin, destination, to_char(departure_date, 'YYYY-MM-DD'), seats, phone, organizer, created_at
		FROM bus_seva
		WHERE departure_date >= $1::date
		ORDER BY departure_date ASC, id ASC
	`, from)
	if err != nil {
		return nil, fmt.Errorf("list bus seva: %w", err)
	}
	defer rows.Close()

	var res []BusSeva
	for rows.Next() {
		var b BusSeva
		if err := rows.Scan(&b.ID, &b.Name, &b.Origin, &b.Destination, &b.DepartureDate, &b.Seats, &b.Phone, &b.Organizer, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bus seva: %w", err)
		}
		res = append(res, b)
	}
	return res, rows.Err()
}

// InsertBusSeva writes a new bus offer.
func (r *Repository) InsertBusSeva(ctx context.Context, b BusSeva) (BusSeva, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO bus_seva (seva_name, origin, destination, departure_date, seats, phone, organizer)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7)
		RETURNING id, created_at
	`, b.Name, b.Origin, b.Destination, b.DepartureDate, b.Seats, b.Phone, b.Organizer)
	if err := row.Scan(&b.ID, &b.CreatedAt); err != nil {
		return BusSeva{}, fmt.Errorf("insert bus seva: %w", err)
	}
	return b, nil
}

// DeleteBusSeva removes a bus offer by id.
func (r *Repository) DeleteBusSeva(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bus_seva WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bus seva %d: %w", id, err)
	}
	return nil
}

// PurgeBusSevasBefore deletes bus offers departing strictly before day.
func (r *Repository) PurgeBusSevasBefore(ctx context.Context, day string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bus_seva WHERE departure_date < $1::date`, day)
	if err != nil {
		return 0, fmt.Errorf("purge bus seva: %w", err)
	}
	return res.RowsAffected()
}

// ListSathiRequests returns every request, newest first.
func (r *Repository) ListSathiRequests(ctx context.Context) ([]SathiRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, location, purpose, whatsapp, created_at
		FROM sathi_connect
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sathi connect: %w", err)
	}
	defer rows.Close()

	var res []SathiRequest
	for rows.Next() {
		var s SathiRequest
		if err := rows.Scan(&s.ID, &s.Name, &s.Location, &s.Purpose, &s.WhatsApp, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sathi connect: %w", err)
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// InsertSathiRequest writes a new peer request.
func (r *Repository) InsertSathiRequest(ctx context.Context, s SathiRequest) (SathiRequest, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO sathi_connect (name, location, purpose, whatsapp)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, s.Name, s.Location, s.Purpose, s.WhatsApp)
	if err := row.Scan(&s.ID, &s.CreatedAt); err != nil {
		return SathiRequest{}, fmt.Errorf("insert sathi connect: %w", err)
	}
	return s, nil
}

// DeleteSathiRequest removes a peer request by id.
func (r *Repository) DeleteSathiRequest(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sathi_connect WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sathi connect %d: %w", id, err)
	}
	return nil
}

// InsertContactMessage appends a contact form message.
func (r *Repository) InsertContactMessage(ctx context.Context, m ContactMessage) (ContactMessage, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO contact_messages (name, email, message)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, m.Name, m.Email, m.Message)
	if err := row.Scan(&m.ID, &m.CreatedAt); err != nil {
		return ContactMessage{}, fmt.Errorf("insert contact message: %w", err)
	}
	return m, nil
}

// IncrementVisits creates the day's row on first use and bumps it in one statement.
func (r *Repository) IncrementVisits(ctx context.Context, day string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO visitor_stats (date, count)
		VALUES ($1::date, 1)
		ON CONFLICT (date) DO UPDATE SET count = visitor_stats.count + 1
		RETURNING count
	`, day).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment visits: %w", err)
	}
	return count, nil
}

// VisitCount returns the day's visits, zero when no row exists.
func (r *Repository) VisitCount(ctx context.Context, day string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT count FROM visitor_stats WHERE date = $1::date`, day).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("visit count: %w", err)
	}
	return count, nil
}
