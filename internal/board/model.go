package board

import "time"

// Table identifiers accepted by the admin delete endpoint.
const (
	TableKirtans      = "kirtans"
	TableBusSeva      = "bus_seva"
	TableSathiConnect = "sathi_connect"
)

// Kirtan is a devotional gathering posting. It is listed until its date passes.
type Kirtan struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Date      string    `json:"date"`
	Image     *string   `json:"image"`
	Organizer *string   `json:"organizer"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"-"`
}

// BusSeva is a shared bus transport offer tied to a departure date.
type BusSeva struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Origin        string    `json:"from"`
	Destination   string    `json:"to"`
	DepartureDate string    `json:"date"`
	Seats         *int      `json:"seats"`
	Phone         string    `json:"phone"`
	Organizer     *string   `json:"-"`
	CreatedAt     time.Time `json:"-"`
}

// SathiRequest is a peer-connection request on the Sathi Connect board.
type SathiRequest struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Purpose   string    `json:"purpose"`
	WhatsApp  string    `json:"whatsapp"`
	CreatedAt time.Time `json:"-"`
}

// ContactMessage is a message left through the contact form. It is never read back.
type ContactMessage struct {
	ID        int64
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}
