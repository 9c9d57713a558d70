package reservation

import "fmt"

// Reservation statuses the backend accepts. The client only proposes
// transitions; the server is authoritative.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// Draft is a reservation in progress. The identifying context is fixed for
// the life of a seat-selection flow; Folio stays empty until the backend
// issues one and is immutable afterwards.
type Draft struct {
	UserID          string
	ZoneID          string
	AgencyID        string
	HotelID         string
	UnitID          string
	StoreID         string
	PickupTime      string
	ReservationDate string // YYYY-MM-DD

	ClientName string
	Adults     int
	Children   int

	Folio  string
	Status string
}

// Pax is the total passenger count, and therefore the number of seats the
// draft must end up holding.
func (d Draft) Pax() int { return d.Adults + d.Children }

func (d Draft) Validate() error {
	if d.UserID == "" {
		return fmt.Errorf("user id required")
	}
	if d.ZoneID == "" {
		return fmt.Errorf("zone id required")
	}
	if d.UnitID == "" {
		return fmt.Errorf("unit id required")
	}
	if d.ReservationDate == "" {
		return fmt.Errorf("reservation date required")
	}
	if d.Adults < 0 || d.Children < 0 {
		return fmt.Errorf("adults and children must be >= 0")
	}
	if d.Pax() < 1 {
		return fmt.Errorf("at least one passenger required")
	}
	return nil
}

// Pending is a previously started, not-yet-paid reservation the user can
// resume.
type Pending struct {
	Folio           string
	UserID          string
	ZoneID          string
	AgencyID        string
	HotelID         string
	UnitID          string
	StoreID         string
	PickupTime      string
	ReservationDate string
	ClientName      string
	SeatNumbers     []int
	Adults          int
	Children        int
	Status          string
}
