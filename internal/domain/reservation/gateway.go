package reservation

import (
	"context"
	"fmt"
)

// SeatStatus is the backend's occupancy snapshot for one unit on one date in
// one zone.
type SeatStatus struct {
	TotalSeats      int
	Paid            []int
	Pending         []int
	UnitID          string
	PickupTime      string
	ReservationDate string
}

// UpdateRequest carries a full draft plus the chosen seats and the proposed
// status ("pending" for an intermediate hold, "paid" for final
// confirmation). An empty SeatNumbers releases the draft's held seats.
type UpdateRequest struct {
	Draft        Draft
	SeatNumbers  []int
	Status       string
	Observations string
}

// Gateway is the port to the remote reservation backend. It is stateless
// shared infrastructure; all ownership of drafts stays with the caller.
type Gateway interface {
	SeatStatus(ctx context.Context, unitID, reservationDate, zoneID string) (SeatStatus, error)
	RegisterReservation(ctx context.Context, req UpdateRequest) (folio string, err error)
	UpdateReservation(ctx context.Context, req UpdateRequest) (folio string, err error)
	PendingReservations(ctx context.Context, userID string) ([]Pending, error)
	AgencyName(ctx context.Context, agencyID string) (string, error)
	UserName(ctx context.Context, userID string) (string, error)
}

// RemoteError is a request the backend explicitly rejected. Message holds
// the server-provided text verbatim so callers can surface it unchanged.
type RemoteError struct {
	Message    string
	StatusCode int
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend rejected request (status=%d)", e.StatusCode)
}
