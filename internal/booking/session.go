package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/example/transfer-reservations/internal/domain/reservation"
)

// State of a reservation session. Transitions:
//
//	Initializing -> Ready -> Submitting -> Confirmed
//	                  ^          |
//	                  +----------+  (submission failure)
type State int

const (
	StateInitializing State = iota
	StateReady
	StateSubmitting
	StateConfirmed
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	case StateConfirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const exitReleaseNote = "seats released on exit"

// Session drives one reservation attempt from seat-status fetch through
// confirmation or teardown. It owns the draft's SelectionState and the
// latest SeatMap snapshot; both are replaced, never shared mutably, so a
// single mutex around state changes is all the locking there is. Network
// calls never run with the lock held.
type Session struct {
	id string
	gw reservation.Gateway

	mu         sync.Mutex
	state      State
	draft      reservation.Draft
	seatMap    reservation.SeatMap
	selection  reservation.Selection
	agencyName string
	userName   string
	fetching   bool
	closed     bool

	namesOnce sync.Once
	names     sync.WaitGroup
	submits   sync.WaitGroup
}

func NewSession(gw reservation.Gateway, draft reservation.Draft) (*Session, error) {
	if gw == nil {
		return nil, fmt.Errorf("gateway is nil")
	}
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("draft: %w", err)
	}
	if draft.Status == "" {
		draft.Status = reservation.StatusPending
	}
	return &Session{
		id:        uuid.NewString(),
		gw:        gw,
		state:     StateInitializing,
		draft:     draft,
		selection: reservation.NewSelection(draft.Pax()),
	}, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Draft() reservation.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

func (s *Session) SeatMap() reservation.SeatMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seatMap
}

// SelectedSeats returns the current selection in pick order.
func (s *Session) SelectedSeats() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.selection.Seats...)
}

func (s *Session) AgencyName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agencyName
}

func (s *Session) UserName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userName
}

// Start performs the single-shot initialization: the seat-status fetch that
// gates the Ready transition, plus display-name lookups that run on the side
// and never block it. A Start while one is already in flight is ignored; a
// failed Start leaves the session in Initializing for the caller to retry.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("session closed")
	}
	if s.state != StateInitializing {
		s.mu.Unlock()
		return nil
	}
	if s.fetching {
		s.mu.Unlock()
		log.Printf("booking: session %s: start ignored, fetch already in flight", s.id)
		return nil
	}
	s.fetching = true
	s.mu.Unlock()

	s.namesOnce.Do(func() { s.fetchNames(ctx) })

	status, err := s.gw.SeatStatus(ctx, s.draft.UnitID, s.draft.ReservationDate, s.draft.ZoneID)
	if err == nil {
		var m reservation.SeatMap
		m, err = reservation.NewSeatMap(status.TotalSeats, status.Paid, status.Pending)
		if err == nil {
			s.mu.Lock()
			s.fetching = false
			if !s.closed {
				s.seatMap = m
				s.state = StateReady
			}
			s.mu.Unlock()
			return nil
		}
	}

	s.mu.Lock()
	s.fetching = false
	s.mu.Unlock()
	return &FetchError{Op: "seat status", Err: err}
}

func (s *Session) fetchNames(ctx context.Context) {
	s.names.Add(2)
	go func() {
		defer s.names.Done()
		name, err := s.gw.AgencyName(ctx, s.draft.AgencyID)
		if err != nil {
			log.Printf("booking: session %s: agency name lookup failed: %v", s.id, err)
			return
		}
		s.mu.Lock()
		s.agencyName = name
		s.mu.Unlock()
	}()
	go func() {
		defer s.names.Done()
		name, err := s.gw.UserName(ctx, s.draft.UserID)
		if err != nil {
			log.Printf("booking: session %s: user name lookup failed: %v", s.id, err)
			return
		}
		s.mu.Lock()
		s.userName = name
		s.mu.Unlock()
	}()
}

// Toggle flips seat n in the selection, subject to the occupancy and
// capacity rules. It reports whether the selection changed; a blocked add is
// a normal no-op.
func (s *Session) Toggle(n int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return false
	}
	next := reservation.Toggle(n, s.seatMap, s.selection)
	changed := len(next.Seats) != len(s.selection.Seats)
	s.selection = next
	return changed
}

// Refresh replaces the seat-map snapshot and drops any selected seat the new
// snapshot reports taken. Callers must refresh after a submission error that
// says a seat became unavailable; the server's view is authoritative.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateReady {
		st := s.state
		s.mu.Unlock()
		return fmt.Errorf("refresh in state %s", st)
	}
	s.mu.Unlock()

	status, err := s.gw.SeatStatus(ctx, s.draft.UnitID, s.draft.ReservationDate, s.draft.ZoneID)
	if err != nil {
		return &FetchError{Op: "seat status", Err: err}
	}
	m, err := reservation.NewSeatMap(status.TotalSeats, status.Paid, status.Pending)
	if err != nil {
		return &FetchError{Op: "seat status", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateReady {
		// snapshot arrived too late to matter
		return nil
	}
	s.seatMap = m
	var kept []int
	for _, n := range s.selection.Seats {
		if m.IsFree(n) {
			kept = append(kept, n)
		}
	}
	s.selection = reservation.Selection{Seats: kept, Max: s.selection.Max}
	return nil
}

// Submit sends the draft with the current selection and the proposed status.
// It requires a full selection (ValidationError otherwise, with no network
// call). Submitting acts as a mutex: a submit that arrives while one is in
// flight is a logged no-op. On failure the session returns to Ready with the
// selection intact. A successful "paid" submission with a folio confirms the
// session and freezes it.
func (s *Session) Submit(ctx context.Context, status string) error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return fmt.Errorf("session closed")
	case s.state == StateConfirmed:
		s.mu.Unlock()
		return fmt.Errorf("reservation already confirmed")
	case s.state == StateSubmitting:
		s.mu.Unlock()
		log.Printf("booking: session %s: submit ignored, one already in flight", s.id)
		return nil
	case s.state != StateReady:
		st := s.state
		s.mu.Unlock()
		return fmt.Errorf("submit in state %s", st)
	}
	if !s.selection.Full() {
		verr := &ValidationError{Required: s.selection.Max, Selected: len(s.selection.Seats)}
		s.mu.Unlock()
		return verr
	}
	req := reservation.UpdateRequest{
		Draft:       s.draft,
		SeatNumbers: append([]int(nil), s.selection.Seats...),
		Status:      status,
	}
	s.state = StateSubmitting
	s.submits.Add(1)
	s.mu.Unlock()

	folio, err := s.gw.UpdateReservation(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.submits.Done()
	if s.state == StateSubmitting {
		s.state = StateReady
	}
	if err != nil {
		return submissionError(err)
	}
	if status == reservation.StatusPaid {
		if folio == "" {
			return &SubmissionError{Message: "backend confirmed without a folio"}
		}
		s.draft.Folio = folio
		s.draft.Status = reservation.StatusPaid
		s.state = StateConfirmed
		s.selection = reservation.NewSelection(s.selection.Max)
		return nil
	}
	// intermediate hold: keep editing, remember the folio if this created one
	if s.draft.Folio == "" && folio != "" {
		s.draft.Folio = folio
	}
	return nil
}

func submissionError(err error) *SubmissionError {
	var remote *reservation.RemoteError
	if errors.As(err, &remote) {
		return &SubmissionError{Message: remote.Message, Err: err}
	}
	return &SubmissionError{Err: err}
}

// Close tears the session down. The first call wins; it joins any in-flight
// submit and the name lookups before deciding, then issues one best-effort
// release of the draft's held seats (empty seat list) unless the reservation
// confirmed or the backend never issued a folio. The release's failure is
// logged, never surfaced.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.submits.Wait()
	s.names.Wait()

	s.mu.Lock()
	confirmed := s.state == StateConfirmed
	req := reservation.UpdateRequest{
		Draft:        s.draft,
		SeatNumbers:  []int{},
		Status:       reservation.StatusPending,
		Observations: exitReleaseNote,
	}
	s.selection = reservation.NewSelection(s.selection.Max)
	s.mu.Unlock()

	if confirmed || req.Draft.Folio == "" {
		// nothing held server-side, or the hold became a confirmed booking
		return
	}
	if _, err := s.gw.UpdateReservation(ctx, req); err != nil {
		log.Printf("booking: session %s: %v", s.id, &CleanupError{Err: err})
	}
}

// Detach closes the session without releasing its seats, for flows that
// placed a pending hold meant to outlive the session.
func (s *Session) Detach() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.submits.Wait()
	s.names.Wait()
}
