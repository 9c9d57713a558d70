package reservation

import (
	"errors"
	"fmt"
	"strconv"
)

// SeatsPerRow fixes the row-major seat geometry. Seat numbers are 1-based
// and row-major; they are the canonical identity for set membership and for
// everything sent over the wire. Labels exist only for display.
const SeatsPerRow = 4

var ErrInvalidSeatMap = errors.New("invalid seat map")

// SeatMap is an immutable snapshot of a unit's seat occupancy as reported by
// the backend. A refresh replaces the whole snapshot; there are no mutators.
type SeatMap struct {
	totalSeats int
	paid       map[int]struct{}
	pending    map[int]struct{}
}

// NewSeatMap validates the server-reported partition: seat numbers must lie
// in [1, totalSeats] and the paid and pending sets must be disjoint.
func NewSeatMap(totalSeats int, paid, pending []int) (SeatMap, error) {
	if totalSeats < 0 {
		return SeatMap{}, fmt.Errorf("%w: negative total seats (%d)", ErrInvalidSeatMap, totalSeats)
	}
	m := SeatMap{
		totalSeats: totalSeats,
		paid:       make(map[int]struct{}, len(paid)),
		pending:    make(map[int]struct{}, len(pending)),
	}
	for _, n := range paid {
		if n < 1 || n > totalSeats {
			return SeatMap{}, fmt.Errorf("%w: paid seat %d out of range [1,%d]", ErrInvalidSeatMap, n, totalSeats)
		}
		m.paid[n] = struct{}{}
	}
	for _, n := range pending {
		if n < 1 || n > totalSeats {
			return SeatMap{}, fmt.Errorf("%w: pending seat %d out of range [1,%d]", ErrInvalidSeatMap, n, totalSeats)
		}
		if _, taken := m.paid[n]; taken {
			return SeatMap{}, fmt.Errorf("%w: seat %d is both paid and pending", ErrInvalidSeatMap, n)
		}
		m.pending[n] = struct{}{}
	}
	return m, nil
}

func (m SeatMap) TotalSeats() int { return m.totalSeats }

func (m SeatMap) IsOccupied(n int) bool {
	_, ok := m.paid[n]
	return ok
}

func (m SeatMap) IsPending(n int) bool {
	_, ok := m.pending[n]
	return ok
}

// IsFree reports whether n is a valid seat number that is neither paid nor
// held by another in-progress reservation.
func (m SeatMap) IsFree(n int) bool {
	if n < 1 || n > m.totalSeats {
		return false
	}
	return !m.IsOccupied(n) && !m.IsPending(n)
}

// Rows is the number of seat rows, counting a trailing partial row.
func (m SeatMap) Rows() int {
	return (m.totalSeats + SeatsPerRow - 1) / SeatsPerRow
}

// SeatLabel renders the display label for a seat number: row letter plus
// column index within the row, e.g. 1 -> "A1", 5 -> "B1".
func SeatLabel(n int) string {
	if n < 1 {
		return ""
	}
	row := (n - 1) / SeatsPerRow
	col := (n-1)%SeatsPerRow + 1
	return rowLetters(row) + strconv.Itoa(col)
}

func rowLetters(row int) string {
	// spreadsheet-style: A..Z, then AA..
	s := ""
	for {
		s = string(rune('A'+row%26)) + s
		row = row/26 - 1
		if row < 0 {
			return s
		}
	}
}
