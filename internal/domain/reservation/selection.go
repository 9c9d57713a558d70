package reservation

// Selection is the user's tentative seat choice for one draft. Seats keeps
// insertion order because labels are displayed in the order they were
// picked. Max is fixed for the life of the flow (adults + children).
type Selection struct {
	Seats []int
	Max   int
}

func NewSelection(max int) Selection {
	return Selection{Max: max}
}

func (s Selection) Contains(n int) bool {
	for _, seat := range s.Seats {
		if seat == n {
			return true
		}
	}
	return false
}

// Full reports whether the selection holds exactly the seat count the draft
// requires.
func (s Selection) Full() bool { return len(s.Seats) == s.Max }

// Toggle flips seat n's membership in the selection. Removing an already
// selected seat always succeeds. Adding requires the seat to be free on the
// map and the selection to have capacity; a blocked add returns the
// selection unchanged rather than an error, since it is a normal rejection
// of a tap, not a fault.
func Toggle(n int, m SeatMap, sel Selection) Selection {
	for i, seat := range sel.Seats {
		if seat != n {
			continue
		}
		out := make([]int, 0, len(sel.Seats)-1)
		out = append(out, sel.Seats[:i]...)
		out = append(out, sel.Seats[i+1:]...)
		return Selection{Seats: out, Max: sel.Max}
	}
	if len(sel.Seats) >= sel.Max || !m.IsFree(n) {
		return sel
	}
	out := make([]int, 0, len(sel.Seats)+1)
	out = append(out, sel.Seats...)
	out = append(out, n)
	return Selection{Seats: out, Max: sel.Max}
}
