package booking

import "github.com/example/transfer-reservations/internal/domain/reservation"

// HydrateDraft resumes a previously started reservation: the first pending
// entry matching the draft's zone, date and unit contributes its folio and
// passenger details. Anything else in the list belongs to another flow and
// is ignored.
func HydrateDraft(d reservation.Draft, pending []reservation.Pending) reservation.Draft {
	for _, p := range pending {
		if p.ZoneID != d.ZoneID || p.ReservationDate != d.ReservationDate || p.UnitID != d.UnitID {
			continue
		}
		d.Folio = p.Folio
		d.Status = reservation.StatusPending
		if p.ClientName != "" {
			d.ClientName = p.ClientName
		}
		if p.Adults+p.Children > 0 {
			d.Adults = p.Adults
			d.Children = p.Children
		}
		if p.HotelID != "" {
			d.HotelID = p.HotelID
		}
		if p.StoreID != "" {
			d.StoreID = p.StoreID
		}
		if p.PickupTime != "" {
			d.PickupTime = p.PickupTime
		}
		break
	}
	return d
}
