// Package history is the agency-side audit ledger: confirmed reservations
// get one row each in the office's Postgres. It sits off the reservation
// critical path; a missing DATABASE_URL simply disables it.
package history

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/example/transfer-reservations/internal/db"
	"github.com/example/transfer-reservations/internal/domain/reservation"
)

type Entry struct {
	ID              int64
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
	RecordedAt      time.Time
}

// FromDraft builds the ledger entry for a confirmed draft.
func FromDraft(d reservation.Draft, seats []int) Entry {
	return Entry{
		Folio:           d.Folio,
		UserID:          d.UserID,
		ZoneID:          d.ZoneID,
		AgencyID:        d.AgencyID,
		HotelID:         d.HotelID,
		UnitID:          d.UnitID,
		StoreID:         d.StoreID,
		PickupTime:      d.PickupTime,
		ReservationDate: d.ReservationDate,
		ClientName:      d.ClientName,
		SeatNumbers:     append([]int(nil), seats...),
		Adults:          d.Adults,
		Children:        d.Children,
		Status:          d.Status,
	}
}

type Repo struct{ db *db.DB }

func NewRepo(d *db.DB) *Repo { return &Repo{db: d} }

func (r *Repo) Record(ctx context.Context, e Entry) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
INSERT INTO reservation_log(folio,user_id,zone_id,agency_id,hotel_id,unit_id,store_id,pickup_time,reservation_date,client_name,seat_numbers,adults,children,status)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
RETURNING id`,
		e.Folio, e.UserID, e.ZoneID, e.AgencyID, e.HotelID, e.UnitID, e.StoreID,
		e.PickupTime, e.ReservationDate, e.ClientName, joinSeats(e.SeatNumbers),
		e.Adults, e.Children, e.Status,
	).Scan(&id)
	if err != nil {
		return 0, db.WrapNotFound(err)
	}
	return id, nil
}

func (r *Repo) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit < 1 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
SELECT id,folio,user_id,zone_id,agency_id,hotel_id,unit_id,store_id,pickup_time,reservation_date,client_name,seat_numbers,adults,children,status,recorded_at
FROM reservation_log
ORDER BY recorded_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) FindByFolio(ctx context.Context, folio string) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `
SELECT id,folio,user_id,zone_id,agency_id,hotel_id,unit_id,store_id,pickup_time,reservation_date,client_name,seat_numbers,adults,children,status,recorded_at
FROM reservation_log
WHERE folio=$1
ORDER BY recorded_at DESC`, folio)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEntry(row db.Row) (Entry, error) {
	var e Entry
	var seats string
	if err := row.Scan(
		&e.ID, &e.Folio, &e.UserID, &e.ZoneID, &e.AgencyID, &e.HotelID, &e.UnitID,
		&e.StoreID, &e.PickupTime, &e.ReservationDate, &e.ClientName, &seats,
		&e.Adults, &e.Children, &e.Status, &e.RecordedAt,
	); err != nil {
		return Entry{}, err
	}
	e.SeatNumbers = parseSeats(seats)
	return e, nil
}

func joinSeats(seats []int) string {
	if len(seats) == 0 {
		return ""
	}
	parts := make([]string, len(seats))
	for i, n := range seats {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func parseSeats(s string) []int {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []int
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
