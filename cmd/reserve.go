package cmd

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/transfer-reservations/internal/booking"
	"github.com/example/transfer-reservations/internal/config"
	"github.com/example/transfer-reservations/internal/db"
	"github.com/example/transfer-reservations/internal/domain/reservation"
	"github.com/example/transfer-reservations/internal/history"
	"github.com/example/transfer-reservations/internal/migrate"
)

func newReserveCmd() *cobra.Command {
	var (
		zoneID, agencyID, hotelID, unitID, storeID string
		pickupTime, date, clientName               string
		adults, children                           int
		seatsFlag                                  string
		hold                                       bool
	)

	c := &cobra.Command{
		Use:   "reserve",
		Short: "Pick seats on a unit and confirm the reservation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			sess, err := loadSession(cfg)
			if err != nil {
				return err
			}
			seats, err := parseSeatList(seatsFlag)
			if err != nil {
				return err
			}
			if agencyID == "" {
				agencyID = sess.AgencyID
			}

			draft := reservation.Draft{
				UserID:          sess.UserID,
				ZoneID:          zoneID,
				AgencyID:        agencyID,
				HotelID:         hotelID,
				UnitID:          unitID,
				StoreID:         storeID,
				PickupTime:      pickupTime,
				ReservationDate: date,
				ClientName:      clientName,
				Adults:          adults,
				Children:        children,
			}

			client := apiClient(cfg, sess.Token)
			ctx := cmd.Context()

			// resume an existing unpaid reservation for this unit/date/zone
			// when there is one; otherwise register a fresh draft for a folio
			pending, err := client.PendingReservations(ctx, sess.UserID)
			if err != nil {
				log.Printf("reserve: pending-reservation lookup failed, starting fresh: %v", err)
			}
			draft = booking.HydrateDraft(draft, pending)
			if draft.Folio == "" {
				folio, rerr := client.RegisterReservation(ctx, reservation.UpdateRequest{
					Draft:  draft,
					Status: reservation.StatusPending,
				})
				if rerr != nil {
					return fmt.Errorf("register reservation: %w", rerr)
				}
				draft.Folio = folio
			}

			session, err := booking.NewSession(client, draft)
			if err != nil {
				return err
			}
			// release tentative holds if we bail out before confirming; the
			// fresh context keeps the release alive past a cancelled ctx
			defer session.Close(context.WithoutCancel(ctx))

			if err := session.Start(ctx); err != nil {
				return err
			}

			for _, n := range seats {
				if !session.Toggle(n) {
					fmt.Printf("seat %d (%s) is unavailable, skipped\n", n, reservation.SeatLabel(n))
				}
			}
			selected := session.SelectedSeats()
			fmt.Print(renderSeatMap(session.SeatMap(), selected))

			status := reservation.StatusPaid
			if hold {
				status = reservation.StatusPending
			}
			if err := session.Submit(ctx, status); err != nil {
				if booking.IsValidation(err) {
					return fmt.Errorf("%v; pick seats with --seats (currently %s)", err, seatLabels(session.SelectedSeats()))
				}
				return err
			}

			confirmed := session.Draft()
			if hold {
				// the hold must outlive this invocation: detach so the
				// deferred Close does not release the seats just held
				session.Detach()
				fmt.Printf("seats held under folio %s; run again without --hold to confirm\n", confirmed.Folio)
				return nil
			}

			printTicket(session)
			fmt.Printf("  seats:   %s\n", seatLabels(selected))
			recordHistory(ctx, cfg, confirmed, selected)
			return nil
		},
	}

	c.Flags().StringVar(&zoneID, "zone", "", "zone id")
	c.Flags().StringVar(&agencyID, "agency", "", "agency id (defaults to your agency)")
	c.Flags().StringVar(&hotelID, "hotel", "", "pickup hotel id")
	c.Flags().StringVar(&unitID, "unit", "", "vehicle unit id")
	c.Flags().StringVar(&storeID, "store", "", "store id")
	c.Flags().StringVar(&pickupTime, "pickup", "", "pickup time (HH:MM)")
	c.Flags().StringVar(&date, "date", "", "reservation date (YYYY-MM-DD)")
	c.Flags().StringVar(&clientName, "client", "", "client display name")
	c.Flags().IntVar(&adults, "adults", 0, "adult passengers")
	c.Flags().IntVar(&children, "children", 0, "child passengers")
	c.Flags().StringVar(&seatsFlag, "seats", "", "seat numbers, comma separated (e.g. 4,5)")
	c.Flags().BoolVar(&hold, "hold", false, "hold the seats as pending instead of confirming")
	return c
}

func parseSeatList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid seat number %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}

func printTicket(s *booking.Session) {
	d := s.Draft()
	fmt.Println("reservation confirmed")
	fmt.Printf("  folio:   %s\n", d.Folio)
	fmt.Printf("  client:  %s\n", d.ClientName)
	if name := s.AgencyName(); name != "" {
		fmt.Printf("  agency:  %s\n", name)
	}
	if name := s.UserName(); name != "" {
		fmt.Printf("  rep:     %s\n", name)
	}
	fmt.Printf("  date:    %s  pickup %s\n", d.ReservationDate, d.PickupTime)
	fmt.Printf("  pax:     %d adults, %d children\n", d.Adults, d.Children)
}

// recordHistory appends the confirmation to the office ledger when one is
// configured. Never fatal; the reservation is already confirmed server-side.
func recordHistory(ctx context.Context, cfg config.Config, d reservation.Draft, seats []int) {
	if cfg.DatabaseURL == "" {
		return
	}
	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("history: open ledger: %v", err)
		return
	}
	defer pool.Close()
	if err := migrate.Up(ctx, pool); err != nil {
		log.Printf("history: migrate: %v", err)
		return
	}
	if _, err := history.NewRepo(pool).Record(ctx, history.FromDraft(d, seats)); err != nil {
		log.Printf("history: record folio %s: %v", d.Folio, err)
	}
}
