package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/transfer-reservations/internal/config"
	"github.com/example/transfer-reservations/internal/domain/reservation"
)

func newPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List your in-progress (unpaid) reservations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			sess, err := loadSession(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTPTimeout)
			defer cancel()

			pending, err := apiClient(cfg, sess.Token).PendingReservations(ctx, sess.UserID)
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Println("no pending reservations")
				return nil
			}
			for _, p := range pending {
				fmt.Printf("%-12s %s  zone=%s unit=%s  %s  pax=%d  seats=%s\n",
					p.Folio, p.ReservationDate, p.ZoneID, p.UnitID,
					p.ClientName, p.Adults+p.Children, seatLabels(p.SeatNumbers))
			}
			return nil
		},
	}
}

func newAvailabilityCmd() *cobra.Command {
	var unitID, zoneID, date string

	c := &cobra.Command{
		Use:   "availability",
		Short: "Show seats left for a unit on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			sess, err := loadSession(cfg)
			if err != nil {
				return err
			}
			if unitID == "" || zoneID == "" || date == "" {
				return fmt.Errorf("--unit, --zone and --date are required")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTPTimeout)
			defer cancel()

			av, err := apiClient(cfg, sess.Token).UnitAvailability(ctx, unitID, date, zoneID)
			if err != nil {
				return err
			}
			fmt.Printf("unit %s on %s: %d of %d seats available\n", unitID, date, av.AvailableSeats, av.TotalSeats)
			return nil
		},
	}

	c.Flags().StringVar(&unitID, "unit", "", "vehicle unit id")
	c.Flags().StringVar(&zoneID, "zone", "", "zone id")
	c.Flags().StringVar(&date, "date", "", "reservation date (YYYY-MM-DD)")
	return c
}

func seatLabels(seats []int) string {
	if len(seats) == 0 {
		return "-"
	}
	parts := make([]string, len(seats))
	for i, n := range seats {
		parts[i] = reservation.SeatLabel(n)
	}
	return strings.Join(parts, ",")
}
