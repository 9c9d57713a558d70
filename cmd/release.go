package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/transfer-reservations/internal/booking"
	"github.com/example/transfer-reservations/internal/config"
	"github.com/example/transfer-reservations/internal/domain/reservation"
)

func newReleaseCmd() *cobra.Command {
	var zoneID, unitID, date string

	c := &cobra.Command{
		Use:   "release",
		Short: "Release the seats held by your pending reservation for a unit/date",
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

			client := apiClient(cfg, sess.Token)
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTPTimeout)
			defer cancel()

			pending, err := client.PendingReservations(ctx, sess.UserID)
			if err != nil {
				return err
			}
			draft := booking.HydrateDraft(reservation.Draft{
				UserID:          sess.UserID,
				ZoneID:          zoneID,
				UnitID:          unitID,
				ReservationDate: date,
			}, pending)
			if draft.Folio == "" {
				return fmt.Errorf("no pending reservation for unit %s on %s", unitID, date)
			}

			_, err = client.UpdateReservation(ctx, reservation.UpdateRequest{
				Draft:        draft,
				SeatNumbers:  []int{},
				Status:       reservation.StatusPending,
				Observations: "seats released by agent",
			})
			if err != nil {
				return err
			}
			fmt.Printf("released seats held under folio %s\n", draft.Folio)
			return nil
		},
	}

	c.Flags().StringVar(&zoneID, "zone", "", "zone id")
	c.Flags().StringVar(&unitID, "unit", "", "vehicle unit id")
	c.Flags().StringVar(&date, "date", "", "reservation date (YYYY-MM-DD)")
	return c
}
