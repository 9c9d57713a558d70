package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/transfer-reservations/internal/config"
	"github.com/example/transfer-reservations/internal/domain/reservation"
)

func newSeatsCmd() *cobra.Command {
	var unitID, zoneID, date string

	c := &cobra.Command{
		Use:   "seats",
		Short: "Show the seat map for a unit on a date",
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

			status, err := apiClient(cfg, sess.Token).SeatStatus(ctx, unitID, date, zoneID)
			if err != nil {
				return err
			}
			m, err := reservation.NewSeatMap(status.TotalSeats, status.Paid, status.Pending)
			if err != nil {
				return err
			}

			fmt.Printf("unit %s on %s: %d seats, %d paid, %d pending\n\n",
				unitID, date, m.TotalSeats(), len(status.Paid), len(status.Pending))
			fmt.Print(renderSeatMap(m, nil))
			fmt.Println("\n[xx] paid   [::] pending   [label] free")
			return nil
		},
	}

	c.Flags().StringVar(&unitID, "unit", "", "vehicle unit id")
	c.Flags().StringVar(&zoneID, "zone", "", "zone id")
	c.Flags().StringVar(&date, "date", "", "reservation date (YYYY-MM-DD)")
	return c
}

// renderSeatMap draws the bus grid row by row. Selected seats (if any) are
// starred.
func renderSeatMap(m reservation.SeatMap, selected []int) string {
	sel := make(map[int]bool, len(selected))
	for _, n := range selected {
		sel[n] = true
	}

	var b strings.Builder
	for n := 1; n <= m.TotalSeats(); n++ {
		switch {
		case m.IsOccupied(n):
			b.WriteString("[ xx ]")
		case m.IsPending(n):
			b.WriteString("[ :: ]")
		case sel[n]:
			fmt.Fprintf(&b, "[*%3s]", reservation.SeatLabel(n))
		default:
			fmt.Fprintf(&b, "[%4s]", reservation.SeatLabel(n))
		}
		if n%reservation.SeatsPerRow == 0 {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
	}
	if m.TotalSeats()%reservation.SeatsPerRow != 0 {
		b.WriteByte('\n')
	}
	return b.String()
}
