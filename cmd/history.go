package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/transfer-reservations/internal/config"
	"github.com/example/transfer-reservations/internal/db"
	"github.com/example/transfer-reservations/internal/history"
	"github.com/example/transfer-reservations/internal/migrate"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	var folio string

	c := &cobra.Command{
		Use:   "history",
		Short: "List confirmed reservations recorded in the office ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is not set; the ledger is disabled")
			}

			ctx := cmd.Context()
			pool, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := migrate.Up(ctx, pool); err != nil {
				return err
			}

			repo := history.NewRepo(pool)
			var entries []history.Entry
			if folio != "" {
				entries, err = repo.FindByFolio(ctx, folio)
			} else {
				entries, err = repo.List(ctx, limit)
			}
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("no recorded reservations")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%s  %-12s %s  unit=%s  %s  seats=%s  %s\n",
					e.RecordedAt.Format("2006-01-02 15:04"), e.Folio, e.ReservationDate,
					e.UnitID, e.ClientName, seatLabels(e.SeatNumbers), e.Status)
			}
			return nil
		},
	}

	c.Flags().IntVar(&limit, "limit", 50, "max entries to list")
	c.Flags().StringVar(&folio, "folio", "", "filter by folio")
	return c
}
