package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/transfer-reservations/internal/authsession"
	"github.com/example/transfer-reservations/internal/config"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	c := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the backend and persist the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			store, err := sessionStore(cfg)
			if err != nil {
				return err
			}
			if password == "" {
				password = strings.TrimSpace(os.Getenv("TRANSFER_PASSWORD"))
			}
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password (or TRANSFER_PASSWORD) are required")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTPTimeout)
			defer cancel()

			res, err := apiClient(cfg, "").Login(ctx, email, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			userID := res.User.ID
			if userID == "" {
				if userID, err = authsession.UserIDFromToken(res.Token); err != nil {
					return fmt.Errorf("login response carried no user id: %w", err)
				}
			}

			sess := authsession.Session{
				Token:    res.Token,
				UserID:   userID,
				UserName: res.User.Name,
			}

			// the rep's agency is needed later to open reservation drafts
			if info, err := apiClient(cfg, res.Token).UserInfo(ctx, userID); err == nil {
				sess.AgencyID = info.AgencyID
				if sess.UserName == "" {
					sess.UserName = info.Name
				}
			} else {
				log.Printf("login: agency lookup failed: %v", err)
			}

			if err := store.Save(sess); err != nil {
				return err
			}
			fmt.Printf("logged in as %s (%s)\n", sess.UserName, sess.UserID)
			return nil
		},
	}

	c.Flags().StringVar(&email, "email", "", "account email")
	c.Flags().StringVar(&password, "password", "", "account password (or TRANSFER_PASSWORD)")
	return c
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the locally persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			store, err := sessionStore(cfg)
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Println("logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			sess, err := loadSession(cfg)
			if err != nil {
				return err
			}
			fmt.Printf("user:   %s (%s)\n", sess.UserName, sess.UserID)
			if sess.AgencyID != "" {
				fmt.Printf("agency: %s\n", sess.AgencyID)
			}
			fmt.Printf("since:  %s\n", sess.SavedAt.Format("2006-01-02 15:04 MST"))
			return nil
		},
	}
}
