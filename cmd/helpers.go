package cmd

import (
	"fmt"

	"github.com/example/transfer-reservations/internal/authsession"
	"github.com/example/transfer-reservations/internal/config"
	"github.com/example/transfer-reservations/internal/transferapi"
)

func sessionStore(cfg config.Config) (*authsession.Store, error) {
	hashKey, blockKey := cfg.SessionHashKey, cfg.SessionBlockKey
	if len(hashKey) == 0 {
		pass := config.Passphrase()
		if pass == "" {
			return nil, fmt.Errorf("set SESSION_HASH_KEY/SESSION_BLOCK_KEY (see 'transferctl keys') or TRANSFER_PASSPHRASE")
		}
		var err error
		hashKey, blockKey, err = authsession.DeriveKeys(pass)
		if err != nil {
			return nil, err
		}
	}
	return authsession.NewStore(cfg.SessionFile, hashKey, blockKey), nil
}

// loadSession returns the persisted login state or an error telling the
// user to log in.
func loadSession(cfg config.Config) (authsession.Session, error) {
	store, err := sessionStore(cfg)
	if err != nil {
		return authsession.Session{}, err
	}
	sess, err := store.Load()
	if err != nil {
		return authsession.Session{}, fmt.Errorf("%w (run 'transferctl login')", err)
	}
	return sess, nil
}

func apiClient(cfg config.Config, token string) *transferapi.Client {
	return transferapi.New(cfg.APIBaseURL, token, cfg.HTTPTimeout)
}
