// Package authsession keeps the authenticated user's token and identity
// between CLI runs. The file on disk is sealed with securecookie, so a
// corrupted or tampered file reads as "not logged in" rather than as
// somebody's credentials.
package authsession

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/securecookie"
)

const sealName = "transfer_session"

var ErrNoSession = errors.New("not logged in")

// Session is the persisted local state: the backend token plus the identity
// fields the client needs to open a reservation flow.
type Session struct {
	Token    string
	UserID   string
	UserName string
	AgencyID string
	SavedAt  time.Time
}

type Store struct {
	path string
	sc   *securecookie.SecureCookie
}

func NewStore(path string, hashKey, blockKey []byte) *Store {
	sc := securecookie.New(hashKey, blockKey)
	// the file does not expire on its own; the backend decides token validity
	sc.MaxAge(0)
	return &Store{path: path, sc: sc}
}

func (s *Store) Save(sess Session) error {
	if sess.Token == "" || sess.UserID == "" {
		return fmt.Errorf("session needs token and user id")
	}
	sess.SavedAt = time.Now().UTC()
	encoded, err := s.sc.Encode(sealName, sess)
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, []byte(encoded), 0o600)
}

func (s *Store) Load() (Session, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, ErrNoSession
		}
		return Session{}, err
	}
	var sess Session
	if err := s.sc.Decode(sealName, string(raw), &sess); err != nil {
		return Session{}, fmt.Errorf("%w: session file unreadable: %v", ErrNoSession, err)
	}
	return sess, nil
}

func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
