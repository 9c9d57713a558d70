package authsession

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/scrypt"
)

// UserIDFromToken reads the backend user id from the JWT's nameid claim.
// The signature is deliberately not verified: the backend is the token's
// audience, the client only needs the id the login response sometimes omits.
func UserIDFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	id, _ := claims["nameid"].(string)
	if id == "" {
		return "", fmt.Errorf("token carries no nameid claim")
	}
	return id, nil
}

// deriveSalt is fixed so the session file stays readable across machines
// sharing the same passphrase.
const deriveSalt = "transferctl/session/v1"

// DeriveKeys stretches a passphrase into the hash and block keys that seal
// the session file, for setups that do not configure explicit keys.
func DeriveKeys(passphrase string) (hashKey, blockKey []byte, err error) {
	if passphrase == "" {
		return nil, nil, fmt.Errorf("empty passphrase")
	}
	buf, err := scrypt.Key([]byte(passphrase), []byte(deriveSalt), 1<<15, 8, 1, 64)
	if err != nil {
		return nil, nil, err
	}
	return buf[:32], buf[32:], nil
}
