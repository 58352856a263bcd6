package auth

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPassphraseRequired = errors.New("table passphrase required")
	ErrInvalidPassphrase  = errors.New("invalid table passphrase")
)

const PassphraseHeader = "X-Table-Passphrase"

// Gate guards the websocket upgrade with a shared table passphrase.
// A gate without a hash lets everyone in.
type Gate struct {
	hash []byte
}

// NewGate prefers a stored bcrypt hash; a plain passphrase is hashed once at startup.
func NewGate(plain, hash string) (*Gate, error) {
	hash = strings.TrimSpace(hash)
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, err
		}
		return &Gate{hash: []byte(hash)}, nil
	}
	if plain == "" {
		return &Gate{}, nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Gate{hash: h}, nil
}

func (g *Gate) Open() bool { return g == nil || len(g.hash) == 0 }

func (g *Gate) Check(passphrase string) error {
	if g.Open() {
		return nil
	}
	if passphrase == "" {
		return ErrPassphraseRequired
	}
	if bcrypt.CompareHashAndPassword(g.hash, []byte(passphrase)) != nil {
		return ErrInvalidPassphrase
	}
	return nil
}

// PassphraseFromRequest reads the header first, then the query string
// (browsers cannot set headers on a websocket handshake).
func PassphraseFromRequest(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(PassphraseHeader)); v != "" {
		return v
	}
	return strings.TrimSpace(r.URL.Query().Get("passphrase"))
}

// HashPassphrase is used by operators to produce table.passphrase_hash.
func HashPassphrase(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(h), err
}
