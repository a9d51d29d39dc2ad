// Package credentials supplies the bearer token for API calls and keeps the
// one obtained at login on disk.
package credentials

import (
	"os"
	"strings"
)

const EnvToken = "COREFIT_TOKEN"

// Static always returns the same token.
type Static string

func (s Static) Token() (string, error) { return strings.TrimSpace(string(s)), nil }

// Env reads the token from an environment variable (EnvToken when Key is
// empty).
type Env struct {
	Key string
}

func (e Env) Token() (string, error) {
	key := e.Key
	if key == "" {
		key = EnvToken
	}
	return strings.TrimSpace(os.Getenv(key)), nil
}

type Source interface {
	Token() (string, error)
}

// Chain asks each source in turn and returns the first non-empty token.
type Chain []Source

func (c Chain) Token() (string, error) {
	for _, s := range c {
		tok, err := s.Token()
		if err != nil {
			return "", err
		}
		if tok != "" {
			return tok, nil
		}
	}
	return "", nil
}
