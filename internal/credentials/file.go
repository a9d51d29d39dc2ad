package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Stored is what login leaves on disk.
type Stored struct {
	Token   string    `toml:"token"`
	Email   string    `toml:"email,omitempty"`
	SavedAt time.Time `toml:"saved_at"`
}

// File keeps the token in a TOML file next to the config.
type File struct {
	Path string
}

func DefaultFile(configDir string) File {
	return File{Path: filepath.Join(configDir, "credentials.toml")}
}

// Token returns the stored token, or "" when nobody is logged in.
func (f File) Token() (string, error) {
	s, err := f.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return s.Token, nil
}

func (f File) Load() (*Stored, error) {
	var s Stored
	if _, err := toml.DecodeFile(f.Path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (f File) Save(s Stored) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("Failed to create credentials directory: %w", err)
	}

	// The token is a secret, so the file is owner-only.
	out, err := os.OpenFile(f.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("Failed to create credentials file: %w", err)
	}
	defer out.Close()

	if err := toml.NewEncoder(out).Encode(s); err != nil {
		return fmt.Errorf("Failed to write credentials: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing when nothing is stored is fine.
func (f File) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (f File) Exists() bool {
	_, err := os.Stat(f.Path)
	return err == nil
}
