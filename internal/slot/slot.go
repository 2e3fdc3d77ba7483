// Package slot is the local key-value persistence used by the item stores.
// Each store variant keeps its whole collection under one key, the way a
// browser app keeps state in a localStorage entry.
package slot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Slot stores opaque values by key.
type Slot interface {
	// Get returns ok=false when the key has never been written.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Remove(key string) error
	Close() error
}

// Backend names a Slot implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// Backends lists the accepted backend names.
func Backends() []Backend {
	return []Backend{BackendFile, BackendSQLite, BackendMemory}
}

// ParseBackend resolves a backend name, suggesting the closest known name on
// a typo.
func ParseBackend(name string) (Backend, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, b := range Backends() {
		if string(b) == n {
			return b, nil
		}
	}
	if s := closest(n); s != "" {
		return "", fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownBackend, name, s)
	}
	return "", fmt.Errorf("%w %q", ErrUnknownBackend, name)
}

func closest(name string) string {
	best, bestDist := "", 3
	for _, b := range Backends() {
		if d := levenshtein.ComputeDistance(name, string(b)); d < bestDist {
			best, bestDist = string(b), d
		}
	}
	return best
}

// Open opens the named backend. An empty path falls back to a file in the
// working directory.
func Open(backend Backend, path string) (Slot, error) {
	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		if path == "" {
			p, err := defaultPath(defaultFileName)
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewFile(path), nil
	case BackendSQLite:
		if path == "" {
			p, err := defaultPath(defaultDBName)
			if err != nil {
				return nil, err
			}
			path = p
		}
		return OpenSQLite(path)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownBackend, string(backend))
}
