// Package store provides the key-value backends behind domain.KeyValueStore.
package store

import (
	"fmt"
	"time"

	"github.com/easyseas/pointtracker/internal/domain"
)

// Backend names accepted by Open
const (
	TypeMemory = "memory"
	TypeSQLite = "sqlite"
)

// Open returns the backend selected by kind
func Open(kind, path string, ttl time.Duration) (domain.KeyValueStore, error) {
	switch kind {
	case TypeMemory:
		return NewMemoryStore(ttl), nil
	case TypeSQLite:
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", kind)
	}
}
