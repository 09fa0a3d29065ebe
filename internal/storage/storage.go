// Package storage defines the key/value contract shared by the persistence backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	// ErrKeyNotFound indicates no value is stored under the key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrInvalidKey indicates the key contains characters a backend cannot store.
	ErrInvalidKey = errors.New("invalid key")
)

// KV stores opaque values under short string keys.
type KV interface {
	// Get returns the value for key, or an error wrapping ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Entry describes one stored key.
type Entry struct {
	Key     string
	Size    int64
	Updated time.Time
}

// Bucket is a KV that can also enumerate its keys.
type Bucket interface {
	KV

	// List returns the entries whose key starts with prefix, in key order.
	List(ctx context.Context, prefix string) ([]Entry, error)
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateKey checks that key is safe to use as a file or object name.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
