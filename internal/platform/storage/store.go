// Package storage persists whole JSON documents by key. Every write replaces
// the full document; there is no locking between writers.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no document exists under a key.
var ErrNotFound = errors.New("storage: document not found")

// Store reads and replaces JSON documents.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// Driver names accepted by the configuration.
const (
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	return nil
}
