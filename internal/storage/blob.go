// Package storage provides the keyed blob persistence port used by the export
// stores, plus its SQLite implementation.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
)

// Keys of the independently persisted collections.
const (
	HistoryKey     = "expense-export-history"
	SchedulesKey   = "expense-export-schedules"
	ConnectionsKey = "expense-cloud-connections"
	ExpensesKey    = "expenses"
	StatsKey       = "expense-export-stats"
)

// BlobStore reads and writes named blobs. Get returns nil data and a nil
// error for a key that was never written.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// KeyLister is implemented by stores that can enumerate their keys.
type KeyLister interface {
	Keys(ctx context.Context) ([]string, error)
}

// LoadJSON decodes the blob stored under key into v, which must be a non-nil
// pointer. It reports false, leaving v untouched, when the blob is absent,
// unreadable or malformed. None of those cases are errors for callers: they
// all mean "empty collection". A blob that only partly decodes is malformed.
func LoadJSON(ctx context.Context, store BlobStore, key string, v any) bool {
	data, err := store.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read blob, treating as empty",
			"component", "storage", "key", key, "error", err)
		return false
	}
	if len(data) == 0 {
		return false
	}
	dst := reflect.ValueOf(v)
	if dst.Kind() != reflect.Pointer || dst.IsNil() {
		panic(fmt.Sprintf("storage.LoadJSON: non-nil pointer required, got %T", v))
	}
	// json.Unmarshal keeps whatever it decoded before a type error, so decode
	// into a scratch value and publish it only on success.
	fresh := reflect.New(dst.Elem().Type())
	if err := json.Unmarshal(data, fresh.Interface()); err != nil {
		slog.WarnContext(ctx, "Malformed blob, treating as empty",
			"component", "storage", "key", key, "error", err)
		return false
	}
	dst.Elem().Set(fresh.Elem())
	return true
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, store BlobStore, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
