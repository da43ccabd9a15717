package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/adityawrmn/campus-eval-api/pkg/kvstore"
)

// ErrRecordNotFound signals a lookup miss inside a catalog array. Services
// translate it into the API-level NOT_FOUND error.
var ErrRecordNotFound = errors.New("repository: record not found")

// readCatalog decodes the JSON array stored under key. A key that has never
// been written decodes as an empty catalog.
func readCatalog[T any](ctx context.Context, store kvstore.Store, key string) ([]T, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read catalog %s: %w", key, err)
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", key, err)
	}
	return items, nil
}

// writeCatalog persists the whole array back under key. The store has no
// partial updates; every mutation rewrites the full catalog.
func writeCatalog[T any](ctx context.Context, store kvstore.Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode catalog %s: %w", key, err)
	}
	if err := store.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("write catalog %s: %w", key, err)
	}
	return nil
}

// nextSequentialID assigns max(existing)+1, or 1 for an empty catalog.
func nextSequentialID(ids []int64) int64 {
	var max int64
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max + 1
}
