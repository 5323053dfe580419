package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection reads and writes one named list inside a JSON document.
// Sibling top-level keys of the document are kept as they are on every save.
type Collection[T any] struct {
	store Store
	key   string
	field string
}

// NewCollection binds the list stored at document[field] under key.
func NewCollection[T any](store Store, key, field string) *Collection[T] {
	return &Collection[T]{store: store, key: key, field: field}
}

// Load returns the list in stored order. A missing document is an error; a
// document without the field yields an empty list.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	doc, err := c.document(ctx)
	if err != nil {
		return nil, err
	}
	items := []T{}
	raw, ok := doc[c.field]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("storage: decode %s.%s: %w", c.key, c.field, err)
	}
	return items, nil
}

// Save replaces the list and writes the whole document back.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	doc, err := c.document(ctx)
	if errors.Is(err, ErrNotFound) {
		doc = map[string]json.RawMessage{}
	} else if err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("storage: encode %s.%s: %w", c.key, c.field, err)
	}
	doc[c.field] = raw
	return c.write(ctx, doc)
}

// Ensure creates an empty document when none exists yet.
func (c *Collection[T]) Ensure(ctx context.Context) (bool, error) {
	_, err := c.store.Get(ctx, c.key)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	return true, c.write(ctx, map[string]json.RawMessage{c.field: json.RawMessage("[]")})
}

func (c *Collection[T]) document(ctx context.Context) (map[string]json.RawMessage, error) {
	data, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("storage: load %s: %w", c.key, err)
	}
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", c.key, err)
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}
	return doc, nil
}

func (c *Collection[T]) write(ctx context.Context, doc map[string]json.RawMessage) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("storage: encode %s: %w", c.key, err)
	}
	if err := c.store.Put(ctx, c.key, buf.Bytes()); err != nil {
		return fmt.Errorf("storage: save %s: %w", c.key, err)
	}
	return nil
}
