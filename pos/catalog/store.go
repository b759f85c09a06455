// Package catalog owns the sellable item list and its persisted snapshot.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pos-receipt/pos/types"
)

// DefaultKey is the key the snapshot is stored under
const DefaultKey = "itemList"

// Store reads and writes the catalog snapshot
type Store struct {
	kv     KV
	key    string
	logger *zap.Logger
	newID  func() string
}

// Option configures a Store
type Option func(*Store)

// WithKey overrides the snapshot key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for snapshot recovery messages.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator replaces the UUID generator, mostly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewStore returns a Store over kv using DefaultKey, a no-op logger and UUID ids
func NewStore(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		logger: zap.NewNop(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the stored catalog. A missing or unreadable snapshot yields the
// default catalog, and stored items that fail validation are skipped. Only
// backend failures are returned as errors.
func (s *Store) Load(ctx context.Context) (types.Catalog, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, &types.PersistenceError{Op: "get", Key: s.key, Err: err}
	}
	if !ok {
		s.logger.Info("no stored catalog, using defaults", zap.String("key", s.key))
		return s.withIDs(DefaultCatalog()), nil
	}

	var stored types.Catalog
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warn("stored catalog is unreadable, using defaults",
			zap.String("key", s.key),
			zap.Error(err))
		return s.withIDs(DefaultCatalog()), nil
	}
	if stored == nil {
		s.logger.Warn("stored catalog is null, using defaults", zap.String("key", s.key))
		return s.withIDs(DefaultCatalog()), nil
	}
	valid := make(types.Catalog, 0, len(stored))
	for i, item := range stored {
		if err := ValidateItem(item.Name, item.Price); err != nil {
			s.logger.Warn("dropping invalid stored item",
				zap.String("key", s.key),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		valid = append(valid, item)
	}

	return s.withIDs(valid), nil
}

// AddItem appends a new item and persists the result. Invalid input is
// rejected with a ValidationError before anything is written.
func (s *Store) AddItem(ctx context.Context, catalog types.Catalog, name string, price int64) (types.Catalog, error) {
	name = strings.TrimSpace(name)
	if err := ValidateItem(name, price); err != nil {
		return nil, err
	}

	next := make(types.Catalog, len(catalog), len(catalog)+1)
	copy(next, catalog)
	next = append(next, types.CatalogItem{ID: s.newID(), Name: name, Price: price})
	next = s.withIDs(next)

	if err := s.save(ctx, next); err != nil {
		return nil, err
	}
	s.logger.Info("catalog item added",
		zap.String("name", name),
		zap.Int64("price", price),
		zap.Int("items", len(next)))
	return next, nil
}

// DeleteItem removes the item at index and persists the result
func (s *Store) DeleteItem(ctx context.Context, catalog types.Catalog, index int) (types.Catalog, error) {
	if index < 0 || index >= len(catalog) {
		return nil, &types.PreconditionError{
			Msg: fmt.Sprintf("item index %d out of range [0,%d)", index, len(catalog)),
		}
	}

	next := make(types.Catalog, 0, len(catalog)-1)
	next = append(next, catalog[:index]...)
	next = append(next, catalog[index+1:]...)
	next = s.withIDs(next)

	if err := s.save(ctx, next); err != nil {
		return nil, err
	}
	s.logger.Info("catalog item deleted",
		zap.String("name", catalog[index].Name),
		zap.Int("items", len(next)))
	return next, nil
}

func (s *Store) save(ctx context.Context, catalog types.Catalog) error {
	data, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return &types.PersistenceError{Op: "set", Key: s.key, Err: err}
	}
	return nil
}

// withIDs fills in missing ids in place. Mutators call it on their copy so
// every saved item keeps the same id across loads.
func (s *Store) withIDs(catalog types.Catalog) types.Catalog {
	for i := range catalog {
		if catalog[i].ID == "" {
			catalog[i].ID = s.newID()
		}
	}
	return catalog
}

// ValidateItem checks the add-item constraints
func ValidateItem(name string, price int64) error {
	if strings.TrimSpace(name) == "" {
		return &types.ValidationError{Msg: "item name is required"}
	}
	if price <= 0 {
		return &types.ValidationError{Msg: "item price must be a positive number"}
	}
	return nil
}

// ParsePrice converts the raw price form value into whole currency units
func ParsePrice(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &types.ValidationError{Msg: "item price is required"}
	}
	price, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &types.ValidationError{Msg: fmt.Sprintf("item price %q is not a whole number", raw)}
	}
	if price <= 0 {
		return 0, &types.ValidationError{Msg: "item price must be a positive number"}
	}
	return price, nil
}
