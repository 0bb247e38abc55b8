package storeconfig

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gridmart/martpilot/internal/db"
	"github.com/gridmart/martpilot/internal/domain"
)

// store is the consumer interface for configuration (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo keeps the store configuration in a single hash <prefix>config.
// Values are re-read per query; an admin may change them at any time.
type Repo struct {
	store store
	key   string
}

// New creates a store configuration repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, key: keyPrefix + "config"}
}

// Get returns the value for a key. Missing keys yield db.ErrFieldNotFound.
func (r *Repo) Get(ctx context.Context, key string) (string, error) {
	v, err := r.store.HGet(ctx, r.key, key)
	if err != nil {
		if errors.Is(err, db.ErrFieldNotFound) {
			return "", err
		}
		return "", fmt.Errorf("get config %s: %w", key, err)
	}
	return v, nil
}

// Set stores a single configuration value.
func (r *Repo) Set(ctx context.Context, key, value string) error {
	if err := r.store.HSet(ctx, r.key, map[string]string{key: value}); err != nil {
		return fmt.Errorf("set config %s: %w", key, err)
	}
	return nil
}

// All returns every configuration key/value pair.
func (r *Repo) All(ctx context.Context) (map[string]string, error) {
	m, err := r.store.HGetAll(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("get config: %w", err)
	}
	return m, nil
}

// Layout assembles the navigation-relevant configuration, substituting
// documented defaults for absent keys so a half-seeded store still works.
func (r *Repo) Layout(ctx context.Context) (domain.StoreLayout, error) {
	m, err := r.All(ctx)
	if err != nil {
		return domain.StoreLayout{}, err
	}

	layout := domain.StoreLayout{
		Name: valueOr(m, domain.ConfigStoreName, domain.DefaultStoreName),
		Rows: intOr(m, domain.ConfigGridRows, domain.DefaultGridRows),
		Cols: intOr(m, domain.ConfigGridCols, domain.DefaultGridCols),
		Entrance: domain.Point{
			Row: intOr(m, domain.ConfigEntranceRow, 0),
			Col: intOr(m, domain.ConfigEntranceCol, 0),
		},
	}
	if err := layout.Validate(); err != nil {
		return domain.StoreLayout{}, fmt.Errorf("stored layout: %w", err)
	}
	return layout, nil
}

// EnsureDefaults writes the documented defaults for any absent key.
// Present values are never overwritten.
func (r *Repo) EnsureDefaults(ctx context.Context) error {
	existing, err := r.All(ctx)
	if err != nil {
		return err
	}

	defaults := map[string]string{
		domain.ConfigStoreName:     domain.DefaultStoreName,
		domain.ConfigGridRows:      strconv.Itoa(domain.DefaultGridRows),
		domain.ConfigGridCols:      strconv.Itoa(domain.DefaultGridCols),
		domain.ConfigEntranceRow:   "0",
		domain.ConfigEntranceCol:   "0",
		domain.ConfigAdminPassword: "admin123",
	}
	missing := make(map[string]string)
	for k, v := range defaults {
		if _, ok := existing[k]; !ok {
			missing[k] = v
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if err := r.store.HSet(ctx, r.key, missing); err != nil {
		return fmt.Errorf("seed config defaults: %w", err)
	}
	return nil
}

func valueOr(m map[string]string, key, def string) string {
	if v, ok := m[key]; ok && v != "" {
		return v
	}
	return def
}

func intOr(m map[string]string, key string, def int) int {
	v, ok := m[key]
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
