package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/gridmart/martpilot/internal/db"
)

// memStore is an in-memory hash store implementing the consumer interface.
type memStore struct {
	mu     sync.Mutex
	hashes map[string]map[string]string
	// failOp, when set, makes the named operation return errFail.
	failOp string
	// multiCalls counts HSetMulti invocations (pipelined round trips).
	multiCalls int
}

var errFail = &db.Error{Op: "TEST", Err: context.DeadlineExceeded}

func newMemStore() *memStore {
	return &memStore{hashes: map[string]map[string]string{}}
}

func (m *memStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.failOp == db.OpHSet {
		return errFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hashes[key]
	if !ok {
		h = map[string]string{}
		m.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *memStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	m.multiCalls++
	for _, item := range items {
		if err := m.HSet(ctx, item.Key, item.Fields); err != nil {
			return err
		}
	}
	return nil
}

func (m *memStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if m.failOp == db.OpHGetAll {
		return nil, errFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]string{}
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	out := make([]map[string]string, len(keys))
	for i, key := range keys {
		h, err := m.HGetAll(ctx, key)
		if err != nil {
			return nil, err
		}
		out[i] = h
	}
	return out, nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	if m.failOp == db.OpDel {
		return errFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.hashes, key)
	return nil
}

func (m *memStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.hashes[key]
	return ok, nil
}

func (m *memStore) Scan(_ context.Context, pattern string) ([]string, error) {
	if m.failOp == db.OpScan {
		return nil, errFail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range m.hashes {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
