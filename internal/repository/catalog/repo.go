package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shoplens/shoplens/internal/domain"
	"github.com/shoplens/shoplens/internal/domain/product"
	"github.com/shoplens/shoplens/internal/domain/query"
)

// keyPrefix namespaces product metadata hashes.
const keyPrefix = domain.KeyPrefix + "product:"

// store is the consumer interface for catalog persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Del(ctx context.Context, key string) error
}

// Repo stores product metadata in Redis hashes and keeps an in-memory
// snapshot for the pre-filter. The filter runs once per relaxation step, so
// it must not pay a network round-trip per product.
type Repo struct {
	store store

	mu       sync.RWMutex
	snapshot map[string]product.Product
	loaded   bool
}

// New creates a catalog repository.
func New(s store) *Repo {
	return &Repo{store: s, snapshot: make(map[string]product.Product)}
}

// Put persists a product and updates the snapshot.
func (r *Repo) Put(ctx context.Context, p product.Product) error {
	if err := r.store.HSet(ctx, keyPrefix+p.ID(), buildHashFields(p)); err != nil {
		return fmt.Errorf("put product %s: %w", p.ID(), err)
	}

	r.mu.Lock()
	r.snapshot[p.ID()] = p
	r.mu.Unlock()
	return nil
}

// Get fetches a single product by id.
func (r *Repo) Get(ctx context.Context, id string) (product.Product, error) {
	m, err := r.store.HGetAll(ctx, keyPrefix+id)
	if err != nil {
		return product.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	if len(m) == 0 {
		return product.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrProductNotFound)
	}
	return parseHashFields(id, m), nil
}

// Delete removes a product hash and its snapshot entry.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, keyPrefix+id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}

	r.mu.Lock()
	delete(r.snapshot, id)
	r.mu.Unlock()
	return nil
}

// Filter returns the ids of products matching every applied predicate,
// sorted for determinism. An empty filter set returns nil (unrestricted);
// a filter that matches nothing returns an empty non-nil slice.
func (r *Repo) Filter(ctx context.Context, filters query.FilterSet) ([]string, error) {
	if filters.IsEmpty() {
		return nil, nil
	}
	if err := r.ensureSnapshot(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.snapshot))
	for id, p := range r.snapshot {
		matched, total := filters.Matches(p)
		if matched == total {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Lookup returns products by id. Missing ids are absent from the result map.
func (r *Repo) Lookup(ctx context.Context, ids []string) (map[string]product.Product, error) {
	if len(ids) == 0 {
		return map[string]product.Product{}, nil
	}
	if err := r.ensureSnapshot(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]product.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.snapshot[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// Refresh discards the snapshot and reloads it from Redis.
func (r *Repo) Refresh(ctx context.Context) error {
	r.mu.Lock()
	r.loaded = false
	r.mu.Unlock()
	return r.ensureSnapshot(ctx)
}

func (r *Repo) ensureSnapshot(ctx context.Context) error {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return nil
	}

	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("scan products: %w", err)
	}

	snapshot := make(map[string]product.Product, len(keys))
	if len(keys) > 0 {
		hashes, err := r.store.HGetAllMulti(ctx, keys)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		for i, m := range hashes {
			if len(m) == 0 {
				continue
			}
			id := strings.TrimPrefix(keys[i], keyPrefix)
			snapshot[id] = parseHashFields(id, m)
		}
	}

	r.mu.Lock()
	// Puts write to Redis before the snapshot, so anything that raced the
	// scan is either in keys already or will land on the next Put.
	for id, p := range r.snapshot {
		if _, ok := snapshot[id]; !ok {
			snapshot[id] = p
		}
	}
	r.snapshot = snapshot
	r.loaded = true
	r.mu.Unlock()
	return nil
}
