package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gridmart/martpilot/internal/db"
	"github.com/gridmart/martpilot/internal/domain"
)

// store is the consumer interface for the catalog (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo stores products and aisles as hashes under
// <prefix>product:<id> and <prefix>aisle:<id>.
type Repo struct {
	store  store
	prefix string
}

// New creates a catalog repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

func (r *Repo) productKey(id string) string { return r.prefix + "product:" + id }
func (r *Repo) aisleKey(id string) string   { return r.prefix + "aisle:" + id }

// SaveProduct creates or overwrites a product hash.
func (r *Repo) SaveProduct(ctx context.Context, p domain.Product) error {
	if err := r.store.HSet(ctx, r.productKey(p.ID), buildProductFields(p)); err != nil {
		return fmt.Errorf("save product %s: %w", p.ID, err)
	}
	return nil
}

// SaveProducts writes many product hashes in one pipelined round trip.
// Used by bulk imports; single-product writes go through SaveProduct.
func (r *Repo) SaveProducts(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, len(products))
	for i, p := range products {
		items[i] = db.HashSetItem{Key: r.productKey(p.ID), Fields: buildProductFields(p)}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("save %d products: %w", len(products), err)
	}
	return nil
}

// GetProduct returns a product by ID, joined with its aisle.
func (r *Repo) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	m, err := r.store.HGetAll(ctx, r.productKey(id))
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	if len(m) == 0 {
		return domain.Product{}, domain.ErrProductNotFound
	}
	p := parseProductFields(id, m)
	aisles, err := r.aislesByID(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	joinAisle(&p, aisles)
	return p, nil
}

// DeleteProduct removes a product.
func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	key := r.productKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check product %s: %w", id, err)
	}
	if !exists {
		return domain.ErrProductNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}

// ProductExists reports whether a product hash is present.
func (r *Repo) ProductExists(ctx context.Context, id string) (bool, error) {
	exists, err := r.store.Exists(ctx, r.productKey(id))
	if err != nil {
		return false, fmt.Errorf("check product %s: %w", id, err)
	}
	return exists, nil
}

// ListProducts returns every product joined with its aisle, ordered by
// category then name. A dangling aisle reference leaves the product
// unlocated rather than failing the listing.
func (r *Repo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	keys, err := r.store.Scan(ctx, r.productKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	aisles, err := r.aislesByID(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(maps))
	for i, m := range maps {
		if len(m) == 0 {
			continue // deleted between SCAN and HGETALL
		}
		p := parseProductFields(extractID(keys[i], r.productKey("")), m)
		joinAisle(&p, aisles)
		products = append(products, p)
	}

	sort.SliceStable(products, func(i, j int) bool {
		if products[i].Category != products[j].Category {
			return products[i].Category < products[j].Category
		}
		return products[i].Name < products[j].Name
	})
	return products, nil
}

// FilterProducts returns products whose name, brand, category, or keywords
// contain the query as a case-insensitive substring. Plain LIKE-style
// filtering; the fuzzy ranking lives in the search use case.
func (r *Repo) FilterProducts(ctx context.Context, query string) ([]domain.Product, error) {
	all, err := r.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all, nil
	}
	var out []domain.Product
	for _, p := range all {
		hay := strings.ToLower(p.Name + " " + p.Brand + " " + p.Category + " " + p.Keywords)
		if strings.Contains(hay, q) {
			out = append(out, p)
		}
	}
	return out, nil
}

// CountProducts returns the number of stored products.
func (r *Repo) CountProducts(ctx context.Context) (int, error) {
	keys, err := r.store.Scan(ctx, r.productKey("*"))
	if err != nil {
		return 0, fmt.Errorf("scan products: %w", err)
	}
	return len(keys), nil
}

// Categories returns the distinct non-empty product categories, sorted.
func (r *Repo) Categories(ctx context.Context) ([]string, error) {
	products, err := r.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var cats []string
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		cats = append(cats, p.Category)
	}
	sort.Strings(cats)
	return cats, nil
}

// SaveAisle creates or overwrites an aisle hash.
func (r *Repo) SaveAisle(ctx context.Context, a domain.Aisle) error {
	if err := r.store.HSet(ctx, r.aisleKey(a.ID), buildAisleFields(a)); err != nil {
		return fmt.Errorf("save aisle %s: %w", a.ID, err)
	}
	return nil
}

// GetAisle returns an aisle by ID.
func (r *Repo) GetAisle(ctx context.Context, id string) (domain.Aisle, error) {
	m, err := r.store.HGetAll(ctx, r.aisleKey(id))
	if err != nil {
		return domain.Aisle{}, fmt.Errorf("get aisle %s: %w", id, err)
	}
	if len(m) == 0 {
		return domain.Aisle{}, domain.ErrAisleNotFound
	}
	return parseAisleFields(id, m), nil
}

// DeleteAisle removes an aisle. Products referencing it become unlocated.
func (r *Repo) DeleteAisle(ctx context.Context, id string) error {
	key := r.aisleKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check aisle %s: %w", id, err)
	}
	if !exists {
		return domain.ErrAisleNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("delete aisle %s: %w", id, err)
	}
	return nil
}

// ListAisles returns every aisle, ordered by name.
func (r *Repo) ListAisles(ctx context.Context) ([]domain.Aisle, error) {
	byID, err := r.aislesByID(ctx)
	if err != nil {
		return nil, err
	}
	aisles := make([]domain.Aisle, 0, len(byID))
	for _, a := range byID {
		aisles = append(aisles, a)
	}
	sort.Slice(aisles, func(i, j int) bool { return aisles[i].Name < aisles[j].Name })
	return aisles, nil
}

// CountAisles returns the number of stored aisles.
func (r *Repo) CountAisles(ctx context.Context) (int, error) {
	keys, err := r.store.Scan(ctx, r.aisleKey("*"))
	if err != nil {
		return 0, fmt.Errorf("scan aisles: %w", err)
	}
	return len(keys), nil
}

func (r *Repo) aislesByID(ctx context.Context) (map[string]domain.Aisle, error) {
	keys, err := r.store.Scan(ctx, r.aisleKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan aisles: %w", err)
	}
	if len(keys) == 0 {
		return map[string]domain.Aisle{}, nil
	}
	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load aisles: %w", err)
	}
	out := make(map[string]domain.Aisle, len(maps))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		id := extractID(keys[i], r.aisleKey(""))
		out[id] = parseAisleFields(id, m)
	}
	return out, nil
}

func joinAisle(p *domain.Product, aisles map[string]domain.Aisle) {
	if p.AisleID == "" {
		return
	}
	a, ok := aisles[p.AisleID]
	if !ok {
		return // dangling reference: product stays unlocated
	}
	p.AisleName = a.Name
	p.Section = a.Section
	p.AisleRow = a.Row
	p.AisleCol = a.Col
}

func extractID(key, prefix string) string {
	return strings.TrimPrefix(key, prefix)
}
