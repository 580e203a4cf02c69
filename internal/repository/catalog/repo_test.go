package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shoplens/shoplens/internal/domain"
	"github.com/shoplens/shoplens/internal/domain/query"
)

func fp(v float64) *float64 { return &v }

func TestPut_WritesHash(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotKey string
	var gotFields map[string]string
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		gotKey = key
		gotFields = fields
		return nil
	}

	p := testProduct(t, "p1", "sony", "electronics/audio", 99.99)
	if err := repo.Put(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotKey != "shoplens:product:p1" {
		t.Errorf("key = %q, want shoplens:product:p1", gotKey)
	}
	if gotFields["brand"] != "sony" || gotFields["price"] != "99.99" || gotFields["available"] != "true" {
		t.Errorf("unexpected fields: %v", gotFields)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllFn = func(context.Context, string) (map[string]string, error) {
		return map[string]string{}, nil
	}

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestGet_ParsesFields(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		if key != "shoplens:product:p1" {
			t.Errorf("unexpected key %q", key)
		}
		return map[string]string{
			"title":       "Wireless Headphones",
			"description": "Noise cancelling.",
			"brand":       "sony",
			"category":    "electronics/audio",
			"price":       "99.99",
			"available":   "true",
		}, nil
	}

	p, err := repo.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Brand() != "sony" || p.Price() != 99.99 || !p.Available() {
		t.Errorf("unexpected product: %+v", p)
	}
}

func TestFilter_EmptySetIsUnrestricted(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(context.Context, string) ([]string, error) {
		t.Fatal("scan must not run for an empty filter set")
		return nil, nil
	}

	ids, err := repo.Filter(context.Background(), query.FilterSet{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids != nil {
		t.Errorf("ids = %v, want nil for unrestricted", ids)
	}
}

func seedSnapshot(t *testing.T, repo *Repo) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []struct {
		id, brand, category string
		price               float64
	}{
		{"p-sony", "sony", "electronics/audio", 89.99},
		{"p-bose", "bose", "electronics/audio", 279.0},
		{"p-lego", "lego", "toys/building", 49.99},
	} {
		if err := repo.Put(ctx, testProduct(t, p.id, p.brand, p.category, p.price)); err != nil {
			t.Fatalf("seed %s: %v", p.id, err)
		}
	}
}

func TestFilter_MatchesAllPredicates(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedSnapshot(t, repo)

	filters := query.NewFilterSet("", "electronics", nil, fp(100), nil)
	ids, err := repo.Filter(context.Background(), filters)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// p-sony: category prefix matches, band 50-100 overlaps [.., 100].
	// p-bose: band 200-500 does not overlap. p-lego: wrong category.
	if len(ids) != 1 || ids[0] != "p-sony" {
		t.Errorf("ids = %v, want [p-sony]", ids)
	}
}

func TestFilter_NoMatchReturnsEmptyNonNil(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedSnapshot(t, repo)

	filters := query.NewFilterSet("apple", "", nil, nil, nil)
	ids, err := repo.Filter(context.Background(), filters)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids == nil || len(ids) != 0 {
		t.Errorf("ids = %v, want empty non-nil slice", ids)
	}
}

func TestFilter_SortedForDeterminism(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedSnapshot(t, repo)

	filters := query.NewFilterSet("", "electronics/audio", nil, nil, nil)
	ids, err := repo.Filter(context.Background(), filters)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "p-bose" || ids[1] != "p-sony" {
		t.Errorf("ids = %v, want sorted [p-bose p-sony]", ids)
	}
}

func TestFilter_LoadsSnapshotOnce(t *testing.T) {
	repo, ms := newTestRepo(t)

	scans := 0
	ms.scanFn = func(context.Context, string) ([]string, error) {
		scans++
		return []string{"shoplens:product:p1"}, nil
	}
	ms.hgetAllMultiF = func(_ context.Context, keys []string) ([]map[string]string, error) {
		return []map[string]string{{
			"title": "Product one", "brand": "sony", "category": "electronics",
			"price": "10", "available": "true",
		}}, nil
	}

	filters := query.NewFilterSet("sony", "", nil, nil, nil)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := repo.Filter(ctx, filters); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if scans != 1 {
		t.Errorf("scans = %d, want snapshot loaded once", scans)
	}
}

func TestLookup_SkipsMissingIDs(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedSnapshot(t, repo)

	got, err := repo.Lookup(context.Background(), []string{"p-sony", "ghost"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d products, want 1", len(got))
	}
	if _, ok := got["ghost"]; ok {
		t.Error("missing id must be absent from result")
	}
}

func TestDelete_RemovesSnapshotEntry(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedSnapshot(t, repo)

	if err := repo.Delete(context.Background(), "p-sony"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Lookup(context.Background(), []string{"p-sony"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("deleted product still resolvable: %v", got)
	}
}
