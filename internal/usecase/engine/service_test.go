package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/shoplens/shoplens/internal/domain"
	"github.com/shoplens/shoplens/internal/domain/product"
	"github.com/shoplens/shoplens/internal/domain/query"
	"github.com/shoplens/shoplens/internal/domain/search/strategy"
)

// --- Mocks ---

type stubExtractor struct {
	clean   string
	filters query.FilterSet
	err     error
}

func (s *stubExtractor) Extract(q query.Query) (string, query.FilterSet, error) {
	if s.clean == "" && s.err == nil {
		return q.Normalized(), s.filters, nil
	}
	return s.clean, s.filters, s.err
}

// mockIndex serves a fixed hit list per call, in order. The last list
// repeats once the script is exhausted.
type mockIndex struct {
	script  [][]Hit
	err     error
	calls   int
	lastIDs []string
	lastK   int
}

func (m *mockIndex) search(ids []string, k int) ([]Hit, error) {
	m.calls++
	m.lastIDs = ids
	m.lastK = k
	if m.err != nil {
		return nil, m.err
	}
	if len(m.script) == 0 {
		return nil, nil
	}
	idx := m.calls - 1
	if idx >= len(m.script) {
		idx = len(m.script) - 1
	}
	return restrict(m.script[idx], ids), nil
}

// restrict applies the candidate-id contract the way a real index would.
func restrict(hits []Hit, ids []string) []Hit {
	if ids == nil {
		return hits
	}
	allowed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}
	out := make([]Hit, 0, len(hits))
	for _, h := range hits {
		if _, ok := allowed[h.ProductID]; ok {
			out = append(out, h)
		}
	}
	return out
}

type mockVec struct{ mockIndex }

func (m *mockVec) Search(_ context.Context, _ []float32, ids []string, k int) ([]Hit, error) {
	return m.search(ids, k)
}

type mockKw struct{ mockIndex }

func (m *mockKw) Search(_ context.Context, _ string, ids []string, k int) ([]Hit, error) {
	return m.search(ids, k)
}

// mockCatalog implements the pre-filter contract over an in-memory product map.
type mockCatalog struct {
	products map[string]product.Product
	err      error
}

func (m *mockCatalog) Filter(_ context.Context, fs query.FilterSet) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	if fs.IsEmpty() {
		return nil, nil
	}
	ids := make([]string, 0, len(m.products))
	for id, p := range m.products {
		matched, total := fs.Matches(p)
		if matched == total {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *mockCatalog) Lookup(_ context.Context, ids []string) (map[string]product.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]product.Product, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type mockEmbedder struct {
	lastText string
	err      error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.lastText = text
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}, nil
}

func sonyHeadphones() map[string]product.Product {
	return map[string]product.Product{
		"p-sony": product.Reconstruct(
			"p-sony", "Sony WH Headphones", "noise cancelling", "sony", "electronics/audio", 89.99, true),
		"p-bose": product.Reconstruct(
			"p-bose", "Bose Buds", "earbuds", "bose", "electronics/audio", 79.99, true),
	}
}

func f64(v float64) *float64 { return &v }

func newService(ext Extractor, vec VectorIndex, kw KeywordIndex, cat Catalog, emb domain.Embedder) *Service {
	return New(DefaultConfig(), ext, vec, kw, cat, emb, nil)
}

// --- Tests ---

func TestSearch_PrimaryHighConfidence(t *testing.T) {
	filters := query.NewFilterSet("sony", "", nil, f64(100), nil)
	ext := &stubExtractor{clean: "headphones", filters: filters}
	vec := &mockVec{mockIndex{script: [][]Hit{{{ProductID: "p-sony", ChunkID: "p-sony_chunk_0", Score: 0.75}}}}}
	kw := &mockKw{}
	cat := &mockCatalog{products: sonyHeadphones()}

	svc := newService(ext, vec, kw, cat, &mockEmbedder{})
	out, err := svc.Search(context.Background(), "Sony headphones under $100", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Strategy() != strategy.Primary {
		t.Errorf("strategy = %q, want primary", out.Strategy())
	}
	if kw.calls != 0 {
		t.Error("keyword index must not be queried when primary clears the threshold")
	}
	if len(out.Results()) != 1 {
		t.Fatalf("results = %d, want 1", len(out.Results()))
	}

	r := out.Results()[0]
	if r.MetadataMatch() != 1.0 {
		t.Errorf("metadata match = %v, want 1.0", r.MetadataMatch())
	}
	want := 0.7*0.75 + 0.3*1.0
	if r.Confidence() != want {
		t.Errorf("confidence = %v, want exactly %v", r.Confidence(), want)
	}
	if out.Level() != "high" {
		t.Errorf("level = %q, want high", out.Level())
	}
	if out.RelaxationSteps() != 0 {
		t.Errorf("relaxation steps = %d, want 0", out.RelaxationSteps())
	}
}

func TestSearch_PrimaryPoolIsExactlyK(t *testing.T) {
	ext := &stubExtractor{clean: "headphones"}
	vec := &mockVec{mockIndex{script: [][]Hit{{{ProductID: "p-sony", ChunkID: "c0", Score: 0.9}}}}}
	svc := newService(ext, vec, &mockKw{}, &mockCatalog{products: sonyHeadphones()}, &mockEmbedder{})

	if _, err := svc.Search(context.Background(), "headphones", 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vec.lastK != 7 {
		t.Errorf("primary pool = %d, want exactly k=7", vec.lastK)
	}
}

func TestSearch_HybridTriggeredBelowThreshold(t *testing.T) {
	avail := true
	filters := query.NewFilterSet("", "", nil, nil, &avail)
	ext := &stubExtractor{clean: "headphones", filters: filters}

	// Primary: sim 0.3 -> confidence 0.7*0.3 + 0.3*1.0 = 0.51 < 0.6.
	// Hybrid: vec 0.6, kw 0.9 -> fused 0.7*0.6 + 0.3*0.9 = 0.69,
	// confidence 0.7*0.69 + 0.3*1.0 = 0.783 >= 0.6.
	vec := &mockVec{mockIndex{script: [][]Hit{
		{{ProductID: "p-sony", ChunkID: "c0", Score: 0.3}},
		{{ProductID: "p-sony", ChunkID: "c0", Score: 0.6}},
	}}}
	kw := &mockKw{mockIndex{script: [][]Hit{
		{{ProductID: "p-sony", ChunkID: "c0", Score: 0.9}},
	}}}

	svc := newService(ext, vec, kw, &mockCatalog{products: sonyHeadphones()}, &mockEmbedder{})
	out, err := svc.Search(context.Background(), "headphones in stock", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Strategy() != strategy.Hybrid {
		t.Fatalf("strategy = %q, want hybrid", out.Strategy())
	}
	if kw.lastK != 30 {
		t.Errorf("hybrid pool = %d, want 3x k = 30", kw.lastK)
	}

	r := out.Results()[0]
	wantFused := 0.7*0.6 + 0.3*0.9
	wantConf := 0.7*wantFused + 0.3*1.0
	if r.Confidence() != wantConf {
		t.Errorf("confidence = %v, want exactly %v", r.Confidence(), wantConf)
	}
	if r.Source() != strategy.Hybrid {
		t.Errorf("source = %q, want hybrid", r.Source())
	}
}

func TestSearch_KeywordOnlyHitEligibleInHybrid(t *testing.T) {
	filters := query.NewFilterSet("bose", "", nil, nil, nil)
	ext := &stubExtractor{clean: "earbuds", filters: filters}

	vec := &mockVec{mockIndex{script: [][]Hit{
		nil, // primary finds nothing
		nil, // hybrid vector leg finds nothing
	}}}
	kw := &mockKw{mockIndex{script: [][]Hit{
		{{ProductID: "p-bose", ChunkID: "p-bose_chunk_0", Score: 1.0}},
	}}}

	svc := newService(ext, vec, kw, &mockCatalog{products: sonyHeadphones()}, &mockEmbedder{})
	out, err := svc.Search(context.Background(), "bose earbuds", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// fused = 0.7*0 + 0.3*1.0 = 0.3; confidence = 0.7*0.3 + 0.3*1.0 = 0.51.
	// Below threshold, so relaxation runs, but the keyword-only hit must
	// still be present in the final (fallback) outcome.
	if len(out.Results()) == 0 {
		t.Fatal("keyword-only hit should survive into the outcome")
	}
	if out.Results()[0].ProductID() != "p-bose" {
		t.Errorf("product = %q, want p-bose", out.Results()[0].ProductID())
	}
}

func TestSearch_RelaxationOrder(t *testing.T) {
	// Catalog: a Sony at $250 (band 200-500) and a Bose at $80 (band 50-100).
	// Query wants brand=sony, max=$100: pre-filter is empty, PriceRelax
	// (max -> $150) still matches nothing, BrandRelax opens up the Bose.
	products := map[string]product.Product{
		"p-sony": product.Reconstruct("p-sony", "Sony Speaker", "d", "sony", "electronics/audio", 250, true),
		"p-bose": product.Reconstruct("p-bose", "Bose Speaker", "d", "bose", "electronics/audio", 80, true),
	}
	filters := query.NewFilterSet("sony", "", nil, f64(100), nil)
	ext := &stubExtractor{clean: "speaker", filters: filters}

	hits := []Hit{{ProductID: "p-bose", ChunkID: "p-bose_chunk_0", Score: 0.8}}
	vec := &mockVec{mockIndex{script: [][]Hit{hits}}}
	kw := &mockKw{mockIndex{script: [][]Hit{hits}}}

	svc := newService(ext, vec, kw, &mockCatalog{products: products}, &mockEmbedder{})
	out, err := svc.Search(context.Background(), "sony speaker under $100", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Strategy() != strategy.Relaxed {
		t.Fatalf("strategy = %q, want relaxed", out.Strategy())
	}
	if out.RelaxationSteps() != 2 {
		t.Errorf("relaxation steps = %d, want 2", out.RelaxationSteps())
	}
	wantPath := []string{"price_relax", "brand_relax"}
	if len(out.RelaxationPath()) != len(wantPath) {
		t.Fatalf("path = %v, want %v", out.RelaxationPath(), wantPath)
	}
	for i, st := range wantPath {
		if out.RelaxationPath()[i] != st {
			t.Errorf("path[%d] = %q, want %q", i, out.RelaxationPath()[i], st)
		}
	}
	if out.LowConfidence() {
		t.Error("clearing the threshold during relaxation must not set the low-confidence flag")
	}
	if out.Results()[0].ProductID() != "p-bose" {
		t.Errorf("product = %q, want p-bose", out.Results()[0].ProductID())
	}
	if out.Results()[0].Source() != strategy.Relaxed {
		t.Errorf("source = %q, want relaxed", out.Results()[0].Source())
	}
}

func TestSearch_FinalFallbackNeverFails(t *testing.T) {
	// Nothing ever scores above the threshold; the terminal state must
	// still return the best candidate seen, flagged low-confidence.
	filters := query.NewFilterSet("sony", "electronics/audio", nil, f64(100), nil)
	ext := &stubExtractor{clean: "headphones", filters: filters}

	hits := []Hit{{ProductID: "p-bose", ChunkID: "p-bose_chunk_0", Score: 0.2}}
	vec := &mockVec{mockIndex{script: [][]Hit{hits}}}
	kw := &mockKw{mockIndex{script: [][]Hit{hits}}}

	svc := newService(ext, vec, kw, &mockCatalog{products: sonyHeadphones()}, &mockEmbedder{})
	out, err := svc.Search(context.Background(), "sony headphones under $100", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !out.LowConfidence() {
		t.Error("final fallback must set the low-confidence flag")
	}
	if len(out.Results()) == 0 {
		t.Fatal("final fallback must return a candidate when the universe is non-empty")
	}
	if got := len(out.RelaxationPath()); got != 4 {
		t.Errorf("path length = %d, want all 4 states entered", got)
	}
	if out.RelaxationPath()[3] != "final_fallback" {
		t.Errorf("terminal state = %q, want final_fallback", out.RelaxationPath()[3])
	}
	if out.RelaxationSteps() != 3 {
		t.Errorf("relaxation steps = %d, want 3 (final fallback is not a step)", out.RelaxationSteps())
	}
	if out.Results()[0].Source() != strategy.Relaxed {
		t.Errorf("source = %q, want relaxed", out.Results()[0].Source())
	}
}

func TestSearch_IndexUnavailableIsFatal(t *testing.T) {
	ext := &stubExtractor{clean: "headphones"}
	vec := &mockVec{mockIndex{err: errors.New("connection refused")}}

	svc := newService(ext, vec, &mockKw{}, &mockCatalog{products: sonyHeadphones()}, &mockEmbedder{})
	_, err := svc.Search(context.Background(), "headphones", 10)
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Fatalf("err = %v, want ErrIndexUnavailable", err)
	}
}

func TestSearch_EmptyCleanTextFallsBackToRawQuery(t *testing.T) {
	filters := query.NewFilterSet("sony", "", nil, f64(100), nil)
	ext := &stubExtractor{filters: filters, err: domain.ErrEmptyCleanText}
	emb := &mockEmbedder{}
	vec := &mockVec{mockIndex{script: [][]Hit{{{ProductID: "p-sony", ChunkID: "c0", Score: 0.9}}}}}

	svc := newService(ext, vec, &mockKw{}, &mockCatalog{products: sonyHeadphones()}, emb)
	if _, err := svc.Search(context.Background(), "Sony under $100", 10); err != nil {
		t.Fatalf("extraction warning must not abort the query: %v", err)
	}
	if emb.lastText != "sony under $100" {
		t.Errorf("embedded text = %q, want the normalized raw query", emb.lastText)
	}
}

func TestSearch_CancellationAbortsRelaxation(t *testing.T) {
	filters := query.NewFilterSet("sony", "", nil, f64(100), nil)
	ext := &stubExtractor{clean: "headphones", filters: filters}

	ctx, cancel := context.WithCancel(context.Background())

	// Cancel as soon as the hybrid stage queries the keyword index, so the
	// relaxation loop sees a dead context on entry.
	kw := &mockKw{}
	vec := &mockVec{mockIndex{script: [][]Hit{nil}}}
	svcKw := &cancellingKw{inner: kw, cancel: cancel}

	svc := newService(ext, vec, svcKw, &mockCatalog{products: map[string]product.Product{
		"p-sony": product.Reconstruct("p-sony", "Sony Thing", "d", "sony", "electronics/audio", 50, true),
	}}, &mockEmbedder{})

	_, err := svc.Search(ctx, "sony headphones under $100", 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

type cancellingKw struct {
	inner  *mockKw
	cancel context.CancelFunc
}

func (c *cancellingKw) Search(ctx context.Context, text string, ids []string, k int) ([]Hit, error) {
	defer c.cancel()
	return c.inner.Search(ctx, text, ids, k)
}

func TestSearch_Deterministic(t *testing.T) {
	filters := query.NewFilterSet("sony", "", nil, f64(100), nil)
	ext := &stubExtractor{clean: "headphones", filters: filters}
	cat := &mockCatalog{products: sonyHeadphones()}

	run := func() string {
		vec := &mockVec{mockIndex{script: [][]Hit{{{ProductID: "p-sony", ChunkID: "c0", Score: 0.75}}}}}
		svc := newService(ext, vec, &mockKw{}, cat, &mockEmbedder{})
		out, err := svc.Search(context.Background(), "sony headphones under $100", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return out.Results()[0].Citation()
	}

	if run() != run() {
		t.Error("identical queries against unchanged state must produce identical outcomes")
	}
}

func TestPrefilter_EmptyPoolIsRecoverable(t *testing.T) {
	filters := query.NewFilterSet("nokia", "", nil, nil, nil)
	svc := newService(&stubExtractor{}, &mockVec{}, &mockKw{}, &mockCatalog{products: sonyHeadphones()}, &mockEmbedder{})

	_, err := svc.prefilter(context.Background(), filters)
	if !errors.Is(err, domain.ErrEmptyCandidatePool) {
		t.Fatalf("err = %v, want ErrEmptyCandidatePool", err)
	}

	// The stages treat the sentinel as confidence zero, never as a failure.
	cands, err := svc.searchPrimary(context.Background(), []float32{0.1}, filters, 10)
	if err != nil {
		t.Fatalf("empty pool must not fail the stage: %v", err)
	}
	if len(cands) != 0 {
		t.Errorf("candidates = %d, want 0", len(cands))
	}
}

func TestSearch_EmptyQueryRejected(t *testing.T) {
	svc := newService(&stubExtractor{}, &mockVec{}, &mockKw{}, &mockCatalog{}, &mockEmbedder{})
	if _, err := svc.Search(context.Background(), "   ", 10); err == nil {
		t.Fatal("expected an error for a blank query")
	}
}
