package db

// Restriction narrows a search to documents whose tag field matches one of
// the given values. A nil *Restriction means the whole index; a restriction
// with no values matches nothing.
type Restriction struct {
	Field  string
	Values []string
}

// Empty reports whether the restriction admits no documents.
func (r *Restriction) Empty() bool {
	return r != nil && len(r.Values) == 0
}

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	Restrict     *Restriction
	ReturnFields []string
}

// TextQuery is the input for BM25 text search.
type TextQuery struct {
	IndexName    string
	TextField    string // schema alias of the TEXT field to match against
	Query        string
	TopK         int
	Restrict     *Restriction
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
