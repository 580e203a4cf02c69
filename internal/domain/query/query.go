package query

import "strings"

// Query is the immutable per-request input: the raw text as received and a
// normalized form (lowercased, whitespace-collapsed). Created once per
// request and never mutated after filter extraction.
type Query struct {
	raw        string
	normalized string
}

// New creates a Query from raw user text.
func New(raw string) Query {
	return Query{
		raw:        raw,
		normalized: Normalize(raw),
	}
}

// Raw returns the query text as received.
func (q Query) Raw() string { return q.raw }

// Normalized returns the lowercased, whitespace-collapsed text.
func (q Query) Normalized() string { return q.normalized }

// Normalize lowercases text and collapses runs of whitespace into single
// spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
