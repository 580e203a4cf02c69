package ingest

import (
	"fmt"
	"regexp"
	"strings"
)

// Chunking defaults, in words.
const (
	DefaultChunkSize    = 125
	DefaultChunkOverlap = 25
	minChunkWords       = 30
)

// Chunk is one embeddable slice of a product's text.
type Chunk struct {
	ID        string
	Index     int
	Text      string
	WordCount int
}

// Chunker splits product text into overlapping word-window chunks along
// sentence boundaries.
type Chunker struct {
	targetSize int
	overlap    int
}

// NewChunker creates a chunker. Non-positive arguments use the defaults.
func NewChunker(targetSize, overlap int) *Chunker {
	if targetSize <= 0 {
		targetSize = DefaultChunkSize
	}
	if overlap <= 0 {
		overlap = DefaultChunkOverlap
	}
	return &Chunker{targetSize: targetSize, overlap: overlap}
}

var (
	reSentence   = regexp.MustCompile(`[.!?]+\s*`)
	reWhitespace = regexp.MustCompile(`\s+`)
	reDots       = regexp.MustCompile(`\.{2,}`)
)

// Chunk splits text into chunks of roughly targetSize words, carrying the
// last overlap words into the next chunk. Short texts yield a single chunk.
// Chunk IDs are "<productID>_chunk_<n>".
func (c *Chunker) Chunk(text, productID string) []Chunk {
	text = cleanText(text)
	if text == "" || len(strings.Fields(text)) <= c.targetSize {
		return []Chunk{{
			ID:        chunkID(productID, 0),
			Index:     0,
			Text:      text,
			WordCount: len(strings.Fields(text)),
		}}
	}

	sentences := splitSentences(text)

	var chunks []Chunk
	var current []string
	index := 0

	flush := func() {
		joined := strings.Join(current, " ")
		chunks = append(chunks, Chunk{
			ID:        chunkID(productID, index),
			Index:     index,
			Text:      joined,
			WordCount: len(current),
		})
		index++
	}

	for _, sentence := range sentences {
		words := strings.Fields(sentence)
		if len(words) == 0 {
			continue
		}

		if len(current)+len(words) > c.targetSize && len(current) > 0 {
			flush()
			// Carry the tail of the previous chunk for context continuity.
			if len(current) > c.overlap {
				current = append([]string(nil), current[len(current)-c.overlap:]...)
			} else {
				current = nil
			}
		}
		current = append(current, words...)
	}

	if len(current) >= minChunkWords || len(chunks) == 0 {
		flush()
	}

	return chunks
}

func splitSentences(text string) []string {
	parts := reSentence.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func cleanText(text string) string {
	text = strings.ReplaceAll(text, "|", ". ")
	text = strings.ReplaceAll(text, "\n", ". ")
	text = strings.ReplaceAll(text, "\t", " ")
	text = reDots.ReplaceAllString(text, ".")
	return strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))
}

func chunkID(productID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", productID, index)
}
