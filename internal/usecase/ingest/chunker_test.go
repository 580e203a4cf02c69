package ingest

import (
	"strings"
	"testing"
)

func sentenceOf(words int) string {
	return strings.Repeat("word ", words-1) + "word."
}

func TestChunk_ShortTextSingleChunk(t *testing.T) {
	c := NewChunker(0, 0)

	chunks := c.Chunk("Wireless headphones with noise cancellation.", "p1")
	if len(chunks) != 1 {
		t.Fatalf("chunks = %d, want 1 for short text", len(chunks))
	}
	if chunks[0].ID != "p1_chunk_0" {
		t.Errorf("id = %q, want p1_chunk_0", chunks[0].ID)
	}
	if chunks[0].Index != 0 {
		t.Errorf("index = %d, want 0", chunks[0].Index)
	}
}

func TestChunk_LongTextSplitsWithOverlap(t *testing.T) {
	c := NewChunker(0, 0)

	// Ten 40-word sentences: 400 words total, forces multiple chunks.
	var parts []string
	for i := 0; i < 10; i++ {
		parts = append(parts, sentenceOf(40))
	}
	chunks := c.Chunk(strings.Join(parts, " "), "p1")

	if len(chunks) < 2 {
		t.Fatalf("chunks = %d, want multiple for 400 words", len(chunks))
	}
	for i, ch := range chunks {
		if ch.Index != i {
			t.Errorf("chunks[%d].Index = %d, want %d", i, ch.Index, i)
		}
		if ch.WordCount > DefaultChunkSize+40 {
			t.Errorf("chunks[%d] = %d words, exceeds target plus one sentence", i, ch.WordCount)
		}
	}
	// Overlap: every chunk after the first starts with carried words.
	for i := 1; i < len(chunks); i++ {
		if chunks[i].WordCount <= DefaultChunkOverlap {
			t.Errorf("chunks[%d] = %d words, want more than the overlap alone", i, chunks[i].WordCount)
		}
	}
}

func TestChunk_TinyTrailingChunkAbsorbed(t *testing.T) {
	c := NewChunker(50, 10)

	// 50 words then 5 words: the 5-word leftover is under the minimum and
	// must not become its own chunk.
	text := sentenceOf(50) + " " + sentenceOf(5)
	chunks := c.Chunk(text, "p1")

	for _, ch := range chunks {
		if ch.WordCount < minChunkWords && len(chunks) > 1 {
			t.Errorf("chunk %q has %d words, below minimum", ch.ID, ch.WordCount)
		}
	}
}

func TestChunk_CleansSeparators(t *testing.T) {
	c := NewChunker(0, 0)

	chunks := c.Chunk("USB-C cable | braided nylon\nfast charging", "p1")
	if strings.ContainsAny(chunks[0].Text, "|\n\t") {
		t.Errorf("text = %q, want separators cleaned", chunks[0].Text)
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Computers&Accessories", "electronics/computers"},
		{"Headphones", "electronics/audio/headphones"},
		{"Electronics|Headphones|Over-Ear", "electronics/audio/headphones"},
		{"Garden > Tools > Shovels", "garden/tools/shovels"},
		{"Home&Kitchen", "home/kitchen"},
		{"", ""},
		{"  Books ", "media/books"},
	}
	for _, tt := range tests {
		if got := NormalizeCategory(tt.raw); got != tt.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
