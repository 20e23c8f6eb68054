package service

import (
	"iter"
	"strings"
)

// ChunkConfig controls abstract chunking for embeddings. Size and
// Overlap are counted in runes; each adjacent pair of chunks shares
// exactly Overlap runes of trailing/leading content.
type ChunkConfig struct {
	Size    int
	Overlap int
}

// DefaultChunkConfig provides sane defaults for abstract-length inputs.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Size:    600,
		Overlap: 100,
	}
}

func (c ChunkConfig) normalized() ChunkConfig {
	if c.Size <= 0 {
		c = DefaultChunkConfig()
	}
	if c.Overlap < 0 {
		c.Overlap = 0
	}
	// Overlap must leave the window room to advance.
	if c.Overlap >= c.Size {
		c.Overlap = c.Size - 1
	}
	return c
}

// Chunks splits text into a lazy, finite, restartable sequence of
// non-empty chunks. The chunks cover the trimmed input with no gaps;
// stripping the leading overlap from every chunk after the first
// reconstructs the input exactly. Text shorter than Size yields a
// single chunk; empty or whitespace-only text yields nothing. The
// operation is pure: ranging over the sequence twice produces identical
// chunks.
func Chunks(text string, cfg ChunkConfig) iter.Seq[string] {
	return func(yield func(string) bool) {
		clean := strings.TrimSpace(text)
		if clean == "" {
			return
		}

		cfg = cfg.normalized()
		runes := []rune(clean)
		if len(runes) <= cfg.Size {
			yield(clean)
			return
		}

		step := cfg.Size - cfg.Overlap
		for start := 0; start < len(runes); start += step {
			end := start + cfg.Size
			if end > len(runes) {
				end = len(runes)
			}
			if !yield(string(runes[start:end])) {
				return
			}
			if end == len(runes) {
				return
			}
		}
	}
}

// ChunkAll materializes Chunks into a slice.
func ChunkAll(text string, cfg ChunkConfig) []string {
	var chunks []string
	for chunk := range Chunks(text, cfg) {
		chunks = append(chunks, chunk)
	}
	return chunks
}
