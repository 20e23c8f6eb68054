package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunks_EmptyInput(t *testing.T) {
	assert.Empty(t, ChunkAll("", DefaultChunkConfig()))
	assert.Empty(t, ChunkAll("   \n\t  ", DefaultChunkConfig()))
}

func TestChunks_ShortInputSingleChunk(t *testing.T) {
	chunks := ChunkAll("a short abstract", ChunkConfig{Size: 100, Overlap: 20})

	require.Len(t, chunks, 1)
	assert.Equal(t, "a short abstract", chunks[0])
}

func TestChunks_TrimsWhitespace(t *testing.T) {
	chunks := ChunkAll("  padded abstract  ", ChunkConfig{Size: 100, Overlap: 20})

	require.Len(t, chunks, 1)
	assert.Equal(t, "padded abstract", chunks[0])
}

func TestChunks_ExactOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10) // 100 runes
	cfg := ChunkConfig{Size: 40, Overlap: 10}

	chunks := ChunkAll(text, cfg)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		cur := []rune(chunks[i])
		assert.Equal(t, string(prev[len(prev)-cfg.Overlap:]), string(cur[:cfg.Overlap]),
			"chunk %d should start with the previous chunk's trailing overlap", i)
	}
}

func TestChunks_Reconstruction(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)
	cfg := ChunkConfig{Size: 120, Overlap: 30}

	chunks := ChunkAll(text, cfg)
	require.NotEmpty(t, chunks)

	var b strings.Builder
	b.WriteString(chunks[0])
	for _, chunk := range chunks[1:] {
		runes := []rune(chunk)
		b.WriteString(string(runes[cfg.Overlap:]))
	}

	assert.Equal(t, strings.TrimSpace(text), b.String())
}

func TestChunks_Restartable(t *testing.T) {
	text := strings.Repeat("restartable sequence content ", 30)
	seq := Chunks(text, ChunkConfig{Size: 80, Overlap: 20})

	var first, second []string
	for c := range seq {
		first = append(first, c)
	}
	for c := range seq {
		second = append(second, c)
	}

	assert.Equal(t, first, second)
}

func TestChunks_EarlyBreak(t *testing.T) {
	text := strings.Repeat("x", 500)

	var got []string
	for c := range Chunks(text, ChunkConfig{Size: 100, Overlap: 10}) {
		got = append(got, c)
		if len(got) == 2 {
			break
		}
	}

	assert.Len(t, got, 2)
}

func TestChunks_MultibyteRunes(t *testing.T) {
	text := strings.Repeat("αβγδε", 50) // 250 runes
	cfg := ChunkConfig{Size: 100, Overlap: 25}

	chunks := ChunkAll(text, cfg)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks[:len(chunks)-1] {
		assert.Len(t, []rune(c), cfg.Size)
	}
}

func TestChunks_OverlapClamped(t *testing.T) {
	// Overlap >= Size must not stall the window.
	text := strings.Repeat("y", 50)

	chunks := ChunkAll(text, ChunkConfig{Size: 10, Overlap: 10})
	assert.NotEmpty(t, chunks)
	assert.LessOrEqual(t, len(chunks), 50)
}
