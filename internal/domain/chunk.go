package domain

import (
	"fmt"
	"time"
)

// Chunk is the unit of semantic indexing: a sub-span of one article's
// abstract together with its embedding. Chunks belong to exactly one
// article and are replaced wholesale when that article is re-ingested.
type Chunk struct {
	// ID is derived from the owning article and the chunk's position,
	// see ChunkID. Deterministic so re-ingestion maps onto the same ids.
	ID         string
	ArticleID  string
	ChunkIndex int
	Content    string
	// Title of the owning article, carried as index payload so search
	// results can label context without a metadata lookup.
	Title     string
	Embedding []float32
	CreatedAt time.Time
}

// ChunkID derives the deterministic identifier for a chunk.
func ChunkID(articleID string, index int) string {
	return fmt.Sprintf("%s:%d", articleID, index)
}

// ChunkMatch is one nearest-neighbor hit from the vector index, ordered
// ascending by cosine distance (smaller is more similar).
type ChunkMatch struct {
	ChunkID   string
	ArticleID string
	Title     string
	Content   string
	Distance  float64
}
