package domain

// RetrievedChunk is one ranked entry of a retrieval result: the chunk
// text, a snapshot of the owning article's metadata, and the similarity
// distance it was ranked by.
type RetrievedChunk struct {
	ChunkID   string
	ArticleID string
	Title     string
	Authors   []string
	Content   string
	Distance  float64
}

// Answer is the result of one retrieval-augmented question. Context is
// the ranked retrieval result (closest first) the answer was grounded in;
// ArticleIDs are the unique articles referenced by that context, in rank
// order of first appearance. Answers are transient and never persisted.
type Answer struct {
	Question   string
	Text       string
	Context    []RetrievedChunk
	ArticleIDs []string
}
