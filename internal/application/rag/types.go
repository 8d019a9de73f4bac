// Package rag implements the retrieval-augmented answering pipeline:
// chunking chapter text, indexing it into the vector store, and
// answering questions grounded on retrieved passages.
package rag

// ChunkMetadata describes where a chunk came from within its source.
type ChunkMetadata struct {
	StartPos   int    `json:"start_pos"`
	EndPos     int    `json:"end_pos"`
	Length     int    `json:"length"`
	ChapterID  string `json:"chapter_id,omitempty"`
	ModuleID   string `json:"module_id,omitempty"`
	ChunkID    string `json:"chunk_id,omitempty"`
	ChunkOrder int    `json:"chunk_order"`
}

// Chunk is one indexable piece of source text.
type Chunk struct {
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}

// RetrievalResult is one scored hit from the vector store, ordered by
// descending similarity within a result set.
type RetrievalResult struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
	ChapterID  string  `json:"chapter_id,omitempty"`
	ModuleID   string  `json:"module_id,omitempty"`
	ChunkOrder int     `json:"chunk_order"`
}

// Reference points an answer back at the content it was grounded on.
type Reference struct {
	ContentID string  `json:"content_id"`
	ChapterID string  `json:"chapter_id,omitempty"`
	ModuleID  string  `json:"module_id,omitempty"`
	Score     float64 `json:"score,omitempty"`
}

// Answer is the shaped response for one question. References hold at
// most five entries in retrieval-ranking order.
type Answer struct {
	Answer     string      `json:"answer"`
	References []Reference `json:"references"`
	Model      string      `json:"model,omitempty"`
	Degraded   bool        `json:"-"`
}
