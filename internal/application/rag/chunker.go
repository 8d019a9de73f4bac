package rag

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// DefaultChunkMaxTokens caps chunk size using a crude four
	// characters per token estimate, not a real tokenizer.
	DefaultChunkMaxTokens = 400
	// DefaultChunkOverlap is accepted for API compatibility; chunk
	// boundaries are currently not overlapped.
	DefaultChunkOverlap = 50

	avgCharsPerToken = 4
)

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// ChunkText splits text into sentence-aligned chunks. Sentences are
// accumulated greedily until the next one would push the chunk past
// maxTokens*avgCharsPerToken; a single oversized sentence is kept
// whole rather than split mid-sentence.
func ChunkText(text string, maxTokens, overlap int) []Chunk {
	if maxTokens <= 0 {
		maxTokens = DefaultChunkMaxTokens
	}
	maxChars := maxTokens * avgCharsPerToken

	sentences := sentenceEnd.Split(text, -1)

	var chunks []Chunk
	current := ""
	meta := ChunkMetadata{}

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		if len(current)+len(sentence) <= maxChars {
			current += sentence + ". "
			meta.EndPos += len(sentence) + 2
			continue
		}

		if trimmed := strings.TrimSpace(current); trimmed != "" {
			m := meta
			m.Length = len(trimmed)
			chunks = append(chunks, Chunk{Text: trimmed, Metadata: m})
		}

		current = sentence + ". "
		meta.StartPos = meta.EndPos
		meta.EndPos = meta.StartPos + len(sentence) + 2
	}

	if trimmed := strings.TrimSpace(current); trimmed != "" {
		meta.Length = len(trimmed)
		chunks = append(chunks, Chunk{Text: trimmed, Metadata: meta})
	}

	return chunks
}

// ChunkChapterContent chunks a chapter and stamps each chunk with its
// origin plus a unique, stable chunk id.
func ChunkChapterContent(content, chapterID, moduleID string) []Chunk {
	chunks := ChunkText(content, DefaultChunkMaxTokens, DefaultChunkOverlap)

	for i := range chunks {
		chunks[i].Metadata.ChapterID = chapterID
		chunks[i].Metadata.ModuleID = moduleID
		chunks[i].Metadata.ChunkOrder = i
		chunks[i].Metadata.ChunkID = fmt.Sprintf("%s-%s-%d", moduleID, chapterID, i)
	}

	return chunks
}
