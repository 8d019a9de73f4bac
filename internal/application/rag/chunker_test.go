package rag

import (
	"fmt"
	"strings"
	"testing"
)

func TestChunkTextShortInput(t *testing.T) {
	chunks := ChunkText("ROS 2 is a flexible framework for robot software.", 400, 50)

	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Text != "ROS 2 is a flexible framework for robot software." {
		t.Errorf("unexpected chunk text: %q", chunks[0].Text)
	}
}

func TestChunkTextEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "...", "!?"} {
		if chunks := ChunkText(in, 400, 50); len(chunks) != 0 {
			t.Errorf("ChunkText(%q) = %d chunks, want 0", in, len(chunks))
		}
	}
}

func TestChunkTextKeepsAllSentences(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&sb, "Sentence number %d talks about robot middleware. ", i)
	}
	text := sb.String()

	chunks := ChunkText(text, 50, 0)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}

	joined := strings.Join(chunkTexts(chunks), " ")
	for i := 0; i < 50; i++ {
		want := fmt.Sprintf("Sentence number %d talks about robot middleware", i)
		if !strings.Contains(joined, want) {
			t.Fatalf("sentence %d missing from chunk output", i)
		}
	}
}

func TestChunkTextRespectsMaxSize(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("Short sentence here. ")
	}

	maxTokens := 25
	chunks := ChunkText(sb.String(), maxTokens, 0)

	// Every accumulated chunk stays within the character budget plus
	// the terminator appended to its last sentence.
	limit := maxTokens*avgCharsPerToken + 2
	for i, c := range chunks {
		if len(c.Text) > limit {
			t.Errorf("chunk %d has %d chars, limit %d", i, len(c.Text), limit)
		}
	}
}

func TestChunkTextOversizedSentenceKeptWhole(t *testing.T) {
	long := strings.Repeat("word ", 300) + "end."
	chunks := ChunkText(long, 10, 0)

	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if !strings.Contains(chunks[0].Text, "word word") {
		t.Errorf("oversized sentence was altered: %q", chunks[0].Text[:40])
	}
}

func TestChunkTextOffsetsMonotonic(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&sb, "Offset check sentence %d with padding text. ", i)
	}

	chunks := ChunkText(sb.String(), 30, 0)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}

	prev := -1
	for i, c := range chunks {
		if c.Metadata.StartPos < prev {
			t.Errorf("chunk %d start_pos %d precedes previous end %d", i, c.Metadata.StartPos, prev)
		}
		if c.Metadata.EndPos <= c.Metadata.StartPos {
			t.Errorf("chunk %d end_pos %d not after start_pos %d", i, c.Metadata.EndPos, c.Metadata.StartPos)
		}
		prev = c.Metadata.EndPos
	}
}

func TestChunkChapterContentStampsMetadata(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&sb, "Chapter sentence %d about distributed robot systems. ", i)
	}

	chunks := ChunkChapterContent(sb.String(), "c1", "m1")
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}

	seen := make(map[string]bool)
	for i, c := range chunks {
		if c.Metadata.ChapterID != "c1" || c.Metadata.ModuleID != "m1" {
			t.Errorf("chunk %d missing chapter/module stamp: %+v", i, c.Metadata)
		}
		if c.Metadata.ChunkOrder != i {
			t.Errorf("chunk %d has order %d", i, c.Metadata.ChunkOrder)
		}
		want := fmt.Sprintf("m1-c1-%d", i)
		if c.Metadata.ChunkID != want {
			t.Errorf("chunk %d id = %q, want %q", i, c.Metadata.ChunkID, want)
		}
		if seen[c.Metadata.ChunkID] {
			t.Errorf("duplicate chunk id %q", c.Metadata.ChunkID)
		}
		seen[c.Metadata.ChunkID] = true
	}
}

func chunkTexts(chunks []Chunk) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, c.Text)
	}
	return out
}
