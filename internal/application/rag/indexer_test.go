package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"textbook-assistant-api/internal/domain/entity"
	apperrors "textbook-assistant-api/pkg/errors"
)

func TestIndexContent(t *testing.T) {
	store := &fakeVectorStore{}
	indexer := NewIndexer(&fakeEmbedder{dim: 8}, store, IndexerConfig{Dimension: 8})

	n, err := indexer.IndexContent(context.Background(),
		"ROS 2 is a flexible framework for robot software. It supports distributed nodes.",
		"c1", "m1")
	if err != nil {
		t.Fatalf("IndexContent: %v", err)
	}
	if n != len(store.points) {
		t.Errorf("reported %d chunks, stored %d", n, len(store.points))
	}

	if store.ensureCalls == 0 {
		t.Error("collection was not ensured before indexing")
	}
	if len(store.deleted) != 1 || store.deleted[0] != "c1" {
		t.Errorf("stale chunks not cleared: %v", store.deleted)
	}
	if len(store.points) == 0 {
		t.Fatal("no points upserted")
	}

	seen := make(map[string]bool)
	for i, p := range store.points {
		if p.ChapterID != "c1" || p.ModuleID != "m1" {
			t.Errorf("point %d has wrong origin: %+v", i, p)
		}
		if len(p.Vector) != 8 {
			t.Errorf("point %d vector dim = %d, want 8", i, len(p.Vector))
		}
		if seen[p.ID] {
			t.Errorf("duplicate point id %q", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestIndexContentLargeChapterSplits(t *testing.T) {
	store := &fakeVectorStore{}
	indexer := NewIndexer(&fakeEmbedder{dim: 8}, store, IndexerConfig{ChunkMaxTokens: 20, EmbeddingBatchSize: 4})

	var sb strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&sb, "Sentence %d about sensors and actuators in robots. ", i)
	}

	if _, err := indexer.IndexContent(context.Background(), sb.String(), "c2", "m1"); err != nil {
		t.Fatalf("IndexContent: %v", err)
	}
	if len(store.points) < 2 {
		t.Errorf("got %d points, want several chunks", len(store.points))
	}
	for i, p := range store.points {
		if p.ChunkOrder != i {
			t.Errorf("point %d has chunk order %d", i, p.ChunkOrder)
		}
	}
}

func TestIndexContentEmptyTextClearsOnly(t *testing.T) {
	store := &fakeVectorStore{}
	indexer := NewIndexer(&fakeEmbedder{dim: 8}, store, IndexerConfig{})

	n, err := indexer.IndexContent(context.Background(), "   ", "c1", "m1")
	if err != nil {
		t.Fatalf("IndexContent: %v", err)
	}
	if n != 0 {
		t.Errorf("reported %d chunks for empty content", n)
	}
	if len(store.deleted) != 1 {
		t.Error("previous chunks should still be cleared for empty content")
	}
	if len(store.points) != 0 {
		t.Errorf("got %d points for empty content, want 0", len(store.points))
	}
}

func TestIndexContentMissingIDs(t *testing.T) {
	indexer := NewIndexer(&fakeEmbedder{dim: 8}, &fakeVectorStore{}, IndexerConfig{})

	if _, err := indexer.IndexContent(context.Background(), "Some text.", "", "m1"); err == nil {
		t.Error("expected error for missing chapter id")
	}
	if _, err := indexer.IndexContent(context.Background(), "Some text.", "c1", ""); err == nil {
		t.Error("expected error for missing module id")
	}
}

func TestIndexContentDimensionMismatch(t *testing.T) {
	indexer := NewIndexer(&fakeEmbedder{dim: 8}, &fakeVectorStore{}, IndexerConfig{Dimension: 1536})

	_, err := indexer.IndexContent(context.Background(), "Some text to index.", "c1", "m1")
	if !apperrors.HasCode(err, apperrors.CodeConfigurationError) {
		t.Errorf("error = %v, want configuration error", err)
	}
}

func TestIndexContentEmbeddingFailure(t *testing.T) {
	indexer := NewIndexer(&fakeEmbedder{err: errors.New("provider down")}, &fakeVectorStore{}, IndexerConfig{})

	_, err := indexer.IndexContent(context.Background(), "Some text to index.", "c1", "m1")
	if !apperrors.HasCode(err, apperrors.CodeEmbeddingFailed) {
		t.Errorf("error = %v, want embedding failure", err)
	}
}

func TestIndexContentUpsertFailure(t *testing.T) {
	store := &fakeVectorStore{upsertErr: errors.New("write refused")}
	indexer := NewIndexer(&fakeEmbedder{dim: 8}, store, IndexerConfig{})

	_, err := indexer.IndexContent(context.Background(), "Some text to index.", "c1", "m1")
	if !apperrors.HasCode(err, apperrors.CodeIndexingFailed) {
		t.Errorf("error = %v, want indexing failure", err)
	}
}

func TestIndexModule(t *testing.T) {
	store := &fakeVectorStore{}
	indexer := NewIndexer(&fakeEmbedder{dim: 8}, store, IndexerConfig{})

	chapters := []*entity.Chapter{
		{ID: "c1", ModuleID: "m1", Content: "First chapter about kinematics."},
		{ID: "c2", ModuleID: "m1", Content: "Second chapter about dynamics."},
	}
	if _, err := indexer.IndexModule(context.Background(), chapters); err != nil {
		t.Fatalf("IndexModule: %v", err)
	}
	if len(store.deleted) != 2 {
		t.Errorf("cleared %d chapters, want 2", len(store.deleted))
	}
}

func TestIndexModulePartialFailure(t *testing.T) {
	store := &fakeVectorStore{}
	indexer := NewIndexer(&fakeEmbedder{dim: 8}, store, IndexerConfig{})

	chapters := []*entity.Chapter{
		{ID: "c1", ModuleID: "m1", Content: "Valid chapter content."},
		{ID: "", ModuleID: "m1", Content: "Chapter missing its id."},
	}
	_, err := indexer.IndexModule(context.Background(), chapters)
	if !apperrors.HasCode(err, apperrors.CodeIndexingFailed) {
		t.Errorf("error = %v, want indexing failure", err)
	}
	// The valid chapter is still indexed.
	if len(store.points) == 0 {
		t.Error("valid chapter was not indexed despite best-effort semantics")
	}
}
