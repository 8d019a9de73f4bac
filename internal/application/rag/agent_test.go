package rag

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	apperrors "textbook-assistant-api/pkg/errors"
)

type fakeEmbedder struct {
	dim  int
	err  error
	seen []string
}

func (f *fakeEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.seen = append(f.seen, texts...)
	out := make([][]float64, len(texts))
	for i := range texts {
		vec := make([]float64, f.dim)
		for j := range vec {
			vec[j] = float64(len(texts[i])%7) / 10
		}
		out[i] = vec
	}
	return out, nil
}

type fakeChatModel struct {
	reply string
	err   error
	calls int
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

type fakeVectorStore struct {
	hits        []*VectorSearchResult
	searchErr   error
	upsertErr   error
	points      []*VectorPoint
	deleted     []string
	searchCalls int
	ensureCalls int
}

func (f *fakeVectorStore) EnsureCollection(ctx context.Context) error {
	f.ensureCalls++
	return nil
}

func (f *fakeVectorStore) Upsert(ctx context.Context, points []*VectorPoint) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.points = append(f.points, points...)
	return nil
}

func (f *fakeVectorStore) Search(ctx context.Context, params *VectorSearchParams) ([]*VectorSearchResult, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	n := len(f.hits)
	if params.TopK < n {
		n = params.TopK
	}
	return f.hits[:n], nil
}

func (f *fakeVectorStore) DeleteByChapter(ctx context.Context, chapterID string) error {
	f.deleted = append(f.deleted, chapterID)
	return nil
}

func makeHits(n int) []*VectorSearchResult {
	hits := make([]*VectorSearchResult, 0, n)
	for i := 0; i < n; i++ {
		hits = append(hits, &VectorSearchResult{
			ID:          fmt.Sprintf("m1-c1-%d", i),
			Score:       float32(1.0) - float32(i)*0.1,
			TextContent: fmt.Sprintf("passage %d", i),
			ChapterID:   "c1",
			ModuleID:    "m1",
			ChunkOrder:  i,
		})
	}
	return hits
}

func TestAnswerQuestion(t *testing.T) {
	store := &fakeVectorStore{hits: makeHits(3)}
	chat := &fakeChatModel{reply: "ROS 2 is a robotics middleware."}
	agent := NewAgent(&fakeEmbedder{dim: 8}, chat, store, AgentConfig{})

	answer, err := agent.AnswerQuestion(context.Background(), "What is ROS 2?", nil)
	if err != nil {
		t.Fatalf("AnswerQuestion: %v", err)
	}
	if answer.Answer != "ROS 2 is a robotics middleware." {
		t.Errorf("answer = %q", answer.Answer)
	}
	if answer.Degraded {
		t.Error("answer unexpectedly degraded")
	}
	if len(answer.References) != 3 {
		t.Fatalf("got %d references, want 3", len(answer.References))
	}
	for i, ref := range answer.References {
		if ref.ChapterID != "c1" {
			t.Errorf("reference %d chapter = %q, want c1", i, ref.ChapterID)
		}
		if i > 0 && ref.Score > answer.References[i-1].Score {
			t.Errorf("references out of ranking order at %d", i)
		}
	}
}

func TestAnswerQuestionTruncatesReferences(t *testing.T) {
	store := &fakeVectorStore{hits: makeHits(8)}
	agent := NewAgent(&fakeEmbedder{dim: 8}, &fakeChatModel{reply: "ok"}, store, AgentConfig{TopK: 8})

	answer, err := agent.AnswerQuestion(context.Background(), "What is ROS 2?", nil)
	if err != nil {
		t.Fatalf("AnswerQuestion: %v", err)
	}
	if len(answer.References) != 5 {
		t.Errorf("got %d references, want 5", len(answer.References))
	}
}

func TestAnswerQuestionRetrievalFailureSurfaces(t *testing.T) {
	store := &fakeVectorStore{searchErr: errors.New("milvus unreachable")}
	chat := &fakeChatModel{reply: "should not be called"}
	agent := NewAgent(&fakeEmbedder{dim: 8}, chat, store, AgentConfig{})

	_, err := agent.AnswerQuestion(context.Background(), "What is ROS 2?", nil)
	if err == nil {
		t.Fatal("expected error when vector search fails")
	}
	if !apperrors.HasCode(err, apperrors.CodeRetrievalFailed) {
		t.Errorf("error code = %v, want retrieval failure", err)
	}
	if chat.calls != 0 {
		t.Errorf("chat model called %d times after retrieval failure", chat.calls)
	}
}

func TestAnswerQuestionEmbeddingFailureSurfaces(t *testing.T) {
	agent := NewAgent(&fakeEmbedder{err: errors.New("quota exceeded")}, &fakeChatModel{reply: "x"}, &fakeVectorStore{}, AgentConfig{})

	_, err := agent.AnswerQuestion(context.Background(), "What is ROS 2?", nil)
	if !apperrors.HasCode(err, apperrors.CodeRetrievalFailed) {
		t.Errorf("error = %v, want retrieval failure", err)
	}
}

func TestAnswerQuestionGenerationFailureDegrades(t *testing.T) {
	store := &fakeVectorStore{hits: makeHits(2)}
	chat := &fakeChatModel{err: errors.New("rate limited")}
	agent := NewAgent(&fakeEmbedder{dim: 8}, chat, store, AgentConfig{})

	answer, err := agent.AnswerQuestion(context.Background(), "What is ROS 2?", nil)
	if err != nil {
		t.Fatalf("generation failure must not propagate, got %v", err)
	}
	if answer.Answer != FallbackAnswer {
		t.Errorf("answer = %q, want fallback", answer.Answer)
	}
	if !answer.Degraded {
		t.Error("expected degraded answer")
	}
	if len(answer.References) != 2 {
		t.Errorf("got %d references, want 2", len(answer.References))
	}
}

func TestAnswerQuestionMinScoreFilter(t *testing.T) {
	store := &fakeVectorStore{hits: makeHits(5)}
	agent := NewAgent(&fakeEmbedder{dim: 8}, &fakeChatModel{reply: "ok"}, store, AgentConfig{MinScore: 0.75})

	answer, err := agent.AnswerQuestion(context.Background(), "What is ROS 2?", nil)
	if err != nil {
		t.Fatalf("AnswerQuestion: %v", err)
	}
	for i, ref := range answer.References {
		if ref.Score < 0.75 {
			t.Errorf("reference %d score %f below threshold", i, ref.Score)
		}
	}
}

func TestAnswerQuestionEmptyQuestion(t *testing.T) {
	agent := NewAgent(&fakeEmbedder{dim: 8}, &fakeChatModel{reply: "ok"}, &fakeVectorStore{}, AgentConfig{})

	if _, err := agent.AnswerQuestion(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected error for blank question")
	}
}

func TestAnswerFromSelectionSkipsRetrieval(t *testing.T) {
	store := &fakeVectorStore{hits: makeHits(3)}
	embedder := &fakeEmbedder{dim: 8}
	agent := NewAgent(embedder, &fakeChatModel{reply: "It is middleware."}, store, AgentConfig{})

	answer, err := agent.AnswerFromSelection(context.Background(),
		"Explain this concept?",
		"ROS 2 is a middleware for robotics applications.")
	if err != nil {
		t.Fatalf("AnswerFromSelection: %v", err)
	}
	if store.searchCalls != 0 {
		t.Errorf("vector store searched %d times, want 0", store.searchCalls)
	}
	if len(embedder.seen) != 0 {
		t.Errorf("embedder called with %v, want no calls", embedder.seen)
	}
	if len(answer.References) != 1 || answer.References[0].ContentID != "selected_text" {
		t.Errorf("references = %+v, want [{selected_text}]", answer.References)
	}
}

func TestAnswerFromSelectionGenerationFailureDegrades(t *testing.T) {
	agent := NewAgent(&fakeEmbedder{dim: 8}, &fakeChatModel{err: errors.New("timeout")}, &fakeVectorStore{}, AgentConfig{})

	answer, err := agent.AnswerFromSelection(context.Background(), "Explain?", "Some selected text.")
	if err != nil {
		t.Fatalf("generation failure must not propagate, got %v", err)
	}
	if answer.Answer != FallbackAnswer {
		t.Errorf("answer = %q, want fallback", answer.Answer)
	}
}
