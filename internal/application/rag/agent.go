package rag

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/sync/semaphore"

	apperrors "textbook-assistant-api/pkg/errors"
	"textbook-assistant-api/pkg/logger"
	"textbook-assistant-api/pkg/metrics"
)

const (
	defaultTopK            = 5
	defaultAnswerMaxTokens = 500
	defaultMaxConcurrent   = 8

	questionTemperature  float32 = 0.7
	selectionTemperature float32 = 0.3

	// FallbackAnswer is returned when generation fails; the user still
	// gets a well-formed response while the cause is logged.
	FallbackAnswer = "I'm sorry, but I couldn't generate an answer for your question."
)

// answerState tracks one call through the pipeline for logging.
type answerState string

const (
	stateReceived         answerState = "RECEIVED"
	stateContextRetrieved answerState = "CONTEXT_RETRIEVED"
	statePromptBuilt      answerState = "PROMPT_BUILT"
	stateGenerating       answerState = "GENERATING"
	stateCompleted        answerState = "COMPLETED"
	stateFailed           answerState = "FAILED"
)

// Agent orchestrates question answering: retrieve, prompt, generate,
// shape. Safe for concurrent use.
type Agent struct {
	embedder embedding.Embedder
	chat     model.BaseChatModel
	vector   VectorStore

	// sem bounds outstanding chat model calls across all requests.
	sem *semaphore.Weighted

	topK            int
	minScore        float64
	answerMaxTokens int
	modelName       string
}

// AgentConfig tunes retrieval and generation.
type AgentConfig struct {
	TopK int
	// MinScore drops hits scoring below it. Zero keeps every hit, even
	// barely related ones.
	MinScore         float64
	AnswerMaxTokens  int
	MaxConcurrentLLM int64
	ModelName        string
}

func NewAgent(embedder embedding.Embedder, chat model.BaseChatModel, vector VectorStore, cfg AgentConfig) *Agent {
	if cfg.TopK <= 0 {
		cfg.TopK = defaultTopK
	}
	if cfg.AnswerMaxTokens <= 0 {
		cfg.AnswerMaxTokens = defaultAnswerMaxTokens
	}
	if cfg.MaxConcurrentLLM <= 0 {
		cfg.MaxConcurrentLLM = defaultMaxConcurrent
	}
	return &Agent{
		embedder:        embedder,
		chat:            chat,
		vector:          vector,
		sem:             semaphore.NewWeighted(cfg.MaxConcurrentLLM),
		topK:            cfg.TopK,
		minScore:        cfg.MinScore,
		answerMaxTokens: cfg.AnswerMaxTokens,
		modelName:       cfg.ModelName,
	}
}

// QuestionScope optionally narrows retrieval to one chapter or module.
type QuestionScope struct {
	ChapterID string
	ModuleID  string
}

// AnswerQuestion answers a free question grounded on retrieved
// passages. Retrieval failures propagate to the caller; generation
// failures degrade into a fallback answer instead.
func (a *Agent) AnswerQuestion(ctx context.Context, question string, scope *QuestionScope) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "question is required")
	}

	start := time.Now()
	state := stateReceived
	defer func() {
		metrics.QuestionDuration.WithLabelValues("retrieval").Observe(time.Since(start).Seconds())
		logger.Debug(ctx, "question pipeline finished", "state", string(state))
	}()

	results, err := a.retrieve(ctx, question, scope)
	if err != nil {
		state = stateFailed
		metrics.QuestionsTotal.WithLabelValues("retrieval", "error").Inc()
		return nil, err
	}
	state = stateContextRetrieved

	contexts := make([]string, 0, len(results))
	for _, r := range results {
		contexts = append(contexts, r.Text)
	}
	prompt := BuildPrompt(question, contexts)
	state = statePromptBuilt

	state = stateGenerating
	text, degraded, err := a.generate(ctx, prompt, questionTemperature)
	if err != nil {
		state = stateFailed
		metrics.QuestionsTotal.WithLabelValues("retrieval", "error").Inc()
		return nil, err
	}
	state = stateCompleted

	status := "success"
	if degraded {
		status = "degraded"
	}
	metrics.QuestionsTotal.WithLabelValues("retrieval", status).Inc()

	return &Answer{
		Answer:     text,
		References: referencesFrom(results),
		Model:      a.modelName,
		Degraded:   degraded,
	}, nil
}

// AnswerFromSelection answers a question about caller-supplied text.
// Retrieval is skipped entirely; the selection is the whole context,
// and a lower temperature biases the model toward extraction.
func (a *Agent) AnswerFromSelection(ctx context.Context, question, selectedText string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "question is required")
	}
	if strings.TrimSpace(selectedText) == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "selected_text is required")
	}

	start := time.Now()
	defer func() {
		metrics.QuestionDuration.WithLabelValues("selection").Observe(time.Since(start).Seconds())
	}()

	prompt := BuildPrompt(question, []string{selectedText})

	text, degraded, err := a.generate(ctx, prompt, selectionTemperature)
	if err != nil {
		metrics.QuestionsTotal.WithLabelValues("selection", "error").Inc()
		return nil, err
	}

	status := "success"
	if degraded {
		status = "degraded"
	}
	metrics.QuestionsTotal.WithLabelValues("selection", status).Inc()

	return &Answer{
		Answer:     text,
		References: []Reference{{ContentID: "selected_text"}},
		Model:      a.modelName,
		Degraded:   degraded,
	}, nil
}

// retrieve embeds the question and searches the vector store. Any
// failure here surfaces as a retrieval error; answering with no
// grounding at all would be worse than failing.
func (a *Agent) retrieve(ctx context.Context, question string, scope *QuestionScope) ([]*RetrievalResult, error) {
	vectors, err := a.embedder.EmbedStrings(ctx, []string{question})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeRetrievalFailed, "failed to embed question")
	}
	if len(vectors) == 0 {
		return nil, apperrors.New(apperrors.CodeRetrievalFailed, "embedder returned no vector")
	}

	query := make([]float32, 0, len(vectors[0]))
	for _, x := range vectors[0] {
		query = append(query, float32(x))
	}

	params := &VectorSearchParams{
		QueryVector: query,
		TopK:        a.topK,
	}
	if scope != nil {
		params.ChapterID = scope.ChapterID
		params.ModuleID = scope.ModuleID
	}

	hits, err := a.vector.Search(ctx, params)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeRetrievalFailed, "vector search failed")
	}

	results := make([]*RetrievalResult, 0, len(hits))
	for _, h := range hits {
		score := float64(h.Score)
		if a.minScore > 0 && score < a.minScore {
			continue
		}
		results = append(results, &RetrievalResult{
			ID:         h.ID,
			Text:       h.TextContent,
			Score:      score,
			ChapterID:  h.ChapterID,
			ModuleID:   h.ModuleID,
			ChunkOrder: h.ChunkOrder,
		})
	}
	return results, nil
}

// generate calls the chat model under the concurrency limiter. Model
// failures are logged and converted into the fallback answer; only
// context cancellation propagates as an error.
func (a *Agent) generate(ctx context.Context, prompt string, temperature float32) (string, bool, error) {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return "", false, err
	}
	defer a.sem.Release(1)

	start := time.Now()
	msg, err := a.chat.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)},
		model.WithTemperature(temperature),
		model.WithMaxTokens(a.answerMaxTokens),
	)
	metrics.LLMCallDuration.WithLabelValues("openai", a.modelName).Observe(time.Since(start).Seconds())

	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		metrics.LLMCallTotal.WithLabelValues("openai", a.modelName, "error").Inc()
		logger.Error(ctx, "chat model call failed", err)
		return FallbackAnswer, true, nil
	}

	metrics.LLMCallTotal.WithLabelValues("openai", a.modelName, "success").Inc()
	if msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
		metrics.LLMTokensUsed.WithLabelValues("openai", a.modelName, "prompt").Add(float64(msg.ResponseMeta.Usage.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues("openai", a.modelName, "completion").Add(float64(msg.ResponseMeta.Usage.CompletionTokens))
	}

	answer := strings.TrimSpace(msg.Content)
	if answer == "" {
		logger.Warn(ctx, "chat model returned empty content")
		return FallbackAnswer, true, nil
	}
	return answer, false, nil
}

// referencesFrom keeps at most five references in ranking order.
func referencesFrom(results []*RetrievalResult) []Reference {
	n := len(results)
	if n > 5 {
		n = 5
	}
	refs := make([]Reference, 0, n)
	for _, r := range results[:n] {
		refs = append(refs, Reference{
			ContentID: r.ID,
			ChapterID: r.ChapterID,
			ModuleID:  r.ModuleID,
			Score:     r.Score,
		})
	}
	return refs
}
