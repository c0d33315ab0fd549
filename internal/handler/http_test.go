package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assistant "github.com/medfaq/assistant"
	"github.com/medfaq/assistant/conversation"
	conversationmemory "github.com/medfaq/assistant/conversation/memory"
	"github.com/medfaq/assistant/docstore"
	docstorememory "github.com/medfaq/assistant/docstore/memory"
	"github.com/medfaq/assistant/generator"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

type stubGenerator struct {
	text string
}

func (g stubGenerator) Generate(ctx context.Context, prompt string) (*generator.Result, error) {
	return &generator.Result{Text: g.text, PromptTokens: 10, CompletionTokens: 5}, nil
}

func (stubGenerator) Model() string { return "stub-model" }

func newTestHandler(t *testing.T) (*Http, conversation.Logger) {
	t.Helper()

	store := docstorememory.NewStore()
	err := store.Index(context.Background(), []docstore.Document{
		{ID: "resp-1", Question: "cough and fever", Answer: "rest and fluids", Embedding: []float32{1, 0}},
	})
	require.NoError(t, err)

	logger := conversationmemory.NewLogger()

	a := assistant.New(stubEmbedder{}, store, stubGenerator{text: "rest and fluids"}, logger,
		assistant.WithRewriter(stubGenerator{text: "cough and fever"}),
		assistant.WithJudge(stubGenerator{text: `{"Relevance": "RELEVANT", "Explanation": "on topic"}`}),
	)

	return New(a, logger), logger
}

func doJSON(t *testing.T, h *Http, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	return rec
}

func TestAsk(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/ask", map[string]string{"question": "i hav a coughe and fevr"})
	require.Equal(t, http.StatusOK, rec.Code)

	var rsp struct {
		ConversationID string   `json:"conversation_id"`
		RewrittenQuery string   `json:"rewritten_query"`
		Answer         string   `json:"answer"`
		PassageIDs     []string `json:"passage_ids"`
		Relevance      string   `json:"relevance"`
		ModelUsed      string   `json:"model_used"`
		Failed         bool     `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rsp))

	assert.NotEmpty(t, rsp.ConversationID)
	assert.Equal(t, "cough and fever", rsp.RewrittenQuery)
	assert.Equal(t, "rest and fluids", rsp.Answer)
	assert.Equal(t, []string{"resp-1"}, rsp.PassageIDs)
	assert.Equal(t, "RELEVANT", rsp.Relevance)
	assert.Equal(t, "stub-model", rsp.ModelUsed)
	assert.False(t, rsp.Failed)
}

func TestAskEmptyQuestion(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/ask", map[string]string{"question": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskInvalidJSON(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeedbackRoundTrip(t *testing.T) {
	h, logger := newTestHandler(t)

	askRec := doJSON(t, h, http.MethodPost, "/ask", map[string]string{"question": "cough and fever"})
	require.Equal(t, http.StatusOK, askRec.Code)

	var asked struct {
		ConversationID string `json:"conversation_id"`
	}
	require.NoError(t, json.Unmarshal(askRec.Body.Bytes(), &asked))

	rec := doJSON(t, h, http.MethodPost, "/feedback", map[string]any{
		"conversation_id": asked.ConversationID,
		"feedback":        1,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	stats, err := logger.FeedbackStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ThumbsUp)
}

func TestFeedbackInvalidRating(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/feedback", map[string]any{
		"conversation_id": "c1",
		"feedback":        0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeedbackMissingConversationID(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/feedback", map[string]any{"feedback": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecentConversations(t *testing.T) {
	h, _ := newTestHandler(t)

	require.Equal(t, http.StatusOK, doJSON(t, h, http.MethodPost, "/ask", map[string]string{"question": "cough"}).Code)

	rec := doJSON(t, h, http.MethodGet, "/recent-conversations?limit=5&relevance=All", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var records []*conversation.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Len(t, records, 1)
}

func TestRecentConversationsEmpty(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/recent-conversations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestFeedbackStatsEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/feedback-stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats conversation.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Zero(t, stats.ThumbsUp)
	assert.Zero(t, stats.ThumbsDown)
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
