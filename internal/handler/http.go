// Package handler exposes the assistant over HTTP for the UI collaborator.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	assistant "github.com/medfaq/assistant"
	"github.com/medfaq/assistant/conversation"
)

type Http struct {
	assistant *assistant.Assistant
	logger    conversation.Logger
}

func New(a *assistant.Assistant, logger conversation.Logger) *Http {
	return &Http{
		assistant: a,
		logger:    logger,
	}
}

func (h *Http) Routes() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/ask", otelhttp.NewHandler(http.HandlerFunc(h.Ask), "ask")).Methods(http.MethodPost)
	r.Handle("/feedback", otelhttp.NewHandler(http.HandlerFunc(h.Feedback), "feedback")).Methods(http.MethodPost)
	r.Handle("/recent-conversations", otelhttp.NewHandler(http.HandlerFunc(h.RecentConversations), "recent-conversations")).Methods(http.MethodGet)
	r.Handle("/feedback-stats", otelhttp.NewHandler(http.HandlerFunc(h.FeedbackStats), "feedback-stats")).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	return r
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	ConversationID       string   `json:"conversation_id"`
	Question             string   `json:"question"`
	RewrittenQuery       string   `json:"rewritten_query"`
	Answer               string   `json:"answer"`
	PassageIDs           []string `json:"passage_ids"`
	Relevance            string   `json:"relevance,omitempty"`
	RelevanceExplanation string   `json:"relevance_explanation,omitempty"`
	ModelUsed            string   `json:"model_used"`
	ResponseTimeMs       int64    `json:"response_time_ms"`
	PromptTokens         int      `json:"prompt_tokens"`
	CompletionTokens     int      `json:"completion_tokens"`
	Failed               bool     `json:"failed"`
}

func (h *Http) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	turn, err := h.assistant.AnswerQuestion(r.Context(), req.Question)
	if errors.Is(err, assistant.ErrEmptyQuestion) {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to answer question", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	rsp := askResponse{
		ConversationID: turn.ConversationID,
		Question:       turn.Question,
		RewrittenQuery: turn.RewrittenQuery,
		Failed:         turn.Failed,
		PassageIDs:     []string{},
	}

	for _, p := range turn.Passages {
		rsp.PassageIDs = append(rsp.PassageIDs, p.DocumentID)
	}

	if turn.Answer != nil {
		rsp.Answer = turn.Answer.Text
		rsp.ModelUsed = turn.Answer.Model
		rsp.ResponseTimeMs = turn.Answer.ResponseTime.Milliseconds()
		rsp.PromptTokens = turn.Answer.PromptTokens
		rsp.CompletionTokens = turn.Answer.CompletionTokens
	}

	if turn.Evaluation != nil {
		rsp.Relevance = string(turn.Evaluation.Verdict)
		rsp.RelevanceExplanation = turn.Evaluation.Explanation
	}

	writeJSON(w, http.StatusOK, rsp)
}

type feedbackRequest struct {
	ConversationID string `json:"conversation_id"`
	Feedback       int    `json:"feedback"`
}

func (h *Http) Feedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if len(req.ConversationID) == 0 {
		writeError(w, http.StatusBadRequest, "conversation_id is required")
		return
	}

	if err := h.assistant.SubmitFeedback(r.Context(), req.ConversationID, req.Feedback); err != nil {
		if errors.Is(err, assistant.ErrInvalidRating) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "failed to save feedback", "conversation_id", req.ConversationID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save feedback")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "feedback saved"})
}

func (h *Http) RecentConversations(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if raw := r.URL.Query().Get("limit"); len(raw) > 0 {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	relevance := r.URL.Query().Get("relevance")
	if relevance == "All" {
		relevance = ""
	}

	records, err := h.logger.RecentConversations(r.Context(), limit, relevance)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to fetch recent conversations", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch conversations")
		return
	}

	if records == nil {
		records = []*conversation.Record{}
	}

	writeJSON(w, http.StatusOK, records)
}

func (h *Http) FeedbackStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.logger.FeedbackStats(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to fetch feedback stats", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch feedback stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *Http) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
