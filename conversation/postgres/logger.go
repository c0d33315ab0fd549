package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"go.nhat.io/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/medfaq/assistant/conversation"
)

var DRIVER string

func init() {
	driver, err := otelsql.Register(
		"postgres",
		otelsql.TraceQueryWithoutArgs(),
		otelsql.TraceRowsClose(),
		otelsql.TraceRowsAffected(),
		otelsql.WithSystem(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		detail := "failed to register pg conversation logger with otel"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	DRIVER = driver
}

type postgresLogger struct {
	options conversation.Options
	conn    *sql.DB
}

func (l *postgresLogger) SaveConversation(ctx context.Context, rec *conversation.Record) error {
	query := `
		INSERT INTO conversations (
			id, question, rewritten_query, answer, passage_ids,
			relevance, relevance_explanation, model_used, response_time_ms,
			prompt_tokens, completion_tokens, eval_prompt_tokens, eval_completion_tokens,
			rewrite_failed, failed, failure_reason, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, COALESCE($17, CURRENT_TIMESTAMP))
	`

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := l.conn.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.Question,
		rec.RewrittenQuery,
		rec.Answer,
		pq.Array(rec.PassageIDs),
		rec.Relevance,
		rec.RelevanceExplanation,
		rec.Model,
		rec.ResponseTime.Milliseconds(),
		rec.PromptTokens,
		rec.CompletionTokens,
		rec.EvalPromptTokens,
		rec.EvalCompletionTokens,
		rec.RewriteFailed,
		rec.Failed,
		rec.FailureReason,
		createdAt,
	)

	return err
}

func (l *postgresLogger) SaveFeedback(ctx context.Context, fb *conversation.Feedback) error {
	query := `
		INSERT INTO feedback (conversation_id, rating, created_at)
		VALUES ($1, $2, COALESCE($3, CURRENT_TIMESTAMP))
	`

	createdAt := fb.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := l.conn.ExecContext(ctx, query, fb.ConversationID, fb.Rating, createdAt)

	return err
}

func (l *postgresLogger) RecentConversations(ctx context.Context, limit int, relevance string) ([]*conversation.Record, error) {
	if limit < 1 {
		limit = 5
	}

	query := `
		SELECT id, question, rewritten_query, answer, passage_ids,
			relevance, relevance_explanation, model_used, response_time_ms,
			prompt_tokens, completion_tokens, eval_prompt_tokens, eval_completion_tokens,
			rewrite_failed, failed, failure_reason, created_at
		FROM conversations
		WHERE ($1 = '' OR relevance = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := l.conn.QueryContext(ctx, query, relevance, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*conversation.Record
	for rows.Next() {
		rec := &conversation.Record{}
		var responseTimeMs int64
		if err := rows.Scan(
			&rec.ID,
			&rec.Question,
			&rec.RewrittenQuery,
			&rec.Answer,
			pq.Array(&rec.PassageIDs),
			&rec.Relevance,
			&rec.RelevanceExplanation,
			&rec.Model,
			&responseTimeMs,
			&rec.PromptTokens,
			&rec.CompletionTokens,
			&rec.EvalPromptTokens,
			&rec.EvalCompletionTokens,
			&rec.RewriteFailed,
			&rec.Failed,
			&rec.FailureReason,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.ResponseTime = time.Duration(responseTimeMs) * time.Millisecond
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (l *postgresLogger) FeedbackStats(ctx context.Context) (*conversation.Stats, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN rating > 0 THEN 1 ELSE 0 END), 0) AS thumbs_up,
			COALESCE(SUM(CASE WHEN rating < 0 THEN 1 ELSE 0 END), 0) AS thumbs_down
		FROM feedback
	`

	stats := &conversation.Stats{}
	if err := l.conn.QueryRowContext(ctx, query).Scan(&stats.ThumbsUp, &stats.ThumbsDown); err != nil {
		return nil, err
	}

	return stats, nil
}

// EnsureSchema creates the conversations and feedback tables if missing.
func (l *postgresLogger) EnsureSchema(ctx context.Context) error {
	conversations := `
		CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			question TEXT NOT NULL,
			rewritten_query TEXT NOT NULL,
			answer TEXT NOT NULL,
			passage_ids TEXT[] NOT NULL DEFAULT '{}',
			relevance TEXT NOT NULL DEFAULT '',
			relevance_explanation TEXT NOT NULL DEFAULT '',
			model_used TEXT NOT NULL DEFAULT '',
			response_time_ms BIGINT NOT NULL DEFAULT 0,
			prompt_tokens INTEGER NOT NULL DEFAULT 0,
			completion_tokens INTEGER NOT NULL DEFAULT 0,
			eval_prompt_tokens INTEGER NOT NULL DEFAULT 0,
			eval_completion_tokens INTEGER NOT NULL DEFAULT 0,
			rewrite_failed BOOLEAN NOT NULL DEFAULT FALSE,
			failed BOOLEAN NOT NULL DEFAULT FALSE,
			failure_reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL
		)
	`

	if _, err := l.conn.ExecContext(ctx, conversations); err != nil {
		return err
	}

	feedback := `
		CREATE TABLE IF NOT EXISTS feedback (
			id SERIAL PRIMARY KEY,
			conversation_id TEXT REFERENCES conversations(id),
			rating INTEGER NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL
		)
	`

	_, err := l.conn.ExecContext(ctx, feedback)
	return err
}

func NewLogger(opts ...conversation.Option) *postgresLogger {
	options := conversation.NewOptions(opts...)

	l := &postgresLogger{
		options: options,
	}

	conn, err := sql.Open(DRIVER, options.Location)
	if err != nil {
		detail := "failed to connect with postgres conversation logger"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	if err := conn.Ping(); err != nil {
		detail := "failed to ping with postgres conversation logger"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	if err := otelsql.RecordStats(conn); err != nil {
		detail := "failed to initialize instrumentation for postgres conversation logger"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	l.conn = conn

	return l
}
