package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/medfaq/assistant/conversation"
)

// memoryLogger keeps records in process. Used by tests and local runs.
type memoryLogger struct {
	options  conversation.Options
	records  map[string]*conversation.Record
	feedback []*conversation.Feedback
	mtx      sync.RWMutex
}

func (l *memoryLogger) SaveConversation(ctx context.Context, rec *conversation.Record) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if _, exists := l.records[rec.ID]; exists {
		return fmt.Errorf("conversation %s already recorded", rec.ID)
	}

	cpy := *rec
	cpy.PassageIDs = append([]string(nil), rec.PassageIDs...)
	if cpy.CreatedAt.IsZero() {
		cpy.CreatedAt = time.Now().UTC()
	}

	l.records[rec.ID] = &cpy

	return nil
}

func (l *memoryLogger) SaveFeedback(ctx context.Context, fb *conversation.Feedback) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if _, exists := l.records[fb.ConversationID]; !exists {
		return fmt.Errorf("conversation %s not found", fb.ConversationID)
	}

	cpy := *fb
	if cpy.CreatedAt.IsZero() {
		cpy.CreatedAt = time.Now().UTC()
	}

	l.feedback = append(l.feedback, &cpy)

	return nil
}

func (l *memoryLogger) RecentConversations(ctx context.Context, limit int, relevance string) ([]*conversation.Record, error) {
	if limit < 1 {
		limit = 5
	}

	l.mtx.RLock()
	defer l.mtx.RUnlock()

	records := make([]*conversation.Record, 0, len(l.records))
	for _, rec := range l.records {
		if len(relevance) > 0 && rec.Relevance != relevance {
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})

	if len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}

func (l *memoryLogger) FeedbackStats(ctx context.Context) (*conversation.Stats, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	stats := &conversation.Stats{}
	for _, fb := range l.feedback {
		if fb.Rating > 0 {
			stats.ThumbsUp++
		} else if fb.Rating < 0 {
			stats.ThumbsDown++
		}
	}

	return stats, nil
}

func NewLogger(opts ...conversation.Option) *memoryLogger {
	options := conversation.NewOptions(opts...)

	return &memoryLogger{
		options: options,
		records: map[string]*conversation.Record{},
	}
}
