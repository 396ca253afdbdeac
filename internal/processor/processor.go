// Package processor orchestrates scribe's pipeline: thread-stored event in,
// sanitized conversation record out.
package processor

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/MikeSquared-Agency/scribe/internal/chronicle"
	"github.com/MikeSquared-Agency/scribe/internal/extractor"
	"github.com/MikeSquared-Agency/scribe/internal/hermes"
	"github.com/MikeSquared-Agency/scribe/internal/store"
)

type Processor struct {
	store       *store.Store
	hermes      *hermes.Client
	chronicle   *chronicle.Client
	minMessages int
	logger      *slog.Logger
}

func New(s *store.Store, h *hermes.Client, c *chronicle.Client, minMessages int, logger *slog.Logger) *Processor {
	return &Processor{
		store:       s,
		hermes:      h,
		chronicle:   c,
		minMessages: minMessages,
		logger:      logger,
	}
}

// HandleThreadStored is the NATS handler for swarm.assistant.thread.stored.
// All failures are logged and swallowed — a bad thread must never take down
// the subscription.
func (p *Processor) HandleThreadStored(subject string, data []byte) {
	ctx := context.Background()

	var evt hermes.ThreadStoredEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Error("failed to parse thread event", "error", err)
		return
	}

	threadRef := evt.ThreadRef
	if threadRef == "" {
		threadRef = evt.ThreadID
	}

	p.logger.Info("processing thread", "thread_id", evt.ThreadID, "thread_ref", threadRef)

	// Repeated events for the same thread are delivered at-least-once;
	// the first stored conversation wins.
	seen, err := p.store.HasThreadRef(ctx, threadRef)
	if err != nil {
		p.logger.Error("failed to check thread ref", "thread_ref", threadRef, "error", err)
		return
	}
	if seen {
		p.logger.Info("thread already processed", "thread_ref", threadRef)
		return
	}

	raw, err := p.fetchDocument(ctx, evt)
	if err != nil {
		p.logger.Error("failed to fetch thread document", "thread_id", evt.ThreadID, "error", err)
		return
	}

	res := extractor.Extract(raw)
	if !res.Success {
		p.logger.Error("extraction failed", "thread_ref", threadRef, "error", res.ErrorMessage)
		return
	}

	if res.ConversationCount < p.minMessages {
		p.logger.Info("thread below message gate, skipping",
			"thread_ref", threadRef,
			"messages", res.ConversationCount,
			"min", p.minMessages,
		)
		return
	}

	id, err := p.store.SaveConversation(ctx, threadRef, res)
	if err != nil {
		p.logger.Error("persistence failed", "thread_ref", threadRef, "error", err)
		return
	}

	if err := p.hermes.Publish(hermes.SubjectConversationExtracted, hermes.ConversationExtractedEvent{
		ConversationID:        id.String(),
		ThreadRef:             threadRef,
		MessageCount:          res.ConversationCount,
		LastAssistantResponse: res.LastAssistantResponse,
	}); err != nil {
		p.logger.Error("failed to publish extraction event", "thread_ref", threadRef, "error", err)
	}

	p.logger.Info("thread processed",
		"conversation_id", id,
		"thread_ref", threadRef,
		"messages", res.ConversationCount,
	)
}

// fetchDocument returns the serialized thread: inline from the event when
// present, otherwise fetched from chronicle by thread id.
func (p *Processor) fetchDocument(ctx context.Context, evt hermes.ThreadStoredEvent) (string, error) {
	if len(evt.Document) > 0 {
		return string(evt.Document), nil
	}
	return p.chronicle.FetchThread(ctx, evt.ThreadID)
}
