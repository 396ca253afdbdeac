// Package hermes is scribe's connection to the swarm event bus.
package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects scribe participates in.
const (
	// SubjectThreadStored is published by the agent runtime whenever a chat
	// thread document is persisted.
	SubjectThreadStored = "swarm.assistant.thread.stored"

	// SubjectConversationExtracted announces a sanitized conversation record.
	SubjectConversationExtracted = "swarm.scribe.conversation.extracted"

	// SubjectRegistered announces scribe to the swarm on startup.
	SubjectRegistered = "swarm.agent.scribe.registered"
)

// ThreadStoredEvent is the payload of SubjectThreadStored. Document carries
// the serialized thread inline; when absent, scribe fetches it from
// chronicle by ThreadID.
type ThreadStoredEvent struct {
	ThreadID  string          `json:"thread_id"`
	ThreadRef string          `json:"thread_ref"`
	Document  json.RawMessage `json:"document,omitempty"`
}

// ConversationExtractedEvent is the payload of SubjectConversationExtracted.
type ConversationExtractedEvent struct {
	ConversationID        string `json:"conversation_id"`
	ThreadRef             string `json:"thread_ref"`
	MessageCount          int    `json:"message_count"`
	LastAssistantResponse string `json:"last_assistant_response"`
}

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
