package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Event types published by the API.
const (
	EventAssignmentPublished = "assignment.published"
	EventAssignmentUpdated   = "assignment.updated"
	EventAssignmentDeleted   = "assignment.deleted"
	EventSubmissionCreated   = "submission.created"
	EventSubmissionGraded    = "submission.graded"
)

// Event is the JSON envelope sent to subscribers.
type Event struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	Actor      string    `json:"actor,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewEvent stamps an event with the current time.
func NewEvent(eventType, id, actor string) Event {
	return Event{Type: eventType, ID: id, Actor: actor, OccurredAt: time.Now().UTC()}
}

// Publisher sends events to NATS subjects derived from a common prefix.
type Publisher struct {
	conn   *nats.Conn
	prefix string
	logger zerolog.Logger
}

// Connect dials the NATS server and returns a publisher for the given subject prefix.
func Connect(url, prefix string, logger zerolog.Logger) (*Publisher, error) {
	if url == "" {
		return nil, fmt.Errorf("nats url must not be empty")
	}

	conn, err := nats.Connect(url, nats.Name("assignment-champs-api"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return NewPublisher(conn, prefix, logger), nil
}

// NewPublisher wraps an established connection.
func NewPublisher(conn *nats.Conn, prefix string, logger zerolog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		prefix: strings.Trim(strings.ReplaceAll(prefix, ":", "."), "."),
		logger: logger.With().Str("component", "nats_publisher").Logger(),
	}
}

// Subject returns the subject an event type is published on.
func (p *Publisher) Subject(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "." + eventType
}

// Publish encodes the event and hands it to the connection buffer.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	subject := p.Subject(event.Type)
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.logger.Debug().Str("subject", subject).Str("id", event.ID).Msg("event published")
	return nil
}

// Close drains pending messages and closes the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn().Err(err).Msg("failed to drain nats connection")
		p.conn.Close()
	}
}
