package service

import (
	"context"
	"errors"
	"html"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/noah-isme/assignment-champs-api/internal/dto"
	"github.com/noah-isme/assignment-champs-api/internal/repository"
	"github.com/noah-isme/assignment-champs-api/pkg/broker"
)

var (
	// ErrInvalidIdentifier indicates an id path parameter is not a valid object id.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrAssignmentNotFound indicates the requested assignment does not exist.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrSubmissionNotFound indicates the requested submission does not exist.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrForbiddenScope indicates the caller asked for data outside their own scope.
	ErrForbiddenScope = errors.New("forbidden access")
	// ErrEmptyUpdate indicates an update request carried no fields.
	ErrEmptyUpdate = errors.New("no fields to update")
	// ErrPageOutOfRange indicates page and limit describe an offset that cannot be represented.
	ErrPageOutOfRange = errors.New("page out of range")
)

// EventPublisher delivers domain events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event broker.Event) error
}

// NopPublisher discards every event.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(context.Context, broker.Event) error {
	return nil
}

func validateObjectID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return ErrInvalidIdentifier
	}
	return nil
}

// cleanText removes unsafe markup and returns the remaining text unescaped, so
// quotes, ampersands and angle brackets are stored as typed.
func cleanText(policy *bluemonday.Policy, input string) string {
	return html.UnescapeString(policy.Sanitize(input))
}

func withStoreTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func newUpdateResponse(outcome repository.UpdateOutcome) dto.UpdateResponse {
	response := dto.UpdateResponse{
		Acknowledged:  true,
		MatchedCount:  outcome.MatchedCount,
		ModifiedCount: outcome.ModifiedCount,
	}
	if outcome.UpsertedID != "" {
		id := outcome.UpsertedID
		response.UpsertedCount = 1
		response.UpsertedID = &id
	}
	return response
}
