package repository

import (
	"context"

	"github.com/noah-isme/assignment-champs-api/internal/models"
)

// SubmissionFilter allows narrowing submission queries. Nil fields are not applied.
type SubmissionFilter struct {
	Status   *string
	SubmitBy *string
}

// SubmissionRepository defines data operations for submitted assignments.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	GetByID(ctx context.Context, id string) (models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	Grade(ctx context.Context, id string, grade models.Grade, upsert bool) (UpdateOutcome, error)
}
