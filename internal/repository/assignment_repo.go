package repository

import (
	"context"
	"errors"
	"math"

	"github.com/noah-isme/assignment-champs-api/internal/models"
)

// ErrNotFound is returned when no record matches the requested identifier.
var ErrNotFound = errors.New("record not found")

// AssignmentFilter describes offset pagination and the difficulty filter.
type AssignmentFilter struct {
	Difficulty string
	Page       int
	Limit      int
}

// Skip returns the number of records to skip. Zero limit disables paging.
func (f AssignmentFilter) Skip() int {
	if f.Limit <= 0 || f.Page <= 0 {
		return 0
	}
	if f.Page > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return f.Page * f.Limit
}

// UpdateOutcome mirrors the counters reported by the store after an update.
type UpdateOutcome struct {
	MatchedCount  int64
	ModifiedCount int64
	UpsertedID    string
}

// AssignmentRepository defines persistence operations for published assignments.
type AssignmentRepository interface {
	List(ctx context.Context, filter AssignmentFilter) ([]models.Assignment, error)
	EstimatedCount(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id string) (models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, id string, changes models.AssignmentChanges, upsert bool) (UpdateOutcome, error)
	Delete(ctx context.Context, id string) (int64, error)
}
