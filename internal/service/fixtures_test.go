package service

import (
	"context"
	"io"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/noah-isme/assignment-champs-api/internal/models"
	"github.com/noah-isme/assignment-champs-api/internal/repository"
	"github.com/noah-isme/assignment-champs-api/pkg/broker"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

type memoryAssignmentRepo struct {
	order       []string
	assignments map[string]models.Assignment
}

func newMemoryAssignmentRepo() *memoryAssignmentRepo {
	return &memoryAssignmentRepo{assignments: make(map[string]models.Assignment)}
}

func (m *memoryAssignmentRepo) List(ctx context.Context, filter repository.AssignmentFilter) ([]models.Assignment, error) {
	results := make([]models.Assignment, 0, len(m.order))
	for _, id := range m.order {
		assignment := m.assignments[id]
		if filter.Difficulty != "" && assignment.Difficulty != filter.Difficulty {
			continue
		}
		results = append(results, assignment)
	}

	if filter.Limit > 0 {
		start := filter.Skip()
		if start >= len(results) {
			return []models.Assignment{}, nil
		}
		end := start + filter.Limit
		if end > len(results) {
			end = len(results)
		}
		results = results[start:end]
	}
	return results, nil
}

func (m *memoryAssignmentRepo) EstimatedCount(ctx context.Context) (int64, error) {
	return int64(len(m.assignments)), nil
}

func (m *memoryAssignmentRepo) GetByID(ctx context.Context, id string) (models.Assignment, error) {
	assignment, ok := m.assignments[id]
	if !ok {
		return models.Assignment{}, repository.ErrNotFound
	}
	return assignment, nil
}

func (m *memoryAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	assignment.ID = primitive.NewObjectID().Hex()
	m.assignments[assignment.ID] = *assignment
	m.order = append(m.order, assignment.ID)
	return nil
}

func (m *memoryAssignmentRepo) Update(ctx context.Context, id string, changes models.AssignmentChanges, upsert bool) (repository.UpdateOutcome, error) {
	assignment, ok := m.assignments[id]
	if ok {
		changes.Apply(&assignment)
		m.assignments[id] = assignment
		return repository.UpdateOutcome{MatchedCount: 1, ModifiedCount: 1}, nil
	}
	if !upsert {
		return repository.UpdateOutcome{}, nil
	}

	created := models.Assignment{}
	changes.Apply(&created)
	if err := m.Create(ctx, &created); err != nil {
		return repository.UpdateOutcome{}, err
	}
	return repository.UpdateOutcome{UpsertedID: created.ID}, nil
}

func (m *memoryAssignmentRepo) Delete(ctx context.Context, id string) (int64, error) {
	if _, ok := m.assignments[id]; !ok {
		return 0, nil
	}
	delete(m.assignments, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

type memorySubmissionRepo struct {
	order       []string
	submissions map[string]models.Submission
}

func newMemorySubmissionRepo() *memorySubmissionRepo {
	return &memorySubmissionRepo{submissions: make(map[string]models.Submission)}
}

func (m *memorySubmissionRepo) List(ctx context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	results := make([]models.Submission, 0, len(m.order))
	for _, id := range m.order {
		submission := m.submissions[id]
		if filter.Status != nil && submission.Status != *filter.Status {
			continue
		}
		if filter.SubmitBy != nil && submission.SubmitBy != *filter.SubmitBy {
			continue
		}
		results = append(results, submission)
	}
	return results, nil
}

func (m *memorySubmissionRepo) GetByID(ctx context.Context, id string) (models.Submission, error) {
	submission, ok := m.submissions[id]
	if !ok {
		return models.Submission{}, repository.ErrNotFound
	}
	return submission, nil
}

func (m *memorySubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	submission.ID = primitive.NewObjectID().Hex()
	m.submissions[submission.ID] = *submission
	m.order = append(m.order, submission.ID)
	return nil
}

func (m *memorySubmissionRepo) Grade(ctx context.Context, id string, grade models.Grade, upsert bool) (repository.UpdateOutcome, error) {
	mark := grade.GivenMark
	submission, ok := m.submissions[id]
	if ok {
		submission.GivenMark = &mark
		submission.Feedback = grade.Feedback
		submission.MarkBy = grade.MarkBy
		submission.Status = grade.Status
		m.submissions[id] = submission
		return repository.UpdateOutcome{MatchedCount: 1, ModifiedCount: 1}, nil
	}
	if !upsert {
		return repository.UpdateOutcome{}, nil
	}

	created := models.Submission{GivenMark: &mark, Feedback: grade.Feedback, MarkBy: grade.MarkBy, Status: grade.Status}
	if err := m.Create(ctx, &created); err != nil {
		return repository.UpdateOutcome{}, err
	}
	return repository.UpdateOutcome{UpsertedID: created.ID}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []broker.Event
}

func (r *recordingPublisher) Publish(_ context.Context, event broker.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, 0, len(r.events))
	for _, event := range r.events {
		types = append(types, event.Type)
	}
	return types
}

func stringPtr(value string) *string {
	return &value
}

func floatPtr(value float64) *float64 {
	return &value
}
