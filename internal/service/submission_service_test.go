package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/noah-isme/assignment-champs-api/internal/dto"
	"github.com/noah-isme/assignment-champs-api/internal/models"
	"github.com/noah-isme/assignment-champs-api/pkg/broker"
)

func newTestSubmission(submitBy string) dto.SubmissionCreateRequest {
	return dto.SubmissionCreateRequest{
		AssignmentID:    primitive.NewObjectID().Hex(),
		AssignmentTitle: "Linked lists",
		Marks:           20,
		SubmitBy:        submitBy,
		SubmitterName:   "Student",
		Content:         "https://github.com/student/linked-lists",
		Note:            "Please check the edge cases",
	}
}

func TestSubmissionServiceCreateDefaultsToPending(t *testing.T) {
	repo := newMemorySubmissionRepo()
	events := &recordingPublisher{}
	svc := NewSubmissionService(repo, testValidator(), SubmissionServiceOptions{Events: events}, testLogger())

	result, err := svc.Create(context.Background(), newTestSubmission("student@example.com"))
	require.NoError(t, err)
	require.True(t, result.Acknowledged)

	stored := repo.submissions[result.InsertedID]
	require.Equal(t, models.SubmissionStatusPending, stored.Status)
	require.Equal(t, []string{broker.EventSubmissionCreated}, events.types())
}

func TestSubmissionServiceCreateRequiresContent(t *testing.T) {
	svc := NewSubmissionService(newMemorySubmissionRepo(), testValidator(), SubmissionServiceOptions{}, testLogger())

	payload := newTestSubmission("student@example.com")
	payload.Content = ""

	_, err := svc.Create(context.Background(), payload)
	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
}

func TestSubmissionServiceListScopesToCaller(t *testing.T) {
	repo := newMemorySubmissionRepo()
	svc := NewSubmissionService(repo, testValidator(), SubmissionServiceOptions{}, testLogger())

	for _, email := range []string{"ana@example.com", "ana@example.com", "ben@example.com"} {
		_, err := svc.Create(context.Background(), newTestSubmission(email))
		require.NoError(t, err)
	}

	own, err := svc.List(context.Background(), "ana@example.com", dto.SubmissionFilter{SubmitBy: stringPtr("ana@example.com")})
	require.NoError(t, err)
	require.Len(t, own, 2)

	_, err = svc.List(context.Background(), "ana@example.com", dto.SubmissionFilter{SubmitBy: stringPtr("ben@example.com")})
	require.ErrorIs(t, err, ErrForbiddenScope)

	_, err = svc.List(context.Background(), "", dto.SubmissionFilter{SubmitBy: stringPtr("ben@example.com")})
	require.ErrorIs(t, err, ErrForbiddenScope)

	pending, err := svc.List(context.Background(), "ana@example.com", dto.SubmissionFilter{Status: stringPtr(models.SubmissionStatusPending)})
	require.NoError(t, err)
	require.Len(t, pending, 3)
}

func TestSubmissionServiceGrade(t *testing.T) {
	repo := newMemorySubmissionRepo()
	events := &recordingPublisher{}
	svc := NewSubmissionService(repo, testValidator(), SubmissionServiceOptions{Events: events}, testLogger())

	created, err := svc.Create(context.Background(), newTestSubmission("student@example.com"))
	require.NoError(t, err)

	result, err := svc.Grade(context.Background(), created.InsertedID, dto.SubmissionGradeRequest{
		GivenMark: floatPtr(18),
		Feedback:  "Solid work",
		MarkBy:    "grader@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), result.MatchedCount)

	stored := repo.submissions[created.InsertedID]
	require.True(t, stored.IsCompleted())
	require.NotNil(t, stored.GivenMark)
	require.Equal(t, 18.0, *stored.GivenMark)
	require.Equal(t, "grader@example.com", stored.MarkBy)
	require.Equal(t, []string{broker.EventSubmissionCreated, broker.EventSubmissionGraded}, events.types())
}

func TestSubmissionServiceGradeMissingSubmission(t *testing.T) {
	payload := dto.SubmissionGradeRequest{GivenMark: floatPtr(10), MarkBy: "grader@example.com"}

	svc := NewSubmissionService(newMemorySubmissionRepo(), testValidator(), SubmissionServiceOptions{}, testLogger())
	_, err := svc.Grade(context.Background(), primitive.NewObjectID().Hex(), payload)
	require.ErrorIs(t, err, ErrSubmissionNotFound)

	_, err = svc.Grade(context.Background(), "bogus", payload)
	require.ErrorIs(t, err, ErrInvalidIdentifier)

	upserting := NewSubmissionService(newMemorySubmissionRepo(), testValidator(), SubmissionServiceOptions{UpsertOnMissing: true}, testLogger())
	result, err := upserting.Grade(context.Background(), primitive.NewObjectID().Hex(), payload)
	require.NoError(t, err)
	require.Equal(t, int64(1), result.UpsertedCount)
	require.NotNil(t, result.UpsertedID)
}

func TestSubmissionServiceGradeRequiresMark(t *testing.T) {
	svc := NewSubmissionService(newMemorySubmissionRepo(), testValidator(), SubmissionServiceOptions{}, testLogger())

	_, err := svc.Grade(context.Background(), primitive.NewObjectID().Hex(), dto.SubmissionGradeRequest{MarkBy: "grader@example.com"})
	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
}
