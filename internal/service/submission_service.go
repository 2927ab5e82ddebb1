package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/assignment-champs-api/internal/dto"
	"github.com/noah-isme/assignment-champs-api/internal/models"
	"github.com/noah-isme/assignment-champs-api/internal/repository"
	"github.com/noah-isme/assignment-champs-api/pkg/broker"
)

// SubmissionService orchestrates submission workflows.
type SubmissionService interface {
	List(ctx context.Context, callerEmail string, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
	Create(ctx context.Context, payload dto.SubmissionCreateRequest) (dto.InsertResponse, error)
	Grade(ctx context.Context, id string, payload dto.SubmissionGradeRequest) (dto.UpdateResponse, error)
}

// SubmissionServiceOptions tunes store behaviour.
type SubmissionServiceOptions struct {
	UpsertOnMissing bool
	StoreTimeout    time.Duration
	Events          EventPublisher
}

type submissionService struct {
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	opts        SubmissionServiceOptions
	events      EventPublisher
	sanitizer   *bluemonday.Policy
	tracer      trace.Tracer
	logger      zerolog.Logger
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(repo repository.SubmissionRepository, validate *validator.Validate, opts SubmissionServiceOptions, logger zerolog.Logger) SubmissionService {
	events := opts.Events
	if events == nil {
		events = NopPublisher{}
	}

	return &submissionService{
		submissions: repo,
		validator:   validate,
		opts:        opts,
		events:      events,
		sanitizer:   bluemonday.UGCPolicy(),
		tracer:      otel.Tracer("github.com/noah-isme/assignment-champs-api/internal/service/submission"),
		logger:      logger.With().Str("component", "submission_service").Logger(),
	}
}

// List returns submissions matching the optional filters. A submitBy filter
// must name the caller; listing without it is left to graders.
func (s *submissionService) List(ctx context.Context, callerEmail string, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	if filter.SubmitBy != nil && strings.TrimSpace(*filter.SubmitBy) != strings.TrimSpace(callerEmail) {
		s.logger.Warn().Str("caller", callerEmail).Str("submit_by", *filter.SubmitBy).Msg("submission list outside caller scope")
		return nil, ErrForbiddenScope
	}

	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "submissions.list")
	defer span.End()

	ctx, cancel := withStoreTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{
		Status:   filter.Status,
		SubmitBy: filter.SubmitBy,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return submissions, nil
}

func (s *submissionService) Create(ctx context.Context, payload dto.SubmissionCreateRequest) (dto.InsertResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.InsertResponse{}, err
	}

	ctx, span := s.tracer.Start(ctx, "submissions.create", trace.WithAttributes(
		attribute.String("submission.assignment_id", payload.AssignmentID),
	))
	defer span.End()

	status := payload.Status
	if status == "" {
		status = models.SubmissionStatusPending
	}

	submission := models.Submission{
		AssignmentID:    payload.AssignmentID,
		AssignmentTitle: payload.AssignmentTitle,
		Marks:           payload.Marks,
		SubmitBy:        payload.SubmitBy,
		SubmitterName:   payload.SubmitterName,
		Content:         payload.Content,
		Note:            cleanText(s.sanitizer, payload.Note),
		Status:          status,
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	if err := s.submissions.Create(storeCtx, &submission); err != nil {
		span.RecordError(err)
		return dto.InsertResponse{}, err
	}

	s.publish(ctx, broker.EventSubmissionCreated, submission.ID, submission.SubmitBy)
	s.logger.Info().Str("submission_id", submission.ID).Str("assignment_id", submission.AssignmentID).Msg("submission created")

	return dto.InsertResponse{Acknowledged: true, InsertedID: submission.ID}, nil
}

func (s *submissionService) Grade(ctx context.Context, id string, payload dto.SubmissionGradeRequest) (dto.UpdateResponse, error) {
	if err := validateObjectID(id); err != nil {
		return dto.UpdateResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.UpdateResponse{}, err
	}

	status := payload.Status
	if status == "" {
		status = models.SubmissionStatusCompleted
	}

	grade := models.Grade{
		GivenMark: *payload.GivenMark,
		Feedback:  cleanText(s.sanitizer, payload.Feedback),
		MarkBy:    payload.MarkBy,
		Status:    status,
	}

	ctx, span := s.tracer.Start(ctx, "submissions.grade", trace.WithAttributes(attribute.String("submission.id", id)))
	defer span.End()

	storeCtx, cancel := withStoreTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	outcome, err := s.submissions.Grade(storeCtx, id, grade, s.opts.UpsertOnMissing)
	if err != nil {
		span.RecordError(err)
		return dto.UpdateResponse{}, err
	}

	if outcome.MatchedCount == 0 && outcome.UpsertedID == "" {
		return dto.UpdateResponse{}, ErrSubmissionNotFound
	}

	if outcome.UpsertedID != "" {
		s.logger.Warn().Str("requested_id", id).Str("upserted_id", outcome.UpsertedID).Msg("grade inserted a new submission")
	} else {
		s.logger.Info().Str("submission_id", id).Str("mark_by", grade.MarkBy).Msg("submission graded")
	}
	s.publish(ctx, broker.EventSubmissionGraded, id, grade.MarkBy)

	return newUpdateResponse(outcome), nil
}

func (s *submissionService) publish(ctx context.Context, eventType, id, actor string) {
	if err := s.events.Publish(ctx, broker.NewEvent(eventType, id, actor)); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}
