package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/assignment-champs-api/internal/dto"
	"github.com/noah-isme/assignment-champs-api/internal/models"
	"github.com/noah-isme/assignment-champs-api/internal/repository"
	"github.com/noah-isme/assignment-champs-api/pkg/broker"
)

const assignmentCountCacheKey = "assignments:count"

// AssignmentService exposes assignment use cases.
type AssignmentService interface {
	List(ctx context.Context, req dto.AssignmentListRequest) ([]dto.AssignmentResponse, error)
	Count(ctx context.Context) (dto.AssignmentCountResponse, error)
	Get(ctx context.Context, id string) (*dto.AssignmentResponse, error)
	Create(ctx context.Context, payload dto.AssignmentCreateRequest) (dto.InsertResponse, error)
	Update(ctx context.Context, id string, payload dto.AssignmentUpdateRequest) (dto.UpdateResponse, error)
	Delete(ctx context.Context, id string) (dto.DeleteResponse, error)
}

// AssignmentServiceOptions tunes store and cache behaviour.
type AssignmentServiceOptions struct {
	Cache           *redis.Client
	CountCacheTTL   time.Duration
	UpsertOnMissing bool
	StoreTimeout    time.Duration
	Events          EventPublisher
}

type assignmentService struct {
	repo      repository.AssignmentRepository
	validator *validator.Validate
	opts      AssignmentServiceOptions
	events    EventPublisher
	sanitizer *bluemonday.Policy
	tracer    trace.Tracer
	logger    zerolog.Logger
}

// NewAssignmentService builds a new assignment service.
func NewAssignmentService(repo repository.AssignmentRepository, validate *validator.Validate, opts AssignmentServiceOptions, logger zerolog.Logger) AssignmentService {
	events := opts.Events
	if events == nil {
		events = NopPublisher{}
	}

	return &assignmentService{
		repo:      repo,
		validator: validate,
		opts:      opts,
		events:    events,
		sanitizer: bluemonday.UGCPolicy(),
		tracer:    otel.Tracer("github.com/noah-isme/assignment-champs-api/internal/service/assignment"),
		logger:    logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) List(ctx context.Context, req dto.AssignmentListRequest) ([]dto.AssignmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if req.Limit > 0 && req.Page > math.MaxInt/req.Limit {
		return nil, ErrPageOutOfRange
	}

	ctx, span := s.tracer.Start(ctx, "assignments.list", trace.WithAttributes(
		attribute.Int("assignments.page", req.Page),
		attribute.Int("assignments.limit", req.Limit),
		attribute.String("assignments.difficulty", req.Difficulty),
	))
	defer span.End()

	ctx, cancel := withStoreTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	assignments, err := s.repo.List(ctx, repository.AssignmentFilter{
		Difficulty: req.Difficulty,
		Page:       req.Page,
		Limit:      req.Limit,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return assignments, nil
}

func (s *assignmentService) Count(ctx context.Context) (dto.AssignmentCountResponse, error) {
	if s.opts.Cache != nil {
		cached, err := s.opts.Cache.Get(ctx, assignmentCountCacheKey).Result()
		if err == nil {
			if total, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				s.logger.Debug().Int64("total", total).Msg("assignment count cache hit")
				return dto.AssignmentCountResponse{Total: total}, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read assignment count cache")
		}
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	total, err := s.repo.EstimatedCount(storeCtx)
	if err != nil {
		return dto.AssignmentCountResponse{}, err
	}

	if s.opts.Cache != nil && s.opts.CountCacheTTL > 0 {
		if err := s.opts.Cache.Set(ctx, assignmentCountCacheKey, total, s.opts.CountCacheTTL).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to store assignment count cache")
		}
	}

	return dto.AssignmentCountResponse{Total: total}, nil
}

func (s *assignmentService) Get(ctx context.Context, id string) (*dto.AssignmentResponse, error) {
	if err := validateObjectID(id); err != nil {
		return nil, err
	}

	ctx, cancel := withStoreTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &assignment, nil
}

func (s *assignmentService) Create(ctx context.Context, payload dto.AssignmentCreateRequest) (dto.InsertResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.InsertResponse{}, err
	}

	ctx, span := s.tracer.Start(ctx, "assignments.create")
	defer span.End()

	assignment := models.Assignment{
		Title:        payload.Title,
		Description:  cleanText(s.sanitizer, payload.Description),
		Marks:        payload.Marks,
		Difficulty:   payload.Difficulty,
		DueDate:      payload.DueDate,
		Thumbnail:    payload.Thumbnail,
		CreatorEmail: payload.CreatorEmail,
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	if err := s.repo.Create(storeCtx, &assignment); err != nil {
		span.RecordError(err)
		return dto.InsertResponse{}, err
	}

	span.SetAttributes(attribute.String("assignment.id", assignment.ID))
	s.invalidateCount(ctx)
	s.publish(ctx, broker.EventAssignmentPublished, assignment.ID, payload.CreatorEmail)
	s.logger.Info().Str("assignment_id", assignment.ID).Msg("assignment published")

	return dto.InsertResponse{Acknowledged: true, InsertedID: assignment.ID}, nil
}

func (s *assignmentService) Update(ctx context.Context, id string, payload dto.AssignmentUpdateRequest) (dto.UpdateResponse, error) {
	if err := validateObjectID(id); err != nil {
		return dto.UpdateResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.UpdateResponse{}, err
	}

	changes := payload.Changes()
	if changes.IsEmpty() {
		return dto.UpdateResponse{}, ErrEmptyUpdate
	}
	if changes.Description != nil {
		clean := cleanText(s.sanitizer, *changes.Description)
		changes.Description = &clean
	}

	ctx, span := s.tracer.Start(ctx, "assignments.update", trace.WithAttributes(attribute.String("assignment.id", id)))
	defer span.End()

	storeCtx, cancel := withStoreTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	outcome, err := s.repo.Update(storeCtx, id, changes, s.opts.UpsertOnMissing)
	if err != nil {
		span.RecordError(err)
		return dto.UpdateResponse{}, err
	}

	if outcome.MatchedCount == 0 && outcome.UpsertedID == "" {
		return dto.UpdateResponse{}, ErrAssignmentNotFound
	}

	if outcome.UpsertedID != "" {
		s.invalidateCount(ctx)
		s.logger.Warn().Str("requested_id", id).Str("upserted_id", outcome.UpsertedID).Msg("assignment update inserted a new document")
	} else {
		s.logger.Info().Str("assignment_id", id).Msg("assignment updated")
	}
	s.publish(ctx, broker.EventAssignmentUpdated, id, "")

	return newUpdateResponse(outcome), nil
}

func (s *assignmentService) Delete(ctx context.Context, id string) (dto.DeleteResponse, error) {
	if err := validateObjectID(id); err != nil {
		return dto.DeleteResponse{}, err
	}

	ctx, span := s.tracer.Start(ctx, "assignments.delete", trace.WithAttributes(attribute.String("assignment.id", id)))
	defer span.End()

	storeCtx, cancel := withStoreTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	deleted, err := s.repo.Delete(storeCtx, id)
	if err != nil {
		span.RecordError(err)
		return dto.DeleteResponse{}, err
	}

	if deleted > 0 {
		s.invalidateCount(ctx)
		s.publish(ctx, broker.EventAssignmentDeleted, id, "")
		s.logger.Info().Str("assignment_id", id).Msg("assignment deleted")
	}

	return dto.DeleteResponse{Acknowledged: true, DeletedCount: deleted}, nil
}

func (s *assignmentService) invalidateCount(ctx context.Context) {
	if s.opts.Cache == nil {
		return
	}
	if err := s.opts.Cache.Del(ctx, assignmentCountCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate assignment count cache")
	}
}

func (s *assignmentService) publish(ctx context.Context, eventType, id, actor string) {
	if err := s.events.Publish(ctx, broker.NewEvent(eventType, id, actor)); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}
