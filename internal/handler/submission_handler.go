package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/assignment-champs-api/internal/dto"
	"github.com/noah-isme/assignment-champs-api/internal/middleware"
	"github.com/noah-isme/assignment-champs-api/internal/service"
	"github.com/noah-isme/assignment-champs-api/internal/utils"
)

// SubmissionHandler manages submission endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Routes lists the submission endpoints.
func (h *SubmissionHandler) Routes() []Route {
	return []Route{
		{Name: "submissions.list", Method: fiber.MethodGet, Path: "/submitAssignment", Handler: h.list},
		{Name: "submissions.create", Method: fiber.MethodPost, Path: "/submitAssignment", Handler: h.create},
		{Name: "submissions.grade", Method: fiber.MethodPatch, Path: "/submitAssignment/:id", Handler: h.grade},
	}
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	filter := dto.SubmissionFilter{
		Status:   optionalQuery(c, "status"),
		SubmitBy: optionalQuery(c, "submitBy"),
	}

	submissions, err := h.service.List(c.UserContext(), middleware.UserEmail(c), filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if submissions == nil {
		submissions = []dto.SubmissionResponse{}
	}

	return utils.SendJSON(c, fiber.StatusOK, submissions)
}

func (h *SubmissionHandler) create(c *fiber.Ctx) error {
	var payload dto.SubmissionCreateRequest
	if err := decodeBody(c, schemaSubmissionCreate, &payload); err != nil {
		return respondError(c, h.logger, err)
	}

	result, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusCreated, result)
}

func (h *SubmissionHandler) grade(c *fiber.Ctx) error {
	var payload dto.SubmissionGradeRequest
	if err := decodeBody(c, schemaSubmissionGrade, &payload); err != nil {
		return respondError(c, h.logger, err)
	}

	result, err := h.service.Grade(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, result)
}
