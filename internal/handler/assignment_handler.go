package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/assignment-champs-api/internal/dto"
	"github.com/noah-isme/assignment-champs-api/internal/service"
	"github.com/noah-isme/assignment-champs-api/internal/utils"
)

// AssignmentHandler wires assignment HTTP routes.
type AssignmentHandler struct {
	service service.AssignmentService
	logger  zerolog.Logger
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(service service.AssignmentService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		logger:  logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Routes lists the assignment endpoints.
func (h *AssignmentHandler) Routes() []Route {
	return []Route{
		{Name: "assignments.list", Method: fiber.MethodGet, Path: "/assignments", Handler: h.list},
		{Name: "assignments.count", Method: fiber.MethodGet, Path: "/assignmentCount", Handler: h.count},
		{Name: "assignments.get", Method: fiber.MethodGet, Path: "/assignments/:id", Handler: h.get},
		{Name: "assignments.create", Method: fiber.MethodPost, Path: "/assignment", Handler: h.create},
		{Name: "assignments.update", Method: fiber.MethodPut, Path: "/assignments/:id", Handler: h.update},
		{Name: "assignments.delete", Method: fiber.MethodDelete, Path: "/assignment/:id", Handler: h.delete},
	}
}

func (h *AssignmentHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	assignments, err := h.service.List(c.UserContext(), dto.AssignmentListRequest{
		Page:       page,
		Limit:      limit,
		Difficulty: c.Query("difficulty"),
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if assignments == nil {
		assignments = []dto.AssignmentResponse{}
	}

	return utils.SendJSON(c, fiber.StatusOK, assignments)
}

func (h *AssignmentHandler) count(c *fiber.Ctx) error {
	total, err := h.service.Count(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, total)
}

func (h *AssignmentHandler) get(c *fiber.Ctx) error {
	assignment, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	// An absent assignment is rendered as JSON null.
	return utils.SendJSON(c, fiber.StatusOK, assignment)
}

func (h *AssignmentHandler) create(c *fiber.Ctx) error {
	var payload dto.AssignmentCreateRequest
	if err := decodeBody(c, schemaAssignmentCreate, &payload); err != nil {
		return respondError(c, h.logger, err)
	}

	result, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusCreated, result)
}

func (h *AssignmentHandler) update(c *fiber.Ctx) error {
	var payload dto.AssignmentUpdateRequest
	if err := decodeBody(c, schemaAssignmentUpdate, &payload); err != nil {
		return respondError(c, h.logger, err)
	}

	result, err := h.service.Update(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, result)
}

func (h *AssignmentHandler) delete(c *fiber.Ctx) error {
	result, err := h.service.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, result)
}
