package handlers

import (
	"github.com/castlinked/castlinked-backend/internal/dto"
	"github.com/castlinked/castlinked-backend/internal/models"
	"github.com/castlinked/castlinked-backend/internal/policy"
	"github.com/castlinked/castlinked-backend/internal/principal"
	"github.com/castlinked/castlinked-backend/internal/services"
	"github.com/castlinked/castlinked-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminReportHandler serves the admin console. The admin middleware has
// already authorized the caller, so handlers run with an admin principal
// even when the role was granted via the users table rather than the claim.
type AdminReportHandler struct {
	cases *services.CaseService
}

func NewAdminReportHandler(cases *services.CaseService) *AdminReportHandler {
	return &AdminReportHandler{cases: cases}
}

func (h *AdminReportHandler) adminPrincipal(c *fiber.Ctx) (policy.Principal, error) {
	id, err := principal.UserID(c)
	if err != nil {
		return policy.Principal{}, err
	}
	return policy.Principal{ID: id, Admin: true}, nil
}

func (h *AdminReportHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	filters := store.AdminFilters{
		Status:     models.CaseStatus(c.Query("status", "")),
		Priority:   models.CasePriority(c.Query("priority", "")),
		Category:   models.ReportCategory(c.Query("category", "")),
		ReportType: models.ReportType(c.Query("type", "")),
		Limit:      limit,
		Offset:     offset,
	}

	resp, err := h.cases.AdminList(filters)
	if err != nil {
		return caseError(c, err)
	}
	return c.JSON(resp)
}

func (h *AdminReportHandler) Get(c *fiber.Ctx) error {
	p, err := h.adminPrincipal(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	caseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid case ID",
		})
	}

	view, err := h.cases.GetByID(caseID, p)
	if err != nil {
		return caseError(c, err)
	}
	return c.JSON(view)
}

func (h *AdminReportHandler) SetStatus(c *fiber.Ctx) error {
	p, caseID, ok := h.parse(c)
	if !ok {
		return nil
	}

	var req dto.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	view, err := h.cases.SetStatus(caseID, models.CaseStatus(req.Status), req.Note, p.ID)
	if err != nil {
		return caseError(c, err)
	}
	return c.JSON(view)
}

func (h *AdminReportHandler) SetPriority(c *fiber.Ctx) error {
	p, caseID, ok := h.parse(c)
	if !ok {
		return nil
	}

	var req dto.SetPriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	view, err := h.cases.SetPriority(caseID, models.CasePriority(req.Priority), p.ID)
	if err != nil {
		return caseError(c, err)
	}
	return c.JSON(view)
}

func (h *AdminReportHandler) AddNote(c *fiber.Ctx) error {
	p, caseID, ok := h.parse(c)
	if !ok {
		return nil
	}

	var req dto.AddNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	view, err := h.cases.AddNote(caseID, req.Note, p.ID)
	if err != nil {
		return caseError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (h *AdminReportHandler) Resolve(c *fiber.Ctx) error {
	p, caseID, ok := h.parse(c)
	if !ok {
		return nil
	}

	var req dto.ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	view, err := h.cases.Resolve(caseID, models.ResolutionAction(req.Action), req.Details, p.ID)
	if err != nil {
		return caseError(c, err)
	}
	return c.JSON(view)
}

func (h *AdminReportHandler) PostMessage(c *fiber.Ctx) error {
	p, caseID, ok := h.parse(c)
	if !ok {
		return nil
	}

	var req dto.PostMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	msg, err := h.cases.PostMessage(caseID, p, req.Content, req.ParticipantID)
	if err != nil {
		return caseError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// parse extracts the admin principal and case id, writing the error response
// itself when either is invalid.
func (h *AdminReportHandler) parse(c *fiber.Ctx) (policy.Principal, uuid.UUID, bool) {
	p, err := h.adminPrincipal(c)
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
		return policy.Principal{}, uuid.Nil, false
	}

	caseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid case ID",
		})
		return policy.Principal{}, uuid.Nil, false
	}
	return p, caseID, true
}
