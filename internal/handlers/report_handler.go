package handlers

import (
	"encoding/json"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/castlinked/castlinked-backend/internal/config"
	"github.com/castlinked/castlinked-backend/internal/dto"
	"github.com/castlinked/castlinked-backend/internal/models"
	"github.com/castlinked/castlinked-backend/internal/principal"
	"github.com/castlinked/castlinked-backend/internal/services"
	"github.com/castlinked/castlinked-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportHandler struct {
	cases    *services.CaseService
	evidence storage.EvidenceStore
	cfg      *config.Config
}

func NewReportHandler(cases *services.CaseService, evidence storage.EvidenceStore, cfg *config.Config) *ReportHandler {
	return &ReportHandler{cases: cases, evidence: evidence, cfg: cfg}
}

// FileReport accepts either a JSON body or a multipart form with a "payload"
// JSON part plus up to five "evidence" file parts. Files are uploaded before
// the case is written; any upload failure aborts the filing.
func (h *ReportHandler) FileReport(c *fiber.Ctx) error {
	reporterID, err := principal.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.FileReportRequest
	var files []*multipart.FileHeader

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid multipart form",
			})
		}
		payload := c.FormValue("payload")
		if payload == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Missing payload field", Field: "payload",
			})
		}
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid payload JSON", Field: "payload",
			})
		}
		files = form.File["evidence"]
	} else if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	// Validate before touching file storage so bad requests upload nothing.
	if err := h.cases.ValidateFiling(reporterID, &req, len(files)+len(req.Links)); err != nil {
		return caseError(c, err)
	}

	uploads, err := h.uploadEvidence(c, files)
	if err != nil {
		return caseError(c, err)
	}

	view, err := h.cases.FileReport(reporterID, &req, uploads)
	if err != nil {
		return caseError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (h *ReportHandler) uploadEvidence(c *fiber.Ctx, files []*multipart.FileHeader) ([]models.Evidence, error) {
	uploads := make([]models.Evidence, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			return nil, services.ErrUpstream
		}
		contentType := header.Header.Get("Content-Type")
		url, storedName, err := h.evidence.Store(c.Context(), file, header.Filename, contentType)
		file.Close()
		if err != nil {
			return nil, services.ErrUpstream
		}
		uploads = append(uploads, models.Evidence{
			Type:     evidenceTypeFor(contentType),
			URL:      url,
			Filename: storedName,
		})
	}
	return uploads, nil
}

func evidenceTypeFor(contentType string) models.EvidenceType {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.EvidenceImage
	case contentType == "application/pdf",
		strings.HasPrefix(contentType, "text/"),
		strings.Contains(contentType, "document"):
		return models.EvidenceDocument
	}
	return models.EvidenceFile
}

func (h *ReportHandler) ListMine(c *fiber.Ctx) error {
	userID, err := principal.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	limit, offset := pagination(c)
	resp, err := h.cases.ListMine(userID, limit, offset)
	if err != nil {
		return caseError(c, err)
	}
	return c.JSON(resp)
}

func (h *ReportHandler) ListAgainstMe(c *fiber.Ctx) error {
	userID, err := principal.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	limit, offset := pagination(c)
	resp, err := h.cases.ListAgainstMe(userID, limit, offset)
	if err != nil {
		return caseError(c, err)
	}
	return c.JSON(resp)
}

// ListAgainstUser serves the per-target listing. Non-admins may only query
// their own id.
func (h *ReportHandler) ListAgainstUser(c *fiber.Ctx) error {
	p, err := principal.FromCtx(c, h.cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	limit, offset := pagination(c)
	resp, err := h.cases.ListAgainstUser(targetID, p, limit, offset)
	if err != nil {
		return caseError(c, err)
	}
	return c.JSON(resp)
}

func (h *ReportHandler) GetByID(c *fiber.Ctx) error {
	p, err := principal.FromCtx(c, h.cfg)
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

func (h *ReportHandler) PostMessage(c *fiber.Ctx) error {
	p, err := principal.FromCtx(c, h.cfg)
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

func (h *ReportHandler) StatsOverview(c *fiber.Ctx) error {
	p, err := principal.FromCtx(c, h.cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	stats, err := h.cases.StatsOverview(p)
	if err != nil {
		return caseError(c, err)
	}
	return c.JSON(stats)
}

func pagination(c *fiber.Ctx) (int, int) {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 100 {
		limit = 100
	}
	return limit, offset
}
