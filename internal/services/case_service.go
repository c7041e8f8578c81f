package services

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/castlinked/castlinked-backend/internal/dto"
	"github.com/castlinked/castlinked-backend/internal/models"
	"github.com/castlinked/castlinked-backend/internal/policy"
	"github.com/castlinked/castlinked-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxEvidenceItems = 5
	maxTitleLen      = 200

	EventStatusChanged = "report_status_changed"
	EventResolved      = "report_resolved"
	EventNewMessage    = "report_new_message"
)

// UserDirectory resolves user ids to display data for case enrichment.
type UserDirectory interface {
	Resolve(id uuid.UUID) (*dto.PartyView, error)
}

// ContentResolver resolves reported content references to display summaries.
type ContentResolver interface {
	Resolve(kind, id string) (*dto.ContentView, error)
}

// Notifier enqueues a user-facing event. Best-effort: implementations log
// failures, and the case service never lets one fail a mutation.
type Notifier interface {
	Notify(userID uuid.UUID, event string, payload map[string]interface{}) error
}

// CaseService is the public surface of case management. It composes the
// access policy, lifecycle engine, thread manager and case store; the HTTP
// layer calls nothing below it.
type CaseService struct {
	cases     *store.CaseStore
	lifecycle *Lifecycle
	thread    *ThreadManager
	users     UserDirectory
	content   ContentResolver
	notifier  Notifier
}

func NewCaseService(cases *store.CaseStore, users UserDirectory, content ContentResolver, notifier Notifier) *CaseService {
	return &CaseService{
		cases:     cases,
		lifecycle: NewLifecycle(cases),
		thread:    NewThreadManager(cases),
		users:     users,
		content:   content,
		notifier:  notifier,
	}
}

// ValidateFiling checks a filing request before any evidence upload happens,
// so invalid requests never hit file storage. evidenceCount covers uploaded
// files plus inline links.
func (s *CaseService) ValidateFiling(reporterID uuid.UUID, req *dto.FileReportRequest, evidenceCount int) error {
	if !models.ReportType(req.ReportType).Valid() {
		return invalidField("report_type", "unknown report type")
	}
	if !models.ReportCategory(req.Category).Valid() {
		return invalidField("category", "unknown report category")
	}
	if strings.TrimSpace(req.Title) == "" {
		return invalidField("title", "title is required")
	}
	if len(req.Title) > maxTitleLen {
		return invalidField("title", "title is too long")
	}
	if strings.TrimSpace(req.Description) == "" {
		return invalidField("description", "description is required")
	}
	if req.TargetID != nil && *req.TargetID == reporterID {
		return invalidField("target_id", "you cannot report yourself")
	}
	if evidenceCount > maxEvidenceItems {
		return invalidField("evidence", "at most 5 evidence items are allowed")
	}
	for _, link := range req.Links {
		if strings.TrimSpace(link.URL) == "" {
			return invalidField("links", "evidence link url is required")
		}
	}
	return nil
}

// FileReport creates a new case with status pending and priority medium,
// assigning the next case number. uploads are evidence items already stored
// by the file-storage collaborator.
func (s *CaseService) FileReport(reporterID uuid.UUID, req *dto.FileReportRequest, uploads []models.Evidence) (*dto.CaseView, error) {
	if err := s.ValidateFiling(reporterID, req, len(uploads)+len(req.Links)); err != nil {
		return nil, err
	}

	report := &models.Report{
		ID:          uuid.New(),
		ReporterID:  reporterID,
		TargetID:    req.TargetID,
		TargetKind:  req.TargetKind,
		ReportType:  models.ReportType(req.ReportType),
		ContentKind: req.ContentKind,
		ContentID:   req.ContentID,
		Category:    models.ReportCategory(req.Category),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Status:      models.StatusPending,
		Priority:    models.PriorityMedium,
	}
	if report.TargetID != nil && report.TargetKind == nil {
		kind := "user"
		report.TargetKind = &kind
	}

	position := 0
	for _, up := range uploads {
		up.ID = uuid.New()
		up.ReportID = report.ID
		up.Position = position
		report.Evidence = append(report.Evidence, up)
		position++
	}
	for _, link := range req.Links {
		report.Evidence = append(report.Evidence, models.Evidence{
			ID:          uuid.New(),
			ReportID:    report.ID,
			Type:        models.EvidenceLink,
			URL:         strings.TrimSpace(link.URL),
			Description: link.Description,
			Position:    position,
		})
		position++
	}

	if err := s.cases.Create(report); err != nil {
		return nil, err
	}

	slog.Info("report case filed",
		"case_number", report.CaseNumber,
		"category", report.Category,
		"report_type", report.ReportType)

	return s.view(report, policy.RoleReporter), nil
}

// GetByID returns the case as seen by the principal. Denied principals get
// the same not-found error as a missing case.
func (s *CaseService) GetByID(caseID uuid.UUID, p policy.Principal) (*dto.CaseView, error) {
	report, err := s.load(caseID)
	if err != nil {
		return nil, err
	}
	role := policy.RoleFor(report, p)
	if role == policy.RoleDenied {
		return nil, ErrCaseNotFound
	}
	return s.view(report, role), nil
}

// ListMine returns cases the user filed, in reporter view.
func (s *CaseService) ListMine(userID uuid.UUID, limit, offset int) (*dto.CaseListResponse, error) {
	reports, total, err := s.cases.ListByReporter(userID, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	return s.listResponse(reports, total, limit, offset, policy.RoleReporter), nil
}

// ListAgainstMe returns cases naming the user as target, in target view.
func (s *CaseService) ListAgainstMe(userID uuid.UUID, limit, offset int) (*dto.CaseListResponse, error) {
	reports, total, err := s.cases.ListByTarget(userID, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	return s.listResponse(reports, total, limit, offset, policy.RoleTarget), nil
}

// ListAgainstUser returns cases naming the given user as target. Admins get
// the admin view of any user's cases; a non-admin may only ask about
// themselves.
func (s *CaseService) ListAgainstUser(targetID uuid.UUID, p policy.Principal, limit, offset int) (*dto.CaseListResponse, error) {
	role := policy.RoleTarget
	switch {
	case p.Admin:
		role = policy.RoleAdmin
	case p.ID != targetID:
		return nil, ErrForbidden
	}

	reports, total, err := s.cases.ListByTarget(targetID, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	return s.listResponse(reports, total, limit, offset, role), nil
}

// AdminList returns the filtered platform-wide listing in admin view.
func (s *CaseService) AdminList(f store.AdminFilters) (*dto.CaseListResponse, error) {
	f.Limit = normalizeLimit(f.Limit)
	reports, total, err := s.cases.AdminList(f)
	if err != nil {
		return nil, err
	}
	return s.listResponse(reports, total, f.Limit, f.Offset, policy.RoleAdmin), nil
}

// StatsOverview aggregates counters for the principal. Admins additionally
// get platform-wide totals and breakdown.
func (s *CaseService) StatsOverview(p policy.Principal) (*dto.StatsOverview, error) {
	filed, err := s.cases.CountFiledBy(p.ID)
	if err != nil {
		return nil, err
	}
	against, err := s.cases.CountAgainst(p.ID)
	if err != nil {
		return nil, err
	}

	overview := &dto.StatsOverview{
		FiledByMe:      filed,
		FiledAgainstMe: against,
	}

	if p.Admin {
		breakdown, err := s.cases.StatusBreakdown(nil)
		if err != nil {
			return nil, err
		}
		total, err := s.cases.CountAll()
		if err != nil {
			return nil, err
		}
		overview.ByStatus = breakdown
		overview.PlatformTotal = &total
		return overview, nil
	}

	breakdown, err := s.cases.StatusBreakdown(&p.ID)
	if err != nil {
		return nil, err
	}
	overview.ByStatus = breakdown
	return overview, nil
}

// SetStatus is admin-only; authorization happens at the HTTP boundary.
func (s *CaseService) SetStatus(caseID uuid.UUID, status models.CaseStatus, note string, actorID uuid.UUID) (*dto.CaseView, error) {
	report, err := s.lifecycle.SetStatus(caseID, status, note, actorID)
	if err != nil {
		return nil, err
	}
	s.notifyParties(report, EventStatusChanged)
	return s.view(report, policy.RoleAdmin), nil
}

func (s *CaseService) SetPriority(caseID uuid.UUID, priority models.CasePriority, actorID uuid.UUID) (*dto.CaseView, error) {
	report, err := s.lifecycle.SetPriority(caseID, priority, actorID)
	if err != nil {
		return nil, err
	}
	return s.view(report, policy.RoleAdmin), nil
}

func (s *CaseService) AddNote(caseID uuid.UUID, text string, actorID uuid.UUID) (*dto.CaseView, error) {
	report, err := s.lifecycle.AddNote(caseID, text, actorID)
	if err != nil {
		return nil, err
	}
	return s.view(report, policy.RoleAdmin), nil
}

func (s *CaseService) Resolve(caseID uuid.UUID, action models.ResolutionAction, details string, actorID uuid.UUID) (*dto.CaseView, error) {
	report, err := s.lifecycle.Resolve(caseID, action, details, actorID)
	if err != nil {
		return nil, err
	}
	s.notifyParties(report, EventResolved)
	return s.view(report, policy.RoleAdmin), nil
}

// PostMessage appends to a sub-thread on behalf of the actor and notifies
// the counterpart when an admin replies.
func (s *CaseService) PostMessage(caseID uuid.UUID, actor policy.Principal, content string, counterpart *uuid.UUID) (*dto.MessageView, error) {
	msg, err := s.thread.PostMessage(caseID, actor, content, counterpart)
	if err != nil {
		return nil, err
	}

	if msg.SenderRole == models.SenderAdmin {
		s.notify(msg.ParticipantID, EventNewMessage, map[string]interface{}{
			"case_id": caseID.String(),
		})
	}

	view := dto.MessageView{
		ID:            msg.ID,
		SenderRole:    msg.SenderRole,
		SenderID:      msg.SenderID,
		ParticipantID: msg.ParticipantID,
		Content:       msg.Content,
		CreatedAt:     msg.CreatedAt,
	}
	return &view, nil
}

func (s *CaseService) load(caseID uuid.UUID) (*models.Report, error) {
	report, err := s.cases.GetByID(caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	return report, nil
}

func (s *CaseService) listResponse(reports []models.Report, total int64, limit, offset int, role policy.Role) *dto.CaseListResponse {
	views := make([]dto.CaseView, 0, len(reports))
	for i := range reports {
		if v := s.view(&reports[i], role); v != nil {
			views = append(views, *v)
		}
	}
	return &dto.CaseListResponse{
		Cases:  views,
		Total:  total,
		Limit:  normalizeLimit(limit),
		Offset: offset,
	}
}

// view projects and enriches a case for the given role. Enrichment is
// display sugar: lookup failures degrade to an unenriched view, never to a
// failed request.
func (s *CaseService) view(report *models.Report, role policy.Role) *dto.CaseView {
	v := policy.Project(report, role)
	if v == nil {
		return nil
	}

	admin := role == policy.RoleAdmin

	if admin {
		v.Reporter = s.resolveParty(report.ReporterID, true)
	}
	if (admin || role == policy.RoleReporter) && report.TargetID != nil {
		v.Target = s.resolveParty(*report.TargetID, admin)
	}
	if report.ContentKind != nil && report.ContentID != nil && s.content != nil {
		content, err := s.content.Resolve(*report.ContentKind, *report.ContentID)
		if err != nil {
			slog.Warn("content lookup failed", "kind", *report.ContentKind, "error", err)
		} else {
			v.Content = content
		}
	}
	return v
}

func (s *CaseService) resolveParty(id uuid.UUID, withEmail bool) *dto.PartyView {
	if s.users == nil {
		return nil
	}
	party, err := s.users.Resolve(id)
	if err != nil {
		slog.Warn("user lookup failed", "user_id", id.String(), "error", err)
		return nil
	}
	if !withEmail {
		party.Email = ""
	}
	return party
}

func (s *CaseService) notifyParties(report *models.Report, event string) {
	payload := map[string]interface{}{
		"case_id":     report.ID.String(),
		"case_number": report.CaseNumber,
		"status":      string(report.Status),
	}
	s.notify(report.ReporterID, event, payload)
	if report.TargetID != nil {
		s.notify(*report.TargetID, event, payload)
	}
}

func (s *CaseService) notify(userID uuid.UUID, event string, payload map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(userID, event, payload); err != nil {
		slog.Error("notification enqueue failed", "event", event, "user_id", userID.String(), "error", err)
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
