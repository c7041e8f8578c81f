package dto

import (
	"time"

	"github.com/castlinked/castlinked-backend/internal/models"
	"github.com/google/uuid"
)

// FileReportRequest is the JSON part of a report filing. Uploaded evidence
// files arrive as multipart parts alongside it; link evidence may be
// submitted inline.
type FileReportRequest struct {
	ReportType  string          `json:"report_type"`
	Category    string          `json:"category"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	TargetID    *uuid.UUID      `json:"target_id,omitempty"`
	TargetKind  *string         `json:"target_kind,omitempty"`
	ContentKind *string         `json:"content_kind,omitempty"`
	ContentID   *string         `json:"content_id,omitempty"`
	Links       []EvidenceInput `json:"links,omitempty"`
}

// EvidenceInput is an inline (link-type) evidence item.
type EvidenceInput struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// SetStatusRequest moves a case to a new status. The optional note is
// appended to the audit trail alongside the status_change entry.
type SetStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

type SetPriorityRequest struct {
	Priority string `json:"priority"`
}

type AddNoteRequest struct {
	Note string `json:"note"`
}

type ResolveRequest struct {
	Action  string `json:"action"`
	Details string `json:"details"`
}

// PostMessageRequest posts into a case sub-thread. ParticipantID selects the
// counterpart sub-thread and is required for admin senders only.
type PostMessageRequest struct {
	Content       string     `json:"content"`
	ParticipantID *uuid.UUID `json:"participant_id,omitempty"`
}

// PartyView is the redacted user info attached to case responses.
type PartyView struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email,omitempty"`
}

// ContentView is the resolved summary of a reported piece of content.
type ContentView struct {
	Kind    string `json:"kind"`
	ID      string `json:"id"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt,omitempty"`
	Slug    string `json:"slug,omitempty"`
}

type MessageView struct {
	ID            uuid.UUID         `json:"id"`
	SenderRole    models.SenderRole `json:"sender_role"`
	SenderID      uuid.UUID         `json:"sender_id"`
	ParticipantID uuid.UUID         `json:"participant_id"`
	Content       string            `json:"content"`
	CreatedAt     time.Time         `json:"created_at"`
}

type NoteView struct {
	ID        uuid.UUID         `json:"id"`
	AdminID   uuid.UUID         `json:"admin_id"`
	Note      string            `json:"note"`
	Action    models.NoteAction `json:"action,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type EvidenceView struct {
	Type        models.EvidenceType `json:"type"`
	URL         string              `json:"url"`
	Filename    string              `json:"filename,omitempty"`
	Description string              `json:"description,omitempty"`
}

type ResolutionView struct {
	Action     models.ResolutionAction `json:"action"`
	Details    string                  `json:"details"`
	ResolvedBy uuid.UUID               `json:"resolved_by"`
	ResolvedAt time.Time               `json:"resolved_at"`
}

// CaseView is the single response shape for a case. Which fields are
// populated depends on the viewer's role: admin notes and foreign sub-thread
// messages never appear outside the admin view.
type CaseView struct {
	ID          uuid.UUID             `json:"id"`
	CaseNumber  int64                 `json:"case_number"`
	ReportType  models.ReportType     `json:"report_type"`
	Category    models.ReportCategory `json:"category"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      models.CaseStatus     `json:"status"`
	Priority    models.CasePriority   `json:"priority"`

	Reporter   *PartyView   `json:"reporter,omitempty"`
	Target     *PartyView   `json:"target,omitempty"`
	TargetKind *string      `json:"target_kind,omitempty"`
	Content    *ContentView `json:"content,omitempty"`

	Evidence   []EvidenceView  `json:"evidence"`
	Messages   []MessageView   `json:"messages"`
	AdminNotes []NoteView      `json:"admin_notes,omitempty"`
	Resolution *ResolutionView `json:"resolution,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CaseListResponse is a paginated case listing.
type CaseListResponse struct {
	Cases  []CaseView `json:"cases"`
	Total  int64      `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// StatsOverview aggregates case counters for the calling principal. Admins
// get platform-wide numbers; everyone else only their own.
type StatsOverview struct {
	FiledByMe      int64                       `json:"filed_by_me"`
	FiledAgainstMe int64                       `json:"filed_against_me"`
	ByStatus       map[models.CaseStatus]int64 `json:"by_status"`
	PlatformTotal  *int64                      `json:"platform_total,omitempty"`
}
