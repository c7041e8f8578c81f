package models

import (
	"time"

	"github.com/google/uuid"
)

// CaseStatus is the lifecycle state of a report case.
type CaseStatus string

const (
	StatusPending     CaseStatus = "pending"
	StatusUnderReview CaseStatus = "under_review"
	StatusResolved    CaseStatus = "resolved"
	StatusDismissed   CaseStatus = "dismissed"
	StatusEscalated   CaseStatus = "escalated"
)

// IsTerminal reports whether no further status transition is accepted.
func (s CaseStatus) IsTerminal() bool {
	return s == StatusResolved || s == StatusDismissed
}

// Valid reports whether s is a known status value.
func (s CaseStatus) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusResolved, StatusDismissed, StatusEscalated:
		return true
	}
	return false
}

// CasePriority is the triage priority of a case.
type CasePriority string

const (
	PriorityLow    CasePriority = "low"
	PriorityMedium CasePriority = "medium"
	PriorityHigh   CasePriority = "high"
	PriorityUrgent CasePriority = "urgent"
)

func (p CasePriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ReportType classifies what domain object a case implicates.
type ReportType string

const (
	ReportTypeCasting     ReportType = "casting"
	ReportTypeUser        ReportType = "user"
	ReportTypeApplication ReportType = "application"
	ReportTypeBlog        ReportType = "blog"
	ReportTypeNews        ReportType = "news"
	ReportTypeSystem      ReportType = "system"
	ReportTypeOther       ReportType = "other"
)

func (t ReportType) Valid() bool {
	switch t {
	case ReportTypeCasting, ReportTypeUser, ReportTypeApplication,
		ReportTypeBlog, ReportTypeNews, ReportTypeSystem, ReportTypeOther:
		return true
	}
	return false
}

// ReportCategory is the reporter-chosen reason for filing.
type ReportCategory string

const (
	CategoryInappropriateContent ReportCategory = "inappropriate_content"
	CategorySpam                 ReportCategory = "spam"
	CategoryFakeInformation      ReportCategory = "fake_information"
	CategoryHarassment           ReportCategory = "harassment"
	CategoryCopyrightViolation   ReportCategory = "copyright_violation"
	CategoryTechnicalIssue       ReportCategory = "technical_issue"
	CategoryPaymentIssue         ReportCategory = "payment_issue"
	CategorySafetyConcern        ReportCategory = "safety_concern"
	CategoryOther                ReportCategory = "other"
)

func (c ReportCategory) Valid() bool {
	switch c {
	case CategoryInappropriateContent, CategorySpam, CategoryFakeInformation,
		CategoryHarassment, CategoryCopyrightViolation, CategoryTechnicalIssue,
		CategoryPaymentIssue, CategorySafetyConcern, CategoryOther:
		return true
	}
	return false
}

// ResolutionAction is the administrative outcome recorded when a case closes.
type ResolutionAction string

const (
	ActionWarningSent         ResolutionAction = "warning_sent"
	ActionUserSuspended       ResolutionAction = "user_suspended"
	ActionUserBanned          ResolutionAction = "user_banned"
	ActionContentRemoved      ResolutionAction = "content_removed"
	ActionCastingRemoved      ResolutionAction = "casting_removed"
	ActionApplicationRejected ResolutionAction = "application_rejected"
	ActionNoAction            ResolutionAction = "no_action"
	ActionOther               ResolutionAction = "other"
)

func (a ResolutionAction) Valid() bool {
	switch a {
	case ActionWarningSent, ActionUserSuspended, ActionUserBanned,
		ActionContentRemoved, ActionCastingRemoved, ActionApplicationRejected,
		ActionNoAction, ActionOther:
		return true
	}
	return false
}

// Report is the case aggregate root. Title, description, category and the
// reporter are immutable after creation; status, priority and resolution
// change only through the lifecycle engine.
type Report struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CaseNumber int64     `gorm:"not null;uniqueIndex" json:"case_number"`

	ReporterID uuid.UUID  `gorm:"type:uuid;not null;index" json:"reporter_id"`
	TargetID   *uuid.UUID `gorm:"type:uuid;index" json:"target_id,omitempty"`
	TargetKind *string    `gorm:"size:20" json:"target_kind,omitempty"`

	ReportType  ReportType     `gorm:"size:20;not null;index" json:"report_type"`
	ContentKind *string        `gorm:"size:20" json:"content_kind,omitempty"`
	ContentID   *string        `gorm:"size:255;index" json:"content_id,omitempty"`
	Category    ReportCategory `gorm:"size:40;not null;index" json:"category"`

	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`

	Status   CaseStatus   `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Priority CasePriority `gorm:"size:10;not null;default:'medium';index" json:"priority"`

	// Resolution is set exactly once, by the terminal transition.
	ResolutionAction  *ResolutionAction `gorm:"size:30" json:"resolution_action,omitempty"`
	ResolutionDetails *string           `gorm:"type:text" json:"resolution_details,omitempty"`
	ResolvedByID      *uuid.UUID        `gorm:"type:uuid" json:"resolved_by,omitempty"`
	ResolvedAt        *time.Time        `json:"resolved_at,omitempty"`

	Evidence   []Evidence    `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"evidence,omitempty"`
	AdminNotes []AdminNote   `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"admin_notes,omitempty"`
	Messages   []CaseMessage `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Report) TableName() string {
	return "report_cases"
}

// Resolved reports whether the resolution record has been stamped.
func (r *Report) Resolved() bool {
	return r.ResolutionAction != nil
}
