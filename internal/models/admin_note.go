package models

import (
	"time"

	"github.com/google/uuid"
)

// NoteAction tags an admin note with the mutation that produced it. Free-form
// annotations carry no action. The note stream is the case's audit trail.
type NoteAction string

const (
	NoteActionNone           NoteAction = ""
	NoteActionStatusChange   NoteAction = "status_change"
	NoteActionPriorityChange NoteAction = "priority_change"
	NoteActionTaken          NoteAction = "action_taken"
)

// AdminNote is an internal, append-only annotation on a case. Never exposed
// to the reporter or the target.
type AdminNote struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"-"`
	AdminID   uuid.UUID  `gorm:"type:uuid;not null" json:"admin_id"`
	Note      string     `gorm:"size:2000;not null" json:"note"`
	Action    NoteAction `gorm:"size:30" json:"action,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (AdminNote) TableName() string {
	return "case_admin_notes"
}
