package models

import (
	"time"

	"github.com/google/uuid"
)

// SenderRole indicates who authored a case message.
type SenderRole string

const (
	SenderAdmin SenderRole = "admin"
	SenderUser  SenderRole = "user"
)

// CaseMessage is one entry in a case's message exchange. ParticipantID is the
// non-admin party whose sub-thread the message belongs to: a case carries at
// most two disjoint sub-threads (reporter⇄admins and target⇄admins), and
// filtering on ParticipantID is what keeps them from ever merging.
type CaseMessage struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"-"`
	SenderRole    SenderRole `gorm:"size:10;not null" json:"sender_role"`
	SenderID      uuid.UUID  `gorm:"type:uuid;not null" json:"sender_id"`
	ParticipantID uuid.UUID  `gorm:"type:uuid;not null;index" json:"participant_id"`
	Content       string     `gorm:"size:4000;not null" json:"content"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (CaseMessage) TableName() string {
	return "case_messages"
}
