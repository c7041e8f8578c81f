package models

import (
	"time"

	"github.com/google/uuid"
)

// EvidenceType classifies an evidence item attached at filing time.
type EvidenceType string

const (
	EvidenceFile     EvidenceType = "file"
	EvidenceImage    EvidenceType = "image"
	EvidenceDocument EvidenceType = "document"
	EvidenceLink     EvidenceType = "link"
)

func (t EvidenceType) Valid() bool {
	switch t {
	case EvidenceFile, EvidenceImage, EvidenceDocument, EvidenceLink:
		return true
	}
	return false
}

// Evidence is an item submitted with a case. The collection is written once
// during the creation transaction and never modified afterwards.
type Evidence struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"-"`
	Type        EvidenceType `gorm:"size:20;not null" json:"type"`
	URL         string       `gorm:"type:text;not null" json:"url"`
	Filename    string       `gorm:"size:255" json:"filename,omitempty"`
	Description string       `gorm:"size:500" json:"description,omitempty"`
	Position    int          `gorm:"not null" json:"position"`
	CreatedAt   time.Time    `json:"created_at"`
}

func (Evidence) TableName() string {
	return "case_evidence"
}
