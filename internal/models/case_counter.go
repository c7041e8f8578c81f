package models

// CaseCounter is the single-row sequence backing case number allocation.
// The row is bumped with an atomic UPDATE inside the creation transaction,
// so numbers are unique and gap-free under concurrent filings.
type CaseCounter struct {
	ID    int   `gorm:"primaryKey" json:"-"`
	Value int64 `gorm:"not null" json:"value"`
}

func (CaseCounter) TableName() string {
	return "case_counters"
}
