// Package store is the persistence layer for report cases. It carries no
// business rules: lifecycle legality and visibility are decided above it.
package store

import (
	"errors"
	"fmt"

	"github.com/castlinked/castlinked-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const counterID = 1

var terminalStatuses = []models.CaseStatus{models.StatusResolved, models.StatusDismissed}

type CaseStore struct {
	db *gorm.DB
}

func NewCaseStore(db *gorm.DB) *CaseStore {
	return &CaseStore{db: db}
}

// EnsureCounter seeds the case number sequence row. Idempotent; called once
// after migration.
func EnsureCounter(db *gorm.DB) error {
	counter := models.CaseCounter{ID: counterID, Value: 0}
	return db.Where(models.CaseCounter{ID: counterID}).FirstOrCreate(&counter).Error
}

// Create persists a new case and its evidence, assigning the next case
// number inside the same transaction. The counter row is bumped with an
// atomic UPDATE, so the row lock serializes concurrent filings and numbers
// are never reused.
func (s *CaseStore) Create(report *models.Report) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CaseCounter{}).
			Where("id = ?", counterID).
			Update("value", gorm.Expr("value + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("case counter row missing")
		}

		var counter models.CaseCounter
		if err := tx.First(&counter, "id = ?", counterID).Error; err != nil {
			return err
		}
		report.CaseNumber = counter.Value

		if err := tx.Create(report).Error; err != nil {
			return fmt.Errorf("failed to create case: %w", err)
		}
		return nil
	})
}

// GetByID loads a case with all sub-collections in append order.
func (s *CaseStore) GetByID(id uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := s.db.
		Preload("Evidence", ordered("position ASC")).
		Preload("AdminNotes", ordered("created_at ASC")).
		Preload("Messages", ordered("created_at ASC")).
		First(&report, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func ordered(clause string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(clause)
	}
}

// ListByReporter returns cases filed by the given user, newest first.
func (s *CaseStore) ListByReporter(userID uuid.UUID, limit, offset int) ([]models.Report, int64, error) {
	return s.list(s.db.Where("reporter_id = ?", userID), limit, offset)
}

// ListByTarget returns cases filed against the given user, newest first.
func (s *CaseStore) ListByTarget(userID uuid.UUID, limit, offset int) ([]models.Report, int64, error) {
	return s.list(s.db.Where("target_id = ?", userID), limit, offset)
}

// AdminFilters narrows the admin case listing. Zero values mean "any".
type AdminFilters struct {
	Status     models.CaseStatus
	Priority   models.CasePriority
	Category   models.ReportCategory
	ReportType models.ReportType
	Limit      int
	Offset     int
}

// AdminList returns the filtered, paginated platform-wide case listing.
func (s *CaseStore) AdminList(f AdminFilters) ([]models.Report, int64, error) {
	query := s.db.Model(&models.Report{})
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		query = query.Where("priority = ?", f.Priority)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.ReportType != "" {
		query = query.Where("report_type = ?", f.ReportType)
	}
	return s.list(query, f.Limit, f.Offset)
}

func (s *CaseStore) list(query *gorm.DB, limit, offset int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	// Session makes the conditioned chain reusable for both queries.
	query = query.Session(&gorm.Session{})
	if err := query.Model(&models.Report{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.
		Preload("Evidence", ordered("position ASC")).
		Preload("AdminNotes", ordered("created_at ASC")).
		Preload("Messages", ordered("created_at ASC")).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// UpdateNonTerminal applies column updates to a case only while it is not
// resolved or dismissed, appending the audit notes in the same transaction.
// The guard lives in the WHERE clause, so two concurrent terminal
// transitions cannot both win. Returns false when the guard rejected the
// update (case already terminal).
func (s *CaseStore) UpdateNonTerminal(id uuid.UUID, updates map[string]interface{}, notes ...*models.AdminNote) (bool, error) {
	applied := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Report{}).
			Where("id = ? AND status NOT IN ?", id, terminalStatuses).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true
		for _, note := range notes {
			if err := tx.Create(note).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return applied, err
}

// UpdatePriority changes the priority regardless of status and appends the
// audit note atomically. Priority stays editable on terminal cases.
func (s *CaseStore) UpdatePriority(id uuid.UUID, priority models.CasePriority, note *models.AdminNote) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Report{}).
			Where("id = ?", id).
			Update("priority", priority)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(note).Error
	})
}

// AppendNote records a free-form admin annotation.
func (s *CaseStore) AppendNote(note *models.AdminNote) error {
	return s.db.Create(note).Error
}

// AppendMessage records a thread message. Messages are never updated or
// deleted afterwards.
func (s *CaseStore) AppendMessage(msg *models.CaseMessage) error {
	return s.db.Create(msg).Error
}

// CountFiledBy returns how many cases the user has filed.
func (s *CaseStore) CountFiledBy(userID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.Model(&models.Report{}).Where("reporter_id = ?", userID).Count(&n).Error
	return n, err
}

// CountAgainst returns how many cases name the user as target.
func (s *CaseStore) CountAgainst(userID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.Model(&models.Report{}).Where("target_id = ?", userID).Count(&n).Error
	return n, err
}

// StatusBreakdown counts cases per status. With a nil reporter it covers the
// whole platform; otherwise only cases filed by that user.
func (s *CaseStore) StatusBreakdown(reporterID *uuid.UUID) (map[models.CaseStatus]int64, error) {
	type row struct {
		Status models.CaseStatus
		N      int64
	}
	var rows []row

	query := s.db.Model(&models.Report{}).Select("status, count(*) as n").Group("status")
	if reporterID != nil {
		query = query.Where("reporter_id = ?", *reporterID)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[models.CaseStatus]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}

// CountAll returns the platform-wide case count.
func (s *CaseStore) CountAll() (int64, error) {
	var n int64
	err := s.db.Model(&models.Report{}).Count(&n).Error
	return n, err
}
