package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/castlinked/castlinked-backend/internal/models"
	"github.com/castlinked/castlinked-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxNoteLen = 2000

// Lifecycle owns the case status machine. It is the only component that
// mutates status, priority and resolution, and every mutation leaves an
// audit note behind, so the note stream replays the case's whole history.
type Lifecycle struct {
	cases *store.CaseStore
}

func NewLifecycle(cases *store.CaseStore) *Lifecycle {
	return &Lifecycle{cases: cases}
}

// SetStatus moves a non-terminal case to any other status. The admin console
// may jump straight from pending to a terminal status; such a jump stamps a
// default resolution record, so a closed case always carries one. An
// optional comment is appended as a second note.
func (l *Lifecycle) SetStatus(caseID uuid.UUID, newStatus models.CaseStatus, comment string, actorID uuid.UUID) (*models.Report, error) {
	if !newStatus.Valid() {
		return nil, invalidField("status", "unknown status value")
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > maxNoteLen {
		return nil, invalidField("note", "note text is too long")
	}

	current, err := l.load(caseID)
	if err != nil {
		return nil, err
	}
	if current.Status == newStatus {
		return nil, ErrInvalidTransition
	}

	updates := map[string]interface{}{"status": newStatus}
	if newStatus.IsTerminal() {
		// Closing without an explicit resolution still stamps one, so
		// resolution and terminal status stay in lockstep on every path.
		updates["resolution_action"] = models.ActionNoAction
		updates["resolution_details"] = fmt.Sprintf("closed via status change to %s", newStatus)
		updates["resolved_by_id"] = actorID
		updates["resolved_at"] = time.Now().UTC()
	}

	notes := []*models.AdminNote{auditNote(caseID, actorID, models.NoteActionStatusChange,
		fmt.Sprintf("status changed to %s", newStatus))}
	if comment != "" {
		notes = append(notes, auditNote(caseID, actorID, models.NoteActionNone, comment))
	}

	applied, err := l.cases.UpdateNonTerminal(caseID, updates, notes...)
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	if !applied {
		// Lost the race against a terminal transition.
		return nil, ErrInvalidTransition
	}

	return l.load(caseID)
}

// SetPriority re-grades a case. Allowed even after resolution: priority is
// triage metadata and late re-grades stay auditable through the note trail.
func (l *Lifecycle) SetPriority(caseID uuid.UUID, priority models.CasePriority, actorID uuid.UUID) (*models.Report, error) {
	if !priority.Valid() {
		return nil, invalidField("priority", "unknown priority value")
	}
	if _, err := l.load(caseID); err != nil {
		return nil, err
	}

	note := auditNote(caseID, actorID, models.NoteActionPriorityChange,
		fmt.Sprintf("priority changed to %s", priority))

	if err := l.cases.UpdatePriority(caseID, priority, note); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to update priority: %w", err)
	}
	return l.load(caseID)
}

// Resolve terminally closes a case, stamping the resolution record exactly
// once. Details are mandatory; a closure without a written outcome is not
// auditable.
func (l *Lifecycle) Resolve(caseID uuid.UUID, action models.ResolutionAction, details string, actorID uuid.UUID) (*models.Report, error) {
	if !action.Valid() {
		return nil, invalidField("action", "unknown resolution action")
	}
	details = strings.TrimSpace(details)
	if details == "" {
		return nil, invalidField("details", "resolution details are required")
	}

	current, err := l.load(caseID)
	if err != nil {
		return nil, err
	}
	if current.Status.IsTerminal() {
		return nil, ErrAlreadyResolved
	}

	now := time.Now().UTC()
	note := auditNote(caseID, actorID, models.NoteActionTaken, details)

	applied, err := l.cases.UpdateNonTerminal(caseID, map[string]interface{}{
		"status":             models.StatusResolved,
		"resolution_action":  action,
		"resolution_details": details,
		"resolved_by_id":     actorID,
		"resolved_at":        now,
	}, note)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve case: %w", err)
	}
	if !applied {
		return nil, ErrAlreadyResolved
	}

	return l.load(caseID)
}

// AddNote appends a free-form internal annotation. Legal in any state.
func (l *Lifecycle) AddNote(caseID uuid.UUID, text string, actorID uuid.UUID) (*models.Report, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalidField("note", "note text is required")
	}
	if len(text) > maxNoteLen {
		return nil, invalidField("note", "note text is too long")
	}
	if _, err := l.load(caseID); err != nil {
		return nil, err
	}

	note := auditNote(caseID, actorID, models.NoteActionNone, text)
	if err := l.cases.AppendNote(note); err != nil {
		return nil, fmt.Errorf("failed to add note: %w", err)
	}
	return l.load(caseID)
}

func (l *Lifecycle) load(caseID uuid.UUID) (*models.Report, error) {
	report, err := l.cases.GetByID(caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	return report, nil
}

func auditNote(caseID, actorID uuid.UUID, action models.NoteAction, text string) *models.AdminNote {
	return &models.AdminNote{
		ID:       uuid.New(),
		ReportID: caseID,
		AdminID:  actorID,
		Note:     text,
		Action:   action,
	}
}
