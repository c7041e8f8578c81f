package policy

import (
	"github.com/castlinked/castlinked-backend/internal/dto"
	"github.com/castlinked/castlinked-backend/internal/models"
)

// Project builds the redacted view of a case for the given role. Returns nil
// for RoleDenied; callers translate that to a not-found response so case
// existence never leaks.
func Project(report *models.Report, role Role) *dto.CaseView {
	if role == RoleDenied {
		return nil
	}

	view := &dto.CaseView{
		ID:          report.ID,
		CaseNumber:  report.CaseNumber,
		TargetKind:  report.TargetKind,
		ReportType:  report.ReportType,
		Category:    report.Category,
		Title:       report.Title,
		Description: report.Description,
		Status:      report.Status,
		Priority:    report.Priority,
		Evidence:    projectEvidence(report.Evidence, role),
		Messages:    projectMessages(report, role),
		CreatedAt:   report.CreatedAt,
		UpdatedAt:   report.UpdatedAt,
	}

	if report.Resolved() {
		view.Resolution = &dto.ResolutionView{
			Action:     *report.ResolutionAction,
			Details:    *report.ResolutionDetails,
			ResolvedBy: *report.ResolvedByID,
			ResolvedAt: *report.ResolvedAt,
		}
	}

	if role == RoleAdmin {
		view.AdminNotes = projectNotes(report.AdminNotes)
	}

	return view
}

// projectEvidence hides the reporter's evidence from the target: the target
// learns the accusation, not the reporter's submitted material.
func projectEvidence(items []models.Evidence, role Role) []dto.EvidenceView {
	if role == RoleTarget {
		return []dto.EvidenceView{}
	}
	out := make([]dto.EvidenceView, len(items))
	for i, e := range items {
		out[i] = dto.EvidenceView{
			Type:        e.Type,
			URL:         e.URL,
			Filename:    e.Filename,
			Description: e.Description,
		}
	}
	return out
}

// projectMessages filters the flat message list into the viewer's sub-thread.
// Admins see both sub-threads; a party sees only messages tagged with its own
// participant id. The two sub-threads never merge.
func projectMessages(report *models.Report, role Role) []dto.MessageView {
	out := make([]dto.MessageView, 0, len(report.Messages))
	if role == RoleAdmin {
		for _, m := range report.Messages {
			out = append(out, messageView(m))
		}
		return out
	}

	participant, ok := ThreadParticipant(report, role)
	if !ok {
		return out
	}
	for _, m := range report.Messages {
		if m.ParticipantID == participant {
			out = append(out, messageView(m))
		}
	}
	return out
}

func messageView(m models.CaseMessage) dto.MessageView {
	return dto.MessageView{
		ID:            m.ID,
		SenderRole:    m.SenderRole,
		SenderID:      m.SenderID,
		ParticipantID: m.ParticipantID,
		Content:       m.Content,
		CreatedAt:     m.CreatedAt,
	}
}

func projectNotes(notes []models.AdminNote) []dto.NoteView {
	out := make([]dto.NoteView, len(notes))
	for i, n := range notes {
		out[i] = dto.NoteView{
			ID:        n.ID,
			AdminID:   n.AdminID,
			Note:      n.Note,
			Action:    n.Action,
			CreatedAt: n.CreatedAt,
		}
	}
	return out
}
