package policy

import (
	"testing"
	"time"

	"github.com/castlinked/castlinked-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	reporterID = uuid.New()
	targetID   = uuid.New()
	adminID    = uuid.New()
	strangerID = uuid.New()
)

func caseWithTarget() *models.Report {
	tid := targetID
	now := time.Now()
	return &models.Report{
		ID:          uuid.New(),
		CaseNumber:  42,
		ReporterID:  reporterID,
		TargetID:    &tid,
		ReportType:  models.ReportTypeUser,
		Category:    models.CategoryHarassment,
		Title:       "Harassing messages",
		Description: "Repeated unwanted contact after casting call",
		Status:      models.StatusPending,
		Priority:    models.PriorityMedium,
		Evidence: []models.Evidence{
			{ID: uuid.New(), Type: models.EvidenceLink, URL: "https://example.com/proof", Position: 0},
		},
		AdminNotes: []models.AdminNote{
			{ID: uuid.New(), AdminID: adminID, Note: "contacted both parties"},
		},
		Messages: []models.CaseMessage{
			{ID: uuid.New(), SenderRole: models.SenderUser, SenderID: reporterID, ParticipantID: reporterID, Content: "any update?"},
			{ID: uuid.New(), SenderRole: models.SenderAdmin, SenderID: adminID, ParticipantID: reporterID, Content: "we are reviewing"},
			{ID: uuid.New(), SenderRole: models.SenderUser, SenderID: targetID, ParticipantID: targetID, Content: "this report is unfair"},
			{ID: uuid.New(), SenderRole: models.SenderAdmin, SenderID: adminID, ParticipantID: targetID, Content: "please explain your side"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRoleFor(t *testing.T) {
	report := caseWithTarget()

	assert.Equal(t, RoleAdmin, RoleFor(report, Principal{ID: adminID, Admin: true}))
	assert.Equal(t, RoleReporter, RoleFor(report, Principal{ID: reporterID}))
	assert.Equal(t, RoleTarget, RoleFor(report, Principal{ID: targetID}))
	assert.Equal(t, RoleDenied, RoleFor(report, Principal{ID: strangerID}))
}

func TestRoleForNoTarget(t *testing.T) {
	report := caseWithTarget()
	report.TargetID = nil

	assert.Equal(t, RoleReporter, RoleFor(report, Principal{ID: reporterID}))
	assert.Equal(t, RoleDenied, RoleFor(report, Principal{ID: targetID}))
}

func TestProjectDenied(t *testing.T) {
	assert.Nil(t, Project(caseWithTarget(), RoleDenied))
}

func TestProjectReporterView(t *testing.T) {
	view := Project(caseWithTarget(), RoleReporter)
	require.NotNil(t, view)

	assert.Empty(t, view.AdminNotes, "reporter must never see admin notes")
	assert.Len(t, view.Evidence, 1)

	require.Len(t, view.Messages, 2)
	for _, m := range view.Messages {
		assert.Equal(t, reporterID, m.ParticipantID, "reporter sees only their own sub-thread")
	}
}

func TestProjectTargetView(t *testing.T) {
	view := Project(caseWithTarget(), RoleTarget)
	require.NotNil(t, view)

	assert.Empty(t, view.AdminNotes, "target must never see admin notes")
	assert.Empty(t, view.Evidence, "target must not see the reporter's evidence")

	require.Len(t, view.Messages, 2)
	for _, m := range view.Messages {
		assert.Equal(t, targetID, m.ParticipantID, "target sees only their own sub-thread")
	}
}

func TestProjectAdminView(t *testing.T) {
	view := Project(caseWithTarget(), RoleAdmin)
	require.NotNil(t, view)

	assert.Len(t, view.AdminNotes, 1)
	assert.Len(t, view.Evidence, 1)
	assert.Len(t, view.Messages, 4, "admin sees both sub-threads")
}

func TestProjectResolution(t *testing.T) {
	report := caseWithTarget()
	action := models.ActionWarningSent
	details := "Issued formal warning"
	resolvedAt := time.Now()
	report.Status = models.StatusResolved
	report.ResolutionAction = &action
	report.ResolutionDetails = &details
	report.ResolvedByID = &adminID
	report.ResolvedAt = &resolvedAt

	// Both parties see the outcome, neither sees the internal notes.
	for _, role := range []Role{RoleReporter, RoleTarget} {
		view := Project(report, role)
		require.NotNil(t, view)
		require.NotNil(t, view.Resolution)
		assert.Equal(t, models.ActionWarningSent, view.Resolution.Action)
		assert.Equal(t, details, view.Resolution.Details)
		assert.Empty(t, view.AdminNotes)
	}
}

func TestThreadParticipant(t *testing.T) {
	report := caseWithTarget()

	p, ok := ThreadParticipant(report, RoleReporter)
	require.True(t, ok)
	assert.Equal(t, reporterID, p)

	p, ok = ThreadParticipant(report, RoleTarget)
	require.True(t, ok)
	assert.Equal(t, targetID, p)

	_, ok = ThreadParticipant(report, RoleAdmin)
	assert.False(t, ok)

	report.TargetID = nil
	_, ok = ThreadParticipant(report, RoleTarget)
	assert.False(t, ok)
}
