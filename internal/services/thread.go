package services

import (
	"errors"
	"strings"

	"github.com/castlinked/castlinked-backend/internal/models"
	"github.com/castlinked/castlinked-backend/internal/policy"
	"github.com/castlinked/castlinked-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxMessageLen = 4000

// ThreadManager appends messages to a case's sub-threads. A case only has a
// thread when it names a target; threads are strictly append-only.
type ThreadManager struct {
	cases *store.CaseStore
}

func NewThreadManager(cases *store.CaseStore) *ThreadManager {
	return &ThreadManager{cases: cases}
}

// PostMessage appends a message for the given actor. Admin senders must name
// the counterpart (reporter or target) whose sub-thread they reply into;
// party senders always post into their own.
func (t *ThreadManager) PostMessage(caseID uuid.UUID, actor policy.Principal, content string, counterpart *uuid.UUID) (*models.CaseMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalidField("content", "message content is required")
	}
	if len(content) > maxMessageLen {
		return nil, invalidField("content", "message content is too long")
	}

	report, err := t.cases.GetByID(caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}

	role := policy.RoleFor(report, actor)
	if role == policy.RoleDenied {
		return nil, ErrCaseNotFound
	}

	// Anonymous and system reports have no counterpart to converse with.
	if report.TargetID == nil {
		return nil, invalidField("case", "this case has no message thread")
	}

	msg := &models.CaseMessage{
		ID:       uuid.New(),
		ReportID: caseID,
		SenderID: actor.ID,
		Content:  content,
	}

	switch role {
	case policy.RoleAdmin:
		if counterpart == nil {
			return nil, invalidField("participant_id", "admin replies must select a sub-thread")
		}
		if *counterpart != report.ReporterID && *counterpart != *report.TargetID {
			return nil, invalidField("participant_id", "not a party to this case")
		}
		msg.SenderRole = models.SenderAdmin
		msg.ParticipantID = *counterpart
	default:
		participant, ok := policy.ThreadParticipant(report, role)
		if !ok {
			return nil, ErrForbidden
		}
		msg.SenderRole = models.SenderUser
		msg.ParticipantID = participant
	}

	if err := t.cases.AppendMessage(msg); err != nil {
		return nil, err
	}
	return msg, nil
}
