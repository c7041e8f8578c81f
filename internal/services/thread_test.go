package services

import (
	"strings"
	"testing"

	"github.com/castlinked/castlinked-backend/internal/models"
	"github.com/castlinked/castlinked-backend/internal/policy"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartyPostsIntoOwnSubThread(t *testing.T) {
	env := newTestEnv(t)
	reporter := env.seedUser(t, "reporter@example.com", false)
	target := env.seedUser(t, "target@example.com", false)
	filed := env.fileCase(t, reporter, &target)

	msg, err := env.service.PostMessage(filed.ID, policy.Principal{ID: reporter}, "any update?", nil)
	require.NoError(t, err)
	assert.Equal(t, models.SenderUser, msg.SenderRole)
	assert.Equal(t, reporter, msg.ParticipantID)

	msg, err = env.service.PostMessage(filed.ID, policy.Principal{ID: target}, "this is unfair", nil)
	require.NoError(t, err)
	assert.Equal(t, target, msg.ParticipantID)
}

func TestAdminMustSelectSubThread(t *testing.T) {
	env := newTestEnv(t)
	reporter := env.seedUser(t, "reporter@example.com", false)
	target := env.seedUser(t, "target@example.com", false)
	admin := env.seedUser(t, "admin@example.com", true)
	filed := env.fileCase(t, reporter, &target)

	_, err := env.service.PostMessage(filed.ID, policy.Principal{ID: admin, Admin: true}, "hello", nil)
	var v *ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "participant_id", v.Field)

	stranger := uuid.New()
	_, err = env.service.PostMessage(filed.ID, policy.Principal{ID: admin, Admin: true}, "hello", &stranger)
	require.ErrorAs(t, err, &v)

	msg, err := env.service.PostMessage(filed.ID, policy.Principal{ID: admin, Admin: true}, "we are reviewing", &reporter)
	require.NoError(t, err)
	assert.Equal(t, models.SenderAdmin, msg.SenderRole)
	assert.Equal(t, reporter, msg.ParticipantID)
}

func TestNoThreadWithoutTarget(t *testing.T) {
	env := newTestEnv(t)
	reporter := env.seedUser(t, "reporter@example.com", false)
	filed := env.fileCase(t, reporter, nil)

	_, err := env.service.PostMessage(filed.ID, policy.Principal{ID: reporter}, "hello?", nil)
	var v *ValidationError
	require.ErrorAs(t, err, &v)
}

func TestStrangerCannotPost(t *testing.T) {
	env := newTestEnv(t)
	reporter := env.seedUser(t, "reporter@example.com", false)
	target := env.seedUser(t, "target@example.com", false)
	stranger := env.seedUser(t, "stranger@example.com", false)
	filed := env.fileCase(t, reporter, &target)

	_, err := env.service.PostMessage(filed.ID, policy.Principal{ID: stranger}, "let me in", nil)
	assert.ErrorIs(t, err, ErrCaseNotFound, "stranger must not learn the case exists")
}

func TestMessageContentValidation(t *testing.T) {
	env := newTestEnv(t)
	reporter := env.seedUser(t, "reporter@example.com", false)
	target := env.seedUser(t, "target@example.com", false)
	filed := env.fileCase(t, reporter, &target)

	_, err := env.service.PostMessage(filed.ID, policy.Principal{ID: reporter}, "   ", nil)
	var v *ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "content", v.Field)

	_, err = env.service.PostMessage(filed.ID, policy.Principal{ID: reporter}, strings.Repeat("a", maxMessageLen+1), nil)
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "content", v.Field)
}

func TestSubThreadsStaySeparate(t *testing.T) {
	env := newTestEnv(t)
	reporter := env.seedUser(t, "reporter@example.com", false)
	target := env.seedUser(t, "target@example.com", false)
	admin := env.seedUser(t, "admin@example.com", true)
	filed := env.fileCase(t, reporter, &target)

	posts := []struct {
		actor       policy.Principal
		content     string
		counterpart *uuid.UUID
	}{
		{policy.Principal{ID: reporter}, "any update?", nil},
		{policy.Principal{ID: admin, Admin: true}, "we are reviewing", &reporter},
		{policy.Principal{ID: target}, "my side of the story", nil},
		{policy.Principal{ID: admin, Admin: true}, "please explain", &target},
	}
	for _, p := range posts {
		_, err := env.service.PostMessage(filed.ID, p.actor, p.content, p.counterpart)
		require.NoError(t, err)
	}

	reporterView, err := env.service.GetByID(filed.ID, policy.Principal{ID: reporter})
	require.NoError(t, err)
	require.Len(t, reporterView.Messages, 2)
	assert.Equal(t, "any update?", reporterView.Messages[0].Content)
	assert.Equal(t, "we are reviewing", reporterView.Messages[1].Content)

	targetView, err := env.service.GetByID(filed.ID, policy.Principal{ID: target})
	require.NoError(t, err)
	require.Len(t, targetView.Messages, 2)
	assert.Equal(t, "my side of the story", targetView.Messages[0].Content)

	adminView, err := env.service.GetByID(filed.ID, policy.Principal{ID: admin, Admin: true})
	require.NoError(t, err)
	assert.Len(t, adminView.Messages, 4)
}

func TestAdminMessageNotifiesParticipant(t *testing.T) {
	env := newTestEnv(t)
	reporter := env.seedUser(t, "reporter@example.com", false)
	target := env.seedUser(t, "target@example.com", false)
	admin := env.seedUser(t, "admin@example.com", true)
	filed := env.fileCase(t, reporter, &target)

	_, err := env.service.PostMessage(filed.ID, policy.Principal{ID: admin, Admin: true}, "we are reviewing", &reporter)
	require.NoError(t, err)
	assert.True(t, env.notifier.sentTo(reporter, EventNewMessage))
	assert.False(t, env.notifier.sentTo(target, EventNewMessage))

	// Party messages do not notify anyone.
	_, err = env.service.PostMessage(filed.ID, policy.Principal{ID: target}, "ok", nil)
	require.NoError(t, err)
	assert.False(t, env.notifier.sentTo(target, EventNewMessage))
}
