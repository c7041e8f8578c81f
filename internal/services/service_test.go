package services

import (
	"sync"
	"testing"

	"github.com/castlinked/castlinked-backend/internal/database"
	"github.com/castlinked/castlinked-backend/internal/dto"
	"github.com/castlinked/castlinked-backend/internal/identity"
	"github.com/castlinked/castlinked-backend/internal/models"
	"github.com/castlinked/castlinked-backend/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingNotifier captures notifications so tests can assert on them.
type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
	fail   bool
}

type recordedEvent struct {
	UserID  uuid.UUID
	Event   string
	Payload map[string]interface{}
}

func (n *recordingNotifier) Notify(userID uuid.UUID, event string, payload map[string]interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return gorm.ErrInvalidDB
	}
	n.events = append(n.events, recordedEvent{UserID: userID, Event: event, Payload: payload})
	return nil
}

func (n *recordingNotifier) sentTo(userID uuid.UUID, event string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, e := range n.events {
		if e.UserID == userID && e.Event == event {
			return true
		}
	}
	return false
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory
	// database and serializes concurrent writers.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	require.NoError(t, store.EnsureCounter(db))
	return db
}

type testEnv struct {
	db       *gorm.DB
	cases    *store.CaseStore
	service  *CaseService
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	cases := store.NewCaseStore(db)
	notifier := &recordingNotifier{}
	svc := NewCaseService(cases, identity.NewDirectory(db), nil, notifier)
	return &testEnv{db: db, cases: cases, service: svc, notifier: notifier}
}

func (e *testEnv) seedUser(t *testing.T, email string, admin bool) uuid.UUID {
	t.Helper()
	role := "user"
	if admin {
		role = "admin"
	}
	user := models.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "x",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	}
	require.NoError(t, e.db.Create(&user).Error)
	return user.ID
}

func (e *testEnv) fileCase(t *testing.T, reporterID uuid.UUID, targetID *uuid.UUID) *dto.CaseView {
	t.Helper()
	view, err := e.service.FileReport(reporterID, &dto.FileReportRequest{
		ReportType:  string(models.ReportTypeUser),
		Category:    string(models.CategoryHarassment),
		Title:       "Harassing messages",
		Description: "Repeated unwanted contact after a casting call",
		TargetID:    targetID,
		Links: []dto.EvidenceInput{
			{URL: "https://example.com/screenshot", Description: "screenshot"},
		},
	}, nil)
	require.NoError(t, err)
	return view
}
