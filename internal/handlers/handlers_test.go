package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/castlinked/castlinked-backend/internal/config"
	"github.com/castlinked/castlinked-backend/internal/database"
	"github.com/castlinked/castlinked-backend/internal/handlers"
	"github.com/castlinked/castlinked-backend/internal/identity"
	"github.com/castlinked/castlinked-backend/internal/models"
	"github.com/castlinked/castlinked-backend/internal/notify"
	"github.com/castlinked/castlinked-backend/internal/routes"
	"github.com/castlinked/castlinked-backend/internal/services"
	"github.com/castlinked/castlinked-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeEvidenceStore stands in for S3 during handler tests.
type fakeEvidenceStore struct {
	fail   bool
	stored []string
}

func (f *fakeEvidenceStore) Store(_ context.Context, _ io.Reader, filename, _ string) (string, string, error) {
	if f.fail {
		return "", "", errors.New("bucket unavailable")
	}
	f.stored = append(f.stored, filename)
	return "https://cdn.test/" + filename, filename, nil
}

type testApp struct {
	app      *fiber.App
	db       *gorm.DB
	cfg      *config.Config
	evidence *fakeEvidenceStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, store.EnsureCounter(db))

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Hour,
		JWTRefreshExpiry: 24 * time.Hour,
	}

	cases := store.NewCaseStore(db)
	caseService := services.NewCaseService(cases, identity.NewDirectory(db), nil, notify.NewDBNotifier(db))
	evidence := &fakeEvidenceStore{}

	app := fiber.New()
	routes.Setup(app, cfg, db,
		handlers.NewAuthHandler(services.NewAuthService(db, cfg)),
		handlers.NewHealthHandler(),
		handlers.NewReportHandler(caseService, evidence, cfg),
		handlers.NewAdminReportHandler(caseService),
	)

	return &testApp{app: app, db: db, cfg: cfg, evidence: evidence}
}

// seedUser creates a user row and returns its id plus a signed access token
// carrying the given role claim.
func (ta *testApp) seedUser(t *testing.T, email, role string) (uuid.UUID, string) {
	t.Helper()
	user := models.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "x",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	}
	require.NoError(t, ta.db.Create(&user).Error)
	return user.ID, ta.signToken(t, user.ID, email, role)
}

func (ta *testApp) signToken(t *testing.T, userID uuid.UUID, email, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"role":  role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ta.cfg.JWTSecret))
	require.NoError(t, err)
	return signed
}

func (ta *testApp) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func fileReportBody(targetID *uuid.UUID) map[string]interface{} {
	body := map[string]interface{}{
		"report_type": "user",
		"category":    "harassment",
		"title":       "Harassing messages",
		"description": "Repeated unwanted contact after a casting call",
		"links": []map[string]string{
			{"url": "https://example.com/screenshot"},
		},
	}
	if targetID != nil {
		body["target_id"] = targetID.String()
	}
	return body
}
