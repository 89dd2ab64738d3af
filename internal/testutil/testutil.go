// Package testutil holds shared fixtures for service and handler tests: an
// in-memory database with the full schema, seeded accounts, signed tokens
// and multipart helpers.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dermascan/dermascan-backend/internal/analyzer"
	"github.com/dermascan/dermascan-backend/internal/config"
	"github.com/dermascan/dermascan-backend/internal/database"
	"github.com/dermascan/dermascan-backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestSecret signs tokens in tests.
const TestSecret = "test-secret"

// OpenDB returns an isolated in-memory database with the full schema.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// TestConfig returns a config suitable for tests, with the upload directory
// placed in the test's temp dir.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		JWTSecret:       TestSecret,
		JWTExpiry:       time.Hour,
		UploadDir:       t.TempDir(),
		MaxUploadSize:   10 * 1024 * 1024,
		AnalyzerTempDir: t.TempDir(),
		AnalyzerTimeout: 2 * time.Second,
	}
}

// SeedUser inserts an account with the given role and a bcrypt hash of
// "password123".
func SeedUser(t *testing.T, db *gorm.DB, name, email, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	approval := models.ApprovalNone
	if role == models.RoleDoctor {
		approval = models.ApprovalPending
	}
	user := models.User{
		ID:             uuid.New(),
		Name:           name,
		Email:          email,
		Password:       string(hash),
		Role:           role,
		ApprovalStatus: approval,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return &user
}

// Token signs a valid bearer token for the user with TestSecret.
func Token(t *testing.T, user *models.User) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

// FileHeader builds a real *multipart.FileHeader the way Fiber would hand it
// to a handler.
func FileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to parse multipart form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}

// MultipartRequest builds an upload request carrying one file field.
func MultipartRequest(t *testing.T, method, target, field, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// DecodeJSON reads and unmarshals a response body.
func DecodeJSON(t *testing.T, body io.Reader, out interface{}) {
	t.Helper()
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("failed to decode response %q: %v", data, err)
	}
}

// StubAnalyzer returns a fixed result or error without spawning a process.
type StubAnalyzer struct {
	Result *analyzer.Result
	Err    error
	Calls  int
}

func (s *StubAnalyzer) Analyze(_ context.Context, _ uuid.UUID, _ string) (*analyzer.Result, error) {
	s.Calls++
	return s.Result, s.Err
}
