package services

import (
	"testing"

	"github.com/dermascan/dermascan-backend/internal/apperr"
	"github.com/dermascan/dermascan-backend/internal/dto"
	"github.com/dermascan/dermascan-backend/internal/models"
	"github.com/dermascan/dermascan-backend/internal/store"
	"github.com/dermascan/dermascan-backend/internal/testutil"
	"github.com/google/uuid"
)

func newAuthService(t *testing.T) (*AuthService, *store.UserStore) {
	t.Helper()
	db := testutil.OpenDB(t)
	users := store.NewUserStore(db)
	return NewAuthService(users, testutil.TestConfig(t)), users
}

func TestRegisterPatient(t *testing.T) {
	svc, _ := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.Role != models.RolePatient {
		t.Errorf("default role = %q, want patient", resp.User.Role)
	}
	if resp.User.ApprovalStatus != models.ApprovalNone {
		t.Errorf("patient approval = %q, want none", resp.User.ApprovalStatus)
	}
}

func TestRegisterDoctorStartsPending(t *testing.T) {
	svc, _ := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{
		Name: "Doc", Email: "doc@example.com", Password: "password123", Role: models.RoleDoctor,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.User.ApprovalStatus != models.ApprovalPending {
		t.Errorf("doctor approval = %q, want pending", resp.User.ApprovalStatus)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	req := &dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "password123"}
	if _, err := svc.Register(req); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := svc.Register(&dto.RegisterRequest{Name: "Imposter", Email: "ada@example.com", Password: "password456"})
	if !apperr.Is(err, apperr.Validation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// First account must still be able to log in.
	if _, err := svc.Login(&dto.LoginRequest{Email: "ada@example.com", Password: "password123"}); err != nil {
		t.Errorf("first account broken after duplicate attempt: %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "short"})
	if !apperr.Is(err, apperr.Validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "password123", Role: "superuser"})
	if !apperr.Is(err, apperr.Validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newAuthService(t)

	if _, err := svc.Register(&dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "password123"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Login(&dto.LoginRequest{Email: "ada@example.com", Password: "wrong-password"})
	if !apperr.Is(err, apperr.Validation) {
		t.Fatalf("expected validation error for bad password, got %v", err)
	}

	_, err = svc.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	if !apperr.Is(err, apperr.Validation) {
		t.Fatalf("expected validation error for unknown email, got %v", err)
	}
}

func TestSetApproval(t *testing.T) {
	svc, users := newAuthService(t)

	doc, err := svc.Register(&dto.RegisterRequest{Name: "Doc", Email: "doc@example.com", Password: "password123", Role: models.RoleDoctor})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	updated, err := svc.SetApproval(doc.User.ID, models.ApprovalApproved)
	if err != nil {
		t.Fatalf("SetApproval failed: %v", err)
	}
	if updated.ApprovalStatus != models.ApprovalApproved {
		t.Errorf("status = %q, want approved", updated.ApprovalStatus)
	}

	stored, err := users.FindByID(doc.User.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if stored.ApprovalStatus != models.ApprovalApproved {
		t.Errorf("persisted status = %q, want approved", stored.ApprovalStatus)
	}
}

func TestSetApprovalRejectsNonDoctor(t *testing.T) {
	svc, _ := newAuthService(t)

	pat, err := svc.Register(&dto.RegisterRequest{Name: "Pat", Email: "pat@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err = svc.SetApproval(pat.User.ID, models.ApprovalApproved)
	if !apperr.Is(err, apperr.Validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetApprovalUnknownUser(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.SetApproval(uuid.New(), models.ApprovalApproved)
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetApprovalInvalidStatus(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.SetApproval(uuid.New(), "maybe")
	if !apperr.Is(err, apperr.Validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
