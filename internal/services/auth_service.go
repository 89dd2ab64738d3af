package services

import (
	"time"

	"github.com/dermascan/dermascan-backend/internal/apperr"
	"github.com/dermascan/dermascan-backend/internal/config"
	"github.com/dermascan/dermascan-backend/internal/dto"
	"github.com/dermascan/dermascan-backend/internal/models"
	"github.com/dermascan/dermascan-backend/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users *store.UserStore
	cfg   *config.Config
}

func NewAuthService(users *store.UserStore, cfg *config.Config) *AuthService {
	return &AuthService{users: users, cfg: cfg}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Name == "" || req.Email == "" {
		return nil, apperr.New(apperr.Validation, "name and email are required")
	}
	if len(req.Password) < 8 {
		return nil, apperr.New(apperr.Validation, "password must be at least 8 characters")
	}

	role := req.Role
	if role == "" {
		role = models.RolePatient
	}
	if !models.ValidRole(role) {
		return nil, apperr.New(apperr.Validation, "invalid role")
	}

	existing, err := s.users.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.New(apperr.Validation, "User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to hash password", err)
	}

	// Doctor accounts start out pending and stay locked out of the patient
	// view until an admin approves them.
	approval := models.ApprovalNone
	if role == models.RoleDoctor {
		approval = models.ApprovalPending
	}

	user := models.User{
		ID:             uuid.New(),
		Name:           req.Name,
		Email:          req.Email,
		Password:       string(hash),
		Role:           role,
		ApprovalStatus: approval,
	}
	if err := s.users.Create(&user); err != nil {
		return nil, err
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{User: ToUserResponse(&user), Token: token}, nil
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.New(apperr.Validation, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.New(apperr.Validation, "Invalid credentials")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{User: ToUserResponse(user), Token: token}, nil
}

func (s *AuthService) ListUsers() ([]dto.UserResponse, error) {
	users, err := s.users.FindAll()
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

func (s *AuthService) ListPendingDoctors() ([]dto.UserResponse, error) {
	users, err := s.users.FindPendingDoctors()
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

// SetApproval transitions a doctor's approval status. Only doctor accounts
// can be approved or rejected; the role itself never changes.
func (s *AuthService) SetApproval(userID uuid.UUID, status string) (*dto.UserResponse, error) {
	if status != models.ApprovalApproved && status != models.ApprovalRejected {
		return nil, apperr.New(apperr.Validation, "status must be approved or rejected")
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleDoctor {
		return nil, apperr.New(apperr.Validation, "only doctor accounts have an approval status")
	}

	if err := s.users.UpdateApprovalStatus(userID, status); err != nil {
		return nil, err
	}
	user.ApprovalStatus = status
	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", apperr.Wrap(apperr.Storage, "failed to sign token", err)
	}
	return signed, nil
}

func ToUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		ApprovalStatus: user.ApprovalStatus,
		CreatedAt:      user.CreatedAt,
	}
}

func toUserResponses(users []models.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out
}
