// Package store holds the typed persistence accessors. Each method performs
// one SQL-shaped operation and maps failures to apperr kinds; retry policy,
// if any, belongs to callers.
package store

import (
	"errors"

	"github.com/dermascan/dermascan-backend/internal/apperr"
	"github.com/dermascan/dermascan-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := s.db.Create(user).Error; err != nil {
		return apperr.Wrap(apperr.Storage, "failed to create user", err)
	}
	return nil
}

// FindByEmail returns (nil, nil) when no account has the given email.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.Storage, "failed to look up user by email", err)
	}
	return &user, nil
}

func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, apperr.Wrap(apperr.Storage, "failed to look up user", err)
	}
	return &user, nil
}

func (s *UserStore) FindAll() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to list users", err)
	}
	return users, nil
}

func (s *UserStore) FindPatients() ([]models.User, error) {
	var users []models.User
	if err := s.db.Where("role = ?", models.RolePatient).
		Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to list patients", err)
	}
	return users, nil
}

func (s *UserStore) FindPendingDoctors() ([]models.User, error) {
	var users []models.User
	if err := s.db.Where("role = ? AND approval_status = ?", models.RoleDoctor, models.ApprovalPending).
		Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to list pending doctors", err)
	}
	return users, nil
}

func (s *UserStore) UpdateApprovalStatus(id uuid.UUID, status string) error {
	res := s.db.Model(&models.User{}).Where("id = ?", id).Update("approval_status", status)
	if res.Error != nil {
		return apperr.Wrap(apperr.Storage, "failed to update approval status", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return nil
}
