package store

import (
	"errors"

	"github.com/dermascan/dermascan-backend/internal/apperr"
	"github.com/dermascan/dermascan-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ImageStore struct {
	db *gorm.DB
}

func NewImageStore(db *gorm.DB) *ImageStore {
	return &ImageStore{db: db}
}

func (s *ImageStore) Create(image *models.Image) error {
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}
	if err := s.db.Create(image).Error; err != nil {
		return apperr.Wrap(apperr.Storage, "failed to create image record", err)
	}
	return nil
}

func (s *ImageStore) FindByID(id uuid.UUID) (*models.Image, error) {
	var image models.Image
	if err := s.db.First(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "image not found")
		}
		return nil, apperr.Wrap(apperr.Storage, "failed to look up image", err)
	}
	return &image, nil
}

// FindByUser returns the user's images newest first.
func (s *ImageStore) FindByUser(userID uuid.UUID) ([]models.Image, error) {
	var images []models.Image
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&images).Error; err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to list images", err)
	}
	return images, nil
}

// FindByUsers returns newest-first image lists keyed by owner for the bulk
// patient view. Owners with no images simply have no map entry.
func (s *ImageStore) FindByUsers(userIDs []uuid.UUID) (map[uuid.UUID][]models.Image, error) {
	byUser := make(map[uuid.UUID][]models.Image, len(userIDs))
	if len(userIDs) == 0 {
		return byUser, nil
	}
	var images []models.Image
	if err := s.db.Where("user_id IN ?", userIDs).
		Order("created_at DESC").Find(&images).Error; err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to list images", err)
	}
	for _, img := range images {
		byUser[img.UserID] = append(byUser[img.UserID], img)
	}
	return byUser, nil
}
