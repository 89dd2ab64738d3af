package store

import (
	"errors"

	"github.com/dermascan/dermascan-backend/internal/apperr"
	"github.com/dermascan/dermascan-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassificationStore struct {
	db *gorm.DB
}

func NewClassificationStore(db *gorm.DB) *ClassificationStore {
	return &ClassificationStore{db: db}
}

func (s *ClassificationStore) Create(classification *models.Classification) error {
	if classification.ID == uuid.Nil {
		classification.ID = uuid.New()
	}
	if err := s.db.Create(classification).Error; err != nil {
		return apperr.Wrap(apperr.Storage, "failed to create classification", err)
	}
	return nil
}

// FindByImage returns (nil, nil) when the image has no classification row.
func (s *ClassificationStore) FindByImage(imageID uuid.UUID) (*models.Classification, error) {
	var classification models.Classification
	if err := s.db.Where("image_id = ?", imageID).First(&classification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.Storage, "failed to look up classification", err)
	}
	return &classification, nil
}

// FindByImages returns classification rows keyed by image for the bulk views.
func (s *ClassificationStore) FindByImages(imageIDs []uuid.UUID) (map[uuid.UUID]models.Classification, error) {
	byImage := make(map[uuid.UUID]models.Classification, len(imageIDs))
	if len(imageIDs) == 0 {
		return byImage, nil
	}
	var rows []models.Classification
	if err := s.db.Where("image_id IN ?", imageIDs).Find(&rows).Error; err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to list classifications", err)
	}
	for _, row := range rows {
		byImage[row.ImageID] = row
	}
	return byImage, nil
}
