package store

import (
	"errors"

	"github.com/dermascan/dermascan-backend/internal/apperr"
	"github.com/dermascan/dermascan-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeatureStore struct {
	db *gorm.DB
}

func NewFeatureStore(db *gorm.DB) *FeatureStore {
	return &FeatureStore{db: db}
}

// Create stores the feature row after applying the defaulting policy: any
// absent categorical descriptor becomes "unknown", absent booleans stay
// false, absent asymmetry stays 0.
func (s *FeatureStore) Create(features *models.ImageFeatures) error {
	if features.ID == uuid.Nil {
		features.ID = uuid.New()
	}
	applyDefaults(features)
	if err := s.db.Create(features).Error; err != nil {
		return apperr.Wrap(apperr.Storage, "failed to create image features", err)
	}
	return nil
}

// Update overwrites an existing feature row. Not exercised by the upload
// flow; kept for reprocessing.
func (s *FeatureStore) Update(features *models.ImageFeatures) error {
	applyDefaults(features)
	res := s.db.Model(&models.ImageFeatures{}).Where("id = ?", features.ID).
		Select("*").Omit("id", "image_id", "created_at").Updates(features)
	if res.Error != nil {
		return apperr.Wrap(apperr.Storage, "failed to update image features", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "image features not found")
	}
	return nil
}

// FindByImage returns (nil, nil) when the image has no feature row.
func (s *FeatureStore) FindByImage(imageID uuid.UUID) (*models.ImageFeatures, error) {
	var features models.ImageFeatures
	if err := s.db.Where("image_id = ?", imageID).First(&features).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.Storage, "failed to look up image features", err)
	}
	return &features, nil
}

// FindByImages returns feature rows keyed by image for the bulk views.
func (s *FeatureStore) FindByImages(imageIDs []uuid.UUID) (map[uuid.UUID]models.ImageFeatures, error) {
	byImage := make(map[uuid.UUID]models.ImageFeatures, len(imageIDs))
	if len(imageIDs) == 0 {
		return byImage, nil
	}
	var rows []models.ImageFeatures
	if err := s.db.Where("image_id IN ?", imageIDs).Find(&rows).Error; err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to list image features", err)
	}
	for _, row := range rows {
		byImage[row.ImageID] = row
	}
	return byImage, nil
}

func applyDefaults(f *models.ImageFeatures) {
	for _, field := range []*string{
		&f.PigmentNetwork, &f.DotsGlobules, &f.Streaks,
		&f.RegressionAreas, &f.BlueWhitishVeil,
	} {
		if *field == "" {
			*field = models.FeatureUnknown
		}
	}
}
