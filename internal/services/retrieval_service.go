package services

import (
	"github.com/dermascan/dermascan-backend/internal/dto"
	"github.com/dermascan/dermascan-backend/internal/models"
	"github.com/dermascan/dermascan-backend/internal/store"
	"github.com/google/uuid"
)

// RetrievalService assembles composite image records: the image row joined
// with its optional features and classification. Absent analysis rows become
// nil fields, never half-filled structs, so every consumer sees the same
// shape. Nothing here uses an inner join that could drop unanalyzed images.
type RetrievalService struct {
	users           *store.UserStore
	images          *store.ImageStore
	features        *store.FeatureStore
	classifications *store.ClassificationStore
}

func NewRetrievalService(
	users *store.UserStore,
	images *store.ImageStore,
	features *store.FeatureStore,
	classifications *store.ClassificationStore,
) *RetrievalService {
	return &RetrievalService{
		users:           users,
		images:          images,
		features:        features,
		classifications: classifications,
	}
}

// GetByID returns one composite record. baseURL is the request's public
// origin, used to build the image URL.
func (s *RetrievalService) GetByID(id uuid.UUID, baseURL string) (*dto.ImageRecord, error) {
	image, err := s.images.FindByID(id)
	if err != nil {
		return nil, err
	}

	features, err := s.features.FindByImage(id)
	if err != nil {
		return nil, err
	}
	classification, err := s.classifications.FindByImage(id)
	if err != nil {
		return nil, err
	}

	record := composite(*image, baseURL)
	record.Features = features
	record.Classification = classification
	return &record, nil
}

// GetByOwner returns the account's composite records, newest first.
func (s *RetrievalService) GetByOwner(userID uuid.UUID, baseURL string) ([]dto.ImageRecord, error) {
	images, err := s.images.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.assemble(images, baseURL)
}

// AllPatientsWithImages returns every patient account with its composite
// records. Patients with zero images are included with an empty list.
func (s *RetrievalService) AllPatientsWithImages(baseURL string) ([]dto.PatientWithImages, error) {
	patients, err := s.users.FindPatients()
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(patients))
	for i := range patients {
		ids = append(ids, patients[i].ID)
	}
	imagesByUser, err := s.images.FindByUsers(ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PatientWithImages, 0, len(patients))
	for i := range patients {
		records, err := s.assemble(imagesByUser[patients[i].ID], baseURL)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.PatientWithImages{
			User:   ToUserResponse(&patients[i]),
			Images: records,
		})
	}
	return out, nil
}

// assemble joins a list of images with their analysis rows in two bulk
// lookups.
func (s *RetrievalService) assemble(images []models.Image, baseURL string) ([]dto.ImageRecord, error) {
	records := make([]dto.ImageRecord, 0, len(images))
	if len(images) == 0 {
		return records, nil
	}

	ids := make([]uuid.UUID, 0, len(images))
	for i := range images {
		ids = append(ids, images[i].ID)
	}

	featuresByImage, err := s.features.FindByImages(ids)
	if err != nil {
		return nil, err
	}
	classificationsByImage, err := s.classifications.FindByImages(ids)
	if err != nil {
		return nil, err
	}

	for _, image := range images {
		record := composite(image, baseURL)
		if features, ok := featuresByImage[image.ID]; ok {
			f := features
			record.Features = &f
		}
		if classification, ok := classificationsByImage[image.ID]; ok {
			c := classification
			record.Classification = &c
		}
		records = append(records, record)
	}
	return records, nil
}

func composite(image models.Image, baseURL string) dto.ImageRecord {
	return dto.ImageRecord{
		ID:        image.ID,
		UserID:    image.UserID,
		Path:      image.Path,
		ImageURL:  baseURL + "/" + image.Path,
		CreatedAt: image.CreatedAt,
	}
}
