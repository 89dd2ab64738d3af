package dto

import (
	"time"

	"github.com/dermascan/dermascan-backend/internal/models"
	"github.com/google/uuid"
)

// UploadResponse is the ingestion outcome. ProcessingError is set only when
// the analysis script failed; the upload itself still succeeded (201).
type UploadResponse struct {
	Success         bool                   `json:"success"`
	ImageID         uuid.UUID              `json:"imageId"`
	ImagePath       string                 `json:"imagePath"`
	Features        *models.ImageFeatures  `json:"features"`
	Classification  *models.Classification `json:"classification"`
	ProcessingError *string                `json:"processingError"`
	Message         string                 `json:"message"`
}

// ImageRecord is an image joined with its optional analysis rows. Features
// and Classification are nil when the corresponding row is absent; consumers
// must handle both.
type ImageRecord struct {
	ID             uuid.UUID              `json:"id"`
	UserID         uuid.UUID              `json:"user_id"`
	Path           string                 `json:"path"`
	ImageURL       string                 `json:"imageUrl"`
	CreatedAt      time.Time              `json:"created_at"`
	Features       *models.ImageFeatures  `json:"features"`
	Classification *models.Classification `json:"classification"`
}

// PatientWithImages is one patient profile plus all of their image records,
// newest first. Patients with zero images appear with an empty list.
type PatientWithImages struct {
	User   UserResponse  `json:"user"`
	Images []ImageRecord `json:"images"`
}
