package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dermascan/dermascan-backend/internal/analyzer"
	"github.com/dermascan/dermascan-backend/internal/apperr"
	"github.com/dermascan/dermascan-backend/internal/dto"
	"github.com/dermascan/dermascan-backend/internal/models"
	"github.com/dermascan/dermascan-backend/internal/store"
	"github.com/google/uuid"
)

const processingErrorMessage = "Feature extraction failed, but image was saved"

var acceptedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
}

// IngestionService coordinates an upload: validate, persist the file, create
// the image row, run the analyzer, and store its output. Analysis failure is
// deliberately non-fatal; the upload still succeeds with a processing error
// noted in the response.
type IngestionService struct {
	images          *store.ImageStore
	features        *store.FeatureStore
	classifications *store.ClassificationStore
	analyzer        analyzer.Analyzer
	uploadDir       string
}

func NewIngestionService(
	images *store.ImageStore,
	features *store.FeatureStore,
	classifications *store.ClassificationStore,
	az analyzer.Analyzer,
	uploadDir string,
) *IngestionService {
	return &IngestionService{
		images:          images,
		features:        features,
		classifications: classifications,
		analyzer:        az,
		uploadDir:       uploadDir,
	}
}

func (s *IngestionService) Ingest(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	if file == nil {
		return nil, apperr.New(apperr.Validation, "Please upload an image")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !acceptedExtensions[ext] && !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return nil, apperr.New(apperr.Validation, "Not an image! Please upload only images")
	}

	path, err := s.storeFile(file, ext)
	if err != nil {
		return nil, err
	}

	image := models.Image{ID: uuid.New(), UserID: userID, Path: path}
	if err := s.images.Create(&image); err != nil {
		// The file stays on disk, orphaned. Accepted tradeoff: an orphaned
		// file is harmless, a DB row pointing at nothing is not.
		return nil, err
	}

	resp := &dto.UploadResponse{
		Success:   true,
		ImageID:   image.ID,
		ImagePath: "/" + path,
		Message:   "Image uploaded, features extracted, and classified successfully",
	}

	result, err := s.analyzer.Analyze(ctx, image.ID, path)
	if err != nil {
		slog.Error("image analysis failed", "image_id", image.ID, "error", err)
		msg := processingErrorMessage
		resp.ProcessingError = &msg
		resp.Message = msg
		return resp, nil
	}

	// Features and classification are saved independently: a failure in one
	// never blocks the other, and neither fails the upload.
	if result.Features != nil {
		row := featuresToRow(image.ID, result.Features)
		if err := s.features.Create(row); err != nil {
			slog.Error("failed to save image features", "image_id", image.ID, "error", err)
		} else {
			resp.Features = row
		}
	}

	if result.Classification != nil && len(result.Classification.Classification) > 0 {
		top := result.Classification.Classification[0]
		row := &models.Classification{
			ID:          uuid.New(),
			ImageID:     image.ID,
			Result:      analyzer.DeriveResult(top),
			Confidence:  analyzer.Confidence(top),
			Predictions: result.Classification.Classification,
		}
		if err := s.classifications.Create(row); err != nil {
			slog.Error("failed to save classification", "image_id", image.ID, "error", err)
		} else {
			resp.Classification = row
		}
	}

	return resp, nil
}

// storeFile writes the upload to a collision-resistant generated path under
// the upload directory and returns the stored path (slash-separated,
// relative to the working directory).
func (s *IngestionService) storeFile(file *multipart.FileHeader, ext string) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", apperr.Wrap(apperr.Storage, "failed to create upload directory", err)
	}

	name := fmt.Sprintf("image-%d-%d%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
	path := filepath.Join(s.uploadDir, name)

	src, err := file.Open()
	if err != nil {
		return "", apperr.Wrap(apperr.Storage, "failed to read uploaded file", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", apperr.Wrap(apperr.Storage, "failed to store uploaded file", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", apperr.Wrap(apperr.Storage, "failed to store uploaded file", err)
	}
	return filepath.ToSlash(path), nil
}

func featuresToRow(imageID uuid.UUID, f *analyzer.Features) *models.ImageFeatures {
	return &models.ImageFeatures{
		ID:              uuid.New(),
		ImageID:         imageID,
		Asymmetry:       f.Asymmetry,
		PigmentNetwork:  f.PigmentNetwork,
		DotsGlobules:    f.DotsGlobules,
		Streaks:         f.Streaks,
		RegressionAreas: f.RegressionAreas,
		BlueWhitishVeil: f.BlueWhitishVeil,
		ColorWhite:      f.ColorWhite,
		ColorRed:        f.ColorRed,
		ColorLightBrown: f.ColorLightBrown,
		ColorDarkBrown:  f.ColorDarkBrown,
		ColorBlueGray:   f.ColorBlueGray,
		ColorBlack:      f.ColorBlack,
	}
}
