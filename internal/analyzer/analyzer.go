// Package analyzer invokes the external feature-extraction and
// classification script for uploaded images and parses its output contract.
package analyzer

import (
	"context"
	"strings"

	"github.com/dermascan/dermascan-backend/internal/models"
	"github.com/google/uuid"
)

// Analyzer produces dermoscopic features and a ranked classification for a
// stored image. Implementations must treat every failure mode (spawn error,
// non-zero exit, missing or malformed output, timeout) as an Extraction
// error; callers downgrade that to a soft failure on the upload.
type Analyzer interface {
	Analyze(ctx context.Context, imageID uuid.UUID, imagePath string) (*Result, error)
}

// Result mirrors the JSON document the script writes. Either section may be
// missing when the script only partially succeeded.
type Result struct {
	Features       *Features             `json:"features"`
	Classification *ClassificationResult `json:"classification"`
}

// Features carries raw descriptor values. Empty strings and false booleans
// are filled in by the store's defaulting policy, not here.
type Features struct {
	Asymmetry       int    `json:"asymmetry"`
	PigmentNetwork  string `json:"pigment_network"`
	DotsGlobules    string `json:"dots_globules"`
	Streaks         string `json:"streaks"`
	RegressionAreas string `json:"regression_areas"`
	BlueWhitishVeil string `json:"blue_whitish_veil"`
	ColorWhite      bool   `json:"color_white"`
	ColorRed        bool   `json:"color_red"`
	ColorLightBrown bool   `json:"color_light_brown"`
	ColorDarkBrown  bool   `json:"color_dark_brown"`
	ColorBlueGray   bool   `json:"color_blue_gray"`
	ColorBlack      bool   `json:"color_black"`
}

// ClassificationResult wraps the ranked prediction list, highest confidence
// first.
type ClassificationResult struct {
	Classification []models.Prediction `json:"classification"`
}

// DeriveResult maps the top prediction to a result label. A "mel" class code
// or a class name containing "melanoma" (case-insensitive) always wins;
// otherwise confidence_percent under 70 is abnormal and 70 or above is
// normal. Script versions that omit confidence_percent derive normal; the
// probability fallback applies only to the stored confidence, never the
// label.
func DeriveResult(top models.Prediction) string {
	if top.ClassCode == "mel" || strings.Contains(strings.ToLower(top.ClassName), "melanoma") {
		return models.ResultMelanoma
	}
	if top.ConfidencePercent != 0 && top.ConfidencePercent < 70 {
		return models.ResultAbnormal
	}
	return models.ResultNormal
}

// Confidence returns the prediction's confidence percentage, falling back to
// the raw probability for script versions that omit confidence_percent.
func Confidence(p models.Prediction) float64 {
	if p.ConfidencePercent != 0 {
		return p.ConfidencePercent
	}
	return p.Probability * 100
}
