package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Classification result labels.
const (
	ResultNormal   = "normal"
	ResultAbnormal = "abnormal"
	ResultMelanoma = "melanoma"
)

// FeatureUnknown is stored for any categorical descriptor the analysis
// script did not report.
const FeatureUnknown = "unknown"

// Image is an uploaded lesion photo. Rows are immutable and never deleted in
// the normal flow; an image may exist without features or a classification
// when analysis failed.
type Image struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Path      string    `gorm:"size:512;not null" json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// ImageFeatures holds the dermoscopic descriptors extracted for one image.
// At most one row per image, written at upload time or never.
type ImageFeatures struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ImageID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"image_id"`
	Asymmetry       int       `json:"asymmetry"`
	PigmentNetwork  string    `gorm:"size:50;not null;default:'unknown'" json:"pigment_network"`
	DotsGlobules    string    `gorm:"size:50;not null;default:'unknown'" json:"dots_globules"`
	Streaks         string    `gorm:"size:50;not null;default:'unknown'" json:"streaks"`
	RegressionAreas string    `gorm:"size:50;not null;default:'unknown'" json:"regression_areas"`
	BlueWhitishVeil string    `gorm:"size:50;not null;default:'unknown'" json:"blue_whitish_veil"`
	ColorWhite      bool      `json:"color_white"`
	ColorRed        bool      `json:"color_red"`
	ColorLightBrown bool      `json:"color_light_brown"`
	ColorDarkBrown  bool      `json:"color_dark_brown"`
	ColorBlueGray   bool      `json:"color_blue_gray"`
	ColorBlack      bool      `json:"color_black"`
	CreatedAt       time.Time `json:"created_at"`
}

func (ImageFeatures) TableName() string {
	return "image_features"
}

// Prediction is one entry of the ranked class list produced by the analysis
// script. ConfidencePercent is in [0,100]; Probability is the raw model
// output some script versions emit instead.
type Prediction struct {
	ClassName         string  `json:"class_name"`
	ClassCode         string  `json:"class_code"`
	ConfidencePercent float64 `json:"confidence_percent"`
	Probability       float64 `json:"probability,omitempty"`
}

// Classification stores the derived result label for one image together with
// the full ranked prediction list. At most one row per image.
type Classification struct {
	ID          uuid.UUID                        `gorm:"type:uuid;primaryKey" json:"id"`
	ImageID     uuid.UUID                        `gorm:"type:uuid;not null;uniqueIndex" json:"image_id"`
	Result      string                           `gorm:"size:20;not null" json:"result"`
	Confidence  float64                          `json:"confidence"`
	Predictions datatypes.JSONSlice[Prediction] `gorm:"type:jsonb" json:"predictions"`
	CreatedAt   time.Time                        `json:"created_at"`
}
