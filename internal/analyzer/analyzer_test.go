package analyzer

import (
	"testing"

	"github.com/dermascan/dermascan-backend/internal/models"
)

func TestDeriveResult(t *testing.T) {
	tests := []struct {
		name string
		top  models.Prediction
		want string
	}{
		{
			name: "mel class code wins regardless of confidence",
			top:  models.Prediction{ClassName: "Melanoma", ClassCode: "mel", ConfidencePercent: 60},
			want: models.ResultMelanoma,
		},
		{
			name: "melanoma substring in class name",
			top:  models.Prediction{ClassName: "Amelanotic Melanoma variant", ClassCode: "xyz", ConfidencePercent: 95},
			want: models.ResultMelanoma,
		},
		{
			name: "melanoma match is case insensitive",
			top:  models.Prediction{ClassName: "MELANOMA", ClassCode: "nv", ConfidencePercent: 99},
			want: models.ResultMelanoma,
		},
		{
			name: "below 70 percent is abnormal",
			top:  models.Prediction{ClassName: "Melanocytic nevi", ClassCode: "nv", ConfidencePercent: 69.9},
			want: models.ResultAbnormal,
		},
		{
			name: "exactly 70 percent is normal",
			top:  models.Prediction{ClassName: "Melanocytic nevi", ClassCode: "nv", ConfidencePercent: 70},
			want: models.ResultNormal,
		},
		{
			name: "high confidence benign is normal",
			top:  models.Prediction{ClassName: "Benign keratosis", ClassCode: "bkl", ConfidencePercent: 92.4},
			want: models.ResultNormal,
		},
		{
			name: "absent confidence percent derives normal",
			top:  models.Prediction{ClassName: "Melanocytic nevi", ClassCode: "nv", Probability: 0.5},
			want: models.ResultNormal,
		},
		{
			name: "mel class code wins over absent confidence percent",
			top:  models.Prediction{ClassName: "Melanoma", ClassCode: "mel", Probability: 0.5},
			want: models.ResultMelanoma,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveResult(tt.top); got != tt.want {
				t.Errorf("DeriveResult(%+v) = %q, want %q", tt.top, got, tt.want)
			}
		})
	}
}

func TestConfidence(t *testing.T) {
	p := models.Prediction{ConfidencePercent: 85.5, Probability: 0.1}
	if got := Confidence(p); got != 85.5 {
		t.Errorf("Confidence = %v, want 85.5", got)
	}

	p = models.Prediction{Probability: 0.42}
	if got := Confidence(p); got != 42 {
		t.Errorf("Confidence fallback = %v, want 42", got)
	}
}
