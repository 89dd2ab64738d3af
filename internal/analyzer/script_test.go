package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dermascan/dermascan-backend/internal/apperr"
	"github.com/dermascan/dermascan-backend/internal/config"
	"github.com/google/uuid"
)

const sampleOutput = `{
  "features": {
    "asymmetry": 2,
    "pigment_network": "T",
    "dots_globules": "AT",
    "streaks": "P",
    "regression_areas": "P",
    "blue_whitish_veil": "P",
    "color_light_brown": true,
    "color_dark_brown": true
  },
  "classification": {
    "classification": [
      {"class_name": "Actinic Keratosis", "class_code": "akiec", "confidence_percent": 85.5},
      {"class_name": "Melanoma", "class_code": "mel", "confidence_percent": 4.3}
    ]
  }
}`

// writeScript creates a shell script invoked as: <sh> <script> <image> <output>.
func writeScript(t *testing.T, body string) *config.Config {
	t.Helper()

	scriptPath := filepath.Join(t.TempDir(), "process_image.sh")
	if err := os.WriteFile(scriptPath, []byte(body), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return &config.Config{
		PythonBin:       "/bin/sh",
		AnalyzerScript:  scriptPath,
		AnalyzerTempDir: t.TempDir(),
		AnalyzerTimeout: 2 * time.Second,
	}
}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lesion.jpg")
	if err := os.WriteFile(path, []byte("not a real jpeg"), 0o644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}

func TestScriptAnalyzerSuccess(t *testing.T) {
	cfg := writeScript(t, "cat > \"$2\" <<'EOF'\n"+sampleOutput+"\nEOF\n")
	a := NewScriptAnalyzer(cfg)

	result, err := a.Analyze(context.Background(), uuid.New(), writeImage(t))
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if result.Features == nil {
		t.Fatal("expected features, got nil")
	}
	if result.Features.Asymmetry != 2 || result.Features.PigmentNetwork != "T" {
		t.Errorf("unexpected features: %+v", result.Features)
	}
	if !result.Features.ColorDarkBrown || result.Features.ColorBlack {
		t.Errorf("unexpected color flags: %+v", result.Features)
	}
	if result.Classification == nil || len(result.Classification.Classification) != 2 {
		t.Fatalf("unexpected classification: %+v", result.Classification)
	}
	top := result.Classification.Classification[0]
	if top.ClassCode != "akiec" || top.ConfidencePercent != 85.5 {
		t.Errorf("unexpected top prediction: %+v", top)
	}

	// The intermediate output file must be cleaned up.
	entries, err := os.ReadDir(cfg.AnalyzerTempDir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir not cleaned up: %d entries left", len(entries))
	}
}

func TestScriptAnalyzerNonZeroExit(t *testing.T) {
	cfg := writeScript(t, "exit 1\n")
	a := NewScriptAnalyzer(cfg)

	_, err := a.Analyze(context.Background(), uuid.New(), writeImage(t))
	if !apperr.Is(err, apperr.Extraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
}

func TestScriptAnalyzerMissingOutput(t *testing.T) {
	cfg := writeScript(t, "exit 0\n")
	a := NewScriptAnalyzer(cfg)

	_, err := a.Analyze(context.Background(), uuid.New(), writeImage(t))
	if !apperr.Is(err, apperr.Extraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
}

func TestScriptAnalyzerMalformedOutput(t *testing.T) {
	cfg := writeScript(t, "echo 'not json' > \"$2\"\n")
	a := NewScriptAnalyzer(cfg)

	_, err := a.Analyze(context.Background(), uuid.New(), writeImage(t))
	if !apperr.Is(err, apperr.Extraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}

	// Cleanup applies even when parsing fails.
	entries, _ := os.ReadDir(cfg.AnalyzerTempDir)
	if len(entries) != 0 {
		t.Errorf("temp dir not cleaned up: %d entries left", len(entries))
	}
}

func TestScriptAnalyzerTimeout(t *testing.T) {
	// The forked sleep inherits the output pipe and outlives the killed
	// script, so this catches a wait that follows the pipe instead of the
	// deadline.
	cfg := writeScript(t, "sleep 5 &\nwait\n")
	cfg.AnalyzerTimeout = 100 * time.Millisecond
	a := NewScriptAnalyzer(cfg)

	start := time.Now()
	_, err := a.Analyze(context.Background(), uuid.New(), writeImage(t))
	if !apperr.Is(err, apperr.Extraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("analyze did not respect timeout, took %v", elapsed)
	}
}
