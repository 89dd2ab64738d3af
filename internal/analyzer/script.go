package analyzer

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/dermascan/dermascan-backend/internal/apperr"
	"github.com/dermascan/dermascan-backend/internal/config"
	"github.com/google/uuid"
)

// ScriptAnalyzer runs the classification script as a child process:
//
//	<python> <script> <absoluteImagePath> <absoluteOutputPath>
//
// The script must write the result JSON to outputPath and exit 0. The
// intermediate file is named after the image ID so concurrent uploads never
// collide, and is removed even when parsing fails later.
type ScriptAnalyzer struct {
	python  string
	script  string
	tempDir string
	timeout time.Duration
}

func NewScriptAnalyzer(cfg *config.Config) *ScriptAnalyzer {
	return &ScriptAnalyzer{
		python:  cfg.PythonBin,
		script:  cfg.AnalyzerScript,
		tempDir: cfg.AnalyzerTempDir,
		timeout: cfg.AnalyzerTimeout,
	}
}

func (a *ScriptAnalyzer) Analyze(ctx context.Context, imageID uuid.UUID, imagePath string) (*Result, error) {
	absImage, err := filepath.Abs(imagePath)
	if err != nil {
		return nil, apperr.Wrap(apperr.Extraction, "failed to resolve image path", err)
	}

	if err := os.MkdirAll(a.tempDir, 0o755); err != nil {
		return nil, apperr.Wrap(apperr.Extraction, "failed to create temp directory", err)
	}
	outputPath, err := filepath.Abs(filepath.Join(a.tempDir, imageID.String()+".json"))
	if err != nil {
		return nil, apperr.Wrap(apperr.Extraction, "failed to resolve output path", err)
	}
	defer os.Remove(outputPath)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, a.python, a.script, absImage, outputPath)
	// The script may fork workers that inherit the output pipe. Without a
	// wait delay, CombinedOutput blocks on the pipe until every descendant
	// exits, long past the deadline.
	cmd.WaitDelay = time.Second
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, apperr.Wrap(apperr.Extraction, "analysis timed out", ctx.Err())
		}
		slog.Error("analysis script failed", "image_id", imageID, "output", string(output), "error", err)
		return nil, apperr.Wrap(apperr.Extraction, "analysis script failed", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, apperr.Wrap(apperr.Extraction, "analysis output file was not created", err)
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, apperr.Wrap(apperr.Extraction, "failed to parse analysis output", err)
	}
	return &result, nil
}
