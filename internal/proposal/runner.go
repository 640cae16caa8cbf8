package proposal

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"upscout/internal/config"
	"upscout/internal/logging"
	"upscout/pkg/utils"
)

// Generator produces proposal text for one serialized listing payload.
type Generator interface {
	Generate(ctx context.Context, payload []byte) (string, error)
}

// ProcessRunner generates proposals by spawning an external command
// with the listing JSON as its single argument and reading the text
// from stdout. The process boundary keeps the generation model swap-
// pable without touching this service.
type ProcessRunner struct {
	config *config.Config
	logger logging.Logger
}

// NewProcessRunner creates a generator backed by the configured command
func NewProcessRunner(cfg *config.Config) *ProcessRunner {
	return &ProcessRunner{
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}
}

// Generate runs the generator process and returns its trimmed stdout.
// Any stderr output or non-zero exit is a generation failure; partial
// stdout from a failed run is discarded.
func (r *ProcessRunner) Generate(ctx context.Context, payload []byte) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.config.Generator.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.config.Generator.Command, r.config.Generator.Script, string(payload))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("Spawning proposal generator", map[string]interface{}{
		"command": r.config.Generator.Command,
		"script":  r.config.Generator.Script,
	})

	err := cmd.Run()
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return "", utils.NewGenerationError(fmt.Sprintf(
				"generator timed out after %s", r.config.Generator.Timeout))
		}
		return "", utils.NewGenerationError(fmt.Sprintf(
			"generator exited abnormally: %v: %s", err, strings.TrimSpace(stderr.String())))
	}

	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return "", utils.NewGenerationError(fmt.Sprintf("generator reported an error: %s", msg))
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", utils.NewGenerationError("generator produced no output")
	}

	return text, nil
}
