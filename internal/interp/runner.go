// Package interp invokes the external interpolation process and parses the
// marker protocol on its standard output.
package interp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"soilviz/internal/config"
	"soilviz/internal/domain"
)

// Stdout marker protocol emitted by the interpolation script.
const (
	boundsMarker  = "BOUNDS_JSON:"
	warningMarker = "WARNING:"
)

// Runner launches one interpolation process per call.
type Runner interface {
	Run(ctx context.Context, boundaryPath, samplePath, outputPath string) (*domain.InterpolationResult, error)
}

type processRunner struct {
	cfg *config.InterpConfig
}

// NewRunner creates a Runner backed by the configured external command.
func NewRunner(cfg *config.InterpConfig) Runner {
	return &processRunner{cfg: cfg}
}

// Run invokes the process with the three paths as positional arguments and
// blocks until it exits or the configured timeout elapses. The timeout kills
// the process group and surfaces as domain.ErrInterpolationTimeout, distinct
// from an ordinary process failure. A non-zero exit surfaces the stderr text
// verbatim as the failure detail, falling back to the launch error message
// when stderr is empty.
func (r *processRunner) Run(ctx context.Context, boundaryPath, samplePath, outputPath string) (*domain.InterpolationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	args := append(r.cfg.Args(), boundaryPath, samplePath, outputPath)
	// #nosec G204 -- fixed configured binary plus staged file paths; no shell.
	cmd := exec.CommandContext(ctx, r.cfg.Command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Run the script in its own process group so the deadline reaches any
	// helpers it forks, not just the direct child.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	start := time.Now()
	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%w after %s", domain.ErrInterpolationTimeout, r.cfg.Timeout)
	}
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrInterpolation, detail)
	}

	log.Printf("interp.Run: process finished in %s", time.Since(start).Round(time.Millisecond))
	return parseOutput(stdout.String()), nil
}

// parseOutput scans stdout for at most one BOUNDS_JSON line and any number of
// WARNING lines, in order. A missing or malformed bounds marker falls back to
// domain.DefaultBounds; that recovery is logged here and never surfaced.
func parseOutput(out string) *domain.InterpolationResult {
	res := &domain.InterpolationResult{
		Bounds:   domain.DefaultBounds,
		Warnings: []string{},
	}
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if rest, ok := strings.CutPrefix(line, warningMarker); ok {
			res.Warnings = append(res.Warnings, strings.TrimSpace(rest))
			continue
		}
		rest, ok := strings.CutPrefix(line, boundsMarker)
		if !ok {
			continue
		}
		var b domain.Bounds
		if err := json.Unmarshal([]byte(strings.TrimSpace(rest)), &b); err != nil {
			log.Printf("interp.parseOutput: malformed bounds marker %q: %v", rest, err)
			continue
		}
		res.Bounds = b
		res.FromProcess = true
	}
	return res
}
