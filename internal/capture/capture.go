// Package capture renders a screen region into the capture artifact.
package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/scope/internal/artifact"
	"github.com/ironsheep/scope/internal/process"
	"github.com/ironsheep/scope/internal/region"
)

// ErrCaptureFailed means no usable image was written for the region.
var ErrCaptureFailed = errors.New("screen capture failed")

// Capturer grabs screen regions with a maim-compatible tool.
type Capturer struct {
	runner process.Runner
	binary string
}

// New creates a Capturer that invokes binary.
func New(runner process.Runner, binary string) *Capturer {
	return &Capturer{runner: runner, binary: binary}
}

// Command returns the invocation that writes exactly r into path.
func (c *Capturer) Command(r region.Region, path string) process.Command {
	return process.Command{
		Name: c.binary,
		Args: []string{"-g", r.Geometry(), path},
	}
}

// Capture writes region r into the artifact.
//
// The capture counts as produced only if the tool exits 0 and the artifact
// file exists and is non-empty afterwards. Every other outcome returns an
// error wrapping ErrCaptureFailed, so recognition never runs against a
// missing or stale file.
func (c *Capturer) Capture(ctx context.Context, r region.Region, a *artifact.Artifact) error {
	if !r.Valid() {
		return fmt.Errorf("%w: invalid region %s", ErrCaptureFailed, r)
	}

	res, err := c.runner.Run(ctx, c.Command(r, a.Path()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	if !res.Success() {
		msg := strings.TrimSpace(string(res.Stderr))
		if msg == "" {
			return fmt.Errorf("%w: %s exited with status %d", ErrCaptureFailed, c.binary, res.ExitCode)
		}
		return fmt.Errorf("%w: %s exited with status %d: %s", ErrCaptureFailed, c.binary, res.ExitCode, msg)
	}
	if !a.Exists() {
		return fmt.Errorf("%w: %s wrote no image to %s", ErrCaptureFailed, c.binary, a.Path())
	}
	return nil
}
