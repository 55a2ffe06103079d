// Package region drives the interactive screen-area selection.
//
// # Coordinate System
//
// Regions use screen pixels with (0,0) at the top-left corner of the root
// window. X grows rightward and Y grows downward, the same convention the
// imaging package uses for image coordinates.
//
// # Aborted Selections
//
// The user cancelling the selector (Esc, right click) is an expected outcome,
// not a failure. Every such case, and every malformed or zero-sized answer,
// surfaces as ErrAborted so callers have a single branch for "nothing to
// capture".
package region

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ironsheep/scope/internal/process"
)

// ErrAborted means the user made no usable selection.
var ErrAborted = errors.New("region selection aborted")

// Region is a rectangular area of the screen.
type Region struct {
	X      int `json:"x"`      // Left edge
	Y      int `json:"y"`      // Top edge
	Width  int `json:"width"`  // Width in pixels
	Height int `json:"height"` // Height in pixels
}

// Valid reports whether r describes a non-empty area at non-negative
// coordinates.
func (r Region) Valid() bool {
	return r.Width > 0 && r.Height > 0 && r.X >= 0 && r.Y >= 0
}

// Geometry renders r as an X11 geometry string, "WxH+X+Y".
func (r Region) Geometry() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

func (r Region) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

// ParseGeometry parses the selector's "x,y,w,h" record.
//
// Surrounding whitespace is ignored. Empty input, a field count other than
// four, non-integer fields, and regions that are not Valid all return an
// error wrapping ErrAborted.
func ParseGeometry(s string) (Region, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Region{}, fmt.Errorf("%w: empty geometry", ErrAborted)
	}

	fields := strings.Split(s, ",")
	if len(fields) != 4 {
		return Region{}, fmt.Errorf("%w: geometry %q has %d fields, want 4", ErrAborted, s, len(fields))
	}

	var vals [4]int
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return Region{}, fmt.Errorf("%w: geometry field %q is not an integer", ErrAborted, f)
		}
		vals[i] = v
	}

	r := Region{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
	if !r.Valid() {
		return Region{}, fmt.Errorf("%w: empty or negative region %s", ErrAborted, r)
	}
	return r, nil
}

// Selector asks the user for a region through an external selection tool.
type Selector struct {
	runner process.Runner
	binary string
}

// NewSelector creates a Selector that invokes binary (slop-compatible).
func NewSelector(runner process.Runner, binary string) *Selector {
	return &Selector{runner: runner, binary: binary}
}

// Command returns the selector invocation: no overlay, geometry as x,y,w,h.
func (s *Selector) Command() process.Command {
	return process.Command{
		Name: s.binary,
		Args: []string{"-o", "-f", "%x,%y,%w,%h"},
	}
}

// Select blocks until the user finishes selecting.
//
// Every failure mode returns an error wrapping ErrAborted: an execution
// error, a non-zero exit (the user cancelled) and unparseable output. The
// selection is interactive, so ctx should not carry a deadline.
func (s *Selector) Select(ctx context.Context) (Region, error) {
	res, err := s.runner.Run(ctx, s.Command())
	if err != nil {
		return Region{}, fmt.Errorf("%w: %v", ErrAborted, err)
	}
	if !res.Success() {
		return Region{}, fmt.Errorf("%w: %s exited with status %d", ErrAborted, s.binary, res.ExitCode)
	}
	return ParseGeometry(string(res.Stdout))
}
