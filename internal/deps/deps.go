// Package deps verifies that the external tools scope drives are installed.
package deps

import (
	"fmt"
	"strings"

	"github.com/ironsheep/scope/internal/config"
	"github.com/ironsheep/scope/internal/process"
)

// Capabilities the pipeline cannot run without.
const (
	RegionSelect = "region-select"
	Capture      = "capture"
	Recognize    = "recognize"
	Clipboard    = "clipboard"
)

// ClipboardBackends are the utilities the clipboard library can drive. Any
// one of them satisfies the clipboard capability.
var ClipboardBackends = []string{"xclip", "xsel", "wl-copy"}

// Requirement binds a capability to the binary that provides it.
type Requirement struct {
	Capability string `json:"capability"`
	Binary     string `json:"binary"`

	// Alternatives also satisfy the capability when Binary is absent.
	Alternatives []string `json:"alternatives,omitempty"`
}

// Satisfied reports whether Binary or one of the alternatives is available.
func (r Requirement) Satisfied(probe process.Prober) bool {
	if probe.Available(r.Binary) {
		return true
	}
	for _, alt := range r.Alternatives {
		if probe.Available(alt) {
			return true
		}
	}
	return false
}

func (r Requirement) String() string {
	return fmt.Sprintf("%s (%s)", r.Binary, r.Capability)
}

// Requirements returns the fixed requirement set, in check order, with the
// binaries configured in tools.
func Requirements(tools config.Tools) []Requirement {
	return []Requirement{
		{Capability: RegionSelect, Binary: tools.RegionSelect},
		{Capability: Capture, Binary: tools.Capture},
		{Capability: Recognize, Binary: tools.Recognize},
		{Capability: Clipboard, Binary: tools.Clipboard, Alternatives: without(ClipboardBackends, tools.Clipboard)},
	}
}

func without(names []string, name string) []string {
	var out []string
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

// Check probes every requirement and returns all that are missing, in input
// order. It never stops at the first missing tool. A nil result means every
// requirement is present.
func Check(reqs []Requirement, probe process.Prober) []Requirement {
	var missing []Requirement
	for _, req := range reqs {
		if !req.Satisfied(probe) {
			missing = append(missing, req)
		}
	}
	return missing
}

// Describe renders a missing list as one user-facing message.
func Describe(missing []Requirement) string {
	names := make([]string, len(missing))
	for i, req := range missing {
		names[i] = req.String()
	}
	return fmt.Sprintf("Missing tools: %s\nInstall them.", strings.Join(names, ", "))
}

// Capabilities extracts the capability names of reqs.
func Capabilities(reqs []Requirement) []string {
	out := make([]string, len(reqs))
	for i, req := range reqs {
		out[i] = req.Capability
	}
	return out
}
