package ocr

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ironsheep/scope/internal/process"
)

// OrientationPack is tesseract's orientation and script detection data. It is
// installed like a language but cannot recognize text.
const OrientationPack = "osd"

// LanguageSeparator joins codes into one tesseract -l argument.
const LanguageSeparator = "+"

// LanguageSet is an ordered list of distinct tesseract language codes.
// Sets built by NewLanguageSet or Discover are never empty.
type LanguageSet struct {
	codes []string
}

// NewLanguageSet builds a set from codes, dropping blanks, duplicates and the
// orientation pack. If nothing usable remains, the set holds only fallback.
func NewLanguageSet(codes []string, fallback string) LanguageSet {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" || c == OrientationPack || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	if len(out) == 0 {
		out = append(out, fallback)
	}
	return LanguageSet{codes: out}
}

// Codes returns a copy of the language codes in order.
func (s LanguageSet) Codes() []string {
	out := make([]string, len(s.codes))
	copy(out, s.codes)
	return out
}

// Len returns the number of languages.
func (s LanguageSet) Len() int {
	return len(s.codes)
}

// Arg renders the set as a tesseract -l value, e.g. "eng+deu".
func (s LanguageSet) Arg() string {
	return strings.Join(s.codes, LanguageSeparator)
}

func (s LanguageSet) String() string {
	return s.Arg()
}

// ParseLanguages extracts language codes from `tesseract --list-langs`
// output. The first line is a header ("List of available languages in ...")
// and is skipped. Blank lines and the orientation pack are dropped.
func ParseLanguages(output string) []string {
	lines := strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n")
	if len(lines) <= 1 {
		return nil
	}

	var codes []string
	for _, line := range lines[1:] {
		code := strings.TrimSpace(line)
		if code == "" || code == OrientationPack {
			continue
		}
		codes = append(codes, code)
	}
	return codes
}

// Discoverer lists installed language packs.
type Discoverer struct {
	runner   process.Runner
	binary   string
	fallback string
	log      *slog.Logger
}

// NewDiscoverer creates a Discoverer for a tesseract-compatible binary.
func NewDiscoverer(runner process.Runner, binary, fallback string, log *slog.Logger) *Discoverer {
	return &Discoverer{runner: runner, binary: binary, fallback: fallback, log: log}
}

// Discover returns every installed language, or the fallback language alone
// when listing fails or finds nothing usable. It never fails.
func (d *Discoverer) Discover(ctx context.Context) LanguageSet {
	res, err := d.runner.Run(ctx, process.Command{Name: d.binary, Args: []string{"--list-langs"}})
	switch {
	case err != nil:
		d.log.Warn("language discovery failed, using fallback", "error", err, "fallback", d.fallback)
		return NewLanguageSet(nil, d.fallback)
	case !res.Success():
		d.log.Warn("language discovery exited non-zero, using fallback",
			"status", res.ExitCode, "fallback", d.fallback)
		return NewLanguageSet(nil, d.fallback)
	}

	set := NewLanguageSet(ParseLanguages(string(res.Stdout)), d.fallback)
	d.log.Debug("discovered languages", "languages", set.Arg())
	return set
}
