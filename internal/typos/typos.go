package typos

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cyberpills/avisos/internal/logger"
)

// ErrNotFound is returned when the file to fix does not exist.
var ErrNotFound = errors.New("file not found")

// Replacement is a literal find/replace pair.
type Replacement struct {
	Old string `mapstructure:"old" yaml:"old" validate:"required"`
	New string `mapstructure:"new" yaml:"new"`
}

// DefaultReplacements are the CyberPill titles whose punctuation was lost when
// the schedule was exported. Both entity-encoded and plain variants are listed.
var DefaultReplacements = []Replacement{
	{"&#191;Qui&#233;n est&#225; dentro de tu cuenta_", "&#191;Qui&#233;n est&#225; dentro de tu cuenta?"},
	{"&#191;Sabes qui&#233;n te est&#225; mirando_", "&#191;Sabes qui&#233;n te est&#225; mirando?"},
	{"Me han robado la cuenta_ 5 pasos", "Me han robado la cuenta: 5 pasos"},
	{"El acosador no manda solo_ el grupo", "El acosador no manda solo, el grupo"},
	{"No es broma_ es ciberacoso", "No es broma, es ciberacoso"},
	{"No es ligar_ es grooming", "No es ligar, es grooming"},
	{"PAU_ el mensaje", "PAU: el mensaje"},
	{"No te hackean_ te infectan", "No te hackean, te infectan"},
	{"Ransomware_ el d&#237;a", "Ransomware: el d&#237;a"},
	{"Wi-Fi p&#250;blico_ c&#243;modo", "Wi-Fi p&#250;blico: c&#243;modo"},
	{"No era mi amigo_ era", "No era mi amigo, era"},
	{"No te calles_", "No te calles!"},
	{"¿Quién está dentro de tu cuenta_", "¿Quién está dentro de tu cuenta?"},
	{"¿Sabes quién te está mirando_", "¿Sabes quién te está mirando?"},
	{"No pagues. No negocies. No te calles_", "No pagues. No negocies. No te calles!"},
}

// Change records how many times one pair was applied.
type Change struct {
	Replacement
	Count int
}

// Result is the outcome of applying a replacement list.
type Result struct {
	Content string
	Changes []Change
	Total   int
}

// Fixer applies an ordered replacement list.
type Fixer struct {
	replacements []Replacement
}

// New creates a Fixer. Pairs with an empty Old string are ignored.
func New(replacements []Replacement) *Fixer {
	kept := make([]Replacement, 0, len(replacements))
	for _, r := range replacements {
		if r.Old == "" {
			continue
		}
		kept = append(kept, r)
	}
	return &Fixer{replacements: kept}
}

// NewDefault creates a Fixer with DefaultReplacements followed by extra.
func NewDefault(extra ...Replacement) *Fixer {
	all := make([]Replacement, 0, len(DefaultReplacements)+len(extra))
	all = append(all, DefaultReplacements...)
	all = append(all, extra...)
	return New(all)
}

// Replacements returns the pairs the fixer applies, in order.
func (f *Fixer) Replacements() []Replacement {
	return f.replacements
}

// Apply runs every pair in order over content. Each pair sees the output of
// the previous ones.
func (f *Fixer) Apply(content string) Result {
	result := Result{Content: content}
	for _, r := range f.replacements {
		n := strings.Count(result.Content, r.Old)
		if n == 0 {
			continue
		}
		result.Content = strings.ReplaceAll(result.Content, r.Old, r.New)
		result.Changes = append(result.Changes, Change{Replacement: r, Count: n})
		result.Total += n
	}
	return result
}

// FixFile applies the fixer to path and rewrites it when something changed,
// unless dryRun is set.
func (f *Fixer) FixFile(path string, dryRun bool) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Result{}, fmt.Errorf("stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}

	result := f.Apply(string(data))
	logger.AddCounter("typos.replaced", int64(result.Total))

	if result.Total == 0 || dryRun {
		return result, nil
	}

	if err := os.WriteFile(path, []byte(result.Content), info.Mode().Perm()); err != nil {
		return result, fmt.Errorf("writing %s: %w", path, err)
	}
	logger.Debug("Rewrote file", logger.Fields{"file": path, "replacements": result.Total})

	return result, nil
}

// WriteReport prints one line per applied pair and a closing summary.
func WriteReport(w io.Writer, path string, result Result) {
	for _, c := range result.Changes {
		fmt.Fprintf(w, "Replaced %d occurrences of '%s' with '%s'\n", c.Count, c.Old, c.New)
	}
	if result.Total > 0 {
		fmt.Fprintf(w, "\nFixed %d typos in %s.\n", result.Total, path)
		return
	}
	fmt.Fprintln(w, "No typos found to fix.")
}
