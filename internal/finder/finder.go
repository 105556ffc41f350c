// Package finder matches file names against a regular expression and renders
// the matches with the matched span highlighted.
package finder

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
)

// Match is a file whose base name matched the search pattern.
type Match struct {
	// Path is the file path as produced by the traversal.
	Path string `json:"path" yaml:"path"`
	// Rel is the slash separated path relative to the search root.
	Rel string `json:"rel" yaml:"rel"`
	// Name is the base name the pattern was applied to.
	Name string `json:"name" yaml:"name"`
	// Start and End delimit the leftmost match within Name.
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
	// Text is Name[Start:End].
	Text string `json:"text" yaml:"text"`
}

// Compile parses the search pattern.
func Compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}

	return re, nil
}

// ValidateExcludes reports the first malformed exclusion glob.
func ValidateExcludes(globs []string) error {
	for _, g := range globs {
		if !doublestar.ValidatePattern(g) {
			return fmt.Errorf("invalid exclusion pattern %q: %w", g, doublestar.ErrBadPattern)
		}
	}

	return nil
}

// Filter returns the paths whose base name matches re, in input order.
// Paths whose root-relative slash path matches one of the exclusion globs are dropped.
func Filter(root string, paths []string, re *regexp.Regexp, excludes []string) ([]Match, error) {
	if err := ValidateExcludes(excludes); err != nil {
		return nil, err
	}

	matches := make([]Match, 0)

	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil, fmt.Errorf("relativizing %q: %w", p, err)
		}

		rel = filepath.ToSlash(rel)

		if excluded(rel, excludes) {
			continue
		}

		name := filepath.Base(p)

		loc := re.FindStringIndex(name)
		if loc == nil {
			continue
		}

		matches = append(matches, Match{
			Path:  p,
			Rel:   rel,
			Name:  name,
			Start: loc[0],
			End:   loc[1],
			Text:  name[loc[0]:loc[1]],
		})
	}

	return matches, nil
}

func excluded(rel string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}

	return false
}

// Highlighter renders matches with the matched span colored.
type Highlighter struct {
	color *color.Color
}

// NewHighlighter creates a Highlighter. With enabled unset the output carries no escape codes.
func NewHighlighter(enabled bool) *Highlighter {
	c := color.New(color.FgGreen)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}

	return &Highlighter{color: c}
}

// Render returns the root-relative path of m with its match highlighted.
func (h *Highlighter) Render(m Match) string {
	prefix := ""
	if dir := path.Dir(m.Rel); dir != "." {
		prefix = dir + "/"
	}

	return prefix + m.Name[:m.Start] + h.color.Sprint(m.Text) + m.Name[m.End:]
}
