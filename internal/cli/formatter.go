package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/idelchi/dirtools/internal/dirstat"
	"github.com/idelchi/dirtools/internal/finder"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// PrintJSON outputs v in indented JSON format.
func PrintJSON(v any, writer io.Writer) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintYAML outputs v in YAML format.
func PrintYAML(v any, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2) //nolint:mnd // Two-space indentation

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML output: %w", err)
	}

	return encoder.Close()
}

// PrintMatches outputs one highlighted match per line.
func PrintMatches(matches []finder.Match, highlighter *finder.Highlighter, writer io.Writer) error {
	for _, m := range matches {
		if _, err := fmt.Fprintln(writer, highlighter.Render(m)); err != nil {
			return err
		}
	}

	return nil
}

// PrintTable outputs statistics in human-readable table format.
func PrintTable(stats *dirstat.Stats, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "Top directories:\t\t")

	for i, r := range stats.Top {
		pct := 0.0
		if stats.TotalBytes > 0 {
			pct = 100.0 * float64(r.Size) / float64(stats.TotalBytes)
		}

		fmt.Fprintf(w, "  %d) '%s'\t%s (%.1f%%)\n", i+1, r.Path, humanize.IBytes(r.Size), pct)
	}

	// Stats summary
	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Total directories:\t%d\n", stats.DirectoryCount)
	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n", humanize.IBytes(stats.TotalBytes), stats.TotalBytes)
	fmt.Fprintf(w, "Depth:\t%d\n", stats.Depth)

	fmt.Fprintf(w, "\nElapsed:\t%v\n", stats.Elapsed)

	return w.Flush()
}
