package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/dirtools/internal/dirstat"
	"github.com/idelchi/dirtools/internal/finder"
	"github.com/idelchi/dirtools/internal/logger"
	"github.com/idelchi/dirtools/internal/prepend"
	"github.com/idelchi/dirtools/internal/progress"
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// logConfig reports the config file in use at debug level.
func (o *common) logConfig(log *logger.Logger) {
	if o.source != "" {
		logger.Named(log, "config").Debugf("loaded %s", o.source)
	}
}

func fim(options fimOptions, stdout, stderr io.Writer) error {
	log := logger.New(stderr, options.Debug)
	options.logConfig(log)

	re, err := finder.Compile(options.Pattern)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := finder.ValidateExcludes(options.Excludes); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	logger.Named(log, "fim").Debugf("searching %s for %q", options.Directory, re.String())

	var spinner *progress.Spinner
	if options.Output == "text" && !options.Debug && isTerminal(stderr) {
		spinner = progress.New(stderr, "Searching...", progress.DefaultInterval)
	}

	spinner.Start()
	paths, err := dirstat.New(log).Enumerate(options.Directory)
	spinner.Stop()

	if err != nil {
		return err
	}

	matches, err := finder.Filter(options.Directory, paths, re, options.Excludes)
	if err != nil {
		return err
	}

	switch options.Output {
	case "json":
		return PrintJSON(matches, stdout)
	case "yaml":
		return PrintYAML(matches, stdout)
	default:
		return PrintMatches(matches, finder.NewHighlighter(options.color && isTerminal(stdout)), stdout)
	}
}

func sizer(options sizerOptions, stdout, stderr io.Writer) error {
	log := logger.New(stderr, options.Debug)
	options.logConfig(log)

	stats, err := dirstat.New(log).Run(dirstat.ScanContext{
		Root:       options.Root,
		DepthLimit: options.Depth,
	}, options.Results)
	if err != nil {
		return err
	}

	switch options.Output {
	case "json":
		return PrintJSON(stats, stdout)
	case "yaml":
		return PrintYAML(stats, stdout)
	default:
		return PrintTable(stats, stdout)
	}
}

func prependFile(options prependOptions, stderr io.Writer) error {
	log := logger.New(stderr, options.Debug)
	options.logConfig(log)

	result, err := prepend.New(log).Prepend(options.File, options.Text)
	if err != nil {
		return err
	}

	logger.Named(log, "prepend").Debugf("%s: %s written, original kept at %s",
		result.Path, humanize.IBytes(uint64(result.Bytes)), result.Backup) //nolint:gosec // Bytes is never negative

	return nil
}
