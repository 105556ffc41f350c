package cli

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/idelchi/dirtools/internal/config"
)

// fimOptions configures the fim tool.
type fimOptions struct {
	common

	// Directory is the root of the search.
	Directory string
	// Pattern is the regular expression applied to file names.
	Pattern string
	// Excludes contains glob patterns of root-relative paths to drop.
	Excludes []string
	// Output is the output format (text, json or yaml).
	Output string
	// NoColor disables match highlighting.
	NoColor bool

	color bool
}

// sizerOptions configures the sizer tool.
type sizerOptions struct {
	common

	// Root is the directory to aggregate.
	Root string
	// Results is the number of directories to report.
	Results int
	// Depth is the depth limit of the aggregation.
	Depth int
	// Output is the output format (table, json or yaml).
	Output string
}

// prependOptions configures the prepend tool.
type prependOptions struct {
	common

	// Text is the line to insert.
	Text string
	// File is the file to rewrite.
	File string
}

func (o *common) load() (config.Config, error) {
	cfg, err := config.Load(o.Config)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}

	o.source = cfg.Source

	return cfg, nil
}

// workingDir returns dir, or the current directory when dir is empty.
func workingDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}

	return cwd, nil
}

// resolve fills the options not set on the command line from the config file and validates them.
func (o *fimOptions) resolve(flags *pflag.FlagSet) error {
	cfg, err := o.load()
	if err != nil {
		return err
	}

	if !flags.Changed("exclude") {
		o.Excludes = cfg.Fim.Exclude
	}

	if !flags.Changed("output") {
		o.Output = cfg.Fim.Output
	}

	o.color = cfg.Fim.Color && !o.NoColor

	if err := checkOutput(o.Output, []string{"text", "json", "yaml"}); err != nil {
		return err
	}

	o.Directory, err = workingDir(o.Directory)

	return err
}

// resolve fills the options not set on the command line from the config file and validates them.
func (o *sizerOptions) resolve(flags *pflag.FlagSet) error {
	cfg, err := o.load()
	if err != nil {
		return err
	}

	if !flags.Changed("results") {
		o.Results = cfg.Sizer.Results
	}

	if !flags.Changed("depth") {
		o.Depth = cfg.Sizer.Depth
	}

	if !flags.Changed("output") {
		o.Output = cfg.Sizer.Output
	}

	if o.Results < 0 {
		return invalid("results cannot be negative")
	}

	if o.Depth < 0 {
		return invalid("depth cannot be negative")
	}

	if err := checkOutput(o.Output, []string{"table", "json", "yaml"}); err != nil {
		return err
	}

	o.Root, err = workingDir(o.Root)

	return err
}
