package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idelchi/dirtools/internal/config"
)

// ErrInvalidInput marks errors caused by malformed arguments or flags.
var ErrInvalidInput = errors.New("invalid input")

// CLI represents the command-line interfaces of the tools.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// common holds the flags shared by every tool.
type common struct {
	// Debug indicates whether debug output is enabled.
	Debug bool
	// Config is the path of the config file.
	Config string

	// source is the config file actually loaded, empty when defaults were used.
	source string
}

func (o *common) register(flags *pflag.FlagSet) {
	flags.BoolVar(&o.Debug, "debug", false, "Enable debug output")
	flags.StringVar(&o.Config, "config", "", "Path to the config file (default $"+config.EnvPath+" or the user config dir)")
}

// newCommand applies the settings shared by every tool to cmd.
func (c CLI) newCommand(cmd *cobra.Command) *cobra.Command {
	cmd.Version = c.version
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.Flags().SortFlags = false
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	})

	return cmd
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// exactArgs wraps cobra.ExactArgs so that a wrong argument count is reported as invalid input.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}

		return nil
	}
}

func checkOutput(output string, allowed []string) error {
	if !slices.Contains(allowed, output) {
		return invalid("output format %q: must be one of %v", output, allowed)
	}

	return nil
}

// Fim returns the command of the filename search tool.
func (c CLI) Fim() *cobra.Command {
	var options fimOptions

	cmd := c.newCommand(&cobra.Command{
		Use:   "fim [flags] PATTERN",
		Short: "Find files whose name matches a regular expression",
		Long: heredoc.Doc(`
			fim (Find IMproved) recursively searches a directory for files whose
			name matches a regular expression.

			The pattern is applied to the file name only, never to the directories
			leading to it. Matches are printed relative to the search directory with
			the matched part highlighted.

			Any unreadable directory aborts the search.
		`),
		Example: heredoc.Doc(`
			fim '\.go$'
			fim -d ~/src --exclude 'vendor/**' '^main'
		`),
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Pattern = args[0]

			if err := options.resolve(cmd.Flags()); err != nil {
				return err
			}

			return fim(options, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	})

	flags := cmd.Flags()
	flags.StringVarP(&options.Directory, "directory", "d", "", "The root directory to search (default current directory)")
	flags.StringSliceVarP(&options.Excludes, "exclude", "e", nil, "Glob patterns of root-relative paths to leave out (e.g. 'vendor/**')")
	flags.StringVarP(&options.Output, "output", "o", "text", "Output format: text, json or yaml")
	flags.BoolVar(&options.NoColor, "no-color", false, "Disable match highlighting")
	options.register(flags)

	return cmd
}

// Sizer returns the command of the directory sizing tool.
func (c CLI) Sizer() *cobra.Command {
	var options sizerOptions

	cmd := c.newCommand(&cobra.Command{
		Use:   "sizer [flags]",
		Short: "Find the directories taking up the most space",
		Long: heredoc.Doc(`
			sizer finds the directories that take up the most space.

			Directories closer to the root than --depth report the size of the files
			they directly contain. Directories at --depth report the size of their
			whole subtree. The root always reports its own files. Every file is
			counted exactly once.

			Any unreadable directory aborts the scan.
		`),
		Example: heredoc.Doc(`
			sizer
			sizer -r /var -d 2 -n 20
			sizer -o json
		`),
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := options.resolve(cmd.Flags()); err != nil {
				return err
			}

			return sizer(options, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	})

	flags := cmd.Flags()
	flags.StringVarP(&options.Root, "root-directory", "r", "", "The root directory to begin sizing (default current directory)")
	flags.IntVarP(&options.Results, "results", "n", 10, "The number of results to output")
	flags.IntVarP(&options.Depth, "depth", "d", 5, "Depth at which directories are reported with their whole subtree")
	flags.StringVarP(&options.Output, "output", "o", "table", "Output format: table, json or yaml")
	options.register(flags)

	return cmd
}

// Prepend returns the command of the prepend tool.
func (c CLI) Prepend() *cobra.Command {
	var options prependOptions

	cmd := c.newCommand(&cobra.Command{
		Use:   "prepend [flags] TEXT FILE",
		Short: "Insert TEXT as the first line of FILE",
		Long: heredoc.Doc(`
			prepend inserts TEXT as the first line of FILE.

			The original is kept next to FILE with '.bak' appended to its name
			(notes.txt becomes notes.txt.bak). Running 'prepend test temp.txt' is
			the same as running 'sed -i.bak "1i test" temp.txt'.
		`),
		Args: exactArgs(2), //nolint:mnd // TEXT and FILE
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Text = args[0]
			options.File = args[1]

			if _, err := options.load(); err != nil {
				return err
			}

			return prependFile(options, cmd.ErrOrStderr())
		},
	})

	options.register(cmd.Flags())

	return cmd
}
