package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"babelgen/parser"

	"github.com/spf13/cobra"
)

var ErrMissingInput = errors.New("Missing input file. Hint: `babelgen path/to/input.js`")

// plugins is the parser plugin set every invocation runs with.
var plugins = []string{parser.PLUGIN_CLASS_PROPERTIES}

// NewRootCommand builds the babelgen command. The AST goes to stdout,
// diagnostics and logs go to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "babelgen [flags] [--] <input>",
		Short: "Print the Babel AST of a JavaScript file as JSON",
		Long: `babelgen parses a single JavaScript file and prints its syntax tree
in the JSON shape produced by @babel/parser.

Files ending in .mjs are parsed as modules, everything else as scripts.
A path starting with '-' goes after --, as in: babelgen -- -input.js`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return ErrMissingInput
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

			return run(logger, args[0], stdout)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w (paths starting with '-' go after --, as in `babelgen -- -input.js`)", err)
	})
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log parse details to stderr")

	return cmd
}

func run(logger *slog.Logger, path string, stdout io.Writer) error {
	input, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	sourceType := sourceTypeFor(path)
	logger.Debug("parsing input", "path", path, "bytes", len(input), "sourceType", sourceType)

	file, err := parser.Parse(input, &parser.Options{
		SourceType: sourceType,
		Plugins:    plugins,
	})
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	logger.Debug("parsed input", "path", path, "nodes", parser.CountNodes(file), "comments", len(file.Comments))

	// Nothing reaches stdout unless the whole tree encoded.
	var buf bytes.Buffer
	if err := parser.Encode(&buf, file); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	_, err = buf.WriteTo(stdout)
	return err
}

// sourceTypeFor picks the source type from the file extension. An empty
// source type leaves the choice to the parser default.
func sourceTypeFor(path string) parser.SourceType {
	if filepath.Ext(path) == ".mjs" {
		return parser.SOURCE_MODULE
	}
	return parser.SOURCE_UNSPECIFIED
}

// Execute runs the root command with args and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
