package main

import (
	"context"
	"io"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/resub/pkg/diag"
	"github.com/walteh/resub/pkg/pipeline"
	"github.com/walteh/resub/pkg/replacer"
	"github.com/walteh/resub/pkg/source"
)

// rootOpts holds the flag values shared by the whole invocation
type rootOpts struct {
	preview         bool
	fixedStrings    bool
	flags           string
	maxReplacements int
	fancy           bool
	onlyMatched     bool
	colorMode       string
	excludes        []string
	debug           bool
}

// NewRootCmd builds the resub command
func NewRootCmd() *cobra.Command {
	o := &rootOpts{}

	cmd := &cobra.Command{
		Use:     "resub [flags] <find> <replace-with> [file ...]",
		Short:   "find & replace text in files or standard input",
		Long:    "resub finds patterns in files (or standard input) and replaces matches per a template string. Changed files are replaced atomically; with no file arguments it filters standard input to standard output.",
		Args:    cobra.MinimumNArgs(2),
		Version: GetVersionInfo().Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), o.debug)
			reporter := diag.NewReporter(ctx)
			if err := run(ctx, cmd, o, args, reporter); err != nil {
				reporter.Error(err)
				return err
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().BoolVarP(&o.preview, "preview", "p", false, "print results to stdout instead of writing files")
	cmd.Flags().BoolVarP(&o.fixedStrings, "fixed-strings", "F", false, "treat FIND and REPLACE-WITH as literal strings")
	cmd.Flags().StringVarP(&o.flags, "flags", "f", "", "matching flags: c/i case, e no multi-line, s dot matches newline, w whole words")
	cmd.Flags().IntVarP(&o.maxReplacements, "max-replacements", "n", 0, "replace at most N matches per source (0 = unlimited)")
	cmd.Flags().BoolVar(&o.fancy, "fancy", false, "use the backtracking engine (lookaround support)")
	cmd.Flags().BoolVarP(&o.onlyMatched, "only-matched", "o", false, "emit only the replacement text, discarding unmatched spans")
	cmd.Flags().StringVar(&o.colorMode, "color", "auto", "colorize replacements in preview: auto, always, never")
	cmd.Flags().StringArrayVar(&o.excludes, "exclude", nil, "drop file arguments matching this glob (repeatable)")
	cmd.Flags().BoolVar(&o.debug, "debug", false, "enable debug logging")

	return cmd
}

// setupLogging configures zerolog on stderr and returns a context carrying it
func setupLogging(ctx context.Context, debug bool) context.Context {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	return logger.WithContext(ctx)
}

func run(ctx context.Context, cmd *cobra.Command, o *rootOpts, args []string, reporter *diag.Reporter) error {
	if o.fixedStrings && o.flags != "" {
		return errors.Errorf("-F/--fixed-strings cannot be combined with -f/--flags")
	}

	find, replaceWith := args[0], args[1]

	paths, err := filterExcluded(args[2:], o.excludes)
	if err != nil {
		return err
	}
	if len(args) > 2 && len(paths) == 0 {
		zerolog.Ctx(ctx).Debug().Msg("every file argument was excluded")
		return nil
	}

	var sources []source.Source
	if len(paths) == 0 {
		sources = source.StdinOnly()
	} else {
		sources = source.FromPaths(paths)
	}

	rep, err := buildReplacer(o, find, replaceWith)
	if err != nil {
		return err
	}

	p := &pipeline.Pipeline{
		Replacer:    rep,
		Loader:      source.NewLoader(cmd.InOrStdin()),
		Reporter:    reporter,
		OnlyMatched: o.onlyMatched,
		UseColor:    resolveColor(o.colorMode, cmd.OutOrStdout()),
	}

	results := p.Run(ctx, sources)

	// An all-stdin invocation always previews: there is nothing to write back.
	if o.preview || sources[0].IsStdin() {
		return pipeline.WritePreview(cmd.OutOrStdout(), results)
	}
	return pipeline.WriteBackAll(ctx, results)
}

// buildReplacer constructs the engine for the selected dialect
func buildReplacer(o *rootOpts, find, replaceWith string) (replacer.Replacer, error) {
	if o.fancy {
		return replacer.NewFancyReplacer(find, replaceWith, o.fixedStrings, o.flags, o.maxReplacements)
	}
	return replacer.NewRegexReplacer(find, replaceWith, o.fixedStrings, o.flags, o.maxReplacements)
}

// filterExcluded drops paths matching any exclude glob
func filterExcluded(paths []string, globs []string) ([]string, error) {
	if len(globs) == 0 {
		return paths, nil
	}

	kept := make([]string, 0, len(paths))
	for _, path := range paths {
		excluded := false
		for _, glob := range globs {
			matched, err := doublestar.Match(glob, path)
			if err != nil {
				return nil, errors.Errorf("invalid exclude pattern %q: %w", glob, err)
			}
			if matched {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, path)
		}
	}
	return kept, nil
}

// resolveColor decides whether preview output gets colorized
func resolveColor(mode string, out io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		f, ok := out.(*os.File)
		return ok && isatty.IsTerminal(f.Fd())
	}
}
