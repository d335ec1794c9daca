package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/skdltmxn/lookup-go/typesys"
)

var (
	outputFile string
	output     io.Writer
	verbose    bool
	colorMode  string
	color      bool
	logger     = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "memberview",
	Short: "Type model viewer and member lookup tool",
	Long: `memberview loads a YAML type model and answers member lookup
queries against it.

It can list assemblies, types and members, resolve a member name the way
a compiler does for member access, and run batches of lookups.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			output = f
		} else {
			output = cmd.OutOrStdout()
		}

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

		var err error
		color, err = colorEnabled(output)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if f, ok := output.(*os.File); ok && f != os.Stdout {
			f.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log lookup traces to stderr")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "colorize output (auto, always, never)")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(assembliesCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(dumpCmd)
}

func colorEnabled(w io.Writer) (bool, error) {
	switch colorMode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		f, ok := w.(*os.File)
		if !ok {
			return false, nil
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	}
	return false, fmt.Errorf("unknown color mode: %s", colorMode)
}

// paint wraps s in an ANSI color when color output is on.
func paint(code, s string) string {
	if !color {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

const (
	colorKind   = "36"
	colorName   = "1"
	colorDim    = "2"
	colorError  = "31"
	colorHeader = "33"
)

func loadModel(path string) (*typesys.Model, error) {
	m, err := typesys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	logger.Debug("model loaded", "path", path, "assemblies", len(m.Assemblies()), "types", m.Count())
	return m, nil
}

// resolveDefinition resolves a type reference to its definition.
func resolveDefinition(m *typesys.Model, ref string) (*typesys.Definition, error) {
	t, err := m.ResolveType(ref)
	if err != nil {
		return nil, err
	}
	def := t.Definition()
	if def == nil {
		return nil, fmt.Errorf("%s is not a declared type", ref)
	}
	return def, nil
}
