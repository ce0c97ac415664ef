// Package main provides the command-line entrypoint for mategest.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mategest/internal/parser"
)

const defaultMaxBytes = 20 << 20

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	verbose       bool
	noPDFFallback bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:          "mategest",
		Short:        "Extract competency assessments and generate profiles",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log extraction details to stderr")
	rootCmd.PersistentFlags().BoolVar(&opts.noPDFFallback, "no-pdftotext", false, "do not fall back to pdftotext for PDFs")

	rootCmd.AddCommand(newExtractCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newProfileCmd(opts))

	return rootCmd
}

// logger logs to w so stdout stays machine-readable.
func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *rootOptions) parseOptions(maxBytes int64) parser.Options {
	return parser.Options{PDFFallback: !o.noPDFFallback, MaxBytes: maxBytes}
}
