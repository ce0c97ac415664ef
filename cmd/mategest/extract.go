package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/mategest/internal/assessment"
	"github.com/dgallion1/mategest/internal/export"
	"github.com/dgallion1/mategest/internal/parser"
)

func newExtractCmd(opts *rootOptions) *cobra.Command {
	var (
		format      string
		concurrency int
		maxBytes    int64
	)
	cmd := &cobra.Command{
		Use:   "extract FILE...",
		Short: "Extract previous assessments from documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger(cmd.ErrOrStderr())
			results := extractFiles(cmd.Context(), args, concurrency, opts.parseOptions(maxBytes), assessment.NewExtractor(log))

			failed := 0
			for _, r := range results {
				if r.Error != "" {
					failed++
				}
			}
			var out any = results
			if len(results) == 1 && failed == 0 {
				out = results[0].Report
			}
			if err := export.Write(cmd.OutOrStdout(), format, out); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", export.FormatJSON, "output format: json or yaml")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", runtime.NumCPU(), "files processed in parallel")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", defaultMaxBytes, "largest document accepted")
	return cmd
}

// fileResult is the outcome for one input file.
type fileResult struct {
	File   string             `json:"file" yaml:"file"`
	Report *assessment.Report `json:"report,omitempty" yaml:"report,omitempty"`
	Error  string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// extractFiles parses and extracts each path with at most concurrency
// files in flight. Results keep the input order; one file failing does
// not stop the others.
func extractFiles(ctx context.Context, paths []string, concurrency int, opts parser.Options, ex *assessment.Extractor) []fileResult {
	if ctx == nil {
		ctx = context.Background()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	results := make([]fileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, path := range paths {
		g.Go(func() error {
			results[i] = fileResult{File: path}
			if err := gctx.Err(); err != nil {
				results[i].Error = err.Error()
				return nil
			}
			report, err := extractFile(path, opts, ex)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			results[i].Report = report
			return nil
		})
	}
	g.Wait()
	return results
}

func extractFile(path string, opts parser.Options, ex *assessment.Extractor) (*assessment.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	text, err := parser.ExtractText(f, filepath.Base(path), opts)
	if err != nil {
		return nil, err
	}
	return ex.Extract(text), nil
}
