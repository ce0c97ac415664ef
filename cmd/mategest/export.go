package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mategest/internal/assessment"
	"github.com/dgallion1/mategest/internal/export"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the assessment extracted from FILE as an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := extractFile(args[0], opts.parseOptions(defaultMaxBytes), assessment.NewExtractor(opts.logger(cmd.ErrOrStderr())))
			if err != nil {
				return fmt.Errorf("extract %s: %w", args[0], err)
			}
			dest := out
			if dest == "" {
				dest = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".xlsx"
			}
			if err := writeWorkbook(dest, report, ""); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", dest, report.Summary())
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default: FILE with .xlsx extension)")
	return cmd
}

func writeWorkbook(path string, report *assessment.Report, profileText string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.WriteXLSX(f, report, profileText); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
