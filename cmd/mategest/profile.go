package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mategest/internal/assessment"
	"github.com/dgallion1/mategest/internal/config"
	"github.com/dgallion1/mategest/internal/parser"
	"github.com/dgallion1/mategest/internal/profile"
)

func newProfileCmd(opts *rootOptions) *cobra.Command {
	var (
		previous string
		xlsx     string
		dryRun   bool
	)
	cmd := &cobra.Command{
		Use:   "profile REQUEST.json",
		Short: "Generate a competency profile from an interview request",
		Long: `Generate a competency profile from a JSON request holding subject_name,
evaluation_type (asesor or lider), metrics and inputs. The previous
assessment can be given with --previous as a document to extract from.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger(cmd.ErrOrStderr())
			req, err := loadRequest(args[0], previous, opts.parseOptions(defaultMaxBytes), log)
			if err != nil {
				return err
			}

			if dryRun {
				prompt, err := profile.BuildPrompt(req)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), prompt)
				return nil
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			gen, closeGen, err := newGenerator(cfg, log)
			if err != nil {
				return err
			}
			defer closeGen()

			svc := profile.NewService(gen, profile.NewCache(cfg.ProfileCacheTTL, 0), profile.NewStats(cfg.StatsWindow), log)
			p, err := svc.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.Text)

			if xlsx != "" {
				report := req.Previous
				if report == nil {
					report = &assessment.Report{SubjectName: req.SubjectName}
				}
				return writeWorkbook(xlsx, report, p.Text)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&previous, "previous", "p", "", "previous assessment document")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "also write the report and profile to this workbook")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the prompt instead of calling the provider")
	return cmd
}

func loadRequest(path, previous string, opts parser.Options, log *slog.Logger) (profile.Request, error) {
	var req profile.Request
	data, err := os.ReadFile(path)
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("decode %s: %w", path, err)
	}
	if previous != "" {
		report, err := extractFile(previous, opts, assessment.NewExtractor(log))
		if err != nil {
			return req, fmt.Errorf("extract %s: %w", previous, err)
		}
		req.Previous = report
	}
	if req.SubjectName == "" && req.Previous != nil {
		req.SubjectName = req.Previous.SubjectName
	}
	return req, nil
}

func newGenerator(cfg config.Config, log *slog.Logger) (profile.Generator, func(), error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		if len(cfg.GeminiAPIKeys) == 0 {
			return nil, nil, profile.ErrNoKeys
		}
		return profile.NewGeminiClient(profile.NewKeyRing(cfg.GeminiAPIKeys), cfg.GeminiModels, log), func() {}, nil
	case config.ProviderClaude:
		if cfg.AnthropicAPIKey == "" {
			return nil, nil, profile.ErrNoKeys
		}
		c := profile.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		return c, c.Close, nil
	}
	return nil, nil, fmt.Errorf("profile generation is disabled (PROFILE_PROVIDER=%s)", cfg.Provider)
}
