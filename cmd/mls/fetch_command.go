package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"mls/internal/corpus"
	"mls/internal/fetch"
	"mls/internal/splitter"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var force bool
	var splitLabels bool
	var workers int

	cmd := &cobra.Command{
		Use:   "fetch [language]",
		Short: "Download and unpack a corpus archive",
		Long: "Download <base_url>/<language>.tar.gz, verify its checksum, and unpack it " +
			"under the configured root. Defaults to the configured language.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			language := cfg.Corpus.Language
			if len(args) == 1 {
				language = args[0]
			}

			fetcher := fetch.New(logger)
			if w := progressWriter(); w != nil {
				fetcher.WithProgress(w)
			}

			result, err := fetcher.Fetch(cmd.Context(), fetch.Options{
				BaseURL:  cfg.Fetch.BaseURL,
				Root:     cfg.Paths.Root,
				Language: language,
				Force:    force,
				Timeout:  time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Skipped {
				fmt.Fprintf(out, "Corpus directory for %s already exists; rerun with --force to unpack over it.\n", language)
				return nil
			}
			if result.Downloaded {
				fmt.Fprintf(out, "Downloaded %s\n", result.ArchivePath)
			} else {
				fmt.Fprintf(out, "Reused archive %s\n", result.ArchivePath)
			}
			fmt.Fprintf(out, "Extracted %d files\n", result.Extracted)

			if !splitLabels {
				return nil
			}

			if !cmd.Flags().Changed("workers") {
				workers = cfg.Splitter.Workers
			}
			languageDir := filepath.Join(cfg.Paths.Root, language)
			for _, split := range corpus.Splits {
				layout := corpus.NewLayout(languageDir, split, cfg.Corpus.AudioExt)
				s := splitter.New(layout, nil, logger)
				if w := progressWriter(); w != nil {
					s.WithProgress(w)
				}
				splitResult, err := s.Split(cmd.Context(), splitter.Options{Workers: workers, Force: force})
				if err != nil {
					return fmt.Errorf("split %s labels: %w", split, err)
				}
				fmt.Fprintf(out, "Split %s: %d labels written, %d failed\n",
					split, splitResult.Written, len(splitResult.Failures))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Unpack over an existing corpus directory")
	cmd.Flags().BoolVar(&splitLabels, "split-labels", false, "Split utterance labels for all splits after unpacking")
	cmd.Flags().IntVar(&workers, "workers", 0, "Label splitting worker count (0 for sequential)")
	return cmd
}
