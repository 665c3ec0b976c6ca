package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mls/internal/corpus"
	"mls/internal/phonemize"
	"mls/internal/splitter"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var workers int
	var ipa bool
	var force bool

	cmd := &cobra.Command{
		Use:   "split <train|dev|test>",
		Short: "Split the bulk transcript into per-chapter label files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			split, err := corpus.ParseSplit(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Splitter.Workers
			}
			if !cmd.Flags().Changed("ipa") {
				ipa = cfg.Splitter.IPA
			}

			var phonemizer phonemize.Phonemizer
			if ipa {
				phonemizer = phonemize.NewEspeak(cfg.Phonemize.Binary, cfg.Phonemize.Voice)
			}

			layout := corpus.NewLayout(cfg.LanguageDir(), split, cfg.Corpus.AudioExt)
			s := splitter.New(layout, phonemizer, logger)
			if w := progressWriter(); w != nil {
				s.WithProgress(w)
			}

			result, err := s.Split(cmd.Context(), splitter.Options{
				Workers: workers,
				IPA:     ipa,
				Force:   force,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Skipped {
				fmt.Fprintf(out, "Label files already exist for %s; rerun with --force to rebuild them.\n", split)
				return nil
			}
			if result.Removed > 0 {
				fmt.Fprintf(out, "Removed %d existing label files\n", result.Removed)
			}
			fmt.Fprintf(out, "Wrote %d labels, %d failed\n", result.Written, len(result.Failures))
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Worker count (0 for sequential)")
	cmd.Flags().BoolVar(&ipa, "ipa", false, "Also write phonemic transcripts")
	cmd.Flags().BoolVar(&force, "force", false, "Rebuild existing label files")
	return cmd
}
