package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mls/internal/splitter"
)

func newLimitedTrainCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "limited-train",
		Short: "Materialize the limited-supervision training subset",
		Long: "Copy the union of the 9-hour and 1-hour handle lists out of the train " +
			"split into a standalone limited_train tree.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			result, err := splitter.MaterializeLimited(cmd.Context(), cfg.LanguageDir(), cfg.Corpus.AudioExt, force, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Skipped {
				fmt.Fprintln(out, "limited_train already exists; rerun with --force to rebuild it.")
				return nil
			}
			fmt.Fprintf(out, "Copied %d audio files, %d failed\n", result.Copied, len(result.Failures))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Rebuild an existing limited_train tree")
	return cmd
}
