package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"mls/internal/corpus"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var splitFlag string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show per-split sample counts for the configured language",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			splits := corpus.Splits
			if splitFlag != "" {
				split, err := corpus.ParseSplit(splitFlag)
				if err != nil {
					return err
				}
				splits = []corpus.Split{split}
			}

			rows := make([][]string, 0, len(splits))
			for _, split := range splits {
				layout := corpus.NewLayout(cfg.LanguageDir(), split, cfg.Corpus.AudioExt)
				rows = append(rows, describeSplit(layout, split))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Language: %s\nRoot: %s\n\n", cfg.Corpus.Language, cfg.Paths.Root)
			fmt.Fprintln(out, renderTable(
				[]string{"Split", "Samples", "Labelled", "Limited"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&splitFlag, "split", "", "Restrict to one split (train, dev, or test)")
	return cmd
}

func describeSplit(layout corpus.Layout, split corpus.Split) []string {
	if info, err := os.Stat(layout.Dir); err != nil || !info.IsDir() {
		return []string{string(split), "-", "-", "-"}
	}

	audioFiles, _ := filepath.Glob(layout.AudioGlob())
	labels, _ := filepath.Glob(layout.LabelGlob())

	limited := "no"
	if info, err := os.Stat(layout.LimitedSupervisionDir()); err == nil && info.IsDir() {
		limited = "yes"
	}

	return []string{
		string(split),
		strconv.Itoa(len(audioFiles)),
		yesNo(len(labels) > 0),
		limited,
	}
}
