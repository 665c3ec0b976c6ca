package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mls/internal/audio"
	"mls/internal/corpus"
	"mls/internal/samplecache"
)

func newSampleCommand(ctx *commandContext) *cobra.Command {
	var splitFlag string
	var lowResource bool
	var fold int
	var useCache bool
	var refresh bool

	cmd := &cobra.Command{
		Use:   "sample <n>",
		Short: "Assemble and print one sample by index position",
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

			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("sample position %q is not a number", args[0])
			}

			split, err := corpus.ParseSplit(splitFlag)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("cache") {
				useCache = cfg.Cache.Enabled
			}

			opts := corpus.IndexOptions{LowResource: lowResource}
			if cmd.Flags().Changed("fold") {
				opts.Fold = &fold
			}

			layout := corpus.NewLayout(cfg.LanguageDir(), split, cfg.Corpus.AudioExt)
			decoder := audio.NewFFmpegDecoder("ffmpeg", "ffprobe")
			cache := samplecache.New(useCache, logger)
			assembler := corpus.NewAssembler(layout, decoder, cache, corpus.AssemblerOptions{
				UseCache: useCache,
				Refresh:  refresh,
			}, logger)

			index, err := corpus.NewIndex(layout, opts, assembler, logger)
			if err != nil {
				return err
			}

			rawID, err := index.IDAt(n)
			if err != nil {
				return err
			}
			sample, err := index.At(cmd.Context(), n)
			if err != nil {
				return err
			}

			duration := "-"
			if sample.SampleRate > 0 {
				duration = fmt.Sprintf("%.2fs", float64(len(sample.Waveform))/float64(sample.SampleRate))
			}
			rows := [][]string{
				{"Identifier", rawID},
				{"Speaker", strconv.Itoa(sample.SpeakerID)},
				{"Chapter", strconv.Itoa(sample.ChapterID)},
				{"Path", sample.Path},
				{"Sample rate", strconv.Itoa(sample.SampleRate)},
				{"Samples", strconv.Itoa(len(sample.Waveform))},
				{"Duration", duration},
				{"Utterance", sample.Utterance},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Field", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&splitFlag, "split", "train", "Corpus split (train, dev, or test)")
	cmd.Flags().BoolVar(&lowResource, "low-resource", false, "Index the limited-supervision subset")
	cmd.Flags().IntVar(&fold, "fold", 0, "1-hour fold (0-5); omit for the 9-hour subset")
	cmd.Flags().BoolVar(&useCache, "cache", false, "Use the on-disk sample record cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Rebuild the cached record for this sample")
	return cmd
}
