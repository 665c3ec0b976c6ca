package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mls/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of required external binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Default(cfg.Phonemize.Binary))
			rows := make([][]string, 0, len(statuses))
			missingRequired := false
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = "missing"
					if status.Optional {
						state = "missing (optional)"
					} else {
						missingRequired = true
					}
				}
				detail := status.Detail
				if detail == "" {
					detail = status.Description
				}
				rows = append(rows, []string{status.Name, status.Command, state, detail})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Dependency", "Command", "Status", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))

			if missingRequired {
				return fmt.Errorf("required binaries are missing")
			}
			return nil
		},
	}
}
