package cli

import (
	"alcyxob/coach-dashboard/internal/editor"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func addProgress(topLevel *cobra.Command) {
	fo := &FileOptions{}
	oo := &OutputOptions{}

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show completion per day of a plan file.",
		Example: `
planctl progress --plan plan.json --log log.json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := fo.load()
			if err != nil {
				return err
			}
			sum := editor.Summarize(state.Plan, state.Tracking)
			if oo.JSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(sum)
			}
			printSummary(cmd.OutOrStdout(), state.Plan, sum)
			return nil
		},
	}

	addFileArgs(cmd, fo)
	addOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func percent(p float64) string {
	return fmt.Sprintf("%.0f%%", p)
}
