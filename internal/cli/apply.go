package cli

import (
	"alcyxob/coach-dashboard/internal/editor"
	"encoding/json"
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func addApply(topLevel *cobra.Command) {
	fo := &FileOptions{}
	oo := &OutputOptions{}
	var (
		commandFile string
		write       bool
		reset       bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply editor commands to a plan file.",
		Long: `Apply runs a batch of editor commands against a plan. The batch is atomic:
if one command fails, nothing is written.`,
		Example: `
planctl apply --plan plan.json --command move.json
planctl apply --plan plan.json --log log.json --command batch.json --write
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if commandFile == "" {
				return errors.New("--command is required")
			}
			state, err := fo.load()
			if err != nil {
				return err
			}
			cmds, err := readCommands(commandFile)
			if err != nil {
				return err
			}

			r := editor.NewReducer(editor.Options{ResetTrackingOnTransfer: reset})
			next, err := r.ReduceAll(state, cmds)
			if err != nil {
				return err
			}

			if !write {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(next)
			}
			if err := fo.save(next); err != nil {
				return err
			}
			if oo.JSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(editor.Summarize(next.Plan, next.Tracking))
			}
			green := color.New(color.FgGreen)
			_, _ = green.Fprintf(cmd.OutOrStdout(), "applied %d command(s) to %s\n", len(cmds), fo.Plan)
			printSummary(cmd.OutOrStdout(), next.Plan, editor.Summarize(next.Plan, next.Tracking))
			return nil
		},
	}

	addFileArgs(cmd, fo)
	addOutputArg(cmd, oo)
	cmd.Flags().StringVar(&commandFile, "command", "", "JSON file holding one command or an array of commands.")
	cmd.Flags().BoolVar(&write, "write", false, "Write the result back to the plan (and log) file instead of printing it.")
	cmd.Flags().BoolVar(&reset, "reset-tracking-on-transfer", false, "Drop a slot's logs when it moves to another day.")

	topLevel.AddCommand(cmd)
}
