// Package cli implements planctl, an offline companion to the server: it
// runs editor commands against plan files and prints progress reports.
package cli

import (
	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/editor"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// New returns the planctl root command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "planctl",
		Short:         "Edit and inspect coaching plan files.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addApply(topLevel)
	addProgress(topLevel)
}

// OutputOptions
type OutputOptions struct {
	JSON bool
}

func addOutputArg(cmd *cobra.Command, oo *OutputOptions) {
	cmd.Flags().BoolVar(&oo.JSON, "json", false, "Output as JSON.")
}

// FileOptions name the plan and log files a command works on.
type FileOptions struct {
	Plan string
	Log  string
}

func addFileArgs(cmd *cobra.Command, fo *FileOptions) {
	cmd.Flags().StringVar(&fo.Plan, "plan", "", "Plan JSON file.")
	cmd.Flags().StringVar(&fo.Log, "log", "", "Tracking JSON file (optional).")
	_ = cmd.MarkFlagRequired("plan")
}

// load reads the plan and, if named, its tracking file. A missing tracking
// file means nothing was logged yet.
func (fo *FileOptions) load() (editor.State, error) {
	var s editor.State
	if err := readJSON(fo.Plan, &s.Plan); err != nil {
		return s, err
	}
	plan, err := editor.Normalize(s.Plan)
	if err != nil {
		return s, fmt.Errorf("plan %s: %w", fo.Plan, err)
	}
	s.Plan = plan
	s.Tracking = domain.Tracking{}
	if fo.Log != "" {
		err := readJSON(fo.Log, &s.Tracking)
		if err != nil && !os.IsNotExist(err) {
			return s, err
		}
	}
	s.Tracking = editor.Prune(s.Plan, s.Tracking)
	return s, nil
}

func (fo *FileOptions) save(s editor.State) error {
	if err := writeJSON(fo.Plan, s.Plan); err != nil {
		return err
	}
	if fo.Log != "" {
		return writeJSON(fo.Log, s.Tracking)
	}
	return nil
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0o644)
}

// readCommands accepts a single command object or an array of them.
func readCommands(path string) ([]editor.Command, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var cmd editor.Command
		if err := json.Unmarshal(raw, &cmd); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return []editor.Command{cmd}, nil
	}
	var cmds []editor.Command
	if err := json.Unmarshal(raw, &cmds); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return cmds, nil
}
