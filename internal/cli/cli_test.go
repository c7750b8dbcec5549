package cli

import (
	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/editor"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const planJSON = `{
  "name": "Hypertrophy",
  "schema": "training",
  "days": [
    {"id": "d1", "name": "Day 1", "kind": "active", "slots": [
      {"id": "squat", "name": "Squat", "items": [{"weight": 100, "reps": 5, "completed": true}, {"weight": 100, "reps": 5}]},
      {"id": "lunge", "name": "Lunge", "items": [{"weight": 20, "reps": 10}]}
    ]},
    {"id": "d2", "name": "Day 2", "kind": "rest", "slots": []}
  ]
}`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := New()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestApplyPrintsState(t *testing.T) {
	dir := t.TempDir()
	plan := writeFile(t, dir, "plan.json", planJSON)
	cmds := writeFile(t, dir, "cmds.json", `[
		{"op": "move_slot", "day": 0, "slot": 0, "toDay": 0, "to": 1},
		{"op": "log_item", "day": 0, "slot": 1, "item": 1, "log": {"completed": true, "reps": 6}}
	]`)

	out, err := run(t, "apply", "--plan", plan, "--command", cmds)
	if err != nil {
		t.Fatalf("apply: %v\n%s", err, out)
	}
	var s editor.State
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got := s.Plan.Days[0].Slots[1].ID; got != "squat" {
		t.Errorf("slot 1 = %s, want squat", got)
	}
	if l := s.Tracking["squat"]; len(l.Items) != 2 || l.Items[1].Reps != 6 {
		t.Errorf("squat log = %+v", l)
	}

	// Without --write the plan file is untouched.
	raw, _ := os.ReadFile(plan)
	if string(raw) != planJSON {
		t.Error("plan file changed without --write")
	}
}

func TestApplyWrite(t *testing.T) {
	dir := t.TempDir()
	plan := writeFile(t, dir, "plan.json", planJSON)
	logFile := filepath.Join(dir, "log.json")
	cmd := writeFile(t, dir, "cmd.json", `{"op": "add_day", "variant": {"kind": "copy", "from": 0}}`)

	out, err := run(t, "apply", "--plan", plan, "--log", logFile, "--command", cmd, "--write")
	if err != nil {
		t.Fatalf("apply: %v\n%s", err, out)
	}
	if !strings.Contains(out, "applied 1 command(s)") {
		t.Errorf("output = %q", out)
	}

	var p domain.Plan
	raw, _ := os.ReadFile(plan)
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if len(p.Days) != 3 || p.Days[2].Name != "Day 3" || p.Days[2].Slots[0].ID == "squat" {
		t.Errorf("plan days = %+v", p.Days)
	}
	if _, err := os.Stat(logFile); err != nil {
		t.Errorf("log file not written: %v", err)
	}
}

func TestApplyRejectsBatch(t *testing.T) {
	dir := t.TempDir()
	plan := writeFile(t, dir, "plan.json", planJSON)
	cmds := writeFile(t, dir, "cmds.json", `[{"op": "add_day"}, {"op": "add_slot", "day": 1}]`)

	_, err := run(t, "apply", "--plan", plan, "--command", cmds, "--write")
	if err == nil || !strings.Contains(err.Error(), "command 1") {
		t.Fatalf("err = %v, want failure on command 1", err)
	}
	raw, _ := os.ReadFile(plan)
	if string(raw) != planJSON {
		t.Error("plan file written after a failed batch")
	}

	if _, err := run(t, "apply", "--plan", plan); err == nil {
		t.Error("expected error without --command")
	}
}

func TestProgress(t *testing.T) {
	dir := t.TempDir()
	plan := writeFile(t, dir, "plan.json", planJSON)
	logFile := writeFile(t, dir, "log.json", `{"lunge": {"items": [{"completed": true, "weight": 25, "reps": 10}]}}`)

	out, err := run(t, "progress", "--plan", plan, "--log", logFile, "--json")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	var sum editor.Summary
	if err := json.Unmarshal([]byte(out), &sum); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if sum.CompletedItems != 2 || sum.TotalItems != 3 || sum.Volume != 750 {
		t.Errorf("summary = %+v", sum)
	}

	out, err = run(t, "progress", "--plan", plan)
	if err != nil {
		t.Fatalf("progress table: %v", err)
	}
	for _, want := range []string{"Hypertrophy", "Day 1", "1/3", "Day 2 (rest)"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "progress"); err == nil {
		t.Error("expected error without --plan")
	}
}
