package main

import (
	"bytes"
	"strings"
	"testing"
)

const sampleList = `The Grand Host [2000 pts]

++ Characters [500 pts] ++

General of the Empire [200 pts]
- Full plate armour

++ Core Units [1500 pts] ++

20 Halberdiers [180 pts]
- Champion
- Musician
- Standard Bearer
`

// runCmdWithStdin executes the root command with args, feeding stdin.
func runCmdWithStdin(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestImportCmd_Help(t *testing.T) {
	out, err := runCmd(t, "import", "--help")
	if err != nil {
		t.Fatalf("import --help failed: %v", err)
	}
	for _, want := range []string{"--army", "--dry-run", "--config", "all-or-nothing"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected help to contain %q, got: %s", want, out)
		}
	}
}

func TestImportCmd_DryRun(t *testing.T) {
	out, err := runCmdWithStdin(t, sampleList, "import", "--dry-run")
	if err != nil {
		t.Fatalf("import --dry-run failed: %v", err)
	}
	if !strings.Contains(out, "List: The Grand Host") {
		t.Errorf("expected the list name, got: %s", out)
	}
	if !strings.Contains(out, "General of the Empire") {
		t.Errorf("expected the character entry, got: %s", out)
	}
	if !strings.Contains(out, "Halberdiers") {
		t.Errorf("expected the counted entry, got: %s", out)
	}
	if !strings.Contains(out, "Character") {
		t.Errorf("expected a Character row, got: %s", out)
	}
	if !strings.Contains(out, "champion musician banner") {
		t.Errorf("expected the Halberdiers command group, got: %s", out)
	}
}

func TestImportCmd_NoEntries(t *testing.T) {
	_, err := runCmdWithStdin(t, "nothing here\n", "import", "--dry-run")
	if err == nil {
		t.Fatal("expected error for unparseable input")
	}
	if !strings.Contains(err.Error(), "no entries recognized") {
		t.Errorf("error = %q, want to mention unrecognized entries", err.Error())
	}
}

func TestImportCmd_CommitsBatch(t *testing.T) {
	cfgPath := writeTestConfig(t)
	armyID := createTestArmy(t, cfgPath, "The Grand Host")

	out, err := runCmdWithStdin(t, sampleList, "import", "--army", armyID, "--config", cfgPath)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "Imported 2 unit(s).") {
		t.Errorf("expected 2 imported units, got: %s", out)
	}

	out, err = runCmd(t, "unit", "list", "--army", armyID, "--config", cfgPath)
	if err != nil {
		t.Fatalf("unit list failed: %v", err)
	}
	if !strings.Contains(out, "Halberdiers") || !strings.Contains(out, "General of the Empire") {
		t.Errorf("expected both imported units in the list, got: %s", out)
	}
}

func TestImportCmd_FileNotFound(t *testing.T) {
	_, err := runCmd(t, "import", "/nonexistent/list.txt", "--dry-run")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
