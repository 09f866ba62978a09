package main

import (
	"strings"
	"testing"
)

func TestArmyCmd_Help(t *testing.T) {
	out, err := runCmd(t, "army", "--help")
	if err != nil {
		t.Fatalf("army --help failed: %v", err)
	}
	if !strings.Contains(out, "Army management") {
		t.Errorf("expected help to mention 'Army management', got: %s", out)
	}
	for _, sub := range []string{"create", "list", "progress", "delete"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help to list %q subcommand, got: %s", sub, out)
		}
	}
}

func TestNewArmyCmd(t *testing.T) {
	cmd := newArmyCmd()
	if cmd.Use != "army" {
		t.Errorf("Use = %q, want %q", cmd.Use, "army")
	}
	if !cmd.HasSubCommands() {
		t.Error("army command should have subcommands")
	}
}

func TestNewArmyCreateCmd(t *testing.T) {
	cmd := newArmyCreateCmd()
	if cmd.Use != "create <name>" {
		t.Errorf("Use = %q, want %q", cmd.Use, "create <name>")
	}
	flag := cmd.Flags().Lookup("description")
	if flag == nil {
		t.Fatal("expected --description flag")
	}
	cfgFlag := cmd.Flags().Lookup("config")
	if cfgFlag == nil {
		t.Fatal("expected --config flag")
	}
	if cfgFlag.DefValue != "muster.yaml" {
		t.Errorf("--config default = %q, want %q", cfgFlag.DefValue, "muster.yaml")
	}
}

func TestArmyLifecycle(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := runCmd(t, "army", "create", "The Empire", "--description", "State troops", "--config", cfgPath)
	if err != nil {
		t.Fatalf("army create failed: %v", err)
	}
	if !strings.Contains(out, "Created army army-") {
		t.Errorf("expected created army ID in output, got: %s", out)
	}
	if !strings.Contains(out, "The Empire") {
		t.Errorf("expected army name in output, got: %s", out)
	}

	out, err = runCmd(t, "army", "list", "--config", cfgPath)
	if err != nil {
		t.Fatalf("army list failed: %v", err)
	}
	if !strings.Contains(out, "The Empire") {
		t.Errorf("expected list to include 'The Empire', got: %s", out)
	}
	if !strings.Contains(out, "State troops") {
		t.Errorf("expected list to include the description, got: %s", out)
	}

	// Pull the ID out of the list table.
	fields := strings.Fields(out)
	var armyID string
	for _, f := range fields {
		if strings.HasPrefix(f, "army-") {
			armyID = f
			break
		}
	}
	if armyID == "" {
		t.Fatalf("could not find army ID in list output: %s", out)
	}

	out, err = runCmd(t, "army", "progress", armyID, "--config", cfgPath)
	if err != nil {
		t.Fatalf("army progress failed: %v", err)
	}
	if !strings.Contains(out, "0 unit(s)") {
		t.Errorf("expected fresh army to have 0 units, got: %s", out)
	}

	out, err = runCmd(t, "army", "delete", armyID, "--config", cfgPath)
	if err != nil {
		t.Fatalf("army delete failed: %v", err)
	}
	if !strings.Contains(out, "Deleted army "+armyID) {
		t.Errorf("expected delete confirmation, got: %s", out)
	}

	out, err = runCmd(t, "army", "list", "--config", cfgPath)
	if err != nil {
		t.Fatalf("army list failed: %v", err)
	}
	if strings.Contains(out, "The Empire") {
		t.Errorf("expected deleted army to be gone, got: %s", out)
	}
}

func TestArmyCreateCmd_Duplicate(t *testing.T) {
	cfgPath := writeTestConfig(t)

	if _, err := runCmd(t, "army", "create", "Dwarfs", "--config", cfgPath); err != nil {
		t.Fatalf("army create failed: %v", err)
	}
	_, err := runCmd(t, "army", "create", "Dwarfs", "--config", cfgPath)
	if err == nil {
		t.Fatal("expected error for duplicate army name")
	}
}

func TestArmyProgressCmd_NotFound(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, err := runCmd(t, "army", "progress", "army-fffff", "--config", cfgPath)
	if err == nil {
		t.Fatal("expected error for unknown army ID")
	}
}
