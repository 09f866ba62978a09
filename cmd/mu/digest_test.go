package main

import (
	"strings"
	"testing"
)

func TestDigestCmd_Help(t *testing.T) {
	out, err := runCmd(t, "digest", "--help")
	if err != nil {
		t.Fatalf("digest --help failed: %v", err)
	}
	if !strings.Contains(out, "progress digest") {
		t.Errorf("expected help to mention the progress digest, got: %s", out)
	}
}

func TestDigestCmd_NoChannels(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, err := runCmd(t, "digest", "--config", cfgPath)
	if err == nil {
		t.Fatal("expected error when no channels are configured")
	}
	if !strings.Contains(err.Error(), "no notification channels configured") {
		t.Errorf("error = %q, want to mention missing channels", err.Error())
	}
}
