package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	if err := Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out.String(), "memorypet dev") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRootRejectsArguments(t *testing.T) {
	rootCmd.SetArgs([]string{"feed"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	if err := Execute(); err == nil {
		t.Fatalf("expected positional arguments to be rejected")
	}
}
