package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/trueblocks/deskshell/internal/backend"
)

func TestRootFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"config", "remote", "dev", "poll"} {
		if cmd.Flag(name) == nil {
			t.Fatalf("flag --%s missing", name)
		}
	}
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	if got := strings.Join(names, ","); got != "reset,serve" {
		t.Fatalf("subcommands = %s, want reset,serve", got)
	}
}

func TestResetYesClearsSetup(t *testing.T) {
	dir := t.TempDir()
	prefsDir := filepath.Join(dir, "prefs")
	configPath := filepath.Join(dir, "config.toml")
	writeConfig(t, configPath, "prefs_dir = \""+filepath.ToSlash(prefsDir)+"\"\n")

	ctx := context.Background()
	svc, err := backend.Open(prefsDir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := svc.SetUserInfo(ctx, "Anne", "anne@example.com"); err != nil {
		t.Fatalf("SetUserInfo: %v", err)
	}
	if err := svc.SetInitialized(ctx, true); err != nil {
		t.Fatalf("SetInitialized: %v", err)
	}

	var out bytes.Buffer
	cmd := newResetCmd(&rootFlags{config: configPath}, &out)
	cmd.SetArgs([]string{"--yes"})
	if err := cmd.ExecuteContext(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !strings.Contains(out.String(), "setup will run") {
		t.Fatalf("output = %q", out.String())
	}

	reopened, err := backend.Open(prefsDir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if ok, _ := reopened.IsInitialized(ctx); ok {
		t.Fatal("IsInitialized() = true after reset")
	}
	if ws, _ := reopened.GetWizardState(ctx); !ws.MissingNameEmail {
		t.Fatalf("wizard state = %+v, want identity missing", ws)
	}
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
