package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kiliexport/internal/config"
	"kiliexport/internal/testsupport"
)

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	content := fmt.Sprintf(
		"[api]\nkey = %q\n\n[endpoints]\nrouter = %q\napi_private = %q\nrouter_from_service = %q\n\n[paths]\nstaging_dir = %q\nlog_dir = %q\njournal_path = %q\n",
		cfg.API.Key,
		cfg.Endpoints.Router,
		cfg.Endpoints.APIPrivate,
		cfg.Endpoints.RouterFromService,
		cfg.Paths.StagingDir,
		cfg.Paths.LogDir,
		cfg.Paths.JournalPath,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}

func TestConfigValidate(t *testing.T) {
	configPath := writeTestConfig(t, testsupport.NewConfig(t))

	out, _, err := runCLI(t, []string{"config", "validate"}, configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestHistoryEmptyJournal(t *testing.T) {
	configPath := writeTestConfig(t, testsupport.NewConfig(t))

	out, _, err := runCLI(t, []string{"history"}, configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No exports recorded yet")
}

func TestExportRequiresProjectFlag(t *testing.T) {
	configPath := writeTestConfig(t, testsupport.NewConfig(t))

	if _, _, err := runCLI(t, []string{"export"}, configPath); err == nil {
		t.Fatal("expected missing --project to fail")
	}
}
