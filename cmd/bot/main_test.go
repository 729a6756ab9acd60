package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tracy-ai/tracybot/internal/config"
)

func emptyEnvFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	for _, name := range []string{"webhook", "poll"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not found: %v", name, err)
		}
	}
	for _, flag := range []string{"config", "env-file"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestRun_MissingConfigurationFails(t *testing.T) {
	for _, name := range []string{"TELEGRAM_TOKEN", "MISTRAL_API_KEY", "LLM_API_KEY", "GEMINI_API_KEY", "WEBHOOK_URL"} {
		t.Setenv(name, "")
	}
	envFile := emptyEnvFile(t)

	root := newRootCmd()
	root.SetArgs([]string{"poll", "--env-file", envFile})
	err := root.ExecuteContext(context.Background())
	if err == nil {
		t.Fatal("poll without configuration should fail")
	}
	if !errors.Is(err, config.ErrConfiguration) {
		t.Errorf("error = %v, want configuration error", err)
	}
}

func TestRun_WebhookRequiresURL(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("MISTRAL_API_KEY", "key")
	t.Setenv("WEBHOOK_URL", "")
	root := newRootCmd()
	root.SetArgs([]string{"webhook", "--env-file", emptyEnvFile(t)})
	if err := root.ExecuteContext(context.Background()); !errors.Is(err, config.ErrConfiguration) {
		t.Errorf("error = %v, want configuration error", err)
	}
}
