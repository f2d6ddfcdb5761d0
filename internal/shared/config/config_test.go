package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNormalizeEnv(t *testing.T) {
	cases := map[string]string{
		"prod":       "production",
		"PRODUCTION": "production",
		" staging ":  "staging",
		"local":      "local",
		"dev":        "dev",
		"":           "dev",
		"garbage":    "dev",
	}
	for in, want := range cases {
		if got := normalizeEnv(in); got != want {
			t.Errorf("normalizeEnv(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeNotifyChannelDefaultsToLog(t *testing.T) {
	if got := normalizeNotifyChannel("SMTP"); got != "smtp" {
		t.Errorf("normalizeNotifyChannel(SMTP) = %q", got)
	}
	if got := normalizeNotifyChannel("ses"); got != "log" {
		t.Errorf("unknown channel should fall back to log, got %q", got)
	}
}

func TestLoadReadsNotifySettings(t *testing.T) {
	t.Setenv("NOTIFY_CHANNEL", "sqs")
	t.Setenv("NOTIFY_TIMEOUT", "2s")
	t.Setenv("HH_SQS_QUEUE_URL", "https://sqs.test/queue")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.test, https://b.test")

	cfg := Load()
	if cfg.NotifyChannel != "sqs" {
		t.Errorf("NotifyChannel = %q", cfg.NotifyChannel)
	}
	if cfg.NotifyTimeout != 2*time.Second {
		t.Errorf("NotifyTimeout = %s", cfg.NotifyTimeout)
	}
	if cfg.SQSQueueURL != "https://sqs.test/queue" {
		t.Errorf("SQSQueueURL = %q", cfg.SQSQueueURL)
	}
	if len(cfg.CORSAllowOrigin) != 2 || cfg.CORSAllowOrigin[1] != "https://b.test" {
		t.Errorf("CORSAllowOrigin = %v", cfg.CORSAllowOrigin)
	}
}

func TestLoadEnvFilesRespectsExistingEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "HH_DOTENV_NEW=from-file\nHH_DOTENV_SET=from-file\n# comment\nnot-a-pair\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("HH_DOTENV_SET", "from-env")
	t.Cleanup(func() { os.Unsetenv("HH_DOTENV_NEW") })

	loadEnvFiles(path, filepath.Join(t.TempDir(), "missing.env"))

	if got := os.Getenv("HH_DOTENV_NEW"); got != "from-file" {
		t.Errorf("HH_DOTENV_NEW = %q, want value from file", got)
	}
	if got := os.Getenv("HH_DOTENV_SET"); got != "from-env" {
		t.Errorf("HH_DOTENV_SET = %q, want the environment to win", got)
	}
}

func TestGetEnvDurationIgnoresInvalid(t *testing.T) {
	t.Setenv("NOTIFY_TIMEOUT", "soon")
	if got := getEnvDuration("NOTIFY_TIMEOUT", 5*time.Second); got != 5*time.Second {
		t.Errorf("invalid duration should keep default, got %s", got)
	}
}
