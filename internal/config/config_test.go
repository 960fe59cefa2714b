package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "etiquette.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeTemp(t, "tool: seqfetch\nemail: dev@example.org\napi_key: abc123\nretry_attempts: 5\npause_seconds: 0.5\n")
	f, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if f.Tool != "seqfetch" || f.Email != "dev@example.org" || f.APIKey != "abc123" {
		t.Fatalf("etiquette fields: %+v", f)
	}
	if f.RetryAttempts == nil || *f.RetryAttempts != 5 {
		t.Fatalf("retry_attempts: %+v", f.RetryAttempts)
	}
	if f.PauseSeconds == nil || *f.PauseSeconds != 0.5 {
		t.Fatalf("pause_seconds: %+v", f.PauseSeconds)
	}
}

func TestLoadAbsentFieldsStayNil(t *testing.T) {
	f, err := Load(writeTemp(t, "email: dev@example.org\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if f.RetryAttempts != nil || f.PauseSeconds != nil {
		t.Fatalf("absent tunables not nil: %+v", f)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	if _, err := Load(writeTemp(t, "emial: typo@example.org\n")); err == nil {
		t.Fatal("expected unknown-key error")
	}
}

func TestLoadRejectsNegativeTunables(t *testing.T) {
	if _, err := Load(writeTemp(t, "retry_attempts: -1\n")); err == nil {
		t.Fatal("expected validation error")
	}
}
