package cli

import (
	"bytes"
	"strings"
	"testing"
)

func memoryEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("MUX_TOKEN_ID", "")
	t.Setenv("MUX_TOKEN_SECRET", "")
	t.Setenv("OPENAI_API_KEY", "")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestClearDB(t *testing.T) {
	memoryEnv(t)

	if _, err := execute(t, "clear-db"); err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("clear-db without --yes: %v", err)
	}
	out, err := execute(t, "clear-db", "--yes")
	if err != nil {
		t.Fatalf("clear-db --yes: %v", err)
	}
	if strings.TrimSpace(out) != "deleted 0 videos" {
		t.Errorf("output = %q", out)
	}
}

func TestCommandsRequiringCredentials(t *testing.T) {
	memoryEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"transcript bad id", []string{"transcript", "not-a-uuid"}, "invalid video id"},
		{"transcript without credentials", []string{"transcript", "7f8c4a8e-5d1f-4a9b-9c2e-1b2d3e4f5a6b"}, "missing credentials"},
		{"reconcile without credentials", []string{"reconcile"}, "missing credentials"},
		{"serve without credentials", []string{"serve"}, "missing credentials"},
		{"transcript needs an argument", []string{"transcript"}, "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestInvalidConfigFailsBeforeCommand(t *testing.T) {
	memoryEnv(t)
	t.Setenv("PORT", "not-a-port")
	if _, err := execute(t, "clear-db", "--yes"); err == nil || !strings.Contains(err.Error(), "PORT") {
		t.Fatalf("err = %v", err)
	}
}
