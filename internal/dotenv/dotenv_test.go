package dotenv

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile_MissingFileIsNoop(t *testing.T) {
	t.Parallel()
	if err := LoadFile(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("LoadFile missing file error: %v", err)
	}
}

func TestLoadFile_EnvironmentWinsOverFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	content := "" +
		"# gateway settings\n" +
		"VAI_CONSOLE_ADDR=:9999\n" +
		"VAI_CONSOLE_UPSTREAM_API_KEY=\"sk from file\"\n" +
		"export VAI_CONSOLE_DEFAULT_AGENT_ID=agent_file\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("VAI_CONSOLE_ADDR", ":8080")
	os.Unsetenv("VAI_CONSOLE_UPSTREAM_API_KEY")
	os.Unsetenv("VAI_CONSOLE_DEFAULT_AGENT_ID")
	t.Cleanup(func() {
		os.Unsetenv("VAI_CONSOLE_UPSTREAM_API_KEY")
		os.Unsetenv("VAI_CONSOLE_DEFAULT_AGENT_ID")
	})

	if err := LoadFile(envPath); err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}

	if got := os.Getenv("VAI_CONSOLE_ADDR"); got != ":8080" {
		t.Fatalf("VAI_CONSOLE_ADDR=%q, want %q", got, ":8080")
	}
	if got := os.Getenv("VAI_CONSOLE_UPSTREAM_API_KEY"); got != "sk from file" {
		t.Fatalf("VAI_CONSOLE_UPSTREAM_API_KEY=%q, want %q", got, "sk from file")
	}
	if got := os.Getenv("VAI_CONSOLE_DEFAULT_AGENT_ID"); got != "agent_file" {
		t.Fatalf("VAI_CONSOLE_DEFAULT_AGENT_ID=%q, want %q", got, "agent_file")
	}
}

func TestLoad_UsesEnvFileOverride(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "console.env")
	if err := os.WriteFile(envPath, []byte("FROM_OVERRIDE_FILE=yes\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv(envFileVar, envPath)
	os.Unsetenv("FROM_OVERRIDE_FILE")
	t.Cleanup(func() { os.Unsetenv("FROM_OVERRIDE_FILE") })

	if err := Load(); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := os.Getenv("FROM_OVERRIDE_FILE"); got != "yes" {
		t.Fatalf("FROM_OVERRIDE_FILE=%q, want %q", got, "yes")
	}
}

func TestParseLine(t *testing.T) {
	t.Parallel()
	cases := []struct {
		raw string
		key string
		val string
		ok  bool
	}{
		{"KEY=value", "KEY", "value", true},
		{"export KEY=value", "KEY", "value", true},
		{`KEY="quoted value"`, "KEY", "quoted value", true},
		{"KEY='single'", "KEY", "single", true},
		{"KEY=", "KEY", "", true},
		{"# comment", "", "", false},
		{"   ", "", "", false},
		{"=novalue", "", "", false},
		{"no equals sign", "", "", false},
	}
	for _, tc := range cases {
		key, val, ok := parseLine(tc.raw)
		if key != tc.key || val != tc.val || ok != tc.ok {
			t.Fatalf("parseLine(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.raw, key, val, ok, tc.key, tc.val, tc.ok)
		}
	}
}
