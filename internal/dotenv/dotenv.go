// Package dotenv seeds the process environment from a local env file so
// the console gateway can run outside a managed deployment.
package dotenv

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// envFileVar overrides the default ".env" location.
const envFileVar = "VAI_CONSOLE_ENV_FILE"

// Load reads the env file named by VAI_CONSOLE_ENV_FILE, falling back to
// ".env" in the working directory. A missing file is not an error.
func Load() error {
	path := os.Getenv(envFileVar)
	if path == "" {
		path = ".env"
	}
	return LoadFile(path)
}

// LoadFile loads KEY=VALUE pairs from path into the process environment.
// Variables already present in the environment win over file values, so a
// deployment can override any file-provided default.
func LoadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open env file %q: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, val, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, val); err != nil {
			return fmt.Errorf("set env %q from %q: %w", key, path, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan env file %q: %w", path, err)
	}
	return nil
}

// parseLine splits a dotenv line into key and value. Blank lines, comments
// and lines without a key are skipped. Matching single or double quotes
// around the value are stripped.
func parseLine(raw string) (key, val string, ok bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")

	idx := strings.Index(line, "=")
	if idx <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:idx])
	if key == "" {
		return "", "", false
	}

	val = strings.TrimSpace(line[idx+1:])
	if len(val) >= 2 && (val[0] == '"' || val[0] == '\'') && val[len(val)-1] == val[0] {
		val = val[1 : len(val)-1]
	}
	return key, val, true
}
