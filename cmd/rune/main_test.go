package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/swipelab/rune/config"
)

// testEnv isolates tests from the user's real config.
func testEnv(t *testing.T) func(string) string {
	home := t.TempDir()
	return func(key string) string {
		if key == "HOME" {
			return home
		}
		return ""
	}
}

func runTest(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr, testEnv(t))
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestRunVersion(t *testing.T) {
	for _, flag := range []string{"-V", "--version"} {
		stdout, _, err := runTest(t, "", flag)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "rune version") {
			t.Errorf("expected version output, got %q", stdout)
		}
	}
}

func TestRunHelp(t *testing.T) {
	stdout, _, err := runTest(t, "", "--help")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "rune - a small embeddable scripting language") {
		t.Errorf("expected help output, got %q", stdout)
	}
	for _, want := range []string{"--eval", "--check", "--watch", "--config"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %s in help", want)
		}
	}
}

func TestRunInvalidFlag(t *testing.T) {
	_, stderr, err := runTest(t, "", "--invalid-flag")
	if err == nil {
		t.Error("expected error for invalid flag")
	}
	if !strings.Contains(stderr, "Usage:") {
		t.Errorf("expected usage on stderr, got %q", stderr)
	}
}

func TestRunMissingConfig(t *testing.T) {
	_, _, err := runTest(t, "", "--config", "/nonexistent/config.yaml", "-e", "1")
	if err == nil {
		t.Fatal("expected error for missing config")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("expected 'config file not found' error, got %q", err.Error())
	}
}

func TestRunEval(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"1 + 2 * 3", "7\n"},
		{"7 / 2.0", "3.5\n"},
		{`print("hi", 1)`, "hi 1\n"},
		{"fn fact(n) { if n == 0 { return 1 }; return n * fact(n - 1) }; fact(5)", "120\n"},
		{"loop { break }", ""},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			stdout, stderr, err := runTest(t, "", "-e", tt.code)
			if err != nil {
				t.Fatalf("unexpected error: %v (stderr %q)", err, stderr)
			}
			if stdout != tt.expected {
				t.Errorf("stdout = %q, want %q", stdout, tt.expected)
			}
		})
	}
}

func TestRunEvalErrors(t *testing.T) {
	tests := []struct {
		code   string
		header string
		detail string
	}{
		{"1 / 0", "Runtime error", "division by zero"},
		{"missing", "Runtime error", "undefined 'missing'"},
		{"let = 1", "Parser error", "expected identifier"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			_, stderr, err := runTest(t, "", "--eval", tt.code)
			if !errors.Is(err, errScript) {
				t.Fatalf("expected script failure, got %v", err)
			}
			if !strings.HasPrefix(stderr, tt.header) {
				t.Errorf("stderr should start with %q, got %q", tt.header, stderr)
			}
			if !strings.Contains(stderr, tt.detail) {
				t.Errorf("stderr should contain %q, got %q", tt.detail, stderr)
			}
		})
	}
}

func TestRunFile(t *testing.T) {
	path := writeFile(t, "main.rn", `
let greeting = "hello";
fn counter() {
  let n = 0;
  fn next() { n = n + 1 }
  next
}
let c = counter();
c()
c()
print(greeting, c())
`)

	stdout, stderr, err := runTest(t, "", path)
	if err != nil {
		t.Fatalf("unexpected error: %v (stderr %q)", err, stderr)
	}
	if stdout != "hello 3\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRunFileRuntimeErrorNamesFile(t *testing.T) {
	path := writeFile(t, "bad.rn", "let x = 1;\nx()\n")

	_, stderr, err := runTest(t, "", path)
	if !errors.Is(err, errScript) {
		t.Fatalf("expected script failure, got %v", err)
	}
	if !strings.Contains(stderr, path) {
		t.Errorf("expected file name in error, got %q", stderr)
	}
}

func TestRunMissingFile(t *testing.T) {
	_, _, err := runTest(t, "", filepath.Join(t.TempDir(), "nope.rn"))
	if err == nil {
		t.Fatal("expected error")
	}
	var ee *exitError
	if errors.As(err, &ee) {
		t.Errorf("IO errors should not be script failures, got %v", err)
	}
}

func TestRunStdin(t *testing.T) {
	stdout, _, err := runTest(t, "let x = 2; x * 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "6\n" {
		t.Errorf("stdout = %q, want %q", stdout, "6\n")
	}
}

func TestRunCheck(t *testing.T) {
	good := writeFile(t, "good.rn", "fn add(a, b) { return a + b }")
	bad := writeFile(t, "bad.rn", "fn add(a, 1) {}")

	if _, _, err := runTest(t, "", "--check", good); err != nil {
		t.Errorf("expected good file to pass, got %v", err)
	}

	_, stderr, err := runTest(t, "", "--check", good, bad)
	if !errors.Is(err, errScript) {
		t.Fatalf("expected script failure, got %v", err)
	}
	if !strings.Contains(stderr, bad) {
		t.Errorf("expected bad file name in stderr, got %q", stderr)
	}
	if strings.Contains(stderr, good) {
		t.Errorf("good file should not be reported, got %q", stderr)
	}

	if _, _, err := runTest(t, "", "--check"); err == nil {
		t.Error("expected error for --check without files")
	}
}

func TestRunWatchRequiresFile(t *testing.T) {
	_, _, err := runTest(t, "", "--watch")
	if err == nil || !strings.Contains(err.Error(), "--watch requires exactly one file") {
		t.Errorf("expected watch usage error, got %v", err)
	}
}

func TestRunWatchStopsOnCancel(t *testing.T) {
	path := writeFile(t, "main.rn", `print("ran")`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	err := run(ctx, []string{"--watch", path}, strings.NewReader(""), &stdout, &stderr, testEnv(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout.String() != "ran\n" {
		t.Errorf("expected the initial run, got %q", stdout.String())
	}
}

func TestRunConfigPrelude(t *testing.T) {
	cfgPath := writeFile(t, "rune.yaml", `
prelude:
  answer: 42
  env: dev
profiles:
  ci:
    prelude:
      env: ci
`)

	stdout, _, err := runTest(t, "", "--config", cfgPath, "-e", "answer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "42\n" {
		t.Errorf("stdout = %q, want 42", stdout)
	}

	stdout, _, err = runTest(t, "", "--config", cfgPath, "--profile", "ci", "-e", "env")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "ci\n" {
		t.Errorf("stdout = %q, want ci", stdout)
	}

	if _, _, err := runTest(t, "", "--config", cfgPath, "--profile", "prod", "-e", "1"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestNewLogger(t *testing.T) {
	var stdout, stderr bytes.Buffer

	logger, closeLog, err := newLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}, &stdout, &stderr)
	if err != nil {
		t.Fatal(err)
	}
	defer closeLog()
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")

	if !strings.Contains(stdout.String(), `"msg":"shown"`) {
		t.Errorf("expected JSON record on stdout, got %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "hidden") {
		t.Error("debug record should be filtered at info level")
	}
	if stderr.Len() != 0 {
		t.Errorf("nothing should go to stderr, got %q", stderr.String())
	}
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rune.log")

	logger, closeLog, err := newLogger(config.LoggingConfig{Level: "warn", Format: "text", Output: path}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	logger.Warn("careful")
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "msg=careful") {
		t.Errorf("expected text record in file, got %q", data)
	}
}

func TestNewLoggerBadLevel(t *testing.T) {
	if _, _, err := newLogger(config.LoggingConfig{Level: "loud"}, nil, nil); err == nil {
		t.Error("expected error for bad level")
	}
}
