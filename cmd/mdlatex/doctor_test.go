package main

// Notes:
// - Tests use black-box approach: testing through runDoctorCmd() observable outputs
// - Container detection tests modify environment variables, cannot use t.Parallel()
// - Chrome detection depends on system state: we only check that the status
//   and the returned error agree
// - Only the MDLATEX_CONTAINER override is asserted for container detection,
//   since /.dockerenv may exist on the machine running the tests

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// doctorJSON runs doctor with --json and decodes its output.
func doctorJSON(t *testing.T, args ...string) (*doctorResult, error) {
	t.Helper()

	var stdout bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}
	err := runDoctorCmd(append([]string{"--json"}, args...), env)

	var result doctorResult
	if jsonErr := json.Unmarshal(stdout.Bytes(), &result); jsonErr != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput was: %s", jsonErr, stdout.String())
	}
	return &result, err
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_JSONOutput - Verifies JSON output format and structure
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	result, err := doctorJSON(t, "--store-dir", t.TempDir())

	validStatuses := map[string]bool{statusReady: true, statusWarnings: true, statusErrors: true}
	if !validStatuses[result.Status] {
		t.Errorf("Invalid status %q, expected ready/warnings/errors", result.Status)
	}

	if result.Status == statusErrors && !errors.Is(err, ErrNotReady) {
		t.Errorf("errors status should return ErrNotReady, got %v", err)
	}
	if result.Status != statusErrors && err != nil {
		t.Errorf("non-error status should return nil, got %v", err)
	}

	if result.Env.OS != runtime.GOOS {
		t.Errorf("OS = %q, want %q", result.Env.OS, runtime.GOOS)
	}
	if result.Env.Arch != runtime.GOARCH {
		t.Errorf("Arch = %q, want %q", result.Env.Arch, runtime.GOARCH)
	}
	if !result.System.TempWritable {
		t.Error("temp directory should be writable in tests")
	}
	if !result.System.StoreWritable {
		t.Error("store directory should be writable")
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_Store - Store directory checks
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_Store(t *testing.T) {
	t.Parallel()

	t.Run("missing directory warns", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "not-yet")
		result, _ := doctorJSON(t, "--store-dir", dir)

		if result.System.StoreWritable {
			t.Error("missing directory should not be reported writable")
		}
		if !containsSubstring(result.Warnings, "does not exist yet") {
			t.Errorf("expected a warning for the missing directory, got %v", result.Warnings)
		}
	})

	t.Run("file instead of directory fails", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			t.Fatal(err)
		}
		result, err := doctorJSON(t, "--store-dir", path)

		if result.Status != statusErrors {
			t.Errorf("Status = %q, want errors", result.Status)
		}
		if !errors.Is(err, ErrNotReady) {
			t.Errorf("error = %v, want ErrNotReady", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_HumanOutput - Verifies human-readable output format
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_HumanOutput(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}

	_ = runDoctorCmd([]string{"--store-dir", t.TempDir()}, env)

	output := stdout.String()
	for _, section := range []string{"mdlatex doctor", "Chrome/Chromium", "Environment", "System", "Status:"} {
		if !strings.Contains(output, section) {
			t.Errorf("Output should contain section %q", section)
		}
	}

	platformStr := runtime.GOOS + "/" + runtime.GOARCH
	if !strings.Contains(output, platformStr) {
		t.Errorf("Output should contain platform %q", platformStr)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_ContainerOverride - Explicit container signal
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_ContainerOverride(t *testing.T) {
	// NO t.Parallel() - modifies environment variables
	t.Setenv("MDLATEX_CONTAINER", "1")
	t.Setenv("KUBERNETES_SERVICE_HOST", "10.0.0.1")
	t.Setenv("ROD_NO_SANDBOX", "")

	result, _ := doctorJSON(t, "--store-dir", t.TempDir())

	if !result.Env.Container {
		t.Error("Container should be detected")
	}
	if result.Env.ContainerHint != "MDLATEX_CONTAINER=1" {
		t.Errorf("MDLATEX_CONTAINER should have priority, got hint %q", result.Env.ContainerHint)
	}
	if !containsSubstring(result.Warnings, "ROD_NO_SANDBOX") {
		t.Errorf("expected sandbox warning in container, got %v", result.Warnings)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_UnknownFlag - Flag errors map to usage
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_UnknownFlag(t *testing.T) {
	t.Parallel()

	env := &Environment{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	if err := runDoctorCmd([]string{"--yaml"}, env); !errors.Is(err, ErrUsage) {
		t.Errorf("error = %v, want ErrUsage", err)
	}
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
