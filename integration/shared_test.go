//go:build basic || database

// Package integration contains integration tests for bcat.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Or use: make test-integration
package integration

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedBcatPath holds the path to a shared bcat binary built once for all tests.
	sharedBcatPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBcatBinary returns the path to the bcat binary, building it once if needed.
func getBcatBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "bcat-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		bcatPath := filepath.Join(tempDir, "bcat")
		buildCmd := exec.Command("go", "build", "-o", bcatPath, "./cmd/bcat")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build bcat: %v", err))
		}

		sharedBcatPath = bcatPath
	})

	return sharedBcatPath
}

// writeMetricsFixture writes a metrics vector document for CLI runs.
func writeMetricsFixture(t *testing.T, dir string) string {
	t.Helper()
	doc := map[string]any{
		"meta": map[string]any{
			"conversation_id": "c-integration",
			"team_id":         "sales-east",
		},
		"features": map[string]float64{
			"energy":       0.8,
			"clarity":      0.7,
			"novelty":      0.9,
			"talk_balance": 0.6,
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal metrics fixture: %v", err)
	}
	path := filepath.Join(dir, "metrics.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write metrics fixture: %v", err)
	}
	return path
}

func runBcatCommand(t *testing.T, args ...string) error {
	bcatPath := getBcatBinary()
	cmd := exec.Command(bcatPath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
