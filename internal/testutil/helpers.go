package testutil

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// PackageOption customizes a package created by CreatePackage
type PackageOption func(*packageSpec)

type packageSpec struct {
	sentencePiece bool
	rules         string
	modelDir      bool
}

// WithSentencePiece creates a sentencepiece.model instead of bpe.model
func WithSentencePiece() PackageOption {
	return func(s *packageSpec) { s.sentencePiece = true }
}

// WithRules writes the given merge rules to bpe.model
func WithRules(rules string) PackageOption {
	return func(s *packageSpec) { s.rules = rules }
}

// WithoutModelDir leaves out the model directory
func WithoutModelDir() PackageOption {
	return func(s *packageSpec) { s.modelDir = false }
}

// CreatePackage creates an installed package directory named name inside
// packagesDir and returns its path. By default it holds an empty model
// directory and a bpe.model without merge rules.
func CreatePackage(t *testing.T, packagesDir, name string, opts ...PackageOption) string {
	t.Helper()

	spec := packageSpec{rules: "#version: 0.2\n", modelDir: true}
	for _, opt := range opts {
		opt(&spec)
	}

	pkgDir := filepath.Join(packagesDir, name)
	if err := os.MkdirAll(pkgDir, 0755); err != nil {
		t.Fatalf("Failed to create package directory %s: %v", pkgDir, err)
	}

	if spec.modelDir {
		if err := os.MkdirAll(filepath.Join(pkgDir, "model"), 0755); err != nil {
			t.Fatalf("Failed to create model directory: %v", err)
		}
	}

	if spec.sentencePiece {
		CreateTestFile(t, filepath.Join(pkgDir, "sentencepiece.model"), []byte("not a real model"))
	} else {
		CreateTestFile(t, filepath.Join(pkgDir, "bpe.model"), []byte(spec.rules))
	}

	return pkgDir
}

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring: %q", path, substring)
	}
}

// CaptureOutput captures stdout/stderr during test execution
func CaptureOutput(t *testing.T, f func()) (stdout, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create stdout pipe: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create stderr pipe: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	// Drain both pipes while f runs so large outputs do not block
	outCh := make(chan string)
	errCh := make(chan string)
	go func() { b, _ := io.ReadAll(rOut); outCh <- string(b) }()
	go func() { b, _ := io.ReadAll(rErr); errCh <- string(b) }()

	defer func() {
		os.Stdout = oldStdout
		os.Stderr = oldStderr
	}()

	f()

	wOut.Close()
	wErr.Close()

	return <-outCh, <-errCh
}
