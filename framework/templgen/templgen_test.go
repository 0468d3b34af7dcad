package templgen

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const helloSource = "package sample\n\ntempl Hello(name string) { <div>{ name }</div> }\n"

func TestRunGeneratesOutputFromPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	sourcePath := filepath.Join(root, "hello.templ")
	writeTestFile(t, sourcePath, helloSource)

	result, err := Run(Config{Paths: []string{root}, BasePath: root})
	if err != nil {
		t.Fatalf("run templgen: %v", err)
	}

	generatedPath := filepath.Join(root, "hello_templ.go")
	if len(result.Written) != 1 || result.Written[0] != generatedPath {
		t.Fatalf("expected %q written, got %v", generatedPath, result.Written)
	}
	if _, statErr := os.Stat(generatedPath); statErr != nil {
		t.Fatalf("expected generated file %q: %v", generatedPath, statErr)
	}
}

func TestRunCheckReportsStaleOutput(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	sourcePath := filepath.Join(root, "hello.templ")
	writeTestFile(t, sourcePath, helloSource)

	result, err := Run(Config{Files: []string{sourcePath}, BasePath: root, Check: true})
	if !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale before generation, got %v", err)
	}
	if len(result.Stale) != 1 || result.Stale[0] != TargetPath(sourcePath) {
		t.Fatalf("unexpected stale list %v", result.Stale)
	}
	if _, statErr := os.Stat(TargetPath(sourcePath)); !os.IsNotExist(statErr) {
		t.Fatalf("check mode must not write, stat err %v", statErr)
	}

	if _, err := Run(Config{Files: []string{sourcePath}, BasePath: root}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := Run(Config{Files: []string{sourcePath}, BasePath: root, Check: true}); err != nil {
		t.Fatalf("expected fresh output after generation, got %v", err)
	}
}

func TestRunDeduplicatesFilesAndPaths(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	sourcePath := filepath.Join(root, "hello.templ")
	writeTestFile(t, sourcePath, helloSource)

	result, err := Run(Config{Files: []string{sourcePath}, Paths: []string{root}, BasePath: root})
	if err != nil {
		t.Fatalf("run templgen: %v", err)
	}
	if len(result.Sources) != 1 {
		t.Fatalf("expected one source, got %v", result.Sources)
	}
}

func TestRunRejectsForeignExtension(t *testing.T) {
	t.Parallel()

	if _, err := Run(Config{Files: []string{"page.html"}}); err == nil {
		t.Fatal("expected extension error")
	}
}

func TestRunReturnsErrorForEmptySelection(t *testing.T) {
	t.Parallel()

	if _, err := Run(Config{BasePath: t.TempDir()}); !errors.Is(err, ErrNoSources) {
		t.Fatalf("expected ErrNoSources, got %v", err)
	}
}

func writeTestFile(t *testing.T, filePath string, content string) {
	t.Helper()
	if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
		t.Fatalf("write %q: %v", filePath, err)
	}
}
