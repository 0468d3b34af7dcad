// Package templgen compiles .templ sources into the *_templ.go files that are
// committed next to them.
package templgen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/a-h/templ/generator"
	"github.com/a-h/templ/parser/v2"
)

const (
	sourceExt    = ".templ"
	generatedExt = "_templ.go"
)

var (
	ErrNoSources = errors.New("no templ files found")
	ErrStale     = errors.New("generated templ output is stale")
)

type Config struct {
	Files []string
	Paths []string
	// BasePath anchors the file names embedded in generated error positions.
	BasePath string
	// Check compares instead of writing and reports stale targets.
	Check bool
}

type Result struct {
	Sources []string
	Written []string
	Stale   []string
}

func Run(cfg Config) (Result, error) {
	basePath := strings.TrimSpace(cfg.BasePath)
	if basePath == "" {
		basePath = "."
	}
	baseAbs, err := filepath.Abs(basePath)
	if err != nil {
		return Result{}, fmt.Errorf("resolve base path %q: %w", basePath, err)
	}

	sources, err := collectSources(cfg.Files, cfg.Paths)
	if err != nil {
		return Result{}, err
	}
	if len(sources) == 0 {
		return Result{}, ErrNoSources
	}

	result := Result{Sources: sources}
	for _, source := range sources {
		target := TargetPath(source)
		output, err := compile(source, baseAbs)
		if err != nil {
			return result, err
		}

		if cfg.Check {
			current, readErr := os.ReadFile(target)
			if readErr != nil || !bytes.Equal(current, output) {
				result.Stale = append(result.Stale, target)
			}
			continue
		}

		if err := os.WriteFile(target, output, 0o644); err != nil {
			return result, fmt.Errorf("write %q: %w", target, err)
		}
		result.Written = append(result.Written, target)
	}

	if len(result.Stale) > 0 {
		return result, fmt.Errorf("%w: %s", ErrStale, strings.Join(result.Stale, ", "))
	}
	return result, nil
}

// TargetPath maps a .templ source to its generated Go file.
func TargetPath(source string) string {
	return strings.TrimSuffix(source, sourceExt) + generatedExt
}

func collectSources(files []string, paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	add := func(name string) error {
		absPath, err := filepath.Abs(name)
		if err != nil {
			return fmt.Errorf("resolve file %q: %w", name, err)
		}
		seen[absPath] = struct{}{}
		return nil
	}

	for _, name := range files {
		if filepath.Ext(name) != sourceExt {
			return nil, fmt.Errorf("file %q must have %s extension", name, sourceExt)
		}
		if err := add(name); err != nil {
			return nil, err
		}
	}

	for _, root := range paths {
		walkErr := filepath.WalkDir(root, func(filePath string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() || filepath.Ext(filePath) != sourceExt {
				return nil
			}
			return add(filePath)
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk path %q: %w", root, walkErr)
		}
	}

	sources := make([]string, 0, len(seen))
	for source := range seen {
		sources = append(sources, source)
	}
	slices.Sort(sources)
	return sources, nil
}

func compile(source string, baseAbs string) ([]byte, error) {
	t, err := parser.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", source, err)
	}

	relName, err := filepath.Rel(baseAbs, source)
	if err != nil {
		return nil, fmt.Errorf("compute relative filename for %q: %w", source, err)
	}

	var output bytes.Buffer
	if _, err := generator.Generate(t, &output, generator.WithFileName(filepath.ToSlash(relName))); err != nil {
		return nil, fmt.Errorf("generate %q: %w", source, err)
	}

	formatted, err := format.Source(output.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated output for %q: %w", source, err)
	}
	return formatted, nil
}
