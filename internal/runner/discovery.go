package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// OutputCollector enumerates the files a generator run produced.
type OutputCollector struct {
	ignorePatterns []compiledPattern
}

// NewOutputCollector compiles the ignore patterns used when walking output directories.
func NewOutputCollector(ignorePatterns []string) (*OutputCollector, error) {
	c := &OutputCollector{}
	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		c.ignorePatterns = append(c.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}
	return c, nil
}

// Collect walks outputPath and returns the produced files as slash-separated
// paths relative to outputPath, in lexical order.
func (c *OutputCollector) Collect(outputPath string) (OutputResult, error) {
	result := OutputResult{OutputPath: outputPath, OutputFiles: []string{}}

	err := filepath.Walk(outputPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Get relative path for pattern matching
		relPath, err := filepath.Rel(outputPath, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath != "." && c.shouldIgnore(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if c.shouldIgnore(relPath) {
			return nil
		}

		result.OutputFiles = append(result.OutputFiles, relPath)
		return nil
	})
	if err != nil {
		return OutputResult{}, fmt.Errorf("failed to enumerate output in %s: %w", outputPath, err)
	}

	return result, nil
}

// shouldIgnore checks if a path matches any ignore pattern.
func (c *OutputCollector) shouldIgnore(relPath string) bool {
	for _, cp := range c.ignorePatterns {
		if cp.glob.Match(relPath) {
			return true
		}

		// Let "**/x/**" also match a top-level "x/" directory.
		if strings.HasPrefix(cp.pattern, "**/") {
			simplified := strings.TrimPrefix(cp.pattern, "**/")
			if g, err := glob.Compile(simplified, '/'); err == nil && g.Match(relPath) {
				return true
			}
		}
	}
	return false
}
