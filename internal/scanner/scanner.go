// Package scanner walks a source tree and turns it into an in-memory
// analysis: file contents with token estimates, critical-file ranking,
// token-budgeted rendering, and module grouping for deep dives.
package scanner

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"codesensei/internal/errdefs"
	"codesensei/internal/tokenizer"
)

// maxFileSize is the ceiling above which files are skipped entirely.
const maxFileSize = 1 << 20 // 1 MB

// skipDirs contains directory names excluded from scanning: dependency
// caches, build output, VCS metadata, editor state.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	".idea":        true,
	".vscode":      true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"coverage":     true,
	".next":        true,
	".cache":       true,
	".tox":         true,
	"egg-info":     true,
}

// skipExtensions lists extensions that are never source text.
var skipExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".svg": true, ".webp": true, ".pdf": true, ".zip": true, ".tar": true,
	".gz": true, ".bz2": true, ".xz": true, ".7z": true, ".exe": true,
	".dll": true, ".so": true, ".dylib": true, ".bin": true, ".dat": true,
	".db": true, ".sqlite": true, ".woff": true, ".woff2": true, ".ttf": true,
	".eot": true, ".otf": true, ".mp3": true, ".mp4": true, ".mov": true,
	".lock": true, ".pyc": true, ".class": true, ".o": true, ".a": true,
}

// configNames marks well-known configuration and manifest files.
var configNames = map[string]bool{
	"package.json":       true,
	"tsconfig.json":      true,
	"go.mod":             true,
	"cargo.toml":         true,
	"pyproject.toml":     true,
	"setup.py":           true,
	"requirements.txt":   true,
	"gemfile":            true,
	"composer.json":      true,
	"pom.xml":            true,
	"build.gradle":       true,
	"makefile":           true,
	"dockerfile":         true,
	"docker-compose.yml": true,
	"webpack.config.js":  true,
	"vite.config.ts":     true,
	"vite.config.js":     true,
	".env.example":       true,
}

// configExtensions marks extensions that usually indicate configuration.
var configExtensions = map[string]bool{
	".toml": true,
	".yaml": true,
	".yml":  true,
	".ini":  true,
	".cfg":  true,
}

// FileInfo is one scanned source file. Immutable after creation; identity
// is the repository-relative path.
type FileInfo struct {
	RelPath  string
	AbsPath  string
	Content  string
	Ext      string
	Tokens   int
	IsTest   bool
	IsConfig bool
}

// AnalysisResult aggregates a scan of one source tree. Files are in scan
// order; the slice is read-only once constructed and shared by every
// downstream consumer.
type AnalysisResult struct {
	Root          string
	Files         []FileInfo
	Frameworks    []string
	TotalTokens   int
	EstimatedCost float64
}

// Scan walks root and produces an AnalysisResult. Binary files, files over
// 1 MB, and anything under a skip directory are excluded. Individual
// unreadable files are skipped rather than failing the scan; a missing or
// non-directory root, or a scan that finds no usable files, is an error.
func Scan(root string, frameworks []string) (*AnalysisResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.KindNotFound, err,
			"path not found: "+root,
			"check the path and try again")
	}
	if !info.IsDir() {
		return nil, errdefs.New(errdefs.KindNotADirectory,
			"not a directory: "+root,
			"pass the root directory of the project, not a file")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.KindAnalysis, err,
			"resolving path: "+root, "")
	}

	result := &AnalysisResult{Root: absRoot, Frameworks: frameworks}

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] || strings.HasSuffix(d.Name(), ".egg-info") {
				return filepath.SkipDir
			}
			return nil
		}

		fi, ok := scanFile(absRoot, path)
		if !ok {
			return nil
		}
		result.Files = append(result.Files, fi)
		result.TotalTokens += fi.Tokens
		return nil
	})
	if walkErr != nil {
		return nil, errdefs.Wrap(errdefs.KindAnalysis, walkErr,
			"scanning "+root, "")
	}

	if len(result.Files) == 0 {
		return nil, errdefs.New(errdefs.KindAnalysis,
			"no usable source files found under "+root,
			"check that the directory contains text source files")
	}
	return result, nil
}

// scanFile reads one file and builds its FileInfo. Returns ok=false for
// anything that should be silently skipped.
func scanFile(root, path string) (FileInfo, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if skipExtensions[ext] {
		return FileInfo{}, false
	}

	st, err := os.Stat(path)
	if err != nil || st.Size() > maxFileSize {
		return FileInfo{}, false
	}

	data, err := os.ReadFile(path)
	if err != nil || isBinary(data) {
		return FileInfo{}, false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return FileInfo{}, false
	}
	rel = filepath.ToSlash(rel)

	return FileInfo{
		RelPath:  rel,
		AbsPath:  path,
		Content:  string(data),
		Ext:      ext,
		Tokens:   tokenizer.CountBytes(data),
		IsTest:   isTestFile(rel),
		IsConfig: isConfigFile(rel, ext),
	}, true
}

// isBinary sniffs the first 8 KB for a NUL byte, the same heuristic git
// uses to classify files.
func isBinary(data []byte) bool {
	sample := data
	if len(sample) > 8192 {
		sample = sample[:8192]
	}
	return bytes.IndexByte(sample, 0) >= 0
}

// isTestFile reports whether the path looks like a test by filename
// convention or by living under a test directory.
func isTestFile(relPath string) bool {
	base := strings.ToLower(filepath.Base(relPath))
	if strings.HasSuffix(base, "_test.go") ||
		strings.HasPrefix(base, "test_") ||
		strings.Contains(base, ".test.") ||
		strings.Contains(base, ".spec.") {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(relPath), "/") {
		switch strings.ToLower(part) {
		case "test", "tests", "__tests__", "spec", "specs", "testdata":
			return true
		}
	}
	return false
}

// isConfigFile reports whether the file is a configuration or build
// manifest rather than application source.
func isConfigFile(relPath, ext string) bool {
	base := strings.ToLower(filepath.Base(relPath))
	return configNames[base] || configExtensions[ext]
}
