package scanner

import (
	"sort"
	"strings"
)

// maxTreeLines caps the rendered tree so prompts stay bounded on very
// large repositories.
const maxTreeLines = 100

// FileTree renders an indented text listing of the scanned files, capped
// at maxDepth directory levels and 100 lines. Paths are sorted so the
// output is stable across runs.
func FileTree(files []FileInfo, maxDepth int) string {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.RelPath)
	}
	sort.Strings(paths)

	var lines []string
	seenDirs := map[string]bool{}

	for _, p := range paths {
		parts := strings.Split(p, "/")

		// Emit each new ancestor directory within the depth limit.
		for i := 1; i < len(parts) && i <= maxDepth; i++ {
			dir := strings.Join(parts[:i], "/")
			if !seenDirs[dir] {
				seenDirs[dir] = true
				lines = append(lines, strings.Repeat("  ", i-1)+parts[i-1]+"/")
			}
		}

		if len(parts) <= maxDepth+1 {
			lines = append(lines, strings.Repeat("  ", len(parts)-1)+parts[len(parts)-1])
		}
	}

	if len(lines) > maxTreeLines {
		lines = lines[:maxTreeLines]
	}
	return strings.Join(lines, "\n")
}
