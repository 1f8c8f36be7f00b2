package scanner

import (
	"sort"
	"strings"
)

// entryPointNames marks files that are likely process or package entry
// points, weighted heavily in the ranking.
var entryPointNames = map[string]bool{
	"main.go":          true,
	"main.py":          true,
	"__main__.py":      true,
	"app.py":           true,
	"cli.py":           true,
	"index.js":         true,
	"index.ts":         true,
	"index.tsx":        true,
	"app.js":           true,
	"app.ts":           true,
	"server.js":        true,
	"server.ts":        true,
	"main.rs":          true,
	"lib.rs":           true,
	"main.java":        true,
	"application.java": true,
}

// rankerSizeCap bounds the size signal so huge files do not dominate
// purely on bulk.
const rankerSizeCap = 10_000

// CriticalFiles returns the top limit files ordered by architectural
// importance. The ordering is deterministic: score descending, then path
// ascending.
func CriticalFiles(result *AnalysisResult, limit int) []FileInfo {
	type scored struct {
		file  FileInfo
		score int
	}

	refs := siblingReferences(result.Files)

	ranked := make([]scored, 0, len(result.Files))
	for _, f := range result.Files {
		s := 0

		if entryPointNames[strings.ToLower(baseOf(f.RelPath))] {
			s += 100
		}
		if f.IsConfig {
			s += 40
		}
		if f.IsTest {
			s -= 30
		}

		// Files referenced by same-directory siblings are hubs.
		s += 20 * refs[f.RelPath]

		// Larger files carry more signal, up to a cap.
		tokens := f.Tokens
		if tokens > rankerSizeCap {
			tokens = rankerSizeCap
		}
		s += tokens / 200

		// Shallower files are likelier orchestration points.
		depth := strings.Count(f.RelPath, "/")
		if depth < 6 {
			s += (6 - depth) * 10
		}

		ranked = append(ranked, scored{file: f, score: s})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].file.RelPath < ranked[j].file.RelPath
	})

	if limit > len(ranked) {
		limit = len(ranked)
	}
	out := make([]FileInfo, 0, limit)
	for _, r := range ranked[:limit] {
		out = append(out, r.file)
	}
	return out
}

// siblingReferences counts, per file, how many files in the same directory
// mention its base name (without extension). A file its neighbors keep
// importing is structurally significant.
func siblingReferences(files []FileInfo) map[string]int {
	byDir := map[string][]int{}
	for i, f := range files {
		dir := dirOf(f.RelPath)
		byDir[dir] = append(byDir[dir], i)
	}

	refs := make(map[string]int, len(files))
	for _, idxs := range byDir {
		for _, i := range idxs {
			stem := stemOf(files[i].RelPath)
			if len(stem) < 3 {
				continue // short stems match everything
			}
			for _, j := range idxs {
				if i == j {
					continue
				}
				if strings.Contains(files[j].Content, stem) {
					refs[files[i].RelPath]++
				}
			}
		}
	}
	return refs
}

func dirOf(relPath string) string {
	if i := strings.LastIndex(relPath, "/"); i >= 0 {
		return relPath[:i]
	}
	return "."
}

func baseOf(relPath string) string {
	if i := strings.LastIndex(relPath, "/"); i >= 0 {
		return relPath[i+1:]
	}
	return relPath
}

func stemOf(relPath string) string {
	base := baseOf(relPath)
	if i := strings.LastIndex(base, "."); i > 0 {
		return base[:i]
	}
	return base
}
