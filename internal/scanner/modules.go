package scanner

import (
	"sort"
	"strings"
)

// infraDirs are top-level directories that never count as modules:
// build output, dependency caches, static assets.
var infraDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"public":       true,
	"static":       true,
	"assets":       true,
}

// minModuleFiles is the smallest group that warrants its own deep dive.
const minModuleFiles = 3

// maxModules bounds deep-dive fan-out regardless of repository size.
const maxModules = 5

// Module is an ephemeral grouping of files under one top-level directory.
// Files is a view into the AnalysisResult's slice, not a copy.
type Module struct {
	Name   string
	Files  []FileInfo
	Tokens int
}

// GroupModules partitions files by first path segment into deep-dive
// candidates. Root-level files and infrastructure directories are skipped,
// groups under 3 files are dropped, and at most the 5 largest groups by
// aggregate token count are returned.
func GroupModules(files []FileInfo) []Module {
	byDir := map[string]*Module{}
	var order []string

	for _, f := range files {
		seg, rest, found := strings.Cut(f.RelPath, "/")
		if !found || rest == "" {
			continue // root-level file
		}
		if infraDirs[seg] {
			continue
		}
		m, ok := byDir[seg]
		if !ok {
			m = &Module{Name: seg}
			byDir[seg] = m
			order = append(order, seg)
		}
		m.Files = append(m.Files, f)
		m.Tokens += f.Tokens
	}

	var modules []Module
	for _, name := range order {
		m := byDir[name]
		if len(m.Files) >= minModuleFiles {
			modules = append(modules, *m)
		}
	}

	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Tokens != modules[j].Tokens {
			return modules[i].Tokens > modules[j].Tokens
		}
		return modules[i].Name < modules[j].Name
	})

	if len(modules) > maxModules {
		modules = modules[:maxModules]
	}
	return modules
}
