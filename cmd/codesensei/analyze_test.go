package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codesensei/internal/scanner"
)

func TestParseFrameworks(t *testing.T) {
	assert.Nil(t, parseFrameworks(""))
	assert.Nil(t, parseFrameworks("  "))
	assert.Equal(t, []string{"React", "Flask"}, parseFrameworks("React, Flask"))
	assert.Equal(t, []string{"Go"}, parseFrameworks("Go,"))
}

func TestStagesPreviewCountsDeepDives(t *testing.T) {
	result := &scanner.AnalysisResult{
		Files: []scanner.FileInfo{
			{RelPath: "engine/a.go", Tokens: 10},
			{RelPath: "engine/b.go", Tokens: 10},
			{RelPath: "engine/c.go", Tokens: 10},
			{RelPath: "main.go", Tokens: 10},
		},
	}

	docs := stagesPreview(result)
	assert.Len(t, docs, 7)
	assert.Contains(t, docs, "deep-dive-engine")
}

func TestProjectRootFor(t *testing.T) {
	assert.Equal(t, "src", projectRootFor("src/app.py", false))
	assert.Equal(t, "src", projectRootFor("src", true))
}
