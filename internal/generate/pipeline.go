// Package generate drives the documentation pipeline: six fixed stages
// plus one deep dive per qualifying module, each producing one markdown
// file. Stages run strictly in order; a stage that fails after retries
// aborts the whole run, since a partial document set is treated as
// failure rather than partial success.
package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codesensei/internal/output"
	"codesensei/internal/scanner"
)

// OutputDirName is the documentation directory created under the
// analyzed project's root.
const OutputDirName = "codesensei-output"

// maxOutputTokens bounds each generated document.
const maxOutputTokens = 4096

// Completer issues one text completion. *provider.Caller satisfies it.
type Completer interface {
	Complete(ctx context.Context, prompt, system string, maxOutputTokens int) (string, error)
}

// Pipeline generates the documentation set for one analysis result.
type Pipeline struct {
	completer Completer
	console   *output.Console
}

// NewPipeline creates a pipeline writing progress to console.
func NewPipeline(completer Completer, console *output.Console) *Pipeline {
	return &Pipeline{completer: completer, console: console}
}

// stage is one fixed pipeline step: a target filename, a progress
// description, and a prompt builder over the shared analysis result.
type stage struct {
	filename    string
	description string
	prompt      func(*scanner.AnalysisResult) (string, error)
}

// stages lists the fixed steps in execution order. Deep dives run after
// all of them.
var stages = []stage{
	{"00-overview.md", "Generating overview", overviewPrompt},
	{"01-getting-oriented.md", "Generating orientation guide", orientationPrompt},
	{"02-architecture.md", "Generating architecture analysis", architecturePrompt},
	{"03-core-files.md", "Generating core files guide", coreFilesPrompt},
	{"05-quality-analysis.md", "Generating quality analysis", qualityPrompt},
	{"06-next-steps.md", "Generating next steps", nextStepsPrompt},
}

// Run executes every stage and writes the documents under the project
// root. Returns the output directory path.
func (p *Pipeline) Run(ctx context.Context, result *scanner.AnalysisResult) (string, error) {
	outputDir := filepath.Join(result.Root, OutputDirName)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	for _, s := range stages {
		p.console.Dimf("%s...\n", s.description)
		prompt, err := s.prompt(result)
		if err != nil {
			return "", err
		}
		text, err := p.completer.Complete(ctx, prompt, systemPrompt, maxOutputTokens)
		if err != nil {
			return "", fmt.Errorf("generating %s: %w", s.filename, err)
		}
		if err := writeDoc(outputDir, s.filename, text); err != nil {
			return "", err
		}
	}

	modules := scanner.GroupModules(result.Files)
	for _, m := range modules {
		p.console.Dimf("Generating deep dive: %s...\n", m.Name)
		prompt, err := deepDivePrompt(m, result)
		if err != nil {
			return "", err
		}
		text, err := p.completer.Complete(ctx, prompt, systemPrompt, maxOutputTokens)
		if err != nil {
			return "", fmt.Errorf("generating deep dive for %s: %w", m.Name, err)
		}
		if err := writeDoc(outputDir, deepDiveFilename(m.Name), text); err != nil {
			return "", err
		}
	}

	return outputDir, nil
}

// Explain generates a one-off explanation for a single file or folder,
// outside the pipeline's document set.
func (p *Pipeline) Explain(ctx context.Context, path, content string, frameworks []string, isDir bool) (string, error) {
	fileType := filepath.Ext(path) + " file"
	if isDir {
		fileType = "folder"
	}

	prompt, err := renderTemplate(explainTmpl, map[string]string{
		"Path":       path,
		"Content":    content,
		"Frameworks": frameworkNames(frameworks),
		"FileType":   fileType,
	})
	if err != nil {
		return "", err
	}
	return p.completer.Complete(ctx, prompt, systemPrompt, maxOutputTokens)
}

// deepDiveFilename turns a module name into its document name, e.g.
// "My Module" -> "04-deep-dive-my-module.md".
func deepDiveFilename(name string) string {
	slug := strings.ReplaceAll(strings.ToLower(name), " ", "-")
	return "04-deep-dive-" + slug + ".md"
}

func writeDoc(dir, filename, content string) error {
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return nil
}

func frameworkNames(frameworks []string) string {
	if len(frameworks) == 0 {
		return "None detected"
	}
	return strings.Join(frameworks, ", ")
}

// ---------- stage prompt builders ----------

func overviewPrompt(result *scanner.AnalysisResult) (string, error) {
	critical := scanner.CriticalFiles(result, 10)
	return renderTemplate(overviewTmpl, map[string]any{
		"Name":       filepath.Base(result.Root),
		"FileCount":  len(result.Files),
		"Frameworks": frameworkNames(result.Frameworks),
		"FileTree":   scanner.FileTree(result.Files, 4),
		"KeyFiles":   scanner.RenderFiles(critical, 30_000),
	})
}

func orientationPrompt(result *scanner.AnalysisResult) (string, error) {
	// One representative file per extension keeps the sample diverse.
	var samples []scanner.FileInfo
	seen := map[string]bool{}
	for _, f := range result.Files {
		if !seen[f.Ext] && len(samples) < 10 {
			samples = append(samples, f)
			seen[f.Ext] = true
		}
	}

	return renderTemplate(orientationTmpl, map[string]any{
		"Name":        filepath.Base(result.Root),
		"Frameworks":  frameworkNames(result.Frameworks),
		"FileTree":    scanner.FileTree(result.Files, 3),
		"SampleFiles": scanner.RenderFiles(samples, 20_000),
	})
}

func architecturePrompt(result *scanner.AnalysisResult) (string, error) {
	critical := scanner.CriticalFiles(result, 15)
	return renderTemplate(architectureTmpl, map[string]any{
		"Frameworks": frameworkNames(result.Frameworks),
		"FileCount":  len(result.Files),
		"KeyFiles":   scanner.RenderFiles(critical, 40_000),
		"FileTree":   scanner.FileTree(result.Files, 4),
	})
}

func coreFilesPrompt(result *scanner.AnalysisResult) (string, error) {
	critical := scanner.CriticalFiles(result, 20)
	return renderTemplate(coreFilesTmpl, map[string]any{
		"Frameworks":    frameworkNames(result.Frameworks),
		"FileCount":     len(result.Files),
		"CriticalFiles": scanner.RenderFiles(critical, 50_000),
	})
}

func deepDivePrompt(m scanner.Module, result *scanner.AnalysisResult) (string, error) {
	return renderTemplate(deepDiveTmpl, map[string]any{
		"ModuleName":  m.Name,
		"ModulePath":  m.Name,
		"ModuleFiles": scanner.RenderFiles(m.Files, 40_000),
	})
}

func qualityPrompt(result *scanner.AnalysisResult) (string, error) {
	testCount := 0
	var configFiles []scanner.FileInfo
	for _, f := range result.Files {
		if f.IsTest {
			testCount++
		}
		if f.IsConfig {
			configFiles = append(configFiles, f)
		}
	}

	sample := scanner.CriticalFiles(result, 10)
	return renderTemplate(qualityTmpl, map[string]any{
		"Frameworks":  frameworkNames(result.Frameworks),
		"FileCount":   len(result.Files),
		"TestCount":   testCount,
		"SampleCode":  scanner.RenderFiles(sample, 30_000),
		"ConfigFiles": scanner.RenderFiles(configFiles, 10_000),
	})
}

func nextStepsPrompt(result *scanner.AnalysisResult) (string, error) {
	modules := scanner.GroupModules(result.Files)
	names := make([]string, 0, len(modules))
	for _, m := range modules {
		names = append(names, m.Name)
	}
	moduleList := strings.Join(names, ", ")
	if moduleList == "" {
		moduleList = "No clear modules identified"
	}

	return renderTemplate(nextStepsTmpl, map[string]any{
		"Frameworks": frameworkNames(result.Frameworks),
		"Modules":    moduleList,
	})
}
