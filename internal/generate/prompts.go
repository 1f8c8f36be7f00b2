package generate

import (
	"bytes"
	"fmt"
	"text/template"
)

// systemPrompt frames every pipeline call.
const systemPrompt = `You are an experienced software engineer writing onboarding
documentation for a developer who has just joined a project. Write clear,
practical markdown. Explain concepts in terms of the actual code you are
shown, not in generalities. Prefer short sections with concrete file
references over long prose.`

var overviewTmpl = template.Must(template.New("overview").Parse(
	`Write a high-level overview document for the codebase "{{.Name}}".

The project has {{.FileCount}} source files. Detected frameworks: {{.Frameworks}}.

File tree:
{{.FileTree}}

Key files:
{{.KeyFiles}}

Cover: what the project does, the main technologies in use, how the
repository is laid out, and where a newcomer should look first.`))

var orientationTmpl = template.Must(template.New("orientation").Parse(
	`Write a "getting oriented" guide for a developer new to "{{.Name}}".

Detected frameworks: {{.Frameworks}}.

File tree:
{{.FileTree}}

Representative files (one per file type):
{{.SampleFiles}}

Explain how to read this codebase: which conventions it follows, how the
pieces connect, and a suggested order for exploring the files.`))

var architectureTmpl = template.Must(template.New("architecture").Parse(
	`Write an architecture analysis of this codebase.

Detected frameworks: {{.Frameworks}}. Total source files: {{.FileCount}}.

Key files:
{{.KeyFiles}}

File tree:
{{.FileTree}}

Describe the overall architecture, the major layers or subsystems, the
data flow between them, and any notable design patterns.`))

var coreFilesTmpl = template.Must(template.New("corefiles").Parse(
	`Write a guide to the most important files in this codebase.

Detected frameworks: {{.Frameworks}}. Total source files: {{.FileCount}}.

Critical files:
{{.CriticalFiles}}

For each file shown, explain what it does, why it matters, and how it
relates to the rest of the system.`))

var deepDiveTmpl = template.Must(template.New("deepdive").Parse(
	`Write a deep-dive document for the "{{.ModuleName}}" module (directory
"{{.ModulePath}}").

Module files:
{{.ModuleFiles}}

Explain this module's responsibility, walk through its key files and
functions, and describe how other parts of the codebase use it.`))

var qualityTmpl = template.Must(template.New("quality").Parse(
	`Write a code quality analysis of this codebase.

Detected frameworks: {{.Frameworks}}. Total source files: {{.FileCount}},
of which {{.TestCount}} are tests.

Sample code:
{{.SampleCode}}

Configuration files:
{{.ConfigFiles}}

Assess: test coverage and testing approach, code organization and
consistency, error handling, and concrete improvement opportunities.`))

var nextStepsTmpl = template.Must(template.New("nextsteps").Parse(
	`Write a "next steps" guide for a developer who has read the generated
documentation for this codebase.

Detected frameworks: {{.Frameworks}}.
Major modules: {{.Modules}}.

Suggest: good first tasks, areas worth deeper study, and questions to ask
the team.`))

var explainTmpl = template.Must(template.New("explain").Parse(
	`Explain the following {{.FileType}} at "{{.Path}}" to a developer who
has never seen it before.

Detected frameworks: {{.Frameworks}}.

Content:
{{.Content}}

Explain what it does, how it works, and anything surprising or easy to
get wrong.`))

// renderTemplate executes tmpl with data and returns the prompt text.
func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
