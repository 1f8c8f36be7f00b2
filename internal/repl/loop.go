package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/charmbracelet/glamour"

	"codesensei/internal/errdefs"
	"codesensei/internal/generate"
	"codesensei/internal/output"
)

// maxContextChars caps the explored content embedded in the system
// prompt so one huge file cannot blow the context window.
const maxContextChars = 50_000

// turnMaxTokens bounds each interactive answer.
const turnMaxTokens = 2048

var systemTmpl = template.Must(template.New("system").Parse(
	`You are helping a developer understand the code at "{{.Path}}".
{{.Frameworks}}

Content:
{{.Content}}

Answer questions about this code conversationally and concretely. Refer
to specific lines and names when it helps.`))

// Options configures one interactive session.
type Options struct {
	// Path is the file or folder being explored.
	Path string
	// Content is its text, embedded (capped) in the system prompt.
	Content string
	// Frameworks is the detected framework list, possibly empty.
	Frameworks []string
	// Completer answers each turn.
	Completer generate.Completer
	// Console receives all user-facing output.
	Console *output.Console
	// Input is the question source, normally stdin.
	Input io.Reader
	// TranscriptDir receives the session log on exit; empty disables it.
	TranscriptDir string
}

// Run drives the interactive loop until an exit keyword, end of input,
// or context cancellation. Per-turn provider failures are reported
// inline and the loop continues; the transcript is flushed on every exit
// path if any turns completed.
func Run(ctx context.Context, opts Options) error {
	session := NewSession(opts.Path)
	system, err := buildSystemPrompt(opts)
	if err != nil {
		return err
	}

	opts.Console.Boxf("Interactive Mode\n\nExploring: %s\n\nAsk questions about this code, or type exit to quit.", opts.Path)
	opts.Console.Println("")

	lines := readLines(ctx, opts.Input)

loop:
	for {
		if ctx.Err() != nil {
			break
		}

		opts.Console.Printf("codesensei> ")

		var question string
		select {
		case <-ctx.Done():
			opts.Console.Println("")
			break loop
		case line, ok := <-lines:
			if !ok {
				opts.Console.Println("")
				break loop
			}
			question = strings.TrimSpace(line)
		}

		if question == "" {
			continue
		}
		switch strings.ToLower(question) {
		case "exit", "quit", "q":
			break loop
		}

		opts.Console.Dimf("Thinking...\n")
		answer, err := opts.Completer.Complete(ctx, session.Prompt(question), system, turnMaxTokens)
		if err != nil {
			reportTurnError(opts.Console, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		session.Append(question, answer)
		opts.Console.Println("")
		opts.Console.Println(renderMarkdown(answer))
	}

	if err := saveTranscript(session, opts); err != nil {
		opts.Console.Warnf("Could not save session: %v\n", err)
	}
	opts.Console.Dimf("Goodbye!\n")
	return nil
}

// readLines feeds input lines to the returned channel from a separate
// goroutine, so the main loop can select against ctx while a terminal
// read blocks on an idle prompt. The channel closes at end of input.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// buildSystemPrompt embeds the explored content (capped) and framework
// context into the session's system prompt.
func buildSystemPrompt(opts Options) (string, error) {
	content := opts.Content
	if len(content) > maxContextChars {
		content = content[:maxContextChars]
	}

	frameworks := "No specific framework detected."
	if len(opts.Frameworks) > 0 {
		frameworks = "Detected frameworks: " + strings.Join(opts.Frameworks, ", ")
	}

	var b strings.Builder
	err := systemTmpl.Execute(&b, map[string]string{
		"Path":       opts.Path,
		"Content":    content,
		"Frameworks": frameworks,
	})
	if err != nil {
		return "", fmt.Errorf("rendering system prompt: %w", err)
	}
	return b.String(), nil
}

// reportTurnError surfaces a per-turn failure without ending the
// session.
func reportTurnError(console *output.Console, err error) {
	switch {
	case errdefs.IsRateLimit(err):
		console.Warnf("Rate limit reached. Please wait a moment before asking another question.\n")
	case errdefs.KindOf(err) == errdefs.KindNetwork, errdefs.IsConnection(err):
		console.Errorf("Connection error. Please check your internet connection and try again.\n")
	default:
		console.Errorf("%v\n", err)
		if hint := errdefs.HintOf(err); hint != "" {
			console.Dimf("Hint: %s\n", hint)
		}
	}
}

// saveTranscript writes the full retained history to the transcript
// directory. A session with no completed turns writes nothing.
func saveTranscript(session *Session, opts Options) error {
	transcript := session.Transcript()
	if transcript == "" || opts.TranscriptDir == "" {
		return nil
	}

	if err := os.MkdirAll(opts.TranscriptDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(opts.TranscriptDir, TranscriptFilename(opts.Path))
	if err := os.WriteFile(path, []byte(transcript), 0o644); err != nil {
		return err
	}
	opts.Console.Dimf("Session saved to: %s\n", path)
	return nil
}

// renderMarkdown styles an answer for the terminal, falling back to the
// raw text if the renderer cannot be built.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
