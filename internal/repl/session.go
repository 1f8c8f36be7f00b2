// Package repl implements the interactive exploration session: a bounded
// multi-turn dialogue over one file or folder, with windowed context and
// a markdown transcript written on exit.
package repl

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	// maxRetainedTurns caps the full history; the oldest turn is dropped
	// first once exceeded.
	maxRetainedTurns = 10
	// contextWindow is how many recent turns are rendered into the next
	// prompt. The rest of the history only feeds the transcript.
	contextWindow = 3
)

// Turn is one question/answer pair. Immutable once appended.
type Turn struct {
	Question string
	Answer   string
}

// Session holds the dialogue state for one explored path.
type Session struct {
	path    string
	history []Turn
	now     func() time.Time
}

// NewSession creates a session for path.
func NewSession(path string) *Session {
	return &Session{path: path, now: time.Now}
}

// Append records a completed turn, evicting the oldest once the
// retention cap is exceeded.
func (s *Session) Append(question, answer string) {
	s.history = append(s.history, Turn{Question: question, Answer: answer})
	if len(s.history) > maxRetainedTurns {
		s.history = s.history[len(s.history)-maxRetainedTurns:]
	}
}

// History returns the retained turns, oldest first.
func (s *Session) History() []Turn {
	return s.history
}

// Prompt builds the next outgoing prompt: at most the 3 most recent
// turns as context, then the new question.
func (s *Session) Prompt(question string) string {
	var b strings.Builder

	recent := s.history
	if len(recent) > contextWindow {
		recent = recent[len(recent)-contextWindow:]
	}
	if len(recent) > 0 {
		b.WriteString("Previous conversation:\n")
		for _, t := range recent {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", t.Question, t.Answer)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "User question: %s", question)
	return b.String()
}

// Transcript renders the full retained history as a markdown session
// log. Returns "" when no turns were recorded.
func (s *Session) Transcript() string {
	if len(s.history) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Interactive Session: %s\n\n", filepath.Base(s.path))
	fmt.Fprintf(&b, "**Date:** %s\n", s.now().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "**Path:** `%s`\n\n---\n\n", s.path)

	for i, t := range s.history {
		fmt.Fprintf(&b, "## Question %d\n\n> %s\n\n### Answer\n\n%s\n\n---\n\n", i+1, t.Question, t.Answer)
	}
	return b.String()
}

// TranscriptFilename is the session log name for path, e.g.
// "explain-app.py-session.md".
func TranscriptFilename(path string) string {
	name := strings.ReplaceAll(filepath.Base(path), "/", "-")
	return "explain-" + name + "-session.md"
}
