package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleWritesToInjectedWriter(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Printf("scanning %d files\n", 3)
	assert.Contains(t, buf.String(), "scanning 3 files")
}

func TestConsoleErrorfIncludesPrefix(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Errorf("no provider configured\n")
	assert.Contains(t, buf.String(), "Error:")
	assert.Contains(t, buf.String(), "no provider configured")
}

func TestConsoleEmojiPrefixes(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf).WithEmoji(true)

	c.Successf("done\n")
	assert.Contains(t, buf.String(), "✅ done")

	buf.Reset()
	c = NewConsole(&buf).WithEmoji(false)
	c.Successf("done\n")
	assert.NotContains(t, buf.String(), "✅")
}

func TestConsoleIsIsolatedPerInstance(t *testing.T) {
	var a, b bytes.Buffer
	ca := NewConsole(&a)
	cb := NewConsole(&b)

	ca.Println("first")
	cb.Println("second")

	assert.Contains(t, a.String(), "first")
	assert.NotContains(t, a.String(), "second")
	assert.Contains(t, b.String(), "second")
}
