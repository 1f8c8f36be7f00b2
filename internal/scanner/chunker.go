package scanner

import (
	"fmt"
	"strings"
)

// RenderFiles renders files into one prompt-ready text block under a token
// ceiling. Files are taken strictly in the given order: the first file
// whose tokens would push the running total past the ceiling stops the
// render, and everything after it is excluded too. No partial files, no
// reordering, so the same input always produces the same bytes.
func RenderFiles(files []FileInfo, ceiling int) string {
	var b strings.Builder
	total := 0

	for _, f := range files {
		if total+f.Tokens > ceiling {
			break
		}
		fmt.Fprintf(&b, "## %s\n\n", f.RelPath)
		fmt.Fprintf(&b, "```%s\n%s\n```\n\n", strings.TrimPrefix(f.Ext, "."), f.Content)
		total += f.Tokens
	}

	return b.String()
}
