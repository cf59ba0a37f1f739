// Package stacktrace trims debug.Stack output down to this module's frames.
package stacktrace

import (
	"bufio"
	"bytes"
	"strings"
)

const marker = "/internal/"

// Frames returns "internal/<pkg>/<file>.go:<line>" for every frame under an
// internal/ directory, innermost first. When none match, the whole stack is
// returned as a single entry so the panic is never logged without context.
func Frames(stack []byte) []string {
	var out []string

	sc := bufio.NewScanner(bytes.NewReader(stack))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		file, _, _ := strings.Cut(line, " +0x")
		if !strings.HasSuffix(strings.TrimRight(file, "0123456789"), ".go:") {
			continue
		}
		if i := strings.Index(file, marker); i >= 0 {
			out = append(out, file[i+1:])
		}
	}

	if len(out) == 0 && len(stack) > 0 {
		return []string{string(stack)}
	}
	return out
}
