package repl

import (
	"strings"
)

// wrapLines splits text into lines of at most width runes. Lines break at
// the last space that fits, or hard at width when there is none. Existing
// newlines are kept. A width of zero or less disables wrapping.
func wrapLines(text string, width int) []string {
	if width <= 0 {
		return strings.Split(text, "\n")
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		rest := []rune(line)
		for len(rest) > width {
			if idx := lastSpace(rest[:width+1]); idx > 0 {
				out = append(out, string(rest[:idx]))
				rest = rest[idx+1:] // skip the space itself
				continue
			}
			out = append(out, string(rest[:width]))
			rest = rest[width:]
		}
		out = append(out, string(rest))
	}
	return out
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == ' ' {
			return i
		}
	}
	return -1
}
