package main

import (
	"fmt"
	"strings"

	"github.com/mazznoer/colorgrad"
)

const bannerArt = `
 __  __ _     _             _        _           _
|  \/  (_)___| |_ _ __ __ _| |   ___| |__   __ _| |_
| |\/| | / __| __| '__/ _' | |  / __| '_ \ / _' | __|
| |  | | \__ \ |_| | | (_| | | | (__| | | | (_| | |_
|_|  |_|_|___/\__|_|  \__,_|_|  \___|_| |_|\__,_|\__|
`

// getBanner returns the banner, coloured with a horizontal gradient when color is set
func getBanner(version string, color bool) string {
	banner := bannerArt + " .  .  .  talk to mistral  [v" + version + "]\n"
	if !color {
		return banner
	}

	grad, err := colorgrad.NewGradient().
		HtmlColors("#ffd800", "#ff8205", "#e10500").
		Build()
	if err != nil {
		return banner
	}

	lines := strings.Split(banner, "\n")

	// Find max line length for gradient spread
	maxLen := 0
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}

	colors := grad.Colors(uint(maxLen))
	var colored strings.Builder
	for _, line := range lines {
		for i, ch := range line {
			r, g, b, _ := colors[i].RGBA255()
			fmt.Fprintf(&colored, "\x1b[38;2;%d;%d;%dm%c", r, g, b, ch)
		}
		colored.WriteString("\x1b[0m\n")
	}
	return colored.String()
}
