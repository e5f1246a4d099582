package main

import (
	"fmt"
	"io"

	"golang.org/x/term"
)

// isTTY returns true if the given file descriptor is a terminal.
func isTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// printBanner prints the gopname ASCII art banner. When useColor is true,
// each line gets its own ANSI color, running from green to yellow.
func printBanner(w io.Writer, useColor bool) {
	lines := []string{
		`                                                `,
		`   __ _  ___  _ __  _ __   __ _ _ __ ___   ___  `,
		`  / _' |/ _ \| '_ \| '_ \ / _' | '_ ' _ \ / _ \ `,
		` | (_| | (_) | |_) | | | | (_| | | | | | |  __/ `,
		`  \__, |\___/| .__/|_| |_|\__,_|_| |_| |_|\___| `,
		`  |___/      |_|                                `,
		`                                                `,
	}

	if !useColor {
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
		return
	}

	colors := []string{
		"\033[1;32m", // bold green
		"\033[1;32m",
		"\033[1;92m", // bold bright green
		"\033[1;36m", // bold cyan
		"\033[1;33m", // bold yellow
		"\033[1;93m", // bold bright yellow
		"\033[0m",
	}
	for i, line := range lines {
		fmt.Fprintf(w, "%s%s\033[0m\n", colors[i%len(colors)], line)
	}
}
