// zexdoc_run.go - the "zexdoc" CLI run mode.
//
// Mirrors original_source/ronald-cli/src/main.rs's "zexdoc" branch (load
// the suite, emulate, report). golang.org/x/term decides whether the
// PASS/FAIL report gets ANSI color, mirroring the engine's own
// terminal_host.go TTY detection. No video/audio backend needed, so this
// stays buildable under a headless build unlike system_run.go.
package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

func runZexdocHarness(romPath string) error {
	program, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", romPath, err)
	}

	harness := NewZexHarness(program)
	output, halted := harness.Run(200_000_000)

	colorize := term.IsTerminal(int(os.Stdout.Fd()))
	failed := strings.Contains(output, "ERROR")

	fmt.Println(output)
	if !halted {
		fmt.Println(paint(colorize, "31", "zexdoc: did not halt within instruction budget"))
		return fmt.Errorf("zexdoc run incomplete")
	}
	if failed {
		fmt.Println(paint(colorize, "31", "zexdoc: FAILED"))
		return fmt.Errorf("zexdoc reported a failure")
	}
	fmt.Println(paint(colorize, "32", "zexdoc: OK"))
	return nil
}

func paint(enabled bool, code, text string) string {
	if !enabled {
		return text
	}
	return fmt.Sprintf("\x1b[%sm%s\x1b[0m", code, text)
}
