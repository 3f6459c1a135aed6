// Package util provides the diagnostic output helpers shared by the driver
// and the code generator's warning paths.
package util

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/palc-lang/palc/pkg/config"
)

var stderrIsTerminal = term.IsTerminal(int(os.Stderr.Fd()))

func paint(code, s string) string {
	if !stderrIsTerminal {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// Error prints a formatted fatal message and exits the program. It is the
// driver's reporting path; library code returns errors instead.
func Error(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "palc: %s ", paint("31", "error:"))
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprintln(os.Stderr)
	os.Exit(1)
}

// Warn prints a formatted warning message if the corresponding warning is
// enabled in cfg.
func Warn(cfg *config.Config, wt config.Warning, format string, args ...interface{}) {
	if cfg == nil || !cfg.IsWarningEnabled(wt) {
		return
	}
	fmt.Fprintf(os.Stderr, "palc: %s ", paint("33", "warning:"))
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprintf(os.Stderr, " [-W%s]\n", cfg.Warnings[wt].Name)
}
