package vogprep

import (
	"flag"
	"fmt"
	"os"
)

// Verbose controls whether progress output is written to stderr. The
// command line tools set this based on their '-quiet' flag.
var Verbose = false

// Vprintf writes progress output to stderr when Verbose is set.
func Vprintf(format string, v ...interface{}) {
	if Verbose {
		fmt.Fprintf(os.Stderr, format, v...)
	}
}

// Warnf writes a warning to stderr regardless of the Verbose setting.
// Warnings indicate data-quality problems (merge conflicts, malformed
// records) that do not stop a run.
func Warnf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
}

// PrintFlagDefaults writes the defaults of all defined flags to stderr.
// It is used by the usage functions of the command line tools.
func PrintFlagDefaults() {
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
}
