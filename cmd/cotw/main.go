// Command cotw builds the AsciiDoc table of This Week in Rust's Crates of the
// Week from the hand-edited YAML list, reporting suspicious ordering on stderr.
package main

import (
	"context"
	"os"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}
