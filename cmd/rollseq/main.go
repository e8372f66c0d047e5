// Command rollseq inspects, converts and keeps saves of rollseq song files.
//
// Usage:
//
//	rollseq [flags] <command> [args]
//
// Commands:
//
//	new      - Write a new song
//	info     - Summarize a song
//	convert  - Convert a song between YAML and JSON
//	project  - Timestamped project saves (save, list, load, delete)
//	record   - Record from a MIDI input into a song
//	version  - Show version information
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
