// Command qsearchctl is the one-shot CLI for qsearch debugging and
// maintenance.
//
// Usage:
//
//	qsearchctl                     Show help
//	qsearchctl search <query>      Local geometric search
//	qsearchctl hybrid <query>      Hybrid search (web rank + geometry)
//	qsearchctl stats               Continuous-learner statistics
//	qsearchctl history             Recent local searches
package main

import (
	"fmt"
	"os"
)

const usage = `qsearchctl — qsearch debug & maintenance CLI

Usage:
  qsearchctl <command> [flags]

Commands:
  search      Local geometric search against the index
  hybrid      Hybrid search blending web rank with geometry
  stats       Continuous-learner statistics
  history     Recent searches recorded by the TUI

Environment:
  QSEARCH_API_URL    Backend base URL (default http://localhost:8000)

Run 'qsearchctl <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "search":
		runSearch()
	case "hybrid":
		runHybrid()
	case "stats":
		runStats()
	case "history":
		runHistory()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "qsearchctl: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
