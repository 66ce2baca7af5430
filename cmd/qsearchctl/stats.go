package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/GaryOcean428/qsearch/internal/history"
	"github.com/GaryOcean428/qsearch/internal/stats"
)

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	u, err := stats.Fetch(context.Background(), newClient())
	if err != nil {
		log.Fatalf("stats: %v", err)
	}

	fmt.Printf("URLs queued:       %d\n", u.URLsQueued)
	fmt.Printf("URLs crawled:      %d\n", u.URLsCrawled)
	fmt.Printf("URLs failed:       %d\n", u.URLsFailed)
	fmt.Printf("Documents added:   %d\n", u.DocumentsAdded)
	fmt.Printf("Queue size:        %d\n", u.QueueSize)
	if u.LastCrawlTime != "" {
		fmt.Printf("Last crawl:        %s\n", u.LastCrawlTime)
	}
	fmt.Printf("Learner running:   %v\n", u.Running)
}

func runHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Number of entries to show")
	fs.Parse(os.Args[1:])

	st, err := history.Open(dataPath("history.db"))
	if err != nil {
		log.Fatalf("open history: %v", err)
	}
	defer st.Close()

	entries, err := st.Recent(*limit)
	if err != nil {
		log.Fatalf("read history: %v", err)
	}
	if len(entries) == 0 {
		fmt.Println("No searches recorded yet. Run the qsearch TUI first.")
		return
	}

	for _, e := range entries {
		extra := ""
		switch e.Mode {
		case "hybrid":
			extra = fmt.Sprintf(" alpha=%.2f", e.Alpha)
		case "local":
			if e.CacheHit {
				extra = " cache=hit"
			}
		}
		fmt.Printf("%s  %-7s %3d results%s  %s\n",
			e.CreatedAt.Format("2006-01-02 15:04"), e.Mode, e.Results, extra, truncate(e.Query, 50))
	}
}
