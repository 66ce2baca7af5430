package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/GaryOcean428/qsearch/internal/search"
)

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	limit := fs.Int("limit", 10, "Result count bound")
	fs.Parse(os.Args[1:])

	query := strings.Join(fs.Args(), " ")
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: qsearchctl search [--limit N] <query>")
		os.Exit(1)
	}

	c := search.NewClient(newClient())
	out, err := c.Search(context.Background(), search.Query{
		Text:  query,
		Limit: *limit,
		Mode:  search.ModeLocal,
	})
	if err != nil {
		log.Fatalf("search: %v", err)
	}

	cache := "miss"
	if out.Local.CacheHit {
		cache = "hit"
	}
	fmt.Printf("%d results in %v (cache %s)\n", len(out.Results), out.Elapsed.Round(time.Millisecond), cache)
	fmt.Println(strings.Repeat("-", 80))
	for i, r := range out.Results {
		fmt.Printf("%2d. [%.4f] %s\n", i+1, r.Distance, truncate(r.Title, 70))
		fmt.Printf("    %s\n", r.URL)
	}
}

func runHybrid() {
	fs := flag.NewFlagSet("hybrid", flag.ExitOnError)
	limit := fs.Int("limit", 10, "Result count bound")
	alpha := fs.Float64("alpha", 0.5, "Blend weight: 0 favors web rank, 1 favors geometry")
	learn := fs.Bool("learn", true, "Queue results for the continuous learner")
	fs.Parse(os.Args[1:])

	query := strings.Join(fs.Args(), " ")
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: qsearchctl hybrid [--limit N] [--alpha A] <query>")
		os.Exit(1)
	}

	c := search.NewClient(newClient())
	out, err := c.Search(context.Background(), search.Query{
		Text:  query,
		Limit: *limit,
		Mode:  search.ModeHybrid,
		Alpha: *alpha,
		Learn: *learn,
	})
	if err != nil {
		log.Fatalf("hybrid: %v", err)
	}

	fmt.Printf("%d results in %v (alpha %.2f)\n", len(out.Results), out.Elapsed.Round(time.Millisecond), out.Hybrid.Alpha)
	fmt.Println(strings.Repeat("-", 80))
	for i, r := range out.Results {
		fmt.Printf("%2d. [#%-2d d=%.4f s=%.4f] %s\n",
			i+1, r.SerperPosition, r.BasinDistance, r.HybridScore, truncate(r.Title, 60))
		fmt.Printf("    %s\n", r.URL)
	}
}
