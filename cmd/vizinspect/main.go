package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/iafilius/DataVizDesign/src/resource"
	"github.com/iafilius/DataVizDesign/src/table"
	"github.com/iafilius/DataVizDesign/src/vizerr"
)

type options struct {
	source   string
	time     string
	category string
	measures string
	rank     string
	at       string
	baseline string
	limit    int
	cacheDir string
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(vizerr.ExitCode(err))
	}
}

func run(ctx context.Context, args []string, w io.Writer) error {
	var o options
	fs := flag.NewFlagSet("vizinspect", flag.ContinueOnError)
	fs.SetOutput(w)
	fs.StringVar(&o.source, "source", "", "CSV/XLSX path or URL")
	fs.StringVar(&o.time, "time", "date", "Time column")
	fs.StringVar(&o.category, "category", "", "Optional category column")
	fs.StringVar(&o.measures, "measures", "", "Comma separated numeric columns")
	fs.StringVar(&o.rank, "rank", "", "Rank categories by this measure")
	fs.StringVar(&o.at, "at", "", "Rank at this timestamp (default: each category's latest row)")
	fs.StringVar(&o.baseline, "baseline", "", "Category always ranked first")
	fs.IntVar(&o.limit, "limit", 0, "Max ranked categories (0 = all)")
	fs.StringVar(&o.cacheDir, "cache", "", "Cache directory for remote sources")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if o.source == "" {
		return fmt.Errorf("-source is required")
	}
	measures := splitList(o.measures)
	if o.rank != "" && !contains(measures, o.rank) {
		measures = append(measures, o.rank)
	}
	if len(measures) == 0 {
		return fmt.Errorf("-measures is required")
	}

	f := &resource.Fetcher{CacheDir: o.cacheDir}
	tbl, err := table.Load(ctx, f, o.source, table.Schema{TimeColumn: o.time, CategoryColumn: o.category, Measures: measures})
	if err != nil {
		return err
	}

	cats := tbl.Categories()
	fmt.Fprintf(w, "Source: %s\n", tbl.Source())
	fmt.Fprintf(w, "Rows: %d\n", tbl.Len())
	if o.category != "" {
		fmt.Fprintf(w, "Categories: %d\n", len(cats))
	}
	for _, c := range cats {
		v, err := tbl.Subset(c)
		if err != nil {
			return err
		}
		if o.category != "" {
			fmt.Fprintf(w, "%s: %d rows\n", c, v.Len())
		}
		for _, m := range measures {
			fmt.Fprintf(w, "  %s\n", v.Series(m).Describe())
		}
	}

	if o.rank == "" {
		return nil
	}
	spec := table.RankSpec{Measure: o.rank, Baseline: o.baseline, Limit: o.limit}
	if o.at != "" {
		if spec.At, err = table.ParseTime(o.at); err != nil {
			return fmt.Errorf("-at: %w", err)
		}
	}
	ranked, err := tbl.Rank(spec)
	if err != nil {
		return err
	}
	at := "latest"
	if !spec.At.IsZero() {
		at = spec.At.Format(time.DateOnly)
	}
	fmt.Fprintf(w, "Ranking by %s at %s:\n", o.rank, at)
	for i, c := range ranked {
		fmt.Fprintf(w, "%2d. %s\n", i+1, c)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}
