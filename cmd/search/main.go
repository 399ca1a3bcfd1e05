// Command search resolves one glossary query and prints the filters,
// matching entries and any storage failures.
//
// Usage:
//
//	search 'dam [engineering] (en-AU)'
//
// Several arguments are joined with spaces. Exit codes: 0 = success,
// 1 = error, 2 = results may be incomplete.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/heartmarshall/ubergloss/internal/app"
)

func main() {
	timeout := flag.Duration("timeout", 30*time.Second, "overall search timeout")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <query>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	query := strings.Join(flag.Args(), " ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	partial, err := app.RunSearch(ctx, query, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "search: %v\n", err)
		os.Exit(1)
	}
	if partial {
		os.Exit(2)
	}
}
