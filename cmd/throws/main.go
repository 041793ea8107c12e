// Command throws prints the most recent throws from the scorer's journal and
// a summary of the session.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"dart-scorer/internal/config"
	"dart-scorer/internal/journal"
	"dart-scorer/internal/version"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to the scorer configuration")
	dbPath := flag.String("db", "", "Journal path (defaults to journal_path from the config)")
	limit := flag.Int("n", 20, "Number of throws to list")
	since := flag.Duration("since", 24*time.Hour, "Summarize throws from this long ago")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("throws"))
		return
	}

	path := *dbPath
	if path == "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		path = cfg.JournalPath
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "No journal configured; pass -db")
		os.Exit(1)
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stderr, "Journal %s: %v\n", path, err)
		os.Exit(1)
	}

	db, err := journal.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open journal: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	records, err := db.Recent(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read journal: %v\n", err)
		os.Exit(1)
	}
	for _, r := range records {
		fmt.Printf("%s  %s\n", r.Timestamp.Local().Format("2006-01-02 15:04:05"), r)
	}

	s, err := db.Summarize(time.Now().Add(-*since))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to summarize: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nLast %s: %s\n", *since, s)
}
