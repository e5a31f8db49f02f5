package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/TalalLiaquat/event-reminder/internal/adapters/cli"
	eventStore "github.com/TalalLiaquat/event-reminder/internal/adapters/storage/event"
	"github.com/TalalLiaquat/event-reminder/internal/application/orchestrators"
	"github.com/TalalLiaquat/event-reminder/internal/config"
	"github.com/TalalLiaquat/event-reminder/internal/domain/event"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	var (
		dataFile    string
		exportFile  string
		envFile     string
		showVersion bool
	)
	flag.StringVar(&dataFile, "data", "", "snapshot file to load at startup and offer for save/load (.json, .db, .sqlite)")
	flag.StringVar(&exportFile, "export", "", "default export file (.txt, .md, .html, .ics)")
	flag.StringVar(&envFile, "env", ".env", "optional dotenv file")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println("event-reminder", version)
		return
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if dataFile != "" {
		cfg.DataFile = dataFile
	}
	if exportFile != "" {
		cfg.ExportFile = exportFile
	}
	slog.SetDefault(cfg.NewLogger(os.Stderr))

	ctx := context.Background()
	store := eventStore.NewEventStore(cfg.SlowQueryMs)
	deps := orchestrators.ReminderDeps{EventStore: store, Now: time.Now}

	if _, err := orchestrators.ExecuteLoad(ctx, orchestrators.FileInput{Path: cfg.DataFile}, deps); err != nil {
		var corrupt *event.CorruptDataError
		if !errors.As(err, &corrupt) {
			log.Fatalf("load %s: %v", cfg.DataFile, err)
		}
		fmt.Fprintf(os.Stderr, "Warning: %v; starting with no events.\n", err)
	}

	menu := cli.NewMenu(os.Stdin, os.Stdout, deps, cfg.DataFile, cfg.ExportFile)
	if err := menu.Run(ctx); err != nil {
		log.Fatalf("menu: %v", err)
	}
}
