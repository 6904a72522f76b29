package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tanbq/tweetpdf/internal/app/export"
	"github.com/tanbq/tweetpdf/internal/config"
	"github.com/tanbq/tweetpdf/internal/utils/logger"
	"github.com/tanbq/tweetpdf/internal/utils/validate"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	csvPath := flag.String("csv", "", "Input CSV path")
	outPath := flag.String("out", "", "Output PDF path (default: CSV name with .pdf)")
	startRaw := flag.String("start", "", "Date range start (YYYY-MM-DD)")
	endRaw := flag.String("end", "", "Date range end (YYYY-MM-DD)")
	sortOrder := flag.String("sort", "asc", "Sort by date: asc or desc")
	concurrency := flag.Int("concurrency", 0, "Concurrent media downloads (overrides config)")
	allowHosts := flag.String("allow-hosts", "", "Comma-separated host allowlist (overrides config)")
	downloadDir := flag.String("download-dir", "", "Temporary media cache directory (overrides config)")
	configPath := flag.String("config", "tweetpdf.yaml", "Optional YAML config path")
	initOnly := flag.Bool("init", false, "Initialize fonts and exit")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	fmt.Printf("@Copyright (C) 2020 - %d by TanBQ.\n", time.Now().Year())

	if *showVersion {
		fmt.Printf("tweetpdf version %s\n", version)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("error initializing config: %v\n", err)
		os.Exit(1)
	}

	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	if setFlags["concurrency"] {
		cfg.Concurrency = *concurrency
	}
	if setFlags["allow-hosts"] {
		cfg.AllowedHosts = config.SplitHosts(*allowHosts)
	}
	if setFlags["download-dir"] {
		cfg.DownloadDir = *downloadDir
	}

	if err := logger.Init(cfg.LogMode); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("configuration loaded successfully")
	logger.Debug("debug mode enabled",
		zap.String("log_mode", cfg.LogMode),
		zap.Int("concurrency", cfg.Concurrency),
		zap.Strings("allowed_hosts", cfg.AllowedHosts),
	)

	if err := validate.ValidateConcurrency(cfg.Concurrency); err != nil {
		fatal(err)
	}
	if err := validate.ValidateAllowedHosts(cfg.AllowedHosts); err != nil {
		fatal(err)
	}
	if *sortOrder != "asc" && *sortOrder != "desc" {
		fatal(fmt.Errorf("invalid --sort value %q (use asc or desc)", *sortOrder))
	}
	start, end, filterEnabled, err := validate.ValidateDateRange(*startRaw, *endRaw)
	if err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *initOnly {
		if err := export.InitFonts(ctx, cfg); err != nil {
			fatal(err)
		}
		return
	}

	if *csvPath == "" {
		fatal(fmt.Errorf("missing required argument: --csv"))
	}

	params := export.Params{
		CSVPath:       *csvPath,
		OutPath:       *outPath,
		Start:         start,
		End:           end,
		FilterEnabled: filterEnabled,
		SortDesc:      *sortOrder == "desc",
	}
	if err := export.Run(ctx, cfg, params); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	logger.Error("export failed", zap.Error(err))
	fmt.Fprintf(os.Stderr, "tweetpdf: %v\n", err)
	logger.Sync()
	os.Exit(1)
}
