package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"SqueezeScan/internal/analyzer"
	"SqueezeScan/internal/collector"
	"SqueezeScan/internal/config"
	"SqueezeScan/internal/notifier"
	"SqueezeScan/internal/recorder"
	"SqueezeScan/internal/scanner"
	"SqueezeScan/internal/scheduler"
	"SqueezeScan/internal/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] SqueezeScan starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.Provider == "rest" {
		fetcher = collector.NewRestFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init analyzer and scanner
	an := analyzer.New(fetcher)
	an.HistoryDays = cfg.Scanner.HistoryDays
	sc := scanner.New(an, scanner.Config{
		Concurrency: cfg.Scanner.Concurrency,
		BatchDelay:  cfg.Scanner.RequestDelay,
	})

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	if !tn.Enabled() {
		log.Println("[WARN] Telegram credentials not set, alerts disabled")
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, sc, tn, rec, scanner.Normalize(cfg.Scanner.Watchlist))
	if err := sched.Register(cfg.Schedule.ScanCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start websocket server
	srv := server.NewServer(sc, cfg.Server.Addr)
	go func() {
		if err := srv.Run(ctx); err != nil {
			log.Printf("[ERROR] scan server: %v", err)
		}
	}()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, scanning watchlist now")
		go sched.RunScanNow()
	}

	log.Println("[INFO] SqueezeScan is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] SqueezeScan stopped")
}
