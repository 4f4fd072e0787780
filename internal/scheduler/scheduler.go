package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"SqueezeScan/internal/model"
	"SqueezeScan/internal/notifier"
	"SqueezeScan/internal/recorder"
	"SqueezeScan/internal/scanner"
)

// Scheduler runs watchlist scans on a cron schedule, recording results and
// alerting on qualifying setups.
type Scheduler struct {
	Cron      *cron.Cron
	Scanner   *scanner.Scanner
	Notifier  *notifier.TelegramNotifier
	Recorder  recorder.Recorder
	Watchlist []string
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, sc *scanner.Scanner, tn *notifier.TelegramNotifier, rec recorder.Recorder, watchlist []string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Scanner:   sc,
		Notifier:  tn,
		Recorder:  rec,
		Watchlist: watchlist,
		Ctx:       ctx,
	}
}

// Register registers the periodic watchlist scan.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes the watchlist scan immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	if len(s.Watchlist) == 0 {
		log.Println("[WARN] scan task skipped: empty watchlist")
		return
	}
	log.Printf("[INFO] running watchlist scan (%d symbols)", len(s.Watchlist))

	results, errs := s.runScan(s.Watchlist)

	summary := notifier.FormatScanSummary(results, errs)
	s.trySend(summary)

	for i := range results {
		r := &results[i]
		if r.Pivot.Qualifies && r.Level != model.LevelModerate {
			s.trySend(notifier.FormatAlert(r))
		}
	}
}

// runScan drains one full scan stream, persisting qualifying results, and
// returns all results plus the error count.
func (s *Scheduler) runScan(symbols []string) ([]model.ContractionResult, int) {
	scanID := uuid.NewString()
	started := time.Now()

	var results []model.ContractionResult
	errs := 0

	for ev := range s.Scanner.Scan(s.Ctx, symbols) {
		switch ev.Type {
		case model.EventResult:
			results = append(results, *ev.Result)
			if ev.Result.Pivot.Qualifies {
				if err := s.Recorder.RecordResult(scanID, ev.Result); err != nil {
					log.Printf("[ERROR] record result: %v", err)
				}
			}
		case model.EventError:
			errs++
		case model.EventProgress:
			log.Printf("[INFO] scan progress: %d/%d (%s)", ev.Progress.Current, ev.Progress.Total, ev.Progress.Symbol)
		}
	}

	if err := s.Recorder.RecordScan(&recorder.ScanRecord{
		ID:         scanID,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Symbols:    len(symbols),
		Results:    len(results),
		Errors:     errs,
	}); err != nil {
		log.Printf("[ERROR] record scan: %v", err)
	}

	log.Printf("[INFO] scan %s finished: %d results, %d errors in %v", scanID, len(results), errs, time.Since(started))
	return results, errs
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	cmd, args, _ := strings.Cut(command, " ")
	switch cmd {
	case "/scan":
		symbols := s.Watchlist
		if args != "" {
			symbols = strings.Split(args, ",")
		}
		results, errs := s.runScan(symbols)
		return notifier.FormatScanSummary(results, errs)
	case "/watchlist":
		if len(s.Watchlist) == 0 {
			return "watchlist is empty"
		}
		return "Watchlist: " + strings.Join(s.Watchlist, ", ")
	default:
		return "Commands:\n• /scan [SYM1,SYM2,...]\n• /watchlist"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
