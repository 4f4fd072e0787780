package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"SqueezeScan/internal/model"
)

// FormatAlert formats a single qualifying contraction result for Telegram.
func FormatAlert(r *model.ContractionResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🎯 <b>%s</b> | %d-day contraction [%s]\n\n", r.Symbol, r.Period, r.Level))
	b.WriteString(fmt.Sprintf("Price: %.2f (%+.2f%%)\n", r.CurrentPrice, r.ChangePercent))
	b.WriteString(fmt.Sprintf("Volume: %s\n", humanize.Commaf(r.CurrentVolume)))
	b.WriteString(fmt.Sprintf("Squeeze: %s | bandwidth %.2f%%\n", r.SqueezeStatus, r.BandwidthPercent))
	b.WriteString(fmt.Sprintf("Score: %.2f | ATR(20): %.2f\n", r.ContractionScore, r.ATR))
	b.WriteString(fmt.Sprintf("Range compression: %.1f%% vs 60-day baseline\n", r.Pivot.ContractionPercent))
	b.WriteString(fmt.Sprintf("Position in 20d range: %.0f%% | high %dd ago, low %dd ago\n",
		r.PricePosition, r.DaysSinceHigh, r.DaysSinceLow))

	return b.String()
}

// FormatScanSummary formats the end-of-scan digest: qualifying setups first,
// then counts.
func FormatScanSummary(results []model.ContractionResult, errors int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Squeeze scan</b> | %s\n\n", time.Now().Format("2006-01-02 15:04")))

	qualifying := 0
	for _, r := range results {
		if !r.Pivot.Qualifies {
			continue
		}
		qualifying++
		b.WriteString(fmt.Sprintf("  %s %dd [%s] score %.2f\n", r.Symbol, r.Period, r.Level, r.ContractionScore))
	}
	if qualifying == 0 {
		b.WriteString("  no qualifying setups\n")
	}

	b.WriteString(fmt.Sprintf("\n%d results, %d qualifying, %d errors\n", len(results), qualifying, errors))
	return b.String()
}
