package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/dhkim-labs/arbscan/internal/domain"
)

// maxAlertOpps caps how many opportunities a single alert message lists.
const maxAlertOpps = 5

// Alerter turns scan results into operator notifications. Only opportunities
// at or above the configured ROI floor trigger an alert; a quiet scan sends
// nothing.
type Alerter struct {
	notifier *Notifier
	minROI   float64
}

// NewAlerter creates an Alerter that forwards qualifying opportunities to the
// given notifier.
func NewAlerter(notifier *Notifier, minROI float64) *Alerter {
	return &Alerter{notifier: notifier, minROI: minROI}
}

// AlertScan inspects a scan result and sends at most one alert per
// opportunity kind. Delivery failures are returned but the caller is expected
// to log and move on; alerting never blocks the scan loop.
func (a *Alerter) AlertScan(ctx context.Context, result domain.ScanResult) error {
	var errs []string

	if msg := a.formatOpps(result.CrossVenue); msg != "" {
		title := fmt.Sprintf("Cross-venue arbitrage (scan %s)", shortID(result.ID))
		if err := a.notifier.Notify(ctx, EventCrossVenue, title, msg); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if msg := a.formatOpps(result.IntraVenue); msg != "" {
		title := fmt.Sprintf("Intra-venue mispricing (scan %s)", shortID(result.ID))
		if err := a.notifier.Notify(ctx, EventIntraVenue, title, msg); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: alert scan %s: %s", result.ID, strings.Join(errs, "; "))
	}
	return nil
}

// AlertScanFailure reports a scan cycle that ended in an error.
func (a *Alerter) AlertScanFailure(ctx context.Context, scanErr error) error {
	return a.notifier.Notify(ctx, EventScanFailed, "Scan failed", scanErr.Error())
}

// formatOpps renders the qualifying opportunities as one message body, best
// ROI first. Returns "" when nothing clears the floor.
func (a *Alerter) formatOpps(opps []domain.Opportunity) string {
	var lines []string
	for _, o := range opps {
		if o.ROI < a.minROI {
			continue
		}
		lines = append(lines, fmt.Sprintf("%.2f%% ROI, cost %.4f: %s",
			o.ROI, o.TotalCost, strings.Join(o.Questions, " / ")))
		if len(lines) == maxAlertOpps {
			break
		}
	}
	return strings.Join(lines, "\n")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
