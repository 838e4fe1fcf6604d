package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/decor-manager/internal/domain"
)

const upcomingWeddingDays = 7

// Check scans the current records and emits the alerts not yet raised today.
// It returns the number of new alerts.
func (n *NotificationService) Check(ctx context.Context) int {
	started := time.Now()
	defer func() { n.metrics.ObserveScan(time.Since(started)) }()

	n.mu.Lock()
	if !n.enabled {
		n.mu.Unlock()
		return 0
	}
	now := n.clock.Now()
	today := domain.StartOfDay(now, n.loc)
	settings := n.settings

	day := today.Format(ledgerDayLayout)
	rolled := n.ledger.rollTo(day)

	var fresh []domain.Alert
	for _, record := range n.records {
		for _, candidate := range n.candidates(record, today, settings) {
			if !n.ledger.mark(candidate.Type, record.ID) {
				continue
			}
			fresh = append(fresh, n.appendLocked(candidate))
		}
	}
	unread := n.unreadLocked()
	n.mu.Unlock()

	if len(fresh) == 0 {
		if rolled {
			n.persistLedger(ctx)
		}
		return 0
	}
	n.persistLedger(ctx)
	n.persist(ctx)
	for _, alert := range fresh {
		n.deliver(ctx, alert, settings)
	}
	n.metrics.SetUnread(unread)
	n.logger.Info("notification scan", zap.Int("new_alerts", len(fresh)))
	return len(fresh)
}

func (n *NotificationService) candidates(record domain.Enquiry, today time.Time, settings domain.NotificationSettings) []domain.Alert {
	var out []domain.Alert
	manager := record.Manager
	if manager == "" {
		manager = "Unassigned"
	}

	if followup, ok := domain.ParseDay(record.FollowupDate, n.loc); ok {
		switch {
		case followup.Before(today) && settings.Overdue:
			days := domain.DaysBetween(followup, today, n.loc)
			out = append(out, domain.Alert{
				Type:        domain.AlertOverdue,
				Title:       "Overdue Follow-up",
				Message:     fmt.Sprintf("%s follow-up is %d day(s) overdue (Manager: %s)", record.ClientName, days, manager),
				EnquiryID:   record.ID,
				Urgent:      true,
				DaysOverdue: days,
			})
		case followup.Equal(today) && settings.Today:
			out = append(out, domain.Alert{
				Type:      domain.AlertDueToday,
				Title:     "Follow-up Due Today",
				Message:   fmt.Sprintf("%s needs follow-up today (Manager: %s)", record.ClientName, manager),
				EnquiryID: record.ID,
			})
		}
	}

	if wedding, ok := domain.ParseDay(record.WeddingDate, n.loc); ok && settings.UpcomingWedding {
		if domain.DaysBetween(today, wedding, n.loc) == upcomingWeddingDays {
			venue := record.Venue
			if venue == "" {
				venue = "venue TBD"
			}
			out = append(out, domain.Alert{
				Type:      domain.AlertUpcomingWedding,
				Title:     "Wedding in 7 Days",
				Message:   fmt.Sprintf("%s's wedding is in %d days at %s", record.ClientName, upcomingWeddingDays, venue),
				EnquiryID: record.ID,
			})
		}
	}
	return out
}

const ledgerDayLayout = "2006-01-02"

// scanLedger records which (type, enquiry) pairs the scan raised on Day.
// It is kept apart from the history so trimming or clearing alerts does not re-arm them.
type scanLedger struct {
	Day    string          `json:"day"`
	Raised map[string]bool `json:"raised"`
}

func ledgerKey(t domain.AlertType, enquiryID string) string {
	return string(t) + "|" + enquiryID
}

// rollTo starts a fresh ledger when day differs from the recorded one.
func (l *scanLedger) rollTo(day string) bool {
	if l.Day == day && l.Raised != nil {
		return false
	}
	l.Day = day
	l.Raised = make(map[string]bool)
	return true
}

// mark records the pair and reports whether it was new for the day.
func (l *scanLedger) mark(t domain.AlertType, enquiryID string) bool {
	key := ledgerKey(t, enquiryID)
	if l.Raised[key] {
		return false
	}
	l.Raised[key] = true
	return true
}

func (l scanLedger) clone() scanLedger {
	out := scanLedger{Day: l.Day, Raised: make(map[string]bool, len(l.Raised))}
	for k, v := range l.Raised {
		out.Raised[k] = v
	}
	return out
}

// ledgerFromHistory rebuilds today's ledger from stored alerts when none was saved.
func (n *NotificationService) ledgerFromHistory() scanLedger {
	now := n.clock.Now()
	var l scanLedger
	l.rollTo(domain.StartOfDay(now, n.loc).Format(ledgerDayLayout))
	for _, alert := range n.alerts {
		if isScanType(alert.Type) && domain.SameDay(alert.CreatedAt, now, n.loc) {
			l.mark(alert.Type, alert.EnquiryID)
		}
	}
	return l
}

func isScanType(t domain.AlertType) bool {
	switch t {
	case domain.AlertOverdue, domain.AlertDueToday, domain.AlertUpcomingWedding:
		return true
	}
	return false
}
