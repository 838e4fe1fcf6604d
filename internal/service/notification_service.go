package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/decor-manager/internal/clock"
	"github.com/spec-kit/decor-manager/internal/config"
	"github.com/spec-kit/decor-manager/internal/domain"
	"github.com/spec-kit/decor-manager/internal/events"
	"github.com/spec-kit/decor-manager/internal/observability"
	"github.com/spec-kit/decor-manager/internal/persistence"
	apperrors "github.com/spec-kit/decor-manager/pkg/util"
)

const (
	keyAlerts               = "wedding_notifications"
	keyNotificationSettings = "wedding_notification_settings"
	keyScanLedger           = "wedding_notification_ledger"

	defaultHistoryLimit = 100
)

// NotificationService owns alert history, read state and notification settings.
type NotificationService struct {
	store      persistence.Store
	dispatcher events.Dispatcher
	chime      Chime
	pusher     Pusher
	host       HostUI
	clock      clock.Clock
	logger     *zap.Logger
	metrics    *observability.Metrics
	loc        *time.Location
	limit      int

	mu       sync.Mutex
	alerts   []domain.Alert
	settings domain.NotificationSettings
	enabled  bool
	records  []domain.Enquiry
	ledger   scanLedger
}

// NotificationDependencies encapsulates collaborators for the notification service.
type NotificationDependencies struct {
	Store      persistence.Store
	Dispatcher events.Dispatcher
	Chime      Chime
	Pusher     Pusher
	HostUI     HostUI
	Clock      clock.Clock
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewNotificationService creates the service and loads persisted history and settings.
func NewNotificationService(ctx context.Context, cfg config.NotificationConfig, deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.System{}
	}
	chime := deps.Chime
	if chime == nil {
		chime = LogChime{Logger: logger}
	}
	limit := cfg.HistoryLimit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	n := &NotificationService{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		chime:      chime,
		pusher:     deps.Pusher,
		host:       hostOrLog(deps.HostUI, logger),
		clock:      clk,
		logger:     logger,
		metrics:    deps.Metrics,
		loc:        cfg.Location(),
		limit:      limit,
		settings:   domain.DefaultNotificationSettings(),
	}
	n.load(ctx)
	return n
}

// RegisterHandlers subscribes to enquiry events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventEnquiryCreated, n.handleEnquiryCreated)
	n.dispatcher.Subscribe(events.EventEnquiryStatusChanged, n.handleEnquiryStatusChanged)
	n.dispatcher.Subscribe(events.EventEnquiriesReplaced, n.handleEnquiriesReplaced)
}

// Init enables alert emission over records.
func (n *NotificationService) Init(records []domain.Enquiry) {
	n.mu.Lock()
	n.enabled = true
	n.records = append([]domain.Enquiry(nil), records...)
	n.mu.Unlock()
	n.logger.Info("notifications enabled", zap.Int("records", len(records)))
}

// UpdateRecords replaces the records examined by the scan.
func (n *NotificationService) UpdateRecords(records []domain.Enquiry) {
	n.mu.Lock()
	n.records = append([]domain.Enquiry(nil), records...)
	n.mu.Unlock()
}

// Disable stops alert emission. History and settings are kept.
func (n *NotificationService) Disable() {
	n.mu.Lock()
	n.enabled = false
	n.mu.Unlock()
	n.logger.Info("notifications disabled")
}

// Enabled reports whether alerts are being emitted.
func (n *NotificationService) Enabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.enabled
}

// NotifyNewEnquiry emits a new-enquiry alert. It returns nil when gated off.
func (n *NotificationService) NotifyNewEnquiry(ctx context.Context, record domain.Enquiry) *domain.Alert {
	return n.emitEvent(ctx, domain.AlertNewEnquiry, "New Enquiry Added",
		fmt.Sprintf("New enquiry from %s assigned to %s", record.ClientName, record.Manager), record.ID)
}

// NotifyStatusChange emits a status-change alert. It returns nil when gated off.
func (n *NotificationService) NotifyStatusChange(ctx context.Context, record domain.Enquiry, oldStatus, newStatus string) *domain.Alert {
	return n.emitEvent(ctx, domain.AlertStatusChange, "Status Updated",
		fmt.Sprintf("%s status changed from %s to %s", record.ClientName, oldStatus, newStatus), record.ID)
}

func (n *NotificationService) emitEvent(ctx context.Context, t domain.AlertType, title, message, enquiryID string) *domain.Alert {
	n.mu.Lock()
	if !n.enabled || !n.settings.Enabled(t) {
		n.mu.Unlock()
		return nil
	}
	alert := n.appendLocked(domain.Alert{Type: t, Title: title, Message: message, EnquiryID: enquiryID})
	settings := n.settings
	unread := n.unreadLocked()
	n.mu.Unlock()

	n.persist(ctx)
	n.deliver(ctx, alert, settings)
	n.metrics.SetUnread(unread)
	return &alert
}

// MarkRead marks one alert as read.
func (n *NotificationService) MarkRead(ctx context.Context, id string) error {
	_, err := n.markRead(ctx, id)
	return err
}

// OpenAlert marks an alert read and brings the enquiries tab forward.
func (n *NotificationService) OpenAlert(ctx context.Context, id string) (*domain.Alert, error) {
	alert, err := n.markRead(ctx, id)
	if err != nil {
		return nil, err
	}
	n.host.ShowTab("enquiries")
	return alert, nil
}

func (n *NotificationService) markRead(ctx context.Context, id string) (*domain.Alert, error) {
	n.mu.Lock()
	idx := -1
	for i := range n.alerts {
		if n.alerts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		n.mu.Unlock()
		return nil, apperrors.NewNotFound("notification", map[string]any{"id": id})
	}
	changed := !n.alerts[idx].Read
	n.alerts[idx].Read = true
	alert := n.alerts[idx]
	unread := n.unreadLocked()
	n.mu.Unlock()

	if changed {
		n.persist(ctx)
		n.metrics.SetUnread(unread)
	}
	return &alert, nil
}

// MarkAllRead marks every alert as read.
func (n *NotificationService) MarkAllRead(ctx context.Context) {
	n.mu.Lock()
	for i := range n.alerts {
		n.alerts[i].Read = true
	}
	n.mu.Unlock()

	n.persist(ctx)
	n.metrics.SetUnread(0)
	n.host.Toast("All notifications marked as read", "success")
}

// ClearAll irreversibly empties the history once confirmed.
func (n *NotificationService) ClearAll(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return apperrors.NewValidationReason(apperrors.ReasonConfirmationRequired,
			"clearing notifications cannot be undone and must be confirmed")
	}
	n.mu.Lock()
	n.alerts = nil
	n.mu.Unlock()

	n.persist(ctx)
	n.metrics.SetUnread(0)
	n.host.Toast("All notifications cleared", "success")
	return nil
}

// List returns the history, most recent first.
func (n *NotificationService) List() []domain.Alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Alert{}, n.alerts...)
}

// Stats summarises the history.
func (n *NotificationService) Stats() domain.NotificationStats {
	n.mu.Lock()
	defer n.mu.Unlock()
	stats := domain.NotificationStats{
		Total:     len(n.alerts),
		Unread:    n.unreadLocked(),
		ByType:    make(map[domain.AlertType]int),
		IsEnabled: n.enabled,
		Settings:  n.settings,
	}
	for _, alert := range n.alerts {
		stats.ByType[alert.Type]++
	}
	return stats
}

// Settings returns the current settings.
func (n *NotificationService) Settings() domain.NotificationSettings {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.settings
}

// UpdateSettings applies patch and persists the result.
func (n *NotificationService) UpdateSettings(ctx context.Context, patch domain.NotificationSettingsPatch) domain.NotificationSettings {
	n.mu.Lock()
	n.settings = patch.Apply(n.settings)
	settings := n.settings
	n.mu.Unlock()

	if err := persistence.SaveJSON(ctx, n.store, keyNotificationSettings, settings); err != nil {
		n.logger.Warn("save notification settings", zap.Error(err))
	}
	return settings
}

// appendLocked prepends a new alert and trims the history. Callers hold mu.
func (n *NotificationService) appendLocked(alert domain.Alert) domain.Alert {
	alert.ID = uuid.NewString()
	alert.CreatedAt = n.clock.Now().UTC()
	n.alerts = append([]domain.Alert{alert}, n.alerts...)
	if len(n.alerts) > n.limit {
		n.alerts = n.alerts[:n.limit]
	}
	return alert
}

func (n *NotificationService) unreadLocked() int {
	count := 0
	for _, alert := range n.alerts {
		if !alert.Read {
			count++
		}
	}
	return count
}

// deliver runs the side channels of a freshly emitted alert.
func (n *NotificationService) deliver(ctx context.Context, alert domain.Alert, settings domain.NotificationSettings) {
	n.metrics.RecordAlert(string(alert.Type))
	if settings.BrowserNotifications && settings.Enabled(alert.Type) && n.pusher != nil {
		if err := n.pusher.Push(ctx, alert); err != nil {
			n.logger.Warn("push alert", zap.String("alert_id", alert.ID), zap.Error(err))
		}
	}
	if settings.Sound && alert.Urgent {
		n.chime.Chime(ctx, alert)
	}
}

func (n *NotificationService) persist(ctx context.Context) {
	n.mu.Lock()
	snapshot := append([]domain.Alert{}, n.alerts...)
	n.mu.Unlock()
	if err := persistence.SaveJSON(ctx, n.store, keyAlerts, snapshot); err != nil {
		n.logger.Warn("save notifications", zap.Error(err))
	}
}

func (n *NotificationService) persistLedger(ctx context.Context) {
	n.mu.Lock()
	snapshot := n.ledger.clone()
	n.mu.Unlock()
	if err := persistence.SaveJSON(ctx, n.store, keyScanLedger, snapshot); err != nil {
		n.logger.Warn("save scan ledger", zap.Error(err))
	}
}

func (n *NotificationService) load(ctx context.Context) {
	var alerts []domain.Alert
	ok, err := persistence.LoadJSON(ctx, n.store, keyAlerts, &alerts)
	if err != nil {
		n.logger.Warn("load notifications", zap.Error(err))
	}
	if ok {
		if len(alerts) > n.limit {
			alerts = alerts[:n.limit]
		}
		n.alerts = alerts
	}

	ok, err = persistence.LoadJSON(ctx, n.store, keyScanLedger, &n.ledger)
	if err != nil {
		n.logger.Warn("load scan ledger", zap.Error(err))
	}
	if !ok {
		n.ledger = n.ledgerFromHistory()
	}

	settings := domain.DefaultNotificationSettings()
	ok, err = persistence.LoadJSON(ctx, n.store, keyNotificationSettings, &settings)
	if err != nil {
		n.logger.Warn("load notification settings", zap.Error(err))
	}
	if !ok {
		settings = domain.DefaultNotificationSettings()
	}
	n.settings = settings
	n.metrics.SetUnread(n.unreadLocked())
}

func (n *NotificationService) handleEnquiryCreated(ctx context.Context, event events.Event) error {
	var record domain.Enquiry
	switch p := event.Payload.(type) {
	case events.EnquiryCreatedPayload:
		record = p.Enquiry
	case *events.EnquiryCreatedPayload:
		record = p.Enquiry
	default:
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.NotifyNewEnquiry(ctx, record)
	return nil
}

func (n *NotificationService) handleEnquiryStatusChanged(ctx context.Context, event events.Event) error {
	var p events.EnquiryStatusChangedPayload
	switch v := event.Payload.(type) {
	case events.EnquiryStatusChangedPayload:
		p = v
	case *events.EnquiryStatusChangedPayload:
		p = *v
	default:
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.NotifyStatusChange(ctx, p.Enquiry, p.OldStatus, p.NewStatus)
	return nil
}

func (n *NotificationService) handleEnquiriesReplaced(_ context.Context, event events.Event) error {
	switch p := event.Payload.(type) {
	case events.EnquiriesReplacedPayload:
		n.UpdateRecords(p.Enquiries)
	case *events.EnquiriesReplacedPayload:
		n.UpdateRecords(p.Enquiries)
	default:
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	return nil
}
