package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/spec-kit/decor-manager/internal/domain"
)

// ErrWebhookUnavailable is returned while the breaker is open.
var ErrWebhookUnavailable = errors.New("alert webhook temporarily unavailable")

const defaultTimeout = 5 * time.Second

// WebhookPusher posts alerts as JSON to a configured URL.
type WebhookPusher struct {
	url     string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// payload is the body sent for each alert.
type payload struct {
	Event string       `json:"event"`
	Alert domain.Alert `json:"alert"`
}

// NewWebhookPusher returns nil when url is blank so callers can skip delivery.
func NewWebhookPusher(url string, logger *zap.Logger) *WebhookPusher {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookPusher{
		url:     url,
		timeout: defaultTimeout,
		logger:  logger,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "alert-webhook",
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Warn("circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		}),
	}
}

// Push delivers alert. The request is not started once ctx is done.
func (w *WebhookPusher) Push(ctx context.Context, alert domain.Alert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := w.breaker.Execute(func() (interface{}, error) {
		return nil, w.post(alert)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrWebhookUnavailable
	}
	return err
}

func (w *WebhookPusher) post(alert domain.Alert) error {
	agent := fiber.Post(w.url).
		Timeout(w.timeout).
		JSON(payload{Event: "alert." + string(alert.Type), Alert: alert})

	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if code < 200 || code >= 300 {
		return fmt.Errorf("webhook responded with status %d", code)
	}
	w.logger.Debug("alert pushed", zap.String("alert_id", alert.ID), zap.Int("status", code))
	return nil
}

// State reports the breaker state.
func (w *WebhookPusher) State() gobreaker.State {
	return w.breaker.State()
}
