package notify

import (
	"context"
	"sync"
	"time"

	"github.com/wolfman30/restaurant-webhook/internal/observability/metrics"
	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

// DefaultSendTimeout bounds one background delivery.
const DefaultSendTimeout = 10 * time.Second

// Dispatcher delivers emails in the background. Failures are logged and
// counted but never retried or reported to the caller.
type Dispatcher struct {
	sender  EmailSender
	timeout time.Duration
	logger  *logging.Logger
	metrics *metrics.WebhookMetrics
	wg      sync.WaitGroup
}

// NewDispatcher constructs a dispatcher. A nil sender turns SendAsync into a no-op.
func NewDispatcher(sender EmailSender, timeout time.Duration, logger *logging.Logger, m *metrics.WebhookMetrics) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &Dispatcher{sender: sender, timeout: timeout, logger: logger, metrics: m}
}

// SendAsync queues msg for delivery and returns immediately.
func (d *Dispatcher) SendAsync(msg EmailMessage) {
	if d == nil || d.sender == nil {
		return
	}
	if msg.To == "" {
		d.metrics.ObserveEmail("skipped")
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.metrics.ObserveEmail("failed")
				d.logger.Error("email sender panicked", "panic", r, "subject", msg.Subject)
			}
		}()

		// Detached from the request: the reply has already been written.
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.sender.Send(ctx, msg); err != nil {
			d.metrics.ObserveEmail("failed")
			d.logger.Warn("background email failed", "error", err, "subject", msg.Subject)
			return
		}
		d.metrics.ObserveEmail("sent")
	}()
}

// Wait blocks until every queued email has been attempted.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
