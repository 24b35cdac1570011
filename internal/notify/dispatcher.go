package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/agenda-engine/internal/metrics"
)

// Ledger claims an (appointment, type) pair. Only the first claim returns true.
type Ledger interface {
	RegisterOnce(ctx context.Context, appointmentID uint, notificationType string) (bool, error)
}

type Dispatcher struct {
	ledger  Ledger
	sender  Sender
	metrics *metrics.Metrics
	log     zerolog.Logger
	timeout time.Duration

	wg sync.WaitGroup
}

func NewDispatcher(ledger Ledger, sender Sender, m *metrics.Metrics, log zerolog.Logger, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		ledger:  ledger,
		sender:  sender,
		metrics: m,
		log:     log,
		timeout: timeout,
	}
}

// Deliver sends msg at most once per (appointmentID, notificationType).
// sent is false for duplicates. A ledger failure aborts before anything is sent.
// A send failure keeps the claim, so the message is never retried.
func (d *Dispatcher) Deliver(ctx context.Context, appointmentID uint, notificationType string, msg Message) (sent bool, err error) {
	first, err := d.ledger.RegisterOnce(ctx, appointmentID, notificationType)
	if err != nil {
		d.metrics.ObserveDelivery(notificationType, "ledger_error")
		return false, err
	}
	if !first {
		d.metrics.ObserveDelivery(notificationType, "duplicate")
		return false, nil
	}

	if err := d.sender.Send(ctx, msg); err != nil {
		d.metrics.ObserveDelivery(notificationType, "failed")
		return false, err
	}

	d.metrics.ObserveDelivery(notificationType, "sent")
	return true, nil
}

// DeliverAsync runs Deliver detached from the caller's lifetime.
func (d *Dispatcher) DeliverAsync(appointmentID uint, notificationType string, msg Message) {
	d.wg.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if _, err := d.Deliver(ctx, appointmentID, notificationType, msg); err != nil {
			d.log.Warn().
				Err(err).
				Uint("appointment_id", appointmentID).
				Str("type", notificationType).
				Msg("notification delivery failed")
		}
	})
}

// Send bypasses the ledger. Used for replies that change nothing.
func (d *Dispatcher) Send(ctx context.Context, msg Message) error {
	if err := d.sender.Send(ctx, msg); err != nil {
		d.metrics.ObserveDelivery("reply", "failed")
		return err
	}
	d.metrics.ObserveDelivery("reply", "sent")
	return nil
}

// Close waits for detached deliveries.
func (d *Dispatcher) Close() {
	d.wg.Wait()
}
