package services

import (
	"context"
	"errors"
	"restoran_server/structs"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
)

// ErrDispatcherClosed is returned by Shutdown when called twice.
var ErrDispatcherClosed = errors.New("notification dispatcher closed")

// Notification is one queued unit of work: rendered emails plus an optional event.
type Notification struct {
	Kind   string
	Emails []*Email
	Event  *Event
}

// NotificationService drains a bounded queue with a fixed pool of workers.
// Submit never blocks; delivery failures are logged and counted, never retried.
type NotificationService struct {
	logger    *gecho.Logger
	mailer    Mailer
	publisher EventPublisher
	timeout   time.Duration

	mu     sync.RWMutex
	queue  chan Notification
	closed bool
	wg     sync.WaitGroup
}

func NewNotificationService(logger *gecho.Logger, cfg *structs.NotifyConfig, mailer Mailer, publisher EventPublisher) *NotificationService {
	workers := max(cfg.Workers, 1)
	size := max(cfg.QueueSize, 1)

	ns := &NotificationService{
		logger:    logger,
		mailer:    mailer,
		publisher: publisher,
		timeout:   cfg.SendTimeout,
		queue:     make(chan Notification, size),
	}

	ns.wg.Add(workers)
	for range workers {
		go ns.worker()
	}

	logger.Info("Notification dispatcher started",
		gecho.Field("workers", workers),
		gecho.Field("queue_size", size),
		gecho.Field("mailer", mailer.Name()),
	)
	return ns
}

// Submit enqueues n and reports whether it was accepted.
func (ns *NotificationService) Submit(n Notification) bool {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	if ns.closed {
		ns.logger.Warn("Notification dropped, dispatcher stopped", gecho.Field("kind", n.Kind))
		NotificationsTotal.WithLabelValues(n.Kind, "all", "dropped").Inc()
		return false
	}

	select {
	case ns.queue <- n:
		NotificationQueueDepth.Set(float64(len(ns.queue)))
		return true
	default:
		ns.logger.Warn("Notification dropped, queue full",
			gecho.Field("kind", n.Kind),
			gecho.Field("capacity", cap(ns.queue)),
		)
		NotificationsTotal.WithLabelValues(n.Kind, "all", "dropped").Inc()
		return false
	}
}

func (ns *NotificationService) worker() {
	defer ns.wg.Done()

	for n := range ns.queue {
		NotificationQueueDepth.Set(float64(len(ns.queue)))
		ns.deliver(n)
	}
}

func (ns *NotificationService) deliver(n Notification) {
	defer func() {
		if p := recover(); p != nil {
			ns.logger.Error("Notification worker recovered from panic",
				gecho.Field("kind", n.Kind),
				gecho.Field("panic", p),
			)
		}
	}()

	for _, email := range n.Emails {
		ctx, cancel := ns.sendContext()
		err := ns.mailer.Send(ctx, email)
		cancel()

		if err != nil {
			ns.logger.Error("Failed to deliver notification",
				gecho.Field("kind", n.Kind),
				gecho.Field("audience", email.Audience),
				gecho.Field("to", email.To),
				gecho.Field("error", err),
			)
			NotificationsTotal.WithLabelValues(n.Kind, email.Audience, "failed").Inc()
			continue
		}
		NotificationsTotal.WithLabelValues(n.Kind, email.Audience, "sent").Inc()
	}

	if n.Event != nil {
		ctx, cancel := ns.sendContext()
		err := ns.publisher.Publish(ctx, n.Event)
		cancel()

		if err != nil {
			ns.logger.Error("Failed to publish event",
				gecho.Field("type", n.Event.RoutingKey),
				gecho.Field("error", err),
			)
			EventsPublished.WithLabelValues(n.Event.RoutingKey, "failed").Inc()
			return
		}
		EventsPublished.WithLabelValues(n.Event.RoutingKey, "published").Inc()
	}
}

func (ns *NotificationService) sendContext() (context.Context, context.CancelFunc) {
	if ns.timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), ns.timeout)
}

// Shutdown stops accepting work and waits for queued jobs until ctx expires.
func (ns *NotificationService) Shutdown(ctx context.Context) error {
	ns.mu.Lock()
	if ns.closed {
		ns.mu.Unlock()
		return ErrDispatcherClosed
	}
	ns.closed = true
	close(ns.queue)
	ns.mu.Unlock()

	done := make(chan struct{})
	go func() {
		ns.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		ns.logger.Info("Notification dispatcher drained")
	case <-ctx.Done():
		ns.logger.Warn("Notification dispatcher shutdown timed out", gecho.Field("pending", len(ns.queue)))
		return ctx.Err()
	}

	return ns.publisher.Close()
}

// DispatcherStats is a point-in-time view of the queue.
type DispatcherStats struct {
	Queued   int    `json:"queued"`
	Capacity int    `json:"capacity"`
	Closed   bool   `json:"closed"`
	Mailer   string `json:"mailer"`
}

func (ns *NotificationService) Stats() DispatcherStats {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	return DispatcherStats{
		Queued:   len(ns.queue),
		Capacity: cap(ns.queue),
		Closed:   ns.closed,
		Mailer:   ns.mailer.Name(),
	}
}
