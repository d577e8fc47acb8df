package services

import (
	"context"
	"errors"
	"restoran_server/structs"
	"testing"
	"time"
)

func newTestDispatcher(t *testing.T, queueSize int, mailer *fakeMailer, publisher *fakePublisher) *NotificationService {
	t.Helper()
	return NewNotificationService(testLogger(), &structs.NotifyConfig{
		Workers:     1,
		QueueSize:   queueSize,
		SendTimeout: time.Second,
	}, mailer, publisher)
}

func shutdown(t *testing.T, ns *NotificationService) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := ns.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestSubmitDropsWhenQueueIsFull(t *testing.T) {
	mailer := &fakeMailer{block: make(chan struct{})}
	publisher := &fakePublisher{}
	ns := newTestDispatcher(t, 2, mailer, publisher)

	accepted, dropped := 0, 0
	for range 10 {
		ok := ns.Submit(Notification{Kind: "test", Emails: []*Email{{To: []string{"a@x.com"}}}})
		if ok {
			accepted++
		} else {
			dropped++
		}
	}

	// two queued plus at most one held by the blocked worker
	if accepted < 2 || accepted > 3 {
		t.Fatalf("accepted %d notifications, want 2 or 3", accepted)
	}
	if dropped == 0 {
		t.Fatal("a full queue must drop instead of blocking")
	}

	close(mailer.block)
	shutdown(t, ns)

	if got := len(mailer.Sent()); got != accepted {
		t.Fatalf("delivered %d, want every accepted notification (%d)", got, accepted)
	}
}

func TestDeliverySurvivesMailerErrors(t *testing.T) {
	mailer := &fakeMailer{err: errMailerDown}
	publisher := &fakePublisher{}
	ns := newTestDispatcher(t, 8, mailer, publisher)

	ns.Submit(Notification{
		Kind:   "booking",
		Emails: []*Email{{To: []string{"a@x.com"}}, {To: []string{"b@x.com"}}},
		Event:  NewEvent(EventBookingCreated, map[string]any{"id": 1}),
	})
	ns.Submit(Notification{Kind: "contact", Event: NewEvent(EventContactCreated, nil)})
	shutdown(t, ns)

	keys := publisher.Keys()
	if len(keys) != 2 || keys[0] != EventBookingCreated || keys[1] != EventContactCreated {
		t.Fatalf("published %v, want both events despite mailer errors", keys)
	}
	if !publisher.closed {
		t.Fatal("publisher not closed on shutdown")
	}
}

func TestSubmitAfterShutdown(t *testing.T) {
	ns := newTestDispatcher(t, 4, &fakeMailer{}, &fakePublisher{})
	shutdown(t, ns)

	if ns.Submit(Notification{Kind: "late"}) {
		t.Fatal("Submit accepted work after shutdown")
	}
	if err := ns.Shutdown(context.Background()); !errors.Is(err, ErrDispatcherClosed) {
		t.Fatalf("second Shutdown: err = %v, want ErrDispatcherClosed", err)
	}

	stats := ns.Stats()
	if !stats.Closed || stats.Capacity != 4 || stats.Mailer != "fake" {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestShutdownHonoursDeadline(t *testing.T) {
	mailer := &fakeMailer{block: make(chan struct{})}
	ns := newTestDispatcher(t, 4, mailer, &fakePublisher{})
	defer close(mailer.block)

	ns.Submit(Notification{Kind: "slow", Emails: []*Email{{To: []string{"a@x.com"}}}})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := ns.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}
}
