package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"exporthub/internal/amqp"
	"exporthub/internal/storage/memory"
	"exporthub/internal/transport"
)

var testNow = time.Date(2026, 2, 3, 10, 30, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: testNow} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func seqIDs(prefix string) IDSource {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func instantSimulator() *transport.Simulator {
	return transport.NewSimulator(transport.WithScale(0))
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []*amqp.ExportRecordedMessage
	err  error
}

func (p *recordingPublisher) PublishExportRecorded(_ context.Context, msg *amqp.ExportRecordedMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.msgs)
}

// brokenStore fails every write.
type brokenStore struct{ *memory.Store }

func (brokenStore) Put(context.Context, string, []byte) error { return fmt.Errorf("disk full") }
