// Package transport simulates delivery of an artifact to an external
// destination. Every call waits for the requested delay and then succeeds;
// there is no failure path and no cancellation.
package transport

import (
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Delays observed for each kind of simulated operation.
const (
	LocalDownloadDelay = 600 * time.Millisecond
	ConnectDelay       = 2000 * time.Millisecond
	SyncDelay          = 2500 * time.Millisecond
	EmailDelay         = 1500 * time.Millisecond
	DefaultDelay       = 1500 * time.Millisecond
)

// Result is the outcome of a simulated delivery.
type Result struct {
	Success     bool          `json:"success"`
	Destination string        `json:"destination"`
	Bytes       int           `json:"bytes"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Simulator stands in for network latency.
type Simulator struct {
	sleep func(time.Duration)
	scale float64
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithSleep replaces time.Sleep, mainly for tests.
func WithSleep(sleep func(time.Duration)) Option {
	return func(s *Simulator) { s.sleep = sleep }
}

// WithScale multiplies every requested delay. A scale of 0 makes all
// transports complete immediately.
func WithScale(scale float64) Option {
	return func(s *Simulator) {
		if scale >= 0 {
			s.scale = scale
		}
	}
}

func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{sleep: time.Sleep, scale: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate blocks for delay and reports success.
func (s *Simulator) Simulate(destinationID, payload string, delay time.Duration) Result {
	d := time.Duration(float64(delay) * s.scale)
	if d > 0 {
		s.sleep(d)
	}
	slog.Debug("Simulated transport completed",
		"component", "transport",
		"destination", destinationID,
		"bytes", len(payload),
		"delay_ms", d.Milliseconds())
	return Result{Success: true, Destination: destinationID, Bytes: len(payload), Elapsed: d}
}

// FanOut runs one overlapping transport per destination and returns the
// results in input order.
func (s *Simulator) FanOut(destinations []string, payload string, delay time.Duration) []Result {
	results := make([]Result, len(destinations))
	var g errgroup.Group
	for i, dest := range destinations {
		g.Go(func() error {
			results[i] = s.Simulate(dest, payload, delay)
			return nil
		})
	}
	// Simulated transports never fail.
	_ = g.Wait()
	return results
}
