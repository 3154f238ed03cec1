// internal/poll/monitor.go
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qmbtools/qmb-monitor/internal/register"
	"github.com/qmbtools/qmb-monitor/internal/transport"
)

const (
	DefaultScanInterval = 2 * time.Second
	DefaultSamplePeriod = 300 * time.Millisecond

	// Writes always use the Modbus write-single-register function.
	writeFunction = 6

	defaultEventBuffer = 16
)

// ErrNotConnected is returned for writes attempted while the monitor
// has no live transport.
var ErrNotConnected = errors.New("poll: not connected")

// Config is the immutable runtime config of a Monitor.
type Config struct {
	Registers []register.Descriptor
	Probe     register.Descriptor
	Order     register.WordOrder

	// Override bypasses discovery and connects directly. Failure still
	// follows the normal disconnected/retry semantics.
	Override *Candidate

	ScanInterval time.Duration
	SamplePeriod time.Duration

	Ports   PortLister
	Factory ClientFactory

	EventBuffer int
}

// Monitor is the long-running driver: a two-state machine that scans
// for the device while disconnected and republishes decoded snapshots
// at a fixed cadence while connected. The worker goroutine is the sole
// owner of the serial transport; writes reach it over a command
// channel and are serviced between passes.
type Monitor struct {
	cfg      Config
	regIndex map[string]register.Descriptor
	events   chan Event
	commands chan writeRequest
}

type writeRequest struct {
	name  string
	text  string
	reply chan error
}

// New creates a monitor with immutable config.
func New(cfg Config) (*Monitor, error) {
	if len(cfg.Registers) == 0 {
		return nil, errors.New("poll: at least one register required")
	}
	if cfg.Factory == nil {
		return nil, errors.New("poll: client factory required")
	}
	if cfg.Ports == nil && cfg.Override == nil {
		return nil, errors.New("poll: port lister required unless an override triple is set")
	}
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = DefaultScanInterval
	}
	if cfg.SamplePeriod <= 0 {
		cfg.SamplePeriod = DefaultSamplePeriod
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}

	idx := make(map[string]register.Descriptor, len(cfg.Registers))
	for _, d := range cfg.Registers {
		idx[d.Name] = d
	}

	return &Monitor{
		cfg:      cfg,
		regIndex: idx,
		events:   make(chan Event, cfg.EventBuffer),
		commands: make(chan writeRequest),
	}, nil
}

// Events returns the status/data event stream. The channel is closed
// when Run returns.
func (m *Monitor) Events() <-chan Event {
	return m.events
}

// Registers returns the polled descriptors in acquisition order.
func (m *Monitor) Registers() []register.Descriptor {
	out := make([]register.Descriptor, len(m.cfg.Registers))
	copy(out, m.cfg.Registers)
	return out
}

// Write encodes raw user text for the named register and issues the
// single-register write on the worker. The result is synchronous.
func (m *Monitor) Write(ctx context.Context, name, text string) error {
	req := writeRequest{name: name, text: text, reply: make(chan error, 1)}
	select {
	case m.commands <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drives the state machine until ctx is cancelled. The stop signal
// is checked between passes, never mid-read.
func (m *Monitor) Run(ctx context.Context) {
	defer close(m.events)

	for {
		client, cand, ok := m.runDisconnected(ctx)
		if !ok {
			return
		}
		m.emit(Event{Kind: EventStatus, State: StateConnected, Status: fmt.Sprintf(
			"connected: %s %d %s", cand.Port, cand.Baud, cand.Parity)})

		if !m.runConnected(ctx, client) {
			return
		}
	}
}

// runDisconnected scans until a client is live or ctx is cancelled.
func (m *Monitor) runDisconnected(ctx context.Context) (transport.Client, Candidate, bool) {
	for {
		cand, err := m.locate()
		if err == nil {
			client, cerr := m.cfg.Factory(cand)
			if cerr == nil {
				return client, cand, true
			}
			err = cerr
		}

		select {
		case <-ctx.Done():
			return nil, Candidate{}, false
		case req := <-m.commands:
			req.reply <- ErrNotConnected
		case <-time.After(m.cfg.ScanInterval):
		}
	}
}

func (m *Monitor) locate() (Candidate, error) {
	if m.cfg.Override != nil {
		return *m.cfg.Override, nil
	}
	return Discover(m.cfg.Ports, m.cfg.Factory, m.cfg.Probe, m.cfg.Order)
}

// runConnected polls at the sample period until the transport dies or
// ctx is cancelled. Returns false when the monitor should stop.
func (m *Monitor) runConnected(ctx context.Context, client transport.Client) bool {
	defer client.Close()

	ticker := time.NewTicker(m.cfg.SamplePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false

		case req := <-m.commands:
			err := m.write(client, req.name, req.text)
			req.reply <- err
			if transport.IsFatal(err) {
				m.emit(Event{Kind: EventStatus, State: StateDisconnected, Status: "disconnected: " + err.Error()})
				return true
			}

		case <-ticker.C:
			snap, fatal := Acquire(client, m.cfg.Registers, m.cfg.Order)
			if fatal != nil {
				m.emit(Event{Kind: EventStatus, State: StateDisconnected, Status: "disconnected: " + fatal.Error()})
				return true
			}
			m.emit(Event{Kind: EventData, Snapshot: snap})
		}
	}
}

// write resolves the descriptor, encodes the text and issues the
// write. Encode failures never reach the transport.
func (m *Monitor) write(client transport.Client, name, text string) error {
	d, ok := m.regIndex[name]
	if !ok {
		return fmt.Errorf("poll: no register named %q", name)
	}
	raw, err := register.Encode(d, text)
	if err != nil {
		return err
	}
	return client.WriteRegister(d.Address, raw, writeFunction)
}

// emit queues ev without ever blocking the worker: when the consumer
// lags, the oldest queued event is dropped in favor of the new one.
func (m *Monitor) emit(ev Event) {
	for {
		select {
		case m.events <- ev:
			return
		default:
			select {
			case <-m.events:
			default:
			}
		}
	}
}
