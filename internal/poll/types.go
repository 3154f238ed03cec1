// internal/poll/types.go
package poll

import (
	"time"

	"github.com/qmbtools/qmb-monitor/internal/register"
	"github.com/qmbtools/qmb-monitor/internal/transport"
)

// Candidate is one (port, baud, parity) connection triple.
type Candidate struct {
	Port   string
	Baud   int
	Parity string
}

// PortLister enumerates candidate serial ports in OS-reported order.
type PortLister func() ([]string, error)

// ClientFactory opens a transport client for one candidate triple.
// ONE attempt per call; the caller owns the returned client.
type ClientFactory func(Candidate) (transport.Client, error)

// Reading is one named decoded value.
type Reading struct {
	Name  string
	Value register.Value
}

// Snapshot is the result of one acquisition pass: one reading per
// descriptor, in register-list order, errors included.
type Snapshot struct {
	At       time.Time
	Readings []Reading
}

// Value looks a reading up by register name.
func (s Snapshot) Value(name string) (register.Value, bool) {
	for _, r := range s.Readings {
		if r.Name == name {
			return r.Value, true
		}
	}
	return register.Value{}, false
}

// EventKind tags events emitted by the monitor.
type EventKind int

const (
	// EventStatus is emitted on every state transition.
	EventStatus EventKind = iota
	// EventData is emitted on every successful connected pass.
	EventData
)

// State is the monitor's connection state as carried on status events.
type State int

const (
	StateDisconnected State = iota
	StateConnected
)

// Event is one message from the poll worker to its consumer. Status
// events carry the new State plus a human-readable reason; consumers
// branch on State, never on the text.
type Event struct {
	Kind     EventKind
	State    State
	Status   string
	Snapshot Snapshot
}
