// internal/poll/builder.go
package poll

import (
	"time"

	bserial "go.bug.st/serial"

	cfg "github.com/qmbtools/qmb-monitor/internal/config"
	"github.com/qmbtools/qmb-monitor/internal/transport"
	"github.com/qmbtools/qmb-monitor/internal/transport/rtu"
)

// Options are the caller-tunable knobs the register map does not carry.
type Options struct {
	// Override connects directly instead of scanning.
	Override *Candidate

	ScanInterval time.Duration
	SamplePeriod time.Duration
	ReadTimeout  time.Duration
}

// Build wires a Monitor over the real serial stack: go.bug.st port
// enumeration for discovery and a goburrow RTU client per connection.
func Build(doc *cfg.Document, opts Options) (*Monitor, error) {
	regs, probe, err := cfg.Descriptors(doc)
	if err != nil {
		return nil, err
	}

	timeout := opts.ReadTimeout
	if timeout <= 0 {
		timeout = 200 * time.Millisecond
	}

	slaveID := uint8(doc.SlaveID)
	factory := func(c Candidate) (transport.Client, error) {
		return rtu.New(rtu.Config{
			Port:    c.Port,
			Baud:    c.Baud,
			Parity:  c.Parity,
			SlaveID: slaveID,
			Timeout: timeout,
		})
	}

	return New(Config{
		Registers:    regs,
		Probe:        probe,
		Order:        doc.Order(),
		Override:     opts.Override,
		ScanInterval: opts.ScanInterval,
		SamplePeriod: opts.SamplePeriod,
		Ports:        bserial.GetPortsList,
		Factory:      factory,
	})
}
