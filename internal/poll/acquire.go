// internal/poll/acquire.go
package poll

import (
	"time"

	"github.com/qmbtools/qmb-monitor/internal/register"
	"github.com/qmbtools/qmb-monitor/internal/transport"
)

// Acquire decodes every descriptor into a named-value snapshot.
//
// Per-register failures (device exceptions, garbled frames, decode
// errors) are confined to that register's entry; the rest of the pass
// proceeds. The returned error is non-nil only when a connection-fatal
// transport failure occurred somewhere in the pass — the snapshot is
// still complete, and the caller decides whether to drop the client.
func Acquire(client transport.Client, regs []register.Descriptor, order register.WordOrder) (Snapshot, error) {
	snap := Snapshot{
		At:       time.Now(),
		Readings: make([]Reading, 0, len(regs)),
	}

	var fatal error
	for _, d := range regs {
		words, err := client.ReadRegisters(d.Address, d.Words, d.Function)

		var val register.Value
		if err != nil {
			val = register.ErrorValue(err)
			if fatal == nil && transport.IsFatal(err) {
				fatal = err
			}
		} else {
			val = register.Decode(d, words, order)
		}

		snap.Readings = append(snap.Readings, Reading{Name: d.Name, Value: val})
	}
	return snap, fatal
}
