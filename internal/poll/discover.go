// internal/poll/discover.go
package poll

import (
	"errors"

	"github.com/qmbtools/qmb-monitor/internal/register"
)

// Common industrial bauds, tried in descending preference order.
var DefaultBauds = []int{115200, 57600, 38400, 19200, 9600}

// DefaultParities is just "no parity"; extend to {"N","E","O"} for
// devices that ship with parity enabled.
var DefaultParities = []string{"N"}

// ErrNoDevice is returned when every candidate triple was exhausted
// without the probe register decoding cleanly.
var ErrNoDevice = errors.New("poll: no device found")

// Discover scans ports x parities x bauds and returns the first triple
// for which the probe register decodes without an error value. Each
// candidate gets a throwaway client, closed win or lose; a bad
// candidate never terminates the scan. First success wins — there is
// no exhaustive best-of search.
//
// A successful probe is a heuristic match, not a device identity check.
func Discover(lister PortLister, factory ClientFactory, probe register.Descriptor, order register.WordOrder) (Candidate, error) {
	ports, err := lister()
	if err != nil {
		return Candidate{}, err
	}

	for _, port := range ports {
		for _, parity := range DefaultParities {
			for _, baud := range DefaultBauds {
				cand := Candidate{Port: port, Baud: baud, Parity: parity}
				if probeOnce(factory, cand, probe, order) {
					return cand, nil
				}
			}
		}
	}
	return Candidate{}, ErrNoDevice
}

func probeOnce(factory ClientFactory, cand Candidate, probe register.Descriptor, order register.WordOrder) bool {
	client, err := factory(cand)
	if err != nil {
		return false
	}
	defer client.Close()

	snap, fatal := Acquire(client, []register.Descriptor{probe}, order)
	if fatal != nil {
		return false
	}
	val, ok := snap.Value(probe.Name)
	return ok && !val.IsError()
}
