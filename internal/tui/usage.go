// internal/tui/usage.go
package tui

import (
	"github.com/qmbtools/qmb-monitor/internal/poll"
	"github.com/qmbtools/qmb-monitor/internal/register"
)

// CrystalUsage derives crystal wear for one channel from the current,
// minimum and maximum oscillator frequencies, as a 0-100 percentage.
// It reports false when any of the three registers is missing or not
// numeric, or when the frequency band is degenerate.
func CrystalUsage(snap poll.Snapshot, prefix string) (float64, bool) {
	cur, ok1 := number(snap, prefix+"_Frequency_0p01Hz")
	min, ok2 := number(snap, prefix+"_MinFreq_Hz")
	max, ok3 := number(snap, prefix+"_MaxFreq_Hz")
	if !ok1 || !ok2 || !ok3 || max <= min {
		return 0, false
	}

	usage := (max - cur) / (max - min)
	if usage < 0 {
		usage = 0
	}
	if usage > 1 {
		usage = 1
	}
	return usage * 100, true
}

func number(snap poll.Snapshot, name string) (float64, bool) {
	v, ok := snap.Value(name)
	if !ok || v.Kind != register.KindNumber {
		return 0, false
	}
	return v.Number, true
}
