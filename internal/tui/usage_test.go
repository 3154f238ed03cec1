// internal/tui/usage_test.go
package tui

import (
	"errors"
	"testing"

	"github.com/qmbtools/qmb-monitor/internal/poll"
	"github.com/qmbtools/qmb-monitor/internal/register"
)

func snapWith(cur, min, max float64) poll.Snapshot {
	return poll.Snapshot{Readings: []poll.Reading{
		{Name: "CH1_Frequency_0p01Hz", Value: register.NumberValue(cur)},
		{Name: "CH1_MinFreq_Hz", Value: register.NumberValue(min)},
		{Name: "CH1_MaxFreq_Hz", Value: register.NumberValue(max)},
	}}
}

func TestCrystalUsage(t *testing.T) {
	usage, ok := CrystalUsage(snapWith(5_500_000, 5_000_000, 6_000_000), "CH1")
	if !ok || usage != 50.0 {
		t.Fatalf("usage=%v ok=%v, want 50", usage, ok)
	}

	// worn below the minimum clamps at 100
	usage, ok = CrystalUsage(snapWith(4_900_000, 5_000_000, 6_000_000), "CH1")
	if !ok || usage != 100.0 {
		t.Fatalf("usage=%v ok=%v, want 100", usage, ok)
	}

	// degenerate band reports nothing
	if _, ok := CrystalUsage(snapWith(5_500_000, 6_000_000, 6_000_000), "CH1"); ok {
		t.Fatalf("expected no usage for degenerate band")
	}

	// missing registers report nothing
	snap := poll.Snapshot{Readings: []poll.Reading{
		{Name: "CH1_Frequency_0p01Hz", Value: register.NumberValue(1)},
	}}
	if _, ok := CrystalUsage(snap, "CH1"); ok {
		t.Fatalf("expected no usage with registers missing")
	}

	// error values are not numbers
	snap = snapWith(5_500_000, 5_000_000, 6_000_000)
	snap.Readings[0].Value = register.ErrorValue(errors.New("read failed"))
	if _, ok := CrystalUsage(snap, "CH1"); ok {
		t.Fatalf("expected no usage with an error reading")
	}
}
