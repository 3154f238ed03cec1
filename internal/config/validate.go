// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/qmbtools/qmb-monitor/internal/register"
)

// Validate checks the register map for errors that must fail at load
// time instead of surfacing mid-poll. It performs declarative
// validation only. It MUST NOT mutate the document.
func Validate(doc *Document) error {
	if doc.SlaveID < 1 || doc.SlaveID > 247 {
		return fmt.Errorf("config: slave_id %d out of RTU range 1-247", doc.SlaveID)
	}
	if _, err := register.ParseWordOrder(doc.Endianness); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if len(doc.Registers) == 0 {
		return fmt.Errorf("config: at least one register required")
	}

	seen := make(map[string]bool, len(doc.Registers))
	for i := range doc.Registers {
		r := &doc.Registers[i]
		if err := validateEntry(r); err != nil {
			return err
		}
		if seen[r.Name] {
			return fmt.Errorf("config: duplicate register name %q", r.Name)
		}
		seen[r.Name] = true
	}

	if doc.Probe != nil {
		if err := validateEntry(doc.Probe); err != nil {
			return fmt.Errorf("probe: %w", err)
		}
	}
	return nil
}

func validateEntry(r *RegisterEntry) error {
	if r.Name == "" {
		return fmt.Errorf("config: register without a name")
	}

	typ := register.Type(r.Type)
	if !typ.Known() {
		return fmt.Errorf("config: register %q: unknown type %q", r.Name, r.Type)
	}

	if typ.Numeric() && r.Scale != nil && *r.Scale == 0 {
		return fmt.Errorf("config: register %q: scale must be non-zero", r.Name)
	}

	if typ == register.ASCII && r.Words == 0 {
		return fmt.Errorf("config: register %q: ascii requires words", r.Name)
	}

	switch typ {
	case register.Enum16, register.Bitmask16:
		if r.Map.Kind == 0 {
			return fmt.Errorf("config: register %q: %s requires a map", r.Name, r.Type)
		}
		if _, err := symbolsFromNode(&r.Map); err != nil {
			return fmt.Errorf("config: register %q: %w", r.Name, err)
		}
	default:
		if r.Map.Kind != 0 {
			return fmt.Errorf("config: register %q: map is only valid for enum16/bitmask16", r.Name)
		}
	}

	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return fmt.Errorf("config: register %q: min %g greater than max %g", r.Name, *r.Min, *r.Max)
	}
	return nil
}
