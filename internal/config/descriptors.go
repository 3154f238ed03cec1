// internal/config/descriptors.go
package config

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/qmbtools/qmb-monitor/internal/register"
)

// Descriptors converts a validated document into immutable register
// descriptors plus the resolved probe descriptor. It applies the map
// defaults: function 3, scale 1.0, type-implied word counts.
// It MUST be called only after Validate().
func Descriptors(doc *Document) ([]register.Descriptor, register.Descriptor, error) {
	regs := make([]register.Descriptor, 0, len(doc.Registers))
	for i := range doc.Registers {
		d, err := toDescriptor(&doc.Registers[i])
		if err != nil {
			return nil, register.Descriptor{}, err
		}
		regs = append(regs, d)
	}

	probe := regs[0]
	if doc.Probe != nil {
		d, err := toDescriptor(doc.Probe)
		if err != nil {
			return nil, register.Descriptor{}, fmt.Errorf("probe: %w", err)
		}
		probe = d
	}
	return regs, probe, nil
}

// Order returns the configured 32-bit word order.
func (doc *Document) Order() register.WordOrder {
	order, _ := register.ParseWordOrder(doc.Endianness)
	return order
}

func toDescriptor(r *RegisterEntry) (register.Descriptor, error) {
	typ := register.Type(r.Type)

	d := register.Descriptor{
		Name:     r.Name,
		Type:     typ,
		Address:  r.Address,
		Function: 3,
		Scale:    1.0,
		Words:    r.Words,
		Min:      r.Min,
		Max:      r.Max,
	}
	if r.Function != nil {
		d.Function = *r.Function
	}
	if r.Scale != nil {
		d.Scale = *r.Scale
	}
	if implied, ok := typ.ImpliedWords(); ok {
		d.Words = implied
	}

	if r.Map.Kind != 0 {
		symbols, err := symbolsFromNode(&r.Map)
		if err != nil {
			return register.Descriptor{}, fmt.Errorf("config: register %q: %w", r.Name, err)
		}
		d.Symbols = symbols
	}
	return d, nil
}

// symbolsFromNode resolves the raw YAML symbol map into an ordered
// symbol list, preserving the file's key order. Keys are decimal
// integers: enum codes for enum16, bit masks for bitmask16.
func symbolsFromNode(n *yaml.Node) ([]register.Symbol, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("map must be a mapping of integer keys to labels")
	}

	symbols := make([]register.Symbol, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		raw, err := strconv.ParseUint(key, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("map key %q is not a 16-bit integer", key)
		}
		symbols = append(symbols, register.Symbol{
			Raw:   uint16(raw),
			Label: n.Content[i+1].Value,
		})
	}
	return symbols, nil
}
