// internal/register/codec.go
package register

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decode turns the raw words read for d into a typed value.
// It never fails past the single-register boundary: every problem is
// returned as an error-kind Value under that register's name.
func Decode(d Descriptor, words []uint16, order WordOrder) Value {
	if !d.Type.Known() {
		return ErrorValue(fmt.Errorf("%w: %q", ErrUnsupportedType, d.Type))
	}
	need := d.Words
	if iw, ok := d.Type.ImpliedWords(); ok && iw > need {
		need = iw
	}
	if need == 0 {
		need = 1
	}
	if len(words) < int(need) {
		return ErrorValue(fmt.Errorf("register: short read: got %d words, need %d", len(words), need))
	}

	scale := d.Scale
	if scale == 0 {
		scale = 1
	}

	switch d.Type {
	case Uint16, Command16:
		return NumberValue(float64(words[0]) * scale)

	case Int16:
		return NumberValue(float64(int16(words[0])) * scale)

	case Bool16:
		return BoolValue(words[0] != 0)

	case Enum16:
		for _, s := range d.Symbols {
			if s.Raw == words[0] {
				return TextValue(s.Label)
			}
		}
		// unknown code falls back to the raw number, never an error
		return NumberValue(float64(words[0]))

	case Bitmask16:
		flags := make([]string, 0, len(d.Symbols))
		for _, s := range d.Symbols {
			if words[0]&s.Raw != 0 {
				flags = append(flags, s.Label)
			}
		}
		return FlagsValue(flags)

	case Uint32:
		return NumberValue(float64(join32(words, order)) * scale)

	case Int32:
		return NumberValue(float64(int32(join32(words, order))) * scale)

	case IP32:
		b := wordBytes(words[:2])
		return TextValue(fmt.Sprintf("%d.%d.%d.%d", b[0], b[1], b[2], b[3]))

	case MAC48:
		b := wordBytes(words[:3])
		parts := make([]string, 6)
		for i, x := range b {
			parts[i] = fmt.Sprintf("%02X", x)
		}
		return TextValue(strings.Join(parts, ":"))

	case ASCII:
		b := wordBytes(words[:need])
		buf := make([]byte, 0, len(b))
		for _, x := range b {
			if x <= 0x7F {
				buf = append(buf, x)
			}
		}
		s := strings.TrimRight(string(buf), "\x00")
		return TextValue(strings.TrimSpace(s))
	}

	return ErrorValue(fmt.Errorf("%w: %q", ErrUnsupportedType, d.Type))
}

// join32 assembles two consecutive words into a 32-bit integer.
func join32(words []uint16, order WordOrder) uint32 {
	if order == LittleEndian {
		return uint32(words[1])<<16 | uint32(words[0])
	}
	return uint32(words[0])<<16 | uint32(words[1])
}

// wordBytes splits words into bytes, high byte first within each word.
func wordBytes(words []uint16) []byte {
	out := make([]byte, 0, len(words)*2)
	for _, w := range words {
		out = append(out, byte(w>>8), byte(w))
	}
	return out
}

// Encode converts raw user text into the single register word to write.
// Bounds are applied in engineering units before the scale division.
// Only single-word writes are supported.
func Encode(d Descriptor, text string) (uint16, error) {
	text = strings.TrimSpace(text)

	switch d.Type {
	case Bool16:
		switch strings.ToLower(text) {
		case "1", "true", "on", "yes":
			return 1, nil
		case "0", "false", "off", "no":
			return 0, nil
		}
		return 0, fmt.Errorf("encode %s: not a boolean: %q", d.Name, text)

	case Enum16:
		for _, s := range d.Symbols {
			if strings.EqualFold(s.Label, text) {
				return s.Raw, nil
			}
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, fmt.Errorf("encode %s: no such label %q", d.Name, text)
		}
		return rawWord(d, f, false)

	case Uint16, Command16, Bitmask16:
		f, err := parseNumber(d.Name, text)
		if err != nil {
			return 0, err
		}
		return rawWord(d, f, false)

	case Int16:
		f, err := parseNumber(d.Name, text)
		if err != nil {
			return 0, err
		}
		return rawWord(d, f, true)
	}

	return 0, fmt.Errorf("encode %s: type %q is not writable as a single register", d.Name, d.Type)
}

func parseNumber(name, text string) (float64, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("encode %s: not a number: %q", name, text)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("encode %s: value must be finite", name)
	}
	return f, nil
}

// rawWord clamps f to the descriptor bounds, divides out the scale and
// rounds to the nearest register word.
func rawWord(d Descriptor, f float64, signed bool) (uint16, error) {
	if d.Min != nil && f < *d.Min {
		f = *d.Min
	}
	if d.Max != nil && f > *d.Max {
		f = *d.Max
	}
	if d.Scale != 0 {
		f /= d.Scale
	}
	r := math.Round(f)

	if signed {
		if r < math.MinInt16 || r > math.MaxInt16 {
			return 0, fmt.Errorf("encode %s: %g out of int16 range", d.Name, r)
		}
		return uint16(int16(r)), nil
	}
	if r < 0 || r > math.MaxUint16 {
		return 0, fmt.Errorf("encode %s: %g out of uint16 range", d.Name, r)
	}
	return uint16(r), nil
}
