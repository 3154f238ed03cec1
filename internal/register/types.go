// internal/register/types.go
package register

import (
	"errors"
	"fmt"
	"strings"
)

// Type names the wire representation of one logical register value.
type Type string

const (
	Uint16    Type = "uint16"
	Int16     Type = "int16"
	Bool16    Type = "bool16"
	Enum16    Type = "enum16"
	Bitmask16 Type = "bitmask16"
	Command16 Type = "command16"
	Uint32    Type = "uint32"
	Int32     Type = "int32"
	IP32      Type = "ip32"
	MAC48     Type = "mac48"
	ASCII     Type = "ascii"
)

// Known reports whether t is one of the supported register types.
func (t Type) Known() bool {
	switch t {
	case Uint16, Int16, Bool16, Enum16, Bitmask16, Command16,
		Uint32, Int32, IP32, MAC48, ASCII:
		return true
	}
	return false
}

// Numeric reports whether t decodes to a scaled number.
func (t Type) Numeric() bool {
	switch t {
	case Uint16, Int16, Command16, Uint32, Int32:
		return true
	}
	return false
}

// ImpliedWords returns the word count fixed by the type.
// ASCII has no implied width; its word count comes from the descriptor.
func (t Type) ImpliedWords() (uint16, bool) {
	switch t {
	case Uint16, Int16, Bool16, Enum16, Bitmask16, Command16:
		return 1, true
	case Uint32, Int32, IP32:
		return 2, true
	case MAC48:
		return 3, true
	}
	return 0, false
}

// WordOrder selects which of two consecutive words holds the high half
// of a 32-bit value. Byte order inside a single word is always
// high-byte-first.
type WordOrder int

const (
	BigEndian WordOrder = iota
	LittleEndian
)

// ParseWordOrder parses the register-map "endianness" field.
func ParseWordOrder(s string) (WordOrder, error) {
	switch strings.ToLower(s) {
	case "big":
		return BigEndian, nil
	case "little":
		return LittleEndian, nil
	}
	return BigEndian, fmt.Errorf("register: unknown endianness %q", s)
}

// Symbol binds one raw value (enum16) or bit mask (bitmask16) to a label.
// Symbols are resolved once at config load; the codec never parses keys.
type Symbol struct {
	Raw   uint16
	Label string
}

// Descriptor is the immutable static description of one logical value.
type Descriptor struct {
	Name     string
	Type     Type
	Address  uint16
	Function uint8 // read function code; writes always use FC 6
	Scale    float64
	Words    uint16
	Symbols  []Symbol
	Min      *float64 // write bound, engineering units
	Max      *float64
}

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNumber Kind = iota
	KindBool
	KindText
	KindFlags
	KindError
)

// Value is the decoded form of one register. Exactly one variant is
// meaningful, selected by Kind. Decode failures are values too: the
// acquisition mapping always carries one entry per descriptor.
type Value struct {
	Kind   Kind
	Number float64
	Bool   bool
	Text   string
	Flags  []string
	Err    error
}

func NumberValue(n float64) Value { return Value{Kind: KindNumber, Number: n} }
func BoolValue(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func TextValue(s string) Value    { return Value{Kind: KindText, Text: s} }
func FlagsValue(f []string) Value { return Value{Kind: KindFlags, Flags: f} }
func ErrorValue(err error) Value  { return Value{Kind: KindError, Err: err} }

// IsError reports whether v carries a decode error instead of data.
func (v Value) IsError() bool { return v.Kind == KindError }

// String renders v for logs and display.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return trimFloat(v.Number)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindText:
		return v.Text
	case KindFlags:
		if len(v.Flags) == 0 {
			return "-"
		}
		return strings.Join(v.Flags, "|")
	case KindError:
		return "ERR:" + v.Err.Error()
	}
	return "?"
}

func trimFloat(n float64) string {
	s := fmt.Sprintf("%.3f", n)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// ErrUnsupportedType marks a descriptor whose type the codec does not know.
var ErrUnsupportedType = errors.New("register: unsupported type")
