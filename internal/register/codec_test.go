// internal/register/codec_test.go
package register

import (
	"math"
	"testing"
)

func desc(name string, t Type, scale float64) Descriptor {
	words, _ := t.ImpliedWords()
	return Descriptor{Name: name, Type: t, Function: 3, Scale: scale, Words: words}
}

func wantNumber(t *testing.T, v Value, want float64) {
	t.Helper()
	if v.Kind != KindNumber {
		t.Fatalf("kind=%v want number (value=%v)", v.Kind, v)
	}
	if math.Abs(v.Number-want) > 1e-9 {
		t.Fatalf("number=%v want %v", v.Number, want)
	}
}

func wantText(t *testing.T, v Value, want string) {
	t.Helper()
	if v.Kind != KindText {
		t.Fatalf("kind=%v want text (value=%v)", v.Kind, v)
	}
	if v.Text != want {
		t.Fatalf("text=%q want %q", v.Text, want)
	}
}

// ---- decode ----

func TestDecode_Int16Extremes(t *testing.T) {
	d := desc("t", Int16, 1.0)
	wantNumber(t, Decode(d, []uint16{0x8000}, BigEndian), -32768)
	wantNumber(t, Decode(d, []uint16{0x7FFF}, BigEndian), 32767)
}

func TestDecode_Uint16Scale(t *testing.T) {
	d := desc("t", Uint16, 0.01)
	wantNumber(t, Decode(d, []uint16{5000}, BigEndian), 50.0)
}

func TestDecode_ZeroScaleMeansNoScaling(t *testing.T) {
	d := desc("t", Uint16, 0)
	wantNumber(t, Decode(d, []uint16{123}, BigEndian), 123)
}

func TestDecode_Bool16(t *testing.T) {
	d := desc("t", Bool16, 1.0)
	if v := Decode(d, []uint16{0}, BigEndian); v.Kind != KindBool || v.Bool {
		t.Fatalf("0 decoded to %v, want false", v)
	}
	if v := Decode(d, []uint16{0xFFFF}, BigEndian); v.Kind != KindBool || !v.Bool {
		t.Fatalf("0xFFFF decoded to %v, want true", v)
	}
}

func TestDecode_Int32WordOrder(t *testing.T) {
	d := desc("t", Int32, 1.0)
	wantNumber(t, Decode(d, []uint16{0x0001, 0x0000}, BigEndian), 65536)
	wantNumber(t, Decode(d, []uint16{0x0001, 0x0000}, LittleEndian), 1)
	wantNumber(t, Decode(d, []uint16{0xFFFF, 0xFFFF}, BigEndian), -1)
}

func TestDecode_Uint32HighBit(t *testing.T) {
	d := desc("t", Uint32, 1.0)
	wantNumber(t, Decode(d, []uint16{0x8000, 0x0000}, BigEndian), 2147483648)
}

func TestDecode_IP32(t *testing.T) {
	d := desc("t", IP32, 1.0)
	wantText(t, Decode(d, []uint16{0x0A00, 0x0001}, BigEndian), "10.0.0.1")
}

func TestDecode_MAC48(t *testing.T) {
	d := desc("t", MAC48, 1.0)
	wantText(t, Decode(d, []uint16{0x0011, 0x2233, 0x4455}, BigEndian), "00:11:22:33:44:55")
}

func TestDecode_ASCII(t *testing.T) {
	d := Descriptor{Name: "t", Type: ASCII, Function: 3, Words: 2}
	wantText(t, Decode(d, []uint16{0x4142, 0x4300}, BigEndian), "ABC")
}

func TestDecode_ASCIIIgnoresInvalidBytes(t *testing.T) {
	d := Descriptor{Name: "t", Type: ASCII, Function: 3, Words: 2}
	wantText(t, Decode(d, []uint16{0x41FF, 0x4200}, BigEndian), "AB")
}

func TestDecode_Enum16(t *testing.T) {
	d := desc("t", Enum16, 1.0)
	d.Symbols = []Symbol{{0, "internal"}, {1, "external"}}
	wantText(t, Decode(d, []uint16{1}, BigEndian), "external")
	// unknown code falls back to the raw number
	wantNumber(t, Decode(d, []uint16{7}, BigEndian), 7)
}

func TestDecode_Bitmask16(t *testing.T) {
	d := desc("t", Bitmask16, 1.0)
	d.Symbols = []Symbol{{1, "RUNNING"}, {2, "FAULT"}}

	v := Decode(d, []uint16{3}, BigEndian)
	if v.Kind != KindFlags {
		t.Fatalf("kind=%v want flags", v.Kind)
	}
	got := map[string]bool{}
	for _, f := range v.Flags {
		got[f] = true
	}
	if len(got) != 2 || !got["RUNNING"] || !got["FAULT"] {
		t.Fatalf("flags=%v want {RUNNING FAULT}", v.Flags)
	}

	if v := Decode(d, []uint16{0}, BigEndian); len(v.Flags) != 0 {
		t.Fatalf("flags=%v want empty", v.Flags)
	}
}

func TestDecode_UnsupportedType(t *testing.T) {
	d := Descriptor{Name: "t", Type: "float128", Words: 1}
	v := Decode(d, []uint16{1}, BigEndian)
	if !v.IsError() {
		t.Fatalf("expected error value, got %v", v)
	}
}

func TestDecode_ShortRead(t *testing.T) {
	d := desc("t", Int32, 1.0)
	if v := Decode(d, []uint16{1}, BigEndian); !v.IsError() {
		t.Fatalf("expected error value, got %v", v)
	}
}

func TestDecode_ZeroWordsUsesImpliedWidth(t *testing.T) {
	// a descriptor with Words left 0 must still demand the type's full
	// width instead of slicing past the buffer
	ip := Descriptor{Name: "t", Type: IP32, Function: 3}
	if v := Decode(ip, []uint16{0x0A00}, BigEndian); !v.IsError() {
		t.Fatalf("expected error value, got %v", v)
	}
	wantText(t, Decode(ip, []uint16{0x0A00, 0x0001}, BigEndian), "10.0.0.1")

	mac := Descriptor{Name: "t", Type: MAC48, Function: 3}
	if v := Decode(mac, []uint16{0x0011, 0x2233}, BigEndian); !v.IsError() {
		t.Fatalf("expected error value, got %v", v)
	}
	wantText(t, Decode(mac, []uint16{0x0011, 0x2233, 0x4455}, BigEndian), "00:11:22:33:44:55")
}

// ---- encode ----

func TestEncode_RoundTrip(t *testing.T) {
	cases := []struct {
		typ   Type
		scale float64
		text  string
		want  float64
	}{
		{Uint16, 1.0, "1234", 1234},
		{Uint16, 0.1, "123.4", 123.4},
		{Int16, 1.0, "-32768", -32768},
		{Int16, 0.01, "-1.5", -1.5},
		{Command16, 1.0, "1", 1},
	}
	for _, c := range cases {
		d := desc("t", c.typ, c.scale)
		raw, err := Encode(d, c.text)
		if err != nil {
			t.Fatalf("%s %q: encode err=%v", c.typ, c.text, err)
		}
		wantNumber(t, Decode(d, []uint16{raw}, BigEndian), c.want)
	}
}

func TestEncode_BoundsClampBeforeScale(t *testing.T) {
	lo, hi := 0.0, 100.0
	d := desc("t", Uint16, 0.1)
	d.Min, d.Max = &lo, &hi

	raw, err := Encode(d, "150")
	if err != nil {
		t.Fatalf("encode err=%v", err)
	}
	// clamped to 100 engineering units, then divided by scale 0.1
	if raw != 1000 {
		t.Fatalf("raw=%d want 1000", raw)
	}
}

func TestEncode_Bool16(t *testing.T) {
	d := desc("t", Bool16, 1.0)
	for _, text := range []string{"1", "true", "ON", "yes"} {
		if raw, err := Encode(d, text); err != nil || raw != 1 {
			t.Fatalf("%q: raw=%d err=%v, want 1", text, raw, err)
		}
	}
	for _, text := range []string{"0", "false", "OFF", "no"} {
		if raw, err := Encode(d, text); err != nil || raw != 0 {
			t.Fatalf("%q: raw=%d err=%v, want 0", text, raw, err)
		}
	}
	for _, text := range []string{"maybe", "2", ""} {
		if _, err := Encode(d, text); err == nil {
			t.Fatalf("%q: expected error for unrecognized boolean text", text)
		}
	}
}

func TestEncode_EnumLabelCaseInsensitive(t *testing.T) {
	d := desc("t", Enum16, 1.0)
	d.Symbols = []Symbol{{0, "internal"}, {1, "external"}}

	raw, err := Encode(d, "External")
	if err != nil || raw != 1 {
		t.Fatalf("raw=%d err=%v, want 1", raw, err)
	}
	if raw, err := Encode(d, "0"); err != nil || raw != 0 {
		t.Fatalf("numeric fallback: raw=%d err=%v", raw, err)
	}
	if _, err := Encode(d, "bogus"); err == nil {
		t.Fatalf("expected error for unknown label")
	}
}

func TestEncode_Failures(t *testing.T) {
	if _, err := Encode(desc("t", Uint16, 1.0), "abc"); err == nil {
		t.Fatalf("expected error for non-numeric text")
	}
	if _, err := Encode(desc("t", Uint16, 1.0), "NaN"); err == nil {
		t.Fatalf("expected error for NaN")
	}
	if _, err := Encode(desc("t", Uint16, 1.0), "70000"); err == nil {
		t.Fatalf("expected error for uint16 overflow")
	}
	if _, err := Encode(desc("t", Uint32, 1.0), "1"); err == nil {
		t.Fatalf("expected error for multi-word type")
	}
	if _, err := Encode(desc("t", ASCII, 1.0), "x"); err == nil {
		t.Fatalf("expected error for ascii write")
	}
}
