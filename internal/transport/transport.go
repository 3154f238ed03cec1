// internal/transport/transport.go
package transport

import (
	"errors"
	"fmt"
)

// Client owns one serial connection to one slave. At most one request
// is in flight at a time; the bus is half-duplex.
type Client interface {
	// ReadRegisters reads count words starting at addr using the given
	// read function code (3 = holding, 4 = input).
	ReadRegisters(addr, count uint16, fc uint8) ([]uint16, error)

	// WriteRegister writes one word using the given write function code
	// (6 = write single register).
	WriteRegister(addr, value uint16, fc uint8) error

	Close() error
}

// Error marks a connection-fatal transport failure: the line is gone,
// the port would not open, or a call timed out. Device exception frames
// are NOT wrapped in Error; they stay confined to a single register.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsFatal reports whether err signals that the transport itself is gone
// and the owning connection must be dropped.
func IsFatal(err error) bool {
	var te *Error
	return errors.As(err, &te)
}
