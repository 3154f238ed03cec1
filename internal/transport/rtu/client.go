// internal/transport/rtu/client.go
package rtu

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goburrow/modbus"

	"github.com/qmbtools/qmb-monitor/internal/transport"
)

// Client implements transport.Client over Modbus RTU. Framing, CRC16
// and inter-frame timing belong to the goburrow handler; this adapter
// only converts payloads and classifies failures.
type Client struct {
	handler *modbus.RTUClientHandler
	client  modbus.Client
}

// Config fixes the connection parameters at construction.
type Config struct {
	Port     string
	Baud     int
	Parity   string // "N", "E" or "O"
	StopBits int
	SlaveID  uint8
	Timeout  time.Duration
}

// New opens the serial port and returns a connected client.
func New(cfg Config) (*Client, error) {
	if cfg.Port == "" {
		return nil, errors.New("rtu: port required")
	}
	if cfg.Baud <= 0 {
		cfg.Baud = 9600
	}
	if cfg.Parity == "" {
		cfg.Parity = "N"
	}
	if cfg.StopBits <= 0 {
		cfg.StopBits = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 200 * time.Millisecond
	}

	h := modbus.NewRTUClientHandler(cfg.Port)
	h.BaudRate = cfg.Baud
	h.DataBits = 8
	h.Parity = cfg.Parity
	h.StopBits = cfg.StopBits
	h.SlaveId = byte(cfg.SlaveID)
	h.Timeout = cfg.Timeout

	if err := h.Connect(); err != nil {
		return nil, &transport.Error{Op: "connect " + cfg.Port, Err: err}
	}

	return &Client{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

func (c *Client) ReadRegisters(addr, count uint16, fc uint8) ([]uint16, error) {
	var raw []byte
	var err error

	switch fc {
	case 3:
		raw, err = c.client.ReadHoldingRegisters(addr, count)
	case 4:
		raw, err = c.client.ReadInputRegisters(addr, count)
	default:
		return nil, fmt.Errorf("rtu: unsupported read function %d", fc)
	}
	if err != nil {
		return nil, classify("read", err)
	}
	if len(raw) < int(count)*2 {
		return nil, fmt.Errorf("rtu: short response: %d bytes for %d registers", len(raw), count)
	}

	words := make([]uint16, count)
	for i := range words {
		words[i] = uint16(raw[2*i])<<8 | uint16(raw[2*i+1])
	}
	return words, nil
}

func (c *Client) WriteRegister(addr, value uint16, fc uint8) error {
	if fc != 6 {
		return fmt.Errorf("rtu: unsupported write function %d", fc)
	}
	if _, err := c.client.WriteSingleRegister(addr, value); err != nil {
		return classify("write", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.handler.Close()
}

// classify keeps protocol-level failures (device exceptions, CRC
// mismatch, garbled frames) as plain per-register errors and wraps
// serial-level failures (port gone, timeout) as fatal. The goburrow
// stack reports protocol failures either as *modbus.ModbusError or
// with a "modbus:" prefix; everything else comes from the serial port.
func classify(op string, err error) error {
	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return err
	}
	if strings.HasPrefix(err.Error(), "modbus:") {
		return err
	}
	return &transport.Error{Op: op, Err: err}
}
