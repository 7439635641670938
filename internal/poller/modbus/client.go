// internal/poller/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"time"

	"github.com/goburrow/modbus"
)

// Client implements poller.Client using Modbus TCP.
// One Client owns one TCP session and is not safe for concurrent reads.
type Client struct {
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

// Config is minimal transport config.
type Config struct {
	Endpoint    string
	UnitID      uint8
	Timeout     time.Duration
	IdleTimeout time.Duration
}

// New creates a connected Modbus TCP client.
// Exactly one dial attempt is made.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus client: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.SlaveId = cfg.UnitID
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	if cfg.IdleTimeout > 0 {
		h.IdleTimeout = cfg.IdleTimeout
	}

	if err := h.Connect(); err != nil {
		return nil, &ConnError{Op: "connect", Err: err}
	}

	return &Client{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

// Close closes the TCP connection.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

// ReadHoldingRegisters issues FC 3 and returns qty big-endian words.
func (c *Client) ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) {
	if c == nil || c.client == nil {
		return nil, &ConnError{Op: "read", Err: errors.New("modbus client: not connected")}
	}

	raw, err := c.client.ReadHoldingRegisters(addr, qty)
	if err != nil {
		return nil, classify(addr, qty, err)
	}

	if len(raw) != 2*int(qty) {
		return nil, &PayloadError{
			Address:  addr,
			Quantity: qty,
			Reason:   fmt.Sprintf("got %d bytes, want %d", len(raw), 2*int(qty)),
		}
	}

	return unpackRegisters(raw), nil
}

// ---- helpers (pure geometry) ----

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}

// classify sorts a read failure into device-level or session-level.
func classify(addr, qty uint16, err error) error {
	var mbErr *modbus.ModbusError
	if errors.As(err, &mbErr) {
		return &ExceptionError{
			Address:  addr,
			Quantity: qty,
			Function: mbErr.FunctionCode,
			Code:     mbErr.ExceptionCode,
		}
	}
	if isConnectionFailure(err) {
		return &ConnError{Op: "read", Err: err}
	}
	// goburrow reports framing and size mismatches as plain errors.
	return &PayloadError{Address: addr, Quantity: qty, Reason: err.Error()}
}

func isConnectionFailure(err error) bool {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr):
		return true
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, syscall.ECONNREFUSED):
		return true
	}
	return false
}
