// internal/poller/modbus/errors.go
package modbus

import "fmt"

// ExceptionError is a Modbus exception response from the device.
type ExceptionError struct {
	Address  uint16
	Quantity uint16
	Function byte
	Code     byte
}

func (e *ExceptionError) Error() string {
	return fmt.Sprintf("modbus exception: fc=%d code=%d addr=%d qty=%d", e.Function&0x7F, e.Code, e.Address, e.Quantity)
}

// ErrorCode exposes the exception code to status tracking.
func (e *ExceptionError) ErrorCode() uint16 { return uint16(e.Code) }

// PayloadError is a response that arrived but could not be used.
type PayloadError struct {
	Address  uint16
	Quantity uint16
	Reason   string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("modbus: bad payload addr=%d qty=%d: %s", e.Address, e.Quantity, e.Reason)
}

// ConnError means the TCP session is gone. The client must be discarded.
type ConnError struct {
	Op  string
	Err error
}

func (e *ConnError) Error() string {
	return fmt.Sprintf("modbus tcp %s: %v", e.Op, e.Err)
}

func (e *ConnError) Unwrap() error { return e.Err }

// ConnectionLost marks the error as session-fatal for the poller.
func (e *ConnError) ConnectionLost() bool { return true }
