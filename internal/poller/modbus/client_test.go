// internal/poller/modbus/client_test.go
package modbus

import (
	"encoding/binary"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbrandon/mbserver"
)

const forbiddenAddr = 4000

// startServer runs an in-process Modbus TCP server on a free local port.
// Reads starting at forbiddenAddr answer with an illegal-data-address exception.
func startServer(t *testing.T) (*mbserver.Server, string) {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	s := mbserver.NewServer()
	s.RegisterFunctionHandler(3, func(s *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
		data := frame.GetData()
		if len(data) >= 2 && binary.BigEndian.Uint16(data[0:2]) == forbiddenAddr {
			return []byte{}, &mbserver.IllegalDataAddress
		}
		return mbserver.ReadHoldingRegisters(s, frame)
	})
	require.NoError(t, s.ListenTCP(addr))
	t.Cleanup(s.Close)

	return s, addr
}

func TestReadHoldingRegisters(t *testing.T) {
	s, addr := startServer(t)
	s.HoldingRegisters[1020] = 0x0001
	s.HoldingRegisters[1021] = 0xBEEF
	s.HoldingRegisters[2] = 0xFF85 // -12.3 at scale 0.1

	c, err := New(Config{Endpoint: addr, UnitID: 1, Timeout: 2 * time.Second})
	require.NoError(t, err)
	defer c.Close()

	regs, err := c.ReadHoldingRegisters(1020, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0x0001, 0xBEEF}, regs)

	regs, err = c.ReadHoldingRegisters(2, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0xFF85}, regs)
}

func TestReadExceptionIsDeviceLevel(t *testing.T) {
	_, addr := startServer(t)

	c, err := New(Config{Endpoint: addr, UnitID: 1, Timeout: 2 * time.Second})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.ReadHoldingRegisters(forbiddenAddr, 1)
	require.Error(t, err)

	var exc *ExceptionError
	require.ErrorAs(t, err, &exc)
	assert.Equal(t, byte(2), exc.Code)
	assert.Equal(t, uint16(2), exc.ErrorCode())

	// the session survives an exception
	_, err = c.ReadHoldingRegisters(0, 1)
	assert.NoError(t, err)
}

func TestNewFailsWithoutServer(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	_, err = New(Config{Endpoint: addr, Timeout: 500 * time.Millisecond})
	require.Error(t, err)

	var ce *ConnError
	require.ErrorAs(t, err, &ce)
	assert.True(t, ce.ConnectionLost())
}

func TestNewRequiresEndpoint(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	var ce *ConnError
	require.ErrorAs(t, classify(1, 1, errors.New("wrapped: "+errFake.Error())), new(*PayloadError))
	require.ErrorAs(t, classify(1, 1, &net.OpError{Op: "read", Err: errFake}), &ce)
	assert.Equal(t, "read", ce.Op)
}

var errFake = errors.New("boom")

func TestUnpackRegisters(t *testing.T) {
	assert.Equal(t, []uint16{0x1234, 0xABCD}, unpackRegisters([]byte{0x12, 0x34, 0xAB, 0xCD}))
	assert.Empty(t, unpackRegisters(nil))
}
