package gsx126x

import "errors"

var (
	ErrBusyTimeout      = errors.New("busy line stuck high")
	ErrPayloadTooLarge  = errors.New("payload exceeds chip buffer")
	ErrSpiShort         = errors.New("short spi transfer")
	ErrUnsupportedModem = errors.New("unsupported modem")
)

// Hal is the byte-level transaction interface to the SX126x. It frames the
// chip's SPI command protocol and owns the board pins (reset, busy, DIO1,
// antenna switch). Implementations must gate every transaction on the busy
// line.
type Hal interface {
	// Reset pulses the chip reset line.
	Reset() error
	// WaitBusy blocks until the chip is ready for the next transaction.
	WaitBusy() error

	// WriteCommand sends an opcode followed by its parameter bytes.
	WriteCommand(cmd OpCode, data []byte) error
	// ReadCommand sends an opcode and reads n response bytes (after the
	// status byte).
	ReadCommand(cmd OpCode, n int) ([]byte, error)

	WriteRegisters(addr Register, data []byte) error
	ReadRegisters(addr Register, n int) ([]byte, error)

	// WriteBuffer and ReadBuffer access the chip's data FIFO.
	WriteBuffer(offset uint8, data []byte) error
	ReadBuffer(offset uint8, n int) ([]byte, error)

	// Antenna switch control. No-ops on boards without switch pins.
	SetAntSwTx() error
	SetAntSwRx() error
	AntSwOff() error

	// WatchDio arranges for fn to be called on every DIO1 rising edge.
	// fn runs outside interrupt context and must be minimal.
	WatchDio(fn func())

	Close() error
}
