package gsx126x

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/driver/driverreg"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Pins names the board lines by their gpioreg identifiers. TxEn and RxEn
// are optional antenna switch lines; leave them empty on boards without a
// switch.
type Pins struct {
	Busy  string
	Dio1  string
	Reset string
	TxEn  string
	RxEn  string
}

// PeriphHal drives the chip over a Linux SPI device and GPIO lines through
// periph.io.
type PeriphHal struct {
	port  spi.PortCloser
	conn  spi.Conn
	busy  gpio.PinIO
	dio1  gpio.PinIO
	reset gpio.PinIO
	txEn  gpio.PinIO
	rxEn  gpio.PinIO

	dioFn     atomic.Value // func()
	watchOnce sync.Once
	done      chan struct{}
}

// NewPeriphHal opens the SPI device and claims the pins. spiDev is a
// spireg name such as "/dev/spidev0.0".
func NewPeriphHal(spiDev string, pins Pins) (*PeriphHal, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	if _, err := driverreg.Init(); err != nil {
		return nil, err
	}

	p, err := spireg.Open(spiDev)
	if err != nil {
		return nil, err
	}

	c, err := p.Connect(8*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, err
	}

	h := &PeriphHal{
		port: p,
		conn: c,
		done: make(chan struct{}),
	}

	h.busy = gpioreg.ByName(pins.Busy)
	if h.busy == nil {
		p.Close()
		return nil, errors.New("failed to find BUSY pin")
	}
	if err := h.busy.In(gpio.PullDown, gpio.NoEdge); err != nil {
		p.Close()
		return nil, err
	}

	h.dio1 = gpioreg.ByName(pins.Dio1)
	if h.dio1 == nil {
		p.Close()
		return nil, errors.New("failed to find DIO1 pin")
	}
	if err := h.dio1.In(gpio.PullDown, gpio.RisingEdge); err != nil {
		p.Close()
		return nil, err
	}

	h.reset = gpioreg.ByName(pins.Reset)
	if h.reset == nil {
		p.Close()
		return nil, errors.New("failed to find RESET pin")
	}
	if err := h.reset.Out(gpio.High); err != nil {
		p.Close()
		return nil, err
	}

	if pins.TxEn != "" {
		h.txEn = gpioreg.ByName(pins.TxEn)
		if h.txEn == nil {
			p.Close()
			return nil, errors.New("failed to find TXEN pin")
		}
		if err := h.txEn.Out(gpio.Low); err != nil {
			p.Close()
			return nil, err
		}
	}
	if pins.RxEn != "" {
		h.rxEn = gpioreg.ByName(pins.RxEn)
		if h.rxEn == nil {
			p.Close()
			return nil, errors.New("failed to find RXEN pin")
		}
		if err := h.rxEn.Out(gpio.Low); err != nil {
			p.Close()
			return nil, err
		}
	}

	return h, nil
}

func (h *PeriphHal) Reset() error {
	if err := h.reset.Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(10 * time.Millisecond)
	if err := h.reset.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(10 * time.Millisecond)
	return nil
}

// WaitBusy polls the busy line until the chip releases it. The chip holds
// busy for at most a few ms around sleep transitions; anything past 100 ms
// means a wedged chip or miswired pin.
func (h *PeriphHal) WaitBusy() error {
	deadline := time.Now().Add(100 * time.Millisecond)
	for h.busy.Read() == gpio.High {
		if time.Now().After(deadline) {
			return ErrBusyTimeout
		}
		time.Sleep(100 * time.Microsecond)
	}
	return nil
}

func (h *PeriphHal) tx(w []byte) ([]byte, error) {
	r := make([]byte, len(w))
	if err := h.conn.Tx(w, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (h *PeriphHal) WriteCommand(cmd OpCode, data []byte) error {
	if err := h.WaitBusy(); err != nil {
		return err
	}
	_, err := h.tx(append([]byte{byte(cmd)}, data...))
	return err
}

func (h *PeriphHal) ReadCommand(cmd OpCode, n int) ([]byte, error) {
	if err := h.WaitBusy(); err != nil {
		return nil, err
	}
	w := make([]byte, 2+n)
	w[0] = byte(cmd)
	r, err := h.tx(w)
	if err != nil {
		return nil, err
	}
	if len(r) < 2+n {
		return nil, ErrSpiShort
	}
	return r[2:], nil
}

func (h *PeriphHal) WriteRegisters(addr Register, data []byte) error {
	if err := h.WaitBusy(); err != nil {
		return err
	}
	w := append([]byte{byte(CmdWriteRegister), byte(addr >> 8), byte(addr)}, data...)
	_, err := h.tx(w)
	return err
}

func (h *PeriphHal) ReadRegisters(addr Register, n int) ([]byte, error) {
	if err := h.WaitBusy(); err != nil {
		return nil, err
	}
	w := make([]byte, 4+n)
	w[0] = byte(CmdReadRegister)
	w[1] = byte(addr >> 8)
	w[2] = byte(addr)
	r, err := h.tx(w)
	if err != nil {
		return nil, err
	}
	if len(r) < 4+n {
		return nil, ErrSpiShort
	}
	return r[4:], nil
}

func (h *PeriphHal) WriteBuffer(offset uint8, data []byte) error {
	if int(offset)+len(data) > MaxPacketLength+1 {
		return ErrPayloadTooLarge
	}
	if err := h.WaitBusy(); err != nil {
		return err
	}
	w := append([]byte{byte(CmdWriteBuffer), offset}, data...)
	_, err := h.tx(w)
	return err
}

func (h *PeriphHal) ReadBuffer(offset uint8, n int) ([]byte, error) {
	if err := h.WaitBusy(); err != nil {
		return nil, err
	}
	w := make([]byte, 3+n)
	w[0] = byte(CmdReadBuffer)
	w[1] = offset
	r, err := h.tx(w)
	if err != nil {
		return nil, err
	}
	if len(r) < 3+n {
		return nil, ErrSpiShort
	}
	return r[3:], nil
}

func (h *PeriphHal) SetAntSwTx() error {
	if h.txEn == nil {
		return nil
	}
	if h.rxEn != nil {
		if err := h.rxEn.Out(gpio.Low); err != nil {
			return err
		}
	}
	return h.txEn.Out(gpio.High)
}

func (h *PeriphHal) SetAntSwRx() error {
	if h.rxEn == nil {
		return nil
	}
	if h.txEn != nil {
		if err := h.txEn.Out(gpio.Low); err != nil {
			return err
		}
	}
	return h.rxEn.Out(gpio.High)
}

func (h *PeriphHal) AntSwOff() error {
	if h.txEn != nil {
		if err := h.txEn.Out(gpio.Low); err != nil {
			return err
		}
	}
	if h.rxEn != nil {
		return h.rxEn.Out(gpio.Low)
	}
	return nil
}

// WatchDio installs fn as the DIO1 edge callback. The edge goroutine is
// started once; later calls only swap the callback, so re-initialisation
// never leaks watchers.
func (h *PeriphHal) WatchDio(fn func()) {
	h.dioFn.Store(fn)
	h.watchOnce.Do(func() {
		go h.watchLoop()
	})
}

func (h *PeriphHal) watchLoop() {
	for {
		select {
		case <-h.done:
			return
		default:
		}
		// Bounded wait so Close can stop the loop.
		if !h.dio1.WaitForEdge(time.Second) {
			continue
		}
		if fn, ok := h.dioFn.Load().(func()); ok && fn != nil {
			fn()
		}
	}
}

func (h *PeriphHal) Close() error {
	close(h.done)
	return h.port.Close()
}
