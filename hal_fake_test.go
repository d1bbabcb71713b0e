package gsx126x

import "sync"

type cmdRecord struct {
	cmd  OpCode
	data []byte
}

// fakeHal is a scripted chip double. Commands are logged, register writes
// land in a map, and IRQ status reads pop from a queue so tests can stage
// the exact latched status a reconciliation pass will see.
type fakeHal struct {
	mu sync.Mutex

	cmds      []cmdRecord
	regs      map[uint16]byte
	irqQueue  []uint16
	rxPayload []byte
	pktStatus [3]byte
	rssiRaw   byte

	bufWrites [][]byte

	antTx  int
	antRx  int
	antOff int

	dioFn func()
}

func newFakeHal() *fakeHal {
	return &fakeHal{regs: make(map[uint16]byte)}
}

func (f *fakeHal) Reset() error    { return nil }
func (f *fakeHal) WaitBusy() error { return nil }
func (f *fakeHal) Close() error    { return nil }

func (f *fakeHal) WriteCommand(cmd OpCode, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cmds = append(f.cmds, cmdRecord{cmd: cmd, data: append([]byte(nil), data...)})
	return nil
}

func (f *fakeHal) ReadCommand(cmd OpCode, n int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cmds = append(f.cmds, cmdRecord{cmd: cmd})
	out := make([]byte, n)
	switch cmd {
	case CmdGetIrqStatus:
		var st uint16
		if len(f.irqQueue) > 0 {
			st = f.irqQueue[0]
			f.irqQueue = f.irqQueue[1:]
		}
		out[0] = byte(st >> 8)
		out[1] = byte(st)
	case CmdGetRxBufferStatus:
		out[0] = byte(len(f.rxPayload))
		out[1] = 0x00
	case CmdGetPacketStatus:
		copy(out, f.pktStatus[:])
	case CmdGetRssiInst:
		out[0] = f.rssiRaw
	}
	return out, nil
}

func (f *fakeHal) WriteRegisters(addr Register, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, b := range data {
		f.regs[uint16(addr)+uint16(i)] = b
	}
	return nil
}

func (f *fakeHal) ReadRegisters(addr Register, n int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]byte, n)
	for i := range out {
		out[i] = f.regs[uint16(addr)+uint16(i)]
	}
	return out, nil
}

func (f *fakeHal) WriteBuffer(offset uint8, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bufWrites = append(f.bufWrites, append([]byte(nil), data...))
	return nil
}

func (f *fakeHal) ReadBuffer(offset uint8, n int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]byte, n)
	copy(out, f.rxPayload)
	return out, nil
}

func (f *fakeHal) SetAntSwTx() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.antTx++
	return nil
}

func (f *fakeHal) SetAntSwRx() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.antRx++
	return nil
}

func (f *fakeHal) AntSwOff() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.antOff++
	return nil
}

func (f *fakeHal) WatchDio(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dioFn = fn
}

func (f *fakeHal) queueIrq(status uint16) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.irqQueue = append(f.irqQueue, status)
}

// lastCmd returns the parameter bytes of the most recent write of cmd, or
// nil if it was never issued.
func (f *fakeHal) lastCmd(cmd OpCode) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.cmds) - 1; i >= 0; i-- {
		if f.cmds[i].cmd == cmd {
			return f.cmds[i].data
		}
	}
	return nil
}

func (f *fakeHal) countCmd(cmd OpCode) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.cmds {
		if c.cmd == cmd {
			n++
		}
	}
	return n
}

func (f *fakeHal) reg(addr Register) (byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.regs[uint16(addr)]
	return v, ok
}
