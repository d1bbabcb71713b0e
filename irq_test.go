package gsx126x

import (
	"bytes"
	"testing"
)

type eventLog struct {
	txDone, txTimeout     int
	rxDone, rxTimeout     int
	rxError               int
	cadDone, preamble     int
	lastCause             TimeoutCause
	lastPayload           []byte
	lastRssi              int16
	lastSnr               int8
	lastPublic            bool
	lastActivity          bool
}

func newIrqRadio(t *testing.T) (*Radio, *fakeHal, *eventLog, *eventLog) {
	t.Helper()
	r, f := newTestRadio(t)

	ev := &eventLog{}
	r.SetRadioEvents(&RadioEvents{
		TxDone:    func() { ev.txDone++ },
		TxTimeout: func(cause TimeoutCause) { ev.txTimeout++; ev.lastCause = cause },
		RxDone: func(payload []byte, size uint16, rssi int16, snr int8) {
			ev.rxDone++
			ev.lastPayload = payload
			ev.lastRssi = rssi
			ev.lastSnr = snr
		},
		RxTimeout:        func(cause TimeoutCause) { ev.rxTimeout++; ev.lastCause = cause },
		RxError:          func() { ev.rxError++ },
		CadDone:          func(activity bool) { ev.cadDone++; ev.lastActivity = activity },
		PreambleDetected: func() { ev.preamble++ },
	})

	p2p := &eventLog{}
	r.SetP2PEvents(&P2PEvents{
		TxDone: func(isPublic bool) { p2p.txDone++; p2p.lastPublic = isPublic },
		TxTimeout: func(isPublic bool, cause TimeoutCause) {
			p2p.txTimeout++
			p2p.lastPublic = isPublic
			p2p.lastCause = cause
		},
		RxDone: func(isPublic bool, payload []byte, size uint16, rssi int16, snr int8) {
			p2p.rxDone++
			p2p.lastPublic = isPublic
			p2p.lastPayload = payload
			p2p.lastRssi = rssi
			p2p.lastSnr = snr
		},
		RxTimeout: func(isPublic bool, cause TimeoutCause) {
			p2p.rxTimeout++
			p2p.lastPublic = isPublic
			p2p.lastCause = cause
		},
		RxError: func(isPublic bool) { p2p.rxError++; p2p.lastPublic = isPublic },
	})

	return r, f, ev, p2p
}

func (r *Radio) setTimerFlag(tx bool) {
	r.mu.Lock()
	if tx {
		r.timerTxTimeout = true
	} else {
		r.timerRxTimeout = true
	}
	r.mu.Unlock()
}

func TestTxDoneDemotesAndDispatches(t *testing.T) {
	r, f, ev, p2p := newIrqRadio(t)
	r.ctrl.SetOperatingMode(ModeTx)

	f.queueIrq(IrqTxDone)
	r.OnDioIrq()
	r.BgIrqProcess()

	if p2p.txDone != 1 {
		t.Errorf("p2p TxDone fired %d times, want 1", p2p.txDone)
	}
	if ev.txDone != 0 {
		t.Error("gated TxDone fired on a private network")
	}
	if p2p.lastPublic {
		t.Error("isPublic = true on a private network")
	}
	if got := r.ctrl.GetOperatingMode(); got != ModeStandbyRC {
		t.Errorf("mode = %v after TxDone, want standby", got)
	}
}

func TestTxDoneSuppressesTimerFlag(t *testing.T) {
	r, f, _, p2p := newIrqRadio(t)
	r.ctrl.SetOperatingMode(ModeTx)

	// Watchdog fired in the same window as the hardware interrupt.
	r.setTimerFlag(true)
	f.queueIrq(IrqTxDone)
	r.OnDioIrq()
	r.BgIrqProcess()

	if p2p.txDone != 1 || p2p.txTimeout != 0 {
		t.Errorf("TxDone=%d TxTimeout=%d, want exactly one TxDone and no timeout",
			p2p.txDone, p2p.txTimeout)
	}

	// The flag must not leak into a later pass.
	r.BgIrqProcess()
	if p2p.txTimeout != 0 {
		t.Error("suppressed timer flag resurfaced in a later pass")
	}
}

func TestTimerTimeoutAlone(t *testing.T) {
	r, _, _, p2p := newIrqRadio(t)
	r.ctrl.SetOperatingMode(ModeTx)

	r.setTimerFlag(true)
	r.BgIrqProcess()

	if p2p.txTimeout != 1 {
		t.Fatalf("TxTimeout fired %d times, want 1", p2p.txTimeout)
	}
	if p2p.lastCause != TimerCause {
		t.Errorf("cause = %v, want timer", p2p.lastCause)
	}
	if got := r.ctrl.GetOperatingMode(); got != ModeStandbyRC {
		t.Errorf("mode = %v after timer timeout, want standby", got)
	}
}

func TestRxTimerTimeoutSuppressedByRxDone(t *testing.T) {
	r, f, _, p2p := newIrqRadio(t)
	r.ctrl.SetOperatingMode(ModeRx)
	f.rxPayload = []byte("x")

	r.setTimerFlag(false)
	f.queueIrq(IrqRxDone)
	r.OnDioIrq()
	r.BgIrqProcess()

	if p2p.rxDone != 1 || p2p.rxTimeout != 0 {
		t.Errorf("RxDone=%d RxTimeout=%d, want exactly one RxDone and no timeout",
			p2p.rxDone, p2p.rxTimeout)
	}
}

func TestRxDoneWithCrcErrorReportsSingleRxError(t *testing.T) {
	r, f, _, p2p := newIrqRadio(t)
	if err := r.SetModem(ModemLoRa); err != nil {
		t.Fatal(err)
	}
	r.ctrl.SetOperatingMode(ModeRx)
	f.rxPayload = []byte("corrupt")

	f.queueIrq(IrqRxDone | IrqCrcError)
	r.OnDioIrq()
	r.BgIrqProcess()

	if p2p.rxError != 1 {
		t.Errorf("RxError fired %d times, want 1", p2p.rxError)
	}
	if p2p.rxDone != 0 {
		t.Error("RxDone fired for a corrupt packet")
	}
	// The buffer is still drained so the chip pointer state stays clean.
	if f.countCmd(CmdGetRxBufferStatus) == 0 {
		t.Error("corrupt payload left in chip buffer")
	}
}

func TestRxDoneDeliversPayloadAndMetrics(t *testing.T) {
	r, f, _, p2p := newIrqRadio(t)
	if err := r.SetModem(ModemLoRa); err != nil {
		t.Fatal(err)
	}
	r.ctrl.SetOperatingMode(ModeRx)
	f.rxPayload = []byte("hello")
	f.pktStatus = [3]byte{60, 20, 60} // rssi -30 dBm, snr 5 dB

	f.queueIrq(IrqRxDone)
	r.OnDioIrq()
	r.BgIrqProcess()

	if p2p.rxDone != 1 {
		t.Fatalf("RxDone fired %d times, want 1", p2p.rxDone)
	}
	if !bytes.Equal(p2p.lastPayload, []byte("hello")) {
		t.Errorf("payload = %q, want %q", p2p.lastPayload, "hello")
	}
	if p2p.lastRssi != -30 || p2p.lastSnr != 5 {
		t.Errorf("rssi/snr = %d/%d, want -30/5", p2p.lastRssi, p2p.lastSnr)
	}

	// Single-shot RX demotes to standby and runs the RTC cleanup.
	if got := r.ctrl.GetOperatingMode(); got != ModeStandbyRC {
		t.Errorf("mode = %v after single-shot RxDone, want standby", got)
	}
	if v, ok := f.reg(RegRtcControl); !ok || v != 0x00 {
		t.Error("rtc control not cleared after single-shot rx")
	}
	if v, _ := f.reg(RegEventMask); v&(1<<1) == 0 {
		t.Error("rtc event not cleared after single-shot rx")
	}
}

func TestRxDoneContinuousKeepsReceiving(t *testing.T) {
	r, f, _, p2p := newIrqRadio(t)
	if err := r.SetModem(ModemLoRa); err != nil {
		t.Fatal(err)
	}
	r.rxContinuous = true
	r.ctrl.SetOperatingMode(ModeRx)
	f.rxPayload = []byte("stream")

	f.queueIrq(IrqRxDone)
	r.OnDioIrq()
	r.BgIrqProcess()

	if p2p.rxDone != 1 {
		t.Fatalf("RxDone fired %d times, want 1", p2p.rxDone)
	}
	if got := r.ctrl.GetOperatingMode(); got != ModeRx {
		t.Errorf("mode = %v after continuous RxDone, want rx", got)
	}
	if _, ok := f.reg(RegRtcControl); ok {
		t.Error("rtc cleanup ran in continuous mode")
	}
}

func TestHardwareTimeoutDisambiguation(t *testing.T) {
	t.Run("tx", func(t *testing.T) {
		r, f, _, p2p := newIrqRadio(t)
		r.ctrl.SetOperatingMode(ModeTx)

		f.queueIrq(IrqRxTxTimeout)
		r.OnDioIrq()
		r.BgIrqProcess()

		if p2p.txTimeout != 1 || p2p.rxTimeout != 0 {
			t.Errorf("tx/rx timeout = %d/%d, want 1/0", p2p.txTimeout, p2p.rxTimeout)
		}
		if p2p.lastCause != InterruptCause {
			t.Errorf("cause = %v, want interrupt", p2p.lastCause)
		}
	})

	t.Run("rx", func(t *testing.T) {
		r, f, _, p2p := newIrqRadio(t)
		r.ctrl.SetOperatingMode(ModeRx)

		f.queueIrq(IrqRxTxTimeout)
		r.OnDioIrq()
		r.BgIrqProcess()

		if p2p.rxTimeout != 1 || p2p.txTimeout != 0 {
			t.Errorf("rx/tx timeout = %d/%d, want 1/0", p2p.rxTimeout, p2p.txTimeout)
		}
		if p2p.lastCause != InterruptCause {
			t.Errorf("cause = %v, want interrupt", p2p.lastCause)
		}
	})
}

func TestCadDoneUngated(t *testing.T) {
	r, f, ev, _ := newIrqRadio(t)
	r.ctrl.SetOperatingMode(ModeCad)

	f.queueIrq(IrqCadDone | IrqCadActivityDetected)
	r.OnDioIrq()
	r.BgIrqProcess()

	if ev.cadDone != 1 {
		t.Fatalf("CadDone fired %d times, want 1 even on a private network", ev.cadDone)
	}
	if !ev.lastActivity {
		t.Error("activity flag lost")
	}
	if got := r.ctrl.GetOperatingMode(); got != ModeStandbyRC {
		t.Errorf("mode = %v after CadDone, want standby", got)
	}
}

func TestPreambleDetectedUngated(t *testing.T) {
	r, f, ev, _ := newIrqRadio(t)

	f.queueIrq(IrqPreambleDetected)
	r.OnDioIrq()
	r.BgIrqProcess()

	if ev.preamble != 1 {
		t.Errorf("PreambleDetected fired %d times, want 1", ev.preamble)
	}
}

func TestHeaderErrorReportsRxError(t *testing.T) {
	r, f, _, p2p := newIrqRadio(t)
	r.ctrl.SetOperatingMode(ModeRx)

	f.queueIrq(IrqHeaderError)
	r.OnDioIrq()
	r.BgIrqProcess()

	if p2p.rxError != 1 {
		t.Errorf("RxError fired %d times, want 1", p2p.rxError)
	}
	if got := r.ctrl.GetOperatingMode(); got != ModeStandbyRC {
		t.Errorf("mode = %v after header error, want standby", got)
	}
}

func TestPublicNetworkGating(t *testing.T) {
	r, f, ev, p2p := newIrqRadio(t)
	if err := r.SetPublicNetwork(true); err != nil {
		t.Fatal(err)
	}
	r.ctrl.SetOperatingMode(ModeRx)
	f.rxPayload = []byte("net")

	f.queueIrq(IrqRxDone)
	r.OnDioIrq()
	r.BgIrqProcess()

	if ev.rxDone != 1 {
		t.Error("gated RxDone did not fire on the public network")
	}
	if p2p.rxDone != 1 || !p2p.lastPublic {
		t.Errorf("p2p RxDone=%d public=%t, want 1/true", p2p.rxDone, p2p.lastPublic)
	}
}

func TestNotifyCoalesces(t *testing.T) {
	r, _, _, _ := newIrqRadio(t)

	r.OnDioIrq()
	r.OnDioIrq()
	r.OnDioIrq()

	if got := len(r.notify); got != 1 {
		t.Errorf("notify depth = %d, want 1", got)
	}

	<-r.Notify()
	select {
	case <-r.Notify():
		t.Error("extra notification queued")
	default:
	}
}

func TestIdleReconciliationIsHarmless(t *testing.T) {
	r, f, ev, p2p := newIrqRadio(t)
	before := f.countCmd(CmdGetIrqStatus)

	r.BgIrqProcess()

	if f.countCmd(CmdGetIrqStatus) != before {
		t.Error("idle pass touched the chip")
	}
	if ev.rxDone+ev.txDone+p2p.rxDone+p2p.txDone != 0 {
		t.Error("idle pass produced events")
	}
}
