package gsx126x

// TimeoutCause tells a listener whether a timeout event came from the chip's
// hardware timeout interrupt or from the driver's own watchdog timer.
type TimeoutCause int

const (
	InterruptCause TimeoutCause = iota
	TimerCause
)

func (c TimeoutCause) String() string {
	if c == TimerCause {
		return "timer"
	}
	return "interrupt"
}

// RadioEvents is the LoRaWAN-facing listener set. The TX/RX callbacks fire
// only while the radio is configured for a public network; CadDone and
// PreambleDetected fire regardless. Any callback may be left nil.
type RadioEvents struct {
	TxDone           func()
	TxTimeout        func(cause TimeoutCause)
	RxDone           func(payload []byte, size uint16, rssi int16, snr int8)
	RxTimeout        func(cause TimeoutCause)
	RxError          func()
	CadDone          func(activityDetected bool)
	PreambleDetected func()
}

// P2PEvents is the point-to-point listener set. Its callbacks always fire
// when registered and carry the current public/private network flag instead
// of being gated on it.
type P2PEvents struct {
	TxDone    func(isPublic bool)
	TxTimeout func(isPublic bool, cause TimeoutCause)
	RxDone    func(isPublic bool, payload []byte, size uint16, rssi int16, snr int8)
	RxTimeout func(isPublic bool, cause TimeoutCause)
	RxError   func(isPublic bool)
}
