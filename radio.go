package gsx126x

import (
	"sync"
	"time"
)

// Radio drives one SX126x transceiver: it translates semantic radio
// parameters into chip images, sequences mode transitions, arms the
// watchdog timers and reconciles interrupts into listener events.
// One live instance per physical chip.
type Radio struct {
	hal  Hal
	ctrl *Controller

	events *RadioEvents
	p2p    *P2PEvents

	// mu guards the shared interrupt and timer-expiry flags. It is the
	// host-side analogue of the interrupt-disable brackets around these
	// flags in firmware builds.
	mu             sync.Mutex
	irqFired       bool
	timerTxTimeout bool
	timerRxTimeout bool

	// procMu serializes reconciliation passes; timer callbacks and the
	// platform task loop may otherwise race into BgIrqProcess.
	procMu sync.Mutex

	notify chan struct{}

	txTimer Timer
	rxTimer Timer

	modem             Modem
	pubPrevious       bool
	pubCurrent        bool
	hasCustomSyncWord bool
	forceLowDRopt     bool
	useTcxo           bool

	modulation       ModulationParams
	packet           PacketParams
	maxPayloadLength uint8
	rxContinuous     bool
	txTimeoutMs      uint32
	rxTimeoutMs      uint32
}

// NewRadio wraps a Hal into a driver instance. Call Init before use.
func NewRadio(hal Hal) *Radio {
	return &Radio{
		hal:              hal,
		ctrl:             NewController(hal),
		notify:           make(chan struct{}, 1),
		txTimer:          NewTimer(),
		rxTimer:          NewTimer(),
		maxPayloadLength: 0xFF,
	}
}

// Init resets and configures the chip and registers the LoRaWAN-facing
// listener set. The point-to-point set is registered separately with
// SetP2PEvents.
func (r *Radio) Init(events *RadioEvents) error {
	r.events = events

	if err := r.ctrl.Init(); err != nil {
		return err
	}
	if err := r.ctrl.SetStandby(StdbyRC); err != nil {
		return err
	}
	if err := r.ctrl.SetRegulatorMode(RegModeDCDC); err != nil {
		return err
	}
	if err := r.ctrl.SetBufferBaseAddress(0x00, 0x00); err != nil {
		return err
	}
	if err := r.ctrl.SetRfTxPower(0); err != nil {
		return err
	}
	if err := r.ctrl.SetDioIrqParams(IrqRadioAll, IrqRadioAll, IrqRadioNone, IrqRadioNone); err != nil {
		return err
	}

	r.txTimer.Init(r.onTxTimeoutIrq)
	r.rxTimer.Init(r.onRxTimeoutIrq)

	r.mu.Lock()
	r.irqFired = false
	r.mu.Unlock()

	r.hal.WatchDio(r.OnDioIrq)
	return nil
}

// ReInit re-registers listeners and timers after the host slept; the chip
// configuration is assumed to have been retained (warm-start sleep).
func (r *Radio) ReInit(events *RadioEvents) error {
	r.events = events

	r.txTimer.Init(r.onTxTimeoutIrq)
	r.rxTimer.Init(r.onRxTimeoutIrq)

	r.mu.Lock()
	r.irqFired = false
	r.mu.Unlock()

	r.hal.WatchDio(r.OnDioIrq)
	return nil
}

// SetRadioEvents replaces the LoRaWAN-facing listener set.
func (r *Radio) SetRadioEvents(events *RadioEvents) { r.events = events }

// SetP2PEvents replaces the point-to-point listener set.
func (r *Radio) SetP2PEvents(events *P2PEvents) { r.p2p = events }

// GetStatus reports the coarse radio state from the tracked operating mode.
func (r *Radio) GetStatus() RadioState {
	switch r.ctrl.GetOperatingMode() {
	case ModeTx:
		return StateTxRunning
	case ModeRx:
		return StateRxRunning
	case ModeCad:
		return StateCad
	default:
		return StateIdle
	}
}

// SetModem selects the packet engine. Switching into FSK clears the LoRa
// sync word register on the chip, so the public-network memory is reset;
// switching back to LoRa restores the previous public/private state unless
// a custom sync word is in force.
func (r *Radio) SetModem(modem Modem) error {
	switch modem {
	case ModemLoRa:
		if err := r.ctrl.SetPacketType(PacketTypeLoRa); err != nil {
			return err
		}
		if !r.hasCustomSyncWord {
			if r.pubCurrent != r.pubPrevious {
				r.pubCurrent = r.pubPrevious
				if err := r.SetPublicNetwork(r.pubCurrent); err != nil {
					return err
				}
			}
		}
		r.modem = modem
	default:
		if err := r.ctrl.SetPacketType(PacketTypeGFSK); err != nil {
			return err
		}
		r.pubCurrent = false
		r.modem = ModemFSK
	}
	return nil
}

// SetChannel sets the RF frequency in Hz.
func (r *Radio) SetChannel(freq uint32) error {
	return r.ctrl.SetRfFrequency(freq)
}

// IsChannelFree samples the instantaneous RSSI on freq for senseTime and
// reports whether every sample stayed at or below rssiThresh. Blocking; the
// radio is returned to sleep before returning. Returns false immediately if
// the radio is not idle.
func (r *Radio) IsChannelFree(modem Modem, freq uint32, rssiThresh int16, senseTime time.Duration) (bool, error) {
	if r.GetStatus() != StateIdle {
		return false, nil
	}

	if err := r.SetModem(modem); err != nil {
		return false, err
	}
	if err := r.SetChannel(freq); err != nil {
		return false, err
	}
	if err := r.Rx(0); err != nil {
		return false, err
	}
	time.Sleep(time.Millisecond)

	free := true
	deadline := time.Now().Add(senseTime)
	for time.Now().Before(deadline) {
		rssi, err := r.Rssi(modem)
		if err != nil {
			r.Sleep()
			return false, err
		}
		if rssi > rssiThresh {
			free = false
			break
		}
	}
	if err := r.Sleep(); err != nil {
		return free, err
	}
	return free, nil
}

// Random derives 32 random bits from receiver noise. It forces the LoRa
// modem and leaves the radio asleep in an indeterminate configuration;
// callers must reconfigure before the next TX/RX.
func (r *Radio) Random() (uint32, error) {
	if err := r.SetModem(ModemLoRa); err != nil {
		return 0, err
	}
	if err := r.ctrl.SetRx(0); err != nil {
		return 0, err
	}
	rnd, err := r.ctrl.GetRandom()
	if err != nil {
		return 0, err
	}
	if err := r.Sleep(); err != nil {
		return rnd, err
	}
	return rnd, nil
}

// SetRxConfig sets the reception parameters. bandwidth is in Hz for FSK and
// a table index for LoRa (0: 125 kHz, 1: 250 kHz, 2: 500 kHz, ...).
// datarate is bits/s for FSK and the spreading factor for LoRa. symbTimeout
// is in bytes for FSK and symbols for LoRa; rxContinuous forces it to 0.
func (r *Radio) SetRxConfig(modem Modem, bandwidth, datarate uint32, coderate uint8,
	bandwidthAfc uint32, preambleLen, symbTimeout uint16, fixLen bool,
	payloadLen uint8, crcOn, freqHopOn bool, hopPeriod uint8,
	iqInverted, rxContinuous bool) error {

	r.rxContinuous = rxContinuous
	if rxContinuous {
		symbTimeout = 0
	}
	if fixLen {
		r.maxPayloadLength = payloadLen
	} else {
		r.maxPayloadLength = 0xFF
	}

	switch modem {
	case ModemFSK:
		if err := r.ctrl.SetStopRxTimerOnPreambleDetect(false); err != nil {
			return err
		}
		r.modulation.PacketType = PacketTypeGFSK
		r.modulation.Gfsk.BitRate = datarate
		r.modulation.Gfsk.ModulationShaping = ModShapingBT1
		r.modulation.Gfsk.Bandwidth = FskBandwidthRegValue(bandwidth)

		r.packet.PacketType = PacketTypeGFSK
		r.packet.Gfsk.PreambleLength = preambleLen << 3 // bytes to bits
		r.packet.Gfsk.PreambleMinDetect = PreambleDetector08Bits
		r.packet.Gfsk.SyncWordLength = 3 << 3 // bytes to bits
		r.packet.Gfsk.AddrComp = AddrCompOff
		r.packet.Gfsk.HeaderType = gfskHeaderType(fixLen)
		r.packet.Gfsk.PayloadLength = r.maxPayloadLength
		r.packet.Gfsk.CrcLength = gfskCrcType(crcOn)
		r.packet.Gfsk.DcFree = GfskDcFreeWhitening

		if err := r.Standby(); err != nil {
			return err
		}
		if err := r.SetModem(ModemFSK); err != nil {
			return err
		}
		if err := r.ctrl.SetModulationParams(&r.modulation); err != nil {
			return err
		}
		if err := r.ctrl.SetPacketParams(&r.packet); err != nil {
			return err
		}
		if err := r.ctrl.SetSyncWord([8]byte{0xC1, 0x94, 0xC1, 0x00, 0x00, 0x00, 0x00, 0x00}); err != nil {
			return err
		}
		if err := r.ctrl.SetWhiteningSeed(0x01FF); err != nil {
			return err
		}

		r.rxTimeoutMs = uint32(float64(symbTimeout) * (1.0 / float64(datarate)) * 8.0 * 1000)

	case ModemLoRa:
		if err := r.ctrl.SetStopRxTimerOnPreambleDetect(false); err != nil {
			return err
		}
		if err := r.ctrl.SetLoRaSymbNumTimeout(uint8(symbTimeout)); err != nil {
			return err
		}
		r.modulation.PacketType = PacketTypeLoRa
		r.modulation.LoRa.SpreadingFactor = uint8(datarate)
		r.modulation.LoRa.Bandwidth = loRaBandwidthRegValue(bandwidth)
		r.modulation.LoRa.CodingRate = coderate
		r.modulation.LoRa.LowDatarateOptimize = r.lowDatarateOptimize(bandwidth, datarate)

		r.packet.PacketType = PacketTypeLoRa
		r.packet.LoRa.PreambleLength = loRaPreambleLength(uint8(datarate), preambleLen)
		r.packet.LoRa.HeaderType = loRaHeaderType(fixLen)
		r.packet.LoRa.PayloadLength = r.maxPayloadLength
		r.packet.LoRa.CrcMode = loRaCrcMode(crcOn)
		r.packet.LoRa.InvertIQ = loRaIqMode(iqInverted)

		if err := r.SetModem(ModemLoRa); err != nil {
			return err
		}
		if err := r.ctrl.SetModulationParams(&r.modulation); err != nil {
			return err
		}
		if err := r.ctrl.SetPacketParams(&r.packet); err != nil {
			return err
		}
		if err := r.applyIqPolarityWorkaround(iqInverted); err != nil {
			return err
		}

		// The chip timeout field is handled in Rx; the LoRa software
		// watchdog uses the max sentinel.
		r.rxTimeoutMs = RxTimeoutLoRaMax

	default:
		return ErrUnsupportedModem
	}
	return nil
}

// SetTxConfig sets the transmission parameters. Same unit conventions as
// SetRxConfig; timeout is the TX watchdog in ms armed by Send.
func (r *Radio) SetTxConfig(modem Modem, power int8, fdev, bandwidth, datarate uint32,
	coderate uint8, preambleLen uint16, fixLen, crcOn, freqHopOn bool,
	hopPeriod uint8, iqInverted bool, timeout uint32) error {

	switch modem {
	case ModemFSK:
		r.modulation.PacketType = PacketTypeGFSK
		r.modulation.Gfsk.BitRate = datarate
		r.modulation.Gfsk.ModulationShaping = ModShapingBT1
		r.modulation.Gfsk.Bandwidth = FskBandwidthRegValue(bandwidth)
		r.modulation.Gfsk.Fdev = fdev

		r.packet.PacketType = PacketTypeGFSK
		r.packet.Gfsk.PreambleLength = preambleLen << 3 // bytes to bits
		r.packet.Gfsk.PreambleMinDetect = PreambleDetector08Bits
		r.packet.Gfsk.SyncWordLength = 3 << 3 // bytes to bits
		r.packet.Gfsk.AddrComp = AddrCompOff
		r.packet.Gfsk.HeaderType = gfskHeaderType(fixLen)
		r.packet.Gfsk.CrcLength = gfskCrcType(crcOn)
		r.packet.Gfsk.DcFree = GfskDcFreeWhitening

		if err := r.Standby(); err != nil {
			return err
		}
		if err := r.SetModem(ModemFSK); err != nil {
			return err
		}
		if err := r.ctrl.SetModulationParams(&r.modulation); err != nil {
			return err
		}
		if err := r.ctrl.SetPacketParams(&r.packet); err != nil {
			return err
		}
		if err := r.ctrl.SetSyncWord([8]byte{0xC1, 0x94, 0xC1, 0x00, 0x00, 0x00, 0x00, 0x00}); err != nil {
			return err
		}
		if err := r.ctrl.SetWhiteningSeed(0x01FF); err != nil {
			return err
		}

	case ModemLoRa:
		r.modulation.PacketType = PacketTypeLoRa
		r.modulation.LoRa.SpreadingFactor = uint8(datarate)
		r.modulation.LoRa.Bandwidth = loRaBandwidthRegValue(bandwidth)
		r.modulation.LoRa.CodingRate = coderate
		r.modulation.LoRa.LowDatarateOptimize = r.lowDatarateOptimize(bandwidth, datarate)

		r.packet.PacketType = PacketTypeLoRa
		r.packet.LoRa.PreambleLength = loRaPreambleLength(uint8(datarate), preambleLen)
		r.packet.LoRa.HeaderType = loRaHeaderType(fixLen)
		r.packet.LoRa.PayloadLength = r.maxPayloadLength
		r.packet.LoRa.CrcMode = loRaCrcMode(crcOn)
		r.packet.LoRa.InvertIQ = loRaIqMode(iqInverted)

		if err := r.Standby(); err != nil {
			return err
		}
		if err := r.SetModem(ModemLoRa); err != nil {
			return err
		}
		if err := r.ctrl.SetModulationParams(&r.modulation); err != nil {
			return err
		}
		if err := r.ctrl.SetPacketParams(&r.packet); err != nil {
			return err
		}

	default:
		return ErrUnsupportedModem
	}

	if err := r.applyTxModulationWorkaround(modem, r.modulation.LoRa.Bandwidth); err != nil {
		return err
	}
	if err := r.ctrl.SetRfTxPower(power); err != nil {
		return err
	}
	r.txTimeoutMs = timeout
	return nil
}

// CheckRfFrequency reports whether the front end supports freq. All
// frequencies are accepted on this hardware.
func (r *Radio) CheckRfFrequency(freq uint32) bool {
	return true
}

// Send pushes the buffer into the chip FIFO and starts transmission. The
// outcome arrives later as a TxDone or TxTimeout event.
func (r *Radio) Send(data []byte) error {
	if err := r.ctrl.TxEnable(); err != nil {
		return err
	}
	if err := r.ctrl.SetDioIrqParams(IrqTxDone|IrqRxTxTimeout,
		IrqTxDone|IrqRxTxTimeout, IrqRadioNone, IrqRadioNone); err != nil {
		return err
	}

	if r.ctrl.GetPacketType() == PacketTypeLoRa {
		r.packet.LoRa.PayloadLength = uint8(len(data))
	} else {
		r.packet.Gfsk.PayloadLength = uint8(len(data))
	}
	if err := r.ctrl.SetPacketParams(&r.packet); err != nil {
		return err
	}

	if err := r.ctrl.SendPayload(data, 0); err != nil {
		return err
	}
	r.txTimer.SetValue(r.txTimeoutMs)
	r.txTimer.Start()
	return nil
}

// Sleep puts the chip into warm-start sleep.
func (r *Radio) Sleep() error {
	if err := r.ctrl.SetSleep(true); err != nil {
		return err
	}
	time.Sleep(2 * time.Millisecond)
	return nil
}

// Standby puts the chip into RC standby.
func (r *Radio) Standby() error {
	return r.ctrl.SetStandby(StdbyRC)
}

// Rx starts reception. timeout (ms) arms the software watchdog; 0 skips it.
// The chip-side timeout comes from the last SetRxConfig: the continuous
// sentinel in continuous mode, the configured value otherwise. A watchdog
// is armed even in continuous mode whenever timeout is nonzero, because the
// hardware continuous-mode timeout cannot be trusted alone.
func (r *Radio) Rx(timeout uint32) error {
	if err := r.ctrl.RxEnable(); err != nil {
		return err
	}
	if err := r.ctrl.SetDioIrqParams(
		IrqRxDone|IrqRxTxTimeout|IrqHeaderError|IrqCrcError,
		IrqRxDone|IrqRxTxTimeout|IrqHeaderError|IrqCrcError,
		IrqRadioNone, IrqRadioNone); err != nil {
		return err
	}

	log.Debugf("RX window timeout = %d ms", timeout)
	if timeout != 0 {
		r.rxTimer.SetValue(timeout)
		r.rxTimer.Start()
	}
	if r.rxContinuous {
		return r.ctrl.SetRx(RxTimeoutLoRaMax)
	}
	return r.ctrl.SetRx(r.rxTimeoutMs * RadioTickPerMs)
}

// RxBoosted is Rx with maximum LNA gain.
func (r *Radio) RxBoosted(timeout uint32) error {
	if err := r.ctrl.SetDioIrqParams(
		IrqRxDone|IrqRxTxTimeout|IrqHeaderError|IrqCrcError,
		IrqRxDone|IrqRxTxTimeout|IrqHeaderError|IrqCrcError,
		IrqRadioNone, IrqRadioNone); err != nil {
		return err
	}

	if r.rxContinuous {
		// Safety-net watchdog even in continuous mode.
		if timeout != 0 {
			r.rxTimer.SetValue(timeout)
			r.rxTimer.Start()
		}
		return r.ctrl.SetRxBoosted(RxTimeoutLoRaMax)
	}
	return r.ctrl.SetRxBoosted(r.rxTimeoutMs * RadioTickPerMs)
}

// SetRxDutyCycle hands RX/sleep alternation to the chip sequencer. Times
// are in chip ticks.
func (r *Radio) SetRxDutyCycle(rxTime, sleepTime uint32) error {
	if err := r.ctrl.SetDioIrqParams(IrqRadioAll|IrqRxTxTimeout,
		IrqRadioAll|IrqRxTxTimeout, IrqRadioNone, IrqRadioNone); err != nil {
		return err
	}
	return r.ctrl.SetRxDutyCycle(rxTime, sleepTime)
}

// SetCadParams configures channel activity detection; call before StartCad.
func (r *Radio) SetCadParams(cadSymbolNum, cadDetPeak, cadDetMin, cadExitMode uint8, cadTimeout uint32) error {
	return r.ctrl.SetCadParams(cadSymbolNum, cadDetPeak, cadDetMin, cadExitMode, cadTimeout)
}

// StartCad begins a channel activity detection; the result arrives as a
// CadDone event.
func (r *Radio) StartCad() error {
	if err := r.ctrl.RxEnable(); err != nil {
		return err
	}
	if err := r.ctrl.SetDioIrqParams(IrqCadDone|IrqCadActivityDetected,
		IrqCadDone|IrqCadActivityDetected, IrqRadioNone, IrqRadioNone); err != nil {
		return err
	}
	return r.ctrl.SetCad()
}

// Tx starts transmission of whatever is in the chip buffer with a hardware
// timeout in ms.
func (r *Radio) Tx(timeout uint32) error {
	if err := r.ctrl.TxEnable(); err != nil {
		return err
	}
	return r.ctrl.SetTx(timeout * RadioTickPerMs)
}

// SetTxContinuousWave emits an unmodulated carrier on freq for the given
// number of seconds (bounded by the TX watchdog).
func (r *Radio) SetTxContinuousWave(freq uint32, power int8, seconds uint16) error {
	if err := r.ctrl.SetRfFrequency(freq); err != nil {
		return err
	}
	if err := r.ctrl.SetRfTxPower(power); err != nil {
		return err
	}
	if err := r.ctrl.SetTxContinuousWave(); err != nil {
		return err
	}
	r.txTimer.SetValue(uint32(seconds) * 1000)
	r.txTimer.Start()
	return nil
}

// Rssi reads the instantaneous RSSI in dBm.
func (r *Radio) Rssi(modem Modem) (int16, error) {
	return r.ctrl.GetRssiInst()
}

// Direct register access passthroughs.

func (r *Radio) Write(addr uint16, val byte) error { return r.ctrl.WriteRegister(addr, val) }

func (r *Radio) Read(addr uint16) (byte, error) { return r.ctrl.ReadRegister(addr) }

func (r *Radio) WriteRegisters(addr uint16, buf []byte) error {
	return r.ctrl.WriteRegisters(Register(addr), buf)
}

func (r *Radio) ReadRegisters(addr uint16, n int) ([]byte, error) {
	return r.ctrl.ReadRegisters(Register(addr), n)
}

// WriteFifo and ReadFifo access the packet buffer directly.

func (r *Radio) WriteFifo(buf []byte) error { return r.ctrl.WriteBuffer(0, buf) }

func (r *Radio) ReadFifo(n int) ([]byte, error) { return r.ctrl.ReadBuffer(0, n) }

// SetMaxPayloadLength patches the payload length and re-pushes the whole
// packet parameter image. For FSK it only applies in variable-length mode.
func (r *Radio) SetMaxPayloadLength(modem Modem, max uint8) error {
	if modem == ModemLoRa {
		r.maxPayloadLength = max
		r.packet.LoRa.PayloadLength = max
		return r.ctrl.SetPacketParams(&r.packet)
	}
	if r.packet.Gfsk.HeaderType == GfskPacketVariableLength {
		r.maxPayloadLength = max
		r.packet.Gfsk.PayloadLength = max
		return r.ctrl.SetPacketParams(&r.packet)
	}
	return nil
}

// SetPublicNetwork selects the public or private LoRaWAN sync word and
// clears any custom sync word override.
func (r *Radio) SetPublicNetwork(enable bool) error {
	r.hasCustomSyncWord = false
	r.pubCurrent = enable
	r.pubPrevious = enable

	if err := r.SetModem(ModemLoRa); err != nil {
		return err
	}
	if enable {
		return r.ctrl.SetLoRaSyncWord(LoRaMacPublicSyncword)
	}
	return r.ctrl.SetLoRaSyncWord(LoRaMacPrivateSyncword)
}

// SetCustomSyncWord installs a custom LoRa sync word. This changes the
// LoRaWAN sync word as well and suppresses the automatic public/private
// restoration on modem switches until SetPublicNetwork is called again.
func (r *Radio) SetCustomSyncWord(word uint16) error {
	r.hasCustomSyncWord = true
	if err := r.SetModem(ModemLoRa); err != nil {
		return err
	}
	return r.ctrl.SetLoRaSyncWord(word)
}

// GetSyncWord reads the LoRa sync word currently in the chip.
func (r *Radio) GetSyncWord() (uint16, error) {
	if err := r.SetModem(ModemLoRa); err != nil {
		return 0, err
	}
	return r.ctrl.GetLoRaSyncWord()
}

// SetUseTcxo tells the driver a TCXO is wired to DIO3, which lengthens the
// wakeup time.
func (r *Radio) SetUseTcxo(use bool) { r.useTcxo = use }

// GetWakeupTime returns the board plus radio wakeup latency in ms.
func (r *Radio) GetWakeupTime() uint32 {
	if r.useTcxo {
		return TcxoSetupTime + RadioWakeupTime
	}
	return RadioWakeupTime
}

// EnforceLowDRopt forces the low-datarate-optimization flag on in every
// subsequent configuration regardless of the bandwidth/spreading-factor
// rule.
func (r *Radio) EnforceLowDRopt(enforce bool) {
	r.forceLowDRopt = enforce
}

// lowDatarateOptimize applies the symbol-duration rule: mandatory at
// 125 kHz with SF11/SF12 and at 250 kHz with SF12, or when globally forced.
func (r *Radio) lowDatarateOptimize(bandwidth, datarate uint32) uint8 {
	if (bandwidth == 0 && (datarate == 11 || datarate == 12)) ||
		(bandwidth == 1 && datarate == 12) || r.forceLowDRopt {
		return 0x01
	}
	return 0x00
}

// applyIqPolarityWorkaround patches the IQ polarity bit opposite to the IQ
// inversion flag. DS_SX1261-2_V1.2 datasheet chapter 15.4.
func (r *Radio) applyIqPolarityWorkaround(iqInverted bool) error {
	v, err := r.ctrl.ReadRegister(uint16(RegIqPolaritySetup))
	if err != nil {
		return err
	}
	if iqInverted {
		v &^= 1 << 2
	} else {
		v |= 1 << 2
	}
	return r.ctrl.WriteRegister(uint16(RegIqPolaritySetup), v)
}

// applyTxModulationWorkaround clears the TX modulation bit only for 500 kHz
// LoRa and sets it otherwise. DS_SX1261-2_V1.2 datasheet chapter 15.1.
func (r *Radio) applyTxModulationWorkaround(modem Modem, loRaBandwidth uint8) error {
	v, err := r.ctrl.ReadRegister(uint16(RegTxModulation))
	if err != nil {
		return err
	}
	if modem == ModemLoRa && loRaBandwidth == LoRaBW500 {
		v &^= 1 << 2
	} else {
		v |= 1 << 2
	}
	return r.ctrl.WriteRegister(uint16(RegTxModulation), v)
}

// applyImplicitHeaderTimeoutWorkaround stops the RX timeout RTC and clears
// its event after a reception in single mode. DS_SX1261-2_V1.2 datasheet
// chapter 15.3.
func (r *Radio) applyImplicitHeaderTimeoutWorkaround() error {
	if err := r.ctrl.WriteRegister(uint16(RegRtcControl), 0x00); err != nil {
		return err
	}
	v, err := r.ctrl.ReadRegister(uint16(RegEventMask))
	if err != nil {
		return err
	}
	return r.ctrl.WriteRegister(uint16(RegEventMask), v|(1<<1))
}

func loRaBandwidthRegValue(index uint32) uint8 {
	if int(index) >= len(loRaBandwidths) {
		return loRaBandwidths[0]
	}
	return loRaBandwidths[index]
}

// loRaPreambleLength floors the preamble at 12 symbols for SF5/SF6, where
// shorter preambles are unreliable.
func loRaPreambleLength(sf uint8, requested uint16) uint16 {
	if (sf == LoRaSF5 || sf == LoRaSF6) && requested < 12 {
		return 12
	}
	return requested
}

func loRaHeaderType(fixLen bool) uint8 {
	if fixLen {
		return LoRaHeaderImplicit
	}
	return LoRaHeaderExplicit
}

func loRaCrcMode(crcOn bool) uint8 {
	if crcOn {
		return LoRaCrcOn
	}
	return LoRaCrcOff
}

func loRaIqMode(iqInverted bool) uint8 {
	if iqInverted {
		return LoRaIQInverted
	}
	return LoRaIQNormal
}

func gfskHeaderType(fixLen bool) uint8 {
	if fixLen {
		return GfskPacketFixedLength
	}
	return GfskPacketVariableLength
}

func gfskCrcType(crcOn bool) uint8 {
	if crcOn {
		return GfskCrc2BytesCCIT
	}
	return GfskCrcOff
}
