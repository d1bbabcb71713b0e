package gsx126x

import (
	"fmt"
	"sync"
)

// Controller is the SX126x command layer. It turns chip operations into Hal
// transactions and tracks the operating mode the chip was last put into.
// The tracked mode is never inferred from chip status reads.
type Controller struct {
	hal Hal

	mu              sync.Mutex
	opMode          RadioMode
	packetType      PacketType
	imageCalibrated bool
	frequency       uint32
}

func NewController(hal Hal) *Controller {
	return &Controller{hal: hal, opMode: ModeSleep}
}

// Init resets and wakes the chip and runs a full calibration.
func (c *Controller) Init() error {
	if err := c.hal.Reset(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if err := c.Wakeup(); err != nil {
		return err
	}
	if err := c.Calibrate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.imageCalibrated = false
	c.mu.Unlock()
	return nil
}

// GetOperatingMode returns the mode the chip was last explicitly set to.
func (c *Controller) GetOperatingMode() RadioMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opMode
}

// SetOperatingMode overrides the tracked mode without touching the chip.
// Used by the IRQ engine to demote the mode after terminal interrupts.
func (c *Controller) SetOperatingMode(m RadioMode) {
	c.mu.Lock()
	c.opMode = m
	c.mu.Unlock()
}

// Wakeup forces the chip out of sleep with a status command and leaves it in
// RC standby.
func (c *Controller) Wakeup() error {
	if err := c.hal.WriteCommand(CmdGetStatus, []byte{0x00}); err != nil {
		return fmt.Errorf("wakeup: %w", err)
	}
	if err := c.hal.WaitBusy(); err != nil {
		return err
	}
	c.SetOperatingMode(ModeStandbyRC)
	return nil
}

// checkDeviceReady wakes the chip first if it was left sleeping.
func (c *Controller) checkDeviceReady() error {
	if c.GetOperatingMode() == ModeSleep {
		return c.Wakeup()
	}
	return nil
}

func (c *Controller) writeCommand(cmd OpCode, data []byte) error {
	if err := c.checkDeviceReady(); err != nil {
		return err
	}
	return c.hal.WriteCommand(cmd, data)
}

func (c *Controller) readCommand(cmd OpCode, n int) ([]byte, error) {
	if err := c.checkDeviceReady(); err != nil {
		return nil, err
	}
	return c.hal.ReadCommand(cmd, n)
}

func (c *Controller) SetSleep(warmStart bool) error {
	if err := c.hal.AntSwOff(); err != nil {
		return err
	}
	cfg := SleepStartCold
	if warmStart {
		cfg = SleepStartWarm
	}
	if err := c.hal.WriteCommand(CmdSetSleep, []byte{cfg}); err != nil {
		return err
	}
	c.SetOperatingMode(ModeSleep)
	return nil
}

func (c *Controller) SetStandby(mode StandbyMode) error {
	if err := c.writeCommand(CmdSetStandby, []byte{byte(mode)}); err != nil {
		return err
	}
	if mode == StdbyRC {
		c.SetOperatingMode(ModeStandbyRC)
	} else {
		c.SetOperatingMode(ModeStandbyXOSC)
	}
	return nil
}

func (c *Controller) SetFs() error {
	if err := c.writeCommand(CmdSetFs, nil); err != nil {
		return err
	}
	c.SetOperatingMode(ModeFs)
	return nil
}

// SetTx starts transmission. timeout is in chip ticks (15.625 us), 0 means
// no hardware timeout.
func (c *Controller) SetTx(timeout uint32) error {
	c.SetOperatingMode(ModeTx)
	return c.writeCommand(CmdSetTx, timeout24(timeout))
}

// SetRx starts reception. timeout is in chip ticks, 0xFFFFFF means
// continuous.
func (c *Controller) SetRx(timeout uint32) error {
	c.SetOperatingMode(ModeRx)
	if err := c.WriteRegister(uint16(RegRxGain), 0x94); err != nil {
		return err
	}
	return c.writeCommand(CmdSetRx, timeout24(timeout))
}

// SetRxBoosted is SetRx with the LNA configured for maximum gain at the cost
// of ~2 mA extra.
func (c *Controller) SetRxBoosted(timeout uint32) error {
	c.SetOperatingMode(ModeRx)
	if err := c.WriteRegister(uint16(RegRxGain), 0x96); err != nil {
		return err
	}
	return c.writeCommand(CmdSetRx, timeout24(timeout))
}

// SetRxDutyCycle alternates RX and sleep windows autonomously. Times are in
// chip ticks.
func (c *Controller) SetRxDutyCycle(rxTime, sleepTime uint32) error {
	buf := append(timeout24(rxTime), timeout24(sleepTime)...)
	if err := c.writeCommand(CmdSetRxDutyCycle, buf); err != nil {
		return err
	}
	c.SetOperatingMode(ModeRx)
	return nil
}

func (c *Controller) SetCad() error {
	if err := c.writeCommand(CmdSetCad, nil); err != nil {
		return err
	}
	c.SetOperatingMode(ModeCad)
	return nil
}

func (c *Controller) SetCadParams(symbolNum, detPeak, detMin, exitMode uint8, timeout uint32) error {
	buf := []byte{symbolNum, detPeak, detMin, exitMode}
	buf = append(buf, timeout24(timeout)...)
	return c.writeCommand(CmdSetCadParams, buf)
}

func (c *Controller) SetTxContinuousWave() error {
	if err := c.writeCommand(CmdSetTxContinuousWave, nil); err != nil {
		return err
	}
	c.SetOperatingMode(ModeTx)
	return nil
}

func (c *Controller) SetRegulatorMode(mode RegulatorMode) error {
	return c.writeCommand(CmdSetRegulatorMode, []byte{byte(mode)})
}

// Calibrate runs all calibration blocks (RC64k, RC13M, PLL, ADC, image).
func (c *Controller) Calibrate() error {
	return c.writeCommand(CmdCalibrate, []byte{0x7F})
}

// CalibrateImage recalibrates the image rejection for the band containing
// freq (Hz).
func (c *Controller) CalibrateImage(freq uint32) error {
	var calFreq [2]byte
	switch {
	case freq > 900000000:
		calFreq = [2]byte{0xE1, 0xE9}
	case freq > 850000000:
		calFreq = [2]byte{0xD7, 0xDB}
	case freq > 770000000:
		calFreq = [2]byte{0xC1, 0xC5}
	case freq > 460000000:
		calFreq = [2]byte{0x75, 0x81}
	default:
		calFreq = [2]byte{0x6B, 0x6F}
	}
	return c.writeCommand(CmdCalibrateImage, calFreq[:])
}

// SetRfFrequency programs the PLL. The first call after Init also runs an
// image calibration for the target band.
func (c *Controller) SetRfFrequency(freq uint32) error {
	c.mu.Lock()
	calibrated := c.imageCalibrated
	c.mu.Unlock()
	if !calibrated {
		if err := c.CalibrateImage(freq); err != nil {
			return err
		}
		c.mu.Lock()
		c.imageCalibrated = true
		c.mu.Unlock()
	}

	steps := uint32((uint64(freq) << 25) / uint64(XtalFreq))
	buf := []byte{
		byte(steps >> 24), byte(steps >> 16), byte(steps >> 8), byte(steps),
	}
	if err := c.writeCommand(CmdSetRfFrequency, buf); err != nil {
		return err
	}
	c.mu.Lock()
	c.frequency = freq
	c.mu.Unlock()
	return nil
}

func (c *Controller) SetPacketType(pt PacketType) error {
	c.mu.Lock()
	c.packetType = pt
	c.mu.Unlock()
	return c.writeCommand(CmdSetPacketType, []byte{byte(pt)})
}

// GetPacketType returns the cached packet type; the chip value only changes
// through SetPacketType.
func (c *Controller) GetPacketType() PacketType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.packetType
}

func (c *Controller) SetModulationParams(p *ModulationParams) error {
	var buf []byte
	switch p.PacketType {
	case PacketTypeGFSK:
		br := uint32(32 * (float64(XtalFreq) / float64(p.Gfsk.BitRate)))
		fdev := uint32(float64(p.Gfsk.Fdev) / FreqStep)
		buf = []byte{
			byte(br >> 16), byte(br >> 8), byte(br),
			p.Gfsk.ModulationShaping,
			p.Gfsk.Bandwidth,
			byte(fdev >> 16), byte(fdev >> 8), byte(fdev),
		}
	case PacketTypeLoRa:
		buf = []byte{
			p.LoRa.SpreadingFactor,
			p.LoRa.Bandwidth,
			p.LoRa.CodingRate,
			p.LoRa.LowDatarateOptimize,
		}
	default:
		return fmt.Errorf("modulation params: unknown packet type %d", p.PacketType)
	}
	return c.writeCommand(CmdSetModulationParams, buf)
}

func (c *Controller) SetPacketParams(p *PacketParams) error {
	var buf []byte
	switch p.PacketType {
	case PacketTypeGFSK:
		buf = []byte{
			byte(p.Gfsk.PreambleLength >> 8), byte(p.Gfsk.PreambleLength),
			p.Gfsk.PreambleMinDetect,
			p.Gfsk.SyncWordLength,
			p.Gfsk.AddrComp,
			p.Gfsk.HeaderType,
			p.Gfsk.PayloadLength,
			p.Gfsk.CrcLength,
			p.Gfsk.DcFree,
		}
	case PacketTypeLoRa:
		buf = []byte{
			byte(p.LoRa.PreambleLength >> 8), byte(p.LoRa.PreambleLength),
			p.LoRa.HeaderType,
			p.LoRa.PayloadLength,
			p.LoRa.CrcMode,
			p.LoRa.InvertIQ,
		}
	default:
		return fmt.Errorf("packet params: unknown packet type %d", p.PacketType)
	}
	return c.writeCommand(CmdSetPacketParams, buf)
}

func (c *Controller) SetBufferBaseAddress(txBase, rxBase uint8) error {
	return c.writeCommand(CmdSetBufferBaseAddress, []byte{txBase, rxBase})
}

func (c *Controller) SetDioIrqParams(irqMask, dio1Mask, dio2Mask, dio3Mask uint16) error {
	buf := []byte{
		byte(irqMask >> 8), byte(irqMask),
		byte(dio1Mask >> 8), byte(dio1Mask),
		byte(dio2Mask >> 8), byte(dio2Mask),
		byte(dio3Mask >> 8), byte(dio3Mask),
	}
	return c.writeCommand(CmdSetDioIrqParams, buf)
}

func (c *Controller) GetIrqStatus() (uint16, error) {
	r, err := c.readCommand(CmdGetIrqStatus, 2)
	if err != nil {
		return 0, err
	}
	return uint16(r[0])<<8 | uint16(r[1]), nil
}

func (c *Controller) ClearIrqStatus(mask uint16) error {
	return c.writeCommand(CmdClearIrqStatus, []byte{byte(mask >> 8), byte(mask)})
}

func (c *Controller) SetStopRxTimerOnPreambleDetect(enable bool) error {
	v := byte(0)
	if enable {
		v = 1
	}
	return c.writeCommand(CmdStopTimerOnPreamble, []byte{v})
}

func (c *Controller) SetLoRaSymbNumTimeout(symbNum uint8) error {
	return c.writeCommand(CmdSetLoRaSymbNumTimeout, []byte{symbNum})
}

func (c *Controller) SetPaConfig(paDutyCycle, hpMax, deviceSel, paLut uint8) error {
	return c.writeCommand(CmdSetPaConfig, []byte{paDutyCycle, hpMax, deviceSel, paLut})
}

// SetRfTxPower configures the PA for the requested output power in dBm,
// clamped to the SX1262 range.
func (c *Controller) SetRfTxPower(power int8) error {
	if power > 22 {
		power = 22
	} else if power < -9 {
		power = -9
	}
	if err := c.SetPaConfig(0x04, 0x07, 0x00, 0x01); err != nil {
		return err
	}
	// 140 mA current limit.
	if err := c.WriteRegister(uint16(RegOcp), 0x38); err != nil {
		return err
	}
	return c.writeCommand(CmdSetTxParams, []byte{byte(power), RampTime200Us})
}

// SendPayload writes the packet into the chip buffer and starts TX.
func (c *Controller) SendPayload(payload []byte, timeout uint32) error {
	if len(payload) > MaxPacketLength {
		return ErrPayloadTooLarge
	}
	if err := c.checkDeviceReady(); err != nil {
		return err
	}
	if err := c.hal.WriteBuffer(0x00, payload); err != nil {
		return err
	}
	return c.SetTx(timeout)
}

// GetPayload drains the last received packet from the chip buffer.
func (c *Controller) GetPayload(maxSize uint16) ([]byte, error) {
	r, err := c.readCommand(CmdGetRxBufferStatus, 2)
	if err != nil {
		return nil, err
	}
	size, offset := uint16(r[0]), r[1]
	if size > maxSize {
		return nil, ErrPayloadTooLarge
	}
	return c.hal.ReadBuffer(offset, int(size))
}

// GetPacketStatus reads and decodes the packet metrics of the current modem.
func (c *Controller) GetPacketStatus() (*PacketStatus, error) {
	r, err := c.readCommand(CmdGetPacketStatus, 3)
	if err != nil {
		return nil, err
	}
	st := &PacketStatus{PacketType: c.GetPacketType()}
	switch st.PacketType {
	case PacketTypeGFSK:
		st.Gfsk.RxStatus = r[0]
		st.Gfsk.RssiSync = -int16(r[1]) / 2
		st.Gfsk.RssiAvg = -int16(r[2]) / 2
	default:
		st.LoRa.RssiPkt = -int16(r[0]) / 2
		st.LoRa.SnrPkt = int8(r[1]) / 4
		st.LoRa.SignalRssiPkt = -int16(r[2]) / 2
	}
	return st, nil
}

// GetRssiInst reads the instantaneous RSSI in dBm.
func (c *Controller) GetRssiInst() (int16, error) {
	r, err := c.readCommand(CmdGetRssiInst, 1)
	if err != nil {
		return 0, err
	}
	return -int16(r[0]) / 2, nil
}

// GetRandom reads the noise-derived random register. Only meaningful while
// the receiver is running.
func (c *Controller) GetRandom() (uint32, error) {
	r, err := c.ReadRegisters(RegRandomNumberGen, 4)
	if err != nil {
		return 0, err
	}
	return uint32(r[0])<<24 | uint32(r[1])<<16 | uint32(r[2])<<8 | uint32(r[3]), nil
}

// SetSyncWord sets the 8-byte GFSK sync word.
func (c *Controller) SetSyncWord(syncWord [8]byte) error {
	return c.WriteRegisters(RegGfskSyncWord, syncWord[:])
}

// SetLoRaSyncWord sets the 2-byte LoRa sync word register.
func (c *Controller) SetLoRaSyncWord(word uint16) error {
	if err := c.WriteRegister(uint16(RegLrSyncWordMsb), byte(word>>8)); err != nil {
		return err
	}
	return c.WriteRegister(uint16(RegLrSyncWordMsb)+1, byte(word))
}

// GetLoRaSyncWord reads back the 2-byte LoRa sync word register.
func (c *Controller) GetLoRaSyncWord() (uint16, error) {
	msb, err := c.ReadRegister(uint16(RegLrSyncWordMsb))
	if err != nil {
		return 0, err
	}
	lsb, err := c.ReadRegister(uint16(RegLrSyncWordMsb) + 1)
	if err != nil {
		return 0, err
	}
	return uint16(msb)<<8 | uint16(lsb), nil
}

// SetWhiteningSeed sets the 9-bit GFSK whitening initial value.
func (c *Controller) SetWhiteningSeed(seed uint16) error {
	msb, err := c.ReadRegister(uint16(RegWhiteningSeedMsb))
	if err != nil {
		return err
	}
	msb = (msb & 0xFE) | byte((seed>>8)&0x01)
	if err := c.WriteRegister(uint16(RegWhiteningSeedMsb), msb); err != nil {
		return err
	}
	return c.WriteRegister(uint16(RegWhiteningSeedMsb)+1, byte(seed))
}

// Register and buffer passthroughs.

func (c *Controller) WriteRegister(addr uint16, val byte) error {
	if err := c.checkDeviceReady(); err != nil {
		return err
	}
	return c.hal.WriteRegisters(Register(addr), []byte{val})
}

func (c *Controller) ReadRegister(addr uint16) (byte, error) {
	if err := c.checkDeviceReady(); err != nil {
		return 0, err
	}
	r, err := c.hal.ReadRegisters(Register(addr), 1)
	if err != nil {
		return 0, err
	}
	return r[0], nil
}

func (c *Controller) WriteRegisters(addr Register, data []byte) error {
	if err := c.checkDeviceReady(); err != nil {
		return err
	}
	return c.hal.WriteRegisters(addr, data)
}

func (c *Controller) ReadRegisters(addr Register, n int) ([]byte, error) {
	if err := c.checkDeviceReady(); err != nil {
		return nil, err
	}
	return c.hal.ReadRegisters(addr, n)
}

func (c *Controller) WriteBuffer(offset uint8, data []byte) error {
	if err := c.checkDeviceReady(); err != nil {
		return err
	}
	return c.hal.WriteBuffer(offset, data)
}

func (c *Controller) ReadBuffer(offset uint8, n int) ([]byte, error) {
	if err := c.checkDeviceReady(); err != nil {
		return nil, err
	}
	return c.hal.ReadBuffer(offset, n)
}

// TxEnable and RxEnable drive the board antenna switch.
func (c *Controller) TxEnable() error { return c.hal.SetAntSwTx() }
func (c *Controller) RxEnable() error { return c.hal.SetAntSwRx() }

func timeout24(t uint32) []byte {
	return []byte{byte(t >> 16), byte(t >> 8), byte(t)}
}
