package gsx126x

type OpCode byte
type Register uint16

// SX126x SPI command opcodes.
const (
	CmdSetSleep              OpCode = 0x84
	CmdSetStandby            OpCode = 0x80
	CmdSetFs                 OpCode = 0xC1
	CmdSetTx                 OpCode = 0x83
	CmdSetRx                 OpCode = 0x82
	CmdStopTimerOnPreamble   OpCode = 0x9F
	CmdSetRxDutyCycle        OpCode = 0x94
	CmdSetCad                OpCode = 0xC5
	CmdSetTxContinuousWave   OpCode = 0xD1
	CmdSetTxInfinitePreamble OpCode = 0xD2
	CmdSetRegulatorMode      OpCode = 0x96
	CmdCalibrate             OpCode = 0x89
	CmdCalibrateImage        OpCode = 0x98
	CmdSetPaConfig           OpCode = 0x95
	CmdSetRxTxFallbackMode   OpCode = 0x93
	CmdWriteRegister         OpCode = 0x0D
	CmdReadRegister          OpCode = 0x1D
	CmdWriteBuffer           OpCode = 0x0E
	CmdReadBuffer            OpCode = 0x1E
	CmdSetDioIrqParams       OpCode = 0x08
	CmdGetIrqStatus          OpCode = 0x12
	CmdClearIrqStatus        OpCode = 0x02
	CmdSetDio2AsRfSwitch     OpCode = 0x9D
	CmdSetDio3AsTcxoCtrl     OpCode = 0x97
	CmdSetRfFrequency        OpCode = 0x86
	CmdSetPacketType         OpCode = 0x8A
	CmdGetPacketType         OpCode = 0x11
	CmdSetTxParams           OpCode = 0x8E
	CmdSetModulationParams   OpCode = 0x8B
	CmdSetPacketParams       OpCode = 0x8C
	CmdSetCadParams          OpCode = 0x88
	CmdSetBufferBaseAddress  OpCode = 0x8F
	CmdSetLoRaSymbNumTimeout OpCode = 0xA0
	CmdGetStatus             OpCode = 0xC0
	CmdGetRssiInst           OpCode = 0x15
	CmdGetRxBufferStatus     OpCode = 0x13
	CmdGetPacketStatus       OpCode = 0x14
	CmdGetDeviceErrors       OpCode = 0x17
	CmdClearDeviceErrors     OpCode = 0x07
)

// SX126x register addresses.
const (
	RegWhiteningSeedMsb Register = 0x06B8
	RegCrcSeedMsb       Register = 0x06BC
	RegCrcPolyMsb       Register = 0x06BE
	RegGfskSyncWord     Register = 0x06C0
	RegIqPolaritySetup  Register = 0x0736
	RegLrSyncWordMsb    Register = 0x0740
	RegRandomNumberGen  Register = 0x0819
	RegTxModulation     Register = 0x0889
	RegRxGain           Register = 0x08AC
	RegTxClampConfig    Register = 0x08D8
	RegOcp              Register = 0x08E7
	RegRtcControl       Register = 0x0902
	RegXtaTrim          Register = 0x0911
	RegEventMask        Register = 0x0944
)

// Latched IRQ status bits.
const (
	IrqRadioNone           uint16 = 0x0000
	IrqTxDone              uint16 = 0x0001
	IrqRxDone              uint16 = 0x0002
	IrqPreambleDetected    uint16 = 0x0004
	IrqSyncwordValid       uint16 = 0x0008
	IrqHeaderValid         uint16 = 0x0010
	IrqHeaderError         uint16 = 0x0020
	IrqCrcError            uint16 = 0x0040
	IrqCadDone             uint16 = 0x0080
	IrqCadActivityDetected uint16 = 0x0100
	IrqRxTxTimeout         uint16 = 0x0200
	IrqRadioAll            uint16 = 0xFFFF
)

// RadioMode is the chip operating mode as last explicitly set.
type RadioMode uint8

const (
	ModeSleep RadioMode = iota
	ModeStandbyRC
	ModeStandbyXOSC
	ModeFs
	ModeTx
	ModeRx
	ModeCad
)

// Modem selects between the two packet engines of the chip.
type Modem uint8

const (
	ModemFSK Modem = iota
	ModemLoRa
)

// RadioState is the coarse status reported to the upper layer.
type RadioState uint8

const (
	StateIdle RadioState = iota
	StateRxRunning
	StateTxRunning
	StateCad
)

type PacketType uint8

const (
	PacketTypeGFSK PacketType = 0x00
	PacketTypeLoRa PacketType = 0x01
)

type StandbyMode uint8

const (
	StdbyRC   StandbyMode = 0x00
	StdbyXOSC StandbyMode = 0x01
)

type RegulatorMode uint8

const (
	RegModeLDO  RegulatorMode = 0x00
	RegModeDCDC RegulatorMode = 0x01
)

// Power amplifier ramp times.
const (
	RampTime10Us   uint8 = 0x00
	RampTime20Us   uint8 = 0x01
	RampTime40Us   uint8 = 0x02
	RampTime80Us   uint8 = 0x03
	RampTime200Us  uint8 = 0x04
	RampTime800Us  uint8 = 0x05
	RampTime1700Us uint8 = 0x06
	RampTime3400Us uint8 = 0x07
)

// Sleep configuration bits.
const (
	SleepStartCold uint8 = 0x00
	SleepStartWarm uint8 = 0x04
	SleepRtcWakeup uint8 = 0x01
)

// LoRa bandwidth register codes.
const (
	LoRaBW007 uint8 = 0x00
	LoRaBW010 uint8 = 0x08
	LoRaBW015 uint8 = 0x01
	LoRaBW020 uint8 = 0x09
	LoRaBW031 uint8 = 0x02
	LoRaBW041 uint8 = 0x0A
	LoRaBW062 uint8 = 0x03
	LoRaBW125 uint8 = 0x04
	LoRaBW250 uint8 = 0x05
	LoRaBW500 uint8 = 0x06
)

// LoRa spreading factors.
const (
	LoRaSF5  uint8 = 0x05
	LoRaSF6  uint8 = 0x06
	LoRaSF7  uint8 = 0x07
	LoRaSF8  uint8 = 0x08
	LoRaSF9  uint8 = 0x09
	LoRaSF10 uint8 = 0x0A
	LoRaSF11 uint8 = 0x0B
	LoRaSF12 uint8 = 0x0C
)

// LoRa coding rates.
const (
	LoRaCR45 uint8 = 0x01
	LoRaCR46 uint8 = 0x02
	LoRaCR47 uint8 = 0x03
	LoRaCR48 uint8 = 0x04
)

// LoRa packet parameters.
const (
	LoRaHeaderExplicit uint8 = 0x00 // variable length
	LoRaHeaderImplicit uint8 = 0x01 // fixed length
	LoRaCrcOff         uint8 = 0x00
	LoRaCrcOn          uint8 = 0x01
	LoRaIQNormal       uint8 = 0x00
	LoRaIQInverted     uint8 = 0x01
)

// CAD parameters.
const (
	CadOn1Symbol   uint8 = 0x00
	CadOn2Symbols  uint8 = 0x01
	CadOn4Symbols  uint8 = 0x02
	CadOn8Symbols  uint8 = 0x03
	CadOn16Symbols uint8 = 0x04

	CadExitOnly uint8 = 0x00
	CadExitRx   uint8 = 0x01
	CadExitLbt  uint8 = 0x10
)

// GFSK modulation shaping.
const (
	ModShapingOff  uint8 = 0x00
	ModShapingBT03 uint8 = 0x08
	ModShapingBT05 uint8 = 0x09
	ModShapingBT07 uint8 = 0x0A
	ModShapingBT1  uint8 = 0x0B
)

// GFSK packet parameters.
const (
	PreambleDetector08Bits uint8 = 0x04
	AddrCompOff            uint8 = 0x00

	GfskPacketFixedLength    uint8 = 0x00
	GfskPacketVariableLength uint8 = 0x01

	GfskCrc1Byte      uint8 = 0x00
	GfskCrcOff        uint8 = 0x01
	GfskCrc2Bytes     uint8 = 0x02
	GfskCrc1ByteInv   uint8 = 0x04
	GfskCrc2BytesInv  uint8 = 0x06
	GfskCrc2BytesIBM  uint8 = 0xF1
	GfskCrc2BytesCCIT uint8 = 0xF2

	GfskDcFreeOff       uint8 = 0x00
	GfskDcFreeWhitening uint8 = 0x01
)

const (
	// LoRaWAN network sync words, pushed to RegLrSyncWordMsb.
	LoRaMacPublicSyncword  uint16 = 0x3444
	LoRaMacPrivateSyncword uint16 = 0x1424

	// XtalFreq is the reference oscillator frequency in Hz.
	XtalFreq uint32 = 32000000

	// FreqStep is the PLL resolution in Hz (XtalFreq / 2^25).
	FreqStep float64 = 0.95367431640625

	// RxTimeoutLoRaMax is the sentinel pushed to SetRx for continuous reception.
	RxTimeoutLoRaMax uint32 = 0xFFFFFF

	// Chip timeout fields count in 15.625 us steps, 64 per millisecond.
	RadioTickPerMs uint32 = 64

	MaxPacketLength = 255

	// Wakeup latencies in milliseconds.
	RadioWakeupTime uint32 = 3
	TcxoSetupTime   uint32 = 5
)
