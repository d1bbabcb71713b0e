package gsx126x

// GfskModulationParams describe the FSK modem modulation.
// BitRate and Fdev are in Hz, Bandwidth is a chip register code.
type GfskModulationParams struct {
	BitRate           uint32
	Fdev              uint32
	ModulationShaping uint8
	Bandwidth         uint8
}

// LoRaModulationParams describe the LoRa modem modulation.
// All fields are chip register codes.
type LoRaModulationParams struct {
	SpreadingFactor     uint8
	Bandwidth           uint8
	CodingRate          uint8
	LowDatarateOptimize uint8
}

// ModulationParams is the per-modem modulation image pushed wholesale to the
// chip. PacketType selects which branch is valid.
type ModulationParams struct {
	PacketType PacketType
	Gfsk       GfskModulationParams
	LoRa       LoRaModulationParams
}

// GfskPacketParams describe the FSK packet engine. PreambleLength is in bits.
type GfskPacketParams struct {
	PreambleLength    uint16
	PreambleMinDetect uint8
	SyncWordLength    uint8
	AddrComp          uint8
	HeaderType        uint8
	PayloadLength     uint8
	CrcLength         uint8
	DcFree            uint8
}

// LoRaPacketParams describe the LoRa packet engine. PreambleLength is in
// symbols.
type LoRaPacketParams struct {
	PreambleLength uint16
	HeaderType     uint8
	PayloadLength  uint8
	CrcMode        uint8
	InvertIQ       uint8
}

// PacketParams is the per-modem packet image pushed wholesale to the chip.
type PacketParams struct {
	PacketType PacketType
	Gfsk       GfskPacketParams
	LoRa       LoRaPacketParams
}

// LoRaPacketStatus holds signal metrics of the last received LoRa packet.
type LoRaPacketStatus struct {
	RssiPkt       int16
	SnrPkt        int8
	SignalRssiPkt int16
}

// GfskPacketStatus holds signal metrics of the last received FSK packet.
type GfskPacketStatus struct {
	RxStatus uint8
	RssiAvg  int16
	RssiSync int16
}

// PacketStatus is the decoded result of the GetPacketStatus command.
type PacketStatus struct {
	PacketType PacketType
	LoRa       LoRaPacketStatus
	Gfsk       GfskPacketStatus
}
