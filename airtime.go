package gsx126x

import "math"

type fskBandwidth struct {
	bandwidth uint32
	regValue  uint8
}

// fskBandwidths maps bandwidth in Hz to register codes, ascending. A request
// resolves to the next entry at or above it.
var fskBandwidths = []fskBandwidth{
	{4800, 0x1F},
	{5800, 0x17},
	{7300, 0x0F},
	{9700, 0x1E},
	{11700, 0x16},
	{14600, 0x0E},
	{19500, 0x1D},
	{23400, 0x15},
	{29300, 0x0D},
	{39000, 0x1C},
	{46900, 0x14},
	{58600, 0x0C},
	{78200, 0x1B},
	{93800, 0x13},
	{117300, 0x0B},
	{156200, 0x1A},
	{187200, 0x12},
	{234300, 0x0A},
	{312000, 0x19},
	{373600, 0x11},
	{467000, 0x09},
	{500000, 0x00},
}

// loRaBandwidths maps the caller's bandwidth index (0: 125 kHz, 1: 250 kHz,
// 2: 500 kHz, then the narrow bandwidths) to register codes.
var loRaBandwidths = []uint8{
	LoRaBW125, LoRaBW250, LoRaBW500, LoRaBW062, LoRaBW041,
	LoRaBW031, LoRaBW020, LoRaBW015, LoRaBW010, LoRaBW007,
}

// loRaSymbTime is the symbol duration in ms, indexed by
// [bandwidth code - 4][12 - spreading factor]. Covers SF12..SF7 at
// 125/250/500 kHz. Precomputed so airtime math needs no transcendentals.
var loRaSymbTime = [3][6]float64{
	{32.768, 16.384, 8.192, 4.096, 2.048, 1.024}, // 125 kHz
	{16.384, 8.192, 4.096, 2.048, 1.024, 0.512},  // 250 kHz
	{8.192, 4.096, 2.048, 1.024, 0.512, 0.256},   // 500 kHz
}

// FskBandwidthRegValue returns the register code for the smallest table
// bandwidth at or above the requested value in Hz. A request of 0 or above
// the table maps to the widest defined code.
func FskBandwidthRegValue(bandwidth uint32) uint8 {
	if bandwidth == 0 {
		return 0x1F
	}
	for i := 0; i < len(fskBandwidths)-1; i++ {
		if bandwidth >= fskBandwidths[i].bandwidth && bandwidth < fskBandwidths[i+1].bandwidth {
			return fskBandwidths[i+1].regValue
		}
	}
	if bandwidth < fskBandwidths[0].bandwidth {
		return fskBandwidths[0].regValue
	}
	return 0x1F
}

// TimeOnAir computes the on-air duration in milliseconds for a packet of
// pktLen payload bytes under the currently configured parameters. Valid only
// after SetRxConfig or SetTxConfig.
func (r *Radio) TimeOnAir(modem Modem, pktLen uint8) uint32 {
	switch modem {
	case ModemFSK:
		return r.fskTimeOnAir(pktLen)
	case ModemLoRa:
		return r.loRaTimeOnAir(pktLen)
	}
	return 0
}

func (r *Radio) fskTimeOnAir(pktLen uint8) uint32 {
	var crcLen float64
	switch r.packet.Gfsk.CrcLength {
	case GfskCrc2Bytes, GfskCrc2BytesInv, GfskCrc2BytesIBM, GfskCrc2BytesCCIT:
		crcLen = 2
	case GfskCrc1Byte, GfskCrc1ByteInv:
		crcLen = 1
	}
	header := 1.0
	if r.packet.Gfsk.HeaderType == GfskPacketFixedLength {
		header = 0.0
	}
	bits := 8 * (float64(r.packet.Gfsk.PreambleLength) +
		float64(r.packet.Gfsk.SyncWordLength>>3) +
		header + float64(pktLen) + crcLen)
	return uint32(math.Round(bits / float64(r.modulation.Gfsk.BitRate) * 1e3))
}

func (r *Radio) loRaTimeOnAir(pktLen uint8) uint32 {
	bw := int(r.modulation.LoRa.Bandwidth) - 4
	sf := int(r.modulation.LoRa.SpreadingFactor)
	if bw < 0 || bw > 2 || sf < 7 || sf > 12 {
		// Symbol-time table only covers SF7..SF12 at 125/250/500 kHz.
		return 0
	}
	ts := loRaSymbTime[bw][12-sf]
	tPreamble := (float64(r.packet.LoRa.PreambleLength) + 4.25) * ts

	ldro := 0.0
	if r.modulation.LoRa.LowDatarateOptimize > 0 {
		ldro = 2
	}
	implicit := 0.0
	if r.packet.LoRa.HeaderType == LoRaHeaderImplicit {
		implicit = 20
	}
	tmp := math.Ceil((8*float64(pktLen)-4*float64(sf)+28+
		16*float64(r.packet.LoRa.CrcMode)-implicit)/
		(4*(float64(sf)-ldro))) *
		float64((r.modulation.LoRa.CodingRate%4)+4)
	nPayload := 8.0
	if tmp > 0 {
		nPayload += tmp
	}
	tPayload := nPayload * ts

	return uint32(math.Floor(tPreamble + tPayload + 0.999))
}
