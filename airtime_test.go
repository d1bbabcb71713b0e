package gsx126x

import "testing"

func TestFskBandwidthRegValue(t *testing.T) {
	tests := []struct {
		bandwidth uint32
		want      uint8
	}{
		{0, 0x1F},      // unset, widest
		{4000, 0x1F},   // below table
		{4800, 0x17},   // exact match resolves to the next entry up
		{5000, 0x17},
		{100000, 0x0B}, // between 93800 and 117300
		{467000, 0x00},
		{499999, 0x00},
		{600000, 0x1F}, // past table, widest
	}
	for _, tt := range tests {
		if got := FskBandwidthRegValue(tt.bandwidth); got != tt.want {
			t.Errorf("FskBandwidthRegValue(%d) = 0x%02X, want 0x%02X",
				tt.bandwidth, got, tt.want)
		}
	}
}

func TestLoRaTimeOnAir(t *testing.T) {
	r, _ := newTestRadio(t)
	// SF7, 125 kHz, CR 4/5, 8-symbol preamble, explicit header, no CRC.
	setLoRaRx(t, r, 0, 7, 8, 5, false, false, false)

	if got := r.TimeOnAir(ModemLoRa, 10); got != 37 {
		t.Errorf("TimeOnAir(10) = %d ms, want 37", got)
	}
}

func TestLoRaTimeOnAirMonotonic(t *testing.T) {
	r, _ := newTestRadio(t)
	setLoRaRx(t, r, 0, 9, 8, 5, false, true, false)

	prev := uint32(0)
	for l := 1; l <= 255; l++ {
		got := r.TimeOnAir(ModemLoRa, uint8(l))
		if got < prev {
			t.Fatalf("airtime shrank from %d to %d ms at %d bytes", prev, got, l)
		}
		prev = got
	}
}

func TestLoRaTimeOnAirOutsideTable(t *testing.T) {
	r, _ := newTestRadio(t)
	// SF5 has no symbol-time entry.
	setLoRaRx(t, r, 0, 5, 12, 5, false, true, false)

	if got := r.TimeOnAir(ModemLoRa, 10); got != 0 {
		t.Errorf("TimeOnAir = %d for an untabulated rate, want 0", got)
	}
}

func TestFskTimeOnAir(t *testing.T) {
	r, _ := newTestRadio(t)
	// 50 kbit/s, 5-byte preamble, variable length, 2-byte CRC.
	err := r.SetRxConfig(ModemFSK, 50000, 50000, 0, 0, 5, 0,
		false, 0, true, false, 0, false, false)
	if err != nil {
		t.Fatal(err)
	}

	// (40 preamble + 3 sync + 1 length + 10 payload + 2 crc) bytes
	// = 448 bits at 50 kbit/s = 8.96 ms.
	if got := r.TimeOnAir(ModemFSK, 10); got != 9 {
		t.Errorf("TimeOnAir(10) = %d ms, want 9", got)
	}
}
