// Package gsx126x drives Semtech SX1261/SX1262 sub-GHz transceivers over
// SPI. It covers both modems (LoRa and GFSK), translates semantic radio
// parameters into chip register images, supervises every TX/RX window with
// a software watchdog, and reconciles chip interrupts and watchdog expiries
// into a single stream of listener events.
//
// Two listener sets can be registered at once: RadioEvents for a LoRaWAN
// stack, gated on the public-network setting, and P2PEvents for
// point-to-point traffic, which always fires and carries the network flag.
//
// The DIO1 interrupt handler only records that an interrupt happened; all
// chip traffic runs in BgIrqProcess on a goroutine of the caller's
// choosing, typically a loop over Notify:
//
//	for range r.Notify() {
//		r.BgIrqProcess()
//	}
package gsx126x
