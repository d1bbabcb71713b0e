package gsx126x

// OnDioIrq is the DIO1 edge handler. It only records that an interrupt
// fired and pokes the notification channel; all chip traffic happens later
// in BgIrqProcess on the caller's goroutine.
func (r *Radio) OnDioIrq() {
	r.mu.Lock()
	r.irqFired = true
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Notify returns the channel poked on every DIO1 edge. A dispatch loop
// typically ranges over it and calls BgIrqProcess per wakeup. The channel
// has capacity one; edges coalesce, they are never lost.
func (r *Radio) Notify() <-chan struct{} {
	return r.notify
}

// IrqProcessAfterDeepSleep reconciles a DIO1 edge that may have been missed
// while the host slept. It forces a pass even though no edge was recorded.
func (r *Radio) IrqProcessAfterDeepSleep() {
	r.mu.Lock()
	r.irqFired = true
	r.mu.Unlock()
	r.BgIrqProcess()
}

func (r *Radio) onTxTimeoutIrq() {
	r.mu.Lock()
	r.timerTxTimeout = true
	r.mu.Unlock()

	r.txTimer.Stop()
	r.BgIrqProcess()
	if err := r.Standby(); err != nil {
		log.WithError(err).Error("standby after tx timeout")
	}
	if err := r.Sleep(); err != nil {
		log.WithError(err).Error("sleep after tx timeout")
	}
}

func (r *Radio) onRxTimeoutIrq() {
	r.mu.Lock()
	r.timerRxTimeout = true
	r.mu.Unlock()

	r.rxTimer.Stop()
	r.BgIrqProcess()
	if err := r.Standby(); err != nil {
		log.WithError(err).Error("standby after rx timeout")
	}
	if err := r.Sleep(); err != nil {
		log.WithError(err).Error("sleep after rx timeout")
	}
}

// BgIrqProcess is the reconciliation pass. It drains the latched chip IRQ
// status and the software timer-expiry flags and turns them into listener
// events. An outcome already reported from the chip status suppresses the
// matching timer flag within the same pass, so a race between the hardware
// event and the watchdog yields exactly one event. Safe to call with
// nothing pending.
func (r *Radio) BgIrqProcess() {
	r.procMu.Lock()
	defer r.procMu.Unlock()

	r.mu.Lock()
	fired := r.irqFired
	r.irqFired = false
	r.mu.Unlock()

	txTimeoutHandled := false
	rxTimeoutHandled := false

	if fired {
		irqStatus, err := r.ctrl.GetIrqStatus()
		if err != nil {
			log.WithError(err).Error("irq status read")
			return
		}
		if err := r.ctrl.ClearIrqStatus(IrqRadioAll); err != nil {
			log.WithError(err).Error("irq status clear")
		}
		log.Debugf("irq status = 0x%04X", irqStatus)

		if irqStatus&IrqTxDone != 0 {
			txTimeoutHandled = true
			r.txTimer.Stop()
			r.ctrl.SetOperatingMode(ModeStandbyRC)
			r.fireTxDone()
		}

		if irqStatus&IrqRxDone != 0 {
			rxTimeoutHandled = true
			r.rxTimer.Stop()
			if !r.rxContinuous {
				r.ctrl.SetOperatingMode(ModeStandbyRC)
				if err := r.applyImplicitHeaderTimeoutWorkaround(); err != nil {
					log.WithError(err).Error("implicit header timeout workaround")
				}
			}

			payload, perr := r.ctrl.GetPayload(MaxPacketLength)
			if perr != nil {
				log.WithError(perr).Error("rx payload read")
			}
			status, serr := r.ctrl.GetPacketStatus()
			if serr != nil {
				log.WithError(serr).Error("rx packet status read")
			}

			if irqStatus&IrqCrcError != 0 {
				r.fireRxError()
			} else {
				var rssi int16
				var snr int8
				if status != nil {
					if status.PacketType == PacketTypeLoRa {
						rssi = status.LoRa.RssiPkt
						snr = status.LoRa.SnrPkt
					} else {
						rssi = status.Gfsk.RssiSync
					}
				}
				r.fireRxDone(payload, uint16(len(payload)), rssi, snr)
			}
		}

		if irqStatus&IrqCadDone != 0 {
			r.ctrl.SetOperatingMode(ModeStandbyRC)
			if r.events != nil && r.events.CadDone != nil {
				r.events.CadDone(irqStatus&IrqCadActivityDetected != 0)
			}
		}

		if irqStatus&IrqRxTxTimeout != 0 {
			// One IRQ bit covers both directions; the tracked operating
			// mode disambiguates.
			switch r.ctrl.GetOperatingMode() {
			case ModeTx:
				txTimeoutHandled = true
				r.txTimer.Stop()
				r.ctrl.SetOperatingMode(ModeStandbyRC)
				r.fireTxTimeout(InterruptCause)
			case ModeRx:
				rxTimeoutHandled = true
				r.rxTimer.Stop()
				r.ctrl.SetOperatingMode(ModeStandbyRC)
				r.fireRxTimeout(InterruptCause)
			}
		}

		if irqStatus&IrqPreambleDetected != 0 {
			if r.events != nil && r.events.PreambleDetected != nil {
				r.events.PreambleDetected()
			}
		}

		if irqStatus&IrqHeaderError != 0 {
			r.rxTimer.Stop()
			if !r.rxContinuous {
				r.ctrl.SetOperatingMode(ModeStandbyRC)
			}
			r.fireRxError()
		}
	}

	r.mu.Lock()
	timerRx := r.timerRxTimeout
	timerTx := r.timerTxTimeout
	r.timerRxTimeout = false
	r.timerTxTimeout = false
	r.mu.Unlock()

	if timerRx && !rxTimeoutHandled {
		r.rxTimer.Stop()
		r.ctrl.SetOperatingMode(ModeStandbyRC)
		r.fireRxTimeout(TimerCause)
	}
	if timerTx && !txTimeoutHandled {
		r.txTimer.Stop()
		r.ctrl.SetOperatingMode(ModeStandbyRC)
		r.fireTxTimeout(TimerCause)
	}
}

// The parameterless listener set only fires on the public (LoRaWAN)
// network; the point-to-point set always fires and carries the network
// flag. CadDone and PreambleDetected have no point-to-point counterpart
// and are never gated.

func (r *Radio) fireTxDone() {
	if r.events != nil && r.events.TxDone != nil && r.pubCurrent {
		r.events.TxDone()
	}
	if r.p2p != nil && r.p2p.TxDone != nil {
		r.p2p.TxDone(r.pubCurrent)
	}
}

func (r *Radio) fireTxTimeout(cause TimeoutCause) {
	if r.events != nil && r.events.TxTimeout != nil && r.pubCurrent {
		r.events.TxTimeout(cause)
	}
	if r.p2p != nil && r.p2p.TxTimeout != nil {
		r.p2p.TxTimeout(r.pubCurrent, cause)
	}
}

func (r *Radio) fireRxDone(payload []byte, size uint16, rssi int16, snr int8) {
	if r.events != nil && r.events.RxDone != nil && r.pubCurrent {
		r.events.RxDone(payload, size, rssi, snr)
	}
	if r.p2p != nil && r.p2p.RxDone != nil {
		r.p2p.RxDone(r.pubCurrent, payload, size, rssi, snr)
	}
}

func (r *Radio) fireRxTimeout(cause TimeoutCause) {
	if r.events != nil && r.events.RxTimeout != nil && r.pubCurrent {
		r.events.RxTimeout(cause)
	}
	if r.p2p != nil && r.p2p.RxTimeout != nil {
		r.p2p.RxTimeout(r.pubCurrent, cause)
	}
}

func (r *Radio) fireRxError() {
	if r.events != nil && r.events.RxError != nil && r.pubCurrent {
		r.events.RxError()
	}
	if r.p2p != nil && r.p2p.RxError != nil {
		r.p2p.RxError(r.pubCurrent)
	}
}
