package gsx126x

import (
	"sync"
	"time"
)

// Timer is a one-shot countdown timer. The driver arms one per direction
// (TX, RX) as a software watchdog behind the chip's own timeout field.
type Timer interface {
	// Init registers the expiry callback. Must be called before Start.
	Init(cb func())
	// SetValue sets the countdown duration in milliseconds.
	SetValue(ms uint32)
	// Start arms the timer, restarting it if already running.
	Start()
	// Stop disarms the timer. Stopping a stopped timer is a no-op.
	Stop()
}

// oneShotTimer implements Timer on the host runtime clock.
type oneShotTimer struct {
	mu sync.Mutex
	d  time.Duration
	t  *time.Timer
	cb func()
}

// NewTimer returns a Timer backed by time.AfterFunc.
func NewTimer() Timer {
	return &oneShotTimer{}
}

func (o *oneShotTimer) Init(cb func()) {
	o.mu.Lock()
	o.cb = cb
	o.mu.Unlock()
}

func (o *oneShotTimer) SetValue(ms uint32) {
	o.mu.Lock()
	o.d = time.Duration(ms) * time.Millisecond
	o.mu.Unlock()
}

func (o *oneShotTimer) Start() {
	o.mu.Lock()
	if o.t != nil {
		o.t.Stop()
	}
	cb := o.cb
	if cb == nil {
		o.mu.Unlock()
		return
	}
	o.t = time.AfterFunc(o.d, cb)
	o.mu.Unlock()
}

func (o *oneShotTimer) Stop() {
	o.mu.Lock()
	if o.t != nil {
		o.t.Stop()
		o.t = nil
	}
	o.mu.Unlock()
}
