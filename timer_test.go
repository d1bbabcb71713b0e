package gsx126x

import (
	"testing"
	"time"
)

func TestTimerFires(t *testing.T) {
	fired := make(chan struct{}, 1)
	tm := NewTimer()
	tm.Init(func() { fired <- struct{}{} })
	tm.SetValue(5)
	tm.Start()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}

func TestTimerStop(t *testing.T) {
	fired := make(chan struct{}, 1)
	tm := NewTimer()
	tm.Init(func() { fired <- struct{}{} })
	tm.SetValue(20)
	tm.Start()
	tm.Stop()

	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestTimerRestart(t *testing.T) {
	fired := make(chan struct{}, 2)
	tm := NewTimer()
	tm.Init(func() { fired <- struct{}{} })
	tm.SetValue(10)
	tm.Start()
	tm.Start() // restart rearms, it must not double-fire

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("restarted timer never fired")
	}
	select {
	case <-fired:
		t.Fatal("restart produced a second expiry")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTimerStartWithoutCallback(t *testing.T) {
	tm := NewTimer()
	tm.SetValue(1)
	tm.Start() // must not panic
	tm.Stop()
}
