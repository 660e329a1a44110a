package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPreviewSchedulerCoalesces(t *testing.T) {
	var calls int32
	done := make(chan string, 4)
	p := NewPreviewScheduler(30*time.Millisecond, func(id string) {
		atomic.AddInt32(&calls, 1)
		done <- id
	})
	defer p.Stop()

	for i := 0; i < 10; i++ {
		p.Request("a")
	}
	p.Request("b")

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-done:
			got[id] = true
		case <-time.After(2 * time.Second):
			t.Fatal("render not fired")
		}
	}
	time.Sleep(60 * time.Millisecond)
	if n := atomic.LoadInt32(&calls); n != 2 || !got["a"] || !got["b"] {
		t.Fatalf("calls=%d got=%v", n, got)
	}
}

func TestPreviewSchedulerReadsLatestState(t *testing.T) {
	var mu sync.Mutex
	state := 0
	seen := make(chan int, 1)
	p := NewPreviewScheduler(20*time.Millisecond, func(string) {
		mu.Lock()
		defer mu.Unlock()
		seen <- state
	})
	defer p.Stop()

	for i := 1; i <= 5; i++ {
		mu.Lock()
		state = i
		mu.Unlock()
		p.Request("s")
	}
	select {
	case v := <-seen:
		if v != 5 {
			t.Fatalf("rendered stale state %d", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("render not fired")
	}
}

func TestPreviewSchedulerCancelAndStop(t *testing.T) {
	var calls int32
	p := NewPreviewScheduler(20*time.Millisecond, func(string) { atomic.AddInt32(&calls, 1) })
	p.Request("x")
	p.Cancel("x")
	p.Stop()
	p.Request("y")
	time.Sleep(80 * time.Millisecond)
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Fatalf("unexpected renders: %d", n)
	}
}
