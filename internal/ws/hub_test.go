package ws

import (
	"testing"
	"time"

	"creative-builder/internal/model"
)

func TestHubBroadcastReachesClients(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Close()

	c := &Client{hub: h, send: make(chan []byte, 4)}
	h.Register(c)
	h.BroadcastEvent(model.Event{Type: "style.updated"})

	select {
	case msg := <-c.send:
		if len(msg) == 0 {
			t.Fatal("empty broadcast payload")
		}
	case <-time.After(time.Second):
		t.Fatal("broadcast not delivered")
	}
}

func TestHubUnregisterAfterCloseReturns(t *testing.T) {
	h := NewHub()
	go h.Run()

	c := &Client{hub: h, send: make(chan []byte, 4)}
	h.Register(c)
	h.Close()
	h.Close()

	done := make(chan struct{})
	go func() {
		h.Unregister(c)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Unregister blocked after Close")
	}

	late := &Client{hub: h, send: make(chan []byte, 4)}
	registered := make(chan struct{})
	go func() {
		h.Register(late)
		close(registered)
	}()
	select {
	case <-registered:
	case <-time.After(time.Second):
		t.Fatal("Register blocked after Close")
	}
	if _, ok := <-late.send; ok {
		t.Fatal("expected late client's send channel to be closed")
	}
}
