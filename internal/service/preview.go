package service

import (
	"sync"
	"time"
)

// PreviewScheduler coalesces preview requests per session. A request made
// while one is pending is absorbed by it; renders run one at a time, so the
// last one pushed always reflects the latest edit.
type PreviewScheduler struct {
	interval time.Duration
	render   func(sessionID string)

	mu       sync.Mutex
	pending  map[string]*time.Timer
	stopped  bool
	renderMu sync.Mutex
}

func NewPreviewScheduler(interval time.Duration, render func(sessionID string)) *PreviewScheduler {
	return &PreviewScheduler{
		interval: interval,
		render:   render,
		pending:  map[string]*time.Timer{},
	}
}

func (p *PreviewScheduler) Request(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	if _, ok := p.pending[sessionID]; ok {
		return
	}
	p.pending[sessionID] = time.AfterFunc(p.interval, func() {
		p.mu.Lock()
		delete(p.pending, sessionID)
		p.mu.Unlock()

		p.renderMu.Lock()
		defer p.renderMu.Unlock()
		p.render(sessionID)
	})
}

// Cancel drops a pending request for sessionID.
func (p *PreviewScheduler) Cancel(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.pending[sessionID]; ok {
		t.Stop()
		delete(p.pending, sessionID)
	}
}

func (p *PreviewScheduler) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	for id, t := range p.pending {
		t.Stop()
		delete(p.pending, id)
	}
}
