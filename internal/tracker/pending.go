package tracker

import (
	"sync"
	"time"

	"github.com/misterclayt0n/corefit/internal/models"
)

// pendingSave holds at most one scheduled save. Scheduling again replaces
// the payload and restarts the delay, so a burst of edits becomes one call
// carrying the last state. All methods are safe to call concurrently,
// including schedule while another goroutine is in wait.
type pendingSave struct {
	delay time.Duration
	fire  func([]models.PerformedExercise)

	mu      sync.Mutex
	idle    *sync.Cond // signaled when armed drops to zero
	timer   *time.Timer
	payload []models.PerformedExercise
	armed   int // timers that are scheduled or still running their callback
}

func newPendingSave(delay time.Duration, fire func([]models.PerformedExercise)) *pendingSave {
	p := &pendingSave{delay: delay, fire: fire}
	p.idle = sync.NewCond(&p.mu)
	return p
}

func (p *pendingSave) schedule(payload []models.PerformedExercise) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.payload = payload
	if p.timer != nil && p.timer.Stop() {
		p.timer.Reset(p.delay)
		return
	}
	p.armed++
	p.timer = time.AfterFunc(p.delay, p.run)
}

func (p *pendingSave) run() {
	defer p.release()

	p.mu.Lock()
	payload := p.payload
	p.payload = nil
	p.mu.Unlock()

	if payload == nil {
		return
	}
	p.fire(payload)
}

func (p *pendingSave) release() {
	p.mu.Lock()
	p.releaseLocked()
	p.mu.Unlock()
}

func (p *pendingSave) releaseLocked() {
	p.armed--
	if p.armed == 0 {
		p.idle.Broadcast()
	}
}

// cancel disarms the timer and drops the payload. A callback that already
// started keeps running; use wait to block on it.
func (p *pendingSave) cancel() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	hadPayload := p.payload != nil
	if p.timer != nil && p.timer.Stop() {
		p.releaseLocked()
	}
	p.timer = nil
	p.payload = nil
	return hadPayload
}

func (p *pendingSave) pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.payload != nil
}

// wait blocks until no timer is armed or running.
func (p *pendingSave) wait() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.armed > 0 {
		p.idle.Wait()
	}
}
