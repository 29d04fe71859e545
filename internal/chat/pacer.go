package chat

import (
	"math/rand"
	"sync"
	"time"
)

// Pacer decides how long a reply waits before it is shown.
type Pacer interface {
	ReplyDelay() time.Duration
}

// RandomPacer waits Base plus a uniform jitter in [0, Jitter).
type RandomPacer struct {
	Base   time.Duration
	Jitter time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomPacer creates a pacer seeded from the clock.
func NewRandomPacer(base, jitter time.Duration) *RandomPacer {
	return &RandomPacer{
		Base:   base,
		Jitter: jitter,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ReplyDelay implements Pacer.
func (p *RandomPacer) ReplyDelay() time.Duration {
	if p.Jitter <= 0 {
		return p.Base
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rnd == nil {
		p.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return p.Base + time.Duration(p.rnd.Int63n(int64(p.Jitter)))
}

// FixedPacer always returns the same delay.
type FixedPacer time.Duration

// ReplyDelay implements Pacer.
func (p FixedPacer) ReplyDelay() time.Duration {
	return time.Duration(p)
}
