package client

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// quotaBreaker holds back catalog requests for a fixed backoff once the
// catalog has answered 429.
type quotaBreaker struct {
	mu        sync.Mutex
	backoff   time.Duration
	openUntil time.Time
	now       func() time.Time
}

func newQuotaBreaker(backoff time.Duration) *quotaBreaker {
	return &quotaBreaker{backoff: backoff, now: time.Now}
}

// Remaining reports how long requests stay blocked. Zero means the breaker
// is closed.
func (b *quotaBreaker) Remaining() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.openUntil.IsZero() {
		return 0
	}
	if remaining := b.openUntil.Sub(b.now()); remaining > 0 {
		return remaining
	}

	b.openUntil = time.Time{}
	log.Infof("✅ Catalog quota backoff over, requests are allowed again")
	return 0
}

// Trip blocks requests for the backoff, counted from now. Tripping an open
// breaker restarts the backoff.
func (b *quotaBreaker) Trip() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.openUntil = b.now().Add(b.backoff)
	log.Warnf("🚫 Catalog quota exceeded, requests disabled until %v", b.openUntil.Format("15:04:05"))
}
