package common

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Analysis struct {
	allowed bool          // If the request is allowed
	wait    time.Duration // The minimal time to wait before the request is allowed
}

type RateLimiter struct {
	mu           sync.Mutex
	restrictions []Restriction // Restrictions to consider
	history      []time.Time   // History of requests
	duration     time.Duration // Min duration to wait for all restrictions to be lifted
	cooldown     Stopwatch     // Started when the server reports a rate limit
	now          func() time.Time
}

func NewRateLimiter(restrictions []Restriction, cooldown time.Duration) *RateLimiter {
	rl := &RateLimiter{now: time.Now}
	// Restrictions are just a copy of the provided ones
	rl.restrictions = make([]Restriction, len(restrictions))
	copy(rl.restrictions, restrictions)
	// Duration
	for _, restriction := range restrictions {
		if restriction.Duration > rl.duration {
			rl.duration = restriction.Duration
		}
	}
	rl.cooldown = NewStopwatch(cooldown)
	return rl
}

// Decide if a request is allowed right now. If it is, it gets
// recorded in the history. Requests are never queued: a rejected
// request is expected to be tried again on the next cycle
func (rl *RateLimiter) Allowed() (bool, time.Duration) {

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// The server asked us to calm down
	if stopped, remaining := rl.cooldown.Stopped(); !stopped {
		log.Warn().Msg(fmt.Sprintf("Rejecting request, server rate limit cooldown has %.0f seconds left", remaining.Seconds()))
		return false, remaining
	}
	rl.cooldown.Stop()

	// Trim history first
	currentTime := rl.now()
	rl.trim(currentTime)

	analysis := rl.analyse(currentTime)
	if !analysis.allowed {
		log.Warn().Msg(fmt.Sprintf("Rejecting request because restrictions do not allow it for %.0f seconds", analysis.wait.Seconds()))
		return false, analysis.wait
	}

	log.Debug().Msg("Allowing request")
	rl.history = append(rl.history, currentTime)
	return true, 0
}

func (rl *RateLimiter) ReceivedRateLimit() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.cooldown.Start()
}

// Trim the current history, leaving only the requests
// that are young enough to be affected by at least one restriction
func (rl *RateLimiter) trim(currentTime time.Time) {
	// Find the index from which we need to keep the history.
	// Start searching at the end of the slice.
	// I assume times are stored in chronological order
	index := 0
	for i := len(rl.history) - 1; i >= 0; i-- {
		if currentTime.Sub(rl.history[i]) > rl.duration {
			index = i + 1
			break
		}
	}
	rl.history = rl.history[index:]
}

func (rl *RateLimiter) analyse(currentTime time.Time) Analysis {

	// Merge the analyses of every restriction
	var wait time.Duration = 0
	allowed := true
	for _, restriction := range rl.restrictions {
		analysis := restriction.Analyse(rl.history, currentTime)
		allowed = allowed && analysis.allowed
		if analysis.wait > wait {
			wait = analysis.wait
		}
	}
	return Analysis{allowed, wait}
}
