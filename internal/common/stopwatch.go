package common

import (
	"time"
)

// This stopwatch keeps track of time. You can set a timeout for it,
// make it start counting time, and ask it if the timeout has been reached
type Stopwatch struct {
	Timeout   time.Duration
	startTime time.Time
	Running   bool
}

func NewStopwatch(timeout time.Duration) Stopwatch {
	return Stopwatch{Timeout: timeout}
}

func (s *Stopwatch) Start() {
	s.Running = true
	s.startTime = time.Now()
}

func (s *Stopwatch) Stop() {
	s.Running = false
}

// Report if the timeout has been reached. If not, also return
// how much time is left until it is.
// A stopwatch that is not running is always considered stopped
func (s *Stopwatch) Stopped() (bool, time.Duration) {
	if !s.Running {
		return true, 0
	}
	remaining := time.Until(s.startTime.Add(s.Timeout))
	if remaining <= 0 {
		return true, 0
	}
	return false, remaining
}

