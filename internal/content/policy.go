package content

import "time"

// Default attempt policy.
const (
	DefaultAttempts = 3
	DefaultTimeout  = 10 * time.Second
	DefaultBackoff  = time.Second
)

// DefaultReserved lists asset folders the host exposes next to albums.
var DefaultReserved = []string{"css", "js"}

// Policy bounds listing requests.
//
// Each attempt runs under its own Timeout. After failed attempt n (1-based) the
// resolver waits n*Backoff before trying again; the last attempt fails without waiting.
type Policy struct {
	Attempts int
	Timeout  time.Duration
	Backoff  time.Duration
}

// DefaultPolicy returns 3 attempts, 10s timeout, 1s linear backoff.
func DefaultPolicy() Policy {
	return Policy{
		Attempts: DefaultAttempts,
		Timeout:  DefaultTimeout,
		Backoff:  DefaultBackoff,
	}
}

// withDefaults fills unset fields.
func (p Policy) withDefaults() Policy {
	if p.Attempts <= 0 {
		p.Attempts = DefaultAttempts
	}
	if p.Timeout <= 0 {
		p.Timeout = DefaultTimeout
	}
	if p.Backoff < 0 {
		p.Backoff = 0
	}
	return p
}

// delay returns the wait after failed attempt n.
func (p Policy) delay(attempt int) time.Duration {
	return time.Duration(attempt) * p.Backoff
}
