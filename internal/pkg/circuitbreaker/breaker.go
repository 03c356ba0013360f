package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned by Do while the breaker rejects calls.
var ErrOpen = errors.New("circuit breaker open")

// State represents the circuit breaker state.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// Result says how a call's error counts against the breaker.
type Result int

const (
	Success Result = iota
	Failure
	// Ignored leaves the failure count untouched and frees a half-open slot.
	Ignored
)

// Breaker implements the circuit breaker pattern.
type Breaker struct {
	mu          sync.Mutex
	state       State
	failures    int
	threshold   int
	timeout     time.Duration
	halfOpenMax int
	lastFailure time.Time
	halfOpenCnt int

	now      func() time.Time
	onChange func(from, to State)
}

// NewBreaker creates a new circuit breaker. A threshold <= 0 disables tripping.
func NewBreaker(threshold int, timeout time.Duration, halfOpenMax int) *Breaker {
	if halfOpenMax <= 0 {
		halfOpenMax = 1
	}
	return &Breaker{
		state:       Closed,
		threshold:   threshold,
		timeout:     timeout,
		halfOpenMax: halfOpenMax,
		now:         time.Now,
	}
}

// OnStateChange registers fn to run (under the breaker lock) on every transition.
func (b *Breaker) OnStateChange(fn func(from, to State)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

// Do runs fn when the breaker allows it and records the result. classify maps a
// non-nil error to a Result; with a nil classify every error is a Failure.
func (b *Breaker) Do(fn func() error, classify func(error) Result) error {
	if !b.Allow() {
		return ErrOpen
	}
	err := fn()
	res := Success
	if err != nil {
		res = Failure
		if classify != nil {
			res = classify(err)
		}
	}
	switch res {
	case Success:
		b.RecordSuccess()
	case Failure:
		b.RecordFailure()
	default:
		b.release()
	}
	return err
}

// Allow checks if the request should be allowed.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Open {
		if b.now().Sub(b.lastFailure) > b.timeout {
			b.transition(HalfOpen)
			b.halfOpenCnt = 1
			return true
		}
		return false
	}

	if b.state == HalfOpen {
		if b.halfOpenCnt >= b.halfOpenMax {
			return false
		}
		b.halfOpenCnt++
		return true
	}

	return true
}

// RecordSuccess records a successful request.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	if b.state == HalfOpen {
		b.transition(Closed)
	}
}

// RecordFailure records a failed request.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.lastFailure = b.now()

	switch b.state {
	case Closed:
		if b.threshold > 0 && b.failures >= b.threshold {
			b.transition(Open)
		}
	case HalfOpen:
		b.transition(Open)
	}
}

// State returns the current circuit breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == HalfOpen && b.halfOpenCnt > 0 {
		b.halfOpenCnt--
	}
}

func (b *Breaker) transition(to State) {
	from := b.state
	b.state = to
	if b.onChange != nil && from != to {
		b.onChange(from, to)
	}
}
