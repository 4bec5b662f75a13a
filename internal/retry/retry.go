package retry

import (
	"errors"
	"time"
)

// ErrDeadline is returned by Until when the deadline elapses before the
// predicate settles.
var ErrDeadline = errors.New("retry: deadline exceeded")

// Until invokes fn at the given interval until it settles or deadline passes.
// fn returns (done, err): done=true stops the loop and its err (nil or not) is
// returned as-is; done=false with a non-nil err aborts immediately. The
// predicate is always evaluated at least once, even when the deadline has
// already passed.
func Until(interval time.Duration, deadline time.Time, fn func() (bool, error)) error {
	if interval <= 0 {
		interval = time.Second
	}
	for {
		done, err := fn()
		if done {
			return err
		}
		if err != nil {
			return err
		}
		if !time.Now().Add(interval).Before(deadline) {
			return ErrDeadline
		}
		time.Sleep(interval)
	}
}

// Forever invokes fn at the given interval until it settles. It carries no
// deadline of its own; the invoking context is expected to bound it (the
// cluster manager kills actions that overrun their timeout).
func Forever(interval time.Duration, fn func() (bool, error)) error {
	if interval <= 0 {
		interval = time.Second
	}
	for {
		done, err := fn()
		if done {
			return err
		}
		if err != nil {
			return err
		}
		time.Sleep(interval)
	}
}
