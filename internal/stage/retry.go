package stage

import (
	"math"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// RetryPolicy governs how a phase (bootstrap, execute, or teardown) is
// retried after a retryable error. Delay for retry n is
// min(BackoffUnit * BackoffFactor^n, MaxBackoff).
type RetryPolicy struct {
	MaxRetries    uint32
	BackoffUnit   time.Duration
	BackoffFactor float64
	MaxBackoff    time.Duration
	// Dismissible, when true and MaxRetries is exhausted, lets the stage
	// surrender gracefully (marked Done) instead of aborting the daemon.
	Dismissible bool
}

// DefaultRetryPolicy matches the original system's defaults.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:    20,
	BackoffUnit:   5 * time.Second,
	BackoffFactor: 2,
	MaxBackoff:    100 * time.Second,
}

func (p RetryPolicy) delay(retry uint32) time.Duration {
	units := math.Pow(p.BackoffFactor, float64(retry))
	backoff := time.Duration(float64(p.BackoffUnit) * units)
	if backoff > p.MaxBackoff {
		return p.MaxBackoff
	}
	return backoff
}

// RetryableError signals that the operation may be retried per the current
// RetryPolicy.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// PanicError signals an unrecoverable worker bug: the stage (and, unless
// dismissible, the daemon) must terminate.
type PanicError struct {
	Err error
}

func (e *PanicError) Error() string { return e.Err.Error() }
func (e *PanicError) Unwrap() error { return e.Err }

// exhaustedErr is returned by retryOperation when MaxRetries is used up.
type exhaustedErr struct {
	last error
}

func (e *exhaustedErr) Error() string { return "retries exhausted: " + e.last.Error() }
func (e *exhaustedErr) Unwrap() error { return e.last }

// retryOperation runs op, retrying on *RetryableError per policy. A
// *PanicError, or any other error, is returned immediately without
// retrying.
func retryOperation(name string, op func() error, policy RetryPolicy) error {
	var retry uint32
	for {
		err := op()
		if err == nil {
			return nil
		}

		var retryable *RetryableError
		if !asRetryable(err, &retryable) {
			return err
		}

		if retry >= policy.MaxRetries {
			return &exhaustedErr{last: err}
		}

		retry++
		delay := policy.delay(retry)
		log.Warn("stage: retrying after error", "stage", name, "attempt", retry, "backoff", delay, "err", err)
		time.Sleep(delay)
	}
}

func asRetryable(err error, target **RetryableError) bool {
	re, ok := err.(*RetryableError)
	if !ok {
		return false
	}
	*target = re
	return true
}
