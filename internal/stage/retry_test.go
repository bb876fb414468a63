package stage

import (
	"errors"
	"testing"
	"time"
)

func TestRetryPolicyDelay(t *testing.T) {
	p := RetryPolicy{BackoffUnit: 5 * time.Second, BackoffFactor: 2, MaxBackoff: 100 * time.Second}

	cases := []struct {
		retry uint32
		want  time.Duration
	}{
		{0, 5 * time.Second},
		{1, 10 * time.Second},
		{2, 20 * time.Second},
		{4, 80 * time.Second},
		{5, 100 * time.Second}, // would be 160s, clamped
		{10, 100 * time.Second},
	}
	for _, c := range cases {
		if got := p.delay(c.retry); got != c.want {
			t.Errorf("delay(%d) = %v, want %v", c.retry, got, c.want)
		}
	}
}

func TestRetryOperationSucceedsWithoutRetry(t *testing.T) {
	calls := 0
	err := retryOperation("test", func() error {
		calls++
		return nil
	}, DefaultRetryPolicy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryOperationRetriesOnRetryableError(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 3, BackoffUnit: time.Millisecond, BackoffFactor: 1, MaxBackoff: time.Millisecond}
	calls := 0
	err := retryOperation("test", func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New("transient")}
		}
		return nil
	}, policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryOperationStopsImmediatelyOnNonRetryableError(t *testing.T) {
	calls := 0
	wantErr := errors.New("fatal")
	err := retryOperation("test", func() error {
		calls++
		return wantErr
	}, DefaultRetryPolicy)
	if err != wantErr {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on non-retryable error)", calls)
	}
}

func TestRetryOperationExhaustion(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 2, BackoffUnit: time.Millisecond, BackoffFactor: 1, MaxBackoff: time.Millisecond}
	calls := 0
	err := retryOperation("test", func() error {
		calls++
		return &RetryableError{Err: errors.New("transient")}
	}, policy)
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if calls != 3 { // initial attempt + 2 retries
		t.Errorf("calls = %d, want 3", calls)
	}
}
