// Package retry runs flaky operations with exponential backoff.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type Operation = func() error

// permanentError stops Do from retrying.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Do returns the unwrapped error.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// waitHinter is implemented by errors that carry a server supplied delay,
// usually taken from a Retry-After header.
type waitHinter interface {
	RetryAfter() time.Duration
}

type Config struct {
	MaxRetries    int
	BackoffFactor float64
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	Jitter        time.Duration
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxRetries:    3,
		BackoffFactor: 2,
		InitialDelay:  250 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		Jitter:        50 * time.Millisecond,
	}
}

type Retrier struct {
	config *Config
}

func NewRetrier(config *Config) *Retrier {
	if config == nil {
		config = NewDefaultConfig()
	}
	return &Retrier{config: config}
}

func NewDefaultRetrier() *Retrier {
	return NewRetrier(NewDefaultConfig())
}

// Do calls op until it succeeds, returns a Permanent error, the attempts run
// out or ctx is done. The last error is returned as is.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	backoff := r.config.InitialDelay

	for attempt := 0; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt >= r.config.MaxRetries {
			return err
		}

		timer := time.NewTimer(r.wait(backoff, err))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		backoff = min(time.Duration(float64(backoff)*r.config.BackoffFactor), r.config.MaxDelay)
	}
}

// wait picks the pause before the next attempt. A server hint wins over the
// backoff when it is longer, but neither may exceed MaxDelay.
func (r *Retrier) wait(backoff time.Duration, err error) time.Duration {
	d := backoff
	var hint waitHinter
	if errors.As(err, &hint) {
		d = max(d, hint.RetryAfter())
	}
	d = min(d, r.config.MaxDelay)

	if r.config.Jitter > 0 {
		d += time.Duration(rand.Int64N(int64(r.config.Jitter)))
	}
	return d
}

// ParseRetryAfter reads a Retry-After header value given either as delay
// seconds or as an HTTP date. Unparseable or past values yield zero.
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	at, err := http.ParseTime(value)
	if err != nil || !at.After(now) {
		return 0
	}
	return at.Sub(now)
}
