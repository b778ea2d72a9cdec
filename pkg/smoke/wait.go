// Copyright (C) 2020, 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package smoke

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/wait"
)

// ErrPollExhausted is returned when a condition is still unmet after every attempt
var ErrPollExhausted = errors.New("condition not met within the polling budget")

// NewBackoff returns a constant interval backoff of the given number of attempts
func NewBackoff(interval time.Duration, attempts int) wait.Backoff {
	return wait.Backoff{
		Steps:    attempts,
		Duration: interval,
		Factor:   1.0,
	}
}

// Retry executes fn repeatedly until it returns done = true, errors, the context is
// cancelled, or the backoff runs out of steps. A condition error ends the wait at once,
// cancellation also interrupts the sleep between attempts.
func Retry(ctx context.Context, backoff wait.Backoff, fn func(ctx context.Context) (bool, error)) error {
	err := wait.ExponentialBackoffWithContext(ctx, backoff, func() (bool, error) {
		return fn(ctx)
	})
	if err == wait.ErrWaitTimeout {
		return ErrPollExhausted
	}
	return err
}
