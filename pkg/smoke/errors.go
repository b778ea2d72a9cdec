// Copyright (c) 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package smoke

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/verrazzano/opensearch-smoketest/pkg/constants"
)

// SmokeError is a failed phase together with the exit code it maps to
type SmokeError struct {
	Code  constants.ExitCode
	Phase string
	Err   error
}

func (e *SmokeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *SmokeError) Unwrap() error {
	return e.Err
}

// ExitCodeOf returns the exit code of err. Errors that carry no code are usage failures.
func ExitCodeOf(err error) constants.ExitCode {
	if err == nil {
		return constants.ExitOK
	}
	var smokeErr *SmokeError
	if errors.As(err, &smokeErr) {
		return smokeErr.Code
	}
	return constants.ExitUsage
}

// withCode attaches code to err unless a deeper step already classified it
func withCode(code constants.ExitCode, phase string, err error) *SmokeError {
	var smokeErr *SmokeError
	if errors.As(err, &smokeErr) {
		return smokeErr
	}
	return &SmokeError{Code: code, Phase: phase, Err: err}
}
