// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package teleloisirs

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrUpstream     = errors.New("teleloisirs: upstream reported an error")
	ErrTransport    = errors.New("teleloisirs: transport failure")
	ErrDecode       = errors.New("teleloisirs: invalid response format")
	ErrTooManyPages = errors.New("teleloisirs: pagination limit exceeded")

	ErrResponseTooLarge = errors.New("teleloisirs: response too large")
)

// APIError is returned by every failed API call.
//
// Message holds the vendor-provided message when the response carried one.
// Otherwise Err describes the transport-level failure.
type APIError struct {
	Sentinel error
	Op       string
	URL      string
	Status   int
	Message  string
	Err      error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("teleloisirs: %s", e.Op)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	switch {
	case e.Message != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	case e.Err != nil:
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	case e.Sentinel != nil:
		msg = fmt.Sprintf("%s: %v", msg, e.Sentinel)
	}
	return msg
}

func (e *APIError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Sentinel != nil {
		errs = append(errs, e.Sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
