// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tvserver

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrTransport       = errors.New("transport failure")
	ErrDecode          = errors.New("malformed xml payload")
	ErrOperationFailed = errors.New("operation failed")
	ErrNullResult      = errors.New("null result")
)

// Error wraps a sentinel with the command and backend context it failed in.
type Error struct {
	Sentinel   error
	Command    string
	Status     StatusCode // backend envelope status, set for ErrOperationFailed
	HTTPStatus int
	Err        error // nested lower-level cause (net.Error, xml.SyntaxError, ...)
}

func (e *Error) Error() string {
	msg := "tvserver"
	if e.Command != "" {
		msg += ": " + e.Command
	}
	msg = fmt.Sprintf("%s: %v", msg, e.Sentinel)
	if errors.Is(e.Sentinel, ErrOperationFailed) {
		msg = fmt.Sprintf("%s (server status %s)", msg, e.Status)
	}
	if e.HTTPStatus > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.HTTPStatus)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the sentinel and the nested cause, so errors.Is works
// for ErrTransport as well as context.Canceled.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Sentinel}
	}
	return []error{e.Sentinel, e.Err}
}

// StatusOf returns the backend status carried by err, if any.
func StatusOf(err error) (StatusCode, bool) {
	var te *Error
	if errors.As(err, &te) && errors.Is(te.Sentinel, ErrOperationFailed) {
		return te.Status, true
	}
	return 0, false
}

func withCommand(err error, command string) error {
	var te *Error
	if errors.As(err, &te) && te.Command == "" {
		te.Command = command
	}
	return err
}
