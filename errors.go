// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNegativeTimeout is returned when a poll or retry timeout is below zero.
	ErrNegativeTimeout = errors.New("timeout must not be negative")

	// ErrForeignElement is returned when an element of another session is
	// passed to a session operation.
	ErrForeignElement = errors.New("element belongs to a different session")

	// ErrSessionDeleted is returned by operations on a deleted session.
	ErrSessionDeleted = errors.New("session already deleted")

	// ErrNoSession is returned by operations on an Element that was not
	// obtained from a Session.
	ErrNoSession = errors.New("element has no session")

	ErrAlreadyRunning = errors.New("driver already running")
	ErrNotRunning     = errors.New("driver not running")
)

// TransportError reports a failure to exchange a request with the server.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError reports a response that could not be decoded.
type ProtocolError struct {
	HTTPStatus int
	Body       string
	Err        error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol decode (http %d %s): %v: %s",
		e.HTTPStatus, http.StatusText(e.HTTPStatus), e.Err, head(e.Body, 256))
}

func (e *ProtocolError) Unwrap() error { return e.Err }

type StackFrame struct {
	FileName   string `json:"fileName"`
	ClassName  string `json:"className"`
	MethodName string `json:"methodName"`
	LineNumber int    `json:"lineNumber"`
}

// ErrorResponse is a well formed failure reported by the server.
type ErrorResponse struct {
	Status     Status
	HTTPStatus int
	// Code is the legacy numeric status, -1 when the server sent none.
	Code       int
	Message    string
	Stacktrace string
	Screen     string
	Class      string
	StackTrace []StackFrame
}

func (e *ErrorResponse) Error() string {
	m := e.Status.Description()
	if e.HTTPStatus != 0 {
		m = fmt.Sprintf("%d %s: %s", e.HTTPStatus, e.Status, m)
	} else {
		m = string(e.Status) + ": " + m
	}
	if e.Message != "" {
		m += ": " + e.Message
	}
	return m
}

// ElementNotFoundError is returned by RequireElement when the locator did
// not match before the timeout.
type ElementNotFoundError struct {
	Locator     ElementLocator
	Description string
	Err         error
}

func (e *ElementNotFoundError) Error() string {
	m := "element not found: " + e.Locator.String()
	if e.Description != "" {
		m = fmt.Sprintf("element not found: %s (%s)", e.Description, e.Locator)
	}
	if e.Err != nil {
		m += ": " + e.Err.Error()
	}
	return m
}

func (e *ElementNotFoundError) Unwrap() error { return e.Err }

// IsStatus reports whether err is an ErrorResponse of the given kind.
func IsStatus(err error, kind Status) bool {
	var er *ErrorResponse
	if errors.As(err, &er) {
		return er.Status == kind
	}
	return false
}

func head(s string, n int) string {
	if len(s) > n {
		return fmt.Sprintf("%s ...%d more bytes", s[:n], len(s)-n)
	}
	return s
}
