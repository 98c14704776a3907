// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"testing"
)

func TestStatusFromCode(t *testing.T) {
	tests := []struct {
		code int
		want Status
	}{
		{0, StatusSuccess},
		{6, StatusNoSuchSession},
		{7, StatusNoSuchElement},
		{10, StatusStaleElementReference},
		{11, StatusElementNotVisible},
		{15, StatusElementNotSelectable},
		{21, StatusTimeout},
		{23, StatusNoSuchWindow},
		{26, StatusUnexpectedAlertOpen},
		{28, StatusScriptTimeout},
		{32, StatusInvalidSelector},
		{33, StatusSessionNotCreated},
		{60, StatusElementNotInteractable},
		{105, StatusVendorNotInteractable},
		{999, StatusUnknownError},
	}
	for _, test := range tests {
		if got := StatusFromCode(test.code); got != test.want {
			t.Errorf("StatusFromCode(%d) = %q, want %q", test.code, got, test.want)
		}
	}
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		want Status
	}{
		{"no such element", StatusNoSuchElement},
		{"element not interactable", StatusElementNotInteractable},
		{"invalid session id", StatusNoSuchSession},
		{"script timeout", StatusScriptTimeout},
		{"something else", StatusUnknownError},
	}
	for _, test := range tests {
		if got := StatusFromError(test.name); got != test.want {
			t.Errorf("StatusFromError(%q) = %q, want %q", test.name, got, test.want)
		}
	}
}

func TestRegisterVendor(t *testing.T) {
	RegisterVendorStatus(4242, StatusElementClickIntercepted)
	if got := StatusFromCode(4242); got != StatusElementClickIntercepted {
		t.Errorf("vendor code: got %q", got)
	}
	RegisterVendorError("busy animating", StatusVendorNotInteractable)
	if got := StatusFromError("busy animating"); got != StatusVendorNotInteractable {
		t.Errorf("vendor error: got %q", got)
	}
	// standard codes cannot be overridden
	RegisterVendorStatus(7, StatusUnknownError)
	if got := StatusFromCode(7); got != StatusNoSuchElement {
		t.Errorf("code 7: got %q", got)
	}
}

func TestRetryable(t *testing.T) {
	for _, s := range []Status{StatusNoSuchElement, StatusVendorNotInteractable} {
		if !s.Retryable() {
			t.Errorf("%q should be retryable", s)
		}
	}
	for _, s := range []Status{StatusStaleElementReference, StatusElementNotInteractable, StatusUnknownError, StatusTimeout} {
		if s.Retryable() {
			t.Errorf("%q should not be retryable", s)
		}
	}
}

func TestErrorResponseMessage(t *testing.T) {
	err := &ErrorResponse{Status: StatusNoSuchElement, HTTPStatus: 404, Code: -1, Message: "no #foo"}
	want := "404 no such element: " + StatusNoSuchElement.Description() + ": no #foo"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
	if !IsStatus(err, StatusNoSuchElement) || IsStatus(err, StatusTimeout) {
		t.Error("IsStatus mismatch")
	}
}
