// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"sync"
)

// Status is the semantic kind of a server reported error. Values are the
// W3C error codes, so that both dialects normalize to the same identifier.
type Status string

const (
	StatusSuccess                   = Status("success")
	StatusNoSuchSession             = Status("invalid session id")
	StatusNoSuchElement             = Status("no such element")
	StatusNoSuchFrame               = Status("no such frame")
	StatusUnknownCommand            = Status("unknown command")
	StatusStaleElementReference     = Status("stale element reference")
	StatusElementNotVisible         = Status("element not visible")
	StatusInvalidElementState       = Status("invalid element state")
	StatusUnknownError              = Status("unknown error")
	StatusElementNotSelectable      = Status("element not selectable")
	StatusJavaScriptError           = Status("javascript error")
	StatusTimeout                   = Status("timeout")
	StatusNoSuchWindow              = Status("no such window")
	StatusInvalidCookieDomain       = Status("invalid cookie domain")
	StatusUnableToSetCookie         = Status("unable to set cookie")
	StatusUnexpectedAlertOpen       = Status("unexpected alert open")
	StatusNoSuchAlert               = Status("no such alert")
	StatusScriptTimeout             = Status("script timeout")
	StatusInvalidElementCoordinates = Status("invalid element coordinates")
	StatusIMENotAvailable           = Status("ime not available")
	StatusIMEEngineActivationFailed = Status("ime engine activation failed")
	StatusInvalidSelector           = Status("invalid selector")
	StatusSessionNotCreated         = Status("session not created")
	StatusMoveTargetOutOfBounds     = Status("move target out of bounds")
	StatusElementNotInteractable    = Status("element not interactable")
	StatusInvalidArgument           = Status("invalid argument")
	StatusNoSuchCookie              = Status("no such cookie")
	StatusUnableToCaptureScreen     = Status("unable to capture screen")
	StatusElementClickIntercepted   = Status("element click intercepted")
	StatusUnsupportedOperation      = Status("unsupported operation")
	StatusUnknownMethod             = Status("unknown method")
	StatusInsecureCertificate       = Status("insecure certificate")
	StatusNoSuchShadowRoot          = Status("no such shadow root")
	StatusDetachedShadowRoot        = Status("detached shadow root")

	// Reported by UI automation drivers for controls that are covered or
	// still animating. Registered through RegisterVendorStatus.
	StatusVendorNotInteractable = Status("vendor: element not interactable")
)

// Legacy JSON Wire Protocol status codes.
var legacyCodes = map[int]Status{
	0:   StatusSuccess,
	6:   StatusNoSuchSession,
	7:   StatusNoSuchElement,
	8:   StatusNoSuchFrame,
	9:   StatusUnknownCommand,
	10:  StatusStaleElementReference,
	11:  StatusElementNotVisible,
	12:  StatusInvalidElementState,
	13:  StatusUnknownError,
	15:  StatusElementNotSelectable,
	17:  StatusJavaScriptError,
	19:  StatusInvalidSelector,
	21:  StatusTimeout,
	23:  StatusNoSuchWindow,
	24:  StatusInvalidCookieDomain,
	25:  StatusUnableToSetCookie,
	26:  StatusUnexpectedAlertOpen,
	27:  StatusNoSuchAlert,
	28:  StatusScriptTimeout,
	29:  StatusInvalidElementCoordinates,
	30:  StatusIMENotAvailable,
	31:  StatusIMEEngineActivationFailed,
	32:  StatusInvalidSelector,
	33:  StatusSessionNotCreated,
	34:  StatusMoveTargetOutOfBounds,
	51:  StatusInvalidSelector,
	52:  StatusInvalidSelector,
	60:  StatusElementNotInteractable,
	61:  StatusInvalidArgument,
	62:  StatusNoSuchCookie,
	63:  StatusUnableToCaptureScreen,
	64:  StatusElementClickIntercepted,
	405: StatusUnsupportedOperation,
}

var statusDescriptions = map[Status]string{
	StatusSuccess:                   "The command executed successfully.",
	StatusNoSuchSession:             "A session is either terminated or not started.",
	StatusNoSuchElement:             "An element could not be located on the page using the given search parameters.",
	StatusNoSuchFrame:               "A request to switch to a frame could not be satisfied because the frame could not be found.",
	StatusUnknownCommand:            "The requested resource could not be found, or a request was received using an HTTP method that is not supported by the mapped resource.",
	StatusStaleElementReference:     "An element command failed because the referenced element is no longer attached to the DOM.",
	StatusElementNotVisible:         "An element command could not be completed because the element is not visible on the page.",
	StatusInvalidElementState:       "An element command could not be completed because the element is in an invalid state (e.g. attempting to click a disabled element).",
	StatusUnknownError:              "An unknown server-side error occurred while processing the command.",
	StatusElementNotSelectable:      "An attempt was made to select an element that cannot be selected.",
	StatusJavaScriptError:           "An error occurred while executing user supplied JavaScript.",
	StatusTimeout:                   "An operation did not complete before its timeout expired.",
	StatusNoSuchWindow:              "A request to switch to a different window could not be satisfied because the window could not be found.",
	StatusInvalidCookieDomain:       "An illegal attempt was made to set a cookie under a different domain than the current page.",
	StatusUnableToSetCookie:         "A request to set a cookie's value could not be satisfied.",
	StatusUnexpectedAlertOpen:       "A modal dialog was open, blocking this operation.",
	StatusNoSuchAlert:               "An attempt was made to operate on a modal dialog when one was not open.",
	StatusScriptTimeout:             "A script did not complete before its timeout expired.",
	StatusInvalidElementCoordinates: "The coordinates provided to an interactions operation are invalid.",
	StatusIMENotAvailable:           "IME was not available.",
	StatusIMEEngineActivationFailed: "An IME engine could not be started.",
	StatusInvalidSelector:           "Argument was an invalid selector (e.g. XPath/CSS).",
	StatusSessionNotCreated:         "A new session could not be created.",
	StatusMoveTargetOutOfBounds:     "Target provided for a move action is out of bounds.",
	StatusElementNotInteractable:    "An element command could not be completed because the element is not pointer- or keyboard interactable.",
	StatusInvalidArgument:           "The arguments passed to a command are either invalid or malformed.",
	StatusNoSuchCookie:              "No cookie matching the given path name was found.",
	StatusUnableToCaptureScreen:     "A screen capture was made impossible.",
	StatusElementClickIntercepted:   "The element click was intercepted by another element.",
	StatusUnsupportedOperation:      "The requested operation is not supported by the server.",
	StatusUnknownMethod:             "The requested command matched a known URL but did not match a method for that URL.",
	StatusInsecureCertificate:       "Navigation caused the user agent to hit a certificate warning.",
	StatusNoSuchShadowRoot:          "The element does not have a shadow root.",
	StatusDetachedShadowRoot:        "The referenced shadow root is no longer attached to the DOM.",
	StatusVendorNotInteractable:     "The element is not interactable yet (vendor specific status).",
}

var (
	vendorMu    sync.RWMutex
	vendorCodes = map[int]Status{
		105: StatusVendorNotInteractable,
	}
	vendorErrors = map[string]Status{}
)

// RegisterVendorStatus maps a non standard numeric status to a kind.
func RegisterVendorStatus(code int, kind Status) {
	vendorMu.Lock()
	defer vendorMu.Unlock()
	vendorCodes[code] = kind
}

// RegisterVendorError maps a non standard W3C error string to a kind.
func RegisterVendorError(name string, kind Status) {
	vendorMu.Lock()
	defer vendorMu.Unlock()
	vendorErrors[name] = kind
}

// StatusFromCode normalizes a legacy numeric status. Unknown codes map to
// StatusUnknownError.
func StatusFromCode(code int) Status {
	if s, ok := legacyCodes[code]; ok {
		return s
	}
	vendorMu.RLock()
	defer vendorMu.RUnlock()
	if s, ok := vendorCodes[code]; ok {
		return s
	}
	return StatusUnknownError
}

// StatusFromError normalizes a W3C error string.
func StatusFromError(name string) Status {
	s := Status(name)
	if _, ok := statusDescriptions[s]; ok {
		return s
	}
	vendorMu.RLock()
	defer vendorMu.RUnlock()
	if s, ok := vendorErrors[name]; ok {
		return s
	}
	return StatusUnknownError
}

func (s Status) Description() string {
	if d, ok := statusDescriptions[s]; ok {
		return d
	}
	return "Unknown status."
}

func (s Status) String() string { return string(s) }

// Retryable reports whether the kind is one the session retries on:
// element lookups and interactions with controls that are not ready yet.
func (s Status) Retryable() bool {
	switch s {
	case StatusNoSuchElement, StatusVendorNotInteractable:
		return true
	}
	return false
}
