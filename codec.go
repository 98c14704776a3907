// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// WireProtocol is the dialect spoken with the server.
type WireProtocol int

const (
	// ProtocolAuto negotiates the dialect when the session is created.
	ProtocolAuto WireProtocol = iota
	// ProtocolLegacy is the Selenium JSON Wire Protocol.
	ProtocolLegacy
	// ProtocolW3C is the W3C WebDriver protocol.
	ProtocolW3C
)

func (p WireProtocol) String() string {
	switch p {
	case ProtocolLegacy:
		return "legacy"
	case ProtocolW3C:
		return "w3c"
	}
	return "auto"
}

// ParseWireProtocol accepts "auto", "legacy" (or "jsonwire") and "w3c".
func ParseWireProtocol(s string) (WireProtocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ProtocolAuto, nil
	case "legacy", "jsonwire", "selenium":
		return ProtocolLegacy, nil
	case "w3c":
		return ProtocolW3C, nil
	}
	return ProtocolAuto, fmt.Errorf("unknown wire protocol %q", s)
}

// route selects the dialect variant of a command.
func (p WireProtocol) route(c Command) Command {
	if p == ProtocolW3C && c.W3C != nil {
		return *c.W3C
	}
	c.W3C = nil
	return c
}

const w3cElementKey = "element-6066-11e4-a52e-4f735466cecf"

// elementRef is the JSON reference to an element in request bodies.
func (p WireProtocol) elementRef(id string) map[string]string {
	if p == ProtocolW3C {
		return map[string]string{w3cElementKey: id}
	}
	return map[string]string{"ELEMENT": id}
}

// Response is a decoded success envelope.
type Response struct {
	// SessionID is only set by legacy servers.
	SessionID string
	Value     json.RawMessage
}

// matching the structure of both success envelopes.
type jsonResponse struct {
	SessionID *string         `json:"sessionId"`
	Status    *int            `json:"status"`
	Value     json.RawMessage `json:"value"`
}

type jsonError struct {
	Error      string       `json:"error"`
	Message    string       `json:"message"`
	Stacktrace string       `json:"stacktrace"`
	Screen     string       `json:"screen"`
	Class      string       `json:"class"`
	StackTrace []StackFrame `json:"stackTrace"`
}

func encodeBody(c Command) ([]byte, error) {
	if c.Body == nil {
		return nil, nil
	}
	return json.Marshal(c.Body)
}

// decodeResponse turns an HTTP exchange into a Response or an error. The
// HTTP status is authoritative: any 2xx is decoded as success.
func decodeResponse(status int, data []byte) (*Response, error) {
	if status < 200 || status > 299 {
		return nil, decodeError(status, data)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &Response{}, nil
	}
	var jr jsonResponse
	if err := json.Unmarshal(data, &jr); err != nil {
		return nil, &ProtocolError{HTTPStatus: status, Body: string(data), Err: err}
	}
	r := &Response{Value: jr.Value}
	if jr.SessionID != nil {
		r.SessionID = *jr.SessionID
	}
	return r, nil
}

func decodeError(status int, data []byte) error {
	var jr jsonResponse
	if err := json.Unmarshal(data, &jr); err != nil {
		return &ProtocolError{HTTPStatus: status, Body: string(data), Err: err}
	}
	er := &ErrorResponse{HTTPStatus: status, Code: -1}
	var je jsonError
	if len(jr.Value) > 0 {
		if err := json.Unmarshal(jr.Value, &je); err != nil {
			// some drivers send a bare string instead of an object
			var s string
			if json.Unmarshal(jr.Value, &s) == nil {
				je.Message = s
			} else {
				je.Message = string(jr.Value)
			}
		}
	}
	switch {
	case je.Error != "":
		er.Status = StatusFromError(je.Error)
	case jr.Status != nil:
		er.Status = StatusFromCode(*jr.Status)
	case status == http.StatusNotFound:
		er.Status = StatusUnknownCommand
	case status == http.StatusMethodNotAllowed:
		er.Status = StatusUnknownMethod
	default:
		er.Status = StatusUnknownError
	}
	if jr.Status != nil {
		er.Code = *jr.Status
	}
	er.Message = je.Message
	er.Stacktrace = je.Stacktrace
	er.Screen = je.Screen
	er.Class = je.Class
	er.StackTrace = je.StackTrace
	return er
}

// decodeValue unmarshals the value of a response into T.
func decodeValue[T any](r *Response) (T, error) {
	var v T
	if len(r.Value) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(r.Value, &v); err != nil {
		return v, &ProtocolError{HTTPStatus: http.StatusOK, Body: string(r.Value), Err: err}
	}
	return v, nil
}

// decodeElementID reads an element reference in either dialect.
func decodeElementID(raw json.RawMessage) (string, error) {
	var ref map[string]interface{}
	if err := json.Unmarshal(raw, &ref); err != nil {
		return "", &ProtocolError{HTTPStatus: http.StatusOK, Body: string(raw), Err: err}
	}
	for _, key := range []string{w3cElementKey, "ELEMENT"} {
		if id, ok := ref[key].(string); ok && id != "" {
			return id, nil
		}
	}
	return "", &ProtocolError{HTTPStatus: http.StatusOK, Body: string(raw), Err: errors.New("missing element reference")}
}

func decodeElementIDs(raw json.RawMessage) ([]string, error) {
	var refs []json.RawMessage
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &refs); err != nil {
			return nil, &ProtocolError{HTTPStatus: http.StatusOK, Body: string(raw), Err: err}
		}
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		id, err := decodeElementID(ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// SessionRequest describes a new session.
type SessionRequest struct {
	Protocol WireProtocol
	// Desired is sent as desiredCapabilities (legacy) and alwaysMatch (W3C).
	Desired Capabilities
	// Required is sent as requiredCapabilities (legacy) and merged into
	// alwaysMatch (W3C).
	Required Capabilities
	// FirstMatch alternatives, W3C only. Default: [{}].
	FirstMatch []Capabilities
}

func newSessionCommand(r SessionRequest) Command {
	desired := r.Desired
	if desired == nil {
		desired = Capabilities{}
	}
	body := params{}
	if r.Protocol != ProtocolW3C {
		body["desiredCapabilities"] = desired
		if len(r.Required) > 0 {
			body["requiredCapabilities"] = r.Required
		}
	}
	if r.Protocol != ProtocolLegacy {
		firstMatch := r.FirstMatch
		if len(firstMatch) == 0 {
			firstMatch = []Capabilities{{}}
		}
		body["capabilities"] = params{
			"alwaysMatch": desired.Merge(r.Required),
			"firstMatch":  firstMatch,
		}
	}
	return post("/session", body)
}

type w3cSession struct {
	SessionID    string       `json:"sessionId"`
	Capabilities Capabilities `json:"capabilities"`
}

// decodeNewSession detects the dialect of a new session response and
// extracts its id and capabilities. A W3C value wins over a top-level
// sessionId, which some W3C servers echo as well.
func decodeNewSession(requested WireProtocol, r *Response) (WireProtocol, string, Capabilities, error) {
	var ws w3cSession
	if requested != ProtocolLegacy && json.Unmarshal(r.Value, &ws) == nil && ws.SessionID != "" {
		return ProtocolW3C, ws.SessionID, ws.Capabilities, nil
	}
	if r.SessionID != "" {
		if requested == ProtocolW3C {
			return 0, "", nil, &ProtocolError{HTTPStatus: http.StatusOK, Body: string(r.Value), Err: errors.New("legacy session response to a w3c request")}
		}
		caps, err := decodeValue[Capabilities](r)
		return ProtocolLegacy, r.SessionID, caps, err
	}
	ws, err := decodeValue[w3cSession](r)
	if err != nil {
		return 0, "", nil, err
	}
	if ws.SessionID == "" {
		return 0, "", nil, &ProtocolError{HTTPStatus: http.StatusOK, Body: string(r.Value), Err: errors.New("missing session id")}
	}
	return 0, "", nil, &ProtocolError{HTTPStatus: http.StatusOK, Body: string(r.Value), Err: errors.New("w3c session response to a legacy request")}
}
