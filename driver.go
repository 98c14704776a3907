// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"strings"
	"time"
)

// Driver sends commands to a WebDriver server. One call is exactly one
// HTTP exchange: drivers never retry.
type Driver interface {
	Send(cmd Command) (*Response, error)
}

// WebDriver is a Driver with a service lifecycle. Remote drivers have a
// no-op lifecycle; local drivers own a process or a container.
type WebDriver interface {
	Driver
	// Start webdriver service
	Start() error
	// Stop webdriver service
	Stop() error
	// Query the server's status.
	Status() (*ServerStatus, error)
	// Create a new session.
	NewSession(protocol WireProtocol, desired Capabilities) (*Session, error)
}

// Server details.
type ServerStatus struct {
	Ready   bool   `json:"ready"`
	Message string `json:"message"`
	Build   Build  `json:"build"`
	OS      OS     `json:"os"`
}

// Server built details.
type Build struct {
	Version  string `json:"version"`
	Revision string `json:"revision"`
	Time     string `json:"time"`
}

// Server OS details
type OS struct {
	Arch    string `json:"arch"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// DefaultRetryTimeout is the initial retry timeout of new sessions.
var DefaultRetryTimeout = 5 * time.Second

// RemoteDriver talks to a server that is already running.
type RemoteDriver struct {
	// Base URL of the server, e.g. http://127.0.0.1:4444/wd/hub
	URL       string
	Transport Transport
}

// NewRemoteDriver returns a driver for the server at url.
func NewRemoteDriver(url string) *RemoteDriver {
	return &RemoteDriver{URL: strings.TrimRight(url, "/"), Transport: &HTTPTransport{}}
}

func (d *RemoteDriver) Start() error { return nil }
func (d *RemoteDriver) Stop() error  { return nil }

func (d *RemoteDriver) transport() Transport {
	if d.Transport == nil {
		return &HTTPTransport{}
	}
	return d.Transport
}

func (d *RemoteDriver) Send(cmd Command) (*Response, error) {
	body, err := encodeBody(cmd)
	if err != nil {
		return nil, err
	}
	status, data, err := d.transport().Do(cmd.Method, d.URL+cmd.Path, body)
	if err != nil {
		return nil, err
	}
	return decodeResponse(status, data)
}

// Query the server's status.
func (d *RemoteDriver) Status() (*ServerStatus, error) {
	return status(d)
}

func status(d Driver) (*ServerStatus, error) {
	resp, err := d.Send(get("/status"))
	if err != nil {
		return nil, err
	}
	s, err := decodeValue[ServerStatus](resp)
	return &s, err
}

// Create a new session.
// The dialect is negotiated with the server when protocol is ProtocolAuto.
func (d *RemoteDriver) NewSession(protocol WireProtocol, desired Capabilities) (*Session, error) {
	return newSession(d, SessionRequest{Protocol: protocol, Desired: desired})
}

// NewSessionWith creates a session from a full request, including legacy
// required capabilities and W3C firstMatch alternatives.
func (d *RemoteDriver) NewSessionWith(r SessionRequest) (*Session, error) {
	return newSession(d, r)
}

// AttachSession wraps a session that already exists on the server.
func (d *RemoteDriver) AttachSession(protocol WireProtocol, id string, caps Capabilities, owned bool) *Session {
	return AttachSession(d, protocol, id, caps, owned)
}

// Returns a list of the currently active sessions (legacy servers only).
func (d *RemoteDriver) Sessions() ([]*Session, error) {
	return sessions(d)
}

func sessions(d Driver) ([]*Session, error) {
	resp, err := d.Send(get("/sessions"))
	if err != nil {
		return nil, err
	}
	type entry struct {
		ID           string       `json:"id"`
		Capabilities Capabilities `json:"capabilities"`
	}
	entries, err := decodeValue[[]entry](resp)
	if err != nil {
		return nil, err
	}
	out := make([]*Session, len(entries))
	for i, e := range entries {
		out[i] = AttachSession(d, ProtocolLegacy, e.ID, e.Capabilities, false)
	}
	return out, nil
}

func newSession(d Driver, r SessionRequest) (*Session, error) {
	resp, err := d.Send(newSessionCommand(r))
	if err != nil {
		return nil, err
	}
	protocol, id, caps, err := decodeNewSession(r.Protocol, resp)
	if err != nil {
		return nil, err
	}
	s := AttachSession(d, protocol, id, caps, true)
	logger.WithField("session", id).Infof("created %s session", protocol)
	return s, nil
}

var _ WebDriver = (*RemoteDriver)(nil)
