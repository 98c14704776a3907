// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package webdrivertest provides test doubles for code using the webdriver
// package: a scripted Transport and a fake WebDriver server.
package webdrivertest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"sync"
)

// Request is a request received by Transport.
type Request struct {
	Method string
	Path   string
	Body   []byte
}

// Exchange is one scripted request and the reply sent back for it.
type Exchange struct {
	Method string
	Path   string
	// Expected JSON body, compared structurally. "" accepts any body, "-"
	// requires that no body is sent.
	Body     string
	Status   int
	Response string
	// Repeat the exchange forever instead of consuming it.
	Always bool
}

// Transport replays a script of exchanges in order. A request that does not
// match the next exchange is answered with a 500 and recorded as a failure.
type Transport struct {
	mu       sync.Mutex
	script   []Exchange
	requests []Request
	failures []string
}

// Expect appends an exchange accepting any body.
func (t *Transport) Expect(method, path string, status int, response string) *Transport {
	return t.Add(Exchange{Method: method, Path: path, Status: status, Response: response})
}

// ExpectBody appends an exchange that also checks the request body.
func (t *Transport) ExpectBody(method, path, body string, status int, response string) *Transport {
	return t.Add(Exchange{Method: method, Path: path, Body: body, Status: status, Response: response})
}

func (t *Transport) Add(e Exchange) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.script = append(t.script, e)
	return t
}

func (t *Transport) Do(method, rawURL string, body []byte) (int, []byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.EscapedPath()
	}
	t.requests = append(t.requests, Request{Method: method, Path: path, Body: body})
	if len(t.script) == 0 {
		return t.fail("unexpected request %s %s", method, path)
	}
	e := t.script[0]
	if e.Method != method || e.Path != path {
		return t.fail("got %s %s, want %s %s", method, path, e.Method, e.Path)
	}
	switch e.Body {
	case "":
	case "-":
		if body != nil {
			return t.fail("%s %s: unexpected body %s", method, path, body)
		}
	default:
		if !jsonEqual([]byte(e.Body), body) {
			return t.fail("%s %s: got body %s, want %s", method, path, body, e.Body)
		}
	}
	if !e.Always {
		t.script = t.script[1:]
	}
	return e.Status, []byte(e.Response), nil
}

func (t *Transport) fail(format string, args ...interface{}) (int, []byte, error) {
	msg := fmt.Sprintf(format, args...)
	t.failures = append(t.failures, msg)
	resp, _ := json.Marshal(map[string]interface{}{
		"value": map[string]string{"error": "unknown error", "message": msg},
	})
	return http.StatusInternalServerError, resp, nil
}

func jsonEqual(a, b []byte) bool {
	var va, vb interface{}
	if json.Unmarshal(a, &va) != nil || json.Unmarshal(b, &vb) != nil {
		return false
	}
	return reflect.DeepEqual(va, vb)
}

// Requests returns every request received so far.
func (t *Transport) Requests() []Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Request(nil), t.requests...)
}

// Count returns the number of requests received for method and path.
func (t *Transport) Count(method, path string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, r := range t.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Verify reports unmatched requests and exchanges left in the script.
// Exchanges marked Always may remain.
func (t *Transport) Verify() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.failures) > 0 {
		return fmt.Errorf("%d unmatched requests, first: %s", len(t.failures), t.failures[0])
	}
	for _, e := range t.script {
		if !e.Always {
			return fmt.Errorf("%d exchanges not consumed, next: %s %s", len(t.script), e.Method, e.Path)
		}
	}
	return nil
}
