// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

func TestHTTPTransportHeaders(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]http.Header{}
	bodies := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen[r.Method] = r.Header.Clone()
		bodies[r.Method] = string(data)
		mu.Unlock()
		w.Write([]byte(`{"value":null}`))
	}))
	defer srv.Close()

	tr := &HTTPTransport{}
	if _, _, err := tr.Do("POST", srv.URL+"/session/x/url", []byte(`{"url":"about:blank"}`)); err != nil {
		t.Fatal(err)
	}
	status, data, err := tr.Do("GET", srv.URL+"/session/x/url", nil)
	if err != nil {
		t.Fatal(err)
	}
	if status != 200 || string(data) != `{"value":null}` {
		t.Errorf("got %d %s", status, data)
	}

	postHeader, getHeader := seen["POST"], seen["GET"]
	if ct := postHeader.Get("Content-Type"); ct != "application/json;charset=utf-8" {
		t.Errorf("POST content type %q", ct)
	}
	if bodies["POST"] != `{"url":"about:blank"}` {
		t.Errorf("POST body %q", bodies["POST"])
	}
	if ct := getHeader.Get("Content-Type"); ct != "" {
		t.Errorf("GET without body has content type %q", ct)
	}
	for method, h := range seen {
		if h.Get("Accept") != "application/json" {
			t.Errorf("%s: accept %q", method, h.Get("Accept"))
		}
		if _, err := uuid.Parse(h.Get("X-Request-Id")); err != nil {
			t.Errorf("%s: request id %q: %v", method, h.Get("X-Request-Id"), err)
		}
	}
	if postHeader.Get("X-Request-Id") == getHeader.Get("X-Request-Id") {
		t.Error("request ids reused")
	}
}

func TestHTTPTransportPostRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/session/abc", http.StatusSeeOther)
	})
	mux.HandleFunc("/session/abc", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("redirect followed with %s", r.Method)
		}
		w.Write([]byte(`{"sessionId":"abc","status":0,"value":{"browserName":"firefox"}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	d := &RemoteDriver{URL: srv.URL, Transport: &HTTPTransport{Client: client}}
	s, err := d.NewSession(ProtocolLegacy, Capabilities{}.SetBrowserName("firefox"))
	if err != nil {
		t.Fatal(err)
	}
	if s.ID() != "abc" || s.Capabilities().BrowserName() != "firefox" {
		t.Errorf("got %s %v", s.ID(), s.Capabilities())
	}
}

func TestHTTPTransportErrors(t *testing.T) {
	tr := &HTTPTransport{}
	_, _, err := tr.Do("PUT", "http://127.0.0.1:1/status", nil)
	var te *TransportError
	if !errors.As(err, &te) || te.Method != "PUT" {
		t.Errorf("invalid method: %v", err)
	}

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	_, _, err = tr.Do("GET", url+"/status", nil)
	if !errors.As(err, &te) || te.Unwrap() == nil {
		t.Errorf("closed server: %v", err)
	}

	d := &RemoteDriver{URL: url, Transport: tr}
	if _, err := d.Status(); !errors.As(err, &te) {
		t.Errorf("status: %v", err)
	}
}

func TestHTTPTransportLimiter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":{"ready":true}}`))
	}))
	defer srv.Close()

	d := &RemoteDriver{URL: srv.URL, Transport: &HTTPTransport{Limiter: rate.NewLimiter(rate.Every(20*time.Millisecond), 1)}}
	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := d.Status(); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed < 35*time.Millisecond {
		t.Errorf("3 requests in %s", elapsed)
	}
}
