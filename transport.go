// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Transport sends one HTTP request and returns the status code and the raw
// response body. Implementations must not retry.
type Transport interface {
	Do(method, url string, body []byte) (int, []byte, error)
}

// HTTPTransport is the net/http backed Transport.
type HTTPTransport struct {
	// Client used for requests. Default: http.DefaultClient.
	Client *http.Client
	// Limiter paces outgoing requests when set.
	Limiter *rate.Limiter
}

func isRedirect(response *http.Response) bool {
	r := response.StatusCode
	return r == http.StatusFound || r == http.StatusSeeOther
}

func newRequest(method, url string, data []byte) (*http.Request, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}
	request, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	if data != nil {
		request.Header.Set("Content-Type", "application/json;charset=utf-8")
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Accept-Charset", "utf-8")
	return request, nil
}

func (t *HTTPTransport) client() *http.Client {
	if t.Client == nil {
		return http.DefaultClient
	}
	return t.Client
}

func (t *HTTPTransport) Do(method, url string, body []byte) (int, []byte, error) {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodDelete:
	default:
		return 0, nil, &TransportError{Method: method, URL: url, Err: fmt.Errorf("invalid method: %s", method)}
	}
	if t.Limiter != nil {
		if err := t.Limiter.Wait(context.Background()); err != nil {
			return 0, nil, &TransportError{Method: method, URL: url, Err: err}
		}
	}
	id := uuid.NewString()
	log := logger.WithField("request", id)
	log.Debugf(">> %s %s", method, url)
	request, err := newRequest(method, url, body)
	if err != nil {
		return 0, nil, &TransportError{Method: method, URL: url, Err: err}
	}
	request.Header.Set("X-Request-Id", id)
	response, err := t.client().Do(request)
	if err != nil {
		return 0, nil, &TransportError{Method: method, URL: url, Err: err}
	}
	defer response.Body.Close()
	// http.Client doesn't follow POST redirects (legacy /session command)
	if method == http.MethodPost && isRedirect(response) {
		location, err := response.Location()
		if err != nil {
			return 0, nil, &TransportError{Method: method, URL: url, Err: err}
		}
		log.Debugf("redirected to %s", location)
		return t.Do(http.MethodGet, location.String(), nil)
	}
	buf, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, nil, &TransportError{Method: method, URL: url, Err: err}
	}
	log.WithFields(logrus.Fields{"status": response.StatusCode}).Debugf("<< %s", head(string(buf), 1024))
	return response.StatusCode, buf, nil
}
