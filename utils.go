// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = newDefaultLogger()

func newDefaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetLogger replaces the package logger. Requests and responses are logged
// at debug level.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = newDefaultLogger()
	}
	logger = l
}

// Logger returns the package logger.
func Logger() logrus.FieldLogger {
	return logger
}

// portFree reports whether nothing listens on 127.0.0.1:port.
func portFree(port int) bool {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return false
	}
	ln.Close()
	return true
}

// waitForStatus polls baseURL/status until the server answers or timeout
// expires.
func waitForStatus(baseURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: time.Second}
	up, err := RetryBool(timeout, func() (bool, error) {
		resp, err := client.Get(baseURL + "/status")
		if err != nil {
			return false, nil
		}
		resp.Body.Close()
		return resp.StatusCode < 500, nil
	})
	if err != nil {
		return err
	}
	if !up {
		return fmt.Errorf("start failed: %s/status did not answer within %s", baseURL, timeout)
	}
	return nil
}
