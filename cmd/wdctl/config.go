// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fedesog/webdriver/v2"
	"github.com/sirupsen/logrus"
)

type config struct {
	URL          string
	Protocol     webdriver.WireProtocol
	RetryTimeout time.Duration
	// requests per second, 0 disables pacing
	RateLimit float64
	LogLevel  logrus.Level
}

func defaultConfig() config {
	return config{
		URL:          "http://127.0.0.1:4444/wd/hub",
		Protocol:     webdriver.ProtocolAuto,
		RetryTimeout: webdriver.DefaultRetryTimeout,
		LogLevel:     logrus.InfoLevel,
	}
}

// loadConfig reads WEBDRIVER_* variables through getenv over the defaults.
func loadConfig(getenv func(string) string) (config, error) {
	c := defaultConfig()
	if v := getenv("WEBDRIVER_URL"); v != "" {
		c.URL = v
	}
	if v := getenv("WEBDRIVER_PROTOCOL"); v != "" {
		p, err := webdriver.ParseWireProtocol(v)
		if err != nil {
			return c, fmt.Errorf("WEBDRIVER_PROTOCOL: %w", err)
		}
		c.Protocol = p
	}
	if v := getenv("WEBDRIVER_RETRY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return c, fmt.Errorf("WEBDRIVER_RETRY_TIMEOUT: %w", err)
		}
		if d < 0 {
			return c, fmt.Errorf("WEBDRIVER_RETRY_TIMEOUT: %w", webdriver.ErrNegativeTimeout)
		}
		c.RetryTimeout = d
	}
	if v := getenv("WEBDRIVER_RATE_LIMIT"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r < 0 {
			return c, fmt.Errorf("WEBDRIVER_RATE_LIMIT: invalid rate %q", v)
		}
		c.RateLimit = r
	}
	if v := getenv("WEBDRIVER_LOG_LEVEL"); v != "" {
		l, err := logrus.ParseLevel(v)
		if err != nil {
			return c, fmt.Errorf("WEBDRIVER_LOG_LEVEL: %w", err)
		}
		c.LogLevel = l
	}
	return c, nil
}
