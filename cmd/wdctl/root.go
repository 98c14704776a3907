// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/fedesog/webdriver/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var (
	cfg         config
	flagURL     string
	flagProto   string
	flagTimeout string
	flagRate    string
	flagLevel   string

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "wdctl",
	Short: "Drive a WebDriver server from the command line",
	Long: `wdctl talks to a Selenium or W3C WebDriver server.

Settings come from the environment (and a .env file in the working
directory), and flags override them:

  WEBDRIVER_URL            server base URL
  WEBDRIVER_PROTOCOL       auto, legacy or w3c
  WEBDRIVER_RETRY_TIMEOUT  element lookup timeout, e.g. 5s
  WEBDRIVER_RATE_LIMIT     requests per second, 0 for no limit
  WEBDRIVER_LOG_LEVEL      logrus level, debug logs every request`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		env := map[string]string{
			"WEBDRIVER_URL":           flagURL,
			"WEBDRIVER_PROTOCOL":      flagProto,
			"WEBDRIVER_RETRY_TIMEOUT": flagTimeout,
			"WEBDRIVER_RATE_LIMIT":    flagRate,
			"WEBDRIVER_LOG_LEVEL":     flagLevel,
		}
		var err error
		cfg, err = loadConfig(func(key string) string {
			if v := env[key]; v != "" {
				return v
			}
			return os.Getenv(key)
		})
		if err != nil {
			return err
		}
		log.SetLevel(cfg.LogLevel)
		webdriver.SetLogger(log)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagURL, "url", "", "server base URL (WEBDRIVER_URL)")
	pf.StringVar(&flagProto, "protocol", "", "wire protocol: auto, legacy or w3c (WEBDRIVER_PROTOCOL)")
	pf.StringVar(&flagTimeout, "timeout", "", "element lookup timeout (WEBDRIVER_RETRY_TIMEOUT)")
	pf.StringVar(&flagRate, "rate", "", "requests per second (WEBDRIVER_RATE_LIMIT)")
	pf.StringVar(&flagLevel, "log-level", "", "log level (WEBDRIVER_LOG_LEVEL)")

	rootCmd.AddCommand(statusCmd, sessionsCmd, screenshotCmd, findCmd)
}

func newDriver() *webdriver.RemoteDriver {
	d := webdriver.NewRemoteDriver(cfg.URL)
	t := &webdriver.HTTPTransport{}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		t.Limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	d.Transport = t
	return d
}

// newSession opens a session and optionally navigates to url.
func newSession(url string) (*webdriver.Session, error) {
	s, err := newDriver().NewSession(cfg.Protocol, webdriver.Capabilities{})
	if err != nil {
		return nil, err
	}
	if err := s.SetDefaultRetryTimeout(cfg.RetryTimeout); err != nil {
		s.Close()
		return nil, err
	}
	if url != "" {
		if err := s.Url(url); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}
