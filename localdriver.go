// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/phayes/freeport"
	"github.com/sirupsen/logrus"
)

// LocalDriver runs a driver executable (chromedriver, geckodriver, ...) on
// this machine and talks to it over HTTP.
type LocalDriver struct {
	RemoteDriver
	// The port the driver listens on. Default: 0, a free port is picked on Start.
	Port int
	// The URL path prefix the driver serves WebDriver requests under. Default: ""
	BaseUrl string
	// The path the driver writes its own log to, when supported. Default: ""
	LogPath string
	// Log file to dump the driver stdout/stderr. If "" send to terminal. Default: ""
	LogFile string
	// Start fails if the driver doesn't answer /status in less than StartTimeout. Default 20s.
	StartTimeout time.Duration
	// Arguments appended to the ones built from the fields above.
	ExtraArgs []string
	// Default: an ExecLauncher writing to LogFile.
	Launcher ProcessLauncher

	path    string
	args    func(d *LocalDriver) []string
	mu      sync.Mutex
	process Process
}

// NewLocalDriver returns a driver for the executable at path. args builds
// the command line from the driver settings when it starts.
func NewLocalDriver(path string, args func(d *LocalDriver) []string) *LocalDriver {
	return &LocalDriver{
		RemoteDriver: RemoteDriver{Transport: &HTTPTransport{}},
		StartTimeout: 20 * time.Second,
		path:         path,
		args:         args,
	}
}

// create a new service using chromedriver.
func NewChromeDriver(path string) *LocalDriver {
	return NewLocalDriver(path, func(d *LocalDriver) []string {
		switches := []string{"--port=" + strconv.Itoa(d.Port)}
		if d.BaseUrl != "" {
			switches = append(switches, "--url-base="+d.BaseUrl)
		}
		if d.LogPath != "" {
			switches = append(switches, "--log-path="+d.LogPath)
		}
		return switches
	})
}

// create a new service using geckodriver.
func NewGeckoDriver(path string) *LocalDriver {
	return NewLocalDriver(path, func(d *LocalDriver) []string {
		return []string{"--host=127.0.0.1", "--port=" + strconv.Itoa(d.Port)}
	})
}

func (d *LocalDriver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.process != nil {
		return ErrAlreadyRunning
	}
	if d.Port == 0 {
		port, err := freeport.GetFreePort()
		if err != nil {
			return fmt.Errorf("start failed: no free port: %w", err)
		}
		d.Port = port
	}
	if !portFree(d.Port) {
		return fmt.Errorf("start failed: port %d already in use", d.Port)
	}
	if d.LogPath != "" {
		// check if log-path is writable
		file, err := os.OpenFile(d.LogPath, os.O_WRONLY|os.O_CREATE, 0664)
		if err != nil {
			return fmt.Errorf("start failed: unable to write in log path: %w", err)
		}
		file.Close()
	}
	launcher := d.Launcher
	if launcher == nil {
		launcher = &ExecLauncher{LogFile: d.LogFile}
	}
	var args []string
	if d.args != nil {
		args = d.args(d)
	}
	args = append(args, d.ExtraArgs...)
	p, err := launcher.Launch(d.path, args)
	if err != nil {
		return fmt.Errorf("start failed: %w", err)
	}
	d.URL = fmt.Sprintf("http://127.0.0.1:%d%s", d.Port, d.BaseUrl)
	if err := waitForStatus(d.URL, d.StartTimeout); err != nil {
		if terr := p.Terminate(); terr != nil {
			logger.WithError(terr).Warn("failed to terminate driver")
		}
		return err
	}
	d.process = p
	logger.WithFields(logrus.Fields{"path": d.path, "port": d.Port, "pid": p.Pid()}).Info("driver started")
	return nil
}

func (d *LocalDriver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.process == nil {
		return ErrNotRunning
	}
	p := d.process
	d.process = nil
	err := p.Terminate()
	logger.WithFields(logrus.Fields{"path": d.path, "port": d.Port}).Info("driver stopped")
	return err
}

var _ WebDriver = (*LocalDriver)(nil)
