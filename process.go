// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"
)

// Process is a running driver executable.
type Process interface {
	Pid() int
	// Terminate stops the process together with every process it spawned
	// and waits for it to exit.
	Terminate() error
}

// ProcessLauncher starts driver executables.
type ProcessLauncher interface {
	Launch(path string, args []string) (Process, error)
}

// ExecLauncher runs executables with os/exec.
type ExecLauncher struct {
	// Log file to dump stdout/stderr. If "" send to terminal. Default: ""
	LogFile string
	// Time given to the process tree to exit before it is killed. Default: 5s
	KillTimeout time.Duration
}

type execProcess struct {
	cmd         *exec.Cmd
	logFile     *os.File
	killTimeout time.Duration
	pumps       errgroup.Group
	done        chan error
}

func (l *ExecLauncher) Launch(path string, args []string) (Process, error) {
	cmd := exec.Command(path, args...)
	setProcessGroup(cmd)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	var outw, errw io.Writer = os.Stdout, os.Stderr
	var logFile *os.File
	if l.LogFile != "" {
		flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		logFile, err = os.OpenFile(l.LogFile, flags, 0640)
		if err != nil {
			return nil, err
		}
		outw, errw = logFile, logFile
	}
	if err := cmd.Start(); err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, fmt.Errorf("launch %s: %w", path, err)
	}
	p := &execProcess{
		cmd:         cmd,
		logFile:     logFile,
		killTimeout: l.KillTimeout,
		done:        make(chan error, 1),
	}
	if p.killTimeout <= 0 {
		p.killTimeout = 5 * time.Second
	}
	p.pumps.Go(func() error {
		_, err := io.Copy(outw, stdout)
		return err
	})
	p.pumps.Go(func() error {
		_, err := io.Copy(errw, stderr)
		return err
	})
	go func() {
		// pipes must be drained before Wait closes them
		if err := p.pumps.Wait(); err != nil {
			logger.WithField("pid", cmd.Process.Pid).WithError(err).Debug("output pump stopped")
		}
		p.done <- cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

func (p *execProcess) Pid() int { return p.cmd.Process.Pid }

func (p *execProcess) Terminate() error {
	err := terminateTree(p.cmd, p.done, p.killTimeout)
	if p.logFile != nil {
		p.logFile.Close()
	}
	return err
}
