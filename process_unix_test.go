// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !windows

package webdriver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestExecLauncherLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "driver.log")
	l := &ExecLauncher{LogFile: logFile}
	p, err := l.Launch("/bin/sh", []string{"-c", "echo started; echo oops >&2; sleep 30"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Pid() <= 0 {
		t.Errorf("pid %d", p.Pid())
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		data, _ := os.ReadFile(logFile)
		if strings.Contains(string(data), "started") && strings.Contains(string(data), "oops") {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("log file: %q", data)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err := p.Terminate(); err != nil {
		t.Fatal(err)
	}
}

func TestExecLauncherTerminatesTree(t *testing.T) {
	l := &ExecLauncher{LogFile: filepath.Join(t.TempDir(), "driver.log"), KillTimeout: 10 * time.Second}
	// the background sleep keeps the output pipes open until it dies too
	p, err := l.Launch("/bin/sh", []string{"-c", "sleep 60 & sleep 60"})
	if err != nil {
		t.Fatal(err)
	}
	start := time.Now()
	if err := p.Terminate(); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("terminate took %s", elapsed)
	}
}

func TestExecLauncherMissingExecutable(t *testing.T) {
	l := &ExecLauncher{}
	if _, err := l.Launch(filepath.Join(t.TempDir(), "nodriver"), nil); err == nil {
		t.Fatal("launched a missing executable")
	}
}
