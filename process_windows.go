// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build windows

package webdriver

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

func setProcessGroup(cmd *exec.Cmd) {}

// terminateTree kills the process and its children with taskkill.
func terminateTree(cmd *exec.Cmd, done <-chan error, grace time.Duration) error {
	kill := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(cmd.Process.Pid))
	if err := kill.Run(); err != nil {
		cmd.Process.Kill()
	}
	select {
	case <-done:
		return nil
	case <-time.After(grace):
		return fmt.Errorf("process %d did not exit after %s", cmd.Process.Pid, grace)
	}
}
