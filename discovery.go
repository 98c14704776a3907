// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Lookup hooks, replaced in tests.
var (
	statFile = os.Stat
	lookPath = exec.LookPath
)

func exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := statFile(path)
	return err == nil && !info.IsDir()
}

func executableName(name string) string {
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		return name + ".exe"
	}
	return name
}

// FindDriverExecutable locates a driver executable such as "chromedriver".
// The path in envVar wins when it exists, then well known install
// locations, then PATH.
func FindDriverExecutable(name, envVar string) (string, bool) {
	if envVar != "" {
		if path := os.Getenv(envVar); exists(path) {
			return path, true
		}
	}
	name = executableName(name)
	dirs := []string{"/usr/local/bin", "/usr/bin", "/opt/homebrew/bin"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "bin"))
	}
	for _, dir := range dirs {
		if path := filepath.Join(dir, name); exists(path) {
			return path, true
		}
	}
	if path, err := lookPath(name); err == nil {
		return path, true
	}
	return "", false
}

var browserPaths = []string{
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
	"/Applications/Firefox.app/Contents/MacOS/firefox",
	"/usr/bin/google-chrome",
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/usr/bin/firefox",
	`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	`C:\Program Files\Mozilla Firefox\firefox.exe`,
}

var browserCommands = []string{"google-chrome", "chromium", "chromium-browser", "firefox"}

// FindInstalledBrowser locates a Chrome, Chromium or Firefox executable.
// BROWSER_BINARY_PATH wins when it exists.
func FindInstalledBrowser() (string, bool) {
	if path := os.Getenv("BROWSER_BINARY_PATH"); exists(path) {
		return path, true
	}
	for _, path := range browserPaths {
		if exists(path) {
			return path, true
		}
	}
	for _, name := range browserCommands {
		if path, err := lookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}
