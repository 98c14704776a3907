// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"sort"
	"strings"
)

// Capabilities is the open set of session settings. Well known keys have
// typed accessors; vendor extensions live under "prefix:name" keys and are
// passed through untouched.
type Capabilities map[string]interface{}

func (c Capabilities) str(key string) string {
	s, _ := c[key].(string)
	return s
}

func (c Capabilities) BrowserName() string  { return c.str("browserName") }
func (c Capabilities) PlatformName() string { return c.str("platformName") }

func (c Capabilities) SetBrowserName(name string) Capabilities {
	c["browserName"] = name
	return c
}

func (c Capabilities) SetPlatformName(name string) Capabilities {
	c["platformName"] = name
	return c
}

// Keys returns the capability names in sorted order.
func (c Capabilities) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a new Capabilities with the entries of other layered over c.
// Nested maps are merged recursively.
func (c Capabilities) Merge(other Capabilities) Capabilities {
	out := Capabilities{}
	for k, v := range c {
		out[k] = v
	}
	for k, v := range other {
		if a, ok := asMap(out[k]); ok {
			if b, ok := asMap(v); ok {
				out[k] = map[string]interface{}(Capabilities(a).Merge(b))
				continue
			}
		}
		out[k] = v
	}
	return out
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case Capabilities:
		return m, true
	}
	return nil, false
}

// Extension returns the vendor options stored under key (e.g.
// "goog:chromeOptions"), or nil.
func (c Capabilities) Extension(key string) map[string]interface{} {
	m, _ := asMap(c[key])
	return m
}

// SetExtension stores one vendor option under key, creating the map when
// missing.
func (c Capabilities) SetExtension(key, name string, value interface{}) Capabilities {
	m := c.Extension(key)
	if m == nil {
		m = map[string]interface{}{}
		c[key] = m
	}
	m[name] = value
	return c
}

// VendorPrefixed returns the keys carrying a vendor prefix ("appium:", "goog:", ...).
func (c Capabilities) VendorPrefixed() []string {
	var keys []string
	for _, k := range c.Keys() {
		if strings.Contains(k, ":") {
			keys = append(keys, k)
		}
	}
	return keys
}

// AddChrome sets goog:chromeOptions.
func (c Capabilities) AddChrome(args []string, binary string) Capabilities {
	if len(args) > 0 {
		c.SetExtension("goog:chromeOptions", "args", args)
	}
	if binary != "" {
		c.SetExtension("goog:chromeOptions", "binary", binary)
	}
	return c
}

// AddFirefox sets moz:firefoxOptions. A nil prefs uses DefaultFirefoxPrefs.
func (c Capabilities) AddFirefox(prefs map[string]interface{}, binary string) Capabilities {
	if prefs == nil {
		prefs = DefaultFirefoxPrefs()
	}
	c.SetExtension("moz:firefoxOptions", "prefs", prefs)
	if binary != "" {
		c.SetExtension("moz:firefoxOptions", "binary", binary)
	}
	return c
}

// Populate a map with default firefox preferences
func DefaultFirefoxPrefs() map[string]interface{} {
	return map[string]interface{}{
		// Disable cache
		"browser.cache.disk.enable":   false,
		"browser.cache.disk.capacity": 0,
		"browser.cache.memory.enable": true,
		// Disable "do you want to remember this password?"
		"signon.rememberSignons": false,
		// set blank homepage, no welcome page
		"browser.startup.homepage":                 "about:blank",
		"browser.startup.page":                     0,
		"browser.startup.homepage_override.mstone": "ignore",
		// Don't ask if we want to switch default browsers
		"browser.shell.checkDefaultBrowser": false,
		// enable pop-ups
		"dom.disable_open_during_load": false,
		// disable dialog for long username/password in url
		"network.http.phishy-userpass-length": 255,
		// Disable various autostuff
		"app.update.auto":                        false,
		"app.update.enabled":                     false,
		"extensions.update.enabled":              false,
		"browser.search.update":                  false,
		"browser.sessionstore.resume_from_crash": false,
		"browser.tabs.warnOnClose":               false,
		"toolkit.telemetry.enabled":              false,
		"toolkit.telemetry.rejected":             true,
	}
}
