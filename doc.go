// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The package implements a WebDriver client that talks to browser and app
// automation servers using either the Selenium JSON Wire Protocol or the
// W3C WebDriver protocol.
//
// The dialect is chosen when a session is created (ProtocolLegacy,
// ProtocolW3C) or negotiated with the server (ProtocolAuto), and stays
// fixed for the life of the session.
//
// Element lookups are retried with exponential backoff while the server
// reports that nothing matched, up to the session's retry timeout.
//
// Example:
//
//	chromeDriver := webdriver.NewChromeDriver("/path/to/chromedriver")
//	err := chromeDriver.Start()
//	if err != nil {
//		log.Println(err)
//	}
//	desired := webdriver.Capabilities{}.SetBrowserName("chrome")
//	session, err := chromeDriver.NewSession(webdriver.ProtocolAuto, desired)
//	if err != nil {
//		log.Println(err)
//	}
//	defer session.Close()
//	err = session.Url("http://golang.org")
//	if err != nil {
//		log.Println(err)
//	}
//	el, err := session.FindElement(webdriver.ByName("q"), 10*time.Second)
//	if err != nil || el == nil {
//		log.Println("search box not found", err)
//	}
//	chromeDriver.Stop()
package webdriver
