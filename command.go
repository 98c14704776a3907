// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"fmt"
	"net/http"
	"net/url"
)

// Command is a protocol request independent of the wire dialect. A nil
// Body means the request carries no body at all.
type Command struct {
	Method string
	Path   string
	Body   interface{}
	// W3C replaces the command when the session speaks the W3C dialect and
	// the endpoint differs from the legacy one.
	W3C *Command
}

// typing saver
type params map[string]interface{}

// empty is the body of POST commands without parameters.
var empty = params{}

// escapePath builds a path from format, escaping every argument.
func escapePath(format string, ids ...string) string {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = url.PathEscape(id)
	}
	return fmt.Sprintf(format, args...)
}

func get(path string) Command {
	return Command{Method: http.MethodGet, Path: path}
}

func post(path string, body interface{}) Command {
	if body == nil {
		body = empty
	}
	return Command{Method: http.MethodPost, Path: path, Body: body}
}

func del(path string) Command {
	return Command{Method: http.MethodDelete, Path: path}
}

func (c Command) withW3C(w Command) Command {
	c.W3C = &w
	return c
}

func (c Command) String() string {
	return c.Method + " " + c.Path
}
