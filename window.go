// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

// WindowHandle names a browser window. W3C servers only resize and move
// the current window, so on those the handle must be the focused one.
type WindowHandle struct {
	s  *Session
	id string
}

func (w WindowHandle) ID() string { return w.id }

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (w WindowHandle) path(format string) string {
	return w.s.path("/window/%s"+format, w.id)
}

func (w WindowHandle) rect() Command {
	return get(w.s.path("/window/rect"))
}

// Change the size of the specified window.
func (w WindowHandle) SetSize(size Size) error {
	p := params{"width": size.Width, "height": size.Height}
	return w.s.do(post(w.path("/size"), p).withW3C(post(w.s.path("/window/rect"), p)))
}

// Get the size of the specified window.
func (w WindowHandle) GetSize() (Size, error) {
	r, err := sessionValue[Rect](w.s, get(w.path("/size")).withW3C(w.rect()))
	return r.Size(), err
}

// Change the position of the specified window.
func (w WindowHandle) SetPosition(position Position) error {
	p := params{"x": position.X, "y": position.Y}
	return w.s.do(post(w.path("/position"), p).withW3C(post(w.s.path("/window/rect"), p)))
}

// Get the position of the specified window.
func (w WindowHandle) GetPosition() (Position, error) {
	r, err := sessionValue[Rect](w.s, get(w.path("/position")).withW3C(w.rect()))
	return r.Position(), err
}

// Maximize the specified window if not already maximized.
func (w WindowHandle) Maximize() error {
	return w.s.do(post(w.path("/maximize"), nil).withW3C(post(w.s.path("/window/maximize"), nil)))
}
