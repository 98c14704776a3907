// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

type MouseButton int

const (
	LeftButton   = MouseButton(0)
	MiddleButton = MouseButton(1)
	RightButton  = MouseButton(2)
)

// pointerActions wraps W3C pointer action items in a single mouse source.
func pointerActions(items ...params) params {
	return params{"actions": []params{{
		"type":       "pointer",
		"id":         "mouse",
		"parameters": params{"pointerType": "mouse"},
		"actions":    items,
	}}}
}

func keyActions(items []params) params {
	return params{"actions": []params{{
		"type":    "key",
		"id":      "keyboard",
		"actions": items,
	}}}
}

func (s *Session) actions(body params) Command {
	return post(s.path("/actions"), body)
}

// Move the mouse by an offset of the specified element.
// If element is nil, the move is relative to the current mouse cursor. If an
// element is provided the offset is relative to it and it is scrolled into view.
func (s *Session) MoveTo(element *Element, xoffset, yoffset int) error {
	p := params{"xoffset": xoffset, "yoffset": yoffset}
	move := params{"type": "pointerMove", "duration": 0, "x": xoffset, "y": yoffset, "origin": "pointer"}
	if element != nil {
		if err := s.own(element); err != nil {
			return err
		}
		p["element"] = element.id
		move["origin"] = s.protocol.elementRef(element.id)
	}
	return s.do(post(s.path("/moveto"), p).withW3C(s.actions(pointerActions(move))))
}

func down(button MouseButton) params {
	return params{"type": "pointerDown", "button": int(button)}
}

func up(button MouseButton) params {
	return params{"type": "pointerUp", "button": int(button)}
}

// Click any mouse button (at the coordinates set by the last MoveTo).
func (s *Session) Click(button MouseButton) error {
	cmd := post(s.path("/click"), params{"button": button}).
		withW3C(s.actions(pointerActions(down(button), up(button))))
	return s.do(cmd)
}

// Click and hold a mouse button (at the coordinates set by the last MoveTo).
func (s *Session) ButtonDown(button MouseButton) error {
	cmd := post(s.path("/buttondown"), params{"button": button}).
		withW3C(s.actions(pointerActions(down(button))))
	return s.do(cmd)
}

// Releases the mouse button previously held (where the mouse is currently at).
func (s *Session) ButtonUp(button MouseButton) error {
	cmd := post(s.path("/buttonup"), params{"button": button}).
		withW3C(s.actions(pointerActions(up(button))))
	return s.do(cmd)
}

// Double-clicks at the current mouse coordinates (set by MoveTo).
func (s *Session) DoubleClick() error {
	cmd := post(s.path("/doubleclick"), nil).
		withW3C(s.actions(pointerActions(down(LeftButton), up(LeftButton), down(LeftButton), up(LeftButton))))
	return s.do(cmd)
}

// ReleaseActions releases every key and button held by W3C actions.
func (s *Session) ReleaseActions() error {
	return s.do(del(s.path("/actions")))
}

func splitKeys(sequence string) []string {
	keys := make([]string, 0, len(sequence))
	for _, k := range sequence {
		keys = append(keys, string(k))
	}
	return keys
}

// Send a sequence of key strokes to the active element.
func (s *Session) SendKeys(sequence string) error {
	keys := splitKeys(sequence)
	items := make([]params, 0, 2*len(keys))
	for _, k := range keys {
		items = append(items, params{"type": "keyDown", "value": k}, params{"type": "keyUp", "value": k})
	}
	cmd := post(s.path("/keys"), params{"value": keys}).withW3C(s.actions(keyActions(items)))
	return s.do(cmd)
}

// touch sends a legacy touch command about an element of s.
func (s *Session) touch(path string, element *Element, p params) error {
	if err := s.own(element); err != nil {
		return err
	}
	if p == nil {
		p = params{}
	}
	p["element"] = element.id
	return s.do(post(s.path(path), p))
}

// Single tap on the touch enabled device.
func (s *Session) TouchClick(element *Element) error {
	if err := s.own(element); err != nil {
		return err
	}
	return element.TouchClick()
}

// Finger down on the screen.
func (s *Session) TouchDown(x, y int) error {
	return s.do(post(s.path("/touch/down"), params{"x": x, "y": y}))
}

// Finger up on the screen.
func (s *Session) TouchUp(x, y int) error {
	return s.do(post(s.path("/touch/up"), params{"x": x, "y": y}))
}

// Finger move on the screen.
func (s *Session) TouchMove(x, y int) error {
	return s.do(post(s.path("/touch/move"), params{"x": x, "y": y}))
}

// Scroll on the touch screen using finger based motion events.
func (s *Session) TouchScroll(element *Element, xoffset, yoffset int) error {
	return s.touch("/touch/scroll", element, params{"xoffset": xoffset, "yoffset": yoffset})
}

// Double tap on the touch screen using finger motion events.
func (s *Session) TouchDoubleClick(element *Element) error {
	if err := s.own(element); err != nil {
		return err
	}
	return element.TouchDoubleClick()
}

// Long press on the touch screen using finger motion events.
func (s *Session) TouchLongClick(element *Element) error {
	if err := s.own(element); err != nil {
		return err
	}
	return element.TouchLongClick()
}

// Flick on the touch screen using finger motion events, starting at element.
func (s *Session) TouchFlick(element *Element, xoffset, yoffset, speed int) error {
	return s.touch("/touch/flick", element, params{"xoffset": xoffset, "yoffset": yoffset, "speed": speed})
}

// Flick on the touch screen using finger motion events.
// Use this flick command if you don't care where the flick starts on the screen.
func (s *Session) TouchFlickAnywhere(xspeed, yspeed int) error {
	return s.do(post(s.path("/touch/flick"), params{"xspeed": xspeed, "yspeed": yspeed}))
}
