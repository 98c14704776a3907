// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"math"
	"time"
)

// Element is a reference to an element of a session. It is a plain value:
// copying it is cheap and nothing needs to be released. Elements come from
// Session lookups or ElementFromID; a zero Element fails with ErrNoSession.
type Element struct {
	session *Session
	id      string
}

func (e Element) ID() string        { return e.id }
func (e Element) Session() *Session { return e.session }

func (e Element) path(format string, ids ...string) string {
	return e.session.path("/element/%s"+format, append([]string{e.id}, ids...)...)
}

func (e Element) String() string {
	return "element " + e.id
}

// Search for an element on the page, starting from the identified element.
func (e Element) FindElement(loc ElementLocator, timeout ...time.Duration) (*Element, error) {
	found, _, err := e.session.findElement(e.path("/element"), loc, e.session.timeout(timeout))
	return found, err
}

// Search for multiple elements on the page, starting from the identified element.
func (e Element) FindElements(loc ElementLocator, timeout ...time.Duration) ([]*Element, error) {
	return e.session.findElements(e.path("/elements"), loc, e.session.timeout(timeout))
}

// RequireElement is FindElement that fails with *ElementNotFoundError when
// nothing matched.
func (e Element) RequireElement(loc ElementLocator, description string, timeout ...time.Duration) (*Element, error) {
	found, last, err := e.session.findElement(e.path("/element"), loc, e.session.timeout(timeout))
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, &ElementNotFoundError{Locator: loc, Description: description, Err: last}
	}
	return found, nil
}

// interact sends cmd, retrying while the server reports the element as not
// interactable yet. The last such error is returned once the retry timeout
// of the session elapses.
func (e Element) interact(cmd Command) error {
	if e.session == nil {
		return ErrNoSession
	}
	var last error
	ok, err := PollBool(e.session.poller(), e.session.ClickRetryTimeout, func() (bool, error) {
		err := e.session.do(cmd)
		if err == nil {
			return true, nil
		}
		if IsStatus(err, StatusVendorNotInteractable) {
			last = err
			return false, nil
		}
		return false, err
	})
	if err != nil {
		return err
	}
	if !ok {
		return last
	}
	return nil
}

// Click on an element.
func (e Element) Click() error {
	return e.interact(post(e.path("/click"), nil))
}

// Single tap on the element.
func (e Element) TouchClick() error {
	return e.interact(post(e.session.path("/touch/click"), params{"element": e.id}))
}

// Double tap on the element.
func (e Element) TouchDoubleClick() error {
	return e.interact(post(e.session.path("/touch/doubleclick"), params{"element": e.id}))
}

// Long press on the element.
func (e Element) TouchLongClick() error {
	return e.interact(post(e.session.path("/touch/longclick"), params{"element": e.id}))
}

// Submit a FORM element.
func (e Element) Submit() error {
	return e.session.do(post(e.path("/submit"), nil))
}

// Returns the visible text for the element.
func (e Element) Text() (string, error) {
	return sessionValue[string](e.session, get(e.path("/text")))
}

// Send a sequence of key strokes to an element.
func (e Element) SendKeys(sequence string) error {
	keys := splitKeys(sequence)
	cmd := post(e.path("/value"), params{"value": keys}).
		withW3C(post(e.path("/value"), params{"text": sequence, "value": keys}))
	return e.session.do(cmd)
}

// Clear a TEXTAREA or text INPUT element's value.
func (e Element) Clear() error {
	return e.session.do(post(e.path("/clear"), nil))
}

// Query for an element's tag name.
func (e Element) Name() (string, error) {
	return sessionValue[string](e.session, get(e.path("/name")))
}

// Determine if an OPTION element, or an INPUT element of type checkbox or radiobutton is currently selected.
func (e Element) IsSelected() (bool, error) {
	return sessionValue[bool](e.session, get(e.path("/selected")))
}

// Determine if an element is currently enabled.
func (e Element) IsEnabled() (bool, error) {
	return sessionValue[bool](e.session, get(e.path("/enabled")))
}

// Determine if an element is currently displayed.
func (e Element) IsDisplayed() (bool, error) {
	return sessionValue[bool](e.session, get(e.path("/displayed")))
}

// Get the value of an element's attribute. A missing attribute yields "".
func (e Element) GetAttribute(name string) (string, error) {
	v, err := sessionValue[*string](e.session, get(e.path("/attribute/%s", name)))
	if err != nil || v == nil {
		return "", err
	}
	return *v, nil
}

// Get the raw JSON value of an element's DOM property.
func (e Element) GetProperty(name string) ([]byte, error) {
	resp, err := e.session.send(get(e.path("/property/%s", name)))
	if err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// Query the value of an element's computed CSS property.
func (e Element) GetCssProperty(name string) (string, error) {
	return sessionValue[string](e.session, get(e.path("/css/%s", name)))
}

// Test if two element references refer to the same DOM element.
// W3C servers hand out one reference per element, so ids are compared locally.
func (e Element) Equal(other *Element) (bool, error) {
	if e.session == nil {
		return false, ErrNoSession
	}
	if err := e.session.own(other); err != nil {
		return false, err
	}
	if e.session.protocol == ProtocolW3C {
		return e.id == other.id, nil
	}
	return sessionValue[bool](e.session, get(e.path("/equal/%s", other.id)))
}

// Rect is the location and size of an element, in CSS pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Position() Position {
	return Position{int(math.Round(r.X)), int(math.Round(r.Y))}
}

func (r Rect) Size() Size {
	return Size{int(math.Round(r.Width)), int(math.Round(r.Height))}
}

func (e Element) rect() (Rect, error) {
	return sessionValue[Rect](e.session, get(e.path("/rect")))
}

// Determine an element's location and size.
func (e Element) Rect() (Rect, error) {
	if e.session == nil {
		return Rect{}, ErrNoSession
	}
	if e.session.protocol == ProtocolW3C {
		return e.rect()
	}
	loc, err := sessionValue[Rect](e.session, get(e.path("/location")))
	if err != nil {
		return Rect{}, err
	}
	size, err := sessionValue[Rect](e.session, get(e.path("/size")))
	if err != nil {
		return Rect{}, err
	}
	loc.Width, loc.Height = size.Width, size.Height
	return loc, nil
}

// Determine an element's location on the page.
// The point (0, 0) refers to the upper-left corner of the page.
func (e Element) GetLocation() (Position, error) {
	r, err := sessionValue[Rect](e.session, get(e.path("/location")).withW3C(get(e.path("/rect"))))
	return r.Position(), err
}

// Determine an element's location on the screen once it has been scrolled into view (legacy servers only).
func (e Element) GetLocationInView() (Position, error) {
	r, err := sessionValue[Rect](e.session, get(e.path("/location_in_view")))
	return r.Position(), err
}

// Determine an element's size in pixels.
func (e Element) Size() (Size, error) {
	r, err := sessionValue[Rect](e.session, get(e.path("/size")).withW3C(get(e.path("/rect"))))
	return r.Size(), err
}

// Take a screenshot of the element. The result is PNG data.
func (e Element) Screenshot() ([]byte, error) {
	return screenshot(e.session, get(e.path("/screenshot")))
}
