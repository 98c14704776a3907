// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultClickRetryTimeout bounds the retries of element clicks and taps
// on controls reported as not interactable.
var DefaultClickRetryTimeout = 1 * time.Second

// A session.
//
// A Session is meant to be driven by one goroutine at a time. The protocol
// is fixed for its whole life.
type Session struct {
	id           string
	protocol     WireProtocol
	capabilities Capabilities
	driver       Driver

	// Poller used by element lookups and click retries. Default: DefaultPoller.
	Poller *Poller
	// ClickRetryTimeout bounds Element.Click and the touch variants.
	ClickRetryTimeout time.Duration

	mu           sync.Mutex
	retryTimeout time.Duration
	owned        bool
	deleted      bool
}

// AttachSession wraps a session id the caller already knows. Only an owned
// session is deleted by Close. A session attached with ProtocolAuto is
// assumed to speak W3C.
func AttachSession(d Driver, protocol WireProtocol, id string, caps Capabilities, owned bool) *Session {
	if protocol == ProtocolAuto {
		protocol = ProtocolW3C
	}
	if caps == nil {
		caps = Capabilities{}
	}
	return &Session{
		id:                id,
		protocol:          protocol,
		capabilities:      caps,
		driver:            d,
		ClickRetryTimeout: DefaultClickRetryTimeout,
		retryTimeout:      DefaultRetryTimeout,
		owned:             owned,
	}
}

func (s *Session) ID() string             { return s.id }
func (s *Session) Protocol() WireProtocol { return s.protocol }

// Retrieve the capabilities returned by the server when the session was created.
func (s *Session) Capabilities() Capabilities { return s.capabilities }

func (s *Session) DefaultRetryTimeout() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retryTimeout
}

// SetDefaultRetryTimeout sets the timeout used by lookups called without
// an explicit one.
func (s *Session) SetDefaultRetryTimeout(d time.Duration) error {
	if d < 0 {
		return ErrNegativeTimeout
	}
	s.mu.Lock()
	s.retryTimeout = d
	s.mu.Unlock()
	return nil
}

// Owned reports whether Close deletes the session on the server.
func (s *Session) Owned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owned
}

func (s *Session) SetOwned(owned bool) {
	s.mu.Lock()
	s.owned = owned
	s.mu.Unlock()
}

// Delete the session.
// Only the first call reaches the server; later calls return nil.
func (s *Session) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleted {
		return nil
	}
	s.deleted = true
	_, err := s.driver.Send(del(s.path("")))
	return err
}

// Close disposes of an owned session. Failures are logged, never returned.
func (s *Session) Close() {
	if !s.Owned() {
		return
	}
	if err := s.Delete(); err != nil {
		logger.WithField("session", s.id).WithError(err).Warn("failed to delete session")
	}
}

func (s *Session) isDeleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleted
}

// path and send accept a nil session, the one of a zero Element.
func (s *Session) path(format string, ids ...string) string {
	if s == nil {
		return ""
	}
	return escapePath("/session/%s"+format, append([]string{s.id}, ids...)...)
}

func (s *Session) send(cmd Command) (*Response, error) {
	if s == nil {
		return nil, ErrNoSession
	}
	if s.isDeleted() {
		return nil, ErrSessionDeleted
	}
	return s.driver.Send(s.protocol.route(cmd))
}

func (s *Session) do(cmd Command) error {
	_, err := s.send(cmd)
	return err
}

func sessionValue[T any](s *Session, cmd Command) (T, error) {
	resp, err := s.send(cmd)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeValue[T](resp)
}

func (s *Session) poller() *Poller {
	if s == nil || s.Poller == nil {
		return DefaultPoller
	}
	return s.Poller
}

func (s *Session) timeout(timeout []time.Duration) time.Duration {
	if len(timeout) > 0 {
		return timeout[0]
	}
	if s == nil {
		return 0
	}
	return s.DefaultRetryTimeout()
}

// own checks that e can be passed to an operation of s.
func (s *Session) own(e *Element) error {
	if e == nil {
		return errors.New("nil element")
	}
	if e.session != s {
		return ErrForeignElement
	}
	return nil
}

func (s *Session) element(id string) *Element {
	return &Element{session: s, id: id}
}

// Returns the element with the given id, as returned by a script or another client.
func (s *Session) ElementFromID(id string) *Element {
	return s.element(id)
}

// findElement polls path until the locator matches. It returns nil and no
// error on exhaustion, along with the last lookup failure.
func (s *Session) findElement(path string, loc ElementLocator, timeout time.Duration) (*Element, error, error) {
	var last error
	e, err := Poll(s.poller(), timeout, func() (*Element, bool, error) {
		resp, err := s.send(post(path, loc))
		if err != nil {
			if IsStatus(err, StatusNoSuchElement) {
				last = err
				return nil, false, nil
			}
			return nil, false, err
		}
		id, err := decodeElementID(resp.Value)
		if err != nil {
			return nil, false, err
		}
		return s.element(id), true, nil
	})
	return e, last, err
}

func (s *Session) findElements(path string, loc ElementLocator, timeout time.Duration) ([]*Element, error) {
	found, err := Poll(s.poller(), timeout, func() ([]*Element, bool, error) {
		resp, err := s.send(post(path, loc))
		if err != nil {
			if IsStatus(err, StatusNoSuchElement) {
				return nil, false, nil
			}
			return nil, false, err
		}
		ids, err := decodeElementIDs(resp.Value)
		if err != nil {
			return nil, false, err
		}
		elements := make([]*Element, len(ids))
		for i, id := range ids {
			elements[i] = s.element(id)
		}
		return elements, len(elements) > 0, nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		found = []*Element{}
	}
	return found, nil
}

// Search for an element on the page, starting from the document root.
// The search is retried until timeout (default: DefaultRetryTimeout) while the
// server reports no such element. A nil element and a nil error mean nothing matched.
func (s *Session) FindElement(loc ElementLocator, timeout ...time.Duration) (*Element, error) {
	e, _, err := s.findElement(s.path("/element"), loc, s.timeout(timeout))
	return e, err
}

// Search for multiple elements on the page, starting from the document root.
// An empty result is retried until timeout; the result is never nil on success.
func (s *Session) FindElements(loc ElementLocator, timeout ...time.Duration) ([]*Element, error) {
	return s.findElements(s.path("/elements"), loc, s.timeout(timeout))
}

// RequireElement is FindElement that fails with *ElementNotFoundError when
// nothing matched.
func (s *Session) RequireElement(loc ElementLocator, description string, timeout ...time.Duration) (*Element, error) {
	e, last, err := s.findElement(s.path("/element"), loc, s.timeout(timeout))
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, &ElementNotFoundError{Locator: loc, Description: description, Err: last}
	}
	return e, nil
}

// Get the element on the page that currently has focus.
func (s *Session) ActiveElement() (*Element, error) {
	cmd := post(s.path("/element/active"), nil).withW3C(get(s.path("/element/active")))
	resp, err := s.send(cmd)
	if err != nil {
		return nil, err
	}
	id, err := decodeElementID(resp.Value)
	if err != nil {
		return nil, err
	}
	return s.element(id), nil
}

// Navigate to a new URL.
func (s *Session) Url(url string) error {
	return s.do(post(s.path("/url"), params{"url": url}))
}

// Retrieve the URL of the current page.
func (s *Session) GetUrl() (string, error) {
	return sessionValue[string](s, get(s.path("/url")))
}

// Navigate forwards in the browser history, if possible.
func (s *Session) Forward() error {
	return s.do(post(s.path("/forward"), nil))
}

// Navigate backwards in the browser history, if possible.
func (s *Session) Back() error {
	return s.do(post(s.path("/back"), nil))
}

// Refresh the current page.
func (s *Session) Refresh() error {
	return s.do(post(s.path("/refresh"), nil))
}

// Get the current page title.
func (s *Session) Title() (string, error) {
	return sessionValue[string](s, get(s.path("/title")))
}

// Get the current page source.
func (s *Session) Source() (string, error) {
	return sessionValue[string](s, get(s.path("/source")))
}

// scriptArgs replaces elements in args with their wire references.
func (s *Session) scriptArgs(args []interface{}) ([]interface{}, error) {
	out := make([]interface{}, len(args))
	for i, a := range args {
		switch e := a.(type) {
		case *Element:
			if err := s.own(e); err != nil {
				return nil, err
			}
			out[i] = s.protocol.elementRef(e.id)
		case Element:
			if err := s.own(&e); err != nil {
				return nil, err
			}
			out[i] = s.protocol.elementRef(e.id)
		default:
			out[i] = a
		}
	}
	return out, nil
}

func (s *Session) execute(legacy, w3c, script string, args []interface{}) (json.RawMessage, error) {
	args, err := s.scriptArgs(args)
	if err != nil {
		return nil, err
	}
	p := params{"script": script, "args": args}
	resp, err := s.send(post(s.path(legacy), p).withW3C(post(s.path(w3c), p)))
	if err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// Inject a snippet of JavaScript into the page for execution in the context of the currently selected frame.
// The script is the body of a function invoked with args; elements in args are
// passed as references. The raw JSON result is returned.
func (s *Session) ExecuteScript(script string, args []interface{}) (json.RawMessage, error) {
	return s.execute("/execute", "/execute/sync", script, args)
}

// Inject an asynchronous snippet of JavaScript into the page. The script signals
// completion by invoking the callback passed as its final argument.
func (s *Session) ExecuteScriptAsync(script string, args []interface{}) (json.RawMessage, error) {
	return s.execute("/execute_async", "/execute/async", script, args)
}

// Take a screenshot of the current page. The result is PNG data.
func (s *Session) Screenshot() ([]byte, error) {
	return screenshot(s, get(s.path("/screenshot")))
}

func screenshot(s *Session, cmd Command) ([]byte, error) {
	encoded, err := sessionValue[string](s, cmd)
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &ProtocolError{HTTPStatus: 200, Body: head(encoded, 64), Err: err}
	}
	return data, nil
}

// Timeout types accepted by SetTimeouts.
const (
	TimeoutScript   = "script"
	TimeoutImplicit = "implicit"
	TimeoutPageLoad = "page load"
)

// Configure the amount of time that a particular type of operation can execute for before they are aborted.
// Valid types are TimeoutScript, TimeoutImplicit and TimeoutPageLoad.
func (s *Session) SetTimeouts(typ string, d time.Duration) error {
	if d < 0 {
		return ErrNegativeTimeout
	}
	key := typ
	switch typ {
	case TimeoutScript, TimeoutImplicit:
	case TimeoutPageLoad:
		key = "pageLoad"
	default:
		return fmt.Errorf("unknown timeout type %q", typ)
	}
	ms := d.Milliseconds()
	cmd := post(s.path("/timeouts"), params{"type": typ, "ms": ms}).
		withW3C(post(s.path("/timeouts"), params{key: ms}))
	return s.do(cmd)
}

// Set the amount of time the server waits when searching for elements.
func (s *Session) SetImplicitWait(d time.Duration) error {
	if d < 0 {
		return ErrNegativeTimeout
	}
	ms := d.Milliseconds()
	cmd := post(s.path("/timeouts/implicit_wait"), params{"ms": ms}).
		withW3C(post(s.path("/timeouts"), params{"implicit": ms}))
	return s.do(cmd)
}

// Set the amount of time asynchronous scripts are permitted to run.
func (s *Session) SetScriptTimeout(d time.Duration) error {
	if d < 0 {
		return ErrNegativeTimeout
	}
	ms := d.Milliseconds()
	cmd := post(s.path("/timeouts/async_script"), params{"ms": ms}).
		withW3C(post(s.path("/timeouts"), params{"script": ms}))
	return s.do(cmd)
}

func (s *Session) SetPageLoadTimeout(d time.Duration) error {
	return s.SetTimeouts(TimeoutPageLoad, d)
}

func (s *Session) GetCurrentWindowHandle() WindowHandle {
	return WindowHandle{s, "current"}
}

// Retrieve the current window handle.
func (s *Session) WindowHandle() (WindowHandle, error) {
	cmd := get(s.path("/window_handle")).withW3C(get(s.path("/window")))
	handle, err := sessionValue[string](s, cmd)
	if err != nil {
		return WindowHandle{}, err
	}
	return WindowHandle{s, handle}, nil
}

// Retrieve the list of all window handles available to the session.
func (s *Session) WindowHandles() ([]WindowHandle, error) {
	cmd := get(s.path("/window_handles")).withW3C(get(s.path("/window/handles")))
	hv, err := sessionValue[[]string](s, cmd)
	if err != nil {
		return nil, err
	}
	handles := make([]WindowHandle, len(hv))
	for i, h := range hv {
		handles[i] = WindowHandle{s, h}
	}
	return handles, nil
}

// Change focus to another window, given its handle (or name on legacy servers).
func (s *Session) FocusOnWindow(handle string) error {
	cmd := post(s.path("/window"), params{"name": handle}).
		withW3C(post(s.path("/window"), params{"handle": handle}))
	return s.do(cmd)
}

// Close the current window.
func (s *Session) CloseCurrentWindow() error {
	return s.do(del(s.path("/window")))
}

// Change focus to another frame on the page.
// frameID is nil (top level), an index, a frame name (legacy only) or an element.
func (s *Session) FocusOnFrame(frameID interface{}) error {
	switch f := frameID.(type) {
	case nil, int, string:
	case *Element:
		if err := s.own(f); err != nil {
			return err
		}
		frameID = s.protocol.elementRef(f.id)
	case Element:
		if err := s.own(&f); err != nil {
			return err
		}
		frameID = s.protocol.elementRef(f.id)
	default:
		return errors.New("invalid frame, must be string|int|nil|Element")
	}
	return s.do(post(s.path("/frame"), params{"id": frameID}))
}

// Change focus back to parent frame
func (s *Session) FocusParentFrame() error {
	return s.do(post(s.path("/frame/parent"), nil))
}

type Cookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Path     string `json:"path,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Secure   bool   `json:"secure,omitempty"`
	HTTPOnly bool   `json:"httpOnly,omitempty"`
	Expiry   int64  `json:"expiry,omitempty"`
}

// Retrieve all cookies visible to the current page.
func (s *Session) GetCookies() ([]Cookie, error) {
	return sessionValue[[]Cookie](s, get(s.path("/cookie")))
}

// Set a cookie.
func (s *Session) SetCookie(cookie Cookie) error {
	return s.do(post(s.path("/cookie"), params{"cookie": cookie}))
}

// Delete all cookies visible to the current page.
func (s *Session) DeleteCookies() error {
	return s.do(del(s.path("/cookie")))
}

// Delete the cookie with the given name.
func (s *Session) DeleteCookieByName(name string) error {
	return s.do(del(s.path("/cookie/%s", name)))
}

// Gets the text of the currently displayed JavaScript alert(), confirm(), or prompt() dialog.
func (s *Session) GetAlertText() (string, error) {
	cmd := get(s.path("/alert_text")).withW3C(get(s.path("/alert/text")))
	return sessionValue[string](s, cmd)
}

// Sends keystrokes to a JavaScript prompt() dialog.
func (s *Session) SetAlertText(text string) error {
	p := params{"text": text}
	return s.do(post(s.path("/alert_text"), p).withW3C(post(s.path("/alert/text"), p)))
}

// Accepts the currently displayed alert dialog.
func (s *Session) AcceptAlert() error {
	return s.do(post(s.path("/accept_alert"), nil).withW3C(post(s.path("/alert/accept"), nil)))
}

// Dismisses the currently displayed alert dialog.
func (s *Session) DismissAlert() error {
	return s.do(post(s.path("/dismiss_alert"), nil).withW3C(post(s.path("/alert/dismiss"), nil)))
}

type ScreenOrientation string

const (
	Landscape = ScreenOrientation("LANDSCAPE")
	Portrait  = ScreenOrientation("PORTRAIT")
)

// Get the current browser orientation.
func (s *Session) GetOrientation() (ScreenOrientation, error) {
	return sessionValue[ScreenOrientation](s, get(s.path("/orientation")))
}

// Set the browser orientation.
func (s *Session) SetOrientation(orientation ScreenOrientation) error {
	return s.do(post(s.path("/orientation"), params{"orientation": orientation}))
}

type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// Get the current geo location.
func (s *Session) GetGeoLocation() (GeoLocation, error) {
	return sessionValue[GeoLocation](s, get(s.path("/location")))
}

// Set the current geo location.
func (s *Session) SetGeoLocation(location GeoLocation) error {
	return s.do(post(s.path("/location"), params{"location": location}))
}

// Storage is the local or session web storage of a session.
type Storage struct {
	s    *Session
	kind string
}

func (s *Session) LocalStorage() Storage   { return Storage{s, "local_storage"} }
func (s *Session) SessionStorage() Storage { return Storage{s, "session_storage"} }

// Get all keys of the storage.
func (st Storage) Keys() ([]string, error) {
	return sessionValue[[]string](st.s, get(st.s.path("/%s", st.kind)))
}

// Set the storage item for the given key.
func (st Storage) Set(key, value string) error {
	return st.s.do(post(st.s.path("/%s", st.kind), params{"key": key, "value": value}))
}

// Get the storage item for the given key.
func (st Storage) Get(key string) (string, error) {
	return sessionValue[string](st.s, get(st.s.path("/%s/key/%s", st.kind, key)))
}

// Remove the storage item for the given key.
func (st Storage) Remove(key string) error {
	return st.s.do(del(st.s.path("/%s/key/%s", st.kind, key)))
}

// Clear the storage.
func (st Storage) Clear() error {
	return st.s.do(del(st.s.path("/%s", st.kind)))
}

// Get the number of items in the storage.
func (st Storage) Size() (int, error) {
	return sessionValue[int](st.s, get(st.s.path("/%s/size", st.kind)))
}

type LogLevel string

const (
	LogAll     = LogLevel("ALL")
	LogDebug   = LogLevel("DEBUG")
	LogInfo    = LogLevel("INFO")
	LogWarning = LogLevel("WARNING")
	LogSevere  = LogLevel("SEVERE")
	LogOff     = LogLevel("OFF")
)

type LogEntry struct {
	// milliseconds since the epoch
	Timestamp int64    `json:"timestamp"`
	Level     LogLevel `json:"level"`
	Message   string   `json:"message"`
}

func (e LogEntry) Time() time.Time { return time.UnixMilli(e.Timestamp) }

// Get the log for a given log type.
func (s *Session) Log(logType string) ([]LogEntry, error) {
	cmd := post(s.path("/log"), params{"type": logType}).
		withW3C(post(s.path("/se/log"), params{"type": logType}))
	return sessionValue[[]LogEntry](s, cmd)
}

// Get available log types.
func (s *Session) LogTypes() ([]string, error) {
	cmd := get(s.path("/log/types")).withW3C(get(s.path("/se/log/types")))
	return sessionValue[[]string](s, cmd)
}
