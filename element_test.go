// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"errors"
	"testing"
	"time"

	"github.com/fedesog/webdriver/v2/webdrivertest"
)

const notInteractableVendor = `{"status":105,"value":{"message":"Other element would receive the click"}}`

func TestClickRetry(t *testing.T) {
	s, tr, c := newTestSession(ProtocolLegacy)
	tr.Expect("POST", "/session/mySession/element/e1/click", 500, notInteractableVendor)
	tr.Expect("POST", "/session/mySession/element/e1/click", 500, notInteractableVendor)
	tr.ExpectBody("POST", "/session/mySession/element/e1/click", `{}`, 200, `{"status":0,"value":null}`)
	if err := s.ElementFromID("e1").Click(); err != nil {
		t.Fatal(err)
	}
	if err := tr.Verify(); err != nil {
		t.Error(err)
	}
	if len(c.sleeps) != 2 {
		t.Errorf("slept %v", c.sleeps)
	}
}

func TestClickRetryExhausted(t *testing.T) {
	s, tr, c := newTestSession(ProtocolLegacy)
	s.ClickRetryTimeout = 200 * time.Millisecond
	tr.Add(webdrivertest.Exchange{Method: "POST", Path: "/session/mySession/touch/click",
		Status: 500, Response: notInteractableVendor, Always: true})
	err := s.ElementFromID("e1").TouchClick()
	if !IsStatus(err, StatusVendorNotInteractable) {
		t.Fatalf("got %v", err)
	}
	if c.slept() != 200*time.Millisecond {
		t.Errorf("slept %s", c.slept())
	}
}

func TestClickErrorsNotRetried(t *testing.T) {
	responses := map[WireProtocol]string{
		ProtocolLegacy: `{"status":12,"value":{"message":"element is disabled"}}`,
		ProtocolW3C:    `{"value":{"error":"element not interactable","message":"element has zero size"}}`,
	}
	for protocol, response := range responses {
		s, tr, c := newTestSession(protocol)
		tr.Add(webdrivertest.Exchange{Method: "POST", Path: "/session/mySession/element/e1/click",
			Status: 400, Response: response, Always: true})
		if err := s.ElementFromID("e1").Click(); err == nil {
			t.Errorf("%s: click succeeded", protocol)
		}
		if n := tr.Count("POST", "/session/mySession/element/e1/click"); n != 1 || len(c.sleeps) != 0 {
			t.Errorf("%s: %d attempts", protocol, n)
		}
	}
}

func TestTouchFromSession(t *testing.T) {
	s, tr, _ := newTestSession(ProtocolLegacy)
	tr.ExpectBody("POST", "/session/mySession/touch/doubleclick", `{"element":"e1"}`, 500, notInteractableVendor)
	tr.ExpectBody("POST", "/session/mySession/touch/doubleclick", `{"element":"e1"}`, 200, `{"status":0}`)
	tr.ExpectBody("POST", "/session/mySession/touch/scroll", `{"element":"e1","xoffset":0,"yoffset":50}`, 200, `{"status":0}`)
	e := s.ElementFromID("e1")
	if err := s.TouchDoubleClick(e); err != nil {
		t.Fatal(err)
	}
	if err := s.TouchScroll(e, 0, 50); err != nil {
		t.Fatal(err)
	}
	if err := tr.Verify(); err != nil {
		t.Error(err)
	}
}

func TestElementSubtree(t *testing.T) {
	s, tr, _ := newTestSession(ProtocolW3C)
	tr.ExpectBody("POST", "/session/mySession/element/parent/element", `{"using":"tag name","value":"li"}`,
		200, `{"value":{"element-6066-11e4-a52e-4f735466cecf":"child"}}`)
	tr.ExpectBody("POST", "/session/mySession/element/parent/elements", `{"using":"tag name","value":"li"}`,
		200, `{"value":[{"element-6066-11e4-a52e-4f735466cecf":"c1"},{"element-6066-11e4-a52e-4f735466cecf":"c2"}]}`)
	parent := s.ElementFromID("parent")
	child, err := parent.FindElement(ByTagName("li"))
	if err != nil || child.ID() != "child" {
		t.Fatalf("%v, %v", child, err)
	}
	children, err := parent.FindElements(ByTagName("li"))
	if err != nil || len(children) != 2 {
		t.Fatalf("%v, %v", children, err)
	}
	if err := tr.Verify(); err != nil {
		t.Error(err)
	}
}

func TestElementEqual(t *testing.T) {
	w3c, wtr, _ := newTestSession(ProtocolW3C)
	if eq, err := w3c.ElementFromID("a").Equal(w3c.ElementFromID("a")); err != nil || !eq {
		t.Errorf("%v, %v", eq, err)
	}
	if eq, err := w3c.ElementFromID("a").Equal(w3c.ElementFromID("b")); err != nil || eq {
		t.Errorf("%v, %v", eq, err)
	}
	if len(wtr.Requests()) != 0 {
		t.Errorf("requests sent: %v", wtr.Requests())
	}

	legacy, ltr, _ := newTestSession(ProtocolLegacy)
	ltr.Expect("GET", "/session/mySession/element/a/equal/b", 200, `{"status":0,"value":true}`)
	if eq, err := legacy.ElementFromID("a").Equal(legacy.ElementFromID("b")); err != nil || !eq {
		t.Errorf("%v, %v", eq, err)
	}
	if err := ltr.Verify(); err != nil {
		t.Error(err)
	}
}

func TestElementRect(t *testing.T) {
	legacy, ltr, _ := newTestSession(ProtocolLegacy)
	ltr.Expect("GET", "/session/mySession/element/e1/location", 200, `{"status":0,"value":{"x":10.4,"y":20.6}}`)
	ltr.Expect("GET", "/session/mySession/element/e1/size", 200, `{"status":0,"value":{"width":100,"height":30}}`)
	w3c, wtr, _ := newTestSession(ProtocolW3C)
	wtr.Expect("GET", "/session/mySession/element/e1/rect", 200,
		`{"value":{"x":10.4,"y":20.6,"width":100,"height":30}}`)
	for _, s := range []*Session{legacy, w3c} {
		r, err := s.ElementFromID("e1").Rect()
		if err != nil {
			t.Fatalf("%s: %v", s.Protocol(), err)
		}
		if r != (Rect{X: 10.4, Y: 20.6, Width: 100, Height: 30}) {
			t.Errorf("%s: got %+v", s.Protocol(), r)
		}
		if p := r.Position(); p != (Position{10, 21}) {
			t.Errorf("%s: position %+v", s.Protocol(), p)
		}
	}
	wtr.Expect("GET", "/session/mySession/element/e1/rect", 200,
		`{"value":{"x":1,"y":2,"width":3.5,"height":4}}`)
	if size, err := w3c.ElementFromID("e1").Size(); err != nil || size != (Size{4, 4}) {
		t.Errorf("size %+v, %v", size, err)
	}
}

func TestElementAttributes(t *testing.T) {
	s, tr, _ := newTestSession(ProtocolW3C)
	tr.Expect("GET", "/session/mySession/element/e1/attribute/data-id", 200, `{"value":"42"}`)
	tr.Expect("GET", "/session/mySession/element/e1/attribute/missing", 200, `{"value":null}`)
	tr.Expect("GET", "/session/mySession/element/e1/property/checked", 200, `{"value":true}`)
	tr.Expect("GET", "/session/mySession/element/e1/css/font-size", 200, `{"value":"12px"}`)
	tr.Expect("GET", "/session/mySession/element/e1/selected", 200, `{"value":false}`)
	e := s.ElementFromID("e1")
	if v, err := e.GetAttribute("data-id"); err != nil || v != "42" {
		t.Errorf("%q, %v", v, err)
	}
	if v, err := e.GetAttribute("missing"); err != nil || v != "" {
		t.Errorf("%q, %v", v, err)
	}
	if v, err := e.GetProperty("checked"); err != nil || string(v) != "true" {
		t.Errorf("%s, %v", v, err)
	}
	if v, err := e.GetCssProperty("font-size"); err != nil || v != "12px" {
		t.Errorf("%q, %v", v, err)
	}
	if v, err := e.IsSelected(); err != nil || v {
		t.Errorf("%v, %v", v, err)
	}
	if err := tr.Verify(); err != nil {
		t.Error(err)
	}
}

func TestElementSendKeys(t *testing.T) {
	legacy, ltr, _ := newTestSession(ProtocolLegacy)
	ltr.ExpectBody("POST", "/session/mySession/element/e1/value", `{"value":["h","é"]}`, 200, `{"status":0}`)
	w3c, wtr, _ := newTestSession(ProtocolW3C)
	wtr.ExpectBody("POST", "/session/mySession/element/e1/value", `{"text":"hé","value":["h","é"]}`, 200, `{"value":null}`)
	for _, s := range []*Session{legacy, w3c} {
		if err := s.ElementFromID("e1").SendKeys("hé"); err != nil {
			t.Errorf("%s: %v", s.Protocol(), err)
		}
	}
	for _, tr := range []*webdrivertest.Transport{ltr, wtr} {
		if err := tr.Verify(); err != nil {
			t.Error(err)
		}
	}
}

func TestZeroElement(t *testing.T) {
	var e Element
	checks := map[string]error{
		"Click":      e.Click(),
		"TouchClick": e.TouchClick(),
		"Submit":     e.Submit(),
	}
	_, checks["Text"] = e.Text()
	_, checks["Rect"] = e.Rect()
	_, checks["Size"] = e.Size()
	_, checks["Equal"] = e.Equal(&Element{})
	_, checks["FindElement"] = e.FindElement(ByID("x"), time.Second)
	_, checks["FindElements"] = e.FindElements(ByID("x"))
	_, checks["Screenshot"] = e.Screenshot()
	for name, err := range checks {
		if !errors.Is(err, ErrNoSession) {
			t.Errorf("%s: got %v", name, err)
		}
	}
}
