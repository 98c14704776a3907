// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/fedesog/webdriver/v2/webdrivertest"
)

func TestParseWireProtocol(t *testing.T) {
	tests := []struct {
		in   string
		want WireProtocol
	}{
		{"", ProtocolAuto},
		{"auto", ProtocolAuto},
		{"legacy", ProtocolLegacy},
		{"JsonWire", ProtocolLegacy},
		{" w3c ", ProtocolW3C},
	}
	for _, test := range tests {
		got, err := ParseWireProtocol(test.in)
		if err != nil || got != test.want {
			t.Errorf("ParseWireProtocol(%q) = %v, %v", test.in, got, err)
		}
	}
	if _, err := ParseWireProtocol("soap"); err == nil {
		t.Error("expected an error")
	}
}

func bodyOf(t *testing.T, c Command) map[string]interface{} {
	data, err := encodeBody(c)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNewSessionCommand(t *testing.T) {
	desired := Capabilities{"browserName": "chrome"}
	legacy := bodyOf(t, newSessionCommand(SessionRequest{Protocol: ProtocolLegacy, Desired: desired}))
	if _, ok := legacy["capabilities"]; ok {
		t.Error("legacy body carries W3C capabilities")
	}
	if legacy["desiredCapabilities"].(map[string]interface{})["browserName"] != "chrome" {
		t.Errorf("legacy body %v", legacy)
	}

	w3c := bodyOf(t, newSessionCommand(SessionRequest{
		Protocol: ProtocolW3C,
		Desired:  desired,
		Required: Capabilities{"platformName": "linux"},
	}))
	if _, ok := w3c["desiredCapabilities"]; ok {
		t.Error("w3c body carries desiredCapabilities")
	}
	caps := w3c["capabilities"].(map[string]interface{})
	always := caps["alwaysMatch"].(map[string]interface{})
	if always["browserName"] != "chrome" || always["platformName"] != "linux" {
		t.Errorf("alwaysMatch %v", always)
	}
	if !reflect.DeepEqual(caps["firstMatch"], []interface{}{map[string]interface{}{}}) {
		t.Errorf("firstMatch %v", caps["firstMatch"])
	}

	auto := bodyOf(t, newSessionCommand(SessionRequest{Desired: desired}))
	if auto["desiredCapabilities"] == nil || auto["capabilities"] == nil {
		t.Errorf("auto body %v", auto)
	}
}

func TestEncodeBody(t *testing.T) {
	if data, _ := encodeBody(get("/status")); data != nil {
		t.Errorf("GET body %s", data)
	}
	if data, _ := encodeBody(post("/session/x/back", nil)); string(data) != "{}" {
		t.Errorf("POST body %s", data)
	}
	if p := escapePath("/session/%s/element/%s", "a b", "x/y"); p != "/session/a%20b/element/x%2Fy" {
		t.Errorf("escaping: %s", p)
	}
}

func TestRoute(t *testing.T) {
	c := get("/legacy").withW3C(get("/w3c"))
	if got := ProtocolLegacy.route(c); got.Path != "/legacy" || got.W3C != nil {
		t.Errorf("legacy route %v", got)
	}
	if got := ProtocolW3C.route(c); got.Path != "/w3c" {
		t.Errorf("w3c route %v", got)
	}
	if got := ProtocolW3C.route(get("/same")); got.Path != "/same" {
		t.Errorf("shared route %v", got)
	}
}

func TestDecodeResponseHTTPStatusWins(t *testing.T) {
	r, err := decodeResponse(200, []byte(`{"sessionId":"s","status":7,"value":"ok"}`))
	if err != nil {
		t.Fatal(err)
	}
	if r.SessionID != "s" || string(r.Value) != `"ok"` {
		t.Errorf("got %+v", r)
	}
	if r, err := decodeResponse(204, nil); err != nil || r.Value != nil {
		t.Errorf("empty body: %+v, %v", r, err)
	}
}

func TestDecodeError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    Status
		code    int
		message string
	}{
		{"legacy", 500, `{"sessionId":"s","status":7,"value":{"message":"no #foo"}}`, StatusNoSuchElement, 7, "no #foo"},
		{"w3c", 404, `{"value":{"error":"no such element","message":"no #foo","stacktrace":"at x"}}`, StatusNoSuchElement, -1, "no #foo"},
		{"both", 500, `{"status":13,"value":{"error":"stale element reference","message":"gone"}}`, StatusStaleElementReference, 13, "gone"},
		{"vendor", 500, `{"status":105,"value":{"message":"covered"}}`, StatusVendorNotInteractable, 105, "covered"},
		{"bare string", 500, `{"status":13,"value":"kaboom"}`, StatusUnknownError, 13, "kaboom"},
		{"unknown command", 404, `{}`, StatusUnknownCommand, -1, ""},
		{"unknown method", 405, `{}`, StatusUnknownMethod, -1, ""},
	}
	for _, test := range tests {
		_, err := decodeResponse(test.status, []byte(test.body))
		var er *ErrorResponse
		if !errors.As(err, &er) {
			t.Errorf("%s: got %v", test.name, err)
			continue
		}
		if er.Status != test.kind || er.Code != test.code || er.Message != test.message || er.HTTPStatus != test.status {
			t.Errorf("%s: got %+v", test.name, er)
		}
	}
}

func TestDecodeProtocolError(t *testing.T) {
	for _, status := range []int{200, 500} {
		_, err := decodeResponse(status, []byte("<html>bad gateway</html>"))
		var pe *ProtocolError
		if !errors.As(err, &pe) || pe.HTTPStatus != status {
			t.Errorf("%d: got %v", status, err)
		}
	}
	_, err := decodeResponse(404, []byte("404 page not found\n"))
	if msg := fmt.Sprint(err); !strings.Contains(msg, "http 404 Not Found") || !strings.Contains(msg, "404 page not found") {
		t.Errorf("got %q", msg)
	}
	if _, err := decodeElementID(json.RawMessage(`{"id":"x"}`)); err == nil {
		t.Error("element without reference key decoded")
	}
}

func TestDecodeElementID(t *testing.T) {
	for _, raw := range []string{
		`{"ELEMENT":"e1"}`,
		`{"element-6066-11e4-a52e-4f735466cecf":"e1"}`,
		`{"ELEMENT":"e1","element-6066-11e4-a52e-4f735466cecf":"e1"}`,
	} {
		id, err := decodeElementID(json.RawMessage(raw))
		if err != nil || id != "e1" {
			t.Errorf("%s: %q, %v", raw, id, err)
		}
	}
	ids, err := decodeElementIDs(json.RawMessage(`[{"ELEMENT":"a"},{"element-6066-11e4-a52e-4f735466cecf":"b"}]`))
	if err != nil || !reflect.DeepEqual(ids, []string{"a", "b"}) {
		t.Errorf("%v, %v", ids, err)
	}
}

func TestElementRef(t *testing.T) {
	if ref := ProtocolLegacy.elementRef("e"); ref["ELEMENT"] != "e" || len(ref) != 1 {
		t.Errorf("legacy ref %v", ref)
	}
	if ref := ProtocolW3C.elementRef("e"); ref[w3cElementKey] != "e" || len(ref) != 1 {
		t.Errorf("w3c ref %v", ref)
	}
}

// A new session command encoded for each dialect and answered with that
// dialect's response yields the same session.
func TestNewSessionRoundTrip(t *testing.T) {
	caps := `{"browserName":"chrome","goog:chromeOptions":{"args":["--headless"]}}`
	tests := []struct {
		protocol WireProtocol
		body     string
		response string
	}{
		{ProtocolLegacy, `{"desiredCapabilities":` + caps + `}`,
			`{"sessionId":"s1","status":0,"value":` + caps + `}`},
		{ProtocolW3C, `{"capabilities":{"alwaysMatch":` + caps + `,"firstMatch":[{}]}}`,
			`{"value":{"sessionId":"s1","capabilities":` + caps + `}}`},
	}
	for _, test := range tests {
		tr := &webdrivertest.Transport{}
		tr.ExpectBody("POST", "/session", test.body, 200, test.response)
		d := &RemoteDriver{URL: "http://wd.test", Transport: tr}
		desired := Capabilities{}.SetBrowserName("chrome").AddChrome([]string{"--headless"}, "")
		s, err := d.NewSession(test.protocol, desired)
		if err != nil {
			t.Fatalf("%s: %v", test.protocol, err)
		}
		if err := tr.Verify(); err != nil {
			t.Fatalf("%s: %v", test.protocol, err)
		}
		if s.ID() != "s1" || s.Protocol() != test.protocol || !s.Owned() {
			t.Errorf("%s: id=%q protocol=%s", test.protocol, s.ID(), s.Protocol())
		}
		var want Capabilities
		json.Unmarshal([]byte(caps), &want)
		if !reflect.DeepEqual(s.Capabilities(), want) {
			t.Errorf("%s: capabilities %v", test.protocol, s.Capabilities())
		}
	}
}

func TestNewSessionNegotiation(t *testing.T) {
	mixed := `{"sessionId":"s1","value":{"sessionId":"s1","capabilities":{"platformName":"windows"}}}`
	tests := []struct {
		requested WireProtocol
		response  string
		want      WireProtocol
		platform  string
	}{
		{ProtocolAuto, `{"sessionId":"s1","status":0,"value":{"platformName":"linux"}}`, ProtocolLegacy, "linux"},
		{ProtocolAuto, `{"value":{"sessionId":"s1","capabilities":{"platformName":"mac"}}}`, ProtocolW3C, "mac"},
		{ProtocolAuto, mixed, ProtocolW3C, "windows"},
		{ProtocolW3C, mixed, ProtocolW3C, "windows"},
	}
	for _, test := range tests {
		tr := &webdrivertest.Transport{}
		tr.Expect("POST", "/session", 200, test.response)
		s, err := (&RemoteDriver{URL: "http://wd.test", Transport: tr}).NewSession(test.requested, nil)
		if err != nil {
			t.Fatalf("%s %s: %v", test.requested, test.response, err)
		}
		if s.Protocol() != test.want || s.ID() != "s1" {
			t.Errorf("%s %s: negotiated %s session %q", test.requested, test.response, s.Protocol(), s.ID())
		}
		if caps := s.Capabilities(); caps.PlatformName() != test.platform || len(caps) != 1 {
			t.Errorf("%s %s: capabilities %v", test.requested, test.response, caps)
		}
	}
}

func TestNewSessionDialectMismatch(t *testing.T) {
	tr := &webdrivertest.Transport{}
	tr.Expect("POST", "/session", 200, `{"value":{"sessionId":"s1","capabilities":{}}}`)
	_, err := (&RemoteDriver{URL: "http://wd.test", Transport: tr}).NewSession(ProtocolLegacy, nil)
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v", err)
	}
}
