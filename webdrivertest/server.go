// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdrivertest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const w3cElementKey = "element-6066-11e4-a52e-4f735466cecf"

// Server is an in-memory WebDriver server with a single fake page. Each
// session speaks the dialect chosen when it was created.
type Server struct {
	*httptest.Server

	// Dialect forces "legacy" or "w3c". When empty a request carrying
	// capabilities gets a W3C session, otherwise a legacy one.
	Dialect string
	// Clicks answered with the vendor "not interactable" status (105)
	// before clicks succeed.
	NotInteractable int

	mu       sync.Mutex
	sessions map[string]*session
	elements map[string][]string
	texts    map[string]string
	clicks   map[string]int
	deleted  []string
}

type session struct {
	w3c bool
	url string
}

// NewServer starts a fake server. Close it when done.
func NewServer() *Server {
	s := &Server{
		sessions: map[string]*session{},
		elements: map[string][]string{},
		texts:    map[string]string{},
		clicks:   map[string]int{},
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/status", s.status).Methods("GET")
	r.HandleFunc("/session", s.newSession).Methods("POST")

	sr := r.PathPrefix("/session/{sid}").Subrouter()
	sr.Use(s.requireSession)
	sr.HandleFunc("", s.deleteSession).Methods("DELETE")
	sr.HandleFunc("/url", s.setURL).Methods("POST")
	sr.HandleFunc("/url", s.getURL).Methods("GET")
	sr.HandleFunc("/title", s.title).Methods("GET")
	sr.HandleFunc("/screenshot", s.screenshot).Methods("GET")
	sr.HandleFunc("/element", s.findElement).Methods("POST")
	sr.HandleFunc("/elements", s.findElements).Methods("POST")
	sr.HandleFunc("/element/{eid}/element", s.findElement).Methods("POST")
	sr.HandleFunc("/element/{eid}/elements", s.findElements).Methods("POST")
	sr.HandleFunc("/element/{eid}/text", s.text).Methods("GET")
	sr.HandleFunc("/element/{eid}/click", s.click).Methods("POST")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"value": map[string]string{"error": "unknown command", "message": req.URL.Path},
		})
	})
	return r
}

// AddElement places an element on the page and returns its id. Elements
// sharing a locator are all returned by a multi-element search.
func (s *Server) AddElement(using, value, text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	key := using + "=" + value
	s.elements[key] = append(s.elements[key], id)
	s.texts[id] = text
	return id
}

// Deleted returns the ids of the sessions deleted so far, in order.
func (s *Server) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

// Clicks returns how many clicks the element received, failed ones included.
func (s *Server) Clicks(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clicks[id]
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) current(r *http.Request) (string, *session) {
	sid := mux.Vars(r)["sid"]
	s.mu.Lock()
	defer s.mu.Unlock()
	return sid, s.sessions[sid]
}

func (s *Server) reply(w http.ResponseWriter, r *http.Request, value interface{}) {
	sid, sess := s.current(r)
	if sess != nil && !sess.w3c {
		writeJSON(w, http.StatusOK, map[string]interface{}{"sessionId": sid, "status": 0, "value": value})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"value": value})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, code int, legacy int, name, message string) {
	sid, sess := s.current(r)
	if sess != nil && !sess.w3c {
		writeJSON(w, code, map[string]interface{}{
			"sessionId": sid, "status": legacy, "value": map[string]string{"message": message},
		})
		return
	}
	writeJSON(w, code, map[string]interface{}{
		"value": map[string]string{"error": name, "message": message, "stacktrace": ""},
	})
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, sess := s.current(r); sess == nil {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{
				"status": 6,
				"value":  map[string]string{"error": "invalid session id", "message": "no such session"},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"value": map[string]interface{}{
			"ready":   true,
			"message": "fake server ready",
			"build":   map[string]string{"version": "test"},
		},
	})
}

func (s *Server) newSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Desired      map[string]interface{} `json:"desiredCapabilities"`
		Capabilities *struct {
			AlwaysMatch map[string]interface{} `json:"alwaysMatch"`
		} `json:"capabilities"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"value": map[string]string{"error": "invalid argument", "message": err.Error()},
		})
		return
	}
	w3c := body.Capabilities != nil
	switch s.Dialect {
	case "legacy":
		w3c = false
	case "w3c":
		w3c = true
	}
	if (w3c && body.Capabilities == nil) || (!w3c && body.Desired == nil) {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": 33,
			"value":  map[string]string{"error": "session not created", "message": "unsupported dialect"},
		})
		return
	}
	sid := uuid.NewString()
	s.mu.Lock()
	s.sessions[sid] = &session{w3c: w3c}
	s.mu.Unlock()
	caps := map[string]interface{}{"browserName": "fake"}
	if w3c {
		for k, v := range body.Capabilities.AlwaysMatch {
			caps[k] = v
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"value": map[string]interface{}{"sessionId": sid, "capabilities": caps},
		})
		return
	}
	for k, v := range body.Desired {
		caps[k] = v
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessionId": sid, "status": 0, "value": caps})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	s.reply(w, r, nil)
	sid := mux.Vars(r)["sid"]
	s.mu.Lock()
	delete(s.sessions, sid)
	s.deleted = append(s.deleted, sid)
	s.mu.Unlock()
}

func (s *Server) setURL(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, r, http.StatusBadRequest, 61, "invalid argument", err.Error())
		return
	}
	_, sess := s.current(r)
	s.mu.Lock()
	sess.url = body.URL
	s.mu.Unlock()
	s.reply(w, r, nil)
}

func (s *Server) getURL(w http.ResponseWriter, r *http.Request) {
	_, sess := s.current(r)
	s.mu.Lock()
	u := sess.url
	s.mu.Unlock()
	s.reply(w, r, u)
}

func (s *Server) title(w http.ResponseWriter, r *http.Request) {
	s.reply(w, r, "fake page")
}

func (s *Server) screenshot(w http.ResponseWriter, r *http.Request) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		s.fail(w, r, http.StatusInternalServerError, 63, "unable to capture screen", err.Error())
		return
	}
	s.reply(w, r, base64.StdEncoding.EncodeToString(buf.Bytes()))
}

func (s *Server) lookup(r *http.Request) ([]string, bool) {
	var loc struct {
		Using string `json:"using"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.elements[loc.Using+"="+loc.Value]...), true
}

func (s *Server) ref(r *http.Request, id string) map[string]string {
	_, sess := s.current(r)
	if sess.w3c {
		return map[string]string{w3cElementKey: id}
	}
	return map[string]string{"ELEMENT": id}
}

func (s *Server) findElement(w http.ResponseWriter, r *http.Request) {
	ids, ok := s.lookup(r)
	if !ok {
		s.fail(w, r, http.StatusBadRequest, 61, "invalid argument", "malformed locator")
		return
	}
	if len(ids) == 0 {
		s.fail(w, r, http.StatusNotFound, 7, "no such element", "Unable to locate element")
		return
	}
	s.reply(w, r, s.ref(r, ids[0]))
}

func (s *Server) findElements(w http.ResponseWriter, r *http.Request) {
	ids, ok := s.lookup(r)
	if !ok {
		s.fail(w, r, http.StatusBadRequest, 61, "invalid argument", "malformed locator")
		return
	}
	refs := make([]map[string]string, len(ids))
	for i, id := range ids {
		refs[i] = s.ref(r, id)
	}
	s.reply(w, r, refs)
}

func (s *Server) text(w http.ResponseWriter, r *http.Request) {
	eid := mux.Vars(r)["eid"]
	s.mu.Lock()
	text, ok := s.texts[eid]
	s.mu.Unlock()
	if !ok {
		s.fail(w, r, http.StatusNotFound, 10, "stale element reference", "unknown element "+eid)
		return
	}
	s.reply(w, r, text)
}

func (s *Server) click(w http.ResponseWriter, r *http.Request) {
	eid := mux.Vars(r)["eid"]
	s.mu.Lock()
	s.clicks[eid]++
	blocked := s.clicks[eid] <= s.NotInteractable
	s.mu.Unlock()
	if blocked {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": 105,
			"value":  map[string]string{"message": "element is covered"},
		})
		return
	}
	s.reply(w, r, nil)
}
