package testing

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"mistralchat/internal/mistral"
)

// CapturedRequest records one request seen by FakeMistral
type CapturedRequest struct {
	Header http.Header
	Body   mistral.Request
	Raw    []byte
}

// Responder writes the fake server's answer
type Responder func(w http.ResponseWriter, r *http.Request)

// FakeMistral is an httptest server speaking the chat-completions protocol
type FakeMistral struct {
	*httptest.Server

	mu        sync.Mutex
	requests  []CapturedRequest
	responder Responder
}

// NewFakeMistral starts a server answering every request with responder.
// Callers must Close it.
func NewFakeMistral(responder Responder) *FakeMistral {
	f := &FakeMistral{responder: responder}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	return f
}

func (f *FakeMistral) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body mistral.Request
	_ = json.Unmarshal(raw, &body)

	f.mu.Lock()
	f.requests = append(f.requests, CapturedRequest{Header: r.Header.Clone(), Body: body, Raw: raw})
	responder := f.responder
	f.mu.Unlock()

	responder(w, r)
}

// SetResponder swaps the answer for subsequent requests
func (f *FakeMistral) SetResponder(responder Responder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responder = responder
}

// Requests returns a copy of the captured requests
func (f *FakeMistral) Requests() []CapturedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CapturedRequest(nil), f.requests...)
}

// LastRequest returns the most recent request, or false if none arrived
func (f *FakeMistral) LastRequest() (CapturedRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return CapturedRequest{}, false
	}
	return f.requests[len(f.requests)-1], true
}

// RequestCount returns the number of requests served
func (f *FakeMistral) RequestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// Reply answers with a single assistant choice
func Reply(content string) Responder {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(mistral.Response{
			Choices: []mistral.Choice{{Message: mistral.Message{Role: mistral.RoleAssistant, Content: content}}},
		})
	}
}

// Raw answers with a fixed status and body
func Raw(status int, body string) Responder {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// Empty answers with an empty choices array
func Empty() Responder {
	return Raw(http.StatusOK, `{"choices":[]}`)
}

// Delayed waits before delegating, or until the client goes away
func Delayed(d time.Duration, next Responder) Responder {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(d):
			next(w, r)
		case <-r.Context().Done():
		}
	}
}

// Gate blocks until release is closed, then delegates
func Gate(release <-chan struct{}, next Responder) Responder {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
			next(w, r)
		case <-r.Context().Done():
		}
	}
}
