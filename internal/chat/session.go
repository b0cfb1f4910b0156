// Package chat keeps a conversation transcript and exchanges it with the
// Mistral chat-completions endpoint, one request at a time.
package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mistralchat/internal/core"
	"mistralchat/internal/mistral"
	"mistralchat/internal/settings"
)

// Fixed assistant turns appended when no reply could be obtained.
const (
	EmptyResponseText = "Empty response."
	ErrorResponseText = "Error retrieving response."
)

// DefaultTimeout bounds a single exchange.
const DefaultTimeout = 30 * time.Second

var (
	ErrBusy           = errors.New("chat: awaiting response to previous request")
	ErrUnknownModel   = errors.New("chat: unknown model")
	ErrNothingToReply = errors.New("chat: last message is not a user turn")
)

// Completer performs one chat-completion request.
type Completer interface {
	Complete(ctx context.Context, ep mistral.Endpoint, req mistral.Request) (mistral.Result, error)
}

// SettingsProvider resolves the endpoint and model at call time.
type SettingsProvider interface {
	Resolve() (settings.Settings, error)
}

type Option func(*Session)

// WithLogger sets the session's logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithTimeout bounds every exchange. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithRecordUserTurns sets whether sent user turns are added to the
// transcript. Defaults to true.
func WithRecordUserTurns(record bool) Option {
	return func(s *Session) { s.recordUser = record }
}

// WithTranscript starts the session from an existing transcript.
func WithTranscript(t *Transcript) Option {
	return func(s *Session) { s.transcript = t }
}

type sendConfig struct {
	record bool
	apiKey string
	model  settings.ModelType
}

type SendOption func(*sendConfig)

// WithoutRecording sends the turn without adding it to the transcript.
func WithoutRecording() SendOption {
	return func(c *sendConfig) { c.record = false }
}

// WithAPIKey uses key for this request instead of the configured one.
func WithAPIKey(key string) SendOption {
	return func(c *sendConfig) { c.apiKey = key }
}

// WithModel uses m for this request instead of the configured model.
func WithModel(m settings.ModelType) SendOption {
	return func(c *sendConfig) { c.model = m }
}

// Session owns one conversation. At most one request is in flight at a time.
type Session struct {
	id         string
	provider   SettingsProvider
	client     Completer
	transcript *Transcript
	lock       *core.RequestLock
	logger     *zap.SugaredLogger
	timeout    time.Duration
	recordUser bool

	mu           sync.RWMutex
	currentReply string
}

func NewSession(provider SettingsProvider, client Completer, opts ...Option) *Session {
	s := &Session{
		id:         uuid.New().String(),
		provider:   provider,
		client:     client,
		lock:       core.NewRequestLock(),
		timeout:    DefaultTimeout,
		recordUser: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.transcript == nil {
		s.transcript = NewTranscript()
	}
	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}
	s.logger = core.WithSession(s.logger, s.id)
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Transcript() *Transcript { return s.transcript }

// Busy reports whether a request is in flight.
func (s *Session) Busy() bool { return s.lock.Held() }

// HasResponded reports whether the last request has been resolved.
func (s *Session) HasResponded() bool { return !s.Busy() }

// CurrentReply returns the content of the last successful reply.
func (s *Session) CurrentReply() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentReply
}

// Send starts an exchange for text. Empty text resolves immediately with
// OutcomeSkipped and changes nothing. While another exchange is in flight
// Send returns ErrBusy.
func (s *Session) Send(ctx context.Context, text string, opts ...SendOption) (*Exchange, error) {
	if text == "" {
		return resolvedExchange(Outcome{Kind: OutcomeSkipped}), nil
	}
	cfg := sendConfig{record: s.recordUser}
	for _, opt := range opts {
		opt(&cfg)
	}

	st, err := s.begin(cfg)
	if err != nil {
		return nil, err
	}

	outgoing := append(s.transcript.Messages(), Message{Role: mistral.RoleUser, Content: text})
	if cfg.record {
		s.transcript.Append(mistral.RoleUser, text)
	}
	return s.start(ctx, st, outgoing), nil
}

// Ask sends text and waits for the exchange to resolve. The exchange runs
// under ctx, so cancelling ctx resolves it through the error path.
func (s *Session) Ask(ctx context.Context, text string, opts ...SendOption) (Outcome, error) {
	ex, err := s.Send(ctx, text, opts...)
	if err != nil {
		return Outcome{}, err
	}
	<-ex.Done()
	return ex.Outcome(), nil
}

// ReplyToLast requests a reply to the transcript as it stands. The last
// entry must be a user turn.
func (s *Session) ReplyToLast(ctx context.Context, opts ...SendOption) (*Exchange, error) {
	var cfg sendConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	st, err := s.begin(cfg)
	if err != nil {
		return nil, err
	}
	last, ok := s.transcript.Last()
	if !ok || last.Role != mistral.RoleUser {
		s.lock.Unlock()
		return nil, ErrNothingToReply
	}
	return s.start(ctx, st, s.transcript.Messages()), nil
}

// begin takes the single-flight lock and resolves settings, applying the
// per-request overrides in cfg. On error the lock is not held.
func (s *Session) begin(cfg sendConfig) (settings.Settings, error) {
	if !s.lock.TryLock() {
		s.logger.Warn("Awaiting response to the previous request, send rejected")
		return settings.Settings{}, ErrBusy
	}
	st, err := s.provider.Resolve()
	if errors.Is(err, settings.ErrNotConfigured) {
		s.logger.Warn("Settings are not configured; run 'mistralchat config init'")
	} else if err != nil {
		s.lock.Unlock()
		return settings.Settings{}, fmt.Errorf("resolve settings: %w", err)
	}
	if cfg.apiKey != "" {
		st.APIKey = cfg.apiKey
	}
	if cfg.model != settings.ModelUnset {
		st.Model = cfg.model
	}
	if !st.Model.Valid() {
		s.lock.Unlock()
		return settings.Settings{}, fmt.Errorf("%w: %s", ErrUnknownModel, st.Model)
	}
	return st, nil
}

func (s *Session) start(ctx context.Context, st settings.Settings, outgoing []Message) *Exchange {
	ex := newExchange()
	req := mistral.Request{Model: st.Model.WireName(), Messages: outgoing}
	ep := mistral.Endpoint{URL: st.APIURL, APIKey: st.APIKey}

	go func() {
		defer core.LogDuration(s.logger, "exchange", time.Now())
		reqCtx := ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		res, err := s.client.Complete(reqCtx, ep, req)
		outcome := s.apply(res, err)
		s.lock.Unlock()
		ex.resolve(outcome)
	}()
	return ex
}

// apply appends exactly one assistant turn for the result.
func (s *Session) apply(res mistral.Result, err error) Outcome {
	switch {
	case err != nil:
		var statusErr *mistral.StatusError
		if errors.As(err, &statusErr) {
			s.logger.Errorw("request_failed", "status", statusErr.StatusCode, "body", statusErr.Body)
		} else {
			s.logger.Errorw("request_failed", "error", err)
		}
		s.transcript.Append(mistral.RoleAssistant, ErrorResponseText)
		return Outcome{Kind: OutcomeError, Content: ErrorResponseText, Err: err}
	case res.Empty:
		s.logger.Warn("Received an empty response")
		s.transcript.Append(mistral.RoleAssistant, EmptyResponseText)
		return Outcome{Kind: OutcomeEmpty, Content: EmptyResponseText}
	default:
		s.mu.Lock()
		s.currentReply = res.Content
		s.mu.Unlock()
		s.transcript.Append(mistral.RoleAssistant, res.Content)
		return Outcome{Kind: OutcomeReply, Content: res.Content}
	}
}
