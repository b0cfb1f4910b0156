package testing

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"mistralchat/internal/chat"
	"mistralchat/internal/config"
	"mistralchat/internal/settings"
)

// MockChatContext implements commands.Context for testing
type MockChatContext struct {
	context.Context

	Command string
	Line    string
	Args    []string

	// Recorded calls (for assertions)
	Replies []string

	// Injected dependencies
	session  *chat.Session
	cfg      *config.Configuration
	provider *settings.Provider
	file     settings.FileSource
	logger   *zap.SugaredLogger
}

// NewMockContext creates a new MockChatContext with sensible defaults
func NewMockContext() *MockChatContext {
	return &MockChatContext{
		Context: context.Background(),
		Args:    []string{},
		Replies: []string{},
		cfg:     DefaultTestConfig(),
		logger:  zap.NewNop().Sugar(),
	}
}

// Builder methods for fluent test setup

// WithContext sets a custom context (for timeout/cancellation testing)
func (m *MockChatContext) WithContext(ctx context.Context) *MockChatContext {
	m.Context = ctx
	return m
}

// WithLine sets the raw input line and splits it into command and arguments
func (m *MockChatContext) WithLine(line string) *MockChatContext {
	m.Line = line
	m.Args = strings.Fields(line)
	m.Command = ""
	if len(m.Args) > 0 {
		m.Command = strings.ToLower(m.Args[0])
	}
	return m
}

// WithArgs sets the parsed arguments
func (m *MockChatContext) WithArgs(args ...string) *MockChatContext {
	return m.WithLine(strings.Join(args, " "))
}

// WithConfig sets the configuration
func (m *MockChatContext) WithConfig(cfg *config.Configuration) *MockChatContext {
	m.cfg = cfg
	return m
}

// WithSession sets the session
func (m *MockChatContext) WithSession(session *chat.Session) *MockChatContext {
	m.session = session
	return m
}

// WithProvider sets the settings provider
func (m *MockChatContext) WithProvider(p *settings.Provider) *MockChatContext {
	m.provider = p
	return m
}

// WithSettingsFile sets the file written by /set
func (m *MockChatContext) WithSettingsFile(f settings.FileSource) *MockChatContext {
	m.file = f
	return m
}

// WithLogger sets the logger
func (m *MockChatContext) WithLogger(logger *zap.SugaredLogger) *MockChatContext {
	m.logger = logger
	return m
}

func (m *MockChatContext) GetCommand() string { return m.Command }
func (m *MockChatContext) GetArgs() []string  { return m.Args }
func (m *MockChatContext) GetLine() string    { return m.Line }

func (m *MockChatContext) Reply(msg string) {
	m.Replies = append(m.Replies, msg)
}

func (m *MockChatContext) GetSession() *chat.Session        { return m.session }
func (m *MockChatContext) GetConfig() *config.Configuration { return m.cfg }
func (m *MockChatContext) GetLogger() *zap.SugaredLogger    { return m.logger }

func (m *MockChatContext) GetProvider() *settings.Provider {
	if m.provider == nil {
		m.provider = settings.NewProvider(m.logger, m.GetSettingsFile())
	}
	return m.provider
}

func (m *MockChatContext) GetSettingsFile() settings.FileSource {
	if m.file.Path == "" {
		m.file = settings.FileSource{Path: m.cfg.Session.SettingsPath}
	}
	return m.file
}

// Assertion helpers

// HasReply checks if any reply contains the given substring
func (m *MockChatContext) HasReply(substring string) bool {
	for _, r := range m.Replies {
		if strings.Contains(r, substring) {
			return true
		}
	}
	return false
}

// LastReply returns the last reply, or empty string if none
func (m *MockChatContext) LastReply() string {
	if len(m.Replies) == 0 {
		return ""
	}
	return m.Replies[len(m.Replies)-1]
}

// ReplyCount returns the number of replies
func (m *MockChatContext) ReplyCount() int {
	return len(m.Replies)
}
