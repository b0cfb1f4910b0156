package repl

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mistralchat/internal/chat"
	"mistralchat/internal/commands"
	"mistralchat/internal/mistral"
	"mistralchat/internal/settings"
	mocktest "mistralchat/internal/testing"
)

func newTestREPL(t *testing.T, srv *mocktest.FakeMistral, input string) (*REPL, *chat.Session, *bytes.Buffer) {
	t.Helper()
	file := settings.FileSource{Path: filepath.Join(t.TempDir(), "settings.yaml")}
	provider := settings.NewProvider(nil, mocktest.StaticSettings(srv.URL), file)
	sess := chat.NewSession(provider, mistral.NewClient(mistral.Options{}))
	out := &bytes.Buffer{}
	r := New(Options{
		Registry:     commands.NewDefaultRegistry("test"),
		Session:      sess,
		Config:       mocktest.DefaultTestConfig(),
		Provider:     provider,
		SettingsFile: file,
		In:           strings.NewReader(input),
		Out:          out,
	})
	return r, sess, out
}

func TestREPL_ChatAndCommands(t *testing.T) {
	srv := mocktest.NewFakeMistral(mocktest.Reply("Hi!"))
	defer srv.Close()
	r, sess, out := newTestREPL(t, srv, "Hello\n\n/count\n/quit\nignored\n")

	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, out.String(), "assistant: Hi!")
	assert.Contains(t, out.String(), "2 messages")
	assert.Equal(t, 1, srv.RequestCount())
	assert.Equal(t, []chat.Message{
		{Role: "user", Content: "Hello"},
		{Role: "assistant", Content: "Hi!"},
	}, sess.Transcript().Messages())
}

func TestREPL_EOF(t *testing.T) {
	srv := mocktest.NewFakeMistral(mocktest.Reply("Hi!"))
	defer srv.Close()
	r, _, out := newTestREPL(t, srv, "/version")

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "mistralchat test")
	assert.Equal(t, 0, srv.RequestCount())
}

func TestREPL_UnknownCommand(t *testing.T) {
	srv := mocktest.NewFakeMistral(mocktest.Reply("Hi!"))
	defer srv.Close()
	r, _, out := newTestREPL(t, srv, "/FOO bar\n")

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "Unknown command /foo, try /help")
	assert.Equal(t, 0, srv.RequestCount())
}

func TestREPL_Cancelled(t *testing.T) {
	srv := mocktest.NewFakeMistral(mocktest.Reply("Hi!"))
	defer srv.Close()
	r, _, _ := newTestREPL(t, srv, "Hello\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Run(ctx), context.Canceled)
	assert.Equal(t, 0, srv.RequestCount())
}

func TestREPL_PlainOutputWithoutTerminal(t *testing.T) {
	srv := mocktest.NewFakeMistral(mocktest.Reply("Hi!"))
	defer srv.Close()
	r, _, out := newTestREPL(t, srv, "Hello\n")

	require.NoError(t, r.Run(context.Background()))
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestREPL_Exec(t *testing.T) {
	srv := mocktest.NewFakeMistral(mocktest.Reply("Hi!"))
	defer srv.Close()
	r, _, out := newTestREPL(t, srv, "")

	r.Exec(context.Background(), "  /set model small ")
	assert.Contains(t, out.String(), "model set to: MistralSmall (mistral-small-latest)")

	out.Reset()
	r.Exec(context.Background(), "/get model")
	assert.Contains(t, out.String(), "model: MistralNemo")
	assert.NotContains(t, out.String(), "you>")
}

func TestREPL_WrapsReplies(t *testing.T) {
	srv := mocktest.NewFakeMistral(mocktest.Reply("one two three four five six seven eight nine ten"))
	defer srv.Close()
	r, _, out := newTestREPL(t, srv, "count\n")
	r.width = 31

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "assistant: one two three four\n           five six seven eight\n           nine ten\n")
}
