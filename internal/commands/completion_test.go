package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mistralchat/internal/chat"
	"mistralchat/internal/mistral"
	"mistralchat/internal/settings"
	mocktest "mistralchat/internal/testing"
)

func newSession(srv *mocktest.FakeMistral) *chat.Session {
	provider := settings.NewProvider(nil, mocktest.StaticSettings(srv.URL))
	return chat.NewSession(provider, mistral.NewClient(mistral.Options{}))
}

func TestChatCommand_Reply(t *testing.T) {
	srv := mocktest.NewFakeMistral(mocktest.Reply("Hi!"))
	defer srv.Close()
	sess := newSession(srv)

	ctx := mocktest.NewMockContext().WithSession(sess).WithLine("  Hello  ")
	(&ChatCommand{}).Execute(ctx)

	assert.Equal(t, []string{"Hi!"}, ctx.Replies)
	req, ok := srv.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "Hello", req.Body.Messages[0].Content)
}

func TestChatCommand_ErrorReply(t *testing.T) {
	srv := mocktest.NewFakeMistral(mocktest.Raw(401, `{"message":"Unauthorized"}`))
	defer srv.Close()
	sess := newSession(srv)

	ctx := mocktest.NewMockContext().WithSession(sess).WithLine("Hello")
	(&ChatCommand{}).Execute(ctx)

	assert.Equal(t, chat.ErrorResponseText, ctx.LastReply())
	assert.Equal(t, "", sess.CurrentReply())
}

func TestChatCommand_EmptyLine(t *testing.T) {
	srv := mocktest.NewFakeMistral(mocktest.Reply("Hi!"))
	defer srv.Close()
	sess := newSession(srv)

	ctx := mocktest.NewMockContext().WithSession(sess).WithLine("   ")
	(&ChatCommand{}).Execute(ctx)

	assert.Equal(t, 0, ctx.ReplyCount())
	assert.Equal(t, 0, srv.RequestCount())
}

func TestChatCommand_Busy(t *testing.T) {
	release := make(chan struct{})
	srv := mocktest.NewFakeMistral(mocktest.Gate(release, mocktest.Reply("late")))
	defer srv.Close()
	sess := newSession(srv)

	first := mocktest.NewMockContext().WithSession(sess).WithLine("one")
	done := make(chan struct{})
	go func() {
		(&ChatCommand{}).Execute(first)
		close(done)
	}()
	require.Eventually(t, sess.Busy, timeout, tick)

	second := mocktest.NewMockContext().WithSession(sess).WithLine("two")
	(&ChatCommand{}).Execute(second)
	assert.Equal(t, "Still waiting for the previous reply", second.LastReply())

	close(release)
	<-done
	assert.Equal(t, "late", first.LastReply())
}

func TestRetryAndReplyCommands(t *testing.T) {
	srv := mocktest.NewFakeMistral(mocktest.Reply("answer"))
	defer srv.Close()
	sess := newSession(srv)

	ctx := mocktest.NewMockContext().WithSession(sess).WithLine("/reply")
	(&ReplyCommand{}).Execute(ctx)
	assert.Equal(t, "No reply yet", ctx.LastReply())

	ctx = mocktest.NewMockContext().WithSession(sess).WithLine("/retry")
	(&RetryCommand{}).Execute(ctx)
	assert.Contains(t, ctx.LastReply(), "nothing to reply to")

	sess.Transcript().Append(mistral.RoleUser, "pending question")
	ctx = mocktest.NewMockContext().WithSession(sess).WithLine("/retry")
	(&RetryCommand{}).Execute(ctx)
	assert.Equal(t, "answer", ctx.LastReply())

	ctx = mocktest.NewMockContext().WithSession(sess).WithLine("/reply")
	(&ReplyCommand{}).Execute(ctx)
	assert.Equal(t, "answer", ctx.LastReply())
}
