package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mistralchat/internal/settings"
	mocktest "mistralchat/internal/testing"
)

func settingsContext(t *testing.T, line string) (*mocktest.MockChatContext, settings.FileSource) {
	t.Helper()
	file := settings.FileSource{Path: filepath.Join(t.TempDir(), "settings.yaml")}
	ctx := mocktest.NewMockContext().WithSettingsFile(file).WithLine(line)
	return ctx, file
}

func TestSetCommand_WritesFile(t *testing.T) {
	ctx, file := settingsContext(t, "/set apikey sk-abcdef")
	(&SetCommand{}).Execute(ctx)
	assert.Equal(t, "apikey set to: sk-a*****", ctx.LastReply())

	s, err := file.Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-abcdef", s.APIKey)
	assert.Equal(t, settings.DefaultAPIURL, s.APIURL)
	assert.Equal(t, settings.ModelMistralNemo, s.Model)

	ctx = mocktest.NewMockContext().WithSettingsFile(file).WithLine("/set model codestral")
	(&SetCommand{}).Execute(ctx)
	assert.Equal(t, "model set to: CodestralMamba (open-codestral-mamba)", ctx.LastReply())

	s, err = file.Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-abcdef", s.APIKey)
	assert.Equal(t, settings.ModelCodestralMamba, s.Model)
}

func TestSetCommand_Rejects(t *testing.T) {
	ctx, file := settingsContext(t, "/set model gpt-4")
	(&SetCommand{}).Execute(ctx)
	assert.Contains(t, ctx.LastReply(), `unknown model "gpt-4"`)
	_, err := file.Load()
	assert.ErrorIs(t, err, settings.ErrNotConfigured)

	ctx, _ = settingsContext(t, "/set color blue")
	(&SetCommand{}).Execute(ctx)
	assert.Equal(t, "Unknown key. Available keys: apikey, apiurl, model", ctx.LastReply())

	ctx, _ = settingsContext(t, "/set apikey")
	(&SetCommand{}).Execute(ctx)
	assert.Contains(t, ctx.LastReply(), "Usage: /set <key> <value>")
}

func TestGetCommand(t *testing.T) {
	ctx, _ := settingsContext(t, "/get")
	(&GetCommand{}).Execute(ctx)
	assert.Equal(t, []string{
		"apikey: (not set)",
		"apiurl: (not set)",
		"model: MistralNemo (open-mistral-nemo)",
	}, ctx.Replies)

	ctx, file := settingsContext(t, "/set apiurl http://localhost:9999/chat")
	(&SetCommand{}).Execute(ctx)

	ctx = mocktest.NewMockContext().WithSettingsFile(file).WithLine("/get apiurl")
	(&GetCommand{}).Execute(ctx)
	assert.Equal(t, "apiurl: http://localhost:9999/chat", ctx.LastReply())

	ctx = mocktest.NewMockContext().WithSettingsFile(file).WithLine("/get nope")
	(&GetCommand{}).Execute(ctx)
	assert.Contains(t, ctx.LastReply(), "Unknown key nope")
}

func TestSetCommand_ReportsOverride(t *testing.T) {
	file := settings.FileSource{Path: filepath.Join(t.TempDir(), "settings.yaml")}
	cfg := mocktest.DefaultTestConfig()
	cfg.API.Key = "sk-from-env"

	ctx := mocktest.NewMockContext().WithConfig(cfg).WithSettingsFile(file).WithLine("/set apikey sk-stored")
	(&SetCommand{}).Execute(ctx)

	require.Equal(t, 2, ctx.ReplyCount())
	assert.Equal(t, "apikey set to: sk-s*****", ctx.Replies[0])
	assert.Equal(t, "Note: a flag or environment override is active, apikey stays sk-f*******", ctx.LastReply())

	s, err := file.Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-stored", s.APIKey)

	// fields without an override report nothing extra
	ctx = mocktest.NewMockContext().WithConfig(cfg).WithSettingsFile(file).WithLine("/set apiurl http://localhost:1/chat")
	(&SetCommand{}).Execute(ctx)
	assert.Equal(t, 1, ctx.ReplyCount())
}
