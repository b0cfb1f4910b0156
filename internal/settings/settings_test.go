package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelWireNames(t *testing.T) {
	assert.Equal(t, "open-mistral-nemo", ModelMistralNemo.WireName())
	assert.Equal(t, "mistral-small-latest", ModelMistralSmall.WireName())
	assert.Equal(t, "open-codestral-mamba", ModelCodestralMamba.WireName())

	assert.Equal(t, UnknownWireName, ModelUnset.WireName())
	assert.Equal(t, UnknownWireName, ModelType(42).WireName())
	assert.False(t, ModelType(42).Valid())
}

func TestParseModel(t *testing.T) {
	cases := map[string]ModelType{
		"MistralNemo":          ModelMistralNemo,
		"mistralsmall":         ModelMistralSmall,
		"open-codestral-mamba": ModelCodestralMamba,
		" nemo ":               ModelMistralNemo,
		"CODESTRAL":            ModelCodestralMamba,
		"mistral-small-latest": ModelMistralSmall,
	}
	for in, want := range cases {
		got, err := ParseModel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseModel("gpt-4")
	assert.Error(t, err)
}

func TestProvider_NothingConfigured(t *testing.T) {
	p := NewProvider(nil, StaticSource{}, FileSource{Path: filepath.Join(t.TempDir(), "missing.yaml")})

	s, err := p.Resolve()
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, "", s.APIKey)
	assert.Equal(t, "", s.APIURL)
	assert.Equal(t, DefaultModel, s.Model)

	assert.Equal(t, "", p.APIKey())
	assert.Equal(t, "", p.APIURL())
	assert.Equal(t, ModelMistralNemo, p.Model())
}

func TestProvider_Layering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	file := FileSource{Path: path}
	require.NoError(t, file.Save(Settings{APIKey: "file-key", APIURL: "http://file", Model: ModelCodestralMamba}))

	p := NewProvider(nil, StaticSource{APIKey: "flag-key"}, file)

	s, err := p.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "flag-key", s.APIKey)
	assert.Equal(t, "http://file", s.APIURL)
	assert.Equal(t, ModelCodestralMamba, s.Model)
}

func TestProvider_SkipsBrokenSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: [not, a, string"), 0o600))

	p := NewProvider(nil, FileSource{Path: path}, StaticSource{APIURL: "http://static"})
	s, err := p.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "http://static", s.APIURL)
}

func TestFileSource_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	file := FileSource{Path: path}

	_, err := file.Load()
	assert.ErrorIs(t, err, ErrNotConfigured)

	want := Default()
	want.APIKey = "abc"
	require.NoError(t, file.Save(want))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "model: MistralNemo")

	got, err := file.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileSource_UnknownModelKeepsRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	body := "api_key: sk-real\napi_url: https://api.mistral.ai/v1/chat/completions\nmodel: MistralLarge\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	s, err := FileSource{Path: path}.Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-real", s.APIKey)
	assert.Equal(t, ModelUnknown, s.Model)

	resolved, err := NewProvider(nil, FileSource{Path: path}).Resolve()
	require.NoError(t, err)
	assert.Equal(t, "sk-real", resolved.APIKey)
	assert.Equal(t, DefaultAPIURL, resolved.APIURL)
	assert.Equal(t, ModelUnknown, resolved.Model)
	assert.False(t, resolved.Model.Valid())
	assert.Equal(t, UnknownWireName, resolved.Model.WireName())

	// a higher-priority source with a declared model still wins
	resolved, err = NewProvider(nil, StaticSource{Model: ModelMistralSmall}, FileSource{Path: path}).Resolve()
	require.NoError(t, err)
	assert.Equal(t, ModelMistralSmall, resolved.Model)
}

func TestWatcher_Reloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	file := FileSource{Path: path}
	require.NoError(t, file.Save(Settings{APIKey: "old"}))

	w := NewWatcher(file, 10*time.Millisecond, nil)
	s, err := w.Load()
	require.NoError(t, err)
	assert.Equal(t, "old", s.APIKey)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	assert.Eventually(t, func() bool {
		_ = file.Save(Settings{APIKey: "new"})
		s, _ := w.Load()
		return s.APIKey == "new"
	}, 2*time.Second, 50*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
