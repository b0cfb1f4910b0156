package chat

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTranscript() *Transcript {
	tr := NewTranscript()
	tr.Append("user", "Hello there")
	tr.Append("assistant", "General Kenobi")
	tr.Append("user", "HELLO again")
	return tr
}

func TestTranscript_AtAndLen(t *testing.T) {
	tr := sampleTranscript()
	assert.Equal(t, 3, tr.Len())

	m, err := tr.At(1)
	require.NoError(t, err)
	assert.Equal(t, Message{Role: "assistant", Content: "General Kenobi"}, m)

	for _, i := range []int{-1, 3, 100} {
		_, err := tr.At(i)
		assert.ErrorIs(t, err, ErrOutOfRange, "index %d", i)
	}
}

func TestTranscript_Format(t *testing.T) {
	tr := NewTranscript()
	tr.Append("user", "a")
	tr.Append("assistant", "b")
	assert.Equal(t, "\nuser: a\n\n\nassistant: b\n", tr.Format())
	assert.Equal(t, "", NewTranscript().Format())
}

func TestTranscript_Markdown(t *testing.T) {
	tr := NewTranscript()
	tr.Append("user", "a")
	tr.Append("assistant", "b")
	assert.Equal(t, "**user:** a\n\n**assistant:** b\n\n", tr.Markdown())
}

func TestTranscript_Search(t *testing.T) {
	tr := sampleTranscript()
	found := tr.Search("hello")
	require.Len(t, found, 2)
	assert.Equal(t, "Hello there", found[0].Content)
	assert.Equal(t, "HELLO again", found[1].Content)

	assert.Empty(t, tr.Search("nothing like this"))
}

func TestTranscript_Edit(t *testing.T) {
	tr := sampleTranscript()
	require.NoError(t, tr.Edit(1, "Hello, Obi-Wan"))

	m, _ := tr.At(1)
	assert.Equal(t, Message{Role: "assistant", Content: "Hello, Obi-Wan"}, m)

	before := tr.Messages()
	assert.ErrorIs(t, tr.Edit(3, "x"), ErrOutOfRange)
	assert.ErrorIs(t, tr.Edit(-1, "x"), ErrOutOfRange)
	assert.Equal(t, before, tr.Messages())
}

func TestTranscript_MessagesIsACopy(t *testing.T) {
	tr := sampleTranscript()
	msgs := tr.Messages()
	msgs[0].Content = "mutated"

	m, _ := tr.At(0)
	assert.Equal(t, "Hello there", m.Content)
}

func TestTranscript_CountByRoleAndClear(t *testing.T) {
	tr := sampleTranscript()
	assert.Equal(t, map[string]int{"user": 2, "assistant": 1}, tr.CountByRole())

	tr.Clear()
	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, tr.CountByRole())
	_, ok := tr.Last()
	assert.False(t, ok)
}

func TestTranscript_Elapsed(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	tr := NewTranscript()
	tr.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * 5 * time.Second)
	}

	assert.Zero(t, tr.Elapsed())
	tr.Append("user", "a")
	assert.Zero(t, tr.Elapsed())
	tr.Append("assistant", "b")
	tr.Append("user", "c")
	assert.Equal(t, 10*time.Second, tr.Elapsed())
}

func TestTranscript_ElapsedAfterReplace(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	tr := NewTranscript()
	tr.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * 7 * time.Second)
	}

	tr.Replace([]Message{{Role: "user", Content: "old"}, {Role: "assistant", Content: "older"}})
	assert.Zero(t, tr.Elapsed())

	tr.Append("user", "new")
	assert.Zero(t, tr.Elapsed())
	tr.Append("assistant", "newer")
	assert.Equal(t, 7*time.Second, tr.Elapsed())
	assert.Equal(t, 4, tr.Len())
}

func TestTranscript_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	tr := sampleTranscript()
	require.NoError(t, tr.SaveFile(path))

	loaded := NewTranscript()
	loaded.Append("user", "to be overwritten")
	n, err := loaded.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, tr.Messages(), loaded.Messages())
}

func TestTranscript_SaveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, NewTranscript().SaveFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestTranscript_LoadSkipsIncompleteRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"role": "user", "content": "kept"},
		{"role": "user"},
		{"content": "orphan"},
		{"role": "assistant", "content": "also kept"}
	]`), 0o644))

	tr := NewTranscript()
	n, err := tr.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []Message{
		{Role: "user", Content: "kept"},
		{Role: "assistant", Content: "also kept"},
	}, tr.Messages())
}

func TestTranscript_LoadMissingFileKeepsTranscript(t *testing.T) {
	tr := sampleTranscript()
	_, err := tr.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 3, tr.Len())
}
