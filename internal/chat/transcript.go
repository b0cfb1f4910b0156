package chat

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"mistralchat/internal/mistral"
)

type Message = mistral.Message

// ErrOutOfRange is returned for indexes outside the transcript.
var ErrOutOfRange = errors.New("chat: message index out of range")

// Transcript is the ordered list of turns exchanged with the model.
// It is safe for concurrent use.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
	stamps   []time.Time
	now      func() time.Time
}

func NewTranscript() *Transcript {
	return &Transcript{now: time.Now}
}

// Append adds a turn at the end.
func (t *Transcript) Append(role, content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, Message{Role: role, Content: content})
	t.stamps = append(t.stamps, t.now())
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// At returns the message at index i.
func (t *Transcript) At(i int) (Message, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i < 0 || i >= len(t.messages) {
		return Message{}, fmt.Errorf("%w: %d (have %d)", ErrOutOfRange, i, len(t.messages))
	}
	return t.messages[i], nil
}

// Last returns the final message, or false if the transcript is empty.
func (t *Transcript) Last() (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// Messages returns a copy of all turns in order.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Message(nil), t.messages...)
}

func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = nil
	t.stamps = nil
}

// Replace overwrites the transcript with msgs. Replaced turns carry no
// timestamp, so Elapsed only measures turns appended afterwards.
func (t *Transcript) Replace(msgs []Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append([]Message(nil), msgs...)
	t.stamps = make([]time.Time, len(msgs))
}

// Edit replaces the content at index i, keeping its role.
func (t *Transcript) Edit(i int, content string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i < 0 || i >= len(t.messages) {
		return fmt.Errorf("%w: %d (have %d)", ErrOutOfRange, i, len(t.messages))
	}
	t.messages[i] = Message{Role: t.messages[i].Role, Content: content}
	return nil
}

// Search returns the messages whose content contains keyword, ignoring case.
func (t *Transcript) Search(keyword string) []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	needle := strings.ToLower(keyword)
	var results []Message
	for _, m := range t.messages {
		if strings.Contains(strings.ToLower(m.Content), needle) {
			results = append(results, m)
		}
	}
	return results
}

// CountByRole returns the number of messages per role.
func (t *Transcript) CountByRole() map[string]int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	counts := make(map[string]int)
	for _, m := range t.messages {
		counts[m.Role]++
	}
	return counts
}

// Format renders every turn as "role: content".
func (t *Transcript) Format() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	parts := make([]string, 0, len(t.messages))
	for _, m := range t.messages {
		parts = append(parts, fmt.Sprintf("\n%s: %s\n", m.Role, m.Content))
	}
	return strings.Join(parts, "\n")
}

// Markdown renders the transcript with bold role labels.
func (t *Transcript) Markdown() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var sb strings.Builder
	for _, m := range t.messages {
		fmt.Fprintf(&sb, "**%s:** %s\n\n", m.Role, m.Content)
	}
	return sb.String()
}

// Elapsed is the time between the first and the last timestamped turn.
func (t *Transcript) Elapsed() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var first, last time.Time
	for _, ts := range t.stamps {
		if ts.IsZero() {
			continue
		}
		if first.IsZero() {
			first = ts
		}
		last = ts
	}
	return last.Sub(first)
}
