package chat

import (
	"encoding/json"
	"fmt"
	"os"
)

// SaveFile writes the transcript as an indented JSON array of
// {"role", "content"} objects.
func (t *Transcript) SaveFile(path string) error {
	records := make([]map[string]string, 0, t.Len())
	for _, m := range t.Messages() {
		records = append(records, map[string]string{
			"role":    m.Role,
			"content": m.Content,
		})
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// LoadFile replaces the transcript with the contents of path. Records
// missing a role or content key are skipped. On error the transcript is
// left untouched.
func (t *Transcript) LoadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read history: %w", err)
	}
	var records []map[string]string
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("parse history %s: %w", path, err)
	}
	msgs := make([]Message, 0, len(records))
	for _, r := range records {
		role, hasRole := r["role"]
		content, hasContent := r["content"]
		if !hasRole || !hasContent {
			continue
		}
		msgs = append(msgs, Message{Role: role, Content: content})
	}
	t.Replace(msgs)
	return len(msgs), nil
}
