package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestLock(t *testing.T) {
	l := NewRequestLock()
	assert.False(t, l.Held())

	assert.True(t, l.TryLock())
	assert.True(t, l.Held())
	assert.False(t, l.TryLock())

	l.Unlock()
	assert.False(t, l.Held())
	// a second unlock is a no-op
	l.Unlock()
	assert.True(t, l.TryLock())
}
