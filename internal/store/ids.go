package store

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns prefix-<uuid>. Ids are never reused, so they stay valid across drags,
// undo and concurrent edits.
func NewID(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return uuid.NewString()
	}
	return prefix + "-" + uuid.NewString()
}
