package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a prefixed identifier such as "bk-3f9c2a1e7d4b".
func NewID(prefix string) string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + "-" + raw[:12]
}
