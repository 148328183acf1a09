package model

import (
	"strings"

	"github.com/google/uuid"
)

// NewID generates an identifier for newly inserted records: a random
// UUID with the dashes stripped.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
