package core

import "github.com/google/uuid"

// NewID generates a unique identifier used to correlate tool calls with their
// results when the model provider does not supply one.
func NewID() string { return uuid.NewString() }
