package shop

import "github.com/google/uuid"

// sequence is the fallback IDGenerator when none is injected.
type sequence struct{}

func (sequence) NewID() string { return uuid.NewString() }
