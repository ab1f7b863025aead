package contact

import "errors"

// Sentinel errors for the contact service layer.
var (
	ErrNotFound     = errors.New("contact not found")
	ErrInvalidPhone = errors.New("phone cannot be normalized to E.164")
)
