package audience

import "errors"

// Sentinel errors for the audience service layer.
var (
	ErrInvalidSegment = errors.New("invalid segment")
)
