package valueobjects

import pkgerrors "boardcore/pkg/errors"

// Handle is one of the four attachment sides an edge may anchor to on a card
type Handle string

const (
	HandleTop    Handle = "top"
	HandleBottom Handle = "bottom"
	HandleLeft   Handle = "left"
	HandleRight  Handle = "right"
)

// Connection gestures that do not specify a side fall back to these.
const (
	DefaultSourceHandle = HandleRight
	DefaultTargetHandle = HandleLeft
)

// IsValid checks membership in the closed handle set
func (h Handle) IsValid() bool {
	switch h {
	case HandleTop, HandleBottom, HandleLeft, HandleRight:
		return true
	default:
		return false
	}
}

// String returns the string representation
func (h Handle) String() string {
	return string(h)
}

// ParseHandle validates a handle string, mapping the empty string to the
// given default.
func ParseHandle(s string, fallback Handle) (Handle, error) {
	if s == "" {
		return fallback, nil
	}
	h := Handle(s)
	if !h.IsValid() {
		return "", pkgerrors.NewValidationError("invalid handle: " + s)
	}
	return h, nil
}
