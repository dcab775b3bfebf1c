package ui

// InvertMode represents whether the ramp is reversed.
type InvertMode int

const (
	InvertOff InvertMode = iota
	InvertOn
)

// Toggle switches between inverted and normal.
func (i InvertMode) Toggle() InvertMode {
	if i == InvertOn {
		return InvertOff
	}
	return InvertOn
}

// Icon returns a visual indicator for the invert mode.
func (i InvertMode) Icon() string {
	if i == InvertOn {
		return "[inverted]"
	}
	return ""
}
