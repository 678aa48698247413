package shared

import "fmt"

// Lifecycle replaces a bare soft-delete flag. Retired records are never removed; they drop out
// of default reads and stay addressable by ID.
type Lifecycle string

const (
	LifecycleActive  Lifecycle = "active"
	LifecycleRetired Lifecycle = "retired"
)

// IsValid reports whether l is a known lifecycle state
func (l Lifecycle) IsValid() bool {
	return l == LifecycleActive || l == LifecycleRetired
}

// String implements fmt.Stringer
func (l Lifecycle) String() string {
	return string(l)
}

// ParseLifecycle parses a stored lifecycle value
func ParseLifecycle(s string) (Lifecycle, error) {
	l := Lifecycle(s)
	if !l.IsValid() {
		return "", fmt.Errorf("unknown lifecycle %q", s)
	}
	return l, nil
}
