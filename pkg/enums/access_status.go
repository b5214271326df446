package enums

import "fmt"

// AccessStatus is the enforceable state of a user's platform access.
type AccessStatus string

const (
	AccessStatusActive     AccessStatus = "active"
	AccessStatusSuspended  AccessStatus = "suspended"
	AccessStatusRestricted AccessStatus = "restricted"
)

var validAccessStatuses = []AccessStatus{
	AccessStatusActive,
	AccessStatusSuspended,
	AccessStatusRestricted,
}

func (a AccessStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AccessStatus.
func (a AccessStatus) IsValid() bool {
	for _, candidate := range validAccessStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAccessStatus converts raw input into an AccessStatus.
func ParseAccessStatus(value string) (AccessStatus, error) {
	for _, candidate := range validAccessStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid access status %q", value)
}
