package enums

import "fmt"

// AccessAction is an admin-issued state transition on a user.
type AccessAction string

const (
	AccessActionSuspend  AccessAction = "suspend"
	AccessActionActivate AccessAction = "activate"
	AccessActionRestrict AccessAction = "restrict"
)

var validAccessActions = []AccessAction{
	AccessActionSuspend,
	AccessActionActivate,
	AccessActionRestrict,
}

func (a AccessAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AccessAction.
func (a AccessAction) IsValid() bool {
	for _, candidate := range validAccessActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAccessAction converts raw input into an AccessAction.
func ParseAccessAction(value string) (AccessAction, error) {
	for _, candidate := range validAccessActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid access action %q", value)
}
