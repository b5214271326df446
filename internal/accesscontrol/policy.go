package accesscontrol

import "github.com/openreel/openreel-backend/pkg/enums"

// IsProtected reports whether a role may never be the target of an
// access-control action. Admins cannot be suspended, restricted, or deleted;
// every caller that mutates user access goes through this single predicate.
func IsProtected(role enums.SystemRole) bool {
	return role == enums.SystemRoleAdmin
}
