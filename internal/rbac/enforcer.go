package rbac

import (
	"github.com/casbin/casbin/v2"
)

// NewEnforcer loads the role policy from the model and policy files. The
// policy is static for a single-business deployment; roles come from the
// already-validated JWT claims, never from free-text matching.
func NewEnforcer(modelPath, policyPath string) (*casbin.Enforcer, error) {
	return casbin.NewEnforcer(modelPath, policyPath)
}
