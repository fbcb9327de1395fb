package rbac

import (
	"github.com/casbin/casbin/v2"
)

// Service answers "may this role perform this action on this
// resource". Policies are role-based and ship with the binary; the
// single fire-station deployment has no per-tenant policy storage.
type Service interface {
	Enforce(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
}

func NewService(modelPath, policyPath string) (Service, error) {
	enforcer, err := casbin.NewEnforcer(modelPath, policyPath)
	if err != nil {
		return nil, err
	}
	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	return s.enforcer.Enforce(role, resource, action)
}
