package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"golang.org/x/sync/singleflight"
)

type Service interface {
	LoadCompanyPolicy(companyID string) error
	Enforce(req EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	sf       singleflight.Group
}

func NewService(repo Repository, enforcer *casbin.Enforcer) Service {
	return &service{
		repo:     repo,
		enforcer: enforcer,
	}
}

func (s *service) LoadCompanyPolicy(companyID string) error {
	// Concurrent requests for the same company share one fetch.
	_, err, _ := s.sf.Do(companyID, func() (any, error) {
		roles, err := s.repo.GetEmployeeRoles(companyID)
		if err != nil {
			return nil, err
		}
		perms, err := s.repo.GetRolePermissions(companyID)
		if err != nil {
			return nil, err
		}
		return companyPolicy{roles: roles, perms: perms}, err
	})
	if err != nil {
		return err
	}
	return nil
}

type companyPolicy struct {
	roles []EmployeeRoleRow
	perms []RolePermissionRow
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	policy, err, _ := s.sf.Do(req.CompanyID, func() (any, error) {
		roles, err := s.repo.GetEmployeeRoles(req.CompanyID)
		if err != nil {
			return nil, err
		}
		perms, err := s.repo.GetRolePermissions(req.CompanyID)
		if err != nil {
			return nil, err
		}
		return companyPolicy{roles: roles, perms: perms}, nil
	})
	if err != nil {
		return false, err
	}

	cp := policy.(companyPolicy)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.enforcer.ClearPolicy()
	for _, er := range cp.roles {
		if _, err := s.enforcer.AddGroupingPolicy(er.EmployeeID, er.Role, req.CompanyID); err != nil {
			return false, err
		}
	}
	for _, rp := range cp.perms {
		if _, err := s.enforcer.AddPolicy(rp.Role, req.CompanyID, rp.Resource, rp.Action); err != nil {
			return false, err
		}
	}

	return s.enforcer.Enforce(
		req.EmployeeID,
		req.CompanyID,
		req.Resource,
		req.Action,
	)
}
