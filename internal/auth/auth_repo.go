package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-payday/internal/rbac"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	if err := r.resolveEffectiveRole(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := r.resolveEffectiveRole(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// resolveEffectiveRole replaces the stored role with the highest-privilege
// role assigned to the linked employee. The same employee_roles rows feed the
// casbin grouping policy, so the token claim and the enforcer always agree.
func (r *repository) resolveEffectiveRole(ctx context.Context, user *User) error {
	var roleName string
	err := r.db.WithContext(ctx).
		Table("employee_roles").
		Select("role").
		Where("employee_id = ?", user.EmployeeID).
		Where("company_id = ?", user.CompanyID).
		Order(`
			CASE LOWER(role)
				WHEN 'finance' THEN 1
				WHEN 'manager' THEN 2
				WHEN 'specialist' THEN 3
				ELSE 99
			END ASC`).
		Limit(1).
		Scan(&roleName).Error
	if err != nil {
		return err
	}

	if strings.TrimSpace(roleName) == "" {
		roleName = user.Role
	}
	if strings.TrimSpace(roleName) == "" {
		roleName = rbac.RoleSpecialist
	}
	user.Role = strings.ToLower(strings.TrimSpace(roleName))
	return nil
}
