package employee

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-payday/internal/tenant"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, emp *Employee) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error)
	FindActiveByCompany(ctx context.Context, companyID string) ([]Employee, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error)
	Update(ctx context.Context, emp *Employee) error
	Delete(ctx context.Context, companyID, id string) error

	ReplaceAllowances(ctx context.Context, companyID, employeeID uuid.UUID, codes []string) error
	AllowanceCodesByEmployee(ctx context.Context, companyID string) (map[uuid.UUID][]string, error)

	CreateBonus(ctx context.Context, bonus *BonusAward) error
	BonusesForPeriod(ctx context.Context, companyID, period string) ([]BonusAward, error)

	UpsertUnpaidLeave(ctx context.Context, leave *UnpaidLeave) error
	UnpaidLeaveForPeriod(ctx context.Context, companyID, period string) ([]UnpaidLeave, error)

	CreatePenalty(ctx context.Context, event *PenaltyEvent) error
	PenaltiesForPeriod(ctx context.Context, companyID, period string) ([]PenaltyEvent, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, emp *Employee) error {
	return r.db.WithContext(ctx).Create(emp).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var emps []Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("full_name ASC").
		Find(&emps).Error
	return emps, err
}

func (r *repository) FindActiveByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var emps []Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("active = ?", true).
		Order("id ASC").
		Find(&emps).Error
	return emps, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&emp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *repository) Update(ctx context.Context, emp *Employee) error {
	return r.db.WithContext(ctx).Save(emp).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Employee{}, "id = ?", id).Error
}

func (r *repository) ReplaceAllowances(ctx context.Context, companyID, employeeID uuid.UUID, codes []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("company_id = ? AND employee_id = ?", companyID, employeeID).
			Delete(&AllowanceAssignment{}).Error; err != nil {
			return err
		}
		for _, code := range codes {
			assignment := AllowanceAssignment{
				ID:            uuid.New(),
				CompanyID:     companyID,
				EmployeeID:    employeeID,
				AllowanceCode: code,
			}
			if err := tx.Create(&assignment).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) AllowanceCodesByEmployee(ctx context.Context, companyID string) (map[uuid.UUID][]string, error) {
	var assignments []AllowanceAssignment
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("allowance_code ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	byEmployee := make(map[uuid.UUID][]string, len(assignments))
	for _, a := range assignments {
		byEmployee[a.EmployeeID] = append(byEmployee[a.EmployeeID], a.AllowanceCode)
	}
	return byEmployee, nil
}

func (r *repository) CreateBonus(ctx context.Context, bonus *BonusAward) error {
	return r.db.WithContext(ctx).Create(bonus).Error
}

func (r *repository) BonusesForPeriod(ctx context.Context, companyID, period string) ([]BonusAward, error) {
	var bonuses []BonusAward
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("period = ?", period).
		Order("created_at ASC").
		Find(&bonuses).Error
	return bonuses, err
}

func (r *repository) UpsertUnpaidLeave(ctx context.Context, leave *UnpaidLeave) error {
	var existing UnpaidLeave
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND employee_id = ? AND period = ?", leave.CompanyID, leave.EmployeeID, leave.Period).
		First(&existing).Error
	if err == nil {
		existing.Days = leave.Days
		return r.db.WithContext(ctx).Save(&existing).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(leave).Error
}

func (r *repository) UnpaidLeaveForPeriod(ctx context.Context, companyID, period string) ([]UnpaidLeave, error) {
	var leaves []UnpaidLeave
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("period = ?", period).
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) CreatePenalty(ctx context.Context, event *PenaltyEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) PenaltiesForPeriod(ctx context.Context, companyID, period string) ([]PenaltyEvent, error) {
	var events []PenaltyEvent
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("period = ?", period).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}
