package ruleset

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go-payday/internal/tenant"
)

type Repository interface {
	// FindApprovedTaxPolicy returns the approved tax policy effective on or
	// before the given date. When several are eligible the most recently
	// approved wins. Returns nil when none exists.
	FindApprovedTaxPolicy(ctx context.Context, companyID string, onOrBefore time.Time) (*TaxPolicy, error)
	FindApprovedInsurancePolicy(ctx context.Context, companyID string, onOrBefore time.Time) (*InsurancePolicy, error)
	FindApprovedAllowances(ctx context.Context, companyID string, onOrBefore time.Time) ([]AllowanceRecord, error)
	FindApprovedPenaltyRules(ctx context.Context, companyID string, onOrBefore time.Time) ([]PenaltyRuleRecord, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindApprovedTaxPolicy(ctx context.Context, companyID string, onOrBefore time.Time) (*TaxPolicy, error) {
	var policy TaxPolicy
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", RecordStatusApproved).
		Where("effective_date <= ?", onOrBefore).
		Order("approved_at DESC").
		Preload("Brackets", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_income ASC")
		}).
		First(&policy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *repository) FindApprovedInsurancePolicy(ctx context.Context, companyID string, onOrBefore time.Time) (*InsurancePolicy, error) {
	var policy InsurancePolicy
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", RecordStatusApproved).
		Where("effective_date <= ?", onOrBefore).
		Order("approved_at DESC").
		Preload("Brackets", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_salary ASC")
		}).
		First(&policy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *repository) FindApprovedAllowances(ctx context.Context, companyID string, onOrBefore time.Time) ([]AllowanceRecord, error) {
	var records []AllowanceRecord
	// One record per code: the most recently approved eligible one.
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", RecordStatusApproved).
		Where("effective_date <= ?", onOrBefore).
		Order("code ASC, approved_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return dedupeByCode(records, func(a AllowanceRecord) string { return a.Code }), nil
}

func (r *repository) FindApprovedPenaltyRules(ctx context.Context, companyID string, onOrBefore time.Time) ([]PenaltyRuleRecord, error) {
	var records []PenaltyRuleRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", RecordStatusApproved).
		Where("effective_date <= ?", onOrBefore).
		Order("code ASC, approved_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return dedupeByCode(records, func(p PenaltyRuleRecord) string { return p.Code }), nil
}

func dedupeByCode[T any](records []T, code func(T) string) []T {
	seen := make(map[string]bool, len(records))
	out := records[:0]
	for _, rec := range records {
		if seen[code(rec)] {
			continue
		}
		seen[code(rec)] = true
		out = append(out, rec)
	}
	return out
}
