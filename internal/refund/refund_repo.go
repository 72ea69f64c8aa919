package refund

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-payday/internal/tenant"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateClaim(ctx context.Context, claim *Claim) error
	FindClaimByIDAndCompany(ctx context.Context, companyID, id string) (*Claim, error)
	UpdateClaim(ctx context.Context, claim *Claim) error
	FindAllClaimsByCompany(ctx context.Context, companyID string) ([]Claim, error)

	CreateDispute(ctx context.Context, dispute *Dispute) error
	FindDisputeByIDAndCompany(ctx context.Context, companyID, id string) (*Dispute, error)
	UpdateDispute(ctx context.Context, dispute *Dispute) error

	CreateRefund(ctx context.Context, refund *Refund) error
	FindRefundBySource(ctx context.Context, companyID, sourceType string, sourceID uuid.UUID) (*Refund, error)
	ListPendingByCompany(ctx context.Context, companyID string) ([]Refund, error)
	ListByRun(ctx context.Context, companyID string, runID uuid.UUID) ([]Refund, error)

	// MarkPaidCAS flips one refund PENDING -> PAID, guarded on the current
	// status so a retry after a crash mid-loop cannot double-apply.
	// Returns false when the refund was already paid.
	MarkPaidCAS(ctx context.Context, refundID, runID uuid.UUID) (bool, error)
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

func (r *repository) CreateClaim(ctx context.Context, claim *Claim) error {
	return r.db.WithContext(ctx).Create(claim).Error
}

func (r *repository) FindClaimByIDAndCompany(ctx context.Context, companyID, id string) (*Claim, error) {
	var claim Claim
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&claim, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *repository) UpdateClaim(ctx context.Context, claim *Claim) error {
	return r.db.WithContext(ctx).Save(claim).Error
}

func (r *repository) FindAllClaimsByCompany(ctx context.Context, companyID string) ([]Claim, error) {
	var claims []Claim
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC").
		Find(&claims).Error
	return claims, err
}

func (r *repository) CreateDispute(ctx context.Context, dispute *Dispute) error {
	return r.db.WithContext(ctx).Create(dispute).Error
}

func (r *repository) FindDisputeByIDAndCompany(ctx context.Context, companyID, id string) (*Dispute, error) {
	var dispute Dispute
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&dispute, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &dispute, nil
}

func (r *repository) UpdateDispute(ctx context.Context, dispute *Dispute) error {
	return r.db.WithContext(ctx).Save(dispute).Error
}

func (r *repository) CreateRefund(ctx context.Context, refund *Refund) error {
	if r.tx != nil {
		query := `
            INSERT INTO refunds (
                id, company_id, employee_id, source_type, source_id, amount, status, created_at, updated_at
            ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
        `
		_, err := r.tx.ExecContext(
			ctx, query,
			refund.ID, refund.CompanyID, refund.EmployeeID,
			refund.SourceType, refund.SourceID, refund.Amount, refund.Status,
			time.Now().UTC(),
		)
		return err
	}
	return r.db.WithContext(ctx).Create(refund).Error
}

func (r *repository) FindRefundBySource(ctx context.Context, companyID, sourceType string, sourceID uuid.UUID) (*Refund, error) {
	var refund Refund
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		First(&refund).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &refund, nil
}

func (r *repository) ListPendingByCompany(ctx context.Context, companyID string) ([]Refund, error) {
	var refunds []Refund
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", RefundStatusPending).
		Order("created_at ASC").
		Find(&refunds).Error
	return refunds, err
}

func (r *repository) ListByRun(ctx context.Context, companyID string, runID uuid.UUID) ([]Refund, error) {
	var refunds []Refund
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("paid_in_payroll_run_id = ?", runID).
		Order("created_at ASC").
		Find(&refunds).Error
	return refunds, err
}

func (r *repository) MarkPaidCAS(ctx context.Context, refundID, runID uuid.UUID) (bool, error) {
	now := time.Now().UTC()

	if r.tx != nil {
		query := `
            UPDATE refunds
            SET status = $1, paid_in_payroll_run_id = $2, updated_at = $3
            WHERE id = $4 AND status = $5
        `
		res, err := r.tx.ExecContext(ctx, query, RefundStatusPaid, runID, now, refundID, RefundStatusPending)
		if err != nil {
			return false, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return false, err
		}
		return affected == 1, nil
	}

	res := r.db.WithContext(ctx).
		Model(&Refund{}).
		Where("id = ? AND status = ?", refundID, RefundStatusPending).
		Updates(map[string]any{
			"status":                 RefundStatusPaid,
			"paid_in_payroll_run_id": runID,
			"updated_at":             now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
