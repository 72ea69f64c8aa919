package audit

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-payday/internal/tenant"
)

// Subject types for audit entries.
const (
	SubjectPayrollRun = "PAYROLL_RUN"
	SubjectClaim      = "CLAIM"
	SubjectDispute    = "DISPUTE"
	SubjectRefund     = "REFUND"
)

// Entry is one row of the append-only trail. Entries are written on every
// state transition and never rewritten; history is reconstructed by reading
// them in order, and the latest entry doubles as the duplicate-request
// detector for client retries.
type Entry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_subject"`
	SubjectType string    `gorm:"type:varchar(30);not null;index:idx_audit_subject"`
	SubjectID   uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_subject"`
	Status      string    `gorm:"type:varchar(40);not null"`
	ActorID     uuid.UUID `gorm:"type:uuid;not null"`
	Role        string    `gorm:"type:varchar(20);not null"`
	Note        *string   `gorm:"type:text"`
	At          time.Time `gorm:"not null"`
}

func (Entry) TableName() string {
	return "audit_entries"
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Append(ctx context.Context, entry *Entry) error
	ListBySubject(ctx context.Context, companyID, subjectType string, subjectID uuid.UUID) ([]Entry, error)
	LatestBySubject(ctx context.Context, companyID, subjectType string, subjectID uuid.UUID) (*Entry, error)
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

func (r *repository) Append(ctx context.Context, entry *Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}

	if r.tx != nil {
		query := `
            INSERT INTO audit_entries (
                id, company_id, subject_type, subject_id, status, actor_id, role, note, at
            ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        `
		_, err := r.tx.ExecContext(
			ctx, query,
			entry.ID, entry.CompanyID, entry.SubjectType, entry.SubjectID,
			entry.Status, entry.ActorID, entry.Role, entry.Note, entry.At,
		)
		return err
	}

	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListBySubject(ctx context.Context, companyID, subjectType string, subjectID uuid.UUID) ([]Entry, error) {
	var entries []Entry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("subject_type = ? AND subject_id = ?", subjectType, subjectID).
		Order("at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) LatestBySubject(ctx context.Context, companyID, subjectType string, subjectID uuid.UUID) (*Entry, error) {
	var entry Entry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("subject_type = ? AND subject_id = ?", subjectType, subjectID).
		Order("at DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
