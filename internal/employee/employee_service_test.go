package employee_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"go-payday/internal/employee"
	employeeerrors "go-payday/internal/employee/errors"
)

type fakeEmployeeRepository struct {
	employees []employee.Employee

	allowances map[uuid.UUID][]string
	bonuses    []employee.BonusAward
	leaves     []employee.UnpaidLeave
	penalties  []employee.PenaltyEvent

	created        []*employee.Employee
	recordedLeaves []*employee.UnpaidLeave
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepository) Create(ctx context.Context, emp *employee.Employee) error {
	f.created = append(f.created, emp)
	f.employees = append(f.employees, *emp)
	return nil
}

func (f *fakeEmployeeRepository) FindAllByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return f.employees, nil
}

func (f *fakeEmployeeRepository) FindActiveByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	var active []employee.Employee
	for _, e := range f.employees {
		if e.Active {
			active = append(active, e)
		}
	}
	return active, nil
}

func (f *fakeEmployeeRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	for i := range f.employees {
		if f.employees[i].ID.String() == id {
			return &f.employees[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, emp *employee.Employee) error {
	return nil
}

func (f *fakeEmployeeRepository) Delete(ctx context.Context, companyID, id string) error {
	return nil
}

func (f *fakeEmployeeRepository) ReplaceAllowances(ctx context.Context, companyID, employeeID uuid.UUID, codes []string) error {
	if f.allowances == nil {
		f.allowances = make(map[uuid.UUID][]string)
	}
	f.allowances[employeeID] = codes
	return nil
}

func (f *fakeEmployeeRepository) AllowanceCodesByEmployee(ctx context.Context, companyID string) (map[uuid.UUID][]string, error) {
	return f.allowances, nil
}

func (f *fakeEmployeeRepository) CreateBonus(ctx context.Context, bonus *employee.BonusAward) error {
	f.bonuses = append(f.bonuses, *bonus)
	return nil
}

func (f *fakeEmployeeRepository) BonusesForPeriod(ctx context.Context, companyID, period string) ([]employee.BonusAward, error) {
	return f.bonuses, nil
}

func (f *fakeEmployeeRepository) UpsertUnpaidLeave(ctx context.Context, leave *employee.UnpaidLeave) error {
	f.recordedLeaves = append(f.recordedLeaves, leave)
	f.leaves = append(f.leaves, *leave)
	return nil
}

func (f *fakeEmployeeRepository) UnpaidLeaveForPeriod(ctx context.Context, companyID, period string) ([]employee.UnpaidLeave, error) {
	return f.leaves, nil
}

func (f *fakeEmployeeRepository) CreatePenalty(ctx context.Context, event *employee.PenaltyEvent) error {
	f.penalties = append(f.penalties, *event)
	return nil
}

func (f *fakeEmployeeRepository) PenaltiesForPeriod(ctx context.Context, companyID, period string) ([]employee.PenaltyEvent, error) {
	return f.penalties, nil
}

func strptr(s string) *string { return &s }

func TestEmployeeService_Create(t *testing.T) {
	repo := &fakeEmployeeRepository{}
	svc := employee.NewService(repo)
	companyID := uuid.New().String()

	resp, err := svc.Create(context.Background(), companyID, employee.CreateEmployeeRequest{
		FullName:          "Ava Stone",
		Email:             "ava@acme.test",
		ContractType:      employee.ContractFullTime,
		BaseSalary:        6000,
		BankAccountNumber: strptr("NL91ABNA0417164300"),
		AllowanceCodes:    []string{"transport"},
	})

	assert.NoError(t, err)
	assert.True(t, resp.HasBankAccount)
	assert.True(t, resp.Active)
	assert.Len(t, repo.created, 1)
	assert.Equal(t, []string{"transport"}, repo.allowances[repo.created[0].ID])
}

func TestEmployeeService_RecordUnpaidLeave_RejectsTooManyDays(t *testing.T) {
	companyID := uuid.New()
	empID := uuid.New()
	repo := &fakeEmployeeRepository{
		employees: []employee.Employee{{ID: empID, CompanyID: companyID, Active: true}},
	}
	svc := employee.NewService(repo)

	err := svc.RecordUnpaidLeave(context.Background(), companyID.String(), employee.RecordUnpaidLeaveRequest{
		EmployeeID: empID.String(),
		Period:     "2026-02",
		Days:       31,
	})
	assert.ErrorIs(t, err, employeeerrors.ErrUnpaidDaysOutOfRange)

	err = svc.RecordUnpaidLeave(context.Background(), companyID.String(), employee.RecordUnpaidLeaveRequest{
		EmployeeID: empID.String(),
		Period:     "2026-02",
		Days:       10,
	})
	assert.NoError(t, err)
	assert.Len(t, repo.recordedLeaves, 1)
}

func TestEmployeeService_RecordBonus_InvalidPeriod(t *testing.T) {
	companyID := uuid.New()
	empID := uuid.New()
	repo := &fakeEmployeeRepository{
		employees: []employee.Employee{{ID: empID, CompanyID: companyID, Active: true}},
	}
	svc := employee.NewService(repo)

	err := svc.RecordBonus(context.Background(), companyID.String(), employee.RecordBonusRequest{
		EmployeeID: empID.String(),
		Period:     "Feb 2026",
		Name:       "Spot bonus",
		Amount:     100,
	})
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidPeriod)
}

func TestEmployeeService_CollectFacts(t *testing.T) {
	companyID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()
	former := uuid.New()
	penaltyAmount := int64(75)

	repo := &fakeEmployeeRepository{
		employees: []employee.Employee{
			{ID: alice, CompanyID: companyID, BaseSalary: 6000, ContractType: employee.ContractFullTime, BankAccountNumber: strptr("123"), Active: true},
			{ID: bob, CompanyID: companyID, BaseSalary: 4000, ContractType: employee.ContractContractor, Active: true},
			{ID: former, CompanyID: companyID, BaseSalary: 9999, Active: false},
		},
		allowances: map[uuid.UUID][]string{alice: {"transport", "meal"}},
		bonuses: []employee.BonusAward{
			{EmployeeID: alice, Period: "2026-03", Name: "Referral", Amount: 250},
			{EmployeeID: alice, Period: "2026-03", Name: "Gym", Amount: 40, IsBenefit: true},
		},
		leaves: []employee.UnpaidLeave{
			{EmployeeID: bob, Period: "2026-03", Days: 2},
		},
		penalties: []employee.PenaltyEvent{
			{EmployeeID: bob, Period: "2026-03", Code: "late-arrival", Amount: &penaltyAmount},
		},
	}
	svc := employee.NewService(repo)

	inputs, err := svc.CollectFacts(context.Background(), companyID.String(), "2026-03")
	assert.NoError(t, err)
	assert.Len(t, inputs, 2)

	byID := make(map[uuid.UUID]int)
	for i, in := range inputs {
		byID[in.EmployeeID] = i
	}

	aliceIn := inputs[byID[alice]]
	assert.Equal(t, int64(6000), aliceIn.BaseSalary)
	assert.Equal(t, []string{"transport", "meal"}, aliceIn.AllowanceCodes)
	assert.Len(t, aliceIn.Bonuses, 1)
	assert.Len(t, aliceIn.Benefits, 1)
	assert.True(t, aliceIn.HasBankAccount)
	assert.Nil(t, aliceIn.PendingRefunds)
	assert.Nil(t, aliceIn.PriorGross)

	bobIn := inputs[byID[bob]]
	assert.Equal(t, 2, bobIn.UnpaidLeaveDays)
	assert.False(t, bobIn.HasBankAccount)
	assert.Len(t, bobIn.Penalties, 1)
	assert.Equal(t, "late-arrival", bobIn.Penalties[0].Code)
	assert.Equal(t, penaltyAmount, bobIn.Penalties[0].Amount)
}

func TestEmployeeService_CollectFacts_InvalidPeriod(t *testing.T) {
	svc := employee.NewService(&fakeEmployeeRepository{})
	_, err := svc.CollectFacts(context.Background(), uuid.New().String(), "03-2026")
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidPeriod)
}
