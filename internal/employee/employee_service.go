package employee

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	employeeerrors "go-payday/internal/employee/errors"
	"go-payday/internal/paycalc"
	"go-payday/internal/ruleset"
)

// FactsProvider is the slice the payroll run service consumes: every active
// employee's calculation inputs for one period. PriorGross and pending
// refunds are filled in by the caller, which owns payroll history and the
// refund ledger.
type FactsProvider interface {
	CollectFacts(ctx context.Context, companyID, period string) ([]paycalc.EmployeeInput, error)
}

type Service interface {
	FactsProvider

	Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, companyID, id string) error

	RecordBonus(ctx context.Context, companyID string, req RecordBonusRequest) error
	RecordUnpaidLeave(ctx context.Context, companyID string, req RecordUnpaidLeaveRequest) error
	RecordPenalty(ctx context.Context, companyID string, req RecordPenaltyRequest) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidCompanyID
	}

	emp := &Employee{
		ID:                uuid.New(),
		CompanyID:         companyUUID,
		FullName:          req.FullName,
		Email:             req.Email,
		ContractType:      req.ContractType,
		BaseSalary:        req.BaseSalary,
		BankAccountNumber: req.BankAccountNumber,
		Active:            true,
	}
	if req.DepartmentID != nil {
		deptUUID, err := uuid.Parse(*req.DepartmentID)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
		}
		emp.DepartmentID = &deptUUID
	}

	if err := s.repo.Create(ctx, emp); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if len(req.AllowanceCodes) > 0 {
		if err := s.repo.ReplaceAllowances(ctx, companyUUID, emp.ID, req.AllowanceCodes); err != nil {
			return EmployeeResponse{}, mapRepositoryError(err)
		}
	}

	s.logger.Info("employee created",
		zap.String("employee_id", emp.ID.String()),
		zap.String("company_id", companyID),
	)
	return toEmployeeResponse(emp, req.AllowanceCodes), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	emps, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	codes, err := s.repo.AllowanceCodesByEmployee(ctx, companyID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	out := make([]EmployeeResponse, 0, len(emps))
	for i := range emps {
		out = append(out, toEmployeeResponse(&emps[i], codes[emps[i].ID]))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error) {
	emp, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	codes, err := s.repo.AllowanceCodesByEmployee(ctx, companyID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return toEmployeeResponse(emp, codes[emp.ID]), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	emp, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	emp.FullName = req.FullName
	emp.Email = req.Email
	emp.ContractType = req.ContractType
	emp.BaseSalary = req.BaseSalary
	emp.BankAccountNumber = req.BankAccountNumber
	if req.DepartmentID != nil {
		deptUUID, err := uuid.Parse(*req.DepartmentID)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
		}
		emp.DepartmentID = &deptUUID
	} else {
		emp.DepartmentID = nil
	}
	if req.Active != nil {
		emp.Active = *req.Active
	}

	if err := s.repo.Update(ctx, emp); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if err := s.repo.ReplaceAllowances(ctx, emp.CompanyID, emp.ID, req.AllowanceCodes); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return toEmployeeResponse(emp, req.AllowanceCodes), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}
	return mapRepositoryError(s.repo.Delete(ctx, companyID, id))
}

func (s *service) RecordBonus(ctx context.Context, companyID string, req RecordBonusRequest) error {
	companyUUID, employeeUUID, err := s.validatePeriodFact(ctx, companyID, req.EmployeeID, req.Period)
	if err != nil {
		return err
	}
	return mapRepositoryError(s.repo.CreateBonus(ctx, &BonusAward{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: employeeUUID,
		Period:     req.Period,
		Name:       req.Name,
		Amount:     req.Amount,
		IsBenefit:  req.IsBenefit,
	}))
}

func (s *service) RecordUnpaidLeave(ctx context.Context, companyID string, req RecordUnpaidLeaveRequest) error {
	companyUUID, employeeUUID, err := s.validatePeriodFact(ctx, companyID, req.EmployeeID, req.Period)
	if err != nil {
		return err
	}
	periodStart, _ := ruleset.ParsePeriod(req.Period)
	if req.Days > ruleset.DaysInPeriod(periodStart) {
		return employeeerrors.ErrUnpaidDaysOutOfRange
	}
	return mapRepositoryError(s.repo.UpsertUnpaidLeave(ctx, &UnpaidLeave{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: employeeUUID,
		Period:     req.Period,
		Days:       req.Days,
	}))
}

func (s *service) RecordPenalty(ctx context.Context, companyID string, req RecordPenaltyRequest) error {
	companyUUID, employeeUUID, err := s.validatePeriodFact(ctx, companyID, req.EmployeeID, req.Period)
	if err != nil {
		return err
	}
	return mapRepositoryError(s.repo.CreatePenalty(ctx, &PenaltyEvent{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: employeeUUID,
		Period:     req.Period,
		Code:       req.Code,
		Amount:     req.Amount,
	}))
}

func (s *service) validatePeriodFact(ctx context.Context, companyID, employeeID, period string) (uuid.UUID, uuid.UUID, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, employeeerrors.ErrInvalidCompanyID
	}
	if _, err := ruleset.ParsePeriod(period); err != nil {
		return uuid.Nil, uuid.Nil, employeeerrors.ErrInvalidPeriod
	}
	emp, err := s.repo.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, mapRepositoryError(err)
	}
	return companyUUID, emp.ID, nil
}

// CollectFacts assembles one calculation input per active employee. Row
// sets are fetched per table and joined in memory so the whole collection
// is four queries regardless of headcount.
func (s *service) CollectFacts(ctx context.Context, companyID, period string) ([]paycalc.EmployeeInput, error) {
	if _, err := ruleset.ParsePeriod(period); err != nil {
		return nil, employeeerrors.ErrInvalidPeriod
	}

	emps, err := s.repo.FindActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	allowances, err := s.repo.AllowanceCodesByEmployee(ctx, companyID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	bonuses, err := s.repo.BonusesForPeriod(ctx, companyID, period)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	leaves, err := s.repo.UnpaidLeaveForPeriod(ctx, companyID, period)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	penalties, err := s.repo.PenaltiesForPeriod(ctx, companyID, period)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	bonusesByEmployee := make(map[uuid.UUID][]BonusAward)
	for _, b := range bonuses {
		bonusesByEmployee[b.EmployeeID] = append(bonusesByEmployee[b.EmployeeID], b)
	}
	leaveDays := make(map[uuid.UUID]int)
	for _, l := range leaves {
		leaveDays[l.EmployeeID] += l.Days
	}
	penaltiesByEmployee := make(map[uuid.UUID][]PenaltyEvent)
	for _, p := range penalties {
		penaltiesByEmployee[p.EmployeeID] = append(penaltiesByEmployee[p.EmployeeID], p)
	}

	inputs := make([]paycalc.EmployeeInput, 0, len(emps))
	for i := range emps {
		emp := &emps[i]
		in := paycalc.EmployeeInput{
			EmployeeID:      emp.ID,
			BaseSalary:      emp.BaseSalary,
			ContractType:    emp.ContractType,
			AllowanceCodes:  allowances[emp.ID],
			UnpaidLeaveDays: leaveDays[emp.ID],
			HasBankAccount:  emp.BankAccountNumber != nil && *emp.BankAccountNumber != "",
		}
		if emp.DepartmentID != nil {
			in.DepartmentID = *emp.DepartmentID
		}
		for _, b := range bonusesByEmployee[emp.ID] {
			item := paycalc.NamedAmount{Name: b.Name, Amount: b.Amount}
			if b.IsBenefit {
				in.Benefits = append(in.Benefits, item)
			} else {
				in.Bonuses = append(in.Bonuses, item)
			}
		}
		for _, p := range penaltiesByEmployee[emp.ID] {
			penalty := paycalc.PenaltyInput{Code: p.Code}
			if p.Amount != nil {
				penalty.Amount = *p.Amount
			}
			in.Penalties = append(in.Penalties, penalty)
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func toEmployeeResponse(emp *Employee, codes []string) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             emp.ID.String(),
		CompanyID:      emp.CompanyID.String(),
		FullName:       emp.FullName,
		Email:          emp.Email,
		ContractType:   emp.ContractType,
		BaseSalary:     emp.BaseSalary,
		HasBankAccount: emp.BankAccountNumber != nil && *emp.BankAccountNumber != "",
		AllowanceCodes: codes,
		Active:         emp.Active,
	}
	if emp.DepartmentID != nil {
		resp.DepartmentID = emp.DepartmentID.String()
	}
	return resp
}
