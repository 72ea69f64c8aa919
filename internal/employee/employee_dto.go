package employee

type CreateEmployeeRequest struct {
	FullName          string   `json:"full_name" binding:"required"`
	Email             string   `json:"email" binding:"required,email"`
	DepartmentID      *string  `json:"department_id" binding:"omitempty,uuid"`
	ContractType      string   `json:"contract_type" binding:"required,oneof=FULL_TIME PART_TIME CONTRACTOR"`
	BaseSalary        int64    `json:"base_salary" binding:"required,gt=0"`
	BankAccountNumber *string  `json:"bank_account_number"`
	AllowanceCodes    []string `json:"allowance_codes"`
}

type UpdateEmployeeRequest struct {
	FullName          string   `json:"full_name" binding:"required"`
	Email             string   `json:"email" binding:"required,email"`
	DepartmentID      *string  `json:"department_id" binding:"omitempty,uuid"`
	ContractType      string   `json:"contract_type" binding:"required,oneof=FULL_TIME PART_TIME CONTRACTOR"`
	BaseSalary        int64    `json:"base_salary" binding:"required,gt=0"`
	BankAccountNumber *string  `json:"bank_account_number"`
	AllowanceCodes    []string `json:"allowance_codes"`
	Active            *bool    `json:"active"`
}

type RecordBonusRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Period     string `json:"period" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
	IsBenefit  bool   `json:"is_benefit"`
}

type RecordUnpaidLeaveRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Period     string `json:"period" binding:"required"`
	Days       int    `json:"days" binding:"required,gte=0"`
}

type RecordPenaltyRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Period     string `json:"period" binding:"required"`
	Code       string `json:"code" binding:"required"`
	Amount     *int64 `json:"amount" binding:"omitempty,gt=0"`
}

type EmployeeResponse struct {
	ID             string   `json:"id"`
	CompanyID      string   `json:"company_id"`
	DepartmentID   string   `json:"department_id,omitempty"`
	FullName       string   `json:"full_name"`
	Email          string   `json:"email"`
	ContractType   string   `json:"contract_type"`
	BaseSalary     int64    `json:"base_salary"`
	HasBankAccount bool     `json:"has_bank_account"`
	AllowanceCodes []string `json:"allowance_codes"`
	Active         bool     `json:"active"`
}
