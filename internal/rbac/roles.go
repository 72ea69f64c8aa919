package rbac

// Payroll roles. These names appear in JWT role claims, in casbin grouping
// policies, and in the approval transition table.
const (
	RoleSpecialist = "specialist"
	RoleManager    = "manager"
	RoleFinance    = "finance"
)

type EnforceRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	CompanyID  string `json:"company_id" binding:"required"`
	Resource   string `json:"resource" binding:"required"`
	Action     string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
