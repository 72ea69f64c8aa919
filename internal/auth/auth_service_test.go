package auth_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"go-payday/internal/auth"
	autherrors "go-payday/internal/auth/errors"
	"go-payday/internal/employee"
	employeeerrors "go-payday/internal/employee/errors"
	"go-payday/internal/rbac"
)

type fakeAuthRepository struct {
	createFn     func(ctx context.Context, user *auth.User) error
	getByEmailFn func(ctx context.Context, email string) (*auth.User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*auth.User, error)
}

func (f *fakeAuthRepository) Create(ctx context.Context, user *auth.User) error {
	return f.createFn(ctx, user)
}

func (f *fakeAuthRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return f.getByEmailFn(ctx, email)
}

func (f *fakeAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return f.getByIDFn(ctx, id)
}

type fakeRBACService struct {
	loadedCompanies []string
}

func (f *fakeRBACService) LoadCompanyPolicy(companyID string) error {
	f.loadedCompanies = append(f.loadedCompanies, companyID)
	return nil
}

func (f *fakeRBACService) Enforce(req rbac.EnforceRequest) (bool, error) {
	return true, nil
}

type fakeEmployeeRepository struct {
	employee.Repository

	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	return f.findByIDAndCompanyFn(ctx, companyID, id)
}

func testUser(t *testing.T, password string) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &auth.User{
		ID:         uuid.New(),
		CompanyID:  uuid.New(),
		EmployeeID: uuid.New(),
		Name:       "Dana Specialist",
		Email:      "dana@acme.test",
		Password:   string(hashed),
		Role:       rbac.RoleSpecialist,
		IsActive:   true,
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := testUser(t, "s3cret-pass")
	repo := &fakeAuthRepository{
		getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			assert.Equal(t, user.Email, email)
			return user, nil
		},
	}
	rbacSvc := &fakeRBACService{}
	svc := auth.NewService(repo, rbacSvc, &fakeEmployeeRepository{})

	accessToken, refreshToken, resp, err := svc.Login(context.Background(), user.Email, "s3cret-pass")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, user.ID.String(), resp.ID)
	assert.Equal(t, rbac.RoleSpecialist, resp.Role)
	assert.Equal(t, []string{user.CompanyID.String()}, rbacSvc.loadedCompanies)

	// The middleware requires all four identity claims.
	token, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	assert.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, user.EmployeeID.String(), claims["employee_id"])
	assert.Equal(t, user.CompanyID.String(), claims["company_id"])
	assert.Equal(t, rbac.RoleSpecialist, claims["role"])
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := testUser(t, "s3cret-pass")
	repo := &fakeAuthRepository{
		getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			return user, nil
		},
	}
	svc := auth.NewService(repo, &fakeRBACService{}, &fakeEmployeeRepository{})

	_, _, _, err := svc.Login(context.Background(), user.Email, "not-the-password")

	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	repo := &fakeAuthRepository{
		getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			return nil, assert.AnError
		},
	}
	svc := auth.NewService(repo, &fakeRBACService{}, &fakeEmployeeRepository{})

	_, _, _, err := svc.Login(context.Background(), "nobody@acme.test", "whatever")

	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := testUser(t, "s3cret-pass")
	repo := &fakeAuthRepository{
		getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			return user, nil
		},
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
			assert.Equal(t, user.ID, id)
			// Role was bumped since login; the refreshed pair carries it.
			promoted := *user
			promoted.Role = rbac.RoleManager
			return &promoted, nil
		},
	}
	svc := auth.NewService(repo, &fakeRBACService{}, &fakeEmployeeRepository{})

	_, refreshToken, _, err := svc.Login(context.Background(), user.Email, "s3cret-pass")
	assert.NoError(t, err)

	newAccess, newRefresh, resp, err := svc.RefreshToken(context.Background(), refreshToken)

	assert.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)
	assert.Equal(t, rbac.RoleManager, resp.Role)
}

func TestAuthService_RefreshToken_Garbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	svc := auth.NewService(&fakeAuthRepository{}, &fakeRBACService{}, &fakeEmployeeRepository{})

	_, _, _, err := svc.RefreshToken(context.Background(), "not-a-jwt")

	assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
}

func TestAuthService_RefreshToken_Expired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	svc := auth.NewService(&fakeAuthRepository{}, &fakeRBACService{}, &fakeEmployeeRepository{})

	_, _, _, err = svc.RefreshToken(context.Background(), signed)

	assert.ErrorIs(t, err, autherrors.ErrTokenExpired)
}

func TestAuthService_GetMe(t *testing.T) {
	user := testUser(t, "s3cret-pass")
	repo := &fakeAuthRepository{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
			if id != user.ID {
				return nil, assert.AnError
			}
			return user, nil
		},
	}
	svc := auth.NewService(repo, &fakeRBACService{}, &fakeEmployeeRepository{})

	resp, err := svc.GetMe(context.Background(), user.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, user.Email, resp.Email)

	_, err = svc.GetMe(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)

	_, err = svc.GetMe(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
}

func TestAuthService_Register(t *testing.T) {
	companyID := uuid.New()
	employeeID := uuid.New()

	var created *auth.User
	repo := &fakeAuthRepository{
		createFn: func(ctx context.Context, user *auth.User) error {
			created = user
			return nil
		},
	}
	employeeRepo := &fakeEmployeeRepository{
		findByIDAndCompanyFn: func(ctx context.Context, gotCompanyID, gotID string) (*employee.Employee, error) {
			assert.Equal(t, companyID.String(), gotCompanyID)
			assert.Equal(t, employeeID.String(), gotID)
			return &employee.Employee{ID: employeeID, CompanyID: companyID, FullName: "Dana"}, nil
		},
	}
	rbacSvc := &fakeRBACService{}
	svc := auth.NewService(repo, rbacSvc, employeeRepo)

	resp, err := svc.Register(context.Background(), auth.RegisterRequest{
		CompanyID:  companyID.String(),
		EmployeeID: employeeID.String(),
		Email:      "dana@acme.test",
		Name:       "Dana",
		Password:   "longenough",
	})

	assert.NoError(t, err)
	assert.Equal(t, rbac.RoleSpecialist, resp.Role)
	assert.NotNil(t, created)
	assert.Equal(t, companyID, created.CompanyID)
	assert.NotEqual(t, "longenough", created.Password)
	assert.Equal(t, []string{companyID.String()}, rbacSvc.loadedCompanies)
}

func TestAuthService_Register_EmployeeMissing(t *testing.T) {
	employeeRepo := &fakeEmployeeRepository{
		findByIDAndCompanyFn: func(ctx context.Context, companyID, id string) (*employee.Employee, error) {
			return nil, employeeerrors.ErrEmployeeNotFound
		},
	}
	svc := auth.NewService(&fakeAuthRepository{}, &fakeRBACService{}, employeeRepo)

	_, err := svc.Register(context.Background(), auth.RegisterRequest{
		CompanyID:  uuid.NewString(),
		EmployeeID: uuid.NewString(),
		Email:      "ghost@acme.test",
		Name:       "Ghost",
		Password:   "longenough",
	})

	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	employeeID := uuid.New()
	companyID := uuid.New()

	repo := &fakeAuthRepository{
		createFn: func(ctx context.Context, user *auth.User) error {
			return assert.AnError
		},
	}
	employeeRepo := &fakeEmployeeRepository{
		findByIDAndCompanyFn: func(ctx context.Context, gotCompanyID, gotID string) (*employee.Employee, error) {
			return &employee.Employee{ID: employeeID, CompanyID: companyID}, nil
		},
	}
	svc := auth.NewService(repo, &fakeRBACService{}, employeeRepo)

	_, err := svc.Register(context.Background(), auth.RegisterRequest{
		CompanyID:  companyID.String(),
		EmployeeID: employeeID.String(),
		Email:      "dana@acme.test",
		Name:       "Dana",
		Password:   "longenough",
	})

	assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
}
