package payrollrun

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	payrollrunerrors "go-payday/internal/payrollrun/errors"
	"go-payday/internal/shared/apperror"
	"go-payday/internal/shared/response"
)

type Handler struct {
	service  Service
	renderer *PayslipRenderer
	rdb      *redis.Client
}

func NewHandler(service Service, renderer *PayslipRenderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

func NewHandlerWithRedis(service Service, renderer *PayslipRenderer, rdb *redis.Client) *Handler {
	return &Handler{service: service, renderer: renderer, rdb: rdb}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id")
	}
	return actorID
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Initiate(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	companyID := c.GetString("company_id")
	actorID := getActorID(c)

	var req InitiateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Initiate(c.Request.Context(), companyID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	companyID := c.GetString("company_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter := ListFilter{
		Status: c.Query("status"),
		Period: c.Query("period"),
		Page:   page,
		Limit:  limit,
	}

	resp, total, err := h.service.GetAll(c.Request.Context(), companyID, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	meta := response.NewPaginationMeta(total, page, limit)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.GetByID(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetPayslip(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.GetPayslip(c.Request.Context(), companyID, c.Param("id"), c.Param("employeeId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetBreakdown(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.GetBreakdown(c.Request.Context(), companyID, c.Param("id"), c.Param("employeeId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Recalculate(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.Recalculate(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) CorrectPayslip(c *gin.Context) {
	companyID := c.GetString("company_id")

	var req CorrectPayslipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.CorrectPayslip(c.Request.Context(), companyID, c.Param("id"), c.Param("employeeId"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Submit(c *gin.Context) {
	h.transition(c, ActionSubmit, nil)
}

func (h *Handler) Publish(c *gin.Context) {
	h.transition(c, ActionPublish, nil)
}

func (h *Handler) ManagerReview(c *gin.Context) {
	var req ReviewRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	action := ActionManagerApprove
	if !req.Approved {
		action = ActionManagerReject
	}
	h.transition(c, action, req.Reason)
}

func (h *Handler) FinanceReview(c *gin.Context) {
	var req ReviewRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	action := ActionFinanceApprove
	if !req.Approved {
		action = ActionFinanceReject
	}
	h.transition(c, action, req.Reason)
}

func (h *Handler) MarkPaid(c *gin.Context) {
	h.transition(c, ActionMarkPaid, nil)
}

func (h *Handler) Unfreeze(c *gin.Context) {
	var req UnfreezeRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	h.transition(c, ActionUnfreeze, &req.Reason)
}

func (h *Handler) transition(c *gin.Context, action string, reason *string) {
	companyID := c.GetString("company_id")
	role := c.GetString("role")
	actorID := getActorID(c)

	resp, err := h.service.Transition(c.Request.Context(), companyID, actorID, role, c.Param("id"), action, reason)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// DownloadPayslip renders the payslip PDF on demand. Only available once
// the run is locked or paid; before that the numbers are still moving.
func (h *Handler) DownloadPayslip(c *gin.Context) {
	companyID := c.GetString("company_id")

	run, err := h.service.GetByID(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if run.Status != StatusLocked && run.Status != StatusPaid {
		h.writeServiceError(c, payrollrunerrors.ErrPayslipNotReady)
		return
	}

	slip, err := h.service.GetPayslip(c.Request.Context(), companyID, c.Param("id"), c.Param("employeeId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	path, err := h.renderer.RenderOne(&run.RunSummaryResponse, &slip)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.FileAttachment(path, "payslip-"+slip.EmployeeID+".pdf")
}
