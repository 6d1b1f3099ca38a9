package welfarerecord

import (
	"net/http"
	"strconv"

	"go-welfare/internal/middleware"
	"go-welfare/internal/shared/apperror"
	"go-welfare/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("welfarerecord.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("welfarerecord.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("welfare record request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func pageQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

// boolQuery treats any present value as a filter: the literal "true" means
// true, everything else means false. An absent parameter leaves the filter
// unset.
func boolQuery(c *gin.Context, name string) *bool {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	v := raw == "true"
	return &v
}

func (h *Handler) List(c *gin.Context) {
	page, limit := pageQuery(c)
	q := ListRecordsQuery{
		UserID:       c.Query("userId"),
		DepartmentID: c.Query("departmentId"),
		ItemTypeID:   c.Query("itemTypeId"),
		Status:       c.Query("status"),
		IsCancelled:  boolQuery(c, "isCancelled"),
		FromDate:     c.Query("fromDate"),
		ToDate:       c.Query("toDate"),
		Search:       c.Query("search"),
		Page:         page,
		Limit:        limit,
	}

	items, total, err := h.service.List(c.Request.Context(), middleware.Caller(c), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.List(c, http.StatusOK, items, response.NewPagination(total, page, limit))
}

func (h *Handler) ListMine(c *gin.Context) {
	page, limit := pageQuery(c)
	q := MyRecordsQuery{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	}

	items, total, err := h.service.ListMine(c.Request.Context(), middleware.Caller(c), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.List(c, http.StatusOK, items, response.NewPagination(total, page, limit))
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stats)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), middleware.Caller(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, resp)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), middleware.Caller(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), middleware.Caller(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, resp)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.Caller(c), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "welfare record deleted successfully"})
}

func (h *Handler) BulkUpdateStatus(c *gin.Context) {
	var req BulkUpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	count, err := h.service.BulkUpdateStatus(c.Request.Context(), middleware.Caller(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"message": "status updated successfully",
		"count":   count,
	})
}
