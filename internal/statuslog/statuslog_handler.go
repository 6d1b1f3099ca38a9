package statuslog

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
	l := zap.L().Named("statuslog.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("statuslog.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("status log request failed",
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

func (h *Handler) List(c *gin.Context) {
	page, limit := pageQuery(c)
	q := ListStatusLogsQuery{
		ProcessedByID: c.Query("processedById"),
		Status:        c.Query("status"),
		FromDate:      c.Query("fromDate"),
		ToDate:        c.Query("toDate"),
		Page:          page,
		Limit:         limit,
	}

	items, total, err := h.service.List(c.Request.Context(), middleware.Caller(c), c.Query("welfareRecordId"), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.List(c, http.StatusOK, items, response.NewPagination(total, page, limit))
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateStatusLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), middleware.Caller(c), req.WelfareRecordID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, resp)
}
