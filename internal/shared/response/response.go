package response

import (
	"github.com/gin-gonic/gin"
)

// Pagination is the envelope metadata every list endpoint returns.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(total int64, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		// ceil(total / limit)
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// ListEnvelope is the paginated payload shape. Exported so services can cache
// the whole envelope and handlers can replay it verbatim.
type ListEnvelope struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// JSON writes a bare object or array, the single-item contract.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// List writes the paginated envelope {data, pagination}.
func List(c *gin.Context, status int, data any, p Pagination) {
	c.JSON(status, ListEnvelope{Data: data, Pagination: p})
}

// Error writes {error, code} with the given HTTP status.
func Error(c *gin.Context, status int, code string, message string, details any) {
	body := gin.H{
		"error": message,
		"code":  code,
	}
	if details != nil {
		body["details"] = details
	}
	c.JSON(status, body)
}
