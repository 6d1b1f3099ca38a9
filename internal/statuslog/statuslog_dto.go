package statuslog

type CreateStatusLogRequest struct {
	WelfareRecordID string `json:"welfareRecordId" binding:"required,uuid"`
	Status          string `json:"status" binding:"required,oneof=PENDING APPROVED REJECTED"`
	Notes           string `json:"notes" binding:"omitempty"`
}

type ListStatusLogsQuery struct {
	ProcessedByID string
	Status        string
	FromDate      string
	ToDate        string
	Page          int
	Limit         int
}

type ProcessedByRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type StatusLogResponse struct {
	ID              string          `json:"id"`
	WelfareRecordID string          `json:"welfareRecordId"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes"`
	ProcessedByID   string          `json:"processedById"`
	ProcessedBy     *ProcessedByRef `json:"processedBy,omitempty"`
	Timestamp       string          `json:"timestamp"`
}
