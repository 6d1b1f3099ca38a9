package welfarerecord

import (
	"go-welfare/internal/statuslog"
	"go-welfare/internal/user"
)

type ListRecordsQuery struct {
	UserID       string
	DepartmentID string
	ItemTypeID   string
	Status       string
	IsCancelled  *bool
	FromDate     string
	ToDate       string
	Search       string
	Page         int
	Limit        int
}

type MyRecordsQuery struct {
	Status string
	Search string
	Page   int
	Limit  int
}

type CreateRecordRequest struct {
	OrderNumber       string  `json:"orderNumber" binding:"required"`
	CorrectionDetails string  `json:"correctionDetails"`
	Amount            float64 `json:"amount" binding:"required,gt=0"`
	RecordDate        string  `json:"recordDate" binding:"omitempty,datetime=2006-01-02"`
	Status            string  `json:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	DepartureDate     *string `json:"departureDate" binding:"omitempty,datetime=2006-01-02"`
	ReturnDate        *string `json:"returnDate" binding:"omitempty,datetime=2006-01-02"`
	UserID            string  `json:"userId" binding:"omitempty,uuid"`
	ItemTypeID        string  `json:"itemTypeId" binding:"required,uuid"`
	DepartmentID      string  `json:"departmentId" binding:"omitempty,uuid"`
}

// UpdateRecordRequest is an enumerated patch. Which fields the caller may
// set depends on their relationship to the record; see the service.
type UpdateRecordRequest struct {
	OrderNumber       *string  `json:"orderNumber" binding:"omitempty,min=1"`
	CorrectionDetails *string  `json:"correctionDetails"`
	Amount            *float64 `json:"amount" binding:"omitempty,gt=0"`
	RecordDate        *string  `json:"recordDate" binding:"omitempty,datetime=2006-01-02"`
	Status            *string  `json:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	StatusNote        *string  `json:"statusNote"`
	IsCancelled       *bool    `json:"isCancelled"`
	DepartureDate     *string  `json:"departureDate" binding:"omitempty,datetime=2006-01-02"`
	ReturnDate        *string  `json:"returnDate" binding:"omitempty,datetime=2006-01-02"`
	ItemTypeID        *string  `json:"itemTypeId" binding:"omitempty,uuid"`
	DepartmentID      *string  `json:"departmentId" binding:"omitempty,uuid"`
}

type BulkUpdateStatusRequest struct {
	IDs    []string `json:"ids" binding:"required,min=1,dive,uuid"`
	Status string   `json:"status" binding:"required,oneof=PENDING APPROVED REJECTED"`
	Notes  string   `json:"notes"`
}

type UserRef struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
}

type NamedRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RecordResponse struct {
	ID                string                        `json:"id"`
	OrderNumber       string                        `json:"orderNumber"`
	CorrectionDetails string                        `json:"correctionDetails"`
	Amount            float64                       `json:"amount"`
	RecordDate        string                        `json:"recordDate"`
	Status            string                        `json:"status"`
	IsCancelled       bool                          `json:"isCancelled"`
	DepartureDate     *string                       `json:"departureDate,omitempty"`
	ReturnDate        *string                       `json:"returnDate,omitempty"`
	UserID            string                        `json:"userId"`
	ItemTypeID        string                        `json:"itemTypeId"`
	DepartmentID      string                        `json:"departmentId"`
	User              *UserRef                      `json:"user,omitempty"`
	ItemType          *NamedRef                     `json:"itemType,omitempty"`
	Department        *NamedRef                     `json:"department,omitempty"`
	StatusLogs        []statuslog.StatusLogResponse `json:"statusLogs,omitempty"`
	CreatedAt         string                        `json:"createdAt"`
	UpdatedAt         string                        `json:"updatedAt"`
}

type StatsResponse struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

func userRef(u *user.User) *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID.String(), EmployeeID: u.EmployeeID, Name: u.Name}
}
