package welfarerecord

import (
	"time"

	"github.com/google/uuid"

	"go-welfare/internal/department"
	"go-welfare/internal/itemtype"
	"go-welfare/internal/statuslog"
	"go-welfare/internal/user"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// WelfareRecord is an employee's benefit claim. DepartmentID is frozen at
// creation time from the owning user, so department transfers do not move
// historical claims.
type WelfareRecord struct {
	ID                uuid.UUID              `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber       string                 `gorm:"type:varchar(255);not null"`
	CorrectionDetails string                 `gorm:"type:text"`
	Amount            float64                `gorm:"type:numeric(14,2);not null"`
	RecordDate        time.Time              `gorm:"not null;index"`
	Status            string                 `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	IsCancelled       bool                   `gorm:"not null;default:false"`
	DepartureDate     *time.Time             `gorm:""`
	ReturnDate        *time.Time             `gorm:""`
	UserID            uuid.UUID              `gorm:"type:uuid;not null;index"`
	ItemTypeID        uuid.UUID              `gorm:"type:uuid;not null;index"`
	DepartmentID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	User              *user.User             `gorm:"foreignKey:UserID"`
	ItemType          *itemtype.ItemType     `gorm:"foreignKey:ItemTypeID"`
	Department        *department.Department `gorm:"foreignKey:DepartmentID"`
	StatusLogs        []statuslog.StatusLog  `gorm:"foreignKey:WelfareRecordID"`
	CreatedAt         time.Time              `gorm:"autoCreateTime"`
	UpdatedAt         time.Time              `gorm:"autoUpdateTime"`
}

func (WelfareRecord) TableName() string {
	return "welfare_records"
}
