package statuslog

import (
	"time"

	"github.com/google/uuid"

	"go-welfare/internal/user"
)

// StatusLog is one entry in the append-only history of a welfare record.
// Entries are never updated or deleted individually; they only disappear
// when their parent record is deleted.
type StatusLog struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WelfareRecordID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status          string     `gorm:"type:varchar(20);not null"`
	Notes           string     `gorm:"type:text;not null"`
	ProcessedByID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProcessedBy     *user.User `gorm:"foreignKey:ProcessedByID"`
	Timestamp       time.Time  `gorm:"not null;autoCreateTime"`
}

func (StatusLog) TableName() string {
	return "status_logs"
}
