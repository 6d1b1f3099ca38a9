package itemtype

import (
	"time"

	"github.com/google/uuid"
)

// ItemType categorizes welfare claims (medical, education, ...).
type ItemType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_item_type_name"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ItemType) TableName() string {
	return "item_types"
}
