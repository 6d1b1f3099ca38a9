package user

import (
	"time"

	"github.com/google/uuid"

	"go-welfare/internal/department"
)

// User is an employee account. Role is either ADMIN or USER and every user
// belongs to exactly one department.
type User struct {
	ID           uuid.UUID              `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID   string                 `gorm:"type:varchar(50);not null;uniqueIndex:uq_user_employee_id"`
	Name         string                 `gorm:"type:varchar(255);not null"`
	Email        string                 `gorm:"type:varchar(255);not null;uniqueIndex:uq_user_email"`
	Password     string                 `gorm:"type:varchar(255);not null"`
	Role         string                 `gorm:"type:varchar(20);not null;default:'USER'"`
	DepartmentID uuid.UUID              `gorm:"type:uuid;not null;index"`
	Department   *department.Department `gorm:"foreignKey:DepartmentID"`
	CreatedAt    time.Time              `gorm:"autoCreateTime"`
	UpdatedAt    time.Time              `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
