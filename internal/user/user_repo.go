package user

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, u *User) error
	FindAll(ctx context.Context, q ListUsersQuery) ([]User, int64, error)
	FindByID(ctx context.Context, id string) (*User, error)
	EmailExists(ctx context.Context, email string, excludeID string) (bool, error)
	EmployeeIDExists(ctx context.Context, employeeID string, excludeID string) (bool, error)
	DepartmentExists(ctx context.Context, departmentID string) (bool, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	HasWelfareRecords(ctx context.Context, id string) (bool, error)
	HasProcessedStatusLogs(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds every statement to the given transaction handle.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindAll(ctx context.Context, q ListUsersQuery) ([]User, int64, error) {
	db := r.db.WithContext(ctx).Model(&User{})

	if q.DepartmentID != "" {
		db = db.Where("department_id = ?", q.DepartmentID)
	}
	if q.Role != "" {
		db = db.Where("role = ?", q.Role)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		db = db.Where("name ILIKE ? OR email ILIKE ? OR employee_id ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []User
	err := db.
		Preload("Department").
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&users).Error
	return users, total, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Preload("Department").
		First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) EmailExists(ctx context.Context, email string, excludeID string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&User{}).
		Where("LOWER(email) = LOWER(?)", email)
	if excludeID != "" {
		db = db.Where("id <> ?", excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) EmployeeIDExists(ctx context.Context, employeeID string, excludeID string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&User{}).
		Where("employee_id = ?", employeeID)
	if excludeID != "" {
		db = db.Where("id <> ?", excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) DepartmentExists(ctx context.Context, departmentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("departments").
		Where("id = ?", departmentID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&User{}, "id = ?", id).Error
}

func (r *repository) HasWelfareRecords(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("welfare_records").
		Where("user_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) HasProcessedStatusLogs(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("status_logs").
		Where("processed_by_id = ?", id).
		Count(&count).Error
	return count > 0, err
}
