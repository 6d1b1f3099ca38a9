package department

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, dept *Department) error
	FindAll(ctx context.Context, q ListDepartmentsQuery) ([]Department, int64, error)
	FindByID(ctx context.Context, id string) (*Department, error)
	NameExists(ctx context.Context, name string, excludeID string) (bool, error)
	Update(ctx context.Context, dept *Department) error
	Delete(ctx context.Context, id string) error
	HasUsers(ctx context.Context, id string) (bool, error)
	HasWelfareRecords(ctx context.Context, id string) (bool, error)
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

func (r *repository) Create(ctx context.Context, dept *Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

func (r *repository) FindAll(ctx context.Context, q ListDepartmentsQuery) ([]Department, int64, error) {
	db := r.db.WithContext(ctx).Model(&Department{})
	if q.Search != "" {
		db = db.Where("name ILIKE ?", "%"+q.Search+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var depts []Department
	err := db.
		Order("name ASC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&depts).Error
	return depts, total, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Department, error) {
	var dept Department
	err := r.db.WithContext(ctx).First(&dept, "id = ?", id).Error
	return &dept, err
}

func (r *repository) NameExists(ctx context.Context, name string, excludeID string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&Department{}).
		Where("LOWER(name) = LOWER(?)", name)
	if excludeID != "" {
		db = db.Where("id <> ?", excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, dept *Department) error {
	return r.db.WithContext(ctx).Save(dept).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Department{}, "id = ?", id).Error
}

func (r *repository) HasUsers(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("department_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) HasWelfareRecords(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("welfare_records").
		Where("department_id = ?", id).
		Count(&count).Error
	return count > 0, err
}
