package welfarerecord

import (
	"context"

	"gorm.io/gorm"
)

// Scope is the row-visibility restriction resolved from the caller. The
// zero value hides everything; All lifts the restriction for admins.
type Scope struct {
	All          bool
	UserID       string
	DepartmentID string
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, rec *WelfareRecord) error
	FindAll(ctx context.Context, scope Scope, q ListRecordsQuery) ([]WelfareRecord, int64, error)
	FindMine(ctx context.Context, userID string, q MyRecordsQuery) ([]WelfareRecord, int64, error)
	FindByID(ctx context.Context, id string) (*WelfareRecord, error)
	FindExistingIDs(ctx context.Context, ids []string) ([]string, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	UpdateStatusBulk(ctx context.Context, ids []string, status string) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, scope Scope, status string) (int64, error)
	ItemTypeExists(ctx context.Context, id string) (bool, error)
	UserDepartment(ctx context.Context, userID string) (string, error)
	DepartmentExists(ctx context.Context, id string) (bool, error)
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

func (r *repository) Create(ctx context.Context, rec *WelfareRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func applyScope(db *gorm.DB, scope Scope) *gorm.DB {
	if scope.All {
		return db
	}
	return db.Where(
		"welfare_records.user_id = ? OR welfare_records.department_id = ?",
		scope.UserID, scope.DepartmentID,
	)
}

func (r *repository) FindAll(ctx context.Context, scope Scope, q ListRecordsQuery) ([]WelfareRecord, int64, error) {
	db := applyScope(r.db.WithContext(ctx).Model(&WelfareRecord{}), scope)

	if q.UserID != "" {
		db = db.Where("welfare_records.user_id = ?", q.UserID)
	}
	if q.DepartmentID != "" {
		db = db.Where("welfare_records.department_id = ?", q.DepartmentID)
	}
	if q.ItemTypeID != "" {
		db = db.Where("welfare_records.item_type_id = ?", q.ItemTypeID)
	}
	if q.Status != "" {
		db = db.Where("welfare_records.status = ?", q.Status)
	}
	if q.IsCancelled != nil {
		db = db.Where("welfare_records.is_cancelled = ?", *q.IsCancelled)
	}
	if q.FromDate != "" {
		db = db.Where("welfare_records.record_date >= ?", q.FromDate)
	}
	if q.ToDate != "" {
		db = db.Where("welfare_records.record_date <= ?", q.ToDate)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		db = db.
			Joins("LEFT JOIN users ON users.id = welfare_records.user_id").
			Joins("LEFT JOIN departments ON departments.id = welfare_records.department_id").
			Joins("LEFT JOIN item_types ON item_types.id = welfare_records.item_type_id").
			Where(
				"welfare_records.order_number ILIKE ? OR users.name ILIKE ? OR users.employee_id ILIKE ? OR departments.name ILIKE ? OR item_types.name ILIKE ?",
				pattern, pattern, pattern, pattern, pattern,
			)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []WelfareRecord
	err := db.
		Preload("User").
		Preload("ItemType").
		Preload("Department").
		Order("welfare_records.record_date DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&records).Error
	return records, total, err
}

// FindMine is the self-service listing. It sorts by submission time rather
// than claim date.
func (r *repository) FindMine(ctx context.Context, userID string, q MyRecordsQuery) ([]WelfareRecord, int64, error) {
	db := r.db.WithContext(ctx).
		Model(&WelfareRecord{}).
		Where("welfare_records.user_id = ?", userID)

	if q.Status != "" {
		db = db.Where("welfare_records.status = ?", q.Status)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		db = db.Where(
			"welfare_records.order_number ILIKE ? OR welfare_records.correction_details ILIKE ?",
			pattern, pattern,
		)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []WelfareRecord
	err := db.
		Preload("ItemType").
		Preload("Department").
		Order("welfare_records.created_at DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&records).Error
	return records, total, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*WelfareRecord, error) {
	var rec WelfareRecord
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("ItemType").
		Preload("Department").
		Preload("StatusLogs", func(db *gorm.DB) *gorm.DB {
			return db.Order("status_logs.timestamp DESC")
		}).
		Preload("StatusLogs.ProcessedBy").
		First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *repository) FindExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	var found []string
	err := r.db.WithContext(ctx).
		Model(&WelfareRecord{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	return found, err
}

func (r *repository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&WelfareRecord{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) UpdateStatusBulk(ctx context.Context, ids []string, status string) error {
	return r.db.WithContext(ctx).
		Model(&WelfareRecord{}).
		Where("id IN ?", ids).
		Update("status", status).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&WelfareRecord{}, "id = ?", id).Error
}

// CountByStatus counts the caller-visible rows; an empty status counts all
// of them.
func (r *repository) CountByStatus(ctx context.Context, scope Scope, status string) (int64, error) {
	db := applyScope(r.db.WithContext(ctx).Model(&WelfareRecord{}), scope)
	if status != "" {
		db = db.Where("welfare_records.status = ?", status)
	}

	var count int64
	err := db.Count(&count).Error
	return count, err
}

func (r *repository) ItemTypeExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("item_types").
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// UserDepartment resolves the department a record inherits when an admin
// creates it on someone's behalf.
func (r *repository) UserDepartment(ctx context.Context, userID string) (string, error) {
	var departmentID string
	err := r.db.WithContext(ctx).
		Table("users").
		Select("department_id").
		Where("id = ?", userID).
		Take(&departmentID).Error
	return departmentID, err
}

func (r *repository) DepartmentExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("departments").
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}
