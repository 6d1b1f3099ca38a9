package statuslog

import (
	"context"

	"gorm.io/gorm"
)

// RecordAccess is the ownership triple of a welfare record, loaded without
// importing the record package.
type RecordAccess struct {
	UserID       string
	DepartmentID string
	IsCancelled  bool
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, log *StatusLog) error
	CreateBatch(ctx context.Context, logs []StatusLog) error
	FindByRecord(ctx context.Context, recordID string, q ListStatusLogsQuery) ([]StatusLog, int64, error)
	DeleteByRecord(ctx context.Context, recordID string) error
	FindRecordAccess(ctx context.Context, recordID string) (RecordAccess, error)
	UpdateRecordStatus(ctx context.Context, recordID string, status string) error
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

func (r *repository) Create(ctx context.Context, log *StatusLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) CreateBatch(ctx context.Context, logs []StatusLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&logs).Error
}

func (r *repository) FindByRecord(ctx context.Context, recordID string, q ListStatusLogsQuery) ([]StatusLog, int64, error) {
	db := r.db.WithContext(ctx).
		Model(&StatusLog{}).
		Where("welfare_record_id = ?", recordID)
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.ProcessedByID != "" {
		db = db.Where("processed_by_id = ?", q.ProcessedByID)
	}
	if q.FromDate != "" {
		db = db.Where("timestamp >= ?", q.FromDate)
	}
	if q.ToDate != "" {
		db = db.Where("timestamp <= ?", q.ToDate)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []StatusLog
	err := db.
		Preload("ProcessedBy").
		Order("timestamp DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&logs).Error
	return logs, total, err
}

func (r *repository) DeleteByRecord(ctx context.Context, recordID string) error {
	return r.db.WithContext(ctx).
		Delete(&StatusLog{}, "welfare_record_id = ?", recordID).Error
}

func (r *repository) FindRecordAccess(ctx context.Context, recordID string) (RecordAccess, error) {
	var access RecordAccess
	err := r.db.WithContext(ctx).
		Table("welfare_records").
		Select("user_id", "department_id", "is_cancelled").
		Where("id = ?", recordID).
		Take(&access).Error
	return access, err
}

func (r *repository) UpdateRecordStatus(ctx context.Context, recordID string, status string) error {
	return r.db.WithContext(ctx).
		Table("welfare_records").
		Where("id = ?", recordID).
		Update("status", status).Error
}
