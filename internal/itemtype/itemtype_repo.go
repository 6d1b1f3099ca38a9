package itemtype

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, it *ItemType) error
	FindAll(ctx context.Context, q ListItemTypesQuery) ([]ItemType, int64, error)
	FindOptions(ctx context.Context) ([]ItemType, error)
	FindByID(ctx context.Context, id string) (*ItemType, error)
	NameExists(ctx context.Context, name string, excludeID string) (bool, error)
	Update(ctx context.Context, it *ItemType) error
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, it *ItemType) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *repository) FindAll(ctx context.Context, q ListItemTypesQuery) ([]ItemType, int64, error) {
	db := r.db.WithContext(ctx).Model(&ItemType{})
	if q.Search != "" {
		db = db.Where("name ILIKE ?", "%"+q.Search+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var types []ItemType
	err := db.
		Order("name ASC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&types).Error
	return types, total, err
}

// FindOptions returns the full unpaginated set for selection dropdowns.
func (r *repository) FindOptions(ctx context.Context) ([]ItemType, error) {
	var types []ItemType
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*ItemType, error) {
	var it ItemType
	err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error
	return &it, err
}

func (r *repository) NameExists(ctx context.Context, name string, excludeID string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&ItemType{}).
		Where("LOWER(name) = LOWER(?)", name)
	if excludeID != "" {
		db = db.Where("id <> ?", excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, it *ItemType) error {
	return r.db.WithContext(ctx).Save(it).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&ItemType{}, "id = ?", id).Error
}

func (r *repository) HasWelfareRecords(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("welfare_records").
		Where("item_type_id = ?", id).
		Count(&count).Error
	return count > 0, err
}
