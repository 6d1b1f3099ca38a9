package itemtype

import (
	"context"
	"errors"
	"strconv"
	"time"

	itemtypeerrors "go-welfare/internal/itemtype/errors"
	"go-welfare/internal/shared/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	listCacheTTL    = 5 * time.Minute
	itemCacheTTL    = 5 * time.Minute
	optionsCacheTTL = time.Hour
	optionsCacheKey = "item-types:all"
)

type listPayload struct {
	Items []ItemTypeResponse `json:"items"`
	Total int64              `json:"total"`
}

type Service interface {
	List(ctx context.Context, q ListItemTypesQuery) ([]ItemTypeResponse, int64, error)
	ListAll(ctx context.Context) ([]ItemTypeResponse, error)
	GetByID(ctx context.Context, id string) (ItemTypeResponse, error)
	Create(ctx context.Context, req CreateItemTypeRequest) (ItemTypeResponse, error)
	Update(ctx context.Context, id string, req UpdateItemTypeRequest) (ItemTypeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	cache  *cache.Gateway
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, cacheGW *cache.Gateway, logger ...*zap.Logger) Service {
	l := zap.L().Named("itemtype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("itemtype.service")
	}
	return &service{db: db, repo: repo, cache: cacheGW, sf: &singleflight.Group{}, logger: l}
}

func listKey(q ListItemTypesQuery) string {
	return cache.Key("item-types", q.Search, strconv.Itoa(q.Page), strconv.Itoa(q.Limit))
}

func itemKey(id string) string {
	return cache.Key("item-type", id)
}

func (s *service) invalidate(ctx context.Context, id string) {
	if id != "" {
		s.cache.Delete(ctx, itemKey(id))
	}
	s.cache.Delete(ctx, optionsCacheKey)
	s.cache.DeleteByPattern(ctx, cache.Pattern("item-types"))
}

func (s *service) List(ctx context.Context, q ListItemTypesQuery) ([]ItemTypeResponse, int64, error) {
	key := listKey(q)
	var cached listPayload
	if s.cache.Get(ctx, key, &cached) {
		return cached.Items, cached.Total, nil
	}

	types, total, err := s.repo.FindAll(ctx, q)
	if err != nil {
		s.logger.Error("list item types failed", zap.Error(err))
		return nil, 0, err
	}

	items := mapToListResponse(types)
	s.cache.Set(ctx, key, listPayload{Items: items, Total: total}, listCacheTTL)

	return items, total, nil
}

// ListAll serves the selection dropdowns. Reference data changes rarely, so
// misses are collapsed with singleflight and the result is cached for an hour.
func (s *service) ListAll(ctx context.Context) ([]ItemTypeResponse, error) {
	var cached []ItemTypeResponse
	if s.cache.Get(ctx, optionsCacheKey, &cached) {
		return cached, nil
	}

	v, err, _ := s.sf.Do(optionsCacheKey, func() (interface{}, error) {
		types, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(types)
		s.cache.Set(ctx, optionsCacheKey, resp, optionsCacheTTL)

		return resp, nil
	})
	if err != nil {
		s.logger.Error("list all item types failed", zap.Error(err))
		return nil, err
	}

	return v.([]ItemTypeResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ItemTypeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ItemTypeResponse{}, itemtypeerrors.ErrInvalidItemTypeID
	}

	key := itemKey(id)
	var cached ItemTypeResponse
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	it, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemTypeResponse{}, itemtypeerrors.ErrItemTypeNotFound
		}
		s.logger.Error("get item type failed", zap.String("item_type_id", id), zap.Error(err))
		return ItemTypeResponse{}, err
	}

	resp := mapToResponse(*it)
	s.cache.Set(ctx, key, resp, itemCacheTTL)

	return resp, nil
}

func (s *service) Create(ctx context.Context, req CreateItemTypeRequest) (ItemTypeResponse, error) {
	s.logger.Debug("create item type requested", zap.String("name", req.Name))

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("create item type begin tx failed", zap.Error(tx.Error))
		return ItemTypeResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.NameExists(ctx, req.Name, "")
	if err != nil {
		return ItemTypeResponse{}, err
	}
	if exists {
		return ItemTypeResponse{}, itemtypeerrors.ErrItemTypeNameExists
	}

	it := &ItemType{
		ID:   uuid.New(),
		Name: req.Name,
	}
	if err := qtx.Create(ctx, it); err != nil {
		s.logger.Error("create item type persist failed", zap.Error(err))
		return ItemTypeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("create item type commit failed", zap.Error(err))
		return ItemTypeResponse{}, err
	}

	s.invalidate(ctx, "")
	s.logger.Info("create item type success", zap.String("item_type_id", it.ID.String()))

	return mapToResponse(*it), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateItemTypeRequest) (ItemTypeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ItemTypeResponse{}, itemtypeerrors.ErrInvalidItemTypeID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("update item type begin tx failed", zap.Error(tx.Error))
		return ItemTypeResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	it, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemTypeResponse{}, itemtypeerrors.ErrItemTypeNotFound
		}
		return ItemTypeResponse{}, err
	}

	if req.Name != it.Name {
		exists, err := qtx.NameExists(ctx, req.Name, id)
		if err != nil {
			return ItemTypeResponse{}, err
		}
		if exists {
			return ItemTypeResponse{}, itemtypeerrors.ErrItemTypeNameExists
		}
	}

	it.Name = req.Name
	if err := qtx.Update(ctx, it); err != nil {
		s.logger.Error("update item type persist failed", zap.String("item_type_id", id), zap.Error(err))
		return ItemTypeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("update item type commit failed", zap.String("item_type_id", id), zap.Error(err))
		return ItemTypeResponse{}, err
	}

	s.invalidate(ctx, id)
	s.logger.Info("update item type success", zap.String("item_type_id", id))

	return mapToResponse(*it), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return itemtypeerrors.ErrInvalidItemTypeID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("delete item type begin tx failed", zap.Error(tx.Error))
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return itemtypeerrors.ErrItemTypeNotFound
		}
		return err
	}

	hasRecords, err := qtx.HasWelfareRecords(ctx, id)
	if err != nil {
		return err
	}
	if hasRecords {
		return itemtypeerrors.ErrItemTypeHasRecords
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete item type failed", zap.String("item_type_id", id), zap.Error(err))
		return err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("delete item type commit failed", zap.String("item_type_id", id), zap.Error(err))
		return err
	}

	s.invalidate(ctx, id)
	s.logger.Info("delete item type success", zap.String("item_type_id", id))

	return nil
}

func mapToResponse(it ItemType) ItemTypeResponse {
	return ItemTypeResponse{
		ID:        it.ID.String(),
		Name:      it.Name,
		CreatedAt: it.CreatedAt.Format(time.RFC3339),
		UpdatedAt: it.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(types []ItemType) []ItemTypeResponse {
	res := make([]ItemTypeResponse, len(types))
	for i, it := range types {
		res[i] = mapToResponse(it)
	}
	return res
}
