package department

import (
	"context"
	"errors"
	"strconv"
	"time"

	departmenterrors "go-welfare/internal/department/errors"
	"go-welfare/internal/shared/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	listCacheTTL = 5 * time.Minute
	itemCacheTTL = 5 * time.Minute
)

type listPayload struct {
	Items []DepartmentResponse `json:"items"`
	Total int64                `json:"total"`
}

type Service interface {
	List(ctx context.Context, q ListDepartmentsQuery) ([]DepartmentResponse, int64, error)
	GetByID(ctx context.Context, id string) (DepartmentResponse, error)
	Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error)
	Update(ctx context.Context, id string, req UpdateDepartmentRequest) (DepartmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	cache  *cache.Gateway
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, cacheGW *cache.Gateway, logger ...*zap.Logger) Service {
	l := zap.L().Named("department.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("department.service")
	}
	return &service{db: db, repo: repo, cache: cacheGW, logger: l}
}

func listKey(q ListDepartmentsQuery) string {
	return cache.Key("departments", q.Search, strconv.Itoa(q.Page), strconv.Itoa(q.Limit))
}

func itemKey(id string) string {
	return cache.Key("department", id)
}

func (s *service) invalidate(ctx context.Context, id string) {
	if id != "" {
		s.cache.Delete(ctx, itemKey(id))
	}
	s.cache.DeleteByPattern(ctx, cache.Pattern("departments"))
}

func (s *service) List(ctx context.Context, q ListDepartmentsQuery) ([]DepartmentResponse, int64, error) {
	key := listKey(q)
	var cached listPayload
	if s.cache.Get(ctx, key, &cached) {
		return cached.Items, cached.Total, nil
	}

	depts, total, err := s.repo.FindAll(ctx, q)
	if err != nil {
		s.logger.Error("list departments failed", zap.Error(err))
		return nil, 0, err
	}

	items := mapToListResponse(depts)
	s.cache.Set(ctx, key, listPayload{Items: items, Total: total}, listCacheTTL)

	return items, total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (DepartmentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DepartmentResponse{}, departmenterrors.ErrInvalidDepartmentID
	}

	key := itemKey(id)
	var cached DepartmentResponse
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	dept, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentResponse{}, departmenterrors.ErrDepartmentNotFound
		}
		s.logger.Error("get department failed", zap.String("department_id", id), zap.Error(err))
		return DepartmentResponse{}, err
	}

	resp := mapToResponse(*dept)
	s.cache.Set(ctx, key, resp, itemCacheTTL)

	return resp, nil
}

func (s *service) Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error) {
	s.logger.Debug("create department requested", zap.String("name", req.Name))

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("create department begin tx failed", zap.Error(tx.Error))
		return DepartmentResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.NameExists(ctx, req.Name, "")
	if err != nil {
		return DepartmentResponse{}, err
	}
	if exists {
		return DepartmentResponse{}, departmenterrors.ErrDepartmentNameExists
	}

	dept := &Department{
		ID:   uuid.New(),
		Name: req.Name,
	}
	if err := qtx.Create(ctx, dept); err != nil {
		s.logger.Error("create department persist failed", zap.Error(err))
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("create department commit failed", zap.Error(err))
		return DepartmentResponse{}, err
	}

	s.invalidate(ctx, "")
	s.logger.Info("create department success", zap.String("department_id", dept.ID.String()))

	return mapToResponse(*dept), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateDepartmentRequest) (DepartmentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DepartmentResponse{}, departmenterrors.ErrInvalidDepartmentID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("update department begin tx failed", zap.Error(tx.Error))
		return DepartmentResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	dept, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentResponse{}, departmenterrors.ErrDepartmentNotFound
		}
		return DepartmentResponse{}, err
	}

	if req.Name != dept.Name {
		exists, err := qtx.NameExists(ctx, req.Name, id)
		if err != nil {
			return DepartmentResponse{}, err
		}
		if exists {
			return DepartmentResponse{}, departmenterrors.ErrDepartmentNameExists
		}
	}

	dept.Name = req.Name
	if err := qtx.Update(ctx, dept); err != nil {
		s.logger.Error("update department persist failed", zap.String("department_id", id), zap.Error(err))
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("update department commit failed", zap.String("department_id", id), zap.Error(err))
		return DepartmentResponse{}, err
	}

	s.invalidate(ctx, id)
	s.logger.Info("update department success", zap.String("department_id", id))

	return mapToResponse(*dept), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return departmenterrors.ErrInvalidDepartmentID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("delete department begin tx failed", zap.Error(tx.Error))
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return departmenterrors.ErrDepartmentNotFound
		}
		return err
	}

	hasUsers, err := qtx.HasUsers(ctx, id)
	if err != nil {
		return err
	}
	if hasUsers {
		return departmenterrors.ErrDepartmentHasUsers
	}

	hasRecords, err := qtx.HasWelfareRecords(ctx, id)
	if err != nil {
		return err
	}
	if hasRecords {
		return departmenterrors.ErrDepartmentHasRecords
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete department failed", zap.String("department_id", id), zap.Error(err))
		return err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("delete department commit failed", zap.String("department_id", id), zap.Error(err))
		return err
	}

	s.invalidate(ctx, id)
	s.logger.Info("delete department success", zap.String("department_id", id))

	return nil
}

func mapToResponse(dept Department) DepartmentResponse {
	return DepartmentResponse{
		ID:        dept.ID.String(),
		Name:      dept.Name,
		CreatedAt: dept.CreatedAt.Format(time.RFC3339),
		UpdatedAt: dept.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(depts []Department) []DepartmentResponse {
	res := make([]DepartmentResponse, len(depts))
	for i, d := range depts {
		res[i] = mapToResponse(d)
	}
	return res
}
