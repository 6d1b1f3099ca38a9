package user

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go-welfare/internal/shared/cache"
	"go-welfare/internal/shared/contextutil"
	usererrors "go-welfare/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	listCacheTTL = time.Minute
	itemCacheTTL = time.Minute
)

type listPayload struct {
	Items []UserResponse `json:"items"`
	Total int64          `json:"total"`
}

type Service interface {
	List(ctx context.Context, caller contextutil.Identity, q ListUsersQuery) ([]UserResponse, int64, error)
	GetByID(ctx context.Context, caller contextutil.Identity, id string) (UserResponse, error)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	Update(ctx context.Context, caller contextutil.Identity, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	cache  *cache.Gateway
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, cacheGW *cache.Gateway, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{db: db, repo: repo, cache: cacheGW, logger: l}
}

func listKey(q ListUsersQuery) string {
	return cache.Key("users", q.DepartmentID, q.Role, q.Search, strconv.Itoa(q.Page), strconv.Itoa(q.Limit))
}

func itemKey(id string) string {
	return cache.Key("user", id)
}

func (s *service) invalidate(ctx context.Context, id string) {
	if id != "" {
		s.cache.Delete(ctx, itemKey(id))
	}
	s.cache.DeleteByPattern(ctx, cache.Pattern("users"))
}

// List is an administrative directory view. Regular users only ever see
// themselves through GetByID.
func (s *service) List(ctx context.Context, caller contextutil.Identity, q ListUsersQuery) ([]UserResponse, int64, error) {
	if !caller.IsAdmin() {
		return nil, 0, usererrors.ErrForbiddenUserAccess
	}

	key := listKey(q)
	var cached listPayload
	if s.cache.Get(ctx, key, &cached) {
		return cached.Items, cached.Total, nil
	}

	users, total, err := s.repo.FindAll(ctx, q)
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, 0, err
	}

	items := make([]UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, mapToResponse(u))
	}
	s.cache.Set(ctx, key, listPayload{Items: items, Total: total}, listCacheTTL)

	return items, total, nil
}

func (s *service) GetByID(ctx context.Context, caller contextutil.Identity, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	if !caller.IsAdmin() && caller.UserID != id {
		return UserResponse{}, usererrors.ErrForbiddenUserAccess
	}

	key := itemKey(id)
	var cached UserResponse
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		s.logger.Error("get user failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}

	resp := mapToResponse(*u)
	s.cache.Set(ctx, key, resp, itemCacheTTL)

	return resp, nil
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	s.logger.Debug("create user requested", zap.String("email", req.Email))

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("create user begin tx failed", zap.Error(tx.Error))
		return UserResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	deptExists, err := qtx.DepartmentExists(ctx, req.DepartmentID)
	if err != nil {
		return UserResponse{}, err
	}
	if !deptExists {
		return UserResponse{}, usererrors.ErrUnknownDepartment
	}

	emailExists, err := qtx.EmailExists(ctx, req.Email, "")
	if err != nil {
		return UserResponse{}, err
	}
	if emailExists {
		return UserResponse{}, usererrors.ErrEmailExists
	}

	employeeIDExists, err := qtx.EmployeeIDExists(ctx, req.EmployeeID, "")
	if err != nil {
		return UserResponse{}, err
	}
	if employeeIDExists {
		return UserResponse{}, usererrors.ErrEmployeeIDExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("create user hash failed", zap.Error(err))
		return UserResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = contextutil.RoleUser
	}

	u := &User{
		ID:           uuid.New(),
		EmployeeID:   req.EmployeeID,
		Name:         req.Name,
		Email:        req.Email,
		Password:     string(hashed),
		Role:         role,
		DepartmentID: uuid.MustParse(req.DepartmentID),
	}
	if err := qtx.Create(ctx, u); err != nil {
		s.logger.Error("create user persist failed", zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("create user commit failed", zap.Error(err))
		return UserResponse{}, err
	}

	s.invalidate(ctx, "")
	s.logger.Info("create user success", zap.String("user_id", u.ID.String()))

	return mapToResponse(*u), nil
}

func (s *service) Update(ctx context.Context, caller contextutil.Identity, id string, req UpdateUserRequest) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	if !caller.IsAdmin() {
		if caller.UserID != id {
			return UserResponse{}, usererrors.ErrForbiddenUserAccess
		}
		if req.Role != nil || req.DepartmentID != nil {
			return UserResponse{}, usererrors.ErrForbiddenUserFields
		}
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("update user begin tx failed", zap.Error(tx.Error))
		return UserResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	if req.Email != nil && *req.Email != u.Email {
		exists, err := qtx.EmailExists(ctx, *req.Email, id)
		if err != nil {
			return UserResponse{}, err
		}
		if exists {
			return UserResponse{}, usererrors.ErrEmailExists
		}
		u.Email = *req.Email
	}

	if req.Name != nil {
		u.Name = *req.Name
	}

	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("update user hash failed", zap.Error(err))
			return UserResponse{}, err
		}
		u.Password = string(hashed)
	}

	if req.Role != nil {
		u.Role = *req.Role
	}

	if req.DepartmentID != nil {
		exists, err := qtx.DepartmentExists(ctx, *req.DepartmentID)
		if err != nil {
			return UserResponse{}, err
		}
		if !exists {
			return UserResponse{}, usererrors.ErrUnknownDepartment
		}
		u.DepartmentID = uuid.MustParse(*req.DepartmentID)
		u.Department = nil
	}

	if err := qtx.Update(ctx, u); err != nil {
		s.logger.Error("update user persist failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("update user commit failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}

	s.invalidate(ctx, id)
	s.logger.Info("update user success", zap.String("user_id", id))

	return mapToResponse(*u), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return usererrors.ErrInvalidUserID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("delete user begin tx failed", zap.Error(tx.Error))
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrUserNotFound
		}
		return err
	}

	hasRecords, err := qtx.HasWelfareRecords(ctx, id)
	if err != nil {
		return err
	}
	if hasRecords {
		return usererrors.ErrUserHasRecords
	}

	hasProcessed, err := qtx.HasProcessedStatusLogs(ctx, id)
	if err != nil {
		return err
	}
	if hasProcessed {
		return usererrors.ErrUserHasProcessedLogs
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete user failed", zap.String("user_id", id), zap.Error(err))
		return err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("delete user commit failed", zap.String("user_id", id), zap.Error(err))
		return err
	}

	s.invalidate(ctx, id)
	s.logger.Info("delete user success", zap.String("user_id", id))

	return nil
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:           u.ID.String(),
		EmployeeID:   u.EmployeeID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		DepartmentID: u.DepartmentID.String(),
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    u.UpdatedAt.Format(time.RFC3339),
	}
	if u.Department != nil {
		resp.Department = &DepartmentRef{
			ID:   u.Department.ID.String(),
			Name: u.Department.Name,
		}
	}
	return resp
}
