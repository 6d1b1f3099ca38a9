package statuslog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-welfare/internal/shared/cache"
	"go-welfare/internal/shared/contextutil"
	statuslogerrors "go-welfare/internal/statuslog/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const listCacheTTL = 5 * time.Minute

type listPayload struct {
	Items []StatusLogResponse `json:"items"`
	Total int64               `json:"total"`
}

type Service interface {
	List(ctx context.Context, caller contextutil.Identity, recordID string, q ListStatusLogsQuery) ([]StatusLogResponse, int64, error)
	Create(ctx context.Context, caller contextutil.Identity, recordID string, req CreateStatusLogRequest) (StatusLogResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	cache  *cache.Gateway
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, cacheGW *cache.Gateway, logger ...*zap.Logger) Service {
	l := zap.L().Named("statuslog.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("statuslog.service")
	}
	return &service{db: db, repo: repo, cache: cacheGW, logger: l}
}

func listKey(recordID string, q ListStatusLogsQuery) string {
	return cache.Key("status-logs", recordID, q.ProcessedByID, q.Status, q.FromDate, q.ToDate, strconv.Itoa(q.Page), strconv.Itoa(q.Limit))
}

func (s *service) invalidate(ctx context.Context, recordID string) {
	s.cache.Delete(ctx, cache.Key("welfare-record", recordID))
	s.cache.DeleteByPattern(ctx, cache.Pattern("status-logs:"+recordID))
	s.cache.DeleteByPattern(ctx, cache.Pattern("welfare-records"))
	s.cache.DeleteByPattern(ctx, cache.Pattern("welfare-stats"))
}

// authorizeRecord resolves the parent record and distinguishes an absent
// record (404) from one the caller is not allowed to see (403).
func (s *service) authorizeRecord(ctx context.Context, caller contextutil.Identity, recordID string) (RecordAccess, error) {
	if _, err := uuid.Parse(recordID); err != nil {
		return RecordAccess{}, statuslogerrors.ErrInvalidRecordID
	}

	access, err := s.repo.FindRecordAccess(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RecordAccess{}, statuslogerrors.ErrRecordNotFound
		}
		s.logger.Error("record access lookup failed", zap.String("record_id", recordID), zap.Error(err))
		return RecordAccess{}, err
	}

	if !caller.IsAdmin() && caller.UserID != access.UserID && caller.DepartmentID != access.DepartmentID {
		return RecordAccess{}, statuslogerrors.ErrForbiddenRecordAccess
	}

	return access, nil
}

func (s *service) List(ctx context.Context, caller contextutil.Identity, recordID string, q ListStatusLogsQuery) ([]StatusLogResponse, int64, error) {
	if _, err := s.authorizeRecord(ctx, caller, recordID); err != nil {
		return nil, 0, err
	}

	key := listKey(recordID, q)
	var cached listPayload
	if s.cache.Get(ctx, key, &cached) {
		return cached.Items, cached.Total, nil
	}

	logs, total, err := s.repo.FindByRecord(ctx, recordID, q)
	if err != nil {
		s.logger.Error("list status logs failed", zap.String("record_id", recordID), zap.Error(err))
		return nil, 0, err
	}

	items := make([]StatusLogResponse, 0, len(logs))
	for _, log := range logs {
		items = append(items, MapToResponse(log))
	}
	s.cache.Set(ctx, key, listPayload{Items: items, Total: total}, listCacheTTL)

	return items, total, nil
}

// Create appends a history entry and moves the parent record to the new
// status in the same transaction.
func (s *service) Create(ctx context.Context, caller contextutil.Identity, recordID string, req CreateStatusLogRequest) (StatusLogResponse, error) {
	if _, err := s.authorizeRecord(ctx, caller, recordID); err != nil {
		return StatusLogResponse{}, err
	}

	notes := req.Notes
	if notes == "" {
		notes = fmt.Sprintf("status changed to %s", req.Status)
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("create status log begin tx failed", zap.Error(tx.Error))
		return StatusLogResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entry := &StatusLog{
		ID:              uuid.New(),
		WelfareRecordID: uuid.MustParse(recordID),
		Status:          req.Status,
		Notes:           notes,
		ProcessedByID:   uuid.MustParse(caller.UserID),
		Timestamp:       time.Now(),
	}
	if err := qtx.Create(ctx, entry); err != nil {
		s.logger.Error("create status log persist failed", zap.String("record_id", recordID), zap.Error(err))
		return StatusLogResponse{}, err
	}

	if err := qtx.UpdateRecordStatus(ctx, recordID, req.Status); err != nil {
		s.logger.Error("record status sync failed", zap.String("record_id", recordID), zap.Error(err))
		return StatusLogResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("create status log commit failed", zap.String("record_id", recordID), zap.Error(err))
		return StatusLogResponse{}, err
	}

	s.invalidate(ctx, recordID)
	s.logger.Info("create status log success",
		zap.String("record_id", recordID),
		zap.String("status", req.Status),
		zap.String("processed_by", caller.UserID),
	)

	return MapToResponse(*entry), nil
}

// MapToResponse is exported because the record package embeds status history
// in its detail responses.
func MapToResponse(log StatusLog) StatusLogResponse {
	resp := StatusLogResponse{
		ID:              log.ID.String(),
		WelfareRecordID: log.WelfareRecordID.String(),
		Status:          log.Status,
		Notes:           log.Notes,
		ProcessedByID:   log.ProcessedByID.String(),
		Timestamp:       log.Timestamp.Format(time.RFC3339),
	}
	if log.ProcessedBy != nil {
		resp.ProcessedBy = &ProcessedByRef{
			ID:   log.ProcessedBy.ID.String(),
			Name: log.ProcessedBy.Name,
		}
	}
	return resp
}
