package welfarerecord

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-welfare/internal/shared/cache"
	"go-welfare/internal/shared/contextutil"
	"go-welfare/internal/statuslog"
	welfarerecorderrors "go-welfare/internal/welfarerecord/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	listCacheTTL  = time.Minute
	itemCacheTTL  = time.Minute
	statsCacheTTL = time.Minute

	dateLayout = "2006-01-02"
)

type listPayload struct {
	Items []RecordResponse `json:"items"`
	Total int64            `json:"total"`
}

type Service interface {
	List(ctx context.Context, caller contextutil.Identity, q ListRecordsQuery) ([]RecordResponse, int64, error)
	ListMine(ctx context.Context, caller contextutil.Identity, q MyRecordsQuery) ([]RecordResponse, int64, error)
	GetByID(ctx context.Context, caller contextutil.Identity, id string) (RecordResponse, error)
	Create(ctx context.Context, caller contextutil.Identity, req CreateRecordRequest) (RecordResponse, error)
	Update(ctx context.Context, caller contextutil.Identity, id string, req UpdateRecordRequest) (RecordResponse, error)
	Delete(ctx context.Context, caller contextutil.Identity, id string) error
	BulkUpdateStatus(ctx context.Context, caller contextutil.Identity, req BulkUpdateStatusRequest) (int, error)
	Stats(ctx context.Context, caller contextutil.Identity) (StatsResponse, error)
}

type service struct {
	db      *gorm.DB
	repo    Repository
	logRepo statuslog.Repository
	cache   *cache.Gateway
	logger  *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, logRepo statuslog.Repository, cacheGW *cache.Gateway, logger ...*zap.Logger) Service {
	l := zap.L().Named("welfarerecord.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("welfarerecord.service")
	}
	return &service{db: db, repo: repo, logRepo: logRepo, cache: cacheGW, logger: l}
}

// scopeFor translates the caller into the row-visibility restriction.
func scopeFor(caller contextutil.Identity) Scope {
	if caller.IsAdmin() {
		return Scope{All: true}
	}
	return Scope{UserID: caller.UserID, DepartmentID: caller.DepartmentID}
}

// Cache keys carry the scope segments so two non-admin callers with
// different visibility never share an entry.
func listKey(scope Scope, q ListRecordsQuery) string {
	cancelled := ""
	if q.IsCancelled != nil {
		cancelled = strconv.FormatBool(*q.IsCancelled)
	}
	return cache.Key("welfare-records",
		scope.UserID, scope.DepartmentID,
		q.UserID, q.DepartmentID, q.ItemTypeID, q.Status, cancelled,
		q.FromDate, q.ToDate, q.Search,
		strconv.Itoa(q.Page), strconv.Itoa(q.Limit),
	)
}

func myListKey(userID string, q MyRecordsQuery) string {
	return cache.Key("welfare-records", "my", userID, q.Search, q.Status, strconv.Itoa(q.Page), strconv.Itoa(q.Limit))
}

func itemKey(id string) string {
	return cache.Key("welfare-record", id)
}

func statsKey(scope Scope) string {
	return cache.Key("welfare-stats", scope.UserID, scope.DepartmentID)
}

func (s *service) invalidateLists(ctx context.Context) {
	s.cache.DeleteByPattern(ctx, cache.Pattern("welfare-records"))
	s.cache.DeleteByPattern(ctx, cache.Pattern("welfare-stats"))
}

func (s *service) invalidateRecord(ctx context.Context, id string) {
	s.cache.Delete(ctx, itemKey(id))
	s.cache.DeleteByPattern(ctx, cache.Pattern("status-logs:"+id))
}

func (s *service) List(ctx context.Context, caller contextutil.Identity, q ListRecordsQuery) ([]RecordResponse, int64, error) {
	scope := scopeFor(caller)

	key := listKey(scope, q)
	var cached listPayload
	if s.cache.Get(ctx, key, &cached) {
		return cached.Items, cached.Total, nil
	}

	records, total, err := s.repo.FindAll(ctx, scope, q)
	if err != nil {
		s.logger.Error("list welfare records failed", zap.Error(err))
		return nil, 0, err
	}

	items := make([]RecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, mapToResponse(rec))
	}
	s.cache.Set(ctx, key, listPayload{Items: items, Total: total}, listCacheTTL)

	return items, total, nil
}

func (s *service) ListMine(ctx context.Context, caller contextutil.Identity, q MyRecordsQuery) ([]RecordResponse, int64, error) {
	key := myListKey(caller.UserID, q)
	var cached listPayload
	if s.cache.Get(ctx, key, &cached) {
		return cached.Items, cached.Total, nil
	}

	records, total, err := s.repo.FindMine(ctx, caller.UserID, q)
	if err != nil {
		s.logger.Error("list own welfare records failed", zap.String("user_id", caller.UserID), zap.Error(err))
		return nil, 0, err
	}

	items := make([]RecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, mapToResponse(rec))
	}
	s.cache.Set(ctx, key, listPayload{Items: items, Total: total}, listCacheTTL)

	return items, total, nil
}

// canAccess is the self-or-department-or-admin rule. A false result maps to
// Forbidden, deliberately distinct from NotFound.
func canAccess(caller contextutil.Identity, rec *WelfareRecord) bool {
	if caller.IsAdmin() {
		return true
	}
	return caller.UserID == rec.UserID.String() || caller.DepartmentID == rec.DepartmentID.String()
}

func canAccessResponse(caller contextutil.Identity, resp RecordResponse) bool {
	if caller.IsAdmin() {
		return true
	}
	return caller.UserID == resp.UserID || caller.DepartmentID == resp.DepartmentID
}

func (s *service) GetByID(ctx context.Context, caller contextutil.Identity, id string) (RecordResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RecordResponse{}, welfarerecorderrors.ErrInvalidRecordID
	}

	// the cached response carries userId and departmentId, so the access
	// check works on a hit without touching the store
	key := itemKey(id)
	var cached RecordResponse
	if s.cache.Get(ctx, key, &cached) {
		if !canAccessResponse(caller, cached) {
			return RecordResponse{}, welfarerecorderrors.ErrForbiddenRecordAccess
		}
		return cached, nil
	}

	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RecordResponse{}, welfarerecorderrors.ErrRecordNotFound
		}
		s.logger.Error("get welfare record failed", zap.String("record_id", id), zap.Error(err))
		return RecordResponse{}, err
	}

	if !canAccess(caller, rec) {
		return RecordResponse{}, welfarerecorderrors.ErrForbiddenRecordAccess
	}

	resp := mapToResponse(*rec)
	s.cache.Set(ctx, key, resp, itemCacheTTL)

	return resp, nil
}

func (s *service) Create(ctx context.Context, caller contextutil.Identity, req CreateRecordRequest) (RecordResponse, error) {
	targetUserID := req.UserID
	if targetUserID == "" {
		targetUserID = caller.UserID
	}
	if !caller.IsAdmin() && targetUserID != caller.UserID {
		return RecordResponse{}, welfarerecorderrors.ErrForbiddenCreateForOther
	}

	status := StatusPending
	if caller.IsAdmin() && req.Status != "" {
		status = req.Status
	}

	recordDate := time.Now()
	if req.RecordDate != "" {
		parsed, err := time.Parse(dateLayout, req.RecordDate)
		if err != nil {
			return RecordResponse{}, welfarerecorderrors.ErrInvalidDate
		}
		recordDate = parsed
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("create welfare record begin tx failed", zap.Error(tx.Error))
		return RecordResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qlog := s.logRepo.WithTx(tx)

	itemTypeExists, err := qtx.ItemTypeExists(ctx, req.ItemTypeID)
	if err != nil {
		return RecordResponse{}, err
	}
	if !itemTypeExists {
		return RecordResponse{}, welfarerecorderrors.ErrUnknownItemType
	}

	departmentID := req.DepartmentID
	switch {
	case departmentID != "":
		exists, err := qtx.DepartmentExists(ctx, departmentID)
		if err != nil {
			return RecordResponse{}, err
		}
		if !exists {
			return RecordResponse{}, welfarerecorderrors.ErrUnknownDepartment
		}
	case targetUserID == caller.UserID:
		departmentID = caller.DepartmentID
	default:
		// admin on-behalf creation inherits the target user's department
		departmentID, err = qtx.UserDepartment(ctx, targetUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return RecordResponse{}, welfarerecorderrors.ErrUnknownUser
			}
			return RecordResponse{}, err
		}
	}

	rec := &WelfareRecord{
		ID:                uuid.New(),
		OrderNumber:       req.OrderNumber,
		CorrectionDetails: req.CorrectionDetails,
		Amount:            req.Amount,
		RecordDate:        recordDate,
		Status:            status,
		UserID:            uuid.MustParse(targetUserID),
		ItemTypeID:        uuid.MustParse(req.ItemTypeID),
		DepartmentID:      uuid.MustParse(departmentID),
	}
	if req.DepartureDate != nil {
		parsed, err := time.Parse(dateLayout, *req.DepartureDate)
		if err == nil {
			rec.DepartureDate = &parsed
		}
	}
	if req.ReturnDate != nil {
		parsed, err := time.Parse(dateLayout, *req.ReturnDate)
		if err == nil {
			rec.ReturnDate = &parsed
		}
	}

	if err := qtx.Create(ctx, rec); err != nil {
		s.logger.Error("create welfare record persist failed", zap.Error(err))
		return RecordResponse{}, mapRepositoryError(err)
	}

	initialLog := &statuslog.StatusLog{
		ID:              uuid.New(),
		WelfareRecordID: rec.ID,
		Status:          status,
		Notes:           "record created",
		ProcessedByID:   uuid.MustParse(caller.UserID),
		Timestamp:       time.Now(),
	}
	if err := qlog.Create(ctx, initialLog); err != nil {
		s.logger.Error("initial status log persist failed", zap.String("record_id", rec.ID.String()), zap.Error(err))
		return RecordResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("create welfare record commit failed", zap.Error(err))
		return RecordResponse{}, err
	}

	s.invalidateLists(ctx)
	s.logger.Info("create welfare record success",
		zap.String("record_id", rec.ID.String()),
		zap.String("user_id", targetUserID),
		zap.Float64("amount", req.Amount),
	)

	return mapToResponse(*rec), nil
}

// adminOnlyPatch reports whether the patch touches fields reserved for
// administrators.
func adminOnlyPatch(req UpdateRecordRequest) bool {
	return req.OrderNumber != nil ||
		req.Amount != nil ||
		req.RecordDate != nil ||
		req.IsCancelled != nil ||
		req.DepartureDate != nil ||
		req.ReturnDate != nil ||
		req.ItemTypeID != nil ||
		req.DepartmentID != nil
}

func (s *service) Update(ctx context.Context, caller contextutil.Identity, id string, req UpdateRecordRequest) (RecordResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RecordResponse{}, welfarerecorderrors.ErrInvalidRecordID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("update welfare record begin tx failed", zap.Error(tx.Error))
		return RecordResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qlog := s.logRepo.WithTx(tx)

	rec, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RecordResponse{}, welfarerecorderrors.ErrRecordNotFound
		}
		return RecordResponse{}, err
	}

	if !canAccess(caller, rec) {
		return RecordResponse{}, welfarerecorderrors.ErrForbiddenRecordAccess
	}
	if !caller.IsAdmin() && adminOnlyPatch(req) {
		return RecordResponse{}, welfarerecorderrors.ErrForbiddenRecordFields
	}

	fields := map[string]interface{}{}

	if req.OrderNumber != nil {
		fields["order_number"] = *req.OrderNumber
	}
	if req.CorrectionDetails != nil {
		fields["correction_details"] = *req.CorrectionDetails
	}
	if req.Amount != nil {
		fields["amount"] = *req.Amount
	}
	if req.RecordDate != nil {
		parsed, err := time.Parse(dateLayout, *req.RecordDate)
		if err != nil {
			return RecordResponse{}, welfarerecorderrors.ErrInvalidDate
		}
		fields["record_date"] = parsed
	}
	if req.IsCancelled != nil {
		fields["is_cancelled"] = *req.IsCancelled
	}
	if req.DepartureDate != nil {
		parsed, err := time.Parse(dateLayout, *req.DepartureDate)
		if err == nil {
			fields["departure_date"] = parsed
		}
	}
	if req.ReturnDate != nil {
		parsed, err := time.Parse(dateLayout, *req.ReturnDate)
		if err == nil {
			fields["return_date"] = parsed
		}
	}
	if req.ItemTypeID != nil {
		exists, err := qtx.ItemTypeExists(ctx, *req.ItemTypeID)
		if err != nil {
			return RecordResponse{}, err
		}
		if !exists {
			return RecordResponse{}, welfarerecorderrors.ErrUnknownItemType
		}
		fields["item_type_id"] = *req.ItemTypeID
	}
	if req.DepartmentID != nil {
		exists, err := qtx.DepartmentExists(ctx, *req.DepartmentID)
		if err != nil {
			return RecordResponse{}, err
		}
		if !exists {
			return RecordResponse{}, welfarerecorderrors.ErrUnknownDepartment
		}
		fields["department_id"] = *req.DepartmentID
	}

	statusChanged := req.Status != nil && *req.Status != rec.Status
	if statusChanged {
		fields["status"] = *req.Status
	}

	if len(fields) == 0 {
		return RecordResponse{}, welfarerecorderrors.ErrNothingToUpdate
	}

	if err := qtx.UpdateFields(ctx, id, fields); err != nil {
		s.logger.Error("update welfare record persist failed", zap.String("record_id", id), zap.Error(err))
		return RecordResponse{}, mapRepositoryError(err)
	}

	if statusChanged {
		notes := fmt.Sprintf("status changed from %s to %s", rec.Status, *req.Status)
		if req.StatusNote != nil && *req.StatusNote != "" {
			notes = *req.StatusNote
		}
		entry := &statuslog.StatusLog{
			ID:              uuid.New(),
			WelfareRecordID: rec.ID,
			Status:          *req.Status,
			Notes:           notes,
			ProcessedByID:   uuid.MustParse(caller.UserID),
			Timestamp:       time.Now(),
		}
		if err := qlog.Create(ctx, entry); err != nil {
			s.logger.Error("status change log persist failed", zap.String("record_id", id), zap.Error(err))
			return RecordResponse{}, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("update welfare record commit failed", zap.String("record_id", id), zap.Error(err))
		return RecordResponse{}, err
	}

	s.invalidateRecord(ctx, id)
	s.invalidateLists(ctx)
	s.logger.Info("update welfare record success",
		zap.String("record_id", id),
		zap.Bool("status_changed", statusChanged),
	)

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("reload after update failed", zap.String("record_id", id), zap.Error(err))
		return RecordResponse{}, err
	}

	return mapToResponse(*updated), nil
}

func (s *service) Delete(ctx context.Context, caller contextutil.Identity, id string) error {
	if !caller.IsAdmin() {
		return welfarerecorderrors.ErrForbiddenRecordAccess
	}
	if _, err := uuid.Parse(id); err != nil {
		return welfarerecorderrors.ErrInvalidRecordID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("delete welfare record begin tx failed", zap.Error(tx.Error))
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qlog := s.logRepo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return welfarerecorderrors.ErrRecordNotFound
		}
		return err
	}

	// history rows go first so the record delete never trips the FK
	if err := qlog.DeleteByRecord(ctx, id); err != nil {
		s.logger.Error("cascade status log delete failed", zap.String("record_id", id), zap.Error(err))
		return err
	}
	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete welfare record failed", zap.String("record_id", id), zap.Error(err))
		return err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("delete welfare record commit failed", zap.String("record_id", id), zap.Error(err))
		return err
	}

	s.invalidateRecord(ctx, id)
	s.invalidateLists(ctx)
	s.logger.Info("delete welfare record success", zap.String("record_id", id))

	return nil
}

// BulkUpdateStatus verifies every id before touching anything, then applies
// the status change and the per-record history entries in one transaction.
func (s *service) BulkUpdateStatus(ctx context.Context, caller contextutil.Identity, req BulkUpdateStatusRequest) (int, error) {
	if !caller.IsAdmin() {
		return 0, welfarerecorderrors.ErrForbiddenRecordAccess
	}

	seen := make(map[string]struct{}, len(req.IDs))
	ids := make([]string, 0, len(req.IDs))
	for _, id := range req.IDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	existing, err := s.repo.FindExistingIDs(ctx, ids)
	if err != nil {
		s.logger.Error("bulk update existence check failed", zap.Error(err))
		return 0, err
	}
	if len(existing) != len(ids) {
		return 0, welfarerecorderrors.ErrSomeRecordsNotFound
	}

	notes := req.Notes
	if notes == "" {
		notes = fmt.Sprintf("status changed to %s (bulk update)", req.Status)
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("bulk update begin tx failed", zap.Error(tx.Error))
		return 0, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qlog := s.logRepo.WithTx(tx)

	if err := qtx.UpdateStatusBulk(ctx, ids, req.Status); err != nil {
		s.logger.Error("bulk status update failed", zap.Error(err))
		return 0, err
	}

	now := time.Now()
	logs := make([]statuslog.StatusLog, 0, len(ids))
	for _, id := range ids {
		logs = append(logs, statuslog.StatusLog{
			ID:              uuid.New(),
			WelfareRecordID: uuid.MustParse(id),
			Status:          req.Status,
			Notes:           notes,
			ProcessedByID:   uuid.MustParse(caller.UserID),
			Timestamp:       now,
		})
	}
	if err := qlog.CreateBatch(ctx, logs); err != nil {
		s.logger.Error("bulk status log persist failed", zap.Error(err))
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("bulk update commit failed", zap.Error(err))
		return 0, err
	}

	for _, id := range ids {
		s.invalidateRecord(ctx, id)
	}
	s.invalidateLists(ctx)
	s.logger.Info("bulk status update success",
		zap.Int("count", len(ids)),
		zap.String("status", req.Status),
	)

	return len(ids), nil
}

func (s *service) Stats(ctx context.Context, caller contextutil.Identity) (StatsResponse, error) {
	scope := scopeFor(caller)

	key := statsKey(scope)
	var cached StatsResponse
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	var stats StatsResponse
	var err error
	if stats.Total, err = s.repo.CountByStatus(ctx, scope, ""); err != nil {
		s.logger.Error("stats count failed", zap.Error(err))
		return StatsResponse{}, err
	}
	if stats.Pending, err = s.repo.CountByStatus(ctx, scope, StatusPending); err != nil {
		return StatsResponse{}, err
	}
	if stats.Approved, err = s.repo.CountByStatus(ctx, scope, StatusApproved); err != nil {
		return StatsResponse{}, err
	}
	if stats.Rejected, err = s.repo.CountByStatus(ctx, scope, StatusRejected); err != nil {
		return StatsResponse{}, err
	}

	s.cache.Set(ctx, key, stats, statsCacheTTL)

	return stats, nil
}

func mapToResponse(rec WelfareRecord) RecordResponse {
	resp := RecordResponse{
		ID:                rec.ID.String(),
		OrderNumber:       rec.OrderNumber,
		CorrectionDetails: rec.CorrectionDetails,
		Amount:            rec.Amount,
		RecordDate:        rec.RecordDate.Format(dateLayout),
		Status:            rec.Status,
		IsCancelled:       rec.IsCancelled,
		UserID:            rec.UserID.String(),
		ItemTypeID:        rec.ItemTypeID.String(),
		DepartmentID:      rec.DepartmentID.String(),
		CreatedAt:         rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         rec.UpdatedAt.Format(time.RFC3339),
	}
	if rec.DepartureDate != nil {
		d := rec.DepartureDate.Format(dateLayout)
		resp.DepartureDate = &d
	}
	if rec.ReturnDate != nil {
		d := rec.ReturnDate.Format(dateLayout)
		resp.ReturnDate = &d
	}
	resp.User = userRef(rec.User)
	if rec.ItemType != nil {
		resp.ItemType = &NamedRef{ID: rec.ItemType.ID.String(), Name: rec.ItemType.Name}
	}
	if rec.Department != nil {
		resp.Department = &NamedRef{ID: rec.Department.ID.String(), Name: rec.Department.Name}
	}
	if len(rec.StatusLogs) > 0 {
		resp.StatusLogs = make([]statuslog.StatusLogResponse, 0, len(rec.StatusLogs))
		for _, log := range rec.StatusLogs {
			resp.StatusLogs = append(resp.StatusLogs, statuslog.MapToResponse(log))
		}
	}
	return resp
}
