package welfarerecord_test

import (
	"context"
	"testing"

	"go-welfare/internal/shared/cache"
	"go-welfare/internal/shared/contextutil"
	"go-welfare/internal/statuslog"
	"go-welfare/internal/welfarerecord"
	welfarerecorderrors "go-welfare/internal/welfarerecord/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeRecordRepository struct {
	withTxFn           func(tx *gorm.DB) welfarerecord.Repository
	createFn           func(ctx context.Context, rec *welfarerecord.WelfareRecord) error
	findAllFn          func(ctx context.Context, scope welfarerecord.Scope, q welfarerecord.ListRecordsQuery) ([]welfarerecord.WelfareRecord, int64, error)
	findMineFn         func(ctx context.Context, userID string, q welfarerecord.MyRecordsQuery) ([]welfarerecord.WelfareRecord, int64, error)
	findByIDFn         func(ctx context.Context, id string) (*welfarerecord.WelfareRecord, error)
	findExistingIDsFn  func(ctx context.Context, ids []string) ([]string, error)
	updateFieldsFn     func(ctx context.Context, id string, fields map[string]interface{}) error
	updateStatusBulkFn func(ctx context.Context, ids []string, status string) error
	deleteFn           func(ctx context.Context, id string) error
	countByStatusFn    func(ctx context.Context, scope welfarerecord.Scope, status string) (int64, error)
	itemTypeExistsFn   func(ctx context.Context, id string) (bool, error)
	userDepartmentFn   func(ctx context.Context, userID string) (string, error)
	departmentExistsFn func(ctx context.Context, id string) (bool, error)
}

func (f *fakeRecordRepository) WithTx(tx *gorm.DB) welfarerecord.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeRecordRepository) Create(ctx context.Context, rec *welfarerecord.WelfareRecord) error {
	if f.createFn != nil {
		return f.createFn(ctx, rec)
	}
	return nil
}

func (f *fakeRecordRepository) FindAll(ctx context.Context, scope welfarerecord.Scope, q welfarerecord.ListRecordsQuery) ([]welfarerecord.WelfareRecord, int64, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, scope, q)
	}
	return nil, 0, nil
}

func (f *fakeRecordRepository) FindMine(ctx context.Context, userID string, q welfarerecord.MyRecordsQuery) ([]welfarerecord.WelfareRecord, int64, error) {
	if f.findMineFn != nil {
		return f.findMineFn(ctx, userID, q)
	}
	return nil, 0, nil
}

func (f *fakeRecordRepository) FindByID(ctx context.Context, id string) (*welfarerecord.WelfareRecord, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRecordRepository) FindExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	if f.findExistingIDsFn != nil {
		return f.findExistingIDsFn(ctx, ids)
	}
	return nil, nil
}

func (f *fakeRecordRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if f.updateFieldsFn != nil {
		return f.updateFieldsFn(ctx, id, fields)
	}
	return nil
}

func (f *fakeRecordRepository) UpdateStatusBulk(ctx context.Context, ids []string, status string) error {
	if f.updateStatusBulkFn != nil {
		return f.updateStatusBulkFn(ctx, ids, status)
	}
	return nil
}

func (f *fakeRecordRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeRecordRepository) CountByStatus(ctx context.Context, scope welfarerecord.Scope, status string) (int64, error) {
	if f.countByStatusFn != nil {
		return f.countByStatusFn(ctx, scope, status)
	}
	return 0, nil
}

func (f *fakeRecordRepository) ItemTypeExists(ctx context.Context, id string) (bool, error) {
	if f.itemTypeExistsFn != nil {
		return f.itemTypeExistsFn(ctx, id)
	}
	return true, nil
}

func (f *fakeRecordRepository) UserDepartment(ctx context.Context, userID string) (string, error) {
	if f.userDepartmentFn != nil {
		return f.userDepartmentFn(ctx, userID)
	}
	return "", gorm.ErrRecordNotFound
}

func (f *fakeRecordRepository) DepartmentExists(ctx context.Context, id string) (bool, error) {
	if f.departmentExistsFn != nil {
		return f.departmentExistsFn(ctx, id)
	}
	return true, nil
}

type fakeLogRepository struct {
	withTxFn             func(tx *gorm.DB) statuslog.Repository
	createFn             func(ctx context.Context, log *statuslog.StatusLog) error
	createBatchFn        func(ctx context.Context, logs []statuslog.StatusLog) error
	deleteByRecordFn     func(ctx context.Context, recordID string) error
	findByRecordFn       func(ctx context.Context, recordID string, q statuslog.ListStatusLogsQuery) ([]statuslog.StatusLog, int64, error)
	findRecordAccessFn   func(ctx context.Context, recordID string) (statuslog.RecordAccess, error)
	updateRecordStatusFn func(ctx context.Context, recordID string, status string) error
}

func (f *fakeLogRepository) WithTx(tx *gorm.DB) statuslog.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLogRepository) Create(ctx context.Context, log *statuslog.StatusLog) error {
	if f.createFn != nil {
		return f.createFn(ctx, log)
	}
	return nil
}

func (f *fakeLogRepository) CreateBatch(ctx context.Context, logs []statuslog.StatusLog) error {
	if f.createBatchFn != nil {
		return f.createBatchFn(ctx, logs)
	}
	return nil
}

func (f *fakeLogRepository) FindByRecord(ctx context.Context, recordID string, q statuslog.ListStatusLogsQuery) ([]statuslog.StatusLog, int64, error) {
	if f.findByRecordFn != nil {
		return f.findByRecordFn(ctx, recordID, q)
	}
	return nil, 0, nil
}

func (f *fakeLogRepository) DeleteByRecord(ctx context.Context, recordID string) error {
	if f.deleteByRecordFn != nil {
		return f.deleteByRecordFn(ctx, recordID)
	}
	return nil
}

func (f *fakeLogRepository) FindRecordAccess(ctx context.Context, recordID string) (statuslog.RecordAccess, error) {
	if f.findRecordAccessFn != nil {
		return f.findRecordAccessFn(ctx, recordID)
	}
	return statuslog.RecordAccess{}, gorm.ErrRecordNotFound
}

func (f *fakeLogRepository) UpdateRecordStatus(ctx context.Context, recordID string, status string) error {
	if f.updateRecordStatusFn != nil {
		return f.updateRecordStatusFn(ctx, recordID, status)
	}
	return nil
}

type recordServiceDeps struct {
	db        *gorm.DB
	sqlMock   sqlmock.Sqlmock
	redisMock redismock.ClientMock
	repo      *fakeRecordRepository
	logRepo   *fakeLogRepository
	service   welfarerecord.Service
}

func setupRecordServiceTest(t *testing.T) *recordServiceDeps {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}), &gorm.Config{})
	assert.NoError(t, err)

	rdb, redisMock := redismock.NewClientMock()
	repo := &fakeRecordRepository{}
	logRepo := &fakeLogRepository{}
	svc := welfarerecord.NewService(db, repo, logRepo, cache.New(rdb))

	return &recordServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		redisMock: redisMock,
		repo:      repo,
		logRepo:   logRepo,
		service:   svc,
	}
}

func adminIdentity() contextutil.Identity {
	return contextutil.Identity{UserID: uuid.New().String(), Role: contextutil.RoleAdmin, DepartmentID: uuid.New().String()}
}

func userIdentity() contextutil.Identity {
	return contextutil.Identity{UserID: uuid.New().String(), Role: contextutil.RoleUser, DepartmentID: uuid.New().String()}
}

func TestRecordService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("self-service defaults to pending and writes one initial log", func(t *testing.T) {
		deps := setupRecordServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.redisMock.ExpectScan(0, "welfare-records:*", 100).SetVal(nil, 0)
		deps.redisMock.ExpectScan(0, "welfare-stats:*", 100).SetVal(nil, 0)

		caller := userIdentity()
		var created *welfarerecord.WelfareRecord
		deps.repo.createFn = func(ctx context.Context, rec *welfarerecord.WelfareRecord) error {
			created = rec
			return nil
		}
		var logs []statuslog.StatusLog
		deps.logRepo.createFn = func(ctx context.Context, log *statuslog.StatusLog) error {
			logs = append(logs, *log)
			return nil
		}

		resp, err := deps.service.Create(ctx, caller, welfarerecord.CreateRecordRequest{
			OrderNumber: "WR-2026-001",
			Amount:      500,
			ItemTypeID:  uuid.New().String(),
		})

		assert.NoError(t, err)
		assert.Equal(t, welfarerecord.StatusPending, resp.Status)
		assert.Equal(t, caller.UserID, resp.UserID)
		assert.Equal(t, caller.DepartmentID, resp.DepartmentID)
		assert.NotNil(t, created)
		assert.Len(t, logs, 1)
		assert.Equal(t, welfarerecord.StatusPending, logs[0].Status)
		assert.Equal(t, "record created", logs[0].Notes)
		assert.Equal(t, caller.UserID, logs[0].ProcessedByID.String())
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("regular user cannot create for someone else", func(t *testing.T) {
		deps := setupRecordServiceTest(t)

		_, err := deps.service.Create(ctx, userIdentity(), welfarerecord.CreateRecordRequest{
			OrderNumber: "WR-2026-002",
			Amount:      100,
			ItemTypeID:  uuid.New().String(),
			UserID:      uuid.New().String(),
		})

		assert.ErrorIs(t, err, welfarerecorderrors.ErrForbiddenCreateForOther)
	})

	t.Run("regular user cannot pick a non-pending initial status", func(t *testing.T) {
		deps := setupRecordServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Create(ctx, userIdentity(), welfarerecord.CreateRecordRequest{
			OrderNumber: "WR-2026-003",
			Amount:      100,
			ItemTypeID:  uuid.New().String(),
			Status:      welfarerecord.StatusApproved,
		})

		assert.NoError(t, err)
		assert.Equal(t, welfarerecord.StatusPending, resp.Status)
	})

	t.Run("unknown item type is rejected", func(t *testing.T) {
		deps := setupRecordServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.itemTypeExistsFn = func(ctx context.Context, id string) (bool, error) { return false, nil }

		_, err := deps.service.Create(ctx, userIdentity(), welfarerecord.CreateRecordRequest{
			OrderNumber: "WR-2026-004",
			Amount:      100,
			ItemTypeID:  uuid.New().String(),
		})

		assert.ErrorIs(t, err, welfarerecorderrors.ErrUnknownItemType)
	})

	t.Run("admin on-behalf creation inherits the target user's department", func(t *testing.T) {
		deps := setupRecordServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		targetUser := uuid.New().String()
		targetDept := uuid.New().String()
		deps.repo.userDepartmentFn = func(ctx context.Context, userID string) (string, error) {
			assert.Equal(t, targetUser, userID)
			return targetDept, nil
		}

		resp, err := deps.service.Create(ctx, adminIdentity(), welfarerecord.CreateRecordRequest{
			OrderNumber: "WR-2026-005",
			Amount:      250,
			ItemTypeID:  uuid.New().String(),
			UserID:      targetUser,
			Status:      welfarerecord.StatusApproved,
		})

		assert.NoError(t, err)
		assert.Equal(t, targetDept, resp.DepartmentID)
		assert.Equal(t, welfarerecord.StatusApproved, resp.Status)
	})
}

func TestRecordService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("non-admin scope reaches the repository", func(t *testing.T) {
		deps := setupRecordServiceTest(t)
		caller := userIdentity()

		deps.repo.findAllFn = func(ctx context.Context, scope welfarerecord.Scope, q welfarerecord.ListRecordsQuery) ([]welfarerecord.WelfareRecord, int64, error) {
			assert.False(t, scope.All)
			assert.Equal(t, caller.UserID, scope.UserID)
			assert.Equal(t, caller.DepartmentID, scope.DepartmentID)
			return nil, 0, nil
		}

		_, _, err := deps.service.List(ctx, caller, welfarerecord.ListRecordsQuery{Page: 1, Limit: 10})

		assert.NoError(t, err)
	})

	t.Run("admin scope lifts the restriction", func(t *testing.T) {
		deps := setupRecordServiceTest(t)

		deps.repo.findAllFn = func(ctx context.Context, scope welfarerecord.Scope, q welfarerecord.ListRecordsQuery) ([]welfarerecord.WelfareRecord, int64, error) {
			assert.True(t, scope.All)
			return nil, 0, nil
		}

		_, _, err := deps.service.List(ctx, adminIdentity(), welfarerecord.ListRecordsQuery{Page: 1, Limit: 10})

		assert.NoError(t, err)
	})
}

func TestRecordService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("absent record is not found", func(t *testing.T) {
		deps := setupRecordServiceTest(t)

		_, err := deps.service.GetByID(ctx, adminIdentity(), uuid.New().String())

		assert.ErrorIs(t, err, welfarerecorderrors.ErrRecordNotFound)
	})

	t.Run("existing but out-of-scope record is forbidden, not not-found", func(t *testing.T) {
		deps := setupRecordServiceTest(t)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*welfarerecord.WelfareRecord, error) {
			return &welfarerecord.WelfareRecord{
				ID:           uuid.MustParse(id),
				UserID:       uuid.New(),
				DepartmentID: uuid.New(),
				Status:       welfarerecord.StatusPending,
			}, nil
		}

		_, err := deps.service.GetByID(ctx, userIdentity(), uuid.New().String())

		assert.ErrorIs(t, err, welfarerecorderrors.ErrForbiddenRecordAccess)
	})

	t.Run("department colleague can read", func(t *testing.T) {
		deps := setupRecordServiceTest(t)
		caller := userIdentity()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*welfarerecord.WelfareRecord, error) {
			return &welfarerecord.WelfareRecord{
				ID:           uuid.MustParse(id),
				UserID:       uuid.New(),
				DepartmentID: uuid.MustParse(caller.DepartmentID),
				Status:       welfarerecord.StatusPending,
			}, nil
		}

		resp, err := deps.service.GetByID(ctx, caller, uuid.New().String())

		assert.NoError(t, err)
		assert.Equal(t, welfarerecord.StatusPending, resp.Status)
	})
}

func TestRecordService_Update(t *testing.T) {
	ctx := context.Background()

	ownRecord := func(caller contextutil.Identity) func(ctx context.Context, id string) (*welfarerecord.WelfareRecord, error) {
		return func(ctx context.Context, id string) (*welfarerecord.WelfareRecord, error) {
			return &welfarerecord.WelfareRecord{
				ID:           uuid.MustParse(id),
				UserID:       uuid.MustParse(caller.UserID),
				DepartmentID: uuid.MustParse(caller.DepartmentID),
				Status:       welfarerecord.StatusPending,
			}, nil
		}
	}

	t.Run("status change appends a log with old and new status", func(t *testing.T) {
		deps := setupRecordServiceTest(t)
		recordID := uuid.New().String()
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.redisMock.ExpectDel("welfare-record:" + recordID).SetVal(1)
		deps.redisMock.ExpectScan(0, "status-logs:"+recordID+":*", 100).SetVal(nil, 0)
		deps.redisMock.ExpectScan(0, "welfare-records:*", 100).SetVal(nil, 0)
		deps.redisMock.ExpectScan(0, "welfare-stats:*", 100).SetVal(nil, 0)

		caller := userIdentity()
		deps.repo.findByIDFn = ownRecord(caller)

		var appended *statuslog.StatusLog
		deps.logRepo.createFn = func(ctx context.Context, log *statuslog.StatusLog) error {
			appended = log
			return nil
		}
		var updatedFields map[string]interface{}
		deps.repo.updateFieldsFn = func(ctx context.Context, id string, fields map[string]interface{}) error {
			updatedFields = fields
			return nil
		}

		newStatus := welfarerecord.StatusApproved
		_, err := deps.service.Update(ctx, caller, recordID, welfarerecord.UpdateRecordRequest{Status: &newStatus})

		assert.NoError(t, err)
		assert.Equal(t, welfarerecord.StatusApproved, updatedFields["status"])
		assert.NotNil(t, appended)
		assert.Equal(t, welfarerecord.StatusApproved, appended.Status)
		assert.Equal(t, "status changed from PENDING to APPROVED", appended.Notes)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("same status does not append a log", func(t *testing.T) {
		deps := setupRecordServiceTest(t)

		caller := userIdentity()
		deps.repo.findByIDFn = ownRecord(caller)
		deps.logRepo.createFn = func(ctx context.Context, log *statuslog.StatusLog) error {
			t.Fatal("no log may be appended when the status is unchanged")
			return nil
		}

		sameStatus := welfarerecord.StatusPending
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		_, err := deps.service.Update(ctx, caller, uuid.New().String(), welfarerecord.UpdateRecordRequest{Status: &sameStatus})

		assert.ErrorIs(t, err, welfarerecorderrors.ErrNothingToUpdate)
	})

	t.Run("empty patch is rejected", func(t *testing.T) {
		deps := setupRecordServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		caller := userIdentity()
		deps.repo.findByIDFn = ownRecord(caller)

		_, err := deps.service.Update(ctx, caller, uuid.New().String(), welfarerecord.UpdateRecordRequest{})

		assert.ErrorIs(t, err, welfarerecorderrors.ErrNothingToUpdate)
	})

	t.Run("owner may only touch correction details and status", func(t *testing.T) {
		deps := setupRecordServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		caller := userIdentity()
		deps.repo.findByIDFn = ownRecord(caller)

		amount := 999.0
		_, err := deps.service.Update(ctx, caller, uuid.New().String(), welfarerecord.UpdateRecordRequest{Amount: &amount})

		assert.ErrorIs(t, err, welfarerecorderrors.ErrForbiddenRecordFields)
	})

	t.Run("admin may patch any field", func(t *testing.T) {
		deps := setupRecordServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		caller := adminIdentity()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*welfarerecord.WelfareRecord, error) {
			return &welfarerecord.WelfareRecord{
				ID:           uuid.MustParse(id),
				UserID:       uuid.New(),
				DepartmentID: uuid.New(),
				Status:       welfarerecord.StatusPending,
			}, nil
		}
		var updatedFields map[string]interface{}
		deps.repo.updateFieldsFn = func(ctx context.Context, id string, fields map[string]interface{}) error {
			updatedFields = fields
			return nil
		}

		amount := 750.0
		cancelled := true
		_, err := deps.service.Update(ctx, caller, uuid.New().String(), welfarerecord.UpdateRecordRequest{
			Amount:      &amount,
			IsCancelled: &cancelled,
		})

		assert.NoError(t, err)
		assert.Equal(t, 750.0, updatedFields["amount"])
		assert.Equal(t, true, updatedFields["is_cancelled"])
	})
}

func TestRecordService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("regular users cannot delete", func(t *testing.T) {
		deps := setupRecordServiceTest(t)

		err := deps.service.Delete(ctx, userIdentity(), uuid.New().String())

		assert.ErrorIs(t, err, welfarerecorderrors.ErrForbiddenRecordAccess)
	})

	t.Run("cascades status logs before the record", func(t *testing.T) {
		deps := setupRecordServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		id := uuid.New()
		deps.redisMock.ExpectDel("welfare-record:" + id.String()).SetVal(1)
		deps.redisMock.ExpectScan(0, "status-logs:"+id.String()+":*", 100).SetVal(nil, 0)
		deps.redisMock.ExpectScan(0, "welfare-records:*", 100).SetVal(nil, 0)
		deps.redisMock.ExpectScan(0, "welfare-stats:*", 100).SetVal(nil, 0)
		deps.repo.findByIDFn = func(ctx context.Context, gotID string) (*welfarerecord.WelfareRecord, error) {
			return &welfarerecord.WelfareRecord{ID: id, UserID: uuid.New(), DepartmentID: uuid.New()}, nil
		}

		var order []string
		deps.logRepo.deleteByRecordFn = func(ctx context.Context, recordID string) error {
			order = append(order, "logs")
			return nil
		}
		deps.repo.deleteFn = func(ctx context.Context, gotID string) error {
			order = append(order, "record")
			return nil
		}

		err := deps.service.Delete(ctx, adminIdentity(), id.String())

		assert.NoError(t, err)
		assert.Equal(t, []string{"logs", "record"}, order)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("deleting an absent id is not found, not success", func(t *testing.T) {
		deps := setupRecordServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		err := deps.service.Delete(ctx, adminIdentity(), uuid.New().String())

		assert.ErrorIs(t, err, welfarerecorderrors.ErrRecordNotFound)
	})
}

func TestRecordService_BulkUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("any missing id aborts before mutating", func(t *testing.T) {
		deps := setupRecordServiceTest(t)

		r1 := uuid.New().String()
		r2 := uuid.New().String()
		deps.repo.findExistingIDsFn = func(ctx context.Context, ids []string) ([]string, error) {
			return []string{r1}, nil
		}
		deps.repo.updateStatusBulkFn = func(ctx context.Context, ids []string, status string) error {
			t.Fatal("no mutation may happen when the existence check fails")
			return nil
		}

		_, err := deps.service.BulkUpdateStatus(ctx, adminIdentity(), welfarerecord.BulkUpdateStatusRequest{
			IDs:    []string{r1, r2},
			Status: welfarerecord.StatusApproved,
		})

		assert.ErrorIs(t, err, welfarerecorderrors.ErrSomeRecordsNotFound)
	})

	t.Run("updates every record and appends one log per record", func(t *testing.T) {
		deps := setupRecordServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		r1 := uuid.New().String()
		r2 := uuid.New().String()
		for _, id := range []string{r1, r2} {
			deps.redisMock.ExpectDel("welfare-record:" + id).SetVal(1)
			deps.redisMock.ExpectScan(0, "status-logs:"+id+":*", 100).SetVal(nil, 0)
		}
		deps.redisMock.ExpectScan(0, "welfare-records:*", 100).SetVal(nil, 0)
		deps.redisMock.ExpectScan(0, "welfare-stats:*", 100).SetVal(nil, 0)
		deps.repo.findExistingIDsFn = func(ctx context.Context, ids []string) ([]string, error) {
			return ids, nil
		}
		var bulkIDs []string
		deps.repo.updateStatusBulkFn = func(ctx context.Context, ids []string, status string) error {
			bulkIDs = ids
			assert.Equal(t, welfarerecord.StatusApproved, status)
			return nil
		}
		var batch []statuslog.StatusLog
		deps.logRepo.createBatchFn = func(ctx context.Context, logs []statuslog.StatusLog) error {
			batch = logs
			return nil
		}

		count, err := deps.service.BulkUpdateStatus(ctx, adminIdentity(), welfarerecord.BulkUpdateStatusRequest{
			IDs:    []string{r1, r2},
			Status: welfarerecord.StatusApproved,
			Notes:  "batch ok",
		})

		assert.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Equal(t, []string{r1, r2}, bulkIDs)
		assert.Len(t, batch, 2)
		assert.Equal(t, "batch ok", batch[0].Notes)
		assert.Equal(t, batch[0].Timestamp, batch[1].Timestamp)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("duplicate ids collapse to one update", func(t *testing.T) {
		deps := setupRecordServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		r1 := uuid.New().String()
		deps.repo.findExistingIDsFn = func(ctx context.Context, ids []string) ([]string, error) {
			assert.Len(t, ids, 1)
			return ids, nil
		}

		count, err := deps.service.BulkUpdateStatus(ctx, adminIdentity(), welfarerecord.BulkUpdateStatusRequest{
			IDs:    []string{r1, r1, r1},
			Status: welfarerecord.StatusRejected,
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("regular users are rejected", func(t *testing.T) {
		deps := setupRecordServiceTest(t)

		_, err := deps.service.BulkUpdateStatus(ctx, userIdentity(), welfarerecord.BulkUpdateStatusRequest{
			IDs:    []string{uuid.New().String()},
			Status: welfarerecord.StatusApproved,
		})

		assert.ErrorIs(t, err, welfarerecorderrors.ErrForbiddenRecordAccess)
	})
}

func TestRecordService_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("four scoped counts", func(t *testing.T) {
		deps := setupRecordServiceTest(t)
		caller := userIdentity()

		counts := map[string]int64{
			"":                           7,
			welfarerecord.StatusPending:  4,
			welfarerecord.StatusApproved: 2,
			welfarerecord.StatusRejected: 1,
		}
		deps.repo.countByStatusFn = func(ctx context.Context, scope welfarerecord.Scope, status string) (int64, error) {
			assert.Equal(t, caller.UserID, scope.UserID)
			return counts[status], nil
		}

		stats, err := deps.service.Stats(ctx, caller)

		assert.NoError(t, err)
		assert.Equal(t, welfarerecord.StatsResponse{Total: 7, Pending: 4, Approved: 2, Rejected: 1}, stats)
	})
}
