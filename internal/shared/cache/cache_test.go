package cache_test

import (
	"context"
	"testing"
	"time"

	"go-welfare/internal/shared/cache"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGateway_GetSetRoundTrip(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	g := cache.New(rdb)
	ctx := context.Background()

	stored := sample{Name: "Finance", Count: 3}
	mock.ExpectSet("departments::1:10", []byte(`{"name":"Finance","count":3}`), 5*time.Minute).SetVal("OK")
	g.Set(ctx, "departments::1:10", stored, 5*time.Minute)

	mock.ExpectGet("departments::1:10").SetVal(`{"name":"Finance","count":3}`)
	var got sample
	hit := g.Get(ctx, "departments::1:10", &got)

	assert.True(t, hit)
	assert.Equal(t, stored, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGateway_GetMiss(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	g := cache.New(rdb)

	mock.ExpectGet("department:unknown").RedisNil()

	var got sample
	assert.False(t, g.Get(context.Background(), "department:unknown", &got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGateway_GetSwallowsCacheFailure(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	g := cache.New(rdb)

	mock.ExpectGet("department:d1").SetErr(assert.AnError)

	var got sample
	assert.False(t, g.Get(context.Background(), "department:d1", &got))
}

func TestGateway_DeleteByPattern(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	g := cache.New(rdb)

	mock.ExpectScan(0, "departments:*", 100).SetVal([]string{"departments::1:10", "departments:fin:1:10"}, 0)
	mock.ExpectDel("departments::1:10", "departments:fin:1:10").SetVal(2)

	removed := g.DeleteByPattern(context.Background(), "departments:*")

	assert.Equal(t, 2, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGateway_DeleteByPatternNoMatches(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	g := cache.New(rdb)

	mock.ExpectScan(0, "welfare-records:*", 100).SetVal(nil, 0)

	assert.Equal(t, 0, g.DeleteByPattern(context.Background(), "welfare-records:*"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyBuilder(t *testing.T) {
	assert.Equal(t, "welfare-records", cache.Key("welfare-records"))
	assert.Equal(t, "welfare-record:r1", cache.Key("welfare-record", "r1"))
	// empty parameters keep their segment so distinct queries never collide
	assert.Equal(t, "welfare-records:u1:::PENDING:1:10", cache.Key("welfare-records", "u1", "", "", "PENDING", "1", "10"))
	assert.Equal(t, "status-logs:*", cache.Pattern("status-logs"))
}
