package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sangkips/procura-api/internal/domain/entity"
	"github.com/sangkips/procura-api/internal/domain/repository"
	infraRepo "github.com/sangkips/procura-api/internal/infrastructure/repository"
	"github.com/sangkips/procura-api/pkg/logger"
)

func newIdempotencyRepo(t *testing.T) repository.IdempotencyRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.NewGormLogger(gormlogger.Silent, 0),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&entity.IdempotencyKey{}))
	return infraRepo.NewIdempotencyRepository(db)
}

func idempotentRouter(repo repository.IdempotencyRepository, userID uuid.UUID, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}, Idempotency(IdempotencyConfig{Repo: repo, TTL: time.Hour}))
	r.POST("/stock/transfers", h)
	return r
}

func postWithKey(r *gin.Engine, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/stock/transfers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyKeyHeader, key)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_DuplicateWhileInFlight(t *testing.T) {
	repo := newIdempotencyRepo(t)
	var calls atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})

	r := idempotentRouter(repo, uuid.New(), func(c *gin.Context) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
		}
		c.JSON(http.StatusCreated, gin.H{"moved": 5})
	})

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() { first <- postWithKey(r, "trf-1", `{"quantity":5}`) }()
	<-entered

	w := postWithKey(r, "trf-1", `{"quantity":5}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, int32(1), calls.Load())

	close(release)
	w = <-first
	require.Equal(t, http.StatusCreated, w.Code)

	w = postWithKey(r, "trf-1", `{"quantity":5}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, `{"moved":5}`, w.Body.String())
	assert.Equal(t, int32(1), calls.Load())
}

func TestIdempotency_FailedRequestReleasesKey(t *testing.T) {
	repo := newIdempotencyRepo(t)
	var calls atomic.Int32
	r := idempotentRouter(repo, uuid.New(), func(c *gin.Context) {
		if calls.Add(1) == 1 {
			c.JSON(http.StatusConflict, gin.H{"kind": "insufficient_stock"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"moved": 5})
	})

	assert.Equal(t, http.StatusConflict, postWithKey(r, "trf-2", `{"quantity":5}`).Code)
	w := postWithKey(r, "trf-2", `{"quantity":5}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, int32(2), calls.Load())

	w = postWithKey(r, "trf-2", `{"quantity":6}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, int32(2), calls.Load())
}

func TestIdempotencyRepository_ReserveOnce(t *testing.T) {
	repo := newIdempotencyRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	first := &entity.IdempotencyKey{Key: "adj-1", UserID: userID, Endpoint: "POST /x", ExpiresAt: time.Now().Add(time.Hour)}
	ok, err := repo.Reserve(ctx, first)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Reserve(ctx, &entity.IdempotencyKey{Key: "adj-1", UserID: userID, Endpoint: "POST /x", ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.GetByKey(ctx, "adj-1", userID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.IsPending())

	// an expired entry does not block a new reservation
	require.NoError(t, repo.Release(ctx, first.ID))
	ok, err = repo.Reserve(ctx, &entity.IdempotencyKey{Key: "adj-1", UserID: userID, Endpoint: "POST /x", ExpiresAt: time.Now().Add(-time.Minute)})
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = repo.Reserve(ctx, &entity.IdempotencyKey{Key: "adj-1", UserID: userID, Endpoint: "POST /x", ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.True(t, ok)
}
