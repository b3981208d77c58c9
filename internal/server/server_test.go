package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"anoa.com/reactions/internal/bootstrap"
	"anoa.com/reactions/internal/config"
	"anoa.com/reactions/internal/entity"
	"anoa.com/reactions/internal/middleware"
	userRepo "anoa.com/reactions/internal/modules/user/repository"
	"anoa.com/reactions/internal/server"
	"anoa.com/reactions/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "server-test-secret"

type client struct {
	t       *testing.T
	handler http.Handler
}

func (c client) do(method, path, token, body string) (int, map[string]any) {
	c.t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)

	var decoded map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w.Code, decoded
}

func TestServer_ReactionFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)

	admin, err := bootstrap.SeedAdminUser(context.Background(), userRepo.NewUserRepository(db), "root")
	require.NoError(t, err)
	member := &entity.User{Username: "alice"}
	require.NoError(t, db.Create(member).Error)

	adminToken, err := middleware.IssueToken(secret, admin.ID.String(), time.Hour)
	require.NoError(t, err)
	memberToken, err := middleware.IssueToken(secret, member.ID.String(), time.Hour)
	require.NoError(t, err)

	cfg := &config.Config{JWTSecret: secret, VoteLockTTL: time.Second}
	c := client{t: t, handler: server.NewServer(db, nil, cfg).Handler()}

	code, body := c.do(http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	code, _ = c.do(http.MethodPost, "/api/admin/reaction-rules", memberToken, `{"method":"LIKE","limit":2}`)
	require.Equal(t, http.StatusForbidden, code)

	code, rule := c.do(http.MethodPost, "/api/admin/reaction-rules", adminToken, `{"name":"Like","method":"like","limit":2}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "LIKE", rule["method"])

	code, instance := c.do(http.MethodPost, "/api/admin/reaction-instances", adminToken,
		`{"reactionId":"`+rule["id"].(string)+`","title":"Like this post","resourceType":"post","resourceId":"post-7"}`)
	require.Equal(t, http.StatusCreated, code)
	instanceID := instance["id"].(string)

	votePath := "/api/reactions/" + instanceID + "/vote"

	code, _ = c.do(http.MethodPost, votePath, "", "")
	require.Equal(t, http.StatusUnauthorized, code)

	code, vote := c.do(http.MethodPost, votePath, memberToken, "")
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, map[string]any{"timesVoted": float64(1), "deleted": false}, vote["meta"])

	code, vote = c.do(http.MethodPost, votePath, memberToken, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"timesVoted": float64(1), "deleted": true}, vote["meta"])

	code, vote = c.do(http.MethodPost, votePath, memberToken, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"timesVoted": float64(2), "deleted": false}, vote["meta"])

	code, vote = c.do(http.MethodPost, votePath, memberToken, "")
	require.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, map[string]any{"timesVoted": float64(2), "deleted": false}, vote["meta"])

	code, result := c.do(http.MethodGet, "/api/reactions/"+instanceID+"/result", memberToken, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"name": "LIKE", "value": float64(1)}, result["data"])
	assert.NotNil(t, result["userVote"])

	code, result = c.do(http.MethodGet, "/api/reactions/"+instanceID+"/result", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, result["userVote"])

	code, _ = c.do(http.MethodDelete, "/api/admin/reaction-rules/"+rule["id"].(string), adminToken, "")
	assert.Equal(t, http.StatusConflict, code)
}

func TestServer_ClosedRule(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)

	closing := time.Now().Add(-time.Hour)
	rule := &entity.ReactionRule{Method: entity.MethodLike, Limit: 1, ClosingDate: &closing}
	require.NoError(t, db.Create(rule).Error)
	instance := &entity.ReactionInstance{ReactionID: rule.ID, Title: "Closed", ResourceType: "post", ResourceID: "p"}
	require.NoError(t, db.Create(instance).Error)

	member := &entity.User{Username: "bob"}
	require.NoError(t, db.Create(member).Error)
	token, err := middleware.IssueToken(secret, member.ID.String(), time.Hour)
	require.NoError(t, err)

	cfg := &config.Config{JWTSecret: secret, VoteLockTTL: time.Second}
	c := client{t: t, handler: server.NewServer(db, nil, cfg).Handler()}

	code, body := c.do(http.MethodPost, "/api/reactions/"+instance.ID.String()+"/vote", token, "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "The voting has closed", body["error"])
}

func TestServer_RunStopsWhenContextCancelled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	srv := server.NewServer(db, nil, &config.Config{JWTSecret: secret, VoteLockTTL: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestServer_CloseReleasesConnections(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	_, rdb := testutil.NewRedis(t)
	srv := server.NewServer(db, rdb, &config.Config{JWTSecret: secret, VoteLockTTL: time.Second})

	require.NoError(t, rdb.Ping(context.Background()).Err())
	require.NoError(t, srv.Close())

	assert.ErrorIs(t, rdb.Ping(context.Background()).Err(), redis.ErrClosed)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping())
}
