package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifyhq/notify-api/internal/handler"
	"github.com/notifyhq/notify-api/internal/model"
)

type fakeAgentRepo struct {
	agents map[string]*model.Agent
	calls  int
}

func (r *fakeAgentRepo) GetByToken(_ context.Context, token string) (*model.Agent, error) {
	r.calls++
	agent, ok := r.agents[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return agent, nil
}

func setupAuthRouter(repo *fakeAgentRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	auth := NewAuthMiddleware(repo)
	engine.GET("/private", auth.Authenticate(), func(c *gin.Context) {
		agent := c.MustGet(ContextAgent).(*model.Agent)
		handler.OK(c, gin.H{"agent_id": agent.ID})
	})
	return engine
}

func doAuthRequest(engine *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func unauthorizedMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Status  bool `json:"status"`
		Content struct {
			ErrorMsg  string `json:"error_msg"`
			ErrorCode int    `json:"error_code"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.False(t, env.Status)
	assert.Equal(t, http.StatusUnauthorized, env.Content.ErrorCode)
	return env.Content.ErrorMsg
}

func TestAuthenticate_Rejections(t *testing.T) {
	repo := &fakeAgentRepo{agents: map[string]*model.Agent{}}
	engine := setupAuthRouter(repo)

	tests := []struct {
		name          string
		authorization string
	}{
		{name: "missing header", authorization: ""},
		{name: "wrong scheme", authorization: "Basic c2VjcmV0"},
		{name: "no token", authorization: "Bearer"},
		{name: "empty token", authorization: "Bearer "},
		{name: "unknown token", authorization: "Bearer unknown-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doAuthRequest(engine, tt.authorization)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, ErrorWrongToken, unauthorizedMessage(t, rec))
		})
	}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	agent := &model.Agent{ID: 7, APIToken: "secret-token"}
	repo := &fakeAgentRepo{agents: map[string]*model.Agent{"secret-token": agent}}
	engine := setupAuthRouter(repo)

	rec := doAuthRequest(engine, "Bearer secret-token")

	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Status  bool `json:"status"`
		Content struct {
			AgentID int64 `json:"agent_id"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Status)
	assert.Equal(t, agent.ID, env.Content.AgentID)
}

func TestAuthenticate_SecondLookupServedFromCache(t *testing.T) {
	agent := &model.Agent{ID: 7, APIToken: "secret-token"}
	repo := &fakeAgentRepo{agents: map[string]*model.Agent{"secret-token": agent}}
	engine := setupAuthRouter(repo)

	for i := 0; i < 3; i++ {
		rec := doAuthRequest(engine, "Bearer secret-token")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 1, repo.calls)
}
