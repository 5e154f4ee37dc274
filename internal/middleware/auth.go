package middleware

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"github.com/notifyhq/notify-api/internal/handler"
	"github.com/notifyhq/notify-api/internal/model"
	"github.com/notifyhq/notify-api/internal/repository"
)

const ErrorWrongToken = "Wrong API token provided"

// ContextAgent is the gin context key the authenticated agent is
// stored under.
const ContextAgent = "agent"

const (
	tokenCacheTTL     = time.Minute
	tokenCacheCleanup = 5 * time.Minute
)

type AuthMiddleware struct {
	agents repository.AgentRepository
	cache  *gocache.Cache
}

func NewAuthMiddleware(agents repository.AgentRepository) *AuthMiddleware {
	return &AuthMiddleware{
		agents: agents,
		cache:  gocache.New(tokenCacheTTL, tokenCacheCleanup),
	}
}

// Authenticate resolves the bearer token to an agent, consulting a
// short-lived cache before the database. Any failure answers 401 with
// the standard envelope.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.reject(c)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			m.reject(c)
			return
		}
		token := parts[1]

		if cached, ok := m.cache.Get(token); ok {
			c.Set(ContextAgent, cached.(*model.Agent))
			c.Next()
			return
		}

		agent, err := m.agents.GetByToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				m.reject(c)
				return
			}
			handler.Error(c, http.StatusInternalServerError, "internal server error", "")
			c.Abort()
			return
		}

		m.cache.SetDefault(token, agent)
		c.Set(ContextAgent, agent)
		c.Next()
	}
}

func (m *AuthMiddleware) reject(c *gin.Context) {
	handler.Error(c, http.StatusUnauthorized, ErrorWrongToken, "")
	c.Abort()
}
