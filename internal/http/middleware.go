package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tazhibayda/gist-tracker/internal/apperror"
	"github.com/tazhibayda/gist-tracker/internal/domain"
	"github.com/tazhibayda/gist-tracker/internal/helper"
	"github.com/tazhibayda/gist-tracker/internal/log"
	"github.com/tazhibayda/gist-tracker/internal/metrics"
	"github.com/tazhibayda/gist-tracker/internal/security"
)

const (
	requestIDKey = "X-Request-ID"
	currentUser  = "currentUser"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDKey, id)
		c.Next()
	}
}

func reqID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Observe records prometheus metrics and writes the access log line.
func Observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.InFlight.Inc()
		// deferred so a panicking handler cannot leak the gauge or skip
		// the request counter
		defer func() {
			metrics.InFlight.Dec()

			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			dur := time.Since(start)
			status := c.Writer.Status()
			metrics.RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(status)).Inc()
			metrics.ReqDuration.WithLabelValues(route, c.Request.Method).Observe(dur.Seconds())

			log.L().Info("request",
				zap.String("request_id", reqID(c)),
				zap.String("method", c.Request.Method),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Duration("duration", dur),
			)
		}()
		c.Next()
	}
}

// RequireAuth resolves the session: cookie → token → claims → user. Any
// gap in that chain is a 401; handlers behind it can rely on a loaded
// current user in the context.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := h.sessionUser(c)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		if u == nil {
			respondError(c, apperror.Unauthorized("Unauthorized"))
			c.Abort()
			return
		}
		c.Set(currentUser, u)
		c.Next()
	}
}

// OptionalAuth loads the current user when a valid session is present
// and stays silent otherwise. Store errors still surface: a 503 must not
// masquerade as an anonymous 404.
func (h *Handler) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := h.sessionUser(c)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		if u != nil {
			c.Set(currentUser, u)
		}
		c.Next()
	}
}

// sessionUser returns (nil, nil) for "no valid session" and reserves the
// error for store failures.
func (h *Handler) sessionUser(c *gin.Context) (*domain.User, error) {
	tok, ok := readAuthCookie(c)
	if !ok {
		return nil, nil
	}
	claims, err := security.ParseAccess(h.JWTSecret, tok)
	if err != nil {
		return nil, nil // tampered or expired, treated as no session
	}
	uid, err := primitive.ObjectIDFromHex(claims.UID)
	if err != nil {
		return nil, nil
	}

	store, err := h.Mgr.Connect(c.Request.Context())
	if err != nil {
		return nil, apperror.Unavailable("Store unavailable", err)
	}
	return store.FindUserByID(c.Request.Context(), uid)
}

func mustCurrentUser(c *gin.Context) *domain.User {
	v, _ := c.Get(currentUser)
	return v.(*domain.User)
}

func optionalUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(currentUser); ok {
		return v.(*domain.User)
	}
	return nil
}

// RateLimit caps attempts per client IP per minute on the auth
// endpoints. No limiter configured means no limiting.
func (h *Handler) RateLimit(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.Limiter == nil || h.RateLimitPerMin <= 0 {
			c.Next()
			return
		}
		key := fmt.Sprintf("rl:%s:%s", scope, helper.Hash8(c.ClientIP()))
		n, err := h.Limiter.IncrWindow(c.Request.Context(), key, time.Minute)
		if err != nil {
			// limiter backend down: let traffic through rather than lock everyone out
			log.L().Warn("rate limit unavailable", zap.Error(err))
			c.Next()
			return
		}
		if n > int64(h.RateLimitPerMin) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
			return
		}
		c.Next()
	}
}
