package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tazhibayda/gist-tracker/internal/apperror"
	"github.com/tazhibayda/gist-tracker/internal/domain"
	"github.com/tazhibayda/gist-tracker/internal/log"
	"github.com/tazhibayda/gist-tracker/internal/queue"
	"github.com/tazhibayda/gist-tracker/internal/repo"
	"github.com/tazhibayda/gist-tracker/internal/security"
)

// Limiter is the counter behind RateLimit. *repo.Redis satisfies it;
// tests swap in a fake.
type Limiter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

type Handler struct {
	Mgr             *repo.Manager
	JWTSecret       string
	Production      bool
	Limiter         Limiter
	RateLimitPerMin int
	Events          queue.Publisher
}

func NewHandler(mgr *repo.Manager, jwtSecret string, production bool, limiter Limiter, rlPerMin int, pub queue.Publisher) *Handler {
	return &Handler{
		Mgr:             mgr,
		JWTSecret:       jwtSecret,
		Production:      production,
		Limiter:         limiter,
		RateLimitPerMin: rlPerMin,
		Events:          pub,
	}
}

func (h *Handler) store(c *gin.Context) (*repo.Store, error) {
	s, err := h.Mgr.Connect(c.Request.Context())
	if err != nil {
		return nil, apperror.Unavailable("Store unavailable", err)
	}
	return s, nil
}

// publish fires the event off the request goroutine; the request context
// is gone by then, so the publisher applies its own deadline.
func (h *Handler) publish(c *gin.Context, key string, event any) {
	id := reqID(c)
	go func() {
		if err := h.Events.Publish(context.Background(), key, event, id); err != nil {
			log.L().Warn("event publish failed", zap.String("key", key), zap.Error(err))
		}
	}()
}

type signupReq struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	GithubUsername string `json:"githubUsername"`
}

// Signup godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body signupReq true "signup"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var in signupReq
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperror.Validation("Invalid JSON body"))
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	switch {
	case in.Name == "" || email == "" || in.Password == "":
		respondError(c, apperror.Validation("Missing required fields"))
		return
	case len(in.Name) > 60:
		respondError(c, apperror.Validation("Name cannot be more than 60 characters"))
		return
	case !strings.Contains(email, "@"):
		respondError(c, apperror.Validation("Invalid email"))
		return
	case len(in.Password) < 8:
		respondError(c, apperror.Validation("Password must be at least 8 characters"))
		return
	}

	store, err := h.store(c)
	if err != nil {
		respondError(c, err)
		return
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		respondError(c, apperror.Internal("Something went wrong", err))
		return
	}
	u := &domain.User{
		Name:           in.Name,
		Email:          email,
		PasswordHash:   hash,
		GithubUsername: strings.TrimSpace(in.GithubUsername),
	}
	if err := store.CreateUser(c.Request.Context(), u); err != nil {
		respondError(c, err)
		return
	}

	h.publish(c, "user.registered", queue.UserRegistered{UserID: u.ID, Email: u.Email, Name: u.Name})

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "userId": u.ID})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login godoc
// @Summary Log in and start a session
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginReq true "login"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperror.Validation("Invalid JSON body"))
		return
	}
	if in.Email == "" || in.Password == "" {
		respondError(c, apperror.Validation("Missing required fields"))
		return
	}

	store, err := h.store(c)
	if err != nil {
		respondError(c, err)
		return
	}

	u, err := store.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if u == nil || !security.CheckPassword(u.PasswordHash, in.Password) {
		respondError(c, apperror.Unauthorized("Invalid credentials"))
		return
	}

	tok, err := security.MakeAccess(h.JWTSecret, u.ID.Hex(), u.Email)
	if err != nil {
		respondError(c, apperror.Internal("Something went wrong", err))
		return
	}
	h.setAuthCookie(c, tok)

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": u})
}

// Logout godoc
// @Summary End the session
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	h.clearAuthCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /api/auth [get]
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": mustCurrentUser(c)})
}

func (h *Handler) Healthz(c *gin.Context) {
	store, err := h.store(c)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	if err := store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
