package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/gist-tracker/internal/apperror"
	"github.com/tazhibayda/gist-tracker/internal/domain"
	"github.com/tazhibayda/gist-tracker/internal/queue"
	"github.com/tazhibayda/gist-tracker/internal/repo"
)

type gistReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Language    string `json:"language"`
	IsPublic    *bool  `json:"isPublic"`
}

func (in *gistReq) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Language = strings.TrimSpace(in.Language)
	switch {
	case in.Title == "" || in.Content == "" || in.Language == "":
		return apperror.Validation("Missing required fields")
	case len(in.Title) > 100:
		return apperror.Validation("Title cannot be more than 100 characters")
	case len(in.Description) > 500:
		return apperror.Validation("Description cannot be more than 500 characters")
	}
	return nil
}

// gistID parses the :id path param; a malformed id reads as absent, the
// same as an unknown one.
func gistID(c *gin.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, apperror.NotFound("Gist not found")
	}
	return id, nil
}

// CreateGist godoc
// @Summary Create a gist
// @Tags gists
// @Accept json
// @Produce json
// @Param payload body gistReq true "gist"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /api/gists [post]
func (h *Handler) CreateGist(c *gin.Context) {
	var in gistReq
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperror.Validation("Invalid JSON body"))
		return
	}
	if err := in.validate(); err != nil {
		respondError(c, err)
		return
	}

	store, err := h.store(c)
	if err != nil {
		respondError(c, err)
		return
	}

	u := mustCurrentUser(c)
	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}
	g := &domain.Gist{
		Title:       in.Title,
		Description: in.Description,
		Content:     in.Content,
		Language:    in.Language,
		IsPublic:    isPublic,
		UserID:      u.ID,
	}
	if err := store.CreateGist(c.Request.Context(), g); err != nil {
		respondError(c, err)
		return
	}

	h.publish(c, "gist.created", queue.GistCreated{
		GistID: g.ID, UserID: u.ID, Title: g.Title, Language: g.Language, IsPublic: g.IsPublic,
	})

	c.JSON(http.StatusCreated, gin.H{"message": "Gist created successfully", "gistId": g.ID})
}

// ListGists godoc
// @Summary List visible gists
// @Tags gists
// @Produce json
// @Param userId query string false "filter by owner"
// @Success 200 {array} domain.Gist
// @Router /api/gists [get]
func (h *Handler) ListGists(c *gin.Context) {
	store, err := h.store(c)
	if err != nil {
		respondError(c, err)
		return
	}

	u := mustCurrentUser(c)
	filter := repo.GistFilter{Viewer: u.ID}
	if q := c.Query("userId"); q != "" {
		owner, err := primitive.ObjectIDFromHex(q)
		if err != nil {
			respondError(c, apperror.Validation("Invalid userId"))
			return
		}
		filter.Owner = &owner
	}

	gists, err := store.ListGists(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gists)
}

// GetGist godoc
// @Summary Fetch one gist
// @Tags gists
// @Produce json
// @Param id path string true "gist id"
// @Success 200 {object} domain.Gist
// @Failure 404 {object} map[string]string
// @Router /api/gists/{id} [get]
func (h *Handler) GetGist(c *gin.Context) {
	id, err := gistID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	store, err := h.store(c)
	if err != nil {
		respondError(c, err)
		return
	}

	u := mustCurrentUser(c)
	g, err := store.FindGistByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	// private gists read as absent to anyone but the owner
	if g == nil || !g.ReadableBy(u.ID) {
		respondError(c, apperror.NotFound("Gist not found"))
		return
	}
	c.JSON(http.StatusOK, g)
}

// UpdateGist godoc
// @Summary Update an owned gist
// @Tags gists
// @Accept json
// @Produce json
// @Param id path string true "gist id"
// @Param payload body gistReq true "gist"
// @Success 200 {object} domain.Gist
// @Failure 404 {object} map[string]string
// @Router /api/gists/{id} [put]
func (h *Handler) UpdateGist(c *gin.Context) {
	id, err := gistID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var in gistReq
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperror.Validation("Invalid JSON body"))
		return
	}
	if err := in.validate(); err != nil {
		respondError(c, err)
		return
	}

	store, err := h.store(c)
	if err != nil {
		respondError(c, err)
		return
	}

	u := mustCurrentUser(c)
	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}
	g, err := store.UpdateGist(c.Request.Context(), id, u.ID, repo.GistUpdate{
		Title:       in.Title,
		Description: in.Description,
		Content:     in.Content,
		Language:    in.Language,
		IsPublic:    isPublic,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// DeleteGist godoc
// @Summary Delete an owned gist
// @Tags gists
// @Produce json
// @Param id path string true "gist id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/gists/{id} [delete]
func (h *Handler) DeleteGist(c *gin.Context) {
	id, err := gistID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	store, err := h.store(c)
	if err != nil {
		respondError(c, err)
		return
	}

	u := mustCurrentUser(c)
	if err := store.DeleteGist(c.Request.Context(), id, u.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Gist deleted successfully"})
}
