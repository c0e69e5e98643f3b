package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/gist-tracker/internal/apperror"
	"github.com/tazhibayda/gist-tracker/internal/domain"
	"github.com/tazhibayda/gist-tracker/internal/repo"
)

// favoriteTarget loads the gist and applies the read rule: favoriting
// needs no ownership, but the gist has to be visible to the caller.
func (h *Handler) favoriteTarget(c *gin.Context, store *repo.Store, u *domain.User) (primitive.ObjectID, error) {
	id, err := gistID(c)
	if err != nil {
		return primitive.NilObjectID, err
	}
	g, err := store.FindGistByID(c.Request.Context(), id)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if g == nil || !g.ReadableBy(u.ID) {
		return primitive.NilObjectID, apperror.NotFound("Gist not found")
	}
	return id, nil
}

// AddFavorite godoc
// @Summary Bookmark a gist
// @Tags favorites
// @Produce json
// @Param id path string true "gist id"
// @Success 201 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/gists/{id}/favorite [post]
func (h *Handler) AddFavorite(c *gin.Context) {
	store, err := h.store(c)
	if err != nil {
		respondError(c, err)
		return
	}
	u := mustCurrentUser(c)
	id, err := h.favoriteTarget(c, store, u)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := store.AddFavorite(c.Request.Context(), u.ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Added to favorites"})
}

// RemoveFavorite godoc
// @Summary Remove a bookmark
// @Tags favorites
// @Produce json
// @Param id path string true "gist id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/gists/{id}/favorite [delete]
func (h *Handler) RemoveFavorite(c *gin.Context) {
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
	if err := store.RemoveFavorite(c.Request.Context(), u.ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from favorites"})
}

// CheckFavorite godoc
// @Summary Is the gist bookmarked by the caller
// @Tags favorites
// @Produce json
// @Param id path string true "gist id"
// @Success 200 {object} map[string]bool
// @Router /api/gists/{id}/favorite [get]
func (h *Handler) CheckFavorite(c *gin.Context) {
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
	fav, err := store.IsFavorite(c.Request.Context(), u.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isFavorite": fav})
}

// ListFavorites godoc
// @Summary List the caller's bookmarked gists
// @Tags favorites
// @Produce json
// @Success 200 {array} domain.Gist
// @Router /api/favorites [get]
func (h *Handler) ListFavorites(c *gin.Context) {
	store, err := h.store(c)
	if err != nil {
		respondError(c, err)
		return
	}
	u := mustCurrentUser(c)
	gists, err := store.ListFavoriteGists(c.Request.Context(), u.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gists)
}
