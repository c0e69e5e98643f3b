package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tazhibayda/gist-tracker/internal/apperror"
	"github.com/tazhibayda/gist-tracker/internal/repo"
)

type profileReq struct {
	Name           string `json:"name"`
	GithubUsername string `json:"githubUsername"`
	Bio            string `json:"bio"`
}

// GetProfile godoc
// @Summary Caller's profile
// @Tags profile
// @Produce json
// @Success 200 {object} domain.User
// @Router /api/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, mustCurrentUser(c))
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags profile
// @Accept json
// @Produce json
// @Param payload body profileReq true "profile"
// @Success 200 {object} domain.User
// @Failure 400 {object} map[string]string
// @Router /api/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var in profileReq
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperror.Validation("Invalid JSON body"))
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Name == "":
		respondError(c, apperror.Validation("Name is required"))
		return
	case len(in.Name) > 60:
		respondError(c, apperror.Validation("Name cannot be more than 60 characters"))
		return
	case len(in.Bio) > 200:
		respondError(c, apperror.Validation("Bio cannot be more than 200 characters"))
		return
	}

	store, err := h.store(c)
	if err != nil {
		respondError(c, err)
		return
	}

	u := mustCurrentUser(c)
	updated, err := store.UpdateProfile(c.Request.Context(), u.ID, repo.ProfileUpdate{
		Name:           in.Name,
		GithubUsername: strings.TrimSpace(in.GithubUsername),
		Bio:            in.Bio,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteProfile godoc
// @Summary Delete the caller's account
// @Tags profile
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/profile [delete]
//
// Deletion cascades: owned gists, their comments and favorites, and the
// caller's own comments and bookmarks all go.
func (h *Handler) DeleteProfile(c *gin.Context) {
	store, err := h.store(c)
	if err != nil {
		respondError(c, err)
		return
	}

	u := mustCurrentUser(c)
	if err := store.DeleteUser(c.Request.Context(), u.ID); err != nil {
		respondError(c, err)
		return
	}
	h.clearAuthCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
