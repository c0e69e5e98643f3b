package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/gist-tracker/internal/apperror"
	"github.com/tazhibayda/gist-tracker/internal/domain"
	"github.com/tazhibayda/gist-tracker/internal/queue"
)

type commentReq struct {
	Content string `json:"content"`
}

// ListComments godoc
// @Summary List a gist's comments
// @Tags comments
// @Produce json
// @Param id path string true "gist id"
// @Success 200 {array} domain.CommentWithAuthor
// @Failure 404 {object} map[string]string
// @Router /api/gists/{id}/comments [get]
//
// Comments inherit the gist's visibility: a public gist's discussion is
// readable without a session, a private gist's only by its owner.
func (h *Handler) ListComments(c *gin.Context) {
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

	g, err := store.FindGistByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	viewer := primitive.NilObjectID
	if u := optionalUser(c); u != nil {
		viewer = u.ID
	}
	if g == nil || !g.ReadableBy(viewer) {
		respondError(c, apperror.NotFound("Gist not found"))
		return
	}

	comments, err := store.ListComments(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// CreateComment godoc
// @Summary Comment on a gist
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "gist id"
// @Param payload body commentReq true "comment"
// @Success 201 {object} domain.CommentWithAuthor
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/gists/{id}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	id, err := gistID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var in commentReq
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperror.Validation("Invalid JSON body"))
		return
	}
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		respondError(c, apperror.Validation("Comment content is required"))
		return
	}
	if len(in.Content) > 1000 {
		respondError(c, apperror.Validation("Comment cannot be more than 1000 characters"))
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
	if g == nil || !g.ReadableBy(u.ID) {
		respondError(c, apperror.NotFound("Gist not found"))
		return
	}

	cm := &domain.Comment{Content: in.Content, UserID: u.ID, GistID: id}
	if err := store.CreateComment(c.Request.Context(), cm); err != nil {
		respondError(c, err)
		return
	}

	out, err := store.CommentWithAuthor(c.Request.Context(), cm.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.publish(c, "comment.created", queue.CommentCreated{CommentID: cm.ID, GistID: id, UserID: u.ID})

	c.JSON(http.StatusCreated, out)
}
