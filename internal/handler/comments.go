package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/BloggingApp/blog-client/internal/dto"
	"github.com/BloggingApp/blog-client/internal/view"
	"github.com/gin-gonic/gin"
)

func (h *Handler) commentsCreate(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	postView := h.currentPostView()
	if postView == nil || postView.Slug() != slug {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, errNoPostOnScreen.Error()))
		return
	}

	var input dto.CreateCommentDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := postView.AddComment(c.Request.Context(), input.Comment); err != nil {
		h.respondError(c, err)
		return
	}

	h.renderPostView(c, postView)
}

func (h *Handler) repliesCreate(c *gin.Context) {
	postView, commentID, ok := h.postViewAndCommentID(c)
	if !ok {
		return
	}

	var input dto.CreateCommentDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := postView.AddReply(c.Request.Context(), commentID, input.Comment); err != nil {
		h.respondError(c, err)
		return
	}

	h.renderPostView(c, postView)
}

func (h *Handler) commentsDelete(c *gin.Context) {
	postView, commentID, ok := h.postViewAndCommentID(c)
	if !ok {
		return
	}

	if err := postView.DeleteComment(c.Request.Context(), commentID); err != nil {
		h.respondError(c, err)
		return
	}

	h.renderPostView(c, postView)
}

func (h *Handler) commentsExpand(c *gin.Context) {
	postView, commentID, ok := h.postViewAndCommentID(c)
	if !ok {
		return
	}

	if err := postView.Expand(c.Request.Context(), commentID); err != nil {
		h.respondError(c, err)
		return
	}

	h.renderPostView(c, postView)
}

func (h *Handler) commentsCollapse(c *gin.Context) {
	postView, commentID, ok := h.postViewAndCommentID(c)
	if !ok {
		return
	}

	if err := postView.Collapse(commentID); err != nil {
		h.respondError(c, err)
		return
	}

	h.renderPostView(c, postView)
}

func (h *Handler) postViewAndCommentID(c *gin.Context) (*view.PostView, int64, bool) {
	commentIDString := strings.TrimSpace(c.Param("id"))
	commentID, err := strconv.ParseInt(commentIDString, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidID.Error()))
		return nil, 0, false
	}

	postView := h.currentPostView()
	if postView == nil {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, errNoPostOnScreen.Error()))
		return nil, 0, false
	}

	return postView, commentID, true
}

func (h *Handler) renderPostView(c *gin.Context, postView *view.PostView) {
	readModel, err := postView.Render()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, readModel)
}
