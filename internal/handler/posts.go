package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/BloggingApp/blog-client/internal/dto"
	"github.com/BloggingApp/blog-client/internal/view"
	"github.com/gin-gonic/gin"
)

func (h *Handler) postsList(c *gin.Context) {
	h.driveList(c, h.publicList)
}

func (h *Handler) postsListMine(c *gin.Context) {
	if h.sessions.Current() == nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, "please log in to continue"))
		return
	}
	h.driveList(c, h.myList)
}

func (h *Handler) driveList(c *gin.Context, list *view.ListView) {
	page := 1
	if pageString := strings.TrimSpace(c.Query("page")); pageString != "" {
		parsed, err := strconv.Atoi(pageString)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPage.Error()))
			return
		}
		page = parsed
	}
	search := strings.TrimSpace(c.Query("search"))

	current := list.Render()
	ctx := c.Request.Context()

	var err error
	switch {
	case search != current.Query:
		err = list.Search(ctx, search)
		if err == nil && page != 1 {
			err = list.GoToPage(ctx, page)
		}
	case page != current.Page:
		err = list.GoToPage(ctx, page)
	default:
		err = list.Load(ctx)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list.Render())
}

// postsDetail loads the post page. The previously displayed post's view is
// closed so its late fetch results are discarded.
func (h *Handler) postsDetail(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidSlug.Error()))
		return
	}

	postView := view.NewPostView(h.gateway, h.sessions, h.logger, slug)

	h.mu.Lock()
	if h.postView != nil {
		h.postView.Close()
	}
	h.postView = postView
	h.mu.Unlock()

	if err := postView.Load(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}

	readModel, err := postView.Render()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, readModel)
}

func (h *Handler) postsCreate(c *gin.Context) {
	if h.sessions.Current() == nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, "please log in to continue"))
		return
	}

	input, err := h.postFormFromRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	post, err := h.gateway.CreatePost(c.Request.Context(), *input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsEdit(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	if h.sessions.Current() == nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, "please log in to continue"))
		return
	}

	input, err := h.postFormFromRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	post, err := h.gateway.UpdatePost(c.Request.Context(), slug, *input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsDelete(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	if h.sessions.Current() == nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, "please log in to continue"))
		return
	}

	if err := h.gateway.DeletePost(c.Request.Context(), slug); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) postFormFromRequest(c *gin.Context) (*dto.CreatePostDto, error) {
	input := dto.CreatePostDto{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		IsPublished: c.PostForm("is_published") == "true",
	}
	if input.Title == "" || input.Description == "" {
		return nil, errTitleAndDescriptionRequired
	}

	fileHeader, err := c.FormFile("image")
	if err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			h.logger.Sugar().Errorf("failed to open uploaded image: %s", err.Error())
			return nil, errInvalidImage
		}
		input.ImageName = fileHeader.Filename
		input.Image = file
	}

	return &input, nil
}
