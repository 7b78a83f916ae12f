package handler

import (
	"errors"
	"net/http"
	"sync"

	"github.com/BloggingApp/blog-client/internal/comments"
	"github.com/BloggingApp/blog-client/internal/dto"
	"github.com/BloggingApp/blog-client/internal/gateway"
	"github.com/BloggingApp/blog-client/internal/session"
	"github.com/BloggingApp/blog-client/internal/view"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Handler is the thin surface the browser talks to. It keeps one PostView
// for the post currently on screen and one ListView per feed; everything
// else is delegated to the views and the gateway.
type Handler struct {
	gateway  *gateway.Client
	sessions *session.Store
	logger   *zap.Logger

	publicList *view.ListView
	myList     *view.ListView

	mu       sync.Mutex
	postView *view.PostView
}

func New(gw *gateway.Client, sessions *session.Store, logger *zap.Logger) *Handler {
	return &Handler{
		gateway:    gw,
		sessions:   sessions,
		logger:     logger,
		publicList: view.NewListView(gw, logger, false),
		myList:     view.NewListView(gw, logger, true),
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{viper.GetString("client.origin")},
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
		AllowCredentials: true,
	}))

	v1 := r.Group("/api/v1")
	{
		posts := v1.Group("/posts")
		{
			posts.GET("", h.postsList)
			posts.GET("/my", h.postsListMine)
			posts.POST("", h.postsCreate)

			post := posts.Group("/:slug")
			{
				post.GET("", h.postsDetail)
				post.POST("/comments", h.commentsCreate)
				post.PUT("/manage", h.postsEdit)
				post.DELETE("/manage", h.postsDelete)
			}
		}

		commentGroup := v1.Group("/comments/:id")
		{
			commentGroup.DELETE("", h.commentsDelete)
			commentGroup.POST("/replies", h.repliesCreate)
			commentGroup.POST("/expand", h.commentsExpand)
			commentGroup.POST("/collapse", h.commentsCollapse)
		}

		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.authLogin)
			auth.POST("/logout", h.authLogout)
			auth.POST("/password-reset", h.authPasswordReset)
		}

		v1.GET("/session", h.sessionInfo)
	}

	return r
}

// currentPostView returns the view of the post on screen, or nil when none
// is displayed.
func (h *Handler) currentPostView() *view.PostView {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.postView
}

// respondError maps a failure to a status code and the standard error body.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, view.ErrNotLoggedIn) || gateway.IsUnauthorized(err):
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, "please log in to continue"))
	case errors.Is(err, comments.ErrUnknownNode) || gateway.IsNotFound(err):
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, err.Error()))
	case gateway.KindOf(err) == gateway.KindValidation:
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
	case gateway.KindOf(err) == gateway.KindNetwork || gateway.KindOf(err) == gateway.KindServer:
		c.JSON(http.StatusBadGateway, dto.NewBasicResponse(false, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, err.Error()))
	}
}
