package handler

import (
	"net/http"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Options struct {
	AccessSecret string
	ClientOrigin string
}

type Handler struct {
	services     *service.Service
	logger       *zap.Logger
	accessSecret []byte
	clientOrigin string
	upgrader     websocket.Upgrader
}

func New(services *service.Service, logger *zap.Logger, opts Options) *Handler {
	h := &Handler{
		services:     services,
		logger:       logger,
		accessSecret: []byte(opts.AccessSecret),
		clientOrigin: opts.ClientOrigin,
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: h.checkOrigin,
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || origin == h.clientOrigin
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("votetype", func(fl validator.FieldLevel) bool {
			return model.VoteType(fl.Field().String()).Valid()
		})
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{h.clientOrigin},
		AllowMethods:     []string{"POST", "GET", "DELETE"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		posts := v1.Group("/posts")
		{
			posts.POST("", h.authMiddleware, h.postsCreate)
			posts.GET("", h.postsList)

			post := posts.Group("/:postID")
			{
				post.GET("", h.notRequiredAuthMiddleware, h.postsGetByID)
				post.DELETE("", h.authMiddleware, h.postsDelete)
				post.POST("/vote", h.authMiddleware, h.postsVote)
			}
		}

		comments := v1.Group("/comments")
		{
			comments.POST("", h.authMiddleware, h.commentsCreate)

			postComments := comments.Group("/:postID")
			{
				postComments.GET("", h.commentsGet)

				comment := postComments.Group("/:commentID")
				{
					comment.DELETE("", h.authMiddleware, h.commentsDelete)
					comment.POST("/vote", h.authMiddleware, h.commentsVote)
				}
			}
		}

		liveGroup := v1.Group("/live")
		{
			liveGroup.GET("/posts", h.liveFeed)
			liveGroup.GET("/posts/:postID/comments", h.liveComments)
		}

		users := v1.Group("/users")
		{
			users.GET("/me", h.authMiddleware, h.usersMe)
		}
	}

	return r
}

func (h *Handler) getUserFromRequest(c *gin.Context) *model.CachedUser {
	userReq, exists := c.Get("user")
	if !exists {
		return nil
	}

	user, ok := userReq.(model.CachedUser)
	if !ok {
		return nil
	}

	return &user
}
