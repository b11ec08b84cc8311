package routes

import (
	"tattoola/api/handlers"
	"tattoola/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	ServiceName     string
	AdminToken      string
	TrustUserHeader bool
}

func PublicApi(router *gin.Engine, opts Options) *gin.RouterGroup {
	router.Use(middleware.PrometheusMiddleware(opts.ServiceName))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	publicEndpoints := router.Group("/api/v1/")
	{
		publicEndpoints.POST("auth/register", handlers.Register)
		publicEndpoints.POST("auth/login", handlers.Login)
		publicEndpoints.GET("metrics", gin.WrapH(promhttp.Handler()))
	}

	authorized := publicEndpoints.Group("")
	authorized.Use(middleware.AuthMiddleware(opts.TrustUserHeader))
	{
		authorized.POST("auth/logout", handlers.Logout)
		authorized.GET("users/:id", handlers.UserGet)

		// Лента и посты
		authorized.GET("feed", handlers.GetFeed)
		authorized.POST("posts/create", handlers.CreatePost)
		authorized.GET("posts/:post_id", handlers.GetPost)
		authorized.DELETE("posts/:post_id", handlers.DeletePost)
		authorized.POST("posts/:post_id/like", handlers.TogglePostLike)
		authorized.GET("ws/feed", handlers.WSFeedHandler)

		// Подписки
		authorized.POST("follows/:user_id", handlers.Follow)
		authorized.DELETE("follows/:user_id", handlers.Unfollow)
		authorized.GET("follows", handlers.GetFollowing)

		// Мастера регистрации
		authorized.POST("profile/user", handlers.CompleteUserProfile)
		authorized.POST("profile/artist", handlers.CompleteArtistProfile)
		authorized.POST("studios", handlers.CreateStudio)
		authorized.GET("drafts/:key", handlers.GetDraft)
		authorized.PUT("drafts/:key", handlers.PutDraft)
		authorized.DELETE("drafts/:key", handlers.DeleteDraft)

		// Приватные запросы
		authorized.POST("requests", handlers.CreateRequest)
		authorized.GET("requests/incoming", handlers.GetIncomingRequests)
	}

	admin := publicEndpoints.Group("admin")
	admin.Use(middleware.AdminMiddleware(opts.AdminToken))
	{
		admin.POST("feed/:user_id/invalidate", handlers.InvalidateUserFeed)
		admin.POST("feed/:user_id/rebuild", handlers.RebuildUserFeed)
		admin.POST("posts/:post_id/reconcile", handlers.ReconcilePostLikes)
		admin.GET("queue/stats", handlers.GetQueueStats)
	}
	return publicEndpoints
}
