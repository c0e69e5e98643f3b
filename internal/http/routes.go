package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.Use(Observe())
	// Recovery sits inside Observe so a panic is counted as the 500 it
	// turns into
	r.Use(gin.Recovery())

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", h.RateLimit("signup"), h.Signup)
		auth.POST("/login", h.RateLimit("login"), h.Login)
		auth.POST("/logout", h.RequireAuth(), h.Logout)
		auth.GET("", h.RequireAuth(), h.Me)
	}

	gists := r.Group("/api/gists")
	{
		gists.GET("", h.RequireAuth(), h.ListGists)
		gists.POST("", h.RequireAuth(), h.CreateGist)
		gists.GET("/:id", h.RequireAuth(), h.GetGist)
		gists.PUT("/:id", h.RequireAuth(), h.UpdateGist)
		gists.DELETE("/:id", h.RequireAuth(), h.DeleteGist)

		gists.GET("/:id/favorite", h.RequireAuth(), h.CheckFavorite)
		gists.POST("/:id/favorite", h.RequireAuth(), h.AddFavorite)
		gists.DELETE("/:id/favorite", h.RequireAuth(), h.RemoveFavorite)

		// listing only needs a session when the gist is private
		gists.GET("/:id/comments", h.OptionalAuth(), h.ListComments)
		gists.POST("/:id/comments", h.RequireAuth(), h.CreateComment)
	}

	r.GET("/api/favorites", h.RequireAuth(), h.ListFavorites)

	profile := r.Group("/api/profile", h.RequireAuth())
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.DELETE("", h.DeleteProfile)
	}

	return r
}
