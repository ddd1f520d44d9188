package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/hossamkoky599/crowdfund/docs"
	"github.com/hossamkoky599/crowdfund/internal/config"
	"github.com/hossamkoky599/crowdfund/internal/middleware"
	"github.com/hossamkoky599/crowdfund/internal/modules/handler"
	"github.com/hossamkoky599/crowdfund/internal/modules/serializer"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Config            *config.Config
	DB                *gorm.DB
	Log               *zap.Logger
	AccountHandler    *handler.AccountHandler
	ProjectHandler    *handler.ProjectHandler
	DonationHandler   *handler.DonationHandler
	RatingHandler     *handler.RatingHandler
	EngagementHandler *handler.EngagementHandler
	FeedHandler       *handler.FeedHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	// Initialize logger for serializer package
	serializer.SetLogger(d.Log)

	r := gin.New()
	r.Use(gin.Recovery())

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(middleware.OtelTracing(d.Config.App.Name))
		r.Use(middleware.TraceID())
	}

	r.Use(middleware.ZapLogger(d.Log))
	r.Use(cors.Default())

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// ping endpoint
		v1.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "pong"}) })

		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.AccountHandler.Register)
			auth.GET("/activate/:key", d.AccountHandler.Activate)
			auth.POST("/login", d.AccountHandler.Login)
			auth.POST("/password-reset", d.AccountHandler.RequestPasswordReset)
			auth.POST("/password-reset/:key", d.AccountHandler.ConfirmPasswordReset)
		}

		// public read surface
		v1.GET("/home", d.FeedHandler.Home)
		v1.GET("/search", d.FeedHandler.Search)
		v1.GET("/projects/:project_id", d.ProjectHandler.GetProject)
		v1.GET("/projects/:project_id/similar", d.ProjectHandler.SimilarProjects)
		v1.GET("/projects/:project_id/donations", d.DonationHandler.ListProjectDonations)
		v1.GET("/projects/:project_id/rating", d.RatingHandler.ProjectRating)
		v1.GET("/projects/:project_id/comments", d.EngagementHandler.ListComments)

		authed := v1.Group("")
		{
			authed.Use(middleware.UserAuth(d.Config, d.DB))

			me := authed.Group("/users/me")
			{
				me.GET("", d.AccountHandler.Profile)
				me.PUT("", d.AccountHandler.UpdateProfile)
				me.GET("/extra", d.AccountHandler.ExtraInfo)
				me.PUT("/extra", d.AccountHandler.UpdateExtraInfo)
				me.GET("/donations", d.DonationHandler.ListMyDonations)
			}

			project := authed.Group("/projects")
			{
				project.POST("", d.ProjectHandler.CreateProject)
				project.PUT("/:project_id", d.ProjectHandler.UpdateProject)
				project.DELETE("/:project_id", d.ProjectHandler.CancelProject)
				project.POST("/:project_id/images", d.ProjectHandler.AttachImage)

				project.POST("/:project_id/donations", d.DonationHandler.Donate)
				project.PUT("/:project_id/rating", d.RatingHandler.Rate)
				project.POST("/:project_id/comments", d.EngagementHandler.AddComment)
			}

			authed.DELETE("/comments/:comment_id", d.EngagementHandler.DeleteComment)
			authed.POST("/reports", d.EngagementHandler.Report)
		}
	}
	return r
}
