package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"inkwell/config"
	"inkwell/controllers"
	"inkwell/middleware"
	"inkwell/repository"
	"inkwell/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(repos *repository.Repositories) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Request noise goes to a dedicated rolling access log
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Use(middleware.CurrentUser())
	r.Use(middleware.CSRF())

	r.LoadHTMLGlob(cfg.TemplatesGlob)
	r.Static("/static", cfg.StaticDir)
	r.Static("/media", cfg.MediaDir)

	postController := controllers.NewPostController(repos)
	commentController := controllers.NewCommentController(repos)
	categoryController := controllers.NewCategoryController(repos)
	profileController := controllers.NewProfileController(repos)
	authController := controllers.NewAuthController(repos)
	pageController := controllers.NewPageController()

	r.GET("/", postController.Index)

	posts := r.Group("/posts")
	posts.GET("/create/", middleware.LoginRequired(), postController.CreateForm)
	posts.POST("/create/", middleware.LoginRequired(), postController.Create)
	posts.GET("/:id/", postController.Detail)
	posts.GET("/:id/edit/", middleware.LoginRequired(), postController.EditForm)
	posts.POST("/:id/edit/", middleware.LoginRequired(), postController.Edit)
	posts.POST("/:id/delete/", middleware.LoginRequired(), postController.Delete)
	posts.POST("/:id/comments/", middleware.LoginRequired(), commentController.Add)
	posts.GET("/:id/edit_comment/:cid/", middleware.LoginRequired(), commentController.EditForm)
	posts.POST("/:id/edit_comment/:cid/", middleware.LoginRequired(), commentController.Edit)
	posts.POST("/:id/delete_comment/:cid/", middleware.LoginRequired(), commentController.Delete)

	r.GET("/category/:slug/", categoryController.Listing)

	r.GET("/profile/:username/", profileController.Show)
	r.GET("/profile/:username/edit/", middleware.LoginRequired(), profileController.EditForm)
	r.POST("/profile/:username/edit/", middleware.LoginRequired(), profileController.Edit)

	auth := r.Group("/auth")
	auth.Use(middleware.RateLimitMiddleware())
	auth.GET("/login/", authController.LoginForm)
	auth.POST("/login/", authController.Login)
	auth.POST("/logout/", authController.Logout)
	auth.GET("/registration/", authController.RegistrationForm)
	auth.POST("/registration/", authController.Register)
	auth.GET("/oauth/:provider/login", authController.OAuthRedirect)
	auth.GET("/oauth/:provider/callback", authController.OAuthCallback)

	r.GET("/pages/about/", pageController.About)
	r.GET("/pages/rules/", pageController.Rules)

	r.NoRoute(pageController.NotFound)

	return r
}
