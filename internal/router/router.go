package router

import (
	"personal-blog/internal/config"
	"personal-blog/internal/handler"
	"personal-blog/internal/middleware"
	"personal-blog/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures Gin engine, templates and static resources.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	return New(cfg, db, "web/templates/*")
}

// New is SetupRouter with an explicit template glob, so tests can run
// from their own working directory.
func New(cfg *config.Config, db *gorm.DB, templateGlob string) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// static files and templates
	r.Static("/static", "./web/static")
	r.LoadHTMLGlob(templateGlob)

	users := store.NewUsers(db)
	posts := store.NewPosts(db)
	sessions := store.NewSessions(db, cfg.Session.ExpireHours, cfg.Session.RememberDays)

	authHandler := handler.NewAuthHandler(users, sessions,
		cfg.Session.Secret, cfg.Session.CookieName, cfg.Security.BcryptCost)
	postHandler := handler.NewPostHandler(posts, cfg.App.PageSize)
	profileHandler := handler.NewProfileHandler(users, posts)

	// every route resolves the session cookie; public pages just render
	// differently for anonymous visitors
	r.Use(middleware.CurrentUser(cfg.Session.Secret, cfg.Session.CookieName, sessions, users))

	r.GET("/", postHandler.Home)
	r.GET("/post/:id", postHandler.Detail)

	r.GET("/register", authHandler.ShowRegister)
	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)

	protected := r.Group("")
	protected.Use(middleware.RequireLogin())

	protected.GET("/logout", authHandler.Logout)

	protected.GET("/profile", profileHandler.Show)
	protected.POST("/profile", profileHandler.Update)
	protected.GET("/profile/export", profileHandler.Export)

	protected.GET("/post/new", postHandler.ShowCreate)
	protected.POST("/post/new", postHandler.Create)
	protected.GET("/post/:id/update", postHandler.ShowUpdate)
	protected.POST("/post/:id/update", postHandler.Update)
	protected.GET("/post/:id/delete", postHandler.ShowDelete)
	protected.POST("/post/:id/delete", postHandler.Delete)

	return r
}
