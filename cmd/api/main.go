package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/adam-tarek99/blog-api/internal/database"
	"github.com/adam-tarek99/blog-api/internal/handlers"
	"github.com/adam-tarek99/blog-api/internal/middleware"
	"github.com/adam-tarek99/blog-api/internal/monitoring"
	"github.com/adam-tarek99/blog-api/internal/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := utils.EnsureJWTReady(); err != nil {
		log.Fatal("JWT configuration error: ", err)
	}

	if err := database.InitDB(); err != nil {
		log.Fatal("Database error: ", err)
	}
	defer database.CloseDB()

	if err := database.CreateTables(); err != nil {
		log.Fatal("Schema error: ", err)
	}

	handlers.SetMonitoringService(monitoring.NewService(time.Now()))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(monitoring.RequestMetricsMiddleware())

	router.GET("/health", handlers.HealthCheck)
	router.GET("/api/status", handlers.Status)

	users := router.Group("/api/users")
	{
		users.POST("/register", handlers.Register)
		users.POST("/login", handlers.Login)
		users.GET("/profile", middleware.AuthMiddleware(), handlers.Profile)
	}

	posts := router.Group("/api/posts")
	{
		posts.POST("", middleware.AuthMiddleware(), handlers.CreatePost)
		posts.GET("", middleware.AuthMiddleware(), handlers.GetPosts)
		posts.GET("/my-posts", middleware.AuthMiddleware(), handlers.GetMyPosts)
		posts.GET("/single-posts/:id", handlers.GetPostByID)
		posts.PUT("/u/:id", middleware.AuthMiddleware(), handlers.UpdatePost)
		posts.DELETE("/u/:id", middleware.AuthMiddleware(), handlers.DeletePost)
		posts.PUT("/like/:id", middleware.AuthMiddleware(), handlers.ToggleLike)
	}

	comments := router.Group("/api/comments")
	{
		comments.POST("", middleware.AuthMiddleware(), handlers.CreateComment)
		comments.GET("/:postId", handlers.GetCommentsByPost)
		comments.PUT("/:id", middleware.AuthMiddleware(), handlers.UpdateComment)
	}

	monitor := router.Group("/api/monitor")
	{
		monitor.GET("/status", handlers.MonitorStatus)
		monitor.GET("/connections", handlers.MonitorConnections)
		monitor.GET("/runtime", handlers.MonitorRuntime)
		monitor.GET("/users", handlers.MonitorUsers)
		monitor.GET("/users-list", handlers.MonitorUsersList)
		monitor.GET("/snapshot", handlers.MonitorSnapshot)
		monitor.GET("/all", handlers.MonitorAll)
		monitor.DELETE("/users", handlers.MonitorDeleteUserByEmail)
	}

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	log.Printf("Blog API starting on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server failed to start: ", err)
	}
}
