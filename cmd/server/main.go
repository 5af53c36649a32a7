package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/schemastudio/backend/internal/application/services"
	"github.com/schemastudio/backend/internal/interfaces/middleware"
	"github.com/schemastudio/backend/internal/interfaces/rest"
)

func main() {
	// Load .env if present, real environment wins
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	cfg := services.Config{
		WorkspaceDir: envOr("WORKSPACE_DIR", "data/workspace"),
		AIBaseURL:    os.Getenv("AI_API_BASE"),
		AIKey:        os.Getenv("AI_API_KEY"),
		AIModel:      envOr("AI_MODEL", "gpt-4o-mini"),
	}

	svcMgr, err := services.NewServiceManager(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	log.Println("🔧 Service manager initialized")

	// Create Gin router
	router := gin.Default()

	// CORS middleware - Allow credentials from any origin
	router.Use(middleware.Cors())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"server": "golang",
		})
	})

	// Initialize handlers
	documentHandler := rest.NewDocumentHandler(svcMgr)
	schemaHandler := rest.NewSchemaHandler(svcMgr)
	suggestHandler := rest.NewSuggestHandler(svcMgr)
	workspaceHandler := rest.NewWorkspaceHandler(svcMgr)

	// API routes
	api := router.Group("/api")
	{
		document := api.Group("/document")
		{
			document.GET("", documentHandler.GetDocument)
			document.PUT("", documentHandler.ReplaceDocument)
			document.POST("/import", documentHandler.ImportDocument)
			document.GET("/export", documentHandler.ExportDocument)
			document.POST("/validate", documentHandler.ValidateDocument)
		}

		entities := api.Group("/entities")
		{
			entities.POST("", schemaHandler.CreateEntity)
			entities.DELETE("/:key", schemaHandler.DeleteEntity)
			entities.POST("/:key/select", schemaHandler.SelectEntity)
			entities.PUT("/:key/properties", schemaHandler.UpsertProperty)
			entities.DELETE("/:key/properties/:name", schemaHandler.DeleteProperty)
			entities.POST("/:key/required/:name", schemaHandler.AddRequired)
			entities.DELETE("/:key/required/:name", schemaHandler.RemoveRequired)
			entities.POST("/:key/primary-key/:name", schemaHandler.AddPrimaryKey)
			entities.DELETE("/:key/primary-key/:name", schemaHandler.RemovePrimaryKey)
		}

		api.POST("/ai/suggest", suggestHandler.Suggest)

		workspaceGroup := api.Group("/workspace")
		{
			workspaceGroup.GET("", workspaceHandler.ListFiles)
			workspaceGroup.POST("/:name", workspaceHandler.SaveCurrent)
			workspaceGroup.GET("/:name", workspaceHandler.GetFile)
			workspaceGroup.POST("/:name/load", workspaceHandler.LoadFile)
			workspaceGroup.DELETE("/:name", workspaceHandler.DeleteFile)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Schema editor backend starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := svcMgr.Close(); err != nil {
		log.Printf("⚠️ Failed to close services: %v", err)
	}

	log.Println("✅ Server exited")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
