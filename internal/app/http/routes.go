package routes

import (
	"net/http"
	"time"

	"image-api/internal/api/images"
	"image-api/internal/app/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deps struct {
	DB         *gorm.DB
	Images     *images.Handler
	Log        *zap.Logger
	JWTSecret  string
	CORSOrigin string
}

// NewEngine builds the gin engine with the global middleware chain and all
// routes registered.
func NewEngine(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(d.Log), middleware.Recovery(d.Log))
	r.Use(cors.New(corsConfig(d.CORSOrigin)))

	RegisterRoutes(r, d)
	return r
}

func corsConfig(origin string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if origin == "" || origin == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{origin}
		cfg.AllowCredentials = true
	}
	return cfg
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", health(d.DB))

	api := r.Group("/api")

	imgs := api.Group("/images")
	imgs.GET("/", d.Images.List)
	imgs.GET("/:id/", d.Images.Retrieve)

	writes := imgs.Group("")
	if d.JWTSecret != "" {
		writes.Use(middleware.AuthMiddleware(d.JWTSecret))
	}
	writes.Use(middleware.SanitizeAndCleanInputMiddleware())
	writes.POST("/", d.Images.Create)
	writes.PUT("/:id/", d.Images.Update)
	writes.PATCH("/:id/", d.Images.PartialUpdate)
	writes.DELETE("/:id/", d.Images.Delete)
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
