package httpapi

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sarkie/sarkie-backend/internal/filex"
)

func (s *HTTPServer) newRouter() *gin.Engine {
	r := gin.New()

	r.Use(s.recovery())
	r.Use(requestID())
	r.Use(s.accessLog())
	if s.metrics != nil {
		r.Use(s.observe())
	}
	r.Use(cors.New(s.corsConfig()))
	r.Use(s.optionalAuth())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Backend is running!")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", s.register)
		authGroup.POST("/send-verification-code", s.sendCode)
		authGroup.POST("/verify-code", s.verifyCode)
		authGroup.POST("/login", s.login)
		authGroup.GET("/me", s.requireAuth(), s.me)
	}

	r.POST("/chat", s.rateLimit(), s.chat)

	convGroup := r.Group("/conversations")
	{
		convGroup.POST("", s.appendMessage)
		convGroup.GET("/:user_id", s.listMessages)
	}

	suppGroup := r.Group("/supplements")
	{
		suppGroup.POST("", s.createSupplement)
		suppGroup.GET("/:user_id", s.listSupplements)
		suppGroup.PUT("/:id", s.updateSupplement)
		suppGroup.DELETE("/:id", s.deleteSupplement)
		suppGroup.POST("/user-effects", s.addEffect)
		suppGroup.GET("/user-effects/:user_id", s.listEffects)
		suppGroup.DELETE("/user-effects/:effect_id", s.deleteEffect)
		suppGroup.GET("/user-supplements/:user_id", s.listSupplementsWithEffects)
	}

	memGroup := r.Group("/memories")
	{
		memGroup.GET("/:user_id", s.getMemory)
		memGroup.PUT("/:user_id", s.setMemory)
		memGroup.DELETE("/:user_id", s.clearMemory)
	}

	r.NoRoute(s.noRoute)

	return r
}

func (s *HTTPServer) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// noRoute serves the built web client when a static directory is configured,
// falling back to index.html so client-side routes resolve.
func (s *HTTPServer) noRoute(c *gin.Context) {
	if s.cfg.StaticDir == "" || c.Request.Method != http.MethodGet {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	candidate := filex.JoinUnder(s.cfg.StaticDir, c.Request.URL.Path)
	if filex.IsRegularFile(candidate) {
		c.File(candidate)
		return
	}

	index := filepath.Join(s.cfg.StaticDir, "index.html")
	if !filex.IsRegularFile(index) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.File(index)
}
