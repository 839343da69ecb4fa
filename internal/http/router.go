package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BIGvic-Coder/task-manager-api/internal/domain"
	"github.com/BIGvic-Coder/task-manager-api/internal/metrics"
)

// RouterDeps agrupa handlers y piezas transversales del router.
type RouterDeps struct {
	Logger         *zap.Logger
	Verifier       TokenVerifier
	Metrics        metrics.Recorder
	MetricsHandler http.Handler
	CORSOrigin     string

	Auth     *AuthHandler
	Tasks    *TaskHandler
	Projects *ProjectHandler
	Activity *ActivityLogHandler
	Users    *UserHandler
	Health   *HealthHandler
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(d RouterDeps) *gin.Engine {
	if d.Metrics == nil {
		d.Metrics = metrics.Nop{}
	}
	useJSONFieldNames()

	r := gin.New()
	r.Use(zapLoggerMiddleware(d.Logger), recoveryMiddleware(d.Logger), corsMiddleware(d.CORSOrigin), metricsMiddleware(d.Metrics))

	if d.Health != nil {
		r.GET("/", d.Health.Banner)
		r.GET("/healthz", d.Health.Live)
		r.GET("/readyz", d.Health.Ready)
	}
	if d.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(d.MetricsHandler))
	}

	auth := r.Group("/auth", jsonContentTypeMiddleware())
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	if d.Auth.auth.OAuthEnabled() {
		auth.GET("/google", d.Auth.GoogleLogin)
		auth.GET("/google/callback", d.Auth.GoogleCallback)
	} else {
		d.Logger.Warn("google oauth disabled: GOOGLE_CLIENT_ID not set")
	}

	api := r.Group("/api", jsonContentTypeMiddleware(), JWTAuthMiddleware(d.Verifier, d.Metrics))
	adminOnly := RequireRole(domain.RoleAdmin, d.Metrics)

	tasks := api.Group("/tasks")
	tasks.GET("", d.Tasks.List)
	tasks.POST("", d.Tasks.Create)
	tasks.GET("/:id", d.Tasks.Get)
	tasks.PUT("/:id", d.Tasks.Update)
	tasks.DELETE("/:id", d.Tasks.Delete)

	projects := api.Group("/projects")
	projects.GET("", d.Projects.List)
	projects.POST("", d.Projects.Create)
	projects.GET("/:id", d.Projects.Get)
	projects.PUT("/:id", d.Projects.Update)
	projects.DELETE("/:id", d.Projects.Delete)

	logs := api.Group("/activity-logs", adminOnly)
	logs.GET("", d.Activity.List)
	logs.POST("", d.Activity.Create)
	logs.GET("/:id", d.Activity.Get)

	users := api.Group("/users")
	users.GET("", adminOnly, d.Users.List)
	users.GET("/:id", d.Users.Get)
	users.PUT("/:id", d.Users.Update)
	users.DELETE("/:id", adminOnly, d.Users.Delete)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// recoveryMiddleware convierte panics en 500 con el cuerpo estandar.
func recoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
	})
}

// corsMiddleware responde preflights con 204.
func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", allowedOrigin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		h.Set("Access-Control-Max-Age", "86400")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// metricsMiddleware mide la latencia por ruta registrada.
func metricsMiddleware(rec metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
