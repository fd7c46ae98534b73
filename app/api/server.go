package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/astrolearn/app/auth"
)

const (
	sessionCookie = "astrolearn_session"
	sessionKey    = "session"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/", handler.GetIndex)
	r.GET("/objects/:id", handler.GetObject)
	r.GET("/categories", handler.GetCategories)

	r.GET("/survey", handler.GetSurvey)
	r.POST("/survey", handler.PostSurvey)

	r.POST("/api/chatbot", handler.PostChatbot)

	r.GET("/health", handler.GetHealth)

	admin := r.Group("/admin")
	{
		admin.POST("/login", handler.PostLogin)
		admin.POST("/logout", handler.PostLogout)

		protected := admin.Group("")
		protected.Use(authMiddleware(handler.auth))
		{
			protected.GET("/dashboard", handler.GetDashboard)
			protected.POST("/ingest", handler.PostIngest)
		}
	}

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

// authMiddleware resolves the session token from the session cookie or an
// Authorization: Bearer header and stores the session on the context.
func authMiddleware(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication required",
				"message": "Log in at /admin/login and send the token as a cookie or Authorization: Bearer <token>",
			})
			c.Abort()
			return
		}

		session, err := authService.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired session",
			})
			c.Abort()
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if token, err := c.Cookie(sessionCookie); err == nil && token != "" {
		return token
	}

	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

func sessionFrom(c *gin.Context) *auth.Session {
	value, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := value.(*auth.Session)
	return session
}
