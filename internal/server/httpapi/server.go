// Package httpapi exposes the user management service over HTTP with gin.
// Handlers stay thin: bind, validate, delegate to a service, map errors.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/userhub/internal/logging"
	"github.com/dmitrijs2005/userhub/internal/server/models"
	"github.com/dmitrijs2005/userhub/internal/server/services"
)

// AuthService is the authentication surface the HTTP layer depends on.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Resolve(ctx context.Context, accessToken string) (*models.TokenData, error)
}

// UserService is the user management surface the HTTP layer depends on.
type UserService interface {
	CreateUser(ctx context.Context, in services.CreateUserInput) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context, page, size int, search string, isActive *bool) (*services.UserPage, error)
	UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	DeactivateUser(ctx context.Context, id int64) error
	ActivateUser(ctx context.Context, id int64) (*models.User, error)
	HardDeleteUser(ctx context.Context, id int64) error
	ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error
}

// AvatarService signs direct-to-storage avatar upload URLs.
type AvatarService interface {
	UploadURL(ctx context.Context) (key string, url string, err error)
}

// Pinger reports database connectivity for the detailed health check.
// *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	router  *gin.Engine
	httpSrv *http.Server
	logger  logging.Logger

	auth    AuthService
	users   UserService
	avatars AvatarService
	db      Pinger
}

func NewServer(addr string, logger logging.Logger, auth AuthService, users UserService, avatars AvatarService, db Pinger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router:  router,
		logger:  logger,
		auth:    auth,
		users:   users,
		avatars: avatars,
		db:      db,
	}
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/health/detailed", s.healthDetailed)

	v1 := s.router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/login", s.login)
	authGroup.POST("/refresh", s.refresh)
	authGroup.POST("/logout", s.logout)

	userGroup := v1.Group("/users")
	userGroup.POST("/", s.register)

	protected := userGroup.Group("", s.authRequired())
	protected.GET("/", s.listUsers)
	protected.GET("/me", s.getMe)
	protected.PUT("/me", s.updateMe)
	protected.POST("/me/change-password", s.changePassword)
	protected.POST("/me/avatar-upload-url", s.avatarUploadURL)
	protected.GET("/:id", s.getUser)
	protected.PUT("/:id", s.updateUser)
	protected.DELETE("/:id", s.deactivateUser)
	protected.DELETE("/:id/hard", s.hardDeleteUser)
	protected.POST("/:id/activate", s.activateUser)
}

// healthDetailed also verifies database connectivity; a failing ping
// degrades the report to 503.
func (s *Server) healthDetailed(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil || s.db.PingContext(ctx) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "disconnected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "connected"})
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ListenAndServe returns. http.ErrServerClosed after a
// Shutdown call is reported as a clean exit.
func (s *Server) Run() error {
	s.logger.Info(context.Background(), "http server starting", "addr", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
