// Package contentapi is a content-management backend exposing blog posts and
// contact messages over a JSON REST API, consumed by an admin UI and a public
// site. Post metadata lives in SQLite; each post owns exactly one image asset
// on the filesystem. Slugs are derived from titles and kept unique by the
// store; view counters increment atomically at the storage layer.
package contentapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// App wires together the store, asset store, cache, middleware, and routes.
type App struct {
	Config Config
	Echo   *echo.Echo
	Store  *Store
	Assets *AssetStore
	Logger *slog.Logger

	cache        *summaryCache
	validate     *validator.Validate
	loginLimiter *loginLimiter
	locks        postLocks
}

// New creates an App with the given configuration. Call Init (or Start) to
// open the store and register routes.
func New(cfg Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		Config: cfg,
		Echo:   echo.New(),
		Logger: logger,
	}
}

// Init validates config and initializes the store, asset store, cache,
// limiter, middleware, and routes, without starting the listener.
func (a *App) Init() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("contentapi: ADMIN_PASSWORD is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("contentapi: SESSION_SECRET is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("contentapi: init store: %w", err)
	}
	a.Store = store

	assets, err := NewAssetStore(a.Config.UploadDir, a.Logger)
	if err != nil {
		return fmt.Errorf("contentapi: init asset store: %w", err)
	}
	a.Assets = assets

	a.cache = newSummaryCache(a.Store, a.Config.SummaryCacheTTL)
	a.validate = newValidator()
	a.loginLimiter = newLoginLimiter(0.2, 5)

	a.Echo.HideBanner = true
	a.setupMiddleware()
	a.setupRoutes()
	return nil
}

// Start initializes the app and serves until the listener stops.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Stored assets are served statically under a predictable path keyed by
	// filename.
	e.Static("/uploads/blogs", a.Assets.Dir())

	e.GET("/healthz", a.handleHealth)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)

	e.POST("/auth/login", a.handleLogin)
	e.POST("/auth/logout", a.handleLogout)

	e.GET("/blogs", a.handleListBlogs)
	e.GET("/blogs/:slug", a.handleGetBlog)
	e.POST("/blogs", a.handleCreateBlog, a.requireAdmin)
	e.PUT("/blogs/:id", a.handleUpdateBlog, a.requireAdmin)
	e.DELETE("/blogs/:id", a.handleDeleteBlog, a.requireAdmin)

	e.POST("/contact", a.handleCreateContact)
	e.GET("/contact", a.handleListContacts, a.requireAdmin)
	e.GET("/contact/:id", a.handleGetContact, a.requireAdmin)
	e.PUT("/contact/:id/status", a.handleUpdateContactStatus, a.requireAdmin)
	e.DELETE("/contact/:id", a.handleDeleteContact, a.requireAdmin)
}

func (a *App) handleHealth(c echo.Context) error {
	return respondData(c, http.StatusOK, map[string]string{"status": "ok"})
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// postLocks serializes asset replace/delete sequences per post id so two
// concurrent updates cannot interleave their filesystem steps.
type postLocks struct {
	m sync.Map
}

func (l *postLocks) lock(id string) func() {
	v, _ := l.m.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
