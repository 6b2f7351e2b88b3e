package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dukerupert/coursehub/internal/auth"
	"github.com/dukerupert/coursehub/internal/config"
	"github.com/dukerupert/coursehub/internal/email"
	"github.com/dukerupert/coursehub/internal/feed"
	"github.com/dukerupert/coursehub/internal/handler"
	"github.com/dukerupert/coursehub/internal/middleware"
	"github.com/dukerupert/coursehub/internal/model"
	"github.com/dukerupert/coursehub/internal/store"
)

type Server struct {
	db           *sql.DB
	cfg          config.Config
	hub          *feed.Hub
	gate         *auth.Gate
	sessionStore *store.SessionStore
	loginLimiter *auth.LoginLimiter
	formLimiter  *middleware.RateLimiter
	clientIP     func(*http.Request) string
	authH        *handler.AuthHandler
	adminH       *handler.AdminHandler
	courseH      *handler.CourseHandler
	blogH        *handler.BlogHandler
	enrollmentH  *handler.EnrollmentHandler
	demoBookingH *handler.DemoBookingHandler
	newsletterH  *handler.NewsletterHandler
	logger       *slog.Logger
}

// New wires stores and handlers around db. The session store is built by the
// caller since its persistence backend is configurable.
func New(cfg config.Config, db *sql.DB, sessionStore *store.SessionStore, emailClient *email.Client, loginLimiter *auth.LoginLimiter, logger *slog.Logger) *Server {
	hub := feed.NewHub(logger.With("component", "feed"))
	gate := auth.NewGate(sessionStore)

	courseStore := store.NewCourseStore(db)
	blogStore := store.NewBlogStore(db)
	enrollmentStore := store.NewEnrollmentStore(db)
	demoBookingStore := store.NewDemoBookingStore(db)
	newsletterStore := store.NewNewsletterStore(db)
	statsStore := store.NewStatsStore(db)

	admin := model.AdminUser{
		ID:       cfg.Admin.ID,
		Username: cfg.Admin.Username,
		Email:    cfg.Admin.Email,
		Role:     model.RoleAdmin,
	}
	creds := auth.Credentials{
		Username:     cfg.Admin.Username,
		Password:     cfg.Admin.Password,
		PasswordHash: cfg.Admin.PasswordHash,
	}
	clientIP := middleware.ClientIP(cfg.TrustProxyHeaders)
	cookie := handler.CookieOptions{
		Domain: cfg.Admin.CookieDomain,
		Secure: cfg.IsProduction(),
	}

	return &Server{
		db:           db,
		cfg:          cfg,
		hub:          hub,
		gate:         gate,
		sessionStore: sessionStore,
		loginLimiter: loginLimiter,
		formLimiter:  middleware.NewRateLimiter(),
		clientIP:     clientIP,
		authH:        handler.NewAuthHandler(sessionStore, gate, loginLimiter, creds, admin, cookie, clientIP, logger.With("component", "auth")),
		adminH:       handler.NewAdminHandler(statsStore, sessionStore, logger.With("component", "admin")),
		courseH:      handler.NewCourseHandler(courseStore, logger.With("component", "course")),
		blogH:        handler.NewBlogHandler(blogStore, logger.With("component", "blog")),
		enrollmentH:  handler.NewEnrollmentHandler(enrollmentStore, courseStore, emailClient, hub, logger.With("component", "enrollment")),
		demoBookingH: handler.NewDemoBookingHandler(demoBookingStore, emailClient, hub, logger.With("component", "demo_booking")),
		newsletterH:  handler.NewNewsletterHandler(newsletterStore, hub, logger.With("component", "newsletter")),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// Hub returns the admin feed hub so it can be closed on shutdown.
func (s *Server) Hub() *feed.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", handler.NotFound)
	mux.HandleFunc("GET /health", handler.Health(s.db.Ping))

	// Public content
	mux.HandleFunc("GET /api/courses", s.courseH.List)
	mux.HandleFunc("GET /api/courses/{slug}", s.courseH.Get)
	mux.HandleFunc("GET /api/blogs", s.blogH.List)
	mux.HandleFunc("GET /api/blogs/{slug}", s.blogH.Get)

	// Public forms
	mux.HandleFunc("POST /api/enrollment", s.throttled(s.enrollmentH.Create))
	mux.HandleFunc("POST /api/demo-booking", s.throttled(s.demoBookingH.Create))
	mux.HandleFunc("POST /api/newsletter/subscribe", s.throttled(s.newsletterH.Subscribe))
	mux.HandleFunc("POST /api/newsletter/unsubscribe", s.throttled(s.newsletterH.Unsubscribe))

	// Authoring a post is effectful, so it needs an admin session despite the
	// public path.
	requireAdmin := middleware.RequireAdmin(s.gate, s.logger.With("component", "auth"))
	mux.Handle("POST /api/blogs", requireAdmin(http.HandlerFunc(s.blogH.Create)))

	// Admin auth resolves the session itself.
	mux.HandleFunc("POST /api/admin/auth/login", s.authH.Login)
	mux.HandleFunc("GET /api/admin/auth/check", s.authH.Check)
	mux.HandleFunc("POST /api/admin/auth/logout", s.authH.Logout)

	adminMux := http.NewServeMux()
	s.registerAdminRoutes(adminMux)
	mux.Handle("/api/admin/", requireAdmin(adminMux))

	var h http.Handler = mux
	h = middleware.RequestLogger(s.logger.With("component", "http"))(h)
	h = middleware.RequestID(s.cfg.APIVersion)(h)
	return h
}

func (s *Server) throttled(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.formLimiter, s.clientIP, s.cfg.FormLimit, time.Minute)
	return rl(h).ServeHTTP
}

func (s *Server) registerAdminRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/admin/", handler.NotFound)
	mux.HandleFunc("GET /api/admin/stats", s.adminH.Stats)
	mux.HandleFunc("POST /api/admin/maintenance/sessions/cleanup", s.adminH.CleanupSessions)

	mux.HandleFunc("GET /api/admin/enrollments", s.enrollmentH.List)
	mux.HandleFunc("PUT /api/admin/enrollments/{id}/status", s.enrollmentH.UpdateStatus)
	mux.HandleFunc("DELETE /api/admin/enrollments/{id}", s.enrollmentH.Delete)

	mux.HandleFunc("GET /api/admin/demo-bookings", s.demoBookingH.List)
	mux.HandleFunc("PUT /api/admin/demo-bookings/{id}/status", s.demoBookingH.UpdateStatus)
	mux.HandleFunc("DELETE /api/admin/demo-bookings/{id}", s.demoBookingH.Delete)

	mux.HandleFunc("GET /api/admin/newsletter/subscribers", s.newsletterH.List)
	mux.HandleFunc("DELETE /api/admin/newsletter/subscribers/{id}", s.newsletterH.Delete)

	mux.HandleFunc("GET /api/admin/blogs", s.blogH.AdminList)
	mux.HandleFunc("PUT /api/admin/blogs/{id}", s.blogH.Update)
	mux.HandleFunc("DELETE /api/admin/blogs/{id}", s.blogH.Delete)

	mux.HandleFunc("GET /api/admin/courses", s.courseH.AdminList)
	mux.HandleFunc("POST /api/admin/courses", s.courseH.Create)
	mux.HandleFunc("DELETE /api/admin/courses/{id}", s.courseH.Delete)

	mux.HandleFunc("GET /api/admin/ws", feed.Handler(s.hub, s.logger.With("component", "feed"), originPatterns(s.cfg.BaseURL)))
}

// originPatterns allows the site's own host to open the admin feed.
func originPatterns(baseURL string) []string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}
