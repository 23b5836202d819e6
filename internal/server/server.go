package server

import (
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/encryptcookie"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/gofiber/storage/redis/v3"
	"github.com/gofiber/template/html/v3"
	"github.com/rs/zerolog"

	"smartcare/internal/config"
	"smartcare/internal/middleware"
)

// Server wraps the Fiber app and configuration.
type Server struct {
	App *fiber.App
	Cfg *config.Config

	log     zerolog.Logger
	storage fiber.Storage // nil when sessions are kept in memory
}

// Option customizes a Server.
type Option func(*options)

type options struct {
	viewsDir  string
	staticDir string
	storage   fiber.Storage
}

// WithViewsDir sets the template directory.
func WithViewsDir(dir string) Option {
	return func(o *options) { o.viewsDir = dir }
}

// WithStaticDir sets the static asset directory.
func WithStaticDir(dir string) Option {
	return func(o *options) { o.staticDir = dir }
}

// WithStorage sets the session and rate limit storage, overriding REDIS_URL.
func WithStorage(s fiber.Storage) Option {
	return func(o *options) { o.storage = s }
}

// New creates a new server with middleware configured.
func New(cfg *config.Config, logger zerolog.Logger, opts ...Option) *Server {
	o := options{viewsDir: "./views", staticDir: "./static"}
	for _, opt := range opts {
		opt(&o)
	}

	// Shared storage for sessions and rate limiting; memory when unset
	storage := o.storage
	if storage == nil && cfg.RedisURL != "" {
		storage = redis.New(redis.Config{URL: cfg.RedisURL})
		logger.Info().Msg("sessions stored in redis")
	}

	// Setup template engine
	engine := html.New(o.viewsDir, ".html")
	engine.Reload(cfg.IsDev())

	// Initialize Fiber
	app := fiber.New(fiber.Config{
		Views:        engine,
		ViewsLayout:  "layouts/main",
		ErrorHandler: errorHandler(cfg),
	})

	// Global middleware
	app.Use(middleware.Logger(logger))
	app.Use(recover.New(recover.Config{
		EnableStackTrace:  true,
		StackTraceHandler: middleware.PanicHandler(logger),
	}))

	// CORS middleware
	corsOrigins := cfg.BaseURL
	if cfg.CORSOrigins != "" {
		corsOrigins = cfg.CORSOrigins
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(corsOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With", "HX-Request", "HX-Current-URL", "HX-Target", "HX-Trigger"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Cookie encryption middleware. The upstream HMS cookies are forwarded
	// to it untouched, so they must stay readable.
	encryptionKey := deriveEncryptionKey(cfg.SessionSecret)
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key:    encryptionKey,
		Except: []string{"csrftoken", "sessionid"},
	}))

	// Session middleware
	sessionMiddleware, _ := session.NewWithStore(session.Config{
		Storage:        storage,
		IdleTimeout:    cfg.SessionIdleTimeout,
		CookieSecure:   cfg.TLSEnabled || !cfg.IsDev(),
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	app.Use(sessionMiddleware)

	// Rate limiting middleware - 100 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Next: func(c fiber.Ctx) bool {
			switch c.Path() {
			case "/healthz", "/readyz", "/metrics":
				return true
			}
			return strings.HasPrefix(c.Path(), "/static/")
		},
		Max:        100,
		Expiration: 1 * time.Minute,
		Storage:    storage,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status": "error",
				"error":  "Rate limit exceeded. Please try again later.",
			})
		},
	}))

	// Static files
	app.Get("/static/*", static.New(o.staticDir))

	return &Server{
		App:     app,
		Cfg:     cfg,
		log:     logger,
		storage: storage,
	}
}

// errorHandler renders the error page, or a JSON envelope under /api/.
func errorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		}

		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(code).JSON(fiber.Map{
				"status": "error",
				"error":  message,
			})
		}

		return c.Status(code).Render("error", fiber.Map{
			"Title":       "Error",
			"Message":     message,
			"SiteTitle":   cfg.SiteTitle,
			"SiteTagline": cfg.SiteTagline,
			"SiteFooter":  cfg.SiteFooter,
		})
	}
}

// Start starts the server with the configured address and TLS settings.
func (s *Server) Start() error {
	if s.Cfg.TLSEnabled {
		tlsConfig, err := buildTLSConfig(s.Cfg)
		if err != nil {
			return err
		}
		listenConfig := fiber.ListenConfig{
			CertFile:      s.Cfg.TLSCertFile,
			CertKeyFile:   s.Cfg.TLSKeyFile,
			TLSConfigFunc: func(tc *tls.Config) { applyTLSSettings(tc, tlsConfig) },
		}
		if s.Cfg.IsMTLSEnabled() {
			s.log.Info().Str("addr", s.Cfg.ServerAddr).Msg("starting server with mTLS")
		} else {
			s.log.Info().Str("addr", s.Cfg.ServerAddr).Msg("starting server with TLS")
		}
		return s.App.Listen(s.Cfg.ServerAddr, listenConfig)
	}
	s.log.Info().Str("addr", s.Cfg.ServerAddr).Msg("starting server")
	return s.App.Listen(s.Cfg.ServerAddr)
}

// Shutdown gracefully shuts down the server and releases session storage.
func (s *Server) Shutdown() error {
	err := s.App.Shutdown()
	if s.storage != nil {
		err = errors.Join(err, s.storage.Close())
	}
	return err
}

// deriveEncryptionKey derives a 32-byte encryption key from the session secret.
func deriveEncryptionKey(secret string) string {
	hash := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(hash[:])
}

// buildTLSConfig creates a TLS config for mTLS if CA file is provided.
func buildTLSConfig(cfg *config.Config) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if cfg.TLSCAFile != "" {
		caCert, err := os.ReadFile(cfg.TLSCAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}

		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, errors.New("parse CA certificate: no certificates found")
		}

		tlsConfig.ClientCAs = caCertPool
		tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
	}

	return tlsConfig, nil
}

// applyTLSSettings copies the settings buildTLSConfig produces onto the
// listener's config, leaving its certificates in place.
func applyTLSSettings(dst, src *tls.Config) {
	dst.MinVersion = src.MinVersion
	dst.ClientCAs = src.ClientCAs
	dst.ClientAuth = src.ClientAuth
}
