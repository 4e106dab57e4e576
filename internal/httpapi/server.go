// Package httpapi serves the public read API, the protected write
// endpoints, and the feed documents over echo.
package httpapi

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"horse.fit/newsdesk/internal/auth"
	"horse.fit/newsdesk/internal/config"
	"horse.fit/newsdesk/internal/globaltime"
	"horse.fit/newsdesk/internal/pipeline"
	"horse.fit/newsdesk/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type Server struct {
	store    store.Store
	pipeline *pipeline.Service
	cfg      *config.Config
	logger   zerolog.Logger
	opts     Options
}

func NewServer(st store.Store, svc *pipeline.Service, cfg *config.Config, logger zerolog.Logger, opts Options) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "0.0.0.0"
	}
	port := opts.Port
	if port <= 0 {
		port = 8090
	}
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &Server{
		store:    st,
		pipeline: svc,
		cfg:      cfg,
		logger:   logger,
		opts: Options{
			Host:            host,
			Port:            port,
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
	}
}

func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.store == nil || s.pipeline == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := s.buildEcho()

	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("newsdesk api server started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("newsdesk api server stopped")
	return nil
}

func (s *Server) buildEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	allowOrigins := s.cfg.CORSAllowedOriginsList()
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       3600,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Err(v.Error).
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Str("remote_ip", v.RemoteIP).
					Str("request_id", v.RequestID).
					Msg("http request failed")
				return nil
			}

			s.logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	writeAuth := s.writeAuthMiddleware()

	e.GET("/api", s.handleAPIIndex)
	e.GET("/api/health", s.handleHealth)

	newsGroup := e.Group("/api/news")
	newsGroup.GET("", s.handleListNews)
	newsGroup.GET("/latest", s.handleLatestNews)
	newsGroup.GET("/meta", s.handleNewsMeta)
	newsGroup.GET("/archive", s.handleArchivedNews)
	newsGroup.GET("/duplicates", s.handleDuplicateLog)
	newsGroup.GET("/archive/config", s.handleGetArchiveConfig)
	newsGroup.PUT("/archive/config", s.handlePutArchiveConfig, writeAuth)
	newsGroup.POST("/archive/run", s.handleArchiveRun, writeAuth)
	newsGroup.GET("/:slug", s.handleNewsBySlug)
	newsGroup.POST("", s.handleCreateNews, writeAuth)

	e.GET("/rss.xml", s.handleRSSFeed)
	e.GET("/sitemap.xml", s.handleSitemap)

	return e
}

// writeAuthMiddleware protects the mutating routes with basic auth when
// credentials are configured. Without credentials the routes stay open,
// which is only acceptable for local development.
func (s *Server) writeAuthMiddleware() echo.MiddlewareFunc {
	if !s.cfg.WriteAuthConfigured() {
		s.logger.Warn().Msg("api credentials are not set, write endpoints are unprotected")
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	expectedUser := auth.NormalizeUsername(s.cfg.APIUsername)
	return middleware.BasicAuth(func(username, password string, c echo.Context) (bool, error) {
		userOK := subtle.ConstantTimeCompare([]byte(auth.NormalizeUsername(username)), []byte(expectedUser)) == 1
		passOK := auth.VerifyPassword(password, s.cfg.APIPassword)
		return userOK && passOK, nil
	})
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		switch v := he.Message.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				message = v
			}
		default:
			if text := strings.TrimSpace(http.StatusText(status)); text != "" {
				message = text
			}
		}
	} else if err != nil {
		message = err.Error()
	}

	isAPI := strings.HasPrefix(c.Request().URL.Path, "/api/")
	if isAPI {
		if status >= 500 {
			_ = internalError(c, "Internal server error")
			return
		}
		_ = fail(c, status, message, nil)
		return
	}

	_ = c.String(status, message)
}

func (s *Server) handleAPIIndex(c echo.Context) error {
	return success(c, map[string]any{
		"name":        "Newsdesk API",
		"version":     "1.0.0",
		"environment": s.cfg.Environment,
		"endpoints": []string{
			"GET /api",
			"GET /api/health",
			"GET /api/news",
			"GET /api/news/latest",
			"GET /api/news/meta",
			"GET /api/news/archive",
			"GET /api/news/duplicates",
			"GET /api/news/archive/config",
			"PUT /api/news/archive/config",
			"POST /api/news/archive/run",
			"GET /api/news/:slug",
			"POST /api/news",
			"GET /rss.xml",
			"GET /sitemap.xml",
		},
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service":     "newsdesk",
		"environment": s.cfg.Environment,
		"time":        globaltime.UTC(),
	})
}

func parsePositiveInt(raw string, defaultValue, minValue, maxValue int) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("must be an integer")
	}
	if value < minValue || value > maxValue {
		return 0, fmt.Errorf("must be between %d and %d", minValue, maxValue)
	}
	return value, nil
}
