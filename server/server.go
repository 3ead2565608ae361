package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/disgo/webhook"

	"github.com/mani-shailesh/focus/server/auth"
	"github.com/mani-shailesh/focus/server/database"
)

//go:embed docs
var docs embed.FS

func New(cfg Config) (*Server, error) {
	var (
		t       func() *template.Template
		openAPI func() ([]byte, error)
	)
	if cfg.Dev {
		root, err := os.OpenRoot("server/")
		if err != nil {
			return nil, fmt.Errorf("failed to open docs directory: %w", err)
		}
		t = func() *template.Template {
			return template.Must(template.New("docs").ParseFS(root.FS(), "docs/*.gohtml"))
		}
		openAPI = func() ([]byte, error) {
			return fs.ReadFile(root.FS(), "docs/openapi.json")
		}
	} else {
		st := template.Must(template.New("docs").ParseFS(docs, "docs/*.gohtml"))
		t = func() *template.Template {
			return st
		}
		openAPI = func() ([]byte, error) {
			return docs.ReadFile("docs/openapi.json")
		}
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var webhookClient *webhook.Client
	if cfg.Notifications.Enabled {
		if webhookClient, err = webhook.NewWithURL(cfg.Notifications.WebhookURL); err != nil {
			return nil, fmt.Errorf("failed to create notification webhook client: %w", err)
		}
	}

	s := &Server{
		Cfg:  cfg,
		DB:   db,
		Auth: auth.New(cfg.Auth, cfg.Server.PublicURL),
		HttpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		server: &http.Server{
			Addr: cfg.Server.Addr,
		},
		webhook:   webhookClient,
		templates: t,
		openAPI:   openAPI,
	}

	go s.cleanupSessions()

	return s, nil
}

type Server struct {
	Cfg        Config
	DB         *database.Database
	Auth       *auth.Auth
	HttpClient *http.Client

	server    *http.Server
	webhook   *webhook.Client
	templates func() *template.Template
	openAPI   func() ([]byte, error)
}

func (s *Server) Templates() *template.Template {
	return s.templates()
}

func (s *Server) OpenAPI() ([]byte, error) {
	return s.openAPI()
}

func (s *Server) Start(handler http.Handler) {
	s.server.Handler = cleanPathMiddleware(handler)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", slog.Any("err", err))
		}
	}()
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", slog.Any("err", err))
	}

	if err := s.DB.Close(); err != nil {
		slog.Error("Database close failed", slog.Any("err", err))
	}
}

// Notify sends a message to the configured notification webhook, if any.
func (s *Server) Notify(ctx context.Context, message string) {
	if s.webhook == nil {
		return
	}
	if _, err := s.webhook.CreateContent(message, rest.WithCtx(ctx)); err != nil {
		slog.ErrorContext(ctx, "Failed to send notification", slog.Any("err", err))
	}
}

func (s *Server) cleanupSessions() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		deleted, err := s.DB.DeleteExpiredSessions(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to delete expired sessions", slog.Any("err", err))
		} else if deleted > 0 {
			slog.InfoContext(ctx, "Deleted expired sessions", slog.Int64("count", deleted))
		}
		cancel()
	}
}

func cleanPathMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = path.Clean(r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
