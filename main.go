package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mani-shailesh/focus/internal/xslog"
	"github.com/mani-shailesh/focus/server"
	"github.com/mani-shailesh/focus/server/api"
	"github.com/mani-shailesh/focus/server/auth"
	"github.com/mani-shailesh/focus/server/database"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "create-superuser" {
		createSuperuser(os.Args[2:])
		return
	}

	cfgPath := flag.String("config", "config.toml", "path to config.toml")
	flag.Parse()

	cfg, err := server.LoadConfig(*cfgPath)
	if err != nil {
		slog.Error("Failed to load config", slog.Any("err", err))
		os.Exit(1)
	}
	setupLogger(cfg.Log)
	slog.Info("Starting focus...", slog.String("config", cfg.String()))

	srv, err := server.New(cfg)
	if err != nil {
		slog.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}
	srv.Start(api.Routes(srv))
	defer srv.Stop()

	slog.Info("Server started", slog.String("addr", cfg.Server.Addr))

	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGTERM, syscall.SIGINT)
	<-s
}

// createSuperuser adds a secretary user who can access the admin endpoints.
func createSuperuser(args []string) {
	fs := flag.NewFlagSet("create-superuser", flag.ExitOnError)
	cfgPath := fs.String("config", "config.toml", "path to config.toml")
	username := fs.String("username", "", "username of the new superuser")
	email := fs.String("email", "", "email of the new superuser")
	password := fs.String("password", "", "password of the new superuser")
	_ = fs.Parse(args)

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "username and password are required")
		fs.Usage()
		os.Exit(2)
	}

	cfg, err := server.LoadConfig(*cfgPath)
	if err != nil {
		slog.Error("Failed to load config", slog.Any("err", err))
		os.Exit(1)
	}
	setupLogger(cfg.Log)

	db, err := database.New(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	passwordHash, err := auth.HashPassword(*password)
	if err != nil {
		slog.Error("Failed to hash password", slog.Any("err", err))
		os.Exit(1)
	}

	user, err := db.CreateUser(context.Background(), database.User{
		Username:     *username,
		Email:        *email,
		PasswordHash: passwordHash,
		IsSecretary:  true,
	})
	if err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			slog.Error("A user with that username already exists", slog.String("username", *username))
		} else {
			slog.Error("Failed to create superuser", slog.Any("err", err))
		}
		os.Exit(1)
	}

	slog.Info("Superuser created", slog.String("username", user.Username), slog.Int("id", user.ID))
}

func setupLogger(cfg server.LogConfig) {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.Format == server.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	// Requests for the docs assets only clutter the access log.
	handler = xslog.NewFilterHandler(handler, func(ctx context.Context, record slog.Record) bool {
		keep := true
		record.Attrs(func(attr slog.Attr) bool {
			if attr.Key == "path" && strings.HasPrefix(attr.Value.String(), "/docs") {
				keep = false
				return false
			}
			return true
		})
		return keep
	})

	slog.SetDefault(slog.New(handler))
}
