package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"

	"github.com/novawrites/auth-service/auth"
	"github.com/novawrites/auth-service/internal/config"
	"github.com/novawrites/auth-service/internal/db"
	"github.com/novawrites/auth-service/server"
	"github.com/novawrites/auth-service/sessions"
	sessionrepofake "github.com/novawrites/auth-service/sessions/repofake"
	sessionrepopg "github.com/novawrites/auth-service/sessions/repopg"
	"github.com/novawrites/auth-service/token"
	"github.com/novawrites/auth-service/users"
	userrepofake "github.com/novawrites/auth-service/users/repofake"
	userrepopg "github.com/novawrites/auth-service/users/repopg"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running server: %s\n", err)
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	displayAppname(cfg.AppName)

	signer, err := token.NewSigner(cfg.JWTAlgorithm, cfg.SecretKey)
	if err != nil {
		return fmt.Errorf("token.NewSigner: %w", err)
	}
	issuer, err := token.NewIssuer(signer)
	if err != nil {
		return fmt.Errorf("token.NewIssuer: %w", err)
	}

	userRepo, sessionRepo, err := buildRepos(cfg)
	if err != nil {
		return err
	}

	userStore, err := users.NewStore(userRepo)
	if err != nil {
		return fmt.Errorf("users.NewStore: %w", err)
	}
	registry, err := sessions.NewRegistry(sessionRepo, cfg.RefreshTTL, sessions.WithReapBatchSize(cfg.ReapBatchSize))
	if err != nil {
		return fmt.Errorf("sessions.NewRegistry: %w", err)
	}
	authService, err := auth.NewService(auth.Deps{
		Users:    userStore,
		Sessions: registry,
		Tokens:   issuer,
	}, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		return fmt.Errorf("auth.NewService: %w", err)
	}

	reaperCtx, stopReaper := context.WithCancel(context.Background())
	defer stopReaper()
	go sessions.NewReaper(registry, cfg.ReapInterval).Run(reaperCtx)

	httpServer := &http.Server{Addr: cfg.Port, Handler: server.New(cfg, authService, userStore)}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func buildRepos(cfg config.Config) (users.Repo, sessions.Repo, error) {
	if cfg.DatabaseURL == "" {
		log.Printf("No DATABASE_URL configured, using in-memory repositories\n")
		return userrepofake.NewFakeUserRepo(), sessionrepofake.NewFakeSessionRepo(), nil
	}

	conn, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("db.Open: %w", err)
	}
	return userrepopg.NewPostgresRepository(conn), sessionrepopg.NewPostgresRepository(conn), nil
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
