package app

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lina3386/financeflow/internal/closer"
	"github.com/Lina3386/financeflow/internal/config"
	"github.com/Lina3386/financeflow/internal/migrations"
)

const shutdownTimeout = 10 * time.Second

var configPath string

func init() {
	flag.StringVar(&configPath, "config-path", ".env", "path to config file")
}

type App struct {
	serviceProvider *ServiceProvider
	httpServer      *http.Server
}

func NewApp(ctx context.Context) (*App, error) {
	a := &App{}

	err := a.initDeps(ctx)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) initDeps(ctx context.Context) error {
	inits := []func(context.Context) error{
		a.initConfig,
		a.initServiceProvider,
		a.initDB,
		a.initScheduler,
		a.initHTTPServer,
	}

	for _, f := range inits {
		err := f(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *App) initConfig(context.Context) error {
	err := config.Load(configPath)
	if err != nil {
		// .env не обязателен: в контейнере конфиг приходит из окружения
		log.Printf("No config file loaded from %s: %v", configPath, err)
	}
	return nil
}

func (a *App) initServiceProvider(context.Context) error {
	a.serviceProvider = NewServiceProvider()
	return nil
}

func (a *App) initDB(ctx context.Context) error {
	dbClient := a.serviceProvider.DBClient(ctx)
	log.Println("✅ Connected to DB")

	if err := migrations.Up(dbClient.DB()); err != nil {
		return err
	}
	log.Println("✅ Migrations applied")
	return nil
}

func (a *App) initScheduler(ctx context.Context) error {
	scheduler := a.serviceProvider.Scheduler(ctx)
	scheduler.Start(ctx)
	closer.Add(scheduler.Stop)
	return nil
}

func (a *App) initHTTPServer(ctx context.Context) error {
	a.httpServer = &http.Server{
		Addr:    a.serviceProvider.HTTPConfig().Address(),
		Handler: a.serviceProvider.Handler(ctx).Routes(),
	}
	return nil
}

// Run блокируется до SIGINT/SIGTERM, затем гасит сервер и ресурсы
func (a *App) Run() error {
	defer closer.CloseAll()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server running on %s", a.httpServer.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigChan:
		log.Println("⏹️  Shutting down gracefully...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return a.httpServer.Shutdown(ctx)
}
