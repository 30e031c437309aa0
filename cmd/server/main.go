package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"portfoliodash/internal/api"
	"portfoliodash/internal/config"
	"portfoliodash/internal/logging"
	"portfoliodash/pkg/portfolio"
)

var getppid = os.Getppid
var sleep = time.Sleep
var exit = os.Exit

func main() {
	var dataDir string
	var workbook string
	var envFile string
	var port int
	var host string
	var webDir string

	flag.StringVar(&dataDir, "data-dir", "", "Directory for the workbook, journal and logs")
	flag.StringVar(&workbook, "workbook", "", "Workbook file to load and save (overrides config)")
	flag.StringVar(&envFile, "env-file", ".env", "Optional KEY=VALUE file loaded into the environment")
	flag.IntVar(&port, "port", 8000, "Port to run the server on")
	flag.StringVar(&host, "host", "127.0.0.1", "Host to bind the server to")
	flag.StringVar(&webDir, "web-dir", "", "Directory for SPA static files (optional)")
	flag.Parse()

	if _, err := config.LoadEnvFile(envFile); err != nil {
		slog.Error("failed to load env file", "path", envFile, "err", err)
		os.Exit(1)
	}
	if dataDir != "" {
		config.SetRuntimeDataDir(dataDir)
	}
	if workbook != "" {
		config.SetRuntimeWorkbookPath(workbook)
	}
	config.SetRuntimePort(port)

	resolvedDataDir, err := config.GetDataDir()
	if err != nil {
		slog.Error("failed to resolve data directory", "err", err)
		os.Exit(1)
	}
	logDir := filepath.Join(resolvedDataDir, "logs")
	logger, writer, err := logging.NewLogger(logDir, slog.LevelInfo)
	if err != nil {
		slog.Error("failed to initialize logger", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("failed to close log writer", "err", err)
		}
	}()

	store, err := openStore(logger)
	if err != nil {
		logger.Error("failed to open portfolio", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close portfolio", "err", err)
		}
	}()

	if os.Getenv("PORTFOLIO_PARENT_WATCH") == "1" {
		go watchParent(logger, store)
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	handler := api.NewRouter(store)
	if resolvedWebDir := resolveWebDir(webDir); resolvedWebDir != "" {
		logger.Info("serving SPA", "web_dir", resolvedWebDir)
		handler = api.WithSPA(handler, resolvedWebDir)
	}
	handler = middleware.Compress(5)(handler)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("server starting", "addr", addr, "workbook", store.WorkbookPath())
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop

	logger.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "err", err)
	}
}

// openStore opens the configured workbook. A workbook that exists but
// cannot be parsed fails startup.
func openStore(logger *slog.Logger) (*portfolio.Store, error) {
	workbookPath, err := config.GetWorkbookPath()
	if err != nil {
		return nil, fmt.Errorf("resolve workbook path: %w", err)
	}
	journalPath, err := config.GetJournalPath()
	if err != nil {
		return nil, fmt.Errorf("resolve journal path: %w", err)
	}
	return portfolio.OpenWithOptions(portfolio.Options{
		WorkbookPath:  workbookPath,
		SheetName:     config.GetSheetName(),
		JournalPath:   journalPath,
		Logger:        logger,
		Location:      portfolio.LoadLocation(config.GetTimezone()),
		HorizonMonths: config.GetHorizonMonths(),
	})
}

// watchParent exits once the launching process is gone. The store is
// closed first because exit skips deferred calls.
func watchParent(logger *slog.Logger, store io.Closer) {
	for {
		sleep(1 * time.Second)
		if getppid() == 1 {
			logger.Info("parent process exited; shutting down")
			if err := store.Close(); err != nil {
				logger.Error("failed to close portfolio", "err", err)
			}
			exit(0)
		}
	}
}

func resolveWebDir(input string) string {
	if input != "" {
		if dirExists(input) {
			return input
		}
		return ""
	}

	candidates := []string{"web", "static", "../web"}
	for _, candidate := range candidates {
		if dirExists(candidate) {
			return candidate
		}
	}
	if exe, err := os.Executable(); err == nil {
		base := filepath.Dir(exe)
		for _, candidate := range candidates {
			path := filepath.Join(base, candidate)
			if dirExists(path) {
				return path
			}
		}
	}
	return ""
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
