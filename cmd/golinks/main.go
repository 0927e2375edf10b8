package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/ekuznetsova/golinks/internal/app/configs"
	"github.com/ekuznetsova/golinks/internal/app/handlers"
	"github.com/ekuznetsova/golinks/internal/app/logger"
	"github.com/ekuznetsova/golinks/internal/app/middlewares"
	"github.com/ekuznetsova/golinks/internal/app/services"
	"github.com/ekuznetsova/golinks/internal/app/storage"
)

var (
	buildVersion string = "N/A"
	buildDate    string = "N/A"
	buildCommit  string = "N/A"
)

func main() {
	config := configs.Parse()
	if err := logger.Initialize("info"); err != nil {
		panic(err)
	}
	showBuildInfo()

	store := configureStorage(config)
	linkCreator := services.NewLinkCreator(store, config.MultiUser)
	linkImporter := services.NewLinkImporter(store)
	startHTTPServer(config, store, linkCreator, linkImporter)
}

func startHTTPServer(
	config configs.Config,
	store storage.Storage,
	linkCreator services.LinkCreator,
	linkImporter services.LinkImporter) {

	server := http.Server{
		Handler: configureRouter(config, store, linkCreator, linkImporter),
		Addr:    config.ServerAddress,
	}
	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go onExit(exit, &server, store)

	var serveErr error
	if config.UseHTTPS() {
		manager := &autocert.Manager{
			Prompt: autocert.AcceptTOS,
		}
		if config.ServerName != "" {
			manager.HostPolicy = autocert.HostWhitelist(config.ServerName)
		}
		server.TLSConfig = manager.TLSConfig()
		serveErr = server.ListenAndServeTLS("", "")
	} else {
		serveErr = server.ListenAndServe()
	}

	if serveErr != nil && serveErr != http.ErrServerClosed {
		panic(serveErr)
	}
}

func onExit(exit <-chan os.Signal, server *http.Server, s storage.Storage) {
	<-exit
	switch s := s.(type) {
	case *storage.MapStorage:
		err := s.Dump()
		if err != nil {
			logger.Log.Info("on exit error", zap.String("err", err.Error()))
		}
	case *storage.DBStorage:
		s.Close()
	}

	if err := server.Shutdown(context.TODO()); err != nil {
		logger.Log.Info("failed to shutdown", zap.Error(err))
	}
}

func configureRouter(
	config configs.Config,
	store storage.Storage,
	linkCreator services.LinkCreator,
	linkImporter services.LinkImporter) chi.Router {

	router := chi.NewRouter()
	handlers := handlers.NewHandlers(config, store)
	router.Use(
		middlewares.ResponseLogger,
		middlewares.RequestLogger,
		middlewares.GzipCompress,
		middleware.AllowContentEncoding("gzip"),
	)
	router.NotFound(handlers.NotFound)
	router.MethodNotAllowed(handlers.MethodNotAllowed)

	if config.MultiUser {
		authenticate := middlewares.Authenticate(config.IdentityHeader)
		router.Group(func(router chi.Router) {
			router.Use(authenticate)
			// The empty path and everything under admin belong to the
			// protected space even when no route matches.
			router.HandleFunc("/", handlers.NotFound)
			router.Get("/admin", handlers.AdminPage)
			router.HandleFunc("/admin/*", handlers.NotFound)
		})
		router.Route("/api", func(router chi.Router) {
			router.Use(authenticate)
			router.Get("/links", handlers.ListLinks)
			router.Post("/links", handlers.CreateLink(linkCreator))
			router.Delete("/links/*", handlers.DeleteLink)
			router.Get("/export", handlers.ExportLinks)
			router.Post("/import", handlers.ImportLinks(linkImporter))
		})
	} else {
		router.Get("/admin", handlers.AdminPage)
		router.Route("/api", func(router chi.Router) {
			router.Get("/links", handlers.ListLinks)
			router.Post("/links", handlers.CreateLink(linkCreator))
			router.Delete("/links/*", handlers.DeleteLink)
		})
	}
	// Catch-all: a code may span several path segments
	router.Get("/*", handlers.Redirect)

	return router
}

func configureStorage(config configs.Config) storage.Storage {
	var store storage.Storage
	if config.UseDBStorage() {
		var err error
		store, err = storage.NewDBStorage(config.DatabaseDSN)
		if err != nil {
			panic(err)
		}
	} else if config.UseFileStorage() {
		fs := storage.NewFileStorage(config.FileStoragePath)
		ms := storage.NewMapStorage(fs)
		links, err := fs.Snapshot()
		if err != nil {
			panic(err)
		}
		ms.Restore(links)
		dumper := services.NewStorageDumper(ms, 5*time.Second)
		dumper.Start()
		store = ms
	} else {
		store = storage.NewMapStorage(nil)
	}

	return store
}

func showBuildInfo() {
	logger.Log.Info("build info", zap.String("build version", buildVersion))
	logger.Log.Info("build info", zap.String("build date", buildDate))
	logger.Log.Info("build info", zap.String("build commit", buildCommit))
}
