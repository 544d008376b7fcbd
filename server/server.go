package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"beatstore/config"
	"beatstore/core/whop"
	"beatstore/db"
	"beatstore/logger"
	"beatstore/repository"
	"beatstore/storage"

	"github.com/gorilla/mux"
)

// Start initializes dependencies and runs the HTTP server until SIGINT or
// SIGTERM.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// The Mongo connection is dialed lazily; a missing or unreachable
	// database degrades requests to the file fallback instead of failing
	// startup.
	db.ConfigureMongo(cfg)
	defer db.CloseMongo(context.Background())

	if err := db.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, catalog cache disabled", logger.ErrorField(err))
	} else {
		defer db.CloseRedis()
		logger.Info("Successfully connected to Redis")
	}

	if err := storage.InitAssetStore(cfg); err != nil {
		logger.Warn("object store unavailable, uploads and downloads disabled", logger.ErrorField(err))
	}

	fallbackRepo := repository.NewFileBeatRepository(cfg.BeatsFile)
	var beatRepo repository.BeatRepository
	if cfg.MongoURI != "" {
		beatRepo = repository.NewFailoverBeatRepository(repository.NewMongoBeatRepository(), fallbackRepo)
	} else {
		logger.Warn("MONGODB_URI not set, using file storage only")
		beatRepo = fallbackRepo
	}

	licenseRepo, err := repository.NewWatchedLicenseTermsRepository(cfg.LicenseTermsFile)
	if err != nil {
		logger.Warn("license terms file watcher unavailable", logger.ErrorField(err))
		licenseRepo = repository.NewFileLicenseTermsRepository(cfg.LicenseTermsFile)
	}

	whopClient := whop.NewClient(cfg.WhopAPIURL, cfg.WhopAPIKey, cfg.WhopCompanyID)

	apiHandler := NewAPIHandler(beatRepo, licenseRepo, whopClient, cfg)

	router := mux.NewRouter()
	router.Use(corsMiddleware)

	// Public catalog
	router.HandleFunc("/api/catalog", apiHandler.CatalogHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/catalog/{id}", apiHandler.CatalogDetailHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/license-terms", apiHandler.GetLicenseTermsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/download", apiHandler.DownloadHandler).Methods(http.MethodPost)

	// Payments platform callbacks
	router.HandleFunc("/api/webhooks/whop", apiHandler.WhopWebhookHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/generate-contract", apiHandler.GenerateContractHandler).Methods(http.MethodPost)

	// Admin auth
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)

	// Admin CRUD surface
	router.HandleFunc("/api/beats", apiHandler.AuthMiddleware(apiHandler.GetBeatsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/beats", apiHandler.AuthMiddleware(apiHandler.CreateBeatHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/beats/{id}", apiHandler.AuthMiddleware(apiHandler.GetBeatHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/beats/{id}", apiHandler.AuthMiddleware(apiHandler.UpdateBeatHandler)).Methods(http.MethodPatch)
	router.HandleFunc("/api/beats/{id}", apiHandler.AuthMiddleware(apiHandler.DeleteBeatHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/beats/{id}/list", apiHandler.AuthMiddleware(apiHandler.ListBeatHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/whop/products", apiHandler.AuthMiddleware(apiHandler.CreateWhopProductHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/upload", apiHandler.AuthMiddleware(apiHandler.UploadAssetsHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/license-terms", apiHandler.AuthMiddleware(apiHandler.SaveLicenseTermsHandler)).Methods(http.MethodPost)

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}

// corsMiddleware mirrors the permissive CORS policy of the public API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Whop-Signature")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
