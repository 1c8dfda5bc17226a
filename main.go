package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	auth "github.com/fendysetiawan/SimpleFpCalc/internal/auth"
	batch "github.com/fendysetiawan/SimpleFpCalc/internal/calc/batch"
	building "github.com/fendysetiawan/SimpleFpCalc/internal/calc/building"
	fp "github.com/fendysetiawan/SimpleFpCalc/internal/calc/fp"
	history "github.com/fendysetiawan/SimpleFpCalc/internal/calc/history"
	importer "github.com/fendysetiawan/SimpleFpCalc/internal/calc/importer"
	partition "github.com/fendysetiawan/SimpleFpCalc/internal/calc/partition"
	period "github.com/fendysetiawan/SimpleFpCalc/internal/calc/period"
	report "github.com/fendysetiawan/SimpleFpCalc/internal/calc/report"
	geo "github.com/fendysetiawan/SimpleFpCalc/internal/geo"
	hazard "github.com/fendysetiawan/SimpleFpCalc/internal/hazard"
	"github.com/fendysetiawan/SimpleFpCalc/internal/logging"
	repo "github.com/fendysetiawan/SimpleFpCalc/internal/repo"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(mux *mux.Router, db *sql.DB) {
	calcRepo := repo.NewPostgresDB(db)
	err := godotenv.Load()
	if err != nil {
		logging.Logger.Warn("No .env file found, relying on the environment")
	}
	tokenKey := os.Getenv("TOKEN_KEY")
	if tokenKey == "" {
		logging.Logger.Fatal("TOKEN_KEY environment variable is not set")
	}

	authEnv := &auth.Authenv{JWTkey: []byte(tokenKey), Repo: calcRepo}

	limiter := auth.NewIPRateLimiter(1, 3)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	usgs := hazard.NewClient()
	if base := os.Getenv("USGS_BASE_URL"); base != "" {
		usgs.BaseURL = base
	}
	provider := hazard.NewProvider(usgs, hazard.NewCache())

	geocoder := geo.NewClient()
	if base := os.Getenv("NOMINATIM_BASE_URL"); base != "" {
		geocoder.BaseURL = base
	}

	fpH := fp.NewHandler(geocoder, provider, calcRepo)
	buildingH := &building.Handler{}
	partitionH := &partition.Handler{}
	periodH := &period.Handler{}
	batchH := &batch.Handler{}
	importerH := &importer.Handler{}
	reportH := &report.Handler{}
	historyH := &history.Handler{Repo: calcRepo}

	secureApi.HandleFunc("/tools/fp/calc", fpH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/fp/compute", fpH.Compute).Methods("POST")
	secureApi.HandleFunc("/tools/fp/report", reportH.Generate).Methods("POST")
	secureApi.HandleFunc("/tools/fp/import", importerH.Fp).Methods("POST")
	secureApi.HandleFunc("/tools/building/derive", buildingH.Derive).Methods("POST")
	secureApi.HandleFunc("/tools/partition/factors", partitionH.Lookup).Methods("POST")
	secureApi.HandleFunc("/tools/period/calc", periodH.Calc).Methods("POST")

	secureApi.HandleFunc("/tools-batch/fp/calc", batchH.Calc).Methods("POST")

	secureApi.HandleFunc("/history", historyH.Recent).Methods("GET")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logging.Init()

	db := auth.InitDB()
	defer db.Close()
	mux := mux.NewRouter()

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	logging.Logger.Infof("Starting server on %s", addr)
	HandleList(mux, db)
	handler := CORS(mux)

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.WithError(err).Error("Server error")
		}
	}()

	<-ctx.Done()
	logging.Logger.Info("Shutdown signal received, closing active connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Logger.WithError(err).Fatal("Server shutdown failed")
	}
	logging.Logger.Info("Server stopped")

	wg.Wait()
}
