package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"fuel-import-service/internal/config"
	"fuel-import-service/internal/repositories"
	"fuel-import-service/internal/services"
)

func SetupRouter(db *sql.DB, cfg *config.Config) *mux.Router {
	vehicleRepo := repositories.NewVehicleRepository(db)
	driverRepo := repositories.NewDriverRepository(db)
	fuelRecordRepo := repositories.NewFuelRecordRepository(db)

	importService := services.NewFuelImportService(vehicleRepo, driverRepo, fuelRecordRepo, cfg.Import.EmployerName)
	referenceService := services.NewReferenceIngestionService(db, vehicleRepo, driverRepo)

	importHandler := NewImportHandler(importService, fuelRecordRepo)
	referenceHandler := NewReferenceHandler(referenceService, vehicleRepo, driverRepo)

	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()

	api.Use(loggingMiddleware)
	api.Use(jsonContentTypeMiddleware)

	api.HandleFunc("/imports/analyze", importHandler.AnalyzeWorkbook).Methods(http.MethodPost)
	api.HandleFunc("/imports/{sessionID}/commit", importHandler.CommitImport).Methods(http.MethodPost)
	api.HandleFunc("/imports/{sessionID}", importHandler.GetImportStatus).Methods(http.MethodGet)
	api.HandleFunc("/fuel-records", importHandler.GetRecordsByBatch).Methods(http.MethodGet)

	api.HandleFunc("/vehicles", referenceHandler.IngestVehicles).Methods(http.MethodPost)
	api.HandleFunc("/vehicles", referenceHandler.ListVehicles).Methods(http.MethodGet)
	api.HandleFunc("/drivers", referenceHandler.IngestDrivers).Methods(http.MethodPost)
	api.HandleFunc("/drivers", referenceHandler.ListDrivers).Methods(http.MethodGet)

	router.HandleFunc("/health", healthCheckHandler).Methods(http.MethodGet)

	return router
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{"method": r.Method, "path": r.URL.Path}).Debug("request")
		next.ServeHTTP(w, r)
	})
}

func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status": "healthy",
	}
	respondWithJSON(w, http.StatusOK, response)
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
