package handlers

import (
	"encoding/json"
	"net/http"

	"fuel-import-service/internal/repositories"
	"fuel-import-service/internal/services"
)

type ReferenceHandler struct {
	referenceService *services.ReferenceIngestionService
	vehicleRepo      repositories.VehicleRepository
	driverRepo       repositories.DriverRepository
}

func NewReferenceHandler(
	referenceService *services.ReferenceIngestionService,
	vehicleRepo repositories.VehicleRepository,
	driverRepo repositories.DriverRepository,
) *ReferenceHandler {
	return &ReferenceHandler{
		referenceService: referenceService,
		vehicleRepo:      vehicleRepo,
		driverRepo:       driverRepo,
	}
}

func (h *ReferenceHandler) IngestVehicles(w http.ResponseWriter, r *http.Request) {
	var vehicles []services.VehicleInput

	if err := json.NewDecoder(r.Body).Decode(&vehicles); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if len(vehicles) == 0 {
		respondWithError(w, http.StatusBadRequest, "No vehicles provided")
		return
	}

	result, err := h.referenceService.IngestVehicles(vehicles)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusPartialContent
	}
	respondWithJSON(w, status, result)
}

func (h *ReferenceHandler) IngestDrivers(w http.ResponseWriter, r *http.Request) {
	var drivers []services.DriverInput

	if err := json.NewDecoder(r.Body).Decode(&drivers); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if len(drivers) == 0 {
		respondWithError(w, http.StatusBadRequest, "No drivers provided")
		return
	}

	result, err := h.referenceService.IngestDrivers(drivers)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusPartialContent
	}
	respondWithJSON(w, status, result)
}

func (h *ReferenceHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.vehicleRepo.GetAllVehicles()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, vehicles)
}

func (h *ReferenceHandler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.driverRepo.GetAllDrivers()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, drivers)
}
