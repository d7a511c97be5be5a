package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"fuel-import-service/internal/repositories"
	"fuel-import-service/internal/services"
)

const maxUploadBytes = 32 << 20

type ImportHandler struct {
	importService  *services.FuelImportService
	fuelRecordRepo repositories.FuelRecordRepository
	sessionMutex   sync.Mutex
	sessions       map[string]*services.ImportSession
}

func NewImportHandler(importService *services.FuelImportService, fuelRecordRepo repositories.FuelRecordRepository) *ImportHandler {
	return &ImportHandler{
		importService:  importService,
		fuelRecordRepo: fuelRecordRepo,
		sessions:       make(map[string]*services.ImportSession),
	}
}

// AnalyzeWorkbook accepts an uploaded xlsx/xls file and runs the
// read-only analysis: reference load, decode, parse, match. The
// response carries the session, the batch statistics and every parsed
// record with its validation errors for review before commit.
func (h *ImportHandler) AnalyzeWorkbook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart request")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "A spreadsheet file is required in field 'file'")
		return
	}
	defer file.Close()

	batch, err := h.importService.AnalyzeWorkbook(file)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	session := services.NewImportSession(batch)

	h.sessionMutex.Lock()
	h.sessions[session.ID] = session
	h.sessionMutex.Unlock()

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"session": session.Snapshot(),
		"records": batch.Records,
	})
}

// CommitImport starts the sequential insert loop for an analyzed
// session. It runs to completion before responding; a concurrent GET on
// the session observes live progress.
func (h *ImportHandler) CommitImport(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookupSession(mux.Vars(r)["sessionID"])
	if !ok {
		respondWithError(w, http.StatusNotFound, "Import session not found")
		return
	}

	if err := session.BeginImport(); err != nil {
		respondWithError(w, http.StatusConflict, err.Error())
		return
	}

	result, err := h.importService.CommitBatch(session.Batch, session.RecordProgress)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	session.Finish(result)

	respondWithJSON(w, http.StatusOK, SuccessResponse{
		Message: fmt.Sprintf("%d of %d valid records imported", result.Committed, result.Eligible),
		Data:    result,
	})
}

func (h *ImportHandler) GetImportStatus(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookupSession(mux.Vars(r)["sessionID"])
	if !ok {
		respondWithError(w, http.StatusNotFound, "Import session not found")
		return
	}

	respondWithJSON(w, http.StatusOK, session.Snapshot())
}

// GetRecordsByBatch lists committed rows tagged with a batch id, the
// audit path for a finished import.
func (h *ImportHandler) GetRecordsByBatch(w http.ResponseWriter, r *http.Request) {
	batchID := r.URL.Query().Get("batch_id")
	if batchID == "" {
		respondWithError(w, http.StatusBadRequest, "batch_id query parameter is required")
		return
	}

	records, err := h.fuelRecordRepo.GetRecordsByBatchID(batchID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"batch_id": batchID,
		"count":    len(records),
		"records":  records,
	})
}

func (h *ImportHandler) lookupSession(id string) (*services.ImportSession, bool) {
	h.sessionMutex.Lock()
	defer h.sessionMutex.Unlock()
	session, ok := h.sessions[id]
	return session, ok
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Error marshaling JSON response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
