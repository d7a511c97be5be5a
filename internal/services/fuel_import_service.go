package services

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"fuel-import-service/internal/importer"
	"fuel-import-service/internal/models"
	"fuel-import-service/internal/repositories"
)

type FuelImportService struct {
	vehicleRepo    repositories.VehicleRepository
	driverRepo     repositories.DriverRepository
	fuelRecordRepo repositories.FuelRecordRepository
	employerName   string
}

func NewFuelImportService(
	vehicleRepo repositories.VehicleRepository,
	driverRepo repositories.DriverRepository,
	fuelRecordRepo repositories.FuelRecordRepository,
	employerName string,
) *FuelImportService {
	return &FuelImportService{
		vehicleRepo:    vehicleRepo,
		driverRepo:     driverRepo,
		fuelRecordRepo: fuelRecordRepo,
		employerName:   employerName,
	}
}

// LoadReferences fetches the vehicle and driver reference sets for one
// import session. The two reads are independent and fan out; if either
// fails the whole session aborts rather than matching against a partial
// reference set.
func (s *FuelImportService) LoadReferences() (*importer.ReferenceSet, error) {
	vehicleChan := make(chan []*models.Vehicle, 1)
	driverChan := make(chan []*models.Driver, 1)
	errorChan := make(chan error, 2)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		vehicles, err := s.vehicleRepo.GetAllVehicles()
		if err != nil {
			errorChan <- fmt.Errorf("failed to load vehicles: %v", err)
			return
		}
		vehicleChan <- vehicles
	}()

	go func() {
		defer wg.Done()
		drivers, err := s.driverRepo.GetAllDrivers()
		if err != nil {
			errorChan <- fmt.Errorf("failed to load drivers: %v", err)
			return
		}
		driverChan <- drivers
	}()

	wg.Wait()
	close(vehicleChan)
	close(driverChan)
	close(errorChan)

	if err := <-errorChan; err != nil {
		return nil, err
	}

	refs := &importer.ReferenceSet{}
	for _, v := range <-vehicleChan {
		ref := importer.VehicleRef{ID: v.ID, PrimaryPlate: v.PrimaryPlate}
		if v.SecondaryPlate.Valid {
			ref.SecondaryPlate = v.SecondaryPlate.String
		}
		refs.Vehicles = append(refs.Vehicles, ref)
	}
	for _, d := range <-driverChan {
		refs.Drivers = append(refs.Drivers, importer.DriverRef{
			ID:      d.ID,
			Name:    d.Name,
			Company: d.Company,
		})
	}
	return refs, nil
}

// AnalyzeWorkbook runs the read-only half of the pipeline: load
// references, decode the workbook, parse and match every row, and
// compute the batch statistics. Nothing is written.
func (s *FuelImportService) AnalyzeWorkbook(r io.Reader) (*importer.ImportBatch, error) {
	refs, err := s.LoadReferences()
	if err != nil {
		return nil, err
	}

	rows, err := importer.ReadWorkbook(r)
	if err != nil {
		return nil, err
	}

	parser := importer.NewRowParser(refs, s.employerName)
	batch := importer.NewImportBatch(parser.ParseRows(rows))

	log.WithFields(log.Fields{
		"batch_id": batch.BatchID,
		"records":  batch.Stats.TotalRecords,
		"errors":   batch.Stats.ErrorCount,
	}).Info("workbook analyzed")

	return batch, nil
}

// ProgressFunc receives the running completion percentage after every
// insert attempt.
type ProgressFunc func(percent float64, committed, eligible int)

type CommitResult struct {
	BatchID   string `json:"batch_id"`
	Committed int    `json:"committed"`
	Eligible  int    `json:"eligible"`
}

// CommitBatch inserts the eligible subset of the batch one record at a
// time, in source order. A failed insert is logged and skipped; the
// loop never stops early and no transaction wraps it, so a partial
// import is an accepted outcome, not an error.
func (s *FuelImportService) CommitBatch(batch *importer.ImportBatch, progress ProgressFunc) (*CommitResult, error) {
	eligible := batch.Eligible()
	result := &CommitResult{BatchID: batch.BatchID, Eligible: len(eligible)}

	for i, rec := range eligible {
		if err := s.fuelRecordRepo.InsertFuelRecord(toFuelRecord(rec, batch.BatchID)); err != nil {
			log.WithFields(log.Fields{
				"batch_id": batch.BatchID,
				"row":      i,
				"plate":    rec.VehiclePlate,
			}).Warnf("insert failed, skipping record: %v", err)
		} else {
			result.Committed++
		}
		if progress != nil {
			progress(float64(result.Committed)/float64(result.Eligible)*100, result.Committed, result.Eligible)
		}
	}

	log.WithFields(log.Fields{
		"batch_id":  batch.BatchID,
		"committed": result.Committed,
		"eligible":  result.Eligible,
	}).Info("import batch committed")

	return result, nil
}

func toFuelRecord(rec *importer.ParsedFuelRecord, batchID string) *models.FuelRecord {
	fr := &models.FuelRecord{
		ID:            uuid.NewString(),
		Establishment: rec.Establishment,
		Station:       rec.Establishment,
		Address:       rec.Address,
		Locality:      rec.Locality,
		Province:      rec.Province,
		DriverName:    rec.DriverName,
		VehiclePlate:  rec.VehiclePlate,
		ReceiptNumber: rec.ReceiptNumber,
		ProductType:   rec.ProductType,
		InvoiceNumber: rec.InvoiceNumber,
		ImportBatchID: batchID,
	}
	if rec.Date != nil {
		fr.Date = rec.Date.Format("2006-01-02")
	}
	if rec.MatchedVehicleID != nil {
		fr.VehicleID = sql.NullString{String: *rec.MatchedVehicleID, Valid: true}
	}
	if rec.Odometer != nil {
		fr.Odometer = sql.NullFloat64{Float64: *rec.Odometer, Valid: true}
		fr.Kilometers = fr.Odometer
	}
	if rec.Liters != nil {
		fr.Liters = *rec.Liters
	}
	if rec.PricePerLiter != nil {
		fr.PricePerLiter = sql.NullFloat64{Float64: *rec.PricePerLiter, Valid: true}
	}
	if rec.TotalAmount != nil {
		fr.TotalAmount = *rec.TotalAmount
		fr.Cost = *rec.TotalAmount
	}
	if rec.IVA != nil {
		fr.IVA = sql.NullFloat64{Float64: *rec.IVA, Valid: true}
	}
	return fr
}

// ImportState is the lifecycle of one analyze-then-commit session.
type ImportState string

const (
	StateAnalyzing ImportState = "analyzing"
	StateAnalyzed  ImportState = "analyzed"
	StateImporting ImportState = "importing"
	StateDone      ImportState = "done"
)

// ImportSession tracks one upload through analysis and commit. There is
// no resume path: an abandoned or failed import means a fresh upload
// and a brand new session.
type ImportSession struct {
	ID        string
	State     ImportState
	Batch     *importer.ImportBatch
	Progress  float64
	Committed int
	Eligible  int

	mu sync.Mutex
}

func NewImportSession(batch *importer.ImportBatch) *ImportSession {
	return &ImportSession{
		ID:       uuid.NewString(),
		State:    StateAnalyzed,
		Batch:    batch,
		Eligible: len(batch.Eligible()),
	}
}

// BeginImport moves the session into the importing state. It refuses to
// start when the session is not freshly analyzed or when every analyzed
// row carries errors.
func (s *ImportSession) BeginImport() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State != StateAnalyzed {
		return fmt.Errorf("cannot start import from state %q", s.State)
	}
	if s.Eligible == 0 {
		return errors.New("no eligible records to import")
	}
	s.State = StateImporting
	return nil
}

func (s *ImportSession) RecordProgress(percent float64, committed, eligible int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Progress = percent
	s.Committed = committed
	s.Eligible = eligible
}

func (s *ImportSession) Finish(result *CommitResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State = StateDone
	s.Committed = result.Committed
	s.Eligible = result.Eligible
	s.Progress = 100
}

// SessionSnapshot is the externally visible view of a session.
type SessionSnapshot struct {
	ID        string              `json:"session_id"`
	State     ImportState         `json:"state"`
	BatchID   string              `json:"batch_id"`
	Stats     importer.BatchStats `json:"stats"`
	Progress  float64             `json:"progress"`
	Committed int                 `json:"committed"`
	Eligible  int                 `json:"eligible"`
}

func (s *ImportSession) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionSnapshot{
		ID:        s.ID,
		State:     s.State,
		BatchID:   s.Batch.BatchID,
		Stats:     s.Batch.Stats,
		Progress:  s.Progress,
		Committed: s.Committed,
		Eligible:  s.Eligible,
	}
}
