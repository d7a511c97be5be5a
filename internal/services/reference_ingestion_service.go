package services

import (
	"database/sql"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"fuel-import-service/internal/models"
	"fuel-import-service/internal/repositories"
)

// ReferenceIngestionService bulk-loads the vehicle and driver reference
// rows the import pipeline matches against.
type ReferenceIngestionService struct {
	db          *sql.DB
	vehicleRepo repositories.VehicleRepository
	driverRepo  repositories.DriverRepository
}

func NewReferenceIngestionService(
	db *sql.DB,
	vehicleRepo repositories.VehicleRepository,
	driverRepo repositories.DriverRepository,
) *ReferenceIngestionService {
	return &ReferenceIngestionService{
		db:          db,
		vehicleRepo: vehicleRepo,
		driverRepo:  driverRepo,
	}
}

type VehicleInput struct {
	PrimaryPlate   string `json:"primary_plate"`
	SecondaryPlate string `json:"secondary_plate,omitempty"`
}

func (in VehicleInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.PrimaryPlate, validation.Required, validation.Length(3, 20)),
		validation.Field(&in.SecondaryPlate, validation.Length(3, 20)),
	)
}

type DriverInput struct {
	Name    string `json:"name"`
	Company string `json:"company"`
}

func (in DriverInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(2, 120)),
		validation.Field(&in.Company, validation.Required),
	)
}

type IngestionResult struct {
	Success      bool                   `json:"success"`
	RecordsCount int                    `json:"records_count"`
	Errors       []string               `json:"errors,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

func (s *ReferenceIngestionService) IngestVehicles(inputs []VehicleInput) (*IngestionResult, error) {
	result := &IngestionResult{
		Success: true,
		Details: make(map[string]interface{}),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	for _, input := range inputs {
		if err := input.Validate(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Invalid vehicle %s: %v", input.PrimaryPlate, err))
			continue
		}

		vehicle := &models.Vehicle{
			ID:           uuid.NewString(),
			PrimaryPlate: input.PrimaryPlate,
		}
		if input.SecondaryPlate != "" {
			vehicle.SecondaryPlate = sql.NullString{String: input.SecondaryPlate, Valid: true}
		}

		if err := s.vehicleRepo.InsertVehicle(tx, vehicle); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to insert vehicle %s: %v", input.PrimaryPlate, err))
			continue
		}

		result.RecordsCount++
	}

	result.Success = len(result.Errors) == 0
	result.Details["total_records"] = len(inputs)
	result.Details["successful"] = result.RecordsCount
	result.Details["failed"] = len(result.Errors)

	if result.Success {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %v", err)
		}
	}

	return result, nil
}

func (s *ReferenceIngestionService) IngestDrivers(inputs []DriverInput) (*IngestionResult, error) {
	result := &IngestionResult{
		Success: true,
		Details: make(map[string]interface{}),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	for _, input := range inputs {
		if err := input.Validate(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Invalid driver %s: %v", input.Name, err))
			continue
		}

		driver := &models.Driver{
			ID:      uuid.NewString(),
			Name:    input.Name,
			Company: input.Company,
		}

		if err := s.driverRepo.InsertDriver(tx, driver); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to insert driver %s: %v", input.Name, err))
			continue
		}

		result.RecordsCount++
	}

	result.Success = len(result.Errors) == 0
	result.Details["total_records"] = len(inputs)
	result.Details["successful"] = result.RecordsCount
	result.Details["failed"] = len(result.Errors)

	if result.Success {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %v", err)
		}
	}

	return result, nil
}
