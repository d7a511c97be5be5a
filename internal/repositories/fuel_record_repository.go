package repositories

import (
	"database/sql"
	"errors"

	"fuel-import-service/internal/models"
)

type FuelRecordRepository interface {
	// InsertFuelRecord runs outside any transaction: the import commit
	// loop tolerates partial success and each row stands alone.
	InsertFuelRecord(fr *models.FuelRecord) error
	GetFuelRecordByID(id string) (*models.FuelRecord, error)
	GetRecordsByBatchID(batchID string) ([]*models.FuelRecord, error)
	CountByBatchID(batchID string) (int, error)
}

type fuelRecordRepository struct {
	db *sql.DB
}

func NewFuelRecordRepository(db *sql.DB) FuelRecordRepository {
	return &fuelRecordRepository{db: db}
}

func (r *fuelRecordRepository) InsertFuelRecord(fr *models.FuelRecord) error {
	query := `
		INSERT INTO fuel_records (
			id, date, establishment, station, address, locality, province,
			driver_name, vehicle_plate, vehicle_id, odometer, kilometers,
			receipt_number, product_type, liters, price_per_liter,
			total_amount, cost, iva, invoice_number, import_batch_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		fr.ID,
		fr.Date,
		fr.Establishment,
		fr.Station,
		fr.Address,
		fr.Locality,
		fr.Province,
		fr.DriverName,
		fr.VehiclePlate,
		fr.VehicleID,
		fr.Odometer,
		fr.Kilometers,
		fr.ReceiptNumber,
		fr.ProductType,
		fr.Liters,
		fr.PricePerLiter,
		fr.TotalAmount,
		fr.Cost,
		fr.IVA,
		fr.InvoiceNumber,
		fr.ImportBatchID,
	)
	return err
}

func (r *fuelRecordRepository) GetFuelRecordByID(id string) (*models.FuelRecord, error) {
	fr := &models.FuelRecord{}
	query := `
		SELECT id, date, establishment, station, address, locality, province,
		       driver_name, vehicle_plate, vehicle_id, odometer, kilometers,
		       receipt_number, product_type, liters, price_per_liter,
		       total_amount, cost, iva, invoice_number, import_batch_id, created_at
		FROM fuel_records
		WHERE id = ?
	`
	err := r.db.QueryRow(query, id).Scan(
		&fr.ID,
		&fr.Date,
		&fr.Establishment,
		&fr.Station,
		&fr.Address,
		&fr.Locality,
		&fr.Province,
		&fr.DriverName,
		&fr.VehiclePlate,
		&fr.VehicleID,
		&fr.Odometer,
		&fr.Kilometers,
		&fr.ReceiptNumber,
		&fr.ProductType,
		&fr.Liters,
		&fr.PricePerLiter,
		&fr.TotalAmount,
		&fr.Cost,
		&fr.IVA,
		&fr.InvoiceNumber,
		&fr.ImportBatchID,
		&fr.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.New("fuel record not found")
	}
	if err != nil {
		return nil, err
	}
	return fr, nil
}

func (r *fuelRecordRepository) GetRecordsByBatchID(batchID string) ([]*models.FuelRecord, error) {
	query := `
		SELECT id, date, establishment, station, address, locality, province,
		       driver_name, vehicle_plate, vehicle_id, odometer, kilometers,
		       receipt_number, product_type, liters, price_per_liter,
		       total_amount, cost, iva, invoice_number, import_batch_id, created_at
		FROM fuel_records
		WHERE import_batch_id = ?
		ORDER BY created_at
	`
	rows, err := r.db.Query(query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.FuelRecord
	for rows.Next() {
		fr := &models.FuelRecord{}
		err := rows.Scan(
			&fr.ID,
			&fr.Date,
			&fr.Establishment,
			&fr.Station,
			&fr.Address,
			&fr.Locality,
			&fr.Province,
			&fr.DriverName,
			&fr.VehiclePlate,
			&fr.VehicleID,
			&fr.Odometer,
			&fr.Kilometers,
			&fr.ReceiptNumber,
			&fr.ProductType,
			&fr.Liters,
			&fr.PricePerLiter,
			&fr.TotalAmount,
			&fr.Cost,
			&fr.IVA,
			&fr.InvoiceNumber,
			&fr.ImportBatchID,
			&fr.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, fr)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *fuelRecordRepository) CountByBatchID(batchID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM fuel_records WHERE import_batch_id = ?`
	err := r.db.QueryRow(query, batchID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
