package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuel-import-service/internal/models"
)

func newMockRepo(t *testing.T) (FuelRecordRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFuelRecordRepository(db), mock
}

func TestInsertFuelRecordWritesLegacyColumns(t *testing.T) {
	repo, mock := newMockRepo(t)

	fr := &models.FuelRecord{
		ID:            "rec-1",
		Date:          "2024-03-15",
		Establishment: "ACME",
		Station:       "ACME",
		Address:       "Ruta 9",
		Locality:      "Rosario",
		Province:      "Santa Fe",
		DriverName:    "Juan Perez",
		VehiclePlate:  "AB123CD",
		VehicleID:     sql.NullString{String: "veh-1", Valid: true},
		Odometer:      sql.NullFloat64{Float64: 50000, Valid: true},
		Kilometers:    sql.NullFloat64{Float64: 50000, Valid: true},
		ReceiptNumber: "R-001",
		ProductType:   "Diesel",
		Liters:        120.5,
		PricePerLiter: sql.NullFloat64{Float64: 850, Valid: true},
		TotalAmount:   102425,
		Cost:          102425,
		InvoiceNumber: "F-0001",
		ImportBatchID: "FUEL-1",
	}

	// Both the canonical and the legacy mirror columns travel in the
	// same insert.
	mock.ExpectExec("INSERT INTO fuel_records").WithArgs(
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
	).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.InsertFuelRecord(fr))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRecordsByBatchID(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	columns := []string{
		"id", "date", "establishment", "station", "address", "locality", "province",
		"driver_name", "vehicle_plate", "vehicle_id", "odometer", "kilometers",
		"receipt_number", "product_type", "liters", "price_per_liter",
		"total_amount", "cost", "iva", "invoice_number", "import_batch_id", "created_at",
	}
	mock.ExpectQuery("SELECT (.+) FROM fuel_records").WithArgs("FUEL-1").WillReturnRows(
		sqlmock.NewRows(columns).
			AddRow("rec-1", "2024-03-15", "ACME", "ACME", "", "", "", "Juan Perez",
				"AB123CD", "veh-1", 50000.0, 50000.0, "R-001", "Diesel", 120.5, 850.0,
				102425.0, 102425.0, nil, "", "FUEL-1", now).
			AddRow("rec-2", "2024-03-16", "YPF", "YPF", "", "", "", "",
				"AC456BD", nil, nil, nil, "", "Diesel", 80.0, nil,
				68000.0, 68000.0, nil, "", "FUEL-1", now),
	)

	records, err := repo.GetRecordsByBatchID("FUEL-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "rec-1", records[0].ID)
	assert.Equal(t, records[0].TotalAmount, records[0].Cost)
	assert.False(t, records[1].VehicleID.Valid)
}

func TestCountByBatchID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT COUNT").WithArgs("FUEL-1").WillReturnRows(
		sqlmock.NewRows([]string{"count"}).AddRow(7),
	)

	count, err := repo.CountByBatchID("FUEL-1")
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}
