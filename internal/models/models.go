package models

import (
	"database/sql"
	"time"
)

// Vehicle is a fleet vehicle reference entry. Plates are stored as
// entered; normalization happens at match time.
type Vehicle struct {
	ID             string         `db:"id" json:"id"`
	PrimaryPlate   string         `db:"primary_plate" json:"primary_plate"`
	SecondaryPlate sql.NullString `db:"secondary_plate" json:"secondary_plate"`
	CreatedAt      time.Time      `db:"created_at" json:"-"`
	UpdatedAt      time.Time      `db:"updated_at" json:"-"`
}

// Driver is a driver reference entry used for advisory name matching.
type Driver struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Company   string    `db:"company" json:"company"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// FuelRecord is one committed fuel transaction. Kilometers, Cost and
// Station duplicate Odometer, TotalAmount and Establishment: downstream
// reporting still reads the legacy column names, so both sets are
// written on insert.
type FuelRecord struct {
	ID            string          `db:"id" json:"id"`
	Date          string          `db:"date" json:"date"`
	Establishment string          `db:"establishment" json:"establishment"`
	Station       string          `db:"station" json:"station"`
	Address       string          `db:"address" json:"address"`
	Locality      string          `db:"locality" json:"locality"`
	Province      string          `db:"province" json:"province"`
	DriverName    string          `db:"driver_name" json:"driver_name"`
	VehiclePlate  string          `db:"vehicle_plate" json:"vehicle_plate"`
	VehicleID     sql.NullString  `db:"vehicle_id" json:"vehicle_id"`
	Odometer      sql.NullFloat64 `db:"odometer" json:"odometer"`
	Kilometers    sql.NullFloat64 `db:"kilometers" json:"kilometers"`
	ReceiptNumber string          `db:"receipt_number" json:"receipt_number"`
	ProductType   string          `db:"product_type" json:"product_type"`
	Liters        float64         `db:"liters" json:"liters"`
	PricePerLiter sql.NullFloat64 `db:"price_per_liter" json:"price_per_liter"`
	TotalAmount   float64         `db:"total_amount" json:"total_amount"`
	Cost          float64         `db:"cost" json:"cost"`
	IVA           sql.NullFloat64 `db:"iva" json:"iva"`
	InvoiceNumber string          `db:"invoice_number" json:"invoice_number"`
	ImportBatchID string          `db:"import_batch_id" json:"import_batch_id"`
	CreatedAt     time.Time       `db:"created_at" json:"-"`
}
