package repositories

import (
	"database/sql"
	"errors"
	"time"

	"fuel-import-service/internal/models"
)

type VehicleRepository interface {
	InsertVehicle(tx *sql.Tx, v *models.Vehicle) error
	GetVehicleByID(id string) (*models.Vehicle, error)
	GetAllVehicles() ([]*models.Vehicle, error)
	UpdateVehicle(tx *sql.Tx, v *models.Vehicle) error
}

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) InsertVehicle(tx *sql.Tx, v *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, primary_plate, secondary_plate)
		VALUES (?, ?, ?)
	`
	_, err := tx.Exec(query, v.ID, v.PrimaryPlate, v.SecondaryPlate)
	return err
}

func (r *vehicleRepository) GetVehicleByID(id string) (*models.Vehicle, error) {
	v := &models.Vehicle{}
	query := `
		SELECT id, primary_plate, secondary_plate, created_at, updated_at
		FROM vehicles
		WHERE id = ?
	`
	err := r.db.QueryRow(query, id).Scan(
		&v.ID,
		&v.PrimaryPlate,
		&v.SecondaryPlate,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.New("vehicle not found")
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *vehicleRepository) GetAllVehicles() ([]*models.Vehicle, error) {
	query := `
		SELECT id, primary_plate, secondary_plate, created_at, updated_at
		FROM vehicles
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		v := &models.Vehicle{}
		err := rows.Scan(
			&v.ID,
			&v.PrimaryPlate,
			&v.SecondaryPlate,
			&v.CreatedAt,
			&v.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *vehicleRepository) UpdateVehicle(tx *sql.Tx, v *models.Vehicle) error {
	query := `
		UPDATE vehicles
		SET primary_plate = ?,
			secondary_plate = ?,
			updated_at = ?
		WHERE id = ?
	`
	result, err := tx.Exec(query, v.PrimaryPlate, v.SecondaryPlate, time.Now(), v.ID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return errors.New("vehicle not found")
	}
	return nil
}
