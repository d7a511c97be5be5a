package repositories

import (
	"database/sql"
	"errors"
	"time"

	"fuel-import-service/internal/models"
)

type DriverRepository interface {
	InsertDriver(tx *sql.Tx, d *models.Driver) error
	GetDriverByID(id string) (*models.Driver, error)
	GetAllDrivers() ([]*models.Driver, error)
	UpdateDriver(tx *sql.Tx, d *models.Driver) error
}

type driverRepository struct {
	db *sql.DB
}

func NewDriverRepository(db *sql.DB) DriverRepository {
	return &driverRepository{db: db}
}

func (r *driverRepository) InsertDriver(tx *sql.Tx, d *models.Driver) error {
	query := `
		INSERT INTO drivers (id, name, company)
		VALUES (?, ?, ?)
	`
	_, err := tx.Exec(query, d.ID, d.Name, d.Company)
	return err
}

func (r *driverRepository) GetDriverByID(id string) (*models.Driver, error) {
	d := &models.Driver{}
	query := `
		SELECT id, name, company, created_at, updated_at
		FROM drivers
		WHERE id = ?
	`
	err := r.db.QueryRow(query, id).Scan(
		&d.ID,
		&d.Name,
		&d.Company,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.New("driver not found")
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *driverRepository) GetAllDrivers() ([]*models.Driver, error) {
	query := `
		SELECT id, name, company, created_at, updated_at
		FROM drivers
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*models.Driver
	for rows.Next() {
		d := &models.Driver{}
		err := rows.Scan(
			&d.ID,
			&d.Name,
			&d.Company,
			&d.CreatedAt,
			&d.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return drivers, nil
}

func (r *driverRepository) UpdateDriver(tx *sql.Tx, d *models.Driver) error {
	query := `
		UPDATE drivers
		SET name = ?,
			company = ?,
			updated_at = ?
		WHERE id = ?
	`
	result, err := tx.Exec(query, d.Name, d.Company, time.Now(), d.ID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return errors.New("driver not found")
	}
	return nil
}
