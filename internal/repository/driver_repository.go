// internal/repository/driver_repository.go
package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/theruads/fleet-backend/internal/errors"
	"github.com/theruads/fleet-backend/internal/model"
)

type DriverRepositoryInterface interface {
	Create(d *model.Driver) error
	GetByID(id string) (*model.Driver, error)
	ListAll() ([]*model.Driver, error)
	Update(d *model.Driver) error
	Delete(id string) error
}

type DriverRepository struct {
	DB *sql.DB
}

func (r *DriverRepository) Create(d *model.Driver) error {
	d.CreatedAt = time.Now().UTC()
	if d.Status == "" {
		d.Status = "ACTIVE"
	}
	query := `
		INSERT INTO drivers (id, name, phone, email, license_number, city, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.Exec(query, d.ID, d.Name, d.Phone, d.Email, d.LicenseNumber, d.City, d.Status, d.CreatedAt)
	return err
}

func (r *DriverRepository) GetByID(id string) (*model.Driver, error) {
	query := `SELECT id, name, phone, email, license_number, city, status, created_at FROM drivers WHERE id=$1`
	var d model.Driver
	err := r.DB.QueryRow(query, id).Scan(&d.ID, &d.Name, &d.Phone, &d.Email, &d.LicenseNumber, &d.City, &d.Status, &d.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DriverRepository) ListAll() ([]*model.Driver, error) {
	rows, err := r.DB.Query(`SELECT id, name, phone, email, license_number, city, status, created_at FROM drivers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := []*model.Driver{}
	for rows.Next() {
		d := &model.Driver{}
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.Email, &d.LicenseNumber, &d.City, &d.Status, &d.CreatedAt); err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

func (r *DriverRepository) Update(d *model.Driver) error {
	query := `UPDATE drivers SET name=$1, phone=$2, email=$3, license_number=$4, city=$5, status=$6 WHERE id=$7`
	res, err := r.DB.Exec(query, d.Name, d.Phone, d.Email, d.LicenseNumber, d.City, d.Status, d.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return appErrors.NewNotFound("driver", d.ID)
	}
	return err
}

func (r *DriverRepository) Delete(id string) error {
	_, err := r.DB.Exec(`DELETE FROM drivers WHERE id=$1`, id)
	return err
}

var _ DriverRepositoryInterface = (*DriverRepository)(nil)
