// internal/repository/device_repository.go
package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/theruads/fleet-backend/internal/model"
)

type DeviceRepositoryInterface interface {
	Create(d *model.Device) error
	FindByCode(deviceCode string) (*model.Device, error)
	GetByID(id string) (*model.Device, error)
	List(city, status string) ([]*model.Device, error)
	UpdateLastSeen(id string, seenAt time.Time, status string) error
	UpdateAssignment(id string, city, driverID *string) error
	Delete(id string) error
	MarkStaleOffline(before time.Time) (int64, error)
	InsertHeartbeat(h *model.Heartbeat) error
	Counts(onlineSince time.Time) (total, online int, err error)
}

type DeviceRepository struct {
	DB *sql.DB
}

const deviceColumns = `id, device_code, secret_key, model, os_version, app_version, serial_number, city, driver_id, status, last_seen, created_at`

func (r *DeviceRepository) scanDevice(row *sql.Row) (*model.Device, error) {
	var d model.Device
	err := row.Scan(&d.ID, &d.DeviceCode, &d.SecretKey, &d.Model, &d.OSVersion, &d.AppVersion,
		&d.SerialNumber, &d.City, &d.DriverID, &d.Status, &d.LastSeen, &d.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DeviceRepository) Create(d *model.Device) error {
	d.CreatedAt = time.Now().UTC()
	if d.Status == "" {
		d.Status = model.StatusOffline
	}
	query := `
		INSERT INTO devices (id, device_code, secret_key, model, os_version, app_version, serial_number, city, driver_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.DB.Exec(query, d.ID, d.DeviceCode, d.SecretKey, d.Model, d.OSVersion, d.AppVersion,
		d.SerialNumber, d.City, d.DriverID, d.Status, d.CreatedAt)
	return err
}

func (r *DeviceRepository) FindByCode(deviceCode string) (*model.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE device_code=$1`
	return r.scanDevice(r.DB.QueryRow(query, deviceCode))
}

func (r *DeviceRepository) GetByID(id string) (*model.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE id=$1`
	return r.scanDevice(r.DB.QueryRow(query, id))
}

func (r *DeviceRepository) List(city, status string) ([]*model.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if city != "" {
		query += fmt.Sprintf(" AND city=$%d", argPos)
		args = append(args, city)
		argPos++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	devices := []*model.Device{}
	for rows.Next() {
		d := &model.Device{}
		if err := rows.Scan(&d.ID, &d.DeviceCode, &d.SecretKey, &d.Model, &d.OSVersion, &d.AppVersion,
			&d.SerialNumber, &d.City, &d.DriverID, &d.Status, &d.LastSeen, &d.CreatedAt); err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (r *DeviceRepository) UpdateLastSeen(id string, seenAt time.Time, status string) error {
	query := `UPDATE devices SET last_seen=$1, status=$2 WHERE id=$3`
	_, err := r.DB.Exec(query, seenAt, status, id)
	return err
}

func (r *DeviceRepository) UpdateAssignment(id string, city, driverID *string) error {
	query := `UPDATE devices SET city=COALESCE($1, city), driver_id=COALESCE($2, driver_id) WHERE id=$3`
	_, err := r.DB.Exec(query, city, driverID, id)
	return err
}

func (r *DeviceRepository) Delete(id string) error {
	_, err := r.DB.Exec(`DELETE FROM devices WHERE id=$1`, id)
	return err
}

// MarkStaleOffline flips the stored status hint for devices whose last
// heartbeat predates the cutoff. Conditional on the current status so a
// concurrent heartbeat racing the sweep is never clobbered blindly.
func (r *DeviceRepository) MarkStaleOffline(before time.Time) (int64, error) {
	query := `UPDATE devices SET status=$1 WHERE status=$2 AND last_seen < $3`
	res, err := r.DB.Exec(query, model.StatusOffline, model.StatusOnline, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *DeviceRepository) InsertHeartbeat(h *model.Heartbeat) error {
	query := `
		INSERT INTO heartbeats (id, device_id, battery, is_charging, storage_free_gb, gps_lat, gps_lng, network_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.DB.Exec(query, h.ID, h.DeviceID, h.Battery, h.IsCharging, h.StorageFreeGB,
		h.Latitude, h.Longitude, h.NetworkType, h.CreatedAt)
	return err
}

// Counts returns total devices and how many have a heartbeat newer than
// onlineSince. Online is derived from last_seen here, not read from the
// stored status column.
func (r *DeviceRepository) Counts(onlineSince time.Time) (int, int, error) {
	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE last_seen > $1) FROM devices`
	var total, online int
	if err := r.DB.QueryRow(query, onlineSince).Scan(&total, &online); err != nil {
		return 0, 0, err
	}
	return total, online, nil
}

var _ DeviceRepositoryInterface = (*DeviceRepository)(nil)
