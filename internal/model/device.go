// internal/model/device.go
package model

import "time"

// Device liveness states. The stored status column is a denormalized hint
// refreshed by heartbeats and the offline sweep; truthful state is always
// derived from last_seen via Liveness.
const (
	StatusOnline   = "ONLINE"
	StatusOffline  = "OFFLINE"
	StatusInactive = "INACTIVE"
)

type Device struct {
	ID           string     `db:"id" json:"id"`
	DeviceCode   string     `db:"device_code" json:"device_code"`
	SecretKey    string     `db:"secret_key" json:"-"`
	Model        *string    `db:"model" json:"model,omitempty"`
	OSVersion    *string    `db:"os_version" json:"os_version,omitempty"`
	AppVersion   *string    `db:"app_version" json:"app_version,omitempty"`
	SerialNumber *string    `db:"serial_number" json:"serial_number,omitempty"`
	City         *string    `db:"city" json:"city,omitempty"`
	DriverID     *string    `db:"driver_id" json:"driver_id,omitempty"`
	Status       string     `db:"status" json:"status"`
	LastSeen     *time.Time `db:"last_seen" json:"last_seen,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// Liveness derives the device state from the last heartbeat. A device that
// has never sent a heartbeat is INACTIVE.
func (d *Device) Liveness(now time.Time, offlineThreshold time.Duration) string {
	if d.LastSeen == nil {
		return StatusInactive
	}
	if now.Sub(*d.LastSeen) < offlineThreshold {
		return StatusOnline
	}
	return StatusOffline
}
