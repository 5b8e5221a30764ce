// internal/model/heartbeat.go
package model

import "time"

// Heartbeat is one telemetry sample from a device.
type Heartbeat struct {
	ID            string    `db:"id" json:"id"`
	DeviceID      string    `db:"device_id" json:"device_id"`
	Battery       int       `db:"battery" json:"battery"`
	IsCharging    bool      `db:"is_charging" json:"is_charging"`
	StorageFreeGB float64   `db:"storage_free_gb" json:"storage_free_gb"`
	Latitude      *float64  `db:"gps_lat" json:"latitude,omitempty"`
	Longitude     *float64  `db:"gps_lng" json:"longitude,omitempty"`
	NetworkType   *string   `db:"network_type" json:"network_type,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
