// internal/model/impression.go
package model

import "time"

// Impression is one recorded ad play. Append-only, one row per physical
// playback, never updated or deduplicated.
type Impression struct {
	ID        string    `db:"id" json:"id"`
	DeviceID  string    `db:"device_id" json:"device_id"`
	AdID      string    `db:"ad_id" json:"ad_id"`
	PlayedAt  time.Time `db:"played_at" json:"played_at"`
	Latitude  *float64  `db:"gps_lat" json:"latitude,omitempty"`
	Longitude *float64  `db:"gps_lng" json:"longitude,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
