// internal/model/ad.go
package model

import "time"

// Ad is one creative asset. FileURL holds either an object-store key or an
// absolute URL; absolute URLs are served as-is, keys get signed on fetch.
type Ad struct {
	ID         string    `db:"id" json:"id"`
	CampaignID string    `db:"campaign_id" json:"campaign_id"`
	FileName   string    `db:"file_name" json:"file_name"`
	FileURL    string    `db:"file_url" json:"file_url"`
	Duration   int       `db:"duration" json:"duration"`
	Checksum   *string   `db:"checksum" json:"checksum,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
