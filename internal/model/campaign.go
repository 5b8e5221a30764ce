// internal/model/campaign.go
package model

import "time"

// Campaign statuses are informational for the admin view; the in-window
// test below is what decides distribution.
const (
	CampaignScheduled = "SCHEDULED"
	CampaignActive    = "ACTIVE"
	CampaignPaused    = "PAUSED"
	CampaignCompleted = "COMPLETED"
	CampaignCancelled = "CANCELLED"
)

type Campaign struct {
	ID                   string     `db:"id" json:"id"`
	ClientID             string     `db:"client_id" json:"client_id"`
	Name                 string     `db:"name" json:"name"`
	Description          *string    `db:"description" json:"description,omitempty"`
	StartDate            time.Time  `db:"start_date" json:"start_date"`
	EndDate              time.Time  `db:"end_date" json:"end_date"`
	TargetCities         []string   `db:"target_cities" json:"target_cities"`
	TargetDeviceIDs      []string   `db:"target_device_ids" json:"target_device_ids"`
	Priority             int        `db:"priority" json:"priority"`
	DailyImpressionLimit *int       `db:"daily_impression_limit" json:"daily_impression_limit,omitempty"`
	TotalImpressionLimit *int       `db:"total_impression_limit" json:"total_impression_limit,omitempty"`
	Status               string     `db:"status" json:"status"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// InWindow reports whether the campaign is active on the given day.
// Boundaries are inclusive and compared at calendar-day granularity.
func (c *Campaign) InWindow(today time.Time) bool {
	d := DateOnly(today)
	return !d.Before(DateOnly(c.StartDate)) && !d.After(DateOnly(c.EndDate))
}

// DateOnly truncates a timestamp to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
