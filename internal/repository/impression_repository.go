// internal/repository/impression_repository.go
package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/theruads/fleet-backend/internal/model"
)

// ImpressionFilter narrows the impression listing for analytics.
type ImpressionFilter struct {
	DeviceID   string
	CampaignID string
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
}

type ImpressionRepositoryInterface interface {
	Create(imp *model.Impression) error
	GetByID(id string) (*model.Impression, error)
	List(f ImpressionFilter) ([]*model.Impression, error)
	CountAll() (int, error)
	CountSince(t time.Time) (int, error)
	StatsByCampaign(campaignID string) (total, uniqueDevices int, err error)
	UpsertDaily(adID string, day time.Time, delta int) error
}

type ImpressionRepository struct {
	DB *sql.DB
}

// Create appends exactly one row. Callers must surface any error so the
// device can retry; lost impressions are lost revenue.
func (r *ImpressionRepository) Create(imp *model.Impression) error {
	imp.CreatedAt = time.Now().UTC()
	query := `
		INSERT INTO impressions (id, device_id, ad_id, played_at, gps_lat, gps_lng, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.Exec(query, imp.ID, imp.DeviceID, imp.AdID, imp.PlayedAt, imp.Latitude, imp.Longitude, imp.CreatedAt)
	return err
}

func (r *ImpressionRepository) GetByID(id string) (*model.Impression, error) {
	query := `SELECT id, device_id, ad_id, played_at, gps_lat, gps_lng, created_at FROM impressions WHERE id=$1`
	var imp model.Impression
	err := r.DB.QueryRow(query, id).Scan(&imp.ID, &imp.DeviceID, &imp.AdID, &imp.PlayedAt, &imp.Latitude, &imp.Longitude, &imp.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &imp, nil
}

func (r *ImpressionRepository) List(f ImpressionFilter) ([]*model.Impression, error) {
	query := `SELECT i.id, i.device_id, i.ad_id, i.played_at, i.gps_lat, i.gps_lng, i.created_at FROM impressions i`
	args := []interface{}{}
	argPos := 1

	if f.CampaignID != "" {
		query += " JOIN ads a ON i.ad_id = a.id"
	}
	query += " WHERE 1=1"
	if f.CampaignID != "" {
		query += fmt.Sprintf(" AND a.campaign_id=$%d", argPos)
		args = append(args, f.CampaignID)
		argPos++
	}
	if f.DeviceID != "" {
		query += fmt.Sprintf(" AND i.device_id=$%d", argPos)
		args = append(args, f.DeviceID)
		argPos++
	}
	if f.StartDate != nil {
		query += fmt.Sprintf(" AND i.played_at >= $%d", argPos)
		args = append(args, *f.StartDate)
		argPos++
	}
	if f.EndDate != nil {
		query += fmt.Sprintf(" AND i.played_at <= $%d", argPos)
		args = append(args, *f.EndDate)
		argPos++
	}

	limit := f.Limit
	if limit < 1 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	query += fmt.Sprintf(" ORDER BY i.played_at DESC LIMIT $%d", argPos)
	args = append(args, limit)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	impressions := []*model.Impression{}
	for rows.Next() {
		imp := &model.Impression{}
		if err := rows.Scan(&imp.ID, &imp.DeviceID, &imp.AdID, &imp.PlayedAt, &imp.Latitude, &imp.Longitude, &imp.CreatedAt); err != nil {
			return nil, err
		}
		impressions = append(impressions, imp)
	}
	return impressions, rows.Err()
}

func (r *ImpressionRepository) CountAll() (int, error) {
	var total int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM impressions`).Scan(&total)
	return total, err
}

func (r *ImpressionRepository) CountSince(t time.Time) (int, error) {
	var total int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM impressions WHERE played_at >= $1`, t).Scan(&total)
	return total, err
}

func (r *ImpressionRepository) StatsByCampaign(campaignID string) (int, int, error) {
	query := `
		SELECT COUNT(*), COUNT(DISTINCT i.device_id)
		FROM impressions i
		JOIN ads a ON i.ad_id = a.id
		WHERE a.campaign_id = $1
	`
	var total, uniqueDevices int
	if err := r.DB.QueryRow(query, campaignID).Scan(&total, &uniqueDevices); err != nil {
		return 0, 0, err
	}
	return total, uniqueDevices, nil
}

// UpsertDaily folds impression events into the per-ad daily aggregate,
// maintained best-effort by cmd/worker.
func (r *ImpressionRepository) UpsertDaily(adID string, day time.Time, delta int) error {
	query := `
		INSERT INTO impression_daily (ad_id, day, impressions)
		VALUES ($1, $2, $3)
		ON CONFLICT (ad_id, day) DO UPDATE SET impressions = impression_daily.impressions + EXCLUDED.impressions
	`
	_, err := r.DB.Exec(query, adID, model.DateOnly(day), delta)
	return err
}

var _ ImpressionRepositoryInterface = (*ImpressionRepository)(nil)
