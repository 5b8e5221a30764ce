// internal/repository/ad_repository.go
package repository

import (
	"database/sql"
	"time"

	"github.com/theruads/fleet-backend/internal/model"
)

type AdRepositoryInterface interface {
	Create(a *model.Ad) error
	GetByID(id string) (*model.Ad, error)
	ListByCampaign(campaignID string) ([]*model.Ad, error)
	Delete(id string) error
}

type AdRepository struct {
	DB *sql.DB
}

func (r *AdRepository) Create(a *model.Ad) error {
	a.CreatedAt = time.Now().UTC()
	query := `
		INSERT INTO ads (id, campaign_id, file_name, file_url, duration, checksum, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.Exec(query, a.ID, a.CampaignID, a.FileName, a.FileURL, a.Duration, a.Checksum, a.CreatedAt)
	return err
}

func (r *AdRepository) GetByID(id string) (*model.Ad, error) {
	query := `SELECT id, campaign_id, file_name, file_url, duration, checksum, created_at FROM ads WHERE id=$1`
	var a model.Ad
	err := r.DB.QueryRow(query, id).Scan(&a.ID, &a.CampaignID, &a.FileName, &a.FileURL, &a.Duration, &a.Checksum, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AdRepository) ListByCampaign(campaignID string) ([]*model.Ad, error) {
	query := `SELECT id, campaign_id, file_name, file_url, duration, checksum, created_at FROM ads WHERE campaign_id=$1 ORDER BY created_at`
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ads := []*model.Ad{}
	for rows.Next() {
		a := &model.Ad{}
		if err := rows.Scan(&a.ID, &a.CampaignID, &a.FileName, &a.FileURL, &a.Duration, &a.Checksum, &a.CreatedAt); err != nil {
			return nil, err
		}
		ads = append(ads, a)
	}
	return ads, rows.Err()
}

func (r *AdRepository) Delete(id string) error {
	_, err := r.DB.Exec(`DELETE FROM ads WHERE id=$1`, id)
	return err
}

var _ AdRepositoryInterface = (*AdRepository)(nil)
