// internal/repository/campaign_repository.go
package repository

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	appErrors "github.com/theruads/fleet-backend/internal/errors"
	"github.com/theruads/fleet-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(id string) (*model.Campaign, error)
	ListAll() ([]*model.Campaign, error)
	List(clientID string) ([]*model.Campaign, error)
	Update(c *model.Campaign) error
	Count() (int, error)
	CountInWindow(today time.Time) (int, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, client_id, name, description, start_date, end_date, target_cities, target_device_ids, priority, daily_impression_limit, total_impression_limit, status, created_at, updated_at`

func (r *CampaignRepository) Create(c *model.Campaign) error {
	c.CreatedAt = time.Now().UTC()
	if c.Status == "" {
		c.Status = model.CampaignScheduled
	}
	if c.Priority == 0 {
		c.Priority = 1
	}
	query := `
		INSERT INTO campaigns (id, client_id, name, description, start_date, end_date, target_cities, target_device_ids, priority, daily_impression_limit, total_impression_limit, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.DB.Exec(query, c.ID, c.ClientID, c.Name, c.Description, c.StartDate, c.EndDate,
		pq.Array(c.TargetCities), pq.Array(c.TargetDeviceIDs), c.Priority,
		c.DailyImpressionLimit, c.TotalImpressionLimit, c.Status, c.CreatedAt)
	return err
}

func (r *CampaignRepository) GetByID(id string) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1`
	var c model.Campaign
	err := r.DB.QueryRow(query, id).Scan(&c.ID, &c.ClientID, &c.Name, &c.Description,
		&c.StartDate, &c.EndDate, pq.Array(&c.TargetCities), pq.Array(&c.TargetDeviceIDs),
		&c.Priority, &c.DailyImpressionLimit, &c.TotalImpressionLimit, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewNotFound("campaign", id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) ListAll() ([]*model.Campaign, error) {
	return r.list(`SELECT `+campaignColumns+` FROM campaigns ORDER BY created_at`, nil)
}

func (r *CampaignRepository) List(clientID string) ([]*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE 1=1`
	args := []interface{}{}
	if clientID != "" {
		query += " AND client_id=$1"
		args = append(args, clientID)
	}
	query += " ORDER BY created_at DESC"
	return r.list(query, args)
}

func (r *CampaignRepository) list(query string, args []interface{}) ([]*model.Campaign, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []*model.Campaign{}
	for rows.Next() {
		c := &model.Campaign{}
		if err := rows.Scan(&c.ID, &c.ClientID, &c.Name, &c.Description,
			&c.StartDate, &c.EndDate, pq.Array(&c.TargetCities), pq.Array(&c.TargetDeviceIDs),
			&c.Priority, &c.DailyImpressionLimit, &c.TotalImpressionLimit, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) Update(c *model.Campaign) error {
	query := `
		UPDATE campaigns
		SET name=$1, description=$2, start_date=$3, end_date=$4, target_cities=$5, target_device_ids=$6, priority=$7, daily_impression_limit=$8, total_impression_limit=$9, status=$10, updated_at=NOW()
		WHERE id=$11
	`
	res, err := r.DB.Exec(query, c.Name, c.Description, c.StartDate, c.EndDate,
		pq.Array(c.TargetCities), pq.Array(c.TargetDeviceIDs), c.Priority,
		c.DailyImpressionLimit, c.TotalImpressionLimit, c.Status, c.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return appErrors.NewNotFound("campaign", c.ID)
	}
	return err
}

func (r *CampaignRepository) Count() (int, error) {
	var total int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM campaigns`).Scan(&total)
	return total, err
}

func (r *CampaignRepository) CountInWindow(today time.Time) (int, error) {
	day := model.DateOnly(today)
	var total int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM campaigns WHERE start_date <= $1 AND end_date >= $1`, day).Scan(&total)
	return total, err
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
