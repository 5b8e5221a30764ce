// internal/service/analytics_service.go
package service

import (
	"log"
	"time"

	"github.com/theruads/fleet-backend/internal/model"
	"github.com/theruads/fleet-backend/internal/repository"
)

type AnalyticsService struct {
	DeviceRepo       repository.DeviceRepositoryInterface
	CampaignRepo     repository.CampaignRepositoryInterface
	ClientRepo       repository.ClientRepositoryInterface
	ImpressionRepo   repository.ImpressionRepositoryInterface
	OfflineThreshold time.Duration
}

type Overview struct {
	TotalDevices     int `json:"total_devices"`
	OnlineDevices    int `json:"online_devices"`
	OfflineDevices   int `json:"offline_devices"`
	TotalCampaigns   int `json:"total_campaigns"`
	ActiveCampaigns  int `json:"active_campaigns"`
	TotalImpressions int `json:"total_impressions"`
	TodayImpressions int `json:"today_impressions"`
}

type CampaignAnalytics struct {
	CampaignID       string `json:"campaign_id"`
	CampaignName     string `json:"campaign_name"`
	ClientID         string `json:"client_id"`
	ClientName       string `json:"client_name"`
	Status           string `json:"status"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	TotalImpressions int    `json:"total_impressions"`
	UniqueDevices    int    `json:"unique_devices"`
}

// Overview aggregates fleet-wide counts. Online/offline derive from
// last_seen against the threshold, not from the stored status hint.
// Errors here surface as dependency failures; this is a read path.
func (s *AnalyticsService) Overview() (*Overview, error) {
	now := time.Now().UTC()

	total, online, err := s.DeviceRepo.Counts(now.Add(-s.OfflineThreshold))
	if err != nil {
		return nil, err
	}

	totalCampaigns, err := s.CampaignRepo.Count()
	if err != nil {
		return nil, err
	}
	activeCampaigns, err := s.CampaignRepo.CountInWindow(now)
	if err != nil {
		return nil, err
	}

	totalImpressions, err := s.ImpressionRepo.CountAll()
	if err != nil {
		return nil, err
	}
	todayImpressions, err := s.ImpressionRepo.CountSince(model.DateOnly(now))
	if err != nil {
		return nil, err
	}

	return &Overview{
		TotalDevices:     total,
		OnlineDevices:    online,
		OfflineDevices:   total - online,
		TotalCampaigns:   totalCampaigns,
		ActiveCampaigns:  activeCampaigns,
		TotalImpressions: totalImpressions,
		TodayImpressions: todayImpressions,
	}, nil
}

// Campaigns reports per-campaign impression stats. Sub-query failures
// degrade to zeros with a logged warning; reporting is best effort, unlike
// the recording path.
func (s *AnalyticsService) Campaigns(campaignID string) ([]CampaignAnalytics, error) {
	var campaigns []*model.Campaign
	if campaignID != "" {
		c, err := s.CampaignRepo.GetByID(campaignID)
		if err != nil {
			return nil, err
		}
		campaigns = []*model.Campaign{c}
	} else {
		var err error
		campaigns, err = s.CampaignRepo.ListAll()
		if err != nil {
			return nil, err
		}
	}

	analytics := []CampaignAnalytics{}
	for _, c := range campaigns {
		clientName := "Unknown"
		if client, err := s.ClientRepo.GetByID(c.ClientID); err != nil {
			log.Println("⚠️ failed to fetch client for campaign", c.ID, ":", err)
		} else if client != nil {
			clientName = client.Name
		}

		total, uniqueDevices, err := s.ImpressionRepo.StatsByCampaign(c.ID)
		if err != nil {
			log.Println("⚠️ failed to fetch impression stats for campaign", c.ID, ":", err)
			total, uniqueDevices = 0, 0
		}

		analytics = append(analytics, CampaignAnalytics{
			CampaignID:       c.ID,
			CampaignName:     c.Name,
			ClientID:         c.ClientID,
			ClientName:       clientName,
			Status:           c.Status,
			StartDate:        model.DateOnly(c.StartDate).Format("2006-01-02"),
			EndDate:          model.DateOnly(c.EndDate).Format("2006-01-02"),
			TotalImpressions: total,
			UniqueDevices:    uniqueDevices,
		})
	}
	return analytics, nil
}

// Impressions lists raw impression rows with optional filters.
func (s *AnalyticsService) Impressions(f repository.ImpressionFilter) ([]*model.Impression, error) {
	return s.ImpressionRepo.List(f)
}
