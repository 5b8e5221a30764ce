// internal/controller/analytics_controller.go
package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/theruads/fleet-backend/internal/repository"
	"github.com/theruads/fleet-backend/internal/service"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func (c *AnalyticsController) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := c.AnalyticsService.Overview()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (c *AnalyticsController) Campaigns(w http.ResponseWriter, r *http.Request) {
	campaignID := r.URL.Query().Get("campaign_id")

	analytics, err := c.AnalyticsService.Campaigns(campaignID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

func (c *AnalyticsController) Impressions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.ImpressionFilter{
		DeviceID:   q.Get("device_id"),
		CampaignID: q.Get("campaign_id"),
		Limit:      100,
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			http.Error(w, "invalid start_date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		filter.StartDate = &t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			http.Error(w, "invalid end_date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		// inclusive end of day
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	impressions, err := c.AnalyticsService.Impressions(filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, impressions)
}
