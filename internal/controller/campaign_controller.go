// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/theruads/fleet-backend/internal/model"
	"github.com/theruads/fleet-backend/internal/repository"
	"github.com/theruads/fleet-backend/internal/service"
)

// maxUploadBytes bounds creative uploads (videos) read into memory.
const maxUploadBytes = 512 << 20

type CampaignController struct {
	CampaignRepo repository.CampaignRepositoryInterface
	AdsService   *service.AdsService
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ClientID             string   `json:"client_id"`
		Name                 string   `json:"name"`
		Description          *string  `json:"description"`
		StartDate            string   `json:"start_date"`
		EndDate              string   `json:"end_date"`
		TargetCities         []string `json:"target_cities"`
		TargetDeviceIDs      []string `json:"target_device_ids"`
		Priority             int      `json:"priority"`
		DailyImpressionLimit *int     `json:"daily_impression_limit"`
		TotalImpressionLimit *int     `json:"total_impression_limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.ClientID == "" || body.Name == "" {
		http.Error(w, "client_id and name are required", http.StatusBadRequest)
		return
	}

	startDate, err := time.Parse("2006-01-02", body.StartDate)
	if err != nil {
		http.Error(w, "invalid start_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	endDate, err := time.Parse("2006-01-02", body.EndDate)
	if err != nil {
		http.Error(w, "invalid end_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if endDate.Before(startDate) {
		http.Error(w, "end_date must not precede start_date", http.StatusBadRequest)
		return
	}

	campaign := &model.Campaign{
		ID:                   uuid.NewString(),
		ClientID:             body.ClientID,
		Name:                 body.Name,
		Description:          body.Description,
		StartDate:            startDate,
		EndDate:              endDate,
		TargetCities:         body.TargetCities,
		TargetDeviceIDs:      body.TargetDeviceIDs,
		Priority:             body.Priority,
		DailyImpressionLimit: body.DailyImpressionLimit,
		TotalImpressionLimit: body.TotalImpressionLimit,
	}
	if err := c.CampaignRepo.Create(campaign); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")

	campaigns, err := c.CampaignRepo.List(clientID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	campaign, err := c.CampaignRepo.GetByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	campaign, err := c.CampaignRepo.GetByID(id)
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Name                 *string  `json:"name"`
		Description          *string  `json:"description"`
		StartDate            *string  `json:"start_date"`
		EndDate              *string  `json:"end_date"`
		TargetCities         []string `json:"target_cities"`
		TargetDeviceIDs      []string `json:"target_device_ids"`
		Priority             *int     `json:"priority"`
		DailyImpressionLimit *int     `json:"daily_impression_limit"`
		TotalImpressionLimit *int     `json:"total_impression_limit"`
		Status               *string  `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if body.Name != nil {
		campaign.Name = *body.Name
	}
	if body.Description != nil {
		campaign.Description = body.Description
	}
	if body.StartDate != nil {
		t, err := time.Parse("2006-01-02", *body.StartDate)
		if err != nil {
			http.Error(w, "invalid start_date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		campaign.StartDate = t
	}
	if body.EndDate != nil {
		t, err := time.Parse("2006-01-02", *body.EndDate)
		if err != nil {
			http.Error(w, "invalid end_date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		campaign.EndDate = t
	}
	if body.TargetCities != nil {
		campaign.TargetCities = body.TargetCities
	}
	if body.TargetDeviceIDs != nil {
		campaign.TargetDeviceIDs = body.TargetDeviceIDs
	}
	if body.Priority != nil {
		campaign.Priority = *body.Priority
	}
	if body.DailyImpressionLimit != nil {
		campaign.DailyImpressionLimit = body.DailyImpressionLimit
	}
	if body.TotalImpressionLimit != nil {
		campaign.TotalImpressionLimit = body.TotalImpressionLimit
	}
	if body.Status != nil {
		campaign.Status = *body.Status
	}

	if err := c.CampaignRepo.Update(campaign); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Campaign updated",
		"campaign": campaign,
	})
}

// UploadAd accepts a multipart video, stores it, and records the creative.
func (c *CampaignController) UploadAd(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "invalid multipart body: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	duration := 30
	if v := r.FormValue("duration"); v != "" {
		duration, err = strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid duration", http.StatusBadRequest)
			return
		}
	}

	content, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	ad, signedURL, err := c.AdsService.UploadAd(r.Context(), campaignID, header.Filename, contentType, content, duration)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Ad uploaded successfully",
		"ad":         ad,
		"signed_url": signedURL,
	})
}

func (c *CampaignController) ListAds(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")

	ads, err := c.AdsService.ListCampaignAds(r.Context(), campaignID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ads)
}

func (c *CampaignController) DeleteAd(w http.ResponseWriter, r *http.Request) {
	adID := chi.URLParam(r, "id")

	if err := c.AdsService.DeleteAd(r.Context(), adID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Ad deleted"})
}
