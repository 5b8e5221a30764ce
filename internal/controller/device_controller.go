// internal/controller/device_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/theruads/fleet-backend/internal/auth"
	"github.com/theruads/fleet-backend/internal/service"
)

// DeviceController serves the tablet-facing surface: register, heartbeat,
// ad fetch, impression reporting.
type DeviceController struct {
	DeviceService     *service.DeviceService
	AdsService        *service.AdsService
	ImpressionService *service.ImpressionService
}

func (c *DeviceController) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Model        string  `json:"model"`
		OSVersion    string  `json:"os_version"`
		AppVersion   string  `json:"app_version"`
		SerialNumber *string `json:"serial_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	device, err := c.DeviceService.Register(body.Model, body.OSVersion, body.AppVersion, body.SerialNumber)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"device_code":      device.DeviceCode,
		"secret_key":       device.SecretKey,
		"polling_interval": c.DeviceService.PollingInterval,
	})
}

func (c *DeviceController) Heartbeat(w http.ResponseWriter, r *http.Request) {
	device, ok := auth.DeviceFromContext(r.Context())
	if !ok {
		http.Error(w, "device credentials required", http.StatusUnauthorized)
		return
	}

	var body struct {
		Battery       int      `json:"battery"`
		IsCharging    bool     `json:"is_charging"`
		StorageFreeGB float64  `json:"storage_free_gb"`
		Latitude      *float64 `json:"latitude"`
		Longitude     *float64 `json:"longitude"`
		NetworkType   *string  `json:"network_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	serverTime, err := c.DeviceService.Heartbeat(device.ID, service.HeartbeatInput{
		Battery:       body.Battery,
		IsCharging:    body.IsCharging,
		StorageFreeGB: body.StorageFreeGB,
		Latitude:      body.Latitude,
		Longitude:     body.Longitude,
		NetworkType:   body.NetworkType,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "OK",
		"server_time": serverTime.Format(time.RFC3339),
	})
}

func (c *DeviceController) GetAds(w http.ResponseWriter, r *http.Request) {
	device, ok := auth.DeviceFromContext(r.Context())
	if !ok {
		http.Error(w, "device credentials required", http.StatusUnauthorized)
		return
	}

	now := time.Now().UTC()
	ads, err := c.AdsService.ResolveEligibleAds(r.Context(), device.DeviceCode, now)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ads":         ads,
		"server_time": now.Format(time.RFC3339),
	})
}

func (c *DeviceController) RecordImpression(w http.ResponseWriter, r *http.Request) {
	device, ok := auth.DeviceFromContext(r.Context())
	if !ok {
		http.Error(w, "device credentials required", http.StatusUnauthorized)
		return
	}

	var body struct {
		AdID      string    `json:"ad_id"`
		Timestamp time.Time `json:"timestamp"`
		Latitude  *float64  `json:"latitude"`
		Longitude *float64  `json:"longitude"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.AdID == "" {
		http.Error(w, "ad_id is required", http.StatusBadRequest)
		return
	}
	if body.Timestamp.IsZero() {
		body.Timestamp = time.Now().UTC()
	}

	imp, err := c.ImpressionService.Record(device.ID, body.AdID, body.Timestamp, body.Latitude, body.Longitude)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "recorded",
		"impression_id": imp.ID,
	})
}
