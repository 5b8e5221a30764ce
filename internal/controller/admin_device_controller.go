// internal/controller/admin_device_controller.go
package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/theruads/fleet-backend/internal/service"
)

// AdminDeviceController serves the console's device management surface.
type AdminDeviceController struct {
	DeviceService *service.DeviceService
}

func (c *AdminDeviceController) ListDevices(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	status := r.URL.Query().Get("status")

	devices, err := c.DeviceService.ListDevices(city, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, devices)
}

func (c *AdminDeviceController) GetDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	device, err := c.DeviceService.GetDevice(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, device)
}

func (c *AdminDeviceController) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		City     *string `json:"city"`
		DriverID *string `json:"driver_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	device, err := c.DeviceService.UpdateDevice(id, body.City, body.DriverID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Device updated",
		"device":  device,
	})
}

func (c *AdminDeviceController) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.DeviceService.DeleteDevice(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Device deleted"})
}

// MarkOffline runs the stale-device sweep on demand.
func (c *AdminDeviceController) MarkOffline(w http.ResponseWriter, r *http.Request) {
	count, err := c.DeviceService.MarkStaleOffline()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Marked %d devices as offline", count),
		"count":   count,
	})
}
