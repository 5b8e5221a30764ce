// internal/controller/driver_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	appErrors "github.com/theruads/fleet-backend/internal/errors"
	"github.com/theruads/fleet-backend/internal/model"
	"github.com/theruads/fleet-backend/internal/repository"
)

type DriverController struct {
	DriverRepo repository.DriverRepositoryInterface
}

func (c *DriverController) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name          string  `json:"name"`
		Phone         *string `json:"phone"`
		Email         *string `json:"email"`
		LicenseNumber *string `json:"license_number"`
		City          *string `json:"city"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	driver := &model.Driver{
		ID:            uuid.NewString(),
		Name:          body.Name,
		Phone:         body.Phone,
		Email:         body.Email,
		LicenseNumber: body.LicenseNumber,
		City:          body.City,
	}
	if err := c.DriverRepo.Create(driver); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, driver)
}

func (c *DriverController) ListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := c.DriverRepo.ListAll()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drivers)
}

func (c *DriverController) UpdateDriver(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	driver, err := c.DriverRepo.GetByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if driver == nil {
		writeError(w, appErrors.NewNotFound("driver", id))
		return
	}

	var body struct {
		Name          *string `json:"name"`
		Phone         *string `json:"phone"`
		Email         *string `json:"email"`
		LicenseNumber *string `json:"license_number"`
		City          *string `json:"city"`
		Status        *string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if body.Name != nil {
		driver.Name = *body.Name
	}
	if body.Phone != nil {
		driver.Phone = body.Phone
	}
	if body.Email != nil {
		driver.Email = body.Email
	}
	if body.LicenseNumber != nil {
		driver.LicenseNumber = body.LicenseNumber
	}
	if body.City != nil {
		driver.City = body.City
	}
	if body.Status != nil {
		driver.Status = *body.Status
	}

	if err := c.DriverRepo.Update(driver); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Driver updated"})
}

func (c *DriverController) DeleteDriver(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.DriverRepo.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Driver deleted"})
}
