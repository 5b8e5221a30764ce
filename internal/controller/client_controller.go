// internal/controller/client_controller.go
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

type ClientController struct {
	ClientRepo repository.ClientRepositoryInterface
}

func (c *ClientController) CreateClient(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name          string  `json:"name"`
		ContactPerson *string `json:"contact_person"`
		Email         *string `json:"email"`
		Phone         *string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	client := &model.Client{
		ID:            uuid.NewString(),
		Name:          body.Name,
		ContactPerson: body.ContactPerson,
		Email:         body.Email,
		Phone:         body.Phone,
	}
	if err := c.ClientRepo.Create(client); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (c *ClientController) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := c.ClientRepo.ListAll()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (c *ClientController) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	client, err := c.ClientRepo.GetByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if client == nil {
		writeError(w, appErrors.NewNotFound("client", id))
		return
	}

	var body struct {
		Name          *string `json:"name"`
		ContactPerson *string `json:"contact_person"`
		Email         *string `json:"email"`
		Phone         *string `json:"phone"`
		Status        *string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if body.Name != nil {
		client.Name = *body.Name
	}
	if body.ContactPerson != nil {
		client.ContactPerson = body.ContactPerson
	}
	if body.Email != nil {
		client.Email = body.Email
	}
	if body.Phone != nil {
		client.Phone = body.Phone
	}
	if body.Status != nil {
		client.Status = *body.Status
	}

	if err := c.ClientRepo.Update(client); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Client updated"})
}
