// internal/repository/client_repository.go
package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/theruads/fleet-backend/internal/errors"
	"github.com/theruads/fleet-backend/internal/model"
)

type ClientRepositoryInterface interface {
	Create(c *model.Client) error
	GetByID(id string) (*model.Client, error)
	ListAll() ([]*model.Client, error)
	Update(c *model.Client) error
}

type ClientRepository struct {
	DB *sql.DB
}

func (r *ClientRepository) Create(c *model.Client) error {
	c.CreatedAt = time.Now().UTC()
	if c.Status == "" {
		c.Status = "ACTIVE"
	}
	query := `
		INSERT INTO clients (id, name, contact_person, email, phone, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.Exec(query, c.ID, c.Name, c.ContactPerson, c.Email, c.Phone, c.Status, c.CreatedAt)
	return err
}

func (r *ClientRepository) GetByID(id string) (*model.Client, error) {
	query := `SELECT id, name, contact_person, email, phone, status, created_at FROM clients WHERE id=$1`
	var c model.Client
	err := r.DB.QueryRow(query, id).Scan(&c.ID, &c.Name, &c.ContactPerson, &c.Email, &c.Phone, &c.Status, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) ListAll() ([]*model.Client, error) {
	rows, err := r.DB.Query(`SELECT id, name, contact_person, email, phone, status, created_at FROM clients ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []*model.Client{}
	for rows.Next() {
		c := &model.Client{}
		if err := rows.Scan(&c.ID, &c.Name, &c.ContactPerson, &c.Email, &c.Phone, &c.Status, &c.CreatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) Update(c *model.Client) error {
	query := `UPDATE clients SET name=$1, contact_person=$2, email=$3, phone=$4, status=$5 WHERE id=$6`
	res, err := r.DB.Exec(query, c.Name, c.ContactPerson, c.Email, c.Phone, c.Status, c.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return appErrors.NewNotFound("client", c.ID)
	}
	return err
}

var _ ClientRepositoryInterface = (*ClientRepository)(nil)
