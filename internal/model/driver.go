// internal/model/driver.go
package model

import "time"

type Driver struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Phone         *string   `db:"phone" json:"phone,omitempty"`
	Email         *string   `db:"email" json:"email,omitempty"`
	LicenseNumber *string   `db:"license_number" json:"license_number,omitempty"`
	City          *string   `db:"city" json:"city,omitempty"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
