package models

import "time"

// Vendor is a tenant: a fleet operator holding drivers, vehicles and one wallet.
type Vendor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
