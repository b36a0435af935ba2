package models

import "time"

// Household is a tracked residence
type Household struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Postcode  string    `json:"postcode"`
	CreatedAt time.Time `json:"created_at"`
}
