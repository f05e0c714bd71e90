// internal/models/phone.go
package models

import "time"

// Phone is an inventory item owned by the store collaborator. The
// pipeline reads and formats it, never mutates it.
type Phone struct {
	ID            string    `json:"id"`
	Brand         string    `json:"brand"`
	Model         string    `json:"model"`
	Storage       string    `json:"storage,omitempty"`
	Color         string    `json:"color,omitempty"`
	Condition     string    `json:"condition"`
	BatteryHealth int       `json:"batteryHealth,omitempty"`
	Price         int       `json:"price"`
	OriginalPrice int       `json:"originalPrice,omitempty"`
	Warranty      string    `json:"warranty,omitempty"`
	Description   string    `json:"description,omitempty"`
	Images        []string  `json:"images,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DisplayName is how a phone is referred to in customer-facing text.
func (p Phone) DisplayName() string {
	return p.Brand + " " + p.Model
}
