// internal/workers/bot/query-inventory/models.go
package queryinventory

import "phoneshop-bot/internal/models"

type Input struct {
	Brand    string `json:"brand,omitempty"`
	Query    string `json:"query,omitempty"`
	MaxPrice int    `json:"maxPrice,omitempty"`
	MinPrice int    `json:"minPrice,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type Output struct {
	Matches     []models.Phone `json:"matches"`
	Suggestions []models.Phone `json:"suggestions"`
	Count       int            `json:"count"`
	Note        string         `json:"note,omitempty"`
}
