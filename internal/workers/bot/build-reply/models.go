// internal/workers/bot/build-reply/models.go
package buildreply

import (
	"phoneshop-bot/internal/bot/formatter"
	"phoneshop-bot/internal/models"
)

type Input struct {
	Intent      string         `json:"intent"`
	Matches     []models.Phone `json:"matches"`
	Suggestions []models.Phone `json:"suggestions"`
}

type Output struct {
	Text  string           `json:"text"`
	Items []formatter.Item `json:"items"`
}
