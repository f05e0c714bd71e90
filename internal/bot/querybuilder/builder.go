// internal/bot/querybuilder/builder.go
package querybuilder

import "phoneshop-bot/internal/models"

// DefaultChatLimit keeps conversational replies short enough for a
// WhatsApp message. Programmatic search entry points pass their own
// limits and bypass this package entirely.
const DefaultChatLimit = 5

// Build translates a classified message into a structured inventory
// filter. Returns nil only for greetings: no inventory lookup should be
// issued for a bare "hi".
func Build(intent models.Intent, entities models.ExtractedEntities) *models.InventoryQuery {
	if intent == models.IntentGreeting {
		return nil
	}

	query := &models.InventoryQuery{
		AvailableOnly: true,
		Limit:         DefaultChatLimit,
		Sort:          models.SortPriceAsc,
	}

	if entities.Brand != "" {
		query.Brand = entities.Brand
	}
	if entities.Model != "" {
		query.Text = entities.Model
	}
	if entities.Budget > 0 {
		query.MaxPrice = entities.Budget
	}

	return query
}
