// internal/bot/formatter/formatter_test.go
package formatter

import (
	"strings"
	"testing"

	"phoneshop-bot/internal/models"

	"github.com/stretchr/testify/assert"
)

func testFormatter() *Formatter {
	return New("919876543210", "Mobile Junction", "10am-9pm, all days")
}

func testPhone() models.Phone {
	return models.Phone{
		Brand:         "Apple",
		Model:         "iPhone 13",
		Storage:       "128GB",
		Color:         "Midnight",
		Condition:     "A",
		BatteryHealth: 89,
		Price:         45000,
		Warranty:      "6 months",
		Status:        "available",
	}
}

func TestFormat_ExactMatches(t *testing.T) {
	f := testFormatter()
	result := models.MatchResult{Matches: []models.Phone{testPhone()}}

	resp := f.Format(result, models.IntentAvailabilityCheck)

	assert.Len(t, resp.Items, 1)
	item := resp.Items[0]
	assert.Equal(t, "Apple iPhone 13", item.Name)
	assert.Equal(t, "₹45,000", item.Price)
	assert.Equal(t, "Excellent", item.Condition)
	assert.Equal(t, 89, item.BatteryHealth)

	assert.Contains(t, resp.Text, "Yes, in stock!")
	assert.Contains(t, resp.Text, "1. Apple iPhone 13")
	assert.Contains(t, resp.Text, "Reply with the number to know more or buy!")
}

func TestFormat_HeaderFollowsIntent(t *testing.T) {
	f := testFormatter()
	result := models.MatchResult{Matches: []models.Phone{testPhone()}}

	tests := []struct {
		intent models.Intent
		header string
	}{
		{models.IntentAvailabilityCheck, "Yes, in stock! 🎉"},
		{models.IntentPriceInquiry, "Here are the prices:"},
		{models.IntentBudgetSearch, "Great picks within your budget:"},
		{models.IntentProductSearch, "Here's what we have for you:"},
		{models.IntentGeneralInquiry, "Here's what we have for you:"},
	}

	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			resp := f.Format(result, tt.intent)
			assert.True(t, strings.HasPrefix(resp.Text, tt.header))
		})
	}
}

func TestFormat_Suggestions(t *testing.T) {
	f := testFormatter()
	result := models.MatchResult{
		Suggestions: []models.Phone{testPhone()},
		Note:        "no exact match, similar options attached",
	}

	resp := f.Format(result, models.IntentProductSearch)

	assert.Len(t, resp.Items, 1)
	assert.Contains(t, resp.Text, "We don't have an exact match, but here are similar options you might like:")
	assert.NotContains(t, resp.Text, "Yes, in stock!")
}

func TestFormat_Empty(t *testing.T) {
	f := testFormatter()

	resp := f.Format(models.MatchResult{}, models.IntentProductSearch)

	assert.Empty(t, resp.Items)
	assert.Contains(t, resp.Text, "Sorry! We don't have that in stock right now.")
}

func TestBuyLink(t *testing.T) {
	f := testFormatter()

	resp := f.Format(models.MatchResult{Matches: []models.Phone{testPhone()}}, models.IntentProductSearch)

	link := resp.Items[0].BuyLink
	assert.True(t, strings.HasPrefix(link, "https://wa.me/919876543210?text="), link)
	assert.Contains(t, link, "iPhone")
	assert.NotContains(t, link, " ") // query must be escaped
}

func TestBuyLink_NoShopNumber(t *testing.T) {
	f := New("", "Mobile Junction", "")

	resp := f.Format(models.MatchResult{Matches: []models.Phone{testPhone()}}, models.IntentProductSearch)

	assert.Empty(t, resp.Items[0].BuyLink)
}

func TestRenderCatalog(t *testing.T) {
	f := testFormatter()
	phones := []models.Phone{
		testPhone(),
		{Brand: "Samsung", Model: "Galaxy S22", Storage: "256GB", Condition: "B+", Price: 38000},
		{Brand: "Apple", Model: "iPhone 12", Storage: "64GB", Condition: "B", Price: 32000},
	}

	catalog := f.RenderCatalog(phones)

	assert.Equal(t, 3, catalog.Summary.TotalAvailable)
	assert.Equal(t, 2, catalog.Summary.Brands)
	assert.Len(t, catalog.ByBrand["Apple"], 2)
	assert.Len(t, catalog.ByBrand["Samsung"], 1)

	assert.Contains(t, catalog.Text, "Mobile Junction — Current Stock")
	assert.Contains(t, catalog.Text, "*APPLE*")
	assert.Contains(t, catalog.Text, "*SAMSUNG*")
	assert.Contains(t, catalog.Text, "We're available 10am-9pm, all days.")
	// Brands render in sorted order.
	assert.Less(t, strings.Index(catalog.Text, "*APPLE*"), strings.Index(catalog.Text, "*SAMSUNG*"))
}

func TestRenderCatalog_Empty(t *testing.T) {
	f := testFormatter()

	catalog := f.RenderCatalog(nil)

	assert.Zero(t, catalog.Summary.TotalAvailable)
	assert.Zero(t, catalog.Summary.Brands)
	assert.Contains(t, catalog.Text, "There are no phones available right now.")
}

func TestConditionLabel(t *testing.T) {
	tests := []struct {
		grade string
		label string
	}{
		{"A+", "Like New"},
		{"A", "Excellent"},
		{"B+", "Very Good"},
		{"B", "Good"},
		{"C", "Fair"},
		{"D", "D"}, // unknown grades pass through
	}

	for _, tt := range tests {
		assert.Equal(t, tt.label, ConditionLabel(tt.grade))
	}
}

func TestFormatINR(t *testing.T) {
	tests := []struct {
		amount   int
		expected string
	}{
		{0, "₹0"},
		{999, "₹999"},
		{1000, "₹1,000"},
		{45000, "₹45,000"},
		{120000, "₹1,20,000"},
		{1234567, "₹12,34,567"},
		{10000000, "₹1,00,00,000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatINR(tt.amount))
	}
}
