// internal/bot/extractor/extractor_test.go
package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_Brands(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		expectedBrand string
	}{
		{"iphone maps to Apple", "iPhone available?", "Apple"},
		{"galaxy maps to Samsung", "any Galaxy S23 in stock", "Samsung"},
		{"redmi maps to Xiaomi", "redmi note 12 price", "Xiaomi"},
		{"pixel maps to Google", "Pixel 8 kitne ka hai", "Google"},
		{"oneplus capitalizes to itself", "oneplus 11 chahiye", "Oneplus"},
		{"vivo capitalizes to itself", "vivo phone dikhao", "Vivo"},
		{"moto maps to Motorola", "moto g 54 hai kya", "Motorola"},
		{"no brand", "show me some phones", ""},
		{"case insensitive", "IPHONE 13 PRO", "Apple"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities := Extract(tt.text)
			assert.Equal(t, tt.expectedBrand, entities.Brand)
		})
	}
}

func TestExtract_FirstBrandWins(t *testing.T) {
	// iphone precedes samsung in the alias table, so a message naming
	// both resolves to Apple.
	entities := Extract("should I buy iphone or samsung?")
	assert.Equal(t, "Apple", entities.Brand)
}

func TestExtract_Models(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		expectedModel string
	}{
		{"iphone with variant", "iphone 13 pro max under 80k", "iphone 13 pro max"},
		{"iphone bare number", "iPhone 12 available?", "iphone 12"},
		{"galaxy series letter", "Galaxy S23 Ultra price?", "galaxy s23 ultra"},
		{"redmi note", "redmi note 12 pro", "redmi note 12 pro"},
		{"pixel", "pixel 7a available", "pixel 7a"},
		{"nothing phone", "nothing phone (2) in stock?", "nothing phone (2)"},
		{"spacing normalized", "iphone13", "iphone13"},
		{"no model", "any good phone under 20000", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities := Extract(tt.text)
			assert.Equal(t, tt.expectedModel, entities.Model)
		})
	}
}

func TestExtract_Budget(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		expectedBudget int
	}{
		{"under with k", "iPhone 13 under 50k available?", 50000},
		{"under plain", "phone under 30000", 30000},
		{"budget prefix", "budget 15000 chahiye", 15000},
		{"budget suffix", "50k budget", 50000},
		{"rupee symbol", "something around ₹25,000", 25000},
		{"rs prefix", "rs. 18000 me kya milega", 18000},
		{"within", "within 40k please", 40000},
		{"commas stripped", "under 1,20,000", 120000},
		{"no budget", "iphone 13 available?", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities := Extract(tt.text)
			assert.Equal(t, tt.expectedBudget, entities.Budget)
		})
	}
}

func TestExtract_Keywords(t *testing.T) {
	entities := Extract("iPhone 13 under 50k available?")

	assert.Equal(t, "Apple", entities.Brand)
	assert.Equal(t, "iphone 13", entities.Model)
	assert.Equal(t, 50000, entities.Budget)
	assert.Equal(t, []string{"iphone", "iphone 13", "budget:50000"}, entities.Keywords)
}

func TestExtract_EmptyText(t *testing.T) {
	entities := Extract("")

	assert.Empty(t, entities.Brand)
	assert.Empty(t, entities.Model)
	assert.Zero(t, entities.Budget)
	assert.NotNil(t, entities.Keywords)
	assert.Empty(t, entities.Keywords)
}
