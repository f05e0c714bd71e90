// internal/bot/classifier/classifier.go
package classifier

import (
	"regexp"
	"strings"

	"phoneshop-bot/internal/models"
)

// Keyword groups tested against the lower-cased raw text. The Hinglish
// entries are plain substring matches; false positives on unrelated
// text containing them are an accepted tradeoff.
var (
	availabilityKeywords = []string{"available", "stock", "hai kya"}
	priceKeywords        = []string{"price", "rate", "kitne"}
	purchaseKeywords     = []string{"buy", "kharidna", "lena hai"}

	greetingPattern = regexp.MustCompile(`\b(hi|hello|hey|namaste)\b`)
)

type rule struct {
	matches func(text string, e models.ExtractedEntities) bool
	intent  models.Intent
	action  string
}

// rules is a fixed-priority cascade: the first matching rule wins.
// Keyword intents outrank entity intents, so "iPhone 13 available?"
// is an availability check, not a product search.
var rules = []rule{
	{
		matches: func(text string, _ models.ExtractedEntities) bool {
			return containsAny(text, availabilityKeywords)
		},
		intent: models.IntentAvailabilityCheck,
		action: models.ActionCheckAvailability,
	},
	{
		matches: func(text string, _ models.ExtractedEntities) bool {
			return containsAny(text, priceKeywords)
		},
		intent: models.IntentPriceInquiry,
		action: models.ActionGetPrice,
	},
	{
		matches: func(text string, _ models.ExtractedEntities) bool {
			return containsAny(text, purchaseKeywords)
		},
		intent: models.IntentPurchase,
		action: models.ActionConnectSales,
	},
	{
		matches: func(_ string, e models.ExtractedEntities) bool {
			return e.Brand != "" || e.Model != ""
		},
		intent: models.IntentProductSearch,
		action: models.ActionSearchInventory,
	},
	{
		matches: func(_ string, e models.ExtractedEntities) bool {
			return e.Budget > 0
		},
		intent: models.IntentBudgetSearch,
		action: models.ActionSearchByBudget,
	},
	{
		matches: func(text string, _ models.ExtractedEntities) bool {
			return greetingPattern.MatchString(text)
		},
		intent: models.IntentGreeting,
		action: models.ActionSendWelcome,
	},
}

// Classify assigns exactly one intent and suggested action to a
// message. Total function: anything that matches no rule is a general
// inquiry, which still attempts a broad search downstream.
func Classify(text string, entities models.ExtractedEntities) (models.Intent, string) {
	lower := strings.ToLower(text)

	for _, r := range rules {
		if r.matches(lower, entities) {
			return r.intent, r.action
		}
	}

	return models.IntentGeneralInquiry, models.ActionSearchInventory
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
