// internal/models/intent.go
package models

// Intent is the classified purpose of an inbound message. Exactly one
// intent is assigned per message.
type Intent string

const (
	IntentGreeting          Intent = "greeting"
	IntentAvailabilityCheck Intent = "availability_check"
	IntentPriceInquiry      Intent = "price_inquiry"
	IntentPurchase          Intent = "purchase_intent"
	IntentProductSearch     Intent = "product_search"
	IntentBudgetSearch      Intent = "budget_search"
	IntentGeneralInquiry    Intent = "general_inquiry"
)

// Suggested downstream actions handed to the workflow engine.
const (
	ActionSendWelcome       = "send_welcome"
	ActionCheckAvailability = "check_availability"
	ActionGetPrice          = "get_price"
	ActionConnectSales      = "connect_sales"
	ActionSearchInventory   = "search_inventory"
	ActionSearchByBudget    = "search_by_budget"
)
