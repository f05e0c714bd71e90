// internal/bot/formatter/formatter.go
package formatter

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"phoneshop-bot/internal/models"
)

// conditionLabels expands the shop's grade codes for customers.
// Unknown grades render as-is.
var conditionLabels = map[string]string{
	"A+": "Like New",
	"A":  "Excellent",
	"B+": "Very Good",
	"B":  "Good",
	"C":  "Fair",
}

// Item is the structured, display-ready view of one phone.
type Item struct {
	Name          string `json:"name"`
	Price         string `json:"price"`
	Condition     string `json:"condition"`
	BatteryHealth int    `json:"batteryHealth,omitempty"`
	Warranty      string `json:"warranty,omitempty"`
	BuyLink       string `json:"buyLink"`
}

// Response pairs the structured items with ready-to-send WhatsApp text.
type Response struct {
	Items []Item `json:"items"`
	Text  string `json:"text"`
}

// CatalogSummary is returned alongside the bulk catalog text.
type CatalogSummary struct {
	TotalAvailable int `json:"total_available"`
	Brands         int `json:"brands"`
}

// Catalog is the bulk rendering of current inventory used to prime the
// AI agent with full stock context.
type Catalog struct {
	Text    string            `json:"text"`
	ByBrand map[string][]Item `json:"byBrand"`
	Summary CatalogSummary    `json:"summary"`
}

type Formatter struct {
	shopNumber   string
	shopName     string
	contactHours string
}

func New(shopNumber, shopName, contactHours string) *Formatter {
	if shopName == "" {
		shopName = "PhoneShop"
	}
	return &Formatter{
		shopNumber:   shopNumber,
		shopName:     shopName,
		contactHours: contactHours,
	}
}

// Format renders a match result for WhatsApp delivery. Pure function of
// its input: exact matches get a buy call-to-action, suggestions get a
// softer framing, an empty result gets an apology — never a raw error.
func (f *Formatter) Format(result models.MatchResult, intent models.Intent) Response {
	if len(result.Matches) > 0 {
		items := f.items(result.Matches)
		var b strings.Builder
		b.WriteString(matchHeader(intent))
		b.WriteString("\n\n")
		f.writeList(&b, items)
		b.WriteString("\nReply with the number to know more or buy!")
		return Response{Items: items, Text: b.String()}
	}

	if len(result.Suggestions) > 0 {
		items := f.items(result.Suggestions)
		var b strings.Builder
		b.WriteString("We don't have an exact match, but here are similar options you might like:\n\n")
		f.writeList(&b, items)
		b.WriteString("\nReply with the number if anything catches your eye!")
		return Response{Items: items, Text: b.String()}
	}

	return Response{
		Items: []Item{},
		Text:  "Sorry! We don't have that in stock right now. 🙏 Tell us what you're looking for and we'll let you know as soon as it arrives.",
	}
}

// RenderCatalog groups all available phones by brand into a single
// templated block. Never fails: an empty inventory produces a friendly
// "no phones available" notice and a zero summary.
func (f *Formatter) RenderCatalog(phones []models.Phone) Catalog {
	byBrand := map[string][]Item{}
	for _, p := range phones {
		byBrand[p.Brand] = append(byBrand[p.Brand], f.item(p))
	}

	brands := make([]string, 0, len(byBrand))
	for brand := range byBrand {
		brands = append(brands, brand)
	}
	sort.Strings(brands)

	var b strings.Builder
	fmt.Fprintf(&b, "📱 *%s — Current Stock*\n", f.shopName)

	if len(phones) == 0 {
		b.WriteString("\nThere are no phones available right now. New stock is added daily — check back soon!\n")
	}

	for _, brand := range brands {
		fmt.Fprintf(&b, "\n*%s*\n", strings.ToUpper(brand))
		for i, item := range byBrand[brand] {
			fmt.Fprintf(&b, "%d. %s\n   %s | %s", i+1, item.Name, item.Price, item.Condition)
			if item.BatteryHealth > 0 {
				fmt.Fprintf(&b, " | Battery %d%%", item.BatteryHealth)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n📞 To buy or ask anything, just reply here.")
	if f.contactHours != "" {
		fmt.Fprintf(&b, "\nWe're available %s.", f.contactHours)
	}

	return Catalog{
		Text:    b.String(),
		ByBrand: byBrand,
		Summary: CatalogSummary{
			TotalAvailable: len(phones),
			Brands:         len(brands),
		},
	}
}

func matchHeader(intent models.Intent) string {
	switch intent {
	case models.IntentAvailabilityCheck:
		return "Yes, in stock! 🎉"
	case models.IntentPriceInquiry:
		return "Here are the prices:"
	case models.IntentBudgetSearch:
		return "Great picks within your budget:"
	default:
		return "Here's what we have for you:"
	}
}

func (f *Formatter) items(phones []models.Phone) []Item {
	items := make([]Item, 0, len(phones))
	for _, p := range phones {
		items = append(items, f.item(p))
	}
	return items
}

func (f *Formatter) item(p models.Phone) Item {
	return Item{
		Name:          p.DisplayName(),
		Price:         FormatINR(p.Price),
		Condition:     ConditionLabel(p.Condition),
		BatteryHealth: p.BatteryHealth,
		Warranty:      p.Warranty,
		BuyLink:       f.buyLink(p),
	}
}

func (f *Formatter) writeList(b *strings.Builder, items []Item) {
	for i, item := range items {
		fmt.Fprintf(b, "%d. %s\n", i+1, item.Name)
		fmt.Fprintf(b, "   Price: %s\n", item.Price)
		fmt.Fprintf(b, "   Condition: %s\n", item.Condition)
	}
}

// buyLink builds a wa.me deep link pre-filled with an inquiry message.
func (f *Formatter) buyLink(p models.Phone) string {
	if f.shopNumber == "" {
		return ""
	}
	text := fmt.Sprintf("Hi! I'm interested in %s (%s). Is it available?",
		p.DisplayName(), FormatINR(p.Price))
	return "https://wa.me/" + f.shopNumber + "?text=" + url.QueryEscape(text)
}

// ConditionLabel expands a grade code; unknown codes pass through.
func ConditionLabel(grade string) string {
	if label, ok := conditionLabels[grade]; ok {
		return label
	}
	return grade
}

// FormatINR renders an amount with Indian digit grouping: the last
// three digits, then groups of two (1234567 -> ₹12,34,567).
func FormatINR(amount int) string {
	digits := fmt.Sprintf("%d", amount)
	if len(digits) <= 3 {
		return "₹" + digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)

	return "₹" + strings.Join(groups, ",") + "," + tail
}
