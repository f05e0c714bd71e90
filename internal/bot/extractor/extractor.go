// internal/bot/extractor/extractor.go
package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"phoneshop-bot/internal/models"
)

// brandAliases is scanned in order; the first token found in the text
// wins and scanning stops. Tokens without an explicit canonical name
// capitalize to themselves ("vivo" -> "Vivo").
var brandAliases = []struct {
	token     string
	canonical string
}{
	{"iphone", "Apple"},
	{"apple", "Apple"},
	{"galaxy", "Samsung"},
	{"samsung", "Samsung"},
	{"redmi", "Xiaomi"},
	{"xiaomi", "Xiaomi"},
	{"mi ", "Xiaomi"},
	{"pixel", "Google"},
	{"google", "Google"},
	{"oneplus", ""},
	{"vivo", ""},
	{"oppo", ""},
	{"realme", ""},
	{"poco", ""},
	{"motorola", "Motorola"},
	{"moto", "Motorola"},
	{"nokia", ""},
	{"nothing", ""},
}

// modelPatterns cover the naming conventions the shop actually stocks.
// First pattern that matches wins; the full matched substring is the
// model token.
var modelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`iphone\s*\d{1,2}\s*(?:pro\s*max|pro|plus|max|mini)?`),
	regexp.MustCompile(`galaxy\s*[samz]\s*\d{1,3}\s*(?:ultra|plus|fe)?`),
	regexp.MustCompile(`oneplus\s*\d{1,2}\s*(?:pro|rt|r|t)?`),
	regexp.MustCompile(`redmi\s*(?:note\s*)?\d{1,2}\s*(?:pro\s*max|pro|plus)?`),
	regexp.MustCompile(`pixel\s*\d{1,2}\s*(?:pro\s*xl|pro|xl|a)?`),
	regexp.MustCompile(`nothing\s*phone\s*\(?\d\)?`),
	regexp.MustCompile(`moto\s*g\s*\d{1,3}`),
}

// budgetPatterns are tried in order; group 1 is the amount, group 2 an
// optional "k" multiplier. Amounts may carry thousands separators.
var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:under|below|within|upto|up to|max|budget)\s*(?:₹|rs\.?|inr)?\s*([\d,]+)\s*(k?)`),
	regexp.MustCompile(`([\d,]+)\s*(k?)\s*(?:budget|max|ke\s+andar)`),
	regexp.MustCompile(`(?:₹|rs\.?|inr)\s*([\d,]+)\s*(k?)`),
}

// Extract pulls brand, model and budget signals out of raw message
// text. It never fails: absent signals leave their fields at the zero
// value. At most one brand and one budget are extracted (first match
// wins); Keywords records every token that fired.
func Extract(text string) models.ExtractedEntities {
	lower := strings.ToLower(text)

	entities := models.ExtractedEntities{
		Keywords: []string{},
	}

	for _, alias := range brandAliases {
		if strings.Contains(lower, alias.token) {
			entities.Brand = alias.canonical
			if entities.Brand == "" {
				entities.Brand = capitalize(strings.TrimSpace(alias.token))
			}
			entities.Keywords = append(entities.Keywords, strings.TrimSpace(alias.token))
			break
		}
	}

	for _, pattern := range modelPatterns {
		if match := pattern.FindString(lower); match != "" {
			entities.Model = strings.Join(strings.Fields(match), " ")
			entities.Keywords = append(entities.Keywords, entities.Model)
			break
		}
	}

	for _, pattern := range budgetPatterns {
		groups := pattern.FindStringSubmatch(lower)
		if groups == nil {
			continue
		}
		amount, err := parseAmount(groups[1], groups[2] == "k")
		if err != nil {
			continue
		}
		entities.Budget = amount
		entities.Keywords = append(entities.Keywords, "budget:"+strconv.Itoa(amount))
		break
	}

	return entities
}

func parseAmount(raw string, thousands bool) (int, error) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	amount, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, err
	}
	if thousands {
		amount *= 1000
	}
	return amount, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
