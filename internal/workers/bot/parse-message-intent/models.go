// internal/workers/bot/parse-message-intent/models.go
package parsemessageintent

import "phoneshop-bot/internal/models"

type Input struct {
	Message string `json:"message"`
	From    string `json:"from,omitempty"`
	Name    string `json:"name,omitempty"`
}

type Output struct {
	Analysis        AnalysisVars `json:"analysis"`
	SuggestedAction string       `json:"suggestedAction"`
	APIEndpoint     string       `json:"apiEndpoint"`
}

// AnalysisVars flattens the analysis into the shape the BPMN gateways
// branch on.
type AnalysisVars struct {
	Intent   models.Intent `json:"intent"`
	Brand    string        `json:"brand,omitempty"`
	Model    string        `json:"model,omitempty"`
	Budget   int           `json:"budget,omitempty"`
	Keywords []string      `json:"keywords"`
}
