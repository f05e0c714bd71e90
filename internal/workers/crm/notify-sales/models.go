// internal/workers/crm/notify-sales/models.go
package notifysales

type Input struct {
	CustomerPhone string `json:"customerPhone"`
	CustomerName  string `json:"customerName,omitempty"`
	Message       string `json:"message"`
	Intent        string `json:"intent"`
	Brand         string `json:"brand,omitempty"`
	Model         string `json:"model,omitempty"`
	Budget        int    `json:"budget,omitempty"`
}

type Output struct {
	LeadID    string `json:"leadId"`
	Status    string `json:"status"` // "notified", "failed", "disabled"
	EmailSent bool   `json:"emailSent"`
	SMSSent   bool   `json:"smsSent"`
	CreatedAt string `json:"createdAt"` // ISO 8601
}

// Statuses
const (
	StatusNotified = "notified"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
