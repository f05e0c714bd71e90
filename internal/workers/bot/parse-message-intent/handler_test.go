// internal/workers/bot/parse-message-intent/handler_test.go
package parsemessageintent

import (
	"context"
	"testing"
	"time"

	"phoneshop-bot/internal/bot"
	"phoneshop-bot/internal/common/logger"
	"phoneshop-bot/internal/models"

	"github.com/stretchr/testify/assert"
)

func newTestHandler(t *testing.T) *Handler {
	config := &Config{Timeout: 10 * time.Second}
	log := logger.NewTestLogger(t)
	return NewHandler(config, bot.NewPipeline(log), log)
}

func TestExecute_AvailabilityCheck(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Message: "iPhone 13 under 50k available?",
		From:    "919000000001",
		Name:    "Ravi",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.IntentAvailabilityCheck, output.Analysis.Intent)
	assert.Equal(t, "Apple", output.Analysis.Brand)
	assert.Equal(t, "iphone 13", output.Analysis.Model)
	assert.Equal(t, 50000, output.Analysis.Budget)
	assert.Equal(t, models.ActionCheckAvailability, output.SuggestedAction)
	assert.Equal(t, "/search?brand=Apple&limit=5&maxBudget=50000&query=iphone+13", output.APIEndpoint)
}

func TestExecute_Greeting(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Message: "namaste",
		From:    "919000000002",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.IntentGreeting, output.Analysis.Intent)
	assert.Equal(t, models.ActionSendWelcome, output.SuggestedAction)
	assert.Empty(t, output.APIEndpoint)
}

func TestExecute_EmptyMessage(t *testing.T) {
	handler := newTestHandler(t)

	_, err := handler.Execute(context.Background(), &Input{Message: "   "})

	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyMessage)
}
