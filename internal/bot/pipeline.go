// internal/bot/pipeline.go
package bot

import (
	"net/url"
	"strconv"
	"time"

	"phoneshop-bot/internal/bot/classifier"
	"phoneshop-bot/internal/bot/extractor"
	"phoneshop-bot/internal/bot/querybuilder"
	"phoneshop-bot/internal/common/logger"
	"phoneshop-bot/internal/common/metrics"
	"phoneshop-bot/internal/models"
)

// AnalysisResult is everything the webhook hands to the workflow
// engine for one inbound message. APIEndpoint is a pre-built relative
// URL the engine can call to execute the inventory query; it is empty
// for greetings, where no lookup should be issued.
type AnalysisResult struct {
	Analysis    models.Analysis
	Query       *models.InventoryQuery
	APIEndpoint string
}

type Pipeline struct {
	logger logger.Logger
}

func NewPipeline(log logger.Logger) *Pipeline {
	return &Pipeline{
		logger: log.WithFields(map[string]interface{}{"component": "pipeline"}),
	}
}

// Analyze runs extract -> classify -> build on one message. Pure with
// respect to external state; the inventory query itself is executed by
// the caller (or the workflow engine via APIEndpoint).
func (p *Pipeline) Analyze(msg models.InboundMessage) AnalysisResult {
	entities := extractor.Extract(msg.Text)
	intent, action := classifier.Classify(msg.Text, entities)
	query := querybuilder.Build(intent, entities)

	metrics.MessagesProcessed.WithLabelValues(string(intent)).Inc()

	p.logger.Info("message analyzed", map[string]interface{}{
		"from":     msg.From,
		"intent":   intent,
		"action":   action,
		"brand":    entities.Brand,
		"model":    entities.Model,
		"budget":   entities.Budget,
		"keywords": entities.Keywords,
	})

	return AnalysisResult{
		Analysis: models.Analysis{
			Intent:   intent,
			Entities: entities,
			Action:   action,
			At:       time.Now().UTC(),
		},
		Query:       query,
		APIEndpoint: buildEndpoint(query),
	}
}

func buildEndpoint(query *models.InventoryQuery) string {
	if query == nil {
		return ""
	}

	params := url.Values{}
	if query.Brand != "" {
		params.Set("brand", query.Brand)
	}
	if query.Text != "" {
		params.Set("query", query.Text)
	}
	if query.MaxPrice > 0 {
		params.Set("maxBudget", strconv.Itoa(query.MaxPrice))
	}
	params.Set("limit", strconv.Itoa(query.Limit))

	return "/search?" + params.Encode()
}
