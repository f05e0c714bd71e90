// internal/server/handlers.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"phoneshop-bot/internal/bot"
	"phoneshop-bot/internal/convcache"
	"phoneshop-bot/internal/models"
)

// webhookSchema is the envelope the WhatsApp bridge posts. Only the
// fields the pipeline reads are constrained; the bridge is free to add
// provider metadata.
var webhookSchema = gojsonschema.NewGoLoader(map[string]interface{}{
	"type":     "object",
	"required": []string{"type"},
	"properties": map[string]interface{}{
		"type": map[string]interface{}{
			"type": "string",
			"enum": []string{"message", "status"},
		},
		"data": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"from":      map[string]interface{}{"type": "string"},
				"name":      map[string]interface{}{"type": "string"},
				"message":   map[string]interface{}{"type": "string"},
				"messageId": map[string]interface{}{"type": "string"},
			},
		},
	},
})

type webhookRequest struct {
	Type string `json:"type"`
	Data struct {
		From      string `json:"from"`
		Name      string `json:"name"`
		Message   string `json:"message"`
		MessageID string `json:"messageId"`
		Timestamp int64  `json:"timestamp"`
	} `json:"data"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := gojsonschema.Validate(webhookSchema, gojsonschema.NewGoLoader(raw))
	if err != nil || !result.Valid() {
		writeError(w, http.StatusBadRequest, "invalid webhook payload")
		return
	}

	payload, _ := json.Marshal(raw)
	var req webhookRequest
	_ = json.Unmarshal(payload, &req)

	// Delivery receipts and other status events bypass the pipeline.
	if req.Type != "message" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"action":  "ignored",
		})
		return
	}

	if req.Data.Message == "" {
		writeError(w, http.StatusBadRequest, "message field is required")
		return
	}

	msg := models.InboundMessage{
		From:      req.Data.From,
		Name:      req.Data.Name,
		Text:      req.Data.Message,
		MessageID: req.Data.MessageID,
		Timestamp: time.Unix(req.Data.Timestamp, 0).UTC(),
	}

	start := time.Now()
	analysis := s.pipeline.Analyze(msg)
	s.obs.RecordMessageDuration(r.Context(), time.Since(start), string(analysis.Analysis.Intent))
	s.obs.RecordMessageProcessed(r.Context(), string(analysis.Analysis.Intent))

	s.rememberConversation(r.Context(), msg, analysis)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"customerPhone": msg.From,
		"customerName":  msg.Name,
		"message":       msg.Text,
		"analysis": map[string]interface{}{
			"intent":   analysis.Analysis.Intent,
			"brand":    analysis.Analysis.Entities.Brand,
			"model":    analysis.Analysis.Entities.Model,
			"budget":   analysis.Analysis.Entities.Budget,
			"keywords": analysis.Analysis.Entities.Keywords,
		},
		"suggestedAction": analysis.Analysis.Action,
		"apiEndpoint":     analysis.APIEndpoint,
	})
}

// rememberConversation is best effort: a cache outage must never break
// the conversational flow.
func (s *Server) rememberConversation(ctx context.Context, msg models.InboundMessage, analysis bot.AnalysisResult) {
	if s.cache == nil {
		return
	}
	err := s.cache.Put(ctx, msg.From, convcache.State{
		Message:  msg.Text,
		Analysis: analysis.Analysis,
	})
	if err != nil {
		s.logger.Warn("failed to cache conversation state", map[string]interface{}{
			"from":  msg.From,
			"error": err.Error(),
		})
	}
}

type searchParams struct {
	Query    string `json:"query"`
	Brand    string `json:"brand"`
	MinPrice int    `json:"minPrice"`
	MaxPrice int    `json:"maxPrice"`
	Limit    int    `json:"limit"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params, err := s.parseSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := params.Limit
	if limit <= 0 || limit > s.cfg.Bot.SearchLimit {
		limit = s.cfg.Bot.SearchLimit
	}

	result, err := s.matcher.Match(r.Context(), models.InventoryQuery{
		Brand:         params.Brand,
		Text:          params.Query,
		MaxPrice:      params.MaxPrice,
		MinPrice:      params.MinPrice,
		AvailableOnly: true,
		Limit:         limit,
		Sort:          models.SortPriceAsc,
	})
	if err != nil {
		s.logger.Error("inventory search failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "inventory search failed")
		return
	}

	response := s.formatter.Format(result, models.IntentProductSearch)

	message := fmt.Sprintf("Found %d phones matching your query", len(result.Matches))
	if len(result.Matches) == 0 {
		message = fmt.Sprintf("No exact matches; sharing %d similar options", len(result.Suggestions))
		if len(result.Suggestions) == 0 {
			message = "No phones available"
		}
	}

	suggestions := []interface{}{}
	data := []interface{}{}
	if len(result.Matches) > 0 {
		for _, item := range response.Items {
			data = append(data, item)
		}
	} else {
		for _, item := range response.Items {
			suggestions = append(suggestions, item)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"count":       len(result.Matches),
		"data":        data,
		"suggestions": suggestions,
		"text":        response.Text,
		"message":     message,
	})
}

// parseSearchParams accepts both the query-string form (GET) and the
// JSON body form (POST); minBudget/maxBudget are aliases the workflow
// engine uses for minPrice/maxPrice.
func (s *Server) parseSearchParams(r *http.Request) (searchParams, error) {
	var params searchParams

	if r.Method == http.MethodPost {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return params, fmt.Errorf("invalid JSON body")
		}
		params.Query, _ = body["query"].(string)
		params.Brand, _ = body["brand"].(string)
		params.MinPrice = intField(body, "minPrice", "minBudget")
		params.MaxPrice = intField(body, "maxPrice", "maxBudget")
		params.Limit = intField(body, "limit")
		return params, nil
	}

	q := r.URL.Query()
	params.Query = q.Get("query")
	params.Brand = q.Get("brand")

	var err error
	if params.MinPrice, err = intParam(q.Get("minPrice"), q.Get("minBudget")); err != nil {
		return params, fmt.Errorf("invalid minPrice")
	}
	if params.MaxPrice, err = intParam(q.Get("maxPrice"), q.Get("maxBudget")); err != nil {
		return params, fmt.Errorf("invalid maxPrice")
	}
	if params.Limit, err = intParam(q.Get("limit")); err != nil {
		return params, fmt.Errorf("invalid limit")
	}
	return params, nil
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := intParam(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	if limit <= 0 {
		limit = 100
	}

	phones, err := s.inventory.Search(r.Context(), models.InventoryQuery{
		Brand:         q.Get("brand"),
		AvailableOnly: true,
		Limit:         limit,
		Sort:          models.SortRecentDesc,
	})
	if err != nil {
		s.logger.Error("catalog query failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "catalog query failed")
		return
	}

	catalog := s.formatter.RenderCatalog(phones)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   catalog.Summary.TotalAvailable,
		"text":    catalog.Text,
		"catalog": catalog.ByBrand,
		"summary": catalog.Summary,
	})
}

func intField(body map[string]interface{}, keys ...string) int {
	for _, key := range keys {
		if v, ok := body[key].(float64); ok {
			return int(v)
		}
	}
	return 0
}

func intParam(values ...string) (int, error) {
	for _, v := range values {
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, err
		}
		return n, nil
	}
	return 0, nil
}
