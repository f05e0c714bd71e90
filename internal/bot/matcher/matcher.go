// internal/bot/matcher/matcher.go
package matcher

import (
	"context"
	"math"

	"phoneshop-bot/internal/common/logger"
	"phoneshop-bot/internal/common/metrics"
	"phoneshop-bot/internal/models"
	"phoneshop-bot/internal/store"
)

// Fallback notes carried on the MatchResult. The formatter turns these
// into customer-facing text; they are stable identifiers, not copy.
const (
	NoteSimilarOptions = "no exact match, similar options attached"
	NoteNothingInStock = "no phones available"
)

// Options tune the relaxation cascade. Zero values fall back to the
// behavior the workflow engine was built against.
type Options struct {
	SuggestionLimit int     // per relaxation stage, default 3
	RelaxFactor     float64 // price ceiling multiplier, default 1.2
}

type Matcher struct {
	inventory store.Inventory
	opts      Options
	logger    logger.Logger
}

func New(inventory store.Inventory, opts Options, log logger.Logger) *Matcher {
	if opts.SuggestionLimit <= 0 {
		opts.SuggestionLimit = 3
	}
	if opts.RelaxFactor <= 1.0 {
		opts.RelaxFactor = 1.2
	}
	return &Matcher{
		inventory: inventory,
		opts:      opts,
		logger:    log.WithFields(map[string]interface{}{"component": "matcher"}),
	}
}

// Match runs the primary query and, on zero results, a relaxation
// cascade that stops at the first stage yielding items. At most two
// relaxation queries are issued per invocation: the catch-all stage is
// skipped when both the same-brand and price-relaxed stages already
// ran empty.
func (m *Matcher) Match(ctx context.Context, q models.InventoryQuery) (models.MatchResult, error) {
	metrics.InventoryQueries.WithLabelValues("primary").Inc()
	matches, err := m.inventory.Search(ctx, q)
	if err != nil {
		return models.MatchResult{}, err
	}

	if len(matches) > 0 {
		metrics.CascadeDepth.WithLabelValues("exact").Observe(0)
		return models.MatchResult{
			Matches:     matches,
			Suggestions: []models.Phone{},
		}, nil
	}

	suggestions, stages, err := m.relax(ctx, q)
	if err != nil {
		return models.MatchResult{}, err
	}

	result := models.MatchResult{
		Matches:     []models.Phone{},
		Suggestions: suggestions,
		Note:        NoteSimilarOptions,
	}
	if len(suggestions) == 0 {
		result.Note = NoteNothingInStock
	}

	outcome := "suggested"
	if len(suggestions) == 0 {
		outcome = "empty"
	}
	metrics.CascadeDepth.WithLabelValues(outcome).Observe(float64(stages))

	m.logger.Info("relaxation cascade finished", map[string]interface{}{
		"stages":      stages,
		"suggestions": len(suggestions),
		"brand":       q.Brand,
		"maxPrice":    q.MaxPrice,
	})

	return result, nil
}

func (m *Matcher) relax(ctx context.Context, q models.InventoryQuery) ([]models.Phone, int, error) {
	stages := 0

	// Stage 1: same brand, any price.
	if q.Brand != "" {
		stages++
		metrics.InventoryQueries.WithLabelValues("brand").Inc()
		phones, err := m.inventory.Search(ctx, models.InventoryQuery{
			Brand:         q.Brand,
			AvailableOnly: true,
			Limit:         m.opts.SuggestionLimit,
			Sort:          models.SortPriceAsc,
		})
		if err != nil {
			return nil, stages, err
		}
		if len(phones) > 0 {
			return phones, stages, nil
		}
	}

	// Stage 2: any brand, price ceiling relaxed.
	if q.MaxPrice > 0 {
		stages++
		metrics.InventoryQueries.WithLabelValues("price_relaxed").Inc()
		phones, err := m.inventory.Search(ctx, models.InventoryQuery{
			MaxPrice:      int(math.Round(float64(q.MaxPrice) * m.opts.RelaxFactor)),
			AvailableOnly: true,
			Limit:         m.opts.SuggestionLimit,
			Sort:          models.SortPriceAsc,
		})
		if err != nil {
			return nil, stages, err
		}
		if len(phones) > 0 {
			return phones, stages, nil
		}
	}

	// Stage 3: most recent available, no filters. Bounded to keep the
	// cascade at two relaxation queries per invocation.
	if stages < 2 {
		stages++
		metrics.InventoryQueries.WithLabelValues("recent").Inc()
		phones, err := m.inventory.Search(ctx, models.InventoryQuery{
			AvailableOnly: true,
			Limit:         m.opts.SuggestionLimit,
			Sort:          models.SortRecentDesc,
		})
		if err != nil {
			return nil, stages, err
		}
		if len(phones) > 0 {
			return phones, stages, nil
		}
	}

	return []models.Phone{}, stages, nil
}
