// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"phoneshop-bot/internal/common/metrics"
	"phoneshop-bot/internal/models"
)

const phoneColumns = `id, brand, model, storage, color, condition, battery_health,
	price, original_price, warranty, description, images, status, created_at`

// PostgresInventory queries the phones table directly. When a text
// searcher is attached, free-text filters are delegated to it and the
// matching ids are folded back into the SQL query.
type PostgresInventory struct {
	db       *sql.DB
	searcher TextSearcher
}

// TextSearcher resolves a free-text query to inventory ids, best first.
type TextSearcher interface {
	SearchIDs(ctx context.Context, text string, limit int) ([]string, error)
}

func NewPostgresInventory(db *sql.DB) *PostgresInventory {
	return &PostgresInventory{db: db}
}

// WithTextSearcher attaches an external full-text index for the
// free-text filter. Without one, text matches fall back to ILIKE over
// model and description.
func (s *PostgresInventory) WithTextSearcher(searcher TextSearcher) *PostgresInventory {
	s.searcher = searcher
	return s
}

func (s *PostgresInventory) Search(ctx context.Context, q models.InventoryQuery) ([]models.Phone, error) {
	start := time.Now()

	where := []string{}
	args := []interface{}{}

	if q.AvailableOnly {
		args = append(args, StatusAvailable)
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if q.Brand != "" {
		args = append(args, "%"+q.Brand+"%")
		where = append(where, "brand ILIKE $"+strconv.Itoa(len(args)))
	}
	if q.Text != "" {
		if s.searcher != nil {
			ids, err := s.searcher.SearchIDs(ctx, q.Text, q.Limit)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
			}
			if len(ids) == 0 {
				return []models.Phone{}, nil
			}
			args = append(args, pq.Array(ids))
			where = append(where, "id = ANY($"+strconv.Itoa(len(args))+")")
		} else {
			args = append(args, "%"+q.Text+"%")
			n := strconv.Itoa(len(args))
			where = append(where, "(model ILIKE $"+n+" OR description ILIKE $"+n+")")
		}
	}
	if q.MaxPrice > 0 {
		args = append(args, q.MaxPrice)
		where = append(where, "price <= $"+strconv.Itoa(len(args)))
	}
	if q.MinPrice > 0 {
		args = append(args, q.MinPrice)
		where = append(where, "price >= $"+strconv.Itoa(len(args)))
	}

	query := "SELECT " + phoneColumns + " FROM phones"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	switch q.Sort {
	case models.SortRecentDesc:
		query += " ORDER BY created_at DESC"
	default:
		query += " ORDER BY price ASC"
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit)
	query += " LIMIT $" + strconv.Itoa(len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrQueryTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	phones := []models.Phone{}
	for rows.Next() {
		var p models.Phone
		var images pq.StringArray
		err := rows.Scan(
			&p.ID, &p.Brand, &p.Model, &p.Storage, &p.Color, &p.Condition,
			&p.BatteryHealth, &p.Price, &p.OriginalPrice, &p.Warranty,
			&p.Description, &images, &p.Status, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrQueryFailed, err)
		}
		p.Images = images
		phones = append(phones, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}

	metrics.InventoryQueryDuration.WithLabelValues("sql").Observe(time.Since(start).Seconds())

	return phones, nil
}
