// internal/store/inventory.go
package store

import (
	"context"
	"errors"

	"phoneshop-bot/internal/models"
)

// StatusAvailable is the inventory status the conversational pipeline
// filters on.
const StatusAvailable = "available"

var (
	ErrQueryFailed  = errors.New("INVENTORY_QUERY_FAILED")
	ErrQueryTimeout = errors.New("QUERY_TIMEOUT")
)

// Inventory is the read-only view of the phone store the pipeline
// depends on. Implementations must honor the query's filters, sort
// order and limit; an empty query returns the most-recently-listed
// available items.
type Inventory interface {
	Search(ctx context.Context, q models.InventoryQuery) ([]models.Phone, error)
}
