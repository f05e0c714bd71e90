// internal/store/postgres_test.go
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"phoneshop-bot/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var phoneRows = []string{
	"id", "brand", "model", "storage", "color", "condition", "battery_health",
	"price", "original_price", "warranty", "description", "images", "status", "created_at",
}

func sampleRow(rows *sqlmock.Rows, id, brand, model string, price int) *sqlmock.Rows {
	return rows.AddRow(
		id, brand, model, "128GB", "Black", "A", 90,
		price, price+10000, "6 months", "well kept", "{front.jpg,back.jpg}", "available", time.Now(),
	)
}

func TestSearch_FullFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM phones WHERE status = \$1 AND brand ILIKE \$2 AND \(model ILIKE \$3 OR description ILIKE \$3\) AND price <= \$4 ORDER BY price ASC LIMIT \$5`).
		WithArgs("available", "%Apple%", "%iphone 13%", 50000, 5).
		WillReturnRows(sampleRow(sqlmock.NewRows(phoneRows), "p1", "Apple", "iPhone 13", 45000))

	inv := NewPostgresInventory(db)
	phones, err := inv.Search(context.Background(), models.InventoryQuery{
		Brand:         "Apple",
		Text:          "iphone 13",
		MaxPrice:      50000,
		AvailableOnly: true,
		Limit:         5,
		Sort:          models.SortPriceAsc,
	})

	assert.NoError(t, err)
	assert.Len(t, phones, 1)
	assert.Equal(t, "Apple", phones[0].Brand)
	assert.Equal(t, []string{"front.jpg", "back.jpg"}, []string(phones[0].Images))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_RecentSortAndDefaultLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM phones WHERE status = \$1 ORDER BY created_at DESC LIMIT \$2`).
		WithArgs("available", 10).
		WillReturnRows(sqlmock.NewRows(phoneRows))

	inv := NewPostgresInventory(db)
	phones, err := inv.Search(context.Background(), models.InventoryQuery{
		AvailableOnly: true,
		Sort:          models.SortRecentDesc,
	})

	assert.NoError(t, err)
	assert.Empty(t, phones)
	assert.NotNil(t, phones)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_NoFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM phones ORDER BY price ASC LIMIT \$1`).
		WithArgs(3).
		WillReturnRows(sampleRow(sqlmock.NewRows(phoneRows), "p2", "Samsung", "Galaxy S22", 38000))

	inv := NewPostgresInventory(db)
	phones, err := inv.Search(context.Background(), models.InventoryQuery{Limit: 3})

	assert.NoError(t, err)
	assert.Len(t, phones, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM phones`).
		WillReturnError(errors.New("connection reset"))

	inv := NewPostgresInventory(db)
	_, err = inv.Search(context.Background(), models.InventoryQuery{Limit: 5})

	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrQueryFailed)
}

type fakeSearcher struct {
	ids []string
	err error
}

func (f *fakeSearcher) SearchIDs(_ context.Context, _ string, _ int) ([]string, error) {
	return f.ids, f.err
}

func TestSearch_TextSearcherIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM phones WHERE status = \$1 AND id = ANY\(\$2\) ORDER BY price ASC LIMIT \$3`).
		WillReturnRows(sampleRow(sqlmock.NewRows(phoneRows), "p3", "Google", "Pixel 8", 55000))

	inv := NewPostgresInventory(db).WithTextSearcher(&fakeSearcher{ids: []string{"p3"}})
	phones, err := inv.Search(context.Background(), models.InventoryQuery{
		Text:          "pixel",
		AvailableOnly: true,
		Limit:         5,
	})

	assert.NoError(t, err)
	assert.Len(t, phones, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_TextSearcherNoHitsShortCircuits(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	// No SQL should be issued when the text index returns nothing.
	inv := NewPostgresInventory(db).WithTextSearcher(&fakeSearcher{})
	phones, err := inv.Search(context.Background(), models.InventoryQuery{
		Text:  "pixel",
		Limit: 5,
	})

	assert.NoError(t, err)
	assert.Empty(t, phones)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_TextSearcherError(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	inv := NewPostgresInventory(db).WithTextSearcher(&fakeSearcher{err: errors.New("index down")})
	_, err = inv.Search(context.Background(), models.InventoryQuery{Text: "pixel", Limit: 5})

	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrQueryFailed)
}
