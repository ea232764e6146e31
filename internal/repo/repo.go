package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"Deckwright/internal/calc/deck"
	"Deckwright/internal/pricebook"
)

// PriceRepository reads price book snapshots.
type PriceRepository interface {
	LoadBook(ctx context.Context) (*pricebook.Book, error)
}

type PostgresPriceRepository struct {
	db *sql.DB
}

func NewPostgresPriceDB(db *sql.DB) *PostgresPriceRepository {
	return &PostgresPriceRepository{db: db}
}

const loadBookQuery = "SELECT category, item_key, unit_cost FROM price_book ORDER BY category, item_key"

// LoadBook reads every row of price_book into a new Book. A bad row fails
// the whole load so a partial book is never served.
func (r *PostgresPriceRepository) LoadBook(ctx context.Context) (*pricebook.Book, error) {
	rows, err := r.db.QueryContext(ctx, loadBookQuery)
	if err != nil {
		return nil, fmt.Errorf("query price book: %w", err)
	}
	defer rows.Close()

	b := pricebook.NewBuilder()
	n := 0
	for rows.Next() {
		var cat, key string
		var cost float64
		if err := rows.Scan(&cat, &key, &cost); err != nil {
			return nil, fmt.Errorf("scan price row: %w", err)
		}
		if err := b.Set(deck.Category(cat), key, cost); err != nil {
			return nil, err
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read price book: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("price book table is empty")
	}
	return b.Build(), nil
}

// ConnString appends sslmode=require when the DSN names no sslmode.
func ConnString(dsn string) string {
	if strings.Contains(dsn, "sslmode=") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		if strings.Contains(dsn, "?") {
			return dsn + "&sslmode=require"
		}
		return dsn + "?sslmode=require"
	}
	return dsn + " sslmode=require"
}

func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", ConnString(dsn))
	if err != nil {
		return nil, fmt.Errorf("configure database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database not responding: %w", err)
	}
	return db, nil
}
