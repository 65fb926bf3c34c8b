package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/viant/chatapproval/model"
	"github.com/viant/chatapproval/service/dao/order"
	_ "modernc.org/sqlite"
)

// Persister stores one row per active order; Save replaces all rows in a
// single transaction.
type Persister struct {
	db *sql.DB
}

var _ order.Persister = (*Persister)(nil)

// Load returns every stored order, oldest first, ties broken by id.
func (p *Persister) Load(ctx context.Context) ([]*model.Order, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, data FROM orders ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var ret []*model.Order
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o := &model.Order{}
		if err := json.Unmarshal([]byte(data), o); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order %s: %w", id, err)
		}
		o.ID = id
		ret = append(ret, o)
	}
	return ret, rows.Err()
}

// Save replaces the stored orders with orders in a single transaction; an
// empty slice clears the table.
func (p *Persister) Save(ctx context.Context, orders []*model.Order) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM orders`); err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO orders (id, status, data, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, o := range orders {
		data, err := json.Marshal(o)
		if err != nil {
			return fmt.Errorf("failed to marshal order %s: %w", o.ID, err)
		}
		if _, err = stmt.ExecContext(ctx, o.ID, string(o.Status), string(data), o.CreatedAt.UTC()); err != nil {
			return fmt.Errorf("failed to insert order %s: %w", o.ID, err)
		}
	}
	return tx.Commit()
}

// Close releases the database handle
func (p *Persister) Close() error {
	return p.db.Close()
}

func (p *Persister) migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			data TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
	`
	_, err := p.db.ExecContext(ctx, schema)
	return err
}

// New opens (creating when needed) the sqlite database at dbPath
func New(ctx context.Context, dbPath string) (*Persister, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	ret := &Persister{db: db}
	if err := ret.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate %s: %w", dbPath, err)
	}
	return ret, nil
}
