package quotes

import (
	"context"
	"encoding/json"
	"fmt"

	"distance-shipping/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the persistence operations the quote service
// needs: reading the validated rate table of a method instance, replacing it
// wholesale on settings save, and recording produced quotes.
type RepositoryInterface interface {
	LoadRateTable(ctx context.Context, instanceID string) (models.RateTable, error)
	ReplaceRateTable(ctx context.Context, instanceID string, table models.RateTable) error
	SaveQuote(ctx context.Context, instanceID string, quote *models.Quote) error
}

// Repository is the PostgreSQL implementation of RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new quote repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// LoadRateTable reads the canonical rate rules of an instance in their
// persisted sort order.
func (r *Repository) LoadRateTable(ctx context.Context, instanceID string) (models.RateTable, error) {
	query := `
		SELECT rule
		FROM rate_table_rows
		WHERE instance_id = $1
		ORDER BY position`

	rows, err := r.db.Query(ctx, query, instanceID)
	if err != nil {
		return nil, fmt.Errorf("repository.LoadRateTable: %w", err)
	}
	defer rows.Close()

	var table models.RateTable
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("repository.LoadRateTable: %w", err)
		}
		var rule models.RateRule
		if err := json.Unmarshal(payload, &rule); err != nil {
			return nil, fmt.Errorf("repository.LoadRateTable: decode rule: %w", err)
		}
		table = append(table, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.LoadRateTable: %w", err)
	}

	return table, nil
}

// ReplaceRateTable swaps the instance's persisted rules for the given table
// in one transaction. The table is always replaced in full, never patched.
func (r *Repository) ReplaceRateTable(ctx context.Context, instanceID string, table models.RateTable) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository.ReplaceRateTable: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM rate_table_rows WHERE instance_id = $1`, instanceID); err != nil {
		return fmt.Errorf("repository.ReplaceRateTable: delete: %w", err)
	}

	insert := `
		INSERT INTO rate_table_rows (instance_id, position, rule)
		VALUES ($1, $2, $3)`

	for position, rule := range table {
		payload, err := json.Marshal(rule)
		if err != nil {
			return fmt.Errorf("repository.ReplaceRateTable: encode rule: %w", err)
		}
		if _, err := tx.Exec(ctx, insert, instanceID, position, payload); err != nil {
			return fmt.Errorf("repository.ReplaceRateTable: insert: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository.ReplaceRateTable: commit: %w", err)
	}
	return nil
}

// SaveQuote records a produced shipping quote.
func (r *Repository) SaveQuote(ctx context.Context, instanceID string, quote *models.Quote) error {
	breakdown, err := json.Marshal(quote.Breakdown)
	if err != nil {
		return fmt.Errorf("repository.SaveQuote: encode breakdown: %w", err)
	}

	query := `
		INSERT INTO quotes (id, instance_id, label, cost, distance, distance_text, breakdown)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err = r.db.QueryRow(ctx, query,
		quote.ID,
		instanceID,
		quote.Label,
		quote.Cost,
		quote.Distance.Distance,
		quote.Distance.DistanceText,
		breakdown,
	).Scan(&quote.CreatedAt)
	if err != nil {
		return fmt.Errorf("repository.SaveQuote: %w", err)
	}
	return nil
}
