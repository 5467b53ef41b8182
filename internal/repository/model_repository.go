package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// PostgresModelRepository implements ModelRepository for PostgreSQL. Fitted
// models are small, so the whole model is stored as a JSON document keyed by
// name and trained-at time.
type PostgresModelRepository struct {
	db *database.DB
}

// NewPostgresModelRepository creates a new model repository
func NewPostgresModelRepository(db *database.DB) ModelRepository {
	return &PostgresModelRepository{db: db}
}

// Save stores a fitted model under the given name
func (r *PostgresModelRepository) Save(ctx context.Context, name string, model *models.FittedModel) error {
	payload, err := model.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize model: %w", err)
	}

	query := `
		INSERT INTO fitted_models (name, trained_at, payload, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	_, err = r.db.GetPool().Exec(ctx, query, name, model.TrainedAt, payload)
	if err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}

	return nil
}

// GetLatest retrieves the most recently trained model with the given name
func (r *PostgresModelRepository) GetLatest(ctx context.Context, name string) (*models.FittedModel, error) {
	query := `
		SELECT payload
		FROM fitted_models
		WHERE name = $1
		ORDER BY trained_at DESC
		LIMIT 1
	`

	var payload []byte
	err := r.db.GetPool().QueryRow(ctx, query, name).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}

	model, err := models.FittedModelFromJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize model: %w", err)
	}

	return model, nil
}
