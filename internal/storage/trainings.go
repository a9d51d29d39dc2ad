package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/misterclayt0n/corefit/internal/models"
)

// ReplaceTrainings caches the plan list, keeping its order for the cycle.
func (s *Storage) ReplaceTrainings(ctx context.Context, trainings []models.Training) error {
	now := time.Now().UTC()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM trainings"); err != nil {
		return fmt.Errorf("Failed to clear trainings: %w", err)
	}
	for i, t := range trainings {
		if t.ID == "" {
			t.ID = "local-" + uuid.New().String()
		}
		payload, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("Failed to encode training %s: %w", t.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO trainings (id, position, name, payload, synced_at) VALUES (?, ?, ?, ?, ?)`,
			t.ID, i, t.Name, string(payload), now.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("Failed to save training %s: %w", t.ID, err)
		}
	}
	if err := setSyncState(ctx, tx, keyTrainingsSyncedAt, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Failed to commit trainings: %w", err)
	}
	s.log.WithField("count", len(trainings)).Debug("Cached trainings")
	return nil
}

func (s *Storage) ListTrainings(ctx context.Context) ([]models.Training, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT payload FROM trainings ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("Failed to query trainings: %w", err)
	}
	defer rows.Close()

	var trainings []models.Training
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("Failed to scan training: %w", err)
		}
		var t models.Training
		if err := json.Unmarshal([]byte(payload), &t); err != nil {
			s.log.WithError(err).Warn("Skipping unreadable cached training")
			continue
		}
		trainings = append(trainings, t)
	}
	return trainings, rows.Err()
}

// GetTraining returns nil when the training is not cached.
func (s *Storage) GetTraining(ctx context.Context, id string) (*models.Training, error) {
	var payload string
	err := s.DB.QueryRowContext(ctx, `SELECT payload FROM trainings WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Failed to query training %s: %w", id, err)
	}

	var t models.Training
	if err := json.Unmarshal([]byte(payload), &t); err != nil {
		return nil, fmt.Errorf("Failed to decode training %s: %w", id, err)
	}
	return &t, nil
}
