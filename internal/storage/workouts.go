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

const (
	keyWorkoutsSyncedAt  = "workouts_synced_at"
	keyTrainingsSyncedAt = "trainings_synced_at"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ReplaceWorkouts swaps the cached history for workouts in one transaction.
func (s *Storage) ReplaceWorkouts(ctx context.Context, workouts []models.Workout) error {
	now := time.Now().UTC()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM workouts"); err != nil {
		return fmt.Errorf("Failed to clear workouts: %w", err)
	}
	for _, w := range workouts {
		if err := upsertWorkout(ctx, tx, w, now); err != nil {
			return err
		}
	}
	if err := setSyncState(ctx, tx, keyWorkoutsSyncedAt, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Failed to commit workouts: %w", err)
	}
	s.log.WithField("count", len(workouts)).Debug("Cached workouts")
	return nil
}

// SaveWorkout inserts or replaces a single workout.
func (s *Storage) SaveWorkout(ctx context.Context, w models.Workout) error {
	return upsertWorkout(ctx, s.DB, w, time.Now().UTC())
}

func upsertWorkout(ctx context.Context, db execer, w models.Workout, syncedAt time.Time) error {
	// Rows without an id still need a key.
	if w.ID == "" {
		w.ID = "local-" + uuid.New().String()
	}

	payload, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("Failed to encode workout %s: %w", w.ID, err)
	}

	completedAt := ""
	if t, ok := w.CompletedAt(); ok {
		completedAt = t.UTC().Format(time.RFC3339Nano)
	}

	_, err = db.ExecContext(ctx, `
		INSERT OR REPLACE INTO workouts
			(id, training_id, training_name, status, started_at, completed_at, payload, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.TrainingID, w.TrainingName, string(w.Status), w.StartedAt, completedAt,
		string(payload), syncedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("Failed to save workout %s: %w", w.ID, err)
	}
	return nil
}

// ListWorkouts returns the cached history, most recently completed first.
func (s *Storage) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT payload FROM workouts ORDER BY completed_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("Failed to query workouts: %w", err)
	}
	defer rows.Close()

	var workouts []models.Workout
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("Failed to scan workout: %w", err)
		}
		var w models.Workout
		if err := json.Unmarshal([]byte(payload), &w); err != nil {
			s.log.WithError(err).Warn("Skipping unreadable cached workout")
			continue
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// GetWorkout returns nil when the workout is not cached.
func (s *Storage) GetWorkout(ctx context.Context, id string) (*models.Workout, error) {
	var payload string
	err := s.DB.QueryRowContext(ctx, `SELECT payload FROM workouts WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Failed to query workout %s: %w", id, err)
	}

	var w models.Workout
	if err := json.Unmarshal([]byte(payload), &w); err != nil {
		return nil, fmt.Errorf("Failed to decode workout %s: %w", id, err)
	}
	return &w, nil
}

// LastSync reports when the workout history was last replaced.
func (s *Storage) LastSync(ctx context.Context) (time.Time, bool, error) {
	return s.syncedAt(ctx, keyWorkoutsSyncedAt)
}

func setSyncState(ctx context.Context, db execer, key string, at time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sync_state (key, value) VALUES (?, ?)`,
		key, at.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("Failed to record %s: %w", key, err)
	}
	return nil
}

func (s *Storage) syncedAt(ctx context.Context, key string) (time.Time, bool, error) {
	var raw string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM sync_state WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("Failed to read %s: %w", key, err)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, nil
	}
	return t, true, nil
}
