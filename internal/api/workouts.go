package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/misterclayt0n/corefit/internal/models"
)

// ActiveWorkout returns the in-progress workout, or nil when there is none.
func (c *Client) ActiveWorkout(ctx context.Context) (*models.Workout, error) {
	var w *models.Workout
	if err := c.Do(ctx, Request{Path: "/workouts/active"}, &w); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch active workout: %w", err)
	}
	if w == nil || w.ID == "" {
		return nil, nil
	}
	return w, nil
}

func (c *Client) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, Request{Path: "/workouts"}, &raw); err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	workouts, err := DecodeList[models.Workout](raw)
	if err != nil {
		return nil, fmt.Errorf("decode workouts: %w", err)
	}
	return workouts, nil
}

func (c *Client) ListTrainings(ctx context.Context) ([]models.Training, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, Request{Path: "/trainings"}, &raw); err != nil {
		return nil, fmt.Errorf("list trainings: %w", err)
	}
	trainings, err := DecodeList[models.Training](raw)
	if err != nil {
		return nil, fmt.Errorf("decode trainings: %w", err)
	}
	return trainings, nil
}

// StartWorkout begins a session from a plan. The returned workout is nil
// when the backend answers without a body. Use IsActiveWorkoutConflict on
// the error to detect an already running session.
func (c *Client) StartWorkout(ctx context.Context, trainingID string) (*models.Workout, error) {
	var w *models.Workout
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/workouts/start/" + url.PathEscape(trainingID),
	}, &w)
	if err != nil {
		return nil, fmt.Errorf("start workout: %w", err)
	}
	return w, nil
}

// SavePerformance replaces the performed exercises of a workout.
func (c *Client) SavePerformance(ctx context.Context, workoutID string, performed []models.PerformedExercise) error {
	if performed == nil {
		performed = []models.PerformedExercise{}
	}
	body := struct {
		PerformedExercises []models.PerformedExercise `json:"performedExercises"`
	}{performed}

	err := c.Do(ctx, Request{
		Method: http.MethodPatch,
		Path:   "/workouts/" + url.PathEscape(workoutID) + "/performance",
		Body:   body,
	}, nil)
	if err != nil {
		return fmt.Errorf("save performance: %w", err)
	}
	return nil
}

func (c *Client) FinishWorkout(ctx context.Context, workoutID string) error {
	body := struct {
		WorkoutID string `json:"workoutId"`
	}{workoutID}

	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/workouts/finish", Body: body}, nil); err != nil {
		return fmt.Errorf("finish workout: %w", err)
	}
	return nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var raw json.RawMessage
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/login", Body: body}, &raw); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return DecodeToken(raw)
}

func (c *Client) Profile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := c.Do(ctx, Request{Path: "/users/me"}, &p); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return &p, nil
}
