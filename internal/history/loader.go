// Package history loads read-only views (workout history, plan list) from
// the API, writing them through to the local cache and falling back to it
// when the API cannot be reached. Loads never fail: the worst case is an
// empty result.
package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/misterclayt0n/corefit/internal/models"
)

type Origin string

const (
	OriginAPI   Origin = "api"
	OriginCache Origin = "cache"
	OriginNone  Origin = "none"
)

type Source interface {
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	ListTrainings(ctx context.Context) ([]models.Training, error)
}

type Cache interface {
	Source
	ReplaceWorkouts(ctx context.Context, workouts []models.Workout) error
	ReplaceTrainings(ctx context.Context, trainings []models.Training) error
}

var ErrNoCache = errors.New("no cache configured")

type Loader struct {
	api   Source
	cache Cache // nil when offline use is off
	log   logrus.FieldLogger
}

func NewLoader(api Source, cache Cache, log logrus.FieldLogger) *Loader {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loader{api: api, cache: cache, log: log}
}

// Workouts returns the session history and where it came from.
func (l *Loader) Workouts(ctx context.Context) ([]models.Workout, Origin) {
	if l.cache == nil {
		return load(ctx, l.log, "workouts", l.api.ListWorkouts, nil, nil)
	}
	return load(ctx, l.log, "workouts", l.api.ListWorkouts, l.cache.ListWorkouts, l.cache.ReplaceWorkouts)
}

// Trainings returns the plan list in cycle order.
func (l *Loader) Trainings(ctx context.Context) ([]models.Training, Origin) {
	if l.cache == nil {
		return load(ctx, l.log, "trainings", l.api.ListTrainings, nil, nil)
	}
	return load(ctx, l.log, "trainings", l.api.ListTrainings, l.cache.ListTrainings, l.cache.ReplaceTrainings)
}

// Workout finds one session by id in the history.
func (l *Loader) Workout(ctx context.Context, id string) (*models.Workout, Origin) {
	workouts, origin := l.Workouts(ctx)
	for i := range workouts {
		if workouts[i].ID == id {
			return &workouts[i], origin
		}
	}
	return nil, origin
}

// Training finds one plan by id.
func (l *Loader) Training(ctx context.Context, id string) (*models.Training, Origin) {
	trainings, origin := l.Trainings(ctx)
	for i := range trainings {
		if trainings[i].ID == id {
			return &trainings[i], origin
		}
	}
	return nil, origin
}

type SyncReport struct {
	Workouts  int
	Trainings int
}

// Sync refreshes the cache from the API. Unlike the loads it reports every
// failure.
func (l *Loader) Sync(ctx context.Context) (SyncReport, error) {
	if l.cache == nil {
		return SyncReport{}, ErrNoCache
	}

	var report SyncReport
	var errs error

	if workouts, err := l.api.ListWorkouts(ctx); err != nil {
		errs = multierr.Append(errs, err)
	} else if err := l.cache.ReplaceWorkouts(ctx, workouts); err != nil {
		errs = multierr.Append(errs, err)
	} else {
		report.Workouts = len(workouts)
	}

	if trainings, err := l.api.ListTrainings(ctx); err != nil {
		errs = multierr.Append(errs, err)
	} else if err := l.cache.ReplaceTrainings(ctx, trainings); err != nil {
		errs = multierr.Append(errs, err)
	} else {
		report.Trainings = len(trainings)
	}

	if errs != nil {
		return report, fmt.Errorf("sync: %w", errs)
	}
	return report, nil
}

func load[T any](
	ctx context.Context,
	log logrus.FieldLogger,
	what string,
	fetch func(context.Context) ([]T, error),
	cached func(context.Context) ([]T, error),
	store func(context.Context, []T) error,
) ([]T, Origin) {
	items, err := fetch(ctx)
	if err == nil {
		if store != nil {
			if err := store(ctx, items); err != nil {
				log.WithError(err).Warnf("Failed to cache %s", what)
			}
		}
		return items, OriginAPI
	}
	log.WithError(err).Warnf("Failed to load %s from the API", what)

	if cached == nil {
		return nil, OriginNone
	}
	items, cerr := cached(ctx)
	if cerr != nil {
		log.WithError(cerr).Warnf("Failed to load %s from the cache", what)
		return nil, OriginNone
	}
	return items, OriginCache
}
