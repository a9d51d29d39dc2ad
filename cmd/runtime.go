package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/misterclayt0n/corefit/internal/analytics"
	"github.com/misterclayt0n/corefit/internal/api"
	"github.com/misterclayt0n/corefit/internal/config"
	"github.com/misterclayt0n/corefit/internal/credentials"
	"github.com/misterclayt0n/corefit/internal/history"
	"github.com/misterclayt0n/corefit/internal/logging"
	"github.com/misterclayt0n/corefit/internal/storage"
	"github.com/misterclayt0n/corefit/internal/tracker"
	"github.com/misterclayt0n/corefit/internal/utils"
)

// runtime holds everything a command needs, built once per invocation.
type runtime struct {
	cfg        *config.Config
	configPath string
	configDir  string
	log        *logrus.Logger
	logFile    io.Closer
	creds      credentials.File
	client     *api.Client
	cache      *storage.Storage // nil when no cache is configured or it failed to open
	loader     *history.Loader
	loc        *time.Location
}

func newRuntime(ctx context.Context) (*runtime, error) {
	r := &runtime{configPath: cfgFile}
	if r.configPath == "" {
		path, err := config.GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("Failed to resolve config path: %w", err)
		}
		r.configPath = path
	}

	cfg, err := config.Load(r.configPath)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	r.cfg = cfg

	if r.configDir, err = config.Dir(); err != nil {
		return nil, fmt.Errorf("Failed to resolve config directory: %w", err)
	}

	r.log, r.logFile, err = logging.Setup(logging.SetupParams{
		LogFileName: cfg.Log.File,
		LogLevel:    cfg.Log.Level,
		Verbose:     verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("Failed to set up logging: %w", err)
	}

	if r.loc, err = utils.LoadLocation(cfg.Profile.Timezone); err != nil {
		r.log.WithError(err).Warn("Unknown timezone, using the system one")
		r.loc = time.Local
	}

	r.creds = credentials.DefaultFile(r.configDir)
	r.client = api.NewClient(cfg.API.BaseURL,
		api.WithTokenSource(credentials.Chain{credentials.Env{}, r.creds}),
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(r.log),
	)

	var cache history.Cache
	if conn := cfg.Cache.ConnectionString; conn != "" {
		st, err := storage.Open(ctx, conn, r.log)
		if err != nil {
			r.log.WithError(err).Warn("Cache unavailable, continuing without it")
		} else {
			r.cache = st
			cache = st
		}
	}
	r.loader = history.NewLoader(r.client, cache, r.log)

	r.log.WithFields(logrus.Fields{
		"api":   cfg.API.BaseURL,
		"cache": r.cache != nil,
	}).Debug("Runtime ready")
	return r, nil
}

func (r *runtime) Close() error {
	var err error
	if r.cache != nil {
		err = multierr.Append(err, r.cache.Close())
	}
	if r.logFile != nil {
		err = multierr.Append(err, r.logFile.Close())
	}
	return err
}

// lastSync reports when the cached history was last refreshed.
func (r *runtime) lastSync() (time.Time, bool) {
	if r == nil || r.cache == nil {
		return time.Time{}, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	at, ok, err := r.cache.LastSync(ctx)
	if err != nil {
		r.log.WithError(err).Debug("Failed to read last sync time")
		return time.Time{}, false
	}
	return at, ok
}

func (r *runtime) now() time.Time {
	return time.Now().In(r.loc)
}

// resumeTracker loads the active workout into a tracker.
func (r *runtime) resumeTracker(ctx context.Context) (*tracker.Tracker, error) {
	tr, err := tracker.Resume(ctx, r.client,
		tracker.WithDebounce(r.cfg.Debounce()),
		tracker.WithLogger(r.log),
	)
	if err != nil {
		if errors.Is(err, tracker.ErrNoActiveWorkout) {
			return nil, fmt.Errorf("No active workout. Start one with 'corefit start'")
		}
		return nil, fmt.Errorf("Failed to load active workout: %w", err)
	}
	return tr, nil
}

// weeklyGoal prefers the goal stored in the profile over the local config.
func (r *runtime) weeklyGoal(ctx context.Context) int {
	p, err := r.client.Profile(ctx)
	if err != nil {
		r.log.WithError(err).Debug("Profile unavailable, using configured weekly goal")
		return r.cfg.Profile.WeeklyGoalDays
	}
	if p.WeeklyGoalDays > 0 {
		return p.WeeklyGoalDays
	}
	if r.cfg.Profile.WeeklyGoalDays > 0 {
		return r.cfg.Profile.WeeklyGoalDays
	}
	return analytics.DefaultWeeklyGoalDays
}
