package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/misterclayt0n/corefit/internal/models"
)

func finished(id, at string, performed ...models.PerformedExercise) models.Workout {
	return models.Workout{
		ID:                 id,
		Status:             models.StatusFinished,
		StartedAt:          at,
		FinishedAt:         at,
		PerformedExercises: performed,
	}
}

// Thursday.
var refTime = time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC)

func TestWeekStart(t *testing.T) {
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), WeekStart(refTime))

	sunday := time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), WeekStart(sunday))

	monday := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, WeekStart(monday))
}

func TestComputeWeeklyAggregate_SingleWednesday(t *testing.T) {
	w := finished("w1", "2026-10-14T09:30:00Z", models.PerformedExercise{SetsPerformed: sets(10, 50)})

	agg := ComputeWeeklyAggregate([]models.Workout{w}, refTime)
	assert.Equal(t, 500, agg.TotalVolume)
	assert.Equal(t, 1, agg.TotalWorkouts)
	assert.Equal(t, 500, agg.MaxVolume)
	for i, d := range agg.Days {
		if i == 2 {
			assert.Equal(t, 500, d.Volume)
			assert.Equal(t, time.Wednesday, d.Date.Weekday())
			continue
		}
		assert.Zero(t, d.Volume, "day %d", i)
	}
	assert.True(t, agg.Days[3].IsToday)
}

func TestComputeWeeklyAggregate_IgnoresOtherWeeksAndActive(t *testing.T) {
	old := finished("old", "2026-10-05T09:00:00Z", models.PerformedExercise{SetsPerformed: sets(10, 50)})
	active := models.Workout{
		ID:                 "a",
		Status:             models.StatusActive,
		StartedAt:          "2026-10-15T08:00:00Z",
		PerformedExercises: []models.PerformedExercise{{SetsPerformed: sets(10, 50)}},
	}

	agg := ComputeWeeklyAggregate([]models.Workout{old, active}, refTime)
	assert.Zero(t, agg.TotalVolume)
	assert.Zero(t, agg.TotalWorkouts)
	assert.Equal(t, 1, agg.MaxVolume)
}

func TestComputeWeeklyAggregate_UsesReferenceLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	ref := refTime.In(loc)

	// 01:00 UTC Thursday is still Wednesday evening at -03:00.
	w := finished("w", "2026-10-15T01:00:00Z", models.PerformedExercise{SetsPerformed: sets(1, 100)})
	agg := ComputeWeeklyAggregate([]models.Workout{w}, ref)
	assert.Equal(t, 100, agg.Days[2].Volume)
	assert.Zero(t, agg.Days[3].Volume)
}

func TestComputeWeekProgress(t *testing.T) {
	sessions := []models.Workout{
		finished("a", "2026-10-12T10:00:00Z"),
		finished("b", "2026-10-12T18:00:00Z"),
		finished("c", "2026-10-14T10:00:00Z"),
	}

	p := ComputeWeekProgress(sessions, refTime, 0)
	assert.Equal(t, DefaultWeeklyGoalDays, p.GoalDays)
	assert.Equal(t, 2, p.DaysDone)
	assert.Equal(t, 50, p.ScorePct)
	assert.Equal(t, [7]bool{true, false, true, false, false, false, false}, p.ActiveDays)

	assert.Equal(t, 7, ComputeWeekProgress(sessions, refTime, 12).GoalDays)
	assert.Equal(t, 67, ComputeWeekProgress(sessions, refTime, 3).ScorePct)
}

func TestComputeMonthComparison(t *testing.T) {
	sessions := []models.Workout{
		finished("a", "2026-10-01T10:00:00Z"),
		finished("b", "2026-10-10T10:00:00Z"),
		finished("c", "2026-09-30T10:00:00Z"),
		finished("d", "2026-08-30T10:00:00Z"),
	}

	mc := ComputeMonthComparison(sessions, refTime)
	assert.Equal(t, MonthComparison{Current: 2, Previous: 1, Delta: 1}, mc)
}
