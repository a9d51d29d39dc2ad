package analytics

import (
	"time"

	"github.com/misterclayt0n/corefit/internal/models"
	"github.com/misterclayt0n/corefit/internal/utils"
)

const DefaultWeeklyGoalDays = 4

type DayVolume struct {
	Date     time.Time // midnight, in the reference location
	Volume   int
	Workouts int
	IsToday  bool
}

type WeeklyAggregate struct {
	Days          [7]DayVolume // Monday first
	TotalVolume   int
	TotalWorkouts int
	MaxVolume     int // at least 1, for scaling bars
}

// WeekStart returns Monday 00:00 of the week containing ref, in ref's
// location.
func WeekStart(ref time.Time) time.Time {
	today := utils.StartOfDay(ref)
	diffToMonday := (int(today.Weekday()) + 6) % 7
	return today.AddDate(0, 0, -diffToMonday)
}

// DayKey is midnight of t's calendar day in loc.
func DayKey(t time.Time, loc *time.Location) time.Time {
	return utils.StartOfDay(t.In(loc))
}

// ComputeWeeklyAggregate spreads finished workouts over Monday..Sunday of
// ref's week. Each workout counts on the day it completed.
func ComputeWeeklyAggregate(sessions []models.Workout, ref time.Time) WeeklyAggregate {
	loc := ref.Location()
	monday := WeekStart(ref)
	today := utils.StartOfDay(ref)

	var agg WeeklyAggregate
	index := make(map[int64]int, 7)
	for i := range agg.Days {
		d := monday.AddDate(0, 0, i)
		agg.Days[i] = DayVolume{Date: d, IsToday: d.Equal(today)}
		index[d.Unix()] = i
	}

	for _, w := range sessions {
		if !w.IsFinished() {
			continue
		}
		end, ok := w.CompletedAt()
		if !ok {
			continue
		}
		i, ok := index[DayKey(end, loc).Unix()]
		if !ok {
			continue
		}
		agg.Days[i].Volume += Volume(w.PerformedExercises)
		agg.Days[i].Workouts++
	}

	agg.MaxVolume = 1
	for _, d := range agg.Days {
		agg.TotalVolume += d.Volume
		agg.TotalWorkouts += d.Workouts
		if d.Volume > agg.MaxVolume {
			agg.MaxVolume = d.Volume
		}
	}
	return agg
}

// WeekProgress tracks training days against the weekly goal.
type WeekProgress struct {
	ActiveDays [7]bool // Monday first
	DaysDone   int
	GoalDays   int
	ScorePct   int
}

// ComputeWeekProgress counts days of ref's week with at least one finished
// workout. goalDays is clamped to 1..7; zero or negative means the default.
func ComputeWeekProgress(sessions []models.Workout, ref time.Time, goalDays int) WeekProgress {
	switch {
	case goalDays <= 0:
		goalDays = DefaultWeeklyGoalDays
	case goalDays > 7:
		goalDays = 7
	}

	agg := ComputeWeeklyAggregate(sessions, ref)
	p := WeekProgress{GoalDays: goalDays}
	for i, d := range agg.Days {
		if d.Workouts > 0 {
			p.ActiveDays[i] = true
			p.DaysDone++
		}
	}
	p.ScorePct = roundHalfUp(float64(p.DaysDone) / float64(goalDays) * 100)
	return p
}

type MonthComparison struct {
	Current  int
	Previous int
	Delta    int
}

// ComputeMonthComparison counts finished workouts in ref's month and the
// month before it.
func ComputeMonthComparison(sessions []models.Workout, ref time.Time) MonthComparison {
	loc := ref.Location()
	monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
	nextMonth := monthStart.AddDate(0, 1, 0)
	prevMonth := monthStart.AddDate(0, -1, 0)

	var mc MonthComparison
	for _, w := range sessions {
		if !w.IsFinished() {
			continue
		}
		end, ok := w.CompletedAt()
		if !ok {
			continue
		}
		end = end.In(loc)
		switch {
		case !end.Before(monthStart) && end.Before(nextMonth):
			mc.Current++
		case !end.Before(prevMonth) && end.Before(monthStart):
			mc.Previous++
		}
	}
	mc.Delta = mc.Current - mc.Previous
	return mc
}
