package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/misterclayt0n/corefit/internal/models"
	"github.com/misterclayt0n/corefit/internal/utils"
)

// DistinctDayKeys returns the calendar days (midnight in loc) with at least
// one finished workout, most recent first.
func DistinctDayKeys(sessions []models.Workout, loc *time.Location) []time.Time {
	seen := make(map[int64]bool)
	var keys []time.Time
	for _, w := range sessions {
		if !w.IsFinished() {
			continue
		}
		end, ok := w.CompletedAt()
		if !ok {
			continue
		}
		k := DayKey(end, loc)
		if seen[k.Unix()] {
			continue
		}
		seen[k.Unix()] = true
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].After(keys[j]) })
	return keys
}

// ComputeStreak counts consecutive training days ending at the newest key.
// The newest key must be today or yesterday (relative to now, in the keys'
// location), so a streak does not break before the day's session.
func ComputeStreak(dayKeysDesc []time.Time, now time.Time) int {
	if len(dayKeysDesc) == 0 {
		return 0
	}

	newest := dayKeysDesc[0]
	today := utils.StartOfDay(now.In(newest.Location()))
	yesterday := today.AddDate(0, 0, -1)
	if !newest.Equal(today) && !newest.Equal(yesterday) {
		return 0
	}

	streak := 1
	for i := 1; i < len(dayKeysDesc); i++ {
		if !dayKeysDesc[i-1].AddDate(0, 0, -1).Equal(dayKeysDesc[i]) {
			break
		}
		streak++
	}
	return streak
}

// LastFinished returns the most recently finished workout, judged by
// finishedAt only.
func LastFinished(sessions []models.Workout) (models.Workout, bool) {
	var best models.Workout
	var bestAt time.Time
	found := false
	for _, w := range sessions {
		if w.FinishedAt == "" {
			continue
		}
		at, ok := models.ParseTimestamp(w.FinishedAt)
		if !ok {
			continue
		}
		if !found || at.After(bestAt) {
			best, bestAt, found = w, at, true
		}
	}
	return best, found
}

// RelativeDayLabel describes ts relative to now: today, yesterday, N days
// ago within a week, otherwise the date. Unparseable input yields "-".
func RelativeDayLabel(ts string, now time.Time) string {
	t, ok := models.ParseTimestamp(ts)
	if !ok {
		return "-"
	}
	loc := now.Location()
	diff := roundHalfUp(utils.StartOfDay(now).Sub(DayKey(t, loc)).Hours() / 24)
	switch {
	case diff == 0:
		return "today"
	case diff == 1:
		return "yesterday"
	case diff > 1 && diff < 7:
		return fmt.Sprintf("%d days ago", diff)
	default:
		return t.In(loc).Format("02 Jan 2006")
	}
}
