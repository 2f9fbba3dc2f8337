package leveling

import "time"

// Point values for tracked activities. StreakBonus is the only variable
// award; everything else is a fixed constant.
const (
	PointsTaskComplete      = 10
	PointsIdeaShared        = 5
	PointsReplyAdded        = 2
	PointsTaskAssigned      = 3
	PointsChallengeComplete = 25

	MaxStreakBonus = 20
)

// StreakBonus is 2 points per consecutive active day, capped at 20. It is
// computed from the streak at award time, not from historical values.
func StreakBonus(streak int) int {
	bonus := streak * 2
	if bonus > MaxStreakBonus {
		bonus = MaxStreakBonus
	}
	return bonus
}

// LedgerState is a snapshot of a user's point counters.
type LedgerState struct {
	Points       int
	WeeklyPoints int
	Streak       int
	LastActive   time.Time
}

const millisPerDay = 24 * 60 * 60 * 1000

// NextLedger computes the counters after awarding points at now.
//
// A nil prev means the user has no record yet: all counters start from the
// awarded amount with a streak of 1. Otherwise the streak extends only when
// the gap since the last activity is exactly 24 hours to the millisecond
// (the historical rule, kept as-is), the weekly counter accumulates within
// the same Sunday-to-Saturday week and restarts at the awarded amount
// across a week boundary, and the all-time total only ever grows.
func NextLedger(prev *LedgerState, points int, now time.Time) LedgerState {
	if prev == nil {
		return LedgerState{
			Points:       points,
			WeeklyPoints: points,
			Streak:       1,
			LastActive:   now,
		}
	}

	next := LedgerState{
		Points:     prev.Points + points,
		LastActive: now,
	}

	if now.UnixMilli()-prev.LastActive.UnixMilli() == millisPerDay {
		next.Streak = prev.Streak + 1
	} else {
		next.Streak = 1
	}

	if IsSameWeek(now, prev.LastActive) {
		next.WeeklyPoints = prev.WeeklyPoints + points
	} else {
		next.WeeklyPoints = points
	}

	return next
}
