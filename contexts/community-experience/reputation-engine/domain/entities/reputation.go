package entities

import (
	"math"
	"strings"
	"time"

	domainerrors "pollvault/contexts/community-experience/reputation-engine/domain/errors"
)

type Tier string

const (
	TierNewbie  Tier = "newbie"
	TierRegular Tier = "regular"
	TierVeteran Tier = "veteran"
	TierLegend  Tier = "legend"
)

func ParseTier(raw string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(TierNewbie):
		return TierNewbie, true
	case string(TierRegular):
		return TierRegular, true
	case string(TierVeteran):
		return TierVeteran, true
	case string(TierLegend):
		return TierLegend, true
	default:
		return "", false
	}
}

// Ordinal is the total order used for campaign gating: a campaign requiring
// regular accepts regular, veteran, and legend.
func (t Tier) Ordinal() uint8 {
	switch t {
	case TierRegular:
		return 1
	case TierVeteran:
		return 2
	case TierLegend:
		return 3
	default:
		return 0
	}
}

// TierForScore maps a score onto its band. Tier is always derived from the
// current score, never cached across mutations.
func TierForScore(score uint64) Tier {
	switch {
	case score < 100:
		return TierNewbie
	case score < 300:
		return TierRegular
	case score < 500:
		return TierVeteran
	default:
		return TierLegend
	}
}

// Score increments per vote outcome.
const (
	firstVotePoints   = 10
	consecutivePoints = 15
	brokenStreakPoint = 10
	sameDayPoints     = 5

	weekStreakLength  = 7
	weekStreakBonus   = 50
	monthStreakLength = 30
	monthStreakBonus  = 200

	secondsPerDay = 86400
)

// UserReputation is one user's record across all campaigns. LastVoteAt is
// unix seconds; zero means the user has never voted.
type UserReputation struct {
	UserID        string
	TotalVotes    uint64
	CurrentStreak uint32
	LongestStreak uint32
	LastVoteAt    int64
	Score         uint64
	Tier          Tier
	UpdatedAt     time.Time
}

// NewUserReputation is the zero state created on a user's first vote.
func NewUserReputation(userID string) UserReputation {
	return UserReputation{
		UserID: strings.TrimSpace(userID),
		Tier:   TierNewbie,
	}
}

// Advance applies one vote at the given time and returns the updated record.
// Streaks are counted in calendar days (floor of unix seconds / 86400):
// a first-ever vote starts a streak, a consecutive-day vote extends it and
// pays milestone bonuses at exactly 7 and 30 days, a gap resets it, and
// additional same-day votes only add the small repeat award.
func (r UserReputation) Advance(now time.Time) (UserReputation, error) {
	nowUnix := now.Unix()
	currentDay := nowUnix / secondsPerDay
	lastDay := r.LastVoteAt / secondsPerDay

	switch {
	case lastDay == 0:
		r.CurrentStreak = 1
		if err := r.addScore(firstVotePoints); err != nil {
			return UserReputation{}, err
		}
	case currentDay == lastDay+1:
		if r.CurrentStreak == math.MaxUint32 {
			return UserReputation{}, domainerrors.ErrScoreOverflow
		}
		r.CurrentStreak++
		if err := r.addScore(consecutivePoints); err != nil {
			return UserReputation{}, err
		}
		// Milestones fire only on exact equality, once per streak.
		if r.CurrentStreak == weekStreakLength {
			if err := r.addScore(weekStreakBonus); err != nil {
				return UserReputation{}, err
			}
		} else if r.CurrentStreak == monthStreakLength {
			if err := r.addScore(monthStreakBonus); err != nil {
				return UserReputation{}, err
			}
		}
		if r.CurrentStreak > r.LongestStreak {
			r.LongestStreak = r.CurrentStreak
		}
	case currentDay > lastDay+1:
		r.CurrentStreak = 1
		if err := r.addScore(brokenStreakPoint); err != nil {
			return UserReputation{}, err
		}
	default:
		if err := r.addScore(sameDayPoints); err != nil {
			return UserReputation{}, err
		}
	}

	if r.TotalVotes == math.MaxUint64 {
		return UserReputation{}, domainerrors.ErrScoreOverflow
	}
	r.TotalVotes++
	r.LastVoteAt = nowUnix
	r.Tier = TierForScore(r.Score)
	r.UpdatedAt = now.UTC()
	return r, nil
}

func (r *UserReputation) addScore(points uint64) error {
	if r.Score > math.MaxUint64-points {
		return domainerrors.ErrScoreOverflow
	}
	r.Score += points
	return nil
}
