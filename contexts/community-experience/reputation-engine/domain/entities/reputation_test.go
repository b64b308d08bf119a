package entities

import (
	"testing"
	"time"
)

// day returns noon UTC on day n of an arbitrary epoch-distant month, so the
// floor(unix/86400) bucketing never lands near a boundary.
func day(n int) time.Time {
	return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func advanceOrFail(t *testing.T, r UserReputation, at time.Time) UserReputation {
	t.Helper()
	updated, err := r.Advance(at)
	if err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	return updated
}

func TestFirstVoteStartsStreak(t *testing.T) {
	rep := advanceOrFail(t, NewUserReputation("user-1"), day(0))
	if rep.CurrentStreak != 1 {
		t.Fatalf("streak = %d, want 1", rep.CurrentStreak)
	}
	if rep.Score != 10 {
		t.Fatalf("score = %d, want 10", rep.Score)
	}
	if rep.Tier != TierNewbie {
		t.Fatalf("tier = %s, want newbie", rep.Tier)
	}
	if rep.TotalVotes != 1 {
		t.Fatalf("total votes = %d, want 1", rep.TotalVotes)
	}
}

func TestThreeConsecutiveDays(t *testing.T) {
	rep := NewUserReputation("user-1")
	rep = advanceOrFail(t, rep, day(0))
	rep = advanceOrFail(t, rep, day(1))
	rep = advanceOrFail(t, rep, day(2))

	if rep.CurrentStreak != 3 {
		t.Fatalf("streak = %d, want 3", rep.CurrentStreak)
	}
	if rep.LongestStreak != 3 {
		t.Fatalf("longest streak = %d, want 3", rep.LongestStreak)
	}
	if rep.Score != 10+15+15 {
		t.Fatalf("score = %d, want 40", rep.Score)
	}
}

func TestSameDayVoteDoesNotExtendStreak(t *testing.T) {
	rep := NewUserReputation("user-1")
	rep = advanceOrFail(t, rep, day(0))
	rep = advanceOrFail(t, rep, day(0).Add(3*time.Hour))

	if rep.CurrentStreak != 1 {
		t.Fatalf("streak = %d, want 1", rep.CurrentStreak)
	}
	if rep.Score != 10+5 {
		t.Fatalf("score = %d, want 15", rep.Score)
	}
	if rep.TotalVotes != 2 {
		t.Fatalf("total votes = %d, want 2", rep.TotalVotes)
	}
}

func TestGapResetsStreakButKeepsLongest(t *testing.T) {
	rep := NewUserReputation("user-1")
	for i := 0; i < 3; i++ {
		rep = advanceOrFail(t, rep, day(i))
	}
	rep = advanceOrFail(t, rep, day(7))

	if rep.CurrentStreak != 1 {
		t.Fatalf("streak = %d, want 1 after gap", rep.CurrentStreak)
	}
	if rep.LongestStreak != 3 {
		t.Fatalf("longest streak = %d, want 3", rep.LongestStreak)
	}
	if rep.Score != 10+15+15+10 {
		t.Fatalf("score = %d, want 50", rep.Score)
	}
}

func TestWeekMilestoneFiresExactlyAtSeven(t *testing.T) {
	rep := NewUserReputation("user-1")
	for i := 0; i < 6; i++ {
		rep = advanceOrFail(t, rep, day(i))
	}
	if rep.Score != 10+5*15 {
		t.Fatalf("score before milestone = %d, want 85", rep.Score)
	}

	rep = advanceOrFail(t, rep, day(6))
	if rep.CurrentStreak != 7 {
		t.Fatalf("streak = %d, want 7", rep.CurrentStreak)
	}
	if rep.Score != 10+6*15+50 {
		t.Fatalf("score = %d, want 150 with week bonus", rep.Score)
	}
	if rep.Tier != TierRegular {
		t.Fatalf("tier = %s, want regular at score 150", rep.Tier)
	}

	// Day 8 pays the regular increment only; the bonus never repeats.
	rep = advanceOrFail(t, rep, day(7))
	if rep.Score != 150+15 {
		t.Fatalf("score = %d, want 165", rep.Score)
	}
}

func TestMonthMilestoneBonus(t *testing.T) {
	rep := NewUserReputation("user-1")
	for i := 0; i < 30; i++ {
		rep = advanceOrFail(t, rep, day(i))
	}
	if rep.CurrentStreak != 30 {
		t.Fatalf("streak = %d, want 30", rep.CurrentStreak)
	}
	// 10 + 29*15 + 50 (day 7) + 200 (day 30)
	if rep.Score != 10+29*15+50+200 {
		t.Fatalf("score = %d, want 695", rep.Score)
	}
	if rep.Tier != TierLegend {
		t.Fatalf("tier = %s, want legend", rep.Tier)
	}
}

func TestScoreIsMonotonicallyNonDecreasing(t *testing.T) {
	rep := NewUserReputation("user-1")
	last := uint64(0)
	times := []time.Time{
		day(0), day(0).Add(time.Hour), day(1), day(5), day(6), day(6).Add(2 * time.Hour), day(7),
	}
	for _, at := range times {
		rep = advanceOrFail(t, rep, at)
		if rep.Score < last {
			t.Fatalf("score decreased from %d to %d", last, rep.Score)
		}
		if rep.Tier != TierForScore(rep.Score) {
			t.Fatalf("tier %s out of band for score %d", rep.Tier, rep.Score)
		}
		last = rep.Score
	}
}

func TestTierBands(t *testing.T) {
	cases := []struct {
		score uint64
		tier  Tier
	}{
		{0, TierNewbie},
		{99, TierNewbie},
		{100, TierRegular},
		{299, TierRegular},
		{300, TierVeteran},
		{499, TierVeteran},
		{500, TierLegend},
		{100_000, TierLegend},
	}
	for _, tc := range cases {
		if got := TierForScore(tc.score); got != tc.tier {
			t.Fatalf("TierForScore(%d) = %s, want %s", tc.score, got, tc.tier)
		}
	}
}

func TestTierOrdinalOrder(t *testing.T) {
	tiers := []Tier{TierNewbie, TierRegular, TierVeteran, TierLegend}
	for i := 1; i < len(tiers); i++ {
		if tiers[i].Ordinal() <= tiers[i-1].Ordinal() {
			t.Fatalf("%s should outrank %s", tiers[i], tiers[i-1])
		}
	}
}

func TestParseTier(t *testing.T) {
	if tier, ok := ParseTier(" Veteran "); !ok || tier != TierVeteran {
		t.Fatalf("ParseTier veteran failed: %v %v", tier, ok)
	}
	if _, ok := ParseTier("champion"); ok {
		t.Fatalf("unknown tier must not parse")
	}
}
