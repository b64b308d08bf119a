// Package reputationengine implements the voter reputation and streak
// system inside the community-experience context.
//
// The module owns one record per user: vote totals, daily streaks with
// milestone bonuses, a monotonically non-decreasing score, and the tier band
// derived from it. The campaign lifecycle consults the tier ordinal for
// eligibility gating and advances the record on every accepted vote.
package reputationengine
