// Package economics holds the pure fee, reward, and storage-sizing
// arithmetic shared by the treasury and campaign lifecycle modules. All
// functions are deterministic, allocation-free, and overflow-checked;
// amounts are integer minor units.
package economics

import (
	"errors"
	"math/bits"
)

const (
	// Fee rates are basis points and must stay below 10%.
	MaxFeeBps = 1000

	// feeBpsDenominator converts basis points to a fraction.
	feeBpsDenominator = 10000

	// MaxStoredParticipants is the fixed participant-list allowance baked
	// into the campaign storage layout. Campaigns cannot admit more voters
	// than this without a layout change, so creation rejects higher caps.
	MaxStoredParticipants = 100
)

var (
	ErrArithmeticOverflow  = errors.New("arithmetic overflow")
	ErrRewardTooSmall      = errors.New("reward per participant too small")
	ErrInvalidParticipants = errors.New("invalid number of participants")
)

// SplitFee divides a gross prize into the platform fee and the distributable
// remainder. The multiplication widens to 128 bits; fee + distributable
// always equals reward exactly.
func SplitFee(reward uint64, feeBps uint16) (fee uint64, distributable uint64, err error) {
	hi, lo := bits.Mul64(reward, uint64(feeBps))
	if hi >= feeBpsDenominator {
		// Unreachable for feeBps < 10000, but checked rather than assumed.
		return 0, 0, ErrArithmeticOverflow
	}
	fee, _ = bits.Div64(hi, lo, feeBpsDenominator)
	return fee, reward - fee, nil
}

// RewardPerParticipant floors the distributable prize across the participant
// cap. A zero result means the campaign would pay nothing per vote and must
// be rejected before any funds move.
func RewardPerParticipant(distributable uint64, maxParticipants uint64) (uint64, error) {
	if maxParticipants == 0 {
		return 0, ErrInvalidParticipants
	}
	reward := distributable / maxParticipants
	if reward == 0 {
		return 0, ErrRewardTooSmall
	}
	return reward, nil
}

// Storage layout widths, kept in sync with the campaign record encoding.
const (
	discriminatorSize = 8
	identitySize      = 32
	lengthPrefixSize  = 4
	counterSize       = 8
	flagSize          = 1
)

// CampaignStorageSize returns the byte size of a campaign record with the
// given variable-length fields. The participant list is always sized at the
// fixed MaxStoredParticipants allowance regardless of the configured cap.
func CampaignStorageSize(title string, description string, options []string) int {
	size := discriminatorSize +
		identitySize + // creator
		lengthPrefixSize + len(title) +
		lengthPrefixSize + len(description)

	size += lengthPrefixSize // options length prefix
	for _, option := range options {
		size += lengthPrefixSize + len(option)
	}
	size += lengthPrefixSize + counterSize*len(options) // per-option vote counters

	size += counterSize // reward
	size += lengthPrefixSize + identitySize*MaxStoredParticipants
	size += counterSize // max participants
	size += counterSize // reward per participant
	size += counterSize // min reputation
	size += flagSize    // active flag
	size += counterSize // created at
	size += counterSize // updated at
	size += flagSize    // derivation tag

	return size
}

// ConfigStorageSize returns the byte size of the platform config record,
// used to compute the retention reserve withheld from fee withdrawal.
func ConfigStorageSize() int {
	return discriminatorSize +
		identitySize + // authority
		2 + // fee bps
		counterSize + // total fees collected
		counterSize + // total campaigns
		flagSize // derivation tag
}
