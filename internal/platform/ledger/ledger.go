// Package ledger is the custodial balance collaborator behind the lifecycle
// modules. It moves integer minor units between keyed accounts with
// all-or-nothing semantics and computes the storage-retention reserve that
// fee withdrawal must leave behind.
package ledger

import "errors"

// Account naming convention shared by every module that owns a balance.
const FeeCustodyAccount = "platform:fees"

// CampaignEscrowAccount returns the custody account holding a campaign's
// undistributed prize pool.
func CampaignEscrowAccount(campaignID string) string {
	return "campaign:" + campaignID
}

var (
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
	ErrAmountOverflow    = errors.New("ledger: amount overflow")
	ErrInvalidAccount    = errors.New("ledger: invalid account")
)

// Retention-reserve rate per stored byte, matching the upstream runtime's
// two-year exemption pricing, plus its fixed per-record overhead.
const (
	reserveOverheadBytes = 128
	reservePerByte       = 6960
)

// ComputeMinimumReserve returns the balance a record of the given byte size
// must retain to stay resident.
func ComputeMinimumReserve(sizeBytes int) uint64 {
	if sizeBytes < 0 {
		sizeBytes = 0
	}
	return uint64(sizeBytes+reserveOverheadBytes) * reservePerByte
}
