package entities

import "time"

// PlatformConfig is the singleton treasury record. TotalFeeCollected is a
// running display counter reset by withdrawal; the custody balance itself
// lives in the ledger.
type PlatformConfig struct {
	AuthorityID       string
	FeeBps            uint16
	TotalFeeCollected uint64
	TotalCampaigns    uint64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
