package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type InitializePlatformRequest struct {
	FeeBps uint16 `json:"fee_bps"`
}

type PlatformDTO struct {
	AuthorityID       string `json:"authority_id"`
	FeeBps            uint16 `json:"fee_bps"`
	TotalFeeCollected uint64 `json:"total_fee_collected"`
	TotalCampaigns    uint64 `json:"total_campaigns"`
	CustodyBalance    uint64 `json:"custody_balance"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

type PlatformResponse struct {
	Status string      `json:"status"`
	Data   PlatformDTO `json:"data"`
}

type WithdrawFeesResponse struct {
	Status string `json:"status"`
	Data   struct {
		Withdrawn uint64 `json:"withdrawn"`
	} `json:"data"`
}
