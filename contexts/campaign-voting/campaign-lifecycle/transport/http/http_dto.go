package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateCampaignRequest struct {
	CampaignID      string   `json:"campaign_id,omitempty"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Options         []string `json:"options"`
	Reward          uint64   `json:"reward"`
	MaxParticipants uint64   `json:"max_participants"`
	MinReputation   uint8    `json:"min_reputation"`
	EndDate         int64    `json:"end_date,omitempty"`
}

type SubmitVoteRequest struct {
	Choice uint8 `json:"choice"`
}

type CampaignDTO struct {
	CampaignID           string   `json:"campaign_id"`
	CreatorID            string   `json:"creator_id"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Options              []string `json:"options"`
	VoteCounts           []uint64 `json:"vote_counts"`
	Reward               uint64   `json:"reward"`
	RewardPerParticipant uint64   `json:"reward_per_participant"`
	Participants         []string `json:"participants"`
	MaxParticipants      uint64   `json:"max_participants"`
	MinReputation        uint8    `json:"min_reputation"`
	TotalVotes           uint64   `json:"total_votes"`
	EndDate              int64    `json:"end_date,omitempty"`
	Status               string   `json:"status"`
	EscrowBalance        uint64   `json:"escrow_balance"`
	CreatedAt            string   `json:"created_at"`
	UpdatedAt            string   `json:"updated_at"`
}

type CreateCampaignResponse struct {
	Status string `json:"status"`
	Data   struct {
		Campaign   CampaignDTO `json:"campaign"`
		FeeCharged uint64      `json:"fee_charged"`
	} `json:"data"`
}

type CampaignResponse struct {
	Status string      `json:"status"`
	Data   CampaignDTO `json:"data"`
}

type CampaignListResponse struct {
	Status string        `json:"status"`
	Data   []CampaignDTO `json:"data"`
}

type SubmitVoteResponse struct {
	Status string `json:"status"`
	Data   struct {
		CampaignID        string `json:"campaign_id"`
		VoterID           string `json:"voter_id"`
		Choice            uint8  `json:"choice"`
		RewardPaid        uint64 `json:"reward_paid"`
		CampaignCompleted bool   `json:"campaign_completed"`
		VotedAt           string `json:"voted_at"`
	} `json:"data"`
}

type CancelCampaignResponse struct {
	Status string `json:"status"`
	Data   struct {
		CampaignID string `json:"campaign_id"`
		Refunded   uint64 `json:"refunded"`
	} `json:"data"`
}

type CloseCampaignResponse struct {
	Status string `json:"status"`
	Data   struct {
		CampaignID string `json:"campaign_id"`
		Swept      uint64 `json:"swept"`
	} `json:"data"`
}
