package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ReputationDTO struct {
	UserID        string `json:"user_id"`
	TotalVotes    uint64 `json:"total_votes"`
	CurrentStreak uint32 `json:"current_streak"`
	LongestStreak uint32 `json:"longest_streak"`
	LastVoteAt    int64  `json:"last_vote_at"`
	Score         uint64 `json:"score"`
	Tier          string `json:"tier"`
	TierOrdinal   uint8  `json:"tier_ordinal"`
}

type ReputationResponse struct {
	Status string        `json:"status"`
	Data   ReputationDTO `json:"data"`
}
