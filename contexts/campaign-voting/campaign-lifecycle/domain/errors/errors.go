package errors

import "errors"

var (
	// Validation.
	ErrTitleTooLong           = errors.New("title too long (max 100 characters)")
	ErrDescriptionTooLong     = errors.New("description too long (max 500 characters)")
	ErrNotEnoughOptions       = errors.New("need at least 2 options")
	ErrTooManyOptions         = errors.New("maximum 10 options allowed")
	ErrOptionTooLong          = errors.New("option label too long (max 100 characters)")
	ErrInvalidPrize           = errors.New("invalid prize amount")
	ErrInvalidParticipants    = errors.New("invalid number of participants")
	ErrParticipantCapExceeded = errors.New("participant cap exceeds the storage allowance")
	ErrInvalidReputationTier  = errors.New("invalid minimum reputation tier")
	ErrInvalidCampaignID      = errors.New("invalid campaign id")
	ErrInvalidActor           = errors.New("invalid caller identity")

	// State.
	ErrCampaignNotFound      = errors.New("campaign not found")
	ErrCampaignAlreadyExists = errors.New("campaign already exists")
	ErrCampaignNotActive     = errors.New("campaign is not active")
	ErrCampaignExpired       = errors.New("campaign has expired")
	ErrCampaignFull          = errors.New("campaign is full")
	ErrCampaignStillActive   = errors.New("campaign is still active")
	ErrCampaignHasVotes      = errors.New("campaign already has votes, cannot cancel")

	// Eligibility and authorization.
	ErrUnauthorized           = errors.New("caller is not the campaign creator")
	ErrCreatorCannotVote      = errors.New("creator cannot vote on own campaign")
	ErrInsufficientReputation = errors.New("insufficient reputation tier")

	// Voting.
	ErrInvalidChoice   = errors.New("invalid choice")
	ErrVoteAlreadyCast = errors.New("vote already cast for this campaign")

	// Economic.
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCounterOverflow   = errors.New("campaign counter overflow")
)
