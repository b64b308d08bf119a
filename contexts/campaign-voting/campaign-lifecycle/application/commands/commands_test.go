package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"pollvault/contexts/campaign-voting/campaign-lifecycle/adapters/memory"
	"pollvault/contexts/campaign-voting/campaign-lifecycle/domain/entities"
	domainerrors "pollvault/contexts/campaign-voting/campaign-lifecycle/domain/errors"
	reputationengine "pollvault/contexts/community-experience/reputation-engine"
	reputationentities "pollvault/contexts/community-experience/reputation-engine/domain/entities"
	treasuryservice "pollvault/contexts/finance-core/treasury-service"
	"pollvault/internal/platform/ledger"
	"pollvault/internal/shared/economics"
)

type fixture struct {
	uc         CampaignUseCase
	store      *memory.Store
	funds      *ledger.Memory
	treasury   treasuryservice.Module
	reputation reputationengine.Module
}

func newFixture(t *testing.T, feeBps uint16) fixture {
	t.Helper()
	funds := ledger.NewMemory()
	store := memory.NewStore()
	treasury := treasuryservice.NewInMemoryModule(funds, nil)
	reputation := reputationengine.NewInMemoryModule(nil)
	if _, err := treasury.Service.InitializePlatform(context.Background(), "authority-1", feeBps); err != nil {
		t.Fatalf("platform initialize failed: %v", err)
	}
	return fixture{
		uc: CampaignUseCase{
			Campaigns:  store,
			Votes:      store,
			Ledger:     funds,
			Platform:   treasury.Service,
			Reputation: reputation.Service,
			Outbox:     store,
			Atomic:     store,
			Clock:      store,
			IDGen:      store,
		},
		store:      store,
		funds:      funds,
		treasury:   treasury,
		reputation: reputation,
	}
}

func (f fixture) deposit(t *testing.T, account string, amount uint64) {
	t.Helper()
	if err := f.funds.Deposit(context.Background(), account, amount); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
}

func (f fixture) balance(t *testing.T, account string) uint64 {
	t.Helper()
	balance, err := f.funds.Balance(context.Background(), account)
	if err != nil {
		t.Fatalf("balance lookup failed: %v", err)
	}
	return balance
}

func (f fixture) createCampaign(t *testing.T, cmd CreateCampaignCommand) CreateCampaignResult {
	t.Helper()
	result, err := f.uc.CreateCampaign(context.Background(), cmd)
	if err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}
	return result
}

func baseCreateCommand(creatorID string) CreateCampaignCommand {
	return CreateCampaignCommand{
		CreatorID:       creatorID,
		Title:           "Favorite framework",
		Description:     "Pick one",
		Options:         []string{"compiled", "interpreted"},
		Reward:          1000,
		MaxParticipants: 2,
	}
}

func TestCreateCampaignSplitsFeeAndFundsEscrow(t *testing.T) {
	f := newFixture(t, 500)
	f.deposit(t, "creator-1", 1000)

	result := f.createCampaign(t, baseCreateCommand("creator-1"))
	if result.FeeCharged != 50 {
		t.Fatalf("expected fee 50, got %d", result.FeeCharged)
	}
	if result.Campaign.Reward != 950 {
		t.Fatalf("expected distributable 950, got %d", result.Campaign.Reward)
	}
	if result.Campaign.RewardPerParticipant != 475 {
		t.Fatalf("expected per-participant 475, got %d", result.Campaign.RewardPerParticipant)
	}

	escrow := ledger.CampaignEscrowAccount(result.Campaign.CampaignID)
	if got := f.balance(t, escrow); got != 950 {
		t.Fatalf("escrow should hold the distributable pool, got %d", got)
	}
	if got := f.balance(t, ledger.FeeCustodyAccount); got != 50 {
		t.Fatalf("fee custody should hold 50, got %d", got)
	}
	if got := f.balance(t, "creator-1"); got != 0 {
		t.Fatalf("creator should be fully debited, got %d", got)
	}

	cfg, err := f.treasury.Service.GetPlatform(context.Background())
	if err != nil {
		t.Fatalf("get platform failed: %v", err)
	}
	if cfg.TotalFeeCollected != 50 || cfg.TotalCampaigns != 1 {
		t.Fatalf("treasury counters not advanced: %+v", cfg)
	}
}

func TestCreateCampaignRejectsZeroShareBeforeFunding(t *testing.T) {
	f := newFixture(t, 500)
	f.deposit(t, "creator-1", 10)

	cmd := baseCreateCommand("creator-1")
	cmd.Reward = 10
	cmd.MaxParticipants = 20
	if _, err := f.uc.CreateCampaign(context.Background(), cmd); !errors.Is(err, economics.ErrRewardTooSmall) {
		t.Fatalf("expected ErrRewardTooSmall, got %v", err)
	}
	if got := f.balance(t, "creator-1"); got != 10 {
		t.Fatalf("rejected creation must not move funds, got %d", got)
	}
	if got := f.balance(t, ledger.FeeCustodyAccount); got != 0 {
		t.Fatalf("rejected creation must not collect a fee, got %d", got)
	}
}

func TestCreateCampaignRequiresCreatorFunds(t *testing.T) {
	f := newFixture(t, 500)
	f.deposit(t, "creator-1", 999)

	if _, err := f.uc.CreateCampaign(context.Background(), baseCreateCommand("creator-1")); !errors.Is(err, domainerrors.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestCreateCampaignRejectsDuplicateID(t *testing.T) {
	f := newFixture(t, 500)
	f.deposit(t, "creator-1", 2000)

	cmd := baseCreateCommand("creator-1")
	cmd.CampaignID = "camp-1"
	f.createCampaign(t, cmd)
	if _, err := f.uc.CreateCampaign(context.Background(), cmd); !errors.Is(err, domainerrors.ErrCampaignAlreadyExists) {
		t.Fatalf("expected ErrCampaignAlreadyExists, got %v", err)
	}
}

func TestSubmitVotePaysShareAndAdvancesReputation(t *testing.T) {
	f := newFixture(t, 500)
	f.deposit(t, "creator-1", 1000)
	created := f.createCampaign(t, baseCreateCommand("creator-1"))

	result, err := f.uc.SubmitVote(context.Background(), SubmitVoteCommand{
		CampaignID: created.Campaign.CampaignID,
		VoterID:    "voter-1",
		Choice:     0,
	})
	if err != nil {
		t.Fatalf("submit vote failed: %v", err)
	}
	if result.RewardPaid != 475 {
		t.Fatalf("expected payout 475, got %d", result.RewardPaid)
	}
	if result.CampaignCompleted {
		t.Fatal("first of two slots should not complete the campaign")
	}
	if got := f.balance(t, "voter-1"); got != 475 {
		t.Fatalf("voter balance should be 475, got %d", got)
	}

	campaign, err := f.store.GetCampaign(context.Background(), created.Campaign.CampaignID)
	if err != nil {
		t.Fatalf("get campaign failed: %v", err)
	}
	if campaign.TotalVotes != 1 || campaign.VoteCounts[0] != 1 || campaign.VoteCounts[1] != 0 {
		t.Fatalf("vote counters wrong: total=%d counts=%v", campaign.TotalVotes, campaign.VoteCounts)
	}

	rep, err := f.reputation.Service.GetReputation(context.Background(), "voter-1")
	if err != nil {
		t.Fatalf("get reputation failed: %v", err)
	}
	if rep.CurrentStreak != 1 || rep.Score != 10 || rep.TotalVotes != 1 {
		t.Fatalf("reputation not advanced: %+v", rep)
	}
}

func TestSubmitVoteRejectsDuplicateVoter(t *testing.T) {
	f := newFixture(t, 500)
	f.deposit(t, "creator-1", 1000)
	created := f.createCampaign(t, baseCreateCommand("creator-1"))

	cmd := SubmitVoteCommand{CampaignID: created.Campaign.CampaignID, VoterID: "voter-1", Choice: 0}
	if _, err := f.uc.SubmitVote(context.Background(), cmd); err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	cmd.Choice = 1
	if _, err := f.uc.SubmitVote(context.Background(), cmd); !errors.Is(err, domainerrors.ErrVoteAlreadyCast) {
		t.Fatalf("expected ErrVoteAlreadyCast, got %v", err)
	}
}

func TestSubmitVoteRejectsCreator(t *testing.T) {
	f := newFixture(t, 500)
	f.deposit(t, "creator-1", 1000)
	created := f.createCampaign(t, baseCreateCommand("creator-1"))

	if _, err := f.uc.SubmitVote(context.Background(), SubmitVoteCommand{
		CampaignID: created.Campaign.CampaignID,
		VoterID:    "creator-1",
		Choice:     0,
	}); !errors.Is(err, domainerrors.ErrCreatorCannotVote) {
		t.Fatalf("expected ErrCreatorCannotVote, got %v", err)
	}
}

func TestSubmitVoteRejectsInvalidChoice(t *testing.T) {
	f := newFixture(t, 500)
	f.deposit(t, "creator-1", 1000)
	created := f.createCampaign(t, baseCreateCommand("creator-1"))

	if _, err := f.uc.SubmitVote(context.Background(), SubmitVoteCommand{
		CampaignID: created.Campaign.CampaignID,
		VoterID:    "voter-1",
		Choice:     2,
	}); !errors.Is(err, domainerrors.ErrInvalidChoice) {
		t.Fatalf("expected ErrInvalidChoice, got %v", err)
	}
}

func TestSubmitVoteEnforcesReputationFloor(t *testing.T) {
	f := newFixture(t, 500)
	f.deposit(t, "creator-1", 1000)
	cmd := baseCreateCommand("creator-1")
	cmd.MinReputation = 2
	created := f.createCampaign(t, cmd)

	if _, err := f.uc.SubmitVote(context.Background(), SubmitVoteCommand{
		CampaignID: created.Campaign.CampaignID,
		VoterID:    "newbie-1",
		Choice:     0,
	}); !errors.Is(err, domainerrors.ErrInsufficientReputation) {
		t.Fatalf("expected ErrInsufficientReputation, got %v", err)
	}

	f.reputation.Store.SeedReputation(reputationentities.UserReputation{
		UserID: "veteran-1",
		Score:  300,
		Tier:   reputationentities.TierVeteran,
	})
	if _, err := f.uc.SubmitVote(context.Background(), SubmitVoteCommand{
		CampaignID: created.Campaign.CampaignID,
		VoterID:    "veteran-1",
		Choice:     0,
	}); err != nil {
		t.Fatalf("veteran vote should pass the floor, got %v", err)
	}
}

func TestSubmitVoteFillingLastSlotDeactivates(t *testing.T) {
	f := newFixture(t, 500)
	f.deposit(t, "creator-1", 1000)
	created := f.createCampaign(t, baseCreateCommand("creator-1"))

	if _, err := f.uc.SubmitVote(context.Background(), SubmitVoteCommand{
		CampaignID: created.Campaign.CampaignID, VoterID: "voter-1", Choice: 0,
	}); err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	second, err := f.uc.SubmitVote(context.Background(), SubmitVoteCommand{
		CampaignID: created.Campaign.CampaignID, VoterID: "voter-2", Choice: 1,
	})
	if err != nil {
		t.Fatalf("second vote failed: %v", err)
	}
	if !second.CampaignCompleted {
		t.Fatal("filling the last slot should complete the campaign")
	}

	escrow := ledger.CampaignEscrowAccount(created.Campaign.CampaignID)
	if got := f.balance(t, escrow); got != 0 {
		t.Fatalf("even split should drain escrow, got %d", got)
	}

	if _, err := f.uc.SubmitVote(context.Background(), SubmitVoteCommand{
		CampaignID: created.Campaign.CampaignID, VoterID: "voter-3", Choice: 0,
	}); !errors.Is(err, domainerrors.ErrCampaignNotActive) {
		t.Fatalf("completed campaign should reject votes, got %v", err)
	}
}

func TestSubmitVotePastDeadlineDeactivates(t *testing.T) {
	f := newFixture(t, 500)
	f.deposit(t, "creator-1", 1000)
	cmd := baseCreateCommand("creator-1")
	cmd.EndDate = time.Now().UTC().Add(-time.Minute).Unix()
	created := f.createCampaign(t, cmd)

	if _, err := f.uc.SubmitVote(context.Background(), SubmitVoteCommand{
		CampaignID: created.Campaign.CampaignID, VoterID: "voter-1", Choice: 0,
	}); !errors.Is(err, domainerrors.ErrCampaignExpired) {
		t.Fatalf("expected ErrCampaignExpired, got %v", err)
	}

	campaign, err := f.store.GetCampaign(context.Background(), created.Campaign.CampaignID)
	if err != nil {
		t.Fatalf("get campaign failed: %v", err)
	}
	if campaign.Status != entities.CampaignStatusInactive {
		t.Fatalf("expiry should persist the deactivation, status %q", campaign.Status)
	}
	if got := f.balance(t, "voter-1"); got != 0 {
		t.Fatalf("expired vote must not pay out, got %d", got)
	}
}

func TestCancelCampaignRefundsDistributableOnly(t *testing.T) {
	f := newFixture(t, 500)
	f.deposit(t, "creator-1", 1000)
	created := f.createCampaign(t, baseCreateCommand("creator-1"))

	if _, err := f.uc.CancelCampaign(context.Background(), CancelCampaignCommand{
		CampaignID: created.Campaign.CampaignID,
		ActorID:    "someone-else",
	}); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	result, err := f.uc.CancelCampaign(context.Background(), CancelCampaignCommand{
		CampaignID: created.Campaign.CampaignID,
		ActorID:    "creator-1",
	})
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if result.Refunded != 950 {
		t.Fatalf("refund should exclude the fee, got %d", result.Refunded)
	}
	if got := f.balance(t, "creator-1"); got != 950 {
		t.Fatalf("creator should recover 950, got %d", got)
	}
	if got := f.balance(t, ledger.FeeCustodyAccount); got != 50 {
		t.Fatalf("fee is not refundable, got %d", got)
	}
}

func TestCancelCampaignRejectedAfterVotes(t *testing.T) {
	f := newFixture(t, 500)
	f.deposit(t, "creator-1", 1000)
	created := f.createCampaign(t, baseCreateCommand("creator-1"))
	if _, err := f.uc.SubmitVote(context.Background(), SubmitVoteCommand{
		CampaignID: created.Campaign.CampaignID, VoterID: "voter-1", Choice: 0,
	}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	if _, err := f.uc.CancelCampaign(context.Background(), CancelCampaignCommand{
		CampaignID: created.Campaign.CampaignID,
		ActorID:    "creator-1",
	}); !errors.Is(err, domainerrors.ErrCampaignHasVotes) {
		t.Fatalf("expected ErrCampaignHasVotes, got %v", err)
	}
}

func TestCloseCampaignSweepsDustToCustody(t *testing.T) {
	f := newFixture(t, 0)
	f.deposit(t, "creator-1", 1000)
	cmd := baseCreateCommand("creator-1")
	cmd.Options = []string{"a", "b", "c"}
	cmd.MaxParticipants = 3
	created := f.createCampaign(t, cmd)
	if created.Campaign.RewardPerParticipant != 333 {
		t.Fatalf("expected per-participant 333, got %d", created.Campaign.RewardPerParticipant)
	}

	for i, voter := range []string{"voter-1", "voter-2", "voter-3"} {
		if _, err := f.uc.SubmitVote(context.Background(), SubmitVoteCommand{
			CampaignID: created.Campaign.CampaignID, VoterID: voter, Choice: uint8(i),
		}); err != nil {
			t.Fatalf("vote %d failed: %v", i, err)
		}
	}

	result, err := f.uc.CloseCampaign(context.Background(), CloseCampaignCommand{
		CampaignID: created.Campaign.CampaignID,
		ActorID:    "creator-1",
	})
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if result.Swept != 1 {
		t.Fatalf("rounding dust of 1 should be swept, got %d", result.Swept)
	}
	if got := f.balance(t, ledger.FeeCustodyAccount); got != 1 {
		t.Fatalf("custody should hold the swept dust, got %d", got)
	}
	escrow := ledger.CampaignEscrowAccount(created.Campaign.CampaignID)
	if got := f.balance(t, escrow); got != 0 {
		t.Fatalf("escrow should be empty after close, got %d", got)
	}
}

func TestCancelCampaignAllowedAfterExpiry(t *testing.T) {
	f := newFixture(t, 500)
	f.deposit(t, "creator-1", 1000)
	cmd := baseCreateCommand("creator-1")
	cmd.EndDate = time.Now().UTC().Add(-time.Minute).Unix()
	created := f.createCampaign(t, cmd)

	if _, err := f.uc.SubmitVote(context.Background(), SubmitVoteCommand{
		CampaignID: created.Campaign.CampaignID, VoterID: "voter-1", Choice: 0,
	}); !errors.Is(err, domainerrors.ErrCampaignExpired) {
		t.Fatalf("expected ErrCampaignExpired, got %v", err)
	}

	result, err := f.uc.CancelCampaign(context.Background(), CancelCampaignCommand{
		CampaignID: created.Campaign.CampaignID,
		ActorID:    "creator-1",
	})
	if err != nil {
		t.Fatalf("zero-vote cancel after expiry failed: %v", err)
	}
	if result.Refunded != 950 {
		t.Fatalf("refund should be the full distributable pool, got %d", result.Refunded)
	}
	if got := f.balance(t, "creator-1"); got != 950 {
		t.Fatalf("creator should recover 950, got %d", got)
	}
	if got := f.balance(t, ledger.FeeCustodyAccount); got != 50 {
		t.Fatalf("custody should hold only the creation fee, got %d", got)
	}
}

func TestCloseCampaignAnyCallerMaySettle(t *testing.T) {
	f := newFixture(t, 500)
	f.deposit(t, "creator-1", 1000)
	created := f.createCampaign(t, baseCreateCommand("creator-1"))

	for i, voter := range []string{"voter-1", "voter-2"} {
		if _, err := f.uc.SubmitVote(context.Background(), SubmitVoteCommand{
			CampaignID: created.Campaign.CampaignID, VoterID: voter, Choice: uint8(i),
		}); err != nil {
			t.Fatalf("vote %d failed: %v", i, err)
		}
	}

	result, err := f.uc.CloseCampaign(context.Background(), CloseCampaignCommand{
		CampaignID: created.Campaign.CampaignID,
		ActorID:    "janitor-1",
	})
	if err != nil {
		t.Fatalf("settlement by a non-creator failed: %v", err)
	}
	if result.Swept != 0 {
		t.Fatalf("fully paid out campaign has nothing to sweep, got %d", result.Swept)
	}
}

func TestActorIdentitiesAreCaseSensitive(t *testing.T) {
	f := newFixture(t, 500)
	f.deposit(t, "Creator-1", 1000)
	created := f.createCampaign(t, baseCreateCommand("Creator-1"))

	// "creator-1" is a different account than "Creator-1".
	if _, err := f.uc.SubmitVote(context.Background(), SubmitVoteCommand{
		CampaignID: created.Campaign.CampaignID, VoterID: "creator-1", Choice: 0,
	}); err != nil {
		t.Fatalf("case-variant voter wrongly treated as the creator: %v", err)
	}

	if _, err := f.uc.CancelCampaign(context.Background(), CancelCampaignCommand{
		CampaignID: created.Campaign.CampaignID,
		ActorID:    "CREATOR-1",
	}); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("case-variant actor must not pass the creator check, got %v", err)
	}
}

func TestCloseCampaignRejectedWhileRunning(t *testing.T) {
	f := newFixture(t, 500)
	f.deposit(t, "creator-1", 1000)
	created := f.createCampaign(t, baseCreateCommand("creator-1"))

	if _, err := f.uc.CloseCampaign(context.Background(), CloseCampaignCommand{
		CampaignID: created.Campaign.CampaignID,
		ActorID:    "creator-1",
	}); !errors.Is(err, domainerrors.ErrCampaignStillActive) {
		t.Fatalf("expected ErrCampaignStillActive, got %v", err)
	}
}
