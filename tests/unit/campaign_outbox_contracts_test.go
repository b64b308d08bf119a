package unit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	eventsv1 "pollvault/contracts/gen/events/v1"
	campaignlifecycle "pollvault/contexts/campaign-voting/campaign-lifecycle"
	"pollvault/contexts/campaign-voting/campaign-lifecycle/application/workers"
	"pollvault/contexts/campaign-voting/campaign-lifecycle/ports"
	campaignhttp "pollvault/contexts/campaign-voting/campaign-lifecycle/transport/http"
	"pollvault/internal/platform/ledger"
	"pollvault/internal/platform/messaging"
)

func seedOneCampaignWithVote(t *testing.T) (campaignlifecycle.Module, *ledger.Memory) {
	t.Helper()
	funds := ledger.NewMemory()
	campaigns, treasury, _ := campaignlifecycle.NewInMemoryModule(funds, nil)
	ctx := context.Background()

	if _, err := treasury.Service.InitializePlatform(ctx, "authority-1", 500); err != nil {
		t.Fatalf("platform initialize failed: %v", err)
	}
	if err := funds.Deposit(ctx, "creator-1", 1000); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := campaigns.Handler.CreateCampaignHandler(ctx, "creator-1", campaignhttp.CreateCampaignRequest{
		CampaignID:      "camp-outbox-1",
		Title:           "Event sourcing",
		Description:     "For or against",
		Options:         []string{"for", "against"},
		Reward:          1000,
		MaxParticipants: 2,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := campaigns.Handler.SubmitVoteHandler(ctx, "camp-outbox-1", "voter-1", campaignhttp.SubmitVoteRequest{Choice: 0}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	return campaigns, funds
}

func TestCampaignOutboxPayloadsMatchCanonicalEnvelope(t *testing.T) {
	campaigns, _ := seedOneCampaignWithVote(t)

	pending, err := campaigns.Store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected campaign.created and campaign.vote_recorded, got %d rows", len(pending))
	}

	for _, row := range pending {
		var envelope eventsv1.Envelope
		if err := json.Unmarshal(row.Payload, &envelope); err != nil {
			t.Fatalf("outbox payload is not a canonical envelope: %v", err)
		}
		if envelope.SourceService != "campaign-lifecycle" {
			t.Fatalf("wrong source service %q", envelope.SourceService)
		}
		if envelope.PartitionKeyPath != "campaign_id" || envelope.PartitionKey != "camp-outbox-1" {
			t.Fatalf("events must partition by campaign: %+v", envelope)
		}
		if envelope.SchemaVersion != 1 || envelope.EventID == "" {
			t.Fatalf("envelope metadata incomplete: %+v", envelope)
		}
	}
}

func TestCampaignOutboxRelayPublishesAndMarksRows(t *testing.T) {
	campaigns, _ := seedOneCampaignWithVote(t)
	ctx := context.Background()

	bus, err := messaging.NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("bus construction failed: %v", err)
	}
	received := make(chan ports.EventEnvelope, 4)
	if err := bus.Subscribe(ctx, "campaign.created", "relay-test-cg", func(_ context.Context, event ports.EventEnvelope) error {
		received <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	relay := workers.OutboxRelay{
		Outbox:    campaigns.Store,
		Publisher: bus,
		Clock:     campaigns.Store,
		BatchSize: 10,
	}
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}

	select {
	case event := <-received:
		if event.EventType != "campaign.created" {
			t.Fatalf("unexpected event type %q", event.EventType)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("campaign.created never reached the bus")
	}

	pending, err := campaigns.Store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("relay should mark all rows published, %d still pending", len(pending))
	}
}
