package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	campaignlifecycle "pollvault/contexts/campaign-voting/campaign-lifecycle"
	"pollvault/internal/platform/ledger"
)

func newTestServer(t *testing.T) (*Server, *ledger.Memory) {
	t.Helper()
	funds := ledger.NewMemory()
	campaigns, treasury, reputation := campaignlifecycle.NewInMemoryModule(funds, nil)
	return New(campaigns, treasury, reputation, funds, nil, ""), funds
}

func doJSON(t *testing.T, handler http.Handler, method string, path string, actorID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if actorID != "" {
		req.Header.Set("X-Actor-ID", actorID)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServerRejectsMissingActorHeader(t *testing.T) {
	server, _ := newTestServer(t)
	rec := doJSON(t, server.Handler(), http.MethodPost, "/v1/campaigns", "", map[string]any{})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestServerCampaignRoutesEndToEnd(t *testing.T) {
	server, funds := newTestServer(t)
	mux := server.Handler()

	rec := doJSON(t, mux, http.MethodPost, "/v1/platform/initialize", "authority-1", map[string]any{"fee_bps": 500})
	if rec.Code != http.StatusCreated {
		t.Fatalf("initialize: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if err := funds.Deposit(context.Background(), "creator-1", 1000); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	rec = doJSON(t, mux, http.MethodPost, "/v1/campaigns", "creator-1", map[string]any{
		"campaign_id":      "camp-http-1",
		"title":            "Transport poll",
		"description":      "Pick one",
		"options":          []string{"grpc", "rest"},
		"reward":           1000,
		"max_participants": 2,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, mux, http.MethodPost, "/v1/campaigns/camp-http-1/votes", "voter-1", map[string]any{"choice": 0})
	if rec.Code != http.StatusCreated {
		t.Fatalf("vote: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, mux, http.MethodPost, "/v1/campaigns/camp-http-1/votes", "voter-1", map[string]any{"choice": 1})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate vote: expected 409, got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/v1/campaigns/camp-http-1/votes", "creator-1", map[string]any{"choice": 0})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("creator vote: expected 403, got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/v1/campaigns/camp-http-1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}
	var campaignResp struct {
		Data struct {
			TotalVotes    uint64 `json:"total_votes"`
			EscrowBalance uint64 `json:"escrow_balance"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &campaignResp); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if campaignResp.Data.TotalVotes != 1 || campaignResp.Data.EscrowBalance != 475 {
		t.Fatalf("unexpected campaign view: %+v", campaignResp.Data)
	}

	rec = doJSON(t, mux, http.MethodGet, "/v1/ledger/accounts/voter-1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ledger: expected 200, got %d", rec.Code)
	}
	var ledgerResp struct {
		Data struct {
			Balance uint64 `json:"balance"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &ledgerResp); err != nil {
		t.Fatalf("decode ledger response: %v", err)
	}
	if ledgerResp.Data.Balance != 475 {
		t.Fatalf("voter should hold the payout, got %d", ledgerResp.Data.Balance)
	}

	rec = doJSON(t, mux, http.MethodGet, "/v1/reputation/voter-1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reputation: expected 200, got %d", rec.Code)
	}
}

func TestServerPlatformRouteMapsDomainErrors(t *testing.T) {
	server, _ := newTestServer(t)
	mux := server.Handler()

	rec := doJSON(t, mux, http.MethodGet, "/v1/platform", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("uninitialized platform: expected 404, got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/v1/platform/initialize", "authority-1", map[string]any{"fee_bps": 1000})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("fee at 10%%: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/v1/platform/initialize", "authority-1", map[string]any{"fee_bps": 500})
	if rec.Code != http.StatusCreated {
		t.Fatalf("initialize: expected 201, got %d", rec.Code)
	}
	rec = doJSON(t, mux, http.MethodPost, "/v1/platform/initialize", "authority-2", map[string]any{"fee_bps": 250})
	if rec.Code != http.StatusConflict {
		t.Fatalf("second initialize: expected 409, got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/v1/platform/fees/withdraw", "intruder-1", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign withdraw: expected 403, got %d", rec.Code)
	}
}
