package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	campaignlifecycle "pollvault/contexts/campaign-voting/campaign-lifecycle"
	campaignerrors "pollvault/contexts/campaign-voting/campaign-lifecycle/domain/errors"
	campaignports "pollvault/contexts/campaign-voting/campaign-lifecycle/ports"
	campaignhttp "pollvault/contexts/campaign-voting/campaign-lifecycle/transport/http"
	reputationengine "pollvault/contexts/community-experience/reputation-engine"
	reputationerrors "pollvault/contexts/community-experience/reputation-engine/domain/errors"
	reputationhttp "pollvault/contexts/community-experience/reputation-engine/transport/http"
	treasuryservice "pollvault/contexts/finance-core/treasury-service"
	treasuryerrors "pollvault/contexts/finance-core/treasury-service/domain/errors"
	treasuryhttp "pollvault/contexts/finance-core/treasury-service/transport/http"
	"pollvault/internal/shared/economics"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "pollvault/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	campaigns  campaignlifecycle.Module
	treasury   treasuryservice.Module
	reputation reputationengine.Module
	funds      campaignports.Ledger
}

func New(
	campaigns campaignlifecycle.Module,
	treasury treasuryservice.Module,
	reputation reputationengine.Module,
	funds campaignports.Ledger,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		campaigns:  campaigns,
		treasury:   treasury,
		reputation: reputation,
		funds:      funds,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routed mux, for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/platform/initialize", s.handleInitializePlatform)
	s.mux.HandleFunc("GET /v1/platform", s.handleGetPlatform)
	s.mux.HandleFunc("POST /v1/platform/fees/withdraw", s.handleWithdrawFees)

	s.mux.HandleFunc("POST /v1/campaigns", s.handleCreateCampaign)
	s.mux.HandleFunc("GET /v1/campaigns", s.handleListCampaigns)
	s.mux.HandleFunc("GET /v1/campaigns/{campaign_id}", s.handleGetCampaign)
	s.mux.HandleFunc("POST /v1/campaigns/{campaign_id}/votes", s.handleSubmitVote)
	s.mux.HandleFunc("POST /v1/campaigns/{campaign_id}/cancel", s.handleCancelCampaign)
	s.mux.HandleFunc("POST /v1/campaigns/{campaign_id}/close", s.handleCloseCampaign)

	s.mux.HandleFunc("GET /v1/reputation/{user_id}", s.handleGetReputation)
	s.mux.HandleFunc("GET /v1/ledger/accounts/{account_id}", s.handleGetLedgerAccount)
}

func (s *Server) handleInitializePlatform(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeTreasuryError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-ID header is required")
		return
	}
	var req treasuryhttp.InitializePlatformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTreasuryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.treasury.Handler.InitializePlatformHandler(r.Context(), actorID, req)
	if err != nil {
		writeTreasuryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetPlatform(w http.ResponseWriter, r *http.Request) {
	resp, err := s.treasury.Handler.GetPlatformHandler(r.Context())
	if err != nil {
		writeTreasuryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWithdrawFees(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeTreasuryError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-ID header is required")
		return
	}
	resp, err := s.treasury.Handler.WithdrawFeesHandler(r.Context(), actorID)
	if err != nil {
		writeTreasuryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeCampaignError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-ID header is required")
		return
	}
	var req campaignhttp.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.campaigns.Handler.CreateCampaignHandler(r.Context(), actorID, req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	activeOnly := query.Get("active") == "true"

	limit := 0
	if limitRaw := query.Get("limit"); limitRaw != "" {
		parsed, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeCampaignError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}
	offset := 0
	if offsetRaw := query.Get("offset"); offsetRaw != "" {
		parsed, err := strconv.Atoi(offsetRaw)
		if err != nil {
			writeCampaignError(w, http.StatusBadRequest, "invalid_offset", "offset must be an integer")
			return
		}
		offset = parsed
	}

	resp, err := s.campaigns.Handler.ListCampaignsHandler(r.Context(), activeOnly, limit, offset)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.GetCampaignHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitVote(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeCampaignError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-ID header is required")
		return
	}
	var req campaignhttp.SubmitVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.campaigns.Handler.SubmitVoteHandler(r.Context(), r.PathValue("campaign_id"), actorID, req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCancelCampaign(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeCampaignError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-ID header is required")
		return
	}
	resp, err := s.campaigns.Handler.CancelCampaignHandler(r.Context(), r.PathValue("campaign_id"), actorID)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseCampaign(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeCampaignError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-ID header is required")
		return
	}
	resp, err := s.campaigns.Handler.CloseCampaignHandler(r.Context(), r.PathValue("campaign_id"), actorID)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetReputation(w http.ResponseWriter, r *http.Request) {
	resp, err := s.reputation.Handler.GetReputationHandler(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetLedgerAccount(w http.ResponseWriter, r *http.Request) {
	accountID := strings.TrimSpace(r.PathValue("account_id"))
	if accountID == "" {
		writeCampaignError(w, http.StatusBadRequest, "invalid_account", "account id is required")
		return
	}
	balance, err := s.funds.Balance(r.Context(), accountID)
	if err != nil {
		writeCampaignError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"data": map[string]any{
			"account_id": accountID,
			"balance":    balance,
		},
	})
}

func writeCampaignDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, campaignerrors.ErrCampaignNotFound):
		writeCampaignError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	case errors.Is(err, campaignerrors.ErrCampaignAlreadyExists):
		writeCampaignError(w, http.StatusConflict, "campaign_already_exists", err.Error())
	case errors.Is(err, campaignerrors.ErrVoteAlreadyCast):
		writeCampaignError(w, http.StatusConflict, "vote_already_cast", err.Error())
	case errors.Is(err, campaignerrors.ErrCampaignHasVotes):
		writeCampaignError(w, http.StatusConflict, "campaign_has_votes", err.Error())
	case errors.Is(err, campaignerrors.ErrCampaignNotActive),
		errors.Is(err, campaignerrors.ErrCampaignExpired),
		errors.Is(err, campaignerrors.ErrCampaignFull),
		errors.Is(err, campaignerrors.ErrCampaignStillActive):
		writeCampaignError(w, http.StatusConflict, "campaign_state", err.Error())
	case errors.Is(err, campaignerrors.ErrUnauthorized):
		writeCampaignError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, campaignerrors.ErrCreatorCannotVote),
		errors.Is(err, campaignerrors.ErrInsufficientReputation):
		writeCampaignError(w, http.StatusForbidden, "vote_not_allowed", err.Error())
	case errors.Is(err, campaignerrors.ErrInsufficientFunds):
		writeCampaignError(w, http.StatusUnprocessableEntity, "insufficient_funds", err.Error())
	case errors.Is(err, economics.ErrRewardTooSmall),
		errors.Is(err, economics.ErrArithmeticOverflow):
		writeCampaignError(w, http.StatusUnprocessableEntity, "reward_not_splittable", err.Error())
	case errors.Is(err, campaignerrors.ErrTitleTooLong),
		errors.Is(err, campaignerrors.ErrDescriptionTooLong),
		errors.Is(err, campaignerrors.ErrNotEnoughOptions),
		errors.Is(err, campaignerrors.ErrTooManyOptions),
		errors.Is(err, campaignerrors.ErrOptionTooLong),
		errors.Is(err, campaignerrors.ErrInvalidPrize),
		errors.Is(err, campaignerrors.ErrInvalidParticipants),
		errors.Is(err, campaignerrors.ErrParticipantCapExceeded),
		errors.Is(err, campaignerrors.ErrInvalidReputationTier),
		errors.Is(err, campaignerrors.ErrInvalidCampaignID),
		errors.Is(err, campaignerrors.ErrInvalidActor),
		errors.Is(err, campaignerrors.ErrInvalidChoice),
		errors.Is(err, economics.ErrInvalidParticipants):
		writeCampaignError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, treasuryerrors.ErrPlatformNotInitialized):
		writeCampaignError(w, http.StatusConflict, "platform_not_initialized", err.Error())
	default:
		writeCampaignError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeTreasuryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, treasuryerrors.ErrPlatformNotInitialized):
		writeTreasuryError(w, http.StatusNotFound, "platform_not_initialized", err.Error())
	case errors.Is(err, treasuryerrors.ErrPlatformAlreadyInitialized):
		writeTreasuryError(w, http.StatusConflict, "platform_already_initialized", err.Error())
	case errors.Is(err, treasuryerrors.ErrFeeTooHigh),
		errors.Is(err, treasuryerrors.ErrInvalidAuthority):
		writeTreasuryError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, treasuryerrors.ErrUnauthorized):
		writeTreasuryError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, treasuryerrors.ErrInsufficientWithdrawableFunds):
		writeTreasuryError(w, http.StatusUnprocessableEntity, "insufficient_withdrawable_funds", err.Error())
	default:
		writeTreasuryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeReputationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reputationerrors.ErrInvalidUser):
		writeReputationError(w, http.StatusBadRequest, "invalid_user", err.Error())
	default:
		writeReputationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCampaignError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, campaignhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeTreasuryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, treasuryhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeReputationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, reputationhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func resolveActorID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Actor-ID"))
}
