package server

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agentbet/gopredict/chain/client"
	"github.com/agentbet/gopredict/chain/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

type submissionResponse struct {
	Hash  string `json:"hash"`
	State string `json:"state"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

// statusFor maps interaction-layer errors onto HTTP statuses: caller
// mistakes are 400, submission refusals and node trouble are 502.
func statusFor(err error) int {
	var mismatch *client.ArgumentTypeMismatchError
	var rejected *client.SubmissionRejectedError
	switch {
	case errors.Is(err, client.ErrInvalidAmount),
		errors.Is(err, client.ErrUnexpectedValue),
		errors.Is(err, client.ErrUnknownFunction),
		errors.As(err, &mismatch):
		return http.StatusBadRequest
	case errors.As(err, &rejected),
		errors.Is(err, client.ErrLedgerUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, client.ErrReverted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	s.requestLog(c).WithError(err).Warn("request failed")
	writeError(c, statusFor(err), err.Error())
}

func (s *Server) submitted(c *gin.Context, handle *client.TransactionHandle) {
	c.JSON(http.StatusAccepted, submissionResponse{
		Hash:  handle.Hash().Hex(),
		State: string(types.TxStateSubmitted),
	})
}

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		return 50
	}
	return limit
}

// agentView is the JSON shape of one registered agent.
type agentView struct {
	ID           string `json:"id"`
	Creator      string `json:"creator"`
	Name         string `json:"name"`
	MetadataURI  string `json:"metadata_uri"`
	TotalStaked  string `json:"total_staked"`
	SponsorCount string `json:"sponsor_count"`
	Reputation   string `json:"reputation"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
}

func toAgentView(a *types.Agent) agentView {
	return agentView{
		ID:           a.Id.String(),
		Creator:      a.Creator.Hex(),
		Name:         a.Name,
		MetadataURI:  a.MetadataURI,
		TotalStaked:  client.ToDisplayUnits(a.TotalStaked),
		SponsorCount: a.SponsorCount.String(),
		Reputation:   a.Reputation.String(),
		IsActive:     a.IsActive,
		CreatedAt:    a.CreatedAt.String(),
	}
}

type registerAgentRequest struct {
	Name        string `json:"name" binding:"required"`
	MetadataURI string `json:"metadata_uri"`
	Stake       string `json:"stake" binding:"required"`
}

func (s *Server) handleAgentRegister(c *gin.Context) {
	var req registerAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body: "+err.Error())
		return
	}
	handle, err := s.chain.AgentRegistry.RegisterAgent(c.Request.Context(),
		req.Name, req.MetadataURI, req.Stake)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.submitted(c, handle)
}

type sponsorAgentRequest struct {
	Amount string `json:"amount" binding:"required"`
}

func (s *Server) handleAgentSponsor(c *gin.Context) {
	agentID, ok := pathID(c, "agentID")
	if !ok {
		return
	}
	var req sponsorAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body: "+err.Error())
		return
	}
	handle, err := s.chain.AgentRegistry.SponsorAgent(c.Request.Context(), agentID, req.Amount)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.submitted(c, handle)
}

func (s *Server) handleAgentGet(c *gin.Context) {
	agentID, ok := pathID(c, "agentID")
	if !ok {
		return
	}
	agent, err := s.chain.AgentRegistry.GetAgent(c.Request.Context(), agentID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toAgentView(agent))
}

func (s *Server) handleAgentsList(c *gin.Context) {
	agents, err := s.chain.AgentRegistry.ListAgents(c.Request.Context(), queryLimit(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	views := make([]agentView, 0, len(agents))
	for _, a := range agents {
		views = append(views, toAgentView(a))
	}
	c.JSON(http.StatusOK, gin.H{"agents": views})
}

func (s *Server) handleAgentProfile(c *gin.Context) {
	if s.metadata == nil {
		writeError(c, http.StatusServiceUnavailable, "metadata fetching not configured")
		return
	}
	agentID, ok := pathID(c, "agentID")
	if !ok {
		return
	}
	agent, err := s.chain.AgentRegistry.GetAgent(c.Request.Context(), agentID)
	if err != nil {
		s.fail(c, err)
		return
	}
	profile, err := s.metadata.Fetch(c.Request.Context(), agent.MetadataURI)
	if err != nil {
		writeError(c, http.StatusBadGateway, err.Error())
		return
	}
	c.JSON(http.StatusOK, profile)
}

// marketView is the JSON shape of one market.
type marketView struct {
	ID             string `json:"id"`
	AgentID        string `json:"agent_id"`
	Creator        string `json:"creator"`
	Question       string `json:"question"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	OutcomeCount   string `json:"outcome_count"`
	TotalVolume    string `json:"total_volume"`
	CreatedAt      string `json:"created_at"`
	Deadline       string `json:"deadline"`
	IsResolved     bool   `json:"is_resolved"`
	WinningOutcome string `json:"winning_outcome"`
}

func toMarketView(m *types.Market) marketView {
	return marketView{
		ID:             m.Id.String(),
		AgentID:        m.AgentId.String(),
		Creator:        m.Creator.Hex(),
		Question:       m.Question,
		Description:    m.Description,
		Category:       types.Category(m.Category).Label(),
		OutcomeCount:   m.OutcomeCount.String(),
		TotalVolume:    client.ToDisplayUnits(m.TotalVolume),
		CreatedAt:      m.CreatedAt.String(),
		Deadline:       m.Deadline.String(),
		IsResolved:     m.IsResolved,
		WinningOutcome: m.WinningOutcome.String(),
	}
}

type createMarketRequest struct {
	AgentID      uint64   `json:"agent_id"`
	Question     string   `json:"question" binding:"required"`
	Description  string   `json:"description"`
	Category     uint8    `json:"category"`
	Outcomes     []string `json:"outcomes" binding:"required"`
	DurationDays uint64   `json:"duration_days" binding:"required"`
}

func (s *Server) handleMarketCreate(c *gin.Context) {
	var req createMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body: "+err.Error())
		return
	}
	handle, err := s.chain.MarketFactory.CreateMarket(c.Request.Context(), client.CreateMarketParams{
		AgentID:      req.AgentID,
		Question:     req.Question,
		Description:  req.Description,
		Category:     types.Category(req.Category),
		Outcomes:     req.Outcomes,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.submitted(c, handle)
}

func (s *Server) handleMarketGet(c *gin.Context) {
	marketID, ok := pathID(c, "marketID")
	if !ok {
		return
	}
	market, err := s.chain.MarketFactory.GetMarket(c.Request.Context(), marketID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toMarketView(market))
}

func (s *Server) handleMarketsList(c *gin.Context) {
	markets, err := s.chain.MarketFactory.ListMarkets(c.Request.Context(), queryLimit(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	views := make([]marketView, 0, len(markets))
	for _, m := range markets {
		views = append(views, toMarketView(m))
	}
	c.JSON(http.StatusOK, gin.H{"markets": views})
}

func (s *Server) handleMarketOdds(c *gin.Context) {
	marketID, ok := pathID(c, "marketID")
	if !ok {
		return
	}
	outcome, err := strconv.ParseUint(c.Query("outcome"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid outcome")
		return
	}
	amount := c.Query("amount")
	if amount == "" {
		writeError(c, http.StatusBadRequest, "amount is required")
		return
	}
	payout, err := s.chain.BettingEngine.GetOdds(c.Request.Context(), marketID, outcome, amount)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"market_id":     strconv.FormatUint(marketID, 10),
		"outcome_index": strconv.FormatUint(outcome, 10),
		"bet_amount":    amount,
		"payout":        client.ToDisplayUnits(payout),
	})
}

type placeBetRequest struct {
	OutcomeIndex uint64 `json:"outcome_index"`
	Amount       string `json:"amount" binding:"required"`
	MinPayout    string `json:"min_payout"`
}

func (s *Server) handleBetPlace(c *gin.Context) {
	marketID, ok := pathID(c, "marketID")
	if !ok {
		return
	}
	var req placeBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body: "+err.Error())
		return
	}
	handle, err := s.chain.BettingEngine.PlaceBet(c.Request.Context(),
		marketID, req.OutcomeIndex, req.Amount, req.MinPayout)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.submitted(c, handle)
}

func (s *Server) handleClaim(c *gin.Context) {
	marketID, ok := pathID(c, "marketID")
	if !ok {
		return
	}
	handle, err := s.chain.BettingEngine.ClaimWinnings(c.Request.Context(), marketID)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.submitted(c, handle)
}

type resolveMarketRequest struct {
	WinningOutcome uint64 `json:"winning_outcome"`
}

func (s *Server) handleResolve(c *gin.Context) {
	marketID, ok := pathID(c, "marketID")
	if !ok {
		return
	}
	var req resolveMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body: "+err.Error())
		return
	}
	handle, err := s.chain.OracleResolver.ResolveMarket(c.Request.Context(),
		marketID, req.WinningOutcome)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.submitted(c, handle)
}

func (s *Server) handleResolutionGet(c *gin.Context) {
	marketID, ok := pathID(c, "marketID")
	if !ok {
		return
	}
	res, err := s.chain.OracleResolver.GetResolution(c.Request.Context(), marketID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"market_id":       res.MarketId.String(),
		"winning_outcome": res.WinningOutcome.String(),
		"resolved_at":     res.ResolvedAt.String(),
		"resolved":        res.Resolved,
	})
}

func (s *Server) handleTreasury(c *gin.Context) {
	totals, err := s.chain.Treasury.Totals(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"protocol_treasury": client.ToDisplayUnits(totals.ProtocolTreasury),
		"total_distributed": client.ToDisplayUnits(totals.TotalDistributed),
	})
}

func (s *Server) handleTxList(c *gin.Context) {
	if s.journal == nil {
		writeError(c, http.StatusServiceUnavailable, "journal not configured")
		return
	}
	entries, err := s.journal.List(c.Request.Context(), queryLimit(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": entries})
}

func (s *Server) handleTxGet(c *gin.Context) {
	if s.journal == nil {
		writeError(c, http.StatusServiceUnavailable, "journal not configured")
		return
	}
	entry, err := s.journal.Get(c.Request.Context(), c.Param("hash"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(c, http.StatusNotFound, "unknown transaction")
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}
