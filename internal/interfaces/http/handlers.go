package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/garyjia/claim-adjudication/internal/application/port"
	"github.com/garyjia/claim-adjudication/internal/application/service"
	"github.com/garyjia/claim-adjudication/internal/domain/claim"
)

// actorHeader carries the opaque identity of the operator on mutating routes.
const actorHeader = "X-Actor-ID"

// Handlers contains all HTTP request handlers
type Handlers struct {
	regService   service.RegistrationService
	reviewSvc    service.ReviewService
	confService  service.ConfirmationService
	claimService service.ClaimListService
	logger       Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	regService service.RegistrationService,
	reviewSvc service.ReviewService,
	confService service.ConfirmationService,
	claimService service.ClaimListService,
	logger Logger,
) *Handlers {
	return &Handlers{
		regService:   regService,
		reviewSvc:    reviewSvc,
		confService:  confService,
		claimService: claimService,
		logger:       logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success    bool                   `json:"success"`
	Data       interface{}            `json:"data,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Violations []claim.FieldViolation `json:"violations,omitempty"`
	Retryable  bool                   `json:"retryable,omitempty"`
	Total      *int64                 `json:"total,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// respondError translates a domain error into a status code and envelope.
func (h *Handlers) respondError(c *gin.Context, err error) {
	var verr *claim.ValidationError
	var amErr *claim.AmountMismatchError
	var itErr *claim.InvalidTransitionError
	var imErr *claim.ImmutableStateError
	var depErr *claim.HasDependentsError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, Response{
			Success: false, Error: verr.Error(), Violations: verr.Violations,
		})
	case errors.As(err, &amErr):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: amErr.Error()})
	case errors.Is(err, claim.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case errors.As(err, &itErr), errors.As(err, &imErr), errors.As(err, &depErr):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.Is(err, claim.ErrConflict):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error(), Retryable: true})
	default:
		h.logger.Error("Request failed", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal error"})
	}
}

func (h *Handlers) ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// actor extracts the operator identity; mutating routes require it.
func (h *Handlers) actor(c *gin.Context) (string, bool) {
	actor := c.GetHeader(actorHeader)
	if actor == "" {
		c.JSON(http.StatusBadRequest, Response{
			Success: false, Error: actorHeader + " header is required",
		})
		return "", false
	}
	return actor, true
}

func (h *Handlers) pathID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *Handlers) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false, Error: "invalid request body: " + err.Error(),
		})
		return false
	}
	return true
}

// RegistrationRequest carries the creditor-supplied registration fields.
type RegistrationRequest struct {
	CaseID              string `json:"case_id"`
	Debtor              string `json:"debtor"`
	CreditorName        string `json:"creditor_name"`
	CreditorType        string `json:"creditor_type"`
	CreditCode          string `json:"credit_code"`
	LegalRepresentative string `json:"legal_representative"`
	AgentName           string `json:"agent_name"`
	AgentPhone          string `json:"agent_phone"`
	BankName            string `json:"bank_name"`
	BankAccount         string `json:"bank_account"`

	Principal   decimal.Decimal `json:"principal"`
	Interest    decimal.Decimal `json:"interest"`
	Penalty     decimal.Decimal `json:"penalty"`
	OtherLosses decimal.Decimal `json:"other_losses"`
	TotalAmount decimal.Decimal `json:"total_amount"`

	HasCourtJudgment bool `json:"has_court_judgment"`
	HasExecution     bool `json:"has_execution"`
	HasCollateral    bool `json:"has_collateral"`

	ClaimNature string `json:"claim_nature"`
	ClaimType   string `json:"claim_type"`
	ClaimFacts  string `json:"claim_facts"`

	EvidenceAttachments []string `json:"evidence_attachments"`

	RegistrationDeadline *time.Time `json:"registration_deadline"`
}

func (r RegistrationRequest) toInput() service.RegistrationInput {
	return service.RegistrationInput{
		CaseID:               r.CaseID,
		Debtor:               r.Debtor,
		CreditorName:         r.CreditorName,
		CreditorType:         r.CreditorType,
		CreditCode:           r.CreditCode,
		LegalRepresentative:  r.LegalRepresentative,
		AgentName:            r.AgentName,
		AgentPhone:           r.AgentPhone,
		BankName:             r.BankName,
		BankAccount:          r.BankAccount,
		Principal:            r.Principal,
		Interest:             r.Interest,
		Penalty:              r.Penalty,
		OtherLosses:          r.OtherLosses,
		TotalAmount:          r.TotalAmount,
		HasCourtJudgment:     r.HasCourtJudgment,
		HasExecution:         r.HasExecution,
		HasCollateral:        r.HasCollateral,
		ClaimNature:          r.ClaimNature,
		ClaimType:            r.ClaimType,
		ClaimFacts:           r.ClaimFacts,
		EvidenceAttachments:  r.EvidenceAttachments,
		RegistrationDeadline: r.RegistrationDeadline,
	}
}

// CreateRegistration handles POST /api/v1/registrations
func (h *Handlers) CreateRegistration(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req RegistrationRequest
	if !h.bind(c, &req) {
		return
	}

	reg, err := h.regService.Create(c.Request.Context(), actor, req.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: reg})
}

func listFilterFromQuery(c *gin.Context) port.ListFilter {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return port.ListFilter{
		CaseID:       c.Query("case_id"),
		Status:       c.Query("status"),
		CreditorName: c.Query("creditor_name"),
		Limit:        limit,
		Offset:       offset,
	}
}

// ListRegistrations handles GET /api/v1/registrations
func (h *Handlers) ListRegistrations(c *gin.Context) {
	regs, total, err := h.regService.List(c.Request.Context(), listFilterFromQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: regs, Total: &total})
}

// GetRegistration handles GET /api/v1/registrations/:id
func (h *Handlers) GetRegistration(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	reg, err := h.regService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, reg)
}

// UpdateRegistration handles PUT /api/v1/registrations/:id
func (h *Handlers) UpdateRegistration(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req RegistrationRequest
	if !h.bind(c, &req) {
		return
	}

	reg, err := h.regService.Update(c.Request.Context(), actor, id, req.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, reg)
}

// DeleteRegistration handles DELETE /api/v1/registrations/:id
func (h *Handlers) DeleteRegistration(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.regService.Delete(c.Request.Context(), actor, id); err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, gin.H{"deleted": id})
}

// MaterialRequest records receipt of claim material.
type MaterialRequest struct {
	Receiver     string `json:"material_receiver"`
	Completeness string `json:"material_completeness"`
}

// ReceiveMaterial handles POST /api/v1/registrations/:id/material
func (h *Handlers) ReceiveMaterial(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req MaterialRequest
	if !h.bind(c, &req) {
		return
	}

	reg, err := h.regService.ReceiveMaterial(c.Request.Context(), actor, id,
		req.Receiver, claim.MaterialCompleteness(req.Completeness))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, reg)
}

// StatusRequest drives the registration state machine.
type StatusRequest struct {
	Status       string `json:"registration_status"`
	RejectReason string `json:"reject_reason"`
}

// SetRegistrationStatus handles POST /api/v1/registrations/:id/status
func (h *Handlers) SetRegistrationStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req StatusRequest
	if !h.bind(c, &req) {
		return
	}

	reg, err := h.regService.SetStatus(c.Request.Context(), actor, id,
		claim.RegistrationStatus(req.Status), req.RejectReason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, reg)
}

// StartReview handles POST /api/v1/registrations/:id/reviews
func (h *Handlers) StartReview(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	rev, err := h.reviewSvc.Start(c.Request.Context(), actor, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: rev})
}

// ListReviews handles GET /api/v1/registrations/:id/reviews
func (h *Handlers) ListReviews(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	reviews, err := h.reviewSvc.ListByRegistration(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, reviews)
}

// GetReview handles GET /api/v1/reviews/:id
func (h *Handlers) GetReview(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	rev, err := h.reviewSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, rev)
}

// SubmitReviewRequest carries the reviewer's figures for one round.
type SubmitReviewRequest struct {
	Declared *claim.Amounts `json:"declared"`

	ConfirmedPrincipal   decimal.Decimal `json:"confirmed_principal"`
	ConfirmedInterest    decimal.Decimal `json:"confirmed_interest"`
	ConfirmedPenalty     decimal.Decimal `json:"confirmed_penalty"`
	ConfirmedOtherLosses decimal.Decimal `json:"confirmed_other_losses"`

	EvidenceAuthenticity string `json:"evidence_authenticity"`
	EvidenceRelevance    string `json:"evidence_relevance"`
	EvidenceLegality     string `json:"evidence_legality"`
	CollateralValidity   string `json:"collateral_validity"`

	UnconfirmedReason          string `json:"unconfirmed_reason"`
	InsufficientEvidenceReason string `json:"insufficient_evidence_reason"`

	Attachments []string `json:"attachments"`
}

// SubmitReview handles POST /api/v1/reviews/:id/submit
func (h *Handlers) SubmitReview(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req SubmitReviewRequest
	if !h.bind(c, &req) {
		return
	}

	rev, err := h.reviewSvc.Submit(c.Request.Context(), actor, id, service.SubmitReviewInput{
		Declared:                   req.Declared,
		ConfirmedPrincipal:         req.ConfirmedPrincipal,
		ConfirmedInterest:          req.ConfirmedInterest,
		ConfirmedPenalty:           req.ConfirmedPenalty,
		ConfirmedOtherLosses:       req.ConfirmedOtherLosses,
		EvidenceAuthenticity:       claim.EvidenceAuthenticity(req.EvidenceAuthenticity),
		EvidenceRelevance:          claim.EvidenceRelevance(req.EvidenceRelevance),
		EvidenceLegality:           claim.EvidenceLegality(req.EvidenceLegality),
		CollateralValidity:         claim.CollateralValidity(req.CollateralValidity),
		UnconfirmedReason:          req.UnconfirmedReason,
		InsufficientEvidenceReason: req.InsufficientEvidenceReason,
		Attachments:                req.Attachments,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, rev)
}

// SupplementRequest sends a round back for more material.
type SupplementRequest struct {
	Reason string `json:"insufficient_evidence_reason"`
}

// RequestSupplement handles POST /api/v1/reviews/:id/supplement
func (h *Handlers) RequestSupplement(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req SupplementRequest
	if !h.bind(c, &req) {
		return
	}

	rev, err := h.reviewSvc.RequestSupplement(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, rev)
}

// CreateConfirmationRequest opens a confirmation record against a meeting.
type CreateConfirmationRequest struct {
	MeetingType     string     `json:"meeting_type"`
	MeetingDate     *time.Time `json:"meeting_date"`
	MeetingLocation string     `json:"meeting_location"`
}

// CreateConfirmation handles POST /api/v1/registrations/:id/confirmations
func (h *Handlers) CreateConfirmation(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req CreateConfirmationRequest
	if !h.bind(c, &req) {
		return
	}

	conf, err := h.confService.Create(c.Request.Context(), actor, id, service.MeetingInput{
		MeetingType:     claim.MeetingType(req.MeetingType),
		MeetingDate:     req.MeetingDate,
		MeetingLocation: req.MeetingLocation,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: conf})
}

// ListConfirmations handles GET /api/v1/registrations/:id/confirmations
func (h *Handlers) ListConfirmations(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	confs, err := h.confService.ListByRegistration(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, confs)
}

// GetConfirmation handles GET /api/v1/confirmations/:id
func (h *Handlers) GetConfirmation(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	conf, err := h.confService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, conf)
}

// VoteRequest records the creditor-meeting vote.
type VoteRequest struct {
	VoteResult string `json:"vote_result"`
	VoteNotes  string `json:"vote_notes"`
}

// SubmitVote handles POST /api/v1/confirmations/:id/vote
func (h *Handlers) SubmitVote(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req VoteRequest
	if !h.bind(c, &req) {
		return
	}

	conf, err := h.confService.SubmitVote(c.Request.Context(), actor, id,
		claim.VoteResult(req.VoteResult), req.VoteNotes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, conf)
}

// ObjectionRequest files an objection against the proposed amount.
type ObjectionRequest struct {
	Objector string           `json:"objector"`
	Reason   string           `json:"objection_reason"`
	Amount   *decimal.Decimal `json:"objection_amount"`
	Date     *time.Time       `json:"objection_date"`
}

// FileObjection handles POST /api/v1/confirmations/:id/objection
func (h *Handlers) FileObjection(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req ObjectionRequest
	if !h.bind(c, &req) {
		return
	}

	conf, err := h.confService.FileObjection(c.Request.Context(), actor, id, service.ObjectionInput{
		Objector: req.Objector,
		Reason:   req.Reason,
		Amount:   req.Amount,
		Date:     req.Date,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, conf)
}

// NegotiationRequest records the outcome of objection negotiation.
type NegotiationRequest struct {
	Success      bool       `json:"success"`
	Result       string     `json:"negotiation_result"`
	Date         *time.Time `json:"negotiation_date"`
	Participants string     `json:"negotiation_participants"`
}

// ResolveNegotiation handles POST /api/v1/confirmations/:id/negotiation
func (h *Handlers) ResolveNegotiation(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req NegotiationRequest
	if !h.bind(c, &req) {
		return
	}

	conf, err := h.confService.ResolveNegotiation(c.Request.Context(), actor, id, service.NegotiationInput{
		Success:      req.Success,
		Result:       req.Result,
		Date:         req.Date,
		Participants: req.Participants,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, conf)
}

// EscalateToCourt handles POST /api/v1/confirmations/:id/court
func (h *Handlers) EscalateToCourt(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	conf, err := h.confService.EscalateToCourt(c.Request.Context(), actor, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, conf)
}

// RulingRequest enters a court ruling.
type RulingRequest struct {
	Date   *time.Time       `json:"court_ruling_date"`
	No     string           `json:"court_ruling_no"`
	Result string           `json:"court_ruling_result"`
	Amount *decimal.Decimal `json:"court_ruling_amount"`
	Notes  string           `json:"court_ruling_notes"`
}

// SubmitCourtRuling handles POST /api/v1/confirmations/:id/ruling
func (h *Handlers) SubmitCourtRuling(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req RulingRequest
	if !h.bind(c, &req) {
		return
	}

	conf, err := h.confService.SubmitCourtRuling(c.Request.Context(), actor, id, service.RulingInput{
		Date:   req.Date,
		No:     req.No,
		Result: claim.RulingResult(req.Result),
		Amount: req.Amount,
		Notes:  req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, conf)
}

// LawsuitRequest opens litigation over an unresolved objection.
type LawsuitRequest struct {
	CaseNo string `json:"lawsuit_case_no"`
}

// EscalateToLawsuit handles POST /api/v1/confirmations/:id/lawsuit
func (h *Handlers) EscalateToLawsuit(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req LawsuitRequest
	if !h.bind(c, &req) {
		return
	}

	conf, err := h.confService.EscalateToLawsuit(c.Request.Context(), actor, id, req.CaseNo)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, conf)
}

// LawsuitStatusRequest advances litigation one step.
type LawsuitStatusRequest struct {
	Status string           `json:"lawsuit_status"`
	Result string           `json:"lawsuit_result"`
	Amount *decimal.Decimal `json:"lawsuit_amount"`
}

// UpdateLawsuitStatus handles POST /api/v1/confirmations/:id/lawsuit/status
func (h *Handlers) UpdateLawsuitStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req LawsuitStatusRequest
	if !h.bind(c, &req) {
		return
	}

	conf, err := h.confService.UpdateLawsuitStatus(c.Request.Context(), actor, id,
		claim.LawsuitStatus(req.Status), claim.LawsuitResult(req.Result), req.Amount)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, conf)
}

// FinalizeRequest locks the confirmation.
type FinalizeRequest struct {
	Date time.Time `json:"final_confirmation_date"`
}

// Finalize handles POST /api/v1/confirmations/:id/finalize
func (h *Handlers) Finalize(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req FinalizeRequest
	if !h.bind(c, &req) {
		return
	}

	conf, err := h.confService.Finalize(c.Request.Context(), actor, id, req.Date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, conf)
}

// ListClaims handles GET /api/v1/claims
func (h *Handlers) ListClaims(c *gin.Context) {
	aggregates, total, err := h.claimService.List(c.Request.Context(), listFilterFromQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: aggregates, Total: &total})
}

// GetClaim handles GET /api/v1/claims/:id
func (h *Handlers) GetClaim(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	agg, err := h.claimService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, agg)
}
