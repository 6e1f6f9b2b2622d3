package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/garyjia/claim-adjudication/internal/application/dispatcher"
	"github.com/garyjia/claim-adjudication/internal/application/port"
	"github.com/garyjia/claim-adjudication/internal/domain/claim"
	"github.com/garyjia/claim-adjudication/internal/domain/event"
	"github.com/garyjia/claim-adjudication/internal/domain/ledger"
	"github.com/garyjia/claim-adjudication/internal/domain/workflow"
)

// MeetingInput carries the creditor-meeting fields for a new confirmation.
type MeetingInput struct {
	MeetingType     claim.MeetingType
	MeetingDate     *time.Time
	MeetingLocation string
}

// ObjectionInput carries a filed objection.
type ObjectionInput struct {
	Objector string
	Reason   string
	Amount   *decimal.Decimal
	Date     *time.Time
}

// NegotiationInput carries the outcome of objection negotiation.
type NegotiationInput struct {
	Success      bool
	Result       string
	Date         *time.Time
	Participants string
}

// RulingInput carries an entered court ruling.
type RulingInput struct {
	Date   *time.Time
	No     string
	Result claim.RulingResult
	Amount *decimal.Decimal
	Notes  string
}

// ConfirmationService manages the confirmation stage: meeting voting,
// objection, negotiation, court ruling, and lawsuit sub-flows, and the
// finalize action.
type ConfirmationService interface {
	Create(ctx context.Context, actor string, registrationID int64, meeting MeetingInput) (*claim.Confirmation, error)
	Get(ctx context.Context, id int64) (*claim.Confirmation, error)
	SubmitVote(ctx context.Context, actor string, id int64, vote claim.VoteResult, notes string) (*claim.Confirmation, error)
	FileObjection(ctx context.Context, actor string, id int64, input ObjectionInput) (*claim.Confirmation, error)
	ResolveNegotiation(ctx context.Context, actor string, id int64, input NegotiationInput) (*claim.Confirmation, error)
	EscalateToCourt(ctx context.Context, actor string, id int64) (*claim.Confirmation, error)
	SubmitCourtRuling(ctx context.Context, actor string, id int64, input RulingInput) (*claim.Confirmation, error)
	EscalateToLawsuit(ctx context.Context, actor string, id int64, caseNo string) (*claim.Confirmation, error)
	UpdateLawsuitStatus(ctx context.Context, actor string, id int64, status claim.LawsuitStatus, result claim.LawsuitResult, amount *decimal.Decimal) (*claim.Confirmation, error)
	Finalize(ctx context.Context, actor string, id int64, date time.Time) (*claim.Confirmation, error)
	ListByRegistration(ctx context.Context, registrationID int64) ([]*claim.Confirmation, error)
	Latest(ctx context.Context, registrationID int64) (*claim.Confirmation, error)
}

type confirmationServiceImpl struct {
	regRepo    port.RegistrationRepository
	reviewRepo port.ReviewRepository
	confRepo   port.ConfirmationRepository
	txManager  port.TransactionManager
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// NewConfirmationService creates a new ConfirmationService
func NewConfirmationService(
	regRepo port.RegistrationRepository,
	reviewRepo port.ReviewRepository,
	confRepo port.ConfirmationRepository,
	txManager port.TransactionManager,
	disp dispatcher.Dispatcher,
	logger Logger,
) ConfirmationService {
	return &confirmationServiceImpl{
		regRepo:    regRepo,
		reviewRepo: reviewRepo,
		confRepo:   confRepo,
		txManager:  txManager,
		dispatcher: disp,
		logger:     logger,
	}
}

// Create opens a confirmation record for a registration whose latest review
// round is COMPLETED. The reviewer's confirmed total seeds the meeting-proposed
// final amount.
func (s *confirmationServiceImpl) Create(ctx context.Context, actor string, registrationID int64, meeting MeetingInput) (*claim.Confirmation, error) {
	if !meeting.MeetingType.IsValid() {
		return nil, (&claim.ValidationError{}).Add("meeting_type", "must be one of FIRST, SECOND, TEMPORARY")
	}

	var conf *claim.Confirmation
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		reg, err := s.regRepo.GetByID(txCtx, registrationID)
		if err != nil {
			return err
		}
		if reg == nil {
			return fmt.Errorf("registration %d: %w", registrationID, claim.ErrNotFound)
		}

		review, err := s.reviewRepo.LatestCompleted(txCtx, registrationID)
		if err != nil {
			return err
		}
		if review == nil {
			return &claim.InvalidTransitionError{
				Entity: "confirmation", From: "", Action: "create_confirmation",
			}
		}

		now := time.Now()
		conf = &claim.Confirmation{
			ClaimRegistrationID:  registrationID,
			CaseID:               reg.CaseID,
			CreditorName:         reg.CreditorName,
			MeetingType:          meeting.MeetingType,
			MeetingDate:          meeting.MeetingDate,
			MeetingLocation:      meeting.MeetingLocation,
			FinalConfirmedAmount: review.Confirmed.Total,
			Status:               claim.ConfirmationPending,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		return s.confRepo.Create(txCtx, conf)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, event.New(event.TypeConfirmationCreated, "confirmation", conf.ID,
		"", conf.Status.String(), actor))

	s.logger.Info("Confirmation created",
		"id", conf.ID, "registration_id", registrationID)
	return conf, nil
}

// Get retrieves a confirmation by ID
func (s *confirmationServiceImpl) Get(ctx context.Context, id int64) (*claim.Confirmation, error) {
	conf, err := s.confRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conf == nil {
		return nil, fmt.Errorf("confirmation %d: %w", id, claim.ErrNotFound)
	}
	return conf, nil
}

// guardMutable rejects any mutation of a finalized record.
func guardMutable(conf *claim.Confirmation) error {
	if conf.Status.IsTerminal() {
		return &claim.ImmutableStateError{Entity: "confirmation", ID: conf.ID, Status: conf.Status.String()}
	}
	return nil
}

// SubmitVote records the creditor-meeting vote. A DISAGREE vote moves the
// record to OBJECTION and must be followed by FileObjection before the
// objection sub-flow can progress.
func (s *confirmationServiceImpl) SubmitVote(ctx context.Context, actor string, id int64, vote claim.VoteResult, notes string) (*claim.Confirmation, error) {
	if !vote.IsValid() {
		return nil, (&claim.ValidationError{}).Add("vote_result", "must be one of AGREE, DISAGREE, ABSTAIN")
	}

	conf, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guardMutable(conf); err != nil {
		return nil, err
	}
	if conf.Status != claim.ConfirmationPending {
		return nil, &claim.InvalidTransitionError{
			Entity: "confirmation", From: conf.Status.String(), Action: "submit_vote",
		}
	}

	from := conf.Status
	conf.VoteResult = vote
	conf.VoteNotes = notes
	if vote == claim.VoteDisagree {
		conf.Status = claim.ConfirmationObjection
	}
	conf.UpdatedAt = time.Now()

	if err := s.updateInTx(ctx, conf); err != nil {
		return nil, err
	}

	if conf.Status != from {
		s.emit(ctx, event.New(event.TypeConfirmationStatusChanged, "confirmation", conf.ID,
			from.String(), conf.Status.String(), actor).
			WithPayload("vote_result", string(vote)))
	}

	s.logger.Info("Vote recorded", "id", conf.ID, "vote", vote, "status", conf.Status)
	return conf, nil
}

// FileObjection records an objection from PENDING or OBJECTION, moving the
// record to OBJECTION.
func (s *confirmationServiceImpl) FileObjection(ctx context.Context, actor string, id int64, input ObjectionInput) (*claim.Confirmation, error) {
	verr := &claim.ValidationError{}
	if input.Objector == "" {
		verr.Add("objector", "is required")
	}
	if input.Reason == "" {
		verr.Add("objection_reason", "is required")
	}
	if input.Amount != nil && input.Amount.IsNegative() {
		verr.Add("objection_amount", "must not be negative")
	}
	if verr.HasViolations() {
		return nil, verr
	}

	conf, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guardMutable(conf); err != nil {
		return nil, err
	}

	from := conf.Status
	machine := claim.BuildConfirmationMachine(from)
	if err := machine.Fire(ctx, claim.TriggerObject); err != nil {
		return nil, &claim.InvalidTransitionError{
			Entity: "confirmation", From: from.String(), To: claim.ConfirmationObjection.String(), Action: "file_objection",
		}
	}

	now := time.Now()
	conf.HasObjection = true
	conf.Objector = input.Objector
	conf.ObjectionReason = input.Reason
	conf.ObjectionAmount = input.Amount
	conf.ObjectionDate = input.Date
	if conf.ObjectionDate == nil {
		conf.ObjectionDate = &now
	}
	conf.Status = claim.ConfirmationStatus(machine.State())
	conf.UpdatedAt = now

	if err := s.updateInTx(ctx, conf); err != nil {
		return nil, err
	}

	if conf.Status != from {
		s.emit(ctx, event.New(event.TypeConfirmationStatusChanged, "confirmation", conf.ID,
			from.String(), conf.Status.String(), actor))
	}

	s.logger.Info("Objection filed", "id", conf.ID, "objector", input.Objector)
	return conf, nil
}

// requireObjectionRecord rejects objection sub-flow progress when a DISAGREE
// vote was never followed by a filed objection.
func requireObjectionRecord(conf *claim.Confirmation) error {
	if !conf.HasObjection {
		return (&claim.ValidationError{}).Add("objection",
			"a DISAGREE vote requires a filed objection before the objection can be processed")
	}
	return nil
}

// ResolveNegotiation settles or fails a negotiation over a filed objection.
// Success returns the record to PENDING with settlement as the finalization
// basis candidate; failure leaves it in OBJECTION for escalation.
func (s *confirmationServiceImpl) ResolveNegotiation(ctx context.Context, actor string, id int64, input NegotiationInput) (*claim.Confirmation, error) {
	conf, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guardMutable(conf); err != nil {
		return nil, err
	}
	if conf.Status != claim.ConfirmationObjection {
		return nil, &claim.InvalidTransitionError{
			Entity: "confirmation", From: conf.Status.String(), Action: "resolve_negotiation",
		}
	}
	if err := requireObjectionRecord(conf); err != nil {
		return nil, err
	}

	from := conf.Status
	now := time.Now()
	conf.NegotiationResult = input.Result
	conf.NegotiationDate = input.Date
	if conf.NegotiationDate == nil {
		conf.NegotiationDate = &now
	}
	conf.NegotiationParticipants = input.Participants

	if input.Success {
		machine := claim.BuildConfirmationMachine(from)
		if err := machine.Fire(ctx, claim.TriggerResolveNegotiation); err != nil {
			return nil, &claim.InvalidTransitionError{
				Entity: "confirmation", From: from.String(), To: claim.ConfirmationPending.String(), Action: "resolve_negotiation",
			}
		}
		conf.Status = claim.ConfirmationStatus(machine.State())
		conf.FinalBasis = claim.BasisSettlement
	}
	conf.UpdatedAt = now

	if err := s.updateInTx(ctx, conf); err != nil {
		return nil, err
	}

	if conf.Status != from {
		s.emit(ctx, event.New(event.TypeConfirmationStatusChanged, "confirmation", conf.ID,
			from.String(), conf.Status.String(), actor).
			WithPayload("negotiation_success", input.Success))
	}

	s.logger.Info("Negotiation resolved",
		"id", conf.ID, "success", input.Success, "status", conf.Status)
	return conf, nil
}

// EscalateToCourt moves an unresolved objection to the court sub-flow.
func (s *confirmationServiceImpl) EscalateToCourt(ctx context.Context, actor string, id int64) (*claim.Confirmation, error) {
	return s.escalate(ctx, actor, id, claim.TriggerEscalateCourt, "escalate_to_court",
		func(conf *claim.Confirmation) {})
}

// EscalateToLawsuit opens litigation over an unresolved objection.
func (s *confirmationServiceImpl) EscalateToLawsuit(ctx context.Context, actor string, id int64, caseNo string) (*claim.Confirmation, error) {
	if caseNo == "" {
		return nil, (&claim.ValidationError{}).Add("lawsuit_case_no", "is required")
	}
	return s.escalate(ctx, actor, id, claim.TriggerEscalateLawsuit, "escalate_to_lawsuit",
		func(conf *claim.Confirmation) {
			conf.HasLawsuit = true
			conf.LawsuitCaseNo = caseNo
			conf.LawsuitStatus = claim.LawsuitPending
		})
}

func (s *confirmationServiceImpl) escalate(ctx context.Context, actor string, id int64, trigger workflow.Trigger, action string, apply func(*claim.Confirmation)) (*claim.Confirmation, error) {
	conf, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guardMutable(conf); err != nil {
		return nil, err
	}
	if conf.Status == claim.ConfirmationObjection {
		if err := requireObjectionRecord(conf); err != nil {
			return nil, err
		}
	}

	from := conf.Status
	machine := claim.BuildConfirmationMachine(from)
	if err := machine.Fire(ctx, trigger); err != nil {
		return nil, &claim.InvalidTransitionError{
			Entity: "confirmation", From: from.String(), Action: action,
		}
	}

	apply(conf)
	conf.Status = claim.ConfirmationStatus(machine.State())
	conf.UpdatedAt = time.Now()

	if err := s.updateInTx(ctx, conf); err != nil {
		return nil, err
	}

	s.emit(ctx, event.New(event.TypeConfirmationStatusChanged, "confirmation", conf.ID,
		from.String(), conf.Status.String(), actor))

	s.logger.Info("Confirmation escalated", "id", conf.ID, "action", action, "status", conf.Status)
	return conf, nil
}

// SubmitCourtRuling enters a ruling for a record in COURT, returning it to
// PENDING with the court as finalization basis.
func (s *confirmationServiceImpl) SubmitCourtRuling(ctx context.Context, actor string, id int64, input RulingInput) (*claim.Confirmation, error) {
	verr := &claim.ValidationError{}
	if input.No == "" {
		verr.Add("court_ruling_no", "is required")
	}
	if !input.Result.IsValid() {
		verr.Add("court_ruling_result", "must be one of CONFIRMED, PARTIAL_CONFIRMED, UNCONFIRMED")
	}
	if input.Amount != nil && input.Amount.IsNegative() {
		verr.Add("court_ruling_amount", "must not be negative")
	}
	if verr.HasViolations() {
		return nil, verr
	}

	conf, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guardMutable(conf); err != nil {
		return nil, err
	}

	from := conf.Status
	machine := claim.BuildConfirmationMachine(from)
	if err := machine.Fire(ctx, claim.TriggerEnterRuling); err != nil {
		return nil, &claim.InvalidTransitionError{
			Entity: "confirmation", From: from.String(), To: claim.ConfirmationPending.String(), Action: "submit_court_ruling",
		}
	}

	now := time.Now()
	conf.CourtRulingDate = input.Date
	if conf.CourtRulingDate == nil {
		conf.CourtRulingDate = &now
	}
	conf.CourtRulingNo = input.No
	conf.CourtRulingResult = input.Result
	conf.CourtRulingAmount = input.Amount
	conf.CourtRulingNotes = input.Notes
	conf.FinalBasis = claim.BasisCourt
	conf.Status = claim.ConfirmationStatus(machine.State())
	conf.UpdatedAt = now

	if err := s.updateInTx(ctx, conf); err != nil {
		return nil, err
	}

	s.emit(ctx, event.New(event.TypeConfirmationStatusChanged, "confirmation", conf.ID,
		from.String(), conf.Status.String(), actor).
		WithPayload("court_ruling_no", input.No))

	s.logger.Info("Court ruling entered", "id", conf.ID, "ruling_no", input.No)
	return conf, nil
}

// UpdateLawsuitStatus advances litigation one step at a time through
// PENDING, TRIALING, JUDGED, EXECUTING, COMPLETED. Reaching COMPLETED with a
// result returns the record to PENDING, eligible for finalize.
func (s *confirmationServiceImpl) UpdateLawsuitStatus(ctx context.Context, actor string, id int64, status claim.LawsuitStatus, result claim.LawsuitResult, amount *decimal.Decimal) (*claim.Confirmation, error) {
	if !status.IsValid() {
		return nil, (&claim.ValidationError{}).Add("lawsuit_status", "must be one of PENDING, TRIALING, JUDGED, EXECUTING, COMPLETED")
	}

	conf, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guardMutable(conf); err != nil {
		return nil, err
	}
	if conf.Status != claim.ConfirmationLawsuit {
		return nil, &claim.InvalidTransitionError{
			Entity: "confirmation", From: conf.Status.String(), Action: "update_lawsuit_status",
		}
	}

	// Strict single-step progression: no skipping, no moving backward.
	if conf.LawsuitStatus.Next() != status {
		return nil, &claim.InvalidTransitionError{
			Entity: "lawsuit", From: conf.LawsuitStatus.String(), To: status.String(), Action: "update_lawsuit_status",
		}
	}

	from := conf.Status
	conf.LawsuitStatus = status

	if status == claim.LawsuitCompleted {
		if !result.IsValid() {
			return nil, (&claim.ValidationError{}).Add("lawsuit_result", "is required when the lawsuit completes")
		}
		conf.LawsuitResult = result
		conf.LawsuitAmount = amount

		machine := claim.BuildConfirmationMachine(from)
		if err := machine.Fire(ctx, claim.TriggerCompleteLawsuit); err != nil {
			return nil, &claim.InvalidTransitionError{
				Entity: "confirmation", From: from.String(), To: claim.ConfirmationPending.String(), Action: "update_lawsuit_status",
			}
		}
		conf.Status = claim.ConfirmationStatus(machine.State())

		// A judicial outcome carries court authority; a settled suit does not.
		if result == claim.LawsuitSettled {
			conf.FinalBasis = claim.BasisOther
		} else {
			conf.FinalBasis = claim.BasisCourt
		}
	}
	conf.UpdatedAt = time.Now()

	if err := s.updateInTx(ctx, conf); err != nil {
		return nil, err
	}

	if conf.Status != from {
		s.emit(ctx, event.New(event.TypeConfirmationStatusChanged, "confirmation", conf.ID,
			from.String(), conf.Status.String(), actor).
			WithPayload("lawsuit_status", status.String()))
	}

	s.logger.Info("Lawsuit status updated",
		"id", conf.ID, "lawsuit_status", status, "status", conf.Status)
	return conf, nil
}

// Finalize locks the confirmation: the final amount is resolved by precedence
// (court over litigation over negotiated objection over the stored default)
// and the record becomes CONFIRMED, which is terminal.
func (s *confirmationServiceImpl) Finalize(ctx context.Context, actor string, id int64, date time.Time) (*claim.Confirmation, error) {
	if date.IsZero() {
		return nil, (&claim.ValidationError{}).Add("final_confirmation_date", "is required")
	}

	conf, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guardMutable(conf); err != nil {
		return nil, err
	}

	from := conf.Status
	machine := claim.BuildConfirmationMachine(from)
	if err := machine.Fire(ctx, claim.TriggerFinalize); err != nil {
		return nil, &claim.InvalidTransitionError{
			Entity: "confirmation", From: from.String(), To: claim.ConfirmationConfirmed.String(), Action: "finalize",
		}
	}

	if conf.FinalBasis == "" {
		if conf.HasObjection {
			conf.FinalBasis = claim.BasisOther
		} else {
			conf.FinalBasis = claim.BasisMeeting
		}
	}
	conf.FinalConfirmedAmount = ledger.ResolveFinalAmount(conf)
	conf.FinalConfirmationDate = &date
	conf.Status = claim.ConfirmationStatus(machine.State())
	conf.UpdatedAt = time.Now()

	if err := s.updateInTx(ctx, conf); err != nil {
		return nil, err
	}

	s.emit(ctx, event.New(event.TypeClaimFinalized, "confirmation", conf.ID,
		from.String(), conf.Status.String(), actor).
		WithPayload("final_confirmed_amount", conf.FinalConfirmedAmount.String()).
		WithPayload("final_confirmation_basis", conf.FinalBasis.String()))

	s.logger.Info("Claim finalized",
		"id", conf.ID, "amount", conf.FinalConfirmedAmount, "basis", conf.FinalBasis)
	return conf, nil
}

// ListByRegistration returns all confirmation records for a registration
func (s *confirmationServiceImpl) ListByRegistration(ctx context.Context, registrationID int64) ([]*claim.Confirmation, error) {
	return s.confRepo.ListByRegistration(ctx, registrationID)
}

// Latest returns the current confirmation record, or NotFound
func (s *confirmationServiceImpl) Latest(ctx context.Context, registrationID int64) (*claim.Confirmation, error) {
	conf, err := s.confRepo.Latest(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if conf == nil {
		return nil, fmt.Errorf("no confirmation for registration %d: %w", registrationID, claim.ErrNotFound)
	}
	return conf, nil
}

func (s *confirmationServiceImpl) updateInTx(ctx context.Context, conf *claim.Confirmation) error {
	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.confRepo.Update(txCtx, conf)
	})
}

func (s *confirmationServiceImpl) emit(ctx context.Context, evt *event.Event) {
	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, evt)
	}
}
