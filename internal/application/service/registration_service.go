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
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// RegistrationInput carries the creditor-supplied fields of a registration.
type RegistrationInput struct {
	CaseID              string
	Debtor              string
	CreditorName        string
	CreditorType        string
	CreditCode          string
	LegalRepresentative string
	AgentName           string
	AgentPhone          string
	BankName            string
	BankAccount         string

	Principal   decimal.Decimal
	Interest    decimal.Decimal
	Penalty     decimal.Decimal
	OtherLosses decimal.Decimal
	TotalAmount decimal.Decimal

	HasCourtJudgment bool
	HasExecution     bool
	HasCollateral    bool

	ClaimNature string
	ClaimType   string
	ClaimFacts  string

	EvidenceAttachments []string

	RegistrationDeadline *time.Time
}

// RegistrationService manages the registration stage of a claim.
type RegistrationService interface {
	Create(ctx context.Context, actor string, input RegistrationInput) (*claim.Registration, error)
	Get(ctx context.Context, id int64) (*claim.Registration, error)
	List(ctx context.Context, filter port.ListFilter) ([]*claim.Registration, int64, error)
	Update(ctx context.Context, actor string, id int64, input RegistrationInput) (*claim.Registration, error)
	ReceiveMaterial(ctx context.Context, actor string, id int64, receiver string, completeness claim.MaterialCompleteness) (*claim.Registration, error)
	SetStatus(ctx context.Context, actor string, id int64, status claim.RegistrationStatus, reason string) (*claim.Registration, error)
	Delete(ctx context.Context, actor string, id int64) error
}

type registrationServiceImpl struct {
	regRepo    port.RegistrationRepository
	reviewRepo port.ReviewRepository
	confRepo   port.ConfirmationRepository
	txManager  port.TransactionManager
	ledger     *ledger.Ledger
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(
	regRepo port.RegistrationRepository,
	reviewRepo port.ReviewRepository,
	confRepo port.ConfirmationRepository,
	txManager port.TransactionManager,
	ldgr *ledger.Ledger,
	disp dispatcher.Dispatcher,
	logger Logger,
) RegistrationService {
	return &registrationServiceImpl{
		regRepo:    regRepo,
		reviewRepo: reviewRepo,
		confRepo:   confRepo,
		txManager:  txManager,
		ledger:     ldgr,
		dispatcher: disp,
		logger:     logger,
	}
}

// validateIdentity collects every missing required field instead of failing
// on the first one, so the creditor gets a complete correction list.
func validateIdentity(input RegistrationInput) *claim.ValidationError {
	verr := &claim.ValidationError{}
	if input.CaseID == "" {
		verr.Add("case_id", "is required")
	}
	if input.Debtor == "" {
		verr.Add("debtor", "is required")
	}
	if input.CreditorName == "" {
		verr.Add("creditor_name", "is required")
	}
	if input.CreditorType == "" {
		verr.Add("creditor_type", "is required")
	}
	if input.ClaimNature == "" {
		verr.Add("claim_nature", "is required")
	}
	if input.ClaimType == "" {
		verr.Add("claim_type", "is required")
	}
	return verr
}

func declaredAmounts(input RegistrationInput) claim.Amounts {
	return claim.Amounts{
		Principal:   input.Principal,
		Interest:    input.Interest,
		Penalty:     input.Penalty,
		OtherLosses: input.OtherLosses,
		Total:       input.TotalAmount,
	}
}

// Create validates the submission, assigns a claim number, and persists the
// registration in status PENDING.
func (s *registrationServiceImpl) Create(ctx context.Context, actor string, input RegistrationInput) (*claim.Registration, error) {
	if verr := validateIdentity(input); verr.HasViolations() {
		return nil, verr
	}

	declared := declaredAmounts(input)
	if err := s.ledger.VerifyDeclared(declared); err != nil {
		return nil, err
	}

	now := time.Now()
	reg := &claim.Registration{
		CaseID:               input.CaseID,
		Debtor:               input.Debtor,
		CreditorName:         input.CreditorName,
		CreditorType:         input.CreditorType,
		CreditCode:           input.CreditCode,
		LegalRepresentative:  input.LegalRepresentative,
		AgentName:            input.AgentName,
		AgentPhone:           input.AgentPhone,
		BankName:             input.BankName,
		BankAccount:          input.BankAccount,
		Declared:             declared,
		HasCourtJudgment:     input.HasCourtJudgment,
		HasExecution:         input.HasExecution,
		HasCollateral:        input.HasCollateral,
		ClaimNature:          input.ClaimNature,
		ClaimType:            input.ClaimType,
		ClaimFacts:           input.ClaimFacts,
		EvidenceAttachments:  input.EvidenceAttachments,
		RegistrationDate:     now,
		RegistrationDeadline: input.RegistrationDeadline,
		MaterialCompleteness: claim.MaterialPending,
		Status:               claim.RegistrationPending,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		seq, err := s.regRepo.NextClaimSeq(txCtx, input.CaseID)
		if err != nil {
			return fmt.Errorf("assign claim number: %w", err)
		}
		reg.ClaimNo = fmt.Sprintf("ZQ-%s-%04d", input.CaseID, seq)

		if err := s.regRepo.Create(txCtx, reg); err != nil {
			return fmt.Errorf("create registration: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create registration", "error", err, "case_id", input.CaseID)
		return nil, err
	}

	s.emit(ctx, event.New(event.TypeRegistrationCreated, "registration", reg.ID,
		"", reg.Status.String(), actor).WithPayload("claim_no", reg.ClaimNo))

	s.logger.Info("Registration created",
		"id", reg.ID, "claim_no", reg.ClaimNo, "case_id", reg.CaseID)
	return reg, nil
}

// Get retrieves a registration by ID
func (s *registrationServiceImpl) Get(ctx context.Context, id int64) (*claim.Registration, error) {
	reg, err := s.regRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, fmt.Errorf("registration %d: %w", id, claim.ErrNotFound)
	}
	return reg, nil
}

// List retrieves registrations matching the filter with a total count
func (s *registrationServiceImpl) List(ctx context.Context, filter port.ListFilter) ([]*claim.Registration, int64, error) {
	regs, err := s.regRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.regRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return regs, total, nil
}

// Update replaces the creditor-supplied fields of a PENDING registration.
// REGISTERED and REJECTED registrations are immutable.
func (s *registrationServiceImpl) Update(ctx context.Context, actor string, id int64, input RegistrationInput) (*claim.Registration, error) {
	reg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg.Status != claim.RegistrationPending {
		return nil, &claim.ImmutableStateError{Entity: "registration", ID: id, Status: reg.Status.String()}
	}

	if verr := validateIdentity(input); verr.HasViolations() {
		return nil, verr
	}
	declared := declaredAmounts(input)
	if err := s.ledger.VerifyDeclared(declared); err != nil {
		return nil, err
	}

	reg.Debtor = input.Debtor
	reg.CreditorName = input.CreditorName
	reg.CreditorType = input.CreditorType
	reg.CreditCode = input.CreditCode
	reg.LegalRepresentative = input.LegalRepresentative
	reg.AgentName = input.AgentName
	reg.AgentPhone = input.AgentPhone
	reg.BankName = input.BankName
	reg.BankAccount = input.BankAccount
	reg.Declared = declared
	reg.HasCourtJudgment = input.HasCourtJudgment
	reg.HasExecution = input.HasExecution
	reg.HasCollateral = input.HasCollateral
	reg.ClaimNature = input.ClaimNature
	reg.ClaimType = input.ClaimType
	reg.ClaimFacts = input.ClaimFacts
	reg.EvidenceAttachments = input.EvidenceAttachments
	reg.RegistrationDeadline = input.RegistrationDeadline
	reg.UpdatedAt = time.Now()

	if err := s.updateInTx(ctx, reg); err != nil {
		return nil, err
	}

	s.logger.Info("Registration updated", "id", reg.ID, "actor", actor)
	return reg, nil
}

// ReceiveMaterial records material receipt while the registration is PENDING.
// It never changes the registration status itself.
func (s *registrationServiceImpl) ReceiveMaterial(ctx context.Context, actor string, id int64, receiver string, completeness claim.MaterialCompleteness) (*claim.Registration, error) {
	reg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg.Status != claim.RegistrationPending {
		return nil, &claim.ImmutableStateError{Entity: "registration", ID: id, Status: reg.Status.String()}
	}

	verr := &claim.ValidationError{}
	if receiver == "" {
		verr.Add("material_receiver", "is required")
	}
	if !completeness.IsValid() {
		verr.Add("material_completeness", "must be one of PENDING, INCOMPLETE, COMPLETE")
	}
	if verr.HasViolations() {
		return nil, verr
	}

	now := time.Now()
	reg.MaterialReceiver = receiver
	reg.MaterialReceiveDate = &now
	reg.MaterialCompleteness = completeness
	reg.UpdatedAt = now

	if err := s.updateInTx(ctx, reg); err != nil {
		return nil, err
	}

	s.emit(ctx, event.New(event.TypeMaterialReceived, "registration", reg.ID,
		reg.Status.String(), reg.Status.String(), actor).
		WithPayload("completeness", completeness.String()))

	s.logger.Info("Material received",
		"id", reg.ID, "receiver", receiver, "completeness", completeness)
	return reg, nil
}

// SetStatus drives the registration state machine. PENDING to REGISTERED
// requires complete material; PENDING to REJECTED requires a reason.
func (s *registrationServiceImpl) SetStatus(ctx context.Context, actor string, id int64, status claim.RegistrationStatus, reason string) (*claim.Registration, error) {
	if !status.IsValid() {
		return nil, (&claim.ValidationError{}).Add("registration_status", "must be one of PENDING, REGISTERED, REJECTED")
	}

	reg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := reg.Status
	var trigger = claim.TriggerRegister
	switch status {
	case claim.RegistrationRegistered:
		if reg.MaterialCompleteness != claim.MaterialComplete {
			return nil, &claim.InvalidTransitionError{
				Entity: "registration", From: from.String(), To: status.String(), Action: "set_status",
			}
		}
	case claim.RegistrationRejected:
		if reason == "" {
			return nil, (&claim.ValidationError{}).Add("reject_reason", "is required when rejecting")
		}
		trigger = claim.TriggerReject
	default:
		return nil, &claim.InvalidTransitionError{
			Entity: "registration", From: from.String(), To: status.String(), Action: "set_status",
		}
	}

	machine := claim.BuildRegistrationMachine(from)
	if err := machine.Fire(ctx, trigger); err != nil {
		return nil, &claim.InvalidTransitionError{
			Entity: "registration", From: from.String(), To: status.String(), Action: "set_status",
		}
	}

	reg.Status = claim.RegistrationStatus(machine.State())
	reg.RejectReason = reason
	reg.UpdatedAt = time.Now()

	if err := s.updateInTx(ctx, reg); err != nil {
		return nil, err
	}

	s.emit(ctx, event.New(event.TypeRegistrationStatusChanged, "registration", reg.ID,
		from.String(), reg.Status.String(), actor))

	s.logger.Info("Registration status changed",
		"id", reg.ID, "from", from, "to", reg.Status, "actor", actor)
	return reg, nil
}

// Delete removes a registration unless reviews or confirmations reference it.
func (s *registrationServiceImpl) Delete(ctx context.Context, actor string, id int64) error {
	reg, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		reviews, err := s.reviewRepo.CountByRegistration(txCtx, id)
		if err != nil {
			return err
		}
		confirmations, err := s.confRepo.CountByRegistration(txCtx, id)
		if err != nil {
			return err
		}
		if reviews > 0 || confirmations > 0 {
			return &claim.HasDependentsError{
				Entity: "registration", ID: id,
				Reviews: reviews, Confirmations: confirmations,
			}
		}
		return s.regRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.emit(ctx, event.New(event.TypeRegistrationDeleted, "registration", id,
		reg.Status.String(), "", actor))

	s.logger.Info("Registration deleted", "id", id, "actor", actor)
	return nil
}

func (s *registrationServiceImpl) updateInTx(ctx context.Context, reg *claim.Registration) error {
	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.regRepo.Update(txCtx, reg)
	})
}

// emit publishes a transition event without letting sink failures affect the
// already-committed operation.
func (s *registrationServiceImpl) emit(ctx context.Context, evt *event.Event) {
	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, evt)
	}
}
