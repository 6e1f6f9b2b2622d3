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

// SubmitReviewInput carries a reviewer's figures and assessments for one round.
type SubmitReviewInput struct {
	// Declared amounts may be re-entered by the reviewer; nil keeps the
	// amounts copied from the registration at round start.
	Declared *claim.Amounts

	ConfirmedPrincipal   decimal.Decimal
	ConfirmedInterest    decimal.Decimal
	ConfirmedPenalty     decimal.Decimal
	ConfirmedOtherLosses decimal.Decimal

	EvidenceAuthenticity claim.EvidenceAuthenticity
	EvidenceRelevance    claim.EvidenceRelevance
	EvidenceLegality     claim.EvidenceLegality
	CollateralValidity   claim.CollateralValidity

	UnconfirmedReason          string
	InsufficientEvidenceReason string

	Attachments []string
}

// ReviewService manages review rounds against a registration.
type ReviewService interface {
	Start(ctx context.Context, actor string, registrationID int64) (*claim.Review, error)
	Get(ctx context.Context, id int64) (*claim.Review, error)
	Submit(ctx context.Context, actor string, reviewID int64, input SubmitReviewInput) (*claim.Review, error)
	RequestSupplement(ctx context.Context, actor string, reviewID int64, reason string) (*claim.Review, error)
	ListByRegistration(ctx context.Context, registrationID int64) ([]*claim.Review, error)
	LatestCompleted(ctx context.Context, registrationID int64) (*claim.Review, error)
}

type reviewServiceImpl struct {
	regRepo    port.RegistrationRepository
	reviewRepo port.ReviewRepository
	txManager  port.TransactionManager
	ledger     *ledger.Ledger
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	regRepo port.RegistrationRepository,
	reviewRepo port.ReviewRepository,
	txManager port.TransactionManager,
	ldgr *ledger.Ledger,
	disp dispatcher.Dispatcher,
	logger Logger,
) ReviewService {
	return &reviewServiceImpl{
		regRepo:    regRepo,
		reviewRepo: reviewRepo,
		txManager:  txManager,
		ledger:     ldgr,
		dispatcher: disp,
		logger:     logger,
	}
}

// Start opens the next review round for a REGISTERED registration. Rounds
// complete in order: a new round cannot start while the previous one is still
// IN_PROGRESS or SUPPLEMENT. Round assignment is serialized by the unique
// (registration, round) constraint, so a racing caller gets a Conflict and
// retries rather than a duplicate round.
func (s *reviewServiceImpl) Start(ctx context.Context, actor string, registrationID int64) (*claim.Review, error) {
	var review *claim.Review

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		reg, err := s.regRepo.GetByID(txCtx, registrationID)
		if err != nil {
			return err
		}
		if reg == nil {
			return fmt.Errorf("registration %d: %w", registrationID, claim.ErrNotFound)
		}
		if reg.Status != claim.RegistrationRegistered {
			return &claim.InvalidTransitionError{
				Entity: "review", From: reg.Status.String(), Action: "start_review",
			}
		}

		rounds, err := s.reviewRepo.ListByRegistration(txCtx, registrationID)
		if err != nil {
			return err
		}
		round := 1
		if n := len(rounds); n > 0 {
			last := rounds[n-1]
			if last.Status != claim.ReviewCompleted {
				return &claim.InvalidTransitionError{
					Entity: "review", From: last.Status.String(), Action: "start_review",
				}
			}
			round = last.ReviewRound + 1
		}

		now := time.Now()
		review = &claim.Review{
			ClaimRegistrationID: registrationID,
			CaseID:              reg.CaseID,
			CreditorName:        reg.CreditorName,
			ReviewRound:         round,
			Declared:            reg.Declared,
			Reviewer:            actor,
			Status:              claim.ReviewInProgress,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		return s.reviewRepo.Create(txCtx, review)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, event.New(event.TypeReviewStarted, "review", review.ID,
		"", review.Status.String(), actor).
		WithPayload("review_round", review.ReviewRound))

	s.logger.Info("Review round started",
		"id", review.ID, "registration_id", registrationID, "round", review.ReviewRound)
	return review, nil
}

// Get retrieves a review by ID
func (s *reviewServiceImpl) Get(ctx context.Context, id int64) (*claim.Review, error) {
	rev, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rev == nil {
		return nil, fmt.Errorf("review %d: %w", id, claim.ErrNotFound)
	}
	return rev, nil
}

func validateAssessments(input SubmitReviewInput) *claim.ValidationError {
	verr := &claim.ValidationError{}
	if !input.EvidenceAuthenticity.IsValid() {
		verr.Add("evidence_authenticity", "must be one of AUTHENTIC, SUSPICIOUS, FAKE")
	}
	if !input.EvidenceRelevance.IsValid() {
		verr.Add("evidence_relevance", "must be one of RELEVANT, IRRELEVANT")
	}
	if !input.EvidenceLegality.IsValid() {
		verr.Add("evidence_legality", "must be one of LEGAL, ILLEGAL")
	}
	if input.CollateralValidity != "" && !input.CollateralValidity.IsValid() {
		verr.Add("collateral_validity", "must be one of VALID, INVALID, PARTIAL")
	}
	return verr
}

// Submit completes a review round: it reconciles confirmed against declared
// amounts, derives the conclusion, and marks the round COMPLETED.
func (s *reviewServiceImpl) Submit(ctx context.Context, actor string, reviewID int64, input SubmitReviewInput) (*claim.Review, error) {
	rev, err := s.Get(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	from := rev.Status
	machine := claim.BuildReviewMachine(from)
	if !machine.CanFire(claim.TriggerSubmitReview) {
		return nil, &claim.InvalidTransitionError{
			Entity: "review", From: from.String(), To: claim.ReviewCompleted.String(), Action: "submit_review",
		}
	}

	// Rounds complete in order; a completed later round means this one was
	// superseded and must not be rewritten.
	maxRound, err := s.reviewRepo.MaxRound(ctx, rev.ClaimRegistrationID)
	if err != nil {
		return nil, err
	}
	if maxRound > rev.ReviewRound {
		return nil, &claim.InvalidTransitionError{
			Entity: "review", From: from.String(), Action: "submit_review",
		}
	}

	if verr := validateAssessments(input); verr.HasViolations() {
		return nil, verr
	}

	declared := rev.Declared
	if input.Declared != nil {
		declared = *input.Declared
	}
	if err := s.ledger.VerifyDeclared(declared); err != nil {
		return nil, err
	}

	confirmed := claim.Amounts{
		Principal:   input.ConfirmedPrincipal,
		Interest:    input.ConfirmedInterest,
		Penalty:     input.ConfirmedPenalty,
		OtherLosses: input.ConfirmedOtherLosses,
	}
	confirmed.Total = ledger.ComputeTotal(confirmed.Principal, confirmed.Interest, confirmed.Penalty, confirmed.OtherLosses)

	unconfirmed, err := s.ledger.SplitAmounts(declared, confirmed)
	if err != nil {
		return nil, err
	}

	if err := machine.Fire(ctx, claim.TriggerSubmitReview); err != nil {
		return nil, &claim.InvalidTransitionError{
			Entity: "review", From: from.String(), To: claim.ReviewCompleted.String(), Action: "submit_review",
		}
	}

	now := time.Now()
	rev.Declared = declared
	rev.Confirmed = confirmed
	rev.Unconfirmed = unconfirmed
	rev.EvidenceAuthenticity = input.EvidenceAuthenticity
	rev.EvidenceRelevance = input.EvidenceRelevance
	rev.EvidenceLegality = input.EvidenceLegality
	rev.CollateralValidity = input.CollateralValidity
	rev.UnconfirmedReason = input.UnconfirmedReason
	rev.InsufficientEvidenceReason = input.InsufficientEvidenceReason
	rev.Attachments = input.Attachments
	rev.Conclusion = ledger.DeriveConclusion(confirmed.Total, unconfirmed.Total)
	rev.Reviewer = actor
	rev.ReviewDate = &now
	rev.Status = claim.ReviewStatus(machine.State())
	rev.UpdatedAt = now

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.reviewRepo.Update(txCtx, rev)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, event.New(event.TypeReviewCompleted, "review", rev.ID,
		from.String(), rev.Status.String(), actor).
		WithPayload("review_conclusion", string(rev.Conclusion)))

	s.logger.Info("Review completed",
		"id", rev.ID, "round", rev.ReviewRound, "conclusion", rev.Conclusion)
	return rev, nil
}

// RequestSupplement sends an IN_PROGRESS round back to the creditor for more
// material. The round number does not advance; the same round resubmits.
func (s *reviewServiceImpl) RequestSupplement(ctx context.Context, actor string, reviewID int64, reason string) (*claim.Review, error) {
	if reason == "" {
		return nil, (&claim.ValidationError{}).Add("insufficient_evidence_reason", "is required")
	}

	rev, err := s.Get(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	from := rev.Status
	machine := claim.BuildReviewMachine(from)
	if err := machine.Fire(ctx, claim.TriggerRequestSupplement); err != nil {
		return nil, &claim.InvalidTransitionError{
			Entity: "review", From: from.String(), To: claim.ReviewSupplement.String(), Action: "request_supplement",
		}
	}

	rev.InsufficientEvidenceReason = reason
	rev.Status = claim.ReviewStatus(machine.State())
	rev.UpdatedAt = time.Now()

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.reviewRepo.Update(txCtx, rev)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, event.New(event.TypeSupplementRequested, "review", rev.ID,
		from.String(), rev.Status.String(), actor))

	s.logger.Info("Supplement requested", "id", rev.ID, "round", rev.ReviewRound)
	return rev, nil
}

// ListByRegistration returns all rounds for a registration ordered by round
func (s *reviewServiceImpl) ListByRegistration(ctx context.Context, registrationID int64) ([]*claim.Review, error) {
	return s.reviewRepo.ListByRegistration(ctx, registrationID)
}

// LatestCompleted returns the highest COMPLETED round, or NotFound
func (s *reviewServiceImpl) LatestCompleted(ctx context.Context, registrationID int64) (*claim.Review, error) {
	rev, err := s.reviewRepo.LatestCompleted(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if rev == nil {
		return nil, fmt.Errorf("no completed review for registration %d: %w", registrationID, claim.ErrNotFound)
	}
	return rev, nil
}

func (s *reviewServiceImpl) emit(ctx context.Context, evt *event.Event) {
	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, evt)
	}
}
