package service

import (
	"context"
	"fmt"

	"github.com/garyjia/claim-adjudication/internal/application/port"
	"github.com/garyjia/claim-adjudication/internal/domain/claim"
)

// ClaimListService serves the derived claim aggregate: each registration
// joined with its latest completed review and latest confirmation. Reads may
// lag the most recent write; the projection is for display only.
type ClaimListService interface {
	List(ctx context.Context, filter port.ListFilter) ([]*claim.Aggregate, int64, error)
	Get(ctx context.Context, registrationID int64) (*claim.Aggregate, error)
}

type claimListServiceImpl struct {
	regRepo    port.RegistrationRepository
	reviewRepo port.ReviewRepository
	confRepo   port.ConfirmationRepository
	logger     Logger
}

// NewClaimListService creates a new ClaimListService
func NewClaimListService(
	regRepo port.RegistrationRepository,
	reviewRepo port.ReviewRepository,
	confRepo port.ConfirmationRepository,
	logger Logger,
) ClaimListService {
	return &claimListServiceImpl{
		regRepo:    regRepo,
		reviewRepo: reviewRepo,
		confRepo:   confRepo,
		logger:     logger,
	}
}

// List returns aggregates for registrations matching the filter
func (s *claimListServiceImpl) List(ctx context.Context, filter port.ListFilter) ([]*claim.Aggregate, int64, error) {
	regs, err := s.regRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.regRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	aggregates := make([]*claim.Aggregate, 0, len(regs))
	for _, reg := range regs {
		agg, err := s.project(ctx, reg)
		if err != nil {
			return nil, 0, err
		}
		aggregates = append(aggregates, agg)
	}
	return aggregates, total, nil
}

// Get returns the aggregate for a single registration
func (s *claimListServiceImpl) Get(ctx context.Context, registrationID int64) (*claim.Aggregate, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, fmt.Errorf("registration %d: %w", registrationID, claim.ErrNotFound)
	}
	return s.project(ctx, reg)
}

func (s *claimListServiceImpl) project(ctx context.Context, reg *claim.Registration) (*claim.Aggregate, error) {
	review, err := s.reviewRepo.LatestCompleted(ctx, reg.ID)
	if err != nil {
		return nil, err
	}
	conf, err := s.confRepo.Latest(ctx, reg.ID)
	if err != nil {
		return nil, err
	}
	return &claim.Aggregate{
		Registration: reg,
		ReviewInfo:   claim.NewReviewSummary(review),
		Confirmation: claim.NewConfirmationSummary(conf),
	}, nil
}
