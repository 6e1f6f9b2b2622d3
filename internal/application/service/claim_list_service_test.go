package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/garyjia/claim-adjudication/internal/application/port"
	"github.com/garyjia/claim-adjudication/internal/domain/claim"
)

func TestClaimListService_Get(t *testing.T) {
	t.Run("registration only", func(t *testing.T) {
		regRepo := &mockRegRepo{
			getFn: func(ctx context.Context, id int64) (*claim.Registration, error) {
				return &claim.Registration{ID: id, ClaimNo: "ZQ-BC2024001-0001", Status: claim.RegistrationPending}, nil
			},
		}
		svc := NewClaimListService(regRepo, &mockReviewRepo{}, &mockConfRepo{}, &mockLogger{})

		agg, err := svc.Get(context.Background(), 1)
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		if agg.Registration == nil || agg.Registration.ClaimNo != "ZQ-BC2024001-0001" {
			t.Errorf("Registration = %+v", agg.Registration)
		}
		if agg.ReviewInfo != nil || agg.Confirmation != nil {
			t.Error("aggregate must omit review and confirmation summaries when none exist")
		}
	})

	t.Run("full lifecycle projection", func(t *testing.T) {
		regRepo := &mockRegRepo{
			getFn: func(ctx context.Context, id int64) (*claim.Registration, error) {
				return &claim.Registration{ID: id, Status: claim.RegistrationRegistered}, nil
			},
		}
		reviewRepo := &mockReviewRepo{
			latestFn: func(ctx context.Context, registrationID int64) (*claim.Review, error) {
				return &claim.Review{
					ID: 3, ReviewRound: 2,
					Confirmed:   claim.Amounts{Total: decimal.NewFromInt(77000)},
					Unconfirmed: claim.Amounts{Total: decimal.NewFromInt(23000)},
					Conclusion:  claim.ConclusionPartialConfirmed,
				}, nil
			},
		}
		confRepo := &mockConfRepo{
			latestFn: func(ctx context.Context, registrationID int64) (*claim.Confirmation, error) {
				return &claim.Confirmation{
					ID: 5, Status: claim.ConfirmationConfirmed,
					FinalConfirmedAmount: decimal.NewFromInt(77000),
					FinalBasis:           claim.BasisMeeting,
				}, nil
			},
		}
		svc := NewClaimListService(regRepo, reviewRepo, confRepo, &mockLogger{})

		agg, err := svc.Get(context.Background(), 1)
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		if agg.ReviewInfo == nil || agg.ReviewInfo.ReviewRound != 2 {
			t.Errorf("ReviewInfo = %+v, want round 2", agg.ReviewInfo)
		}
		if agg.ReviewInfo.Conclusion != claim.ConclusionPartialConfirmed {
			t.Errorf("Conclusion = %v, want PARTIAL_CONFIRMED", agg.ReviewInfo.Conclusion)
		}
		if agg.Confirmation == nil || agg.Confirmation.Status != claim.ConfirmationConfirmed {
			t.Errorf("Confirmation = %+v, want CONFIRMED", agg.Confirmation)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewClaimListService(&mockRegRepo{}, &mockReviewRepo{}, &mockConfRepo{}, &mockLogger{})

		_, err := svc.Get(context.Background(), 99)
		if !errors.Is(err, claim.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})
}

func TestClaimListService_List(t *testing.T) {
	regRepo := &mockRegRepo{
		listFn: func(ctx context.Context, filter port.ListFilter) ([]*claim.Registration, error) {
			return []*claim.Registration{
				{ID: 1, Status: claim.RegistrationRegistered},
				{ID: 2, Status: claim.RegistrationPending},
			}, nil
		},
		countFn: func(ctx context.Context, filter port.ListFilter) (int64, error) {
			return 7, nil
		},
	}
	reviewRepo := &mockReviewRepo{
		latestFn: func(ctx context.Context, registrationID int64) (*claim.Review, error) {
			if registrationID == 1 {
				return &claim.Review{ID: 10, ReviewRound: 1, Conclusion: claim.ConclusionConfirmed}, nil
			}
			return nil, nil
		},
	}
	svc := NewClaimListService(regRepo, reviewRepo, &mockConfRepo{}, &mockLogger{})

	aggs, total, err := svc.List(context.Background(), port.ListFilter{Limit: 20})
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if total != 7 {
		t.Errorf("total = %d, want 7 (count is independent of page size)", total)
	}
	if len(aggs) != 2 {
		t.Fatalf("got %d aggregates, want 2", len(aggs))
	}
	if aggs[0].ReviewInfo == nil || aggs[1].ReviewInfo != nil {
		t.Error("each aggregate must carry only its own review summary")
	}
}
