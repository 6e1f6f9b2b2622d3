package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/garyjia/claim-adjudication/internal/domain/claim"
	"github.com/garyjia/claim-adjudication/internal/domain/event"
)

func newConfirmationService(regRepo *mockRegRepo, reviewRepo *mockReviewRepo, confRepo *mockConfRepo, disp *captureDispatcher) ConfirmationService {
	if regRepo == nil {
		regRepo = registeredRegRepo()
	}
	if reviewRepo == nil {
		reviewRepo = &mockReviewRepo{}
	}
	if confRepo == nil {
		confRepo = &mockConfRepo{}
	}
	if disp == nil {
		return NewConfirmationService(regRepo, reviewRepo, confRepo, &mockTxManager{}, nil, &mockLogger{})
	}
	return NewConfirmationService(regRepo, reviewRepo, confRepo, &mockTxManager{}, disp, &mockLogger{})
}

func confRepoWith(conf claim.Confirmation) *mockConfRepo {
	return &mockConfRepo{
		getFn: func(ctx context.Context, id int64) (*claim.Confirmation, error) {
			c := conf
			c.ID = id
			return &c, nil
		},
	}
}

func completedReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{
		latestFn: func(ctx context.Context, registrationID int64) (*claim.Review, error) {
			return &claim.Review{
				ID: 1, ClaimRegistrationID: registrationID, ReviewRound: 1,
				Status:    claim.ReviewCompleted,
				Confirmed: claim.Amounts{Total: decimal.NewFromInt(77000)},
			}, nil
		},
	}
}

func TestConfirmationService_Create(t *testing.T) {
	t.Run("seeds final amount from latest review", func(t *testing.T) {
		disp := &captureDispatcher{}
		svc := newConfirmationService(nil, completedReviewRepo(), nil, disp)

		conf, err := svc.Create(context.Background(), "admin-1", 1, MeetingInput{MeetingType: claim.MeetingFirst})
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if conf.Status != claim.ConfirmationPending {
			t.Errorf("Status = %v, want PENDING", conf.Status)
		}
		if !conf.FinalConfirmedAmount.Equal(decimal.NewFromInt(77000)) {
			t.Errorf("FinalConfirmedAmount = %s, want 77000", conf.FinalConfirmedAmount)
		}
		events := disp.Events()
		if len(events) != 1 || events[0].Type != event.TypeConfirmationCreated {
			t.Errorf("expected one confirmation.created event, got %v", events)
		}
	})

	t.Run("invalid meeting type", func(t *testing.T) {
		svc := newConfirmationService(nil, completedReviewRepo(), nil, nil)

		_, err := svc.Create(context.Background(), "admin-1", 1, MeetingInput{MeetingType: "ANNUAL"})
		var verr *claim.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Create() error = %v, want ValidationError", err)
		}
	})

	t.Run("requires a completed review round", func(t *testing.T) {
		svc := newConfirmationService(nil, &mockReviewRepo{}, nil, nil)

		_, err := svc.Create(context.Background(), "admin-1", 1, MeetingInput{MeetingType: claim.MeetingFirst})
		var itErr *claim.InvalidTransitionError
		if !errors.As(err, &itErr) {
			t.Errorf("Create() error = %v, want InvalidTransitionError", err)
		}
	})

	t.Run("registration not found", func(t *testing.T) {
		svc := newConfirmationService(&mockRegRepo{}, completedReviewRepo(), nil, nil)

		_, err := svc.Create(context.Background(), "admin-1", 99, MeetingInput{MeetingType: claim.MeetingFirst})
		if !errors.Is(err, claim.ErrNotFound) {
			t.Errorf("Create() error = %v, want ErrNotFound", err)
		}
	})
}

func TestConfirmationService_SubmitVote(t *testing.T) {
	t.Run("agree keeps pending", func(t *testing.T) {
		disp := &captureDispatcher{}
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status: claim.ConfirmationPending, Version: 1,
		}), disp)

		conf, err := svc.SubmitVote(context.Background(), "creditor-1", 1, claim.VoteAgree, "")
		if err != nil {
			t.Fatalf("SubmitVote() failed: %v", err)
		}
		if conf.Status != claim.ConfirmationPending {
			t.Errorf("Status = %v, want PENDING", conf.Status)
		}
		if len(disp.Events()) != 0 {
			t.Error("an agreeing vote must not emit a status-changed event")
		}
	})

	t.Run("disagree moves to objection", func(t *testing.T) {
		disp := &captureDispatcher{}
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status: claim.ConfirmationPending, Version: 1,
		}), disp)

		conf, err := svc.SubmitVote(context.Background(), "creditor-1", 1, claim.VoteDisagree, "amount too low")
		if err != nil {
			t.Fatalf("SubmitVote() failed: %v", err)
		}
		if conf.Status != claim.ConfirmationObjection {
			t.Errorf("Status = %v, want OBJECTION", conf.Status)
		}
		if conf.VoteResult != claim.VoteDisagree || conf.VoteNotes != "amount too low" {
			t.Errorf("vote/notes = %v/%q", conf.VoteResult, conf.VoteNotes)
		}
		events := disp.Events()
		if len(events) != 1 || events[0].Type != event.TypeConfirmationStatusChanged {
			t.Errorf("expected one status-changed event, got %v", events)
		}
	})

	t.Run("invalid vote", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status: claim.ConfirmationPending, Version: 1,
		}), nil)

		_, err := svc.SubmitVote(context.Background(), "creditor-1", 1, "MAYBE", "")
		var verr *claim.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("SubmitVote() error = %v, want ValidationError", err)
		}
	})

	t.Run("voting closes once objection opens", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status: claim.ConfirmationObjection, Version: 1,
		}), nil)

		_, err := svc.SubmitVote(context.Background(), "creditor-1", 1, claim.VoteAgree, "")
		var itErr *claim.InvalidTransitionError
		if !errors.As(err, &itErr) {
			t.Errorf("SubmitVote() error = %v, want InvalidTransitionError", err)
		}
	})

	t.Run("finalized record is immutable", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status: claim.ConfirmationConfirmed, Version: 1,
		}), nil)

		_, err := svc.SubmitVote(context.Background(), "creditor-1", 1, claim.VoteAgree, "")
		var imErr *claim.ImmutableStateError
		if !errors.As(err, &imErr) {
			t.Errorf("SubmitVote() error = %v, want ImmutableStateError", err)
		}
	})
}

func TestConfirmationService_FileObjection(t *testing.T) {
	t.Run("records objection from pending", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status: claim.ConfirmationPending, Version: 1,
		}), nil)

		amount := decimal.NewFromInt(90000)
		conf, err := svc.FileObjection(context.Background(), "creditor-1", 1, ObjectionInput{
			Objector: "creditor-1", Reason: "confirmed amount below contract value", Amount: &amount,
		})
		if err != nil {
			t.Fatalf("FileObjection() failed: %v", err)
		}
		if conf.Status != claim.ConfirmationObjection || !conf.HasObjection {
			t.Errorf("status/hasObjection = %v/%v", conf.Status, conf.HasObjection)
		}
		if conf.ObjectionDate == nil {
			t.Error("ObjectionDate should default to now")
		}
	})

	t.Run("violations collected together", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status: claim.ConfirmationPending, Version: 1,
		}), nil)

		negative := decimal.NewFromInt(-5)
		_, err := svc.FileObjection(context.Background(), "creditor-1", 1, ObjectionInput{Amount: &negative})
		var verr *claim.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("FileObjection() error = %v, want ValidationError", err)
		}
		if len(verr.Violations) != 3 {
			t.Errorf("got %d violations, want 3", len(verr.Violations))
		}
	})

	t.Run("cannot object while in court", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status: claim.ConfirmationCourt, HasObjection: true, Version: 1,
		}), nil)

		_, err := svc.FileObjection(context.Background(), "creditor-1", 1, ObjectionInput{
			Objector: "creditor-1", Reason: "still disagree",
		})
		var itErr *claim.InvalidTransitionError
		if !errors.As(err, &itErr) {
			t.Errorf("FileObjection() error = %v, want InvalidTransitionError", err)
		}
	})
}

func TestConfirmationService_ResolveNegotiation(t *testing.T) {
	objection := claim.Confirmation{
		Status: claim.ConfirmationObjection, HasObjection: true, Version: 1,
	}

	t.Run("success returns to pending with settlement basis", func(t *testing.T) {
		disp := &captureDispatcher{}
		svc := newConfirmationService(nil, nil, confRepoWith(objection), disp)

		conf, err := svc.ResolveNegotiation(context.Background(), "admin-1", 1, NegotiationInput{
			Success: true, Result: "agreed at 85000", Participants: "creditor-1, administrator",
		})
		if err != nil {
			t.Fatalf("ResolveNegotiation() failed: %v", err)
		}
		if conf.Status != claim.ConfirmationPending {
			t.Errorf("Status = %v, want PENDING", conf.Status)
		}
		if conf.FinalBasis != claim.BasisSettlement {
			t.Errorf("FinalBasis = %v, want SETTLEMENT", conf.FinalBasis)
		}
		if len(disp.Events()) != 1 {
			t.Errorf("expected one status-changed event, got %v", disp.Events())
		}
	})

	t.Run("failure stays in objection", func(t *testing.T) {
		disp := &captureDispatcher{}
		svc := newConfirmationService(nil, nil, confRepoWith(objection), disp)

		conf, err := svc.ResolveNegotiation(context.Background(), "admin-1", 1, NegotiationInput{
			Success: false, Result: "no agreement",
		})
		if err != nil {
			t.Fatalf("ResolveNegotiation() failed: %v", err)
		}
		if conf.Status != claim.ConfirmationObjection {
			t.Errorf("Status = %v, want OBJECTION", conf.Status)
		}
		if len(disp.Events()) != 0 {
			t.Error("a failed negotiation must not emit a status-changed event")
		}
	})

	t.Run("requires objection status", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status: claim.ConfirmationPending, Version: 1,
		}), nil)

		_, err := svc.ResolveNegotiation(context.Background(), "admin-1", 1, NegotiationInput{Success: true})
		var itErr *claim.InvalidTransitionError
		if !errors.As(err, &itErr) {
			t.Errorf("ResolveNegotiation() error = %v, want InvalidTransitionError", err)
		}
	})

	t.Run("requires a filed objection record", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status: claim.ConfirmationObjection, HasObjection: false, Version: 1,
		}), nil)

		_, err := svc.ResolveNegotiation(context.Background(), "admin-1", 1, NegotiationInput{Success: true})
		var verr *claim.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("ResolveNegotiation() error = %v, want ValidationError", err)
		}
	})
}

func TestConfirmationService_Escalation(t *testing.T) {
	objection := claim.Confirmation{
		Status: claim.ConfirmationObjection, HasObjection: true, Version: 1,
	}

	t.Run("to court", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(objection), nil)

		conf, err := svc.EscalateToCourt(context.Background(), "admin-1", 1)
		if err != nil {
			t.Fatalf("EscalateToCourt() failed: %v", err)
		}
		if conf.Status != claim.ConfirmationCourt {
			t.Errorf("Status = %v, want COURT", conf.Status)
		}
	})

	t.Run("to lawsuit", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(objection), nil)

		conf, err := svc.EscalateToLawsuit(context.Background(), "admin-1", 1, "(2024)Su01MinChu123")
		if err != nil {
			t.Fatalf("EscalateToLawsuit() failed: %v", err)
		}
		if conf.Status != claim.ConfirmationLawsuit {
			t.Errorf("Status = %v, want LAWSUIT", conf.Status)
		}
		if !conf.HasLawsuit || conf.LawsuitCaseNo != "(2024)Su01MinChu123" {
			t.Errorf("hasLawsuit/caseNo = %v/%q", conf.HasLawsuit, conf.LawsuitCaseNo)
		}
		if conf.LawsuitStatus != claim.LawsuitPending {
			t.Errorf("LawsuitStatus = %v, want PENDING", conf.LawsuitStatus)
		}
	})

	t.Run("lawsuit requires a case number", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(objection), nil)

		_, err := svc.EscalateToLawsuit(context.Background(), "admin-1", 1, "")
		var verr *claim.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("EscalateToLawsuit() error = %v, want ValidationError", err)
		}
	})

	t.Run("escalation requires a filed objection record", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status: claim.ConfirmationObjection, HasObjection: false, Version: 1,
		}), nil)

		_, err := svc.EscalateToCourt(context.Background(), "admin-1", 1)
		var verr *claim.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("EscalateToCourt() error = %v, want ValidationError", err)
		}
	})

	t.Run("cannot escalate from pending", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status: claim.ConfirmationPending, Version: 1,
		}), nil)

		_, err := svc.EscalateToCourt(context.Background(), "admin-1", 1)
		var itErr *claim.InvalidTransitionError
		if !errors.As(err, &itErr) {
			t.Errorf("EscalateToCourt() error = %v, want InvalidTransitionError", err)
		}
	})
}

func TestConfirmationService_SubmitCourtRuling(t *testing.T) {
	inCourt := claim.Confirmation{
		Status: claim.ConfirmationCourt, HasObjection: true, Version: 1,
	}

	t.Run("ruling returns the record to pending", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(inCourt), nil)

		amount := decimal.NewFromInt(85000)
		conf, err := svc.SubmitCourtRuling(context.Background(), "admin-1", 1, RulingInput{
			No: "(2024)Su01MinChu123-1", Result: claim.RulingPartialConfirmed, Amount: &amount,
		})
		if err != nil {
			t.Fatalf("SubmitCourtRuling() failed: %v", err)
		}
		if conf.Status != claim.ConfirmationPending {
			t.Errorf("Status = %v, want PENDING", conf.Status)
		}
		if conf.FinalBasis != claim.BasisCourt {
			t.Errorf("FinalBasis = %v, want COURT", conf.FinalBasis)
		}
		if conf.CourtRulingDate == nil {
			t.Error("CourtRulingDate should default to now")
		}
	})

	t.Run("violations collected together", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(inCourt), nil)

		negative := decimal.NewFromInt(-1)
		_, err := svc.SubmitCourtRuling(context.Background(), "admin-1", 1, RulingInput{
			Result: "SPLIT", Amount: &negative,
		})
		var verr *claim.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("SubmitCourtRuling() error = %v, want ValidationError", err)
		}
		if len(verr.Violations) != 3 {
			t.Errorf("got %d violations, want 3", len(verr.Violations))
		}
	})

	t.Run("ruling requires court status", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status: claim.ConfirmationPending, Version: 1,
		}), nil)

		_, err := svc.SubmitCourtRuling(context.Background(), "admin-1", 1, RulingInput{
			No: "(2024)Su01MinChu123-1", Result: claim.RulingConfirmed,
		})
		var itErr *claim.InvalidTransitionError
		if !errors.As(err, &itErr) {
			t.Errorf("SubmitCourtRuling() error = %v, want InvalidTransitionError", err)
		}
	})
}

func TestConfirmationService_UpdateLawsuitStatus(t *testing.T) {
	inLawsuit := func(lawsuitStatus claim.LawsuitStatus) claim.Confirmation {
		return claim.Confirmation{
			Status: claim.ConfirmationLawsuit, HasObjection: true,
			HasLawsuit: true, LawsuitCaseNo: "(2024)Su01MinChu123",
			LawsuitStatus: lawsuitStatus, Version: 1,
		}
	}

	t.Run("single step forward", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(inLawsuit(claim.LawsuitPending)), nil)

		conf, err := svc.UpdateLawsuitStatus(context.Background(), "admin-1", 1, claim.LawsuitTrialing, "", nil)
		if err != nil {
			t.Fatalf("UpdateLawsuitStatus() failed: %v", err)
		}
		if conf.LawsuitStatus != claim.LawsuitTrialing {
			t.Errorf("LawsuitStatus = %v, want TRIALING", conf.LawsuitStatus)
		}
		if conf.Status != claim.ConfirmationLawsuit {
			t.Errorf("Status = %v; record stays in LAWSUIT until litigation completes", conf.Status)
		}
	})

	t.Run("skipping a step is rejected", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(inLawsuit(claim.LawsuitPending)), nil)

		_, err := svc.UpdateLawsuitStatus(context.Background(), "admin-1", 1, claim.LawsuitJudged, "", nil)
		var itErr *claim.InvalidTransitionError
		if !errors.As(err, &itErr) {
			t.Errorf("UpdateLawsuitStatus() error = %v, want InvalidTransitionError", err)
		}
	})

	t.Run("moving backward is rejected", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(inLawsuit(claim.LawsuitJudged)), nil)

		_, err := svc.UpdateLawsuitStatus(context.Background(), "admin-1", 1, claim.LawsuitTrialing, "", nil)
		var itErr *claim.InvalidTransitionError
		if !errors.As(err, &itErr) {
			t.Errorf("UpdateLawsuitStatus() error = %v, want InvalidTransitionError", err)
		}
	})

	t.Run("completion requires a result", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(inLawsuit(claim.LawsuitExecuting)), nil)

		_, err := svc.UpdateLawsuitStatus(context.Background(), "admin-1", 1, claim.LawsuitCompleted, "", nil)
		var verr *claim.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("UpdateLawsuitStatus() error = %v, want ValidationError", err)
		}
	})

	t.Run("judicial outcome returns to pending with court basis", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(inLawsuit(claim.LawsuitExecuting)), nil)

		amount := decimal.NewFromInt(70000)
		conf, err := svc.UpdateLawsuitStatus(context.Background(), "admin-1", 1, claim.LawsuitCompleted, claim.LawsuitPartial, &amount)
		if err != nil {
			t.Fatalf("UpdateLawsuitStatus() failed: %v", err)
		}
		if conf.Status != claim.ConfirmationPending {
			t.Errorf("Status = %v, want PENDING", conf.Status)
		}
		if conf.FinalBasis != claim.BasisCourt {
			t.Errorf("FinalBasis = %v, want COURT", conf.FinalBasis)
		}
		if conf.LawsuitResult != claim.LawsuitPartial {
			t.Errorf("LawsuitResult = %v, want PARTIAL", conf.LawsuitResult)
		}
	})

	t.Run("settled suit carries no court authority", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(inLawsuit(claim.LawsuitExecuting)), nil)

		conf, err := svc.UpdateLawsuitStatus(context.Background(), "admin-1", 1, claim.LawsuitCompleted, claim.LawsuitSettled, nil)
		if err != nil {
			t.Fatalf("UpdateLawsuitStatus() failed: %v", err)
		}
		if conf.FinalBasis != claim.BasisOther {
			t.Errorf("FinalBasis = %v, want OTHER", conf.FinalBasis)
		}
	})

	t.Run("requires lawsuit status", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status: claim.ConfirmationPending, Version: 1,
		}), nil)

		_, err := svc.UpdateLawsuitStatus(context.Background(), "admin-1", 1, claim.LawsuitTrialing, "", nil)
		var itErr *claim.InvalidTransitionError
		if !errors.As(err, &itErr) {
			t.Errorf("UpdateLawsuitStatus() error = %v, want InvalidTransitionError", err)
		}
	})
}

func TestConfirmationService_Finalize(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("meeting outcome finalizes directly", func(t *testing.T) {
		disp := &captureDispatcher{}
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status:               claim.ConfirmationPending,
			FinalConfirmedAmount: decimal.NewFromInt(77000),
			Version:              1,
		}), disp)

		conf, err := svc.Finalize(context.Background(), "admin-1", 1, date)
		if err != nil {
			t.Fatalf("Finalize() failed: %v", err)
		}
		if conf.Status != claim.ConfirmationConfirmed {
			t.Errorf("Status = %v, want CONFIRMED", conf.Status)
		}
		if conf.FinalBasis != claim.BasisMeeting {
			t.Errorf("FinalBasis = %v, want MEETING", conf.FinalBasis)
		}
		if !conf.FinalConfirmedAmount.Equal(decimal.NewFromInt(77000)) {
			t.Errorf("FinalConfirmedAmount = %s, want 77000", conf.FinalConfirmedAmount)
		}
		if conf.FinalConfirmationDate == nil || !conf.FinalConfirmationDate.Equal(date) {
			t.Errorf("FinalConfirmationDate = %v, want %v", conf.FinalConfirmationDate, date)
		}
		events := disp.Events()
		if len(events) != 1 || events[0].Type != event.TypeClaimFinalized {
			t.Errorf("expected one claim.finalized event, got %v", events)
		}
	})

	t.Run("court ruling amount takes precedence", func(t *testing.T) {
		ruling := decimal.NewFromInt(85000)
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status:               claim.ConfirmationPending,
			HasObjection:         true,
			FinalBasis:           claim.BasisCourt,
			CourtRulingAmount:    &ruling,
			FinalConfirmedAmount: decimal.NewFromInt(77000),
			Version:              1,
		}), nil)

		conf, err := svc.Finalize(context.Background(), "admin-1", 1, date)
		if err != nil {
			t.Fatalf("Finalize() failed: %v", err)
		}
		if !conf.FinalConfirmedAmount.Equal(ruling) {
			t.Errorf("FinalConfirmedAmount = %s, want 85000", conf.FinalConfirmedAmount)
		}
	})

	t.Run("objection without judicial outcome gets basis OTHER", func(t *testing.T) {
		objAmount := decimal.NewFromInt(90000)
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status:               claim.ConfirmationPending,
			HasObjection:         true,
			ObjectionAmount:      &objAmount,
			FinalConfirmedAmount: decimal.NewFromInt(77000),
			Version:              1,
		}), nil)

		conf, err := svc.Finalize(context.Background(), "admin-1", 1, date)
		if err != nil {
			t.Fatalf("Finalize() failed: %v", err)
		}
		if conf.FinalBasis != claim.BasisOther {
			t.Errorf("FinalBasis = %v, want OTHER", conf.FinalBasis)
		}
		if !conf.FinalConfirmedAmount.Equal(objAmount) {
			t.Errorf("FinalConfirmedAmount = %s, want 90000", conf.FinalConfirmedAmount)
		}
	})

	t.Run("requires a confirmation date", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status: claim.ConfirmationPending, Version: 1,
		}), nil)

		_, err := svc.Finalize(context.Background(), "admin-1", 1, time.Time{})
		var verr *claim.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Finalize() error = %v, want ValidationError", err)
		}
	})

	t.Run("cannot finalize an open objection", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status: claim.ConfirmationObjection, HasObjection: true, Version: 1,
		}), nil)

		_, err := svc.Finalize(context.Background(), "admin-1", 1, date)
		var itErr *claim.InvalidTransitionError
		if !errors.As(err, &itErr) {
			t.Errorf("Finalize() error = %v, want InvalidTransitionError", err)
		}
	})

	t.Run("cannot finalize twice", func(t *testing.T) {
		svc := newConfirmationService(nil, nil, confRepoWith(claim.Confirmation{
			Status: claim.ConfirmationConfirmed, Version: 1,
		}), nil)

		_, err := svc.Finalize(context.Background(), "admin-1", 1, date)
		var imErr *claim.ImmutableStateError
		if !errors.As(err, &imErr) {
			t.Errorf("Finalize() error = %v, want ImmutableStateError", err)
		}
	})
}

func TestConfirmationService_Latest_NotFound(t *testing.T) {
	svc := newConfirmationService(nil, nil, nil, nil)

	_, err := svc.Latest(context.Background(), 1)
	if !errors.Is(err, claim.ErrNotFound) {
		t.Errorf("Latest() error = %v, want ErrNotFound", err)
	}
}
