package claim

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReviewSummary is the slice of the latest COMPLETED review embedded in the
// claim aggregate.
type ReviewSummary struct {
	ReviewID         int64            `json:"review_id"`
	ReviewRound      int              `json:"review_round"`
	ConfirmedTotal   decimal.Decimal  `json:"confirmed_total_amount"`
	UnconfirmedTotal decimal.Decimal  `json:"unconfirmed_total_amount"`
	Conclusion       ReviewConclusion `json:"review_conclusion"`
	Reviewer         string           `json:"reviewer,omitempty"`
	ReviewDate       *time.Time       `json:"review_date,omitempty"`
}

// ConfirmationSummary is the slice of the latest confirmation record embedded
// in the claim aggregate.
type ConfirmationSummary struct {
	ConfirmationID       int64              `json:"confirmation_id"`
	Status               ConfirmationStatus `json:"confirmation_status"`
	FinalConfirmedAmount decimal.Decimal    `json:"final_confirmed_amount"`
	FinalBasis           FinalBasis         `json:"final_confirmation_basis,omitempty"`
	HasObjection         bool               `json:"has_objection"`
	HasLawsuit           bool               `json:"has_lawsuit"`
}

// Aggregate is the derived read model joining a registration with its latest
// completed review and latest confirmation. It is a projection for list and
// detail display, never written to directly.
type Aggregate struct {
	Registration *Registration        `json:"registration"`
	ReviewInfo   *ReviewSummary       `json:"review_info,omitempty"`
	Confirmation *ConfirmationSummary `json:"confirmation_info,omitempty"`
}

// NewReviewSummary projects a completed review into its aggregate summary.
func NewReviewSummary(r *Review) *ReviewSummary {
	if r == nil {
		return nil
	}
	return &ReviewSummary{
		ReviewID:         r.ID,
		ReviewRound:      r.ReviewRound,
		ConfirmedTotal:   r.Confirmed.Total,
		UnconfirmedTotal: r.Unconfirmed.Total,
		Conclusion:       r.Conclusion,
		Reviewer:         r.Reviewer,
		ReviewDate:       r.ReviewDate,
	}
}

// NewConfirmationSummary projects a confirmation record into its aggregate summary.
func NewConfirmationSummary(c *Confirmation) *ConfirmationSummary {
	if c == nil {
		return nil
	}
	return &ConfirmationSummary{
		ConfirmationID:       c.ID,
		Status:               c.Status,
		FinalConfirmedAmount: c.FinalConfirmedAmount,
		FinalBasis:           c.FinalBasis,
		HasObjection:         c.HasObjection,
		HasLawsuit:           c.HasLawsuit,
	}
}
