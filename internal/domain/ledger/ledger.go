// Package ledger centralizes all claim amount arithmetic. Every invariant on
// declared, confirmed, and unconfirmed amounts is enforced here and nowhere
// else; stage services call in rather than re-implementing the rules per
// operation.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/garyjia/claim-adjudication/internal/domain/claim"
)

// DefaultEpsilon is the rounding tolerance applied when comparing amounts
// that originate from user input.
var DefaultEpsilon = decimal.NewFromFloat(0.01)

// Ledger performs claim amount reconciliation. The zero value is not usable;
// construct with New.
type Ledger struct {
	epsilon decimal.Decimal
}

// New returns a ledger with the given comparison tolerance. A non-positive
// epsilon falls back to DefaultEpsilon.
func New(epsilon decimal.Decimal) *Ledger {
	if epsilon.LessThanOrEqual(decimal.Zero) {
		epsilon = DefaultEpsilon
	}
	return &Ledger{epsilon: epsilon}
}

// round normalizes a monetary value to 2 decimal places, half up.
func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ComputeTotal sums the four claim components and rounds to 2 decimal places.
// Absent components are zero, so an all-zero claim totals 0.00.
func ComputeTotal(principal, interest, penalty, otherLosses decimal.Decimal) decimal.Decimal {
	return round(principal.Add(interest).Add(penalty).Add(otherLosses))
}

// VerifyDeclared checks that the declared total equals the component sum
// within the ledger's tolerance, and that no component is negative. All
// violations are reported together.
func (l *Ledger) VerifyDeclared(a claim.Amounts) error {
	verr := &claim.ValidationError{}
	for _, c := range a.Components() {
		if c.Value.IsNegative() {
			verr.Add(c.Field, "must not be negative")
		}
	}
	if verr.HasViolations() {
		return verr
	}

	expected := ComputeTotal(a.Principal, a.Interest, a.Penalty, a.OtherLosses)
	if expected.Sub(round(a.Total)).Abs().GreaterThan(l.epsilon) {
		return &claim.AmountMismatchError{
			Field:    "total_amount",
			Expected: expected,
			Actual:   round(a.Total),
		}
	}
	return nil
}

// Split derives the unconfirmed amount for one component:
// unconfirmed = declared - confirmed, clamped to zero. A confirmed amount
// exceeding the declared amount by more than the tolerance is an
// AmountMismatch, since a reviewer can never confirm more than was declared.
func (l *Ledger) Split(field string, declared, confirmed decimal.Decimal) (decimal.Decimal, error) {
	declared = round(declared)
	confirmed = round(confirmed)

	diff := declared.Sub(confirmed)
	if diff.IsNegative() {
		if diff.Abs().GreaterThan(l.epsilon) {
			return decimal.Zero, &claim.AmountMismatchError{
				Field:    field,
				Expected: declared,
				Actual:   confirmed,
			}
		}
		return decimal.Zero, nil
	}
	return diff, nil
}

// SplitAmounts reconciles a full confirmed set against the declared set,
// producing the unconfirmed set with recomputed totals. Component mismatches
// are collected so the caller sees every violated field at once.
func (l *Ledger) SplitAmounts(declared, confirmed claim.Amounts) (claim.Amounts, error) {
	var unconfirmed claim.Amounts
	verr := &claim.ValidationError{}

	assign := func(field string, d, c decimal.Decimal) decimal.Decimal {
		u, err := l.Split(field, d, c)
		if err != nil {
			verr.Add(field, err.Error())
			return decimal.Zero
		}
		return u
	}

	unconfirmed.Principal = assign("principal", declared.Principal, confirmed.Principal)
	unconfirmed.Interest = assign("interest", declared.Interest, confirmed.Interest)
	unconfirmed.Penalty = assign("penalty", declared.Penalty, confirmed.Penalty)
	unconfirmed.OtherLosses = assign("other_losses", declared.OtherLosses, confirmed.OtherLosses)

	if verr.HasViolations() {
		return claim.Amounts{}, verr
	}

	unconfirmed.Total = ComputeTotal(unconfirmed.Principal, unconfirmed.Interest, unconfirmed.Penalty, unconfirmed.OtherLosses)
	return unconfirmed, nil
}

// DeriveConclusion computes the review conclusion from the confirmed and
// unconfirmed totals. Both totals zero means no claim amount survived review,
// which is UNCONFIRMED.
func DeriveConclusion(confirmedTotal, unconfirmedTotal decimal.Decimal) claim.ReviewConclusion {
	confirmedTotal = round(confirmedTotal)
	unconfirmedTotal = round(unconfirmedTotal)

	switch {
	case confirmedTotal.IsZero():
		return claim.ConclusionUnconfirmed
	case unconfirmedTotal.IsZero():
		return claim.ConclusionConfirmed
	default:
		return claim.ConclusionPartialConfirmed
	}
}

// ResolveFinalAmount applies the precedence order for the final confirmed
// amount: court ruling over litigation over negotiated objection over the
// stored default. A later, more authoritative determination overrides the
// meeting outcome.
func ResolveFinalAmount(c *claim.Confirmation) decimal.Decimal {
	switch {
	case c.FinalBasis == claim.BasisCourt && c.CourtRulingAmount != nil:
		return round(*c.CourtRulingAmount)
	case c.HasLawsuit && c.LawsuitAmount != nil:
		return round(*c.LawsuitAmount)
	case c.HasObjection && c.ObjectionAmount != nil:
		return round(*c.ObjectionAmount)
	default:
		return round(c.FinalConfirmedAmount)
	}
}
