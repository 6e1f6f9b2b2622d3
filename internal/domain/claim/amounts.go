package claim

import "github.com/shopspring/decimal"

// Amounts groups the four claim components and their total. Monetary values
// are carried as decimals end-to-end and rounded to 2 places at the ledger
// boundary.
type Amounts struct {
	Principal   decimal.Decimal `json:"principal"`
	Interest    decimal.Decimal `json:"interest"`
	Penalty     decimal.Decimal `json:"penalty"`
	OtherLosses decimal.Decimal `json:"other_losses"`
	Total       decimal.Decimal `json:"total_amount"`
}

// Components returns the four component amounts paired with their field names,
// in declaration order. Callers iterate this instead of repeating per-field
// arithmetic.
func (a Amounts) Components() []struct {
	Field string
	Value decimal.Decimal
} {
	return []struct {
		Field string
		Value decimal.Decimal
	}{
		{"principal", a.Principal},
		{"interest", a.Interest},
		{"penalty", a.Penalty},
		{"other_losses", a.OtherLosses},
	}
}
