package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/claim-adjudication/internal/domain/claim"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func amounts(principal, interest, penalty, other, total string) claim.Amounts {
	return claim.Amounts{
		Principal:   dec(principal),
		Interest:    dec(interest),
		Penalty:     dec(penalty),
		OtherLosses: dec(other),
		Total:       dec(total),
	}
}

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name                                  string
		principal, interest, penalty, other   string
		want                                  string
	}{
		{"typical claim", "80000", "15000", "3000", "2000", "100000"},
		{"all zero", "0", "0", "0", "0", "0"},
		{"rounds half up", "0.005", "0", "0", "0", "0.01"},
		{"keeps two places", "10.334", "0.001", "0", "0", "10.34"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotal(dec(tt.principal), dec(tt.interest), dec(tt.penalty), dec(tt.other))
			assert.True(t, got.Equal(dec(tt.want)), "ComputeTotal() = %s, want %s", got, tt.want)
		})
	}
}

func TestLedger_VerifyDeclared(t *testing.T) {
	l := New(DefaultEpsilon)

	t.Run("total matches component sum", func(t *testing.T) {
		err := l.VerifyDeclared(amounts("80000", "15000", "3000", "2000", "100000"))
		require.NoError(t, err)
	})

	t.Run("total within epsilon", func(t *testing.T) {
		err := l.VerifyDeclared(amounts("50", "0", "0", "0", "50.01"))
		require.NoError(t, err)
	})

	t.Run("total off by more than epsilon", func(t *testing.T) {
		err := l.VerifyDeclared(amounts("80000", "15000", "3000", "2000", "99000"))
		var mismatch *claim.AmountMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "total_amount", mismatch.Field)
		assert.True(t, mismatch.Expected.Equal(dec("100000")))
	})

	t.Run("negative components collected together", func(t *testing.T) {
		err := l.VerifyDeclared(amounts("-1", "0", "-2", "0", "-3"))
		var verr *claim.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Violations, 2)
	})
}

func TestLedger_Split(t *testing.T) {
	l := New(DefaultEpsilon)

	t.Run("partial confirmation", func(t *testing.T) {
		got, err := l.Split("principal", dec("80000"), dec("60000"))
		require.NoError(t, err)
		assert.True(t, got.Equal(dec("20000")))
	})

	t.Run("full confirmation", func(t *testing.T) {
		got, err := l.Split("principal", dec("80000"), dec("80000"))
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("over-confirm within epsilon clamps to zero", func(t *testing.T) {
		got, err := l.Split("interest", dec("100"), dec("100.01"))
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("over-confirm beyond epsilon rejected", func(t *testing.T) {
		_, err := l.Split("interest", dec("100"), dec("150"))
		var mismatch *claim.AmountMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "interest", mismatch.Field)
	})
}

func TestLedger_SplitAmounts(t *testing.T) {
	l := New(DefaultEpsilon)

	t.Run("per-component split with recomputed total", func(t *testing.T) {
		declared := amounts("80000", "15000", "3000", "2000", "100000")
		confirmed := amounts("60000", "15000", "0", "2000", "77000")

		unconfirmed, err := l.SplitAmounts(declared, confirmed)
		require.NoError(t, err)
		assert.True(t, unconfirmed.Principal.Equal(dec("20000")))
		assert.True(t, unconfirmed.Interest.IsZero())
		assert.True(t, unconfirmed.Penalty.Equal(dec("3000")))
		assert.True(t, unconfirmed.OtherLosses.IsZero())
		assert.True(t, unconfirmed.Total.Equal(dec("23000")))
	})

	t.Run("all component violations reported", func(t *testing.T) {
		declared := amounts("100", "100", "100", "100", "400")
		confirmed := amounts("200", "100", "300", "100", "700")

		_, err := l.SplitAmounts(declared, confirmed)
		var verr *claim.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Violations, 2)
	})
}

func TestDeriveConclusion(t *testing.T) {
	tests := []struct {
		name                   string
		confirmed, unconfirmed string
		want                   claim.ReviewConclusion
	}{
		{"nothing confirmed", "0", "100000", claim.ConclusionUnconfirmed},
		{"everything confirmed", "100000", "0", claim.ConclusionConfirmed},
		{"part confirmed", "77000", "23000", claim.ConclusionPartialConfirmed},
		{"zero claim", "0", "0", claim.ConclusionUnconfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveConclusion(dec(tt.confirmed), dec(tt.unconfirmed))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveFinalAmount(t *testing.T) {
	tests := []struct {
		name string
		conf *claim.Confirmation
		want string
	}{
		{
			name: "court ruling wins over lawsuit and objection",
			conf: &claim.Confirmation{
				FinalBasis:           claim.BasisCourt,
				CourtRulingAmount:    decPtr("5000"),
				HasLawsuit:           true,
				LawsuitAmount:        decPtr("3000"),
				HasObjection:         true,
				ObjectionAmount:      decPtr("8000"),
				FinalConfirmedAmount: dec("10000"),
			},
			want: "5000",
		},
		{
			name: "lawsuit wins over objection",
			conf: &claim.Confirmation{
				HasLawsuit:           true,
				LawsuitAmount:        decPtr("3000"),
				HasObjection:         true,
				ObjectionAmount:      decPtr("8000"),
				FinalConfirmedAmount: dec("10000"),
			},
			want: "3000",
		},
		{
			name: "objection amount when no judicial outcome",
			conf: &claim.Confirmation{
				HasObjection:         true,
				ObjectionAmount:      decPtr("8000"),
				FinalConfirmedAmount: dec("10000"),
			},
			want: "8000",
		},
		{
			name: "stored default otherwise",
			conf: &claim.Confirmation{
				FinalConfirmedAmount: dec("10000"),
			},
			want: "10000",
		},
		{
			name: "lawsuit without amount falls through",
			conf: &claim.Confirmation{
				HasLawsuit:           true,
				FinalConfirmedAmount: dec("10000"),
			},
			want: "10000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveFinalAmount(tt.conf)
			assert.True(t, got.Equal(dec(tt.want)), "ResolveFinalAmount() = %s, want %s", got, tt.want)
		})
	}
}

func TestNew_FallsBackOnBadEpsilon(t *testing.T) {
	l := New(decimal.Zero)

	// Tolerance behaves like the default 0.01
	err := l.VerifyDeclared(amounts("50", "0", "0", "0", "50.01"))
	require.NoError(t, err)

	err = l.VerifyDeclared(amounts("50", "0", "0", "0", "50.02"))
	var mismatch *claim.AmountMismatchError
	require.True(t, errors.As(err, &mismatch))
}
