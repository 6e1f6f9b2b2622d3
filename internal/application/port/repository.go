package port

import (
	"context"

	"github.com/garyjia/claim-adjudication/internal/domain/claim"
)

// ListFilter narrows registration and aggregate listings.
type ListFilter struct {
	CaseID       string
	Status       string
	CreditorName string // substring match
	Limit        int
	Offset       int
}

// RegistrationRepository defines persistence operations for Registration.
// Update is version-conditioned: a stale Version fails with claim.ErrConflict
// and leaves the row untouched.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *claim.Registration) error
	GetByID(ctx context.Context, id int64) (*claim.Registration, error)
	GetByClaimNo(ctx context.Context, claimNo string) (*claim.Registration, error)
	Update(ctx context.Context, reg *claim.Registration) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ListFilter) ([]*claim.Registration, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)

	// NextClaimSeq returns the next per-case claim number sequence value.
	// Must be called inside the create transaction so concurrent creates
	// never share a sequence value.
	NextClaimSeq(ctx context.Context, caseID string) (int64, error)
}

// ReviewRepository defines persistence operations for Review. Create relies
// on a unique (claim_registration_id, review_round) constraint; a duplicate
// round surfaces as claim.ErrConflict so racing callers retry.
type ReviewRepository interface {
	Create(ctx context.Context, rev *claim.Review) error
	GetByID(ctx context.Context, id int64) (*claim.Review, error)
	Update(ctx context.Context, rev *claim.Review) error
	ListByRegistration(ctx context.Context, registrationID int64) ([]*claim.Review, error)
	LatestCompleted(ctx context.Context, registrationID int64) (*claim.Review, error)
	MaxRound(ctx context.Context, registrationID int64) (int, error)
	CountByRegistration(ctx context.Context, registrationID int64) (int64, error)
}

// ConfirmationRepository defines persistence operations for Confirmation.
// Records are append-only; Latest returns the current one.
type ConfirmationRepository interface {
	Create(ctx context.Context, conf *claim.Confirmation) error
	GetByID(ctx context.Context, id int64) (*claim.Confirmation, error)
	Update(ctx context.Context, conf *claim.Confirmation) error
	ListByRegistration(ctx context.Context, registrationID int64) ([]*claim.Confirmation, error)
	Latest(ctx context.Context, registrationID int64) (*claim.Confirmation, error)
	CountByRegistration(ctx context.Context, registrationID int64) (int64, error)
}

// TransactionManager handles database transactions. Every stage operation's
// writes happen inside one transaction: all invariant checks pass or nothing
// is persisted.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
