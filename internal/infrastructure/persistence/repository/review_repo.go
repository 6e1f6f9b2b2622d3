package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/claim-adjudication/internal/application/port"
	"github.com/garyjia/claim-adjudication/internal/domain/claim"
	"github.com/garyjia/claim-adjudication/internal/infrastructure/persistence/sqlite"
)

const reviewColumns = `
	id, claim_registration_id, case_id, creditor_name, review_round,
	declared_principal, declared_interest, declared_penalty, declared_other_losses, declared_total,
	confirmed_principal, confirmed_interest, confirmed_penalty, confirmed_other_losses, confirmed_total,
	unconfirmed_principal, unconfirmed_interest, unconfirmed_penalty, unconfirmed_other_losses, unconfirmed_total,
	evidence_authenticity, evidence_relevance, evidence_legality, collateral_validity,
	unconfirmed_reason, insufficient_evidence_reason,
	reviewer, review_date, review_conclusion, review_status, attachments,
	version, created_at, updated_at`

// ReviewRepository implements port.ReviewRepository on sqlite
type ReviewRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *sql.DB, logger *zap.Logger) port.ReviewRepository {
	return &ReviewRepository{db: db, logger: logger}
}

func (r *ReviewRepository) executor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFor(ctx, r.db)
}

// Create inserts a new review round. The unique (claim_registration_id,
// review_round) index turns duplicate rounds from racing callers into a
// conflict error.
func (r *ReviewRepository) Create(ctx context.Context, rev *claim.Review) error {
	query := `
		INSERT INTO claim_reviews (
			claim_registration_id, case_id, creditor_name, review_round,
			declared_principal, declared_interest, declared_penalty, declared_other_losses, declared_total,
			confirmed_principal, confirmed_interest, confirmed_penalty, confirmed_other_losses, confirmed_total,
			unconfirmed_principal, unconfirmed_interest, unconfirmed_penalty, unconfirmed_other_losses, unconfirmed_total,
			evidence_authenticity, evidence_relevance, evidence_legality, collateral_validity,
			unconfirmed_reason, insufficient_evidence_reason,
			reviewer, review_date, review_conclusion, review_status, attachments,
			version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`

	result, err := r.executor(ctx).ExecContext(ctx, query,
		rev.ClaimRegistrationID, rev.CaseID, rev.CreditorName, rev.ReviewRound,
		decToDB(rev.Declared.Principal), decToDB(rev.Declared.Interest),
		decToDB(rev.Declared.Penalty), decToDB(rev.Declared.OtherLosses), decToDB(rev.Declared.Total),
		decToDB(rev.Confirmed.Principal), decToDB(rev.Confirmed.Interest),
		decToDB(rev.Confirmed.Penalty), decToDB(rev.Confirmed.OtherLosses), decToDB(rev.Confirmed.Total),
		decToDB(rev.Unconfirmed.Principal), decToDB(rev.Unconfirmed.Interest),
		decToDB(rev.Unconfirmed.Penalty), decToDB(rev.Unconfirmed.OtherLosses), decToDB(rev.Unconfirmed.Total),
		string(rev.EvidenceAuthenticity), string(rev.EvidenceRelevance),
		string(rev.EvidenceLegality), string(rev.CollateralValidity),
		rev.UnconfirmedReason, rev.InsufficientEvidenceReason,
		rev.Reviewer, nullTimeToDB(rev.ReviewDate), string(rev.Conclusion), string(rev.Status),
		attachmentsToDB(rev.Attachments), rev.CreatedAt, rev.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create review", zap.Error(err))
		return mapConstraintErr(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	rev.ID = id
	rev.Version = 1
	return nil
}

func scanReview(scan func(dest ...interface{}) error) (*claim.Review, error) {
	var rev claim.Review
	amounts := make([]string, 15)
	var auth, rel, leg, coll, conclusion, status, attachments string
	var reviewDate sql.NullTime

	err := scan(
		&rev.ID, &rev.ClaimRegistrationID, &rev.CaseID, &rev.CreditorName, &rev.ReviewRound,
		&amounts[0], &amounts[1], &amounts[2], &amounts[3], &amounts[4],
		&amounts[5], &amounts[6], &amounts[7], &amounts[8], &amounts[9],
		&amounts[10], &amounts[11], &amounts[12], &amounts[13], &amounts[14],
		&auth, &rel, &leg, &coll,
		&rev.UnconfirmedReason, &rev.InsufficientEvidenceReason,
		&rev.Reviewer, &reviewDate, &conclusion, &status, &attachments,
		&rev.Version, &rev.CreatedAt, &rev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	sets := []*claim.Amounts{&rev.Declared, &rev.Confirmed, &rev.Unconfirmed}
	for i, set := range sets {
		base := i * 5
		if set.Principal, err = decFromDB(amounts[base]); err != nil {
			return nil, err
		}
		if set.Interest, err = decFromDB(amounts[base+1]); err != nil {
			return nil, err
		}
		if set.Penalty, err = decFromDB(amounts[base+2]); err != nil {
			return nil, err
		}
		if set.OtherLosses, err = decFromDB(amounts[base+3]); err != nil {
			return nil, err
		}
		if set.Total, err = decFromDB(amounts[base+4]); err != nil {
			return nil, err
		}
	}

	rev.EvidenceAuthenticity = claim.EvidenceAuthenticity(auth)
	rev.EvidenceRelevance = claim.EvidenceRelevance(rel)
	rev.EvidenceLegality = claim.EvidenceLegality(leg)
	rev.CollateralValidity = claim.CollateralValidity(coll)
	rev.ReviewDate = nullTimeFromDB(reviewDate)
	rev.Conclusion = claim.ReviewConclusion(conclusion)
	rev.Status = claim.ReviewStatus(status)
	rev.Attachments = attachmentsFromDB(attachments)

	return &rev, nil
}

// GetByID retrieves a review by ID, returning nil when absent
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*claim.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM claim_reviews WHERE id = ?`

	row := r.executor(ctx).QueryRowContext(ctx, query, id)
	rev, err := scanReview(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get review by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return rev, nil
}

// Update writes every mutable column conditioned on the version read by the caller
func (r *ReviewRepository) Update(ctx context.Context, rev *claim.Review) error {
	query := `
		UPDATE claim_reviews SET
			declared_principal = ?, declared_interest = ?, declared_penalty = ?, declared_other_losses = ?, declared_total = ?,
			confirmed_principal = ?, confirmed_interest = ?, confirmed_penalty = ?, confirmed_other_losses = ?, confirmed_total = ?,
			unconfirmed_principal = ?, unconfirmed_interest = ?, unconfirmed_penalty = ?, unconfirmed_other_losses = ?, unconfirmed_total = ?,
			evidence_authenticity = ?, evidence_relevance = ?, evidence_legality = ?, collateral_validity = ?,
			unconfirmed_reason = ?, insufficient_evidence_reason = ?,
			reviewer = ?, review_date = ?, review_conclusion = ?, review_status = ?, attachments = ?,
			version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`

	result, err := r.executor(ctx).ExecContext(ctx, query,
		decToDB(rev.Declared.Principal), decToDB(rev.Declared.Interest),
		decToDB(rev.Declared.Penalty), decToDB(rev.Declared.OtherLosses), decToDB(rev.Declared.Total),
		decToDB(rev.Confirmed.Principal), decToDB(rev.Confirmed.Interest),
		decToDB(rev.Confirmed.Penalty), decToDB(rev.Confirmed.OtherLosses), decToDB(rev.Confirmed.Total),
		decToDB(rev.Unconfirmed.Principal), decToDB(rev.Unconfirmed.Interest),
		decToDB(rev.Unconfirmed.Penalty), decToDB(rev.Unconfirmed.OtherLosses), decToDB(rev.Unconfirmed.Total),
		string(rev.EvidenceAuthenticity), string(rev.EvidenceRelevance),
		string(rev.EvidenceLegality), string(rev.CollateralValidity),
		rev.UnconfirmedReason, rev.InsufficientEvidenceReason,
		rev.Reviewer, nullTimeToDB(rev.ReviewDate), string(rev.Conclusion), string(rev.Status),
		attachmentsToDB(rev.Attachments), rev.UpdatedAt,
		rev.ID, rev.Version,
	)
	if err != nil {
		r.logger.Error("Failed to update review", zap.Int64("id", rev.ID), zap.Error(err))
		return fmt.Errorf("failed to update review: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("review %d at version %d: %w", rev.ID, rev.Version, claim.ErrConflict)
	}

	rev.Version++
	return nil
}

// ListByRegistration returns all rounds for a registration ordered by round
func (r *ReviewRepository) ListByRegistration(ctx context.Context, registrationID int64) ([]*claim.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM claim_reviews
		WHERE claim_registration_id = ? ORDER BY review_round ASC`

	rows, err := r.executor(ctx).QueryContext(ctx, query, registrationID)
	if err != nil {
		r.logger.Error("Failed to list reviews", zap.Int64("registration_id", registrationID), zap.Error(err))
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*claim.Review
	for rows.Next() {
		rev, err := scanReview(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

// LatestCompleted returns the highest COMPLETED round, or nil
func (r *ReviewRepository) LatestCompleted(ctx context.Context, registrationID int64) (*claim.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM claim_reviews
		WHERE claim_registration_id = ? AND review_status = ?
		ORDER BY review_round DESC LIMIT 1`

	row := r.executor(ctx).QueryRowContext(ctx, query, registrationID, string(claim.ReviewCompleted))
	rev, err := scanReview(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest completed review: %w", err)
	}
	return rev, nil
}

// MaxRound returns the highest round number for a registration, 0 when none
func (r *ReviewRepository) MaxRound(ctx context.Context, registrationID int64) (int, error) {
	var round sql.NullInt64
	err := r.executor(ctx).QueryRowContext(ctx,
		`SELECT MAX(review_round) FROM claim_reviews WHERE claim_registration_id = ?`,
		registrationID).Scan(&round)
	if err != nil {
		return 0, fmt.Errorf("failed to get max round: %w", err)
	}
	return int(round.Int64), nil
}

// CountByRegistration returns the number of review rounds for a registration
func (r *ReviewRepository) CountByRegistration(ctx context.Context, registrationID int64) (int64, error) {
	var count int64
	err := r.executor(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM claim_reviews WHERE claim_registration_id = ?`,
		registrationID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}

// Verify interface compliance
var _ port.ReviewRepository = (*ReviewRepository)(nil)
