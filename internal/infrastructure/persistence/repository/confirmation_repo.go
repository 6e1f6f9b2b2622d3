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

const confirmationColumns = `
	id, claim_registration_id, case_id, creditor_name,
	meeting_type, meeting_date, meeting_location, vote_result, vote_notes,
	has_objection, objector, objection_reason, objection_amount, objection_date,
	negotiation_result, negotiation_date, negotiation_participants,
	court_ruling_date, court_ruling_no, court_ruling_result, court_ruling_amount, court_ruling_notes,
	has_lawsuit, lawsuit_case_no, lawsuit_status, lawsuit_result, lawsuit_amount,
	final_confirmed_amount, final_confirmation_date, final_basis,
	confirmation_status, attachments,
	version, created_at, updated_at`

// ConfirmationRepository implements port.ConfirmationRepository on sqlite
type ConfirmationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewConfirmationRepository creates a new confirmation repository
func NewConfirmationRepository(db *sql.DB, logger *zap.Logger) port.ConfirmationRepository {
	return &ConfirmationRepository{db: db, logger: logger}
}

func (r *ConfirmationRepository) executor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFor(ctx, r.db)
}

// Create inserts a new confirmation record
func (r *ConfirmationRepository) Create(ctx context.Context, conf *claim.Confirmation) error {
	query := `
		INSERT INTO claim_confirmations (
			claim_registration_id, case_id, creditor_name,
			meeting_type, meeting_date, meeting_location, vote_result, vote_notes,
			has_objection, objector, objection_reason, objection_amount, objection_date,
			negotiation_result, negotiation_date, negotiation_participants,
			court_ruling_date, court_ruling_no, court_ruling_result, court_ruling_amount, court_ruling_notes,
			has_lawsuit, lawsuit_case_no, lawsuit_status, lawsuit_result, lawsuit_amount,
			final_confirmed_amount, final_confirmation_date, final_basis,
			confirmation_status, attachments,
			version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`

	result, err := r.executor(ctx).ExecContext(ctx, query,
		conf.ClaimRegistrationID, conf.CaseID, conf.CreditorName,
		string(conf.MeetingType), nullTimeToDB(conf.MeetingDate), conf.MeetingLocation,
		string(conf.VoteResult), conf.VoteNotes,
		conf.HasObjection, conf.Objector, conf.ObjectionReason,
		nullDecToDB(conf.ObjectionAmount), nullTimeToDB(conf.ObjectionDate),
		conf.NegotiationResult, nullTimeToDB(conf.NegotiationDate), conf.NegotiationParticipants,
		nullTimeToDB(conf.CourtRulingDate), conf.CourtRulingNo, string(conf.CourtRulingResult),
		nullDecToDB(conf.CourtRulingAmount), conf.CourtRulingNotes,
		conf.HasLawsuit, conf.LawsuitCaseNo, string(conf.LawsuitStatus), string(conf.LawsuitResult),
		nullDecToDB(conf.LawsuitAmount),
		decToDB(conf.FinalConfirmedAmount), nullTimeToDB(conf.FinalConfirmationDate), string(conf.FinalBasis),
		string(conf.Status), attachmentsToDB(conf.Attachments),
		conf.CreatedAt, conf.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create confirmation", zap.Error(err))
		return mapConstraintErr(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	conf.ID = id
	conf.Version = 1
	return nil
}

func scanConfirmation(scan func(dest ...interface{}) error) (*claim.Confirmation, error) {
	var conf claim.Confirmation
	var meetingType, voteResult, rulingResult, lawsuitStatus, lawsuitResult string
	var finalBasis, status, finalAmount, attachments string
	var meetingDate, objectionDate, negotiationDate, rulingDate, finalDate sql.NullTime
	var objectionAmount, rulingAmount, lawsuitAmount sql.NullString

	err := scan(
		&conf.ID, &conf.ClaimRegistrationID, &conf.CaseID, &conf.CreditorName,
		&meetingType, &meetingDate, &conf.MeetingLocation, &voteResult, &conf.VoteNotes,
		&conf.HasObjection, &conf.Objector, &conf.ObjectionReason, &objectionAmount, &objectionDate,
		&conf.NegotiationResult, &negotiationDate, &conf.NegotiationParticipants,
		&rulingDate, &conf.CourtRulingNo, &rulingResult, &rulingAmount, &conf.CourtRulingNotes,
		&conf.HasLawsuit, &conf.LawsuitCaseNo, &lawsuitStatus, &lawsuitResult, &lawsuitAmount,
		&finalAmount, &finalDate, &finalBasis,
		&status, &attachments,
		&conf.Version, &conf.CreatedAt, &conf.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	conf.MeetingType = claim.MeetingType(meetingType)
	conf.MeetingDate = nullTimeFromDB(meetingDate)
	conf.VoteResult = claim.VoteResult(voteResult)
	conf.ObjectionDate = nullTimeFromDB(objectionDate)
	conf.NegotiationDate = nullTimeFromDB(negotiationDate)
	conf.CourtRulingDate = nullTimeFromDB(rulingDate)
	conf.CourtRulingResult = claim.RulingResult(rulingResult)
	conf.LawsuitStatus = claim.LawsuitStatus(lawsuitStatus)
	conf.LawsuitResult = claim.LawsuitResult(lawsuitResult)
	conf.FinalConfirmationDate = nullTimeFromDB(finalDate)
	conf.FinalBasis = claim.FinalBasis(finalBasis)
	conf.Status = claim.ConfirmationStatus(status)
	conf.Attachments = attachmentsFromDB(attachments)

	if conf.ObjectionAmount, err = nullDecFromDB(objectionAmount); err != nil {
		return nil, err
	}
	if conf.CourtRulingAmount, err = nullDecFromDB(rulingAmount); err != nil {
		return nil, err
	}
	if conf.LawsuitAmount, err = nullDecFromDB(lawsuitAmount); err != nil {
		return nil, err
	}
	if conf.FinalConfirmedAmount, err = decFromDB(finalAmount); err != nil {
		return nil, err
	}

	return &conf, nil
}

// GetByID retrieves a confirmation by ID, returning nil when absent
func (r *ConfirmationRepository) GetByID(ctx context.Context, id int64) (*claim.Confirmation, error) {
	query := `SELECT ` + confirmationColumns + ` FROM claim_confirmations WHERE id = ?`

	row := r.executor(ctx).QueryRowContext(ctx, query, id)
	conf, err := scanConfirmation(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get confirmation by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get confirmation: %w", err)
	}
	return conf, nil
}

// Update writes every mutable column conditioned on the version read by the caller
func (r *ConfirmationRepository) Update(ctx context.Context, conf *claim.Confirmation) error {
	query := `
		UPDATE claim_confirmations SET
			meeting_type = ?, meeting_date = ?, meeting_location = ?, vote_result = ?, vote_notes = ?,
			has_objection = ?, objector = ?, objection_reason = ?, objection_amount = ?, objection_date = ?,
			negotiation_result = ?, negotiation_date = ?, negotiation_participants = ?,
			court_ruling_date = ?, court_ruling_no = ?, court_ruling_result = ?, court_ruling_amount = ?, court_ruling_notes = ?,
			has_lawsuit = ?, lawsuit_case_no = ?, lawsuit_status = ?, lawsuit_result = ?, lawsuit_amount = ?,
			final_confirmed_amount = ?, final_confirmation_date = ?, final_basis = ?,
			confirmation_status = ?, attachments = ?,
			version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`

	result, err := r.executor(ctx).ExecContext(ctx, query,
		string(conf.MeetingType), nullTimeToDB(conf.MeetingDate), conf.MeetingLocation,
		string(conf.VoteResult), conf.VoteNotes,
		conf.HasObjection, conf.Objector, conf.ObjectionReason,
		nullDecToDB(conf.ObjectionAmount), nullTimeToDB(conf.ObjectionDate),
		conf.NegotiationResult, nullTimeToDB(conf.NegotiationDate), conf.NegotiationParticipants,
		nullTimeToDB(conf.CourtRulingDate), conf.CourtRulingNo, string(conf.CourtRulingResult),
		nullDecToDB(conf.CourtRulingAmount), conf.CourtRulingNotes,
		conf.HasLawsuit, conf.LawsuitCaseNo, string(conf.LawsuitStatus), string(conf.LawsuitResult),
		nullDecToDB(conf.LawsuitAmount),
		decToDB(conf.FinalConfirmedAmount), nullTimeToDB(conf.FinalConfirmationDate), string(conf.FinalBasis),
		string(conf.Status), attachmentsToDB(conf.Attachments),
		conf.UpdatedAt,
		conf.ID, conf.Version,
	)
	if err != nil {
		r.logger.Error("Failed to update confirmation", zap.Int64("id", conf.ID), zap.Error(err))
		return fmt.Errorf("failed to update confirmation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("confirmation %d at version %d: %w", conf.ID, conf.Version, claim.ErrConflict)
	}

	conf.Version++
	return nil
}

// ListByRegistration returns all confirmation records for a registration in
// creation order
func (r *ConfirmationRepository) ListByRegistration(ctx context.Context, registrationID int64) ([]*claim.Confirmation, error) {
	query := `SELECT ` + confirmationColumns + ` FROM claim_confirmations
		WHERE claim_registration_id = ? ORDER BY id ASC`

	rows, err := r.executor(ctx).QueryContext(ctx, query, registrationID)
	if err != nil {
		r.logger.Error("Failed to list confirmations", zap.Int64("registration_id", registrationID), zap.Error(err))
		return nil, fmt.Errorf("failed to list confirmations: %w", err)
	}
	defer rows.Close()

	var confs []*claim.Confirmation
	for rows.Next() {
		conf, err := scanConfirmation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan confirmation: %w", err)
		}
		confs = append(confs, conf)
	}
	return confs, rows.Err()
}

// Latest returns the most recent confirmation record, or nil
func (r *ConfirmationRepository) Latest(ctx context.Context, registrationID int64) (*claim.Confirmation, error) {
	query := `SELECT ` + confirmationColumns + ` FROM claim_confirmations
		WHERE claim_registration_id = ? ORDER BY id DESC LIMIT 1`

	row := r.executor(ctx).QueryRowContext(ctx, query, registrationID)
	conf, err := scanConfirmation(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest confirmation: %w", err)
	}
	return conf, nil
}

// CountByRegistration returns the number of confirmation records for a registration
func (r *ConfirmationRepository) CountByRegistration(ctx context.Context, registrationID int64) (int64, error) {
	var count int64
	err := r.executor(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM claim_confirmations WHERE claim_registration_id = ?`,
		registrationID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count confirmations: %w", err)
	}
	return count, nil
}

// Verify interface compliance
var _ port.ConfirmationRepository = (*ConfirmationRepository)(nil)
