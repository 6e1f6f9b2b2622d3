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

const registrationColumns = `
	id, claim_no, case_id, debtor, creditor_name, creditor_type, credit_code,
	legal_representative, agent_name, agent_phone, bank_name, bank_account,
	principal, interest, penalty, other_losses, total_amount,
	has_court_judgment, has_execution, has_collateral,
	claim_nature, claim_type, claim_facts, evidence_attachments,
	registration_date, registration_deadline,
	material_receiver, material_receive_date, material_completeness,
	registration_status, reject_reason, version, created_at, updated_at`

// RegistrationRepository implements port.RegistrationRepository on sqlite
type RegistrationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db *sql.DB, logger *zap.Logger) port.RegistrationRepository {
	return &RegistrationRepository{db: db, logger: logger}
}

func (r *RegistrationRepository) executor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFor(ctx, r.db)
}

// Create inserts a new registration with version 1
func (r *RegistrationRepository) Create(ctx context.Context, reg *claim.Registration) error {
	query := `
		INSERT INTO claim_registrations (
			claim_no, case_id, debtor, creditor_name, creditor_type, credit_code,
			legal_representative, agent_name, agent_phone, bank_name, bank_account,
			principal, interest, penalty, other_losses, total_amount,
			has_court_judgment, has_execution, has_collateral,
			claim_nature, claim_type, claim_facts, evidence_attachments,
			registration_date, registration_deadline,
			material_receiver, material_receive_date, material_completeness,
			registration_status, reject_reason, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`

	result, err := r.executor(ctx).ExecContext(ctx, query,
		reg.ClaimNo, reg.CaseID, reg.Debtor, reg.CreditorName, reg.CreditorType, reg.CreditCode,
		reg.LegalRepresentative, reg.AgentName, reg.AgentPhone, reg.BankName, reg.BankAccount,
		decToDB(reg.Declared.Principal), decToDB(reg.Declared.Interest),
		decToDB(reg.Declared.Penalty), decToDB(reg.Declared.OtherLosses), decToDB(reg.Declared.Total),
		reg.HasCourtJudgment, reg.HasExecution, reg.HasCollateral,
		reg.ClaimNature, reg.ClaimType, reg.ClaimFacts, attachmentsToDB(reg.EvidenceAttachments),
		reg.RegistrationDate, nullTimeToDB(reg.RegistrationDeadline),
		reg.MaterialReceiver, nullTimeToDB(reg.MaterialReceiveDate), string(reg.MaterialCompleteness),
		string(reg.Status), reg.RejectReason, reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create registration", zap.Error(err))
		return mapConstraintErr(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	reg.ID = id
	reg.Version = 1
	return nil
}

func scanRegistration(scan func(dest ...interface{}) error) (*claim.Registration, error) {
	var reg claim.Registration
	var principal, interest, penalty, otherLosses, total string
	var deadline, materialDate sql.NullTime
	var attachments, completeness, status string

	err := scan(
		&reg.ID, &reg.ClaimNo, &reg.CaseID, &reg.Debtor, &reg.CreditorName, &reg.CreditorType, &reg.CreditCode,
		&reg.LegalRepresentative, &reg.AgentName, &reg.AgentPhone, &reg.BankName, &reg.BankAccount,
		&principal, &interest, &penalty, &otherLosses, &total,
		&reg.HasCourtJudgment, &reg.HasExecution, &reg.HasCollateral,
		&reg.ClaimNature, &reg.ClaimType, &reg.ClaimFacts, &attachments,
		&reg.RegistrationDate, &deadline,
		&reg.MaterialReceiver, &materialDate, &completeness,
		&status, &reg.RejectReason, &reg.Version, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if reg.Declared.Principal, err = decFromDB(principal); err != nil {
		return nil, err
	}
	if reg.Declared.Interest, err = decFromDB(interest); err != nil {
		return nil, err
	}
	if reg.Declared.Penalty, err = decFromDB(penalty); err != nil {
		return nil, err
	}
	if reg.Declared.OtherLosses, err = decFromDB(otherLosses); err != nil {
		return nil, err
	}
	if reg.Declared.Total, err = decFromDB(total); err != nil {
		return nil, err
	}

	reg.EvidenceAttachments = attachmentsFromDB(attachments)
	reg.RegistrationDeadline = nullTimeFromDB(deadline)
	reg.MaterialReceiveDate = nullTimeFromDB(materialDate)
	reg.MaterialCompleteness = claim.MaterialCompleteness(completeness)
	reg.Status = claim.RegistrationStatus(status)

	return &reg, nil
}

// GetByID retrieves a registration by ID, returning nil when absent
func (r *RegistrationRepository) GetByID(ctx context.Context, id int64) (*claim.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM claim_registrations WHERE id = ?`

	row := r.executor(ctx).QueryRowContext(ctx, query, id)
	reg, err := scanRegistration(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get registration by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return reg, nil
}

// GetByClaimNo retrieves a registration by claim number, returning nil when absent
func (r *RegistrationRepository) GetByClaimNo(ctx context.Context, claimNo string) (*claim.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM claim_registrations WHERE claim_no = ?`

	row := r.executor(ctx).QueryRowContext(ctx, query, claimNo)
	reg, err := scanRegistration(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get registration by claim no", zap.String("claim_no", claimNo), zap.Error(err))
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return reg, nil
}

// Update writes every mutable column conditioned on the version read by the
// caller. A stale version affects zero rows and is reported as a conflict.
func (r *RegistrationRepository) Update(ctx context.Context, reg *claim.Registration) error {
	query := `
		UPDATE claim_registrations SET
			debtor = ?, creditor_name = ?, creditor_type = ?, credit_code = ?,
			legal_representative = ?, agent_name = ?, agent_phone = ?, bank_name = ?, bank_account = ?,
			principal = ?, interest = ?, penalty = ?, other_losses = ?, total_amount = ?,
			has_court_judgment = ?, has_execution = ?, has_collateral = ?,
			claim_nature = ?, claim_type = ?, claim_facts = ?, evidence_attachments = ?,
			registration_deadline = ?,
			material_receiver = ?, material_receive_date = ?, material_completeness = ?,
			registration_status = ?, reject_reason = ?,
			version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`

	result, err := r.executor(ctx).ExecContext(ctx, query,
		reg.Debtor, reg.CreditorName, reg.CreditorType, reg.CreditCode,
		reg.LegalRepresentative, reg.AgentName, reg.AgentPhone, reg.BankName, reg.BankAccount,
		decToDB(reg.Declared.Principal), decToDB(reg.Declared.Interest),
		decToDB(reg.Declared.Penalty), decToDB(reg.Declared.OtherLosses), decToDB(reg.Declared.Total),
		reg.HasCourtJudgment, reg.HasExecution, reg.HasCollateral,
		reg.ClaimNature, reg.ClaimType, reg.ClaimFacts, attachmentsToDB(reg.EvidenceAttachments),
		nullTimeToDB(reg.RegistrationDeadline),
		reg.MaterialReceiver, nullTimeToDB(reg.MaterialReceiveDate), string(reg.MaterialCompleteness),
		string(reg.Status), reg.RejectReason, reg.UpdatedAt,
		reg.ID, reg.Version,
	)
	if err != nil {
		r.logger.Error("Failed to update registration", zap.Int64("id", reg.ID), zap.Error(err))
		return fmt.Errorf("failed to update registration: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("registration %d at version %d: %w", reg.ID, reg.Version, claim.ErrConflict)
	}

	reg.Version++
	return nil
}

// Delete removes a registration row
func (r *RegistrationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.executor(ctx).ExecContext(ctx, `DELETE FROM claim_registrations WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete registration", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("registration %d: %w", id, claim.ErrNotFound)
	}
	return nil
}

func filterClause(filter port.ListFilter) (string, []interface{}) {
	clause := " WHERE 1=1"
	var args []interface{}
	if filter.CaseID != "" {
		clause += " AND case_id = ?"
		args = append(args, filter.CaseID)
	}
	if filter.Status != "" {
		clause += " AND registration_status = ?"
		args = append(args, filter.Status)
	}
	if filter.CreditorName != "" {
		clause += " AND creditor_name LIKE ?"
		args = append(args, "%"+filter.CreditorName+"%")
	}
	return clause, args
}

// List retrieves registrations matching the filter with pagination
func (r *RegistrationRepository) List(ctx context.Context, filter port.ListFilter) ([]*claim.Registration, error) {
	clause, args := filterClause(filter)
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + registrationColumns + ` FROM claim_registrations` + clause +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := r.executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list registrations", zap.Error(err))
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	var regs []*claim.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// Count returns the number of registrations matching the filter
func (r *RegistrationRepository) Count(ctx context.Context, filter port.ListFilter) (int64, error) {
	clause, args := filterClause(filter)

	var count int64
	err := r.executor(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM claim_registrations`+clause, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}

// NextClaimSeq increments and returns the per-case claim number sequence.
// Runs inside the caller's transaction so concurrent creates serialize.
func (r *RegistrationRepository) NextClaimSeq(ctx context.Context, caseID string) (int64, error) {
	exec := r.executor(ctx)

	_, err := exec.ExecContext(ctx, `
		INSERT INTO case_claim_seq (case_id, next_seq) VALUES (?, 1)
		ON CONFLICT(case_id) DO UPDATE SET next_seq = next_seq + 1
	`, caseID)
	if err != nil {
		return 0, fmt.Errorf("failed to advance claim sequence: %w", err)
	}

	var seq int64
	err = exec.QueryRowContext(ctx, `SELECT next_seq FROM case_claim_seq WHERE case_id = ?`, caseID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to read claim sequence: %w", err)
	}
	return seq, nil
}

// Verify interface compliance
var _ port.RegistrationRepository = (*RegistrationRepository)(nil)
