package claim

import "time"

// Registration is the root record of a creditor's claim: the initial
// submission, material receipt tracking, and registration status. Reviews and
// Confirmations reference it and are never shared across registrations.
type Registration struct {
	ID      int64  `json:"id"`
	ClaimNo string `json:"claim_no"`
	CaseID  string `json:"case_id"`
	Debtor  string `json:"debtor"`

	CreditorName        string `json:"creditor_name"`
	CreditorType        string `json:"creditor_type"`
	CreditCode          string `json:"credit_code"`
	LegalRepresentative string `json:"legal_representative"`
	AgentName           string `json:"agent_name,omitempty"`
	AgentPhone          string `json:"agent_phone,omitempty"`
	BankName            string `json:"bank_name,omitempty"`
	BankAccount         string `json:"bank_account,omitempty"`

	Declared Amounts `json:"declared"`

	HasCourtJudgment bool `json:"has_court_judgment"`
	HasExecution     bool `json:"has_execution"`
	HasCollateral    bool `json:"has_collateral"`

	ClaimNature string `json:"claim_nature"`
	ClaimType   string `json:"claim_type"`
	ClaimFacts  string `json:"claim_facts,omitempty"`

	// Opaque file identifiers; the core performs no file I/O.
	EvidenceAttachments []string `json:"evidence_attachments,omitempty"`

	RegistrationDate     time.Time  `json:"registration_date"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`

	MaterialReceiver     string               `json:"material_receiver,omitempty"`
	MaterialReceiveDate  *time.Time           `json:"material_receive_date,omitempty"`
	MaterialCompleteness MaterialCompleteness `json:"material_completeness"`

	Status       RegistrationStatus `json:"registration_status"`
	RejectReason string             `json:"reject_reason,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
