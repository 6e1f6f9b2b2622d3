package claim

import "time"

// Review is one round of administrator examination of a registration's
// declared amounts. Rounds are append-only: a reopened examination is a new
// round, never an overwrite, so the audit history is preserved. Round numbers
// start at 1 and are strictly increasing per registration.
type Review struct {
	ID                  int64  `json:"id"`
	ClaimRegistrationID int64  `json:"claim_registration_id"`
	CaseID              string `json:"case_id"`
	// Denormalized for display.
	CreditorName string `json:"creditor_name"`

	ReviewRound int `json:"review_round"`

	Declared    Amounts `json:"declared"`
	Confirmed   Amounts `json:"confirmed"`
	Unconfirmed Amounts `json:"unconfirmed"`

	EvidenceAuthenticity EvidenceAuthenticity `json:"evidence_authenticity,omitempty"`
	EvidenceRelevance    EvidenceRelevance    `json:"evidence_relevance,omitempty"`
	EvidenceLegality     EvidenceLegality     `json:"evidence_legality,omitempty"`
	CollateralValidity   CollateralValidity   `json:"collateral_validity,omitempty"`

	UnconfirmedReason          string `json:"unconfirmed_reason,omitempty"`
	InsufficientEvidenceReason string `json:"insufficient_evidence_reason,omitempty"`

	Reviewer   string     `json:"reviewer,omitempty"`
	ReviewDate *time.Time `json:"review_date,omitempty"`

	Conclusion ReviewConclusion `json:"review_conclusion,omitempty"`
	Status     ReviewStatus     `json:"review_status"`

	Attachments []string `json:"review_attachments,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
