package claim

import (
	"time"

	"github.com/shopspring/decimal"
)

// Confirmation determines the legally binding final amount for a claim via
// creditor-meeting vote, objection handling, court ruling, or litigation.
// Records are append-only like reviews; the latest record per registration is
// the current one.
type Confirmation struct {
	ID                  int64  `json:"id"`
	ClaimRegistrationID int64  `json:"claim_registration_id"`
	CaseID              string `json:"case_id"`
	CreditorName        string `json:"creditor_name"`

	MeetingType     MeetingType `json:"meeting_type"`
	MeetingDate     *time.Time  `json:"meeting_date,omitempty"`
	MeetingLocation string      `json:"meeting_location,omitempty"`
	VoteResult      VoteResult  `json:"vote_result,omitempty"`
	VoteNotes       string      `json:"vote_notes,omitempty"`

	HasObjection    bool             `json:"has_objection"`
	Objector        string           `json:"objector,omitempty"`
	ObjectionReason string           `json:"objection_reason,omitempty"`
	ObjectionAmount *decimal.Decimal `json:"objection_amount,omitempty"`
	ObjectionDate   *time.Time       `json:"objection_date,omitempty"`

	NegotiationResult       string     `json:"negotiation_result,omitempty"`
	NegotiationDate         *time.Time `json:"negotiation_date,omitempty"`
	NegotiationParticipants string     `json:"negotiation_participants,omitempty"`

	CourtRulingDate   *time.Time       `json:"court_ruling_date,omitempty"`
	CourtRulingNo     string           `json:"court_ruling_no,omitempty"`
	CourtRulingResult RulingResult     `json:"court_ruling_result,omitempty"`
	CourtRulingAmount *decimal.Decimal `json:"court_ruling_amount,omitempty"`
	CourtRulingNotes  string           `json:"court_ruling_notes,omitempty"`

	HasLawsuit    bool             `json:"has_lawsuit"`
	LawsuitCaseNo string           `json:"lawsuit_case_no,omitempty"`
	LawsuitStatus LawsuitStatus    `json:"lawsuit_status,omitempty"`
	LawsuitResult LawsuitResult    `json:"lawsuit_result,omitempty"`
	LawsuitAmount *decimal.Decimal `json:"lawsuit_amount,omitempty"`

	FinalConfirmedAmount  decimal.Decimal `json:"final_confirmed_amount"`
	FinalConfirmationDate *time.Time      `json:"final_confirmation_date,omitempty"`
	FinalBasis            FinalBasis      `json:"final_confirmation_basis,omitempty"`

	Status ConfirmationStatus `json:"confirmation_status"`

	Attachments []string `json:"confirmation_attachments,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
