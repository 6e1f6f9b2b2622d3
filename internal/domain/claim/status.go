package claim

// RegistrationStatus is the lifecycle status of a claim registration.
type RegistrationStatus string

const (
	RegistrationPending    RegistrationStatus = "PENDING"
	RegistrationRegistered RegistrationStatus = "REGISTERED"
	RegistrationRejected   RegistrationStatus = "REJECTED"
)

var validRegistrationStatuses = map[RegistrationStatus]bool{
	RegistrationPending:    true,
	RegistrationRegistered: true,
	RegistrationRejected:   true,
}

// IsValid returns true if the status is one of the defined constants
func (s RegistrationStatus) IsValid() bool { return validRegistrationStatuses[s] }

// IsTerminal returns true if no further registration status transitions are allowed
func (s RegistrationStatus) IsTerminal() bool {
	return s == RegistrationRegistered || s == RegistrationRejected
}

func (s RegistrationStatus) String() string { return string(s) }

// MaterialCompleteness records whether the creditor's submitted material is complete.
type MaterialCompleteness string

const (
	MaterialPending    MaterialCompleteness = "PENDING"
	MaterialIncomplete MaterialCompleteness = "INCOMPLETE"
	MaterialComplete   MaterialCompleteness = "COMPLETE"
)

var validMaterialCompleteness = map[MaterialCompleteness]bool{
	MaterialPending:    true,
	MaterialIncomplete: true,
	MaterialComplete:   true,
}

func (m MaterialCompleteness) IsValid() bool { return validMaterialCompleteness[m] }
func (m MaterialCompleteness) String() string { return string(m) }

// ReviewStatus is the lifecycle status of one review round.
type ReviewStatus string

const (
	ReviewPending    ReviewStatus = "PENDING"
	ReviewInProgress ReviewStatus = "IN_PROGRESS"
	ReviewCompleted  ReviewStatus = "COMPLETED"
	ReviewSupplement ReviewStatus = "SUPPLEMENT"
)

var validReviewStatuses = map[ReviewStatus]bool{
	ReviewPending:    true,
	ReviewInProgress: true,
	ReviewCompleted:  true,
	ReviewSupplement: true,
}

func (s ReviewStatus) IsValid() bool    { return validReviewStatuses[s] }
func (s ReviewStatus) IsTerminal() bool { return s == ReviewCompleted }
func (s ReviewStatus) String() string   { return string(s) }

// ReviewConclusion is the outcome of a completed review round.
type ReviewConclusion string

const (
	ConclusionConfirmed        ReviewConclusion = "CONFIRMED"
	ConclusionPartialConfirmed ReviewConclusion = "PARTIAL_CONFIRMED"
	ConclusionUnconfirmed      ReviewConclusion = "UNCONFIRMED"
)

var validConclusions = map[ReviewConclusion]bool{
	ConclusionConfirmed:        true,
	ConclusionPartialConfirmed: true,
	ConclusionUnconfirmed:      true,
}

func (c ReviewConclusion) IsValid() bool  { return validConclusions[c] }
func (c ReviewConclusion) String() string { return string(c) }

// EvidenceAuthenticity grades whether submitted evidence is genuine.
type EvidenceAuthenticity string

const (
	EvidenceAuthentic  EvidenceAuthenticity = "AUTHENTIC"
	EvidenceSuspicious EvidenceAuthenticity = "SUSPICIOUS"
	EvidenceFake       EvidenceAuthenticity = "FAKE"
)

func (e EvidenceAuthenticity) IsValid() bool {
	switch e {
	case EvidenceAuthentic, EvidenceSuspicious, EvidenceFake:
		return true
	}
	return false
}

// EvidenceRelevance grades whether evidence bears on the claimed amounts.
type EvidenceRelevance string

const (
	EvidenceRelevant   EvidenceRelevance = "RELEVANT"
	EvidenceIrrelevant EvidenceRelevance = "IRRELEVANT"
)

func (e EvidenceRelevance) IsValid() bool {
	return e == EvidenceRelevant || e == EvidenceIrrelevant
}

// EvidenceLegality grades whether evidence was lawfully obtained.
type EvidenceLegality string

const (
	EvidenceLegal   EvidenceLegality = "LEGAL"
	EvidenceIllegal EvidenceLegality = "ILLEGAL"
)

func (e EvidenceLegality) IsValid() bool {
	return e == EvidenceLegal || e == EvidenceIllegal
}

// CollateralValidity grades an asserted security interest.
type CollateralValidity string

const (
	CollateralValid   CollateralValidity = "VALID"
	CollateralInvalid CollateralValidity = "INVALID"
	CollateralPartial CollateralValidity = "PARTIAL"
)

func (c CollateralValidity) IsValid() bool {
	switch c {
	case CollateralValid, CollateralInvalid, CollateralPartial:
		return true
	}
	return false
}

// ConfirmationStatus is the lifecycle status of a confirmation record.
type ConfirmationStatus string

const (
	ConfirmationPending   ConfirmationStatus = "PENDING"
	ConfirmationConfirmed ConfirmationStatus = "CONFIRMED"
	ConfirmationObjection ConfirmationStatus = "OBJECTION"
	ConfirmationCourt     ConfirmationStatus = "COURT"
	ConfirmationLawsuit   ConfirmationStatus = "LAWSUIT"
)

var validConfirmationStatuses = map[ConfirmationStatus]bool{
	ConfirmationPending:   true,
	ConfirmationConfirmed: true,
	ConfirmationObjection: true,
	ConfirmationCourt:     true,
	ConfirmationLawsuit:   true,
}

func (s ConfirmationStatus) IsValid() bool    { return validConfirmationStatuses[s] }
func (s ConfirmationStatus) IsTerminal() bool { return s == ConfirmationConfirmed }
func (s ConfirmationStatus) String() string   { return string(s) }

// MeetingType identifies which creditor meeting voted on the claim.
type MeetingType string

const (
	MeetingFirst     MeetingType = "FIRST"
	MeetingSecond    MeetingType = "SECOND"
	MeetingTemporary MeetingType = "TEMPORARY"
)

func (m MeetingType) IsValid() bool {
	switch m {
	case MeetingFirst, MeetingSecond, MeetingTemporary:
		return true
	}
	return false
}

// VoteResult is a creditor-meeting vote on the claim.
type VoteResult string

const (
	VoteAgree    VoteResult = "AGREE"
	VoteDisagree VoteResult = "DISAGREE"
	VoteAbstain  VoteResult = "ABSTAIN"
)

func (v VoteResult) IsValid() bool {
	switch v {
	case VoteAgree, VoteDisagree, VoteAbstain:
		return true
	}
	return false
}

// RulingResult is the outcome of a court ruling on the claim.
type RulingResult string

const (
	RulingConfirmed        RulingResult = "CONFIRMED"
	RulingPartialConfirmed RulingResult = "PARTIAL_CONFIRMED"
	RulingUnconfirmed      RulingResult = "UNCONFIRMED"
)

func (r RulingResult) IsValid() bool {
	switch r {
	case RulingConfirmed, RulingPartialConfirmed, RulingUnconfirmed:
		return true
	}
	return false
}

// LawsuitStatus tracks litigation progress. Statuses advance strictly in
// declaration order; skipping forward or moving backward is rejected.
type LawsuitStatus string

const (
	LawsuitPending   LawsuitStatus = "PENDING"
	LawsuitTrialing  LawsuitStatus = "TRIALING"
	LawsuitJudged    LawsuitStatus = "JUDGED"
	LawsuitExecuting LawsuitStatus = "EXECUTING"
	LawsuitCompleted LawsuitStatus = "COMPLETED"
)

var lawsuitOrder = []LawsuitStatus{
	LawsuitPending,
	LawsuitTrialing,
	LawsuitJudged,
	LawsuitExecuting,
	LawsuitCompleted,
}

func (s LawsuitStatus) IsValid() bool {
	for _, o := range lawsuitOrder {
		if s == o {
			return true
		}
	}
	return false
}

func (s LawsuitStatus) String() string { return string(s) }

// Next returns the only lawsuit status that may follow s, or "" if s is
// COMPLETED or invalid.
func (s LawsuitStatus) Next() LawsuitStatus {
	for i, o := range lawsuitOrder[:len(lawsuitOrder)-1] {
		if s == o {
			return lawsuitOrder[i+1]
		}
	}
	return ""
}

// LawsuitResult is the outcome of completed litigation.
type LawsuitResult string

const (
	LawsuitWin     LawsuitResult = "WIN"
	LawsuitLose    LawsuitResult = "LOSE"
	LawsuitPartial LawsuitResult = "PARTIAL"
	LawsuitSettled LawsuitResult = "SETTLED"
)

func (r LawsuitResult) IsValid() bool {
	switch r {
	case LawsuitWin, LawsuitLose, LawsuitPartial, LawsuitSettled:
		return true
	}
	return false
}

// FinalBasis names the authoritative source of the final confirmed amount.
type FinalBasis string

const (
	BasisMeeting    FinalBasis = "MEETING"
	BasisCourt      FinalBasis = "COURT"
	BasisSettlement FinalBasis = "SETTLEMENT"
	BasisOther      FinalBasis = "OTHER"
)

func (b FinalBasis) IsValid() bool {
	switch b {
	case BasisMeeting, BasisCourt, BasisSettlement, BasisOther:
		return true
	}
	return false
}

func (b FinalBasis) String() string { return string(b) }
