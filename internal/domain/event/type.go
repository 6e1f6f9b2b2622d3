package event

// Type identifies the type of domain event
type Type string

const (
	TypeRegistrationCreated       Type = "registration.created"
	TypeRegistrationStatusChanged Type = "registration.status_changed"
	TypeMaterialReceived          Type = "registration.material_received"
	TypeRegistrationDeleted       Type = "registration.deleted"
	TypeReviewStarted             Type = "review.started"
	TypeReviewCompleted           Type = "review.completed"
	TypeSupplementRequested       Type = "review.supplement_requested"
	TypeConfirmationCreated       Type = "confirmation.created"
	TypeConfirmationStatusChanged Type = "confirmation.status_changed"
	TypeClaimFinalized            Type = "confirmation.finalized"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeRegistrationCreated,
		TypeRegistrationStatusChanged,
		TypeMaterialReceived,
		TypeRegistrationDeleted,
		TypeReviewStarted,
		TypeReviewCompleted,
		TypeSupplementRequested,
		TypeConfirmationCreated,
		TypeConfirmationStatusChanged,
		TypeClaimFinalized:
		return true
	default:
		return false
	}
}
