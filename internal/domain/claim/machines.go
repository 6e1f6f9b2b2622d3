package claim

import "github.com/garyjia/claim-adjudication/internal/domain/workflow"

// Triggers for the three stage state machines.
const (
	TriggerRegister workflow.Trigger = "REGISTER"
	TriggerReject   workflow.Trigger = "REJECT"

	TriggerBeginReview       workflow.Trigger = "BEGIN_REVIEW"
	TriggerSubmitReview      workflow.Trigger = "SUBMIT_REVIEW"
	TriggerRequestSupplement workflow.Trigger = "REQUEST_SUPPLEMENT"

	TriggerObject             workflow.Trigger = "OBJECT"
	TriggerResolveNegotiation workflow.Trigger = "RESOLVE_NEGOTIATION"
	TriggerEscalateCourt      workflow.Trigger = "ESCALATE_COURT"
	TriggerEnterRuling        workflow.Trigger = "ENTER_RULING"
	TriggerEscalateLawsuit    workflow.Trigger = "ESCALATE_LAWSUIT"
	TriggerCompleteLawsuit    workflow.Trigger = "COMPLETE_LAWSUIT"
	TriggerFinalize           workflow.Trigger = "FINALIZE"
)

// BuildRegistrationMachine returns the registration stage machine.
// REGISTERED and REJECTED are terminal for this stage.
func BuildRegistrationMachine(initial RegistrationStatus) workflow.StateMachine {
	builder := workflow.NewBuilder()

	builder.Configure(workflow.State(RegistrationPending)).
		Permit(TriggerRegister, workflow.State(RegistrationRegistered)).
		Permit(TriggerReject, workflow.State(RegistrationRejected))

	return builder.Build(workflow.State(initial))
}

// BuildReviewMachine returns the review round machine. A round drafted in
// IN_PROGRESS either completes or is sent back for supplement; a supplemented
// round resubmits under the same round number.
func BuildReviewMachine(initial ReviewStatus) workflow.StateMachine {
	builder := workflow.NewBuilder()

	builder.Configure(workflow.State(ReviewPending)).
		Permit(TriggerBeginReview, workflow.State(ReviewInProgress))

	builder.Configure(workflow.State(ReviewInProgress)).
		Permit(TriggerSubmitReview, workflow.State(ReviewCompleted)).
		Permit(TriggerRequestSupplement, workflow.State(ReviewSupplement))

	builder.Configure(workflow.State(ReviewSupplement)).
		Permit(TriggerSubmitReview, workflow.State(ReviewCompleted))

	return builder.Build(workflow.State(initial))
}

// BuildConfirmationMachine returns the confirmation stage machine. PENDING is
// re-enterable from every sub-flow; CONFIRMED is reached only through
// finalize and is terminal.
func BuildConfirmationMachine(initial ConfirmationStatus) workflow.StateMachine {
	builder := workflow.NewBuilder()

	builder.Configure(workflow.State(ConfirmationPending)).
		Permit(TriggerObject, workflow.State(ConfirmationObjection)).
		Permit(TriggerFinalize, workflow.State(ConfirmationConfirmed))

	builder.Configure(workflow.State(ConfirmationObjection)).
		Permit(TriggerObject, workflow.State(ConfirmationObjection)).
		Permit(TriggerResolveNegotiation, workflow.State(ConfirmationPending)).
		Permit(TriggerEscalateCourt, workflow.State(ConfirmationCourt)).
		Permit(TriggerEscalateLawsuit, workflow.State(ConfirmationLawsuit))

	builder.Configure(workflow.State(ConfirmationCourt)).
		Permit(TriggerEnterRuling, workflow.State(ConfirmationPending))

	builder.Configure(workflow.State(ConfirmationLawsuit)).
		Permit(TriggerCompleteLawsuit, workflow.State(ConfirmationPending))

	return builder.Build(workflow.State(initial))
}
