// Package workflow holds the approval state machine for removal requests:
// the role/status authorization table, the fixed stage ordering, and the
// pure decision-application logic. Nothing here touches storage; the
// service layer feeds it entities and persists what comes back.
package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when a decision targets a request
	// with no active stage (already APPROVED/REJECTED, or still DRAFT).
	ErrInvalidTransition = errors.New("request is not awaiting approval")

	// ErrMissingSignature is returned when an approval carries no signature.
	ErrMissingSignature = errors.New("signature is required to approve")

	// ErrMissingRejectionReason is returned when a rejection carries no reason.
	ErrMissingRejectionReason = errors.New("rejection reason is required to reject")
)
